// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
)

// ErrConflictingModes marks a display declaring both tricolor and grayscale.
// The two capabilities are mutually exclusive: payload mode is inferred from
// size alone on the firmware, and a panel claiming both would make the
// double-plane length ambiguous.
var ErrConflictingModes = errors.New("config: tricolor and grayscale are mutually exclusive")

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
//
// Every violation here is fatal at startup, never at delivery time.
func Validate(cfg *Config) error {
	if len(cfg.Displays) == 0 {
		return errors.New("config: at least one display required")
	}

	// ------------------------------------------------------------
	// DISPLAY VALIDATION
	// ------------------------------------------------------------

	seen := make(map[string]bool, len(cfg.Displays))

	for _, d := range cfg.Displays {
		if d.Name == "" {
			return errors.New("config: display name required")
		}
		if seen[d.Name] {
			return fmt.Errorf("config: duplicate display name %q", d.Name)
		}
		seen[d.Name] = true

		if d.Host == "" {
			return fmt.Errorf("config: display %q: host required", d.Name)
		}
		if d.Port < 0 || d.Port > 65535 {
			return fmt.Errorf("config: display %q: invalid port %d", d.Name, d.Port)
		}
		if d.Width <= 0 || d.Height <= 0 {
			return fmt.Errorf("config: display %q: invalid resolution %dx%d",
				d.Name, d.Width, d.Height)
		}

		if d.Tricolor && d.Grayscale {
			return fmt.Errorf("%w (display %q)", ErrConflictingModes, d.Name)
		}

		// Panel widths are always byte-aligned in practice. Enforcing it
		// here keeps the wire sizes exact (W*H/8 with no ceil edge cases)
		// so the firmware's size-based mode detection is unambiguous.
		if d.Width%8 != 0 {
			return fmt.Errorf("config: display %q: width %d not a multiple of 8",
				d.Name, d.Width)
		}
	}

	// ------------------------------------------------------------
	// PLUGIN VALIDATION
	// ------------------------------------------------------------

	plugins := make(map[string]bool, len(cfg.Plugins))

	for _, p := range cfg.Plugins {
		if p.Name == "" {
			return errors.New("config: plugin name required")
		}
		if plugins[p.Name] {
			return fmt.Errorf("config: duplicate plugin name %q", p.Name)
		}
		plugins[p.Name] = true

		if p.Kind == "" {
			return fmt.Errorf("config: plugin %q: kind required", p.Name)
		}
	}

	// ------------------------------------------------------------
	// SCHEDULE VALIDATION
	// ------------------------------------------------------------

	for _, s := range cfg.Schedule {
		if !seen[s.Display] {
			return fmt.Errorf("config: schedule references unknown display %q", s.Display)
		}
		if !plugins[s.Plugin] {
			return fmt.Errorf("config: schedule references unknown plugin %q", s.Plugin)
		}
		if s.Every <= 0 {
			return fmt.Errorf("config: schedule %s <- %s: interval must be > 0",
				s.Display, s.Plugin)
		}
	}

	return nil
}
