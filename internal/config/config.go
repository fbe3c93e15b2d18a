// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/epaperd/epaperd/internal/fleet"
)

// Duration decodes Go duration strings ("10m", "6h") from YAML, which
// yaml.v3 does not do for time.Duration itself.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the plain time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type Config struct {
	Server   ServerConfig     `yaml:"server"`
	Displays []DisplayConfig  `yaml:"displays"`
	Plugins  []PluginConfig   `yaml:"plugins"`
	Schedule []ScheduleConfig `yaml:"schedule"`
}

// ---- SERVER ----

type ServerConfig struct {
	Listen       string    `yaml:"listen"`        // status API bind address
	OutputDir    string    `yaml:"output_dir"`    // debug payload dumps, empty = disabled
	SendTimeout  int       `yaml:"send_timeout"`  // seconds, per delivery attempt
	ProbeTimeout int       `yaml:"probe_timeout"` // seconds, per status probe
	Log          LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// ---- DISPLAY ----

type DisplayConfig struct {
	Name      string `yaml:"name"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Tricolor  bool   `yaml:"tricolor"`
	Grayscale bool   `yaml:"grayscale"`
}

// Display converts a validated entry into its runtime form.
func (d DisplayConfig) Display() fleet.Display {
	mode := fleet.ModeBW
	switch {
	case d.Tricolor:
		mode = fleet.ModeBWR
	case d.Grayscale:
		mode = fleet.ModeGray
	}
	return fleet.Display{
		Name:   d.Name,
		Host:   d.Host,
		Port:   d.Port,
		Width:  d.Width,
		Height: d.Height,
		Mode:   mode,
	}
}

// ---- PLUGIN ----

type PluginConfig struct {
	Name   string            `yaml:"name"`
	Kind   string            `yaml:"kind"`
	Params map[string]string `yaml:"params"`
}

// ---- SCHEDULE ----

type ScheduleConfig struct {
	Display string   `yaml:"display"`
	Plugin  string   `yaml:"plugin"`
	Every   Duration `yaml:"every"`
}

// SendTimeoutDuration returns the per-delivery timeout.
func (s ServerConfig) SendTimeoutDuration() time.Duration {
	return time.Duration(s.SendTimeout) * time.Second
}

// ProbeTimeoutDuration returns the per-probe timeout.
func (s ServerConfig) ProbeTimeoutDuration() time.Duration {
	return time.Duration(s.ProbeTimeout) * time.Second
}

// FleetDisplays returns all displays in configuration order.
func (c *Config) FleetDisplays() []fleet.Display {
	out := make([]fleet.Display, 0, len(c.Displays))
	for _, d := range c.Displays {
		out = append(out, d.Display())
	}
	return out
}
