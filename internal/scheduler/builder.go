// internal/scheduler/builder.go
package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/epaperd/epaperd/internal/config"
	"github.com/epaperd/epaperd/internal/fleet"
	"github.com/epaperd/epaperd/internal/plugin"
)

// BuildRunners wires one runner per schedule entry. Config validation has
// already checked the references, so lookups failing here means the
// wiring itself is broken.
func BuildRunners(
	cfg *config.Config,
	reg *fleet.Registry,
	plugins *plugin.Registry,
	sender Deliverer,
	log zerolog.Logger,
) ([]*Runner, error) {
	runners := make([]*Runner, 0, len(cfg.Schedule))

	for _, sc := range cfg.Schedule {
		d, err := reg.Lookup(sc.Display)
		if err != nil {
			return nil, err
		}
		g, err := plugins.Lookup(sc.Plugin)
		if err != nil {
			return nil, err
		}

		r, err := NewRunner(Job{
			Display:   d,
			Generator: g,
			Interval:  sc.Every.Std(),
		}, sender, log, cfg.Server.OutputDir)
		if err != nil {
			return nil, err
		}
		runners = append(runners, r)
	}

	return runners, nil
}
