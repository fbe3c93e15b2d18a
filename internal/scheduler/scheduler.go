// internal/scheduler/scheduler.go

// Package scheduler drives the periodic render -> encode -> deliver
// cycle, one runner per schedule entry. Runners are clock-driven and
// dumb: no retries, no overlap within a runner, failures logged and
// isolated to the cycle they happened in.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/epaperd/epaperd/internal/codec"
	"github.com/epaperd/epaperd/internal/fleet"
	"github.com/epaperd/epaperd/internal/plugin"
)

// Deliverer is the transport slice a runner needs.
type Deliverer interface {
	Send(ctx context.Context, d fleet.Display, payload []byte) error
}

// Job binds one display to one content generator at a fixed interval.
type Job struct {
	Display   fleet.Display
	Generator plugin.Generator
	Interval  time.Duration
}

// Runner executes one job on its own clock.
type Runner struct {
	job       Job
	sender    Deliverer
	log       zerolog.Logger
	outputDir string // debug payload dumps, empty = disabled
}

// NewRunner creates a runner with immutable config.
func NewRunner(job Job, sender Deliverer, log zerolog.Logger, outputDir string) (*Runner, error) {
	if job.Display.Name == "" {
		return nil, errors.New("scheduler: display required")
	}
	if job.Generator == nil {
		return nil, errors.New("scheduler: generator required")
	}
	if job.Interval <= 0 {
		return nil, errors.New("scheduler: interval must be > 0")
	}
	return &Runner{
		job:       job,
		sender:    sender,
		log:       log.With().Str("display", job.Display.Name).Str("plugin", job.Generator.Name()).Logger(),
		outputDir: outputDir,
	}, nil
}

// RunOnce performs exactly one update cycle. An encoding failure skips
// delivery entirely; a delivery failure has already been recorded by the
// transport. Either way the next scheduled cycle proceeds normally.
func (r *Runner) RunOnce(ctx context.Context) error {
	d := r.job.Display

	img, err := r.job.Generator.Generate(ctx, plugin.Request{
		Width:  d.Width,
		Height: d.Height,
		Mode:   d.Mode,
	})
	if err != nil {
		return fmt.Errorf("scheduler: generate: %w", err)
	}

	payload, err := codec.Encode(d, img)
	if err != nil {
		return fmt.Errorf("scheduler: encode: %w", err)
	}

	r.dumpPayload(payload)

	return r.sender.Send(ctx, d, payload)
}

// Run executes the first cycle immediately, then ticks at the job
// interval until the context is canceled. One goroutine per runner.
func (r *Runner) Run(ctx context.Context) {
	r.cycle(ctx)

	ticker := time.NewTicker(r.job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.cycle(ctx)
		}
	}
}

func (r *Runner) cycle(ctx context.Context) {
	if err := r.RunOnce(ctx); err != nil {
		var encErr *codec.EncodingError
		if errors.As(err, &encErr) {
			r.log.Error().Err(err).Msg("encoding failed, update skipped")
			return
		}
		// Delivery failures are already in the tracker; log and move on.
		r.log.Warn().Err(err).Msg("update cycle failed")
	}
}

func (r *Runner) dumpPayload(payload []byte) {
	if r.outputDir == "" {
		return
	}
	name := fmt.Sprintf("%s_%s.bin", r.job.Display.Name, r.job.Generator.Name())
	if err := os.WriteFile(filepath.Join(r.outputDir, name), payload, 0o644); err != nil {
		r.log.Warn().Err(err).Msg("payload dump failed")
	}
}
