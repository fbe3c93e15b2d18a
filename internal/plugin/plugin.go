// internal/plugin/plugin.go

// Package plugin defines the content generator contract and the built-in
// generators. The core pipeline never branches on a concrete generator
// type: everything flows through the Generator interface.
package plugin

import (
	"context"
	"fmt"
	"image"

	"github.com/rs/zerolog"

	"github.com/epaperd/epaperd/internal/config"
	"github.com/epaperd/epaperd/internal/fleet"
	"github.com/epaperd/epaperd/internal/probe"
	"github.com/epaperd/epaperd/internal/tracker"
)

// Request describes the panel a generator is rendering for. Generators
// must return an image of exactly Width x Height; the codec refuses
// anything else.
type Request struct {
	Width  int
	Height int
	Mode   fleet.Mode
}

// Generator produces one raster image per invocation.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req Request) (image.Image, error)
}

// StatusSource is the probe slice the status board needs.
type StatusSource interface {
	QueryAll(ctx context.Context) []probe.Snapshot
}

// HistorySource is the tracker slice the status board needs.
type HistorySource interface {
	AllHistory() []tracker.NamedRecord
}

// Deps carries the shared collaborators built-in generators may use.
type Deps struct {
	Status  StatusSource
	History HistorySource
	Log     zerolog.Logger
}

// Build constructs one generator from its config entry.
// Unknown kinds fail here, at startup, never at render time.
func Build(cfg config.PluginConfig, deps Deps) (Generator, error) {
	switch cfg.Kind {
	case "clock":
		return NewClock(cfg.Name), nil
	case "statusboard":
		return NewStatusBoard(cfg.Name, deps.Status, deps.History), nil
	case "photo":
		return NewPhotoFrame(cfg.Name, cfg.Params)
	default:
		return nil, fmt.Errorf("plugin: unknown kind %q (plugin %q)", cfg.Kind, cfg.Name)
	}
}

// Registry holds generators by instance name, in configuration order.
type Registry struct {
	order  []string
	byName map[string]Generator
}

// NewRegistry builds all configured generators.
func NewRegistry(cfgs []config.PluginConfig, deps Deps) (*Registry, error) {
	r := &Registry{byName: make(map[string]Generator, len(cfgs))}
	for _, pc := range cfgs {
		g, err := Build(pc, deps)
		if err != nil {
			return nil, err
		}
		r.order = append(r.order, pc.Name)
		r.byName[pc.Name] = g
	}
	return r, nil
}

// Lookup resolves a generator by instance name.
func (r *Registry) Lookup(name string) (Generator, error) {
	g, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("plugin: unknown plugin %q", name)
	}
	return g, nil
}

// All returns every generator in configuration order.
func (r *Registry) All() []Generator {
	out := make([]Generator, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}
