// internal/probe/probe.go

// Package probe actively classifies each display as online or offline by
// hitting its lightweight status endpoint, independent of the passive
// delivery history. Snapshots are ephemeral; the prober holds no state
// and is safe to call repeatedly.
package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/epaperd/epaperd/internal/fleet"
)

const (
	defaultTimeout = 3 * time.Second
	defaultFanOut  = 8
	maxBodySize    = 4 << 10 // status line is tiny
)

// Snapshot is the result of probing one display, produced fresh per query.
type Snapshot struct {
	Name      string
	Reachable bool

	// Self-reported geometry and mode, valid only when HasReport is set.
	HasReport bool
	Width     int
	Height    int
	Mode      fleet.Mode

	Latency time.Duration
	At      time.Time
}

// Prober issues status queries against the fleet.
type Prober struct {
	reg     *fleet.Registry
	client  *http.Client
	timeout time.Duration
	fanOut  int
	log     zerolog.Logger
}

// Option mutates the prober during construction.
type Option func(*Prober)

// WithTimeout overrides the per-query timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithHTTPClient installs a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(p *Prober) {
		if hc != nil {
			p.client = hc
		}
	}
}

// New builds a prober over the registered fleet.
func New(reg *fleet.Registry, log zerolog.Logger, opts ...Option) *Prober {
	p := &Prober{
		reg:     reg,
		client:  &http.Client{},
		timeout: defaultTimeout,
		fanOut:  defaultFanOut,
		log:     log,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// QueryOne probes a single display. It never returns an error: any
// failure (timeout, refused connection, unparseable body) yields an
// offline snapshot with no reported fields.
func (p *Prober) QueryOne(ctx context.Context, d fleet.Display) Snapshot {
	snap := Snapshot{Name: d.Name, At: time.Now()}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.StatusURL(), nil)
	if err != nil {
		return snap
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Debug().Str("display", d.Name).Err(err).Msg("probe failed")
		return snap
	}
	defer resp.Body.Close()
	snap.Latency = time.Since(start)

	if resp.StatusCode != http.StatusOK {
		return snap
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return snap
	}

	snap.Reachable = true

	w, h, mode, err := parseStatusLine(strings.TrimSpace(string(raw)))
	if err != nil {
		// Online but talking something else. Keep reachable, drop report.
		p.log.Debug().Str("display", d.Name).Err(err).Msg("unparseable status line")
		return snap
	}
	snap.HasReport = true
	snap.Width = w
	snap.Height = h
	snap.Mode = mode
	return snap
}

// QueryAll probes every registered display and returns snapshots in
// registry order. Probes are independent: one display failing never
// aborts the others. Fan-out is concurrent since probes are I/O-bound.
func (p *Prober) QueryAll(ctx context.Context) []Snapshot {
	displays := p.reg.All()
	snaps := make([]Snapshot, len(displays))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.fanOut)
	for i, d := range displays {
		g.Go(func() error {
			snaps[i] = p.QueryOne(ctx, d)
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors
	return snaps
}

// parseStatusLine parses the firmware's terse self-report of the
// documented form "EINK {width}x{height} {mode}".
func parseStatusLine(line string) (w, h int, mode fleet.Mode, err error) {
	fields := strings.Fields(line)
	if len(fields) < 3 || fields[0] != "EINK" {
		return 0, 0, 0, fmt.Errorf("probe: malformed status line %q", line)
	}

	if _, err := fmt.Sscanf(fields[1], "%dx%d", &w, &h); err != nil || w <= 0 || h <= 0 {
		return 0, 0, 0, fmt.Errorf("probe: malformed resolution %q", fields[1])
	}

	mode, err = fleet.ParseMode(fields[2])
	if err != nil {
		return 0, 0, 0, err
	}
	return w, h, mode, nil
}
