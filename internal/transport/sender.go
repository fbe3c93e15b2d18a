// internal/transport/sender.go

// Package transport delivers encoded payloads to display firmware over
// HTTP and classifies the outcome. Exactly one attempt per call; retry
// policy, if any, belongs to the caller.
package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/epaperd/epaperd/internal/fleet"
)

const (
	defaultTimeout      = 30 * time.Second
	maxResponseBodySize = 64 << 10 // firmware answers are one-liners
)

// Recorder is the slice of the update tracker the sender needs.
type Recorder interface {
	RecordAttempt(name string)
	RecordSuccess(name string)
	RecordError(name, message string)
}

// Sender pushes payloads to firmware update endpoints.
type Sender struct {
	client   *http.Client
	timeout  time.Duration
	recorder Recorder
	log      zerolog.Logger

	// One gate per display: the firmware has no concurrency control of
	// its own, so a second payload must never be in flight to the same
	// panel. Different panels proceed independently.
	mu    sync.Mutex
	gates map[string]*sync.Mutex
}

// Option mutates the sender during construction.
type Option func(*Sender)

// WithTimeout overrides the per-delivery timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Sender) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithHTTPClient installs a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Sender) {
		if hc != nil {
			s.client = hc
		}
	}
}

// NewSender builds a sender that records every outcome on rec.
func NewSender(rec Recorder, log zerolog.Logger, opts ...Option) *Sender {
	s := &Sender{
		client:   &http.Client{},
		timeout:  defaultTimeout,
		recorder: rec,
		log:      log,
		gates:    make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Send delivers one payload to one display and reports the outcome
// synchronously. Success and every failure mode are recorded in the
// tracker; the returned error is a *DeliveryError on failure.
func (s *Sender) Send(ctx context.Context, d fleet.Display, payload []byte) error {
	gate := s.gate(d.Name)
	gate.Lock()
	defer gate.Unlock()

	updateID := uuid.New().String()
	log := s.log.With().
		Str("display", d.Name).
		Str("update_id", updateID).
		Int("bytes", len(payload)).
		Logger()

	s.recorder.RecordAttempt(d.Name)
	log.Debug().Str("url", d.UpdateURL()).Msg("sending payload")

	start := time.Now()
	derr := s.post(ctx, d, payload)
	elapsed := time.Since(start)

	if derr != nil {
		s.recorder.RecordError(d.Name, derr.Error())
		log.Error().
			Dur("elapsed", elapsed).
			Str("kind", derr.Kind.String()).
			Err(derr).
			Msg("delivery failed")
		return derr
	}

	s.recorder.RecordSuccess(d.Name)
	log.Info().Dur("elapsed", elapsed).Msg("delivery ok")
	return nil
}

func (s *Sender) post(ctx context.Context, d fleet.Display, payload []byte) *DeliveryError {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.UpdateURL(), bytes.NewReader(payload))
	if err != nil {
		return &DeliveryError{Display: d.Name, Kind: KindUnreachable, Err: err}
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := s.client.Do(req)
	if err != nil {
		return &DeliveryError{Display: d.Name, Kind: classifyRequestError(err), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return &DeliveryError{Display: d.Name, Kind: KindBadResponse, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &DeliveryError{
			Display:    d.Name,
			Kind:       KindStatus,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}
	return nil
}

func (s *Sender) gate(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gates[name]
	if !ok {
		g = &sync.Mutex{}
		s.gates[name] = g
	}
	return g
}

func classifyRequestError(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return KindTimeout
	}
	return KindUnreachable
}
