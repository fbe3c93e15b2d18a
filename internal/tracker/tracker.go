// internal/tracker/tracker.go

// Package tracker keeps the in-memory delivery history for each display.
// One record per display, seeded from the registry at startup; nothing is
// persisted across restarts.
package tracker

import (
	"fmt"
	"sync"
	"time"

	"github.com/epaperd/epaperd/internal/fleet"
)

// UpdateRecord is the delivery history of one display.
type UpdateRecord struct {
	LastAttempt      *time.Time
	LastSuccess      *time.Time
	LastError        *time.Time
	LastErrorMessage string
	SuccessCount     uint64
	ErrorCount       uint64
}

// NamedRecord pairs a record with its display for ordered enumeration.
type NamedRecord struct {
	Name   string
	Record UpdateRecord
}

// Tracker is the keyed ledger. Each record has its own lock: updates to
// one display never contend with another's, and every mutation is a
// single critical section so readers never see a half-applied update
// (count bumped but timestamp stale, or the reverse).
type Tracker struct {
	order   []string
	records map[string]*entry
	now     func() time.Time
}

type entry struct {
	mu  sync.Mutex
	rec UpdateRecord
}

// New seeds one empty record per registered display, in registry order.
func New(reg *fleet.Registry) *Tracker {
	displays := reg.All()
	t := &Tracker{
		order:   make([]string, 0, len(displays)),
		records: make(map[string]*entry, len(displays)),
		now:     time.Now,
	}
	for _, d := range displays {
		t.order = append(t.order, d.Name)
		t.records[d.Name] = &entry{}
	}
	return t
}

// RecordAttempt stamps a delivery attempt. Unknown names are ignored:
// callers resolve displays through the registry first.
func (t *Tracker) RecordAttempt(name string) {
	e := t.records[name]
	if e == nil {
		return
	}
	now := t.now()
	e.mu.Lock()
	e.rec.LastAttempt = &now
	e.mu.Unlock()
}

// RecordSuccess stamps a successful delivery and bumps the success count.
func (t *Tracker) RecordSuccess(name string) {
	e := t.records[name]
	if e == nil {
		return
	}
	now := t.now()
	e.mu.Lock()
	e.rec.LastSuccess = &now
	e.rec.SuccessCount++
	e.mu.Unlock()
}

// RecordError stamps a failed delivery with its message and bumps the
// error count.
func (t *Tracker) RecordError(name, message string) {
	e := t.records[name]
	if e == nil {
		return
	}
	now := t.now()
	e.mu.Lock()
	e.rec.LastError = &now
	e.rec.LastErrorMessage = message
	e.rec.ErrorCount++
	e.mu.Unlock()
}

// History returns a snapshot of one display's record.
func (t *Tracker) History(name string) (UpdateRecord, error) {
	e := t.records[name]
	if e == nil {
		return UpdateRecord{}, fmt.Errorf("%w: %q", fleet.ErrUnknownDisplay, name)
	}
	e.mu.Lock()
	rec := e.rec
	e.mu.Unlock()
	return rec, nil
}

// AllHistory returns snapshots for every display, in registry order.
func (t *Tracker) AllHistory() []NamedRecord {
	out := make([]NamedRecord, 0, len(t.order))
	for _, name := range t.order {
		e := t.records[name]
		e.mu.Lock()
		rec := e.rec
		e.mu.Unlock()
		out = append(out, NamedRecord{Name: name, Record: rec})
	}
	return out
}
