// Package eventlog publishes a side-channel feed of warehouse mutations. It
// is never consulted for correctness — the grid and indexes inside
// internal/manager remain the sole system of record — so a publish failure
// never blocks or unwinds the mutation that triggered it.
package eventlog

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/nilsson-hagberg/warehouse/internal/item"
	"github.com/nilsson-hagberg/warehouse/internal/warehouse"
)

// Event is the wire shape published for every successful mutation.
type Event struct {
	Kind      string            `json:"kind"` // "add", "remove", or "place_at"
	Item      item.Item         `json:"item"`
	Location  warehouse.Location `json:"location"`
	Timestamp time.Time         `json:"timestamp"`
}

// EventLog is the publishing contract the manager's event sink adapts to.
// Sink calls Publish from its own goroutine, outside the manager's
// critical section, with a context that times out after a few seconds.
type EventLog interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// Nop discards every event. It is the default wiring when no broker is
// configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Sink adapts an EventLog to the manager.EventSink interface, stamping a
// timestamp and publishing in the background so the manager's own mutex is
// never held while talking to the broker.
type Sink struct {
	log   *zap.Logger
	inner EventLog
	now   func() time.Time
}

// NewSink wraps inner for use as a manager.EventSink. now defaults to
// time.Now; tests may override it for determinism.
func NewSink(log *zap.Logger, inner EventLog, now func() time.Time) *Sink {
	if now == nil {
		now = time.Now
	}
	return &Sink{log: log.Named("eventlog"), inner: inner, now: now}
}

// Published implements manager.EventSink. It publishes on its own goroutine:
// a slow or failing broker must never add latency to, or fail, the mutation
// that produced the event.
func (s *Sink) Published(kind string, it item.Item, loc warehouse.Location) {
	evt := Event{Kind: kind, Item: it, Location: loc, Timestamp: s.now()}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := s.inner.Publish(ctx, evt); err != nil {
			s.log.Warn("publish failed", zap.String("kind", kind), zap.Error(err))
		}
	}()
}

// MarshalEvent is exposed for implementations (and tests) that need the
// exact JSON shape published to the wire.
func MarshalEvent(evt Event) ([]byte, error) { return json.Marshal(evt) }
