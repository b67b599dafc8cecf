// Package events reports successful record mutations to an event sink.
package events

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
)

// Operation names reported for each successful mutation.
const (
	OpAdd    = "add_health_record"
	OpUpdate = "update_health_record"
	OpDelete = "delete_health_record"
)

// Event describes one successful mutation.
type Event struct {
	ID       uuid.UUID
	Op       string
	RecordID uint64
	At       time.Time
}

// New builds an event with a fresh random ID.
func New(op string, recordID uint64, at time.Time) Event {
	id, err := uuid.NewV4()
	if err != nil {
		id = uuid.Nil
	}
	return Event{ID: id, Op: op, RecordID: recordID, At: at}
}

// Sink receives mutation events. Delivery is best-effort; Report never fails the caller.
type Sink interface {
	Report(ctx context.Context, ev Event)
}

// ZapSink writes events to a structured logger.
type ZapSink struct{ log *zap.Logger }

// NewZapSink constructs a sink logging under the "events" name.
func NewZapSink(log *zap.Logger) *ZapSink {
	return &ZapSink{log: log.Named("events")}
}

// Report logs the event at info level. Only identifiers are logged, never record content.
func (s *ZapSink) Report(_ context.Context, ev Event) {
	s.log.Info("event",
		zap.String("op", ev.Op),
		zap.Uint64("record_id", ev.RecordID),
		zap.String("event_id", ev.ID.String()),
		zap.Time("at", ev.At),
	)
}

// Nop discards all events.
type Nop struct{}

// Report does nothing.
func (Nop) Report(context.Context, Event) {}
