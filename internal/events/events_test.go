package events

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var (
	_ Sink = (*ZapSink)(nil)
	_ Sink = Nop{}
)

func TestNew_AssignsUniqueIDs(t *testing.T) {
	t.Parallel()
	at := time.Now()
	a := New(OpAdd, 1, at)
	b := New(OpAdd, 1, at)
	require.NotEqual(t, uuid.Nil, a.ID)
	require.NotEqual(t, a.ID, b.ID)
	require.Equal(t, OpAdd, a.Op)
	require.Equal(t, uint64(1), a.RecordID)
	require.True(t, a.At.Equal(at))
}

func TestZapSink_LogsIdentifiersOnly(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.InfoLevel)
	s := NewZapSink(zap.New(core))

	ev := New(OpDelete, 42, time.Unix(1000, 0))
	s.Report(context.Background(), ev)

	entries := logs.All()
	require.Len(t, entries, 1)
	e := entries[0]
	require.Equal(t, "event", e.Message)
	require.Equal(t, "events", e.LoggerName)

	fields := e.ContextMap()
	require.Equal(t, OpDelete, fields["op"])
	require.Equal(t, uint64(42), fields["record_id"])
	require.Equal(t, ev.ID.String(), fields["event_id"])
}

func TestNop_Report(t *testing.T) {
	t.Parallel()
	Nop{}.Report(context.Background(), New(OpUpdate, 0, time.Now()))
}
