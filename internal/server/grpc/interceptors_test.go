package grpcserver

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

type fakeAddr struct{}

func (fakeAddr) Network() string { return "tcp" }
func (fakeAddr) String() string  { return "127.0.0.1:12345" }

func TestLoggingUnary_PassthroughAndFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	ic := LoggingUnary(zap.New(core))

	ctx := peer.NewContext(context.Background(), &peer.Peer{Addr: fakeAddr{}})
	info := &grpc.UnaryServerInfo{FullMethod: "/healthrec.v1.HealthRecords/GetHealthRecord"}

	var seenID string
	h := func(ctx context.Context, req any) (any, error) {
		seenID, _ = RequestIDFromCtx(ctx)
		return "ok", nil
	}
	resp, err := ic(ctx, "req", info, h)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s, _ := resp.(string); s != "ok" {
		t.Fatalf("resp mismatch: %v", resp)
	}
	if seenID == "" {
		t.Fatalf("handler should see a request id")
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("want 1 log entry, got %d", len(entries))
	}
	f := entries[0].ContextMap()
	if f["method"] != info.FullMethod || f["code"] != codes.OK.String() || f["peer"] != "127.0.0.1:12345" {
		t.Fatalf("unexpected fields: %v", f)
	}
	if f["request_id"] != seenID {
		t.Fatalf("logged request id %v, handler saw %q", f["request_id"], seenID)
	}

	wantErr := errors.New("boom")
	hErr := func(ctx context.Context, req any) (any, error) { return nil, wantErr }
	_, err = ic(ctx, "req", info, hErr)
	if !errors.Is(err, wantErr) {
		t.Fatalf("want original error, got: %v", err)
	}
}

func TestLoggingUnary_ReusesIncomingRequestID(t *testing.T) {
	t.Parallel()

	ic := LoggingUnary(zaptest.NewLogger(t))
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, "rid-123"))
	info := &grpc.UnaryServerInfo{FullMethod: "/healthrec.v1.HealthRecords/SearchBySymptom"}

	var got string
	_, err := ic(ctx, nil, info, func(ctx context.Context, req any) (any, error) {
		got, _ = RequestIDFromCtx(ctx)
		return nil, nil
	})
	if err != nil || got != "rid-123" {
		t.Fatalf("want caller request id, got %q err=%v", got, err)
	}
}

func TestRequestIDFromCtx_Missing(t *testing.T) {
	t.Parallel()
	if _, ok := RequestIDFromCtx(context.Background()); ok {
		t.Fatalf("want no request id on bare context")
	}
}

func TestRecoverUnary_CatchesPanic(t *testing.T) {
	t.Parallel()

	ic := RecoverUnary(zaptest.NewLogger(t))
	info := &grpc.UnaryServerInfo{FullMethod: "/healthrec.v1.HealthRecords/AddHealthRecord"}

	panicH := func(ctx context.Context, req any) (any, error) {
		panic("oh no")
	}

	_, err := ic(context.Background(), "req", info, panicH)
	if err == nil {
		t.Fatalf("expected error from panic")
	}
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Internal {
		t.Fatalf("want codes.Internal, got: %v", err)
	}
}

func TestRecoverUnary_NoPanicPassThrough(t *testing.T) {
	t.Parallel()

	ic := RecoverUnary(zaptest.NewLogger(t))
	info := &grpc.UnaryServerInfo{FullMethod: "/healthrec.v1.HealthRecords/GetHealthRecord"}

	h := func(ctx context.Context, req any) (any, error) { return 42, nil }

	resp, err := ic(context.Background(), "req", info, h)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if resp.(int) != 42 {
		t.Fatalf("resp mismatch: %v", resp)
	}
}
