// Command healthrec-server starts the health record gRPC server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/and161185/healthrec/internal/api"
	"github.com/and161185/healthrec/internal/config"
	"github.com/and161185/healthrec/internal/events"
	"github.com/and161185/healthrec/internal/migrate"
	"github.com/and161185/healthrec/internal/repository"
	"github.com/and161185/healthrec/internal/repository/memory"
	"github.com/and161185/healthrec/internal/repository/postgres"
	"github.com/and161185/healthrec/internal/repository/sqlite"
	grpcserver "github.com/and161185/healthrec/internal/server/grpc"
	"github.com/and161185/healthrec/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// storage bundles the repository pair for the configured backend.
type storage struct {
	records repository.RecordRepository
	ids     repository.Counter
	close   func()
}

// openStorage opens the configured backend. PostgreSQL is migrated before use.
func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*storage, error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		ver, err := migrate.Up(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("migrate up: %w", err)
		}
		logger.Info("schema migrated", zap.Int64("version", ver))

		db, err := postgres.New(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		return &storage{
			records: postgres.NewRecordRepo(db),
			ids:     postgres.NewCounter(db),
			close:   db.Close,
		}, nil
	case config.StorageSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &storage{
			records: sqlite.NewRecordRepo(db),
			ids:     sqlite.NewCounter(db),
			close: func() {
				if err := db.Close(); err != nil {
					logger.Warn("sqlite close", zap.Error(err))
				}
			},
		}, nil
	default:
		return &storage{
			records: memory.NewRecordRepo(),
			ids:     memory.NewCounter(0),
			close:   func() {},
		}, nil
	}
}

func newLogger(dev bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if dev {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// main loads configuration, opens storage, rebuilds the indexes and serves gRPC.
func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := newLogger(cfg.Dev)
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
		zap.String("storage", cfg.Storage),
	)

	creds := insecure.NewCredentials()
	if cfg.TLSEnabled() {
		creds, err = credentials.NewServerTLSFromFile(cfg.TLSCert, cfg.TLSKey)
		if err != nil {
			logger.Fatal("failed to load TLS cert/key", zap.Error(err))
		}
	}

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open storage", zap.Error(err))
	}
	defer store.close()

	records := service.NewRecordService(store.records, store.ids, events.NewZapSink(logger), cfg.MaxRecordSize)
	n, err := records.RebuildIndexes(ctx)
	if err != nil {
		logger.Fatal("rebuild indexes", zap.Error(err))
	}
	logger.Info("indexes rebuilt", zap.Int("records", n))

	// gRPC server with interceptors
	s := grpc.NewServer(
		grpc.Creds(creds),
		grpc.ChainUnaryInterceptor(
			grpcserver.RecoverUnary(logger),
			grpcserver.LoggingUnary(logger),
		),
	)
	api.RegisterHealthRecordsServer(s, grpcserver.New(records))

	// Health & reflection (dev)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	if cfg.Dev {
		reflection.Register(s)
	}

	lis, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		logger.Fatal("listen", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr), zap.Bool("tls", cfg.TLSEnabled()))
		errCh <- s.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		hs.Shutdown()
		done := make(chan struct{})
		go func() {
			s.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			s.Stop()
		}
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		store.close()
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
