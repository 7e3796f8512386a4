package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/iliyamo/event-lodging/internal/config"
	"github.com/iliyamo/event-lodging/internal/database"
	"github.com/iliyamo/event-lodging/internal/handler"
	"github.com/iliyamo/event-lodging/internal/logger"
	"github.com/iliyamo/event-lodging/internal/queue"
	"github.com/iliyamo/event-lodging/internal/repository"
	"github.com/iliyamo/event-lodging/internal/repository/memory"
	"github.com/iliyamo/event-lodging/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	lg, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, pinger, closeStore, err := openStore(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("store", zap.Error(err))
	}
	defer closeStore()

	var events service.EventPublisher = service.NopPublisher{}
	if cfg.EventsEnabled {
		pub := queue.NewPublisher(cfg.RabbitMQURL, lg)
		defer pub.Close()
		events = pub
	}
	if cfg.AuditConsumerEnabled {
		consumer := queue.NewAuditConsumer(cfg.RabbitMQURL, cfg.AuditLogPath, lg)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				lg.Error("audit consumer stopped", zap.Error(err))
			}
		}()
	}

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		lg.Warn("redis unavailable; response cache disabled, rate limiting is per process",
			zap.String("addr", cfg.Redis.Address()))
	} else {
		defer func() { _ = rdb.Close() }()
	}

	e := newServer(cfg, serverDeps{
		store:  store,
		pinger: pinger,
		events: events,
		redis:  rdb,
		log:    lg,
	})

	go func() {
		addr := ":" + cfg.Port
		lg.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("store", cfg.StoreDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		lg.Error("shutdown", zap.Error(err))
	}
	lg.Info("stopped")
}

// openStore selects the persistence driver.  The MySQL pool doubles as
// the health check target; the memory store has none.
func openStore(ctx context.Context, cfg config.Config, lg *zap.Logger) (repository.Store, handler.Pinger, func(), error) {
	if cfg.StoreDriver == config.DriverMemory {
		lg.Warn("using in-memory store; data is lost on restart", zap.Uint64s("event_ids", cfg.MemoryEventIDs))
		return memory.New(memory.WithEvents(cfg.MemoryEventIDs...)), nil, func() {}, nil
	}
	db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.DBMigrate {
		if err := database.Migrate(ctx, db, lg); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
	}
	return repository.NewMySQLStore(db), db, func() { _ = db.Close() }, nil
}
