// cmd/worker-manager/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"disc-workers/internal/common/camunda"
	"disc-workers/internal/common/config"
	"disc-workers/internal/common/database"
	"disc-workers/internal/common/logger"
	"disc-workers/internal/common/observability"
	"disc-workers/internal/common/validation"
	"disc-workers/internal/models"
	"disc-workers/internal/profiles"
)

// startupRetry waits for infrastructure that may still be booting.
var startupRetry = &camunda.RetryConfig{
	MaxRetries: 10,
	BaseDelay:  2 * time.Second,
	MaxDelay:   30 * time.Second,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Zeebe ---
	var zeebe *camunda.Client
	if err := waitFor(ctx, log, "Zeebe client initialization", func(ctx context.Context) error {
		zeebe, err = camunda.NewClientWithConfig(ctx, camunda.ConfigFrom(cfg.Camunda))
		return err
	}); err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully", zap.String("gateway", cfg.Camunda.BrokerAddress))

	// --- Profile store ---
	var db database.SQLClient
	if err := waitFor(ctx, log, "profile store connection", func(ctx context.Context) error {
		db, err = database.OpenSQL(cfg.Database)
		if err != nil {
			return err
		}
		if err := db.Ping(ctx); err != nil {
			db.Close()
			return err
		}
		return nil
	}); err != nil {
		zapLog.Fatal("profile store failed after retries", zap.Error(err))
	}
	defer db.Close()

	store, err := profiles.NewSQLStore(db.GetDB(), db.Driver(), profiles.WithStoreLogger(log))
	if err != nil {
		zapLog.Fatal("profile store init failed", zap.Error(err))
	}
	if err := store.Migrate(ctx); err != nil {
		zapLog.Fatal("profile store migration failed", zap.Error(err))
	}
	zapLog.Info("Profile store ready", zap.String("driver", db.Driver()))

	var repository models.ProfileRepository = store

	// --- Redis cache ---
	if cfg.Database.Redis.Enabled {
		var rdb *database.RedisClient
		if err := waitFor(ctx, log, "Redis connection", func(ctx context.Context) error {
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}); err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()

		repository = profiles.NewCachedRepository(store, rdb.GetClient(), cfg.Assessment.CacheDuration(), log)
		zapLog.Info("Redis profile cache enabled", zap.Duration("ttl", cfg.Assessment.CacheDuration()))
	}

	// --- Elasticsearch index ---
	var index *profiles.SearchIndex
	if cfg.Database.Elasticsearch.Enabled {
		var es *database.ElasticsearchClient
		if err := waitFor(ctx, log, "Elasticsearch connection", func(ctx context.Context) error {
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping(ctx)
		}); err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}

		index = profiles.NewSearchIndex(es.Client, cfg.Assessment.SearchIndex)
		if err := index.EnsureIndex(ctx); err != nil {
			zapLog.Fatal("elasticsearch index setup failed", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully", zap.String("index", index.Index()))
	}

	validator, err := validation.NewDefaultValidator()
	if err != nil {
		zapLog.Fatal("schema validator init failed", zap.Error(err))
	}

	regs, err := buildRegistrations(cfg, deps{
		repository:    repository,
		index:         index,
		validator:     validator,
		observability: obs,
		logger:        log,
	})
	if err != nil {
		zapLog.Fatal("worker setup failed", zap.Error(err))
	}

	pool := camunda.StartWorkers(zeebe.GetClient(), regs, log)
	zapLog.Info("Workers started", zap.Strings("taskTypes", pool.TaskTypes()))

	// --- Health & Metrics Server ---
	server := newServer(cfg.Server.Address, func(ctx context.Context) error {
		if err := zeebe.HealthCheck(ctx); err != nil {
			return err
		}
		return db.Ping(ctx)
	})
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool.Stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing telemetry", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// waitFor retries op with backoff until it succeeds or ctx ends.
func waitFor(ctx context.Context, log logger.Logger, operation string, op func(context.Context) error) error {
	attempts, err := camunda.Retry(ctx, startupRetry, camunda.AlwaysRetry, func(ctx context.Context) error {
		err := op(ctx)
		if err != nil {
			log.Warn(operation+" failed, retrying...", map[string]interface{}{"error": err.Error()})
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("%s failed after %d attempts: %w", operation, attempts, err)
	}
	return nil
}
