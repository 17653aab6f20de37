// cmd/marketplace-api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"realestate-marketplace/internal/common/aws"
	"realestate-marketplace/internal/common/config"
	"realestate-marketplace/internal/common/database"
	"realestate-marketplace/internal/common/logger"
	"realestate-marketplace/internal/common/observability"
	"realestate-marketplace/internal/notify"
	"realestate-marketplace/internal/search"
	"realestate-marketplace/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	var outputs []string
	if cfg.Logging.Output != "" {
		outputs = append(outputs, cfg.Logging.Output)
	}
	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, outputs...)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting marketplace API...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("marketplace-api", log)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- PostgreSQL is required ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Elasticsearch is optional; search falls back to SQL ---
	var esClient *elasticsearch.Client
	var es *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return es.Ping(ctx)
	}, 5, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Warn("elasticsearch unavailable, search will use SQL fallback", zap.Error(err))
	} else {
		esClient = es.Client
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Redis is optional; caches are skipped without it ---
	var rdb redis.Cmdable
	var rc *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rc, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rc.Ping(ctx)
	}, 5, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Warn("redis unavailable, caching disabled", zap.Error(err))
	} else {
		defer rc.Close()
		rdb = rc.Client
		zapLog.Info("Redis connected successfully")
	}

	indexer := search.NewIndexer(esClient, cfg.Search, log)
	if err := indexer.EnsureIndexes(ctx); err != nil {
		zapLog.Warn("ensure search indexes failed", zap.Error(err))
	}

	// --- Notification channels ---
	var emailer notify.Emailer
	if cfg.Notifications.Email.Enabled {
		ses, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Warn("ses client init failed, emails disabled", zap.Error(err))
		} else {
			emailer = ses
		}
	}
	var publisher notify.Publisher
	if cfg.Notifications.SNS.Enabled {
		sns, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Warn("sns client init failed, events disabled", zap.Error(err))
		} else {
			publisher = sns
		}
	}

	router := server.NewRouter(server.Deps{
		Config:    cfg,
		DB:        pg.GetDB(),
		Redis:     rdb,
		ES:        esClient,
		Emailer:   emailer,
		Publisher: publisher,
		Obs:       obs,
		Logger:    log,
		Ready: func(ctx context.Context) error {
			if err := pg.Ping(ctx); err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
			if rdb != nil {
				if err := rdb.Ping(ctx).Err(); err != nil {
					return fmt.Errorf("redis: %w", err)
				}
			}
			return nil
		},
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("Marketplace API stopped")
}
