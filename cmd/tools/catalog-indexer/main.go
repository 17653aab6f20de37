// cmd/tools/catalog-indexer/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"realestate-marketplace/internal/common/config"
	"realestate-marketplace/internal/common/database"
	"realestate-marketplace/internal/common/logger"
	"realestate-marketplace/internal/models"
	"realestate-marketplace/internal/search"
	"realestate-marketplace/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Path to a config file (defaults to the standard lookup)")
	only := flag.String("only", "", "Reindex a single catalog: properties or furniture")
	timeout := flag.Duration("timeout", 10*time.Minute, "Overall time limit")
	flag.Parse()

	if *only != "" && *only != "properties" && *only != "furniture" {
		fmt.Fprintf(os.Stderr, "unknown catalog %q\n", *only)
		os.Exit(2)
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres init failed", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		zapLog.Fatal("postgres unreachable", zap.Error(err))
	}

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		zapLog.Fatal("elasticsearch init failed", zap.Error(err))
	}
	if err := es.Ping(ctx); err != nil {
		zapLog.Fatal("elasticsearch unreachable", zap.Error(err))
	}

	if err := search.NewIndexer(es.Client, cfg.Search, log).EnsureIndexes(ctx); err != nil {
		zapLog.Fatal("ensure indexes failed", zap.Error(err))
	}

	failed := false
	if *only == "" || *only == "properties" {
		properties := store.NewPropertyStore(pg.GetDB())
		stats, err := search.BulkIndex[models.Property](ctx, es.Client, cfg.Search.PropertyIndex, properties.ForEach, log)
		failed = report(zapLog, cfg.Search.PropertyIndex, stats, err) || failed
	}
	if *only == "" || *only == "furniture" {
		furniture := store.NewFurnitureStore(pg.GetDB())
		stats, err := search.BulkIndex[models.Furniture](ctx, es.Client, cfg.Search.FurnitureIndex, furniture.ForEach, log)
		failed = report(zapLog, cfg.Search.FurnitureIndex, stats, err) || failed
	}

	if failed {
		os.Exit(1)
	}
}

// report logs one index run and says whether it should fail the process.
func report(log *zap.Logger, index string, stats search.BulkStats, err error) bool {
	fields := []zap.Field{
		zap.String("index", index),
		zap.Uint64("indexed", stats.Indexed),
		zap.Uint64("failed", stats.Failed),
	}
	if err != nil {
		log.Error("reindex failed", append(fields, zap.Error(err))...)
		return true
	}
	log.Info("reindex complete", fields...)
	return stats.Failed > 0
}
