// Package main 初始化项目存储：PostgreSQL 建表或创建空的 JSON 存储文件
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"site-gen-ai-api/internal/config"
	"site-gen-ai-api/internal/infrastructure/persistence/file"
	"site-gen-ai-api/internal/wire"
	"site-gen-ai-api/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		dataLayer, cleanup, err := wire.InitializePostgresOnly(ctx, cfg)
		if err != nil {
			logger.Fatal(ctx, "failed to initialize data layer", err)
		}
		defer cleanup()

		if err := dataLayer.PgClient.Migrate(ctx); err != nil {
			logger.Fatal(ctx, "failed to migrate site_projects", err)
		}
		logger.Info(ctx, "postgres schema ready", "database", cfg.Database.Postgres.Database)

	default:
		store, err := file.NewProjectStore(cfg.Storage.File.Path)
		if err != nil {
			logger.Fatal(ctx, "failed to open project store", err)
		}
		if err := store.Init(ctx); err != nil {
			logger.Fatal(ctx, "failed to initialize project store", err)
		}
		logger.Info(ctx, "file project store ready", "path", cfg.Storage.File.Path)
	}

	logger.Info(ctx, "bootstrap completed")
}
