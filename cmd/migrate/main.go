// cmd/migrate/main.go
package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/unclebandit/campaign-dashboard/internal/config"
	"github.com/unclebandit/campaign-dashboard/internal/db"
	"github.com/unclebandit/campaign-dashboard/internal/logger"
	"github.com/unclebandit/campaign-dashboard/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	ctx := context.Background()
	conn, err := db.OpenPostgres(ctx, cfg.Postgres, zl)
	if err != nil {
		zl.Fatal("failed to connect to DB", zap.Error(err))
	}
	defer conn.Close()

	if err := repository.Migrate(ctx, conn); err != nil {
		zl.Fatal("migration failed", zap.Error(err))
	}
	zl.Info("✅ wizard session schema applied")
}
