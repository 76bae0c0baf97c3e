package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/noah-isme/hafalan-progress-api/pkg/config"
	"github.com/noah-isme/hafalan-progress-api/pkg/database"
	"github.com/noah-isme/hafalan-progress-api/pkg/logger"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up, down or status")
	flag.Parse()
	if flag.NArg() > 0 {
		*direction = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db, *direction); err != nil {
		logr.Fatal("migration failed", zap.String("direction", *direction), zap.Error(err))
	}
	logr.Info("migration finished", zap.String("direction", *direction))
}
