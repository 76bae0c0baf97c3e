package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/hafalan-progress-api/api/swagger"
	"github.com/noah-isme/hafalan-progress-api/internal/handler"
	"github.com/noah-isme/hafalan-progress-api/internal/repository"
	"github.com/noah-isme/hafalan-progress-api/internal/router"
	"github.com/noah-isme/hafalan-progress-api/internal/service"
	"github.com/noah-isme/hafalan-progress-api/pkg/cache"
	"github.com/noah-isme/hafalan-progress-api/pkg/config"
	"github.com/noah-isme/hafalan-progress-api/pkg/database"
	"github.com/noah-isme/hafalan-progress-api/pkg/logger"
	"github.com/noah-isme/hafalan-progress-api/pkg/observability"
)

// @title Hafalan Progress API
// @version 1.0.0
// @description Tracks Quran memorization (hafalan) and recitation (tilawah) progress of students.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	flushSentry, err := observability.InitSentry(cfg.Sentry.DSN, cfg.Env, cfg.Sentry.Release)
	if err != nil {
		logr.Warn("sentry init failed, error reporting disabled", zap.Error(err))
	}
	defer flushSentry()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, "up"); err != nil {
			logr.Fatal("failed to apply migrations", zap.Error(err))
		}
		logr.Info("migrations applied")
	}

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, roster cache disabled", zap.Error(err))
		} else {
			repo := repository.NewCacheRepository(client, logr)
			defer repo.Close() //nolint:errcheck
			cacheRepo = repo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.StudentsTTL, logr, cacheRepo != nil)

	validate := validator.New()
	studentRepo := repository.NewStudentRepository(db)

	progressSvc := service.NewProgressService(service.ProgressServiceParams{
		Students:  studentRepo,
		Hafalan:   repository.NewHafalanProgressRepository(db),
		Tilawah:   repository.NewTilawahProgressRepository(db),
		Entries:   repository.NewProgressEntryRepository(db),
		Cache:     cacheSvc,
		Metrics:   metricsSvc,
		Validator: validate,
		Logger:    logr,
		Config:    service.ProgressServiceConfig{CacheTTL: cfg.Cache.StudentsTTL},
	})
	studentSvc := service.NewStudentService(studentRepo, cacheSvc, validate, logr)
	exportSvc := service.NewExportService(progressSvc, service.ExportConfig{Title: cfg.Export.Title}, logr, nil, nil)
	authSvc := service.NewAuthService(logr, service.AuthConfig{
		Enabled:           cfg.Auth.Enabled,
		AccessTokenSecret: cfg.Auth.Secret,
		AccessTokenExpiry: time.Hour,
		Issuer:            cfg.Auth.Issuer,
	})
	if !cfg.Auth.Enabled {
		logr.Warn("authentication disabled, requests run as the local teacher identity")
	}

	engine := router.New(router.Params{
		Config:      cfg,
		Logger:      logr,
		Auth:        authSvc,
		Metrics:     metricsSvc,
		ReportError: observability.CaptureErr,
		Handlers: router.Handlers{
			Students: handler.NewStudentHandler(progressSvc, studentSvc),
			Progress: handler.NewProgressHandler(progressSvc),
			Export:   handler.NewExportHandler(exportSvc),
			Surahs:   handler.NewSurahHandler(),
			Metrics:  handler.NewMetricsHandler(metricsSvc, db),
		},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
