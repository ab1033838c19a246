package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/config"
	"github.com/mamadbah2/stockdesk/internal/repository/kv"
	"github.com/mamadbah2/stockdesk/internal/repository/mongodb"
	"github.com/mamadbah2/stockdesk/internal/repository/sheets"
	"github.com/mamadbah2/stockdesk/internal/scheduler"
	"github.com/mamadbah2/stockdesk/internal/server/handlers"
	"github.com/mamadbah2/stockdesk/internal/server/router"
	"github.com/mamadbah2/stockdesk/internal/server/views"
	"github.com/mamadbah2/stockdesk/internal/service/emaillog"
	"github.com/mamadbah2/stockdesk/internal/service/pages"
	reportingsvc "github.com/mamadbah2/stockdesk/internal/service/reporting"
	"github.com/mamadbah2/stockdesk/internal/session"
	"github.com/mamadbah2/stockdesk/pkg/clients/backend"
	"github.com/mamadbah2/stockdesk/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	if cfg.Session.GeneratedKeys {
		baseLogger.Warn("SESSION_KEY or CSRF_KEY not set, using generated keys; sessions will not survive a restart")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var profiles kv.Store
	switch cfg.Storage.Backend {
	case config.StorageRedis:
		profiles, err = kv.NewRedisStore(ctx, cfg.Storage, baseLogger.Named("repo.redis"))
		if err != nil {
			baseLogger.Fatal("failed to init redis profile store", zap.Error(err))
		}
	default:
		profiles = kv.NewMemoryStore()
		baseLogger.Info("using in-memory profile store")
	}
	defer func() {
		if err := profiles.Close(); err != nil {
			baseLogger.Error("failed to close profile store", zap.Error(err))
		}
	}()

	var emails emaillog.Log = emaillog.NewKVLog(profiles)
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		emails = mongoRepo
		baseLogger.Info("sent email log stored in mongodb", zap.String("db", cfg.MongoDB.DBName))
	}

	var sheetRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		googleRepo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetRepo = googleRepo
	}

	reportingSvc := reportingsvc.NewService(cfg.Thresholds, sheetRepo, cfg.Sheets.Range, baseLogger.Named("svc.reporting"))
	apiClient := backend.NewClient(cfg.Backend)
	controller := pages.NewController(apiClient, reportingSvc, emails, baseLogger.Named("svc.pages"))

	tmpl, err := views.Parse()
	if err != nil {
		baseLogger.Fatal("failed to load templates", zap.Error(err))
	}

	provider := session.NewProvider(cfg.Session, profiles, baseLogger.Named("session"))
	handler := handlers.NewHandler(controller, baseLogger.Named("handlers"))
	engine := router.New(handler, provider, tmpl, baseLogger.Named("router"))

	if cfg.Alerts.Enabled() {
		sched, err := scheduler.NewScheduler(cfg.Alerts, apiClient, reportingSvc, baseLogger.Named("scheduler"))
		if err != nil {
			baseLogger.Fatal("failed to init scheduler", zap.Error(err))
		}
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.Protect(engine, cfg.Session, cfg.Server.Port),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("api", cfg.Backend.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
