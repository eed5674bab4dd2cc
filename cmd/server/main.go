package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/madiallo/carbontrack/internal/config"
	"github.com/madiallo/carbontrack/internal/repository/mongodb"
	"github.com/madiallo/carbontrack/internal/repository/sheets"
	"github.com/madiallo/carbontrack/internal/scheduler"
	"github.com/madiallo/carbontrack/internal/server/handlers"
	"github.com/madiallo/carbontrack/internal/server/router"
	dashboardsvc "github.com/madiallo/carbontrack/internal/service/dashboard"
	insightssvc "github.com/madiallo/carbontrack/internal/service/insights"
	profilesvc "github.com/madiallo/carbontrack/internal/service/profile"
	trackingsvc "github.com/madiallo/carbontrack/internal/service/tracking"
	"github.com/madiallo/carbontrack/pkg/clients/anthropic"
	"github.com/madiallo/carbontrack/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := time.LoadLocation(cfg.Digest.Timezone)
	if err != nil {
		baseLogger.Warn("invalid timezone, falling back to local", zap.String("timezone", cfg.Digest.Timezone), zap.Error(err))
		loc = time.Local
	}

	store, err := mongodb.NewMongoDBStore(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName, baseLogger.Named("repo.mongo"))
	if err != nil {
		baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	// Initialize AI client
	var aiClient anthropic.Client
	if cfg.AI.AnthropicKey != "" {
		aiClient = anthropic.NewClient(cfg.AI.AnthropicKey)
		baseLogger.Info("anthropic ai client enabled")
	} else {
		baseLogger.Warn("anthropic api key missing, insights disabled")
	}

	// Initialize optional digest exporter
	var exporter sheets.Exporter
	if cfg.Sheets.SpreadsheetID != "" {
		sheetExporter, err := sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		exporter = sheetExporter
		baseLogger.Info("weekly digest sheet export enabled")
	}

	trackingSvc := trackingsvc.NewService(store, baseLogger.Named("svc.tracking"))
	profileSvc := profilesvc.NewService(store, baseLogger.Named("svc.profile"))
	dashboardSvc := dashboardsvc.NewService(store, dashboardsvc.Config{
		DefaultDailyGoalKg: cfg.Goals.DefaultDailyKg,
		CountryAvgDailyKg:  cfg.Comparison.CountryAvgDailyKg,
		WorldAvgDailyKg:    cfg.Comparison.WorldAvgDailyKg,
	}, loc, baseLogger.Named("svc.dashboard"))
	insightsSvc := insightssvc.NewService(aiClient, baseLogger.Named("svc.insights"))

	engine := router.New(router.Handlers{
		Activity:  handlers.NewActivityHandler(trackingSvc, baseLogger.Named("handlers.activity")),
		Profile:   handlers.NewProfileHandler(profileSvc, baseLogger.Named("handlers.profile")),
		Dashboard: handlers.NewDashboardHandler(dashboardSvc, baseLogger.Named("handlers.dashboard")),
		Insights:  handlers.NewInsightsHandler(insightsSvc, dashboardSvc, baseLogger.Named("handlers.insights")),
	}, baseLogger.Named("router"))

	// Initialize scheduler
	sched := scheduler.NewScheduler(cfg.Digest, store, dashboardSvc, exporter, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
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
