package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/muthuvel01/goldpledge/internal/auth"
	"github.com/muthuvel01/goldpledge/internal/config"
	"github.com/muthuvel01/goldpledge/internal/scheduler"
	"github.com/muthuvel01/goldpledge/internal/server/handlers"
	"github.com/muthuvel01/goldpledge/internal/server/router"
	loansvc "github.com/muthuvel01/goldpledge/internal/service/loans"
	recommendsvc "github.com/muthuvel01/goldpledge/internal/service/recommend"
	reportingsvc "github.com/muthuvel01/goldpledge/internal/service/reporting"
	mongostore "github.com/muthuvel01/goldpledge/internal/store/mongo"
	"github.com/muthuvel01/goldpledge/internal/store/sheets"
	"github.com/muthuvel01/goldpledge/pkg/clients/anthropic"
	"github.com/muthuvel01/goldpledge/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := mongostore.NewStore(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	loanRepo := mongostore.NewLoanRepository(store, baseLogger.Named("repo.loans"))
	loanSource := mongostore.NewLoanSource(loanRepo, baseLogger.Named("source.loans"))
	loanDocSource := mongostore.NewLoanDocSource(loanRepo, baseLogger.Named("source.loan"))

	var exporter sheets.Exporter
	if cfg.SheetsEnabled() {
		sheetExporter, err := sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("export.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		exporter = sheetExporter
	} else {
		baseLogger.Warn("sheets export not configured, daily reports stay in mongodb only")
	}

	var aiClient anthropic.Client
	if cfg.AI.AnthropicKey != "" {
		aiClient = anthropic.NewClient(cfg.AI.AnthropicKey)
		baseLogger.Info("anthropic ai client enabled")
	} else {
		baseLogger.Warn("anthropic api key missing, recommendations disabled")
	}

	sessions := auth.NewManager(cfg.Auth)
	loanSvc := loansvc.NewService(loanRepo, cfg.Media.PlaceholderImageURL, baseLogger.Named("svc.loans"))
	recommendSvc := recommendsvc.NewService(aiClient, baseLogger.Named("svc.recommend"))
	reportingSvc := reportingsvc.NewService(loanRepo, loanRepo, exporter, baseLogger.Named("svc.reporting"))

	engine := router.New(router.Handlers{
		Auth:           handlers.NewAuthHandler(sessions, baseLogger.Named("handlers.auth")),
		Loans:          handlers.NewLoanHandler(loanSvc, baseLogger.Named("handlers.loans")),
		Stream:         handlers.NewStreamHandler(loanSource, loanDocSource, baseLogger.Named("handlers.stream")),
		Recommendation: handlers.NewRecommendationHandler(recommendSvc, baseLogger.Named("handlers.recommend")),
	}, sessions, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     engine,
		ReadTimeout: 15 * time.Second,
		// No write deadline: the loan stream endpoint keeps its response open.
		WriteTimeout: 0,
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
