package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/hibiken/asynq"

	"github.com/lamdaser/statements/internal/app"
	"github.com/lamdaser/statements/internal/customers"
	"github.com/lamdaser/statements/internal/observability"
	"github.com/lamdaser/statements/internal/proxy"
	"github.com/lamdaser/statements/internal/statement"
	"github.com/lamdaser/statements/jobs"
	"github.com/lamdaser/statements/report"
)

func main() {
	if app.SkipStartup(slog.Default(), "statements") {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	services, err := app.NewServices(ctx, cfg, logger)
	if err != nil {
		logger.Error("init services", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := services.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	if services.Redis != nil {
		go func() {
			if err := services.RosterKeys.ListenForInvalidation(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("roster invalidation listener stopped", slog.Any("error", err))
			}
		}()
	}

	metrics := observability.NewMetrics()

	var inspector *asynq.Inspector
	if services.Redis != nil {
		inspector = asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
	}

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		CustomersHandler: customers.NewHandler(logger, services.Customers, services.Templates),
		StatementHandler: statement.NewHandler(logger, services.Statements, services.Exporter).WithExportObserver(metrics),
		ProxyHandler:     proxy.NewHandler(cfg.QueryBackendURL, cfg.UpstreamTimeout, logger),
		ReportHandler:    report.NewHandler(services.PDF, logger),
		JobHandler:       jobs.NewHandler(inspector, logger),
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server",
			slog.String("addr", cfg.AppAddr),
			slog.String("upstream", cfg.UpstreamURL),
			slog.Any("cors_origins", cfg.CORSAllowedOrigins),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
