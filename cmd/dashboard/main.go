package main

import (
	"context"
	"time"

	"crypto-dashboard/internal/cache"
	"crypto-dashboard/internal/config"
	"crypto-dashboard/internal/logger"
	"crypto-dashboard/internal/preference"
	"crypto-dashboard/internal/provider"
	"crypto-dashboard/internal/service"
	"crypto-dashboard/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "crypto-dashboard"

var (
	loadEnvFunc       = godotenv.Load
	loadConfigFunc    = config.Load
	newFileLoggerFunc = logger.NewFile
	initRedisFunc     = cache.InitRedis
	initTracerFunc    = tracing.InitTracer
	newProviderFunc   = func(tracer trace.Tracer, cfg *config.Config) service.HistoryProvider {
		return provider.NewPriceAPIProvider(tracer, cfg.PriceAPIURL,
			time.Duration(cfg.PriceAPITimeoutSecs)*time.Second, cfg.PriceAPIRatePerMin)
	}
	runProgramFunc = func(ctx context.Context, m tea.Model) error {
		_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		return err
	}
)

func main() {
	loadEnvFunc()
	cfg := loadConfigFunc()

	// The terminal belongs to the dashboard, so logs go to a file.
	lg, logFile, err := newFileLoggerFunc(cfg.LogFile, cfg.LogLevel, serviceName)
	if err != nil {
		log.Fatal("failed to open log file", "path", cfg.LogFile, "err", err)
	}
	defer logFile.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		lg.Debug("otel error", "err", err)
	}))
	tp, tracer, err := initTracerFunc(ctx, serviceName)
	if err != nil {
		lg.Fatal("failed to initialize tracer", "err", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			lg.Error("error shutting down tracer provider", "err", err)
		}
	}()

	var redisClient service.RedisClient
	if cfg.RedisURL != "" {
		client, err := initRedisFunc(ctx, cfg.RedisURL)
		if err != nil {
			lg.Fatal("failed to connect to redis", "err", err)
		}
		defer client.Close()
		redisClient = client
	}

	prices := service.NewPriceService(tracer, newProviderFunc(tracer, cfg), redisClient,
		time.Duration(cfg.HistoryCacheSecs)*time.Second, lg)
	themes := preference.NewFileStore(cfg.PrefsPath)

	dashboards := service.NewDashboardService(tracer, prices, themes, nil, lg, service.DashboardSettings{
		DefaultAsset: cfg.DefaultAsset,
		DefaultRange: cfg.DefaultRange,
		PollInterval: time.Duration(cfg.PollIntervalSecs) * time.Second,
		FlashDelay:   time.Duration(cfg.UpdateFlashMillis) * time.Millisecond,
	})

	sess := dashboards.NewSession(ctx, preference.LocalKey, nil)
	defer sess.Close()

	if err := runProgramFunc(ctx, sess.Model); err != nil {
		lg.Error("dashboard exited with error", "err", err)
	}
	lg.Info("dashboard exited")
}
