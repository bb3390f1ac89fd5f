package main

import (
	"context"
	"io"
	"testing"
	"time"

	"crypto-dashboard/internal/config"
	"crypto-dashboard/internal/domain"
	"crypto-dashboard/internal/logger"
	"crypto-dashboard/internal/service"
	"crypto-dashboard/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainBootstrap(t *testing.T) {
	var ran tea.Model
	restore := stubDashboardDeps(t, func(ctx context.Context, m tea.Model) error {
		ran = m
		return nil
	})
	defer restore()

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
	if _, ok := ran.(*tui.AppModel); !ok {
		t.Fatalf("expected the dashboard model to run, got %T", ran)
	}
}

func stubDashboardDeps(t *testing.T, run func(context.Context, tea.Model) error) func() {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origNewFileLogger := newFileLoggerFunc
	origInitTracer := initTracerFunc
	origNewProvider := newProviderFunc
	origRunProgram := runProgramFunc

	prefsPath := t.TempDir() + "/prefs.yaml"

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{
			DefaultAsset:      domain.Bitcoin,
			DefaultRange:      domain.Range24H,
			PollIntervalSecs:  10,
			UpdateFlashMillis: 800,
			PrefsPath:         prefsPath,
			LogLevel:          "info",
		}
	}
	newFileLoggerFunc = func(string, string, string) (*log.Logger, io.Closer, error) {
		return logger.New(io.Discard, "info", "test"), io.NopCloser(nil), nil
	}
	initTracerFunc = func(ctx context.Context, _ string) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	newProviderFunc = func(trace.Tracer, *config.Config) service.HistoryProvider { return stubProvider{} }
	runProgramFunc = run

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		newFileLoggerFunc = origNewFileLogger
		initTracerFunc = origInitTracer
		newProviderFunc = origNewProvider
		runProgramFunc = origRunProgram
	}
}

type stubProvider struct{}

func (stubProvider) FetchHistory(context.Context, domain.Asset, domain.Range) (*domain.PriceHistory, error) {
	return &domain.PriceHistory{}, nil
}
