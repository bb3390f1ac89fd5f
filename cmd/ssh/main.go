package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"crypto-dashboard/internal/cache"
	"crypto-dashboard/internal/config"
	"crypto-dashboard/internal/dashboard"
	"crypto-dashboard/internal/handler"
	"crypto-dashboard/internal/logger"
	"crypto-dashboard/internal/preference"
	"crypto-dashboard/internal/provider"
	"crypto-dashboard/internal/service"
	"crypto-dashboard/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
	gossh "golang.org/x/crypto/ssh"
)

const serviceName = "crypto-dashboard-ssh"

// ctxKey is a typed context key to avoid collisions.
type ctxKey string

const sshUserKey ctxKey = "ssh_user"

var (
	loadEnvFunc     = godotenv.Load
	loadConfigFunc  = config.Load
	initRedisFunc   = cache.InitRedis
	initTracerFunc  = tracing.InitTracer
	newProviderFunc = func(tracer trace.Tracer, cfg *config.Config) service.HistoryProvider {
		return provider.NewPriceAPIProvider(tracer, cfg.PriceAPIURL,
			time.Duration(cfg.PriceAPITimeoutSecs)*time.Second, cfg.PriceAPIRatePerMin)
	}
	newWishServerFunc      = wish.NewServer
	newRouterFunc          = gin.Default
	setupSignalNotify      = ossignal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

func main() {
	loadEnvFunc()
	cfg := loadConfigFunc()
	lg := logger.New(os.Stderr, cfg.LogLevel, serviceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx, serviceName)
	if err != nil {
		lg.Fatal("failed to initialize tracer", "err", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			lg.Error("error shutting down tracer provider", "err", err)
		}
	}()

	// Redis backs both theme preferences and the shared history cache when
	// configured; otherwise preferences live in a local file.
	var (
		themes      preference.ThemeStore
		redisClient service.RedisClient
	)
	if cfg.RedisURL != "" {
		client, err := initRedisFunc(ctx, cfg.RedisURL)
		if err != nil {
			lg.Fatal("failed to connect to redis", "err", err)
		}
		defer client.Close()
		redisClient = client
		themes = preference.NewRedisStore(client)
		lg.Info("using redis for preferences", "url", cfg.RedisURL)
	} else {
		themes = preference.NewFileStore(cfg.PrefsPath)
		lg.Info("using file for preferences", "path", cfg.PrefsPath)
	}

	registry := dashboard.NewRegistry()
	prices := service.NewPriceService(tracer, newProviderFunc(tracer, cfg), redisClient,
		time.Duration(cfg.HistoryCacheSecs)*time.Second, lg)
	dashboards := service.NewDashboardService(tracer, prices, themes, registry, lg, service.DashboardSettings{
		DefaultAsset: cfg.DefaultAsset,
		DefaultRange: cfg.DefaultRange,
		PollInterval: time.Duration(cfg.PollIntervalSecs) * time.Second,
		FlashDelay:   time.Duration(cfg.UpdateFlashMillis) * time.Millisecond,
	})

	// Build Wish SSH server
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.SSHPort)

	srv, err := newWishServerFunc(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithPublicKeyAuth(func(ctx ssh.Context, key ssh.PublicKey) bool {
			fingerprint := gossh.FingerprintSHA256(key)
			ctx.SetValue(sshUserKey, fingerprint)
			lg.Info("SSH auth accepted", "user", ctx.User(), "fingerprint", fingerprint)
			return true
		}),
		wish.WithMiddleware(
			bubbletea.Middleware(dashboardHandler(dashboards)),
			logging.Middleware(),
		),
	)
	if err != nil {
		lg.Fatal("failed to create SSH server", "err", err)
	}

	if srv != nil {
		go func() {
			lg.Info("SSH server listening", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
				lg.Error("SSH server stopped", "err", err)
			}
		}()
	}

	// Status API
	h := handler.New(tracer, registry, cfg.StatusAPIKey)
	r := newRouterFunc()
	r.Use(otelgin.Middleware(serviceName))
	h.RegisterRoutes(r)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.StatusHTTPPort),
		Handler: r,
	}
	go func() {
		lg.Info("status API listening", "addr", httpSrv.Addr)
		if err := startHTTPServerFunc(httpSrv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("status API listen failed", "err", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	lg.Info("shutting down", "sessions", registry.Count())

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			lg.Error("SSH server shutdown error", "err", err)
		}
	}
	if err := shutdownHTTPServerFunc(httpSrv, shutdownCtx); err != nil {
		lg.Error("status API shutdown error", "err", err)
	}

	lg.Info("SSH server exited")
}

// dashboardHandler opens a dashboard for each SSH session, keyed by the
// client's public key fingerprint, and closes it when the session ends.
func dashboardHandler(dashboards *service.DashboardService) bubbletea.Handler {
	return func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
		user, _ := s.Context().Value(sshUserKey).(string)
		if user == "" {
			user = "anonymous"
		}

		sess := dashboards.NewSession(s.Context(), user, bubbletea.MakeRenderer(s))
		go func() {
			<-s.Context().Done()
			sess.Close()
		}()

		pty, _, _ := s.Pty()
		sess.Model.SetSize(pty.Window.Width, pty.Window.Height)

		return sess.Model, []tea.ProgramOption{tea.WithAltScreen()}
	}
}
