package service

import (
	"context"
	"sync"
	"time"

	"crypto-dashboard/internal/dashboard"
	"crypto-dashboard/internal/domain"
	"crypto-dashboard/internal/job"
	"crypto-dashboard/internal/preference"
	"crypto-dashboard/internal/tui"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/trace"
)

type DashboardSettings struct {
	DefaultAsset domain.Asset
	DefaultRange domain.Range
	PollInterval time.Duration
	FlashDelay   time.Duration
}

// DashboardService builds one dashboard per connected user: its state,
// the poller that keeps it fresh and the model that renders it.
type DashboardService struct {
	tracer   trace.Tracer
	fetcher  job.HistoryFetcher
	themes   preference.ThemeStore
	sessions *dashboard.Registry
	logger   *log.Logger
	settings DashboardSettings
}

// NewDashboardService creates a DashboardService. sessions may be nil when
// nothing lists the running dashboards.
func NewDashboardService(
	tracer trace.Tracer,
	fetcher job.HistoryFetcher,
	themes preference.ThemeStore,
	sessions *dashboard.Registry,
	logger *log.Logger,
	settings DashboardSettings,
) *DashboardService {
	return &DashboardService{
		tracer:   tracer,
		fetcher:  fetcher,
		themes:   themes,
		sessions: sessions,
		logger:   logger,
		settings: settings,
	}
}

// Session is a dashboard bound to one user key.
type Session struct {
	ID     string
	User   string
	Model  *tui.AppModel
	Poller *job.PricePoller

	closeOnce sync.Once
	release   func()
}

// Close stops the poller and removes the session from the registry.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.Poller.Stop()
		if s.release != nil {
			s.release()
		}
	})
}

// NewSession assembles a dashboard for user, restoring the user's saved
// theme. The poller starts when the model's Init command runs.
func (s *DashboardService) NewSession(ctx context.Context, user string, renderer *lipgloss.Renderer) *Session {
	_, span := s.tracer.Start(ctx, "dashboard-service.new-session")
	defer span.End()

	theme := preference.ThemeOrDefault(ctx, s.themes, user, s.logger)
	state := dashboard.NewState(s.settings.DefaultAsset, s.settings.DefaultRange, theme)
	poller := job.NewPricePoller(s.tracer, s.fetcher, state, s.logger,
		s.settings.PollInterval, s.settings.FlashDelay)

	model := tui.NewAppModel(ctx, tui.Deps{
		Controller:   poller,
		Themes:       s.themes,
		PrefKey:      user,
		Logger:       s.logger,
		Renderer:     renderer,
		PollInterval: s.settings.PollInterval,
	})

	sess := &Session{User: user, Model: model, Poller: poller}
	if s.sessions != nil {
		sess.ID = s.sessions.Register(user, state)
		id := sess.ID
		sess.release = func() { s.sessions.Unregister(id) }
	}
	s.logger.Info("dashboard session opened", "user", user, "session", sess.ID, "theme", theme)
	return sess
}
