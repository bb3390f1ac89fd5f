// Package tui renders a live price dashboard in the terminal.
package tui

import (
	"context"
	"time"

	"crypto-dashboard/internal/dashboard"
	"crypto-dashboard/internal/domain"
	"crypto-dashboard/internal/preference"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	defaultWidth  = 100
	defaultHeight = 32
	tickerFlash   = 500 * time.Millisecond
)

// Controller drives the dashboard state the model renders.
type Controller interface {
	Start(ctx context.Context)
	Stop()
	Select(asset domain.Asset, rng domain.Range)
	Refresh()
	SetTheme(theme domain.Theme)
	Snapshot() dashboard.View
	Updates() <-chan dashboard.View
}

// Deps are the collaborators of an AppModel.
type Deps struct {
	Controller   Controller
	Themes       preference.ThemeStore
	PrefKey      string
	Logger       *log.Logger
	Renderer     *lipgloss.Renderer
	PollInterval time.Duration
	Now          func() time.Time
}

type tickerDirection int

const (
	tickerNeutral tickerDirection = iota
	tickerUp
	tickerDown
)

type viewMsg dashboard.View

type clockMsg time.Time

type tickerResetMsg struct{ seq int }

type themeSavedMsg struct {
	theme domain.Theme
	err   error
}

// AppModel is the bubbletea model for one dashboard.
type AppModel struct {
	ctx  context.Context
	deps Deps

	view   dashboard.View
	styles Styles
	keys   keyMap

	spinner spinner.Model
	help    help.Model

	width  int
	height int
	now    time.Time

	ticker    tickerDirection
	tickerSeq int
}

func NewAppModel(ctx context.Context, deps Deps) *AppModel {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.PollInterval == 0 {
		deps.PollInterval = 10 * time.Second
	}

	view := deps.Controller.Snapshot()
	styles := NewStyles(deps.Renderer, view.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Accent

	return &AppModel{
		ctx:     ctx,
		deps:    deps,
		view:    view,
		styles:  styles,
		keys:    defaultKeyMap(),
		spinner: sp,
		help:    help.New(),
		width:   defaultWidth,
		height:  defaultHeight,
		now:     deps.Now(),
	}
}

// SetSize sets the terminal size before the first WindowSizeMsg arrives.
func (m *AppModel) SetSize(width, height int) {
	if width > 0 {
		m.width = width
		m.help.Width = width
	}
	if height > 0 {
		m.height = height
	}
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.start,
		m.spinner.Tick,
		m.waitForView(),
		clockTick(),
	)
}

func (m *AppModel) start() tea.Msg {
	m.deps.Controller.Start(m.ctx)
	return nil
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case viewMsg:
		cmd := m.applyView(dashboard.View(msg))
		return m, tea.Batch(cmd, m.waitForView())

	case clockMsg:
		m.now = time.Time(msg)
		return m, clockTick()

	case tickerResetMsg:
		if msg.seq == m.tickerSeq {
			m.ticker = tickerNeutral
		}
		return m, nil

	case themeSavedMsg:
		if msg.err != nil {
			m.deps.Logger.Error("saving theme preference failed", "theme", msg.theme, "err", msg.err)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.deps.Controller
	switch {
	case key.Matches(msg, m.keys.Quit):
		ctrl.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.NextAsset):
		ctrl.Select(m.view.Asset.Next(), m.view.Range)

	case key.Matches(msg, m.keys.PrevAsset):
		ctrl.Select(m.view.Asset.Prev(), m.view.Range)

	case key.Matches(msg, m.keys.PickAsset):
		idx := int(msg.String()[0] - '1')
		if idx >= 0 && idx < len(domain.SupportedAssets) {
			ctrl.Select(domain.SupportedAssets[idx], m.view.Range)
		}

	case key.Matches(msg, m.keys.NextRange):
		ctrl.Select(m.view.Asset, m.view.Range.Next())

	case key.Matches(msg, m.keys.PrevRange):
		ctrl.Select(m.view.Asset, m.view.Range.Prev())

	case key.Matches(msg, m.keys.Refresh):
		ctrl.Refresh()

	case key.Matches(msg, m.keys.ToggleTheme):
		return m, m.toggleTheme()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	default:
		return m, nil
	}

	return m, m.applyView(ctrl.Snapshot())
}

func (m *AppModel) toggleTheme() tea.Cmd {
	theme := m.view.Theme.Toggle()
	m.deps.Controller.SetTheme(theme)
	m.view.Theme = theme
	m.styles = NewStyles(m.deps.Renderer, theme)
	m.spinner.Style = m.styles.Accent

	store, prefKey, ctx := m.deps.Themes, m.deps.PrefKey, m.ctx
	return func() tea.Msg {
		return themeSavedMsg{theme: theme, err: store.SaveTheme(ctx, prefKey, theme)}
	}
}

// applyView adopts a new snapshot and starts the ticker flash when the
// displayed price moves.
func (m *AppModel) applyView(v dashboard.View) tea.Cmd {
	prev := m.view
	m.view = v
	if v.Theme != m.styles.Theme {
		m.styles = NewStyles(m.deps.Renderer, v.Theme)
		m.spinner.Style = m.styles.Accent
	}

	if !prev.HasStats || !v.HasStats || prev.CurrentPrice == v.CurrentPrice {
		return nil
	}
	if v.CurrentPrice > prev.CurrentPrice {
		m.ticker = tickerUp
	} else {
		m.ticker = tickerDown
	}
	m.tickerSeq++
	seq := m.tickerSeq
	return tea.Tick(tickerFlash, func(time.Time) tea.Msg {
		return tickerResetMsg{seq: seq}
	})
}

func (m *AppModel) waitForView() tea.Cmd {
	updates, ctx := m.deps.Controller.Updates(), m.ctx
	return func() tea.Msg {
		select {
		case v := <-updates:
			return viewMsg(v)
		case <-ctx.Done():
			return nil
		}
	}
}

func clockTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}
