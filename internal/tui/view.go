package tui

import (
	"fmt"
	"strings"

	"crypto-dashboard/internal/domain"
	"crypto-dashboard/internal/stats"

	"github.com/charmbracelet/lipgloss"
)

const (
	arrowUp   = "▲"
	arrowDown = "▼"
	liveDot   = "●"
)

func (m *AppModel) View() string {
	sections := []string{
		m.headerView(),
		m.assetSelectorView(),
	}
	if ticker := m.tickerView(); ticker != "" {
		sections = append(sections, ticker)
	}
	sections = append(sections,
		m.statsView(),
		m.chartCardView(),
		m.footerView(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *AppModel) headerView() string {
	s := m.styles
	title := s.Title.Render("Crypto Dashboard")
	right := lipgloss.JoinHorizontal(lipgloss.Center,
		m.liveView(),
		"  ",
		s.Muted.Render(fmt.Sprintf("[t] %s theme", m.view.Theme.Toggle())),
	)
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + right
}

func (m *AppModel) liveView() string {
	s := m.styles
	dot := s.Live.Render(liveDot + " LIVE")
	if m.view.IsUpdating {
		dot = s.LiveDim.Render(liveDot + " LIVE")
	}
	updated := stats.FormatLastUpdated(m.view.LastUpdatedAt, m.now)
	if updated == "" {
		return dot
	}
	return dot + " " + s.Muted.Render("Updated "+updated)
}

func (m *AppModel) assetSelectorView() string {
	s := m.styles
	items := make([]string, 0, len(domain.SupportedAssets))
	for i, a := range domain.SupportedAssets {
		info := a.Info()
		label := fmt.Sprintf("%d %s %s", i+1, info.Icon, info.Name)
		if a == m.view.Asset {
			items = append(items, s.Selected.Render(label))
		} else {
			items = append(items, s.Unselected.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, items...)
}

// tickerView is empty until the first successful load.
func (m *AppModel) tickerView() string {
	if m.view.IsLoading || !m.view.HasStats {
		return ""
	}
	s := m.styles
	price := s.BigValue
	switch m.ticker {
	case tickerUp:
		price = s.Positive.Bold(true)
	case tickerDown:
		price = s.Negative.Bold(true)
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		s.CardTitle.Render(m.view.Asset.Info().Symbol+" Price"),
		price.Render(stats.FormatPrice(m.view.CurrentPrice)),
	)
	return s.Card.Render(body)
}

func (m *AppModel) statsView() string {
	s := m.styles
	v := m.view

	current, change, volume := "--", "--", "--"
	changeStyle := s.Value
	arrow := ""
	// Stats of the previous selection stay on the state until the new
	// history lands; they must not be shown under the new range label.
	if v.HasStats && !v.IsLoading {
		current = stats.FormatPrice(v.CurrentPrice)
		change = stats.FormatChange(v.PriceChangePct)
		volume = stats.FormatVolume(v.Volume24h)
		changeStyle = s.Change(v.PriceChangePct)
		arrow = arrowUp
		if v.PriceChangePct < 0 {
			arrow = arrowDown
		}
		arrow = " " + changeStyle.Render(arrow+" "+stats.FormatAbsChange(v.PriceChangePct))
	}

	width := (m.width - 6) / 3
	if width < 18 {
		width = 18
	}
	card := s.Card.Width(width)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		card.Render(lipgloss.JoinVertical(lipgloss.Left,
			s.CardTitle.Render("Current Price"),
			s.Value.Render(current)+arrow,
		)),
		card.Render(lipgloss.JoinVertical(lipgloss.Left,
			s.CardTitle.Render(v.Range.Label()+" Change"),
			changeStyle.Render(change),
		)),
		card.Render(lipgloss.JoinVertical(lipgloss.Left,
			s.CardTitle.Render("24H Volume"),
			s.Value.Render(volume),
		)),
	)
}

func (m *AppModel) rangeSelectorView() string {
	s := m.styles
	items := make([]string, 0, len(domain.SupportedRanges))
	for _, r := range domain.SupportedRanges {
		if r == m.view.Range {
			items = append(items, s.Selected.Render(r.Label()))
		} else {
			items = append(items, s.Unselected.Render(r.Label()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, items...)
}

func (m *AppModel) chartCardView() string {
	s := m.styles
	info := m.view.Asset.Info()
	title := s.CardTitle.Render(fmt.Sprintf("%s %s Price Chart", info.Icon, info.Name))

	var body string
	if m.view.IsLoading {
		body = m.spinner.View() + " " + s.Muted.Render("Loading price data...")
	} else {
		body = renderChart(s, m.view.Range, m.view.History, m.chartWidth(), m.chartHeight())
	}

	return s.Card.Width(m.width - 2).Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.rangeSelectorView(),
		"",
		body,
	))
}

func (m *AppModel) chartWidth() int {
	w := m.width - 20
	if w < 20 {
		w = 20
	}
	return w
}

func (m *AppModel) chartHeight() int {
	// header, selectors, ticker, stat cards, card chrome and footer.
	h := m.height - 24
	if h < 5 {
		h = 5
	}
	return h
}

func (m *AppModel) footerView() string {
	s := m.styles
	note := s.Muted.Render(fmt.Sprintf("Real-time data • Auto-updates every %d seconds",
		int(m.deps.PollInterval.Seconds())))
	return lipgloss.JoinVertical(lipgloss.Left, note, m.help.View(m.keys))
}
