package tui

import (
	"crypto-dashboard/internal/domain"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

type palette struct {
	text     lipgloss.Color
	muted    lipgloss.Color
	accent   lipgloss.Color
	positive lipgloss.Color
	negative lipgloss.Color
	border   lipgloss.Color
	live     lipgloss.Color

	chartSeries asciigraph.AnsiColor
	chartAxis   asciigraph.AnsiColor
	chartLabel  asciigraph.AnsiColor
}

var palettes = map[domain.Theme]palette{
	domain.ThemeDark: {
		text:        lipgloss.Color("#FFFFFF"),
		muted:       lipgloss.Color("#A1A1B5"),
		accent:      lipgloss.Color("#7047EB"),
		positive:    lipgloss.Color("#22C55E"),
		negative:    lipgloss.Color("#EF4444"),
		border:      lipgloss.Color("#3B3B52"),
		live:        lipgloss.Color("#22C55E"),
		chartSeries: asciigraph.SlateBlue,
		chartAxis:   asciigraph.Gray,
		chartLabel:  asciigraph.White,
	},
	domain.ThemeLight: {
		text:        lipgloss.Color("#333333"),
		muted:       lipgloss.Color("#6B6B80"),
		accent:      lipgloss.Color("#5B32D6"),
		positive:    lipgloss.Color("#15803D"),
		negative:    lipgloss.Color("#B91C1C"),
		border:      lipgloss.Color("#D4D4DE"),
		live:        lipgloss.Color("#15803D"),
		chartSeries: asciigraph.SlateBlue,
		chartAxis:   asciigraph.DarkGray,
		chartLabel:  asciigraph.Black,
	},
}

// Styles is the complete style set for one theme. Every view derives its
// colors from here.
type Styles struct {
	Theme domain.Theme

	Title      lipgloss.Style
	Card       lipgloss.Style
	CardTitle  lipgloss.Style
	Value      lipgloss.Style
	BigValue   lipgloss.Style
	Muted      lipgloss.Style
	Accent     lipgloss.Style
	Positive   lipgloss.Style
	Negative   lipgloss.Style
	Live       lipgloss.Style
	LiveDim    lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style

	ChartSeries asciigraph.AnsiColor
	ChartAxis   asciigraph.AnsiColor
	ChartLabel  asciigraph.AnsiColor
}

// NewStyles builds the style set for theme using renderer, which carries the
// color profile of the terminal being drawn to.
func NewStyles(r *lipgloss.Renderer, theme domain.Theme) Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	p, ok := palettes[theme]
	if !ok {
		theme = domain.DefaultTheme
		p = palettes[theme]
	}

	return Styles{
		Theme: theme,

		Title: r.NewStyle().Bold(true).Foreground(p.text),
		Card: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		CardTitle:  r.NewStyle().Foreground(p.muted),
		Value:      r.NewStyle().Foreground(p.text),
		BigValue:   r.NewStyle().Bold(true).Foreground(p.text),
		Muted:      r.NewStyle().Foreground(p.muted),
		Accent:     r.NewStyle().Foreground(p.accent),
		Positive:   r.NewStyle().Foreground(p.positive),
		Negative:   r.NewStyle().Foreground(p.negative),
		Live:       r.NewStyle().Bold(true).Foreground(p.live),
		LiveDim:    r.NewStyle().Foreground(p.muted),
		Selected:   r.NewStyle().Bold(true).Foreground(p.text).Background(p.accent).Padding(0, 1),
		Unselected: r.NewStyle().Foreground(p.muted).Padding(0, 1),

		ChartSeries: p.chartSeries,
		ChartAxis:   p.chartAxis,
		ChartLabel:  p.chartLabel,
	}
}

// Change picks the positive or negative style for a percentage change.
func (s Styles) Change(pct float64) lipgloss.Style {
	if pct >= 0 {
		return s.Positive
	}
	return s.Negative
}
