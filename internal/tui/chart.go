package tui

import (
	"strings"

	"crypto-dashboard/internal/domain"
	"crypto-dashboard/internal/stats"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// renderChart draws history as a line chart followed by an x-axis with the
// first, middle and last timestamps and a label for the latest point.
func renderChart(s Styles, rng domain.Range, history []domain.PricePoint, width, height int) string {
	if len(history) == 0 {
		return s.Muted.Render("No price data available")
	}

	graph := asciigraph.Plot(domain.Prices(history),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(s.ChartSeries),
		asciigraph.AxisColor(s.ChartAxis),
		asciigraph.LabelColor(s.ChartLabel),
	)

	last := history[len(history)-1]
	return lipgloss.JoinVertical(lipgloss.Left,
		graph,
		s.Muted.Render(xAxis(rng, history, lipgloss.Width(graph))),
		s.Accent.Render(stats.FormatPointLabel(rng, last.Time)+"  "+stats.FormatPrice(last.Price)),
	)
}

func xAxis(rng domain.Range, history []domain.PricePoint, width int) string {
	first := stats.FormatTick(rng, history[0].Time)
	if len(history) == 1 {
		return first
	}
	mid := stats.FormatTick(rng, history[len(history)/2].Time)
	last := stats.FormatTick(rng, history[len(history)-1].Time)

	used := len(first) + len(mid) + len(last)
	if width <= used+2 {
		return first + " " + mid + " " + last
	}
	left := (width - used) / 2
	right := width - used - left

	var b strings.Builder
	b.WriteString(first)
	b.WriteString(strings.Repeat(" ", left))
	b.WriteString(mid)
	b.WriteString(strings.Repeat(" ", right))
	b.WriteString(last)
	return b.String()
}
