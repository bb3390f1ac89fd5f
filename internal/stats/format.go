package stats

import (
	"fmt"
	"math"
	"time"

	"crypto-dashboard/internal/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatPrice renders a USD price with thousands grouping and two decimals.
func FormatPrice(price float64) string {
	return printer.Sprintf("$%.2f", price)
}

// FormatChange renders a signed percentage, e.g. "+10.00%".
func FormatChange(pct float64) string {
	sign := ""
	if pct >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, pct)
}

// FormatAbsChange renders the magnitude of a change, e.g. "3.21%".
func FormatAbsChange(pct float64) string {
	return fmt.Sprintf("%.2f%%", math.Abs(pct))
}

// FormatVolume renders a volume in billions of USD, e.g. "$5.00B".
func FormatVolume(volume float64) string {
	return fmt.Sprintf("$%.2fB", volume/1e9)
}

// FormatLastUpdated describes how long ago updatedAt was, relative to now.
func FormatLastUpdated(updatedAt, now time.Time) string {
	if updatedAt.IsZero() {
		return ""
	}
	diff := int(now.Sub(updatedAt) / time.Second)
	switch {
	case diff < 10:
		return "Just now"
	case diff < 60:
		return fmt.Sprintf("%ds ago", diff)
	default:
		return fmt.Sprintf("%dm ago", diff/60)
	}
}

// FormatTick labels a chart x-axis position: clock time for intraday ranges,
// calendar date for longer ones.
func FormatTick(r domain.Range, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if r.Intraday() {
		return t.Format("15:04")
	}
	return t.Format("Jan 02")
}

// FormatPointLabel labels a single hovered point with date and time.
func FormatPointLabel(r domain.Range, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if r == domain.Range1H || r == domain.Range6H {
		return t.Format("Jan 2, 2006, 3:04 PM")
	}
	return t.Format("Jan 2, 2006 3:04:05 PM")
}
