// Package preference persists per-user dashboard preferences.
package preference

import (
	"context"

	"crypto-dashboard/internal/domain"

	"github.com/charmbracelet/log"
)

// LocalKey is the preference key used by the single-user terminal dashboard.
const LocalKey = "local"

// ThemeStore loads and saves a theme per user key. Load returns
// domain.DefaultTheme when nothing valid is stored.
type ThemeStore interface {
	LoadTheme(ctx context.Context, key string) (domain.Theme, error)
	SaveTheme(ctx context.Context, key string, theme domain.Theme) error
}

// ThemeOrDefault loads the theme for key, falling back to the default theme
// when the store cannot be read.
func ThemeOrDefault(ctx context.Context, store ThemeStore, key string, logger *log.Logger) domain.Theme {
	theme, err := store.LoadTheme(ctx, key)
	if err != nil {
		logger.Warn("loading theme preference failed", "key", key, "err", err)
		return domain.DefaultTheme
	}
	return theme
}
