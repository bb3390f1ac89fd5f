package preference

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"crypto-dashboard/internal/domain"
)

func TestFileStoreDefaultsWhenMissing(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "prefs.yaml"))

	theme, err := store.LoadTheme(context.Background(), LocalKey)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if theme != domain.ThemeDark {
		t.Fatalf("expected dark default, got %s", theme)
	}
}

func TestFileStoreRoundTripSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")
	ctx := context.Background()

	if err := NewFileStore(path).SaveTheme(ctx, LocalKey, domain.ThemeLight); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := NewFileStore(path).SaveTheme(ctx, "SHA256:abc", domain.ThemeDark); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	reopened := NewFileStore(path)
	theme, err := reopened.LoadTheme(ctx, LocalKey)
	if err != nil || theme != domain.ThemeLight {
		t.Fatalf("expected light after reopen, got %s (%v)", theme, err)
	}
	theme, _ = reopened.LoadTheme(ctx, "SHA256:abc")
	if theme != domain.ThemeDark {
		t.Fatalf("expected per-key theme, got %s", theme)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestFileStoreUnknownValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, []byte("themes:\n  local: sepia\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	theme, err := NewFileStore(path).LoadTheme(context.Background(), LocalKey)
	if err != nil || theme != domain.ThemeDark {
		t.Fatalf("expected dark fallback, got %s (%v)", theme, err)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, []byte("themes: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	store := NewFileStore(path)

	theme, err := store.LoadTheme(context.Background(), LocalKey)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if theme != domain.ThemeDark {
		t.Fatalf("expected dark on error, got %s", theme)
	}
}
