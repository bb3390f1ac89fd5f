// Package dashboard holds the application state a dashboard renders from.
package dashboard

import (
	"sync"
	"time"

	"crypto-dashboard/internal/domain"
	"crypto-dashboard/internal/stats"
)

// View is an immutable snapshot of a dashboard's state.
type View struct {
	Asset          domain.Asset
	Range          domain.Range
	Theme          domain.Theme
	History        []domain.PricePoint
	CurrentPrice   float64
	PriceChangePct float64
	Volume24h      float64
	HasStats       bool
	LastUpdatedAt  time.Time
	IsLoading      bool
	IsUpdating     bool
}

// State is the mutable state behind a View. Selections and history-derived
// fields are written only by the poller driving it; readers take snapshots.
type State struct {
	mu   sync.Mutex
	view View
	gen  uint64
}

func NewState(asset domain.Asset, rng domain.Range, theme domain.Theme) *State {
	return &State{
		view: View{
			Asset:     asset,
			Range:     rng,
			Theme:     theme,
			IsLoading: true,
		},
	}
}

// Snapshot returns a copy of the current view. The history slice is shared
// but never mutated after it is stored.
func (s *State) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Generation returns the current request generation.
func (s *State) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Select changes the asset and range. It reports whether anything changed;
// on change the generation advances and the dashboard returns to loading.
func (s *State) Select(asset domain.Asset, rng domain.Range) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view.Asset == asset && s.view.Range == rng {
		return s.gen, false
	}
	s.view.Asset = asset
	s.view.Range = rng
	s.view.IsLoading = true
	s.gen++
	return s.gen, true
}

// BeginCycle marks a fetch as started for gen. The updating indicator is only
// raised once the first load has finished.
func (s *State) BeginCycle(gen uint64) (domain.Asset, domain.Range, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return "", "", false
	}
	if !s.view.IsLoading {
		s.view.IsUpdating = true
	}
	return s.view.Asset, s.view.Range, true
}

// ApplyHistory stores a fetched history for gen and recomputes the derived
// stats together with it. Results for a superseded generation are dropped.
func (s *State) ApplyHistory(gen uint64, h *domain.PriceHistory, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}

	s.view.History = h.History
	if st, ok := stats.Derive(h.History); ok {
		s.view.CurrentPrice = st.CurrentPrice
		s.view.PriceChangePct = st.PriceChangePct
		s.view.Volume24h = h.Volume24h
		s.view.HasStats = true
	}
	s.view.LastUpdatedAt = now
	s.view.IsLoading = false
	return true
}

// FailCycle records a failed fetch for gen. Only the loading flag changes.
func (s *State) FailCycle(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.view.IsLoading = false
	return true
}

// EndUpdating lowers the updating indicator.
func (s *State) EndUpdating() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.IsUpdating = false
}

func (s *State) SetTheme(theme domain.Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Theme = theme
}
