package dashboard

import (
	"testing"
	"time"

	"crypto-dashboard/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func history(volume float64, prices ...float64) *domain.PriceHistory {
	h := &domain.PriceHistory{Volume24h: volume}
	for i, p := range prices {
		h.History = append(h.History, domain.PricePoint{Time: time.UnixMilli(int64(i + 1)), Price: p})
	}
	return h
}

func TestNewStateStartsLoading(t *testing.T) {
	s := NewState(domain.Bitcoin, domain.Range24H, domain.ThemeDark)
	v := s.Snapshot()
	assert.True(t, v.IsLoading)
	assert.False(t, v.IsUpdating)
	assert.False(t, v.HasStats)
	assert.Equal(t, domain.Bitcoin, v.Asset)
	assert.Equal(t, domain.Range24H, v.Range)
}

func TestApplyHistoryDerivesStats(t *testing.T) {
	s := NewState(domain.Bitcoin, domain.Range24H, domain.ThemeDark)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.True(t, s.ApplyHistory(s.Generation(), history(5e9, 100, 110), now))

	v := s.Snapshot()
	assert.Equal(t, 110.0, v.CurrentPrice)
	assert.InDelta(t, 10.0, v.PriceChangePct, 1e-9)
	assert.Equal(t, 5e9, v.Volume24h)
	assert.Equal(t, now, v.LastUpdatedAt)
	assert.True(t, v.HasStats)
	assert.False(t, v.IsLoading)
}

func TestApplyEmptyHistoryKeepsStats(t *testing.T) {
	s := NewState(domain.Bitcoin, domain.Range24H, domain.ThemeDark)
	gen := s.Generation()
	require.True(t, s.ApplyHistory(gen, history(5e9, 100, 110), time.Now()))
	require.True(t, s.ApplyHistory(gen, history(1, []float64{}...), time.Now()))

	v := s.Snapshot()
	assert.Empty(t, v.History)
	assert.Equal(t, 110.0, v.CurrentPrice)
	assert.Equal(t, 5e9, v.Volume24h)
}

func TestStaleGenerationIsDropped(t *testing.T) {
	s := NewState(domain.Bitcoin, domain.Range1H, domain.ThemeDark)
	old := s.Generation()

	gen, changed := s.Select(domain.Bitcoin, domain.Range24H)
	require.True(t, changed)
	require.True(t, s.ApplyHistory(gen, history(2, 200, 220), time.Now()))

	assert.False(t, s.ApplyHistory(old, history(1, 1, 2), time.Now()))
	assert.False(t, s.FailCycle(old))
	_, _, ok := s.BeginCycle(old)
	assert.False(t, ok)

	v := s.Snapshot()
	assert.Equal(t, 220.0, v.CurrentPrice)
	assert.Equal(t, domain.Range24H, v.Range)
}

func TestSelectSameValueIsNoop(t *testing.T) {
	s := NewState(domain.Solana, domain.Range7D, domain.ThemeDark)
	s.FailCycle(s.Generation())

	gen, changed := s.Select(domain.Solana, domain.Range7D)
	assert.False(t, changed)
	assert.Equal(t, uint64(0), gen)
	assert.False(t, s.Snapshot().IsLoading)
}

func TestBeginCycleRaisesUpdatingAfterFirstLoad(t *testing.T) {
	s := NewState(domain.Bitcoin, domain.Range24H, domain.ThemeDark)
	gen := s.Generation()

	asset, rng, ok := s.BeginCycle(gen)
	require.True(t, ok)
	assert.Equal(t, domain.Bitcoin, asset)
	assert.Equal(t, domain.Range24H, rng)
	assert.False(t, s.Snapshot().IsUpdating, "first load shows the spinner, not the updating indicator")

	s.ApplyHistory(gen, history(1, 1), time.Now())
	s.EndUpdating()
	s.BeginCycle(gen)
	assert.True(t, s.Snapshot().IsUpdating)
	s.EndUpdating()
	assert.False(t, s.Snapshot().IsUpdating)
}

func TestFailCycleOnlyClearsLoading(t *testing.T) {
	s := NewState(domain.Bitcoin, domain.Range24H, domain.ThemeDark)
	gen := s.Generation()
	s.ApplyHistory(gen, history(7, 10, 20), time.Unix(100, 0))
	before := s.Snapshot()

	s.FailCycle(gen)
	after := s.Snapshot()

	assert.Equal(t, before.History, after.History)
	assert.Equal(t, before.CurrentPrice, after.CurrentPrice)
	assert.Equal(t, before.PriceChangePct, after.PriceChangePct)
	assert.Equal(t, before.Volume24h, after.Volume24h)
	assert.Equal(t, before.LastUpdatedAt, after.LastUpdatedAt)
}

func TestSetTheme(t *testing.T) {
	s := NewState(domain.Bitcoin, domain.Range24H, domain.ThemeDark)
	s.SetTheme(domain.ThemeLight)
	assert.Equal(t, domain.ThemeLight, s.Snapshot().Theme)
}
