package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_RollEvent(t *testing.T) {
	e := testEngine()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("first passing roll wins", func(t *testing.T) {
		// stock_market_crash (p=0.02) fails on 0.5, tech_boom (p=0.03)
		// passes on 0.01; later events never get a roll.
		r := &stubRand{floats: []float64{0.5, 0.01}}
		ev, ok := e.RollEvent(now, r)
		require.True(t, ok)

		assert.Equal(t, "tech_boom", ev.Name)
		assert.Equal(t, now, ev.StartTime)
		assert.Equal(t, now.Add(14*24*time.Hour), ev.EndTime)
	})

	t.Run("declaration order decides ties", func(t *testing.T) {
		// A roll below every probability lands on the first event.
		r := &stubRand{floats: []float64{0.001}}
		ev, ok := e.RollEvent(now, r)
		require.True(t, ok)
		assert.Equal(t, "stock_market_crash", ev.Name)
	})

	t.Run("no trigger when all rolls fail", func(t *testing.T) {
		r := &stubRand{floats: []float64{0.99}}
		_, ok := e.RollEvent(now, r)
		assert.False(t, ok)
	})
}

func TestEngine_PruneEvents(t *testing.T) {
	e := testEngine()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	events := []ActiveEvent{
		{Name: "pandemic", StartTime: now.Add(-61 * 24 * time.Hour), EndTime: now.Add(-24 * time.Hour)},
		{Name: "tech_boom", StartTime: now.Add(-24 * time.Hour), EndTime: now.Add(13 * 24 * time.Hour)},
		{Name: "oil_crisis", StartTime: now, EndTime: now},
	}

	kept := e.PruneEvents(events, now)
	require.Len(t, kept, 2)
	assert.Equal(t, "tech_boom", kept[0].Name)
	// An event ending exactly now is still active.
	assert.Equal(t, "oil_crisis", kept[1].Name)
}

func TestEngine_EventEffects(t *testing.T) {
	e := testEngine()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("no events is neutral", func(t *testing.T) {
		eff := e.EventEffects(nil, now)
		assert.InDelta(t, 1.0, eff.GDPModifier, 1e-12)
		assert.InDelta(t, 1.0, eff.UnemploymentModifier, 1e-12)
	})

	t.Run("concurrent events multiply", func(t *testing.T) {
		events := []ActiveEvent{
			{Name: "stock_market_crash", StartTime: now, EndTime: now.Add(7 * 24 * time.Hour)},
			{Name: "tech_boom", StartTime: now, EndTime: now.Add(14 * 24 * time.Hour)},
		}

		eff := e.EventEffects(events, now)
		// (1 - 0.15) * (1 + 0.20) and (1 + 0.25) * (1 - 0.10)
		assert.InDelta(t, 1.02, eff.GDPModifier, 1e-12)
		assert.InDelta(t, 1.125, eff.UnemploymentModifier, 1e-12)
	})

	t.Run("expired events contribute nothing", func(t *testing.T) {
		events := []ActiveEvent{
			{Name: "pandemic", StartTime: now.Add(-90 * 24 * time.Hour), EndTime: now.Add(-30 * 24 * time.Hour)},
		}

		eff := e.EventEffects(events, now)
		assert.InDelta(t, 1.0, eff.GDPModifier, 1e-12)
	})

	t.Run("unknown event names are ignored", func(t *testing.T) {
		events := []ActiveEvent{
			{Name: "alien_invasion", StartTime: now, EndTime: now.Add(24 * time.Hour)},
		}

		eff := e.EventEffects(events, now)
		assert.InDelta(t, 1.0, eff.GDPModifier, 1e-12)
	})
}
