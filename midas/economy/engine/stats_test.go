package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/midasbot/midas/midas/economy/catalog"
)

func TestEngine_Gini(t *testing.T) {
	e := testEngine()

	tests := []struct {
		name   string
		wealth []int64
		want   float64
	}{
		{name: "empty ledger", wealth: nil, want: 0},
		{name: "single actor", wealth: []int64{5000}, want: 0},
		{name: "perfect equality", wealth: []int64{100, 100, 100, 100}, want: 0.0},
		{name: "all zero wealth", wealth: []int64{0, 0, 0}, want: 0},
		{name: "known skewed ledger", wealth: []int64{0, 100, 10_000}, want: 0.6600660066006602},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, e.Gini(tt.wealth), 1e-9)
		})
	}
}

func TestEngine_Gini_OrderInsensitive(t *testing.T) {
	e := testEngine()

	a := e.Gini([]int64{10_000, 0, 100})
	b := e.Gini([]int64{0, 100, 10_000})
	assert.InDelta(t, a, b, 1e-12)
}

func TestEngine_UnemploymentRate(t *testing.T) {
	e := testEngine()

	t.Run("phase scales the natural rate", func(t *testing.T) {
		// 0.05 * 1.50 with no automation exposure.
		got := e.UnemploymentRate(catalog.PhaseTrough, nil, 10)
		assert.InDelta(t, 0.075, got, 1e-12)
	})

	t.Run("automation exposure adds on top", func(t *testing.T) {
		// 0.05*0.85 + (0.8*10/20)*0.1 = 0.0425 + 0.04
		employment := map[string]int{"factory_worker": 10}
		got := e.UnemploymentRate(catalog.PhaseExpansion, employment, 20)
		assert.InDelta(t, 0.0825, got, 1e-12)
	})

	t.Run("caps at 50%", func(t *testing.T) {
		employment := map[string]int{"delivery_driver": 1000}
		got := e.UnemploymentRate(catalog.PhaseTrough, employment, 10)
		assert.InDelta(t, 0.50, got, 1e-12)
	})

	t.Run("zero actors does not divide by zero", func(t *testing.T) {
		employment := map[string]int{"factory_worker": 5}
		got := e.UnemploymentRate(catalog.PhasePeak, employment, 0)
		assert.LessOrEqual(t, got, 0.50)
	})
}

func TestEngine_GDPGrowth(t *testing.T) {
	e := testEngine()

	tests := []struct {
		name     string
		current  float64
		previous float64
		want     float64
	}{
		{name: "ten percent growth", current: 110, previous: 100, want: 10},
		{name: "contraction", current: 90, previous: 100, want: -10},
		{name: "zero previous", current: 500, previous: 0, want: 0},
		{name: "negative previous", current: 500, previous: -10, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, e.GDPGrowth(tt.current, tt.previous), 1e-12)
		})
	}
}

func TestEngine_Redistribution(t *testing.T) {
	e := testEngine()

	got := e.Redistribution(1_000_000, 0.60, 0.20)
	assert.Equal(t, int64(200_000), got.Redistributed)
	assert.InDelta(t, 0.50, got.NewGini, 1e-12)
	assert.InDelta(t, 0.50, got.Stability, 1e-12)

	t.Run("gini floors at zero", func(t *testing.T) {
		got := e.Redistribution(1000, 0.10, 0.40)
		assert.InDelta(t, 0.0, got.NewGini, 1e-12)
		assert.InDelta(t, 1.0, got.Stability, 1e-12)
	})
}
