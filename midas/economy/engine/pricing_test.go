package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midasbot/midas/midas/economy/catalog"
)

func mustJob(t *testing.T, e *Engine, name string) catalog.Job {
	t.Helper()
	job, ok := e.Catalog().Job(name)
	require.True(t, ok, "job %q missing from catalog", name)
	return job
}

func TestEngine_Wage(t *testing.T) {
	e := testEngine()

	t.Run("unemployed pays zero, not minimum wage", func(t *testing.T) {
		st := MacroState{MinWage: 1500, CyclePhase: catalog.PhaseExpansion}
		got := e.Wage(mustJob(t, e, "unemployed"), 5, st)
		assert.Equal(t, int64(0), got)
	})

	t.Run("all modifiers multiply then round", func(t *testing.T) {
		st := MacroState{
			MinWage:       1500,
			CyclePhase:    catalog.PhaseExpansion,
			JobEmployment: map[string]int{"delivery_driver": 1},
		}
		// 1400 * 1.15 (expansion) * 1.5 (supply) * 1.5 (skill cap) * 1.0 = 3622.5
		got := e.Wage(mustJob(t, e, "delivery_driver"), 10, st)
		assert.Equal(t, int64(3623), got)
	})

	t.Run("minimum wage floors low earners", func(t *testing.T) {
		st := MacroState{
			MinWage:       1500,
			CyclePhase:    catalog.PhaseTrough,
			JobEmployment: map[string]int{"beggar": 100},
		}
		got := e.Wage(mustJob(t, e, "beggar"), 0, st)
		assert.Equal(t, int64(1500), got)
	})

	t.Run("gdp modifier caps at 2x", func(t *testing.T) {
		poor := MacroState{MinWage: 0, CyclePhase: catalog.PhasePeak, JobEmployment: map[string]int{"ceo": 1000}}
		rich := poor
		rich.GDP = 100_000_000 // modifier would be 11 uncapped

		base := e.Wage(mustJob(t, e, "ceo"), 0, poor)
		capped := e.Wage(mustJob(t, e, "ceo"), 0, rich)
		assert.Equal(t, base*2, capped)
	})
}

func TestEngine_Tax(t *testing.T) {
	e := testEngine()

	lower := e.Classify(0)
	oligarch := e.Classify(2_000_000)

	tests := []struct {
		name     string
		income   int64
		class    catalog.Class
		modifier float64
		want     int64
	}{
		{name: "lower class full modifier", income: 1000, class: lower, modifier: 1.0, want: 50},
		{name: "lower class tenant modifier", income: 1000, class: lower, modifier: 0.20, want: 10},
		{name: "oligarch full modifier", income: 1000, class: oligarch, modifier: 1.0, want: 450},
		{name: "zero income", income: 0, class: oligarch, modifier: 1.0, want: 0},
		{name: "negative income untaxed", income: -500, class: lower, modifier: 1.0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Tax(tt.income, tt.class, tt.modifier))
		})
	}
}

func TestEngine_ItemPrice(t *testing.T) {
	e := testEngine()

	bread, ok := e.Catalog().Item("bread")
	require.True(t, ok)
	house, ok := e.Catalog().Item("house")
	require.True(t, ok)

	t.Run("inflation raises prices", func(t *testing.T) {
		assert.Equal(t, int64(6), e.ItemPrice(bread, 0.20, 1.0))
	})

	t.Run("neutral demand keeps base under zero inflation", func(t *testing.T) {
		assert.Equal(t, int64(5), e.ItemPrice(bread, 0, 1.0))
	})

	t.Run("necessity floor holds under demand collapse", func(t *testing.T) {
		// Raw price would be negative; the floor is 200000 * 0.9 / 2.
		assert.Equal(t, int64(90_000), e.ItemPrice(house, -0.05, 0.1))
	})
}

func TestEngine_Inflation(t *testing.T) {
	e := testEngine()

	tests := []struct {
		name        string
		moneySupply float64
		gdp         float64
		want        float64
	}{
		{name: "zero gdp defaults to 2%", moneySupply: 500_000, gdp: 0, want: 0.02},
		{name: "negative gdp defaults to 2%", moneySupply: 500_000, gdp: -10, want: 0.02},
		{name: "balanced economy", moneySupply: 1_000_000, gdp: 1_000_000, want: 0.025},
		{name: "hyperinflation clamps at 20%", moneySupply: 10_000_000, gdp: 1_000_000, want: 0.20},
		{name: "deflation clamps at -5%", moneySupply: 0, gdp: 1_000_000, want: -0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, e.Inflation(tt.moneySupply, tt.gdp), 1e-12)
		})
	}
}

func TestEngine_Productivity(t *testing.T) {
	e := testEngine()

	t.Run("novice baseline", func(t *testing.T) {
		// (1 + 0) * (1 + log10(1)*0.1) * 1.15
		assert.InDelta(t, 1.15, e.Productivity(0, 0, catalog.PhaseExpansion), 1e-12)
	})

	t.Run("experience has diminishing returns", func(t *testing.T) {
		// (1.5) * (1 + log10(100)*0.1) * 1.15 = 1.5 * 1.2 * 1.15
		assert.InDelta(t, 2.07, e.Productivity(10, 99, catalog.PhaseExpansion), 1e-12)
	})

	t.Run("caps at 3x", func(t *testing.T) {
		assert.InDelta(t, 3.0, e.Productivity(10, 999_999_999, catalog.PhaseExpansion), 1e-12)
	})
}
