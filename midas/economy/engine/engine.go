// Package engine implements the economic model: classification,
// pricing, the business cycle, population statistics, risk formulas
// and macro events. All functions are pure; stochastic ones take an
// explicit Rand and persistence stays with the caller.
package engine

import (
	"math"

	"github.com/midasbot/midas/midas/economy/catalog"
)

// MacroState is a read-only view of one tenant's macro indicators,
// assembled by the caller from the persisted economy row.
type MacroState struct {
	GDP              float64
	InflationRate    float64
	UnemploymentRate float64
	Gini             float64
	InterestRate     float64
	TaxRate          float64
	MinWage          int64
	CyclePhase       catalog.Phase

	// JobEmployment maps job name to the number of actors holding it.
	JobEmployment map[string]int
}

// Engine evaluates the economic model against a fixed catalog. It is
// stateless and safe for concurrent use.
type Engine struct {
	cat *catalog.Catalog
}

func New(cat *catalog.Catalog) *Engine {
	return &Engine{cat: cat}
}

func (e *Engine) Catalog() *catalog.Catalog {
	return e.cat
}

// Classify maps total wealth to its wealth class. Tier is always
// derived from current wealth, never read back from storage.
func (e *Engine) Classify(wealth int64) catalog.Class {
	return e.cat.ClassFor(wealth)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
