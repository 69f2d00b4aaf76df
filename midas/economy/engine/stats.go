package engine

import (
	"math"
	"slices"

	"github.com/midasbot/midas/midas/economy/catalog"
)

// naturalUnemployment is the frictional unemployment floor before
// phase and automation effects.
const naturalUnemployment = 0.05

// Gini computes the Gini coefficient of a wealth ledger, in [0, 1].
// Fewer than two actors, or zero total wealth, reads as perfect
// equality.
func (e *Engine) Gini(wealth []int64) float64 {
	n := len(wealth)
	if n < 2 {
		return 0
	}

	sorted := append([]int64(nil), wealth...)
	slices.Sort(sorted)

	var cumsum, total float64
	for i, w := range sorted {
		cumsum += float64(i+1) * float64(w)
		total += float64(w)
	}
	if total <= 0 {
		return 0
	}

	return (2*cumsum)/(float64(n)*total) - float64(n+1)/float64(n)
}

// UnemploymentRate computes the structural unemployment rate from the
// cycle phase and the automation exposure of the employed population,
// capped at 50%.
func (e *Engine) UnemploymentRate(phase catalog.Phase, employment map[string]int, totalActors int) float64 {
	rate := naturalUnemployment * e.cat.Modifiers(phase).Unemployment

	var automation float64
	for _, job := range e.cat.Jobs() {
		automation += job.AutomationRisk * float64(employment[job.Name])
	}
	automation /= math.Max(float64(totalActors), 1)

	rate += automation * 0.1
	return math.Min(rate, 0.50)
}

// GDPGrowth is the percentage change between two GDP readings. A
// non-positive previous reading yields 0.
func (e *Engine) GDPGrowth(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return ((current - previous) / previous) * 100
}

// RedistributionEffect describes the outcome of taxing total wealth
// and redistributing the revenue.
type RedistributionEffect struct {
	NewGini       float64
	Stability     float64
	Redistributed int64
}

// Redistribution models a flat wealth tax: revenue is raised, the
// Gini coefficient drops by half the tax rate, and social stability
// is the complement of the new Gini.
func (e *Engine) Redistribution(totalWealth int64, gini, taxRate float64) RedistributionEffect {
	revenue := int64(math.Round(float64(totalWealth) * taxRate))
	newGini := math.Max(0, gini-taxRate*0.5)

	return RedistributionEffect{
		NewGini:       newGini,
		Stability:     1.0 - newGini,
		Redistributed: revenue,
	}
}
