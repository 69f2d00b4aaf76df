package engine

import (
	"math"

	"github.com/midasbot/midas/midas/economy/catalog"
)

// moneyVelocity is the money turnover factor in the quantity theory
// inflation model (MV = PY).
const moneyVelocity = 1.5

// Wage computes the effective per-shift wage for a job under the
// given macro state. Base salary scales with the cycle phase, labor
// supply, the worker's skill and tenant GDP, then floors at the
// tenant minimum wage. A zero-base job (unemployed) always pays 0.
func (e *Engine) Wage(job catalog.Job, skill int, st MacroState) int64 {
	if job.BaseSalary == 0 {
		return 0
	}

	phaseModifier := e.cat.Modifiers(st.CyclePhase).GDPGrowth

	// Fewer workers in a job push its wage up, scaled by demand
	// elasticity and capped at 2x.
	employed := math.Max(float64(st.JobEmployment[job.Name]), 1)
	supplyModifier := math.Min(1.0+job.DemandElasticity/employed, 2.0)

	// Skill above the job's requirement adds up to 50%.
	skillRequired := math.Max(float64(job.SkillRequired), 1)
	skillModifier := math.Min(1.0+(float64(skill)/skillRequired)*0.5, 1.5)

	// Richer tenants pay more, capped at 2x.
	gdpModifier := math.Min(1.0+(st.GDP/1_000_000)*0.1, 2.0)

	salary := float64(job.BaseSalary) * phaseModifier * supplyModifier * skillModifier * gdpModifier

	wage := int64(math.Round(salary))
	if wage < st.MinWage {
		return st.MinWage
	}
	return wage
}

// Tax computes the progressive tax on an income amount. The class
// base rate scales with the tenant tax modifier.
func (e *Engine) Tax(income int64, class catalog.Class, tenantTaxModifier float64) int64 {
	if income <= 0 {
		return 0
	}
	return int64(math.Round(float64(income) * class.TaxRate * tenantTaxModifier))
}

// ItemPrice computes the current market price of an item from its
// base price, the tenant inflation rate and a demand factor. The
// price never drops below the necessity floor (base * necessity / 2).
func (e *Engine) ItemPrice(item catalog.Item, inflationRate, demandFactor float64) int64 {
	inflationAdjusted := float64(item.BasePrice) * (1 + inflationRate)
	demandAdjustment := 1.0 + (demandFactor-1.0)*item.Elasticity
	priceFloor := float64(item.BasePrice) * item.Necessity * 0.5

	price := math.Max(inflationAdjusted*demandAdjustment, priceFloor)
	return int64(math.Round(price))
}

// Inflation derives the inflation rate from the quantity theory of
// money, bounded to [-5%, +20%]. A non-positive GDP yields the 2%
// default.
func (e *Engine) Inflation(moneySupply, gdp float64) float64 {
	if gdp <= 0 {
		return 0.02
	}
	priceLevel := (moneySupply * moneyVelocity) / gdp
	rate := (priceLevel - 1.0) * catalog.InflationSensitivity
	return clamp(rate, -0.05, 0.20)
}

// Productivity is the per-shift output multiplier for a worker,
// driven by skill, experience (diminishing returns) and the cycle
// phase, capped at 3x.
func (e *Engine) Productivity(skill, experience int, phase catalog.Phase) float64 {
	skillFactor := 1.0 + float64(skill)*0.05
	experienceFactor := 1.0 + math.Log10(math.Max(float64(experience+1), 1))*0.1
	cycleFactor := e.cat.Modifiers(phase).GDPGrowth

	return math.Min(skillFactor*experienceFactor*cycleFactor, 3.0)
}
