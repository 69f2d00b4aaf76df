package engine

import (
	"math"
	"slices"

	"github.com/midasbot/midas/midas/economy/catalog"
)

// CrimeSuccessRate computes the success probability of a crime
// attempt. Skill above the requirement, inequality past the alert
// threshold and unemployment all raise it; police strength lowers it.
// Clamped to [0.05, 0.95] so no attempt is certain either way.
func (e *Engine) CrimeSuccessRate(crime catalog.Crime, skill int, gini, policeStrength, unemployment float64) float64 {
	skillBonus := float64(skill-crime.SkillRequired) * 0.05
	inequalityBonus := math.Max(0, (gini-catalog.GiniAlertThreshold)*0.5)
	unemploymentBonus := unemployment * 0.3
	policePenalty := policeStrength * 0.2

	rate := crime.BaseSuccess + skillBonus + inequalityBonus + unemploymentBonus - policePenalty
	return clamp(rate, 0.05, 0.95)
}

// RobSuccessRate computes the success probability of robbing another
// actor from the skill differential, clamped to [0.10, 0.90].
func (e *Engine) RobSuccessRate(robberSkill, victimSkill int) float64 {
	return clamp(0.4+float64(robberSkill-victimSkill)*0.05, 0.10, 0.90)
}

// InvestmentReturn computes the realized return rate of a position
// over a holding period. Expected return accrues pro rata, the market
// modifier rewards strong cycle phases, and a Gaussian shock scales
// with instrument risk and the square root of time. Bounds depend on
// the instrument.
func (e *Engine) InvestmentReturn(inv catalog.Investment, marketGrowth float64, holdingDays int, r Rand) float64 {
	timeFactor := float64(holdingDays) / 365.0

	expected := inv.AnnualReturn * timeFactor
	marketModifier := (marketGrowth - 0.9) * 2
	volatility := inv.RiskFactor * math.Sqrt(timeFactor)
	shock := r.NormFloat64() * volatility

	total := expected + marketModifier + shock

	switch inv.Name {
	case "cryptocurrency":
		return clamp(total, -0.90, 5.0)
	case "venture_capital":
		return clamp(total, -0.80, 3.0)
	default:
		return clamp(total, -0.50, 1.0)
	}
}

// CreditScore rates an actor's creditworthiness in [0, 1] from
// outstanding debt against twice the tier's loan ceiling.
func (e *Engine) CreditScore(totalDebt, maxLoan int64) float64 {
	if maxLoan <= 0 {
		return 0
	}
	return clamp(1.0-float64(totalDebt)/(float64(maxLoan)*2), 0, 1)
}

// LoanInterest computes the effective loan rate: the class base rate
// adjusted by credit score and the tenant's central-bank rate,
// clamped to [1%, 50%].
func (e *Engine) LoanInterest(class catalog.Class, creditScore, tenantBaseRate float64) float64 {
	creditModifier := 1.0 + (0.5 - creditScore)
	rateModifier := 1.0 + (tenantBaseRate-0.05)*2

	return clamp(class.LoanInterest*creditModifier*rateModifier, 0.01, 0.50)
}

// StrikeProbability computes the chance that a job's workers strike.
// Wages below 1.5x minimum wage build dissatisfaction, unemployment
// deters walking out, and union strength scales the whole term.
// Clamped to [0, 0.80].
func (e *Engine) StrikeProbability(job catalog.Job, st MacroState, unionStrength float64) float64 {
	// Reference worker at mid skill.
	wage := e.Wage(job, 5, st)

	var dissatisfaction float64
	if target := float64(st.MinWage) * 1.5; target > 0 {
		dissatisfaction = math.Max(0, (target-float64(wage))/target)
	}

	deterrent := st.UnemploymentRate * 0.5
	prob := (catalog.StrikeBaseRate + dissatisfaction*0.3 - deterrent) * unionStrength
	return clamp(prob, 0, 0.80)
}

// PoliticalInfluence scores an actor's political power: tier base
// power plus log10 of wealth plus any corporate influence, capped.
func (e *Engine) PoliticalInfluence(wealth int64, class catalog.Class, corporationInfluence int) int {
	wealthPower := int(math.Log10(math.Max(float64(wealth), 1)))

	total := class.PoliticalPower + wealthPower + corporationInfluence
	if total > catalog.PoliticalPowerCap {
		return catalog.PoliticalPowerCap
	}
	return total
}

// MonopolyPower maps a market share in [0, 1] to a Herfindahl-style
// concentration score in [0, 1].
func (e *Engine) MonopolyPower(marketShare float64) float64 {
	hhi := math.Pow(marketShare*100, 2)
	return hhi / 10000
}

// WelfarePayment computes the welfare transfer for an actor. Only
// welfare-eligible tiers receive anything; unemployment doubles the
// base amount.
func (e *Engine) WelfarePayment(class catalog.Class, baseAmount int64, unemployed bool) int64 {
	if !class.WelfareEligible {
		return 0
	}
	if unemployed {
		return baseAmount * 2
	}
	return baseAmount
}

// MarketVolatility draws the next mean-reverting volatility reading,
// clamped to [0.01, 0.50].
func (e *Engine) MarketVolatility(base float64, r Rand) float64 {
	const persistence = 0.85

	shock := r.NormFloat64() * base
	vol := persistence*base + (1-persistence)*math.Abs(shock)
	return clamp(vol, 0.01, 0.50)
}

// Allocation is one slice of a suggested portfolio.
type Allocation struct {
	Investment catalog.Investment
	Amount     int64
}

// OptimizePortfolio greedily allocates funds across instruments in
// descending return/risk order. Each acceptable instrument takes 30%
// of the remaining funds; instruments riskier than the tolerance are
// skipped, and allocation stops when less than 100 remains.
func (e *Engine) OptimizePortfolio(availableFunds int64, riskTolerance float64) []Allocation {
	instruments := e.cat.Investments()
	slices.SortStableFunc(instruments, func(a, b catalog.Investment) int {
		ra := a.AnnualReturn / math.Max(a.RiskFactor, 0.01)
		rb := b.AnnualReturn / math.Max(b.RiskFactor, 0.01)
		switch {
		case ra > rb:
			return -1
		case ra < rb:
			return 1
		default:
			return 0
		}
	})

	var allocations []Allocation
	remaining := availableFunds

	for _, inv := range instruments {
		if remaining < inv.MinAmount {
			continue
		}
		if inv.RiskFactor <= riskTolerance {
			amount := int64(math.Round(float64(remaining) * 0.3))
			allocations = append(allocations, Allocation{Investment: inv, Amount: amount})
			remaining -= amount
		}
		if remaining < 100 {
			break
		}
	}

	return allocations
}
