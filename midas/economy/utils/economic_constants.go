package utils

import (
	"time"

	"github.com/midasbot/midas/midas/economy/catalog"
)

// Transfer and Market Constants
const (
	TransferFeeRate   = 0.005 // 0.5% of each player-to-player transfer is burned
	MarketResaleRate  = 0.70  // items sell back at 70% of the market price
	MinTransferAmount = 1
)

// Loan Constants
const (
	LoanTermDays          = 30
	LoanDebtCeilingFactor = 2 // total debt may not exceed class max loan x factor
)

// Crime and Robbery Constants
const (
	CrimeFineRate       = 0.50 // failed crime fine as a share of the rolled take
	DefaultPoliceLevel  = 0.50
	RobVictimMinBalance = 100
	RobStealMinRate     = 0.10
	RobStealMaxRate     = 0.30
	RobFineMinRate      = 0.10
	RobFineMaxRate      = 0.20
)

// Reputation Deltas
const (
	RepLossCrimeSuccess = 5
	RepLossCrimeFail    = 10
	RepLossRobSuccess   = 3
	RepLossRobFail      = 5
	RepLossLoanDefault  = 50
)

// Periodic Reward Constants
const (
	DailyBaseAmount   = 100
	DailyBonusMax     = 50
	WeeklyBaseAmount  = 1000
	WeeklyTierStep    = 0.5 // weekly reward grows 50% per class rung
	MonthlyBaseAmount = 5000
)

// Skill Progression Constants
const (
	SkillGainChance = 0.3
	SkillGainMin    = 1
	SkillGainMax    = 3
)

// Election Constants
const (
	ElectionDuration = 48 * time.Hour
)

// Transaction Constants
const (
	DefaultTxTimeout = 30 * time.Second
)

// DailyClassMultipliers scale the daily reward by wealth class.
var DailyClassMultipliers = map[catalog.Tier]float64{
	catalog.TierLower:    1.0,
	catalog.TierMiddle:   1.5,
	catalog.TierUpper:    2.0,
	catalog.TierElite:    3.0,
	catalog.TierOligarch: 5.0,
}

// DailyClassMultiplier returns the daily reward multiplier for a tier,
// defaulting to the bottom rung for unknown tiers.
func DailyClassMultiplier(t catalog.Tier) float64 {
	if m, ok := DailyClassMultipliers[t]; ok {
		return m
	}
	return 1.0
}
