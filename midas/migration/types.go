package migration

import (
	"time"
)

// Legacy document shapes decoded straight off the old bot's MongoDB
// collections. Money was stored as doubles there, Discord ids as
// int64, and several counters drifted between int32 and double over
// the years, so every numeric field decodes into the widest type and
// the converters narrow them.

type legacyStats struct {
	TotalEarned     float64 `bson:"total_earned"`
	TotalSpent      float64 `bson:"total_spent"`
	CrimesCommitted float64 `bson:"crimes_committed"`
	CrimesSuccess   float64 `bson:"crimes_success"`
	JobsWorked      float64 `bson:"jobs_worked"`
	TaxesPaid       float64 `bson:"taxes_paid"`
	LoansTaken      float64 `bson:"loans_taken"`
	InvestmentsMade float64 `bson:"investments_made"`
}

type legacyUser struct {
	UserID         int64              `bson:"user_id"`
	GuildID        int64              `bson:"guild_id"`
	Balance        float64            `bson:"balance"`
	Bank           float64            `bson:"bank"`
	Job            string             `bson:"job"`
	SkillLevel     float64            `bson:"skill_level"`
	Experience     float64            `bson:"experience"`
	Reputation     float64            `bson:"reputation"`
	PoliticalPower float64            `bson:"political_power"`
	UnionMember    bool               `bson:"union_member"`
	JailUntil      time.Time          `bson:"jail_until"`
	LastDaily      time.Time          `bson:"last_daily"`
	LastWeekly     time.Time          `bson:"last_weekly"`
	LastMonthly    time.Time          `bson:"last_monthly"`
	LastWork       time.Time          `bson:"last_work"`
	Inventory      map[string]float64 `bson:"inventory"`
	Statistics     legacyStats        `bson:"statistics"`
	CreatedAt      time.Time          `bson:"created_at"`
}

// legacySettings is the per-server settings sub-document. Servers
// created before the settings rollout carry none at all, which decodes
// as all zeroes.
type legacySettings struct {
	TaxRate             float64 `bson:"tax_rate"`
	InterestRate        float64 `bson:"interest_rate"`
	MinWage             float64 `bson:"min_wage"`
	UnemploymentBenefit float64 `bson:"unemployment_benefit"`
	WelfareAmount       float64 `bson:"welfare_amount"`
}

type legacyJobSlot struct {
	Employed       float64 `bson:"employed"`
	WageMultiplier float64 `bson:"wage_multiplier"`
}

type legacyEvent struct {
	Name      string    `bson:"name"`
	StartTime time.Time `bson:"start_time"`
	EndTime   time.Time `bson:"end_time"`
}

type legacyServer struct {
	GuildID          int64                    `bson:"guild_id"`
	Settings         legacySettings           `bson:"settings"`
	GDP              float64                  `bson:"gdp"`
	MoneySupply      float64                  `bson:"total_money_supply"`
	InflationRate    float64                  `bson:"inflation_rate"`
	UnemploymentRate float64                  `bson:"unemployment_rate"`
	Gini             float64                  `bson:"gini_coefficient"`
	CyclePhase       string                   `bson:"cycle_phase"`
	CycleStart       time.Time                `bson:"cycle_start"`
	InterestRate     float64                  `bson:"interest_rate"`
	MinWage          float64                  `bson:"min_wage"`
	TaxRevenue       float64                  `bson:"tax_revenue"`
	GovernmentBudget float64                  `bson:"government_budget"`
	MarketPrices     map[string]float64       `bson:"market_prices"`
	JobMarket        map[string]legacyJobSlot `bson:"job_market"`
	ActiveEvents     []legacyEvent            `bson:"active_events"`
	LastUpdate       time.Time                `bson:"last_update"`
	CreatedAt        time.Time                `bson:"created_at"`
}

type legacyLoan struct {
	UserID       int64     `bson:"user_id"`
	GuildID      int64     `bson:"guild_id"`
	Principal    float64   `bson:"principal"`
	InterestRate float64   `bson:"interest_rate"`
	Remaining    float64   `bson:"remaining"`
	DueDate      time.Time `bson:"due_date"`
	Defaulted    bool      `bson:"defaulted"`
	CreatedAt    time.Time `bson:"created_at"`
}

type legacyInvestment struct {
	UserID       int64     `bson:"user_id"`
	GuildID      int64     `bson:"guild_id"`
	Type         string    `bson:"type"`
	Principal    float64   `bson:"principal"`
	CurrentValue float64   `bson:"current_value"`
	CreatedAt    time.Time `bson:"created_at"`
	LastUpdate   time.Time `bson:"last_update"`
}

type legacyTransaction struct {
	GuildID   int64          `bson:"guild_id"`
	FromUser  int64          `bson:"from_user"`
	ToUser    int64          `bson:"to_user"`
	Amount    float64        `bson:"amount"`
	Type      string         `bson:"type"`
	Metadata  map[string]any `bson:"metadata"`
	Timestamp time.Time      `bson:"timestamp"`
}

type legacyCrime struct {
	UserID    int64     `bson:"user_id"`
	GuildID   int64     `bson:"guild_id"`
	CrimeType string    `bson:"crime_type"`
	Success   bool      `bson:"success"`
	Amount    float64   `bson:"amount"`
	Timestamp time.Time `bson:"timestamp"`
}

type legacyElection struct {
	GuildID    int64              `bson:"guild_id"`
	Position   string             `bson:"position"`
	Candidates []int64            `bson:"candidates"`
	Voters     []int64            `bson:"voters"`
	Votes      map[string]float64 `bson:"votes"`
	Active     bool               `bson:"active"`
	StartTime  time.Time          `bson:"start_time"`
	EndTime    time.Time          `bson:"end_time"`
}

// legacySnapshot nests the indicator payload under a data key.
type legacySnapshot struct {
	GuildID   int64     `bson:"guild_id"`
	Timestamp time.Time `bson:"timestamp"`
	Data      struct {
		GDP          float64 `bson:"gdp"`
		Inflation    float64 `bson:"inflation"`
		Unemployment float64 `bson:"unemployment"`
		Gini         float64 `bson:"gini"`
		CyclePhase   string  `bson:"cycle_phase"`
	} `bson:"data"`
}

// MigrationStats summarizes one import run.
type MigrationStats struct {
	Tables    map[string]*TableStats `json:"tables"`
	StartTime time.Time              `json:"start_time"`
	EndTime   time.Time              `json:"end_time"`
}

// TableStats tracks progress for one target table.
type TableStats struct {
	Table     string `json:"table"`
	Processed int    `json:"processed"`
	Inserted  int    `json:"inserted"`
	Skipped   int    `json:"skipped"`
	Errors    int    `json:"errors"`
}
