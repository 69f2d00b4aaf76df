package models

import (
	"time"

	"github.com/uptrace/bun"
)

// GuildEconomy is the single macro-state row each tenant owns. The
// simulator rewrites it once per tick; action handlers read it and
// adjust the fiscal counters.
type GuildEconomy struct {
	bun.BaseModel `bun:"table:guild_economies,alias:ge"`

	ID      int64  `bun:"id,pk,autoincrement"`
	GuildID string `bun:"guild_id,notnull,unique"`

	// Macro indicators
	GDP              float64 `bun:"gdp,notnull,default:0"`
	InflationRate    float64 `bun:"inflation_rate,notnull,default:0.02"`
	UnemploymentRate float64 `bun:"unemployment_rate,notnull,default:0.05"`
	Gini             float64 `bun:"gini,notnull,default:0"`

	// Business cycle
	CyclePhase string    `bun:"cycle_phase,notnull,default:'expansion'"`
	CycleStart time.Time `bun:"cycle_start,notnull"`

	// Fiscal policy
	TaxRate             float64 `bun:"tax_rate,notnull,default:0.2"`
	InterestRate        float64 `bun:"interest_rate,notnull,default:0.05"`
	MinWage             int64   `bun:"min_wage,notnull,default:1500"`
	UnemploymentBenefit int64   `bun:"unemployment_benefit,notnull,default:600"`
	WelfareAmount       int64   `bun:"welfare_amount,notnull,default:500"`
	PoliceStrength      float64 `bun:"police_strength,notnull,default:0.5"`
	TaxRevenue          int64   `bun:"tax_revenue,notnull,default:0"`
	GovernmentBudget    int64   `bun:"government_budget,notnull,default:0"`

	// Markets
	MarketPrices map[string]int64          `bun:"market_prices,type:jsonb"`
	JobMarket    map[string]JobMarketEntry `bun:"job_market,type:jsonb"`
	ActiveEvents []ActiveEvent             `bun:"active_events,type:jsonb"`

	LastTickAt time.Time `bun:"last_tick_at"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt  time.Time `bun:"updated_at,notnull"`
}

type JobMarketEntry struct {
	Employed       int     `json:"employed"`
	WageMultiplier float64 `json:"wage_multiplier"`
}

type ActiveEvent struct {
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}
