package models

import (
	"time"

	"github.com/uptrace/bun"
)

// MarketSnapshot is one tick's worth of macro history. Growth math and
// long-range reports read these instead of the live economy row.
type MarketSnapshot struct {
	bun.BaseModel `bun:"table:market_snapshots,alias:ms"`

	ID      int64  `bun:"id,pk,autoincrement"`
	GuildID string `bun:"guild_id,notnull"`

	GDP              float64 `bun:"gdp,notnull"`
	InflationRate    float64 `bun:"inflation_rate,notnull"`
	UnemploymentRate float64 `bun:"unemployment_rate,notnull"`
	Gini             float64 `bun:"gini,notnull"`
	Volatility       float64 `bun:"volatility,notnull"`
	CyclePhase       string  `bun:"cycle_phase,notnull"`
	MoneySupply      int64   `bun:"money_supply,notnull"`

	Timestamp time.Time `bun:"timestamp,notnull"`
}
