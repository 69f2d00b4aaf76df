package models

import (
	"time"

	"github.com/uptrace/bun"
)

// JobUnemployed is the job every player starts with and falls back to.
const JobUnemployed = "unemployed"

type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID      int64  `bun:"id,pk,autoincrement"`
	GuildID string `bun:"guild_id,notnull"`
	UserID  string `bun:"user_id,notnull"`

	// Wealth
	Balance int64 `bun:"balance,notnull,default:0"`
	Bank    int64 `bun:"bank,notnull,default:0"`

	// Labor
	Job        string `bun:"job,notnull,default:'unemployed'"`
	Skill      int    `bun:"skill,notnull,default:0"`
	Experience int64  `bun:"experience,notnull,default:0"`

	// Social standing
	Reputation     int  `bun:"reputation,notnull,default:0"`
	PoliticalPower int  `bun:"political_power,notnull,default:1"`
	UnionMember    bool `bun:"union_member,notnull,default:false"`

	// Inventory keyed by item name
	Inventory map[string]int `bun:"inventory,type:jsonb"`

	// Lifetime counters
	Stats PlayerStats `bun:"stats,type:jsonb"`

	// Action timestamps
	LastWork    time.Time `bun:"last_work"`
	LastCrime   time.Time `bun:"last_crime"`
	LastRob     time.Time `bun:"last_rob"`
	LastDaily   time.Time `bun:"last_daily"`
	LastWeekly  time.Time `bun:"last_weekly"`
	LastMonthly time.Time `bun:"last_monthly"`
	JailedUntil time.Time `bun:"jailed_until"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

type PlayerStats struct {
	TotalEarned     int64 `json:"total_earned"`
	TotalSpent      int64 `json:"total_spent"`
	TaxesPaid       int64 `json:"taxes_paid"`
	JobsWorked      int   `json:"jobs_worked"`
	CrimesCommitted int   `json:"crimes_committed"`
	CrimesSucceeded int   `json:"crimes_succeeded"`
	LoansTaken      int   `json:"loans_taken"`
	InvestmentsMade int   `json:"investments_made"`
}

// Wealth is the classification basis for wealth class lookups.
func (p *Player) Wealth() int64 {
	return p.Balance + p.Bank
}

// Jailed reports whether the player is locked out of work and crime.
func (p *Player) Jailed(now time.Time) bool {
	return p.JailedUntil.After(now)
}
