package models

import (
	"time"

	"github.com/uptrace/bun"
)

type CrimeRecord struct {
	bun.BaseModel `bun:"table:crime_records,alias:cr"`

	ID      int64  `bun:"id,pk,autoincrement"`
	GuildID string `bun:"guild_id,notnull"`
	UserID  string `bun:"user_id,notnull"`

	Crime   string `bun:"crime,notnull"`
	Success bool   `bun:"success,notnull"`

	// Amount is the sum stolen on success or the fine paid on failure.
	Amount      int64     `bun:"amount,notnull"`
	JailedUntil time.Time `bun:"jailed_until"`

	Timestamp time.Time `bun:"timestamp,notnull"`
}
