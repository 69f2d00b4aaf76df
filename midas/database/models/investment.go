package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Investment struct {
	bun.BaseModel `bun:"table:investments,alias:inv"`

	ID      int64  `bun:"id,pk,autoincrement"`
	GuildID string `bun:"guild_id,notnull"`
	UserID  string `bun:"user_id,notnull"`

	Type         string `bun:"type,notnull"`
	Principal    int64  `bun:"principal,notnull"`
	CurrentValue int64  `bun:"current_value,notnull"`

	// LastValuedAt anchors the holding-period math on the next
	// revaluation sweep.
	LastValuedAt time.Time `bun:"last_valued_at,notnull"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
