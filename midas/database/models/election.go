package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Election is a guild-level race for one political office. While open it
// accumulates weighted votes; once closed it records the winner and how
// long the term runs.
type Election struct {
	bun.BaseModel `bun:"table:elections,alias:el"`

	ID       int64  `bun:"id,pk,autoincrement"`
	GuildID  string `bun:"guild_id,notnull"`
	Position string `bun:"position,notnull"`

	Candidates []string       `bun:"candidates,type:jsonb,notnull,default:'[]'"`
	Voters     []string       `bun:"voters,type:jsonb,notnull,default:'[]'"`
	Votes      map[string]int `bun:"votes,type:jsonb,notnull,default:'{}'"`

	StartTime time.Time `bun:"start_time,notnull"`
	EndTime   time.Time `bun:"end_time,notnull"`

	Closed   bool      `bun:"closed,notnull,default:false"`
	WinnerID string    `bun:"winner_id,notnull,default:''"`
	TermEnd  time.Time `bun:"term_end,nullzero"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// Active reports whether the race is still accepting candidates and votes.
func (e *Election) Active(now time.Time) bool {
	return !e.Closed && e.EndTime.After(now)
}
