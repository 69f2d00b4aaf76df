package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Loan struct {
	bun.BaseModel `bun:"table:loans,alias:l"`

	ID      int64  `bun:"id,pk,autoincrement"`
	GuildID string `bun:"guild_id,notnull"`
	UserID  string `bun:"user_id,notnull"`

	Principal    int64     `bun:"principal,notnull"`
	Remaining    int64     `bun:"remaining,notnull"`
	InterestRate float64   `bun:"interest_rate,notnull"`
	DueDate      time.Time `bun:"due_date,notnull"`
	Defaulted    bool      `bun:"defaulted,notnull,default:false"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// Outstanding reports whether the loan still binds the borrower.
func (l *Loan) Outstanding() bool {
	return l.Remaining > 0 && !l.Defaulted
}
