package repositories

import (
	"context"
	"time"

	"github.com/midasbot/midas/midas/database/models"
	"github.com/uptrace/bun"
)

type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	Update(ctx context.Context, loan *models.Loan) error
	GetOpenByUser(ctx context.Context, guildID, userID string) ([]*models.Loan, error)
	TotalDebt(ctx context.Context, guildID, userID string) (int64, error)
	GetDue(ctx context.Context, asOf time.Time) ([]*models.Loan, error)
}

type loanRepository struct {
	*BaseRepository
}

func NewLoanRepository(db *bun.DB) LoanRepository {
	return &loanRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	loan.CreatedAt = time.Now()
	loan.UpdatedAt = time.Now()

	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.GetDB().NewInsert().Model(loan).Exec(timeoutCtx)
	return r.HandleErrorWithID("create", "loan", loan.UserID, err)
}

func (r *loanRepository) Update(ctx context.Context, loan *models.Loan) error {
	loan.UpdatedAt = time.Now()

	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.GetDB().NewUpdate().
		Model(loan).
		WherePK().
		Exec(timeoutCtx)
	return r.HandleErrorWithID("update", "loan", loan.ID, err)
}

// GetOpenByUser returns outstanding loans oldest due first, the order
// repayments are applied in.
func (r *loanRepository) GetOpenByUser(ctx context.Context, guildID, userID string) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.SelectWithTimeout(ctx, "get_open_by_user", "loan", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(&loans).
			Where("guild_id = ? AND user_id = ?", guildID, userID).
			Where("remaining > 0 AND defaulted = false").
			Order("due_date ASC").
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *loanRepository) TotalDebt(ctx context.Context, guildID, userID string) (int64, error) {
	var debt int64
	err := r.SelectWithTimeout(ctx, "total_debt", "loan", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model((*models.Loan)(nil)).
			ColumnExpr("COALESCE(SUM(remaining), 0)").
			Where("guild_id = ? AND user_id = ?", guildID, userID).
			Where("remaining > 0 AND defaulted = false").
			Scan(ctx, &debt)
	})
	return debt, err
}

// GetDue returns overdue open loans across all tenants for the
// default sweep.
func (r *loanRepository) GetDue(ctx context.Context, asOf time.Time) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.SelectWithTimeout(ctx, "get_due", "loan", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(&loans).
			Where("due_date < ?", asOf).
			Where("remaining > 0 AND defaulted = false").
			Order("guild_id ASC, due_date ASC").
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return loans, nil
}
