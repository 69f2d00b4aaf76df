package repositories

import (
	"context"
	"time"

	"github.com/midasbot/midas/midas/database/models"
	"github.com/uptrace/bun"
)

type InvestmentRepository interface {
	Create(ctx context.Context, investment *models.Investment) error
	Update(ctx context.Context, investment *models.Investment) error
	GetByUser(ctx context.Context, guildID, userID string) ([]*models.Investment, error)
	GetByUserAndType(ctx context.Context, guildID, userID, invType string) ([]*models.Investment, error)
	DeleteByUserAndType(ctx context.Context, guildID, userID, invType string) (int64, error)
	GetStale(ctx context.Context, cutoff time.Time) ([]*models.Investment, error)
}

type investmentRepository struct {
	*BaseRepository
}

func NewInvestmentRepository(db *bun.DB) InvestmentRepository {
	return &investmentRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *investmentRepository) Create(ctx context.Context, investment *models.Investment) error {
	investment.CreatedAt = time.Now()
	investment.UpdatedAt = time.Now()

	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.GetDB().NewInsert().Model(investment).Exec(timeoutCtx)
	return r.HandleErrorWithID("create", "investment", investment.UserID, err)
}

func (r *investmentRepository) Update(ctx context.Context, investment *models.Investment) error {
	investment.UpdatedAt = time.Now()

	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.GetDB().NewUpdate().
		Model(investment).
		WherePK().
		Exec(timeoutCtx)
	return r.HandleErrorWithID("update", "investment", investment.ID, err)
}

func (r *investmentRepository) GetByUser(ctx context.Context, guildID, userID string) ([]*models.Investment, error) {
	var investments []*models.Investment
	err := r.SelectWithTimeout(ctx, "get_by_user", "investment", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(&investments).
			Where("guild_id = ? AND user_id = ?", guildID, userID).
			Order("created_at ASC").
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return investments, nil
}

func (r *investmentRepository) GetByUserAndType(ctx context.Context, guildID, userID, invType string) ([]*models.Investment, error) {
	var investments []*models.Investment
	err := r.SelectWithTimeout(ctx, "get_by_user_and_type", "investment", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(&investments).
			Where("guild_id = ? AND user_id = ? AND type = ?", guildID, userID, invType).
			Order("created_at ASC").
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return investments, nil
}

func (r *investmentRepository) DeleteByUserAndType(ctx context.Context, guildID, userID, invType string) (int64, error) {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	result, err := r.GetDB().NewDelete().
		Model((*models.Investment)(nil)).
		Where("guild_id = ? AND user_id = ? AND type = ?", guildID, userID, invType).
		Exec(timeoutCtx)
	if err != nil {
		return 0, r.HandleErrorWithID("delete_by_user_and_type", "investment", userID, err)
	}

	affected, _ := result.RowsAffected()
	return affected, nil
}

// GetStale returns holdings whose valuation is at least a day old,
// the revaluation sweep's working set.
func (r *investmentRepository) GetStale(ctx context.Context, cutoff time.Time) ([]*models.Investment, error) {
	var investments []*models.Investment
	err := r.SelectWithTimeout(ctx, "get_stale", "investment", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(&investments).
			Where("last_valued_at <= ?", cutoff).
			Order("guild_id ASC, id ASC").
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return investments, nil
}
