package repositories

import (
	"context"
	"time"

	"github.com/midasbot/midas/midas/database/models"
	"github.com/uptrace/bun"
)

type ElectionRepository interface {
	Create(ctx context.Context, election *models.Election) error
	Update(ctx context.Context, election *models.Election) error
	GetActive(ctx context.Context, guildID, position string, asOf time.Time) (*models.Election, error)
	GetExpired(ctx context.Context, asOf time.Time) ([]*models.Election, error)
	GetOfficeholders(ctx context.Context, guildID string, asOf time.Time) ([]*models.Election, error)
}

type electionRepository struct {
	*BaseRepository
}

func NewElectionRepository(db *bun.DB) ElectionRepository {
	return &electionRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *electionRepository) Create(ctx context.Context, election *models.Election) error {
	election.CreatedAt = time.Now()
	election.UpdatedAt = time.Now()

	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.GetDB().NewInsert().Model(election).Exec(timeoutCtx)
	return r.HandleErrorWithID("create", "election", election.Position, err)
}

func (r *electionRepository) Update(ctx context.Context, election *models.Election) error {
	election.UpdatedAt = time.Now()

	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.GetDB().NewUpdate().
		Model(election).
		WherePK().
		Exec(timeoutCtx)
	return r.HandleErrorWithID("update", "election", election.ID, err)
}

// GetActive returns the single open race for a position, if one is
// running.
func (r *electionRepository) GetActive(ctx context.Context, guildID, position string, asOf time.Time) (*models.Election, error) {
	election := new(models.Election)
	err := r.SelectWithTimeout(ctx, "get_active", "election", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(election).
			Where("guild_id = ? AND position = ?", guildID, position).
			Where("closed = false AND end_time > ?", asOf).
			Order("end_time ASC").
			Limit(1).
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return election, nil
}

// GetExpired returns open races past their end time across all tenants
// for the finalization sweep.
func (r *electionRepository) GetExpired(ctx context.Context, asOf time.Time) ([]*models.Election, error) {
	var elections []*models.Election
	err := r.SelectWithTimeout(ctx, "get_expired", "election", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(&elections).
			Where("closed = false AND end_time <= ?", asOf).
			Order("guild_id ASC, end_time ASC").
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return elections, nil
}

// GetOfficeholders returns closed races whose winners are still serving
// their terms.
func (r *electionRepository) GetOfficeholders(ctx context.Context, guildID string, asOf time.Time) ([]*models.Election, error) {
	var elections []*models.Election
	err := r.SelectWithTimeout(ctx, "get_officeholders", "election", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(&elections).
			Where("guild_id = ?", guildID).
			Where("closed = true AND winner_id <> '' AND term_end > ?", asOf).
			Order("position ASC").
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return elections, nil
}
