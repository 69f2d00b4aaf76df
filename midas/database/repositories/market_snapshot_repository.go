package repositories

import (
	"context"
	"time"

	"github.com/midasbot/midas/midas/database/models"
	"github.com/uptrace/bun"
)

type MarketSnapshotRepository interface {
	Create(ctx context.Context, snapshot *models.MarketSnapshot) error
	GetLatest(ctx context.Context, guildID string) (*models.MarketSnapshot, error)
	GetRecent(ctx context.Context, guildID string, limit int) ([]*models.MarketSnapshot, error)
	GetOlderThan(ctx context.Context, cutoff time.Time) ([]*models.MarketSnapshot, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type marketSnapshotRepository struct {
	*BaseRepository
}

func NewMarketSnapshotRepository(db *bun.DB) MarketSnapshotRepository {
	return &marketSnapshotRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *marketSnapshotRepository) Create(ctx context.Context, snapshot *models.MarketSnapshot) error {
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = time.Now()
	}

	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.GetDB().NewInsert().Model(snapshot).Exec(timeoutCtx)
	return r.HandleError("create", "market_snapshot", err)
}

func (r *marketSnapshotRepository) GetLatest(ctx context.Context, guildID string) (*models.MarketSnapshot, error) {
	snapshot := new(models.MarketSnapshot)
	err := r.SelectOneWithTimeout(ctx, "get_latest", "market_snapshot", guildID, func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(snapshot).
			Where("guild_id = ?", guildID).
			Order("timestamp DESC").
			Limit(1).
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// GetRecent returns snapshots newest first.
func (r *marketSnapshotRepository) GetRecent(ctx context.Context, guildID string, limit int) ([]*models.MarketSnapshot, error) {
	var snapshots []*models.MarketSnapshot
	err := r.SelectWithTimeout(ctx, "get_recent", "market_snapshot", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(&snapshots).
			Where("guild_id = ?", guildID).
			Order("timestamp DESC").
			Limit(limit).
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (r *marketSnapshotRepository) GetOlderThan(ctx context.Context, cutoff time.Time) ([]*models.MarketSnapshot, error) {
	var snapshots []*models.MarketSnapshot
	err := r.SelectWithTimeout(ctx, "get_older_than", "market_snapshot", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(&snapshots).
			Where("timestamp < ?", cutoff).
			Order("guild_id ASC, timestamp ASC").
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (r *marketSnapshotRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	result, err := r.GetDB().NewDelete().
		Model((*models.MarketSnapshot)(nil)).
		Where("timestamp < ?", cutoff).
		Exec(timeoutCtx)
	if err != nil {
		return 0, r.HandleError("delete_older_than", "market_snapshot", err)
	}

	affected, _ := result.RowsAffected()
	return affected, nil
}
