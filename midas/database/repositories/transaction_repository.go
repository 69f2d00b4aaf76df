package repositories

import (
	"context"
	"time"

	"github.com/midasbot/midas/midas/database/models"
	"github.com/uptrace/bun"
)

type TransactionRepository interface {
	Create(ctx context.Context, txn *models.Transaction) error
	SumVolumeSince(ctx context.Context, guildID string, since time.Time) (int64, error)
	GetRecentByUser(ctx context.Context, guildID, userID string, limit int) ([]*models.Transaction, error)
	GetRecent(ctx context.Context, guildID string, limit int) ([]*models.Transaction, error)
	GetOlderThan(ctx context.Context, cutoff time.Time) ([]*models.Transaction, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type transactionRepository struct {
	*BaseRepository
}

func NewTransactionRepository(db *bun.DB) TransactionRepository {
	return &transactionRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *transactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	if txn.Timestamp.IsZero() {
		txn.Timestamp = time.Now()
	}

	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.GetDB().NewInsert().Model(txn).Exec(timeoutCtx)
	return r.HandleError("create", "transaction", err)
}

// SumVolumeSince totals recorded transaction volume in a window, the
// raw input for GDP.
func (r *transactionRepository) SumVolumeSince(ctx context.Context, guildID string, since time.Time) (int64, error) {
	var volume int64
	err := r.SelectWithTimeout(ctx, "sum_volume_since", "transaction", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model((*models.Transaction)(nil)).
			ColumnExpr("COALESCE(SUM(amount), 0)").
			Where("guild_id = ? AND timestamp >= ?", guildID, since).
			Scan(ctx, &volume)
	})
	return volume, err
}

func (r *transactionRepository) GetRecentByUser(ctx context.Context, guildID, userID string, limit int) ([]*models.Transaction, error) {
	var txns []*models.Transaction
	err := r.SelectWithTimeout(ctx, "get_recent_by_user", "transaction", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(&txns).
			Where("guild_id = ?", guildID).
			Where("from_id = ? OR to_id = ?", userID, userID).
			Order("timestamp DESC").
			Limit(limit).
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *transactionRepository) GetRecent(ctx context.Context, guildID string, limit int) ([]*models.Transaction, error) {
	var txns []*models.Transaction
	err := r.SelectWithTimeout(ctx, "get_recent", "transaction", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(&txns).
			Where("guild_id = ?", guildID).
			Order("timestamp DESC").
			Limit(limit).
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *transactionRepository) GetOlderThan(ctx context.Context, cutoff time.Time) ([]*models.Transaction, error) {
	var txns []*models.Transaction
	err := r.SelectWithTimeout(ctx, "get_older_than", "transaction", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(&txns).
			Where("timestamp < ?", cutoff).
			Order("guild_id ASC, timestamp ASC").
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *transactionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	result, err := r.GetDB().NewDelete().
		Model((*models.Transaction)(nil)).
		Where("timestamp < ?", cutoff).
		Exec(timeoutCtx)
	if err != nil {
		return 0, r.HandleError("delete_older_than", "transaction", err)
	}

	affected, _ := result.RowsAffected()
	return affected, nil
}
