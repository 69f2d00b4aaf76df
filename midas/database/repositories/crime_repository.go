package repositories

import (
	"context"
	"time"

	"github.com/midasbot/midas/midas/database/models"
	"github.com/uptrace/bun"
)

type CrimeRepository interface {
	Create(ctx context.Context, record *models.CrimeRecord) error
	GetRecentByUser(ctx context.Context, guildID, userID string, limit int) ([]*models.CrimeRecord, error)
	CountSince(ctx context.Context, guildID string, since time.Time) (int, error)
}

type crimeRepository struct {
	*BaseRepository
}

func NewCrimeRepository(db *bun.DB) CrimeRepository {
	return &crimeRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *crimeRepository) Create(ctx context.Context, record *models.CrimeRecord) error {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.GetDB().NewInsert().Model(record).Exec(timeoutCtx)
	return r.HandleError("create", "crime_record", err)
}

func (r *crimeRepository) GetRecentByUser(ctx context.Context, guildID, userID string, limit int) ([]*models.CrimeRecord, error) {
	var records []*models.CrimeRecord
	err := r.SelectWithTimeout(ctx, "get_recent_by_user", "crime_record", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(&records).
			Where("guild_id = ? AND user_id = ?", guildID, userID).
			Order("timestamp DESC").
			Limit(limit).
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CountSince reports guild-wide crime volume in a window, a rough
// lawlessness gauge for reports.
func (r *crimeRepository) CountSince(ctx context.Context, guildID string, since time.Time) (int, error) {
	query := r.GetDB().NewSelect().
		Model((*models.CrimeRecord)(nil)).
		Where("guild_id = ? AND timestamp >= ?", guildID, since)
	return r.Count(ctx, "crime_record", query)
}
