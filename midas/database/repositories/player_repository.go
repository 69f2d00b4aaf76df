package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/midasbot/midas/midas/database/models"
	"github.com/uptrace/bun"
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	Get(ctx context.Context, guildID, userID string) (*models.Player, error)
	GetOrCreate(ctx context.Context, template *models.Player) (*models.Player, error)
	Update(ctx context.Context, player *models.Player) error
	GetByGuild(ctx context.Context, guildID string) ([]*models.Player, error)
	GetTopByWealth(ctx context.Context, guildID string, limit int) ([]*models.Player, error)
	GetMoneySupply(ctx context.Context, guildID string) (int64, error)
	JobEmployment(ctx context.Context, guildID string) (map[string]int, error)
	CountByGuild(ctx context.Context, guildID string) (int, error)
}

type playerRepository struct {
	*BaseRepository
}

func NewPlayerRepository(db *bun.DB) PlayerRepository {
	return &playerRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *playerRepository) Create(ctx context.Context, player *models.Player) error {
	player.CreatedAt = time.Now()
	player.UpdatedAt = time.Now()

	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.GetDB().NewInsert().Model(player).Exec(timeoutCtx)
	return r.HandleErrorWithID("create", "player", player.UserID, err)
}

func (r *playerRepository) Get(ctx context.Context, guildID, userID string) (*models.Player, error) {
	player := new(models.Player)
	err := r.SelectOneWithTimeout(ctx, "get", "player", userID, func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(player).
			Where("guild_id = ? AND user_id = ?", guildID, userID).
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return player, nil
}

// GetOrCreate inserts the template when the player is new and returns
// the stored row either way. Losing an insert race is fine, the
// follow-up select sees the winner's row.
func (r *playerRepository) GetOrCreate(ctx context.Context, template *models.Player) (*models.Player, error) {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	template.CreatedAt = time.Now()
	template.UpdatedAt = time.Now()

	_, err := r.GetDB().NewInsert().
		Model(template).
		On("CONFLICT (guild_id, user_id) DO NOTHING").
		Exec(timeoutCtx)
	if err != nil {
		return nil, r.HandleErrorWithID("get_or_create", "player", template.UserID, err)
	}

	return r.Get(ctx, template.GuildID, template.UserID)
}

func (r *playerRepository) Update(ctx context.Context, player *models.Player) error {
	player.UpdatedAt = time.Now()

	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.GetDB().NewUpdate().
		Model(player).
		WherePK().
		Exec(timeoutCtx)
	return r.HandleErrorWithID("update", "player", player.UserID, err)
}

func (r *playerRepository) GetByGuild(ctx context.Context, guildID string) ([]*models.Player, error) {
	slog.Debug("PlayerRepository.GetByGuild called",
		slog.String("type", "db"),
		slog.String("operation", "GetByGuild"),
		slog.String("guild_id", guildID))

	var players []*models.Player
	err := r.SelectWithTimeout(ctx, "get_by_guild", "player", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(&players).
			Where("guild_id = ?", guildID).
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return players, nil
}

func (r *playerRepository) GetTopByWealth(ctx context.Context, guildID string, limit int) ([]*models.Player, error) {
	var players []*models.Player
	err := r.SelectWithTimeout(ctx, "get_top_by_wealth", "player", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(&players).
			Where("guild_id = ?", guildID).
			OrderExpr("balance + bank DESC").
			Limit(limit).
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return players, nil
}

func (r *playerRepository) GetMoneySupply(ctx context.Context, guildID string) (int64, error) {
	var supply int64
	err := r.SelectWithTimeout(ctx, "get_money_supply", "player", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model((*models.Player)(nil)).
			ColumnExpr("COALESCE(SUM(balance + bank), 0)").
			Where("guild_id = ?", guildID).
			Scan(ctx, &supply)
	})
	return supply, err
}

func (r *playerRepository) JobEmployment(ctx context.Context, guildID string) (map[string]int, error) {
	var rows []struct {
		Job   string `bun:"job"`
		Count int    `bun:"count"`
	}

	err := r.SelectWithTimeout(ctx, "job_employment", "player", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model((*models.Player)(nil)).
			ColumnExpr("job, COUNT(*) AS count").
			Where("guild_id = ?", guildID).
			GroupExpr("job").
			Scan(ctx, &rows)
	})
	if err != nil {
		return nil, err
	}

	employment := make(map[string]int, len(rows))
	for _, row := range rows {
		employment[row.Job] = row.Count
	}
	return employment, nil
}

func (r *playerRepository) CountByGuild(ctx context.Context, guildID string) (int, error) {
	query := r.GetDB().NewSelect().
		Model((*models.Player)(nil)).
		Where("guild_id = ?", guildID)
	return r.Count(ctx, "player", query)
}
