package repositories

import (
	"context"
	"time"

	"github.com/midasbot/midas/midas/database/models"
	"github.com/uptrace/bun"
)

type EconomyRepository interface {
	Get(ctx context.Context, guildID string) (*models.GuildEconomy, error)
	GetOrCreate(ctx context.Context, template *models.GuildEconomy) (*models.GuildEconomy, error)
	Update(ctx context.Context, economy *models.GuildEconomy) error
	ListGuildIDs(ctx context.Context) ([]string, error)
	AddFiscal(ctx context.Context, guildID string, taxDelta, budgetDelta int64) error
}

type economyRepository struct {
	*BaseRepository
}

func NewEconomyRepository(db *bun.DB) EconomyRepository {
	return &economyRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *economyRepository) Get(ctx context.Context, guildID string) (*models.GuildEconomy, error) {
	economy := new(models.GuildEconomy)
	err := r.SelectOneWithTimeout(ctx, "get", "guild_economy", guildID, func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(economy).
			Where("guild_id = ?", guildID).
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return economy, nil
}

func (r *economyRepository) GetOrCreate(ctx context.Context, template *models.GuildEconomy) (*models.GuildEconomy, error) {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	template.CreatedAt = time.Now()
	template.UpdatedAt = time.Now()

	_, err := r.GetDB().NewInsert().
		Model(template).
		On("CONFLICT (guild_id) DO NOTHING").
		Exec(timeoutCtx)
	if err != nil {
		return nil, r.HandleErrorWithID("get_or_create", "guild_economy", template.GuildID, err)
	}

	return r.Get(ctx, template.GuildID)
}

func (r *economyRepository) Update(ctx context.Context, economy *models.GuildEconomy) error {
	economy.UpdatedAt = time.Now()

	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.GetDB().NewUpdate().
		Model(economy).
		WherePK().
		Exec(timeoutCtx)
	return r.HandleErrorWithID("update", "guild_economy", economy.GuildID, err)
}

func (r *economyRepository) ListGuildIDs(ctx context.Context) ([]string, error) {
	var guildIDs []string
	err := r.SelectWithTimeout(ctx, "list_guild_ids", "guild_economy", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model((*models.GuildEconomy)(nil)).
			Column("guild_id").
			Order("guild_id ASC").
			Scan(ctx, &guildIDs)
	})
	if err != nil {
		return nil, err
	}
	return guildIDs, nil
}

// AddFiscal atomically adjusts tax revenue and the government budget.
func (r *economyRepository) AddFiscal(ctx context.Context, guildID string, taxDelta, budgetDelta int64) error {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.GetDB().NewUpdate().
		Model((*models.GuildEconomy)(nil)).
		Set("tax_revenue = tax_revenue + ?", taxDelta).
		Set("government_budget = government_budget + ?", budgetDelta).
		Set("updated_at = ?", time.Now()).
		Where("guild_id = ?", guildID).
		Exec(timeoutCtx)
	return r.HandleErrorWithID("add_fiscal", "guild_economy", guildID, err)
}
