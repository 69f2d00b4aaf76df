package simulator

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/midasbot/midas/midas/database/models"
	"github.com/midasbot/midas/midas/database/repositories"
	"github.com/midasbot/midas/midas/economy/catalog"
	"github.com/midasbot/midas/midas/economy/engine"
	"github.com/midasbot/midas/midas/economy/utils"
)

// Store is the persistence surface the simulator drives: the macro row
// each tenant owns, the player census behind the indicators, rolling
// transaction volume, and the working sets of the loan and investment
// sweeps.
type Store interface {
	GetOrCreateEconomy(ctx context.Context, template *models.GuildEconomy) (*models.GuildEconomy, error)
	UpdateEconomy(ctx context.Context, economy *models.GuildEconomy) error
	ListGuildIDs(ctx context.Context) ([]string, error)

	PlayersByGuild(ctx context.Context, guildID string) ([]*models.Player, error)
	TransactionVolumeSince(ctx context.Context, guildID string, since time.Time) (int64, error)
	CreateSnapshot(ctx context.Context, snapshot *models.MarketSnapshot) error

	DueLoans(ctx context.Context, asOf time.Time) ([]*models.Loan, error)
	SettleLoanDefault(ctx context.Context, loan *models.Loan, reputationLoss int) (int64, error)

	StaleInvestments(ctx context.Context, cutoff time.Time) ([]*models.Investment, error)
	UpdateInvestment(ctx context.Context, investment *models.Investment) error
}

// EconomyTemplate is the row a previously unseen tenant starts from:
// catalog defaults, an expansion cycle anchored at now and markets at
// base prices. The first tick rewrites the indicators.
func EconomyTemplate(cat *catalog.Catalog, guildID string, now time.Time) *models.GuildEconomy {
	d := cat.Defaults()

	prices := make(map[string]int64)
	for _, item := range cat.Items() {
		prices[item.Name] = item.BasePrice
	}

	return &models.GuildEconomy{
		GuildID:             guildID,
		InflationRate:       d.InflationRate,
		UnemploymentRate:    0.05,
		CyclePhase:          string(catalog.PhaseExpansion),
		CycleStart:          now,
		TaxRate:             d.TaxRate,
		InterestRate:        d.InterestRate,
		MinWage:             d.MinWage,
		UnemploymentBenefit: d.UnemploymentBenefit,
		WelfareAmount:       d.WelfareAmount,
		PoliceStrength:      utils.DefaultPoliceLevel,
		MarketPrices:        prices,
		JobMarket:           make(map[string]models.JobMarketEntry),
		UpdatedAt:           now,
	}
}

// ToEngineEvents converts stored event windows into their engine form.
func ToEngineEvents(events []models.ActiveEvent) []engine.ActiveEvent {
	if len(events) == 0 {
		return nil
	}
	out := make([]engine.ActiveEvent, len(events))
	for i, ev := range events {
		out[i] = engine.ActiveEvent(ev)
	}
	return out
}

// FromEngineEvents converts engine event windows into their stored form.
func FromEngineEvents(events []engine.ActiveEvent) []models.ActiveEvent {
	out := make([]models.ActiveEvent, len(events))
	for i, ev := range events {
		out[i] = models.ActiveEvent(ev)
	}
	return out
}

type dbStore struct {
	economies    repositories.EconomyRepository
	players      repositories.PlayerRepository
	loans        repositories.LoanRepository
	investments  repositories.InvestmentRepository
	transactions repositories.TransactionRepository
	snapshots    repositories.MarketSnapshotRepository
	tm           *utils.TransactionManager
}

// NewStore builds the database-backed Store used in production.
func NewStore(
	economies repositories.EconomyRepository,
	players repositories.PlayerRepository,
	loans repositories.LoanRepository,
	investments repositories.InvestmentRepository,
	transactions repositories.TransactionRepository,
	snapshots repositories.MarketSnapshotRepository,
	tm *utils.TransactionManager,
) Store {
	return &dbStore{
		economies:    economies,
		players:      players,
		loans:        loans,
		investments:  investments,
		transactions: transactions,
		snapshots:    snapshots,
		tm:           tm,
	}
}

func (s *dbStore) GetOrCreateEconomy(ctx context.Context, template *models.GuildEconomy) (*models.GuildEconomy, error) {
	return s.economies.GetOrCreate(ctx, template)
}

func (s *dbStore) UpdateEconomy(ctx context.Context, economy *models.GuildEconomy) error {
	return s.economies.Update(ctx, economy)
}

func (s *dbStore) ListGuildIDs(ctx context.Context) ([]string, error) {
	return s.economies.ListGuildIDs(ctx)
}

func (s *dbStore) PlayersByGuild(ctx context.Context, guildID string) ([]*models.Player, error) {
	return s.players.GetByGuild(ctx, guildID)
}

func (s *dbStore) TransactionVolumeSince(ctx context.Context, guildID string, since time.Time) (int64, error) {
	return s.transactions.SumVolumeSince(ctx, guildID, since)
}

func (s *dbStore) CreateSnapshot(ctx context.Context, snapshot *models.MarketSnapshot) error {
	return s.snapshots.Create(ctx, snapshot)
}

func (s *dbStore) DueLoans(ctx context.Context, asOf time.Time) ([]*models.Loan, error) {
	return s.loans.GetDue(ctx, asOf)
}

// SettleLoanDefault seizes what the borrower can cover, empties the
// bank into the remaining balance, marks the loan defaulted and docks
// reputation, all in one transaction under a row lock.
func (s *dbStore) SettleLoanDefault(ctx context.Context, loan *models.Loan, reputationLoss int) (int64, error) {
	var seized int64

	err := s.tm.WithTransaction(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		player, err := s.tm.LockPlayer(ctx, tx, loan.GuildID, loan.UserID)
		if err != nil {
			return err
		}

		total := player.Balance + player.Bank
		seized = min(total, loan.Remaining)

		player.Balance = total - seized
		player.Bank = 0
		player.Reputation -= reputationLoss
		player.UpdatedAt = time.Now()

		if _, err := tx.NewUpdate().
			Model(player).
			Column("balance", "bank", "reputation", "updated_at").
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to seize player assets: %w", err)
		}

		loan.Remaining -= seized
		loan.Defaulted = true
		loan.UpdatedAt = time.Now()

		if _, err := tx.NewUpdate().
			Model(loan).
			Column("remaining", "defaulted", "updated_at").
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to mark loan defaulted: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return seized, nil
}

func (s *dbStore) StaleInvestments(ctx context.Context, cutoff time.Time) ([]*models.Investment, error) {
	return s.investments.GetStale(ctx, cutoff)
}

func (s *dbStore) UpdateInvestment(ctx context.Context, investment *models.Investment) error {
	return s.investments.Update(ctx, investment)
}
