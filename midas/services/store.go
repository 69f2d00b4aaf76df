package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/uptrace/bun"

	"github.com/midasbot/midas/midas/apperrors"
	"github.com/midasbot/midas/midas/database/models"
	"github.com/midasbot/midas/midas/database/repositories"
	"github.com/midasbot/midas/midas/economy/utils"
)

// Store is the persistence surface behind the player-facing services.
// Mutations of player money go through the closure-based update
// methods, which hold the row lock for the whole read-modify-write.
type Store interface {
	Economy(ctx context.Context, template *models.GuildEconomy) (*models.GuildEconomy, error)
	SaveEconomy(ctx context.Context, economy *models.GuildEconomy) error
	AddFiscal(ctx context.Context, guildID string, taxDelta, budgetDelta int64) error

	Player(ctx context.Context, template *models.Player) (*models.Player, error)
	UpdatePlayer(ctx context.Context, guildID, userID string, apply func(p *models.Player) error) (*models.Player, error)
	UpdatePlayers(ctx context.Context, guildID, firstID, secondID string, apply func(first, second *models.Player) error) (*models.Player, *models.Player, error)
	PlayersByGuild(ctx context.Context, guildID string) ([]*models.Player, error)
	TopPlayersByWealth(ctx context.Context, guildID string, limit int) ([]*models.Player, error)

	RecordTransaction(ctx context.Context, txn *models.Transaction) error
	RecentTransactions(ctx context.Context, guildID, userID string, limit int) ([]*models.Transaction, error)

	CreateLoan(ctx context.Context, loan *models.Loan) error
	SaveLoan(ctx context.Context, loan *models.Loan) error
	OpenLoans(ctx context.Context, guildID, userID string) ([]*models.Loan, error)
	TotalDebt(ctx context.Context, guildID, userID string) (int64, error)

	CreateInvestment(ctx context.Context, investment *models.Investment) error
	InvestmentsByUser(ctx context.Context, guildID, userID string) ([]*models.Investment, error)
	SellInvestments(ctx context.Context, guildID, userID, instrument string, liquidity float64) (sold []*models.Investment, proceeds, balance int64, err error)

	RecordCrime(ctx context.Context, record *models.CrimeRecord) error

	CreateElection(ctx context.Context, election *models.Election) error
	SaveElection(ctx context.Context, election *models.Election) error
	ActiveElection(ctx context.Context, guildID, position string, asOf time.Time) (*models.Election, error)
	ExpiredElections(ctx context.Context, asOf time.Time) ([]*models.Election, error)
	Officeholders(ctx context.Context, guildID string, asOf time.Time) ([]*models.Election, error)

	RecentSnapshots(ctx context.Context, guildID string, limit int) ([]*models.MarketSnapshot, error)
}

type dbStore struct {
	economies    repositories.EconomyRepository
	players      repositories.PlayerRepository
	transactions repositories.TransactionRepository
	loans        repositories.LoanRepository
	investments  repositories.InvestmentRepository
	crimes       repositories.CrimeRepository
	elections    repositories.ElectionRepository
	snapshots    repositories.MarketSnapshotRepository
	tm           *utils.TransactionManager
}

// NewStore builds the database-backed Store used in production.
func NewStore(
	economies repositories.EconomyRepository,
	players repositories.PlayerRepository,
	transactions repositories.TransactionRepository,
	loans repositories.LoanRepository,
	investments repositories.InvestmentRepository,
	crimes repositories.CrimeRepository,
	elections repositories.ElectionRepository,
	snapshots repositories.MarketSnapshotRepository,
	tm *utils.TransactionManager,
) Store {
	return &dbStore{
		economies:    economies,
		players:      players,
		transactions: transactions,
		loans:        loans,
		investments:  investments,
		crimes:       crimes,
		elections:    elections,
		snapshots:    snapshots,
		tm:           tm,
	}
}

func (s *dbStore) Economy(ctx context.Context, template *models.GuildEconomy) (*models.GuildEconomy, error) {
	return s.economies.GetOrCreate(ctx, template)
}

func (s *dbStore) SaveEconomy(ctx context.Context, economy *models.GuildEconomy) error {
	return s.economies.Update(ctx, economy)
}

func (s *dbStore) AddFiscal(ctx context.Context, guildID string, taxDelta, budgetDelta int64) error {
	return s.economies.AddFiscal(ctx, guildID, taxDelta, budgetDelta)
}

func (s *dbStore) Player(ctx context.Context, template *models.Player) (*models.Player, error) {
	return s.players.GetOrCreate(ctx, template)
}

// UpdatePlayer runs apply against the row-locked player and writes the
// whole row back in the same transaction.
func (s *dbStore) UpdatePlayer(ctx context.Context, guildID, userID string, apply func(p *models.Player) error) (*models.Player, error) {
	var player *models.Player
	err := s.tm.WithTransaction(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		p, err := s.tm.LockPlayer(ctx, tx, guildID, userID)
		if err != nil {
			return err
		}
		if err := apply(p); err != nil {
			return err
		}
		p.UpdatedAt = time.Now()
		if _, err := tx.NewUpdate().Model(p).WherePK().Exec(ctx); err != nil {
			return fmt.Errorf("failed to save player: %w", err)
		}
		player = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return player, nil
}

// UpdatePlayers locks two players in one transaction and runs apply
// against both. Rows lock in userID order regardless of argument order
// so concurrent pairs cannot deadlock each other.
func (s *dbStore) UpdatePlayers(ctx context.Context, guildID, firstID, secondID string, apply func(first, second *models.Player) error) (*models.Player, *models.Player, error) {
	if firstID == secondID {
		return nil, nil, apperrors.NewValidation("cannot pair a player with themselves")
	}

	var first, second *models.Player
	err := s.tm.WithTransaction(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		lockA, lockB := firstID, secondID
		if lockB < lockA {
			lockA, lockB = lockB, lockA
		}

		a, err := s.tm.LockPlayer(ctx, tx, guildID, lockA)
		if err != nil {
			return err
		}
		b, err := s.tm.LockPlayer(ctx, tx, guildID, lockB)
		if err != nil {
			return err
		}

		first, second = a, b
		if first.UserID != firstID {
			first, second = b, a
		}

		if err := apply(first, second); err != nil {
			return err
		}

		now := time.Now()
		for _, p := range []*models.Player{first, second} {
			p.UpdatedAt = now
			if _, err := tx.NewUpdate().Model(p).WherePK().Exec(ctx); err != nil {
				return fmt.Errorf("failed to save player %s: %w", p.UserID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

func (s *dbStore) PlayersByGuild(ctx context.Context, guildID string) ([]*models.Player, error) {
	return s.players.GetByGuild(ctx, guildID)
}

func (s *dbStore) TopPlayersByWealth(ctx context.Context, guildID string, limit int) ([]*models.Player, error) {
	return s.players.GetTopByWealth(ctx, guildID, limit)
}

func (s *dbStore) RecordTransaction(ctx context.Context, txn *models.Transaction) error {
	return s.transactions.Create(ctx, txn)
}

func (s *dbStore) RecentTransactions(ctx context.Context, guildID, userID string, limit int) ([]*models.Transaction, error) {
	return s.transactions.GetRecentByUser(ctx, guildID, userID, limit)
}

func (s *dbStore) CreateLoan(ctx context.Context, loan *models.Loan) error {
	return s.loans.Create(ctx, loan)
}

func (s *dbStore) SaveLoan(ctx context.Context, loan *models.Loan) error {
	return s.loans.Update(ctx, loan)
}

func (s *dbStore) OpenLoans(ctx context.Context, guildID, userID string) ([]*models.Loan, error) {
	return s.loans.GetOpenByUser(ctx, guildID, userID)
}

func (s *dbStore) TotalDebt(ctx context.Context, guildID, userID string) (int64, error) {
	return s.loans.TotalDebt(ctx, guildID, userID)
}

func (s *dbStore) CreateInvestment(ctx context.Context, investment *models.Investment) error {
	return s.investments.Create(ctx, investment)
}

func (s *dbStore) InvestmentsByUser(ctx context.Context, guildID, userID string) ([]*models.Investment, error) {
	return s.investments.GetByUser(ctx, guildID, userID)
}

// SellInvestments closes every position a player holds in one
// instrument: positions are deleted and the discounted proceeds
// credited, all in one transaction under the player row lock. A player
// with no positions sells nothing and keeps their balance.
func (s *dbStore) SellInvestments(ctx context.Context, guildID, userID, instrument string, liquidity float64) ([]*models.Investment, int64, int64, error) {
	var (
		sold     []*models.Investment
		proceeds int64
		balance  int64
	)
	err := s.tm.WithTransaction(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		player, err := s.tm.LockPlayer(ctx, tx, guildID, userID)
		if err != nil {
			return err
		}
		balance = player.Balance

		if err := tx.NewSelect().
			Model(&sold).
			Where("guild_id = ? AND user_id = ? AND type = ?", guildID, userID, instrument).
			Scan(ctx); err != nil {
			return fmt.Errorf("failed to load positions: %w", err)
		}
		if len(sold) == 0 {
			return nil
		}

		var value int64
		for _, pos := range sold {
			value += pos.CurrentValue
		}
		proceeds = int64(math.Round(float64(value) * liquidity))

		if _, err := tx.NewDelete().
			Model((*models.Investment)(nil)).
			Where("guild_id = ? AND user_id = ? AND type = ?", guildID, userID, instrument).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to close positions: %w", err)
		}

		player.Balance += proceeds
		player.UpdatedAt = time.Now()
		if _, err := tx.NewUpdate().
			Model(player).
			Column("balance", "updated_at").
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to credit proceeds: %w", err)
		}
		balance = player.Balance
		return nil
	})
	if err != nil {
		return nil, 0, 0, err
	}
	return sold, proceeds, balance, nil
}

func (s *dbStore) RecordCrime(ctx context.Context, record *models.CrimeRecord) error {
	return s.crimes.Create(ctx, record)
}

func (s *dbStore) CreateElection(ctx context.Context, election *models.Election) error {
	return s.elections.Create(ctx, election)
}

func (s *dbStore) SaveElection(ctx context.Context, election *models.Election) error {
	return s.elections.Update(ctx, election)
}

// ActiveElection returns nil without error when no race is running.
func (s *dbStore) ActiveElection(ctx context.Context, guildID, position string, asOf time.Time) (*models.Election, error) {
	election, err := s.elections.GetActive(ctx, guildID, position, asOf)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return election, nil
}

func (s *dbStore) ExpiredElections(ctx context.Context, asOf time.Time) ([]*models.Election, error) {
	return s.elections.GetExpired(ctx, asOf)
}

func (s *dbStore) Officeholders(ctx context.Context, guildID string, asOf time.Time) ([]*models.Election, error) {
	return s.elections.GetOfficeholders(ctx, guildID, asOf)
}

func (s *dbStore) RecentSnapshots(ctx context.Context, guildID string, limit int) ([]*models.MarketSnapshot, error) {
	return s.snapshots.GetRecent(ctx, guildID, limit)
}
