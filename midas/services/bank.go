package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/midasbot/midas/midas/apperrors"
	"github.com/midasbot/midas/midas/database/models"
	"github.com/midasbot/midas/midas/economy/catalog"
	"github.com/midasbot/midas/midas/economy/engine"
	"github.com/midasbot/midas/midas/economy/utils"
	"github.com/midasbot/midas/midas/metrics"
)

// BankService moves money between cash and the bank, between players,
// and serves account views.
type BankService struct {
	store Store
	eng   *engine.Engine
	met   *metrics.Metrics

	now func() time.Time
}

func NewBankService(store Store, eng *engine.Engine, met *metrics.Metrics) *BankService {
	return &BankService{store: store, eng: eng, met: met, now: time.Now}
}

// Deposit moves cash into the bank.
func (s *BankService) Deposit(ctx context.Context, guildID, userID snowflake.ID, amount int64) (p *models.Player, err error) {
	start := time.Now()
	defer func() { s.met.ObserveAction("deposit", start, err) }()

	if amount <= 0 {
		return nil, apperrors.NewValidation("deposit amount must be positive")
	}
	return s.deposit(ctx, guildID.String(), userID.String(), func(*models.Player) int64 { return amount })
}

// DepositAll moves the whole cash balance into the bank.
func (s *BankService) DepositAll(ctx context.Context, guildID, userID snowflake.ID) (p *models.Player, err error) {
	start := time.Now()
	defer func() { s.met.ObserveAction("deposit", start, err) }()

	return s.deposit(ctx, guildID.String(), userID.String(), func(p *models.Player) int64 { return p.Balance })
}

func (s *BankService) deposit(ctx context.Context, gid, uid string, pick func(*models.Player) int64) (*models.Player, error) {
	if err := ensurePlayer(ctx, s.store, s.eng.Catalog(), gid, uid); err != nil {
		return nil, err
	}
	return s.store.UpdatePlayer(ctx, gid, uid, func(p *models.Player) error {
		amount := pick(p)
		if amount <= 0 {
			return apperrors.NewValidation("nothing to deposit")
		}
		if p.Balance < amount {
			return apperrors.NewValidation(fmt.Sprintf("insufficient balance (has %d, needs %d)", p.Balance, amount))
		}
		p.Balance -= amount
		p.Bank += amount
		return nil
	})
}

// Withdraw moves bank funds back to cash.
func (s *BankService) Withdraw(ctx context.Context, guildID, userID snowflake.ID, amount int64) (p *models.Player, err error) {
	start := time.Now()
	defer func() { s.met.ObserveAction("withdraw", start, err) }()

	if amount <= 0 {
		return nil, apperrors.NewValidation("withdrawal amount must be positive")
	}
	return s.withdraw(ctx, guildID.String(), userID.String(), func(*models.Player) int64 { return amount })
}

// WithdrawAll empties the bank back into cash.
func (s *BankService) WithdrawAll(ctx context.Context, guildID, userID snowflake.ID) (p *models.Player, err error) {
	start := time.Now()
	defer func() { s.met.ObserveAction("withdraw", start, err) }()

	return s.withdraw(ctx, guildID.String(), userID.String(), func(p *models.Player) int64 { return p.Bank })
}

func (s *BankService) withdraw(ctx context.Context, gid, uid string, pick func(*models.Player) int64) (*models.Player, error) {
	if err := ensurePlayer(ctx, s.store, s.eng.Catalog(), gid, uid); err != nil {
		return nil, err
	}
	return s.store.UpdatePlayer(ctx, gid, uid, func(p *models.Player) error {
		amount := pick(p)
		if amount <= 0 {
			return apperrors.NewValidation("nothing to withdraw")
		}
		if p.Bank < amount {
			return apperrors.NewValidation(fmt.Sprintf("insufficient bank balance (has %d, needs %d)", p.Bank, amount))
		}
		p.Bank -= amount
		p.Balance += amount
		return nil
	})
}

// TransferResult is one settled player-to-player transfer.
type TransferResult struct {
	Amount  int64
	Fee     int64
	Net     int64
	Balance int64
}

// Transfer moves cash to another player. The fee comes out of what the
// receiver gets, and both rows settle under one pair of locks.
func (s *BankService) Transfer(ctx context.Context, guildID, fromID, toID snowflake.ID, amount int64) (result *TransferResult, err error) {
	start := time.Now()
	defer func() { s.met.ObserveAction("transfer", start, err) }()

	if amount < utils.MinTransferAmount {
		return nil, apperrors.NewValidation("transfer amount must be positive")
	}
	if fromID == toID {
		return nil, apperrors.NewValidation("you cannot transfer money to yourself")
	}

	gid, from, to := guildID.String(), fromID.String(), toID.String()
	now := s.now()

	if err = ensurePlayer(ctx, s.store, s.eng.Catalog(), gid, from); err != nil {
		return nil, err
	}
	if err = ensurePlayer(ctx, s.store, s.eng.Catalog(), gid, to); err != nil {
		return nil, err
	}

	fee := int64(math.Round(float64(amount) * utils.TransferFeeRate))
	net := amount - fee

	sender, _, err := s.store.UpdatePlayers(ctx, gid, from, to, func(sender, receiver *models.Player) error {
		if sender.Balance < amount {
			return apperrors.NewValidation(fmt.Sprintf("insufficient balance (has %d, needs %d)", sender.Balance, amount))
		}
		sender.Balance -= amount
		sender.Stats.TotalSpent += amount
		receiver.Balance += net
		receiver.Stats.TotalEarned += net
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordTxn(ctx, s.store, gid, from, to, net, models.TxnTransfer, "", now)

	return &TransferResult{Amount: amount, Fee: fee, Net: net, Balance: sender.Balance}, nil
}

// AccountOverview is the profile view: balances, standing and lifetime
// counters.
type AccountOverview struct {
	Balance    int64
	Bank       int64
	Wealth     int64
	Tier       catalog.Tier
	Job        string
	Skill      int
	Reputation int
	Influence  int
	Stats      models.PlayerStats
	CreatedAt  time.Time
}

// Overview returns the account view, creating the player on first
// sight.
func (s *BankService) Overview(ctx context.Context, guildID, userID snowflake.ID) (*AccountOverview, error) {
	gid, uid := guildID.String(), userID.String()

	player, err := s.store.Player(ctx, playerTemplate(s.eng.Catalog(), gid, uid))
	if err != nil {
		return nil, fmt.Errorf("failed to load player: %w", err)
	}

	class := s.eng.Classify(player.Wealth())
	return &AccountOverview{
		Balance:    player.Balance,
		Bank:       player.Bank,
		Wealth:     player.Wealth(),
		Tier:       class.Tier,
		Job:        player.Job,
		Skill:      player.Skill,
		Reputation: player.Reputation,
		Influence:  s.eng.PoliticalInfluence(player.Wealth(), class, 0),
		Stats:      player.Stats,
		CreatedAt:  player.CreatedAt,
	}, nil
}

// Transactions returns the player's most recent ledger entries, newest
// first.
func (s *BankService) Transactions(ctx context.Context, guildID, userID snowflake.ID, limit int) ([]*models.Transaction, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.store.RecentTransactions(ctx, guildID.String(), userID.String(), limit)
}
