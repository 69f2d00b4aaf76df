package services

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/midasbot/midas/midas/apperrors"
	"github.com/midasbot/midas/midas/database/models"
	"github.com/midasbot/midas/midas/economy/engine"
	"github.com/midasbot/midas/midas/metrics"
)

// InvestingService opens, values and liquidates investment positions.
type InvestingService struct {
	store Store
	eng   *engine.Engine
	met   *metrics.Metrics

	now func() time.Time
}

func NewInvestingService(store Store, eng *engine.Engine, met *metrics.Metrics) *InvestingService {
	return &InvestingService{store: store, eng: eng, met: met, now: time.Now}
}

// InvestResult is one opened position.
type InvestResult struct {
	Investment *models.Investment
	Balance    int64
}

// Invest opens a position in an instrument. Positions enter at their
// principal; the revaluation sweep moves them from there.
func (s *InvestingService) Invest(ctx context.Context, guildID, userID snowflake.ID, instrument string, amount int64) (result *InvestResult, err error) {
	start := time.Now()
	defer func() { s.met.ObserveAction("invest", start, err) }()

	inv, ok := s.eng.Catalog().ResolveInvestment(instrument)
	if !ok {
		return nil, apperrors.NewValidation(fmt.Sprintf("unknown investment %q", instrument))
	}
	if amount <= 0 {
		return nil, apperrors.NewValidation("investment amount must be positive")
	}
	if amount < inv.MinAmount {
		return nil, apperrors.NewValidation(fmt.Sprintf("minimum for %s is %d", inv.Name, inv.MinAmount))
	}

	gid, uid := guildID.String(), userID.String()
	now := s.now()

	if err = ensurePlayer(ctx, s.store, s.eng.Catalog(), gid, uid); err != nil {
		return nil, err
	}

	player, err := s.store.UpdatePlayer(ctx, gid, uid, func(p *models.Player) error {
		if p.Balance < amount {
			return apperrors.NewValidation(fmt.Sprintf("insufficient balance (has %d, needs %d)", p.Balance, amount))
		}
		p.Balance -= amount
		p.Stats.InvestmentsMade++
		return nil
	})
	if err != nil {
		return nil, err
	}

	position := &models.Investment{
		GuildID:      gid,
		UserID:       uid,
		Type:         inv.Name,
		Principal:    amount,
		CurrentValue: amount,
		LastValuedAt: now,
	}
	if err = s.store.CreateInvestment(ctx, position); err != nil {
		return nil, fmt.Errorf("failed to open position: %w", err)
	}

	recordTxn(ctx, s.store, gid, uid, models.SystemParty, amount, models.TxnInvestmentPurchase, inv.Name, now)

	return &InvestResult{Investment: position, Balance: player.Balance}, nil
}

// Holding aggregates one instrument's live positions.
type Holding struct {
	Type      string
	Positions int
	Principal int64
	Value     int64
}

// Portfolio is every live position a player holds, grouped by
// instrument.
type Portfolio struct {
	Holdings  []Holding
	Principal int64
	Value     int64
}

// Portfolio returns the player's holdings grouped by instrument, in
// first-opened order.
func (s *InvestingService) Portfolio(ctx context.Context, guildID, userID snowflake.ID) (*Portfolio, error) {
	positions, err := s.store.InvestmentsByUser(ctx, guildID.String(), userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}

	book := &Portfolio{}
	index := make(map[string]int)
	for _, pos := range positions {
		i, ok := index[pos.Type]
		if !ok {
			i = len(book.Holdings)
			index[pos.Type] = i
			book.Holdings = append(book.Holdings, Holding{Type: pos.Type})
		}
		book.Holdings[i].Positions++
		book.Holdings[i].Principal += pos.Principal
		book.Holdings[i].Value += pos.CurrentValue
		book.Principal += pos.Principal
		book.Value += pos.CurrentValue
	}
	return book, nil
}

// Liquidation summarizes one atomic sale of every position a player
// held in an instrument.
type Liquidation struct {
	Positions int
	Principal int64
	Value     int64
	Proceeds  int64
	Balance   int64
}

// Liquidate sells every position in an instrument at its liquidity
// discount. The sale is atomic: positions close and proceeds land in
// one transaction.
func (s *InvestingService) Liquidate(ctx context.Context, guildID, userID snowflake.ID, instrument string) (result *Liquidation, err error) {
	start := time.Now()
	defer func() { s.met.ObserveAction("liquidate", start, err) }()

	inv, ok := s.eng.Catalog().ResolveInvestment(instrument)
	if !ok {
		return nil, apperrors.NewValidation(fmt.Sprintf("unknown investment %q", instrument))
	}

	gid, uid := guildID.String(), userID.String()
	now := s.now()

	sold, proceeds, balance, err := s.store.SellInvestments(ctx, gid, uid, inv.Name, inv.Liquidity)
	if err != nil {
		return nil, err
	}
	if len(sold) == 0 {
		return nil, apperrors.NewValidation(fmt.Sprintf("you hold no %s", inv.Name))
	}

	sale := &Liquidation{Positions: len(sold), Proceeds: proceeds, Balance: balance}
	for _, pos := range sold {
		sale.Principal += pos.Principal
		sale.Value += pos.CurrentValue
	}

	recordTxn(ctx, s.store, gid, models.SystemParty, uid, proceeds, models.TxnInvestmentSale, inv.Name, now)

	return sale, nil
}

// Suggest allocates available cash across instruments the player's
// risk tolerance admits, best risk-adjusted return first.
func (s *InvestingService) Suggest(ctx context.Context, guildID, userID snowflake.ID, riskTolerance float64) ([]engine.Allocation, error) {
	if riskTolerance <= 0 || riskTolerance > 1 {
		return nil, apperrors.NewValidation("risk tolerance must be in (0, 1]")
	}

	player, err := s.store.Player(ctx, playerTemplate(s.eng.Catalog(), guildID.String(), userID.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to load player: %w", err)
	}
	return s.eng.OptimizePortfolio(player.Balance, riskTolerance), nil
}
