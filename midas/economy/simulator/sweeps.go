package simulator

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/midasbot/midas/midas/database/models"
	"github.com/midasbot/midas/midas/economy/catalog"
	"github.com/midasbot/midas/midas/economy/engine"
	"github.com/midasbot/midas/midas/economy/utils"
)

// SweepLoans settles every overdue open loan across all tenants. The
// borrower's combined balance and bank cover what they can, the rest
// is written off, and the default costs reputation.
func (s *Simulator) SweepLoans(ctx context.Context) error {
	now := s.now()

	loans, err := s.store.DueLoans(ctx, now)
	if err != nil {
		return fmt.Errorf("list due loans: %w", err)
	}
	if len(loans) == 0 {
		return nil
	}

	failed := 0
	for _, loan := range loans {
		unlock := s.locks.Lock(loan.GuildID)
		seized, err := s.store.SettleLoanDefault(ctx, loan, utils.RepLossLoanDefault)
		unlock()
		if err != nil {
			failed++
			slog.Error("Loan default settlement failed",
				slog.String("type", "sim"),
				slog.String("guild_id", loan.GuildID),
				slog.String("user_id", loan.UserID),
				slog.Int64("loan_id", loan.ID),
				slog.String("error", err.Error()))
			continue
		}

		s.met.IncrementLoansDefaulted()
		slog.Info("Loan defaulted",
			slog.String("type", "sim"),
			slog.String("guild_id", loan.GuildID),
			slog.String("user_id", loan.UserID),
			slog.Int64("loan_id", loan.ID),
			slog.Int64("seized", seized),
			slog.Int64("written_off", loan.Remaining))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d loan defaults failed", failed, len(loans))
	}
	return nil
}

// SweepInvestments revalues every holding whose last valuation is at
// least a day old. Returns compound per valuation: each pass applies
// the realized rate for the whole holding period since the previous
// one, against the cycle phase the tenant is in right now.
func (s *Simulator) SweepInvestments(ctx context.Context) error {
	now := s.now()

	stale, err := s.store.StaleInvestments(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return fmt.Errorf("list stale investments: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}

	phases := make(map[string]catalog.Phase)
	failed := 0
	for _, inv := range stale {
		days := int(now.Sub(inv.LastValuedAt).Hours() / 24)
		if days <= 0 {
			continue
		}

		phase, ok := phases[inv.GuildID]
		if !ok {
			eco, err := s.store.GetOrCreateEconomy(ctx, EconomyTemplate(s.eng.Catalog(), inv.GuildID, now))
			if err != nil {
				failed++
				slog.Error("Investment revaluation failed",
					slog.String("type", "sim"),
					slog.String("guild_id", inv.GuildID),
					slog.Int64("investment_id", inv.ID),
					slog.String("error", err.Error()))
				continue
			}
			phase = catalog.Phase(eco.CyclePhase)
			phases[inv.GuildID] = phase
		}

		instrument, ok := s.eng.Catalog().Investment(inv.Type)
		if !ok {
			slog.Warn("Unknown investment instrument, skipping",
				slog.String("type", "sim"),
				slog.String("guild_id", inv.GuildID),
				slog.String("instrument", inv.Type))
			continue
		}

		growth := s.eng.Catalog().Modifiers(phase).GDPGrowth
		rng := s.newRand(engine.TickSeed(s.seed, inv.GuildID, now) ^ investSeedSalt ^ uint64(inv.ID))
		rate := s.eng.InvestmentReturn(instrument, growth, days, rng)

		inv.CurrentValue = int64(math.Round(float64(inv.CurrentValue) * (1 + rate)))
		inv.LastValuedAt = now
		inv.UpdatedAt = now

		if err := s.store.UpdateInvestment(ctx, inv); err != nil {
			failed++
			slog.Error("Investment revaluation failed",
				slog.String("type", "sim"),
				slog.String("guild_id", inv.GuildID),
				slog.Int64("investment_id", inv.ID),
				slog.String("error", err.Error()))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d investment revaluations failed", failed, len(stale))
	}
	return nil
}

// SweepEvents rolls the macro event dice for every tenant. At most one
// new event starts per tenant per sweep; already active events keep
// running until they expire on their own.
func (s *Simulator) SweepEvents(ctx context.Context) error {
	now := s.now()

	guildIDs, err := s.store.ListGuildIDs(ctx)
	if err != nil {
		return fmt.Errorf("list guilds: %w", err)
	}

	failed := 0
	for _, guildID := range guildIDs {
		if err := s.rollEvent(ctx, guildID, now); err != nil {
			failed++
			slog.Error("Event roll failed",
				slog.String("type", "sim"),
				slog.String("guild_id", guildID),
				slog.String("error", err.Error()))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d event rolls failed", failed, len(guildIDs))
	}
	return nil
}

func (s *Simulator) rollEvent(ctx context.Context, guildID string, now time.Time) error {
	unlock := s.locks.Lock(guildID)
	defer unlock()

	eco, err := s.store.GetOrCreateEconomy(ctx, EconomyTemplate(s.eng.Catalog(), guildID, now))
	if err != nil {
		return err
	}

	rng := s.newRand(engine.TickSeed(s.seed, guildID, now) ^ eventSeedSalt)
	ev, ok := s.eng.RollEvent(now, rng)
	if !ok {
		return nil
	}

	eco.ActiveEvents = append(eco.ActiveEvents, models.ActiveEvent(ev))
	eco.UpdatedAt = now
	if err := s.store.UpdateEconomy(ctx, eco); err != nil {
		return err
	}

	s.met.IncrementEventTriggered(ev.Name)
	slog.Info("Economic event triggered",
		slog.String("type", "sim"),
		slog.String("guild_id", guildID),
		slog.String("event", ev.Name),
		slog.Time("ends_at", ev.EndTime))
	return nil
}
