// Package services implements the player-facing operations of the
// economy: working, banking, credit, investing, crime, the goods
// market, jobs, welfare, elections and reporting. Each service
// validates input first, then runs its mutation inside one row-locked
// transaction through the Store. Stochastic outcomes are result
// values, never errors, and every draw flows from a per-player seed so
// a run replays exactly.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/midasbot/midas/midas/database/models"
	"github.com/midasbot/midas/midas/economy/catalog"
	"github.com/midasbot/midas/midas/economy/engine"
)

// macroState assembles the engine's read-only view from the persisted
// economy row.
func macroState(eco *models.GuildEconomy) engine.MacroState {
	employment := make(map[string]int, len(eco.JobMarket))
	for job, entry := range eco.JobMarket {
		employment[job] = entry.Employed
	}
	return engine.MacroState{
		GDP:              eco.GDP,
		InflationRate:    eco.InflationRate,
		UnemploymentRate: eco.UnemploymentRate,
		Gini:             eco.Gini,
		InterestRate:     eco.InterestRate,
		TaxRate:          eco.TaxRate,
		MinWage:          eco.MinWage,
		CyclePhase:       catalog.Phase(eco.CyclePhase),
		JobEmployment:    employment,
	}
}

// playerTemplate is the row a previously unseen player starts from.
// The starting balance counts as earned so lifetime stats never lag
// the ledger.
func playerTemplate(cat *catalog.Catalog, guildID, userID string) *models.Player {
	d := cat.Defaults()
	return &models.Player{
		GuildID:   guildID,
		UserID:    userID,
		Balance:   d.StartingBalance,
		Job:       models.JobUnemployed,
		Inventory: make(map[string]int),
		Stats:     models.PlayerStats{TotalEarned: d.StartingBalance},
	}
}

// cooldownLeft returns how long until the action unlocks, zero when it
// is available.
func cooldownLeft(last time.Time, cooldown time.Duration, now time.Time) time.Duration {
	if last.IsZero() {
		return 0
	}
	if left := cooldown - now.Sub(last); left > 0 {
		return left
	}
	return 0
}

// uniform draws from [lo, hi).
func uniform(r engine.Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// actionSeed derives a per-player draw stream, kept apart from the
// simulator's per-tenant streams by the user suffix.
func actionSeed(base uint64, guildID, userID string, at time.Time) uint64 {
	return engine.TickSeed(base, guildID+"/"+userID, at)
}

// ensurePlayer creates the row for first-time users so every entry
// point works without prior registration.
func ensurePlayer(ctx context.Context, store Store, cat *catalog.Catalog, guildID, userID string) error {
	if _, err := store.Player(ctx, playerTemplate(cat, guildID, userID)); err != nil {
		return fmt.Errorf("failed to load player: %w", err)
	}
	return nil
}

// recordTxn appends to the ledger after a committed action. Ledger
// volume feeds GDP, so failures are logged and swallowed rather than
// failing an action that already settled.
func recordTxn(ctx context.Context, store Store, guildID, fromID, toID string, amount int64, kind, note string, at time.Time) {
	err := store.RecordTransaction(ctx, &models.Transaction{
		GuildID:   guildID,
		FromID:    fromID,
		ToID:      toID,
		Amount:    amount,
		Kind:      kind,
		Note:      note,
		Timestamp: at,
	})
	if err != nil {
		slog.Warn("Failed to record transaction",
			slog.String("type", "services"),
			slog.String("guild_id", guildID),
			slog.String("kind", kind),
			slog.String("error", err.Error()))
	}
}
