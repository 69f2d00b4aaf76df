// Package simulator drives the per-tenant economy: the hourly macro
// tick plus the loan, investment and event sweeps. It holds no state
// of its own; everything it computes is written back through a Store,
// and all randomness flows from a per-tenant, per-tick seed so a run
// can be replayed.
package simulator

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/midasbot/midas/midas/config"
	"github.com/midasbot/midas/midas/database/models"
	"github.com/midasbot/midas/midas/economy/catalog"
	"github.com/midasbot/midas/midas/economy/engine"
	"github.com/midasbot/midas/midas/metrics"
)

// Seed salts keep the draw streams of jobs that may share a wall-clock
// second apart from the tick stream.
const (
	eventSeedSalt  = 0x5eed0001
	investSeedSalt = 0x5eed0002
)

// TickResult summarizes one tenant tick.
type TickResult struct {
	GuildID      string
	Phase        catalog.Phase
	GDP          float64
	Inflation    float64
	Unemployment float64
	Gini         float64
	MoneySupply  int64
	ActiveEvents int
	Took         time.Duration
}

type Simulator struct {
	store Store
	eng   *engine.Engine
	met   *metrics.Metrics
	locks *keyedMutex
	seed  uint64

	now     func() time.Time
	newRand func(seed uint64) engine.Rand
}

func New(store Store, eng *engine.Engine, met *metrics.Metrics, seed uint64) *Simulator {
	return &Simulator{
		store:   store,
		eng:     eng,
		met:     met,
		locks:   newKeyedMutex(),
		seed:    seed,
		now:     time.Now,
		newRand: engine.NewRand,
	}
}

// Tick runs one simulation step for a single tenant: advance the
// business cycle, recompute every macro indicator from the ledger,
// reprice the market, refresh the job market and persist the result
// plus a history snapshot.
func (s *Simulator) Tick(ctx context.Context, guildID string) (*TickResult, error) {
	unlock := s.locks.Lock(guildID)
	defer unlock()
	return s.tick(ctx, guildID)
}

func (s *Simulator) tick(ctx context.Context, guildID string) (*TickResult, error) {
	start := time.Now()
	now := s.now()
	rng := s.newRand(engine.TickSeed(s.seed, guildID, now))

	eco, err := s.store.GetOrCreateEconomy(ctx, EconomyTemplate(s.eng.Catalog(), guildID, now))
	if err != nil {
		return nil, fmt.Errorf("load economy: %w", err)
	}

	players, err := s.store.PlayersByGuild(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}

	// The cycle advances first so every indicator and price computed
	// below sees the same phase.
	cycle := s.eng.AdvanceCycle(eco.CycleStart, now, rng)

	active := s.eng.PruneEvents(ToEngineEvents(eco.ActiveEvents), now)
	effects := s.eng.EventEffects(active, now)

	// GDP is the rolling transaction volume, scaled by whatever macro
	// events are in force.
	volume, err := s.store.TransactionVolumeSince(ctx, guildID, now.Add(-config.GDPWindow))
	if err != nil {
		return nil, fmt.Errorf("transaction volume: %w", err)
	}
	gdp := float64(volume) * effects.GDPModifier

	var supply int64
	wealth := make([]int64, len(players))
	unemployed := 0
	employment := make(map[string]int, len(players))
	for i, p := range players {
		w := p.Wealth()
		wealth[i] = w
		supply += w
		if p.Job == models.JobUnemployed {
			unemployed++
		} else {
			employment[p.Job]++
		}
	}

	inflation := s.eng.Inflation(float64(supply), gdp)
	gini := s.eng.Gini(wealth)

	// Volatility, like prices, draws from the catalog base each tick
	// rather than compounding on the previous reading.
	volatility := s.eng.MarketVolatility(catalog.MarketVolatilityBase, rng)

	// Headline unemployment is the measured jobless share of the
	// census, pushed around by active events.
	unemployment := 0.0
	if len(players) > 0 {
		unemployment = float64(unemployed) / float64(len(players))
	}
	unemployment *= effects.UnemploymentModifier
	if unemployment > 1 {
		unemployment = 1
	}

	// Prices always derive from catalog base prices, never from the
	// previous tick, so rounding can not drift across ticks.
	items := s.eng.Catalog().Items()
	prices := make(map[string]int64, len(items))
	for _, item := range items {
		prices[item.Name] = s.eng.ItemPrice(item, inflation, 1.0)
	}

	// The job market mirrors the census. Wage multipliers survive from
	// the previous map as long as the job still has workers.
	market := make(map[string]models.JobMarketEntry, len(employment))
	for job, count := range employment {
		mult := 1.0
		if prev, ok := eco.JobMarket[job]; ok && prev.WageMultiplier > 0 {
			mult = prev.WageMultiplier
		}
		market[job] = models.JobMarketEntry{Employed: count, WageMultiplier: mult}
	}

	eco.CyclePhase = string(cycle.Phase)
	eco.GDP = gdp
	eco.InflationRate = inflation
	eco.UnemploymentRate = unemployment
	eco.Gini = gini
	eco.MarketPrices = prices
	eco.JobMarket = market
	eco.ActiveEvents = FromEngineEvents(active)
	eco.LastTickAt = now
	eco.UpdatedAt = now

	if err := s.store.UpdateEconomy(ctx, eco); err != nil {
		return nil, fmt.Errorf("write economy: %w", err)
	}

	snapshot := &models.MarketSnapshot{
		GuildID:          guildID,
		GDP:              gdp,
		InflationRate:    inflation,
		UnemploymentRate: unemployment,
		Gini:             gini,
		Volatility:       volatility,
		CyclePhase:       string(cycle.Phase),
		MoneySupply:      supply,
		Timestamp:        now,
	}
	if err := s.store.CreateSnapshot(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("write snapshot: %w", err)
	}

	return &TickResult{
		GuildID:      guildID,
		Phase:        cycle.Phase,
		GDP:          gdp,
		Inflation:    inflation,
		Unemployment: unemployment,
		Gini:         gini,
		MoneySupply:  supply,
		ActiveEvents: len(active),
		Took:         time.Since(start),
	}, nil
}

// TickAll runs one tick for every known tenant, up to
// config.MaxConcurrentTicks at a time. A failing tenant is logged and
// counted but never stops the others; the error summarizes how many
// failed.
func (s *Simulator) TickAll(ctx context.Context) error {
	guildIDs, err := s.store.ListGuildIDs(ctx)
	if err != nil {
		return fmt.Errorf("list guilds: %w", err)
	}
	s.met.SetGuildsTracked(len(guildIDs))

	sem := semaphore.NewWeighted(config.MaxConcurrentTicks)
	g, ctx := errgroup.WithContext(ctx)

	var failed atomic.Int64
	for _, guildID := range guildIDs {
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			slog.Debug("tick slot acquired", slog.String("guild_id", guildID))
			defer func() {
				sem.Release(1)
				slog.Debug("tick slot released", slog.String("guild_id", guildID))
			}()

			start := time.Now()
			result, err := s.Tick(ctx, guildID)
			s.met.ObserveTick(start, err)
			if err != nil {
				failed.Add(1)
				slog.Error("Economy tick failed",
					slog.String("type", "sim"),
					slog.String("guild_id", guildID),
					slog.String("error", err.Error()))
				return nil
			}

			slog.Info("Economy tick complete",
				slog.String("type", "sim"),
				slog.String("guild_id", guildID),
				slog.String("phase", string(result.Phase)),
				slog.Float64("gdp", result.GDP),
				slog.Float64("inflation", result.Inflation),
				slog.Float64("unemployment", result.Unemployment),
				slog.Float64("gini", result.Gini),
				slog.Int("active_events", result.ActiveEvents),
				slog.Duration("took", result.Took))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d guild ticks failed", n, len(guildIDs))
	}
	return nil
}
