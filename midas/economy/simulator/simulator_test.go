package simulator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/midasbot/midas/midas/config"
	"github.com/midasbot/midas/midas/database/models"
	"github.com/midasbot/midas/midas/economy/catalog"
	"github.com/midasbot/midas/midas/economy/engine"
	"github.com/midasbot/midas/midas/economy/simulator/mock"
	"github.com/midasbot/midas/midas/metrics"
)

// scriptedRand feeds predetermined draws so assertions can use exact
// numbers. Exhausted scripts repeat their last value.
type scriptedRand struct {
	floats []float64
	norms  []float64
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	v := r.floats[0]
	if len(r.floats) > 1 {
		r.floats = r.floats[1:]
	}
	return v
}

func (r *scriptedRand) NormFloat64() float64 {
	if len(r.norms) == 0 {
		return 0
	}
	v := r.norms[0]
	if len(r.norms) > 1 {
		r.norms = r.norms[1:]
	}
	return v
}

func (r *scriptedRand) IntN(n int) int {
	return 0
}

func testSim(t *testing.T, store Store, now time.Time, floats, norms []float64) *Simulator {
	t.Helper()
	s := New(store, engine.New(catalog.NewDefault()), metrics.NewWith(prometheus.NewRegistry()), 1)
	s.now = func() time.Time { return now }
	s.newRand = func(uint64) engine.Rand {
		return &scriptedRand{floats: floats, norms: norms}
	}
	return s
}

func testPlayer(guildID, userID, job string, balance, bank int64) *models.Player {
	return &models.Player{GuildID: guildID, UserID: userID, Job: job, Balance: balance, Bank: bank}
}

func TestSimulator_Tick(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))

	eco := &models.GuildEconomy{
		GuildID:    "g1",
		CyclePhase: string(catalog.PhaseExpansion),
		// Day 10 of a 28-day cycle lands in the second of five phases.
		CycleStart: now.Add(-10 * 24 * time.Hour),
		JobMarket: map[string]models.JobMarketEntry{
			"waiter": {Employed: 9, WageMultiplier: 1.2},
		},
	}
	players := []*models.Player{
		testPlayer("g1", "alice", models.JobUnemployed, 500, 500),
		testPlayer("g1", "bob", "waiter", 1000, 0),
		testPlayer("g1", "carol", "waiter", 1000, 0),
		testPlayer("g1", "dave", "teacher", 1000, 0),
	}

	store.EXPECT().GetOrCreateEconomy(gomock.Any(), gomock.Any()).Return(eco, nil)
	store.EXPECT().PlayersByGuild(gomock.Any(), "g1").Return(players, nil)
	store.EXPECT().TransactionVolumeSince(gomock.Any(), "g1", now.Add(-config.GDPWindow)).Return(int64(50000), nil)
	store.EXPECT().UpdateEconomy(gomock.Any(), eco).Return(nil)

	var snap *models.MarketSnapshot
	store.EXPECT().CreateSnapshot(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s *models.MarketSnapshot) error {
			snap = s
			return nil
		})

	// One draw: the recession shock roll, scripted to miss.
	sim := testSim(t, store, now, []float64{0.99}, nil)

	result, err := sim.Tick(context.Background(), "g1")
	require.NoError(t, err)

	assert.Equal(t, catalog.PhasePeak, result.Phase)
	assert.Equal(t, string(catalog.PhasePeak), eco.CyclePhase)

	// GDP is the raw 7-day volume with no events in force.
	assert.Equal(t, float64(50000), eco.GDP)

	// Money supply 4000 against GDP 50000: price level 0.12, so
	// deflation of 4.4% within the [-5%, 20%] band.
	assert.InDelta(t, -0.044, eco.InflationRate, 1e-9)

	// One jobless player out of four.
	assert.Equal(t, 0.25, eco.UnemploymentRate)

	// All four hold exactly 1000.
	assert.Zero(t, eco.Gini)

	// Prices reprice from base: 500 * 0.956 rounds to 478.
	assert.Equal(t, int64(478), eco.MarketPrices["phone"])
	assert.Equal(t, int64(23900), eco.MarketPrices["car"])
	assert.Equal(t, int64(5), eco.MarketPrices["bread"])

	// Census-driven job market keeps the surviving wage multiplier.
	assert.Equal(t, models.JobMarketEntry{Employed: 2, WageMultiplier: 1.2}, eco.JobMarket["waiter"])
	assert.Equal(t, models.JobMarketEntry{Employed: 1, WageMultiplier: 1.0}, eco.JobMarket["teacher"])
	assert.NotContains(t, eco.JobMarket, models.JobUnemployed)

	assert.Equal(t, now, eco.LastTickAt)

	require.NotNil(t, snap)
	assert.Equal(t, "g1", snap.GuildID)
	assert.Equal(t, int64(4000), snap.MoneySupply)
	assert.Equal(t, string(catalog.PhasePeak), snap.CyclePhase)
	// With no scripted shock the draw settles at 85% of the 0.10 base.
	assert.InDelta(t, 0.085, snap.Volatility, 1e-9)
	assert.Equal(t, now, snap.Timestamp)

	assert.Equal(t, int64(4000), result.MoneySupply)
	assert.Zero(t, result.ActiveEvents)
}

func TestSimulator_Tick_EventEffects(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))

	eco := &models.GuildEconomy{
		GuildID:    "g1",
		CyclePhase: string(catalog.PhaseExpansion),
		CycleStart: now.Add(-10 * 24 * time.Hour),
		ActiveEvents: []models.ActiveEvent{
			{Name: "tech_boom", StartTime: now.Add(-24 * time.Hour), EndTime: now.Add(5 * 24 * time.Hour)},
			{Name: "pandemic", StartTime: now.Add(-72 * time.Hour), EndTime: now.Add(-time.Hour)},
		},
	}
	players := []*models.Player{
		testPlayer("g1", "alice", models.JobUnemployed, 1000, 0),
		testPlayer("g1", "bob", models.JobUnemployed, 1000, 0),
		testPlayer("g1", "carol", "waiter", 1000, 0),
		testPlayer("g1", "dave", "teacher", 1000, 0),
	}

	store.EXPECT().GetOrCreateEconomy(gomock.Any(), gomock.Any()).Return(eco, nil)
	store.EXPECT().PlayersByGuild(gomock.Any(), "g1").Return(players, nil)
	store.EXPECT().TransactionVolumeSince(gomock.Any(), "g1", gomock.Any()).Return(int64(50000), nil)
	store.EXPECT().UpdateEconomy(gomock.Any(), eco).Return(nil)
	store.EXPECT().CreateSnapshot(gomock.Any(), gomock.Any()).Return(nil)

	sim := testSim(t, store, now, []float64{0.99}, nil)

	result, err := sim.Tick(context.Background(), "g1")
	require.NoError(t, err)

	// The expired pandemic is pruned before effects apply, leaving the
	// tech boom's +20% GDP and -10% unemployment.
	require.Len(t, eco.ActiveEvents, 1)
	assert.Equal(t, "tech_boom", eco.ActiveEvents[0].Name)
	assert.InDelta(t, 60000, eco.GDP, 1e-6)
	assert.InDelta(t, 0.45, eco.UnemploymentRate, 1e-9)
	assert.Equal(t, 1, result.ActiveEvents)
}

func TestSimulator_Tick_EmptyGuild(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))

	// A guild never seen before gets its row from the template.
	store.EXPECT().GetOrCreateEconomy(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, template *models.GuildEconomy) (*models.GuildEconomy, error) {
			return template, nil
		})
	store.EXPECT().PlayersByGuild(gomock.Any(), "fresh").Return(nil, nil)
	store.EXPECT().TransactionVolumeSince(gomock.Any(), "fresh", gomock.Any()).Return(int64(0), nil)

	var eco *models.GuildEconomy
	store.EXPECT().UpdateEconomy(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *models.GuildEconomy) error {
			eco = e
			return nil
		})
	store.EXPECT().CreateSnapshot(gomock.Any(), gomock.Any()).Return(nil)

	sim := testSim(t, store, now, []float64{0.99}, nil)

	result, err := sim.Tick(context.Background(), "fresh")
	require.NoError(t, err)

	require.NotNil(t, eco)
	assert.Equal(t, "fresh", eco.GuildID)
	assert.Equal(t, string(catalog.PhaseExpansion), eco.CyclePhase)

	// Zero GDP falls back to the 2% inflation default.
	assert.Equal(t, 0.02, eco.InflationRate)
	assert.Zero(t, eco.UnemploymentRate)
	assert.Zero(t, eco.Gini)
	assert.Equal(t, int64(510), eco.MarketPrices["phone"])
	assert.Zero(t, result.MoneySupply)
}

func TestSimulator_TickAll_FailureIsolation(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))

	store.EXPECT().ListGuildIDs(gomock.Any()).Return([]string{"g1", "g2"}, nil)

	// g1 dies loading its economy row; g2 must still tick.
	store.EXPECT().GetOrCreateEconomy(gomock.Any(), gomock.Any()).Times(2).
		DoAndReturn(func(_ context.Context, template *models.GuildEconomy) (*models.GuildEconomy, error) {
			if template.GuildID == "g1" {
				return nil, errors.New("connection reset")
			}
			return template, nil
		})
	store.EXPECT().PlayersByGuild(gomock.Any(), "g2").Return(nil, nil)
	store.EXPECT().TransactionVolumeSince(gomock.Any(), "g2", gomock.Any()).Return(int64(0), nil)

	var updated []string
	store.EXPECT().UpdateEconomy(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *models.GuildEconomy) error {
			updated = append(updated, e.GuildID)
			return nil
		})
	store.EXPECT().CreateSnapshot(gomock.Any(), gomock.Any()).Return(nil)

	sim := testSim(t, store, now, []float64{0.99}, nil)

	err := sim.TickAll(context.Background())
	require.EqualError(t, err, "1 of 2 guild ticks failed")
	assert.Equal(t, []string{"g2"}, updated)
}

func TestEconomyTemplate(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	cat := catalog.NewDefault()

	eco := EconomyTemplate(cat, "g1", now)

	assert.Equal(t, "g1", eco.GuildID)
	assert.Equal(t, 0.20, eco.TaxRate)
	assert.Equal(t, 0.02, eco.InflationRate)
	assert.Equal(t, 0.05, eco.UnemploymentRate)
	assert.Equal(t, 0.05, eco.InterestRate)
	assert.Equal(t, int64(1500), eco.MinWage)
	assert.Equal(t, int64(600), eco.UnemploymentBenefit)
	assert.Equal(t, int64(500), eco.WelfareAmount)
	assert.Equal(t, 0.5, eco.PoliceStrength)
	assert.Equal(t, string(catalog.PhaseExpansion), eco.CyclePhase)
	assert.Equal(t, now, eco.CycleStart)

	// Markets open at catalog base prices.
	assert.Len(t, eco.MarketPrices, 9)
	assert.Equal(t, int64(5), eco.MarketPrices["bread"])
	assert.Equal(t, int64(1000000), eco.MarketPrices["yacht"])
	assert.NotNil(t, eco.JobMarket)
	assert.Empty(t, eco.JobMarket)
}

func TestEventConversion_RoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	stored := []models.ActiveEvent{
		{Name: "oil_crisis", StartTime: now, EndTime: now.Add(14 * 24 * time.Hour)},
	}

	assert.Equal(t, stored, FromEngineEvents(ToEngineEvents(stored)))
	assert.Nil(t, ToEngineEvents(nil))
}
