package services

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/midasbot/midas/midas/database/models"
	"github.com/midasbot/midas/midas/economy/catalog"
	"github.com/midasbot/midas/midas/economy/engine"
	"github.com/midasbot/midas/midas/metrics"
	"github.com/midasbot/midas/midas/services/mock"
)

func testCrime(t *testing.T, store Store, now time.Time, floats []float64) *CrimeService {
	t.Helper()
	s := NewCrimeService(store, engine.New(catalog.NewDefault()), metrics.NewWith(prometheus.NewRegistry()), 1)
	s.now = func() time.Time { return now }
	s.newRand = func(uint64) engine.Rand {
		return &scriptedRand{floats: floats}
	}
	return s
}

func TestCrimeService_Attempt_Success(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	eco := &models.GuildEconomy{
		GuildID:          gid,
		Gini:             0.5,
		PoliceStrength:   0.5,
		UnemploymentRate: 0.10,
	}
	player := testPlayer(gid, uid, "waiter", 1000, 0)
	player.Skill = 2

	store.EXPECT().Economy(gomock.Any(), gomock.Any()).Return(eco, nil)
	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(player, nil)
	applyPlayer(store, gid, uid, player)

	var record *models.CrimeRecord
	store.EXPECT().RecordCrime(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec *models.CrimeRecord) error {
			record = rec
			return nil
		})

	// First draw wins the attempt, second lands mid-range.
	svc := testCrime(t, store, now, []float64{0.2, 0.5})

	result, err := svc.Attempt(context.Background(), testGuild, alice, "pickpocket")
	require.NoError(t, err)

	// 0.4 base + 0.10 skill + 0.025 inequality + 0.03 unemployment
	// - 0.10 police.
	assert.InDelta(t, 0.455, result.Rate, 1e-9)
	assert.True(t, result.Success)

	// Mid-range roll between 100 and 500.
	assert.Equal(t, int64(300), result.Amount)
	assert.Equal(t, int64(1300), result.Balance)
	assert.Equal(t, -5, result.Reputation)
	assert.True(t, result.JailedUntil.IsZero())

	assert.Equal(t, now, player.LastCrime)
	assert.Equal(t, 1, player.Stats.CrimesCommitted)
	assert.Equal(t, 1, player.Stats.CrimesSucceeded)

	require.NotNil(t, record)
	assert.Equal(t, "pickpocket", record.Crime)
	assert.True(t, record.Success)
	assert.Equal(t, int64(300), record.Amount)
	assert.True(t, record.JailedUntil.IsZero())
	assert.Equal(t, now, record.Timestamp)
}

func TestCrimeService_Attempt_Failure(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	eco := &models.GuildEconomy{
		GuildID:          gid,
		Gini:             0.5,
		PoliceStrength:   0.5,
		UnemploymentRate: 0.10,
	}
	player := testPlayer(gid, uid, "waiter", 1000, 0)
	player.Skill = 2

	store.EXPECT().Economy(gomock.Any(), gomock.Any()).Return(eco, nil)
	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(player, nil)
	applyPlayer(store, gid, uid, player)

	var record *models.CrimeRecord
	store.EXPECT().RecordCrime(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec *models.CrimeRecord) error {
			record = rec
			return nil
		})

	svc := testCrime(t, store, now, []float64{0.9, 0.5})

	result, err := svc.Attempt(context.Background(), testGuild, alice, "pickpocket")
	require.NoError(t, err)

	assert.False(t, result.Success)

	// Half the 300 roll, well under the cash on hand.
	assert.Equal(t, int64(150), result.Amount)
	assert.Equal(t, int64(850), result.Balance)
	assert.Equal(t, -10, result.Reputation)
	assert.Equal(t, now.Add(2*time.Hour), result.JailedUntil)
	assert.Equal(t, now.Add(2*time.Hour), player.JailedUntil)

	require.NotNil(t, record)
	assert.False(t, record.Success)
	assert.Equal(t, int64(150), record.Amount)
	assert.Equal(t, now.Add(2*time.Hour), record.JailedUntil)
}

func TestCrimeService_Attempt_SkillGate(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	player := testPlayer(gid, uid, "waiter", 1000, 0)
	player.Skill = 3

	store.EXPECT().Economy(gomock.Any(), gomock.Any()).Return(&models.GuildEconomy{GuildID: gid}, nil)
	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(player, nil)
	applyPlayer(store, gid, uid, player)

	svc := testCrime(t, store, now, nil)

	_, err := svc.Attempt(context.Background(), testGuild, alice, "heist")
	require.EqualError(t, err, "you need skill 7 to attempt heist")
}

func TestCrimeService_Attempt_Jailed(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	player := testPlayer(gid, uid, "waiter", 1000, 0)
	player.JailedUntil = now.Add(30 * time.Minute)

	store.EXPECT().Economy(gomock.Any(), gomock.Any()).Return(&models.GuildEconomy{GuildID: gid}, nil)
	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(player, nil)
	applyPlayer(store, gid, uid, player)

	svc := testCrime(t, store, now, nil)

	_, err := svc.Attempt(context.Background(), testGuild, alice, "pickpocket")
	require.EqualError(t, err, "you are jailed for another 30m0s")
}

func TestCrimeService_Attempt_UnknownCrime(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	player := testPlayer(gid, uid, "waiter", 1000, 0)

	store.EXPECT().Economy(gomock.Any(), gomock.Any()).Return(&models.GuildEconomy{GuildID: gid}, nil)
	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(player, nil)
	applyPlayer(store, gid, uid, player)

	svc := testCrime(t, store, now, nil)

	_, err := svc.Attempt(context.Background(), testGuild, alice, "jaywalking")
	require.EqualError(t, err, `unknown crime "jaywalking"`)
}

func TestCrimeService_Rob_Success(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid := testGuild.String()

	robber := testPlayer(gid, alice.String(), "waiter", 500, 0)
	robber.Skill = 5
	victim := testPlayer(gid, bob.String(), "teacher", 2000, 0)
	victim.Skill = 3

	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(robber, nil)
	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(victim, nil)
	applyPlayers(store, gid, alice.String(), bob.String(), robber, victim)

	var txn *models.Transaction
	store.EXPECT().RecordTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *models.Transaction) error {
			txn = tx
			return nil
		})

	svc := testCrime(t, store, now, []float64{0.3, 0.5})

	result, err := svc.Rob(context.Background(), testGuild, alice, bob)
	require.NoError(t, err)

	// 0.4 base plus two skill points of edge.
	assert.InDelta(t, 0.5, result.Rate, 1e-9)
	assert.True(t, result.Success)

	// Mid-range cut: 20% of the victim's 2000 cash.
	assert.Equal(t, int64(400), result.Amount)
	assert.Equal(t, int64(900), result.Balance)
	assert.Equal(t, -3, result.Reputation)
	assert.Equal(t, bob.String(), result.VictimID)

	assert.Equal(t, int64(1600), victim.Balance)
	assert.Equal(t, now, robber.LastRob)

	require.NotNil(t, txn)
	assert.Equal(t, bob.String(), txn.FromID)
	assert.Equal(t, alice.String(), txn.ToID)
	assert.Equal(t, int64(400), txn.Amount)
	assert.Equal(t, models.TxnRobbery, txn.Kind)
}

func TestCrimeService_Rob_Failure(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid := testGuild.String()

	robber := testPlayer(gid, alice.String(), "waiter", 500, 0)
	robber.Skill = 5
	victim := testPlayer(gid, bob.String(), "teacher", 2000, 0)
	victim.Skill = 3

	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(robber, nil)
	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(victim, nil)
	applyPlayers(store, gid, alice.String(), bob.String(), robber, victim)

	svc := testCrime(t, store, now, []float64{0.9, 0.5})

	result, err := svc.Rob(context.Background(), testGuild, alice, bob)
	require.NoError(t, err)

	assert.False(t, result.Success)

	// Fumbled: 15% of the robber's own 500.
	assert.Equal(t, int64(75), result.Amount)
	assert.Equal(t, int64(425), result.Balance)
	assert.Equal(t, -5, result.Reputation)
	assert.Equal(t, int64(2000), victim.Balance)
}

func TestCrimeService_Rob_RejectsSelf(t *testing.T) {
	store := mock.NewMockStore(gomock.NewController(t))
	svc := testCrime(t, store, time.Now(), nil)

	_, err := svc.Rob(context.Background(), testGuild, alice, alice)
	require.EqualError(t, err, "you cannot rob yourself")
}

func TestCrimeService_Rob_VictimTooPoor(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid := testGuild.String()

	robber := testPlayer(gid, alice.String(), "waiter", 500, 0)
	victim := testPlayer(gid, bob.String(), "teacher", 50, 5000)

	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(robber, nil)
	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(victim, nil)
	applyPlayers(store, gid, alice.String(), bob.String(), robber, victim)

	svc := testCrime(t, store, now, nil)

	_, err := svc.Rob(context.Background(), testGuild, alice, bob)
	require.EqualError(t, err, "target does not have enough money to rob")
}

func TestCrimeService_Rob_Cooldown(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid := testGuild.String()

	robber := testPlayer(gid, alice.String(), "waiter", 500, 0)
	robber.LastRob = now.Add(-6 * time.Hour)
	victim := testPlayer(gid, bob.String(), "teacher", 2000, 0)

	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(robber, nil)
	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(victim, nil)
	applyPlayers(store, gid, alice.String(), bob.String(), robber, victim)

	svc := testCrime(t, store, now, nil)

	_, err := svc.Rob(context.Background(), testGuild, alice, bob)
	require.EqualError(t, err, "lay low for another 6h0m0s")
}
