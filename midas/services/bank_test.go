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

func testBank(t *testing.T, store Store, now time.Time) *BankService {
	t.Helper()
	s := NewBankService(store, engine.New(catalog.NewDefault()), metrics.NewWith(prometheus.NewRegistry()))
	s.now = func() time.Time { return now }
	return s
}

func TestBankService_Deposit(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	player := testPlayer(gid, uid, "waiter", 1000, 0)
	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(player, nil)
	applyPlayer(store, gid, uid, player)

	svc := testBank(t, store, now)

	got, err := svc.Deposit(context.Background(), testGuild, alice, 400)
	require.NoError(t, err)
	assert.Equal(t, int64(600), got.Balance)
	assert.Equal(t, int64(400), got.Bank)
}

func TestBankService_Deposit_RejectsNonPositive(t *testing.T) {
	store := mock.NewMockStore(gomock.NewController(t))
	svc := testBank(t, store, time.Now())

	_, err := svc.Deposit(context.Background(), testGuild, alice, 0)
	require.EqualError(t, err, "deposit amount must be positive")
}

func TestBankService_Deposit_InsufficientBalance(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	player := testPlayer(gid, uid, "waiter", 1000, 0)
	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(player, nil)
	applyPlayer(store, gid, uid, player)

	svc := testBank(t, store, now)

	_, err := svc.Deposit(context.Background(), testGuild, alice, 5000)
	require.EqualError(t, err, "insufficient balance (has 1000, needs 5000)")
}

func TestBankService_DepositAll(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	player := testPlayer(gid, uid, "waiter", 750, 50)
	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(player, nil)
	applyPlayer(store, gid, uid, player)

	svc := testBank(t, store, now)

	got, err := svc.DepositAll(context.Background(), testGuild, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Balance)
	assert.Equal(t, int64(800), got.Bank)
}

func TestBankService_DepositAll_Empty(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	player := testPlayer(gid, uid, "waiter", 0, 200)
	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(player, nil)
	applyPlayer(store, gid, uid, player)

	svc := testBank(t, store, now)

	_, err := svc.DepositAll(context.Background(), testGuild, alice)
	require.EqualError(t, err, "nothing to deposit")
}

func TestBankService_Withdraw(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	player := testPlayer(gid, uid, "waiter", 100, 900)
	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(player, nil)
	applyPlayer(store, gid, uid, player)

	svc := testBank(t, store, now)

	got, err := svc.Withdraw(context.Background(), testGuild, alice, 300)
	require.NoError(t, err)
	assert.Equal(t, int64(400), got.Balance)
	assert.Equal(t, int64(600), got.Bank)
}

func TestBankService_WithdrawAll_Empty(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	player := testPlayer(gid, uid, "waiter", 100, 0)
	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(player, nil)
	applyPlayer(store, gid, uid, player)

	svc := testBank(t, store, now)

	_, err := svc.WithdrawAll(context.Background(), testGuild, alice)
	require.EqualError(t, err, "nothing to withdraw")
}

func TestBankService_Transfer(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid := testGuild.String()

	sender := testPlayer(gid, alice.String(), "waiter", 2000, 0)
	receiver := testPlayer(gid, bob.String(), models.JobUnemployed, 100, 0)

	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(sender, nil)
	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(receiver, nil)
	applyPlayers(store, gid, alice.String(), bob.String(), sender, receiver)

	var txn *models.Transaction
	store.EXPECT().RecordTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *models.Transaction) error {
			txn = tx
			return nil
		})

	svc := testBank(t, store, now)

	result, err := svc.Transfer(context.Background(), testGuild, alice, bob, 1000)
	require.NoError(t, err)

	// The 0.5% fee comes out of the receiver's side.
	assert.Equal(t, int64(1000), result.Amount)
	assert.Equal(t, int64(5), result.Fee)
	assert.Equal(t, int64(995), result.Net)
	assert.Equal(t, int64(1000), result.Balance)

	assert.Equal(t, int64(1000), sender.Balance)
	assert.Equal(t, int64(1000), sender.Stats.TotalSpent)
	assert.Equal(t, int64(1095), receiver.Balance)
	assert.Equal(t, int64(995), receiver.Stats.TotalEarned)

	require.NotNil(t, txn)
	assert.Equal(t, alice.String(), txn.FromID)
	assert.Equal(t, bob.String(), txn.ToID)
	assert.Equal(t, int64(995), txn.Amount)
	assert.Equal(t, models.TxnTransfer, txn.Kind)
}

func TestBankService_Transfer_RejectsSelf(t *testing.T) {
	store := mock.NewMockStore(gomock.NewController(t))
	svc := testBank(t, store, time.Now())

	_, err := svc.Transfer(context.Background(), testGuild, alice, alice, 500)
	require.EqualError(t, err, "you cannot transfer money to yourself")
}

func TestBankService_Transfer_RejectsNonPositive(t *testing.T) {
	store := mock.NewMockStore(gomock.NewController(t))
	svc := testBank(t, store, time.Now())

	_, err := svc.Transfer(context.Background(), testGuild, alice, bob, 0)
	require.EqualError(t, err, "transfer amount must be positive")
}

func TestBankService_Overview(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	player := testPlayer(gid, uid, "teacher", 600, 69_400)
	player.Skill = 6
	player.Reputation = -8
	player.Stats = models.PlayerStats{TotalEarned: 80_000, TaxesPaid: 4_000, JobsWorked: 25}
	player.CreatedAt = now.Add(-30 * 24 * time.Hour)

	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(player, nil)

	svc := testBank(t, store, now)

	got, err := svc.Overview(context.Background(), testGuild, alice)
	require.NoError(t, err)

	assert.Equal(t, int64(600), got.Balance)
	assert.Equal(t, int64(69_400), got.Bank)
	assert.Equal(t, int64(70_000), got.Wealth)
	assert.Equal(t, catalog.TierUpper, got.Tier)
	assert.Equal(t, "teacher", got.Job)
	assert.Equal(t, 6, got.Skill)
	assert.Equal(t, -8, got.Reputation)

	// Upper base power 7 plus four digits of wealth magnitude.
	assert.Equal(t, 11, got.Influence)
	assert.Equal(t, 25, got.Stats.JobsWorked)
	assert.Equal(t, player.CreatedAt, got.CreatedAt)
}

func TestBankService_Transactions_DefaultLimit(t *testing.T) {
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	history := []*models.Transaction{{GuildID: gid, ToID: uid, Amount: 42}}
	store.EXPECT().RecentTransactions(gomock.Any(), gid, uid, 10).Return(history, nil)

	svc := testBank(t, store, time.Now())

	got, err := svc.Transactions(context.Background(), testGuild, alice, 0)
	require.NoError(t, err)
	assert.Equal(t, history, got)
}
