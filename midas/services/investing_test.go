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

func testInvesting(t *testing.T, store Store, now time.Time) *InvestingService {
	t.Helper()
	s := NewInvestingService(store, engine.New(catalog.NewDefault()), metrics.NewWith(prometheus.NewRegistry()))
	s.now = func() time.Time { return now }
	return s
}

func TestInvestingService_Invest(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	player := testPlayer(gid, uid, "waiter", 1000, 0)
	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(player, nil)
	applyPlayer(store, gid, uid, player)

	var created *models.Investment
	store.EXPECT().CreateInvestment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, pos *models.Investment) error {
			created = pos
			return nil
		})

	var txn *models.Transaction
	store.EXPECT().RecordTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *models.Transaction) error {
			txn = tx
			return nil
		})

	svc := testInvesting(t, store, now)

	result, err := svc.Invest(context.Background(), testGuild, alice, "stocks", 800)
	require.NoError(t, err)

	assert.Equal(t, int64(200), result.Balance)
	assert.Equal(t, 1, player.Stats.InvestmentsMade)

	require.NotNil(t, created)
	assert.Equal(t, "stocks", created.Type)
	assert.Equal(t, int64(800), created.Principal)
	assert.Equal(t, int64(800), created.CurrentValue)
	assert.Equal(t, now, created.LastValuedAt)

	require.NotNil(t, txn)
	assert.Equal(t, uid, txn.FromID)
	assert.Equal(t, models.SystemParty, txn.ToID)
	assert.Equal(t, int64(800), txn.Amount)
	assert.Equal(t, models.TxnInvestmentPurchase, txn.Kind)
	assert.Equal(t, "stocks", txn.Note)
}

func TestInvestingService_Invest_UnknownInstrument(t *testing.T) {
	store := mock.NewMockStore(gomock.NewController(t))
	svc := testInvesting(t, store, time.Now())

	_, err := svc.Invest(context.Background(), testGuild, alice, "beanie_babies", 800)
	require.EqualError(t, err, `unknown investment "beanie_babies"`)
}

func TestInvestingService_Invest_BelowMinimum(t *testing.T) {
	store := mock.NewMockStore(gomock.NewController(t))
	svc := testInvesting(t, store, time.Now())

	_, err := svc.Invest(context.Background(), testGuild, alice, "stocks", 200)
	require.EqualError(t, err, "minimum for stocks is 500")
}

func TestInvestingService_Invest_InsufficientBalance(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	player := testPlayer(gid, uid, "waiter", 100, 5000)
	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(player, nil)
	applyPlayer(store, gid, uid, player)

	svc := testInvesting(t, store, now)

	_, err := svc.Invest(context.Background(), testGuild, alice, "stocks", 800)
	require.EqualError(t, err, "insufficient balance (has 100, needs 800)")
}

func TestInvestingService_Portfolio(t *testing.T) {
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	positions := []*models.Investment{
		{GuildID: gid, UserID: uid, Type: "stocks", Principal: 800, CurrentValue: 900},
		{GuildID: gid, UserID: uid, Type: "stocks", Principal: 500, CurrentValue: 450},
		{GuildID: gid, UserID: uid, Type: "bonds", Principal: 1000, CurrentValue: 1010},
	}
	store.EXPECT().InvestmentsByUser(gomock.Any(), gid, uid).Return(positions, nil)

	svc := testInvesting(t, store, time.Now())

	book, err := svc.Portfolio(context.Background(), testGuild, alice)
	require.NoError(t, err)

	require.Len(t, book.Holdings, 2)
	assert.Equal(t, Holding{Type: "stocks", Positions: 2, Principal: 1300, Value: 1350}, book.Holdings[0])
	assert.Equal(t, Holding{Type: "bonds", Positions: 1, Principal: 1000, Value: 1010}, book.Holdings[1])
	assert.Equal(t, int64(2300), book.Principal)
	assert.Equal(t, int64(2360), book.Value)
}

func TestInvestingService_Liquidate(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	sold := []*models.Investment{
		{GuildID: gid, UserID: uid, Type: "stocks", Principal: 800, CurrentValue: 900},
		{GuildID: gid, UserID: uid, Type: "stocks", Principal: 500, CurrentValue: 450},
	}
	store.EXPECT().SellInvestments(gomock.Any(), gid, uid, "stocks", 0.9).
		Return(sold, int64(1215), int64(1415), nil)

	var txn *models.Transaction
	store.EXPECT().RecordTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *models.Transaction) error {
			txn = tx
			return nil
		})

	svc := testInvesting(t, store, now)

	sale, err := svc.Liquidate(context.Background(), testGuild, alice, "stocks")
	require.NoError(t, err)

	// Two positions worth 1350 sold at the 0.9 liquidity discount.
	assert.Equal(t, 2, sale.Positions)
	assert.Equal(t, int64(1300), sale.Principal)
	assert.Equal(t, int64(1350), sale.Value)
	assert.Equal(t, int64(1215), sale.Proceeds)
	assert.Equal(t, int64(1415), sale.Balance)

	require.NotNil(t, txn)
	assert.Equal(t, models.SystemParty, txn.FromID)
	assert.Equal(t, uid, txn.ToID)
	assert.Equal(t, int64(1215), txn.Amount)
	assert.Equal(t, models.TxnInvestmentSale, txn.Kind)
	assert.Equal(t, "stocks", txn.Note)
}

func TestInvestingService_Liquidate_NothingHeld(t *testing.T) {
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	store.EXPECT().SellInvestments(gomock.Any(), gid, uid, "stocks", 0.9).
		Return(nil, int64(0), int64(0), nil)

	svc := testInvesting(t, store, time.Now())

	_, err := svc.Liquidate(context.Background(), testGuild, alice, "stocks")
	require.EqualError(t, err, "you hold no stocks")
}

func TestInvestingService_Suggest_RejectsBadTolerance(t *testing.T) {
	store := mock.NewMockStore(gomock.NewController(t))
	svc := testInvesting(t, store, time.Now())

	_, err := svc.Suggest(context.Background(), testGuild, alice, 0)
	require.EqualError(t, err, "risk tolerance must be in (0, 1]")
}

func TestInvestingService_Suggest(t *testing.T) {
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(testPlayer(gid, uid, "waiter", 10_000, 0), nil)

	svc := testInvesting(t, store, time.Now())

	got, err := svc.Suggest(context.Background(), testGuild, alice, 0.25)
	require.NoError(t, err)

	// Greedy 30% slices: 3000 of 10000, 2100 of 7000, then stocks
	// takes 1470 of the 4900 left. Crypto sits past the tolerance.
	require.Len(t, got, 3)
	assert.Equal(t, "savings_account", got[0].Investment.Name)
	assert.Equal(t, int64(3000), got[0].Amount)
	assert.Equal(t, "bonds", got[1].Investment.Name)
	assert.Equal(t, int64(2100), got[1].Amount)
	assert.Equal(t, "stocks", got[2].Investment.Name)
	assert.Equal(t, int64(1470), got[2].Amount)
}
