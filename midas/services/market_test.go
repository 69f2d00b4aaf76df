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

func testMarket(t *testing.T, store Store, now time.Time) *MarketService {
	t.Helper()
	s := NewMarketService(store, engine.New(catalog.NewDefault()), metrics.NewWith(prometheus.NewRegistry()))
	s.now = func() time.Time { return now }
	return s
}

func TestMarketService_Shop(t *testing.T) {
	store := mock.NewMockStore(gomock.NewController(t))
	gid := testGuild.String()

	eco := &models.GuildEconomy{
		GuildID:      gid,
		MarketPrices: map[string]int64{"bread": 6},
	}
	store.EXPECT().Economy(gomock.Any(), gomock.Any()).Return(eco, nil)

	svc := testMarket(t, store, time.Now())

	quotes, err := svc.Shop(context.Background(), testGuild)
	require.NoError(t, err)

	require.Len(t, quotes, 9)
	assert.Equal(t, Quote{Item: "bread", BasePrice: 5, Price: 6}, quotes[0])

	// No live quote yet, so water sits at base.
	assert.Equal(t, Quote{Item: "water", BasePrice: 3, Price: 3}, quotes[1])
}

func TestMarketService_Buy(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	eco := &models.GuildEconomy{
		GuildID:      gid,
		MarketPrices: map[string]int64{"phone": 520},
	}
	player := testPlayer(gid, uid, "waiter", 2000, 0)
	player.Inventory = make(map[string]int)

	store.EXPECT().Economy(gomock.Any(), gomock.Any()).Return(eco, nil)
	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(player, nil)
	applyPlayer(store, gid, uid, player)

	var txn *models.Transaction
	store.EXPECT().RecordTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *models.Transaction) error {
			txn = tx
			return nil
		})

	svc := testMarket(t, store, now)

	result, err := svc.Buy(context.Background(), testGuild, alice, "phone", 2)
	require.NoError(t, err)

	assert.Equal(t, "phone", result.Item)
	assert.Equal(t, int64(520), result.UnitPrice)
	assert.Equal(t, int64(1040), result.Cost)
	assert.Equal(t, 2, result.Held)
	assert.Equal(t, int64(960), result.Balance)
	assert.Equal(t, int64(1040), player.Stats.TotalSpent)

	require.NotNil(t, txn)
	assert.Equal(t, uid, txn.FromID)
	assert.Equal(t, models.SystemParty, txn.ToID)
	assert.Equal(t, int64(1040), txn.Amount)
	assert.Equal(t, models.TxnMarketPurchase, txn.Kind)
	assert.Equal(t, "phone", txn.Note)
}

func TestMarketService_Buy_RejectsNonPositiveQuantity(t *testing.T) {
	store := mock.NewMockStore(gomock.NewController(t))
	svc := testMarket(t, store, time.Now())

	_, err := svc.Buy(context.Background(), testGuild, alice, "phone", 0)
	require.EqualError(t, err, "quantity must be positive")
}

func TestMarketService_Buy_UnknownItem(t *testing.T) {
	store := mock.NewMockStore(gomock.NewController(t))
	svc := testMarket(t, store, time.Now())

	_, err := svc.Buy(context.Background(), testGuild, alice, "xyzzy", 1)
	require.EqualError(t, err, `unknown item "xyzzy"`)
}

func TestMarketService_Buy_InsufficientBalance(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	eco := &models.GuildEconomy{
		GuildID:      gid,
		MarketPrices: map[string]int64{"phone": 520},
	}
	player := testPlayer(gid, uid, "waiter", 100, 0)

	store.EXPECT().Economy(gomock.Any(), gomock.Any()).Return(eco, nil)
	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(player, nil)
	applyPlayer(store, gid, uid, player)

	svc := testMarket(t, store, now)

	_, err := svc.Buy(context.Background(), testGuild, alice, "phone", 2)
	require.EqualError(t, err, "insufficient balance (has 100, needs 1040)")
}

func TestMarketService_Sell(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	eco := &models.GuildEconomy{
		GuildID:      gid,
		MarketPrices: map[string]int64{"phone": 520},
	}
	player := testPlayer(gid, uid, "waiter", 500, 0)
	player.Inventory = map[string]int{"phone": 3}

	store.EXPECT().Economy(gomock.Any(), gomock.Any()).Return(eco, nil)
	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(player, nil)
	applyPlayer(store, gid, uid, player)

	var txn *models.Transaction
	store.EXPECT().RecordTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *models.Transaction) error {
			txn = tx
			return nil
		})

	svc := testMarket(t, store, now)

	result, err := svc.Sell(context.Background(), testGuild, alice, "phone", 2)
	require.NoError(t, err)

	// Resale pays 70% of the live 520 quote per unit.
	assert.Equal(t, int64(364), result.UnitPrice)
	assert.Equal(t, int64(728), result.Proceeds)
	assert.Equal(t, 1, result.Held)
	assert.Equal(t, int64(1228), result.Balance)
	assert.Equal(t, int64(728), player.Stats.TotalEarned)

	require.NotNil(t, txn)
	assert.Equal(t, models.SystemParty, txn.FromID)
	assert.Equal(t, uid, txn.ToID)
	assert.Equal(t, int64(728), txn.Amount)
	assert.Equal(t, models.TxnMarketSale, txn.Kind)
}

func TestMarketService_Sell_All(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	player := testPlayer(gid, uid, "waiter", 500, 0)
	player.Inventory = map[string]int{"phone": 2}

	store.EXPECT().Economy(gomock.Any(), gomock.Any()).Return(&models.GuildEconomy{GuildID: gid}, nil)
	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(player, nil)
	applyPlayer(store, gid, uid, player)
	store.EXPECT().RecordTransaction(gomock.Any(), gomock.Any()).Return(nil)

	svc := testMarket(t, store, now)

	result, err := svc.Sell(context.Background(), testGuild, alice, "phone", 2)
	require.NoError(t, err)

	// Base 500 resells at 350 per unit with no live quote.
	assert.Equal(t, int64(350), result.UnitPrice)
	assert.Equal(t, int64(700), result.Proceeds)
	assert.Equal(t, 0, result.Held)

	_, held := player.Inventory["phone"]
	assert.False(t, held)
}

func TestMarketService_Sell_MoreThanHeld(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	player := testPlayer(gid, uid, "waiter", 500, 0)
	player.Inventory = map[string]int{"phone": 1}

	store.EXPECT().Economy(gomock.Any(), gomock.Any()).Return(&models.GuildEconomy{GuildID: gid}, nil)
	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(player, nil)
	applyPlayer(store, gid, uid, player)

	svc := testMarket(t, store, now)

	_, err := svc.Sell(context.Background(), testGuild, alice, "phone", 2)
	require.EqualError(t, err, "you hold 1 phone, cannot sell 2")
}

func TestMarketService_Inventory(t *testing.T) {
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	eco := &models.GuildEconomy{
		GuildID:      gid,
		MarketPrices: map[string]int64{"bread": 6},
	}
	player := testPlayer(gid, uid, "waiter", 500, 0)
	player.Inventory = map[string]int{"bread": 10, "phone": 1}

	store.EXPECT().Economy(gomock.Any(), gomock.Any()).Return(eco, nil)
	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(player, nil)

	svc := testMarket(t, store, time.Now())

	lines, err := svc.Inventory(context.Background(), testGuild, alice)
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Equal(t, InventoryLine{Item: "bread", Quantity: 10, Price: 6, Value: 60, Resale: 40}, lines[0])
	assert.Equal(t, InventoryLine{Item: "phone", Quantity: 1, Price: 500, Value: 500, Resale: 350}, lines[1])
}
