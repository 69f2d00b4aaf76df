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
	"github.com/midasbot/midas/midas/economy/simulator"
	"github.com/midasbot/midas/midas/economy/utils"
	"github.com/midasbot/midas/midas/metrics"
)

// MarketService trades catalog goods at the tenant's live prices.
type MarketService struct {
	store Store
	eng   *engine.Engine
	met   *metrics.Metrics

	now func() time.Time
}

func NewMarketService(store Store, eng *engine.Engine, met *metrics.Metrics) *MarketService {
	return &MarketService{store: store, eng: eng, met: met, now: time.Now}
}

// marketPrice returns the live quote, falling back to the base price
// for items the tick has not repriced yet.
func marketPrice(eco *models.GuildEconomy, item catalog.Item) int64 {
	if p, ok := eco.MarketPrices[item.Name]; ok && p > 0 {
		return p
	}
	return item.BasePrice
}

// Quote is one shop line.
type Quote struct {
	Item      string
	BasePrice int64
	Price     int64
}

// Shop lists every catalog item at the tenant's current price.
func (s *MarketService) Shop(ctx context.Context, guildID snowflake.ID) ([]Quote, error) {
	gid := guildID.String()
	eco, err := s.store.Economy(ctx, simulator.EconomyTemplate(s.eng.Catalog(), gid, s.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to load economy: %w", err)
	}

	items := s.eng.Catalog().Items()
	quotes := make([]Quote, len(items))
	for i, item := range items {
		quotes[i] = Quote{Item: item.Name, BasePrice: item.BasePrice, Price: marketPrice(eco, item)}
	}
	return quotes, nil
}

// PurchaseResult is one settled market purchase.
type PurchaseResult struct {
	Item      string
	Quantity  int
	UnitPrice int64
	Cost      int64
	Held      int
	Balance   int64
}

// Buy purchases goods at the live price.
func (s *MarketService) Buy(ctx context.Context, guildID, userID snowflake.ID, itemName string, quantity int) (result *PurchaseResult, err error) {
	start := time.Now()
	defer func() { s.met.ObserveAction("buy", start, err) }()

	item, ok := s.eng.Catalog().ResolveItem(itemName)
	if !ok {
		return nil, apperrors.NewValidation(fmt.Sprintf("unknown item %q", itemName))
	}
	if quantity <= 0 {
		return nil, apperrors.NewValidation("quantity must be positive")
	}

	gid, uid := guildID.String(), userID.String()
	now := s.now()

	eco, err := s.store.Economy(ctx, simulator.EconomyTemplate(s.eng.Catalog(), gid, now))
	if err != nil {
		return nil, fmt.Errorf("failed to load economy: %w", err)
	}
	price := marketPrice(eco, item)
	cost := price * int64(quantity)

	if err = ensurePlayer(ctx, s.store, s.eng.Catalog(), gid, uid); err != nil {
		return nil, err
	}

	player, err := s.store.UpdatePlayer(ctx, gid, uid, func(p *models.Player) error {
		if p.Balance < cost {
			return apperrors.NewValidation(fmt.Sprintf("insufficient balance (has %d, needs %d)", p.Balance, cost))
		}
		if p.Inventory == nil {
			p.Inventory = make(map[string]int)
		}
		p.Balance -= cost
		p.Inventory[item.Name] += quantity
		p.Stats.TotalSpent += cost
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordTxn(ctx, s.store, gid, uid, models.SystemParty, cost, models.TxnMarketPurchase, item.Name, now)

	return &PurchaseResult{
		Item:      item.Name,
		Quantity:  quantity,
		UnitPrice: price,
		Cost:      cost,
		Held:      player.Inventory[item.Name],
		Balance:   player.Balance,
	}, nil
}

// SaleResult is one settled market sale.
type SaleResult struct {
	Item      string
	Quantity  int
	UnitPrice int64
	Proceeds  int64
	Held      int
	Balance   int64
}

// Sell liquidates inventory at the resale rate against the live price.
func (s *MarketService) Sell(ctx context.Context, guildID, userID snowflake.ID, itemName string, quantity int) (result *SaleResult, err error) {
	start := time.Now()
	defer func() { s.met.ObserveAction("sell", start, err) }()

	item, ok := s.eng.Catalog().ResolveItem(itemName)
	if !ok {
		return nil, apperrors.NewValidation(fmt.Sprintf("unknown item %q", itemName))
	}
	if quantity <= 0 {
		return nil, apperrors.NewValidation("quantity must be positive")
	}

	gid, uid := guildID.String(), userID.String()
	now := s.now()

	eco, err := s.store.Economy(ctx, simulator.EconomyTemplate(s.eng.Catalog(), gid, now))
	if err != nil {
		return nil, fmt.Errorf("failed to load economy: %w", err)
	}
	perUnit := int64(math.Round(float64(marketPrice(eco, item)) * utils.MarketResaleRate))
	proceeds := perUnit * int64(quantity)

	if err = ensurePlayer(ctx, s.store, s.eng.Catalog(), gid, uid); err != nil {
		return nil, err
	}

	player, err := s.store.UpdatePlayer(ctx, gid, uid, func(p *models.Player) error {
		held := p.Inventory[item.Name]
		if held < quantity {
			return apperrors.NewValidation(fmt.Sprintf("you hold %d %s, cannot sell %d", held, item.Name, quantity))
		}
		p.Balance += proceeds
		p.Stats.TotalEarned += proceeds
		if held == quantity {
			delete(p.Inventory, item.Name)
		} else {
			p.Inventory[item.Name] = held - quantity
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordTxn(ctx, s.store, gid, models.SystemParty, uid, proceeds, models.TxnMarketSale, item.Name, now)

	return &SaleResult{
		Item:      item.Name,
		Quantity:  quantity,
		UnitPrice: perUnit,
		Proceeds:  proceeds,
		Held:      player.Inventory[item.Name],
		Balance:   player.Balance,
	}, nil
}

// InventoryLine is one held item valued at current prices.
type InventoryLine struct {
	Item     string
	Quantity int
	Price    int64
	Value    int64
	Resale   int64
}

// Inventory values the player's held goods at the live market, in
// catalog order.
func (s *MarketService) Inventory(ctx context.Context, guildID, userID snowflake.ID) ([]InventoryLine, error) {
	gid, uid := guildID.String(), userID.String()

	eco, err := s.store.Economy(ctx, simulator.EconomyTemplate(s.eng.Catalog(), gid, s.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to load economy: %w", err)
	}
	player, err := s.store.Player(ctx, playerTemplate(s.eng.Catalog(), gid, uid))
	if err != nil {
		return nil, fmt.Errorf("failed to load player: %w", err)
	}

	var lines []InventoryLine
	for _, item := range s.eng.Catalog().Items() {
		held := player.Inventory[item.Name]
		if held == 0 {
			continue
		}
		price := marketPrice(eco, item)
		perUnit := int64(math.Round(float64(price) * utils.MarketResaleRate))
		lines = append(lines, InventoryLine{
			Item:     item.Name,
			Quantity: held,
			Price:    price,
			Value:    price * int64(held),
			Resale:   perUnit * int64(held),
		})
	}
	return lines, nil
}
