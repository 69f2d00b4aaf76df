package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/midasbot/midas/midas/apperrors"
	"github.com/midasbot/midas/midas/database/models"
	"github.com/midasbot/midas/midas/economy/catalog"
	"github.com/midasbot/midas/midas/economy/engine"
	"github.com/midasbot/midas/midas/economy/simulator"
	"github.com/midasbot/midas/midas/metrics"
)

// WelfareService pays the social safety net out of the tenant budget.
type WelfareService struct {
	store Store
	eng   *engine.Engine
	met   *metrics.Metrics

	now func() time.Time
}

func NewWelfareService(store Store, eng *engine.Engine, met *metrics.Metrics) *WelfareService {
	return &WelfareService{store: store, eng: eng, met: met, now: time.Now}
}

// WelfareResult is one settled welfare claim.
type WelfareResult struct {
	Amount     int64
	Unemployed bool
	Balance    int64
}

// Claim pays welfare to an eligible player. The payment is the
// tenant's configured base amount, doubled while unemployed, and is
// drawn down from the government budget. There is no cooldown; the
// wealth ceiling is the only brake on repeat claims.
func (s *WelfareService) Claim(ctx context.Context, guildID, userID snowflake.ID) (result *WelfareResult, err error) {
	start := time.Now()
	defer func() { s.met.ObserveAction("welfare", start, err) }()

	gid, uid := guildID.String(), userID.String()
	now := s.now()

	eco, err := s.store.Economy(ctx, simulator.EconomyTemplate(s.eng.Catalog(), gid, now))
	if err != nil {
		return nil, fmt.Errorf("failed to load economy: %w", err)
	}

	if err = ensurePlayer(ctx, s.store, s.eng.Catalog(), gid, uid); err != nil {
		return nil, err
	}

	player, err := s.store.UpdatePlayer(ctx, gid, uid, func(p *models.Player) error {
		class := s.eng.Classify(p.Wealth())
		if !class.WelfareEligible {
			return apperrors.NewValidation("your wealth class does not qualify for welfare")
		}
		if p.Wealth() > catalog.WelfareThreshold {
			return apperrors.NewValidation(fmt.Sprintf(
				"welfare is limited to players holding %d or less", int64(catalog.WelfareThreshold)))
		}

		unemployed := p.Job == models.JobUnemployed
		amount := s.eng.WelfarePayment(class, eco.WelfareAmount, unemployed)
		p.Balance += amount

		result = &WelfareResult{Amount: amount, Unemployed: unemployed}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Balance = player.Balance

	if err := s.store.AddFiscal(ctx, gid, 0, -result.Amount); err != nil {
		slog.Warn("Failed to draw down welfare budget",
			slog.String("type", "services"),
			slog.String("guild_id", gid),
			slog.String("error", err.Error()))
	}
	recordTxn(ctx, s.store, gid, models.SystemParty, uid, result.Amount, models.TxnWelfarePayment, "", now)

	return result, nil
}
