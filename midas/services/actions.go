package services

import (
	"context"
	"fmt"
	"log/slog"
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

// ActionService handles the income actions: working a shift and the
// daily, weekly and monthly reward claims.
type ActionService struct {
	store Store
	eng   *engine.Engine
	met   *metrics.Metrics
	seed  uint64

	now     func() time.Time
	newRand func(seed uint64) engine.Rand
}

func NewActionService(store Store, eng *engine.Engine, met *metrics.Metrics, seed uint64) *ActionService {
	return &ActionService{
		store:   store,
		eng:     eng,
		met:     met,
		seed:    seed,
		now:     time.Now,
		newRand: engine.NewRand,
	}
}

// WorkResult is one settled shift.
type WorkResult struct {
	Job          string
	Salary       int64
	Productivity float64
	Earnings     int64
	Tax          int64
	Net          int64
	SkillGained  int
	Skill        int
	Balance      int64
}

// Work runs one shift: wage from the live macro state, scaled by
// productivity, taxed by wealth class, with a chance of skill growth.
// The tax flows into the tenant's fiscal counters after the payout
// settles.
func (s *ActionService) Work(ctx context.Context, guildID, userID snowflake.ID) (result *WorkResult, err error) {
	start := time.Now()
	defer func() { s.met.ObserveAction("work", start, err) }()

	gid, uid := guildID.String(), userID.String()
	now := s.now()
	rng := s.newRand(actionSeed(s.seed, gid, uid, now))

	eco, err := s.store.Economy(ctx, simulator.EconomyTemplate(s.eng.Catalog(), gid, now))
	if err != nil {
		return nil, fmt.Errorf("failed to load economy: %w", err)
	}
	st := macroState(eco)

	if err = ensurePlayer(ctx, s.store, s.eng.Catalog(), gid, uid); err != nil {
		return nil, err
	}

	var tax int64
	player, err := s.store.UpdatePlayer(ctx, gid, uid, func(p *models.Player) error {
		if p.Job == models.JobUnemployed {
			return apperrors.NewValidation("you need a job before you can work")
		}
		if left := cooldownLeft(p.LastWork, catalog.CooldownWork, now); left > 0 {
			return apperrors.NewValidation(fmt.Sprintf("you can work again in %s", left.Round(time.Minute)))
		}
		if p.Jailed(now) {
			return apperrors.NewValidation(fmt.Sprintf("you are jailed for another %s", p.JailedUntil.Sub(now).Round(time.Minute)))
		}

		job, ok := s.eng.Catalog().Job(p.Job)
		if !ok {
			return apperrors.NewInvariant(fmt.Sprintf("unknown job %q on player record", p.Job))
		}

		salary := s.eng.Wage(job, p.Skill, st)
		productivity := s.eng.Productivity(p.Skill, p.Stats.JobsWorked, st.CyclePhase)
		earnings := int64(math.Round(float64(salary) * productivity))
		class := s.eng.Classify(p.Wealth())
		tax = s.eng.Tax(earnings, class, eco.TaxRate)
		net := earnings - tax

		gained := 0
		if rng.Float64() < utils.SkillGainChance && p.Skill < catalog.SkillCap {
			gained = utils.SkillGainMin + rng.IntN(utils.SkillGainMax-utils.SkillGainMin+1)
			p.Skill = min(p.Skill+gained, catalog.SkillCap)
		}

		p.Balance += net
		p.Experience++
		p.LastWork = now
		p.Stats.JobsWorked++
		p.Stats.TotalEarned += net
		p.Stats.TaxesPaid += tax

		result = &WorkResult{
			Job:          p.Job,
			Salary:       salary,
			Productivity: productivity,
			Earnings:     earnings,
			Tax:          tax,
			Net:          net,
			SkillGained:  gained,
			Skill:        p.Skill,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Balance = player.Balance

	if tax > 0 {
		if err := s.store.AddFiscal(ctx, gid, tax, tax); err != nil {
			slog.Warn("Failed to record tax revenue",
				slog.String("type", "services"),
				slog.String("guild_id", gid),
				slog.String("error", err.Error()))
		}
	}
	recordTxn(ctx, s.store, gid, models.SystemParty, uid, result.Net, models.TxnWorkIncome, "wages: "+result.Job, now)

	return result, nil
}

// RewardResult is one periodic reward claim.
type RewardResult struct {
	Amount  int64
	Balance int64
	Tier    catalog.Tier
}

// Daily pays the base amount scaled by wealth class and the cycle's
// growth modifier, plus a small random bonus.
func (s *ActionService) Daily(ctx context.Context, guildID, userID snowflake.ID) (result *RewardResult, err error) {
	start := time.Now()
	defer func() { s.met.ObserveAction("daily", start, err) }()

	gid, uid := guildID.String(), userID.String()
	now := s.now()
	rng := s.newRand(actionSeed(s.seed, gid, uid, now))

	eco, err := s.store.Economy(ctx, simulator.EconomyTemplate(s.eng.Catalog(), gid, now))
	if err != nil {
		return nil, fmt.Errorf("failed to load economy: %w", err)
	}
	growth := s.eng.Catalog().Modifiers(catalog.Phase(eco.CyclePhase)).GDPGrowth

	if err = ensurePlayer(ctx, s.store, s.eng.Catalog(), gid, uid); err != nil {
		return nil, err
	}

	player, err := s.store.UpdatePlayer(ctx, gid, uid, func(p *models.Player) error {
		if left := cooldownLeft(p.LastDaily, catalog.CooldownDaily, now); left > 0 {
			return apperrors.NewValidation(fmt.Sprintf("daily already claimed, next in %s", left.Round(time.Minute)))
		}

		tier := s.eng.Classify(p.Wealth()).Tier
		amount := int64(math.Round(utils.DailyBaseAmount*utils.DailyClassMultiplier(tier)*growth)) +
			int64(rng.IntN(utils.DailyBonusMax+1))

		p.Balance += amount
		p.LastDaily = now

		result = &RewardResult{Amount: amount, Tier: tier}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Balance = player.Balance

	recordTxn(ctx, s.store, gid, models.SystemParty, uid, result.Amount, models.TxnDailyIncome, "", now)
	return result, nil
}

// Weekly pays the base amount growing half a step per class rung.
func (s *ActionService) Weekly(ctx context.Context, guildID, userID snowflake.ID) (result *RewardResult, err error) {
	start := time.Now()
	defer func() { s.met.ObserveAction("weekly", start, err) }()

	gid, uid := guildID.String(), userID.String()
	now := s.now()

	if err = ensurePlayer(ctx, s.store, s.eng.Catalog(), gid, uid); err != nil {
		return nil, err
	}

	player, err := s.store.UpdatePlayer(ctx, gid, uid, func(p *models.Player) error {
		if left := cooldownLeft(p.LastWeekly, catalog.CooldownWeekly, now); left > 0 {
			return apperrors.NewValidation(fmt.Sprintf("weekly already claimed, next in %s", left.Round(time.Hour)))
		}

		tier := s.eng.Classify(p.Wealth()).Tier
		rung := s.eng.Catalog().TierIndex(tier)
		amount := int64(math.Round(utils.WeeklyBaseAmount * (1 + float64(rung)*utils.WeeklyTierStep)))

		p.Balance += amount
		p.LastWeekly = now

		result = &RewardResult{Amount: amount, Tier: tier}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Balance = player.Balance

	recordTxn(ctx, s.store, gid, models.SystemParty, uid, result.Amount, models.TxnWeeklyIncome, "", now)
	return result, nil
}

// Monthly pays the base amount multiplied by one plus the class rung.
func (s *ActionService) Monthly(ctx context.Context, guildID, userID snowflake.ID) (result *RewardResult, err error) {
	start := time.Now()
	defer func() { s.met.ObserveAction("monthly", start, err) }()

	gid, uid := guildID.String(), userID.String()
	now := s.now()

	if err = ensurePlayer(ctx, s.store, s.eng.Catalog(), gid, uid); err != nil {
		return nil, err
	}

	player, err := s.store.UpdatePlayer(ctx, gid, uid, func(p *models.Player) error {
		if left := cooldownLeft(p.LastMonthly, catalog.CooldownMonthly, now); left > 0 {
			return apperrors.NewValidation(fmt.Sprintf("monthly already claimed, next in %s", left.Round(time.Hour)))
		}

		tier := s.eng.Classify(p.Wealth()).Tier
		rung := s.eng.Catalog().TierIndex(tier)
		amount := int64(utils.MonthlyBaseAmount * (1 + rung))

		p.Balance += amount
		p.LastMonthly = now

		result = &RewardResult{Amount: amount, Tier: tier}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Balance = player.Balance

	recordTxn(ctx, s.store, gid, models.SystemParty, uid, result.Amount, models.TxnMonthlyIncome, "", now)
	return result, nil
}
