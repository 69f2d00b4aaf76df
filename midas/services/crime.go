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

// CrimeService handles crimes against the system and robberies between
// players. Outcomes are draws, not errors: a failed heist is a normal
// result carrying its fine and jail term.
type CrimeService struct {
	store Store
	eng   *engine.Engine
	met   *metrics.Metrics
	seed  uint64

	now     func() time.Time
	newRand func(seed uint64) engine.Rand
}

func NewCrimeService(store Store, eng *engine.Engine, met *metrics.Metrics, seed uint64) *CrimeService {
	return &CrimeService{
		store:   store,
		eng:     eng,
		met:     met,
		seed:    seed,
		now:     time.Now,
		newRand: engine.NewRand,
	}
}

// CrimeResult is one resolved crime attempt. Amount is the take on
// success and the fine on failure.
type CrimeResult struct {
	Crime       string
	Success     bool
	Rate        float64
	Amount      int64
	JailedUntil time.Time
	Reputation  int
	Balance     int64
}

// Attempt resolves one crime against the tenant's macro state: success
// odds rise with skill and inequality and fall with police strength.
// Failure fines up to half the rolled take, capped at what the player
// holds, and jails for the crime's term.
func (s *CrimeService) Attempt(ctx context.Context, guildID, userID snowflake.ID, crimeName string) (result *CrimeResult, err error) {
	start := time.Now()
	defer func() { s.met.ObserveAction("crime", start, err) }()

	gid, uid := guildID.String(), userID.String()
	now := s.now()
	rng := s.newRand(actionSeed(s.seed, gid, uid, now))

	eco, err := s.store.Economy(ctx, simulator.EconomyTemplate(s.eng.Catalog(), gid, now))
	if err != nil {
		return nil, fmt.Errorf("failed to load economy: %w", err)
	}

	if err = ensurePlayer(ctx, s.store, s.eng.Catalog(), gid, uid); err != nil {
		return nil, err
	}

	var record *models.CrimeRecord
	player, err := s.store.UpdatePlayer(ctx, gid, uid, func(p *models.Player) error {
		if p.Jailed(now) {
			return apperrors.NewValidation(fmt.Sprintf("you are jailed for another %s", p.JailedUntil.Sub(now).Round(time.Minute)))
		}
		if left := cooldownLeft(p.LastCrime, catalog.CooldownCrime, now); left > 0 {
			return apperrors.NewValidation(fmt.Sprintf("lay low for another %s", left.Round(time.Minute)))
		}
		crime, ok := s.eng.Catalog().ResolveCrime(crimeName)
		if !ok {
			return apperrors.NewValidation(fmt.Sprintf("unknown crime %q", crimeName))
		}
		if p.Skill < crime.SkillRequired {
			return apperrors.NewValidation(fmt.Sprintf("you need skill %d to attempt %s", crime.SkillRequired, crime.Name))
		}

		rate := s.eng.CrimeSuccessRate(crime, p.Skill, eco.Gini, eco.PoliceStrength, eco.UnemploymentRate)
		success := rng.Float64() < rate
		roll := uniform(rng, float64(crime.MinReward), float64(crime.MaxReward))

		p.LastCrime = now
		p.Stats.CrimesCommitted++

		result = &CrimeResult{Crime: crime.Name, Success: success, Rate: rate}
		if success {
			stolen := int64(math.Round(roll))
			p.Balance += stolen
			p.Reputation -= utils.RepLossCrimeSuccess
			p.Stats.CrimesSucceeded++
			result.Amount = stolen
		} else {
			fine := min(int64(math.Round(roll*utils.CrimeFineRate)), p.Balance)
			p.Balance -= fine
			p.JailedUntil = now.Add(time.Duration(crime.JailHours) * time.Hour)
			p.Reputation -= utils.RepLossCrimeFail
			result.Amount = fine
			result.JailedUntil = p.JailedUntil
		}
		result.Reputation = p.Reputation

		record = &models.CrimeRecord{
			GuildID:     gid,
			UserID:      uid,
			Crime:       crime.Name,
			Success:     success,
			Amount:      result.Amount,
			JailedUntil: result.JailedUntil,
			Timestamp:   now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Balance = player.Balance

	// Crime history is telemetry; the attempt already settled.
	if err := s.store.RecordCrime(ctx, record); err != nil {
		slog.Warn("Failed to record crime",
			slog.String("type", "services"),
			slog.String("guild_id", gid),
			slog.String("crime", result.Crime),
			slog.String("error", err.Error()))
	}

	return result, nil
}

// RobResult is one resolved robbery. Amount is what changed hands on
// success and the fumbled fine on failure.
type RobResult struct {
	VictimID   string
	Success    bool
	Rate       float64
	Amount     int64
	Reputation int
	Balance    int64
}

// Rob takes a cut of the victim's cash, odds set by the skill gap.
// Both rows settle under one pair of locks, so the victim's balance
// cannot change between the roll and the transfer.
func (s *CrimeService) Rob(ctx context.Context, guildID, robberID, victimID snowflake.ID) (result *RobResult, err error) {
	start := time.Now()
	defer func() { s.met.ObserveAction("rob", start, err) }()

	if robberID == victimID {
		return nil, apperrors.NewValidation("you cannot rob yourself")
	}

	gid, rid, vid := guildID.String(), robberID.String(), victimID.String()
	now := s.now()
	rng := s.newRand(actionSeed(s.seed, gid, rid, now))

	if err = ensurePlayer(ctx, s.store, s.eng.Catalog(), gid, rid); err != nil {
		return nil, err
	}
	if err = ensurePlayer(ctx, s.store, s.eng.Catalog(), gid, vid); err != nil {
		return nil, err
	}

	robber, _, err := s.store.UpdatePlayers(ctx, gid, rid, vid, func(robber, victim *models.Player) error {
		if left := cooldownLeft(robber.LastRob, catalog.CooldownRob, now); left > 0 {
			return apperrors.NewValidation(fmt.Sprintf("lay low for another %s", left.Round(time.Minute)))
		}
		if victim.Balance < utils.RobVictimMinBalance {
			return apperrors.NewValidation("target does not have enough money to rob")
		}

		rate := s.eng.RobSuccessRate(robber.Skill, victim.Skill)
		success := rng.Float64() < rate

		robber.LastRob = now
		result = &RobResult{VictimID: vid, Success: success, Rate: rate}
		if success {
			steal := int64(math.Round(float64(victim.Balance) * uniform(rng, utils.RobStealMinRate, utils.RobStealMaxRate)))
			victim.Balance -= steal
			robber.Balance += steal
			robber.Reputation -= utils.RepLossRobSuccess
			result.Amount = steal
		} else {
			fine := int64(math.Round(float64(robber.Balance) * uniform(rng, utils.RobFineMinRate, utils.RobFineMaxRate)))
			robber.Balance -= fine
			robber.Reputation -= utils.RepLossRobFail
			result.Amount = fine
		}
		result.Reputation = robber.Reputation
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Balance = robber.Balance

	if result.Success {
		recordTxn(ctx, s.store, gid, vid, rid, result.Amount, models.TxnRobbery, "", now)
	}
	return result, nil
}
