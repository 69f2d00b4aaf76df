package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/midasbot/midas/midas/apperrors"
	"github.com/midasbot/midas/midas/database/models"
	"github.com/midasbot/midas/midas/economy/engine"
	"github.com/midasbot/midas/midas/economy/simulator"
	"github.com/midasbot/midas/midas/metrics"
)

// JobService manages employment: browsing the job board, taking a job
// and resigning from one.
type JobService struct {
	store Store
	eng   *engine.Engine
	met   *metrics.Metrics

	now func() time.Time
}

func NewJobService(store Store, eng *engine.Engine, met *metrics.Metrics) *JobService {
	return &JobService{store: store, eng: eng, met: met, now: time.Now}
}

// JobListing is one opening on the board. Wage is the current estimate
// for a worker at exactly the required skill, so listings stay
// comparable regardless of who is browsing.
type JobListing struct {
	Name          string
	BaseSalary    int64
	SkillRequired int
	Wage          int64
	Employed      int
	Qualified     bool
}

// List returns the board sorted by base salary, cheapest first, with
// wages quoted against the tenant's live macro state.
func (s *JobService) List(ctx context.Context, guildID, userID snowflake.ID) ([]JobListing, error) {
	gid, uid := guildID.String(), userID.String()
	now := s.now()

	eco, err := s.store.Economy(ctx, simulator.EconomyTemplate(s.eng.Catalog(), gid, now))
	if err != nil {
		return nil, fmt.Errorf("failed to load economy: %w", err)
	}
	st := macroState(eco)

	player, err := s.store.Player(ctx, playerTemplate(s.eng.Catalog(), gid, uid))
	if err != nil {
		return nil, fmt.Errorf("failed to load player: %w", err)
	}

	jobs := s.eng.Catalog().Jobs()
	listings := make([]JobListing, 0, len(jobs))
	for _, job := range jobs {
		if job.Name == models.JobUnemployed {
			continue
		}
		listings = append(listings, JobListing{
			Name:          job.Name,
			BaseSalary:    job.BaseSalary,
			SkillRequired: job.SkillRequired,
			Wage:          s.eng.Wage(job, job.SkillRequired, st),
			Employed:      eco.JobMarket[job.Name].Employed,
			Qualified:     player.Skill >= job.SkillRequired,
		})
	}
	return listings, nil
}

// HireResult is one settled job change.
type HireResult struct {
	Job      string
	Previous string
	Skill    int
	Balance  int64
}

// Apply puts the player into the named job. Taking a job resets
// experience; seniority belongs to a position, not a person.
func (s *JobService) Apply(ctx context.Context, guildID, userID snowflake.ID, jobName string) (result *HireResult, err error) {
	start := time.Now()
	defer func() { s.met.ObserveAction("apply", start, err) }()

	gid, uid := guildID.String(), userID.String()
	now := s.now()

	job, ok := s.eng.Catalog().ResolveJob(jobName)
	if !ok || job.Name == models.JobUnemployed {
		return nil, apperrors.NewValidation(fmt.Sprintf("no job called %q is hiring", jobName))
	}

	if err = ensurePlayer(ctx, s.store, s.eng.Catalog(), gid, uid); err != nil {
		return nil, err
	}

	var previous string
	player, err := s.store.UpdatePlayer(ctx, gid, uid, func(p *models.Player) error {
		if p.Job == job.Name {
			return apperrors.NewConflict(fmt.Sprintf("you already work as a %s", job.Name))
		}
		if p.Skill < job.SkillRequired {
			return apperrors.NewValidation(fmt.Sprintf(
				"%s requires skill %d, you have %d", job.Name, job.SkillRequired, p.Skill))
		}

		previous = p.Job
		p.Job = job.Name
		p.Experience = 0
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.shiftEmployment(ctx, gid, previous, job.Name, now)

	return &HireResult{
		Job:      job.Name,
		Previous: previous,
		Skill:    player.Skill,
		Balance:  player.Balance,
	}, nil
}

// Resign puts the player back on the unemployment rolls. Experience is
// kept; it only resets when a new job starts.
func (s *JobService) Resign(ctx context.Context, guildID, userID snowflake.ID) (result *HireResult, err error) {
	start := time.Now()
	defer func() { s.met.ObserveAction("resign", start, err) }()

	gid, uid := guildID.String(), userID.String()
	now := s.now()

	if err = ensurePlayer(ctx, s.store, s.eng.Catalog(), gid, uid); err != nil {
		return nil, err
	}

	var previous string
	player, err := s.store.UpdatePlayer(ctx, gid, uid, func(p *models.Player) error {
		if p.Job == models.JobUnemployed {
			return apperrors.NewValidation("you are not employed")
		}
		previous = p.Job
		p.Job = models.JobUnemployed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.shiftEmployment(ctx, gid, previous, models.JobUnemployed, now)

	return &HireResult{
		Job:      models.JobUnemployed,
		Previous: previous,
		Skill:    player.Skill,
		Balance:  player.Balance,
	}, nil
}

// shiftEmployment moves one worker between job market columns. Failures
// are logged and dropped: the next tick rebuilds these counts from the
// player census anyway.
func (s *JobService) shiftEmployment(ctx context.Context, gid, from, to string, now time.Time) {
	eco, err := s.store.Economy(ctx, simulator.EconomyTemplate(s.eng.Catalog(), gid, now))
	if err == nil {
		if eco.JobMarket == nil {
			eco.JobMarket = make(map[string]models.JobMarketEntry)
		}
		for _, name := range []string{from, to} {
			if name == models.JobUnemployed {
				continue
			}
			if _, ok := eco.JobMarket[name]; !ok {
				eco.JobMarket[name] = models.JobMarketEntry{WageMultiplier: 1.0}
			}
		}
		if from != models.JobUnemployed {
			entry := eco.JobMarket[from]
			entry.Employed = max(entry.Employed-1, 0)
			eco.JobMarket[from] = entry
		}
		if to != models.JobUnemployed {
			entry := eco.JobMarket[to]
			entry.Employed++
			eco.JobMarket[to] = entry
		}
		err = s.store.SaveEconomy(ctx, eco)
	}
	if err != nil {
		slog.Warn("Failed to update job market counts",
			slog.String("type", "services"),
			slog.String("guild_id", gid),
			slog.String("error", err.Error()))
	}
}
