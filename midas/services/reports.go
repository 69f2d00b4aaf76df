package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/midasbot/midas/midas/database/models"
	"github.com/midasbot/midas/midas/economy/catalog"
	"github.com/midasbot/midas/midas/economy/engine"
	"github.com/midasbot/midas/midas/economy/simulator"
)

// ReportService produces the read-only views of a tenant economy: the
// macro report and the leaderboards.
type ReportService struct {
	store Store
	eng   *engine.Engine

	now func() time.Time
}

func NewReportService(store Store, eng *engine.Engine) *ReportService {
	return &ReportService{store: store, eng: eng, now: time.Now}
}

// ClassCount is the population of one wealth class.
type ClassCount struct {
	Tier  catalog.Tier
	Count int
}

// JobRisk is the strike outlook for one occupied job.
type JobRisk struct {
	Job        string
	Employed   int
	StrikeRisk float64
}

// EconomyReport is the full macro picture of one tenant.
type EconomyReport struct {
	Phase                  catalog.Phase
	GDP                    float64
	GDPGrowth              float64
	InflationRate          float64
	UnemploymentRate       float64
	StructuralUnemployment float64
	Gini                   float64
	WealthConcentration    float64
	MarketVolatility       float64
	InterestRate           float64
	TaxRate                float64
	TaxRevenue             int64
	GovernmentBudget       int64
	Players                int
	Unemployed             int
	TotalWealth            int64
	Classes                []ClassCount
	Redistribution         engine.RedistributionEffect
	StrikeRisks            []JobRisk
	ActiveEvents           []string
}

// Economy builds the macro report: the persisted indicators, a live
// census of the player base, growth against the previous snapshot and
// the engine's structural estimates layered on top.
func (s *ReportService) Economy(ctx context.Context, guildID snowflake.ID) (*EconomyReport, error) {
	gid := guildID.String()
	now := s.now()

	eco, err := s.store.Economy(ctx, simulator.EconomyTemplate(s.eng.Catalog(), gid, now))
	if err != nil {
		return nil, fmt.Errorf("failed to load economy: %w", err)
	}

	players, err := s.store.PlayersByGuild(ctx, gid)
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}

	var totalWealth, topWealth int64
	unemployed := 0
	tierCounts := make(map[catalog.Tier]int)
	employment := make(map[string]int)
	unionized := make(map[string]bool)
	for _, p := range players {
		wealth := p.Wealth()
		totalWealth += wealth
		if wealth > topWealth {
			topWealth = wealth
		}
		tierCounts[s.eng.Classify(wealth).Tier]++

		if p.Job == models.JobUnemployed {
			unemployed++
			continue
		}
		employment[p.Job]++
		if p.UnionMember {
			unionized[p.Job] = true
		}
	}

	classes := make([]ClassCount, 0, len(s.eng.Catalog().Classes()))
	for _, class := range s.eng.Catalog().Classes() {
		classes = append(classes, ClassCount{Tier: class.Tier, Count: tierCounts[class.Tier]})
	}

	growth, volatility := 0.0, 0.0
	if snapshots, err := s.store.RecentSnapshots(ctx, gid, 2); err == nil && len(snapshots) > 0 {
		volatility = snapshots[0].Volatility
		if len(snapshots) == 2 {
			growth = s.eng.GDPGrowth(snapshots[0].GDP, snapshots[1].GDP)
		}
	}

	// Concentration scores the single largest holder's share of the
	// money supply on the Herfindahl scale.
	concentration := 0.0
	if totalWealth > 0 {
		concentration = s.eng.MonopolyPower(float64(topWealth) / float64(totalWealth))
	}

	st := macroState(eco)
	risks := make([]JobRisk, 0, len(employment))
	for _, job := range s.eng.Catalog().Jobs() {
		count := employment[job.Name]
		if count == 0 || job.Name == models.JobUnemployed {
			continue
		}
		strength := 1.0
		if unionized[job.Name] {
			strength = catalog.UnionStrengthFactor
		}
		risks = append(risks, JobRisk{
			Job:        job.Name,
			Employed:   count,
			StrikeRisk: s.eng.StrikeProbability(job, st, strength),
		})
	}

	events := make([]string, 0, len(eco.ActiveEvents))
	for _, event := range eco.ActiveEvents {
		if event.EndTime.After(now) {
			events = append(events, event.Name)
		}
	}

	return &EconomyReport{
		Phase:                  catalog.Phase(eco.CyclePhase),
		GDP:                    eco.GDP,
		GDPGrowth:              growth,
		InflationRate:          eco.InflationRate,
		UnemploymentRate:       eco.UnemploymentRate,
		StructuralUnemployment: s.eng.UnemploymentRate(catalog.Phase(eco.CyclePhase), employment, len(players)),
		Gini:                   eco.Gini,
		WealthConcentration:    concentration,
		MarketVolatility:       volatility,
		InterestRate:           eco.InterestRate,
		TaxRate:                eco.TaxRate,
		TaxRevenue:             eco.TaxRevenue,
		GovernmentBudget:       eco.GovernmentBudget,
		Players:                len(players),
		Unemployed:             unemployed,
		TotalWealth:            totalWealth,
		Classes:                classes,
		Redistribution:         s.eng.Redistribution(totalWealth, eco.Gini, eco.TaxRate),
		StrikeRisks:            risks,
		ActiveEvents:           events,
	}, nil
}

// LeaderboardEntry is one ranked player.
type LeaderboardEntry struct {
	Rank   int
	UserID string
	Job    string
	Value  int64
}

// Leaderboard ranks players by the named metric: wealth, bank,
// reputation, skill or crimes. Unknown metrics rank by wealth. Ties
// break by user ID so pagination is stable.
func (s *ReportService) Leaderboard(ctx context.Context, guildID snowflake.ID, metric string, limit int) ([]LeaderboardEntry, error) {
	gid := guildID.String()
	if limit <= 0 {
		limit = 10
	}

	var value func(p *models.Player) int64
	byWealth := false

	switch metric {
	case "bank":
		value = func(p *models.Player) int64 { return p.Bank }
	case "reputation":
		value = func(p *models.Player) int64 { return int64(p.Reputation) }
	case "skill":
		value = func(p *models.Player) int64 { return int64(p.Skill) }
	case "crimes":
		value = func(p *models.Player) int64 { return int64(p.Stats.CrimesCommitted) }
	default:
		value = func(p *models.Player) int64 { return p.Wealth() }
		byWealth = true
	}

	var players []*models.Player
	var err error
	if byWealth {
		players, err = s.store.TopPlayersByWealth(ctx, gid, limit)
	} else {
		players, err = s.store.PlayersByGuild(ctx, gid)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}

	sort.Slice(players, func(i, j int) bool {
		vi, vj := value(players[i]), value(players[j])
		if vi != vj {
			return vi > vj
		}
		return players[i].UserID < players[j].UserID
	})
	if len(players) > limit {
		players = players[:limit]
	}

	entries := make([]LeaderboardEntry, 0, len(players))
	for i, p := range players {
		entries = append(entries, LeaderboardEntry{
			Rank:   i + 1,
			UserID: p.UserID,
			Job:    p.Job,
			Value:  value(p),
		})
	}
	return entries, nil
}
