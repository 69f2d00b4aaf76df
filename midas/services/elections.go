package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/midasbot/midas/midas/apperrors"
	"github.com/midasbot/midas/midas/database/models"
	"github.com/midasbot/midas/midas/economy/engine"
	"github.com/midasbot/midas/midas/economy/utils"
	"github.com/midasbot/midas/midas/metrics"
)

// ElectionService runs the elected offices: campaigns, weighted votes
// and the sweep that seats winners when a race closes.
type ElectionService struct {
	store Store
	eng   *engine.Engine
	met   *metrics.Metrics

	now func() time.Time
}

func NewElectionService(store Store, eng *engine.Engine, met *metrics.Metrics) *ElectionService {
	return &ElectionService{store: store, eng: eng, met: met, now: time.Now}
}

// CampaignResult is one accepted candidacy.
type CampaignResult struct {
	Position   string
	Power      int
	Candidates []string
	EndTime    time.Time
	Started    bool
}

// Run enters the player into the race for an office, opening the race
// if none is running. Candidacy requires political power at or above
// the office's bar; the player's stored power is refreshed from wealth
// on the way in.
func (s *ElectionService) Run(ctx context.Context, guildID, userID snowflake.ID, positionName string) (result *CampaignResult, err error) {
	start := time.Now()
	defer func() { s.met.ObserveAction("campaign", start, err) }()

	gid, uid := guildID.String(), userID.String()
	now := s.now()

	position, ok := s.eng.Catalog().Position(positionName)
	if !ok {
		return nil, apperrors.NewValidation(fmt.Sprintf("no office called %q exists", positionName))
	}

	if err = ensurePlayer(ctx, s.store, s.eng.Catalog(), gid, uid); err != nil {
		return nil, err
	}

	var power int
	if _, err = s.store.UpdatePlayer(ctx, gid, uid, func(p *models.Player) error {
		class := s.eng.Classify(p.Wealth())
		power = s.eng.PoliticalInfluence(p.Wealth(), class, 0)
		p.PoliticalPower = power

		if power < position.MinPower {
			return apperrors.NewValidation(fmt.Sprintf(
				"%s requires political power %d, you have %d", position.Name, position.MinPower, power))
		}
		return nil
	}); err != nil {
		return nil, err
	}

	election, err := s.store.ActiveElection(ctx, gid, position.Name, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load election: %w", err)
	}

	if election == nil {
		election = &models.Election{
			GuildID:    gid,
			Position:   position.Name,
			Candidates: []string{uid},
			Voters:     []string{},
			Votes:      map[string]int{},
			StartTime:  now,
			EndTime:    now.Add(utils.ElectionDuration),
		}
		if err := s.store.CreateElection(ctx, election); err != nil {
			return nil, fmt.Errorf("failed to open election: %w", err)
		}
		return &CampaignResult{
			Position:   position.Name,
			Power:      power,
			Candidates: election.Candidates,
			EndTime:    election.EndTime,
			Started:    true,
		}, nil
	}

	if slices.Contains(election.Candidates, uid) {
		return nil, apperrors.NewConflict(fmt.Sprintf("you are already on the ballot for %s", position.Name))
	}
	election.Candidates = append(election.Candidates, uid)
	if err := s.store.SaveElection(ctx, election); err != nil {
		return nil, fmt.Errorf("failed to join election: %w", err)
	}

	return &CampaignResult{
		Position:   position.Name,
		Power:      power,
		Candidates: election.Candidates,
		EndTime:    election.EndTime,
	}, nil
}

// VoteResult is one counted ballot.
type VoteResult struct {
	Position  string
	Candidate string
	Weight    int
	Tally     int
}

// Vote casts a ballot weighted by the voter's political influence.
// One ballot per player per race; candidates may vote, themselves
// included.
func (s *ElectionService) Vote(ctx context.Context, guildID, userID snowflake.ID, positionName string, candidateID snowflake.ID) (result *VoteResult, err error) {
	start := time.Now()
	defer func() { s.met.ObserveAction("vote", start, err) }()

	gid, uid := guildID.String(), userID.String()
	cid := candidateID.String()
	now := s.now()

	position, ok := s.eng.Catalog().Position(positionName)
	if !ok {
		return nil, apperrors.NewValidation(fmt.Sprintf("no office called %q exists", positionName))
	}

	election, err := s.store.ActiveElection(ctx, gid, position.Name, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load election: %w", err)
	}
	if election == nil {
		return nil, apperrors.NewValidation(fmt.Sprintf("no election is running for %s", position.Name))
	}
	if slices.Contains(election.Voters, uid) {
		return nil, apperrors.NewConflict("you already voted in this election")
	}
	if !slices.Contains(election.Candidates, cid) {
		return nil, apperrors.NewValidation(fmt.Sprintf("%s is not on the ballot for %s", cid, position.Name))
	}

	if err = ensurePlayer(ctx, s.store, s.eng.Catalog(), gid, uid); err != nil {
		return nil, err
	}

	var weight int
	if _, err = s.store.UpdatePlayer(ctx, gid, uid, func(p *models.Player) error {
		class := s.eng.Classify(p.Wealth())
		weight = s.eng.PoliticalInfluence(p.Wealth(), class, 0)
		p.PoliticalPower = weight
		return nil
	}); err != nil {
		return nil, err
	}

	election.Voters = append(election.Voters, uid)
	if election.Votes == nil {
		election.Votes = map[string]int{}
	}
	election.Votes[cid] += weight
	if err := s.store.SaveElection(ctx, election); err != nil {
		return nil, fmt.Errorf("failed to record vote: %w", err)
	}

	return &VoteResult{
		Position:  position.Name,
		Candidate: cid,
		Weight:    weight,
		Tally:     election.Votes[cid],
	}, nil
}

// Standing is one candidate's position in a race.
type Standing struct {
	Candidate string
	Votes     int
}

// ElectionStatus is the live state of one race.
type ElectionStatus struct {
	Position  string
	EndTime   time.Time
	Remaining time.Duration
	Ballots   int
	Standings []Standing
}

// Results reports the current standings of an open race, highest tally
// first with ties broken by candidate ID.
func (s *ElectionService) Results(ctx context.Context, guildID snowflake.ID, positionName string) (*ElectionStatus, error) {
	gid := guildID.String()
	now := s.now()

	position, ok := s.eng.Catalog().Position(positionName)
	if !ok {
		return nil, apperrors.NewValidation(fmt.Sprintf("no office called %q exists", positionName))
	}

	election, err := s.store.ActiveElection(ctx, gid, position.Name, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load election: %w", err)
	}
	if election == nil {
		return nil, apperrors.NewValidation(fmt.Sprintf("no election is running for %s", position.Name))
	}

	standings := make([]Standing, 0, len(election.Candidates))
	for _, candidate := range election.Candidates {
		standings = append(standings, Standing{Candidate: candidate, Votes: election.Votes[candidate]})
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Votes != standings[j].Votes {
			return standings[i].Votes > standings[j].Votes
		}
		return standings[i].Candidate < standings[j].Candidate
	})

	return &ElectionStatus{
		Position:  position.Name,
		EndTime:   election.EndTime,
		Remaining: election.EndTime.Sub(now),
		Ballots:   len(election.Voters),
		Standings: standings,
	}, nil
}

// Official is one seated officeholder.
type Official struct {
	Position  string
	HolderID  string
	ElectedAt time.Time
	TermEnd   time.Time
}

// Officials lists the offices currently held in a guild.
func (s *ElectionService) Officials(ctx context.Context, guildID snowflake.ID) ([]Official, error) {
	elections, err := s.store.Officeholders(ctx, guildID.String(), s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to load officeholders: %w", err)
	}

	officials := make([]Official, 0, len(elections))
	for _, e := range elections {
		officials = append(officials, Official{
			Position:  e.Position,
			HolderID:  e.WinnerID,
			ElectedAt: e.EndTime,
			TermEnd:   e.TermEnd,
		})
	}
	return officials, nil
}

// FinalizeExpired closes every race past its end time, seating the
// candidate with the highest weighted tally. Ties break toward the
// lower candidate ID so reruns of the sweep agree. A race nobody voted
// in closes without a winner.
func (s *ElectionService) FinalizeExpired(ctx context.Context) error {
	now := s.now()
	elections, err := s.store.ExpiredElections(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to list expired elections: %w", err)
	}

	failed := 0
	for _, election := range elections {
		election.Closed = true
		election.WinnerID = electionWinner(election.Votes)
		if election.WinnerID != "" {
			if position, ok := s.eng.Catalog().Position(election.Position); ok {
				election.TermEnd = election.EndTime.Add(time.Duration(position.TermDays) * 24 * time.Hour)
			} else {
				slog.Warn("Closed election for unknown office",
					slog.String("type", "services"),
					slog.String("guild_id", election.GuildID),
					slog.String("position", election.Position))
			}
		}

		if err := s.store.SaveElection(ctx, election); err != nil {
			failed++
			slog.Error("Failed to finalize election",
				slog.String("type", "services"),
				slog.String("guild_id", election.GuildID),
				slog.String("position", election.Position),
				slog.String("error", err.Error()))
			continue
		}

		slog.Info("Election closed",
			slog.String("type", "services"),
			slog.String("guild_id", election.GuildID),
			slog.String("position", election.Position),
			slog.String("winner_id", election.WinnerID),
			slog.Int("ballots", len(election.Voters)))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d election finalizations failed", failed, len(elections))
	}
	return nil
}

// electionWinner picks the highest tally, breaking ties toward the
// lexicographically smaller candidate ID.
func electionWinner(votes map[string]int) string {
	winner := ""
	best := 0
	for candidate, tally := range votes {
		if tally <= 0 {
			continue
		}
		if tally > best || (tally == best && (winner == "" || candidate < winner)) {
			winner = candidate
			best = tally
		}
	}
	return winner
}
