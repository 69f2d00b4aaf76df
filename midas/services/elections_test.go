package services

import (
	"context"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/midasbot/midas/midas/apperrors"
	"github.com/midasbot/midas/midas/database/models"
	"github.com/midasbot/midas/midas/economy/catalog"
	"github.com/midasbot/midas/midas/economy/engine"
	"github.com/midasbot/midas/midas/metrics"
	"github.com/midasbot/midas/midas/services/mock"
)

func testElections(t *testing.T, store Store, now time.Time) *ElectionService {
	t.Helper()
	s := NewElectionService(store, engine.New(catalog.NewDefault()), metrics.NewWith(prometheus.NewRegistry()))
	s.now = func() time.Time { return now }
	return s
}

func TestElectionService_Run_OpensRace(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	player := testPlayer(gid, uid, "teacher", 20_000, 100_000)

	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(player, nil)
	applyPlayer(store, gid, uid, player)
	store.EXPECT().ActiveElection(gomock.Any(), gid, "mayor", now).Return(nil, nil)

	var created *models.Election
	store.EXPECT().CreateElection(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *models.Election) error {
			created = e
			return nil
		})

	svc := testElections(t, store, now)

	result, err := svc.Run(context.Background(), testGuild, alice, "mayor")
	require.NoError(t, err)

	assert.True(t, result.Started)
	assert.Equal(t, "mayor", result.Position)

	// Upper base 7 plus five digits of wealth magnitude.
	assert.Equal(t, 12, result.Power)
	assert.Equal(t, 12, player.PoliticalPower)
	assert.Equal(t, []string{uid}, result.Candidates)
	assert.Equal(t, now.Add(48*time.Hour), result.EndTime)

	require.NotNil(t, created)
	assert.Equal(t, gid, created.GuildID)
	assert.Equal(t, "mayor", created.Position)
	assert.Equal(t, []string{uid}, created.Candidates)
	assert.NotNil(t, created.Voters)
	assert.Empty(t, created.Voters)
	assert.NotNil(t, created.Votes)
	assert.Empty(t, created.Votes)
	assert.Equal(t, now, created.StartTime)
	assert.Equal(t, now.Add(48*time.Hour), created.EndTime)
}

func TestElectionService_Run_JoinsExisting(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	player := testPlayer(gid, uid, "teacher", 20_000, 100_000)
	election := &models.Election{
		GuildID:    gid,
		Position:   "mayor",
		Candidates: []string{bob.String()},
		EndTime:    now.Add(24 * time.Hour),
	}

	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(player, nil)
	applyPlayer(store, gid, uid, player)
	store.EXPECT().ActiveElection(gomock.Any(), gid, "mayor", now).Return(election, nil)
	store.EXPECT().SaveElection(gomock.Any(), election).Return(nil)

	svc := testElections(t, store, now)

	result, err := svc.Run(context.Background(), testGuild, alice, "mayor")
	require.NoError(t, err)

	assert.False(t, result.Started)
	assert.Equal(t, []string{bob.String(), uid}, result.Candidates)
	assert.Equal(t, election.EndTime, result.EndTime)
}

func TestElectionService_Run_AlreadyOnBallot(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	player := testPlayer(gid, uid, "teacher", 20_000, 100_000)
	election := &models.Election{
		GuildID:    gid,
		Position:   "mayor",
		Candidates: []string{uid},
		EndTime:    now.Add(24 * time.Hour),
	}

	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(player, nil)
	applyPlayer(store, gid, uid, player)
	store.EXPECT().ActiveElection(gomock.Any(), gid, "mayor", now).Return(election, nil)

	svc := testElections(t, store, now)

	_, err := svc.Run(context.Background(), testGuild, alice, "mayor")
	require.EqualError(t, err, "you are already on the ballot for mayor")
	assert.True(t, apperrors.IsConflict(err))
}

func TestElectionService_Run_PowerGate(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	player := testPlayer(gid, uid, "waiter", 900, 0)

	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(player, nil)
	applyPlayer(store, gid, uid, player)

	svc := testElections(t, store, now)

	_, err := svc.Run(context.Background(), testGuild, alice, "mayor")
	require.EqualError(t, err, "mayor requires political power 10, you have 3")
}

func TestElectionService_Run_UnknownOffice(t *testing.T) {
	store := mock.NewMockStore(gomock.NewController(t))
	svc := testElections(t, store, time.Now())

	_, err := svc.Run(context.Background(), testGuild, alice, "emperor")
	require.EqualError(t, err, `no office called "emperor" exists`)
}

func TestElectionService_Vote(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	player := testPlayer(gid, uid, "teacher", 20_000, 100_000)
	election := &models.Election{
		GuildID:    gid,
		Position:   "mayor",
		Candidates: []string{bob.String(), "903"},
		Voters:     []string{"904"},
		Votes:      map[string]int{bob.String(): 4},
		EndTime:    now.Add(12 * time.Hour),
	}

	store.EXPECT().ActiveElection(gomock.Any(), gid, "mayor", now).Return(election, nil)
	store.EXPECT().Player(gomock.Any(), gomock.Any()).Return(player, nil)
	applyPlayer(store, gid, uid, player)
	store.EXPECT().SaveElection(gomock.Any(), election).Return(nil)

	svc := testElections(t, store, now)

	result, err := svc.Vote(context.Background(), testGuild, alice, "mayor", bob)
	require.NoError(t, err)

	assert.Equal(t, "mayor", result.Position)
	assert.Equal(t, bob.String(), result.Candidate)

	// Weight 12 lands on the existing 4.
	assert.Equal(t, 12, result.Weight)
	assert.Equal(t, 16, result.Tally)

	assert.Equal(t, []string{"904", uid}, election.Voters)
	assert.Equal(t, 16, election.Votes[bob.String()])
}

func TestElectionService_Vote_Twice(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid, uid := testGuild.String(), alice.String()

	election := &models.Election{
		GuildID:    gid,
		Position:   "mayor",
		Candidates: []string{bob.String()},
		Voters:     []string{uid},
		EndTime:    now.Add(12 * time.Hour),
	}
	store.EXPECT().ActiveElection(gomock.Any(), gid, "mayor", now).Return(election, nil)

	svc := testElections(t, store, now)

	_, err := svc.Vote(context.Background(), testGuild, alice, "mayor", bob)
	require.EqualError(t, err, "you already voted in this election")
	assert.True(t, apperrors.IsConflict(err))
}

func TestElectionService_Vote_NotOnBallot(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid := testGuild.String()

	election := &models.Election{
		GuildID:    gid,
		Position:   "mayor",
		Candidates: []string{bob.String()},
		EndTime:    now.Add(12 * time.Hour),
	}
	store.EXPECT().ActiveElection(gomock.Any(), gid, "mayor", now).Return(election, nil)

	svc := testElections(t, store, now)

	_, err := svc.Vote(context.Background(), testGuild, alice, "mayor", snowflake.ID(905))
	require.EqualError(t, err, "905 is not on the ballot for mayor")
}

func TestElectionService_Vote_NoRace(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))

	store.EXPECT().ActiveElection(gomock.Any(), testGuild.String(), "mayor", now).Return(nil, nil)

	svc := testElections(t, store, now)

	_, err := svc.Vote(context.Background(), testGuild, alice, "mayor", bob)
	require.EqualError(t, err, "no election is running for mayor")
}

func TestElectionService_Results(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid := testGuild.String()

	election := &models.Election{
		GuildID:    gid,
		Position:   "mayor",
		Candidates: []string{"903", "902", "901"},
		Voters:     []string{"904", "905", "906"},
		Votes:      map[string]int{"903": 9, "902": 9, "901": 2},
		EndTime:    now.Add(5 * time.Hour),
	}
	store.EXPECT().ActiveElection(gomock.Any(), gid, "mayor", now).Return(election, nil)

	svc := testElections(t, store, now)

	status, err := svc.Results(context.Background(), testGuild, "mayor")
	require.NoError(t, err)

	assert.Equal(t, "mayor", status.Position)
	assert.Equal(t, 5*time.Hour, status.Remaining)
	assert.Equal(t, 3, status.Ballots)

	// Tied at 9, the lower candidate ID leads.
	require.Len(t, status.Standings, 3)
	assert.Equal(t, Standing{Candidate: "902", Votes: 9}, status.Standings[0])
	assert.Equal(t, Standing{Candidate: "903", Votes: 9}, status.Standings[1])
	assert.Equal(t, Standing{Candidate: "901", Votes: 2}, status.Standings[2])
}

func TestElectionService_Officials(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid := testGuild.String()

	elected := now.Add(-24 * time.Hour)
	store.EXPECT().Officeholders(gomock.Any(), gid, now).Return([]*models.Election{
		{
			GuildID:  gid,
			Position: "mayor",
			WinnerID: bob.String(),
			EndTime:  elected,
			TermEnd:  elected.Add(14 * 24 * time.Hour),
		},
	}, nil)

	svc := testElections(t, store, now)

	officials, err := svc.Officials(context.Background(), testGuild)
	require.NoError(t, err)

	require.Len(t, officials, 1)
	assert.Equal(t, Official{
		Position:  "mayor",
		HolderID:  bob.String(),
		ElectedAt: elected,
		TermEnd:   elected.Add(14 * 24 * time.Hour),
	}, officials[0])
}

func TestElectionService_FinalizeExpired(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid := testGuild.String()

	contested := &models.Election{
		GuildID:    gid,
		Position:   "mayor",
		Candidates: []string{"901", "902"},
		Voters:     []string{"903", "904"},
		Votes:      map[string]int{"901": 5, "902": 5},
		EndTime:    now.Add(-time.Hour),
	}
	deserted := &models.Election{
		GuildID:    gid,
		Position:   "treasurer",
		Candidates: []string{"905"},
		Voters:     []string{},
		Votes:      map[string]int{},
		EndTime:    now.Add(-2 * time.Hour),
	}

	store.EXPECT().ExpiredElections(gomock.Any(), now).Return([]*models.Election{contested, deserted}, nil)
	store.EXPECT().SaveElection(gomock.Any(), contested).Return(nil)
	store.EXPECT().SaveElection(gomock.Any(), deserted).Return(nil)

	svc := testElections(t, store, now)

	require.NoError(t, svc.FinalizeExpired(context.Background()))

	// The 5-5 tie breaks toward the lower candidate ID.
	assert.True(t, contested.Closed)
	assert.Equal(t, "901", contested.WinnerID)
	assert.Equal(t, contested.EndTime.Add(14*24*time.Hour), contested.TermEnd)

	// Nobody voted, so the office stays vacant.
	assert.True(t, deserted.Closed)
	assert.Equal(t, "", deserted.WinnerID)
	assert.True(t, deserted.TermEnd.IsZero())
}

func TestElectionService_FinalizeExpired_SaveFailure(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := mock.NewMockStore(gomock.NewController(t))
	gid := testGuild.String()

	first := &models.Election{
		GuildID:  gid,
		Position: "mayor",
		Votes:    map[string]int{"901": 3},
		EndTime:  now.Add(-time.Hour),
	}
	second := &models.Election{
		GuildID:  gid,
		Position: "treasurer",
		Votes:    map[string]int{"902": 1},
		EndTime:  now.Add(-time.Hour),
	}

	store.EXPECT().ExpiredElections(gomock.Any(), now).Return([]*models.Election{first, second}, nil)
	store.EXPECT().SaveElection(gomock.Any(), first).Return(assert.AnError)
	store.EXPECT().SaveElection(gomock.Any(), second).Return(nil)

	svc := testElections(t, store, now)

	err := svc.FinalizeExpired(context.Background())
	require.EqualError(t, err, "1 of 2 election finalizations failed")

	// The failed row keeps its in-memory close; the sweep retries it.
	assert.Equal(t, "902", second.WinnerID)
	assert.True(t, second.Closed)
}
