package rankingsController

import (
	"context"
	"encoding/json"
	"sort"
	"testing"
	"time"

	"inkwell/internal/cache"
	. "inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type teamCounts struct {
	total  int64
	active int64
	recent int64
}

type fakeReadRepo struct {
	counts map[Team]teamCounts
	calls  int
}

func (f *fakeReadRepo) AddPostRead(
	ctx context.Context, tx *gorm.DB, slug string, reader ReaderID,
) (*PostRead, error) {
	return nil, nil
}

func (f *fakeReadRepo) CountReads(ctx context.Context, tx *gorm.DB, slug string) (int64, error) {
	return 0, nil
}

func (f *fakeReadRepo) DistinctReadSlugs(
	ctx context.Context, tx *gorm.DB, reader ReaderID,
) ([]string, error) {
	return nil, nil
}

func (f *fakeReadRepo) CountTeamReads(
	ctx context.Context, tx *gorm.DB, slug string, team Team,
) (int64, error) {
	f.calls++
	return f.counts[team].total, nil
}

func (f *fakeReadRepo) CountRecentReads(
	ctx context.Context, tx *gorm.DB, slug string, team Team, since time.Time,
) (int64, error) {
	return f.counts[team].recent, nil
}

func (f *fakeReadRepo) CountActiveMembers(
	ctx context.Context, tx *gorm.DB, team Team, since time.Time,
) (int64, error) {
	return f.counts[team].active, nil
}

func (f *fakeReadRepo) MostPopularSlugs(ctx context.Context, tx *gorm.DB) ([]string, error) {
	return nil, nil
}

func (f *fakeReadRepo) ReaderCount(ctx context.Context, tx *gorm.DB) (int64, error) {
	return 0, nil
}

func newTestController(t *testing.T, repo *fakeReadRepo) RankingsControllerInterface {
	t.Helper()
	memory, err := cache.NewMemory(16)
	require.NoError(t, err)
	return New(repo, memory, nil)
}

func rankingFor(t *testing.T, rankings []TeamRanking, team Team) TeamRanking {
	t.Helper()
	for _, r := range rankings {
		if r.Team == team {
			return r
		}
	}
	t.Fatalf("no ranking entry for team %s", team)
	return TeamRanking{}
}

func TestComputeRankings(t *testing.T) {
	repo := &fakeReadRepo{counts: map[Team]teamCounts{
		TeamRed:    {total: 5, recent: 5, active: 10},
		TeamYellow: {},
		TeamBlue:   {total: 4, recent: 4, active: 4},
	}}
	controller := newTestController(t, repo)

	rankings, err := controller.ComputeRankings(context.Background(), "", false)
	require.NoError(t, err)
	require.Len(t, rankings, 3)

	red := rankingFor(t, rankings, TeamRed)
	assert.Equal(t, int64(5), red.TotalReads)
	assert.Equal(t, 0.5, red.Ranking)
	assert.Equal(t, 0.5, red.Percent)

	yellow := rankingFor(t, rankings, TeamYellow)
	assert.Zero(t, yellow.Ranking)
	assert.Zero(t, yellow.Percent)

	blue := rankingFor(t, rankings, TeamBlue)
	assert.Equal(t, 1.0, blue.Ranking)
	assert.Equal(t, 1.0, blue.Percent)

	assert.True(t, sort.SliceIsSorted(rankings, func(i, j int) bool {
		return rankings[i].Percent > rankings[j].Percent
	}), "entries should be ordered by percent descending")
}

func TestComputeRankings_CachesSnapshot(t *testing.T) {
	repo := &fakeReadRepo{counts: map[Team]teamCounts{}}
	controller := newTestController(t, repo)

	_, err := controller.ComputeRankings(context.Background(), "some-post", false)
	require.NoError(t, err)
	firstCalls := repo.calls

	_, err = controller.ComputeRankings(context.Background(), "some-post", false)
	require.NoError(t, err)
	assert.Equal(t, firstCalls, repo.calls, "second call should be served from cache")

	_, err = controller.ComputeRankings(context.Background(), "some-post", true)
	require.NoError(t, err)
	assert.Greater(t, repo.calls, firstCalls, "forceFresh should recompute")
}

func TestNormalize_AllEqualRankings(t *testing.T) {
	rankings := normalize([]TeamRanking{
		{Team: TeamRed, Ranking: 0.25},
		{Team: TeamYellow, Ranking: 0.25},
		{Team: TeamBlue, Ranking: 0.25},
	})

	for _, r := range rankings {
		assert.Zero(t, r.Percent, "equal rankings normalize to zero percent")
	}
}

func TestNormalize_RoundsToTwoDecimals(t *testing.T) {
	rankings := normalize([]TeamRanking{
		{Team: TeamRed, Ranking: 0},
		{Team: TeamYellow, Ranking: 1},
		{Team: TeamBlue, Ranking: 2.0 / 3.0},
	})

	assert.Equal(t, 0.67, rankingFor(t, rankings, TeamBlue).Percent)
}

func TestLeader(t *testing.T) {
	tests := []struct {
		name     string
		rankings []TeamRanking
		want     *Team
	}{
		{
			name: "highest positive ranking wins",
			rankings: []TeamRanking{
				{Team: TeamRed, Ranking: 0.5},
				{Team: TeamYellow, Ranking: 0.9},
				{Team: TeamBlue, Ranking: 0.1},
			},
			want: &Teams[1],
		},
		{
			name: "no leader when nothing is positive",
			rankings: []TeamRanking{
				{Team: TeamRed},
				{Team: TeamYellow},
				{Team: TeamBlue},
			},
			want: nil,
		},
		{
			name:     "no leader for an empty snapshot",
			rankings: nil,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leader := Leader(tt.rankings)
			if tt.want == nil {
				assert.Nil(t, leader)
				return
			}
			require.NotNil(t, leader)
			assert.Equal(t, *tt.want, leader.Team)
		})
	}
}

func TestSortRankings_KeepsAllEntries(t *testing.T) {
	rankings := []TeamRanking{
		{Team: TeamRed, Percent: 0.5},
		{Team: TeamYellow, Percent: 0.5},
		{Team: TeamBlue, Percent: 1},
	}

	sortRankings(rankings)

	assert.Equal(t, TeamBlue, rankings[0].Team)
	teams := map[Team]bool{}
	for _, r := range rankings {
		teams[r.Team] = true
	}
	assert.Len(t, teams, 3)
}

func TestCheckRankings(t *testing.T) {
	valid, _ := json.Marshal([]TeamRanking{
		{Team: TeamRed}, {Team: TeamYellow}, {Team: TeamBlue},
	})
	assert.True(t, checkRankings(valid))

	assert.False(t, checkRankings(json.RawMessage(`{"not":"a slice"}`)))
	assert.False(t, checkRankings(json.RawMessage(`[]`)), "partial snapshots are rejected")

	wrongTeam, _ := json.Marshal([]TeamRanking{
		{Team: "GREEN"}, {Team: TeamYellow}, {Team: TeamBlue},
	})
	assert.False(t, checkRankings(wrongTeam))
}
