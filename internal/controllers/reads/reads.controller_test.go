package readsController

import (
	"context"
	"sync"
	"testing"
	"time"

	"inkwell/internal/events"
	. "inkwell/internal/models"
	"inkwell/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeReadRepo struct {
	mu       sync.Mutex
	recorded []string
	dedup    bool
}

func (f *fakeReadRepo) AddPostRead(
	ctx context.Context, tx *gorm.DB, slug string, reader ReaderID,
) (*PostRead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dedup {
		return nil, nil
	}
	f.recorded = append(f.recorded, slug)
	return NewPostRead(slug, reader), nil
}

func (f *fakeReadRepo) CountReads(ctx context.Context, tx *gorm.DB, slug string) (int64, error) {
	return 0, nil
}

func (f *fakeReadRepo) DistinctReadSlugs(
	ctx context.Context, tx *gorm.DB, reader ReaderID,
) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.recorded...), nil
}

func (f *fakeReadRepo) CountTeamReads(
	ctx context.Context, tx *gorm.DB, slug string, team Team,
) (int64, error) {
	return 0, nil
}

func (f *fakeReadRepo) CountRecentReads(
	ctx context.Context, tx *gorm.DB, slug string, team Team, since time.Time,
) (int64, error) {
	return 0, nil
}

func (f *fakeReadRepo) CountActiveMembers(
	ctx context.Context, tx *gorm.DB, team Team, since time.Time,
) (int64, error) {
	return 0, nil
}

func (f *fakeReadRepo) MostPopularSlugs(ctx context.Context, tx *gorm.DB) ([]string, error) {
	return nil, nil
}

func (f *fakeReadRepo) ReaderCount(ctx context.Context, tx *gorm.DB) (int64, error) {
	return 0, nil
}

type fakePostRepo struct {
	slugs map[string]bool
}

func (f *fakePostRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]Post, error) {
	return nil, nil
}

func (f *fakePostRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*Post, error) {
	if !f.slugs[slug] {
		return nil, repositories.ErrPostNotFound
	}
	return &Post{Slug: slug}, nil
}

func (f *fakePostRepo) UpsertAll(
	ctx context.Context, tx *gorm.DB, inputs []PostInput,
) (int, error) {
	return 0, nil
}

// fakeRankings serves one snapshot for cached reads and another after the
// forced recompute, which is how a leader change surfaces.
type fakeRankings struct {
	before []TeamRanking
	after  []TeamRanking
}

func (f *fakeRankings) ComputeRankings(
	ctx context.Context, slug string, forceFresh bool,
) ([]TeamRanking, error) {
	if forceFresh {
		return f.after, nil
	}
	return f.before, nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	post    int
	overall int
}

func (f *fakeNotifier) NotifyPostLeaderChange(
	ctx context.Context, slug string, prevLeader *Team, newLeader Team, reader *User,
) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.post++
}

func (f *fakeNotifier) NotifyOverallLeaderChange(
	ctx context.Context, slug string, prevLeader *Team, newLeader Team, reader *User,
) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overall++
}

func (f *fakeNotifier) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.post, f.overall
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakePublisher) Publish(channel events.Channel, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func snapshot(leader Team) []TeamRanking {
	rankings := make([]TeamRanking, 0, len(Teams))
	for _, team := range Teams {
		ranking := 0.0
		if team == leader {
			ranking = 1.0
		}
		rankings = append(rankings, TeamRanking{Team: team, Ranking: ranking})
	}
	return rankings
}

func leaderless() []TeamRanking {
	rankings := make([]TeamRanking, 0, len(Teams))
	for _, team := range Teams {
		rankings = append(rankings, TeamRanking{Team: team})
	}
	return rankings
}

type fixture struct {
	controller ReadsControllerInterface
	reads      *fakeReadRepo
	notifier   *fakeNotifier
	publisher  *fakePublisher
}

func newFixture(rankings *fakeRankings) *fixture {
	reads := &fakeReadRepo{}
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{}
	posts := &fakePostRepo{slugs: map[string]bool{"known-post": true}}

	return &fixture{
		controller: New(reads, posts, rankings, notifier, publisher, nil),
		reads:      reads,
		notifier:   notifier,
		publisher:  publisher,
	}
}

func TestMarkAsRead_InvalidInput(t *testing.T) {
	f := newFixture(&fakeRankings{before: leaderless(), after: leaderless()})
	reader := ClientReader("client-1")

	tests := []struct {
		name   string
		slug   string
		reader ReaderID
	}{
		{name: "empty slug", slug: "", reader: reader},
		{name: "zero reader", slug: "known-post", reader: ReaderID{}},
		{name: "unknown slug", slug: "missing-post", reader: reader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.controller.MarkAsRead(context.Background(), tt.slug, tt.reader, nil)
			assert.ErrorIs(t, err, ErrInvalidSlug)
		})
	}

	assert.Empty(t, f.reads.recorded, "invalid input should not record a read")
}

func TestMarkAsRead_RecordsAndPublishes(t *testing.T) {
	f := newFixture(&fakeRankings{before: leaderless(), after: leaderless()})

	err := f.controller.MarkAsRead(
		context.Background(), "known-post", ClientReader("client-1"), nil,
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"known-post"}, f.reads.recorded)
	require.Equal(t, 1, f.publisher.count())
	assert.Equal(t, events.RANKING_UPDATED, f.publisher.events[0].Type)
	assert.Equal(t, "known-post", f.publisher.events[0].Data["slug"])
}

func TestMarkAsRead_NotifiesOnLeaderChange(t *testing.T) {
	f := newFixture(&fakeRankings{before: leaderless(), after: snapshot(TeamBlue)})

	user := &User{Team: TeamBlue}
	err := f.controller.MarkAsRead(
		context.Background(), "known-post", UserReader(uuid.New()), user,
	)
	require.NoError(t, err)

	// Notifications are dispatched fire-and-forget.
	assert.Eventually(t, func() bool {
		post, overall := f.notifier.counts()
		return post == 1 && overall == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestMarkAsRead_NoNotificationWhenLeaderHolds(t *testing.T) {
	f := newFixture(&fakeRankings{before: snapshot(TeamRed), after: snapshot(TeamRed)})

	err := f.controller.MarkAsRead(
		context.Background(), "known-post", ClientReader("client-1"), nil,
	)
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	post, overall := f.notifier.counts()
	assert.Zero(t, post)
	assert.Zero(t, overall)
}

func TestMarkAsRead_DedupStillPublishes(t *testing.T) {
	f := newFixture(&fakeRankings{before: snapshot(TeamRed), after: snapshot(TeamRed)})
	f.reads.dedup = true

	err := f.controller.MarkAsRead(
		context.Background(), "known-post", ClientReader("client-1"), nil,
	)
	require.NoError(t, err)

	assert.Empty(t, f.reads.recorded)
	assert.Equal(t, 1, f.publisher.count(), "dedup reads still refresh the leaderboard")
}

func TestReadSlugs(t *testing.T) {
	f := newFixture(&fakeRankings{before: leaderless(), after: leaderless()})
	reader := ClientReader("client-1")

	require.NoError(t, f.controller.MarkAsRead(context.Background(), "known-post", reader, nil))

	slugs, err := f.controller.ReadSlugs(context.Background(), reader)
	require.NoError(t, err)
	assert.Equal(t, []string{"known-post"}, slugs)

	slugs, err = f.controller.ReadSlugs(context.Background(), ReaderID{})
	require.NoError(t, err)
	assert.Empty(t, slugs, "a zero reader has no history")
}
