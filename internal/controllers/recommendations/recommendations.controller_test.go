package recommendationsController

import (
	"context"
	"fmt"
	"testing"
	"time"

	"inkwell/internal/cache"
	. "inkwell/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakePostRepo struct {
	posts []Post
}

func (f *fakePostRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]Post, error) {
	return f.posts, nil
}

func (f *fakePostRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*Post, error) {
	for i := range f.posts {
		if f.posts[i].Slug == slug {
			return &f.posts[i], nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (f *fakePostRepo) UpsertAll(
	ctx context.Context, tx *gorm.DB, inputs []PostInput,
) (int, error) {
	return 0, nil
}

type fakeReadRepo struct {
	readSlugs    []string
	popularSlugs []string
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
	return f.readSlugs, nil
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
	return f.popularSlugs, nil
}

func (f *fakeReadRepo) ReaderCount(ctx context.Context, tx *gorm.DB) (int64, error) {
	return 0, nil
}

func catalogOf(count int) []Post {
	posts := make([]Post, 0, count)
	for i := range count {
		posts = append(posts, Post{
			Slug:  fmt.Sprintf("post-%d", i),
			Title: fmt.Sprintf("Post %d", i),
		})
	}
	return posts
}

func newTestController(
	t *testing.T,
	posts []Post,
	reads *fakeReadRepo,
) RecommendationsControllerInterface {
	t.Helper()
	memory, err := cache.NewMemory(16)
	require.NoError(t, err)
	return New(&fakePostRepo{posts: posts}, reads, memory, nil)
}

func slugSet(posts []Post) map[string]int {
	set := make(map[string]int, len(posts))
	for _, post := range posts {
		set[post.Slug]++
	}
	return set
}

func TestRecommend_RespectsLimitWithoutDuplicates(t *testing.T) {
	controller := newTestController(t, catalogOf(20), &fakeReadRepo{})

	posts, err := controller.Recommend(context.Background(), Request{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, posts, 3)

	for slug, count := range slugSet(posts) {
		assert.Equal(t, 1, count, "slug %s appears more than once", slug)
	}
}

func TestRecommend_ExcludesReadAndRequestedSlugs(t *testing.T) {
	reads := &fakeReadRepo{readSlugs: []string{"post-0", "post-1"}}
	controller := newTestController(t, catalogOf(6), reads)

	posts, err := controller.Recommend(context.Background(), Request{
		Reader:   UserReader(uuid.New()),
		Excludes: []string{"post-2"},
		Limit:    10,
	})
	require.NoError(t, err)

	set := slugSet(posts)
	assert.NotContains(t, set, "post-0")
	assert.NotContains(t, set, "post-1")
	assert.NotContains(t, set, "post-2")
	assert.Len(t, posts, 3)
}

func TestRecommend_ExcludesNonRecommendablePosts(t *testing.T) {
	posts := catalogOf(4)
	posts[0].Draft = true
	posts[1].Unlisted = true
	posts[2].Archived = true
	controller := newTestController(t, posts, &fakeReadRepo{})

	got, err := controller.Recommend(context.Background(), Request{Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "post-3", got[0].Slug)
}

func TestRecommend_NoLimitReturnsWholePool(t *testing.T) {
	controller := newTestController(t, catalogOf(7), &fakeReadRepo{})

	posts, err := controller.Recommend(context.Background(), Request{Limit: 0})
	require.NoError(t, err)
	assert.Len(t, posts, 7)
}

func TestRecommend_KeywordStrategyContributesMatches(t *testing.T) {
	posts := catalogOf(10)
	posts[4].Keywords = []string{"caching"}
	reads := &fakeReadRepo{popularSlugs: []string{"post-0", "post-1"}}
	controller := newTestController(t, posts, reads)

	// One share per strategy; the single keyword match must be in the result.
	got, err := controller.Recommend(context.Background(), Request{
		Keywords: []string{"caching"},
		Limit:    3,
	})
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Contains(t, slugSet(got), "post-4")
}

func TestRecommend_ShortPoolReturnsFewerThanLimit(t *testing.T) {
	controller := newTestController(t, catalogOf(2), &fakeReadRepo{})

	posts, err := controller.Recommend(context.Background(), Request{Limit: 5})
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}
