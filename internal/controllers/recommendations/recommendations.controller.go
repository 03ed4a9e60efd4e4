package recommendationsController

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"inkwell/internal/cache"
	. "inkwell/internal/models"
	"inkwell/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

const (
	catalogCacheKey = "blog:post-catalog"
	catalogTTL      = 10 * time.Minute
	catalogSWR      = 24 * time.Hour

	popularCacheKey = "sorted-most-popular-post-slugs"
	popularTTL      = 30 * time.Minute
	popularSWR      = 24 * time.Hour

	// Each strategy fetches 4x its share so the final pick has some
	// randomness instead of always surfacing the same posts.
	overfetchFactor = 4
)

// Request holds the inputs to one recommendation computation.
type Request struct {
	// Reader excludes already-read posts; zero value means nothing is
	// excluded on their behalf.
	Reader   ReaderID
	Keywords []string
	Excludes []string
	// Limit caps the result size. Zero or negative returns the whole
	// candidate pool in random order.
	Limit int
}

type RecommendationsControllerInterface interface {
	Recommend(ctx context.Context, req Request) ([]Post, error)
}

type RecommendationsController struct {
	postRepo repositories.PostRepository
	readRepo repositories.PostReadRepository
	memory   cache.Cache
	db       *gorm.DB
	log      logger.Logger
}

func New(
	postRepo repositories.PostRepository,
	readRepo repositories.PostReadRepository,
	memory cache.Cache,
	db *gorm.DB,
) RecommendationsControllerInterface {
	return &RecommendationsController{
		postRepo: postRepo,
		readRepo: readRepo,
		memory:   memory,
		db:       db,
		log:      logger.New("recommendationsController"),
	}
}

// Recommend selects up to req.Limit posts the reader has not seen, splitting
// the budget across keyword relevance, popularity, and random fill. Output
// order is shuffled; it carries no ranking signal.
func (c *RecommendationsController) Recommend(
	ctx context.Context,
	req Request,
) ([]Post, error) {
	log := c.log.Function("Recommend")

	allPosts, err := c.catalog(ctx)
	if err != nil {
		return nil, log.Err("failed to load post catalog", err)
	}

	exclude := make(map[string]struct{}, len(req.Excludes))
	for _, slug := range req.Excludes {
		if slug != "" {
			exclude[slug] = struct{}{}
		}
	}
	for _, post := range allPosts {
		if !post.Recommendable() {
			exclude[post.Slug] = struct{}{}
		}
	}

	if !req.Reader.IsZero() {
		readSlugs, err := c.readRepo.DistinctReadSlugs(ctx, c.db, req.Reader)
		if err != nil {
			return nil, log.Err("failed to load read slugs", err, "reader", req.Reader.String())
		}
		for _, slug := range readSlugs {
			exclude[slug] = struct{}{}
		}
	}

	candidates := make([]Post, 0, len(allPosts))
	for _, post := range allPosts {
		if _, excluded := exclude[post.Slug]; !excluded {
			candidates = append(candidates, post)
		}
	}

	if req.Limit <= 0 {
		return shufflePosts(candidates), nil
	}

	groups := 2
	if len(req.Keywords) > 0 {
		groups = 3
	}
	share := req.Limit / groups
	if share == 0 {
		share = 1
	}

	recommendations := make([]Post, 0, req.Limit)

	// 1. keyword relevance, only when keywords were given
	if len(req.Keywords) > 0 {
		best := c.bestMatches(candidates, req.Keywords, share)
		for _, post := range best {
			exclude[post.Slug] = struct{}{}
		}
		recommendations = append(recommendations, best...)
	}

	// 2. most popular
	popular, err := c.mostPopular(ctx, candidates, exclude, share)
	if err != nil {
		// Popularity is cached aggregation; degrade to the other strategies
		// rather than failing the whole request.
		log.Warn("failed to rank popular posts", "error", err)
	}
	for _, post := range popular {
		exclude[post.Slug] = struct{}{}
	}
	recommendations = append(recommendations, popular...)

	// 3. random fill for whatever budget remains
	if len(recommendations) < req.Limit {
		remaining := make([]Post, 0, len(candidates))
		for _, post := range candidates {
			if _, excluded := exclude[post.Slug]; !excluded {
				remaining = append(remaining, post)
			}
		}
		remaining = shufflePosts(remaining)
		need := req.Limit - len(recommendations)
		if need > len(remaining) {
			need = len(remaining)
		}
		recommendations = append(recommendations, remaining[:need]...)
	}

	if len(recommendations) > req.Limit {
		recommendations = recommendations[:req.Limit]
	}

	return shufflePosts(recommendations), nil
}

// bestMatches unions the keyword matches in match order, overfetches, and
// samples the share randomly from the top matches.
func (c *RecommendationsController) bestMatches(
	candidates []Post,
	keywords []string,
	share int,
) []Post {
	seen := make(map[string]struct{})
	matched := make([]Post, 0, len(candidates))
	for _, keyword := range keywords {
		for _, post := range FilterPosts(candidates, keyword) {
			if _, dup := seen[post.Slug]; dup {
				continue
			}
			seen[post.Slug] = struct{}{}
			matched = append(matched, post)
		}
	}

	top := share * overfetchFactor
	if top > len(matched) {
		top = len(matched)
	}
	sample := shufflePosts(matched[:top])
	if share > len(sample) {
		share = len(sample)
	}
	return sample[:share]
}

func (c *RecommendationsController) mostPopular(
	ctx context.Context,
	candidates []Post,
	exclude map[string]struct{},
	share int,
) ([]Post, error) {
	slugs, err := cache.Cachified(ctx, cache.Options{
		Key:                  popularCacheKey,
		Cache:                c.memory,
		TTL:                  popularTTL,
		StaleWhileRevalidate: popularSWR,
		CheckValue:           checkStringSlice,
	}, func(ctx context.Context) ([]string, error) {
		return c.readRepo.MostPopularSlugs(ctx, c.db)
	})
	if err != nil {
		return nil, err
	}

	// Exclusion and the share cut happen here rather than in the query so
	// the expensive group-by stays cacheable for every caller.
	bySlug := make(map[string]Post, len(candidates))
	for _, post := range candidates {
		bySlug[post.Slug] = post
	}

	top := make([]Post, 0, share*overfetchFactor)
	for _, slug := range slugs {
		if _, excluded := exclude[slug]; excluded {
			continue
		}
		post, ok := bySlug[slug]
		if !ok {
			continue
		}
		top = append(top, post)
		if len(top) >= share*overfetchFactor {
			break
		}
	}

	sample := shufflePosts(top)
	if share > len(sample) {
		share = len(sample)
	}
	return sample[:share], nil
}

func (c *RecommendationsController) catalog(ctx context.Context) ([]Post, error) {
	return cache.Cachified(ctx, cache.Options{
		Key:                  catalogCacheKey,
		Cache:                c.memory,
		TTL:                  catalogTTL,
		StaleWhileRevalidate: catalogSWR,
	}, func(ctx context.Context) ([]Post, error) {
		return c.postRepo.ListAll(ctx, c.db)
	})
}

func shufflePosts(posts []Post) []Post {
	shuffled := make([]Post, len(posts))
	copy(shuffled, posts)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

func checkStringSlice(raw json.RawMessage) bool {
	var slugs []string
	return json.Unmarshal(raw, &slugs) == nil
}
