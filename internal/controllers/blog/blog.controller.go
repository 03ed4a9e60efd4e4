package blogController

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inkwell/config"
	"inkwell/internal/cache"
	. "inkwell/internal/models"
	"inkwell/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

const (
	totalReadsTTL = time.Minute
	totalReadsSWR = 24 * time.Hour
)

// SiteStats is the public read/reader summary.
type SiteStats struct {
	TotalReads  int64 `json:"totalReads"`
	ReaderCount int64 `json:"readerCount"`
}

type BlogControllerInterface interface {
	// Listing returns the public post catalog, drafts and unlisted posts
	// excluded.
	Listing(ctx context.Context) ([]PostListing, error)
	// TotalReads counts reads of one post, or site-wide when slug is empty.
	TotalReads(ctx context.Context, slug string) (int64, error)
	Stats(ctx context.Context) (SiteStats, error)
}

type BlogController struct {
	postRepo repositories.PostRepository
	readRepo repositories.PostReadRepository
	memory   cache.Cache
	db       *gorm.DB
	blogURL  string
	log      logger.Logger
}

func New(
	postRepo repositories.PostRepository,
	readRepo repositories.PostReadRepository,
	memory cache.Cache,
	db *gorm.DB,
	config config.Config,
) BlogControllerInterface {
	return &BlogController{
		postRepo: postRepo,
		readRepo: readRepo,
		memory:   memory,
		db:       db,
		blogURL:  strings.TrimRight(config.SiteBaseURL, "/") + "/blog",
		log:      logger.New("blogController"),
	}
}

func (c *BlogController) Listing(ctx context.Context) ([]PostListing, error) {
	log := c.log.Function("Listing")

	posts, err := c.postRepo.ListAll(ctx, c.db)
	if err != nil {
		return nil, log.Err("failed to list posts", err)
	}

	listings := make([]PostListing, 0, len(posts))
	for _, post := range posts {
		if !post.Recommendable() {
			continue
		}
		listings = append(listings, post.ToListing(c.blogURL))
	}

	return listings, nil
}

func (c *BlogController) TotalReads(ctx context.Context, slug string) (int64, error) {
	scope := "__all-posts__"
	if slug != "" {
		scope = slug
	}

	return cache.Cachified(ctx, cache.Options{
		Key:                  fmt.Sprintf("total-post-reads:%s", scope),
		Cache:                c.memory,
		TTL:                  totalReadsTTL,
		StaleWhileRevalidate: totalReadsSWR,
	}, func(ctx context.Context) (int64, error) {
		return c.readRepo.CountReads(ctx, c.db, slug)
	})
}

func (c *BlogController) Stats(ctx context.Context) (SiteStats, error) {
	log := c.log.Function("Stats")

	totalReads, err := c.TotalReads(ctx, "")
	if err != nil {
		return SiteStats{}, log.Err("failed to count total reads", err)
	}

	readerCount, err := cache.Cachified(ctx, cache.Options{
		Key:                  "reader-count",
		Cache:                c.memory,
		TTL:                  totalReadsTTL,
		StaleWhileRevalidate: totalReadsSWR,
	}, func(ctx context.Context) (int64, error) {
		return c.readRepo.ReaderCount(ctx, c.db)
	})
	if err != nil {
		return SiteStats{}, log.Err("failed to count readers", err)
	}

	return SiteStats{TotalReads: totalReads, ReaderCount: readerCount}, nil
}
