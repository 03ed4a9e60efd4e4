package readsController

import (
	"context"
	"errors"
	"sync"
	"time"

	rankingsController "inkwell/internal/controllers/rankings"
	"inkwell/internal/events"
	. "inkwell/internal/models"
	"inkwell/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

var ErrInvalidSlug = errors.New("invalid slug")

const notifyTimeout = 15 * time.Second

// Publisher is the slice of the event bus this controller needs.
type Publisher interface {
	Publish(channel events.Channel, event events.Event) error
}

// Notifier announces leader changes. Satisfied by services.NotifierService.
type Notifier interface {
	NotifyPostLeaderChange(ctx context.Context, slug string, prevLeader *Team, newLeader Team, reader *User)
	NotifyOverallLeaderChange(ctx context.Context, slug string, prevLeader *Team, newLeader Team, reader *User)
}

type ReadsControllerInterface interface {
	// MarkAsRead records one read event and runs the full follow-up:
	// forced-fresh ranking recomputes for the post and the site, leader-diff
	// notifications, and a leaderboard event for live clients.
	MarkAsRead(ctx context.Context, slug string, reader ReaderID, user *User) error
	ReadSlugs(ctx context.Context, reader ReaderID) ([]string, error)
}

type ReadsController struct {
	readRepo repositories.PostReadRepository
	postRepo repositories.PostRepository
	rankings rankingsController.RankingsControllerInterface
	notifier Notifier
	eventBus Publisher
	db       *gorm.DB
	log      logger.Logger
}

func New(
	readRepo repositories.PostReadRepository,
	postRepo repositories.PostRepository,
	rankings rankingsController.RankingsControllerInterface,
	notifier Notifier,
	eventBus Publisher,
	db *gorm.DB,
) ReadsControllerInterface {
	return &ReadsController{
		readRepo: readRepo,
		postRepo: postRepo,
		rankings: rankings,
		notifier: notifier,
		eventBus: eventBus,
		db:       db,
		log:      logger.New("readsController"),
	}
}

func (c *ReadsController) MarkAsRead(
	ctx context.Context,
	slug string,
	reader ReaderID,
	user *User,
) error {
	log := c.log.Function("MarkAsRead")

	if slug == "" {
		return ErrInvalidSlug
	}
	if reader.IsZero() {
		return ErrInvalidSlug
	}
	if _, err := c.postRepo.GetBySlug(ctx, c.db, slug); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return ErrInvalidSlug
		}
		return log.Err("failed to look up post", err, "slug", slug)
	}

	beforePost, beforeSite := c.snapshotLeaders(ctx, slug, false)

	read, err := c.readRepo.AddPostRead(ctx, c.db, slug, reader)
	if err != nil {
		return log.Err("failed to record read", err, "slug", slug)
	}
	if read == nil {
		log.Debug("read deduplicated", "slug", slug, "reader", reader.String())
	}

	// Recompute both scopes regardless of dedup so the caches stay warm and
	// a racing first read still resolves to the right leader.
	afterPost, afterSite := c.snapshotLeaders(ctx, slug, true)

	if afterPost != nil && (beforePost == nil || beforePost.Team != afterPost.Team) {
		var prev *Team
		if beforePost != nil {
			prev = &beforePost.Team
		}
		go c.withNotifyContext(func(ctx context.Context) {
			c.notifier.NotifyPostLeaderChange(ctx, slug, prev, afterPost.Team, user)
		})
	}

	if afterSite != nil && (beforeSite == nil || beforeSite.Team != afterSite.Team) {
		var prev *Team
		if beforeSite != nil {
			prev = &beforeSite.Team
		}
		go c.withNotifyContext(func(ctx context.Context) {
			c.notifier.NotifyOverallLeaderChange(ctx, slug, prev, afterSite.Team, user)
		})
	}

	c.publishRankingUpdate(slug)

	return nil
}

func (c *ReadsController) ReadSlugs(ctx context.Context, reader ReaderID) ([]string, error) {
	if reader.IsZero() {
		return []string{}, nil
	}
	return c.readRepo.DistinctReadSlugs(ctx, c.db, reader)
}

// snapshotLeaders resolves the post-scope and site-scope leaders in parallel.
// Ranking failures degrade to a nil leader rather than failing the read: the
// reader should never see an error because a leaderboard could not be
// computed.
func (c *ReadsController) snapshotLeaders(
	ctx context.Context,
	slug string,
	forceFresh bool,
) (postLeader, siteLeader *TeamRanking) {
	log := c.log.Function("snapshotLeaders")

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		rankings, err := c.rankings.ComputeRankings(ctx, slug, forceFresh)
		if err != nil {
			log.Warn("failed to compute post rankings", "slug", slug, "error", err)
			return
		}
		postLeader = rankingsController.Leader(rankings)
	}()

	go func() {
		defer wg.Done()
		rankings, err := c.rankings.ComputeRankings(ctx, "", forceFresh)
		if err != nil {
			log.Warn("failed to compute site rankings", "error", err)
			return
		}
		siteLeader = rankingsController.Leader(rankings)
	}()

	wg.Wait()
	return postLeader, siteLeader
}

// withNotifyContext detaches notification dispatch from the request context
// so delivery is not cancelled when the response goes out.
func (c *ReadsController) withNotifyContext(fn func(ctx context.Context)) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	fn(ctx)
}

func (c *ReadsController) publishRankingUpdate(slug string) {
	log := c.log.Function("publishRankingUpdate")

	err := c.eventBus.Publish(events.LEADERBOARD_CHANNEL, events.Event{
		Type: events.RANKING_UPDATED,
		Data: map[string]any{"slug": slug},
	})
	if err != nil {
		log.Warn("failed to publish ranking update", "slug", slug, "error", err)
	}
}
