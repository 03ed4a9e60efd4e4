package rankingsController

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"inkwell/internal/cache"
	. "inkwell/internal/models"
	"inkwell/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	// Site-wide rankings move with every read, so they expire quickly;
	// per-post rankings barely move and can live a week. Both serve stale
	// for a day while revalidating.
	siteRankingsTTL = time.Hour
	postRankingsTTL = 7 * 24 * time.Hour
	rankingsSWR     = 24 * time.Hour
)

type RankingsControllerInterface interface {
	// ComputeRankings returns the ranking snapshot for one post scope: a
	// specific slug, or site-wide when slug is empty. Entries are sorted by
	// percent descending; equal-percent runs are shuffled so ties carry no
	// implied order.
	ComputeRankings(ctx context.Context, slug string, forceFresh bool) ([]TeamRanking, error)
}

type RankingsController struct {
	readRepo repositories.PostReadRepository
	cache    cache.Cache
	db       *gorm.DB
	log      logger.Logger
}

func New(
	readRepo repositories.PostReadRepository,
	rankingsCache cache.Cache,
	db *gorm.DB,
) RankingsControllerInterface {
	return &RankingsController{
		readRepo: readRepo,
		cache:    rankingsCache,
		db:       db,
		log:      logger.New("rankingsController"),
	}
}

func rankingsCacheKey(slug string) string {
	if slug == "" {
		return "blog:rankings"
	}
	return fmt.Sprintf("blog:%s:rankings", slug)
}

func (c *RankingsController) ComputeRankings(
	ctx context.Context,
	slug string,
	forceFresh bool,
) ([]TeamRanking, error) {
	ttl := siteRankingsTTL
	if slug != "" {
		ttl = postRankingsTTL
	}

	rankings, err := cache.Cachified(ctx, cache.Options{
		Key:                  rankingsCacheKey(slug),
		Cache:                c.cache,
		TTL:                  ttl,
		StaleWhileRevalidate: rankingsSWR,
		ForceFresh:           forceFresh,
		CheckValue:           checkRankings,
	}, func(ctx context.Context) ([]TeamRanking, error) {
		return c.computeFresh(ctx, slug)
	})
	if err != nil {
		return nil, err
	}

	sortRankings(rankings)
	return rankings, nil
}

func (c *RankingsController) computeFresh(
	ctx context.Context,
	slug string,
) ([]TeamRanking, error) {
	log := c.log.Function("computeFresh")

	now := time.Now()
	activeSince := now.AddDate(-1, 0, 0)
	recentSince := now.AddDate(0, -6, 0)
	tx := c.db

	rankings := make([]TeamRanking, 0, len(Teams))
	for _, team := range Teams {
		totalReads, err := c.readRepo.CountTeamReads(ctx, tx, slug, team)
		if err != nil {
			return nil, log.Err("failed to count team reads", err, "team", team, "slug", slug)
		}

		activeMembers, err := c.readRepo.CountActiveMembers(ctx, tx, team, activeSince)
		if err != nil {
			return nil, log.Err("failed to count active members", err, "team", team)
		}

		recentReads, err := c.readRepo.CountRecentReads(ctx, tx, slug, team, recentSince)
		if err != nil {
			return nil, log.Err("failed to count recent reads", err, "team", team, "slug", slug)
		}

		ranking := 0.0
		if activeMembers > 0 {
			ranking = decimal.NewFromInt(recentReads).
				DivRound(decimal.NewFromInt(activeMembers), 4).
				InexactFloat64()
		}

		rankings = append(rankings, TeamRanking{
			Team:       team,
			TotalReads: totalReads,
			Ranking:    ranking,
		})
	}

	return normalize(rankings), nil
}

// normalize derives each entry's percent via min-max normalization of the raw
// rankings, rounded to 2 decimals. When every team has the same ranking the
// denominator floors at 1, so every percent comes out 0.
func normalize(rankings []TeamRanking) []TeamRanking {
	if len(rankings) == 0 {
		return rankings
	}

	minRanking, maxRanking := rankings[0].Ranking, rankings[0].Ranking
	for _, r := range rankings[1:] {
		if r.Ranking < minRanking {
			minRanking = r.Ranking
		}
		if r.Ranking > maxRanking {
			maxRanking = r.Ranking
		}
	}

	denominator := maxRanking - minRanking
	if denominator == 0 {
		denominator = 1
	}

	for i := range rankings {
		rankings[i].Percent = decimal.NewFromFloat(rankings[i].Ranking - minRanking).
			DivRound(decimal.NewFromFloat(denominator), 2).
			InexactFloat64()
	}

	return rankings
}

// sortRankings orders entries by percent descending, then shuffles each run
// of equal percents. Ties get a fair random order without putting randomness
// inside the comparator, which would break sort's contract.
func sortRankings(rankings []TeamRanking) {
	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].Percent > rankings[j].Percent
	})

	start := 0
	for i := 1; i <= len(rankings); i++ {
		if i == len(rankings) || rankings[i].Percent != rankings[start].Percent {
			group := rankings[start:i]
			rand.Shuffle(len(group), func(a, b int) {
				group[a], group[b] = group[b], group[a]
			})
			start = i
		}
	}
}

// Leader returns the entry with the strictly highest positive ranking, or nil
// when no team has a positive ranking.
func Leader(rankings []TeamRanking) *TeamRanking {
	var leader *TeamRanking
	for i := range rankings {
		rank := &rankings[i]
		if rank.Ranking <= 0 {
			continue
		}
		if leader == nil || rank.Ranking > leader.Ranking {
			leader = rank
		}
	}
	return leader
}

func checkRankings(raw json.RawMessage) bool {
	var rankings []TeamRanking
	if err := json.Unmarshal(raw, &rankings); err != nil {
		return false
	}
	if len(rankings) != len(Teams) {
		return false
	}
	for _, r := range rankings {
		if !r.Team.IsValid() {
			return false
		}
	}
	return true
}
