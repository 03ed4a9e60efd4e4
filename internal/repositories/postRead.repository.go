package repositories

import (
	"context"
	"errors"
	"time"

	. "inkwell/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// ReadDedupWindow is the rolling window inside which repeat reads of the same
// post by the same reader are dropped instead of recorded.
const ReadDedupWindow = 7 * 24 * time.Hour

type PostReadRepository interface {
	// AddPostRead records a read event. It returns (nil, nil) when the reader
	// already read the slug inside the dedup window; that is a no-op, not an
	// error. The check and the insert are deliberately not transactional, so
	// two concurrent first reads can both land - a rare, low-impact duplicate
	// the aggregation tolerates.
	AddPostRead(ctx context.Context, tx *gorm.DB, slug string, reader ReaderID) (*PostRead, error)
	CountReads(ctx context.Context, tx *gorm.DB, slug string) (int64, error)
	DistinctReadSlugs(ctx context.Context, tx *gorm.DB, reader ReaderID) ([]string, error)
	CountTeamReads(ctx context.Context, tx *gorm.DB, slug string, team Team) (int64, error)
	CountRecentReads(
		ctx context.Context,
		tx *gorm.DB,
		slug string,
		team Team,
		since time.Time,
	) (int64, error)
	CountActiveMembers(ctx context.Context, tx *gorm.DB, team Team, since time.Time) (int64, error)
	MostPopularSlugs(ctx context.Context, tx *gorm.DB) ([]string, error)
	ReaderCount(ctx context.Context, tx *gorm.DB) (int64, error)
}

type postReadRepository struct {
	log logger.Logger
}

func NewPostReadRepository() PostReadRepository {
	return &postReadRepository{
		log: logger.New("postReadRepository"),
	}
}

// readerScope narrows a query to one reader, whichever identity column is set.
func readerScope(reader ReaderID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if userID, ok := reader.UserID(); ok {
			return db.Where("user_id = ?", userID)
		}
		if clientID, ok := reader.ClientID(); ok {
			return db.Where("client_id = ?", clientID)
		}
		return db.Where("1 = 0")
	}
}

func (r *postReadRepository) AddPostRead(
	ctx context.Context,
	tx *gorm.DB,
	slug string,
	reader ReaderID,
) (*PostRead, error) {
	log := r.log.Function("AddPostRead")

	if reader.IsZero() {
		return nil, log.ErrMsg("reader identity is required")
	}

	var existing PostRead
	err := tx.WithContext(ctx).
		Model(&PostRead{}).
		Scopes(readerScope(reader)).
		Where("post_slug = ? AND created_at > ?", slug, time.Now().Add(-ReadDedupWindow)).
		Select("id").
		Take(&existing).Error
	if err == nil {
		log.Debug("read already recorded this week", "slug", slug, "reader", reader.String())
		return nil, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, log.Err("failed to check for recent read", err, "slug", slug)
	}

	read := NewPostRead(slug, reader)
	if err := gorm.G[PostRead](tx).Create(ctx, read); err != nil {
		return nil, log.Err("failed to create post read", err, "slug", slug)
	}

	return read, nil
}

func (r *postReadRepository) CountReads(
	ctx context.Context,
	tx *gorm.DB,
	slug string,
) (int64, error) {
	log := r.log.Function("CountReads")

	query := tx.WithContext(ctx).Model(&PostRead{})
	if slug != "" {
		query = query.Where("post_slug = ?", slug)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, log.Err("failed to count reads", err, "slug", slug)
	}

	return count, nil
}

func (r *postReadRepository) DistinctReadSlugs(
	ctx context.Context,
	tx *gorm.DB,
	reader ReaderID,
) ([]string, error) {
	log := r.log.Function("DistinctReadSlugs")

	var slugs []string
	err := tx.WithContext(ctx).
		Model(&PostRead{}).
		Scopes(readerScope(reader)).
		Distinct("post_slug").
		Pluck("post_slug", &slugs).Error
	if err != nil {
		return nil, log.Err("failed to list read slugs", err, "reader", reader.String())
	}

	return slugs, nil
}

func (r *postReadRepository) CountTeamReads(
	ctx context.Context,
	tx *gorm.DB,
	slug string,
	team Team,
) (int64, error) {
	log := r.log.Function("CountTeamReads")

	query := tx.WithContext(ctx).
		Model(&PostRead{}).
		Joins("JOIN users ON users.id = post_reads.user_id").
		Where("users.team = ?", team)
	if slug != "" {
		query = query.Where("post_reads.post_slug = ?", slug)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, log.Err("failed to count team reads", err, "slug", slug, "team", team)
	}

	return count, nil
}

func (r *postReadRepository) CountRecentReads(
	ctx context.Context,
	tx *gorm.DB,
	slug string,
	team Team,
	since time.Time,
) (int64, error) {
	log := r.log.Function("CountRecentReads")

	query := tx.WithContext(ctx).
		Model(&PostRead{}).
		Joins("JOIN users ON users.id = post_reads.user_id").
		Where("users.team = ?", team).
		Where("post_reads.created_at > ?", since)
	if slug != "" {
		query = query.Where("post_reads.post_slug = ?", slug)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, log.Err("failed to count recent reads", err, "slug", slug, "team", team)
	}

	return count, nil
}

func (r *postReadRepository) CountActiveMembers(
	ctx context.Context,
	tx *gorm.DB,
	team Team,
	since time.Time,
) (int64, error) {
	log := r.log.Function("CountActiveMembers")

	var count int64
	err := tx.WithContext(ctx).
		Model(&User{}).
		Where("team = ?", team).
		Where(
			"EXISTS (SELECT 1 FROM post_reads WHERE post_reads.user_id = users.id AND post_reads.created_at > ?)",
			since,
		).
		Count(&count).Error
	if err != nil {
		return 0, log.Err("failed to count active members", err, "team", team)
	}

	return count, nil
}

func (r *postReadRepository) MostPopularSlugs(
	ctx context.Context,
	tx *gorm.DB,
) ([]string, error) {
	log := r.log.Function("MostPopularSlugs")

	var slugs []string
	err := tx.WithContext(ctx).
		Model(&PostRead{}).
		Select("post_slug").
		Group("post_slug").
		Order("COUNT(*) DESC").
		Pluck("post_slug", &slugs).Error
	if err != nil {
		return nil, log.Err("failed to rank slugs by read count", err)
	}

	return slugs, nil
}

func (r *postReadRepository) ReaderCount(ctx context.Context, tx *gorm.DB) (int64, error) {
	log := r.log.Function("ReaderCount")

	var count int64
	err := tx.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(DISTINCT user_id) FROM post_reads WHERE user_id IS NOT NULL) +
			(SELECT COUNT(DISTINCT client_id) FROM post_reads WHERE client_id IS NOT NULL)
	`).Scan(&count).Error
	if err != nil {
		return 0, log.Err("failed to count distinct readers", err)
	}

	return count, nil
}
