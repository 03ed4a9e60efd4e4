package repositories

import (
	"context"
	"errors"

	. "inkwell/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrPostNotFound = errors.New("post not found")

type PostRepository interface {
	// ListAll returns the whole catalog including drafts and archived posts;
	// callers filter by state themselves.
	ListAll(ctx context.Context, tx *gorm.DB) ([]Post, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*Post, error)
	// UpsertAll replaces catalog entries by slug, returning how many rows
	// were written. Run it inside a transaction so a half-imported catalog
	// never becomes visible.
	UpsertAll(ctx context.Context, tx *gorm.DB, inputs []PostInput) (int, error)
}

type postRepository struct {
	log logger.Logger
}

func NewPostRepository() PostRepository {
	return &postRepository{
		log: logger.New("postRepository"),
	}
}

func (r *postRepository) ListAll(ctx context.Context, tx *gorm.DB) ([]Post, error) {
	log := r.log.Function("ListAll")

	posts, err := gorm.G[Post](tx).Order("published_at DESC NULLS LAST").Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list posts", err)
	}

	return posts, nil
}

func (r *postRepository) GetBySlug(
	ctx context.Context,
	tx *gorm.DB,
	slug string,
) (*Post, error) {
	log := r.log.Function("GetBySlug")

	post, err := gorm.G[Post](tx).Where("slug = ?", slug).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, log.Err("failed to get post", err, "slug", slug)
	}

	return &post, nil
}

func (r *postRepository) UpsertAll(
	ctx context.Context,
	tx *gorm.DB,
	inputs []PostInput,
) (int, error) {
	log := r.log.Function("UpsertAll")

	if len(inputs) == 0 {
		return 0, nil
	}

	posts := make([]Post, 0, len(inputs))
	for _, input := range inputs {
		if input.Slug == "" {
			return 0, log.ErrMsg("post slug is required")
		}
		posts = append(posts, Post{
			Slug:        input.Slug,
			Title:       input.Title,
			Description: input.Description,
			Categories:  datatypes.NewJSONSlice(input.Categories),
			Keywords:    datatypes.NewJSONSlice(input.Keywords),
			Draft:       input.Draft,
			Archived:    input.Archived,
			Unlisted:    input.Unlisted,
			PublishedAt: input.PublishedAt,
		})
	}

	err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "description", "categories", "keywords",
				"draft", "archived", "unlisted", "published_at", "updated_at",
			}),
		}).
		Create(&posts).Error
	if err != nil {
		return 0, log.Err("failed to upsert posts", err, "count", len(posts))
	}

	return len(posts), nil
}
