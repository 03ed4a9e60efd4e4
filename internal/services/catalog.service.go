package services

import (
	"context"

	"inkwell/internal/cache"
	. "inkwell/internal/models"
	"inkwell/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

const catalogCacheKey = "blog:post-catalog"

// CatalogService imports the post catalog in bulk. The content pipeline that
// produces the entries lives outside this service; it just hands us the
// final listing.
type CatalogService struct {
	postRepo    repositories.PostRepository
	transaction *TransactionService
	memory      cache.Cache
	log         logger.Logger
}

func NewCatalogService(
	postRepo repositories.PostRepository,
	transaction *TransactionService,
	memory cache.Cache,
) *CatalogService {
	return &CatalogService{
		postRepo:    postRepo,
		transaction: transaction,
		memory:      memory,
		log:         logger.New("catalogService"),
	}
}

// ImportPosts upserts the given catalog entries in one transaction and drops
// the cached catalog so the next read sees the new entries.
func (s *CatalogService) ImportPosts(ctx context.Context, inputs []PostInput) (int, error) {
	log := s.log.Function("ImportPosts")

	var count int
	err := s.transaction.Execute(ctx, func(txCtx context.Context, tx *gorm.DB) error {
		var err error
		count, err = s.postRepo.UpsertAll(txCtx, tx, inputs)
		return err
	})
	if err != nil {
		return 0, log.Err("failed to import posts", err, "count", len(inputs))
	}

	if err := s.memory.Delete(ctx, catalogCacheKey); err != nil {
		log.Warn("failed to invalidate catalog cache", "error", err)
	}

	log.Info("imported posts", "count", count)
	return count, nil
}
