package initialize

import (
	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// Indexes backing the seven day dedup lookup and the popularity grouping.
// AutoMigrate only creates single column indexes declared on the models, so
// the composite ones live here.
var postReadIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_post_reads_user_window
		ON post_reads (user_id, post_slug, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_post_reads_client_window
		ON post_reads (client_id, post_slug, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_post_reads_slug_created
		ON post_reads (post_slug, created_at)`,
}

func InitializeTables(db *gorm.DB, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing indexes")

	for _, statement := range postReadIndexes {
		if err := db.Exec(statement).Error; err != nil {
			return log.Err("failed to create index", err)
		}
	}

	log.Info("Table initialization complete")
	return nil
}
