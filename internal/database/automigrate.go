package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"forum-service/internal/domain"
)

// modelInfo holds information about a domain model and its table name
type modelInfo struct {
	model     interface{}
	tableName string
}

// models lists the forum tables in dependency order
func models() []modelInfo {
	return []modelInfo{
		{&domain.Tag{}, "tags"},
		{&domain.Thread{}, "threads"},
		{&domain.Comment{}, "comments"},
		{&domain.ThreadVote{}, "thread_votes"},
		{&domain.CommentVote{}, "comment_votes"},
	}
}

// AutoMigrate creates or updates every forum table, including the
// thread_tags join table
func AutoMigrate(db *gorm.DB) error {
	all := models()
	values := make([]interface{}, 0, len(all))
	for _, m := range all {
		values = append(values, m.model)
	}

	if err := db.AutoMigrate(values...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}
	return nil
}

// SafeAutoMigrate migrates table by table, logging whether each table was
// created or updated, and stops at the first failure
func SafeAutoMigrate(db *gorm.DB, logger *zap.Logger) error {
	migrator := db.Migrator()
	all := models()

	logger.Info("Starting safe auto-migration", zap.Int("total_models", len(all)))

	for _, m := range all {
		existed := migrator.HasTable(m.model)

		if err := db.AutoMigrate(m.model); err != nil {
			logger.Error("Failed to migrate table",
				zap.String("table", m.tableName),
				zap.Bool("table_existed", existed),
				zap.Error(err),
			)
			return fmt.Errorf("failed to migrate table %s: %w", m.tableName, err)
		}

		logger.Info("Migrated table",
			zap.String("table", m.tableName),
			zap.Bool("was_existing", existed),
		)
	}

	logger.Info("Safe auto-migration completed", zap.Int("tables_migrated", len(all)))
	return nil
}
