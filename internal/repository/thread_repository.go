package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"forum-service/internal/domain"
)

// ThreadRepository defines the interface for thread data access
type ThreadRepository interface {
	Create(ctx context.Context, thread *domain.Thread) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Thread, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Thread, error)
	FindAll(ctx context.Context) ([]*domain.Thread, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, thread *domain.Thread, tags []domain.Tag) error
	ToggleVote(ctx context.Context, threadID, userID uuid.UUID) (bool, int, error)
	ReconcileCounters(ctx context.Context) (int64, error)
}

// threadRepositoryImpl is the GORM implementation of ThreadRepository
type threadRepositoryImpl struct {
	db *gorm.DB
}

// NewThreadRepository creates a new instance of ThreadRepository
func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepositoryImpl{db: db}
}

// Create inserts a thread together with its thread_tags rows
func (r *threadRepositoryImpl) Create(ctx context.Context, thread *domain.Thread) error {
	return r.db.WithContext(ctx).
		Omit("Tags.*").
		Create(thread).Error
}

// FindByID finds a thread by ID with tags and voters loaded
func (r *threadRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Thread, error) {
	var thread domain.Thread
	if err := r.withRelations(ctx).Where("id = ?", id).First(&thread).Error; err != nil {
		return nil, err
	}
	return &thread, nil
}

// FindBySlug finds a thread by slug with tags and voters loaded
func (r *threadRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*domain.Thread, error) {
	var thread domain.Thread
	if err := r.withRelations(ctx).Where("slug = ?", slug).First(&thread).Error; err != nil {
		return nil, err
	}
	return &thread, nil
}

// FindAll returns every thread, newest first
func (r *threadRepositoryImpl) FindAll(ctx context.Context) ([]*domain.Thread, error) {
	var threads []*domain.Thread
	if err := r.withRelations(ctx).
		Order("created_at DESC").
		Order("id").
		Find(&threads).Error; err != nil {
		return nil, err
	}
	return threads, nil
}

// SlugExists reports whether any thread already uses slug
func (r *threadRepositoryImpl) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Thread{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update saves the editable thread columns. A non-nil tags slice replaces
// the thread's tag set.
func (r *threadRepositoryImpl) Update(ctx context.Context, thread *domain.Thread, tags []domain.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(thread).
			Select("title", "content", "type", "last_activity_at", "updated_at").
			Updates(thread).Error; err != nil {
			return err
		}
		if tags == nil {
			return nil
		}
		if err := tx.Model(thread).Omit("Tags.*").Association("Tags").Replace(tags); err != nil {
			return err
		}
		thread.Tags = tags
		return nil
	})
}

// ToggleVote adds the user's vote when absent and removes it when present,
// then stores and returns the recounted total
func (r *threadRepositoryImpl) ToggleVote(ctx context.Context, threadID, userID uuid.UUID) (bool, int, error) {
	var (
		upvoted bool
		count   int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("thread_id = ? AND user_id = ?", threadID, userID).Delete(&domain.ThreadVote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			vote := &domain.ThreadVote{ID: uuid.New(), ThreadID: threadID, UserID: userID, CreatedAt: time.Now().UTC()}
			if err := tx.Create(vote).Error; err != nil {
				return err
			}
			upvoted = true
		}

		if err := tx.Model(&domain.ThreadVote{}).Where("thread_id = ?", threadID).Count(&count).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Thread{}).Where("id = ?", threadID).UpdateColumn("upvote_count", count).Error
	})
	if err != nil {
		return false, 0, err
	}
	return upvoted, int(count), nil
}

// ReconcileCounters recomputes the denormalized comment and vote counters
// from their source tables and returns how many rows were corrected
func (r *threadRepositoryImpl) ReconcileCounters(ctx context.Context) (int64, error) {
	statements := []string{
		`UPDATE threads SET comment_count = (
			SELECT COUNT(*) FROM comments WHERE comments.thread_id = threads.id AND comments.deleted_at IS NULL
		) WHERE comment_count <> (
			SELECT COUNT(*) FROM comments WHERE comments.thread_id = threads.id AND comments.deleted_at IS NULL
		)`,
		`UPDATE threads SET upvote_count = (
			SELECT COUNT(*) FROM thread_votes WHERE thread_votes.thread_id = threads.id
		) WHERE upvote_count <> (
			SELECT COUNT(*) FROM thread_votes WHERE thread_votes.thread_id = threads.id
		)`,
		`UPDATE comments SET upvote_count = (
			SELECT COUNT(*) FROM comment_votes WHERE comment_votes.comment_id = comments.id
		) WHERE upvote_count <> (
			SELECT COUNT(*) FROM comment_votes WHERE comment_votes.comment_id = comments.id
		)`,
	}

	var repaired int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, stmt := range statements {
			res := tx.Exec(stmt)
			if res.Error != nil {
				return res.Error
			}
			repaired += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return repaired, nil
}

func (r *threadRepositoryImpl) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Preload("Votes")
}
