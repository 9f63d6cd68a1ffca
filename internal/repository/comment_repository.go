package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"forum-service/internal/domain"
)

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	FindByThreadID(ctx context.Context, threadID uuid.UUID) ([]*domain.Comment, error)
	UpdateContent(ctx context.Context, comment *domain.Comment) error
	ToggleVote(ctx context.Context, commentID, userID uuid.UUID) (bool, int, error)
}

// commentRepositoryImpl is the GORM implementation of CommentRepository
type commentRepositoryImpl struct {
	db *gorm.DB
}

// NewCommentRepository creates a new instance of CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepositoryImpl{db: db}
}

// Create inserts the comment and, in the same transaction, increments the
// owning thread's comment_count and advances its last_activity_at
func (r *commentRepositoryImpl) Create(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}

		if err := tx.Model(&domain.Thread{}).
			Where("id = ?", comment.ThreadID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + ?", 1)).Error; err != nil {
			return err
		}

		return tx.Model(&domain.Thread{}).
			Where("id = ? AND last_activity_at < ?", comment.ThreadID, comment.CreatedAt).
			UpdateColumn("last_activity_at", comment.CreatedAt).Error
	})
}

// FindByID finds a comment by ID with voters loaded
func (r *commentRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var comment domain.Comment
	if err := r.db.WithContext(ctx).
		Preload("Votes").
		Where("id = ?", id).
		First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindByThreadID returns the thread's comments as a flat list, oldest first
func (r *commentRepositoryImpl) FindByThreadID(ctx context.Context, threadID uuid.UUID) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	if err := r.db.WithContext(ctx).
		Preload("Votes").
		Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Order("id").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// UpdateContent saves a new body; parent and thread never change
func (r *commentRepositoryImpl) UpdateContent(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).
		Model(comment).
		Select("content", "updated_at").
		Updates(comment).Error
}

// ToggleVote adds the user's vote when absent and removes it when present,
// then stores and returns the recounted total
func (r *commentRepositoryImpl) ToggleVote(ctx context.Context, commentID, userID uuid.UUID) (bool, int, error) {
	var (
		upvoted bool
		count   int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&domain.CommentVote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			vote := &domain.CommentVote{ID: uuid.New(), CommentID: commentID, UserID: userID, CreatedAt: time.Now().UTC()}
			if err := tx.Create(vote).Error; err != nil {
				return err
			}
			upvoted = true
		}

		if err := tx.Model(&domain.CommentVote{}).Where("comment_id = ?", commentID).Count(&count).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Comment{}).Where("id = ?", commentID).UpdateColumn("upvote_count", count).Error
	})
	if err != nil {
		return false, 0, err
	}
	return upvoted, int(count), nil
}
