package domain

import (
	"time"

	"github.com/google/uuid"
)

// ThreadVote records one identity's upvote on a thread
type ThreadVote struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ThreadID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_thread_votes_thread_user" json:"thread_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_thread_votes_thread_user;index:idx_thread_votes_user_id" json:"user_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// TableName specifies the table name for ThreadVote
func (ThreadVote) TableName() string {
	return "thread_votes"
}

// CommentVote records one identity's upvote on a comment
type CommentVote struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CommentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_comment_votes_comment_user" json:"comment_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_comment_votes_comment_user;index:idx_comment_votes_user_id" json:"user_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// TableName specifies the table name for CommentVote
func (CommentVote) TableName() string {
	return "comment_votes"
}
