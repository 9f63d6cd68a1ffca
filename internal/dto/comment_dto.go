package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateCommentRequest represents the request to create a new comment.
// ParentCommentID is omitted for top-level comments.
type CreateCommentRequest struct {
	ThreadID        uuid.UUID  `json:"threadId" binding:"required"`
	Content         string     `json:"content" binding:"required"`
	ParentCommentID *uuid.UUID `json:"parentCommentId,omitempty"`
}

// UpdateCommentRequest represents the request to edit a comment body
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CommentResponse represents a comment in the flat per-thread list
type CommentResponse struct {
	ID              uuid.UUID      `json:"id"`
	ThreadID        uuid.UUID      `json:"threadId"`
	ParentCommentID *uuid.UUID     `json:"parentCommentId"`
	Content         string         `json:"content"`
	Author          AuthorResponse `json:"author"`
	UpvoteCount     int            `json:"upvoteCount"`
	UpvotedBy       []uuid.UUID    `json:"upvotedBy"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}
