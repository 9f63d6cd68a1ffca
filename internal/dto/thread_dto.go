package dto

import (
	"time"

	"github.com/google/uuid"
)

// AuthorResponse identifies the author of a thread or comment
type AuthorResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// CreateThreadRequest represents the request to create a new thread
// @Description type must be one of discussion, resource or announcement
type CreateThreadRequest struct {
	Title   string      `json:"title" binding:"required,max=255"`
	Content string      `json:"content" binding:"required"`
	Type    string      `json:"type" binding:"required,oneof=discussion resource announcement"`
	TagIDs  []uuid.UUID `json:"tagIds,omitempty"`
}

// UpdateThreadRequest represents a partial thread update. Nil fields are
// left unchanged; a non-nil TagIDs replaces the tag set.
type UpdateThreadRequest struct {
	Title   *string      `json:"title,omitempty" binding:"omitempty,max=255"`
	Content *string      `json:"content,omitempty"`
	Type    *string      `json:"type,omitempty" binding:"omitempty,oneof=discussion resource announcement"`
	TagIDs  *[]uuid.UUID `json:"tagIds,omitempty"`
}

// ThreadResponse represents the thread response
type ThreadResponse struct {
	ID             uuid.UUID      `json:"id"`
	Slug           string         `json:"slug"`
	Title          string         `json:"title"`
	Content        string         `json:"content"`
	Type           string         `json:"type"`
	Author         AuthorResponse `json:"author"`
	Tags           []TagResponse  `json:"tags"`
	UpvoteCount    int            `json:"upvoteCount"`
	UpvotedBy      []uuid.UUID    `json:"upvotedBy"`
	CommentCount   int            `json:"commentCount"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	LastActivityAt time.Time      `json:"lastActivityAt"`
}

// VoteResponse is the authoritative state after an upvote toggle
type VoteResponse struct {
	Upvoted bool `json:"upvoted"`
	Count   int  `json:"count"`
}
