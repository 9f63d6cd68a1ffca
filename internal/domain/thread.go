package domain

import (
	"time"

	"github.com/google/uuid"
)

// ThreadType classifies a thread
type ThreadType string

const (
	ThreadTypeDiscussion   ThreadType = "discussion"
	ThreadTypeResource     ThreadType = "resource"
	ThreadTypeAnnouncement ThreadType = "announcement"
)

// ThreadTypes lists every accepted thread type
var ThreadTypes = []ThreadType{ThreadTypeDiscussion, ThreadTypeResource, ThreadTypeAnnouncement}

// IsValid reports whether t is one of the accepted thread types
func (t ThreadType) IsValid() bool {
	switch t {
	case ThreadTypeDiscussion, ThreadTypeResource, ThreadTypeAnnouncement:
		return true
	}
	return false
}

// Thread is a top-level forum post
type Thread struct {
	BaseModel
	Slug           string       `gorm:"type:varchar(300);not null;uniqueIndex:uq_threads_slug" json:"slug"`
	Title          string       `gorm:"type:varchar(255);not null" json:"title"`
	Content        string       `gorm:"type:text;not null" json:"content"`
	Type           ThreadType   `gorm:"type:varchar(20);not null;default:'discussion';index:idx_threads_type" json:"type"`
	AuthorID       uuid.UUID    `gorm:"type:uuid;not null;index:idx_threads_author_id" json:"author_id"`
	AuthorName     string       `gorm:"type:varchar(150);not null" json:"author_name"`
	LastActivityAt time.Time    `gorm:"not null;index:idx_threads_last_activity_at" json:"last_activity_at"`
	UpvoteCount    int          `gorm:"not null;default:0" json:"upvote_count"`
	CommentCount   int          `gorm:"not null;default:0" json:"comment_count"`
	Tags           []Tag        `gorm:"many2many:thread_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	Votes          []ThreadVote `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE" json:"-"`
	Comments       []Comment    `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Thread
func (Thread) TableName() string {
	return "threads"
}

// VoterIDs returns the identities that upvoted the thread.
// Votes must have been preloaded.
func (t *Thread) VoterIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(t.Votes))
	for _, v := range t.Votes {
		ids = append(ids, v.UserID)
	}
	return ids
}

// Touch advances LastActivityAt to at, never moving it backwards
func (t *Thread) Touch(at time.Time) {
	if at.After(t.LastActivityAt) {
		t.LastActivityAt = at
	}
}
