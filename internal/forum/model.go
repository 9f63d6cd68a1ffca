package forum

import (
	"time"

	"github.com/google/uuid"
)

// ThreadType is the category of a thread
type ThreadType string

const (
	ThreadTypeDiscussion   ThreadType = "discussion"
	ThreadTypeResource     ThreadType = "resource"
	ThreadTypeAnnouncement ThreadType = "announcement"
)

// ThreadTypes lists every valid ThreadType
var ThreadTypes = []ThreadType{ThreadTypeDiscussion, ThreadTypeResource, ThreadTypeAnnouncement}

// Valid reports whether t is one of the three known types
func (t ThreadType) Valid() bool {
	switch t {
	case ThreadTypeDiscussion, ThreadTypeResource, ThreadTypeAnnouncement:
		return true
	}
	return false
}

// Identity is an authenticated user, also used as the author reference
type Identity struct {
	ID       uuid.UUID
	Username string
}

type Tag struct {
	ID   uuid.UUID
	Name string
	Slug string
}

type Thread struct {
	ID             uuid.UUID
	Slug           string
	Title          string
	Body           string
	Type           ThreadType
	Author         Identity
	Tags           []Tag
	CreatedAt      time.Time
	LastActivityAt time.Time
	UpvoteCount    int
	UpvotedBy      []uuid.UUID
	CommentCount   int
}

// UpvotedByUser reports whether id is among the thread's voters
func (t Thread) UpvotedByUser(id uuid.UUID) bool {
	return containsID(t.UpvotedBy, id)
}

func (t Thread) clone() Thread {
	t.Tags = append([]Tag(nil), t.Tags...)
	t.UpvotedBy = append([]uuid.UUID(nil), t.UpvotedBy...)
	return t
}

type Comment struct {
	ID          uuid.UUID
	ThreadID    uuid.UUID
	ParentID    *uuid.UUID
	Body        string
	Author      Identity
	CreatedAt   time.Time
	UpdatedAt   time.Time
	UpvoteCount int
	UpvotedBy   []uuid.UUID
}

// UpvotedByUser reports whether id is among the comment's voters
func (c Comment) UpvotedByUser(id uuid.UUID) bool {
	return containsID(c.UpvotedBy, id)
}

func (c Comment) clone() Comment {
	if c.ParentID != nil {
		parent := *c.ParentID
		c.ParentID = &parent
	}
	c.UpvotedBy = append([]uuid.UUID(nil), c.UpvotedBy...)
	return c
}

// VoteResult is the authoritative state of a target after a toggle
type VoteResult struct {
	Upvoted bool
	Count   int
}

// NewThread is the payload submitted to create a thread
type NewThread struct {
	Title  string
	Body   string
	Type   ThreadType
	TagIDs []uuid.UUID
}

// ThreadUpdate replaces the editable fields of a thread
type ThreadUpdate struct {
	Title  string
	Body   string
	Type   ThreadType
	TagIDs []uuid.UUID
}

// NewComment is the payload submitted to create a comment or reply
type NewComment struct {
	ThreadID uuid.UUID
	ParentID *uuid.UUID
	Body     string
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func withoutID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
