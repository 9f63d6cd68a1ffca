package domain

import "github.com/google/uuid"

// Comment is a reply to a thread or to another comment of the same thread
type Comment struct {
	BaseModel
	ThreadID        uuid.UUID     `gorm:"type:uuid;not null;index:idx_comments_thread_id" json:"thread_id"`
	ParentCommentID *uuid.UUID    `gorm:"type:uuid;index:idx_comments_parent_comment_id" json:"parent_comment_id"`
	AuthorID        uuid.UUID     `gorm:"type:uuid;not null;index:idx_comments_author_id" json:"author_id"`
	AuthorName      string        `gorm:"type:varchar(150);not null" json:"author_name"`
	Content         string        `gorm:"type:text;not null" json:"content"`
	UpvoteCount     int           `gorm:"not null;default:0" json:"upvote_count"`
	Votes           []CommentVote `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}

// VoterIDs returns the identities that upvoted the comment.
// Votes must have been preloaded.
func (c *Comment) VoterIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Votes))
	for _, v := range c.Votes {
		ids = append(ids, v.UserID)
	}
	return ids
}
