package service

import (
	"github.com/google/uuid"

	"forum-service/internal/domain"
	"forum-service/internal/dto"
)

func toTagResponse(tag *domain.Tag) dto.TagResponse {
	return dto.TagResponse{ID: tag.ID, Name: tag.Name, Slug: tag.Slug}
}

func toThreadResponse(thread *domain.Thread) dto.ThreadResponse {
	tags := make([]dto.TagResponse, 0, len(thread.Tags))
	for i := range thread.Tags {
		tags = append(tags, toTagResponse(&thread.Tags[i]))
	}

	return dto.ThreadResponse{
		ID:             thread.ID,
		Slug:           thread.Slug,
		Title:          thread.Title,
		Content:        thread.Content,
		Type:           string(thread.Type),
		Author:         dto.AuthorResponse{ID: thread.AuthorID, Username: thread.AuthorName},
		Tags:           tags,
		UpvoteCount:    thread.UpvoteCount,
		UpvotedBy:      thread.VoterIDs(),
		CommentCount:   thread.CommentCount,
		CreatedAt:      thread.CreatedAt,
		UpdatedAt:      thread.UpdatedAt,
		LastActivityAt: thread.LastActivityAt,
	}
}

func toCommentResponse(comment *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:              comment.ID,
		ThreadID:        comment.ThreadID,
		ParentCommentID: comment.ParentCommentID,
		Content:         comment.Content,
		Author:          dto.AuthorResponse{ID: comment.AuthorID, Username: comment.AuthorName},
		UpvoteCount:     comment.UpvoteCount,
		UpvotedBy:       comment.VoterIDs(),
		CreatedAt:       comment.CreatedAt,
		UpdatedAt:       comment.UpdatedAt,
	}
}

// removeDuplicateUUIDs keeps the first occurrence of each ID
func removeDuplicateUUIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	result := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
