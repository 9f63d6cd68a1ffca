package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"forum-service/internal/cache"
	"forum-service/internal/domain"
	"forum-service/internal/dto"
	"forum-service/internal/metrics"
	"forum-service/internal/repository"
	"forum-service/internal/response"
	"forum-service/internal/util"
)

// CommentService defines the interface for comment business logic
type CommentService interface {
	ListComments(ctx context.Context, threadSlug string) ([]dto.CommentResponse, error)
	CreateComment(ctx context.Context, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	UpdateComment(ctx context.Context, commentID uuid.UUID, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	ToggleVote(ctx context.Context, commentID uuid.UUID) (*dto.VoteResponse, error)
}

// commentServiceImpl is the implementation of CommentService
type commentServiceImpl struct {
	commentRepo repository.CommentRepository
	threadRepo  repository.ThreadRepository
	cache       cache.ThreadListCache
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewCommentService creates a new instance of CommentService
func NewCommentService(
	commentRepo repository.CommentRepository,
	threadRepo repository.ThreadRepository,
	threadCache cache.ThreadListCache,
	m *metrics.Metrics,
	logger *zap.Logger,
) CommentService {
	if threadCache == nil {
		threadCache = cache.NewThreadListCache(nil, 0, nil, nil)
	}
	return &commentServiceImpl{
		commentRepo: commentRepo,
		threadRepo:  threadRepo,
		cache:       threadCache,
		metrics:     m,
		logger:      logger,
	}
}

// ListComments returns a thread's comments as a flat list, oldest first
func (s *commentServiceImpl) ListComments(ctx context.Context, threadSlug string) ([]dto.CommentResponse, error) {
	thread, err := s.threadRepo.FindBySlug(ctx, threadSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Thread not found", threadSlug)
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch thread", err.Error())
	}

	comments, err := s.commentRepo.FindByThreadID(ctx, thread.ID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch comments", err.Error())
	}

	result := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		result = append(result, toCommentResponse(comment))
	}
	return result, nil
}

// CreateComment adds a comment, or a reply when ParentCommentID is set. The
// parent must belong to the same thread.
func (s *commentServiceImpl) CreateComment(ctx context.Context, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	if util.IsBlank(req.Content) {
		return nil, response.NewValidationError("Content is required", "")
	}

	if _, err := s.threadRepo.FindByID(ctx, req.ThreadID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Thread not found", req.ThreadID.String())
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to verify thread", err.Error())
	}

	if req.ParentCommentID != nil {
		parent, err := s.commentRepo.FindByID(ctx, *req.ParentCommentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewValidationError("Parent comment not found", req.ParentCommentID.String())
			}
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to verify parent comment", err.Error())
		}
		if parent.ThreadID != req.ThreadID {
			return nil, response.NewValidationError("Parent comment belongs to another thread", "")
		}
	}

	comment := &domain.Comment{
		ThreadID:        req.ThreadID,
		ParentCommentID: req.ParentCommentID,
		AuthorID:        actor.ID,
		AuthorName:      actor.Username,
		Content:         req.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create comment", err.Error())
	}
	s.cache.Invalidate(ctx)

	if s.metrics != nil {
		s.metrics.IncrementCommentCreated(req.ParentCommentID != nil)
	}
	s.logger.Info("Comment created",
		zap.String("comment_id", comment.ID.String()),
		zap.String("thread_id", comment.ThreadID.String()),
	)

	resp := toCommentResponse(comment)
	return &resp, nil
}

// UpdateComment replaces a comment's body. Only the author may edit.
func (s *commentServiceImpl) UpdateComment(ctx context.Context, commentID uuid.UUID, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	comment, err := s.findComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != actor.ID {
		return nil, response.NewForbiddenError("Only the author can edit this comment", "")
	}
	if util.IsBlank(req.Content) {
		return nil, response.NewValidationError("Content is required", "")
	}

	comment.Content = req.Content
	if err := s.commentRepo.UpdateContent(ctx, comment); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update comment", err.Error())
	}

	resp := toCommentResponse(comment)
	return &resp, nil
}

// ToggleVote flips the caller's upvote on a comment
func (s *commentServiceImpl) ToggleVote(ctx context.Context, commentID uuid.UUID) (*dto.VoteResponse, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.findComment(ctx, commentID); err != nil {
		return nil, err
	}

	upvoted, count, err := s.commentRepo.ToggleVote(ctx, commentID, actor.ID)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, response.NewAlreadyExistsError("Vote is already being recorded", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to toggle vote", err.Error())
	}

	if s.metrics != nil {
		s.metrics.RecordVoteToggle("comment", upvoted)
	}
	return &dto.VoteResponse{Upvoted: upvoted, Count: count}, nil
}

func (s *commentServiceImpl) findComment(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Comment not found", id.String())
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch comment", err.Error())
	}
	return comment, nil
}
