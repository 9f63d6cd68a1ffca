package handler

import (
	"context"

	"github.com/google/uuid"

	"forum-service/internal/dto"
)

// MockThreadService is a mock implementation of ThreadService
type MockThreadService struct {
	ListThreadsFunc  func(ctx context.Context) ([]dto.ThreadResponse, error)
	GetThreadFunc    func(ctx context.Context, slug string) (*dto.ThreadResponse, error)
	CreateThreadFunc func(ctx context.Context, req *dto.CreateThreadRequest) (*dto.ThreadResponse, error)
	UpdateThreadFunc func(ctx context.Context, slug string, req *dto.UpdateThreadRequest) (*dto.ThreadResponse, error)
	ToggleVoteFunc   func(ctx context.Context, slug string) (*dto.VoteResponse, error)
}

func (m *MockThreadService) ListThreads(ctx context.Context) ([]dto.ThreadResponse, error) {
	if m.ListThreadsFunc != nil {
		return m.ListThreadsFunc(ctx)
	}
	return []dto.ThreadResponse{}, nil
}

func (m *MockThreadService) GetThread(ctx context.Context, slug string) (*dto.ThreadResponse, error) {
	if m.GetThreadFunc != nil {
		return m.GetThreadFunc(ctx, slug)
	}
	return &dto.ThreadResponse{Slug: slug}, nil
}

func (m *MockThreadService) CreateThread(ctx context.Context, req *dto.CreateThreadRequest) (*dto.ThreadResponse, error) {
	if m.CreateThreadFunc != nil {
		return m.CreateThreadFunc(ctx, req)
	}
	return &dto.ThreadResponse{Title: req.Title}, nil
}

func (m *MockThreadService) UpdateThread(ctx context.Context, slug string, req *dto.UpdateThreadRequest) (*dto.ThreadResponse, error) {
	if m.UpdateThreadFunc != nil {
		return m.UpdateThreadFunc(ctx, slug, req)
	}
	return &dto.ThreadResponse{Slug: slug}, nil
}

func (m *MockThreadService) ToggleVote(ctx context.Context, slug string) (*dto.VoteResponse, error) {
	if m.ToggleVoteFunc != nil {
		return m.ToggleVoteFunc(ctx, slug)
	}
	return &dto.VoteResponse{}, nil
}

// MockCommentService is a mock implementation of CommentService
type MockCommentService struct {
	ListCommentsFunc  func(ctx context.Context, threadSlug string) ([]dto.CommentResponse, error)
	CreateCommentFunc func(ctx context.Context, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	UpdateCommentFunc func(ctx context.Context, commentID uuid.UUID, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	ToggleVoteFunc    func(ctx context.Context, commentID uuid.UUID) (*dto.VoteResponse, error)
}

func (m *MockCommentService) ListComments(ctx context.Context, threadSlug string) ([]dto.CommentResponse, error) {
	if m.ListCommentsFunc != nil {
		return m.ListCommentsFunc(ctx, threadSlug)
	}
	return []dto.CommentResponse{}, nil
}

func (m *MockCommentService) CreateComment(ctx context.Context, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if m.CreateCommentFunc != nil {
		return m.CreateCommentFunc(ctx, req)
	}
	return &dto.CommentResponse{Content: req.Content}, nil
}

func (m *MockCommentService) UpdateComment(ctx context.Context, commentID uuid.UUID, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	if m.UpdateCommentFunc != nil {
		return m.UpdateCommentFunc(ctx, commentID, req)
	}
	return &dto.CommentResponse{ID: commentID, Content: req.Content}, nil
}

func (m *MockCommentService) ToggleVote(ctx context.Context, commentID uuid.UUID) (*dto.VoteResponse, error) {
	if m.ToggleVoteFunc != nil {
		return m.ToggleVoteFunc(ctx, commentID)
	}
	return &dto.VoteResponse{}, nil
}

// MockTagService is a mock implementation of TagService
type MockTagService struct {
	ListTagsFunc  func(ctx context.Context) ([]dto.TagResponse, error)
	CreateTagFunc func(ctx context.Context, req *dto.CreateTagRequest) (*dto.TagResponse, error)
}

func (m *MockTagService) ListTags(ctx context.Context) ([]dto.TagResponse, error) {
	if m.ListTagsFunc != nil {
		return m.ListTagsFunc(ctx)
	}
	return []dto.TagResponse{}, nil
}

func (m *MockTagService) CreateTag(ctx context.Context, req *dto.CreateTagRequest) (*dto.TagResponse, error) {
	if m.CreateTagFunc != nil {
		return m.CreateTagFunc(ctx, req)
	}
	return &dto.TagResponse{Name: req.Name}, nil
}
