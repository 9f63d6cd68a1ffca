package service

import (
	"context"

	"github.com/google/uuid"

	"forum-service/internal/domain"
)

// MockThreadRepository is a mock implementation of ThreadRepository
type MockThreadRepository struct {
	CreateFunc            func(ctx context.Context, thread *domain.Thread) error
	FindByIDFunc          func(ctx context.Context, id uuid.UUID) (*domain.Thread, error)
	FindBySlugFunc        func(ctx context.Context, slug string) (*domain.Thread, error)
	FindAllFunc           func(ctx context.Context) ([]*domain.Thread, error)
	SlugExistsFunc        func(ctx context.Context, slug string) (bool, error)
	UpdateFunc            func(ctx context.Context, thread *domain.Thread, tags []domain.Tag) error
	ToggleVoteFunc        func(ctx context.Context, threadID, userID uuid.UUID) (bool, int, error)
	ReconcileCountersFunc func(ctx context.Context) (int64, error)
}

func (m *MockThreadRepository) Create(ctx context.Context, thread *domain.Thread) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, thread)
	}
	return nil
}

func (m *MockThreadRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Thread, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockThreadRepository) FindBySlug(ctx context.Context, slug string) (*domain.Thread, error) {
	if m.FindBySlugFunc != nil {
		return m.FindBySlugFunc(ctx, slug)
	}
	return nil, nil
}

func (m *MockThreadRepository) FindAll(ctx context.Context) ([]*domain.Thread, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockThreadRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	if m.SlugExistsFunc != nil {
		return m.SlugExistsFunc(ctx, slug)
	}
	return false, nil
}

func (m *MockThreadRepository) Update(ctx context.Context, thread *domain.Thread, tags []domain.Tag) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, thread, tags)
	}
	return nil
}

func (m *MockThreadRepository) ToggleVote(ctx context.Context, threadID, userID uuid.UUID) (bool, int, error) {
	if m.ToggleVoteFunc != nil {
		return m.ToggleVoteFunc(ctx, threadID, userID)
	}
	return false, 0, nil
}

func (m *MockThreadRepository) ReconcileCounters(ctx context.Context) (int64, error) {
	if m.ReconcileCountersFunc != nil {
		return m.ReconcileCountersFunc(ctx)
	}
	return 0, nil
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	CreateFunc         func(ctx context.Context, comment *domain.Comment) error
	FindByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	FindByThreadIDFunc func(ctx context.Context, threadID uuid.UUID) ([]*domain.Comment, error)
	UpdateContentFunc  func(ctx context.Context, comment *domain.Comment) error
	ToggleVoteFunc     func(ctx context.Context, commentID, userID uuid.UUID) (bool, int, error)
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, comment)
	}
	return nil
}

func (m *MockCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCommentRepository) FindByThreadID(ctx context.Context, threadID uuid.UUID) ([]*domain.Comment, error) {
	if m.FindByThreadIDFunc != nil {
		return m.FindByThreadIDFunc(ctx, threadID)
	}
	return nil, nil
}

func (m *MockCommentRepository) UpdateContent(ctx context.Context, comment *domain.Comment) error {
	if m.UpdateContentFunc != nil {
		return m.UpdateContentFunc(ctx, comment)
	}
	return nil
}

func (m *MockCommentRepository) ToggleVote(ctx context.Context, commentID, userID uuid.UUID) (bool, int, error) {
	if m.ToggleVoteFunc != nil {
		return m.ToggleVoteFunc(ctx, commentID, userID)
	}
	return false, 0, nil
}

// MockTagRepository is a mock implementation of TagRepository
type MockTagRepository struct {
	CreateFunc     func(ctx context.Context, tag *domain.Tag) error
	FindBySlugFunc func(ctx context.Context, slug string) (*domain.Tag, error)
	FindByIDsFunc  func(ctx context.Context, ids []uuid.UUID) ([]domain.Tag, error)
	FindAllFunc    func(ctx context.Context) ([]*domain.Tag, error)
}

func (m *MockTagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tag)
	}
	return nil
}

func (m *MockTagRepository) FindBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	if m.FindBySlugFunc != nil {
		return m.FindBySlugFunc(ctx, slug)
	}
	return nil, nil
}

func (m *MockTagRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Tag, error) {
	if m.FindByIDsFunc != nil {
		return m.FindByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *MockTagRepository) FindAll(ctx context.Context) ([]*domain.Tag, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return nil, nil
}
