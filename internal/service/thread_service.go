package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"forum-service/internal/cache"
	"forum-service/internal/domain"
	"forum-service/internal/dto"
	"forum-service/internal/metrics"
	"forum-service/internal/repository"
	"forum-service/internal/response"
	"forum-service/internal/util"
)

const maxSlugBaseLength = 80

// ThreadService defines the interface for thread business logic
type ThreadService interface {
	ListThreads(ctx context.Context) ([]dto.ThreadResponse, error)
	GetThread(ctx context.Context, slug string) (*dto.ThreadResponse, error)
	CreateThread(ctx context.Context, req *dto.CreateThreadRequest) (*dto.ThreadResponse, error)
	UpdateThread(ctx context.Context, slug string, req *dto.UpdateThreadRequest) (*dto.ThreadResponse, error)
	ToggleVote(ctx context.Context, slug string) (*dto.VoteResponse, error)
}

// threadServiceImpl is the implementation of ThreadService
type threadServiceImpl struct {
	threadRepo repository.ThreadRepository
	tagRepo    repository.TagRepository
	cache      cache.ThreadListCache
	loads      singleflight.Group
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewThreadService creates a new instance of ThreadService
func NewThreadService(
	threadRepo repository.ThreadRepository,
	tagRepo repository.TagRepository,
	threadCache cache.ThreadListCache,
	m *metrics.Metrics,
	logger *zap.Logger,
) ThreadService {
	if threadCache == nil {
		threadCache = cache.NewThreadListCache(nil, 0, nil, nil)
	}
	return &threadServiceImpl{
		threadRepo: threadRepo,
		tagRepo:    tagRepo,
		cache:      threadCache,
		metrics:    m,
		logger:     logger,
	}
}

// ListThreads returns every thread, newest first. Concurrent misses share a
// single database load.
func (s *threadServiceImpl) ListThreads(ctx context.Context) ([]dto.ThreadResponse, error) {
	if cached, ok := s.cache.Get(ctx); ok {
		return cached, nil
	}

	// the shared load must not fail every waiter when its first caller goes away
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := s.loads.Do("threads", func() (interface{}, error) {
		gen, cacheable := s.cache.Generation(loadCtx)
		threads, err := s.threadRepo.FindAll(loadCtx)
		if err != nil {
			return nil, err
		}
		result := make([]dto.ThreadResponse, 0, len(threads))
		for _, thread := range threads {
			result = append(result, toThreadResponse(thread))
		}
		if cacheable {
			s.cache.Set(loadCtx, gen, result)
		}
		return result, nil
	})
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch threads", err.Error())
	}
	return v.([]dto.ThreadResponse), nil
}

// GetThread returns one thread by slug
func (s *threadServiceImpl) GetThread(ctx context.Context, slug string) (*dto.ThreadResponse, error) {
	thread, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	resp := toThreadResponse(thread)
	return &resp, nil
}

// CreateThread creates a thread authored by the caller
func (s *threadServiceImpl) CreateThread(ctx context.Context, req *dto.CreateThreadRequest) (*dto.ThreadResponse, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	threadType := domain.ThreadType(req.Type)
	if err := validateThreadFields(req.Title, req.Content, threadType); err != nil {
		return nil, err
	}

	tags, err := s.loadTags(ctx, req.TagIDs)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	slug, err := s.uniqueSlug(ctx, req.Title, id)
	if err != nil {
		return nil, err
	}

	thread := &domain.Thread{
		BaseModel:      domain.BaseModel{ID: id},
		Slug:           slug,
		Title:          strings.TrimSpace(req.Title),
		Content:        req.Content,
		Type:           threadType,
		AuthorID:       actor.ID,
		AuthorName:     actor.Username,
		LastActivityAt: time.Now().UTC(),
		Tags:           tags,
	}

	if err := s.threadRepo.Create(ctx, thread); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create thread", err.Error())
	}
	s.cache.Invalidate(ctx)

	if s.metrics != nil {
		s.metrics.IncrementThreadCreated(string(threadType))
	}
	s.logger.Info("Thread created",
		zap.String("thread_id", thread.ID.String()),
		zap.String("slug", slug),
		zap.String("type", string(threadType)),
		zap.Int("tags", len(tags)),
	)

	resp := toThreadResponse(thread)
	return &resp, nil
}

// UpdateThread applies a partial update. Only the author may edit; any edit
// counts as activity.
func (s *threadServiceImpl) UpdateThread(ctx context.Context, slug string, req *dto.UpdateThreadRequest) (*dto.ThreadResponse, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	thread, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if thread.AuthorID != actor.ID {
		return nil, response.NewForbiddenError("Only the author can edit this thread", "")
	}

	if req.Title != nil {
		thread.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		thread.Content = *req.Content
	}
	if req.Type != nil {
		thread.Type = domain.ThreadType(*req.Type)
	}
	if err := validateThreadFields(thread.Title, thread.Content, thread.Type); err != nil {
		return nil, err
	}

	var tags []domain.Tag
	if req.TagIDs != nil {
		if tags, err = s.loadTags(ctx, *req.TagIDs); err != nil {
			return nil, err
		}
	}

	thread.Touch(time.Now().UTC())
	if err := s.threadRepo.Update(ctx, thread, tags); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update thread", err.Error())
	}
	s.cache.Invalidate(ctx)

	resp := toThreadResponse(thread)
	return &resp, nil
}

// ToggleVote flips the caller's upvote on a thread
func (s *threadServiceImpl) ToggleVote(ctx context.Context, slug string) (*dto.VoteResponse, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	thread, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	upvoted, count, err := s.threadRepo.ToggleVote(ctx, thread.ID, actor.ID)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, response.NewAlreadyExistsError("Vote is already being recorded", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to toggle vote", err.Error())
	}
	s.cache.Invalidate(ctx)

	if s.metrics != nil {
		s.metrics.RecordVoteToggle("thread", upvoted)
	}
	return &dto.VoteResponse{Upvoted: upvoted, Count: count}, nil
}

func (s *threadServiceImpl) findBySlug(ctx context.Context, slug string) (*domain.Thread, error) {
	thread, err := s.threadRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Thread not found", slug)
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch thread", err.Error())
	}
	return thread, nil
}

// loadTags resolves tag IDs, rejecting unknown ones
func (s *threadServiceImpl) loadTags(ctx context.Context, ids []uuid.UUID) ([]domain.Tag, error) {
	ids = removeDuplicateUUIDs(ids)
	if len(ids) == 0 {
		return []domain.Tag{}, nil
	}

	tags, err := s.tagRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch tags", err.Error())
	}
	if len(tags) != len(ids) {
		return nil, response.NewValidationError("Unknown tag", "one or more tag IDs do not exist")
	}
	return tags, nil
}

// uniqueSlug derives a URL slug from the title, suffixed with the start of
// the thread ID so equal titles do not collide
func (s *threadServiceImpl) uniqueSlug(ctx context.Context, title string, id uuid.UUID) (string, error) {
	base := util.Slugify(title)
	if r := []rune(base); len(r) > maxSlugBaseLength {
		base = strings.TrimRight(string(r[:maxSlugBaseLength]), "-")
	}
	if base == "" {
		base = "thread"
	}

	slug := base + "-" + id.String()[:8]
	exists, err := s.threadRepo.SlugExists(ctx, slug)
	if err != nil {
		return "", response.NewAppError(response.ErrCodeInternal, "Failed to check slug", err.Error())
	}
	if exists {
		slug = base + "-" + strings.ReplaceAll(id.String(), "-", "")
	}
	return slug, nil
}

func validateThreadFields(title, content string, threadType domain.ThreadType) error {
	if strings.TrimSpace(title) == "" {
		return response.NewValidationError("Title is required", "")
	}
	if util.IsBlank(content) {
		return response.NewValidationError("Content is required", "")
	}
	if !threadType.IsValid() {
		return response.NewValidationError("Invalid thread type", "type must be discussion, resource or announcement")
	}
	return nil
}
