package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"forum-service/internal/domain"
	"forum-service/internal/dto"
	"forum-service/internal/metrics"
	"forum-service/internal/repository"
	"forum-service/internal/response"
	"forum-service/internal/util"
)

// TagService defines the interface for tag business logic
type TagService interface {
	ListTags(ctx context.Context) ([]dto.TagResponse, error)
	CreateTag(ctx context.Context, req *dto.CreateTagRequest) (*dto.TagResponse, error)
}

// tagServiceImpl is the implementation of TagService
type tagServiceImpl struct {
	tagRepo repository.TagRepository
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewTagService creates a new instance of TagService
func NewTagService(tagRepo repository.TagRepository, m *metrics.Metrics, logger *zap.Logger) TagService {
	return &tagServiceImpl{tagRepo: tagRepo, metrics: m, logger: logger}
}

// ListTags returns every tag ordered by name
func (s *tagServiceImpl) ListTags(ctx context.Context) ([]dto.TagResponse, error) {
	tags, err := s.tagRepo.FindAll(ctx)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch tags", err.Error())
	}

	result := make([]dto.TagResponse, 0, len(tags))
	for _, tag := range tags {
		result = append(result, toTagResponse(tag))
	}
	return result, nil
}

// CreateTag creates a tag for a name whose key is not taken yet. A taken
// key is reported as ALREADY_EXISTS so callers can fetch the existing tag.
func (s *tagServiceImpl) CreateTag(ctx context.Context, req *dto.CreateTagRequest) (*dto.TagResponse, error) {
	if _, err := requireActor(ctx); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	slug := util.TagKey(name)
	if slug == "" {
		return nil, response.NewValidationError("Tag name is required", req.Name)
	}

	if existing, err := s.tagRepo.FindBySlug(ctx, slug); err == nil {
		return nil, s.conflict(existing)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to look up tag", err.Error())
	}

	tag := &domain.Tag{Name: name, Slug: slug}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost a race with a concurrent creator
			return nil, s.conflict(&domain.Tag{Slug: slug})
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create tag", err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementTagCreated()
	}
	s.logger.Info("Tag created", zap.String("tag_id", tag.ID.String()), zap.String("slug", slug))

	resp := toTagResponse(tag)
	return &resp, nil
}

func (s *tagServiceImpl) conflict(existing *domain.Tag) error {
	if s.metrics != nil {
		s.metrics.IncrementTagConflict()
	}
	return response.NewAlreadyExistsError("Tag already exists", existing.Slug)
}
