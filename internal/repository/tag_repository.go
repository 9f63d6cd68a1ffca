package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"forum-service/internal/domain"
)

// TagRepository defines the interface for tag data access
type TagRepository interface {
	Create(ctx context.Context, tag *domain.Tag) error
	FindBySlug(ctx context.Context, slug string) (*domain.Tag, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Tag, error)
	FindAll(ctx context.Context) ([]*domain.Tag, error)
}

// tagRepositoryImpl is the GORM implementation of TagRepository
type tagRepositoryImpl struct {
	db *gorm.DB
}

// NewTagRepository creates a new instance of TagRepository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepositoryImpl{db: db}
}

// Create inserts a tag. A slug collision is reported as gorm.ErrDuplicatedKey.
func (r *tagRepositoryImpl) Create(ctx context.Context, tag *domain.Tag) error {
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		if IsUniqueViolation(err) {
			return gorm.ErrDuplicatedKey
		}
		return err
	}
	return nil
}

// FindBySlug finds a tag by its normalized slug
func (r *tagRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	var tag domain.Tag
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindByIDs returns the tags whose IDs are listed; unknown IDs are skipped
func (r *tagRepositoryImpl) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return []domain.Tag{}, nil
	}

	var tags []domain.Tag
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("name").
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// FindAll returns every tag ordered by name
func (r *tagRepositoryImpl) FindAll(ctx context.Context) ([]*domain.Tag, error) {
	var tags []*domain.Tag
	if err := r.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
