package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"forum-service/internal/domain"
	"forum-service/internal/dto"
	"forum-service/internal/response"
)

func TestTagService_CreateTag(t *testing.T) {
	tests := []struct {
		name        string
		req         *dto.CreateTagRequest
		mock        func(*MockTagRepository)
		wantErrCode string
		wantSlug    string
		wantName    string
	}{
		{
			name: "success: key normalized, display name kept",
			req:  &dto.CreateTagRequest{Name: "  Drip  Irrigation "},
			mock: func(m *MockTagRepository) {
				m.FindBySlugFunc = func(ctx context.Context, slug string) (*domain.Tag, error) {
					return nil, gorm.ErrRecordNotFound
				}
			},
			wantSlug: "drip irrigation",
			wantName: "Drip  Irrigation",
		},
		{
			name: "success: non-Latin script",
			req:  &dto.CreateTagRequest{Name: "जल संरक्षण"},
			mock: func(m *MockTagRepository) {
				m.FindBySlugFunc = func(ctx context.Context, slug string) (*domain.Tag, error) {
					return nil, gorm.ErrRecordNotFound
				}
			},
			wantSlug: "जल संरक्षण",
			wantName: "जल संरक्षण",
		},
		{
			name: "success: symbols are significant",
			req:  &dto.CreateTagRequest{Name: "C#"},
			mock: func(m *MockTagRepository) {
				m.FindBySlugFunc = func(ctx context.Context, slug string) (*domain.Tag, error) {
					if slug == "c++" {
						return &domain.Tag{Name: "C++", Slug: slug}, nil
					}
					return nil, gorm.ErrRecordNotFound
				}
			},
			wantSlug: "c#",
			wantName: "C#",
		},
		{
			name: "conflict: slug already taken",
			req:  &dto.CreateTagRequest{Name: "irrigation "},
			mock: func(m *MockTagRepository) {
				m.FindBySlugFunc = func(ctx context.Context, slug string) (*domain.Tag, error) {
					return &domain.Tag{Name: "Irrigation", Slug: slug}, nil
				}
			},
			wantErrCode: response.ErrCodeAlreadyExists,
		},
		{
			name: "conflict: lost creation race",
			req:  &dto.CreateTagRequest{Name: "Irrigation"},
			mock: func(m *MockTagRepository) {
				m.FindBySlugFunc = func(ctx context.Context, slug string) (*domain.Tag, error) {
					return nil, gorm.ErrRecordNotFound
				}
				m.CreateFunc = func(ctx context.Context, tag *domain.Tag) error {
					return gorm.ErrDuplicatedKey
				}
			},
			wantErrCode: response.ErrCodeAlreadyExists,
		},
		{
			name:        "validation: blank name",
			req:         &dto.CreateTagRequest{Name: "   "},
			mock:        func(m *MockTagRepository) {},
			wantErrCode: response.ErrCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockTagRepository{}
			tt.mock(repo)
			service := NewTagService(repo, nil, zap.NewNop())

			got, err := service.CreateTag(actorContext(uuid.New()), tt.req)
			if tt.wantErrCode != "" {
				if err == nil {
					t.Fatalf("CreateTag() error = nil, want %s", tt.wantErrCode)
				}
				assertAppErrorCode(t, err, tt.wantErrCode)
				return
			}
			if err != nil {
				t.Fatalf("CreateTag() unexpected error = %v", err)
			}
			if got.Slug != tt.wantSlug {
				t.Errorf("Slug = %q, want %q", got.Slug, tt.wantSlug)
			}
			if got.Name != tt.wantName {
				t.Errorf("Name = %q, want trimmed display form", got.Name)
			}
		})
	}
}

// **Property: removeDuplicateUUIDs keeps first occurrences in order**
func TestProperty_RemoveDuplicateUUIDs(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("result is duplicate-free, ordered and covers the input", prop.ForAll(
		func(picks []int) bool {
			pool := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
			input := make([]uuid.UUID, len(picks))
			for i, p := range picks {
				input[i] = pool[p]
			}

			out := removeDuplicateUUIDs(input)

			seen := map[uuid.UUID]bool{}
			for _, id := range out {
				if seen[id] {
					return false
				}
				seen[id] = true
			}
			for _, id := range input {
				if !seen[id] {
					return false
				}
			}
			// first-occurrence order
			j := 0
			for _, id := range input {
				if j < len(out) && out[j] == id {
					j++
				}
			}
			return j == len(out)
		},
		gen.SliceOf(gen.IntRange(0, 3)),
	))

	properties.TestingRun(t)
}
