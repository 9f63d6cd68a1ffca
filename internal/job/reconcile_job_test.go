package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"forum-service/internal/database"
	"forum-service/internal/domain"
	"forum-service/internal/dto"
	"forum-service/internal/metrics"
	"forum-service/internal/repository"
)

// MockReconciler is a mock implementation of CounterReconciler
type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) ReconcileCounters(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockThreadListCache is a mock implementation of cache.ThreadListCache
type MockThreadListCache struct {
	mock.Mock
}

func (m *MockThreadListCache) Get(ctx context.Context) ([]dto.ThreadResponse, bool) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]dto.ThreadResponse), args.Bool(1)
}

func (m *MockThreadListCache) Generation(ctx context.Context) (int64, bool) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Bool(1)
}

func (m *MockThreadListCache) Set(ctx context.Context, generation int64, threads []dto.ThreadResponse) bool {
	args := m.Called(ctx, generation, threads)
	return args.Bool(0)
}

func (m *MockThreadListCache) Invalidate(ctx context.Context) {
	m.Called(ctx)
}

func newTestMetrics() *metrics.Metrics {
	return metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
}

func TestReconcileJob_Run(t *testing.T) {
	tests := []struct {
		name           string
		repaired       int64
		err            error
		wantInvalidate bool
		wantRepaired   float64
	}{
		{
			name:           "Repairs drifted rows",
			repaired:       3,
			wantInvalidate: true,
			wantRepaired:   3,
		},
		{
			name:     "Nothing to repair",
			repaired: 0,
		},
		{
			name:     "Reconcile fails",
			repaired: 0,
			err:      errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reconciler := new(MockReconciler)
			reconciler.On("ReconcileCounters", mock.Anything).Return(tt.repaired, tt.err)
			threadCache := new(MockThreadListCache)
			if tt.wantInvalidate {
				threadCache.On("Invalidate", mock.Anything).Return()
			}
			m := newTestMetrics()

			NewReconcileJob(reconciler, threadCache, m, zap.NewNop(), time.Second).Run()

			reconciler.AssertExpectations(t)
			threadCache.AssertExpectations(t)
			if !tt.wantInvalidate {
				threadCache.AssertNotCalled(t, "Invalidate", mock.Anything)
			}
			assert.Equal(t, tt.wantRepaired, testutil.ToFloat64(m.CountersRepaired))
		})
	}
}

func TestReconcileJob_RepairsDatabaseDrift(t *testing.T) {
	db, err := database.New(database.Config{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	ctx := context.Background()
	threadRepo := repository.NewThreadRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	thread := &domain.Thread{
		Slug:       "drift-1",
		Title:      "Drift",
		Content:    "<p>body</p>",
		Type:       domain.ThreadTypeDiscussion,
		AuthorID:   uuid.New(),
		AuthorName: "alice",
	}
	require.NoError(t, threadRepo.Create(ctx, thread))
	require.NoError(t, commentRepo.Create(ctx, &domain.Comment{
		ThreadID:   thread.ID,
		AuthorID:   uuid.New(),
		AuthorName: "bob",
		Content:    "hi",
	}))

	require.NoError(t, db.Model(&domain.Thread{}).Where("id = ?", thread.ID).
		UpdateColumns(map[string]interface{}{"comment_count": 7, "upvote_count": 4}).Error)

	m := newTestMetrics()
	NewReconcileJob(threadRepo, nil, m, zap.NewNop(), 0).Run()

	var got domain.Thread
	require.NoError(t, db.First(&got, "id = ?", thread.ID).Error)
	assert.Equal(t, 1, got.CommentCount)
	assert.Equal(t, 0, got.UpvoteCount)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CountersRepaired))
}
