package job

import (
	"context"
	"time"

	"go.uber.org/zap"

	"forum-service/internal/cache"
	"forum-service/internal/metrics"
)

// CounterReconciler recomputes denormalized counters and reports how many
// rows changed
type CounterReconciler interface {
	ReconcileCounters(ctx context.Context) (int64, error)
}

// ReconcileJob repairs thread and comment counters that drifted from the
// vote and comment tables
type ReconcileJob struct {
	reconciler CounterReconciler
	cache      cache.ThreadListCache
	metrics    *metrics.Metrics
	logger     *zap.Logger
	timeout    time.Duration
}

// NewReconcileJob creates a new ReconcileJob instance. threadCache and m may
// be nil.
func NewReconcileJob(
	reconciler CounterReconciler,
	threadCache cache.ThreadListCache,
	m *metrics.Metrics,
	logger *zap.Logger,
	timeout time.Duration,
) *ReconcileJob {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &ReconcileJob{
		reconciler: reconciler,
		cache:      threadCache,
		metrics:    m,
		logger:     logger,
		timeout:    timeout,
	}
}

// Run executes the job. It matches cron.Job.
func (j *ReconcileJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	j.logger.Info("Starting counter reconcile job")
	start := time.Now()

	repaired, err := j.reconciler.ReconcileCounters(ctx)
	if err != nil {
		j.logger.Error("Failed to reconcile counters", zap.Error(err))
		return
	}

	if repaired > 0 {
		if j.metrics != nil {
			j.metrics.AddCountersRepaired(repaired)
		}
		if j.cache != nil {
			j.cache.Invalidate(ctx)
		}
		j.logger.Warn("Repaired drifted counters", zap.Int64("rows", repaired))
	}

	j.logger.Info("Counter reconcile job completed",
		zap.Int64("repaired", repaired),
		zap.Duration("duration", time.Since(start)),
	)
}
