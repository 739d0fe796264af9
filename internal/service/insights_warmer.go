package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/issue-insights-api/internal/models"
	"github.com/noah-isme/issue-insights-api/pkg/jobs"
)

const warmJobKind = "insights.refresh"

type insightsRefresher interface {
	Refresh(ctx context.Context) (*models.ComprehensiveAnalysis, error)
}

// InsightsWarmer recomputes the insights cache in the background so dashboard requests
// rarely pay for a cold analysis.
type InsightsWarmer struct {
	insights insightsRefresher
	interval time.Duration
	queue    *jobs.Queue
	logger   *zap.Logger
}

// NewInsightsWarmer constructs a warmer. A non-positive interval only warms once at startup.
func NewInsightsWarmer(insights insightsRefresher, interval time.Duration, logger *zap.Logger) *InsightsWarmer {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &InsightsWarmer{insights: insights, interval: interval, logger: logger}
	w.queue = jobs.NewQueue("insights-warmer", w.handle, jobs.Options{
		Workers:     1,
		Buffer:      1,
		MaxAttempts: 3,
		Backoff:     5 * time.Second,
		Logger:      logger,
	})
	return w
}

// Run warms immediately and then on every tick until ctx is cancelled.
func (w *InsightsWarmer) Run(ctx context.Context) {
	w.queue.Start(ctx)
	defer w.queue.Stop()

	w.Trigger()
	if w.interval <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Trigger()
		}
	}
}

// Trigger schedules a warm-up. It is dropped when one is already pending.
func (w *InsightsWarmer) Trigger() {
	err := w.queue.Submit(jobs.Job{ID: uuid.NewString(), Kind: warmJobKind})
	switch {
	case err == nil:
	case errors.Is(err, jobs.ErrQueueFull):
		w.logger.Debug("insights warm-up already pending")
	default:
		w.logger.Warn("insights warm-up not scheduled", zap.Error(err))
	}
}

// Stats exposes the warm-up job counters.
func (w *InsightsWarmer) Stats() jobs.Stats {
	return w.queue.Stats()
}

func (w *InsightsWarmer) handle(ctx context.Context, job jobs.Job) error {
	start := time.Now()
	analysis, err := w.insights.Refresh(ctx)
	if err != nil {
		return err
	}
	w.logger.Info("insights cache warmed",
		zap.String("job_id", job.ID),
		zap.Time("analysis_timestamp", analysis.Timestamp),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}
