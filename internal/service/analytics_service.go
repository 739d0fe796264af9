package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/issue-insights-api/internal/models"
	appErrors "github.com/noah-isme/issue-insights-api/pkg/errors"
)

const (
	DefaultAnalyticsDays = 30
	MaxAnalyticsDays     = 365
)

// AnalyticsRepository describes the persistence layer required by AnalyticsService.
type AnalyticsRepository interface {
	Totals(ctx context.Context) (*models.AnalyticsTotals, error)
	TicketCountsBy(ctx context.Context, field string) ([]models.CountByKey, error)
	DailyTrend(ctx context.Context, since, until time.Time) ([]models.DailyTrendPoint, error)
	UserActivity(ctx context.Context, since time.Time) ([]models.UserActivity, error)
	TeamStats(ctx context.Context) ([]models.TeamMemberStats, error)
}

type projectStatsSource interface {
	ProjectTicketStats(ctx context.Context) ([]models.ProjectTicketStats, error)
}

// AnalyticsService provides read-optimised access to analytics datasets with cache integration.
type AnalyticsService struct {
	repo     AnalyticsRepository
	projects projectStatsSource
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	cacheTTL time.Duration
	now      func() time.Time
}

// NewAnalyticsService constructs an analytics service.
func NewAnalyticsService(repo AnalyticsRepository, projects projectStatsSource, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cacheTTL time.Duration) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		repo:     repo,
		projects: projects,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// ParseAnalyticsDays validates the days query parameter.
func ParseAnalyticsDays(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultAnalyticsDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > MaxAnalyticsDays {
		return 0, appErrors.Clone(appErrors.ErrValidation, "days must be an integer between 1 and 365")
	}
	return days, nil
}

// Overview returns entity totals and ticket breakdowns. The boolean indicates whether data originated from cache.
func (s *AnalyticsService) Overview(ctx context.Context) (*models.AnalyticsOverview, bool, error) {
	return GetOrCompute(ctx, s.cache, makeAnalyticsCacheKey("overview"), s.cacheTTL, func(ctx context.Context) (*models.AnalyticsOverview, error) {
		overview := &models.AnalyticsOverview{}
		err := s.observe("analytics_overview", func() error {
			totals, err := s.repo.Totals(ctx)
			if err != nil {
				return err
			}
			overview.Totals = *totals
			if overview.ByStatus, err = s.repo.TicketCountsBy(ctx, "status"); err != nil {
				return err
			}
			if overview.ByPriority, err = s.repo.TicketCountsBy(ctx, "priority"); err != nil {
				return err
			}
			overview.ByType, err = s.repo.TicketCountsBy(ctx, "type")
			return err
		})
		if err != nil {
			return nil, s.storeError(err, "failed to load analytics overview")
		}
		return overview, nil
	})
}

// Projects returns per-project ticket statistics with completion rates.
func (s *AnalyticsService) Projects(ctx context.Context) ([]models.ProjectSummary, bool, error) {
	return GetOrCompute(ctx, s.cache, makeAnalyticsCacheKey("projects"), s.cacheTTL, func(ctx context.Context) ([]models.ProjectSummary, error) {
		var stats []models.ProjectTicketStats
		err := s.observe("analytics_projects", func() error {
			var err error
			stats, err = s.projects.ProjectTicketStats(ctx)
			return err
		})
		if err != nil {
			return nil, s.storeError(err, "failed to load project analytics")
		}
		summaries := make([]models.ProjectSummary, 0, len(stats))
		for _, st := range stats {
			summaries = append(summaries, models.ProjectSummary{
				ProjectTicketStats: st,
				CompletionRate:     percentOf(float64(st.ResolvedTickets), float64(st.TicketCount)),
			})
		}
		return summaries, nil
	})
}

// Trends returns a dense daily series covering the last days calendar days, today included.
func (s *AnalyticsService) Trends(ctx context.Context, days int) ([]models.DailyTrendPoint, bool, error) {
	now := s.now().UTC()
	until := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	since := until.AddDate(0, 0, -(days - 1))
	key := makeAnalyticsCacheKey("trends", strconv.Itoa(days), until.Format("2006-01-02"))

	return GetOrCompute(ctx, s.cache, key, s.cacheTTL, func(ctx context.Context) ([]models.DailyTrendPoint, error) {
		var points []models.DailyTrendPoint
		err := s.observe("analytics_trends", func() error {
			var err error
			points, err = s.repo.DailyTrend(ctx, since, until)
			return err
		})
		if err != nil {
			return nil, s.storeError(err, "failed to load ticket trends")
		}
		return points, nil
	})
}

// UserActivity returns per-user activity over the last days.
func (s *AnalyticsService) UserActivity(ctx context.Context, days int) ([]models.UserActivity, bool, error) {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	since := today.AddDate(0, 0, -(days - 1))
	key := makeAnalyticsCacheKey("user-activity", strconv.Itoa(days), today.Format("2006-01-02"))

	return GetOrCompute(ctx, s.cache, key, s.cacheTTL, func(ctx context.Context) ([]models.UserActivity, error) {
		var rows []models.UserActivity
		err := s.observe("analytics_user_activity", func() error {
			var err error
			rows, err = s.repo.UserActivity(ctx, since)
			return err
		})
		if err != nil {
			return nil, s.storeError(err, "failed to load user activity")
		}
		return rows, nil
	})
}

// Team returns all-time workload per team member.
func (s *AnalyticsService) Team(ctx context.Context) ([]models.TeamMemberStats, bool, error) {
	return GetOrCompute(ctx, s.cache, makeAnalyticsCacheKey("team"), s.cacheTTL, func(ctx context.Context) ([]models.TeamMemberStats, error) {
		var rows []models.TeamMemberStats
		err := s.observe("analytics_team", func() error {
			var err error
			rows, err = s.repo.TeamStats(ctx)
			return err
		})
		if err != nil {
			return nil, s.storeError(err, "failed to load team analytics")
		}
		return rows, nil
	})
}

// SystemMetrics returns system instrumentation snapshot.
func (s *AnalyticsService) SystemMetrics() models.AnalyticsSystemMetrics {
	if s.metrics == nil {
		return models.AnalyticsSystemMetrics{}
	}
	return s.metrics.Snapshot()
}

func (s *AnalyticsService) observe(label string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.metrics.ObserveDBQuery(label, time.Since(start))
	return err
}

func (s *AnalyticsService) storeError(err error, message string) error {
	s.logger.Error(message, zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func makeAnalyticsCacheKey(parts ...string) string {
	var builder strings.Builder
	builder.Grow(len(parts) * 16)
	builder.WriteString("analytics")
	for _, part := range parts {
		if part == "" {
			continue
		}
		builder.WriteByte(':')
		builder.WriteString(strings.ReplaceAll(part, ":", "|"))
	}
	return builder.String()
}
