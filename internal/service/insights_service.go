package service

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/issue-insights-api/internal/models"
	appErrors "github.com/noah-isme/issue-insights-api/pkg/errors"
)

// Cache keys used by the insights engine. All of them share the insights prefix so a
// single pattern delete clears the engine.
const (
	insightsCachePattern   = "insights:*"
	insightsTrendsKey      = "insights:trends"
	insightsTeamKey        = "insights:team"
	insightsProjectsKey    = "insights:projects"
	insightsPredictionsKey = "insights:predictions"
)

const (
	analyzerTrends        = "trends"
	analyzerTeam          = "team"
	analyzerProjectHealth = "project_health"
	analyzerPredictions   = "predictions"
	analyzerComprehensive = "comprehensive"
)

type insightsRepository interface {
	TicketWindowCounts(ctx context.Context, windows models.TrendWindows) (*models.TicketWindowCounts, error)
	TeamPerformance(ctx context.Context, since time.Time) ([]models.MemberPerformanceRow, error)
	ProjectTicketStats(ctx context.Context) ([]models.ProjectTicketStats, error)
	DailyTicketSeries(ctx context.Context, since time.Time) ([]models.DailyTicketCount, error)
	OpenTicketCount(ctx context.Context) (int, error)
	ActiveUserCount(ctx context.Context) (int, error)
}

// InsightsService computes trend, team, project and prediction analyses over the ticket store.
type InsightsService struct {
	repo     insightsRepository
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	cacheTTL time.Duration
	now      func() time.Time
}

// InsightsServiceParams groups constructor dependencies.
type InsightsServiceParams struct {
	Repo     insightsRepository
	Cache    *CacheService
	Metrics  *MetricsService
	Logger   *zap.Logger
	CacheTTL time.Duration
	Clock    func() time.Time
}

// NewInsightsService wires the insights engine.
func NewInsightsService(params InsightsServiceParams) *InsightsService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &InsightsService{
		repo:     params.Repo,
		cache:    params.Cache,
		metrics:  params.Metrics,
		logger:   logger,
		cacheTTL: ttl,
		now:      clock,
	}
}

// Trends returns period counts and growth ratios. The report is the no-data variant when
// the store holds no tickets.
func (s *InsightsService) Trends(ctx context.Context) (models.TrendReport, error) {
	report, _, err := GetOrCompute(ctx, s.cache, insightsTrendsKey, s.cacheTTL, timedAnalysis(s.metrics, analyzerTrends, func(ctx context.Context) (models.TrendReport, error) {
		windows := trendWindows(s.now().UTC())
		var counts *models.TicketWindowCounts
		err := s.observe("insights_trends", func() error {
			var err error
			counts, err = s.repo.TicketWindowCounts(ctx, windows)
			return err
		})
		if err != nil {
			return models.TrendReport{}, s.storeError(err, "failed to load ticket trends")
		}
		return analyzeTrends(*counts), nil
	}))
	return report, err
}

// TeamPerformance returns month-to-date member rollups.
func (s *InsightsService) TeamPerformance(ctx context.Context) (models.TeamPerformance, error) {
	team, _, err := GetOrCompute(ctx, s.cache, insightsTeamKey, s.cacheTTL, timedAnalysis(s.metrics, analyzerTeam, func(ctx context.Context) (models.TeamPerformance, error) {
		since := trendWindows(s.now().UTC()).Month
		var rows []models.MemberPerformanceRow
		err := s.observe("insights_team", func() error {
			var err error
			rows, err = s.repo.TeamPerformance(ctx, since)
			return err
		})
		if err != nil {
			return models.TeamPerformance{}, s.storeError(err, "failed to load team performance")
		}
		return analyzeTeam(rows), nil
	}))
	return team, err
}

// ProjectHealth scores every project.
func (s *InsightsService) ProjectHealth(ctx context.Context) (models.ProjectHealthReport, error) {
	report, _, err := GetOrCompute(ctx, s.cache, insightsProjectsKey, s.cacheTTL, timedAnalysis(s.metrics, analyzerProjectHealth, func(ctx context.Context) (models.ProjectHealthReport, error) {
		var stats []models.ProjectTicketStats
		err := s.observe("insights_projects", func() error {
			var err error
			stats, err = s.repo.ProjectTicketStats(ctx)
			return err
		})
		if err != nil {
			return models.ProjectHealthReport{}, s.storeError(err, "failed to load project statistics")
		}
		return analyzeProjectHealth(stats), nil
	}))
	return report, err
}

// Predictions forecasts next week's volume and current workload.
func (s *InsightsService) Predictions(ctx context.Context) (models.PredictionReport, error) {
	report, _, err := GetOrCompute(ctx, s.cache, insightsPredictionsKey, s.cacheTTL, timedAnalysis(s.metrics, analyzerPredictions, func(ctx context.Context) (models.PredictionReport, error) {
		start := predictionSeriesStart(s.now().UTC())

		var (
			rows  []models.DailyTicketCount
			open  int
			users int
		)
		err := s.observe("insights_predictions", func() error {
			var err error
			if rows, err = s.repo.DailyTicketSeries(ctx, start); err != nil {
				return err
			}
			if open, err = s.repo.OpenTicketCount(ctx); err != nil {
				return err
			}
			users, err = s.repo.ActiveUserCount(ctx)
			return err
		})
		if err != nil {
			return models.PredictionReport{}, s.storeError(err, "failed to load prediction inputs")
		}
		series := densifySeries(rows, start, predictionSeriesDays)
		return analyzePredictions(series, open, users), nil
	}))
	return report, err
}

// Analyze runs every analyzer concurrently and combines their outputs. Any failure aborts
// the whole analysis.
func (s *InsightsService) Analyze(ctx context.Context) (*models.ComprehensiveAnalysis, error) {
	start := time.Now()
	var (
		trends      models.TrendReport
		team        models.TeamPerformance
		projects    models.ProjectHealthReport
		predictions models.PredictionReport
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		trends, err = s.Trends(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		team, err = s.TeamPerformance(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		projects, err = s.ProjectHealth(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		predictions, err = s.Predictions(gctx)
		return err
	})
	err := g.Wait()
	s.metrics.ObserveAnalysis(analyzerComprehensive, time.Since(start), err)
	if err != nil {
		s.logger.Error("insights analysis failed", zap.Error(err))
		return nil, err
	}

	return &models.ComprehensiveAnalysis{
		Timestamp:       s.now().UTC(),
		Trends:          trends,
		TeamPerformance: team,
		ProjectHealth:   projects,
		Predictions:     predictions,
		Recommendations: generateRecommendations(trends, team, projects, predictions),
		Summary:         summarizeInsights(team, projects, predictions),
	}, nil
}

// Clear drops every cached insights entry.
func (s *InsightsService) Clear(ctx context.Context) error {
	return s.cache.Invalidate(ctx, insightsCachePattern)
}

// Refresh clears the cache and recomputes the analysis from the store.
func (s *InsightsService) Refresh(ctx context.Context) (*models.ComprehensiveAnalysis, error) {
	if err := s.Clear(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to clear insights cache")
	}
	s.logger.Info("insights cache cleared")
	return s.Analyze(ctx)
}

// timedAnalysis wraps compute so every cache miss is recorded per analyzer.
func timedAnalysis[T any](metrics *MetricsService, analyzer string, compute func(context.Context) (T, error)) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		start := time.Now()
		value, err := compute(ctx)
		metrics.ObserveAnalysis(analyzer, time.Since(start), err)
		return value, err
	}
}

func (s *InsightsService) observe(label string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.metrics.ObserveDBQuery(label, time.Since(start))
	return err
}

func (s *InsightsService) storeError(err error, message string) error {
	s.logger.Error(message, zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, message)
}
