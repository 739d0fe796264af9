package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/issue-insights-api/internal/models"
	appErrors "github.com/noah-isme/issue-insights-api/pkg/errors"
)

type mockAnalyticsRepo struct {
	totals      models.AnalyticsTotals
	counts      map[string][]models.CountByKey
	trend       []models.DailyTrendPoint
	activity    []models.UserActivity
	team        []models.TeamMemberStats
	projects    []models.ProjectTicketStats
	calls       map[string]int
	trendSince  time.Time
	trendUntil  time.Time
	totalsErr   error
	projectsErr error
}

func (m *mockAnalyticsRepo) hit(name string) {
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[name]++
}

func (m *mockAnalyticsRepo) Totals(context.Context) (*models.AnalyticsTotals, error) {
	m.hit("Totals")
	if m.totalsErr != nil {
		return nil, m.totalsErr
	}
	totals := m.totals
	return &totals, nil
}

func (m *mockAnalyticsRepo) TicketCountsBy(_ context.Context, field string) ([]models.CountByKey, error) {
	m.hit("TicketCountsBy:" + field)
	return m.counts[field], nil
}

func (m *mockAnalyticsRepo) DailyTrend(_ context.Context, since, until time.Time) ([]models.DailyTrendPoint, error) {
	m.hit("DailyTrend")
	m.trendSince, m.trendUntil = since, until
	return m.trend, nil
}

func (m *mockAnalyticsRepo) UserActivity(context.Context, time.Time) ([]models.UserActivity, error) {
	m.hit("UserActivity")
	return m.activity, nil
}

func (m *mockAnalyticsRepo) TeamStats(context.Context) ([]models.TeamMemberStats, error) {
	m.hit("TeamStats")
	return m.team, nil
}

func (m *mockAnalyticsRepo) ProjectTicketStats(context.Context) ([]models.ProjectTicketStats, error) {
	m.hit("ProjectTicketStats")
	if m.projectsErr != nil {
		return nil, m.projectsErr
	}
	return m.projects, nil
}

type stubCacheRepo struct {
	store map[string][]byte
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = payload
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, _ string) error {
	s.store = nil
	return nil
}

func newAnalyticsForTest(repo *mockAnalyticsRepo, cacheRepo CacheRepository) *AnalyticsService {
	cacheSvc := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), cacheRepo != nil)
	svc := NewAnalyticsService(repo, repo, cacheSvc, NewMetricsService(), zap.NewNop(), time.Minute)
	svc.now = marchNow
	return svc
}

func TestAnalyticsServiceOverviewCaching(t *testing.T) {
	repo := &mockAnalyticsRepo{
		totals: models.AnalyticsTotals{Projects: 2, Tickets: 20, OpenTickets: 5, ResolvedTickets: 15, Users: 3, Comments: 7},
		counts: map[string][]models.CountByKey{
			"status":   {{Key: "Resolved", Count: 15}, {Key: "Open", Count: 5}},
			"priority": {{Key: "Medium", Count: 18}, {Key: "High", Count: 2}},
			"type":     {{Key: "Bug", Count: 20}},
		},
	}
	svc := newAnalyticsForTest(repo, &stubCacheRepo{})
	ctx := context.Background()

	overview, cacheHit, err := svc.Overview(ctx)
	require.NoError(t, err)
	assert.False(t, cacheHit)
	assert.Equal(t, 20, overview.Totals.Tickets)
	assert.Equal(t, repo.counts["priority"], overview.ByPriority)

	cached, cacheHit, err := svc.Overview(ctx)
	require.NoError(t, err)
	assert.True(t, cacheHit)
	assert.Equal(t, overview, cached)
	assert.Equal(t, 1, repo.calls["Totals"])
	assert.Equal(t, 1, repo.calls["TicketCountsBy:type"])
}

func TestAnalyticsServiceOverviewErrorPassthrough(t *testing.T) {
	repo := &mockAnalyticsRepo{totalsErr: assert.AnError}
	svc := newAnalyticsForTest(repo, nil)

	_, _, err := svc.Overview(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInternal.Status, appErr.Status)
}

func TestAnalyticsServiceProjectsCompletionRate(t *testing.T) {
	repo := &mockAnalyticsRepo{projects: []models.ProjectTicketStats{
		{ProjectID: "p1", Name: "Core", TicketCount: 8, ResolvedTickets: 6},
		{ProjectID: "p2", Name: "Empty"},
	}}
	svc := newAnalyticsForTest(repo, nil)

	summaries, cacheHit, err := svc.Projects(context.Background())
	require.NoError(t, err)
	assert.False(t, cacheHit)
	require.Len(t, summaries, 2)
	assert.Equal(t, 75.0, summaries[0].CompletionRate)
	assert.Equal(t, 0.0, summaries[1].CompletionRate)
}

func TestAnalyticsServiceTrendsWindow(t *testing.T) {
	repo := &mockAnalyticsRepo{trend: []models.DailyTrendPoint{{Day: marchNow(), Created: 1}}}
	svc := newAnalyticsForTest(repo, &stubCacheRepo{})

	points, _, err := svc.Trends(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, points, 1)
	assert.Equal(t, time.Date(2024, 3, 19, 0, 0, 0, 0, time.UTC), repo.trendSince)
	assert.Equal(t, time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC), repo.trendUntil)

	_, cacheHit, err := svc.Trends(context.Background(), 30)
	require.NoError(t, err)
	assert.False(t, cacheHit)
	assert.Equal(t, 2, repo.calls["DailyTrend"])
}

func TestAnalyticsServiceTeamAndActivity(t *testing.T) {
	repo := &mockAnalyticsRepo{
		team:     []models.TeamMemberStats{{UserID: "u1", AssignedTickets: 3, ResolvedTickets: 2, OpenTickets: 1}},
		activity: []models.UserActivity{{UserID: "u1", Comments: 4}},
	}
	svc := newAnalyticsForTest(repo, nil)

	team, _, err := svc.Team(context.Background())
	require.NoError(t, err)
	assert.Equal(t, repo.team, team)

	activity, _, err := svc.UserActivity(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, repo.activity, activity)
}

func TestParseAnalyticsDays(t *testing.T) {
	days, err := ParseAnalyticsDays("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAnalyticsDays, days)

	days, err = ParseAnalyticsDays("90")
	require.NoError(t, err)
	assert.Equal(t, 90, days)

	for _, raw := range []string{"0", "366", "abc", "-4"} {
		_, err := ParseAnalyticsDays(raw)
		assert.Error(t, err, raw)
	}
}

func TestMakeAnalyticsCacheKey(t *testing.T) {
	assert.Equal(t, "analytics:trends:7:2024-03-25", makeAnalyticsCacheKey("trends", "7", "2024-03-25"))
	assert.Equal(t, "analytics:a|b", makeAnalyticsCacheKey("", "a:b"))
}

func TestAnalyticsServiceSystemMetrics(t *testing.T) {
	svc := newAnalyticsForTest(&mockAnalyticsRepo{}, nil)
	_, _, err := svc.Team(context.Background())
	require.NoError(t, err)

	snapshot := svc.SystemMetrics()
	assert.Equal(t, uint64(1), snapshot.DBQueryCount)
}
