package service

import (
	"context"
	"fmt"

	"github.com/noah-isme/issue-insights-api/internal/dto"
	"github.com/noah-isme/issue-insights-api/internal/models"
)

const (
	cardTrendUp     = "up"
	cardTrendDown   = "down"
	cardTrendStable = "stable"
)

// Dashboard runs the full analysis and shapes it into dashboard cards.
func (s *InsightsService) Dashboard(ctx context.Context) (*dto.AIAnalyticsResponse, error) {
	analysis, err := s.Analyze(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.AIAnalyticsResponse{
		Timestamp:       analysis.Timestamp,
		Insights:        insightCards(analysis),
		Predictions:     analysis.Predictions,
		Recommendations: analysis.Recommendations,
		Summary:         analysis.Summary,
		Analysis:        *analysis,
	}, nil
}

func insightCards(a *models.ComprehensiveAnalysis) []dto.InsightCard {
	trends := a.Trends.Metrics
	team := a.TeamPerformance
	projects := a.ProjectHealth
	workload := a.Predictions.Workload

	volume := dto.InsightCard{
		Type:        "ticket_volume",
		Title:       "Ticket volume",
		Value:       fmt.Sprintf("%d this month", trends.TicketsThisMonth),
		Change:      trends.MonthlyGrowth,
		Trend:       directionOf(trends.MonthlyGrowth),
		Description: fmt.Sprintf("%d tickets this week, %d today.", trends.TicketsThisWeek, trends.TicketsToday),
	}
	if a.Trends.IsEmpty() {
		volume.Value = "No tickets yet"
		volume.Description = "Ticket trends appear once the first ticket is reported."
	}

	cards := []dto.InsightCard{
		volume,
		{
			Type:        "resolution",
			Title:       "Resolution rate",
			Value:       fmt.Sprintf("%.1f%%", trends.ResolutionRate),
			Change:      round1(trends.ResolutionRate - resolutionRateFloor),
			Trend:       directionOf(trends.ResolutionRate - resolutionRateFloor),
			Description: fmt.Sprintf("%d of %d tickets resolved this month.", trends.ResolvedThisMonth, trends.TicketsThisMonth),
		},
		{
			Type:        "team",
			Title:       "Team efficiency",
			Value:       fmt.Sprintf("%.1f%%", team.TeamResolutionRate),
			Change:      teamRateChange(team),
			Trend:       directionOf(teamRateChange(team)),
			Description: teamCardDescription(team),
		},
		{
			Type:        "project_health",
			Title:       "Project health",
			Value:       fmt.Sprintf("%.1f / 100", projects.AvgHealthScore),
			Change:      float64(projects.CriticalProjects),
			Trend:       projectTrend(projects),
			Description: fmt.Sprintf("%d active of %d projects, %d critical.", projects.ActiveProjects, projects.TotalProjects, projects.CriticalProjects),
		},
		{
			Type:        "workload",
			Title:       "Workload",
			Value:       string(workload.Level),
			Change:      workload.WorkloadPerUser,
			Trend:       workloadTrend(a.Predictions.Tickets.Trend),
			Description: fmt.Sprintf("%d open tickets across %d team members.", workload.OpenTickets, workload.TotalUsers),
		},
	}
	return cards
}

func directionOf(change float64) string {
	switch {
	case change > 0:
		return cardTrendUp
	case change < 0:
		return cardTrendDown
	default:
		return cardTrendStable
	}
}

// teamRateChange is the team resolution rate relative to the floor the recommendations use,
// in percentage points. A month with nothing assigned has no rate to compare.
func teamRateChange(team models.TeamPerformance) float64 {
	if team.TotalAssigned == 0 {
		return 0
	}
	return round1(team.TeamResolutionRate - resolutionRateFloor)
}

func teamCardDescription(team models.TeamPerformance) string {
	if team.TopPerformer == nil {
		return "No tickets assigned this month."
	}
	return fmt.Sprintf("%d of %d assigned tickets resolved. Top performer: %s (%d).",
		team.TotalResolved, team.TotalAssigned, team.TopPerformer.Name, team.TopPerformer.ResolvedCount)
}

func projectTrend(report models.ProjectHealthReport) string {
	if report.CriticalProjects > 0 {
		return cardTrendDown
	}
	if report.TotalProjects > 0 && report.AvgHealthScore >= healthGoodMin {
		return cardTrendUp
	}
	return cardTrendStable
}

func workloadTrend(direction models.TrendDirection) string {
	switch direction {
	case models.TrendIncreasing:
		return cardTrendUp
	case models.TrendDecreasing:
		return cardTrendDown
	default:
		return cardTrendStable
	}
}
