package service

import (
	"fmt"

	"github.com/noah-isme/issue-insights-api/internal/models"
)

// Recommendation thresholds. Changing them changes product behaviour.
const (
	highPriorityRateLimit   = 30.0
	resolutionRateFloor     = 60.0
	teamResolutionDaysLimit = 5.0
	monthlyDeclineLimit     = -10.0
)

type recommendationInputs struct {
	trends      models.TrendMetrics
	team        models.TeamPerformance
	projects    models.ProjectHealthReport
	predictions models.PredictionReport
}

type recommendationRule struct {
	matches func(in recommendationInputs) bool
	build   func(in recommendationInputs) models.Recommendation
}

// recommendationRules are evaluated in order; every match contributes one item.
var recommendationRules = []recommendationRule{
	{
		matches: func(in recommendationInputs) bool { return in.trends.HighPriorityRate > highPriorityRateLimit },
		build: func(in recommendationInputs) models.Recommendation {
			return models.Recommendation{
				Priority:    models.RecommendationHigh,
				Title:       "Reduce high priority bug volume",
				Description: fmt.Sprintf("%.1f%% of this month's tickets are high priority. Review recent releases and strengthen testing before deployment.", in.trends.HighPriorityRate),
				Impact:      "High",
				Effort:      "Medium",
				Category:    "quality",
				Data: map[string]interface{}{
					"highPriorityRate": in.trends.HighPriorityRate,
					"threshold":        highPriorityRateLimit,
				},
			}
		},
	},
	{
		matches: func(in recommendationInputs) bool { return in.predictions.Workload.Level == models.WorkloadHigh },
		build: func(in recommendationInputs) models.Recommendation {
			return models.Recommendation{
				Priority:    models.RecommendationHigh,
				Title:       "Team overload detected",
				Description: fmt.Sprintf("Each team member carries %.1f open tickets on average. Redistribute work or add capacity.", in.predictions.Workload.WorkloadPerUser),
				Impact:      "High",
				Effort:      "High",
				Category:    "capacity",
				Data: map[string]interface{}{
					"workloadPerUser": in.predictions.Workload.WorkloadPerUser,
					"openTickets":     in.predictions.Workload.OpenTickets,
					"totalUsers":      in.predictions.Workload.TotalUsers,
				},
			}
		},
	},
	{
		matches: func(in recommendationInputs) bool { return in.trends.ResolutionRate < resolutionRateFloor },
		build: func(in recommendationInputs) models.Recommendation {
			return models.Recommendation{
				Priority:    models.RecommendationHigh,
				Title:       "Improve resolution process",
				Description: fmt.Sprintf("Only %.1f%% of this month's tickets were resolved. Triage the backlog daily and set clear ownership.", in.trends.ResolutionRate),
				Impact:      "High",
				Effort:      "Medium",
				Category:    "process",
				Data: map[string]interface{}{
					"resolutionRate": in.trends.ResolutionRate,
					"target":         resolutionRateFloor,
				},
			}
		},
	},
	{
		matches: func(in recommendationInputs) bool { return in.projects.CriticalProjects > 0 },
		build: func(in recommendationInputs) models.Recommendation {
			return models.Recommendation{
				Priority:    models.RecommendationMedium,
				Title:       "Address critical project health",
				Description: fmt.Sprintf("%d project(s) have a health score below %.0f. Review their open high priority tickets first.", in.projects.CriticalProjects, healthCriticalBelow),
				Impact:      "Medium",
				Effort:      "Medium",
				Category:    "projects",
				Data: map[string]interface{}{
					"criticalProjects": in.projects.CriticalProjects,
					"avgHealthScore":   in.projects.AvgHealthScore,
				},
			}
		},
	},
	{
		matches: func(in recommendationInputs) bool { return in.team.AvgResolutionTime > teamResolutionDaysLimit },
		build: func(in recommendationInputs) models.Recommendation {
			return models.Recommendation{
				Priority:    models.RecommendationMedium,
				Title:       "Optimize resolution time",
				Description: fmt.Sprintf("Tickets take %.1f days to resolve on average. Break work into smaller tasks and unblock reviews sooner.", in.team.AvgResolutionTime),
				Impact:      "Medium",
				Effort:      "Low",
				Category:    "efficiency",
				Data: map[string]interface{}{
					"avgResolutionTime": in.team.AvgResolutionTime,
					"target":            teamResolutionDaysLimit,
				},
			}
		},
	},
	{
		matches: func(in recommendationInputs) bool { return in.trends.MonthlyGrowth < monthlyDeclineLimit },
		build: func(in recommendationInputs) models.Recommendation {
			return models.Recommendation{
				Priority:    models.RecommendationLow,
				Title:       "Investigate declining ticket volume",
				Description: fmt.Sprintf("Ticket volume changed %.1f%% against last month. Confirm reporting channels are still working.", in.trends.MonthlyGrowth),
				Impact:      "Low",
				Effort:      "Low",
				Category:    "monitoring",
				Data: map[string]interface{}{
					"monthlyGrowth": in.trends.MonthlyGrowth,
				},
			}
		},
	},
}

func maintainPerformanceRecommendation() models.Recommendation {
	return models.Recommendation{
		Priority:    models.RecommendationLow,
		Title:       "Maintain current performance",
		Description: "All tracked metrics are within healthy ranges. Keep the current cadence and keep monitoring.",
		Impact:      "Low",
		Effort:      "Low",
		Category:    "general",
		Data:        map[string]interface{}{},
	}
}

// generateRecommendations applies the ordered rules. The result is never empty.
// An empty trend report is evaluated with its zero metrics.
func generateRecommendations(trends models.TrendReport, team models.TeamPerformance, projects models.ProjectHealthReport, predictions models.PredictionReport) []models.Recommendation {
	in := recommendationInputs{trends: trends.Metrics, team: team, projects: projects, predictions: predictions}

	recommendations := make([]models.Recommendation, 0, len(recommendationRules))
	for _, rule := range recommendationRules {
		if rule.matches(in) {
			recommendations = append(recommendations, rule.build(in))
		}
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, maintainPerformanceRecommendation())
	}
	return recommendations
}

// summarizeInsights re-derives the top-line dashboard numbers.
func summarizeInsights(team models.TeamPerformance, projects models.ProjectHealthReport, predictions models.PredictionReport) models.InsightsSummary {
	return models.InsightsSummary{
		OverallHealth:    projects.AvgHealthScore,
		TeamEfficiency:   team.TeamResolutionRate,
		ProjectStability: percentOf(float64(projects.Distribution.Excellent), float64(projects.TotalProjects)),
		RiskLevel:        predictions.Workload.Level,
	}
}
