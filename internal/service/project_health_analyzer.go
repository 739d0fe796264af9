package service

import "github.com/noah-isme/issue-insights-api/internal/models"

// Health score weights and bucket thresholds.
const (
	healthResolvedWeight = 50.0
	healthSeverityWeight = 30.0
	healthActiveWeight   = 20.0

	healthExcellentMin  = 80.0
	healthGoodMin       = 60.0
	healthFairMin       = 40.0
	healthCriticalBelow = 30.0
)

// projectHealthScore weighs resolved ratio, inverse high-priority ratio and active status.
func projectHealthScore(s models.ProjectTicketStats) float64 {
	denom := float64(s.TicketCount)
	if denom < 1 {
		denom = 1
	}
	score := healthResolvedWeight*(float64(s.ResolvedTickets)/denom) +
		healthSeverityWeight*(1-float64(s.HighPriorityTickets)/denom)
	if s.Status == models.ProjectStatusActive {
		score += healthActiveWeight
	}
	return round1(clamp(score, 0, 100))
}

func healthBucket(score float64) models.HealthBucket {
	switch {
	case score >= healthExcellentMin:
		return models.HealthExcellent
	case score >= healthGoodMin:
		return models.HealthGood
	case score >= healthFairMin:
		return models.HealthFair
	default:
		return models.HealthPoor
	}
}

// analyzeProjectHealth scores every project and summarises the portfolio.
func analyzeProjectHealth(stats []models.ProjectTicketStats) models.ProjectHealthReport {
	report := models.ProjectHealthReport{Projects: make([]models.ProjectHealth, 0, len(stats))}

	var scoreSum float64
	for _, s := range stats {
		score := projectHealthScore(s)
		project := models.ProjectHealth{
			ProjectTicketStats: s,
			HealthScore:        score,
			Health:             healthBucket(score),
			Critical:           score < healthCriticalBelow,
		}
		report.Projects = append(report.Projects, project)

		scoreSum += score
		if s.Status == models.ProjectStatusActive {
			report.ActiveProjects++
		}
		if project.Critical {
			report.CriticalProjects++
		}
		switch project.Health {
		case models.HealthExcellent:
			report.Distribution.Excellent++
		case models.HealthGood:
			report.Distribution.Good++
		case models.HealthFair:
			report.Distribution.Fair++
		default:
			report.Distribution.Poor++
		}
	}

	report.TotalProjects = len(stats)
	if report.TotalProjects > 0 {
		report.AvgHealthScore = round1(scoreSum / float64(report.TotalProjects))
	}
	return report
}
