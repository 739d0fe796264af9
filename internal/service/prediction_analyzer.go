package service

import (
	"fmt"
	"math"
	"time"

	"github.com/noah-isme/issue-insights-api/internal/models"
)

const (
	predictionSeriesDays = 30
	predictionRecentDays = 7

	increasingMultiplier = 1.1
	decreasingMultiplier = 0.9
	stableMultiplier     = 1.0

	increasingConfidence = 75
	decreasingConfidence = 70
	stableConfidence     = 85

	workloadHighAbove   = 10.0
	workloadMediumAbove = 5.0

	resolutionUnavailable = "N/A"
)

// predictionSeriesStart is the first calendar day of the trailing series ending today.
func predictionSeriesStart(now time.Time) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return today.AddDate(0, 0, -(predictionSeriesDays - 1))
}

// densifySeries lays rows onto consecutive calendar days starting at start, filling gaps with zeros.
func densifySeries(rows []models.DailyTicketCount, start time.Time, days int) []models.DailyTicketCount {
	byDay := make(map[string]models.DailyTicketCount, len(rows))
	for _, row := range rows {
		key := row.Day.Format("2006-01-02")
		existing := byDay[key]
		existing.Tickets += row.Tickets
		existing.Resolved += row.Resolved
		byDay[key] = existing
	}

	series := make([]models.DailyTicketCount, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		point := byDay[day.Format("2006-01-02")]
		point.Day = day
		series = append(series, point)
	}
	return series
}

func ticketCounts(series []models.DailyTicketCount) (tickets, resolved []float64) {
	tickets = make([]float64, 0, len(series))
	resolved = make([]float64, 0, len(series))
	for _, point := range series {
		tickets = append(tickets, float64(point.Tickets))
		resolved = append(resolved, float64(point.Resolved))
	}
	return tickets, resolved
}

func classifyTrend(tickets []float64) models.TrendDirection {
	half := len(tickets) / 2
	first, second := mean(tickets[:half]), mean(tickets[half:])
	switch {
	case second > first:
		return models.TrendIncreasing
	case second < first:
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}

func trendFactors(trend models.TrendDirection) (float64, int) {
	switch trend {
	case models.TrendIncreasing:
		return increasingMultiplier, increasingConfidence
	case models.TrendDecreasing:
		return decreasingMultiplier, decreasingConfidence
	default:
		return stableMultiplier, stableConfidence
	}
}

// workloadForecast divides open tickets among team members; zero users yield zero workload.
func workloadForecast(openTickets, totalUsers int) models.WorkloadForecast {
	forecast := models.WorkloadForecast{OpenTickets: openTickets, TotalUsers: totalUsers, Level: models.WorkloadLow}
	if totalUsers > 0 {
		forecast.WorkloadPerUser = round1(float64(openTickets) / float64(totalUsers))
	}
	switch {
	case forecast.WorkloadPerUser > workloadHighAbove:
		forecast.Level = models.WorkloadHigh
	case forecast.WorkloadPerUser > workloadMediumAbove:
		forecast.Level = models.WorkloadMedium
	}
	return forecast
}

// analyzePredictions forecasts next week's volume from a dense daily series.
func analyzePredictions(series []models.DailyTicketCount, openTickets, totalUsers int) models.PredictionReport {
	tickets, resolved := ticketCounts(series)

	recentFrom := len(series) - predictionRecentDays
	if recentFrom < 0 {
		recentFrom = 0
	}
	avgTickets := mean(tickets[recentFrom:])
	avgResolved := mean(resolved[recentFrom:])

	trend := classifyTrend(tickets)
	multiplier, confidence := trendFactors(trend)

	performance := models.PerformanceForecast{
		AvgResolutionTime: resolutionUnavailable,
		SuccessRate:       percentOf(avgResolved, avgTickets),
	}
	if avgResolved > 0 {
		performance.AvgResolutionTime = fmt.Sprintf("%.1f days", float64(predictionRecentDays)/avgResolved)
	}

	return models.PredictionReport{
		Tickets: models.TicketForecast{
			PredictedNextWeek:    int(math.Round(avgTickets * 7 * multiplier)),
			PredictedResolutions: int(math.Round(avgResolved * 7 * multiplier)),
			Confidence:           confidence,
			Trend:                trend,
			AvgDailyTickets:      round1(avgTickets),
			AvgDailyResolved:     round1(avgResolved),
		},
		Workload:    workloadForecast(openTickets, totalUsers),
		Performance: performance,
	}
}
