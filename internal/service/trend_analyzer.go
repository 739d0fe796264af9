package service

import (
	"time"

	"github.com/noah-isme/issue-insights-api/internal/models"
)

// trendWindows anchors the reporting windows at now, in now's location.
func trendWindows(now time.Time) models.TrendWindows {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	quarterMonth := time.Month((int(now.Month())-1)/3*3 + 1)
	return models.TrendWindows{
		Today:     today,
		Week:      now.AddDate(0, 0, -7),
		Month:     month,
		LastMonth: month.AddDate(0, -1, 0),
		Quarter:   time.Date(now.Year(), quarterMonth, 1, 0, 0, 0, 0, loc),
	}
}

// analyzeTrends derives period-over-period ratios from windowed counts.
// weeklyGrowth extrapolates today's volume over seven days against the trailing week.
func analyzeTrends(c models.TicketWindowCounts) models.TrendReport {
	if c.Total == 0 {
		return models.NewEmptyTrendReport()
	}

	return models.NewTrendReport(models.TrendMetrics{
		TicketsToday:          c.Today,
		TicketsThisWeek:       c.Week,
		TicketsThisMonth:      c.Month,
		TicketsLastMonth:      c.LastMonth,
		TicketsThisQuarter:    c.Quarter,
		ResolvedThisWeek:      c.ResolvedWeek,
		ResolvedThisMonth:     c.ResolvedMonth,
		ResolvedThisQuarter:   c.ResolvedQuarter,
		HighPriorityThisWeek:  c.HighPriorityWeek,
		HighPriorityThisMonth: c.HighPriorityMonth,
		WeeklyGrowth:          growthPercent(float64(c.Today*7), float64(c.Week)),
		MonthlyGrowth:         growthPercent(float64(c.Month), float64(c.LastMonth)),
		ResolutionRate:        percentOf(float64(c.ResolvedMonth), float64(c.Month)),
		HighPriorityRate:      percentOf(float64(c.HighPriorityMonth), float64(c.Month)),
	})
}
