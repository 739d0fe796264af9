package models

import "time"

// TrendWindows holds the lower bounds of the fixed reporting windows.
// LastMonth spans [LastMonth, Month).
type TrendWindows struct {
	Today     time.Time
	Week      time.Time
	Month     time.Time
	LastMonth time.Time
	Quarter   time.Time
}

// TicketWindowCounts is the raw output of the windowed ticket counting query.
type TicketWindowCounts struct {
	Total             int `db:"total" json:"total"`
	Today             int `db:"today" json:"today"`
	Week              int `db:"week" json:"week"`
	Month             int `db:"month" json:"month"`
	LastMonth         int `db:"last_month" json:"lastMonth"`
	Quarter           int `db:"quarter" json:"quarter"`
	ResolvedWeek      int `db:"resolved_week" json:"resolvedWeek"`
	ResolvedMonth     int `db:"resolved_month" json:"resolvedMonth"`
	ResolvedQuarter   int `db:"resolved_quarter" json:"resolvedQuarter"`
	HighPriorityWeek  int `db:"high_priority_week" json:"highPriorityWeek"`
	HighPriorityMonth int `db:"high_priority_month" json:"highPriorityMonth"`
}

// TrendDataStatus tags a TrendReport as empty or computed.
type TrendDataStatus string

const (
	TrendDataNoData   TrendDataStatus = "no_data"
	TrendDataComputed TrendDataStatus = "ok"
)

// TrendMetrics are the period counts and derived ratios of the trend analyzer.
type TrendMetrics struct {
	TicketsToday          int     `json:"ticketsToday"`
	TicketsThisWeek       int     `json:"ticketsThisWeek"`
	TicketsThisMonth      int     `json:"ticketsThisMonth"`
	TicketsLastMonth      int     `json:"ticketsLastMonth"`
	TicketsThisQuarter    int     `json:"ticketsThisQuarter"`
	ResolvedThisWeek      int     `json:"resolvedThisWeek"`
	ResolvedThisMonth     int     `json:"resolvedThisMonth"`
	ResolvedThisQuarter   int     `json:"resolvedThisQuarter"`
	HighPriorityThisWeek  int     `json:"highPriorityThisWeek"`
	HighPriorityThisMonth int     `json:"highPriorityThisMonth"`
	WeeklyGrowth          float64 `json:"weeklyGrowth"`
	MonthlyGrowth         float64 `json:"monthlyGrowth"`
	ResolutionRate        float64 `json:"resolutionRate"`
	HighPriorityRate      float64 `json:"highPriorityRate"`
}

// TrendReport is either empty (no tickets at all) or carries computed metrics.
// Build it with NewEmptyTrendReport or NewTrendReport.
type TrendReport struct {
	DataStatus TrendDataStatus `json:"dataStatus"`
	Metrics    TrendMetrics    `json:"metrics"`
}

// NewEmptyTrendReport returns the no-data variant with all metrics zeroed.
func NewEmptyTrendReport() TrendReport {
	return TrendReport{DataStatus: TrendDataNoData}
}

// NewTrendReport returns the computed variant.
func NewTrendReport(m TrendMetrics) TrendReport {
	return TrendReport{DataStatus: TrendDataComputed, Metrics: m}
}

// IsEmpty reports whether the report is the no-data variant.
func (r TrendReport) IsEmpty() bool {
	return r.DataStatus != TrendDataComputed
}

// MemberPerformanceRow is the per-assignee aggregate returned by the store.
type MemberPerformanceRow struct {
	UserID            string   `db:"user_id"`
	Name              string   `db:"name"`
	Email             string   `db:"email"`
	AssignedCount     int      `db:"assigned_count"`
	ResolvedCount     int      `db:"resolved_count"`
	AvgResolutionDays *float64 `db:"avg_resolution_days"`
}

// MemberPerformance describes one assignee's month-to-date output.
type MemberPerformance struct {
	UserID            string   `json:"userId"`
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	AssignedCount     int      `json:"assignedCount"`
	ResolvedCount     int      `json:"resolvedCount"`
	AvgResolutionTime *float64 `json:"avgResolutionTime"`
	ResolutionRate    float64  `json:"resolutionRate"`
}

// TeamPerformance aggregates member rollups for the current month.
type TeamPerformance struct {
	Members            []MemberPerformance `json:"members"`
	MemberCount        int                 `json:"memberCount"`
	TotalAssigned      int                 `json:"totalAssigned"`
	TotalResolved      int                 `json:"totalResolved"`
	TeamResolutionRate float64             `json:"teamResolutionRate"`
	AvgResolutionTime  float64             `json:"avgResolutionTime"`
	TopPerformer       *MemberPerformance  `json:"topPerformer"`
}

// ProjectTicketStats is the per-project ticket aggregate returned by the store.
type ProjectTicketStats struct {
	ProjectID           string        `db:"project_id" json:"projectId"`
	Name                string        `db:"name" json:"name"`
	Status              ProjectStatus `db:"status" json:"status"`
	TicketCount         int           `db:"ticket_count" json:"ticketCount"`
	OpenTickets         int           `db:"open_tickets" json:"openTickets"`
	HighPriorityTickets int           `db:"high_priority_tickets" json:"highPriorityTickets"`
	ResolvedTickets     int           `db:"resolved_tickets" json:"resolvedTickets"`
}

// HealthBucket classifies a project health score.
type HealthBucket string

const (
	HealthExcellent HealthBucket = "excellent"
	HealthGood      HealthBucket = "good"
	HealthFair      HealthBucket = "fair"
	HealthPoor      HealthBucket = "poor"
)

// ProjectHealth is the scored view of a single project.
type ProjectHealth struct {
	ProjectTicketStats
	HealthScore float64      `json:"healthScore"`
	Health      HealthBucket `json:"health"`
	Critical    bool         `json:"critical"`
}

// HealthDistribution counts projects per health bucket.
type HealthDistribution struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Fair      int `json:"fair"`
	Poor      int `json:"poor"`
}

// ProjectHealthReport summarises health across all projects.
type ProjectHealthReport struct {
	Projects         []ProjectHealth    `json:"projects"`
	TotalProjects    int                `json:"totalProjects"`
	ActiveProjects   int                `json:"activeProjects"`
	AvgHealthScore   float64            `json:"avgHealthScore"`
	CriticalProjects int                `json:"criticalProjects"`
	Distribution     HealthDistribution `json:"distribution"`
}

// DailyTicketCount is one calendar day of created and resolved tickets.
type DailyTicketCount struct {
	Day      time.Time `db:"day" json:"day"`
	Tickets  int       `db:"tickets" json:"tickets"`
	Resolved int       `db:"resolved" json:"resolved"`
}

// TrendDirection is the coarse direction of ticket volume.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// WorkloadLevel buckets open tickets per user.
type WorkloadLevel string

const (
	WorkloadHigh   WorkloadLevel = "High"
	WorkloadMedium WorkloadLevel = "Medium"
	WorkloadLow    WorkloadLevel = "Low"
)

// TicketForecast is the next-week volume projection.
type TicketForecast struct {
	PredictedNextWeek    int            `json:"predictedNextWeek"`
	PredictedResolutions int            `json:"predictedResolutions"`
	Confidence           int            `json:"confidence"`
	Trend                TrendDirection `json:"trend"`
	AvgDailyTickets      float64        `json:"avgDailyTickets"`
	AvgDailyResolved     float64        `json:"avgDailyResolved"`
}

// WorkloadForecast relates open tickets to team capacity.
type WorkloadForecast struct {
	OpenTickets     int           `json:"openTickets"`
	TotalUsers      int           `json:"totalUsers"`
	WorkloadPerUser float64       `json:"workloadPerUser"`
	Level           WorkloadLevel `json:"level"`
}

// PerformanceForecast summarises expected throughput.
// AvgResolutionTime is rendered as "<n> days" or "N/A".
type PerformanceForecast struct {
	AvgResolutionTime string  `json:"avgResolutionTime"`
	SuccessRate       float64 `json:"successRate"`
}

// PredictionReport bundles the short-horizon forecasts.
type PredictionReport struct {
	Tickets     TicketForecast      `json:"tickets"`
	Workload    WorkloadForecast    `json:"workload"`
	Performance PerformanceForecast `json:"performance"`
}

// RecommendationPriority orders advisory items.
type RecommendationPriority string

const (
	RecommendationHigh   RecommendationPriority = "high"
	RecommendationMedium RecommendationPriority = "medium"
	RecommendationLow    RecommendationPriority = "low"
)

// Recommendation is a rule-produced advisory item.
type Recommendation struct {
	Priority    RecommendationPriority `json:"priority"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Impact      string                 `json:"impact"`
	Effort      string                 `json:"effort"`
	Category    string                 `json:"category"`
	Data        map[string]interface{} `json:"data"`
}

// InsightsSummary re-derives top-line numbers from the analyzers.
type InsightsSummary struct {
	OverallHealth    float64       `json:"overallHealth"`
	TeamEfficiency   float64       `json:"teamEfficiency"`
	ProjectStability float64       `json:"projectStability"`
	RiskLevel        WorkloadLevel `json:"riskLevel"`
}

// ComprehensiveAnalysis is the full output of one insights run.
type ComprehensiveAnalysis struct {
	Timestamp       time.Time           `json:"timestamp"`
	Trends          TrendReport         `json:"trends"`
	TeamPerformance TeamPerformance     `json:"teamPerformance"`
	ProjectHealth   ProjectHealthReport `json:"projectHealth"`
	Predictions     PredictionReport    `json:"predictions"`
	Recommendations []Recommendation    `json:"recommendations"`
	Summary         InsightsSummary     `json:"summary"`
}
