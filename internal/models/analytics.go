package models

import "time"

// AnalyticsTotals holds system-wide entity counts.
type AnalyticsTotals struct {
	Projects        int `db:"projects" json:"projects"`
	Tickets         int `db:"tickets" json:"tickets"`
	OpenTickets     int `db:"open_tickets" json:"openTickets"`
	ResolvedTickets int `db:"resolved_tickets" json:"resolvedTickets"`
	Users           int `db:"users" json:"users"`
	Comments        int `db:"comments" json:"comments"`
}

// CountByKey is a generic grouped count row.
type CountByKey struct {
	Key   string `db:"key" json:"key"`
	Count int    `db:"count" json:"count"`
}

// AnalyticsOverview is the payload of the overview endpoint.
type AnalyticsOverview struct {
	Totals     AnalyticsTotals `json:"totals"`
	ByStatus   []CountByKey    `json:"byStatus"`
	ByPriority []CountByKey    `json:"byPriority"`
	ByType     []CountByKey    `json:"byType"`
}

// ProjectSummary is the per-project row of the projects endpoint.
type ProjectSummary struct {
	ProjectTicketStats
	CompletionRate float64 `json:"completionRate"`
}

// TicketTrendFilter scopes the daily trend series.
type TicketTrendFilter struct {
	Since time.Time
}

// DailyTrendPoint is one day of created and resolved ticket counts.
type DailyTrendPoint struct {
	Day      time.Time `db:"day" json:"day"`
	Created  int       `db:"created" json:"created"`
	Resolved int       `db:"resolved" json:"resolved"`
}

// UserActivity summarises what a user did within the requested window.
type UserActivity struct {
	UserID          string   `db:"user_id" json:"userId"`
	Name            string   `db:"name" json:"name"`
	Email           string   `db:"email" json:"email"`
	Role            UserRole `db:"role" json:"role"`
	TicketsReported int      `db:"tickets_reported" json:"ticketsReported"`
	TicketsAssigned int      `db:"tickets_assigned" json:"ticketsAssigned"`
	Comments        int      `db:"comments" json:"comments"`
}

// TeamMemberStats is the all-time workload view of a team member.
type TeamMemberStats struct {
	UserID          string   `db:"user_id" json:"userId"`
	Name            string   `db:"name" json:"name"`
	Email           string   `db:"email" json:"email"`
	Role            UserRole `db:"role" json:"role"`
	AssignedTickets int      `db:"assigned_tickets" json:"assignedTickets"`
	ResolvedTickets int      `db:"resolved_tickets" json:"resolvedTickets"`
	OpenTickets     int      `db:"open_tickets" json:"openTickets"`
}

// AnalyticsSystemMetrics represents system level analytics captured from instrumentation.
type AnalyticsSystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
