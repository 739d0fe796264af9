package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/issue-insights-api/internal/models"
)

// InsightsRepository runs the aggregation queries behind the insights engine.
type InsightsRepository struct {
	db *sqlx.DB
}

// NewInsightsRepository instantiates the repository.
func NewInsightsRepository(db *sqlx.DB) *InsightsRepository {
	return &InsightsRepository{db: db}
}

const ticketWindowCountsQuery = `SELECT
        COUNT(*) AS total,
        COUNT(*) FILTER (WHERE created_at >= $1) AS today,
        COUNT(*) FILTER (WHERE created_at >= $2) AS week,
        COUNT(*) FILTER (WHERE created_at >= $3) AS month,
        COUNT(*) FILTER (WHERE created_at >= $4 AND created_at < $3) AS last_month,
        COUNT(*) FILTER (WHERE created_at >= $5) AS quarter,
        COUNT(*) FILTER (WHERE resolved_at >= $2) AS resolved_week,
        COUNT(*) FILTER (WHERE resolved_at >= $3) AS resolved_month,
        COUNT(*) FILTER (WHERE resolved_at >= $5) AS resolved_quarter,
        COUNT(*) FILTER (WHERE created_at >= $2 AND priority = $6) AS high_priority_week,
        COUNT(*) FILTER (WHERE created_at >= $3 AND priority = $6) AS high_priority_month
        FROM tickets`

// TicketWindowCounts counts tickets created, resolved and flagged high priority per window.
func (r *InsightsRepository) TicketWindowCounts(ctx context.Context, windows models.TrendWindows) (*models.TicketWindowCounts, error) {
	var counts models.TicketWindowCounts
	err := r.db.GetContext(ctx, &counts, ticketWindowCountsQuery,
		windows.Today, windows.Week, windows.Month, windows.LastMonth, windows.Quarter,
		string(models.TicketPriorityHigh))
	if err != nil {
		return nil, fmt.Errorf("query ticket window counts: %w", err)
	}
	return &counts, nil
}

const teamPerformanceQuery = `SELECT u.id AS user_id, u.name, u.email,
        COUNT(t.id) AS assigned_count,
        COUNT(t.id) FILTER (WHERE t.status = $2) AS resolved_count,
        AVG(EXTRACT(EPOCH FROM (t.resolved_at - t.created_at)) / 86400.0) FILTER (WHERE t.resolved_at IS NOT NULL) AS avg_resolution_days
        FROM tickets t
        JOIN users u ON u.id = t.assigned_to
        WHERE t.created_at >= $1
        GROUP BY u.id, u.name, u.email
        ORDER BY resolved_count DESC, u.name ASC`

// TeamPerformance aggregates tickets created since the given instant per assignee.
// Unassigned tickets and dangling assignee references are skipped by the join.
func (r *InsightsRepository) TeamPerformance(ctx context.Context, since time.Time) ([]models.MemberPerformanceRow, error) {
	var rows []models.MemberPerformanceRow
	if err := r.db.SelectContext(ctx, &rows, teamPerformanceQuery, since, string(models.TicketStatusResolved)); err != nil {
		return nil, fmt.Errorf("query team performance: %w", err)
	}
	return rows, nil
}

const projectTicketStatsQuery = `SELECT p.id AS project_id, p.name, p.status,
        COUNT(t.id) AS ticket_count,
        COUNT(t.id) FILTER (WHERE t.status = ANY($1)) AS open_tickets,
        COUNT(t.id) FILTER (WHERE t.priority = $2) AS high_priority_tickets,
        COUNT(t.id) FILTER (WHERE t.status = $3) AS resolved_tickets
        FROM projects p
        LEFT JOIN tickets t ON t.project_id = p.id
        GROUP BY p.id, p.name, p.status, p.created_at
        ORDER BY p.created_at DESC`

// ProjectTicketStats returns ticket aggregates for every project, including projects without tickets.
func (r *InsightsRepository) ProjectTicketStats(ctx context.Context) ([]models.ProjectTicketStats, error) {
	openStatuses := pq.Array([]string{string(models.TicketStatusOpen), string(models.TicketStatusInProgress)})
	var rows []models.ProjectTicketStats
	err := r.db.SelectContext(ctx, &rows, projectTicketStatsQuery,
		openStatuses, string(models.TicketPriorityHigh), string(models.TicketStatusResolved))
	if err != nil {
		return nil, fmt.Errorf("query project ticket stats: %w", err)
	}
	return rows, nil
}

// Days are bucketed in UTC whatever the session time zone is, matching the UTC windows the
// service builds.
const dailyTicketSeriesQuery = `SELECT DATE_TRUNC('day', created_at AT TIME ZONE 'UTC') AS day,
        COUNT(*) AS tickets,
        COUNT(*) FILTER (WHERE status = ANY($2)) AS resolved
        FROM tickets
        WHERE created_at >= $1
        GROUP BY 1
        ORDER BY day ASC`

// DailyTicketSeries returns per-day created and resolved counts for tickets created since the given instant.
// Days without tickets are absent.
func (r *InsightsRepository) DailyTicketSeries(ctx context.Context, since time.Time) ([]models.DailyTicketCount, error) {
	doneStatuses := pq.Array([]string{string(models.TicketStatusResolved), string(models.TicketStatusClosed)})
	var rows []models.DailyTicketCount
	if err := r.db.SelectContext(ctx, &rows, dailyTicketSeriesQuery, since, doneStatuses); err != nil {
		return nil, fmt.Errorf("query daily ticket series: %w", err)
	}
	return rows, nil
}

// OpenTicketCount counts tickets in Open or In Progress.
func (r *InsightsRepository) OpenTicketCount(ctx context.Context) (int, error) {
	openStatuses := pq.Array([]string{string(models.TicketStatusOpen), string(models.TicketStatusInProgress)})
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM tickets WHERE status = ANY($1)", openStatuses); err != nil {
		return 0, fmt.Errorf("count open tickets: %w", err)
	}
	return count, nil
}

// ActiveUserCount counts users holding one of the team roles.
func (r *InsightsRepository) ActiveUserCount(ctx context.Context) (int, error) {
	roles := make([]string, 0, len(models.ActiveRoles))
	for _, role := range models.ActiveRoles {
		roles = append(roles, string(role))
	}
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM users WHERE role = ANY($1)", pq.Array(roles)); err != nil {
		return 0, fmt.Errorf("count active users: %w", err)
	}
	return count, nil
}
