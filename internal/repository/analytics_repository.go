package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/issue-insights-api/internal/models"
)

// AnalyticsRepository exposes read-optimised queries for the analytics endpoints.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository instantiates the repository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

const analyticsTotalsQuery = `SELECT
        (SELECT COUNT(*) FROM projects) AS projects,
        (SELECT COUNT(*) FROM tickets) AS tickets,
        (SELECT COUNT(*) FROM tickets WHERE status = ANY($1)) AS open_tickets,
        (SELECT COUNT(*) FROM tickets WHERE status = ANY($2)) AS resolved_tickets,
        (SELECT COUNT(*) FROM users) AS users,
        (SELECT COUNT(*) FROM comments) AS comments`

// Totals returns system-wide entity counts.
func (r *AnalyticsRepository) Totals(ctx context.Context) (*models.AnalyticsTotals, error) {
	open := pq.Array([]string{string(models.TicketStatusOpen), string(models.TicketStatusInProgress)})
	done := pq.Array([]string{string(models.TicketStatusResolved), string(models.TicketStatusClosed)})
	var totals models.AnalyticsTotals
	if err := r.db.GetContext(ctx, &totals, analyticsTotalsQuery, open, done); err != nil {
		return nil, fmt.Errorf("query analytics totals: %w", err)
	}
	return &totals, nil
}

var ticketGroupColumns = map[string]string{
	"status":   "status",
	"priority": "priority",
	"type":     "type",
}

// TicketCountsBy groups tickets by status, priority or type.
func (r *AnalyticsRepository) TicketCountsBy(ctx context.Context, field string) ([]models.CountByKey, error) {
	column, ok := ticketGroupColumns[field]
	if !ok {
		return nil, fmt.Errorf("unsupported ticket grouping %q", field)
	}
	query := fmt.Sprintf("SELECT %s AS key, COUNT(*) AS count FROM tickets GROUP BY %s ORDER BY count DESC, key ASC", column, column)
	var rows []models.CountByKey
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("query tickets by %s: %w", field, err)
	}
	return rows, nil
}

// Both the generated days and the ticket buckets are UTC calendar days.
const dailyTrendQuery = `SELECT d.day AS day,
        COALESCE(c.created, 0) AS created,
        COALESCE(r.resolved, 0) AS resolved
        FROM generate_series(DATE_TRUNC('day', $1::timestamptz AT TIME ZONE 'UTC'), DATE_TRUNC('day', $2::timestamptz AT TIME ZONE 'UTC'), INTERVAL '1 day') AS d(day)
        LEFT JOIN (SELECT DATE_TRUNC('day', created_at AT TIME ZONE 'UTC') AS day, COUNT(*) AS created FROM tickets WHERE created_at >= $1 GROUP BY 1) c ON c.day = d.day
        LEFT JOIN (SELECT DATE_TRUNC('day', resolved_at AT TIME ZONE 'UTC') AS day, COUNT(*) AS resolved FROM tickets WHERE resolved_at >= $1 GROUP BY 1) r ON r.day = d.day
        ORDER BY d.day ASC`

// DailyTrend returns a dense per-day series of created and resolved tickets between since and until.
func (r *AnalyticsRepository) DailyTrend(ctx context.Context, since, until time.Time) ([]models.DailyTrendPoint, error) {
	var rows []models.DailyTrendPoint
	if err := r.db.SelectContext(ctx, &rows, dailyTrendQuery, since, until); err != nil {
		return nil, fmt.Errorf("query daily trend: %w", err)
	}
	return rows, nil
}

const userActivityQuery = `SELECT u.id AS user_id, u.name, u.email, u.role,
        (SELECT COUNT(*) FROM tickets t WHERE t.reported_by = u.id AND t.created_at >= $1) AS tickets_reported,
        (SELECT COUNT(*) FROM tickets t WHERE t.assigned_to = u.id AND t.created_at >= $1) AS tickets_assigned,
        (SELECT COUNT(*) FROM comments c WHERE c.author_id = u.id AND c.created_at >= $1) AS comments
        FROM users u
        ORDER BY comments DESC, tickets_reported DESC, u.name ASC`

// UserActivity returns per-user activity since the given instant.
func (r *AnalyticsRepository) UserActivity(ctx context.Context, since time.Time) ([]models.UserActivity, error) {
	var rows []models.UserActivity
	if err := r.db.SelectContext(ctx, &rows, userActivityQuery, since); err != nil {
		return nil, fmt.Errorf("query user activity: %w", err)
	}
	return rows, nil
}

const teamStatsQuery = `SELECT u.id AS user_id, u.name, u.email, u.role,
        COUNT(t.id) AS assigned_tickets,
        COUNT(t.id) FILTER (WHERE t.status = ANY($1)) AS resolved_tickets,
        COUNT(t.id) FILTER (WHERE t.status = ANY($2)) AS open_tickets
        FROM users u
        LEFT JOIN tickets t ON t.assigned_to = u.id
        WHERE u.role = ANY($3)
        GROUP BY u.id, u.name, u.email, u.role
        ORDER BY resolved_tickets DESC, u.name ASC`

// TeamStats returns all-time ticket workload per team member.
func (r *AnalyticsRepository) TeamStats(ctx context.Context) ([]models.TeamMemberStats, error) {
	done := pq.Array([]string{string(models.TicketStatusResolved), string(models.TicketStatusClosed)})
	open := pq.Array([]string{string(models.TicketStatusOpen), string(models.TicketStatusInProgress)})
	roles := make([]string, 0, len(models.ActiveRoles))
	for _, role := range models.ActiveRoles {
		roles = append(roles, string(role))
	}
	var rows []models.TeamMemberStats
	if err := r.db.SelectContext(ctx, &rows, teamStatsQuery, done, open, pq.Array(roles)); err != nil {
		return nil, fmt.Errorf("query team stats: %w", err)
	}
	return rows, nil
}
