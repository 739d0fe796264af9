package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/issue-insights-api/internal/models"
)

func testWindows() models.TrendWindows {
	now := time.Date(2024, 3, 25, 12, 0, 0, 0, time.UTC)
	return models.TrendWindows{
		Today:     time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC),
		Week:      now.AddDate(0, 0, -7),
		Month:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		LastMonth: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Quarter:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestTicketWindowCounts(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewInsightsRepository(db)
	windows := testWindows()

	rows := sqlmock.NewRows([]string{"total", "today", "week", "month", "last_month", "quarter",
		"resolved_week", "resolved_month", "resolved_quarter", "high_priority_week", "high_priority_month"}).
		AddRow(40, 2, 9, 20, 12, 38, 6, 15, 30, 3, 5)
	mock.ExpectQuery(`COUNT\(\*\) FILTER \(WHERE created_at >= \$1\) AS today`).
		WithArgs(windows.Today, windows.Week, windows.Month, windows.LastMonth, windows.Quarter, "High").
		WillReturnRows(rows)

	counts, err := repo.TicketWindowCounts(context.Background(), windows)
	require.NoError(t, err)
	assert.Equal(t, 40, counts.Total)
	assert.Equal(t, 12, counts.LastMonth)
	assert.Equal(t, 15, counts.ResolvedMonth)
	assert.Equal(t, 5, counts.HighPriorityMonth)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketWindowCountsError(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewInsightsRepository(db)

	mock.ExpectQuery(`FROM tickets`).WillReturnError(errors.New("connection refused"))

	_, err := repo.TicketWindowCounts(context.Background(), testWindows())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query ticket window counts")
}

func TestTeamPerformanceScansNullAverage(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewInsightsRepository(db)
	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"user_id", "name", "email", "assigned_count", "resolved_count", "avg_resolution_days"}).
		AddRow("u1", "Ada", "ada@example.com", 5, 4, 2.5).
		AddRow("u2", "Lin", "lin@example.com", 3, 0, nil)
	mock.ExpectQuery(`JOIN users u ON u.id = t.assigned_to`).
		WithArgs(since, "Resolved").
		WillReturnRows(rows)

	members, err := repo.TeamPerformance(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, members, 2)
	require.NotNil(t, members[0].AvgResolutionDays)
	assert.InDelta(t, 2.5, *members[0].AvgResolutionDays, 0.0001)
	assert.Nil(t, members[1].AvgResolutionDays)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectTicketStats(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewInsightsRepository(db)

	rows := sqlmock.NewRows([]string{"project_id", "name", "status", "ticket_count", "open_tickets", "high_priority_tickets", "resolved_tickets"}).
		AddRow("p1", "Website", "Active", 10, 1, 1, 8).
		AddRow("p2", "Empty", "Planning", 0, 0, 0, 0)
	mock.ExpectQuery(`LEFT JOIN tickets t ON t.project_id = p.id`).
		WithArgs(sqlmock.AnyArg(), "High", "Resolved").
		WillReturnRows(rows)

	stats, err := repo.ProjectTicketStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, models.ProjectStatusActive, stats[0].Status)
	assert.Equal(t, 8, stats[0].ResolvedTickets)
	assert.Equal(t, 0, stats[1].TicketCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyTicketSeries(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewInsightsRepository(db)
	since := time.Date(2024, 2, 24, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"day", "tickets", "resolved"}).
		AddRow(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 3, 1).
		AddRow(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), 2, 2)
	mock.ExpectQuery(`DATE_TRUNC\('day', created_at AT TIME ZONE 'UTC'\)`).
		WithArgs(since, sqlmock.AnyArg()).
		WillReturnRows(rows)

	series, err := repo.DailyTicketSeries(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, 3, series[0].Tickets)
	assert.Equal(t, 2, series[1].Resolved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenTicketAndActiveUserCounts(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewInsightsRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tickets WHERE status = ANY\(\$1\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(17))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE role = ANY\(\$1\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	open, err := repo.OpenTicketCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 17, open)

	users, err := repo.ActiveUserCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, users)
	assert.NoError(t, mock.ExpectationsWereMet())
}
