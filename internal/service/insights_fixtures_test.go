package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/noah-isme/issue-insights-api/internal/models"
)

// ticketStore answers the insights queries from in-memory slices the way the SQL does.
type ticketStore struct {
	mu       sync.Mutex
	tickets  []models.Ticket
	projects []models.Project
	users    []models.User
	failOn   map[string]error
	calls    map[string]int
}

func newTicketStore() *ticketStore {
	return &ticketStore{failOn: map[string]error{}, calls: map[string]int{}}
}

func (s *ticketStore) track(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[name]++
	return s.failOn[name]
}

func (s *ticketStore) callCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *ticketStore) TicketWindowCounts(_ context.Context, w models.TrendWindows) (*models.TicketWindowCounts, error) {
	if err := s.track("TicketWindowCounts"); err != nil {
		return nil, err
	}
	since := func(t, from time.Time) bool { return !t.Before(from) }
	counts := &models.TicketWindowCounts{}
	for _, t := range s.tickets {
		counts.Total++
		if since(t.CreatedAt, w.Today) {
			counts.Today++
		}
		if since(t.CreatedAt, w.Week) {
			counts.Week++
			if t.Priority == models.TicketPriorityHigh {
				counts.HighPriorityWeek++
			}
		}
		if since(t.CreatedAt, w.Month) {
			counts.Month++
			if t.Priority == models.TicketPriorityHigh {
				counts.HighPriorityMonth++
			}
		}
		if since(t.CreatedAt, w.LastMonth) && t.CreatedAt.Before(w.Month) {
			counts.LastMonth++
		}
		if since(t.CreatedAt, w.Quarter) {
			counts.Quarter++
		}
		if t.ResolvedAt != nil {
			if since(*t.ResolvedAt, w.Week) {
				counts.ResolvedWeek++
			}
			if since(*t.ResolvedAt, w.Month) {
				counts.ResolvedMonth++
			}
			if since(*t.ResolvedAt, w.Quarter) {
				counts.ResolvedQuarter++
			}
		}
	}
	return counts, nil
}

func (s *ticketStore) TeamPerformance(_ context.Context, from time.Time) ([]models.MemberPerformanceRow, error) {
	if err := s.track("TeamPerformance"); err != nil {
		return nil, err
	}
	byUser := map[string]*models.MemberPerformanceRow{}
	durations := map[string][]float64{}
	for _, t := range s.tickets {
		if t.AssignedTo == nil || t.CreatedAt.Before(from) {
			continue
		}
		row, ok := byUser[*t.AssignedTo]
		if !ok {
			user := s.user(*t.AssignedTo)
			row = &models.MemberPerformanceRow{UserID: user.ID, Name: user.Name, Email: user.Email}
			byUser[*t.AssignedTo] = row
		}
		row.AssignedCount++
		if t.Status == models.TicketStatusResolved {
			row.ResolvedCount++
		}
		if t.ResolvedAt != nil {
			durations[row.UserID] = append(durations[row.UserID], t.ResolvedAt.Sub(t.CreatedAt).Hours()/24)
		}
	}

	rows := make([]models.MemberPerformanceRow, 0, len(byUser))
	for id, row := range byUser {
		if d := durations[id]; len(d) > 0 {
			avg := mean(d)
			row.AvgResolutionDays = &avg
		}
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].UserID < rows[j].UserID })
	return rows, nil
}

func (s *ticketStore) ProjectTicketStats(_ context.Context) ([]models.ProjectTicketStats, error) {
	if err := s.track("ProjectTicketStats"); err != nil {
		return nil, err
	}
	stats := make([]models.ProjectTicketStats, 0, len(s.projects))
	for _, p := range s.projects {
		st := models.ProjectTicketStats{ProjectID: p.ID, Name: p.Name, Status: p.Status}
		for _, t := range s.tickets {
			if t.ProjectID != p.ID {
				continue
			}
			st.TicketCount++
			if t.Status.IsOpen() {
				st.OpenTickets++
			}
			if t.Priority == models.TicketPriorityHigh {
				st.HighPriorityTickets++
			}
			if t.Status == models.TicketStatusResolved {
				st.ResolvedTickets++
			}
		}
		stats = append(stats, st)
	}
	return stats, nil
}

func (s *ticketStore) DailyTicketSeries(_ context.Context, from time.Time) ([]models.DailyTicketCount, error) {
	if err := s.track("DailyTicketSeries"); err != nil {
		return nil, err
	}
	byDay := map[time.Time]*models.DailyTicketCount{}
	for _, t := range s.tickets {
		if t.CreatedAt.Before(from) {
			continue
		}
		c := t.CreatedAt.UTC()
		day := time.Date(c.Year(), c.Month(), c.Day(), 0, 0, 0, 0, time.UTC)
		row, ok := byDay[day]
		if !ok {
			row = &models.DailyTicketCount{Day: day}
			byDay[day] = row
		}
		row.Tickets++
		if t.Status.IsDone() {
			row.Resolved++
		}
	}
	rows := make([]models.DailyTicketCount, 0, len(byDay))
	for _, row := range byDay {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Day.Before(rows[j].Day) })
	return rows, nil
}

func (s *ticketStore) OpenTicketCount(_ context.Context) (int, error) {
	if err := s.track("OpenTicketCount"); err != nil {
		return 0, err
	}
	count := 0
	for _, t := range s.tickets {
		if t.Status.IsOpen() {
			count++
		}
	}
	return count, nil
}

func (s *ticketStore) ActiveUserCount(_ context.Context) (int, error) {
	if err := s.track("ActiveUserCount"); err != nil {
		return 0, err
	}
	count := 0
	for _, u := range s.users {
		for _, role := range models.ActiveRoles {
			if u.Role == role {
				count++
				break
			}
		}
	}
	return count, nil
}

func (s *ticketStore) user(id string) models.User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return models.User{ID: id}
}

func strPtr(v string) *string { return &v }

func timePtr(v time.Time) *time.Time { return &v }

// marchFixture seeds 20 tickets created on consecutive days from 1 March 2024.
// The first 15 are assigned to alice and resolved two days later. The last 5 belong to bob
// and stay open. Tickets 3 and 18 are high priority.
func marchFixture() *ticketStore {
	store := newTicketStore()
	store.users = []models.User{
		{ID: "u-alice", Name: "Alice", Email: "alice@example.com", Role: models.RoleCore},
		{ID: "u-bob", Name: "Bob", Email: "bob@example.com", Role: models.RoleMember},
		{ID: "u-carol", Name: "Carol", Email: "carol@example.com", Role: models.RoleAdmin},
	}
	store.projects = []models.Project{
		{ID: "p-core", Name: "Core", Status: models.ProjectStatusActive},
		{ID: "p-legacy", Name: "Legacy", Status: models.ProjectStatusOnHold},
	}
	for i := 1; i <= 20; i++ {
		created := time.Date(2024, 3, i, 10, 0, 0, 0, time.UTC)
		ticket := models.Ticket{
			ID:         fmt.Sprintf("t-%02d", i),
			Title:      fmt.Sprintf("Ticket %d", i),
			Type:       models.TicketTypeBug,
			Status:     models.TicketStatusOpen,
			Priority:   models.TicketPriorityMedium,
			ProjectID:  "p-core",
			ReportedBy: "u-carol",
			CreatedAt:  created,
			UpdatedAt:  created,
		}
		if i == 3 || i == 18 {
			ticket.Priority = models.TicketPriorityHigh
		}
		if i <= 15 {
			ticket.AssignedTo = strPtr("u-alice")
			ticket.Status = models.TicketStatusResolved
			ticket.ResolvedAt = timePtr(created.Add(48 * time.Hour))
		} else {
			ticket.AssignedTo = strPtr("u-bob")
		}
		store.tickets = append(store.tickets, ticket)
	}
	return store
}

func marchNow() time.Time {
	return time.Date(2024, 3, 25, 12, 0, 0, 0, time.UTC)
}
