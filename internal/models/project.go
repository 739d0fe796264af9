package models

import "time"

// ProjectStatus describes the lifecycle stage of a project.
type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "Planning"
	ProjectStatusActive    ProjectStatus = "Active"
	ProjectStatusOnHold    ProjectStatus = "On Hold"
	ProjectStatusCompleted ProjectStatus = "Completed"
	ProjectStatusCancelled ProjectStatus = "Cancelled"
)

// Project groups tickets and members.
type Project struct {
	ID        string          `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Status    ProjectStatus   `db:"status" json:"status"`
	Priority  TicketPriority  `db:"priority" json:"priority"`
	OwnerID   string          `db:"owner_id" json:"ownerId"`
	Members   []ProjectMember `db:"-" json:"members"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
}

// ProjectMember is either a registered user or an outsider known only by name and email.
type ProjectMember struct {
	UserID *string `db:"user_id" json:"userId,omitempty"`
	Email  string  `db:"email" json:"email,omitempty"`
	Name   string  `db:"name" json:"name,omitempty"`
}

// IsOutsider reports whether the member has no registered user record.
func (m ProjectMember) IsOutsider() bool {
	return m.UserID == nil || *m.UserID == ""
}
