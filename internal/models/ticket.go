package models

import "time"

// TicketType classifies the nature of a ticket.
type TicketType string

const (
	TicketTypeBug         TicketType = "Bug"
	TicketTypeFeature     TicketType = "Feature"
	TicketTypeImprovement TicketType = "Improvement"
	TicketTypeTask        TicketType = "Task"
)

// TicketStatus captures the workflow position of a ticket.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusInReview   TicketStatus = "In Review"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
)

// IsOpen reports whether the ticket still needs work (Open or In Progress).
func (s TicketStatus) IsOpen() bool {
	return s == TicketStatusOpen || s == TicketStatusInProgress
}

// IsDone reports whether the ticket reached a terminal status.
func (s TicketStatus) IsDone() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// TicketPriority ranks ticket urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "Low"
	TicketPriorityMedium   TicketPriority = "Medium"
	TicketPriorityHigh     TicketPriority = "High"
	TicketPriorityCritical TicketPriority = "Critical"
)

// Ticket is a unit of tracked work filed against a project.
// ResolvedAt is set when the ticket moves to Resolved and cleared when it leaves it.
type Ticket struct {
	ID          string         `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Description string         `db:"description" json:"description"`
	Type        TicketType     `db:"type" json:"type"`
	Status      TicketStatus   `db:"status" json:"status"`
	Priority    TicketPriority `db:"priority" json:"priority"`
	ProjectID   string         `db:"project_id" json:"projectId"`
	AssignedTo  *string        `db:"assigned_to" json:"assignedTo,omitempty"`
	ReportedBy  string         `db:"reported_by" json:"reportedBy"`
	DueDate     *time.Time     `db:"due_date" json:"dueDate,omitempty"`
	ResolvedAt  *time.Time     `db:"resolved_at" json:"resolvedAt,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}
