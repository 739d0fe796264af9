package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleCore   UserRole = "core"
	RoleMember UserRole = "member"
)

// ActiveRoles lists the roles counted as team capacity.
var ActiveRoles = []UserRole{RoleAdmin, RoleCore, RoleMember}

// User represents an application user stored in the users table.
type User struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Role      UserRole  `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Comment is a note left by a user on a ticket.
type Comment struct {
	ID        string    `db:"id" json:"id"`
	TicketID  string    `db:"ticket_id" json:"ticketId"`
	AuthorID  string    `db:"author_id" json:"authorId"`
	Content   string    `db:"content" json:"content"`
	IsEdited  bool      `db:"is_edited" json:"isEdited"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
