package model

import "time"

// Staff role values as stored in users.role.
const (
	RoleAdmin       = "ADMIN"
	RoleInterviewer = "INTERVIEWER"
)

// User represents a staff account (admin or interviewer) as stored in the
// `users` table.  Students are never users: they interact only through
// public booking links and are tracked as invitations.  JSON tags are
// omitted because handlers define their own response shapes.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique email address.
//	FullName     – display name used in notifications.
//	PasswordHash – bcrypt hashed password.
//	Role         – ADMIN or INTERVIEWER.
//	IsActive     – whether the account is active.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	FullName     string    // users.full_name
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
