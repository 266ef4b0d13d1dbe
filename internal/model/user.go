// Package model defines the data structures used throughout the application.
package model

import "time"

// Role is the closed set of account roles. It drives which dashboard stats
// variant a user sees and which routes the auth middleware lets them reach.
//
// WHY A NAMED STRING TYPE?
// A plain string would let any value flow through the system unchecked.
// With a named type plus ParseRole, every boundary (JWT claims, JSON input,
// DB reads) funnels through one validation point. Unknown roles are an error
// state, never silently treated as one of the known three.
type Role string

const (
	RoleStudent  Role = "student"
	RoleLecturer Role = "lecturer"
	RoleAdmin    Role = "admin"
)

// ParseRole validates a raw role string.
// Returns ("", false) for anything outside the three known roles.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleStudent, RoleLecturer, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// User represents a registered account.
//
// PasswordHash is tagged `json:"-"` so it can never leak through an API
// response, no matter which handler serializes the struct. Google-only
// accounts have an empty hash — password login is rejected for them.
//
// Role is immutable through the profile endpoints; only an admin can set it
// when creating or updating accounts through /api/admin/users.
type User struct {
	ID           string     `json:"id"          db:"id"`
	Name         string     `json:"name"        db:"name"`
	Email        string     `json:"email"       db:"email"`
	PasswordHash string     `json:"-"           db:"password_hash"`
	Role         Role       `json:"role"        db:"role"`
	IsActive     bool       `json:"is_active"   db:"is_active"`
	AvatarURL    string     `json:"avatar_url,omitempty" db:"avatar_url"`
	GoogleID     string     `json:"-"           db:"google_id"` // subject claim from Google Sign-In, empty for password accounts
	CreatedAt    time.Time  `json:"created_at"  db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"  db:"updated_at"`
	LastLogin    *time.Time `json:"last_login,omitempty" db:"last_login"`
}
