package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the console user model
type User struct {
	bun.BaseModel   `bun:"table:users,alias:usr"`
	ID              uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username        string     `bun:"username,notnull,unique" json:"username,omitempty"`
	PasswordHash    string     `bun:"password_hash" json:"-"`
	Enabled         bool       `bun:"enabled,notnull,default:true" json:"enabled"`
	Roles           string     `bun:"roles,notnull" json:"roles,omitempty"`
	PasswordResetAt *time.Time `bun:"password_reset_at,nullzero" json:"password_reset_at,omitempty"`
	LoginAttempts   int        `bun:"login_attempts" json:"login_attempts,omitempty"`
	LoginAttemptAt  *time.Time `bun:"login_attempt_at" json:"login_attempt_at,omitempty"`
	LoggedInAt      *time.Time `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	CreatedAt       *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt       *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt       *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// RoleList parses the stored comma-separated role column
func (u *User) RoleList() []Role {
	return ParseRoleList(u.Roles)
}

// SetRoleList stores a role set into the comma-separated column format
func (u *User) SetRoleList(roles []Role) *User {
	u.Roles = FormatRoleList(roles)
	return u
}

// HasRole checks the stored role set
func (u *User) HasRole(role Role) bool {
	return HasRole(u.RoleList(), role)
}

// ResetStamp returns the password reset timestamp, zero when never reset
func (u *User) ResetStamp() time.Time {
	if u.PasswordResetAt != nil {
		return *u.PasswordResetAt
	}
	return time.Time{}
}
