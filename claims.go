package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTClaims is the claim set carried by console session tokens. On top of the
// registered claims it records the subject's roles at issue time and the
// subject's last password reset stamp, which is what revocation compares
// against.
type JWTClaims struct {
	jwt.RegisteredClaims
	Roles []Role `json:"roles,omitempty"`
	// LastPasswordResetAt snapshots the subject's password_reset_at at issue
	// time, second granularity. Zero when the subject never reset.
	LastPasswordResetAt *jwt.NumericDate `json:"lpr,omitempty"`
}

// Subject returns the subject claim, the username the token was issued for
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Username is an alias for Subject
func (c *JWTClaims) Username() string {
	return c.Subject()
}

// RoleList returns the roles snapshotted at issue time. Authorization reads
// current roles from the directory, not from here.
func (c *JWTClaims) RoleList() []Role {
	return c.Roles
}

// HasRole checks the snapshotted role set
func (c *JWTClaims) HasRole(role Role) bool {
	return HasRole(c.Roles, role)
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// ResetAt returns the password reset stamp baked into the token, zero when
// the claim is absent
func (c *JWTClaims) ResetAt() time.Time {
	if c.LastPasswordResetAt != nil {
		return c.LastPasswordResetAt.Time
	}
	return time.Time{}
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
