package auth

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of a console user as stored in the directory
type Identity interface {
	ID() string
	Username() string
	Roles() []Role
	Enabled() bool
	LastPasswordResetAt() time.Time
}

// UserDirectory resolves usernames to stored credentials and role sets. It is
// the source of truth for current roles and for the password-reset timestamp
// that drives token revocation.
type UserDirectory interface {
	FindByUsername(ctx context.Context, username string) (Identity, error)
	VerifyCredentials(ctx context.Context, username, password string) (Identity, error)
}

// TokenService holds the business rules for issuing, validating, and
// refreshing signed session tokens.
type TokenService interface {
	Issue(ctx context.Context, username, password string) (string, error)
	Validate(ctx context.Context, tokenString string) (*JWTClaims, error)
	CanRefresh(ctx context.Context, claims *JWTClaims) bool
	Refresh(ctx context.Context, tokenString string) (string, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
