package auth_test

import (
	"testing"
	"time"

	auth "github.com/gazbert/bxbot-ui-server-sub000"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestJWTClaims_Accessors(t *testing.T) {
	issuedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	resetAt := issuedAt.Add(-24 * time.Hour)

	claims := &auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		},
		Roles:               []auth.Role{auth.RoleUser, auth.RoleAdmin},
		LastPasswordResetAt: jwt.NewNumericDate(resetAt),
	}

	assert.Equal(t, "alice", claims.Subject())
	assert.Equal(t, "alice", claims.Username())
	assert.Equal(t, issuedAt, claims.IssuedAt().UTC())
	assert.Equal(t, issuedAt.Add(time.Hour), claims.Expires().UTC())
	assert.Equal(t, resetAt, claims.ResetAt().UTC())
	assert.True(t, claims.HasRole(auth.RoleAdmin))
	assert.False(t, claims.HasRole("operator"))
}

func TestJWTClaims_ZeroValues(t *testing.T) {
	claims := &auth.JWTClaims{}

	assert.Empty(t, claims.Subject())
	assert.True(t, claims.IssuedAt().IsZero())
	assert.True(t, claims.Expires().IsZero())
	assert.True(t, claims.ResetAt().IsZero())
	assert.Empty(t, claims.RoleList())
}
