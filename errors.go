package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCreds     = "INVALID_CREDENTIALS"
	TextCodeTooManyAttempts  = "TOO_MANY_ATTEMPTS"
	TextCodeTokenExpired     = "TOKEN_EXPIRED"
	TextCodeTokenMalformed   = "TOKEN_MALFORMED"
	TextCodeTokenRevoked     = "TOKEN_REVOKED"
	TextCodeInsufficientRole = "INSUFFICIENT_ROLE"
	TextCodeNotAuthenticated = "NOT_AUTHENTICATED"
	TextCodeEmptyPassword    = "EMPTY_PASSWORD"
)

// ErrInvalidCredentials covers unknown users, wrong passwords, and disabled
// accounts alike; the message never distinguishes the cause.
var ErrInvalidCredentials = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrTooManyLoginAttempts is returned when an account is cooling down
var ErrTooManyLoginAttempts = errors.New("too many login attempts", errors.CategoryRateLimit).
	WithTextCode(TextCodeTooManyAttempts)

// ErrTokenExpired is returned when a token's expiry is past the skew window
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed covers bad signatures, issuer/audience mismatches,
// missing claims, and unparseable encodings
var ErrTokenMalformed = errors.New("missing or malformed token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenRevoked is returned when a token was issued before the subject's
// current password reset stamp
var ErrTokenRevoked = errors.New("token has been invalidated", errors.CategoryAuth).
	WithTextCode(TextCodeTokenRevoked).
	WithCode(errors.CodeUnauthorized)

// ErrNotAuthenticated is returned by inline capability checks when the
// request carries no bound identity
var ErrNotAuthenticated = errors.New("authentication required", errors.CategoryAuth).
	WithTextCode(TextCodeNotAuthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrInsufficientRole is returned when a bound identity lacks every role a
// route allows
var ErrInsufficientRole = errors.New("insufficient role for this operation", errors.CategoryAuthz).
	WithTextCode(TextCodeInsufficientRole).
	WithCode(errors.CodeForbidden)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound)

// ErrMismatchedHashAndPassword wraps the bcrypt mismatch sentinel
var ErrMismatchedHashAndPassword = errors.New("hashed password mismatch", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds)

// ErrNoEmptyString rejects empty passwords before hashing
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed")
}

// IsRevokedError will check for password-reset invalidated tokens
func IsRevokedError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenRevoked)
}
