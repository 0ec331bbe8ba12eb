package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

const (
	// DefaultIssuer is stamped into every token and checked on decode.
	DefaultIssuer = "bxbot-ui-server"
	// DefaultAudience is the audience claim for console-issued tokens.
	DefaultAudience = "bxbot-ui"
	// DefaultContextKey is the router locals key the filter binds identity under.
	DefaultContextKey = "user"
	// DefaultTokenTTL is the token lifetime when none is configured.
	DefaultTokenTTL = time.Hour
	// DefaultClockSkew absorbs clock drift between issuing and validating hosts.
	DefaultClockSkew = 60 * time.Second
)

// Config holds the immutable auth options. Build one at startup and inject it
// into the codec, the token service, and the filter; none of them keep any
// other state.
type Config struct {
	// SigningKey is the server-held HMAC secret. Required.
	SigningKey []byte
	// TokenTTL is how long issued tokens live. Zero uses DefaultTokenTTL.
	TokenTTL time.Duration
	// ClockSkew is the leeway applied to expiry checks on decode. Zero uses
	// DefaultClockSkew.
	ClockSkew time.Duration
	// Issuer must match exactly on decode. Empty uses DefaultIssuer.
	Issuer string
	// Audience must match exactly on decode. Empty uses DefaultAudience.
	Audience []string
	// ContextKey is the router locals key for the bound RequestIdentity.
	ContextKey string
}

// Validate checks the config is usable.
func (c *Config) Validate() error {
	if c == nil || len(c.SigningKey) == 0 {
		return errors.New("auth config requires a signing key", errors.CategoryValidation).
			WithTextCode("MISSING_SIGNING_KEY")
	}
	if c.TokenTTL < 0 || c.ClockSkew < 0 {
		return errors.New("auth config durations must be non-negative", errors.CategoryValidation).
			WithTextCode("INVALID_DURATION")
	}
	return nil
}

func (c *Config) tokenTTL() time.Duration {
	if c.TokenTTL > 0 {
		return c.TokenTTL
	}
	return DefaultTokenTTL
}

func (c *Config) clockSkew() time.Duration {
	if c.ClockSkew > 0 {
		return c.ClockSkew
	}
	return DefaultClockSkew
}

func (c *Config) issuer() string {
	if c.Issuer != "" {
		return c.Issuer
	}
	return DefaultIssuer
}

func (c *Config) audience() jwt.ClaimStrings {
	if len(c.Audience) > 0 {
		aud := make(jwt.ClaimStrings, len(c.Audience))
		copy(aud, c.Audience)
		return aud
	}
	return jwt.ClaimStrings{DefaultAudience}
}

// GetContextKey returns the configured locals key, defaulting to "user".
func (c *Config) GetContextKey() string {
	if c.ContextKey != "" {
		return c.ContextKey
	}
	return DefaultContextKey
}
