package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenServiceImpl implements the TokenService interface on top of a
// ClaimsCodec and a UserDirectory
type TokenServiceImpl struct {
	codec     *ClaimsCodec
	directory UserDirectory
	cfg       *Config
	logger    Logger
	now       func() time.Time
}

// TokenServiceOption configures a TokenServiceImpl
type TokenServiceOption func(*TokenServiceImpl)

// WithTokenServiceLogger overrides the default logger
func WithTokenServiceLogger(logger Logger) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if logger != nil {
			ts.logger = logger
		}
	}
}

// WithTokenServiceClock overrides the service's time source
func WithTokenServiceClock(now func() time.Time) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if now != nil {
			ts.now = now
		}
	}
}

// NewTokenService creates a new TokenService instance
func NewTokenService(cfg *Config, codec *ClaimsCodec, directory UserDirectory, opts ...TokenServiceOption) (TokenService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if codec == nil {
		return nil, errors.New("token service requires a claims codec", errors.CategoryValidation)
	}

	if directory == nil {
		return nil, errors.New("token service requires a user directory", errors.CategoryValidation)
	}

	ts := &TokenServiceImpl{
		codec:     codec,
		directory: directory,
		cfg:       cfg,
		logger:    defLogger{},
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(ts)
	}

	return ts, nil
}

// Issue authenticates the credentials against the directory and signs a fresh
// token for the subject. Every authentication failure maps to the same
// ErrInvalidCredentials so callers cannot probe for valid usernames; the only
// exception is the rate-limit cooldown, which surfaces as
// ErrTooManyLoginAttempts.
func (ts *TokenServiceImpl) Issue(ctx context.Context, username, password string) (string, error) {
	identity, err := ts.directory.VerifyCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrTooManyLoginAttempts) {
			return "", err
		}
		ts.logger.Debug("TokenService issue rejected credentials for %s", username)
		return "", ErrInvalidCredentials
	}

	claims := ts.newClaims(identity)

	token, err := ts.codec.Encode(claims)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to issue token")
	}

	return token, nil
}

// Validate decodes the token and checks it against the subject's current
// directory record. A token issued before the subject's latest password reset,
// or for a subject that no longer exists or is disabled, comes back as
// ErrTokenRevoked.
func (ts *TokenServiceImpl) Validate(ctx context.Context, tokenString string) (*JWTClaims, error) {
	claims, err := ts.codec.Decode(tokenString)
	if err != nil {
		return nil, err
	}

	if err := ts.ensureNotRevoked(ctx, claims); err != nil {
		return nil, err
	}

	return claims, nil
}

// CanRefresh reports whether the claims are still acceptable as the basis for
// a refreshed token. Claims issued in the same second as the subject's reset
// stamp still qualify.
func (ts *TokenServiceImpl) CanRefresh(ctx context.Context, claims *JWTClaims) bool {
	if claims == nil {
		return false
	}
	return ts.ensureNotRevoked(ctx, claims) == nil
}

// Refresh validates the presented token and signs a replacement with a fresh
// issued-at and expiry. Subject and roles are re-read from the directory, so a
// role change takes effect on the next refresh.
func (ts *TokenServiceImpl) Refresh(ctx context.Context, tokenString string) (string, error) {
	claims, err := ts.Validate(ctx, tokenString)
	if err != nil {
		return "", err
	}

	identity, err := ts.directory.FindByUsername(ctx, claims.Subject())
	if err != nil {
		ts.logger.Warn("TokenService refresh could not resolve subject %s: %v", claims.Subject(), err)
		return "", ErrTokenRevoked
	}

	if !identity.Enabled() {
		return "", ErrTokenRevoked
	}

	fresh := ts.newClaims(identity)

	token, err := ts.codec.Encode(fresh)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to refresh token")
	}

	return token, nil
}

// newClaims builds the claim set for an identity. Timestamps are truncated to
// whole seconds; JWT numeric dates have no finer resolution on the wire.
func (ts *TokenServiceImpl) newClaims(identity Identity) *JWTClaims {
	now := ts.now().Truncate(time.Second)

	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.cfg.issuer(),
			Subject:   identity.Username(),
			Audience:  ts.cfg.audience(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.cfg.tokenTTL())),
		},
		Roles: identity.Roles(),
	}

	if reset := identity.LastPasswordResetAt(); !reset.IsZero() {
		claims.LastPasswordResetAt = jwt.NewNumericDate(reset.Truncate(time.Second))
	}

	ensureTokenID(&claims.RegisteredClaims)

	return claims
}

// ensureNotRevoked compares the token's reset stamp against the subject's
// current record. Comparison is at second granularity; a token stamped in the
// same second as the reset is still valid. Directory failures fail closed.
func (ts *TokenServiceImpl) ensureNotRevoked(ctx context.Context, claims *JWTClaims) error {
	identity, err := ts.directory.FindByUsername(ctx, claims.Subject())
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) || errors.IsNotFound(err) {
			return ErrTokenRevoked
		}
		ts.logger.Error("TokenService revocation check failed for %s: %v", claims.Subject(), err)
		return errors.Wrap(err, errors.CategoryAuth, "could not verify token against directory").
			WithCode(errors.CodeUnauthorized)
	}

	if !identity.Enabled() {
		return ErrTokenRevoked
	}

	reset := identity.LastPasswordResetAt().Truncate(time.Second)
	if reset.IsZero() {
		return nil
	}

	tokenStamp := claims.ResetAt().Truncate(time.Second)
	if tokenStamp.Before(reset) {
		ts.logger.Info("TokenService rejected token for %s issued before password reset", claims.Subject())
		return ErrTokenRevoked
	}

	return nil
}
