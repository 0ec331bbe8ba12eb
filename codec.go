package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// ClaimsCodec signs claim sets into compact JWT strings and parses them back,
// enforcing signature, issuer, audience, and skew-adjusted expiry. It holds no
// user state; revocation checks live in the token service.
type ClaimsCodec struct {
	cfg    *Config
	logger Logger
	now    func() time.Time
}

// CodecOption configures a ClaimsCodec
type CodecOption func(*ClaimsCodec)

// WithClock overrides the codec's time source. Tests use this to walk tokens
// across their expiry window.
func WithClock(now func() time.Time) CodecOption {
	return func(c *ClaimsCodec) {
		if now != nil {
			c.now = now
		}
	}
}

// WithCodecLogger overrides the default logger
func WithCodecLogger(logger Logger) CodecOption {
	return func(c *ClaimsCodec) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClaimsCodec creates a codec bound to the given config
func NewClaimsCodec(cfg *Config, opts ...CodecOption) (*ClaimsCodec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	codec := &ClaimsCodec{
		cfg:    cfg,
		logger: defLogger{},
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(codec)
	}

	return codec, nil
}

// Encode signs the claim set with HS256 and returns the compact token string
func (c *ClaimsCodec) Encode(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	ensureTokenID(&claims.RegisteredClaims)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(c.cfg.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Decode parses and verifies a compact token string. Issuer and audience must
// match the configured values exactly; expiry is checked with the configured
// clock skew as leeway, so a token expired inside the skew window still
// decodes. Anything unparseable, unsigned by our key, or missing required
// claims comes back as ErrTokenMalformed.
func (c *ClaimsCodec) Decode(tokenString string) (*JWTClaims, error) {
	if tokenString == "" {
		return nil, ErrTokenMalformed
	}

	parserOptions := []jwt.ParserOption{
		jwt.WithIssuer(c.cfg.issuer()),
		jwt.WithAudience(c.cfg.audience()...),
		jwt.WithLeeway(c.cfg.clockSkew()),
		jwt.WithTimeFunc(c.now),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			c.logger.Error("ClaimsCodec decode encountered unexpected signing method: %v", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.cfg.SigningKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		c.logger.Error("ClaimsCodec decode could not recover claims")
		return nil, ErrTokenMalformed
	}

	if claims.Subject() == "" {
		return nil, errors.New("token has no subject", ErrTokenMalformed.Category).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	return claims, nil
}
