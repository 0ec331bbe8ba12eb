package auth

import (
	"strings"

	"github.com/goliatone/go-router"
)

const bearerScheme = "Bearer"

// FilterConfig configures the request authentication filter
type FilterConfig struct {
	// Validator validates the extracted bearer token. Required.
	Validator TokenValidator
	// Directory resolves the token subject to a current identity. Required.
	Directory UserDirectory
	// ContextKey is the locals key to bind the RequestIdentity under.
	// Empty uses DefaultContextKey.
	ContextKey string
	// Skip short-circuits the filter for requests it returns true on.
	Skip func(router.Context) bool
	// Logger defaults to the package logger.
	Logger Logger
}

// RequestAuthenticationFilter builds the middleware that turns a bearer token
// into a bound RequestIdentity. It fails open: a missing, malformed, expired,
// or revoked token leaves the request unauthenticated and the chain running,
// and the gate downstream decides whether that matters. The filter never
// writes a response.
func RequestAuthenticationFilter(cfg FilterConfig) router.MiddlewareFunc {
	if cfg.Validator == nil {
		panic("AUTH: authentication filter configuration: Validator is required.")
	}

	if cfg.Directory == nil {
		panic("AUTH: authentication filter configuration: Directory is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}

	if cfg.Logger == nil {
		cfg.Logger = defLogger{}
	}

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return hf(ctx)
			}

			// an earlier filter instance already bound an identity
			if _, ok := IdentityFromRouter(ctx, cfg.ContextKey); ok {
				return hf(ctx)
			}

			raw, ok := ExtractBearerToken(ctx)
			if !ok {
				return hf(ctx)
			}

			claims, err := cfg.Validator.Validate(ctx.Context(), raw)
			if err != nil {
				cfg.Logger.Debug("authentication filter dropped token: %v", err)
				return hf(ctx)
			}

			identity, err := cfg.Directory.FindByUsername(ctx.Context(), claims.Subject())
			if err != nil {
				cfg.Logger.Debug("authentication filter could not resolve %s: %v", claims.Subject(), err)
				return hf(ctx)
			}

			if !identity.Enabled() {
				cfg.Logger.Info("authentication filter skipped disabled account %s", claims.Subject())
				return hf(ctx)
			}

			bound := &RequestIdentity{Identity: identity, Claims: claims}

			ctx.Locals(cfg.ContextKey, bound)

			stdCtx := WithIdentityContext(ctx.Context(), bound)
			stdCtx = WithClaimsContext(stdCtx, claims)
			ctx.SetContext(stdCtx)

			return hf(ctx)
		}
	}
}

// ExtractBearerToken pulls the compact token out of the Authorization header.
// Scheme comparison is case insensitive.
func ExtractBearerToken(ctx router.Context) (string, bool) {
	header := ctx.GetString(router.HeaderAuthorization, "")
	if header == "" {
		return "", false
	}

	l := len(bearerScheme)
	if len(header) > l+1 && strings.EqualFold(header[:l], bearerScheme) && header[l] == ' ' {
		token := strings.TrimSpace(header[l:])
		if token != "" {
			return token, true
		}
	}

	return "", false
}
