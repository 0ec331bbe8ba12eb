package auth

import (
	"context"

	"github.com/goliatone/go-router"
)

var identityCtxKey = &contextKey{"identity"}
var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// RequestIdentity is what the filter binds to an authenticated request: the
// subject's current directory record plus the decoded claims the request
// presented.
type RequestIdentity struct {
	Identity Identity
	Claims   *JWTClaims
}

// WithIdentityContext sets the RequestIdentity in the given context
func WithIdentityContext(ctx context.Context, identity *RequestIdentity) context.Context {
	return context.WithValue(ctx, identityCtxKey, identity)
}

// IdentityFromContext finds the bound identity in the standard context
func IdentityFromContext(ctx context.Context) (*RequestIdentity, bool) {
	raw, ok := ctx.Value(identityCtxKey).(*RequestIdentity)
	return raw, ok
}

// WithClaimsContext sets the decoded claims in the given context
func WithClaimsContext(ctx context.Context, claims *JWTClaims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}

// ClaimsFromContext extracts the decoded claims from the standard context
func ClaimsFromContext(ctx context.Context) (*JWTClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(*JWTClaims)
	return raw, ok
}

// IdentityFromRouter extracts the bound identity from the router context
// locals. Empty key falls back to the default the filter binds under.
func IdentityFromRouter(ctx router.Context, key string) (*RequestIdentity, bool) {
	if key == "" {
		key = DefaultContextKey
	}
	raw := ctx.Locals(key)
	if raw == nil {
		return nil, false
	}
	identity, ok := raw.(*RequestIdentity)
	return identity, ok
}

// CurrentIdentity is a convenience for handlers that only need the identity
func CurrentIdentity(ctx router.Context) (Identity, bool) {
	bound, ok := IdentityFromRouter(ctx, "")
	if !ok || bound.Identity == nil {
		return nil, false
	}
	return bound.Identity, true
}

// RequireRole is the inline counterpart to the gate middleware, for handlers
// that branch on a capability mid-request instead of declaring it on the
// route. No bound identity yields ErrNotAuthenticated; a bound identity that
// holds none of the listed roles yields ErrInsufficientRole. An empty list
// only requires authentication.
func RequireRole(ctx router.Context, roles ...Role) error {
	identity, ok := CurrentIdentity(ctx)
	if !ok {
		return ErrNotAuthenticated
	}

	if len(roles) == 0 {
		return nil
	}

	held := identity.Roles()
	for _, role := range roles {
		if HasRole(held, role) {
			return nil
		}
	}

	return ErrInsufficientRole
}
