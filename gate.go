package auth

import "github.com/goliatone/go-router"

// Gate enforces per-route role requirements against the identity the filter
// bound. Unlike the filter it fails closed: no identity means a 401 challenge,
// an identity without any allowed role means 403. Roles are checked against
// the directory record, not the token snapshot, so a demotion applies to
// tokens already in flight.
type Gate struct {
	contextKey string
	entryPoint *EntryPoint
	logger     Logger
}

// GateOption configures a Gate
type GateOption func(*Gate)

// WithGateContextKey overrides the locals key the gate reads the identity from
func WithGateContextKey(key string) GateOption {
	return func(g *Gate) {
		if key != "" {
			g.contextKey = key
		}
	}
}

// WithGateLogger overrides the default logger
func WithGateLogger(logger Logger) GateOption {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGate creates a Gate that answers denials through the given entry point
func NewGate(entryPoint *EntryPoint, opts ...GateOption) *Gate {
	if entryPoint == nil {
		panic("AUTH: gate configuration: EntryPoint is required.")
	}

	g := &Gate{
		contextKey: DefaultContextKey,
		entryPoint: entryPoint,
		logger:     defLogger{},
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Require builds middleware that admits only identities holding at least one
// of the allowed roles. An empty list admits any authenticated identity.
func (g *Gate) Require(allowed ...Role) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			bound, ok := IdentityFromRouter(ctx, g.contextKey)
			if !ok || bound.Identity == nil {
				return g.entryPoint.Unauthorized(ctx)
			}

			if len(allowed) == 0 {
				return hf(ctx)
			}

			for _, role := range allowed {
				if HasRole(bound.Identity.Roles(), role) {
					return hf(ctx)
				}
			}

			g.logger.Info("gate denied %s on %s %s: roles %v not in %v",
				bound.Identity.Username(), ctx.Method(), ctx.Path(),
				bound.Identity.Roles(), allowed)

			return g.entryPoint.Forbidden(ctx)
		}
	}
}

// RequireAuthenticated admits any bound identity regardless of role
func (g *Gate) RequireAuthenticated() router.MiddlewareFunc {
	return g.Require()
}
