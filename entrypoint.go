package auth

import "github.com/goliatone/go-router"

// EntryPoint writes the challenge response for requests that reach a
// protected route without a usable identity. The body is constant; it leaks
// nothing about whether a token was absent, expired, or revoked.
type EntryPoint struct {
	logger Logger
}

// NewEntryPoint creates an EntryPoint
func NewEntryPoint(logger Logger) *EntryPoint {
	if logger == nil {
		logger = defLogger{}
	}
	return &EntryPoint{logger: logger}
}

// Unauthorized writes the 401 challenge
func (e *EntryPoint) Unauthorized(ctx router.Context) error {
	e.logger.Debug("entry point challenged %s %s", ctx.Method(), ctx.Path())
	return ctx.JSON(router.StatusUnauthorized, map[string]any{
		"error":   "Unauthorized",
		"message": "Full authentication is required to access this resource",
	})
}

// Forbidden writes the 403 response for authenticated requests that lack
// every allowed role
func (e *EntryPoint) Forbidden(ctx router.Context) error {
	e.logger.Debug("entry point denied %s %s", ctx.Method(), ctx.Path())
	return ctx.JSON(router.StatusForbidden, map[string]any{
		"error":   "Forbidden",
		"message": "Access is denied",
	})
}
