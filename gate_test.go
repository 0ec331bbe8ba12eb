package auth_test

import (
	"testing"

	auth "github.com/gazbert/bxbot-ui-server-sub000"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func boundIdentity(username string, roles ...auth.Role) *auth.RequestIdentity {
	return &auth.RequestIdentity{
		Identity: testIdentity{
			id:       username,
			username: username,
			roles:    roles,
			enabled:  true,
		},
	}
}

func newTestGate() *auth.Gate {
	return auth.NewGate(auth.NewEntryPoint(nil))
}

func TestNewGate(t *testing.T) {
	t.Run("panics without an entry point", func(t *testing.T) {
		assert.Panics(t, func() {
			auth.NewGate(nil)
		})
	})
}

func TestGate_Require(t *testing.T) {
	t.Run("challenges with 401 when no identity is bound", func(t *testing.T) {
		gate := newTestGate()

		ctx := &MockContext{}
		ctx.On("Locals", auth.DefaultContextKey).Return(nil)
		ctx.On("Method").Return("GET")
		ctx.On("Path").Return("/api/bots")
		ctx.On("JSON", router.StatusUnauthorized, mock.Anything).Return(nil)

		handler, called := handlerSpy()
		require.NoError(t, gate.Require(auth.RoleUser)(handler)(ctx))

		assert.False(t, *called)
		ctx.AssertCalled(t, "JSON", router.StatusUnauthorized, mock.Anything)
	})

	t.Run("denies with 403 when the role is missing", func(t *testing.T) {
		gate := newTestGate()

		ctx := &MockContext{}
		ctx.On("Locals", auth.DefaultContextKey).Return(boundIdentity("bob", auth.RoleUser))
		ctx.On("Method").Return("DELETE")
		ctx.On("Path").Return("/api/bots/1")
		ctx.On("JSON", router.StatusForbidden, mock.Anything).Return(nil)

		handler, called := handlerSpy()
		require.NoError(t, gate.Require(auth.RoleAdmin)(handler)(ctx))

		assert.False(t, *called)
		ctx.AssertCalled(t, "JSON", router.StatusForbidden, mock.Anything)
	})

	t.Run("admits a matching role", func(t *testing.T) {
		gate := newTestGate()

		ctx := &MockContext{}
		ctx.On("Locals", auth.DefaultContextKey).Return(boundIdentity("bob", auth.RoleUser))

		handler, called := handlerSpy()
		require.NoError(t, gate.Require(auth.RoleUser)(handler)(ctx))

		assert.True(t, *called)
		ctx.AssertNotCalled(t, "JSON", router.StatusForbidden, mock.Anything)
	})

	t.Run("admits any of the allowed roles", func(t *testing.T) {
		gate := newTestGate()

		ctx := &MockContext{}
		ctx.On("Locals", auth.DefaultContextKey).Return(boundIdentity("alice", auth.RoleAdmin))

		handler, called := handlerSpy()
		require.NoError(t, gate.Require(auth.ReadRoles()...)(handler)(ctx))

		assert.True(t, *called)
	})

	t.Run("admin is not implied on a user-only route", func(t *testing.T) {
		// no role hierarchy: routes list every admitted role explicitly
		gate := newTestGate()

		ctx := &MockContext{}
		ctx.On("Locals", auth.DefaultContextKey).Return(boundIdentity("alice", auth.RoleAdmin))
		ctx.On("Method").Return("GET")
		ctx.On("Path").Return("/api/profile")
		ctx.On("JSON", router.StatusForbidden, mock.Anything).Return(nil)

		handler, called := handlerSpy()
		require.NoError(t, gate.Require(auth.RoleUser)(handler)(ctx))

		assert.False(t, *called)
	})

	t.Run("empty allowed list admits any identity", func(t *testing.T) {
		gate := newTestGate()

		ctx := &MockContext{}
		ctx.On("Locals", auth.DefaultContextKey).Return(boundIdentity("bob", auth.RoleUser))

		handler, called := handlerSpy()
		require.NoError(t, gate.RequireAuthenticated()(handler)(ctx))

		assert.True(t, *called)
	})

	t.Run("reads the identity from a custom key", func(t *testing.T) {
		gate := auth.NewGate(auth.NewEntryPoint(nil), auth.WithGateContextKey("console_user"))

		ctx := &MockContext{}
		ctx.On("Locals", "console_user").Return(boundIdentity("bob", auth.RoleUser))

		handler, called := handlerSpy()
		require.NoError(t, gate.Require(auth.RoleUser)(handler)(ctx))

		assert.True(t, *called)
	})
}
