package auth_test

import (
	"context"
	"testing"
	"time"

	auth "github.com/gazbert/bxbot-ui-server-sub000"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTokenController(t *testing.T, start time.Time) (*auth.TokenController, *serviceHarness) {
	t.Helper()

	h := newServiceHarness(t, start)
	controller := auth.NewTokenController(auth.WithControllerTokens(h.service))
	return controller, h
}

func bindTokenRequest(username, password string) func(mock.Arguments) {
	return func(args mock.Arguments) {
		payload := args.Get(0).(*auth.TokenRequest)
		payload.Username = username
		payload.Password = password
	}
}

func TestNewTokenController(t *testing.T) {
	t.Run("panics without a token service", func(t *testing.T) {
		assert.Panics(t, func() {
			auth.NewTokenController()
		})
	})
}

func TestTokenController_IssueToken(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("returns a token for valid credentials", func(t *testing.T) {
		controller, h := newTokenController(t, start)
		h.directory.add("alice", "s3cret", auth.RoleAdmin)

		var response auth.TokenResponse

		ctx := &MockContext{}
		ctx.On("Bind", mock.Anything).Run(bindTokenRequest("alice", "s3cret")).Return(nil)
		ctx.On("Context").Return(context.Background())
		ctx.On("JSON", router.StatusOK, mock.Anything).Run(func(args mock.Arguments) {
			response = args.Get(1).(auth.TokenResponse)
		}).Return(nil)

		require.NoError(t, controller.IssueToken(ctx))
		require.NotEmpty(t, response.Token)

		claims, err := h.service.Validate(context.Background(), response.Token)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Subject())
	})

	t.Run("rejects an unparseable body with 400", func(t *testing.T) {
		controller, _ := newTokenController(t, start)

		ctx := &MockContext{}
		ctx.On("Bind", mock.Anything).Return(assert.AnError)
		ctx.On("JSON", router.StatusBadRequest, mock.Anything).Return(nil)

		require.NoError(t, controller.IssueToken(ctx))
		ctx.AssertCalled(t, "JSON", router.StatusBadRequest, mock.Anything)
	})

	t.Run("rejects a missing username with 400", func(t *testing.T) {
		controller, _ := newTokenController(t, start)

		ctx := &MockContext{}
		ctx.On("Bind", mock.Anything).Run(bindTokenRequest("", "s3cret")).Return(nil)
		ctx.On("JSON", router.StatusBadRequest, mock.Anything).Return(nil)

		require.NoError(t, controller.IssueToken(ctx))
		ctx.AssertCalled(t, "JSON", router.StatusBadRequest, mock.Anything)
	})

	t.Run("rejects bad credentials with a generic 401", func(t *testing.T) {
		controller, h := newTokenController(t, start)
		h.directory.add("alice", "s3cret", auth.RoleUser)

		var body map[string]any

		ctx := &MockContext{}
		ctx.On("Bind", mock.Anything).Run(bindTokenRequest("alice", "wrong")).Return(nil)
		ctx.On("Context").Return(context.Background())
		ctx.On("JSON", router.StatusUnauthorized, mock.Anything).Run(func(args mock.Arguments) {
			body = args.Get(1).(map[string]any)
		}).Return(nil)

		require.NoError(t, controller.IssueToken(ctx))
		assert.Equal(t, auth.ErrInvalidCredentials.Message, body["error"])
	})

	t.Run("maps the cooldown to 429", func(t *testing.T) {
		cfg := testConfig()
		codec := newTestCodec(t, cfg, nil)

		directory := &MockDirectory{}
		directory.On("VerifyCredentials", mock.Anything, "alice", "s3cret").
			Return(nil, auth.ErrTooManyLoginAttempts)

		service, err := auth.NewTokenService(cfg, codec, directory)
		require.NoError(t, err)

		controller := auth.NewTokenController(auth.WithControllerTokens(service))

		ctx := &MockContext{}
		ctx.On("Bind", mock.Anything).Run(bindTokenRequest("alice", "s3cret")).Return(nil)
		ctx.On("Context").Return(context.Background())
		ctx.On("JSON", fiber.StatusTooManyRequests, mock.Anything).Return(nil)

		require.NoError(t, controller.IssueToken(ctx))
		ctx.AssertCalled(t, "JSON", fiber.StatusTooManyRequests, mock.Anything)
	})
}

func TestTokenController_RefreshToken(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("swaps a live token for a fresh one", func(t *testing.T) {
		controller, h := newTokenController(t, start)
		h.directory.add("alice", "s3cret", auth.RoleUser)

		token, err := h.service.Issue(context.Background(), "alice", "s3cret")
		require.NoError(t, err)

		h.advance(10 * time.Minute)

		var response auth.TokenResponse

		ctx := &MockContext{}
		ctx.On("GetString", router.HeaderAuthorization, "").Return("Bearer " + token)
		ctx.On("Context").Return(context.Background())
		ctx.On("JSON", router.StatusOK, mock.Anything).Run(func(args mock.Arguments) {
			response = args.Get(1).(auth.TokenResponse)
		}).Return(nil)

		require.NoError(t, controller.RefreshToken(ctx))
		assert.NotEqual(t, token, response.Token)

		claims, err := h.service.Validate(context.Background(), response.Token)
		require.NoError(t, err)
		assert.Equal(t, start.Add(10*time.Minute), claims.IssuedAt().UTC())
	})

	t.Run("rejects a missing bearer token with 401", func(t *testing.T) {
		controller, _ := newTokenController(t, start)

		ctx := &MockContext{}
		ctx.On("GetString", router.HeaderAuthorization, "").Return("")
		ctx.On("JSON", router.StatusUnauthorized, mock.Anything).Return(nil)

		require.NoError(t, controller.RefreshToken(ctx))
		ctx.AssertCalled(t, "JSON", router.StatusUnauthorized, mock.Anything)
	})

	t.Run("rejects an expired token with 401", func(t *testing.T) {
		controller, h := newTokenController(t, start)
		h.directory.add("alice", "s3cret", auth.RoleUser)

		token, err := h.service.Issue(context.Background(), "alice", "s3cret")
		require.NoError(t, err)

		h.advance(2 * time.Hour)

		ctx := &MockContext{}
		ctx.On("GetString", router.HeaderAuthorization, "").Return("Bearer " + token)
		ctx.On("Context").Return(context.Background())
		ctx.On("JSON", router.StatusUnauthorized, mock.Anything).Return(nil)

		require.NoError(t, controller.RefreshToken(ctx))
		ctx.AssertCalled(t, "JSON", router.StatusUnauthorized, mock.Anything)
	})
}
