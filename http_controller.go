package auth

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// TokenController exposes the token endpoints as a JSON API
type TokenController struct {
	Debug  bool
	Logger Logger
	Tokens TokenService
	Routes *TokenControllerRoutes
}

type TokenControllerRoutes struct {
	Token   string
	Refresh string
}

type TokenControllerOption func(*TokenController) *TokenController

// WithControllerLogger overrides the default logger
func WithControllerLogger(logger Logger) TokenControllerOption {
	return func(c *TokenController) *TokenController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// WithControllerTokens sets the token service
func WithControllerTokens(tokens TokenService) TokenControllerOption {
	return func(c *TokenController) *TokenController {
		c.Tokens = tokens
		return c
	}
}

// WithControllerDebug enables payload dumps on issue requests
func WithControllerDebug(debug bool) TokenControllerOption {
	return func(c *TokenController) *TokenController {
		c.Debug = debug
		return c
	}
}

func NewTokenController(opts ...TokenControllerOption) *TokenController {
	c := &TokenController{
		Logger: defLogger{},
		Routes: &TokenControllerRoutes{
			Token:   "/api/token",
			Refresh: "/api/token/refresh",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Tokens == nil {
		panic("Missing TokenService in token controller...")
	}

	return c
}

// RegisterTokenRoutes mounts the token endpoints. The refresh route should be
// mounted behind the authentication filter so the presented token is already
// validated once; the issue route stays open.
func RegisterTokenRoutes[T any](app router.Router[T], controller *TokenController, protected ...router.MiddlewareFunc) {
	app.
		Post(controller.Routes.Token, controller.IssueToken).
		SetName("api.token.issue")

	app.
		Post(controller.Routes.Refresh, controller.RefreshToken, protected...).
		SetName("api.token.refresh")
}

// TokenRequest payload
type TokenRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r TokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.Required,
			validation.Length(1, 100),
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// TokenResponse is the issue/refresh success body
type TokenResponse struct {
	Token string `json:"token"`
}

// IssueToken exchanges credentials for a signed token. Bad payloads come back
// as 400, rejected credentials as a generic 401, cooldown as 429.
func (a *TokenController) IssueToken(ctx router.Context) error {
	payload := new(TokenRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("token issue parse payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"error": "failed to parse request body",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"error":      "invalid request",
			"validation": err.Error(),
		})
	}

	if a.Debug {
		fmt.Println("======= TOKEN ISSUE ======")
		fmt.Println(print.MaybePrettyJSON(map[string]string{
			"username": payload.Username,
		}))
		fmt.Println("==========================")
	}

	token, err := a.Tokens.Issue(ctx.Context(), payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, ErrTooManyLoginAttempts) {
			return ctx.JSON(fiber.StatusTooManyRequests, map[string]any{
				"error": "too many login attempts",
			})
		}

		a.Logger.Info("token issue rejected for %s", payload.Username)
		return ctx.JSON(router.StatusUnauthorized, map[string]any{
			"error": ErrInvalidCredentials.Message,
		})
	}

	return ctx.JSON(router.StatusOK, TokenResponse{Token: token})
}

// RefreshToken swaps a still-valid token for a fresh one. The bearer token is
// re-read from the request so the response reflects whatever the client
// actually presented, not a cached binding.
func (a *TokenController) RefreshToken(ctx router.Context) error {
	raw, ok := ExtractBearerToken(ctx)
	if !ok {
		return ctx.JSON(router.StatusUnauthorized, map[string]any{
			"error": ErrTokenMalformed.Message,
		})
	}

	token, err := a.Tokens.Refresh(ctx.Context(), raw)
	if err != nil {
		a.Logger.Debug("token refresh rejected: %v", err)
		return ctx.JSON(router.StatusUnauthorized, map[string]any{
			"error": "token could not be refreshed",
		})
	}

	return ctx.JSON(router.StatusOK, TokenResponse{Token: token})
}
