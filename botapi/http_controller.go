package botapi

import (
	"context"
	"encoding/json"

	"github.com/gazbert/bxbot-ui-server-sub000/registry"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// BotResolver maps an operator-facing bot alias to its registration
type BotResolver interface {
	Get(ctx context.Context, botID string) (*registry.Bot, error)
}

// RouteRegistrar captures the router methods used by the controller.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Put(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// Controller proxies per-bot configuration endpoints. It resolves the alias
// through the registry and relays the JSON document unchanged.
type Controller struct {
	Logger   Logger
	Client   *Client
	Resolver BotResolver
}

type ControllerOption func(*Controller) *Controller

// WithControllerLogger overrides the default logger
func WithControllerLogger(logger Logger) ControllerOption {
	return func(c *Controller) *Controller {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// WithControllerClient sets the proxy client
func WithControllerClient(client *Client) ControllerOption {
	return func(c *Controller) *Controller {
		c.Client = client
		return c
	}
}

// WithControllerResolver sets the registry lookup
func WithControllerResolver(resolver BotResolver) ControllerOption {
	return func(c *Controller) *Controller {
		c.Resolver = resolver
		return c
	}
}

func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Client == nil {
		panic("Missing Client in botapi controller...")
	}

	if c.Resolver == nil {
		panic("Missing BotResolver in botapi controller...")
	}

	return c
}

// RegisterProxyRoutes mounts the per-bot configuration endpoints. Reads go
// behind readGuard, mutations behind writeGuard.
func RegisterProxyRoutes(app RouteRegistrar, controller *Controller, readGuard, writeGuard router.MiddlewareFunc) {
	app.
		Get("/api/bots/:botId/config/engine", controller.GetEngineConfig, readGuard).
		SetName("api.bots.config.engine.get")
	app.
		Put("/api/bots/:botId/config/engine", controller.UpdateEngineConfig, writeGuard).
		SetName("api.bots.config.engine.put")

	app.
		Get("/api/bots/:botId/config/exchange", controller.GetExchangeConfig, readGuard).
		SetName("api.bots.config.exchange.get")
	app.
		Put("/api/bots/:botId/config/exchange", controller.UpdateExchangeConfig, writeGuard).
		SetName("api.bots.config.exchange.put")

	app.
		Get("/api/bots/:botId/config/strategies", controller.GetStrategies, readGuard).
		SetName("api.bots.config.strategies.get")
	app.
		Put("/api/bots/:botId/config/strategies", controller.UpdateStrategies, writeGuard).
		SetName("api.bots.config.strategies.put")

	app.
		Get("/api/bots/:botId/config/markets", controller.GetMarkets, readGuard).
		SetName("api.bots.config.markets.get")
	app.
		Put("/api/bots/:botId/config/markets", controller.UpdateMarkets, writeGuard).
		SetName("api.bots.config.markets.put")
}

type fetchFunc func(ctx context.Context, target Target) (json.RawMessage, error)
type updateFunc func(ctx context.Context, target Target, config json.RawMessage) (json.RawMessage, error)

func (c *Controller) GetEngineConfig(ctx router.Context) error {
	return c.relayGet(ctx, c.Client.EngineConfig)
}

func (c *Controller) UpdateEngineConfig(ctx router.Context) error {
	return c.relayUpdate(ctx, c.Client.UpdateEngineConfig)
}

func (c *Controller) GetExchangeConfig(ctx router.Context) error {
	return c.relayGet(ctx, c.Client.ExchangeConfig)
}

func (c *Controller) UpdateExchangeConfig(ctx router.Context) error {
	return c.relayUpdate(ctx, c.Client.UpdateExchangeConfig)
}

func (c *Controller) GetStrategies(ctx router.Context) error {
	return c.relayGet(ctx, c.Client.Strategies)
}

func (c *Controller) UpdateStrategies(ctx router.Context) error {
	return c.relayUpdate(ctx, c.Client.UpdateStrategies)
}

func (c *Controller) GetMarkets(ctx router.Context) error {
	return c.relayGet(ctx, c.Client.Markets)
}

func (c *Controller) UpdateMarkets(ctx router.Context) error {
	return c.relayUpdate(ctx, c.Client.UpdateMarkets)
}

func (c *Controller) relayGet(ctx router.Context, fetch fetchFunc) error {
	target, err := c.resolveTarget(ctx)
	if err != nil {
		return c.renderError(ctx, err)
	}

	document, err := fetch(ctx.Context(), target)
	if err != nil {
		return c.renderError(ctx, err)
	}

	return c.sendDocument(ctx, document)
}

func (c *Controller) relayUpdate(ctx router.Context, update updateFunc) error {
	target, err := c.resolveTarget(ctx)
	if err != nil {
		return c.renderError(ctx, err)
	}

	body := ctx.Body()
	if len(body) == 0 || !json.Valid(body) {
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"error": "request body must be a JSON document",
		})
	}

	document, err := update(ctx.Context(), target, json.RawMessage(body))
	if err != nil {
		return c.renderError(ctx, err)
	}

	return c.sendDocument(ctx, document)
}

func (c *Controller) resolveTarget(ctx router.Context) (Target, error) {
	bot, err := c.Resolver.Get(ctx.Context(), ctx.Param("botId"))
	if err != nil {
		return Target{}, err
	}

	return Target{
		BaseURL:  bot.BaseURL,
		Username: bot.APIUsername,
		Password: bot.APIPassword,
	}, nil
}

func (c *Controller) sendDocument(ctx router.Context, document json.RawMessage) error {
	ctx.SetHeader("Content-Type", "application/json")
	ctx.Status(router.StatusOK)
	return ctx.Send(document)
}

func (c *Controller) renderError(ctx router.Context, err error) error {
	var rich *errors.Error
	if errors.As(err, &rich) {
		switch rich.Category {
		case errors.CategoryNotFound:
			return ctx.JSON(fiber.StatusNotFound, map[string]any{"error": rich.Message})
		case errors.CategoryValidation, errors.CategoryBadInput:
			return ctx.JSON(router.StatusBadRequest, map[string]any{"error": rich.Message})
		case errors.CategoryOperation:
			// the bot itself failed or is unreachable
			return ctx.JSON(fiber.StatusBadGateway, map[string]any{"error": rich.Message})
		}
	}

	c.Logger.Error("bot proxy request failed: %v", err)
	return ctx.JSON(router.StatusInternalServerError, map[string]any{
		"error": "internal error",
	})
}
