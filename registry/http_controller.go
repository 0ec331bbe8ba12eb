package registry

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// Controller exposes the registry as a JSON API. Route guards are supplied at
// registration time so read and write routes can carry different role gates.
type Controller struct {
	Logger  Logger
	Service *Service
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

// WithControllerService sets the registry service
func WithControllerService(service *Service) ControllerOption {
	return func(c *Controller) *Controller {
		c.Service = service
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

	if c.Service == nil {
		panic("Missing Service in registry controller...")
	}

	return c
}

// RouteRegistrar captures the router methods used by the controller.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Put(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// RegisterBotRoutes mounts the registry endpoints. Reads go behind readGuard,
// mutations behind writeGuard.
func RegisterBotRoutes(app RouteRegistrar, controller *Controller, readGuard, writeGuard router.MiddlewareFunc) {
	app.
		Get("/api/bots", controller.ListBots, readGuard).
		SetName("api.bots.list")

	app.
		Get("/api/bots/:botId", controller.GetBot, readGuard).
		SetName("api.bots.get")

	app.
		Get("/api/bots.xml", controller.ExportBots, readGuard).
		SetName("api.bots.export")

	app.
		Post("/api/bots", controller.RegisterBot, writeGuard).
		SetName("api.bots.register")

	app.
		Put("/api/bots/:botId", controller.UpdateBot, writeGuard).
		SetName("api.bots.update")

	app.
		Delete("/api/bots/:botId", controller.DeregisterBot, writeGuard).
		SetName("api.bots.deregister")
}

// ListBots returns every registration
func (c *Controller) ListBots(ctx router.Context) error {
	records, err := c.Service.List(ctx.Context())
	if err != nil {
		return c.renderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"bots": records,
	})
}

// GetBot returns one registration by alias
func (c *Controller) GetBot(ctx router.Context) error {
	bot, err := c.Service.Get(ctx.Context(), ctx.Param("botId"))
	if err != nil {
		return c.renderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, bot)
}

// ExportBots renders the registry as an XML snapshot
func (c *Controller) ExportBots(ctx router.Context) error {
	var buf bytes.Buffer
	if err := c.Service.Export(ctx.Context(), &buf); err != nil {
		return c.renderError(ctx, err)
	}

	ctx.SetHeader("Content-Type", "application/xml")
	return ctx.Send(buf.Bytes())
}

// RegisterBot creates a registration
func (c *Controller) RegisterBot(ctx router.Context) error {
	payload := RegisterBotPayload{}

	if err := ctx.Bind(&payload); err != nil {
		c.Logger.Error("bot register parse payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"error": "failed to parse request body",
		})
	}

	bot, err := c.Service.Register(ctx.Context(), payload)
	if err != nil {
		return c.renderError(ctx, err)
	}

	return ctx.JSON(fiber.StatusCreated, bot)
}

// UpdateBot applies a partial update to a registration
func (c *Controller) UpdateBot(ctx router.Context) error {
	payload := UpdateBotPayload{}

	if err := ctx.Bind(&payload); err != nil {
		c.Logger.Error("bot update parse payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"error": "failed to parse request body",
		})
	}

	bot, err := c.Service.Update(ctx.Context(), ctx.Param("botId"), payload)
	if err != nil {
		return c.renderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, bot)
}

// DeregisterBot removes a registration
func (c *Controller) DeregisterBot(ctx router.Context) error {
	if err := c.Service.Deregister(ctx.Context(), ctx.Param("botId")); err != nil {
		return c.renderError(ctx, err)
	}

	return ctx.NoContent(fiber.StatusNoContent)
}

func (c *Controller) renderError(ctx router.Context, err error) error {
	var rich *errors.Error
	if errors.As(err, &rich) {
		switch rich.Category {
		case errors.CategoryNotFound:
			return ctx.JSON(fiber.StatusNotFound, map[string]any{"error": rich.Message})
		case errors.CategoryValidation, errors.CategoryBadInput:
			return ctx.JSON(router.StatusBadRequest, map[string]any{"error": rich.Message})
		case errors.CategoryConflict:
			return ctx.JSON(fiber.StatusConflict, map[string]any{"error": rich.Message})
		}
	}

	c.Logger.Error("registry request failed: %v", err)
	return ctx.JSON(router.StatusInternalServerError, map[string]any{
		"error": "internal error",
	})
}
