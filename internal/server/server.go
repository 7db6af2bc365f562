package server

import (
	"context"
	"time"

	"itemstore/app/item"
	"itemstore/internal/middleware"
	"itemstore/pkg/events"
	"itemstore/pkg/httperror"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	Repository      item.Repository
	Publisher       events.Publisher
	ServiceName     string
	DebugErrors     bool
	CORSAllowOrigin string
}

type poolStatser interface {
	GetPoolStats() map[string]any
}

func New(opts Options) *fiber.App {
	r := &renderer{verbose: opts.DebugErrors}

	app := fiber.New(fiber.Config{
		IdleTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Concurrency:  256 * 1024,
		JSONDecoder:  strictJSONDecoder,
		ErrorHandler: r.writeError,
	})

	app.Use(recover.New())
	app.Use(middleware.NewMetricsMiddleware())
	app.Use(middleware.NewRequestContextMiddleware())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/healthz", healthz(opts.Repository, r))

	notifier := item.NewNotifier(opts.Publisher, opts.ServiceName)

	getItemsHandler := item.NewGetItemsHandler(opts.Repository)
	createItemHandler := item.NewCreateItemHandler(opts.Repository, notifier)
	updateItemHandler := item.NewUpdateItemHandler(opts.Repository, notifier)
	deleteItemHandler := item.NewDeleteItemHandler(opts.Repository, notifier)

	api := app.Group("/api")

	api.All("/items", middleware.NewCollectionCORSMiddleware(opts.CORSAllowOrigin))
	// Get would also bind HEAD.
	api.Add(fiber.MethodGet, "/items", handle[item.GetItemsRequest, item.GetItemsResponse](getItemsHandler, r))
	api.Post("/items", handle[item.CreateItemRequest, item.CreateItemResponse](createItemHandler, r))
	api.All("/items", methodNotAllowed(r))

	api.Put("/items/:id", handle[item.UpdateItemRequest, item.UpdateItemResponse](updateItemHandler, r))
	api.Delete("/items/:id", handle[item.DeleteItemRequest, item.DeleteItemResponse](deleteItemHandler, r))
	api.All("/items/:id", methodNotAllowed(r))

	return app
}

func healthz(repository item.Repository, r *renderer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		if err := repository.Ping(ctx); err != nil {
			return r.writeError(c, httperror.ServiceUnavailable(
				"health.store_unavailable",
				"Store is unavailable",
				nil,
			).Wrap(err))
		}

		payload := fiber.Map{"status": "ok"}
		if ps, ok := repository.(poolStatser); ok {
			payload["pool"] = ps.GetPoolStats()
		}

		return c.JSON(payload)
	}
}
