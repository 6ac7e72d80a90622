package app

import (
	"context"
	"time"

	"katalog/internal/handlers"
	"katalog/internal/middleware"
	"katalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

// Options configures the HTTP application.
type Options struct {
	StrictStatusCodes bool
}

// New assembles the Fiber app: middleware, the greeting and health
// endpoints, and the /api/v1 product routes.
func New(productService *services.ProductService, log *zap.Logger, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "katalog",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID(uuid.NewString))
	app.Use(middleware.RequestLogger(log))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"greeting": "Hello world in JSON"})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()

		status, database, code := "healthy", "connected", fiber.StatusOK
		if err := productService.Ping(ctx); err != nil {
			log.Warn("health check failed", zap.Error(err))
			status, database, code = "unhealthy", "unreachable", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status":   status,
			"time":     time.Now().Format(time.RFC3339),
			"database": database,
		})
	})

	apiV1 := app.Group("/api/v1")
	productHandler := handlers.NewProductHandler(productService, log, opts.StrictStatusCodes)
	productHandler.RegisterRoutes(apiV1)

	return app
}
