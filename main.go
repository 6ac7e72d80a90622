package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"katalog/internal/app"
	"katalog/internal/config"
	"katalog/internal/database"
	"katalog/internal/events"
	"katalog/internal/logger"
	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/services"
	"katalog/pkg/rabbitmq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	// --- Product store ---
	productRepo, err := newProductRepository(cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize product store", zap.Error(err))
	}
	if cfg.SeedProducts {
		seedProducts(productRepo, zl)
	}

	// --- Product events ---
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.EventsEnabled() {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:        cfg.RabbitMQURL,
			Exchange:   cfg.RabbitMQExchange,
			Queue:      cfg.RabbitMQQueue,
			BindingKey: events.BindingKey,
		}, zl)
		if err != nil {
			zl.Fatal("failed to initialize RabbitMQ client", zap.Error(err))
		}
		defer mqClient.Close()
		publisher = events.NewAMQPPublisher(mqClient)

		if cfg.EventsConsume {
			if err := mqClient.Consume(logProductEvent(zl)); err != nil {
				zl.Error("failed to start RabbitMQ consumer", zap.Error(err))
			}
		}
	} else {
		zl.Info("RABBITMQ_URL not set, product events are disabled")
	}

	productService := services.NewProductService(productRepo, publisher, zl)
	fiberApp := app.New(productService, zl, app.Options{StrictStatusCodes: cfg.StrictStatusCodes})

	// --- Start HTTP Server ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		zl.Info("starting server", zap.String("addr", cfg.AppPort))
		if err := fiberApp.Listen(cfg.AppPort); err != nil {
			zl.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-quit
	zl.Info("shutting down server")
	if err := fiberApp.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		zl.Error("error during Fiber shutdown", zap.Error(err))
	}
	zl.Info("server gracefully stopped")
}

func newProductRepository(cfg config.Config, zl *zap.Logger) (repositories.ProductRepository, error) {
	if cfg.DatabaseDriver == database.DriverMemory {
		zl.Info("using in-memory product store")
		return repositories.NewMockProductRepository(), nil
	}

	db, err := database.Open(cfg, zl)
	if err != nil {
		return nil, err
	}
	if cfg.RunMigrations {
		if err := database.Migrate(db, cfg.DatabaseDriver); err != nil {
			return nil, err
		}
		zl.Info("migrations applied")
	}
	return repositories.NewGORMProductRepository(db), nil
}

// logProductEvent is the consumer used when EVENTS_CONSUME is set.
func logProductEvent(zl *zap.Logger) func(amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		event, err := events.Decode(msg.Body)
		if err != nil {
			return err
		}
		zl.Info("product event received",
			zap.String("type", string(event.Type)),
			zap.Uint("product_id", event.ProductID),
			zap.Time("occurred_at", event.OccurredAt))
		return nil
	}
}

// seedProducts populates the product store with demo data. Products whose
// upc already exists are skipped.
func seedProducts(repo repositories.ProductRepository, zl *zap.Logger) {
	products := []struct{ name, upc string }{
		{"Laptop", "0885909950805"},
		{"Keyboard", "0097855152243"},
		{"Mouse", "0097855146839"},
	}

	for _, p := range products {
		name, upc := p.name, p.upc
		product := &models.Product{Name: &name, UPC: &upc}
		if err := repo.Create(context.Background(), product); err != nil {
			if repositories.KindOf(err) == repositories.FaultUniqueViolation {
				continue
			}
			zl.Warn("error seeding product", zap.String("name", name), zap.Error(err))
			continue
		}
		zl.Info("seeded product", zap.String("name", name), zap.Uint("id", product.ID))
	}
}
