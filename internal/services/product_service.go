package services

import (
	"context"
	"fmt"

	"katalog/internal/events"
	"katalog/internal/models"
	"katalog/internal/repositories"

	"go.uber.org/zap"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher events.Publisher
	log       *zap.Logger
}

// NewProductService creates a new ProductService. A nil publisher disables
// event publishing.
func NewProductService(repo repositories.ProductRepository, publisher events.Publisher, log *zap.Logger) *ProductService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// ListProducts retrieves every product, ordered by id.
func (s *ProductService) ListProducts(ctx context.Context) ([]models.ProductSummary, error) {
	return s.repo.List(ctx)
}

// GetProduct retrieves a single product. It returns nil and no error when the
// product does not exist.
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateProduct inserts a product built only from the allow-listed fields.
// The returned product is nil if the store reported success without
// assigning an id.
func (s *ProductService) CreateProduct(ctx context.Context, fields models.ProductFields) (*models.Product, error) {
	product := fields.NewProduct()
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	if product.ID == 0 {
		return nil, nil
	}
	s.publish(ctx, events.ProductCreated, product)
	return product, nil
}

// UpdateProduct merges the allow-listed fields present in the request onto the
// stored product and persists it.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, fields models.ProductFields) (*models.Product, error) {
	product, err := s.find(ctx, "update", id)
	if err != nil {
		return nil, err
	}
	fields.Merge(product)
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publish(ctx, events.ProductUpdated, product)
	return product, nil
}

// DeleteProduct removes the product and returns its last stored state.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.find(ctx, "delete", id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, product); err != nil {
		return nil, err
	}
	s.publish(ctx, events.ProductDeleted, product)
	return product, nil
}

// Ping reports whether the product store is reachable.
func (s *ProductService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// find loads a product that an update or delete must operate on; absence is a
// fault here, unlike in GetProduct.
func (s *ProductService) find(ctx context.Context, op string, id uint) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &repositories.StoreFault{
			Op:   fmt.Sprintf("%s product %d", op, id),
			Kind: repositories.FaultNotFound,
			Err:  fmt.Errorf("product with ID %d not found", id),
		}
	}
	return product, nil
}

func (s *ProductService) publish(ctx context.Context, t events.Type, product *models.Product) {
	if err := s.publisher.Publish(ctx, events.NewEvent(t, product)); err != nil {
		s.log.Warn("failed to publish product event",
			zap.String("event", string(t)),
			zap.Uint("product_id", product.ID),
			zap.Error(err))
	}
}
