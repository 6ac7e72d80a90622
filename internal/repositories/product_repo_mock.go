package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"katalog/internal/models"

	"github.com/go-playground/validator/v10"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// It enforces the same constraints as the products table: required name and
// upc, column lengths, and upc uniqueness.
type MockProductRepository struct {
	products map[uint]models.Product
	upcs     map[string]uint
	nextID   uint
	validate *validator.Validate
	now      func() time.Time
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[uint]models.Product),
		upcs:     make(map[string]uint),
		nextID:   1,
		validate: validator.New(),
		now:      time.Now,
	}
}

// List returns all products ordered by id.
func (r *MockProductRepository) List(_ context.Context) ([]models.ProductSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.ProductSummary, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p.Summary())
	}
	sort.Slice(productList, func(i, j int) bool { return productList[i].ID < productList[j].ID })
	return productList, nil
}

// FindByID returns a copy of the product, or nil if it does not exist.
func (r *MockProductRepository) FindByID(_ context.Context, id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &product, nil
}

// Create adds a new product and assigns its id and timestamps.
func (r *MockProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.check("create product", product, 0); err != nil {
		return err
	}

	now := r.now()
	product.ID = r.nextID
	product.CreatedAt = now
	product.UpdatedAt = now
	r.nextID++

	r.products[product.ID] = *product
	r.upcs[*product.UPC] = product.ID
	return nil
}

// Save replaces the writable columns of an existing product.
func (r *MockProductRepository) Save(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	op := fmt.Sprintf("update product %d", product.ID)
	stored, ok := r.products[product.ID]
	if !ok {
		return &StoreFault{Op: op, Kind: FaultNotFound, Err: errors.New("record not found")}
	}
	if err := r.check(op, product, product.ID); err != nil {
		return err
	}

	delete(r.upcs, *stored.UPC)
	stored.Name = product.Name
	stored.UPC = product.UPC
	stored.ImageURL = product.ImageURL
	stored.UpdatedAt = r.now()
	r.products[stored.ID] = stored
	r.upcs[*stored.UPC] = stored.ID

	*product = stored
	return nil
}

// Delete removes a product permanently.
func (r *MockProductRepository) Delete(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.products[product.ID]
	if !ok {
		return &StoreFault{
			Op:   fmt.Sprintf("delete product %d", product.ID),
			Kind: FaultNotFound,
			Err:  errors.New("record not found"),
		}
	}
	delete(r.upcs, *stored.UPC)
	delete(r.products, product.ID)
	return nil
}

// Ping always succeeds.
func (r *MockProductRepository) Ping(_ context.Context) error {
	return nil
}

// check enforces column constraints and upc uniqueness. self is the id of the
// row being written, which may keep its own upc.
func (r *MockProductRepository) check(op string, product *models.Product, self uint) error {
	if err := r.validate.Struct(product); err != nil {
		return &StoreFault{Op: op, Kind: FaultValidation, Err: err}
	}
	if owner, taken := r.upcs[*product.UPC]; taken && owner != self {
		return &StoreFault{
			Op:   op,
			Kind: FaultUniqueViolation,
			Err:  fmt.Errorf("duplicate upc %q", *product.UPC),
		}
	}
	return nil
}
