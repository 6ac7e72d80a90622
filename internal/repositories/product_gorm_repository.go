package repositories

import (
	"context"
	"errors"
	"fmt"

	"katalog/internal/models"

	"gorm.io/gorm"
)

// writableColumns is the allow-list of columns a client may set.
var writableColumns = []string{models.FieldName, models.FieldUPC, models.FieldImageURL}

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// List retrieves every product projected to its summary, ordered by id.
func (r *GORMProductRepository) List(ctx context.Context) ([]models.ProductSummary, error) {
	products := make([]models.ProductSummary, 0)
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Order("id ASC").Find(&products).Error; err != nil {
		return nil, NewFault("list products", err)
	}
	return products, nil
}

// FindByID retrieves a single product by its primary key.
func (r *GORMProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, NewFault(fmt.Sprintf("find product %d", id), err)
	}
	return &product, nil
}

// Create inserts the allow-listed columns of product. The store assigns the
// id and timestamps.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Select(writableColumns).Create(product).Error; err != nil {
		return NewFault("create product", err)
	}
	return nil
}

// Save persists the writable columns of an existing product.
func (r *GORMProductRepository) Save(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Model(product).Select(writableColumns).Updates(product)
	if res.Error != nil {
		return NewFault(fmt.Sprintf("update product %d", product.ID), res.Error)
	}
	if res.RowsAffected == 0 {
		return &StoreFault{
			Op:   fmt.Sprintf("update product %d", product.ID),
			Kind: FaultNotFound,
			Err:  gorm.ErrRecordNotFound,
		}
	}
	return nil
}

// Delete permanently removes product.
func (r *GORMProductRepository) Delete(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Delete(product)
	if res.Error != nil {
		return NewFault(fmt.Sprintf("delete product %d", product.ID), res.Error)
	}
	if res.RowsAffected == 0 {
		return &StoreFault{
			Op:   fmt.Sprintf("delete product %d", product.ID),
			Kind: FaultNotFound,
			Err:  gorm.ErrRecordNotFound,
		}
	}
	return nil
}

// Ping checks that the underlying database is reachable.
func (r *GORMProductRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return NewFault("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return NewFault("ping", err)
	}
	return nil
}
