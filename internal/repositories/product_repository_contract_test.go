package repositories_test

import (
	"context"
	"testing"

	"katalog/internal/models"
	"katalog/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newProduct(name, upc string, imageURL *string) *models.Product {
	return &models.Product{Name: strPtr(name), UPC: strPtr(upc), ImageURL: imageURL}
}

// runProductRepositoryContract exercises the behaviour every ProductRepository
// must share.
func runProductRepositoryContract(t *testing.T, newRepo func(t *testing.T) repositories.ProductRepository) {
	ctx := context.Background()

	t.Run("CreateAssignsIDAndTimestamps", func(t *testing.T) {
		repo := newRepo(t)
		product := newProduct("Widget", "UPC-1", nil)

		require.NoError(t, repo.Create(ctx, product))

		assert.Equal(t, uint(1), product.ID)
		assert.False(t, product.CreatedAt.IsZero())
		assert.False(t, product.UpdatedAt.IsZero())

		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Widget", *found.Name)
		assert.Equal(t, "UPC-1", *found.UPC)
		assert.Nil(t, found.ImageURL)
	})

	t.Run("CreateRejectsDuplicateUPC", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, newProduct("A", "UPC-1", nil)))

		err := repo.Create(ctx, newProduct("B", "UPC-1", nil))

		require.Error(t, err)
		assert.Equal(t, repositories.FaultUniqueViolation, repositories.KindOf(err))
	})

	t.Run("CreateRejectsMissingRequiredColumns", func(t *testing.T) {
		repo := newRepo(t)

		err := repo.Create(ctx, &models.Product{UPC: strPtr("UPC-1")})
		require.Error(t, err)
		assert.Equal(t, repositories.FaultValidation, repositories.KindOf(err))

		err = repo.Create(ctx, &models.Product{Name: strPtr("A")})
		require.Error(t, err)
		assert.Equal(t, repositories.FaultValidation, repositories.KindOf(err))
	})

	t.Run("FindByIDAbsent", func(t *testing.T) {
		repo := newRepo(t)

		found, err := repo.FindByID(ctx, 42)

		assert.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("ListOrderedByID", func(t *testing.T) {
		repo := newRepo(t)
		for _, upc := range []string{"C", "A", "B"} {
			require.NoError(t, repo.Create(ctx, newProduct("name-"+upc, upc, strPtr("img-"+upc))))
		}

		products, err := repo.List(ctx)

		require.NoError(t, err)
		require.Len(t, products, 3)
		for i, p := range products {
			assert.Equal(t, uint(i+1), p.ID)
		}
		assert.Equal(t, "C", *products[0].UPC)
		assert.Equal(t, "img-A", *products[1].ImageURL)
	})

	t.Run("ListEmpty", func(t *testing.T) {
		repo := newRepo(t)

		products, err := repo.List(ctx)

		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)
	})

	t.Run("SavePersistsMergedFields", func(t *testing.T) {
		repo := newRepo(t)
		product := newProduct("A", "111", strPtr("x"))
		require.NoError(t, repo.Create(ctx, product))

		product.Name = strPtr("B")
		require.NoError(t, repo.Save(ctx, product))

		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "B", *found.Name)
		assert.Equal(t, "111", *found.UPC)
		assert.Equal(t, "x", *found.ImageURL)
	})

	t.Run("SaveKeepsOwnUPC", func(t *testing.T) {
		repo := newRepo(t)
		product := newProduct("A", "111", nil)
		require.NoError(t, repo.Create(ctx, product))

		assert.NoError(t, repo.Save(ctx, product))
	})

	t.Run("SaveRejectsTakenUPC", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, newProduct("A", "111", nil)))
		second := newProduct("B", "222", nil)
		require.NoError(t, repo.Create(ctx, second))

		second.UPC = strPtr("111")
		err := repo.Save(ctx, second)

		require.Error(t, err)
		assert.Equal(t, repositories.FaultUniqueViolation, repositories.KindOf(err))
	})

	t.Run("SaveRejectsNullName", func(t *testing.T) {
		repo := newRepo(t)
		product := newProduct("A", "111", nil)
		require.NoError(t, repo.Create(ctx, product))

		product.Name = nil
		err := repo.Save(ctx, product)

		require.Error(t, err)
		assert.Equal(t, repositories.FaultValidation, repositories.KindOf(err))
	})

	t.Run("DeleteIsPhysical", func(t *testing.T) {
		repo := newRepo(t)
		product := newProduct("A", "111", nil)
		require.NoError(t, repo.Create(ctx, product))

		require.NoError(t, repo.Delete(ctx, product))

		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Nil(t, found)

		// The upc is free again once the row is gone.
		assert.NoError(t, repo.Create(ctx, newProduct("A again", "111", nil)))
	})

	t.Run("DeleteAbsent", func(t *testing.T) {
		repo := newRepo(t)

		err := repo.Delete(ctx, &models.Product{ID: 9})

		require.Error(t, err)
		assert.True(t, repositories.IsNotFound(err))
	})

	t.Run("SaveAbsent", func(t *testing.T) {
		repo := newRepo(t)

		err := repo.Save(ctx, newProductWithID(9))

		require.Error(t, err)
		assert.True(t, repositories.IsNotFound(err))
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, newRepo(t).Ping(ctx))
	})
}

func newProductWithID(id uint) *models.Product {
	p := newProduct("ghost", "ghost", nil)
	p.ID = id
	return p
}
