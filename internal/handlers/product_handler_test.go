package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"katalog/internal/handlers"
	"katalog/internal/models"
	"katalog/internal/repositories"

	"github.com/stretchr/testify/assert"
)

// noRecordRepository reports a successful insert without producing a row.
type noRecordRepository struct {
	*repositories.MockProductRepository
}

func (noRecordRepository) Create(context.Context, *models.Product) error { return nil }

// unavailableRepository fails every read as if the connection dropped.
type unavailableRepository struct {
	*repositories.MockProductRepository
}

func (unavailableRepository) List(context.Context) ([]models.ProductSummary, error) {
	return nil, repositories.NewFault("list products", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"))
}

func (unavailableRepository) FindByID(context.Context, uint) (*models.Product, error) {
	return nil, repositories.NewFault("find product", errors.New("driver: bad connection"))
}

func TestCreateWithoutRecord(t *testing.T) {
	app := newApp(noRecordRepository{repositories.NewMockProductRepository()}, false)

	status, env := doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]any{"name": "A", "upc": "111"})

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, handlers.ResultOK, env.Result)
	assert.Equal(t, "{}", string(env.Data))
	assert.Equal(t, "Create a new Task failed", env.Message)
}

func TestCreateWithoutRecord_Strict(t *testing.T) {
	app := newApp(noRecordRepository{repositories.NewMockProductRepository()}, true)

	status, env := doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]any{"name": "A", "upc": "111"})

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, handlers.ResultFailed, env.Result)
}

func TestStoreUnavailable(t *testing.T) {
	app := newApp(unavailableRepository{repositories.NewMockProductRepository()}, false)

	status, env := doJSON(t, app, http.MethodGet, "/api/v1/products", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, handlers.ResultFailed, env.Result)
	assert.Equal(t, "{}", string(env.Data))
	assert.Contains(t, env.Message, "Query list of Tasks failed. Error: ")
	assert.Contains(t, env.Message, "connection refused")
	assert.Equal(t, string(repositories.FaultStoreUnavailable), env.Error)

	status, env = doJSON(t, app, http.MethodGet, "/api/v1/products/1", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, handlers.ResultFailed, env.Result)
}

func TestStoreUnavailable_Strict(t *testing.T) {
	app := newApp(unavailableRepository{repositories.NewMockProductRepository()}, true)

	status, env := doJSON(t, app, http.MethodGet, "/api/v1/products", nil)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, handlers.ResultFailed, env.Result)
}

func TestInMemoryStoreEndToEnd(t *testing.T) {
	app := newApp(repositories.NewMockProductRepository(), false)

	_, env := doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]any{"name": "Widget", "upc": "UPC-1", "imageUrl": nil})
	assert.Equal(t, handlers.ResultOK, env.Result)
	assert.Equal(t, uint(1), decodeProduct(t, env.Data).ID)

	_, env = doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]any{"name": "Gadget", "upc": "UPC-1"})
	assert.Equal(t, handlers.ResultFailed, env.Result)

	_, env = doJSON(t, app, http.MethodPatch, "/api/v1/products/1", map[string]any{"upc": "UPC-2"})
	assert.Equal(t, "UPC-2", *decodeProduct(t, env.Data).UPC)
	assert.Equal(t, "Widget", *decodeProduct(t, env.Data).Name)

	_, env = doJSON(t, app, http.MethodDelete, "/api/v1/products/1", nil)
	assert.Equal(t, uint(1), decodeProduct(t, env.Count).ID)

	_, env = doJSON(t, app, http.MethodGet, "/api/v1/products/1", nil)
	assert.Equal(t, handlers.ResultOK, env.Result)
	assert.Equal(t, "null", string(env.Data))
}
