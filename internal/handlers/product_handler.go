package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Envelope result values.
const (
	ResultOK     = "ok"
	ResultFailed = "failed"
)

// Message texts are kept byte-for-byte for existing clients.
const (
	msgListOK       = "Query list of Products successfully"
	msgListFailed   = "Query list of Tasks failed. Error: %v"
	msgCreateOK     = "Create a new Task successfully"
	msgCreateEmpty  = "Create a new Task failed"
	msgCreateFailed = "Create a new Task failed. Error: %v"
	msgShowOK       = "Query list of Product successfully"
	msgShowFailed   = "Cannot update a Product. Error: %v"
	msgUpdateOK     = "Update a Product successfully"
	msgUpdateFailed = "Cannot update a Product. Error: %v"
	msgDeleteOK     = "Delete a Product successfully"
	msgDeleteFailed = "Delete a Product failed. Error: %v"
)

// ProductHandler handles HTTP requests for products.
//
// By default every response is sent with status 200 and the outcome is
// carried only by the envelope's result field. With strict status codes the
// status reflects the outcome (201, 400, 404, 409, 500).
type ProductHandler struct {
	service *services.ProductService
	log     *zap.Logger
	strict  bool
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, log *zap.Logger, strictStatusCodes bool) *ProductHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductHandler{
		service: service,
		log:     log,
		strict:  strictStatusCodes,
	}
}

// RegisterRoutes registers the product routes with the Fiber router.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleList)
	productRoutes.Post("/", h.HandleCreate)
	productRoutes.Get("/:id", h.HandleShow)
	productRoutes.Put("/:id", h.HandleUpdate)
	productRoutes.Patch("/:id", h.HandleUpdate)
	productRoutes.Delete("/:id", h.HandleDelete)
}

// HandleList returns every product projected to id, name, upc and imageUrl.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext())
	if err != nil {
		return h.failed(c, "list", err, msgListFailed)
	}
	return h.ok(c, fiber.StatusOK, products, msgListOK)
}

// HandleCreate inserts a product from the name, upc and imageUrl body fields.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	fields, err := decodeFields(c)
	if err != nil {
		return h.failed(c, "create", err, msgCreateFailed)
	}

	product, err := h.service.CreateProduct(c.UserContext(), fields)
	if err != nil {
		return h.failed(c, "create", err, msgCreateFailed)
	}
	if product == nil {
		h.log.Warn("product store returned no record on create")
		if h.strict {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"result":  ResultFailed,
				"data":    fiber.Map{},
				"message": msgCreateEmpty,
				"error":   repositories.FaultStoreUnavailable,
			})
		}
		return c.JSON(fiber.Map{
			"result":  ResultOK,
			"data":    fiber.Map{},
			"message": msgCreateEmpty,
		})
	}
	return h.ok(c, fiber.StatusCreated, product, msgCreateOK)
}

// HandleShow returns a single product. An unknown id yields a null data field.
func (h *ProductHandler) HandleShow(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return h.failed(c, "show", err, msgShowFailed)
	}

	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return h.failed(c, "show", err, msgShowFailed)
	}
	if product == nil && h.strict {
		return h.failed(c, "show", &repositories.StoreFault{
			Op:   fmt.Sprintf("find product %d", id),
			Kind: repositories.FaultNotFound,
			Err:  fmt.Errorf("product with ID %d not found", id),
		}, msgShowFailed)
	}
	return h.ok(c, fiber.StatusOK, product, msgShowOK)
}

// HandleUpdate merges the name, upc and imageUrl body fields that are present
// onto an existing product.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return h.failed(c, "update", err, msgUpdateFailed)
	}
	fields, err := decodeFields(c)
	if err != nil {
		return h.failed(c, "update", err, msgUpdateFailed)
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, fields)
	if err != nil {
		return h.failed(c, "update", err, msgUpdateFailed)
	}
	return h.ok(c, fiber.StatusOK, product, msgUpdateOK)
}

// HandleDelete removes a product and echoes it back under "count".
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return h.failed(c, "delete", err, msgDeleteFailed)
	}

	product, err := h.service.DeleteProduct(c.UserContext(), id)
	if err != nil {
		return h.failed(c, "delete", err, msgDeleteFailed)
	}
	return c.Status(h.successStatus(fiber.StatusOK)).JSON(fiber.Map{
		"result":  ResultOK,
		"message": msgDeleteOK,
		"count":   product,
	})
}

func (h *ProductHandler) ok(c *fiber.Ctx, status int, data any, message string) error {
	return c.Status(h.successStatus(status)).JSON(fiber.Map{
		"result":  ResultOK,
		"data":    data,
		"message": message,
	})
}

func (h *ProductHandler) failed(c *fiber.Ctx, op string, err error, format string) error {
	kind := repositories.KindOf(err)
	h.log.Warn("product operation failed",
		zap.String("op", op),
		zap.String("id", c.Params("id")),
		zap.String("kind", string(kind)),
		zap.Error(err))

	return c.Status(h.failureStatus(kind)).JSON(fiber.Map{
		"result":  ResultFailed,
		"data":    fiber.Map{},
		"message": fmt.Sprintf(format, err),
		"error":   kind,
	})
}

func (h *ProductHandler) successStatus(status int) int {
	if !h.strict {
		return fiber.StatusOK
	}
	return status
}

func (h *ProductHandler) failureStatus(kind repositories.FaultKind) int {
	if !h.strict {
		return fiber.StatusOK
	}
	switch kind {
	case repositories.FaultNotFound:
		return fiber.StatusNotFound
	case repositories.FaultUniqueViolation:
		return fiber.StatusConflict
	case repositories.FaultValidation:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func productID(c *fiber.Ctx) (uint, error) {
	raw := c.Params("id")
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return 0, &repositories.StoreFault{
			Op:   "parse product id",
			Kind: repositories.FaultValidation,
			Err:  fmt.Errorf("invalid input syntax for type integer: %q", raw),
		}
	}
	return uint(id), nil
}

// decodeFields reads a JSON or urlencoded body and keeps only the writable
// product fields. An empty body is an empty field set.
func decodeFields(c *fiber.Ctx) (models.ProductFields, error) {
	input := make(map[string]any)

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationForm) {
		c.Request().PostArgs().VisitAll(func(key, value []byte) {
			input[string(key)] = string(value)
		})
		return models.PickProductFields(input), nil
	}

	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 {
		return models.ProductFields{}, nil
	}
	if err := json.Unmarshal(body, &input); err != nil {
		return models.ProductFields{}, &repositories.StoreFault{
			Op:   "decode request body",
			Kind: repositories.FaultValidation,
			Err:  err,
		}
	}
	return models.PickProductFields(input), nil
}
