package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

var (
	errTooManyFiles = fmt.Errorf("at most %d images per request", services.MaxUploadFiles)
	errBadJSON      = errors.New("Invalid request body")
)

type ProductHandler struct {
	catalog *services.CatalogService
}

func NewProductHandler(catalog *services.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// productPayload reads a product from either a multipart form or a JSON body.
func productPayload(c *fiber.Ctx) (*dto.ProductInput, []storage.Upload, func(), error) {
	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, nil, func() {}, errBadJSON
		}
		in, err := dto.ParseProductInput(dto.FormValues(form.Value))
		if err != nil {
			return nil, nil, func() {}, err
		}
		uploads, closeAll, err := formUploads(c, "images")
		if err != nil {
			return nil, nil, func() {}, err
		}
		if len(uploads) > services.MaxUploadFiles {
			closeAll()
			return nil, nil, func() {}, errTooManyFiles
		}
		return in, uploads, closeAll, nil
	}

	raw := map[string]any{}
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &raw); err != nil {
			return nil, nil, func() {}, errBadJSON
		}
	}
	in, err := dto.ParseProductInput(raw)
	return in, nil, func() {}, err
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	in, uploads, done, err := productPayload(c)
	defer done()
	if err != nil {
		return payloadError(c, err)
	}
	product, err := h.catalog.Create(c.UserContext(), in, uploads)
	if err != nil {
		return fail(c, err, "Failed to create product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

func (h *ProductHandler) CreateBulk(c *fiber.Ctx) error {
	var raws []map[string]any
	if err := json.Unmarshal(c.Body(), &raws); err != nil {
		return badRequest(c, "Request body must be a non-empty array of products")
	}
	inputs := make([]*dto.ProductInput, 0, len(raws))
	for _, raw := range raws {
		in, err := dto.ParseProductInput(raw)
		if err != nil {
			return badRequest(c, err.Error())
		}
		inputs = append(inputs, in)
	}
	products, err := h.catalog.CreateBulk(c.UserContext(), inputs)
	if err != nil {
		return fail(c, err, "Failed to insert products")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"message":  "Products added",
		"count":    len(products),
		"products": products,
	})
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	in := services.ProductListInput{
		Category:   c.Query("category"),
		Brand:      c.Query("brand"),
		Status:     c.Query("status"),
		Search:     c.Query("search"),
		Featured:   queryBool(c, "featured"),
		ListParams: listParams(c),
	}
	for key, dst := range map[string]**decimal.Decimal{"minPrice": &in.MinPrice, "maxPrice": &in.MaxPrice} {
		if raw := c.Query(key); raw != "" {
			d, err := decimal.NewFromString(raw)
			if err != nil {
				return badRequest(c, key+" must be a number")
			}
			*dst = &d
		}
	}
	products, total, page, err := h.catalog.List(c.UserContext(), in)
	if err != nil {
		return fail(c, err, "Failed to fetch products")
	}
	return c.JSON(listResponse(products, total, page))
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product id")
	}
	product, err := h.catalog.Get(c.UserContext(), id, true)
	if err != nil {
		return fail(c, err, "Failed to fetch product")
	}
	return c.JSON(product)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product id")
	}
	in, uploads, done, err := productPayload(c)
	defer done()
	if err != nil {
		return payloadError(c, err)
	}
	product, err := h.catalog.Update(c.UserContext(), id, in, uploads)
	if err != nil {
		return fail(c, err, "Failed to update product")
	}
	return c.JSON(product)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product id")
	}
	if err := h.catalog.Delete(c.UserContext(), id); err != nil {
		return fail(c, err, "Failed to delete product")
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Product deleted"})
}

// payloadError reports a malformed product payload. Coercion failures are client errors.
func payloadError(c *fiber.Ctx, err error) error {
	if statusFor(err) != fiber.StatusInternalServerError {
		return fail(c, err, "Failed to read product")
	}
	return badRequest(c, err.Error())
}
