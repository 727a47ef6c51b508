package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errorStatus = []struct {
	target error
	status int
}{
	{services.ErrValidation, fiber.StatusBadRequest},
	{services.ErrUserExists, fiber.StatusBadRequest},
	{services.ErrAlreadyVerified, fiber.StatusBadRequest},
	{services.ErrOTPExpired, fiber.StatusBadRequest},
	{services.ErrInvalidOTP, fiber.StatusBadRequest},
	{services.ErrSamePassword, fiber.StatusBadRequest},
	{services.ErrInvalidVariant, fiber.StatusBadRequest},
	{services.ErrInsufficientStock, fiber.StatusBadRequest},
	{services.ErrInvalidTransition, fiber.StatusBadRequest},
	{services.ErrNoFiles, fiber.StatusBadRequest},
	{storage.ErrUnsupportedType, fiber.StatusBadRequest},
	{storage.ErrEmptyUpload, fiber.StatusBadRequest},
	{services.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{services.ErrEmailNotVerified, fiber.StatusUnauthorized},
	{services.ErrAccountDisabled, fiber.StatusUnauthorized},
	{services.ErrAdminRequired, fiber.StatusForbidden},
	{services.ErrForbidden, fiber.StatusForbidden},
	{services.ErrSuperAdminProtected, fiber.StatusForbidden},
	{services.ErrUserNotFound, fiber.StatusNotFound},
	{services.ErrProductNotFound, fiber.StatusNotFound},
	{services.ErrOrderNotFound, fiber.StatusNotFound},
	{services.ErrContactNotFound, fiber.StatusNotFound},
	{services.ErrSliderNotFound, fiber.StatusNotFound},
	{services.ErrConflict, fiber.StatusConflict},
	{services.ErrRateLimited, fiber.StatusTooManyRequests},
}

func statusFor(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.target) {
			return e.status
		}
	}
	return fiber.StatusInternalServerError
}

// fail writes the error response. Server errors are logged and replaced by fallback.
func fail(c *fiber.Ctx, err error, fallback string) error {
	status := statusFor(err)
	msg := err.Error()
	if status >= fiber.StatusInternalServerError {
		slog.Error(fallback,
			"component", "http",
			"request_id", requestID(c),
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
		msg = fallback
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func invalidBody(c *fiber.Ctx) error {
	return badRequest(c, "Invalid request body")
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// listParams reads limit with skip, offset or page, plus sortBy and sortOrder.
func listParams(c *fiber.Ctx) services.ListParams {
	p := services.ListParams{
		Limit:     c.QueryInt("limit", services.DefaultListLimit),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	switch {
	case c.Query("skip") != "":
		p.Offset = c.QueryInt("skip")
	case c.Query("offset") != "":
		p.Offset = c.QueryInt("offset")
	case c.Query("page") != "":
		if page := c.QueryInt("page", 1); page > 1 && p.Limit > 0 {
			p.Offset = (page - 1) * p.Limit
		}
	}
	return p
}

func queryBool(c *fiber.Ctx, key string) *bool {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &b
}

func listResponse(items any, total int64, page repository.Page) dto.ListResponse {
	return dto.NewListResponse(items, total, page.Limit, page.Offset)
}

// formUploads opens every file under field. The returned close func must be called.
func formUploads(c *fiber.Ctx, field string) ([]storage.Upload, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, func() {}, nil
	}
	headers := form.File[field]
	var files []multipart.File
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}
	uploads := make([]storage.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
		}
		files = append(files, f)
		uploads = append(uploads, storage.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Body:        f,
		})
	}
	return uploads, closeAll, nil
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}
