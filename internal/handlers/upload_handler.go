package handlers

import (
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UploadHandler struct {
	uploads *services.UploadService
}

func NewUploadHandler(uploads *services.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

func (h *UploadHandler) Image(c *fiber.Ctx) error {
	files, done, err := formUploads(c, "image")
	defer done()
	if err != nil {
		return badRequest(c, err.Error())
	}
	if len(files) == 0 {
		return fail(c, services.ErrNoFiles, "Upload failed")
	}
	url, err := h.uploads.SaveOne(c.UserContext(), files[0])
	if err != nil {
		return fail(c, err, "Upload failed")
	}
	return c.JSON(fiber.Map{"message": "Image uploaded successfully", "image": url})
}

func (h *UploadHandler) Images(c *fiber.Ctx) error {
	files, done, err := formUploads(c, "images")
	defer done()
	if err != nil {
		return badRequest(c, err.Error())
	}
	urls, err := h.uploads.SaveMany(c.UserContext(), files)
	if err != nil {
		return fail(c, err, "Upload failed")
	}
	return c.JSON(fiber.Map{"message": "Images uploaded successfully", "images": urls, "count": len(urls)})
}
