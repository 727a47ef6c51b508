package handlers

import (
	"strconv"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
)

type SliderHandler struct {
	sliders *services.SliderService
}

func NewSliderHandler(sliders *services.SliderService) *SliderHandler {
	return &SliderHandler{sliders: sliders}
}

// sliderPayload reads slider fields and an optional "image" file.
func sliderPayload(c *fiber.Ctx) (*dto.SliderInput, *storage.Upload, func(), error) {
	in := &dto.SliderInput{}
	if !isMultipart(c) {
		if len(c.Body()) > 0 {
			if err := c.BodyParser(in); err != nil {
				return nil, nil, func() {}, errBadJSON
			}
		}
		return in, nil, func() {}, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, func() {}, errBadJSON
	}
	value := func(key string) (string, bool) {
		if vs := form.Value[key]; len(vs) > 0 {
			return vs[0], true
		}
		return "", false
	}
	if v, ok := value("title"); ok {
		in.Title = &v
	}
	if v, ok := value("link"); ok {
		in.Link = &v
	}
	if v, ok := value("image"); ok {
		in.Image = &v
	}
	if v, ok := value("order"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, nil, func() {}, errBadJSON
		}
		in.Order = &n
	}
	if v, ok := value("isActive"); ok && v != "" {
		b := v == "true" || v == "1"
		in.IsActive = &b
	}

	uploads, done, err := formUploads(c, "image")
	if err != nil {
		return nil, nil, done, err
	}
	if len(uploads) == 0 {
		return in, nil, done, nil
	}
	return in, &uploads[0], done, nil
}

func (h *SliderHandler) List(c *fiber.Ctx) error {
	sliders, err := h.sliders.List(c.UserContext())
	if err != nil {
		return fail(c, err, "Failed to fetch sliders")
	}
	return c.JSON(sliders)
}

func (h *SliderHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid slider id")
	}
	slider, err := h.sliders.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err, "Failed to fetch slider")
	}
	return c.JSON(slider)
}

func (h *SliderHandler) Create(c *fiber.Ctx) error {
	in, upload, done, err := sliderPayload(c)
	defer done()
	if err != nil {
		return badRequest(c, err.Error())
	}
	slider, err := h.sliders.Create(c.UserContext(), in, upload)
	if err != nil {
		return fail(c, err, "Failed to create slider")
	}
	return c.Status(fiber.StatusCreated).JSON(slider)
}

func (h *SliderHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid slider id")
	}
	in, upload, done, err := sliderPayload(c)
	defer done()
	if err != nil {
		return badRequest(c, err.Error())
	}
	slider, err := h.sliders.Update(c.UserContext(), id, in, upload)
	if err != nil {
		return fail(c, err, "Failed to update slider")
	}
	return c.JSON(slider)
}

func (h *SliderHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid slider id")
	}
	if err := h.sliders.Delete(c.UserContext(), id); err != nil {
		return fail(c, err, "Failed to delete slider")
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Slider deleted"})
}
