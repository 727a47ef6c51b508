package handlers

import (
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ContactHandler struct {
	contacts *services.ContactService
}

func NewContactHandler(contacts *services.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	contact, err := h.contacts.Submit(c.UserContext(), &req)
	if err != nil {
		return fail(c, err, "Failed to submit message")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Your message has been sent successfully",
		"contact": contact,
	})
}

func (h *ContactHandler) List(c *fiber.Ctx) error {
	contacts, total, page, err := h.contacts.List(c.UserContext(), services.ContactListInput{
		Status:     c.Query("status"),
		Replied:    queryBool(c, "replied"),
		Search:     c.Query("search"),
		ListParams: listParams(c),
	})
	if err != nil {
		return fail(c, err, "Failed to fetch contacts")
	}
	return c.JSON(listResponse(contacts, total, page))
}

func (h *ContactHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.contacts.Stats(c.UserContext())
	if err != nil {
		return fail(c, err, "Failed to fetch contact statistics")
	}
	return c.JSON(fiber.Map{"success": true, "stats": stats})
}

func (h *ContactHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid contact id")
	}
	contact, err := h.contacts.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err, "Failed to fetch contact")
	}
	return c.JSON(fiber.Map{"success": true, "contact": contact})
}

func (h *ContactHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid contact id")
	}
	var req dto.ContactStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	contact, err := h.contacts.UpdateStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return fail(c, err, "Failed to update contact status")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Contact status updated", "contact": contact})
}

func (h *ContactHandler) Reply(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid contact id")
	}
	var req dto.ContactReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	contact, err := h.contacts.Reply(c.UserContext(), id, req.ReplyMessage, middleware.CurrentUser(c).UserID)
	if err != nil {
		return fail(c, err, "Failed to send reply")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Reply sent successfully", "contact": contact})
}

func (h *ContactHandler) UpdateNotes(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid contact id")
	}
	var req dto.ContactNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	contact, err := h.contacts.UpdateNotes(c.UserContext(), id, req.Notes)
	if err != nil {
		return fail(c, err, "Failed to update notes")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Notes updated", "contact": contact})
}

func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid contact id")
	}
	if err := h.contacts.Delete(c.UserContext(), id); err != nil {
		return fail(c, err, "Failed to delete contact")
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Contact deleted successfully"})
}
