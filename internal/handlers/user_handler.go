package handlers

import (
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, total, page, err := h.users.List(c.UserContext(), services.UserListInput{
		Role:       c.Query("role"),
		IsActive:   queryBool(c, "isActive"),
		Search:     c.Query("search"),
		ListParams: listParams(c),
	})
	if err != nil {
		return fail(c, err, "Failed to fetch users")
	}
	return c.JSON(listResponse(users, total, page))
}

func (h *UserHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.users.Stats(c.UserContext())
	if err != nil {
		return fail(c, err, "Failed to fetch user statistics")
	}
	return c.JSON(fiber.Map{"success": true, "stats": stats})
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}
	user, err := h.users.GetFor(c.UserContext(), id, middleware.CurrentUser(c))
	if err != nil {
		return fail(c, err, "Failed to fetch user")
	}
	return c.JSON(fiber.Map{"success": true, "user": user})
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	user, err := h.users.UpdateUser(c.UserContext(), id, &req, middleware.CurrentUser(c))
	if err != nil {
		return fail(c, err, "Failed to update user")
	}
	return c.JSON(fiber.Map{"success": true, "message": "User updated successfully", "user": user})
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}
	if err := h.users.DeleteUser(c.UserContext(), id); err != nil {
		return fail(c, err, "Failed to delete user")
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "User deleted successfully"})
}

func (h *UserHandler) ToggleStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}
	user, err := h.users.ToggleUserStatus(c.UserContext(), id)
	if err != nil {
		return fail(c, err, "Failed to update user status")
	}
	msg := "User deactivated successfully"
	if user.IsActive {
		msg = "User activated successfully"
	}
	return c.JSON(fiber.Map{"success": true, "message": msg, "user": user})
}
