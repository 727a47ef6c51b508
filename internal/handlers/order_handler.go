package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orders *services.OrderService
}

func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	userID := middleware.CurrentUser(c).UserID
	order, err := h.orders.CreateOrder(c.UserContext(), &req, &userID)
	if err != nil {
		return fail(c, err, "Failed to create order")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Order placed successfully",
		"order":   order,
	})
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	in := services.OrderListInput{Status: c.Query("status"), ListParams: listParams(c)}
	if raw := c.Query("userId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "Invalid user id")
		}
		in.UserID = &id
	}
	orders, total, page, err := h.orders.ListOrders(c.UserContext(), in)
	if err != nil {
		return fail(c, err, "Failed to fetch orders")
	}
	return c.JSON(listResponse(orders, total, page))
}

func (h *OrderHandler) Stats(c *fiber.Ctx) error {
	from, err := queryTime(c, "startDate")
	if err != nil {
		return badRequest(c, "Invalid startDate")
	}
	to, err := queryTime(c, "endDate")
	if err != nil {
		return badRequest(c, "Invalid endDate")
	}
	var userID *uuid.UUID
	if raw := c.Query("userId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "Invalid user id")
		}
		userID = &id
	}
	stats, err := h.orders.Stats(c.UserContext(), from, to, userID)
	if err != nil {
		return fail(c, err, "Failed to fetch order statistics")
	}
	return c.JSON(fiber.Map{"success": true, "stats": stats})
}

func (h *OrderHandler) MyOrders(c *fiber.Ctx) error {
	claims := middleware.CurrentUser(c)
	orders, total, page, err := h.orders.ListUserOrders(c.UserContext(), claims.UserID, claims,
		services.OrderListInput{Status: c.Query("status"), ListParams: listParams(c)})
	if err != nil {
		return fail(c, err, "Failed to fetch orders")
	}
	return c.JSON(listResponse(orders, total, page))
}

func (h *OrderHandler) UserOrders(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}
	orders, total, page, err := h.orders.ListUserOrders(c.UserContext(), userID, middleware.CurrentUser(c),
		services.OrderListInput{Status: c.Query("status"), ListParams: listParams(c)})
	if err != nil {
		return fail(c, err, "Failed to fetch orders")
	}
	return c.JSON(listResponse(orders, total, page))
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid order id")
	}
	order, err := h.orders.GetOrderForUser(c.UserContext(), id, middleware.CurrentUser(c))
	if err != nil {
		return fail(c, err, "Failed to fetch order")
	}
	return c.JSON(fiber.Map{"success": true, "order": order})
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid order id")
	}
	var req dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	order, err := h.orders.UpdateStatus(c.UserContext(), id, &req)
	if err != nil {
		return fail(c, err, "Failed to update order status")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Order status updated to " + order.Status, "order": order})
}

func (h *OrderHandler) UpdatePayment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid order id")
	}
	var req dto.UpdatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	order, err := h.orders.UpdatePaymentStatus(c.UserContext(), id, &req)
	if err != nil {
		return fail(c, err, "Failed to update payment status")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Payment status updated", "order": order})
}

func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid order id")
	}
	if err := h.orders.DeleteOrder(c.UserContext(), id); err != nil {
		return fail(c, err, "Failed to delete order")
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Order deleted successfully"})
}

// queryTime accepts RFC 3339 timestamps or plain dates.
func queryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fiber.ErrBadRequest
}
