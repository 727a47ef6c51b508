package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/validate"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var (
	orderSortColumns = map[string]string{
		"createdAt": "created_at",
		"updatedAt": "updated_at",
		"total":     "total",
		"status":    "status",
	}
	hundred = decimal.NewFromInt(100)
)

// OrderService prices carts against the catalog and drives the order status machine.
type OrderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	now      func() time.Time
}

func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository) *OrderService {
	return &OrderService{orders: orders, products: products, now: time.Now}
}

func (s *OrderService) CreateOrder(ctx context.Context, req *dto.CreateOrderRequest, userID *uuid.UUID) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, invalid("Order must contain at least one item")
	}
	ci := req.FormData
	if strings.TrimSpace(ci.FullName) == "" || strings.TrimSpace(ci.Email) == "" ||
		strings.TrimSpace(ci.Phone) == "" || strings.TrimSpace(ci.Address) == "" {
		return nil, invalid("Full name, email, phone and address are required")
	}
	if err := validate.StructFields(req); err != nil {
		return nil, invalid("%s", err.Error())
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	subtotal := decimal.Zero
	for _, line := range req.Items {
		item, err := s.priceLine(ctx, line)
		if err != nil {
			return nil, err
		}
		subtotal = subtotal.Add(item.Subtotal)
		items = append(items, *item)
	}

	total := subtotal
	if req.Total.Valid {
		total = req.Total.Decimal
	}
	method := req.PaymentMethod
	if method == "" {
		method = models.DefaultPaymentMethod
	}
	shipping := models.PostalAddress{
		Name:    ci.FullName,
		Street:  ci.Address,
		City:    ci.City,
		State:   ci.State,
		ZipCode: ci.ZipCode,
		Country: ci.Country,
		Phone:   ci.Phone,
	}
	billing := shipping
	if req.Billing != nil {
		billing = *req.Billing
	}

	order := &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		CustomerInfo:    datatypes.NewJSONType(ci),
		ShippingAddress: datatypes.NewJSONType(shipping),
		BillingAddress:  datatypes.NewJSONType(billing),
		Items:           items,
		Subtotal:        subtotal,
		Tax:             req.Tax,
		ShippingCost:    req.ShippingCost,
		Discount:        req.Discount,
		Total:           total,
		Status:          models.OrderPending,
		Payment:         datatypes.NewJSONType(models.Payment{Method: method, Status: models.PaymentPending}),
		Notes:           strings.TrimSpace(req.Notes),
	}

	if err := s.orders.Place(ctx, order, order.Adjustments()); err != nil {
		var short *repository.StockShortageError
		switch {
		case errors.As(err, &short):
			return nil, fmt.Errorf("%w for %s. Available: %d, Requested: %d", ErrInsufficientStock, short.Name, short.Available, short.Requested)
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	return order, nil
}

// priceLine resolves one cart line against the catalog. The per-line stock
// check is advisory; Place re-checks merged totals under row locks.
func (s *OrderService) priceLine(ctx context.Context, line dto.OrderItemRequest) (*models.OrderItem, error) {
	if line.Quantity < 1 {
		return nil, invalid("Quantity must be at least 1")
	}
	p, err := s.products.GetByID(ctx, line.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, line.ProductID)
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	variant := models.Variant{Quantity: 1, Discount: decimal.Zero}
	if line.SelectedQuantity > 1 {
		switch {
		case p.HasVariants():
			v, ok := p.FindVariant(line.SelectedQuantity, line.Discount)
			if !ok {
				return nil, fmt.Errorf("%w for %s. Available options: %s", ErrInvalidVariant, p.Name, p.VariantOptions())
			}
			variant = v
		case line.Discount.IsZero():
			variant.Quantity = line.SelectedQuantity
		default:
			return nil, fmt.Errorf("%w for %s. No bulk options are configured", ErrInvalidVariant, p.Name)
		}
	}

	// Bound both factors by stock before multiplying so the product cannot overflow.
	if line.Quantity > p.Stock || variant.Quantity > p.Stock/line.Quantity {
		return nil, fmt.Errorf("%w for %s. Available: %d, Requested: %d x %d", ErrInsufficientStock, p.Name, p.Stock, line.Quantity, variant.Quantity)
	}
	totalItems := line.Quantity * variant.Quantity
	if totalItems > p.Stock {
		return nil, fmt.Errorf("%w for %s. Available: %d, Requested: %d", ErrInsufficientStock, p.Name, p.Stock, totalItems)
	}

	discountAmount := p.Price.Mul(variant.Discount).Div(hundred)
	finalPrice := p.Price.Sub(discountAmount).Round(2)
	unitType := line.UnitType
	if unitType == "" {
		unitType = p.UnitType
	}
	if unitType == "" {
		unitType = models.DefaultUnitType
	}

	return &models.OrderItem{
		Product:    p.ID,
		Name:       p.Name,
		Price:      p.Price,
		Quantity:   line.Quantity,
		UnitType:   unitType,
		Variant:    variant,
		TotalItems: totalItems,
		FinalPrice: finalPrice,
		Subtotal:   finalPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
	}, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateOrderStatusRequest) (*models.Order, error) {
	if !models.IsOrderStatus(req.Status) {
		return nil, invalid("Invalid status. Must be one of: pending, processing, shipped, delivered, cancelled")
	}
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if !models.CanTransition(from, req.Status) {
		return nil, fmt.Errorf("%w from %s to %s", ErrInvalidTransition, from, req.Status)
	}

	now := s.now()
	var release []models.StockAdjustment
	switch req.Status {
	case models.OrderShipped:
		if req.Tracking != nil {
			tr := order.Tracking.Data()
			tr.Carrier = req.Tracking.Carrier
			tr.TrackingNumber = req.Tracking.TrackingNumber
			tr.ShippedAt = &now
			order.Tracking = datatypes.NewJSONType(tr)
		}
	case models.OrderDelivered:
		tr := order.Tracking.Data()
		tr.DeliveredAt = &now
		order.Tracking = datatypes.NewJSONType(tr)
		pay := order.Payment.Data()
		pay.Status = models.PaymentCompleted
		if pay.PaidAt == nil {
			pay.PaidAt = &now
		}
		order.Payment = datatypes.NewJSONType(pay)
	case models.OrderCancelled:
		order.CancelledAt = &now
		order.CancelReason = strings.TrimSpace(req.CancelReason)
		if order.CancelReason == "" {
			order.CancelReason = models.DefaultCancelReason
		}
		release = order.Adjustments()
	}
	if req.Notes != "" {
		order.Notes = req.Notes
	}
	order.Status = req.Status

	if err := s.orders.Transition(ctx, order, from, release); err != nil {
		return nil, s.writeError(err, "failed to update order status")
	}
	return order, nil
}

func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, req *dto.UpdatePaymentRequest) (*models.Order, error) {
	if !models.IsPaymentStatus(req.Status) {
		return nil, invalid("Invalid payment status. Must be one of: pending, completed, failed, refunded")
	}
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	pay := order.Payment.Data()
	pay.Status = req.Status
	if req.TransactionID != "" {
		pay.TransactionID = req.TransactionID
	}
	if req.Status == models.PaymentCompleted && pay.PaidAt == nil {
		now := s.now()
		pay.PaidAt = &now
	}
	order.Payment = datatypes.NewJSONType(pay)

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}
	return order, nil
}

// DeleteOrder removes the order, returning its units to stock unless it was already cancelled.
func (s *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	var release []models.StockAdjustment
	if order.Status != models.OrderCancelled {
		release = order.Adjustments()
	}
	if err := s.orders.Delete(ctx, id, order.Status, release); err != nil {
		return s.writeError(err, "failed to delete order")
	}
	return nil
}

type OrderListInput struct {
	Status string
	UserID *uuid.UUID
	ListParams
}

func (s *OrderService) ListOrders(ctx context.Context, in OrderListInput) ([]models.Order, int64, repository.Page, error) {
	page := in.page()
	orders, total, err := s.orders.List(ctx, repository.OrderFilter{
		Status: in.Status,
		UserID: in.UserID,
		Page:   page,
		Sort:   in.sort(orderSortColumns),
	})
	if err != nil {
		return nil, 0, page, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, page, nil
}

// ListUserOrders lists one customer's orders for the customer or an admin.
func (s *OrderService) ListUserOrders(ctx context.Context, userID uuid.UUID, requester *Claims, in OrderListInput) ([]models.Order, int64, repository.Page, error) {
	if requester == nil || (requester.UserID != userID && !requester.IsAdmin()) {
		return nil, 0, repository.Page{}, ErrForbidden
	}
	in.UserID = &userID
	return s.ListOrders(ctx, in)
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return order, nil
}

func (s *OrderService) GetOrderForUser(ctx context.Context, id uuid.UUID, requester *Claims) (*models.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if requester == nil || (!requester.IsAdmin() && !order.OwnedBy(requester.UserID)) {
		return nil, ErrForbidden
	}
	return order, nil
}

func (s *OrderService) Stats(ctx context.Context, from, to *time.Time, userID *uuid.UUID) (*repository.OrderStats, error) {
	stats, err := s.orders.Stats(ctx, repository.OrderFilter{From: from, To: to, UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to compute order stats: %w", err)
	}
	return stats, nil
}

func (s *OrderService) writeError(err error, msg string) error {
	switch {
	case errors.Is(err, repository.ErrStale):
		return ErrConflict
	case errors.Is(err, repository.ErrNotFound):
		return ErrOrderNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}
