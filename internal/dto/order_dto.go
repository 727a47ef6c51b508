package dto

import (
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is one cart line. SelectedQuantity is the pack size;
// 0 or 1 means single units.
type OrderItemRequest struct {
	ProductID        uuid.UUID       `json:"_id"`
	Name             string          `json:"name"`
	Quantity         int             `json:"quantity"`
	SelectedQuantity int             `json:"selectedQuantity"`
	Discount         decimal.Decimal `json:"discount"`
	UnitType         string          `json:"unitType"`
}

type CreateOrderRequest struct {
	FormData      models.CustomerInfo   `json:"formData"`
	Items         []OrderItemRequest    `json:"items"`
	Total         decimal.NullDecimal   `json:"total"`
	Tax           decimal.Decimal       `json:"tax"`
	ShippingCost  decimal.Decimal       `json:"shippingCost"`
	Discount      decimal.Decimal       `json:"discount"`
	PaymentMethod string                `json:"paymentMethod" validate:"omitempty,oneof=credit_card debit_card paypal stripe cash_on_delivery"`
	Billing       *models.PostalAddress `json:"billingAddress"`
	Notes         string                `json:"notes"`
}

type TrackingInput struct {
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"trackingNumber"`
}

type UpdateOrderStatusRequest struct {
	Status       string         `json:"status" validate:"required"`
	Tracking     *TrackingInput `json:"tracking"`
	CancelReason string         `json:"cancelReason"`
	Notes        string         `json:"notes"`
}

type UpdatePaymentRequest struct {
	Status        string `json:"status" validate:"required"`
	TransactionID string `json:"transactionId"`
}
