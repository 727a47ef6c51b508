package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"

	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"

	DefaultPaymentMethod = "cash_on_delivery"
	DefaultCancelReason  = "Cancelled by user"
)

var orderTransitions = map[string][]string{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered, OrderCancelled},
}

func IsOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

func IsPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to another.
// Terminal statuses and self-transitions are rejected.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type CustomerInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
	Country  string `json:"country"`
}

type PostalAddress struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
	Phone   string `json:"phone,omitempty"`
}

// OrderItem is a snapshot of the product at order time.
type OrderItem struct {
	Product    uuid.UUID       `json:"product"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	UnitType   string          `json:"unitType"`
	Variant    Variant         `json:"variant"`
	TotalItems int             `json:"totalItems"`
	FinalPrice decimal.Decimal `json:"finalPrice"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

type Payment struct {
	Method        string     `json:"method"`
	Status        string     `json:"status"`
	TransactionID string     `json:"transactionId,omitempty"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
}

type Tracking struct {
	Carrier        string     `json:"carrier,omitempty"`
	TrackingNumber string     `json:"trackingNumber,omitempty"`
	ShippedAt      *time.Time `json:"shippedAt,omitempty"`
	DeliveredAt    *time.Time `json:"deliveredAt,omitempty"`
}

type Order struct {
	ID              uuid.UUID                         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          *uuid.UUID                        `gorm:"type:uuid;index" json:"user"`
	CustomerInfo    datatypes.JSONType[CustomerInfo]  `gorm:"type:jsonb" json:"customerInfo"`
	ShippingAddress datatypes.JSONType[PostalAddress] `gorm:"type:jsonb" json:"shippingAddress"`
	BillingAddress  datatypes.JSONType[PostalAddress] `gorm:"type:jsonb" json:"billingAddress"`
	Items           datatypes.JSONSlice[OrderItem]    `gorm:"type:jsonb;not null" json:"items"`
	Subtotal        decimal.Decimal                   `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	Tax             decimal.Decimal                   `gorm:"type:numeric(12,2);default:0" json:"tax"`
	ShippingCost    decimal.Decimal                   `gorm:"type:numeric(12,2);default:0" json:"shippingCost"`
	Discount        decimal.Decimal                   `gorm:"type:numeric(12,2);default:0" json:"discount"`
	Total           decimal.Decimal                   `gorm:"type:numeric(12,2);not null" json:"total"`
	Status          string                            `gorm:"size:20;default:'pending';index" json:"status"`
	Payment         datatypes.JSONType[Payment]       `gorm:"type:jsonb" json:"payment"`
	Tracking        datatypes.JSONType[Tracking]      `gorm:"type:jsonb" json:"tracking"`
	Notes           string                            `gorm:"type:text" json:"notes,omitempty"`
	CancelledAt     *time.Time                        `json:"cancelledAt,omitempty"`
	CancelReason    string                            `gorm:"size:255" json:"cancelReason,omitempty"`
	CreatedAt       time.Time                         `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time                         `json:"updatedAt"`
}

// StockAdjustment moves Units of a product in or out of inventory.
type StockAdjustment struct {
	ProductID uuid.UUID
	Units     int
}

// Adjustments groups the inventory units held by the order per product.
func (o *Order) Adjustments() []StockAdjustment {
	idx := make(map[uuid.UUID]int)
	var out []StockAdjustment
	for _, item := range o.Items {
		if i, ok := idx[item.Product]; ok {
			out[i].Units += item.TotalItems
			continue
		}
		idx[item.Product] = len(out)
		out = append(out, StockAdjustment{ProductID: item.Product, Units: item.TotalItems})
	}
	return out
}

func (o *Order) OwnedBy(userID uuid.UUID) bool {
	return o.UserID != nil && *o.UserID == userID
}
