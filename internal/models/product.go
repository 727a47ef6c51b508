package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	ProductActive     = "active"
	ProductInactive   = "inactive"
	ProductOutOfStock = "out-of-stock"

	AvailabilityInStock    = "In Stock"
	AvailabilityOutOfStock = "Out of Stock"

	DefaultUnitType = "strip"
)

// DetailSections are the rich-content keys accepted in Product.Details.
var DetailSections = []string{
	"overview", "administration", "sideEffects", "contraindications",
	"howItWorks", "tips", "faq", "warning",
}

var (
	ErrStockExhausted = errors.New("not enough stock")
	ErrInvalidUnits   = errors.New("stock adjustment must be positive")
)

// Variant is a bulk pack: Quantity units sold together at Discount percent off.
type Variant struct {
	Quantity int             `json:"quantity"`
	Discount decimal.Decimal `json:"discount"`
}

func (v Variant) String() string {
	return fmt.Sprintf("%d units (%s%% off)", v.Quantity, v.Discount.String())
}

type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type Product struct {
	ID            uuid.UUID                    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string                       `gorm:"size:255;not null;index" json:"name"`
	Description   string                       `gorm:"type:text" json:"description"`
	Brand         string                       `gorm:"size:120" json:"brand"`
	Category      string                       `gorm:"size:120;index" json:"category"`
	UnitType      string                       `gorm:"size:30;default:'strip'" json:"unitType"`
	Price         decimal.Decimal              `gorm:"type:numeric(12,2);not null" json:"price"`
	OriginalPrice decimal.NullDecimal          `gorm:"type:numeric(12,2)" json:"originalPrice"`
	Stock         int                          `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	Status        string                       `gorm:"size:20;default:'active';index" json:"status"`
	Availability  string                       `gorm:"size:20;default:'In Stock'" json:"availability"`
	Image         pq.StringArray               `gorm:"type:text[]" json:"image"`
	Variants      datatypes.JSONSlice[Variant] `gorm:"type:jsonb" json:"variants"`
	Sales         int                          `gorm:"not null;default:0" json:"sales"`
	Views         int                          `gorm:"not null;default:0" json:"views"`
	Rating        datatypes.JSONType[Rating]   `gorm:"type:jsonb" json:"rating"`
	IsNew         bool                         `gorm:"default:false" json:"isNew"`
	IsFeatured    bool                         `gorm:"default:false;index" json:"isFeatured"`
	MetaKeywords  pq.StringArray               `gorm:"type:text[]" json:"metaKeywords"`
	Details       datatypes.JSONMap            `gorm:"type:jsonb" json:"details"`
	CreatedAt     time.Time                    `json:"createdAt"`
	UpdatedAt     time.Time                    `json:"updatedAt"`
}

// SyncStockStatus re-derives status and availability from stock.
// An inactive product stays inactive while it has stock.
func (p *Product) SyncStockStatus() {
	if p.Stock <= 0 {
		p.Stock = 0
		p.Status = ProductOutOfStock
		p.Availability = AvailabilityOutOfStock
		return
	}
	if p.Status == "" || p.Status == ProductOutOfStock {
		p.Status = ProductActive
	}
	p.Availability = AvailabilityInStock
}

// Reserve takes units out of stock and counts them as sold.
func (p *Product) Reserve(units int) error {
	if units <= 0 {
		return ErrInvalidUnits
	}
	if units > p.Stock {
		return ErrStockExhausted
	}
	p.Stock -= units
	p.Sales += units
	p.SyncStockStatus()
	return nil
}

// Release puts units back into stock and reverses the sale.
func (p *Product) Release(units int) error {
	if units <= 0 {
		return ErrInvalidUnits
	}
	p.Stock += units
	p.Sales -= units
	if p.Sales < 0 {
		p.Sales = 0
	}
	p.SyncStockStatus()
	return nil
}

func (p *Product) HasVariants() bool {
	return len(p.Variants) > 0
}

func (p *Product) FindVariant(quantity int, discount decimal.Decimal) (Variant, bool) {
	for _, v := range p.Variants {
		if v.Quantity == quantity && v.Discount.Equal(discount) {
			return v, true
		}
	}
	return Variant{}, false
}

func (p *Product) VariantOptions() string {
	opts := make([]string, 0, len(p.Variants))
	for _, v := range p.Variants {
		opts = append(opts, v.String())
	}
	return strings.Join(opts, ", ")
}
