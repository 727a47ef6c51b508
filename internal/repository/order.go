package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderFilter struct {
	Status string
	UserID *uuid.UUID
	From   *time.Time
	To     *time.Time
	Page
	Sort
}

type OrderStats struct {
	TotalOrders       int64           `json:"totalOrders"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	PendingOrders     int64           `json:"pendingOrders"`
	ProcessingOrders  int64           `json:"processingOrders"`
	ShippedOrders     int64           `json:"shippedOrders"`
	DeliveredOrders   int64           `json:"deliveredOrders"`
	CancelledOrders   int64           `json:"cancelledOrders"`
}

type OrderRepository interface {
	// Place reserves stock for every adjustment and inserts the order in one transaction.
	Place(ctx context.Context, order *models.Order, reserve []models.StockAdjustment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, f OrderFilter) ([]models.Order, int64, error)
	// Transition saves order if its stored status still equals from,
	// returning release units to stock in the same transaction.
	Transition(ctx context.Context, order *models.Order, from string, release []models.StockAdjustment) error
	Update(ctx context.Context, order *models.Order) error
	// Delete removes the order if its stored status still equals from.
	Delete(ctx context.Context, id uuid.UUID, from string, release []models.StockAdjustment) error
	Stats(ctx context.Context, f OrderFilter) (*OrderStats, error)
}

type gormOrderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &gormOrderRepo{db: db}
}

func (r *gormOrderRepo) Place(ctx context.Context, order *models.Order, reserve []models.StockAdjustment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, adj := range sortedAdjustments(reserve) {
			p, err := lockProduct(tx, adj.ProductID)
			if err != nil {
				return err
			}
			available := p.Stock
			if err := p.Reserve(adj.Units); err != nil {
				if !errors.Is(err, models.ErrStockExhausted) {
					return err
				}
				return &StockShortageError{ProductID: p.ID, Name: p.Name, Available: available, Requested: adj.Units}
			}
			if err := saveStock(tx, p); err != nil {
				return err
			}
		}
		return tx.Create(order).Error
	})
}

func (r *gormOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func (r *gormOrderRepo) filtered(ctx context.Context, f OrderFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Order{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}
	return q
}

func (r *gormOrderRepo) List(ctx context.Context, f OrderFilter) ([]models.Order, int64, error) {
	q := r.filtered(ctx, f)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []models.Order
	err := paginate(q.Order(f.Sort.clause("created_at")), f.Page).Find(&orders).Error
	return orders, total, err
}

func (r *gormOrderRepo) Transition(ctx context.Context, order *models.Order, from string, release []models.StockAdjustment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkOrderStatus(tx, order.ID, from); err != nil {
			return err
		}
		if err := releaseStock(tx, release); err != nil {
			return err
		}
		return tx.Save(order).Error
	})
}

func (r *gormOrderRepo) Update(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *gormOrderRepo) Delete(ctx context.Context, id uuid.UUID, from string, release []models.StockAdjustment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkOrderStatus(tx, id, from); err != nil {
			return err
		}
		if err := releaseStock(tx, release); err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, "id = ?", id).Error
	})
}

func (r *gormOrderRepo) Stats(ctx context.Context, f OrderFilter) (*OrderStats, error) {
	var stats OrderStats
	err := r.filtered(ctx, f).Select(`COUNT(*) AS total_orders,
		COALESCE(SUM(total), 0) AS total_revenue,
		COALESCE(AVG(total), 0) AS average_order_value,
		COUNT(*) FILTER (WHERE status = 'pending') AS pending_orders,
		COUNT(*) FILTER (WHERE status = 'processing') AS processing_orders,
		COUNT(*) FILTER (WHERE status = 'shipped') AS shipped_orders,
		COUNT(*) FILTER (WHERE status = 'delivered') AS delivered_orders,
		COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled_orders`).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	stats.AverageOrderValue = stats.AverageOrderValue.Round(2)
	return &stats, nil
}

func checkOrderStatus(tx *gorm.DB, id uuid.UUID, want string) error {
	var current models.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id", "status").First(&current, "id = ?", id).Error
	if err != nil {
		return notFound(err)
	}
	if current.Status != want {
		return ErrStale
	}
	return nil
}

// releaseStock returns units to inventory. Products deleted since the
// order was placed are skipped.
func releaseStock(tx *gorm.DB, adjs []models.StockAdjustment) error {
	for _, adj := range sortedAdjustments(adjs) {
		p, err := lockProduct(tx, adj.ProductID)
		if errors.Is(err, ErrNotFound) {
			slog.Warn("stock restore skipped, product missing", "component", "orders", "product_id", adj.ProductID, "units", adj.Units)
			continue
		}
		if err != nil {
			return err
		}
		if err := p.Release(adj.Units); err != nil {
			return err
		}
		if err := saveStock(tx, p); err != nil {
			return err
		}
	}
	return nil
}
