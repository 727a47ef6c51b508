package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductFilter struct {
	Category string
	Brand    string
	Status   string
	Search   string
	Featured *bool
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Page
	Sort
}

type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) error
	CreateMany(ctx context.Context, ps []models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, f ProductFilter) ([]models.Product, int64, error)
	// Mutate locks the product row, applies fn and saves the result.
	Mutate(ctx context.Context, id uuid.UUID, fn func(p *models.Product) error) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.Product, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

type gormProductRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &gormProductRepo{db: db}
}

func (r *gormProductRepo) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *gormProductRepo) CreateMany(ctx context.Context, ps []models.Product) error {
	if len(ps) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(ps, 100).Error
	})
}

func (r *gormProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *gormProductRepo) List(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Brand != "" {
		q = q.Where("brand = ?", f.Brand)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Featured != nil {
		q = q.Where("is_featured = ?", *f.Featured)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where("name ILIKE ? OR description ILIKE ? OR brand ILIKE ? OR ? = ANY(meta_keywords)", p, p, p, f.Search)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var products []models.Product
	err := paginate(q.Order(f.Sort.clause("created_at")), f.Page).Find(&products).Error
	return products, total, err
}

func (r *gormProductRepo) Mutate(ctx context.Context, id uuid.UUID, fn func(p *models.Product) error) (*models.Product, error) {
	var out *models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := lockProduct(tx, id)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		if err := tx.Save(p).Error; err != nil {
			return err
		}
		out = p
		return nil
	})
	return out, err
}

func (r *gormProductRepo) Delete(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	res := r.db.WithContext(ctx).Clauses(clause.Returning{}).Where("id = ?", id).Delete(&p)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *gormProductRepo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func lockProduct(tx *gorm.DB, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func saveStock(tx *gorm.DB, p *models.Product) error {
	return tx.Model(p).Updates(map[string]any{
		"stock":        p.Stock,
		"sales":        p.Sales,
		"status":       p.Status,
		"availability": p.Availability,
	}).Error
}
