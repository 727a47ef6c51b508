package repository

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContactFilter struct {
	Status  string
	Replied *bool
	Search  string
	Page
	Sort
}

type ContactStats struct {
	Total      int64 `json:"total"`
	New        int64 `json:"new"`
	InProgress int64 `json:"inProgress"`
	Resolved   int64 `json:"resolved"`
	Closed     int64 `json:"closed"`
	Replied    int64 `json:"replied"`
	NotReplied int64 `json:"notReplied"`
}

type ContactRepository interface {
	Create(ctx context.Context, c *models.Contact) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error)
	List(ctx context.Context, f ContactFilter) ([]models.Contact, int64, error)
	Update(ctx context.Context, c *models.Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*ContactStats, error)
}

type gormContactRepo struct{ db *gorm.DB }

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &gormContactRepo{db: db}
}

func (r *gormContactRepo) Create(ctx context.Context, c *models.Contact) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *gormContactRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	var c models.Contact
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *gormContactRepo) List(ctx context.Context, f ContactFilter) ([]models.Contact, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Contact{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Replied != nil {
		q = q.Where("replied = ?", *f.Replied)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where("name ILIKE ? OR email ILIKE ? OR subject ILIKE ? OR message ILIKE ?", p, p, p, p)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var contacts []models.Contact
	err := paginate(q.Order(f.Sort.clause("created_at")), f.Page).Find(&contacts).Error
	return contacts, total, err
}

func (r *gormContactRepo) Update(ctx context.Context, c *models.Contact) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *gormContactRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Contact{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormContactRepo) Stats(ctx context.Context) (*ContactStats, error) {
	var stats ContactStats
	err := r.db.WithContext(ctx).Model(&models.Contact{}).Select(`COUNT(*) AS total,
		COUNT(*) FILTER (WHERE status = 'new') AS "new",
		COUNT(*) FILTER (WHERE status = 'in-progress') AS in_progress,
		COUNT(*) FILTER (WHERE status = 'resolved') AS resolved,
		COUNT(*) FILTER (WHERE status = 'closed') AS closed,
		COUNT(*) FILTER (WHERE replied) AS replied,
		COUNT(*) FILTER (WHERE NOT replied) AS not_replied`).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
