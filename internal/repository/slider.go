package repository

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SliderRepository interface {
	Create(ctx context.Context, s *models.Slider) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Slider, error)
	// List orders by position, newest first within a position.
	List(ctx context.Context) ([]models.Slider, error)
	Update(ctx context.Context, s *models.Slider) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gormSliderRepo struct{ db *gorm.DB }

func NewSliderRepository(db *gorm.DB) SliderRepository {
	return &gormSliderRepo{db: db}
}

func (r *gormSliderRepo) Create(ctx context.Context, s *models.Slider) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *gormSliderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Slider, error) {
	var s models.Slider
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *gormSliderRepo) List(ctx context.Context) ([]models.Slider, error) {
	var sliders []models.Slider
	err := r.db.WithContext(ctx).Order("sort_order ASC").Order("created_at DESC").Find(&sliders).Error
	return sliders, err
}

func (r *gormSliderRepo) Update(ctx context.Context, s *models.Slider) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *gormSliderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Slider{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
