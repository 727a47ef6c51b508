package repository

import (
	"context"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserFilter struct {
	Role     string
	IsActive *bool
	Search   string
	Page
	Sort
}

type RoleCount struct {
	Role  string `json:"role"`
	Count int64  `json:"count"`
}

type UserStats struct {
	Total    int64         `json:"total"`
	Active   int64         `json:"active"`
	Verified int64         `json:"verified"`
	ByRole   []RoleCount   `json:"byRole"`
	Recent   []models.User `json:"recent"`
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByIdentifier matches the username or the lowercased email.
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	Update(ctx context.Context, u *models.User) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f UserFilter) ([]models.User, int64, error)
	Stats(ctx context.Context) (*UserStats, error)
}

type gormUserRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepo{db: db}
}

func (r *gormUserRepo) Create(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *gormUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *gormUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *gormUserRepo) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	id := strings.TrimSpace(identifier)
	var u models.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", id, strings.ToLower(id)).
		First(&u).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *gormUserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", username, strings.ToLower(email)).
		Count(&count).Error
	return count > 0, err
}

func (r *gormUserRepo) Update(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *gormUserRepo) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("last_login", at).Error
}

func (r *gormUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormUserRepo) List(ctx context.Context, f UserFilter) ([]models.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.User{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where("username ILIKE ? OR email ILIKE ?", p, p)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	err := paginate(q.Order(f.Sort.clause("created_at")), f.Page).Find(&users).Error
	return users, total, err
}

func (r *gormUserRepo) Stats(ctx context.Context) (*UserStats, error) {
	db := r.db.WithContext(ctx)
	stats := &UserStats{}
	if err := db.Model(&models.User{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Where("is_active = ?", true).Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Where("is_email_verified = ?", true).Count(&stats.Verified).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Select("role, COUNT(*) AS count").Group("role").Scan(&stats.ByRole).Error; err != nil {
		return nil, err
	}
	if err := db.Order("created_at DESC").Limit(10).Find(&stats.Recent).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
