package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/validate"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var userSortColumns = map[string]string{
	"createdAt": "created_at",
	"username":  "username",
	"email":     "email",
	"role":      "role",
	"lastLogin": "last_login",
}

// UserService backs the user administration endpoints.
type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

type UserListInput struct {
	Role     string
	IsActive *bool
	Search   string
	ListParams
}

func (s *UserService) List(ctx context.Context, in UserListInput) ([]models.User, int64, repository.Page, error) {
	page := in.page()
	users, total, err := s.users.List(ctx, repository.UserFilter{
		Role:     in.Role,
		IsActive: in.IsActive,
		Search:   strings.TrimSpace(in.Search),
		Page:     page,
		Sort:     in.sort(userSortColumns),
	})
	if err != nil {
		return nil, 0, page, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, page, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return u, nil
}

// GetFor returns the user when the requester owns the account or is an admin.
func (s *UserService) GetFor(ctx context.Context, id uuid.UUID, requester *Claims) (*models.User, error) {
	if requester == nil || (requester.UserID != id && !requester.IsAdmin()) {
		return nil, ErrForbidden
	}
	return s.Get(ctx, id)
}

func (s *UserService) Stats(ctx context.Context) (*repository.UserStats, error) {
	stats, err := s.users.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute user stats: %w", err)
	}
	return stats, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest, requester *Claims) (*models.User, error) {
	if requester == nil || (requester.UserID != id && !requester.IsAdmin()) {
		return nil, ErrForbidden
	}
	if req.HasPrivilegedFields() && !requester.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := validate.StructFields(req); err != nil {
		return nil, invalid("%s", err.Error())
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsSuperAdmin() && !requester.IsSuperAdmin() && (req.Role != nil || req.IsActive != nil) {
		return nil, ErrSuperAdminProtected
	}
	if user.IsSuperAdmin() && req.IsActive != nil && !*req.IsActive {
		return nil, ErrSuperAdminProtected
	}
	if req.Role != nil && *req.Role == models.RoleSuperAdmin && !requester.IsSuperAdmin() {
		return nil, ErrForbidden
	}

	if req.Username != nil {
		name := strings.TrimSpace(*req.Username)
		if name == "" {
			return nil, invalid("Username cannot be empty")
		}
		if name != user.Username {
			other, err := s.users.FindByIdentifier(ctx, name)
			switch {
			case err == nil && other.ID != user.ID:
				return nil, ErrUserExists
			case err != nil && !errors.Is(err, repository.ErrNotFound):
				return nil, fmt.Errorf("failed to check username: %w", err)
			}
		}
		user.Username = name
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		user.Address = datatypes.NewJSONType(req.Address.MergeInto(user.Address.Data()))
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.IsEmailVerified != nil {
		user.IsEmailVerified = *req.IsEmailVerified
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if user.IsSuperAdmin() {
		return ErrSuperAdminProtected
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (s *UserService) ToggleUserStatus(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsSuperAdmin() {
		return nil, ErrSuperAdminProtected
	}
	user.IsActive = !user.IsActive
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to toggle user status: %w", err)
	}
	return user, nil
}

// EnsureAdmin creates a verified super admin unless the account already exists.
func (s *UserService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}
	exists, err := s.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return fmt.Errorf("failed to check admin account: %w", err)
	}
	if exists {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin := &models.User{
		ID:              uuid.New(),
		Username:        username,
		Email:           email,
		Password:        string(hash),
		Role:            models.RoleSuperAdmin,
		IsActive:        true,
		IsEmailVerified: true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}
	slog.Info("admin account created", "component", "users", "username", username)
	return nil
}
