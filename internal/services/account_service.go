package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/notify"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/validate"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 6

// AccountService owns registration, email verification, login and password flows.
type AccountService struct {
	users    repository.UserRepository
	tokens   *TokenIssuer
	notifier notify.Enqueuer
	otpTTL   time.Duration
	cooldown time.Duration
	now      func() time.Time
}

func NewAccountService(users repository.UserRepository, tokens *TokenIssuer, notifier notify.Enqueuer, cfg *config.Config) *AccountService {
	return &AccountService{
		users:    users,
		tokens:   tokens,
		notifier: notifier,
		otpTTL:   cfg.OTPTTL,
		cooldown: cfg.OTPResendCooldown,
		now:      time.Now,
	}
}

func (s *AccountService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = normalizeEmail(req.Email)
	if err := validate.StructFields(req); err != nil {
		return nil, invalid("%s", err.Error())
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	code, err := generateOTP()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:       uuid.New(),
		Username: req.Username,
		Email:    req.Email,
		Phone:    strings.TrimSpace(req.Phone),
		Password: string(hash),
		Role:     models.RoleUser,
		IsActive: true,
	}
	user.SetOTP(hashOTP(code), s.now(), s.otpTTL)

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.sendCode(notify.KindOTP, user, code)
	return user, nil
}

func (s *AccountService) VerifyOTP(ctx context.Context, email, code string) (*dto.AuthResponse, error) {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.IsEmailVerified {
		return nil, ErrAlreadyVerified
	}
	if user.OTPExpired(s.now()) {
		return nil, ErrOTPExpired
	}
	if !otpMatches(user.OTP, strings.TrimSpace(code)) {
		return nil, ErrInvalidOTP
	}

	user.IsEmailVerified = true
	user.ClearOTP()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to verify user: %w", err)
	}

	s.notifier.Enqueue(notify.Notification{Kind: notify.KindWelcome, To: user.Email, ToName: user.Username})
	return s.session(user)
}

func (s *AccountService) ResendOTP(ctx context.Context, email string) error {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsEmailVerified {
		return ErrAlreadyVerified
	}
	return s.issueCode(ctx, user, notify.KindOTP)
}

// Authenticate logs a user in by username or email.
func (s *AccountService) Authenticate(ctx context.Context, identifier, password string) (*dto.AuthResponse, error) {
	if strings.TrimSpace(identifier) == "" || password == "" {
		return nil, invalid("Username or email and password are required")
	}
	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !user.IsEmailVerified {
		return nil, ErrEmailNotVerified
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		slog.Warn("failed to record last login", "component", "accounts", "user_id", user.ID.String(), "error", err)
	} else {
		user.LastLogin = &now
	}
	return s.session(user)
}

func (s *AccountService) AuthenticateAdmin(ctx context.Context, identifier, password string) (*dto.AuthResponse, error) {
	resp, err := s.Authenticate(ctx, identifier, password)
	if err != nil {
		return nil, err
	}
	if !resp.User.IsAdmin() {
		return nil, ErrAdminRequired
	}
	return resp, nil
}

// ForgotPassword emails a reset code. Unknown addresses succeed silently.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	if !validate.IsEmail(normalizeEmail(email)) {
		return invalid("Please provide a valid email address")
	}
	user, err := s.userByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.issueCode(ctx, user, notify.KindPasswordReset)
}

func (s *AccountService) ResetPasswordWithOTP(ctx context.Context, req *dto.ResetPasswordRequest) error {
	if err := validate.StructFields(req); err != nil {
		return invalid("%s", err.Error())
	}
	user, err := s.userByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if user.OTPExpired(s.now()) {
		return ErrOTPExpired
	}
	if !otpMatches(user.OTP, strings.TrimSpace(req.OTP)) {
		return ErrInvalidOTP
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hash)
	user.ClearOTP()
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return nil
}

func (s *AccountService) ChangePassword(ctx context.Context, userID uuid.UUID, req *dto.ChangePasswordRequest) error {
	if err := validate.StructFields(req); err != nil {
		return invalid("%s", err.Error())
	}
	user, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if req.CurrentPassword == req.NewPassword {
		return ErrSamePassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hash)
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

func (s *AccountService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// issueCode stores a fresh code and emails it, honoring the resend cooldown.
func (s *AccountService) issueCode(ctx context.Context, user *models.User, kind notify.Kind) error {
	now := s.now()
	if left := cooldownRemaining(user.OTPLastSentAt, s.cooldown, now); left > 0 {
		return waitError(left)
	}
	code, err := generateOTP()
	if err != nil {
		return err
	}
	user.SetOTP(hashOTP(code), now, s.otpTTL)
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	s.sendCode(kind, user, code)
	return nil
}

func (s *AccountService) sendCode(kind notify.Kind, user *models.User, code string) {
	s.notifier.Enqueue(notify.Notification{
		Kind:   kind,
		To:     user.Email,
		ToName: user.Username,
		Data: map[string]string{
			"Code":    code,
			"Minutes": strconv.Itoa(int(s.otpTTL.Minutes())),
		},
	})
}

func (s *AccountService) userByEmail(ctx context.Context, email string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, invalid("Email is required")
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (s *AccountService) session(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: token, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
