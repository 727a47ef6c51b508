package services

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrUserExists          = errors.New("User with this username or email already exists")
	ErrUserNotFound        = errors.New("User not found")
	ErrAlreadyVerified     = errors.New("Email is already verified")
	ErrOTPExpired          = errors.New("OTP has expired. Please request a new one")
	ErrInvalidOTP          = errors.New("Invalid OTP")
	ErrRateLimited         = errors.New("Please wait")
	ErrEmailNotVerified    = errors.New("Please verify your email before logging in")
	ErrAccountDisabled     = errors.New("Your account has been deactivated. Please contact support")
	ErrInvalidCredentials  = errors.New("Invalid credentials")
	ErrAdminRequired       = errors.New("Access denied. Admin privileges required")
	ErrSamePassword        = errors.New("New password must be different from the current password")
	ErrForbidden           = errors.New("You do not have permission to perform this action")
	ErrSuperAdminProtected = errors.New("Super admin accounts cannot be deleted or deactivated")

	ErrProductNotFound   = errors.New("Product not found")
	ErrInvalidVariant    = errors.New("Invalid variant")
	ErrInsufficientStock = errors.New("Insufficient stock")
	ErrOrderNotFound     = errors.New("Order not found")
	ErrInvalidTransition = errors.New("Invalid status transition")
	ErrConflict          = errors.New("The record was modified by another request, please retry")

	ErrContactNotFound = errors.New("Contact not found")
	ErrSliderNotFound  = errors.New("Slider not found")
)

// ValidationError carries a message safe to show to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
