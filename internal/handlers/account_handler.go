package handlers

import (
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

const forgotPasswordMessage = "If an account exists for that email, a reset code has been sent"

type AccountHandler struct {
	accounts *services.AccountService
}

func NewAccountHandler(accounts *services.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

func (h *AccountHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	user, err := h.accounts.Register(c.UserContext(), &req)
	if err != nil {
		return fail(c, err, "Registration failed")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Registration successful. Please check your email for the verification code",
		"user":    user,
	})
}

func (h *AccountHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if req.Email == "" || req.OTP == "" {
		return badRequest(c, "Email and OTP are required")
	}
	resp, err := h.accounts.VerifyOTP(c.UserContext(), req.Email, req.OTP)
	if err != nil {
		return fail(c, err, "Verification failed")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Email verified successfully",
		"token":   resp.Token,
		"user":    resp.User,
	})
}

func (h *AccountHandler) ResendOTP(c *fiber.Ctx) error {
	var req dto.EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if err := h.accounts.ResendOTP(c.UserContext(), req.Email); err != nil {
		return fail(c, err, "Failed to resend OTP")
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "A new OTP has been sent to your email"})
}

func (h *AccountHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	resp, err := h.accounts.Authenticate(c.UserContext(), req.ID(), req.Password)
	if err != nil {
		return fail(c, err, "Login failed")
	}
	return c.JSON(fiber.Map{"success": true, "token": resp.Token, "user": resp.User})
}

func (h *AccountHandler) AdminLogin(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	resp, err := h.accounts.AuthenticateAdmin(c.UserContext(), req.ID(), req.Password)
	if err != nil {
		return fail(c, err, "Login failed")
	}
	return c.JSON(fiber.Map{"success": true, "token": resp.Token, "admin": resp.User})
}

func (h *AccountHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if err := h.accounts.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return fail(c, err, "Failed to process password reset")
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: forgotPasswordMessage})
}

func (h *AccountHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if err := h.accounts.ResetPasswordWithOTP(c.UserContext(), &req); err != nil {
		return fail(c, err, "Failed to reset password")
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Password reset successfully"})
}

func (h *AccountHandler) ChangePassword(c *fiber.Ctx) error {
	claims := middleware.CurrentUser(c)
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if err := h.accounts.ChangePassword(c.UserContext(), claims.UserID, &req); err != nil {
		return fail(c, err, "Failed to change password")
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Password changed successfully"})
}

func (h *AccountHandler) Me(c *fiber.Ctx) error {
	user, err := h.accounts.Me(c.UserContext(), middleware.CurrentUser(c).UserID)
	if err != nil {
		return fail(c, err, "Failed to load profile")
	}
	return c.JSON(fiber.Map{"success": true, "user": user})
}
