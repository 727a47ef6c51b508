package middleware

import (
	"slices"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

// RequireRole lets the request through when the caller has one of roles.
// It must run after JWTProtected.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := CurrentUser(c)
		if claims == nil {
			return unauthorized(c, "Unauthorized")
		}
		if !slices.Contains(roles, claims.Role) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Access denied. Admin privileges required",
			})
		}
		return c.Next()
	}
}

// AdminRequired admits admins and super admins.
func AdminRequired() fiber.Handler {
	return RequireRole(models.RoleAdmin, models.RoleSuperAdmin)
}
