// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"strings"

	"github.com/efine-sl/efine-api/app/services"
	"github.com/efine-sl/efine-api/models"
	"github.com/efine-sl/efine-api/repository"
	"github.com/efine-sl/efine-api/utils"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type localsKey string

const adminLocalsKey localsKey = "admin"

// AdminAuthMiddleware resolves the bearer token of admin requests into an active administrator
type AdminAuthMiddleware struct {
	tokenService services.TokenService
	adminRepo    repository.AdminRepository
}

func NewAdminAuthMiddleware(tokenService services.TokenService, adminRepo repository.AdminRepository) *AdminAuthMiddleware {
	return &AdminAuthMiddleware{
		tokenService: tokenService,
		adminRepo:    adminRepo,
	}
}

func unauthorized(c fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// Authenticate rejects requests without a valid token for an existing, active admin
func (m *AdminAuthMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return unauthorized(c, "Not authorized, no token")
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			return unauthorized(c, "Not authorized, no token")
		}

		adminID, err := m.tokenService.ValidateAdminToken(token)
		if err != nil {
			return unauthorized(c, "Not authorized, invalid token")
		}

		admin, err := m.adminRepo.ByUUID(c.Context(), adminID)
		if err != nil {
			zap.L().Error("admin lookup failed during authentication", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Internal server error",
			})
		}
		if admin == nil {
			return unauthorized(c, "Not authorized, admin not found")
		}
		if !utils.IsTrue(admin.IsActive) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "Account is deactivated",
			})
		}

		c.Locals(adminLocalsKey, admin)
		return c.Next()
	}
}

// RequireRole must run after Authenticate
func (m *AdminAuthMiddleware) RequireRole(roles ...models.AdminRole) fiber.Handler {
	return func(c fiber.Ctx) error {
		admin, ok := AdminFromContext(c)
		if !ok {
			return unauthorized(c, "Not authorized, no token")
		}
		if !admin.HasRole(roles...) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success":      false,
				"message":      "Access denied - insufficient permissions",
				"requiredRole": roles,
				"userRole":     admin.Role,
			})
		}
		return c.Next()
	}
}

// AdminFromContext returns the admin stored by Authenticate
func AdminFromContext(c fiber.Ctx) (*models.Admin, bool) {
	admin, ok := c.Locals(adminLocalsKey).(*models.Admin)
	return admin, ok && admin != nil
}
