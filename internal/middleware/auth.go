// Package middleware provides HTTP middleware for the fiber application:
// JWT authentication, role checks, and permission checks.
package middleware

import (
	"log"
	"strings"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/M4r3n0/FinTun/internal/services/auth"
	"github.com/M4r3n0/FinTun/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates bearer tokens and stores the user claims in
// the request context.
type AuthMiddleware struct {
	authService auth.Service
}

func NewAuthMiddleware(authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Handler checks the Authorization header, the JWT signature and expiry,
// and that the token version still matches the user record. A version
// bump on logout or password change invalidates older tokens.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	_, claims, err := utils.ParseToken(tokenString)
	if err != nil {
		log.Printf("token validation error: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	currentVersion, err := m.authService.GetUserTokenVersion(claims.UserID)
	if err != nil {
		log.Printf("error getting token version for user %s: %v", claims.UserID, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}
	if claims.TokenVersion != currentVersion {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "session expired"})
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)

	return c.Next()
}

// AdminAuthMiddleware verifies that the request has valid admin claims.
func AdminAuthMiddleware(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid claims"})
	}
	if claims.Role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "insufficient permissions"})
	}
	return c.Next()
}

// HasPermission returns a middleware that checks for a specific
// permission. Admins pass every check.
func HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*models.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		if claims.Role == models.RoleAdmin {
			return c.Next()
		}
		if claims.HasPermission(permission) {
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "insufficient permissions"})
	}
}
