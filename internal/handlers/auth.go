package handlers

import (
	"errors"
	"time"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/M4r3n0/FinTun/internal/services/auth"
	"github.com/M4r3n0/FinTun/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginUser handles user authentication and returns JWT tokens.
func (h *AuthHandler) LoginUser(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if (input.Email == "" && input.Phone == "") || input.Password == "" {
		return response.BadRequest(c, "Email/phone and password are required")
	}

	user, accessToken, refreshToken, err := h.authService.Login(input.Email, input.Phone, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return response.Error(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		return response.ServerError(c, "Authentication failed")
	}

	h.setAuthCookies(c, accessToken, refreshToken)

	return c.JSON(fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user": fiber.Map{
			"id":          user.ID,
			"email":       user.Email,
			"role":        user.Role,
			"kyc_level":   user.KYCLevel,
			"permissions": models.GetDefaultPermissions(user.Role),
		},
	})
}

// RefreshToken exchanges a refresh token for a new token pair.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken == "" {
		var input struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.BodyParser(&input); err == nil {
			refreshToken = input.RefreshToken
		}
	}
	if refreshToken == "" {
		return response.BadRequest(c, "Refresh token is required")
	}

	accessToken, newRefreshToken, err := h.authService.RefreshTokens(refreshToken)
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, "Invalid refresh token")
	}

	h.setAuthCookies(c, accessToken, newRefreshToken)

	return c.JSON(fiber.Map{
		"access_token":  accessToken,
		"refresh_token": newRefreshToken,
	})
}

// LogoutUser invalidates every outstanding token for the caller.
func (h *AuthHandler) LogoutUser(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	if err := h.authService.Logout(claims.UserID); err != nil {
		return response.ServerError(c, "Failed to log out")
	}

	c.ClearCookie("access_token", "refresh_token")
	return response.Success(c, "logged out", nil)
}

// ChangePassword updates the caller's password and invalidates old tokens.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var input struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.authService.ChangePassword(claims.UserID, input.OldPassword, input.NewPassword); err != nil {
		return response.BadRequest(c, err.Error())
	}
	return response.Success(c, "password changed", nil)
}

func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Expires:  time.Now().Add(15 * time.Minute),
		HTTPOnly: true,
		SameSite: "Strict",
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Strict",
	})
}
