package handlers

import (
	"errors"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/M4r3n0/FinTun/internal/services/user"
	"github.com/M4r3n0/FinTun/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterUser creates a user together with their TND wallet.
func (h *UserHandler) RegisterUser(c *fiber.Ctx) error {
	var input models.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	created, err := h.userService.Register(c.Context(), input)
	if err != nil {
		if errors.Is(err, user.ErrUserExists) {
			return response.Conflict(c, "A user with this email or phone already exists")
		}
		return response.BadRequest(c, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "user registered",
		"data":    created,
	})
}

// GetProfile returns the caller's user record.
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	u, err := h.userService.GetUser(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.ServerError(c, "Failed to load profile")
	}
	return response.Success(c, "profile", u)
}

// UpdateKYCLevel sets a user's verification level. Admin only.
func (h *UserHandler) UpdateKYCLevel(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	var input struct {
		Level string `json:"level"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.userService.UpdateKYCLevel(c.Context(), userID, input.Level); err != nil {
		switch {
		case errors.Is(err, user.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, user.ErrInvalidKYCLevel):
			return response.BadRequest(c, "Invalid KYC level")
		default:
			return response.ServerError(c, "Failed to update KYC level")
		}
	}
	return response.Success(c, "kyc level updated", nil)
}
