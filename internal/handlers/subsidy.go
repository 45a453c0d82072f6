package handlers

import (
	"errors"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/M4r3n0/FinTun/internal/services/subsidy"
	"github.com/M4r3n0/FinTun/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SubsidyHandler struct {
	subsidyService subsidy.Service
}

func NewSubsidyHandler(subsidyService subsidy.Service) *SubsidyHandler {
	return &SubsidyHandler{subsidyService: subsidyService}
}

// CreateProgram registers a new subsidy program. Admin only.
func (h *SubsidyHandler) CreateProgram(c *fiber.Ctx) error {
	var req struct {
		Name     string          `json:"name"`
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
		Criteria models.JSON     `json:"criteria"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	program, err := h.subsidyService.CreateProgram(c.Context(), subsidy.CreateProgramInput{
		Name:     req.Name,
		Amount:   req.Amount,
		Currency: req.Currency,
		Criteria: req.Criteria,
	})
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "program created",
		"data":    program,
	})
}

// ListPrograms returns the active subsidy programs.
func (h *SubsidyHandler) ListPrograms(c *fiber.Ctx) error {
	programs, err := h.subsidyService.ListPrograms(c.Context())
	if err != nil {
		return response.ServerError(c, "Failed to list programs")
	}
	return response.Success(c, "programs", programs)
}

// ClaimSubsidy pays a program's amount into the caller's wallet.
func (h *SubsidyHandler) ClaimSubsidy(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	programID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid program id")
	}

	claim, err := h.subsidyService.Claim(c.Context(), programID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, subsidy.ErrProgramNotFound):
			return response.NotFound(c, "Program not found")
		case errors.Is(err, subsidy.ErrProgramInactive):
			return response.Error(c, fiber.StatusGone, "Program is no longer active")
		case errors.Is(err, subsidy.ErrNotEligible):
			return response.Forbidden(c, "You do not meet the program criteria")
		case errors.Is(err, subsidy.ErrAlreadyClaimed):
			return response.Conflict(c, "Subsidy already claimed")
		default:
			return response.ServerError(c, "Failed to process claim")
		}
	}
	return response.Success(c, "subsidy claimed", claim)
}

// ListMyClaims returns the caller's subsidy claims.
func (h *SubsidyHandler) ListMyClaims(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	userClaims, err := h.subsidyService.ListClaims(c.Context(), claims.UserID)
	if err != nil {
		return response.ServerError(c, "Failed to list claims")
	}
	return response.Success(c, "claims", userClaims)
}
