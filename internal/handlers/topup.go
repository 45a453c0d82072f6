package handlers

import (
	"errors"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/M4r3n0/FinTun/internal/services/topup"
	"github.com/M4r3n0/FinTun/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type TopUpHandler struct {
	topupService topup.Service
}

func NewTopUpHandler(topupService topup.Service) *TopUpHandler {
	return &TopUpHandler{topupService: topupService}
}

// TopUpWallet charges a tokenized card and credits the caller's wallet.
func (h *TopUpHandler) TopUpWallet(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var req struct {
		Amount    decimal.Decimal `json:"amount"`
		Currency  string          `json:"currency"`
		CardToken string          `json:"card_token"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.CardToken == "" {
		return response.BadRequest(c, "Card token is required")
	}

	tx, err := h.topupService.TopUp(c.Context(), claims.UserID, req.Amount, req.Currency, req.CardToken)
	if err != nil {
		switch {
		case errors.Is(err, topup.ErrInvalidAmount):
			return response.BadRequest(c, "Invalid top-up amount")
		case errors.Is(err, topup.ErrWalletNotFound):
			return response.NotFound(c, "Wallet not found")
		case errors.Is(err, topup.ErrChargeFailed):
			return response.Error(c, fiber.StatusPaymentRequired, "Card charge failed")
		default:
			return response.ServerError(c, "Top-up failed")
		}
	}
	return response.Success(c, "wallet topped up", tx)
}
