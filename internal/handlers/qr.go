package handlers

import (
	"errors"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/M4r3n0/FinTun/internal/services/qr"
	"github.com/M4r3n0/FinTun/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type QRHandler struct {
	qrService qr.Service
}

func NewQRHandler(qrService qr.Service) *QRHandler {
	return &QRHandler{qrService: qrService}
}

// GetMerchantQR issues the caller's permanent receive code.
func (h *QRHandler) GetMerchantQR(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	code, err := h.qrService.GenerateMerchantQR(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, qr.ErrNotMerchant) {
			return response.Forbidden(c, "Only merchants can issue QR codes")
		}
		return response.ServerError(c, "Failed to generate QR code")
	}
	return response.Success(c, "qr code", code)
}

// GenerateDynamicQR issues a one-time code for a fixed amount.
func (h *QRHandler) GenerateDynamicQR(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var req struct {
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	code, err := h.qrService.GeneratePaymentQR(c.Context(), claims.UserID, req.Amount, req.Currency)
	if err != nil {
		if errors.Is(err, qr.ErrNotMerchant) {
			return response.Forbidden(c, "Only merchants can issue QR codes")
		}
		return response.BadRequest(c, err.Error())
	}
	return response.Success(c, "qr code", code)
}

// PayQR settles a scanned payload from the caller's wallet.
func (h *QRHandler) PayQR(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var req struct {
		Payload     string           `json:"payload"`
		Amount      *decimal.Decimal `json:"amount"`
		Description string           `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	p, err := h.qrService.PayQRCode(c.Context(), claims.UserID, req.Payload, req.Amount, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, qr.ErrInvalidFormat):
			return response.BadRequest(c, "Invalid QR payload")
		case errors.Is(err, qr.ErrExpired):
			return response.Error(c, fiber.StatusGone, "QR code has expired")
		case errors.Is(err, qr.ErrNotActive):
			return response.Error(c, fiber.StatusGone, "QR code is no longer active")
		case errors.Is(err, qr.ErrQRCodeNotFound):
			return response.NotFound(c, "QR code not found")
		case errors.Is(err, qr.ErrAmountRequired):
			return response.BadRequest(c, "Amount is required for this QR code")
		default:
			return response.BadRequest(c, err.Error())
		}
	}
	return response.Success(c, "payment processed", p)
}
