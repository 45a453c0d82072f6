package handlers

import (
	"errors"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/M4r3n0/FinTun/internal/services/payment"
	"github.com/M4r3n0/FinTun/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct {
	paymentService payment.Service
}

func NewPaymentHandler(paymentService payment.Service) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Transfer moves funds from the caller to another user. A completed
// response still carries status FAILED when the ledger rejected the
// transfer; clients read the payment status, not the HTTP code.
func (h *PaymentHandler) Transfer(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var req struct {
		RecipientID uuid.UUID       `json:"recipient_id"`
		Amount      decimal.Decimal `json:"amount"`
		Currency    string          `json:"currency"`
		Description string          `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	p, err := h.paymentService.Transfer(c.Context(), payment.TransferInput{
		SenderID:    claims.UserID,
		RecipientID: req.RecipientID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidAmount),
			errors.Is(err, payment.ErrSelfTransfer):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, payment.ErrKYCRequired):
			return response.Forbidden(c, err.Error())
		default:
			return response.BadRequest(c, err.Error())
		}
	}
	return response.Success(c, "transfer processed", p)
}

// RetryPayment re-drives a pending or failed payment with its original
// reference id.
func (h *PaymentHandler) RetryPayment(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid payment id")
	}

	p, err := h.paymentService.GetPayment(c.Context(), id)
	if err != nil {
		if errors.Is(err, payment.ErrPaymentNotFound) {
			return response.NotFound(c, "Payment not found")
		}
		return response.ServerError(c, "Failed to load payment")
	}
	if p.SenderID != claims.UserID && claims.Role != models.RoleAdmin {
		return response.Forbidden(c, "Not your payment")
	}

	p, err = h.paymentService.Retry(c.Context(), id)
	if err != nil {
		return response.ServerError(c, "Failed to retry payment")
	}
	return response.Success(c, "payment retried", p)
}

// GetPayment returns one payment visible to the caller.
func (h *PaymentHandler) GetPayment(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid payment id")
	}

	p, err := h.paymentService.GetPayment(c.Context(), id)
	if err != nil {
		if errors.Is(err, payment.ErrPaymentNotFound) {
			return response.NotFound(c, "Payment not found")
		}
		return response.ServerError(c, "Failed to load payment")
	}
	if p.SenderID != claims.UserID && p.RecipientID != claims.UserID && claims.Role != models.RoleAdmin {
		return response.Forbidden(c, "Not your payment")
	}
	return response.Success(c, "payment", p)
}

// ListPayments returns the caller's payment history, newest first.
func (h *PaymentHandler) ListPayments(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	payments, err := h.paymentService.ListPayments(c.Context(), claims.UserID, limit, offset)
	if err != nil {
		return response.ServerError(c, "Failed to list payments")
	}
	return response.Success(c, "payments", payments)
}
