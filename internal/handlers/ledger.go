package handlers

import (
	"errors"

	"github.com/M4r3n0/FinTun/internal/repositories"
	"github.com/M4r3n0/FinTun/internal/services/ledger"
	"github.com/M4r3n0/FinTun/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerHandler exposes the ledger engine over HTTP for internal service
// callers. Error responses carry stable codes so remote orchestrators can
// classify failures without string matching.
type LedgerHandler struct {
	ledgerService ledger.Service
}

func NewLedgerHandler(ledgerService ledger.Service) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// ApplyTransaction commits one double-entry transaction. Replaying a
// reference id returns the original commit with status 200.
func (h *LedgerHandler) ApplyTransaction(c *fiber.Ctx) error {
	var req struct {
		ReferenceID string `json:"reference_id"`
		Type        string `json:"type"`
		Description string `json:"description"`
		Entries     []struct {
			AccountID uuid.UUID       `json:"account_id"`
			Amount    decimal.Decimal `json:"amount"`
		} `json:"entries"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	entries := make([]ledger.EntryRequest, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, ledger.EntryRequest{AccountID: e.AccountID, Amount: e.Amount})
	}

	tx, err := h.ledgerService.Apply(c.Context(), ledger.ApplyRequest{
		ReferenceID: req.ReferenceID,
		Type:        req.Type,
		Description: req.Description,
		Entries:     entries,
	})
	if err != nil {
		return ledgerError(c, err)
	}
	return response.Success(c, "transaction committed", tx)
}

// GetTransaction looks up a committed transaction by reference id.
func (h *LedgerHandler) GetTransaction(c *fiber.Ctx) error {
	tx, err := h.ledgerService.GetByReference(c.Context(), c.Params("reference"))
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return response.NotFound(c, "Transaction not found")
		}
		return ledgerError(c, err)
	}
	return response.Success(c, "transaction", tx)
}

// RecomputeBalance folds an account's entry log and compares it with the
// stored balance. Admin only.
func (h *LedgerHandler) RecomputeBalance(c *fiber.Ctx) error {
	accountID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid account id")
	}

	check, err := h.ledgerService.RecomputeBalance(c.Context(), accountID)
	if err != nil {
		return ledgerError(c, err)
	}
	return response.Success(c, "balance check", check)
}

func ledgerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ledger.ErrLedgerImbalance):
		return response.ErrorWithCode(c, fiber.StatusBadRequest, err.Error(), "LEDGER_IMBALANCE")
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return response.ErrorWithCode(c, fiber.StatusBadRequest, err.Error(), "INSUFFICIENT_FUNDS")
	case errors.Is(err, ledger.ErrAccountFrozen):
		return response.ErrorWithCode(c, fiber.StatusBadRequest, err.Error(), "ACCOUNT_FROZEN")
	case errors.Is(err, ledger.ErrAccountNotFound):
		return response.ErrorWithCode(c, fiber.StatusNotFound, err.Error(), "ACCOUNT_NOT_FOUND")
	case errors.Is(err, ledger.ErrEmptyReference),
		errors.Is(err, ledger.ErrEmptyType),
		errors.Is(err, ledger.ErrNoEntries):
		return response.BadRequest(c, err.Error())
	default:
		return response.ServerError(c, "Ledger operation failed")
	}
}
