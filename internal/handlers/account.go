package handlers

import (
	"errors"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/M4r3n0/FinTun/internal/services/account"
	"github.com/M4r3n0/FinTun/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AccountHandler struct {
	accountService account.Service
}

func NewAccountHandler(accountService account.Service) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// CreateAccount opens a wallet for the caller in the given currency.
// Admins may open accounts of any type for any owner.
func (h *AccountHandler) CreateAccount(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var input struct {
		Currency string `json:"currency"`
		OwnerID  string `json:"owner_id"`
		Type     string `json:"type"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Currency == "" {
		input.Currency = "TND"
	}

	ownerID := claims.UserID
	accountType := models.AccountTypeLiability
	if claims.Role == models.RoleAdmin {
		if input.OwnerID != "" {
			parsed, err := uuid.Parse(input.OwnerID)
			if err != nil {
				return response.BadRequest(c, "Invalid owner id")
			}
			ownerID = parsed
		}
		if input.Type != "" {
			accountType = models.AccountType(input.Type)
		}
	}

	created, err := h.accountService.CreateAccount(c.Context(), ownerID, input.Currency, accountType)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrAccountExists):
			return response.Conflict(c, "Account already exists for this currency")
		case errors.Is(err, account.ErrInvalidCurrency):
			return response.BadRequest(c, "Unsupported currency")
		default:
			return response.ServerError(c, "Failed to create account")
		}
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "account created",
		"data":    created,
	})
}

// GetMyAccounts lists the caller's wallets.
func (h *AccountHandler) GetMyAccounts(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	accounts, err := h.accountService.ListAccounts(c.Context(), claims.UserID)
	if err != nil {
		return response.ServerError(c, "Failed to list accounts")
	}
	return response.Success(c, "accounts", accounts)
}

// GetAccount returns one account. Callers see their own accounts; admins
// and internal service callers holding ledger:write see all.
func (h *AccountHandler) GetAccount(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid account id")
	}

	acct, err := h.accountService.GetAccount(c.Context(), id)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return response.ErrorWithCode(c, fiber.StatusNotFound, "Account not found", "ACCOUNT_NOT_FOUND")
		}
		return response.ServerError(c, "Failed to get account")
	}
	if acct.OwnerID != claims.UserID && claims.Role != models.RoleAdmin && !claims.HasPermission(models.PermissionLedgerWrite) {
		return response.Forbidden(c, "Not your account")
	}
	return response.Success(c, "account", acct)
}

// GetAccountByOwner resolves an owner's wallet for a currency. Used by
// the transfer orchestrator when it runs against the HTTP client.
func (h *AccountHandler) GetAccountByOwner(c *fiber.Ctx) error {
	ownerID, err := uuid.Parse(c.Params("ownerId"))
	if err != nil {
		return response.BadRequest(c, "Invalid owner id")
	}
	currency := c.Query("currency", "TND")

	acct, err := h.accountService.GetAccountByOwner(c.Context(), ownerID, currency)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return response.ErrorWithCode(c, fiber.StatusNotFound, "Account not found", "ACCOUNT_NOT_FOUND")
		}
		return response.ServerError(c, "Failed to get account")
	}
	return response.Success(c, "account", acct)
}

// FreezeAccount stops an account from sending or receiving. Admin only.
func (h *AccountHandler) FreezeAccount(c *fiber.Ctx) error {
	return h.setFrozen(c, true)
}

// UnfreezeAccount reactivates a frozen account. Admin only.
func (h *AccountHandler) UnfreezeAccount(c *fiber.Ctx) error {
	return h.setFrozen(c, false)
}

func (h *AccountHandler) setFrozen(c *fiber.Ctx, frozen bool) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid account id")
	}

	if frozen {
		err = h.accountService.FreezeAccount(c.Context(), id)
	} else {
		err = h.accountService.UnfreezeAccount(c.Context(), id)
	}
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return response.NotFound(c, "Account not found")
		}
		return response.ServerError(c, "Failed to update account status")
	}
	return response.Success(c, "account status updated", nil)
}
