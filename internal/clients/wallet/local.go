package wallet

import (
	"context"
	"errors"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/M4r3n0/FinTun/internal/services/account"
	"github.com/M4r3n0/FinTun/internal/services/ledger"
	"github.com/google/uuid"
)

// LocalClient binds the wallet boundary directly to the in-process
// account and ledger services. Single-binary deployments use it in place
// of the HTTP client.
type LocalClient struct {
	accounts account.Service
	engine   ledger.Service
}

func NewLocalClient(accounts account.Service, engine ledger.Service) *LocalClient {
	if accounts == nil {
		panic("account service is required")
	}
	if engine == nil {
		panic("ledger service is required")
	}
	return &LocalClient{accounts: accounts, engine: engine}
}

func (c *LocalClient) GetAccount(ctx context.Context, id uuid.UUID) (*Account, error) {
	acc, err := c.accounts.GetAccount(ctx, id)
	if err != nil {
		return nil, mapAccountError(err)
	}
	return toClientAccount(acc), nil
}

func (c *LocalClient) GetAccountByOwner(ctx context.Context, ownerID uuid.UUID, currency string) (*Account, error) {
	acc, err := c.accounts.GetAccountByOwner(ctx, ownerID, currency)
	if err != nil {
		return nil, mapAccountError(err)
	}
	return toClientAccount(acc), nil
}

func (c *LocalClient) ApplyTransaction(ctx context.Context, req *ApplyRequest) (*Transaction, error) {
	entries := make([]ledger.EntryRequest, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, ledger.EntryRequest{AccountID: e.AccountID, Amount: e.Amount})
	}

	tx, err := c.engine.Apply(ctx, ledger.ApplyRequest{
		ReferenceID: req.ReferenceID,
		Type:        req.Type,
		Description: req.Description,
		Entries:     entries,
	})
	if err != nil {
		return nil, mapLedgerError(err)
	}
	return &Transaction{
		ID:          tx.ID,
		ReferenceID: tx.ReferenceID,
		Status:      string(tx.Status),
		CreatedAt:   tx.CreatedAt,
	}, nil
}

func toClientAccount(acc *models.Account) *Account {
	return &Account{
		ID:       acc.ID,
		OwnerID:  acc.OwnerID,
		Currency: acc.Currency,
		Type:     acc.Type,
		Balance:  acc.Balance,
		Status:   acc.Status,
	}
}

func mapAccountError(err error) error {
	if errors.Is(err, account.ErrAccountNotFound) {
		return ErrAccountNotFound
	}
	return err
}

func mapLedgerError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrAccountNotFound):
		return ErrAccountNotFound
	case errors.Is(err, ledger.ErrAccountFrozen):
		return ErrAccountFrozen
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return ErrInsufficientFunds
	case errors.Is(err, ledger.ErrLedgerImbalance):
		return ErrLedgerImbalance
	default:
		return err
	}
}
