package topup

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/M4r3n0/FinTun/internal/clients/wallet"
	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/M4r3n0/FinTun/internal/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/charge"
)

// Service errors
var (
	ErrInvalidAmount  = errors.New("invalid top-up amount")
	ErrChargeFailed   = errors.New("card charge failed")
	ErrWalletNotFound = errors.New("user wallet not found")
)

// minor unit exponents per supported currency
var currencyExponents = map[string]int32{
	"TND": 3,
	"EUR": 2,
	"USD": 2,
}

// Service funds a user wallet from a tokenized card. The charge runs
// first; the ledger deposit then uses the charge id as its reference id,
// so a replayed webhook or client retry can never double-credit.
type Service interface {
	TopUp(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, currency, cardToken string) (*wallet.Transaction, error)
}

// Charger is the card processor. The stripe implementation is the
// default; tests substitute their own.
type Charger interface {
	Charge(amount int64, currency, source, description string) (string, error)
}

type service struct {
	wallet       wallet.Client
	charger      Charger
	settlementID uuid.UUID
}

// NewService creates the top-up service. settlementID is the ASSET
// account that mirrors funds held at the card processor.
func NewService(walletClient wallet.Client, charger Charger, settlementID uuid.UUID) Service {
	if walletClient == nil {
		panic("wallet client is required")
	}
	if charger == nil {
		charger = &stripeCharger{}
	}
	return &service{wallet: walletClient, charger: charger, settlementID: settlementID}
}

func (s *service) TopUp(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, currency, cardToken string) (*wallet.Transaction, error) {
	if !validation.ValidAmount(amount) {
		return nil, ErrInvalidAmount
	}
	if currency == "" {
		currency = "TND"
	}
	exponent, ok := currencyExponents[currency]
	if !ok {
		return nil, fmt.Errorf("unsupported currency %q", currency)
	}
	minor := amount.Shift(exponent)
	if !minor.IsInteger() {
		return nil, ErrInvalidAmount
	}

	account, err := s.wallet.GetAccountByOwner(ctx, userID, currency)
	if err != nil {
		if errors.Is(err, wallet.ErrAccountNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}

	chargeID, err := s.charger.Charge(minor.IntPart(), currency, cardToken,
		fmt.Sprintf("Wallet top-up for %s", userID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChargeFailed, err)
	}

	tx, err := s.wallet.ApplyTransaction(ctx, &wallet.ApplyRequest{
		ReferenceID: chargeID,
		Type:        models.TransactionTypeDeposit,
		Description: fmt.Sprintf("Card top-up %s", chargeID),
		Entries: []wallet.Entry{
			{AccountID: s.settlementID, Amount: amount},
			{AccountID: account.ID, Amount: amount.Neg()},
		},
	})
	if err != nil {
		// The charge succeeded. An ambiguous ledger outcome is retried
		// under the same charge id; refunds are an operator decision.
		log.Printf("top-up ledger commit failed for charge %s: %v", chargeID, err)
		return nil, err
	}

	return tx, nil
}

type stripeCharger struct{}

func (c *stripeCharger) Charge(amount int64, currency, source, description string) (string, error) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(amount),
		Currency:    stripe.String(strings.ToLower(currency)),
		Description: stripe.String(description),
	}
	if err := params.SetSource(source); err != nil {
		return "", err
	}

	ch, err := charge.New(params)
	if err != nil {
		return "", err
	}
	return ch.ID, nil
}
