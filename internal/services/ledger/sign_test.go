package ledger

import (
	"testing"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBalanceDelta(t *testing.T) {
	amount := decimal.RequireFromString("12.345")

	tests := []struct {
		accountType models.AccountType
		want        decimal.Decimal
	}{
		{models.AccountTypeAsset, amount},
		{models.AccountTypeExpense, amount},
		{models.AccountTypeLiability, amount.Neg()},
		{models.AccountTypeRevenue, amount.Neg()},
	}

	for _, tt := range tests {
		t.Run(string(tt.accountType), func(t *testing.T) {
			got := BalanceDelta(tt.accountType, amount)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestBalanceDelta_NegativeAmountInverts(t *testing.T) {
	amount := decimal.NewFromInt(-50)

	// A negative entry raises a liability balance; this is how deposits
	// credit user wallets.
	got := BalanceDelta(models.AccountTypeLiability, amount)
	assert.True(t, got.Equal(decimal.NewFromInt(50)))

	got = BalanceDelta(models.AccountTypeAsset, amount)
	assert.True(t, got.Equal(decimal.NewFromInt(-50)))
}
