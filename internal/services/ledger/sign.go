package ledger

import (
	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/shopspring/decimal"
)

// BalanceDelta maps a signed entry amount to the balance change it causes
// on an account of the given type. This is the single authoritative sign
// convention; every balance derived from an entry goes through it.
//
//	ASSET      +amount
//	LIABILITY  -amount
//	REVENUE    -amount
//	EXPENSE    +amount
//
// A user wallet is a LIABILITY account, so a positive (debit) entry lowers
// the wallet balance and a negative (credit) entry raises it.
func BalanceDelta(accountType models.AccountType, amount decimal.Decimal) decimal.Decimal {
	switch accountType {
	case models.AccountTypeLiability, models.AccountTypeRevenue:
		return amount.Neg()
	default:
		return amount
	}
}
