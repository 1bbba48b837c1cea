package payment

import "github.com/shopspring/decimal"

// Allocation is the split of a visit's total between an organization
// contract and the client, plus the balance the contract is left with.
type Allocation struct {
	FromContract decimal.Decimal
	ByClient     decimal.Decimal
	NewBalance   decimal.Decimal
}

// Allocate divides total between the contract balance and the client:
// the contract covers min(balance, total), the client covers the rest.
// The resulting balance is never negative and the contract never covers
// more than it currently holds.
func Allocate(balance, total decimal.Decimal) Allocation {
	fromContract := decimal.Min(balance, total)
	return Allocation{
		FromContract: fromContract,
		ByClient:     total.Sub(fromContract),
		NewBalance:   balance.Sub(fromContract),
	}
}
