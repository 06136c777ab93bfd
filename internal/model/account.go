package model

import (
	"cmp"

	"github.com/shopspring/decimal"
)

// AccountID identifies an account by routing number and account number.
type AccountID struct {
	Routing int
	Number  int
}

// Compare orders IDs by routing number, then account number.
func (id AccountID) Compare(other AccountID) int {
	if c := cmp.Compare(id.Routing, other.Routing); c != 0 {
		return c
	}
	return cmp.Compare(id.Number, other.Number)
}

// Account is a snapshot of a registered account.
type Account struct {
	ID        AccountID
	OwnerName string
	Balance   decimal.Decimal
}
