package accounts

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/atm/internal/model"
)

// DemoAccounts returns the sample accounts written by `atm init`.
func DemoAccounts() []model.Account {
	return []model.Account{
		{ID: model.AccountID{Routing: 12345678, Number: 1234}, OwnerName: "Sam Sepiol", Balance: decimal.RequireFromString("300.30")},
		{ID: model.AccountID{Routing: 1111, Number: 2222}, OwnerName: "Alice", Balance: decimal.RequireFromString("100.00")},
		{ID: model.AccountID{Routing: 1234, Number: 5678}, OwnerName: "Bob", Balance: decimal.RequireFromString("50.00")},
	}
}
