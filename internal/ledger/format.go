package ledger

import "github.com/shopspring/decimal"

// FormatAmount renders an amount as dollars with two decimals, e.g. "$280.30".
func FormatAmount(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// DepositEntry returns the transaction log line for a deposit.
func DepositEntry(amount, balance decimal.Decimal) string {
	return "Deposit - Amount: " + FormatAmount(amount) + ", Updated Balance: " + FormatAmount(balance)
}

// WithdrawalEntry returns the transaction log line for a withdrawal.
func WithdrawalEntry(amount, balance decimal.Decimal) string {
	return "Withdrawal - Amount: " + FormatAmount(amount) + ", Updated Balance: " + FormatAmount(balance)
}
