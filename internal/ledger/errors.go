package ledger

import "errors"

var (
	// ErrInvalidArgument is returned for malformed input: a duplicate registration,
	// a blank owner name, or a negative amount.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInsufficientFunds is returned when a withdrawal exceeds the current balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNotFound is returned when an operation references an unregistered account.
	ErrNotFound = errors.New("account not found")

	// ErrExport is returned when the ledger file cannot be created or written.
	ErrExport = errors.New("ledger export failed")
)
