package id

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cleared-dev/atm/internal/model"
)

// FormatAccountID returns an account ID like "12345678-1234".
func FormatAccountID(acct model.AccountID) string {
	return fmt.Sprintf("%d-%d", acct.Routing, acct.Number)
}

// ParseAccountID parses "12345678-1234" into an AccountID.
func ParseAccountID(s string) (model.AccountID, error) {
	routing, number, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return model.AccountID{}, fmt.Errorf("invalid account ID format: %q", s)
	}

	r, err := strconv.Atoi(routing)
	if err != nil {
		return model.AccountID{}, fmt.Errorf("invalid routing number in account ID %q: %w", s, err)
	}

	n, err := strconv.Atoi(number)
	if err != nil {
		return model.AccountID{}, fmt.Errorf("invalid account number in account ID %q: %w", s, err)
	}

	return model.AccountID{Routing: r, Number: n}, nil
}
