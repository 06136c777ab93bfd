package accounts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cleared-dev/atm/internal/id"
	"github.com/cleared-dev/atm/internal/ledger"
	"github.com/cleared-dev/atm/internal/model"
)

// LoadFile reads an accounts CSV from disk.
func LoadFile(path string) ([]model.Account, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening accounts file: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading accounts file %s: %w", path, err)
	}
	return accts, nil
}

// SaveFile writes accounts to a CSV file, creating the parent directory if needed.
func SaveFile(path string, accts []model.Account) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, accts); err != nil {
		return fmt.Errorf("writing accounts file: %w", err)
	}
	return nil
}

// Seed registers every account on the ledger, stopping at the first failure.
func Seed(l *ledger.Ledger, accts []model.Account) error {
	for i, acct := range accts {
		if err := l.RegisterAccount(acct.ID, acct.OwnerName, acct.Balance); err != nil {
			return fmt.Errorf("seeding account %d (%s): %w", i+1, id.FormatAccountID(acct.ID), err)
		}
	}
	return nil
}
