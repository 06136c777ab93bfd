package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/atm/internal/model"
)

// Header is the CSV header for account files.
const Header = "routing_number,account_number,owner_name,balance"

const (
	numFields  = 4
	colRouting = 0
	colNumber  = 1
	colOwner   = 2
	colBalance = 3
)

// ReadAccounts reads an accounts CSV, skipping the header row.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accts = append(accts, acct)
	}
	return accts, nil
}

// WriteAccounts writes an accounts CSV including the header.
func WriteAccounts(w io.Writer, accts []model.Account) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"routing_number", "account_number", "owner_name", "balance"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colRouting] = strconv.Itoa(acct.ID.Routing)
	row[colNumber] = strconv.Itoa(acct.ID.Number)
	row[colOwner] = acct.OwnerName
	row[colBalance] = acct.Balance.StringFixed(2)
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	routing, err := strconv.Atoi(record[colRouting])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing routing_number %q: %w", record[colRouting], err)
	}

	number, err := strconv.Atoi(record[colNumber])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing account_number %q: %w", record[colNumber], err)
	}

	balance := decimal.Zero
	if record[colBalance] != "" {
		balance, err = decimal.NewFromString(record[colBalance])
		if err != nil {
			return model.Account{}, fmt.Errorf("parsing balance %q: %w", record[colBalance], err)
		}
	}

	return model.Account{
		ID:        model.AccountID{Routing: routing, Number: number},
		OwnerName: record[colOwner],
		Balance:   balance,
	}, nil
}
