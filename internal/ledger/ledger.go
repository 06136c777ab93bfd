package ledger

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/atm/internal/id"
	"github.com/cleared-dev/atm/internal/model"
)

// Ledger holds registered accounts and their transaction logs in memory.
//
// A Ledger is not safe for concurrent use; callers sharing one across
// goroutines must serialize access themselves.
type Ledger struct {
	accounts     map[model.AccountID]*model.Account
	transactions map[model.AccountID][]string
	log          *slog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger used to record balance changes.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.log = logger
		}
	}
}

// New creates an empty Ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		accounts:     make(map[model.AccountID]*model.Account),
		transactions: make(map[model.AccountID][]string),
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RegisterAccount adds a new account with an empty transaction log.
func (l *Ledger) RegisterAccount(acct model.AccountID, ownerName string, initialBalance decimal.Decimal) error {
	if _, ok := l.accounts[acct]; ok {
		return fmt.Errorf("%w: account %s already registered", ErrInvalidArgument, id.FormatAccountID(acct))
	}
	if strings.TrimSpace(ownerName) == "" {
		return fmt.Errorf("%w: owner name is required", ErrInvalidArgument)
	}
	if initialBalance.IsNegative() {
		return fmt.Errorf("%w: initial balance %s is negative", ErrInvalidArgument, initialBalance.StringFixed(2))
	}

	l.accounts[acct] = &model.Account{ID: acct, OwnerName: ownerName, Balance: initialBalance}
	l.transactions[acct] = []string{}

	l.log.Debug("account registered",
		"account", id.FormatAccountID(acct),
		"owner", ownerName,
		"balance", initialBalance.StringFixed(2))
	return nil
}

// DepositCash adds amount to the account balance and logs the deposit.
func (l *Ledger) DepositCash(acct model.AccountID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: deposit amount %s is negative", ErrInvalidArgument, amount.StringFixed(2))
	}
	a, err := l.lookup(acct)
	if err != nil {
		return err
	}

	a.Balance = a.Balance.Add(amount)
	l.transactions[acct] = append(l.transactions[acct], DepositEntry(amount, a.Balance))

	l.log.Debug("deposit",
		"account", id.FormatAccountID(acct),
		"amount", amount.StringFixed(2),
		"balance", a.Balance.StringFixed(2))
	return nil
}

// WithdrawCash subtracts amount from the account balance and logs the withdrawal.
func (l *Ledger) WithdrawCash(acct model.AccountID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: withdrawal amount %s is negative", ErrInvalidArgument, amount.StringFixed(2))
	}
	a, err := l.lookup(acct)
	if err != nil {
		return err
	}
	if amount.GreaterThan(a.Balance) {
		return fmt.Errorf("%w: withdrawal of %s exceeds balance %s",
			ErrInsufficientFunds, FormatAmount(amount), FormatAmount(a.Balance))
	}

	a.Balance = a.Balance.Sub(amount)
	l.transactions[acct] = append(l.transactions[acct], WithdrawalEntry(amount, a.Balance))

	l.log.Debug("withdrawal",
		"account", id.FormatAccountID(acct),
		"amount", amount.StringFixed(2),
		"balance", a.Balance.StringFixed(2))
	return nil
}

// CheckBalance returns the current balance of an account.
func (l *Ledger) CheckBalance(acct model.AccountID) (decimal.Decimal, error) {
	a, err := l.lookup(acct)
	if err != nil {
		return decimal.Zero, err
	}
	return a.Balance, nil
}

// Account returns a snapshot of one account.
func (l *Ledger) Account(acct model.AccountID) (model.Account, error) {
	a, err := l.lookup(acct)
	if err != nil {
		return model.Account{}, err
	}
	return *a, nil
}

// Accounts returns snapshots of all accounts ordered by ID.
func (l *Ledger) Accounts() []model.Account {
	result := make([]model.Account, 0, len(l.accounts))
	for _, a := range l.accounts {
		result = append(result, *a)
	}
	slices.SortFunc(result, func(a, b model.Account) int {
		return a.ID.Compare(b.ID)
	})
	return result
}

// Len returns the number of registered accounts.
func (l *Ledger) Len() int {
	return len(l.accounts)
}

// SetOwnerName changes the owner name on an account.
func (l *Ledger) SetOwnerName(acct model.AccountID, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: owner name is required", ErrInvalidArgument)
	}
	a, err := l.lookup(acct)
	if err != nil {
		return err
	}
	a.OwnerName = name
	return nil
}

// Transactions returns a copy of an account's transaction log.
func (l *Ledger) Transactions(acct model.AccountID) ([]string, error) {
	if _, err := l.lookup(acct); err != nil {
		return nil, err
	}
	return slices.Clone(l.transactions[acct]), nil
}

// AppendTransaction adds a raw entry to the end of an account's transaction log.
// The balance is not touched.
func (l *Ledger) AppendTransaction(acct model.AccountID, entry string) error {
	if _, err := l.lookup(acct); err != nil {
		return err
	}
	l.transactions[acct] = append(l.transactions[acct], entry)
	return nil
}

func (l *Ledger) lookup(acct model.AccountID) (*model.Account, error) {
	a, ok := l.accounts[acct]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id.FormatAccountID(acct))
	}
	return a, nil
}
