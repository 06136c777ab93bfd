// Package script loads YAML scenario files: ordered ledger operations with
// their expected outcomes.
package script

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/atm/internal/id"
	"github.com/cleared-dev/atm/internal/ledger"
)

// Operation names accepted in a step.
const (
	OpRegister = "register"
	OpDeposit  = "deposit"
	OpWithdraw = "withdraw"
	OpBalance  = "balance"
	OpAppend   = "append"
	OpPrint    = "print"
	OpRename   = "rename"
)

// Script is a named sequence of steps.
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps" validate:"required,min=1,dive"`
}

// Step is one ledger operation. Amounts are decimal strings.
type Step struct {
	Op            string `yaml:"op" validate:"required,oneof=register deposit withdraw balance append print rename"`
	Account       string `yaml:"account" validate:"required"`
	Owner         string `yaml:"owner,omitempty" validate:"required_if=Op rename"`
	Amount        string `yaml:"amount,omitempty"`
	Entry         string `yaml:"entry,omitempty" validate:"required_if=Op append"`
	Path          string `yaml:"path,omitempty" validate:"required_if=Op print"`
	ExpectError   string `yaml:"expect_error,omitempty" validate:"omitempty,oneof=invalid_argument insufficient_funds not_found export"`
	ExpectBalance string `yaml:"expect_balance,omitempty"`
}

var validate = validator.New()

// expectedErrors maps expect_error values to ledger errors.
var expectedErrors = map[string]error{
	"invalid_argument":   ledger.ErrInvalidArgument,
	"insufficient_funds": ledger.ErrInsufficientFunds,
	"not_found":          ledger.ErrNotFound,
	"export":             ledger.ErrExport,
}

// Load reads and validates a scenario file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks every step for required fields and well-formed values.
func (s *Script) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid script: %w", err)
	}

	var errs []error
	for i, step := range s.Steps {
		if err := step.check(); err != nil {
			errs = append(errs, fmt.Errorf("step %d (%s): %w", i+1, step.Op, err))
		}
	}
	return errors.Join(errs...)
}

func (st Step) check() error {
	if _, err := id.ParseAccountID(st.Account); err != nil {
		return err
	}

	if (st.Op == OpDeposit || st.Op == OpWithdraw) && st.Amount == "" {
		return errors.New("amount is required")
	}

	if st.Amount != "" {
		if _, err := decimal.NewFromString(st.Amount); err != nil {
			return fmt.Errorf("parsing amount %q: %w", st.Amount, err)
		}
	}

	if st.ExpectBalance != "" {
		if st.Op != OpBalance {
			return errors.New("expect_balance only applies to balance steps")
		}
		if _, err := decimal.NewFromString(st.ExpectBalance); err != nil {
			return fmt.Errorf("parsing expect_balance %q: %w", st.ExpectBalance, err)
		}
	}
	return nil
}
