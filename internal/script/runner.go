package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/atm/internal/id"
	"github.com/cleared-dev/atm/internal/ledger"
	"github.com/cleared-dev/atm/internal/runlog"
)

// ErrStepFailed is returned when a step's outcome does not match its expectation.
var ErrStepFailed = errors.New("step failed")

// Runner executes scripts against a ledger.
type Runner struct {
	ledger    *ledger.Ledger
	exportDir string
	log       *slog.Logger
	now       func() time.Time
}

// NewRunner creates a Runner. Relative print paths resolve under exportDir.
func NewRunner(l *ledger.Ledger, exportDir string, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{ledger: l, exportDir: exportDir, log: logger, now: time.Now}
}

// StepResult records what happened on one step.
type StepResult struct {
	Index   int // 1-based
	Op      string
	Account string
	Detail  string
	Balance decimal.Decimal // set by deposit, withdraw and balance steps
	Err     error           // error returned by the ledger, expected or not
	Passed  bool
}

// Report collects the results of one run.
type Report struct {
	RunID   string
	Name    string
	Results []StepResult
	Audit   []runlog.Entry
}

// Passed reports whether every executed step passed.
func (r *Report) Passed() bool {
	for _, res := range r.Results {
		if !res.Passed {
			return false
		}
	}
	return true
}

// Run validates s and executes its steps in order, stopping at the first
// step whose outcome does not match. The report covers every executed step.
func (r *Runner) Run(ctx context.Context, s *Script) (*Report, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	report := &Report{RunID: uuid.NewString(), Name: s.Name}
	r.log.Info("run started", "run_id", report.RunID, "script", s.Name, "steps", len(s.Steps))

	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("run cancelled before step %d: %w", i+1, err)
		}

		res := StepResult{Index: i + 1, Op: step.Op, Account: step.Account}
		res.Detail, res.Balance, res.Err = r.execute(step)
		failure := evaluate(step, res)
		res.Passed = failure == ""

		report.Results = append(report.Results, res)
		report.Audit = append(report.Audit, r.auditEntry(report.RunID, res, failure))

		if !res.Passed {
			r.log.Warn("step failed", "run_id", report.RunID, "step", res.Index, "op", step.Op,
				"account", step.Account, "reason", failure)
			return report, fmt.Errorf("%w: step %d (%s %s): %s", ErrStepFailed, res.Index, step.Op, step.Account, failure)
		}
		r.log.Debug("step passed", "run_id", report.RunID, "step", res.Index, "op", step.Op,
			"account", step.Account, "detail", res.Detail)
	}

	r.log.Info("run finished", "run_id", report.RunID, "steps", len(report.Results))
	return report, nil
}

func (r *Runner) execute(step Step) (string, decimal.Decimal, error) {
	none := decimal.Zero
	acct, err := id.ParseAccountID(step.Account)
	if err != nil {
		return "", none, err
	}
	amount := decimal.Zero
	if step.Amount != "" {
		amount, err = decimal.NewFromString(step.Amount)
		if err != nil {
			return "", none, fmt.Errorf("parsing amount %q: %w", step.Amount, err)
		}
	}

	switch step.Op {
	case OpRegister:
		if err := r.ledger.RegisterAccount(acct, step.Owner, amount); err != nil {
			return "", none, err
		}
		return fmt.Sprintf("registered %s with %s", step.Owner, ledger.FormatAmount(amount)), none, nil

	case OpDeposit, OpWithdraw:
		apply := r.ledger.DepositCash
		if step.Op == OpWithdraw {
			apply = r.ledger.WithdrawCash
		}
		if err := apply(acct, amount); err != nil {
			return "", none, err
		}
		bal, err := r.ledger.CheckBalance(acct)
		if err != nil {
			return "", none, err
		}
		return "balance " + ledger.FormatAmount(bal), bal, nil

	case OpBalance:
		bal, err := r.ledger.CheckBalance(acct)
		if err != nil {
			return "", none, err
		}
		return ledger.FormatAmount(bal), bal, nil

	case OpAppend:
		if err := r.ledger.AppendTransaction(acct, step.Entry); err != nil {
			return "", none, err
		}
		return "appended entry", none, nil

	case OpPrint:
		path := r.resolve(step.Path)
		if err := r.ledger.PrintLedger(path, acct); err != nil {
			return "", none, err
		}
		return "wrote " + path, none, nil

	case OpRename:
		if err := r.ledger.SetOwnerName(acct, step.Owner); err != nil {
			return "", none, err
		}
		return "owner " + step.Owner, none, nil
	}
	return "", none, fmt.Errorf("unknown op %q", step.Op)
}

func (r *Runner) resolve(path string) string {
	if filepath.IsAbs(path) || r.exportDir == "" {
		return path
	}
	return filepath.Join(r.exportDir, path)
}

// evaluate returns a non-empty reason when the step outcome does not match its expectation.
func evaluate(step Step, res StepResult) string {
	if step.ExpectError != "" {
		want := expectedErrors[step.ExpectError]
		if res.Err == nil {
			return fmt.Sprintf("expected %s error, got success (%s)", step.ExpectError, res.Detail)
		}
		if !errors.Is(res.Err, want) {
			return fmt.Sprintf("expected %s error, got: %v", step.ExpectError, res.Err)
		}
		return ""
	}
	if res.Err != nil {
		return fmt.Sprintf("unexpected error: %v", res.Err)
	}

	if step.ExpectBalance != "" {
		want, err := decimal.NewFromString(step.ExpectBalance)
		if err != nil {
			return fmt.Sprintf("parsing expect_balance %q: %v", step.ExpectBalance, err)
		}
		if !res.Balance.Equal(want) {
			return fmt.Sprintf("expected balance %s, got %s", want.String(), res.Balance.String())
		}
	}
	return ""
}

func (r *Runner) auditEntry(runID string, res StepResult, failure string) runlog.Entry {
	e := runlog.Entry{
		Timestamp: r.now().UTC(),
		RunID:     runID,
		Step:      res.Index,
		Op:        res.Op,
		Account:   res.Account,
		Outcome:   runlog.OutcomeOK,
		Details:   res.Detail,
	}
	switch {
	case failure != "":
		e.Outcome = runlog.OutcomeFailed
		e.Details = failure
	case res.Err != nil:
		e.Outcome = runlog.OutcomeExpected
		e.Details = res.Err.Error()
	}
	return e
}
