package script

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/atm/internal/ledger"
	"github.com/cleared-dev/atm/internal/model"
	"github.com/cleared-dev/atm/internal/runlog"
)

func TestRun_EndToEnd(t *testing.T) {
	s, err := Load("testdata/end_to_end.yaml")
	require.NoError(t, err)

	l := ledger.New()
	report, err := NewRunner(l, "", nil).Run(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, report.Passed())
	require.Len(t, report.Results, 10)

	_, err = uuid.Parse(report.RunID)
	assert.NoError(t, err)

	assert.ErrorIs(t, report.Results[4].Err, ledger.ErrInvalidArgument)
	assert.ErrorIs(t, report.Results[7].Err, ledger.ErrInsufficientFunds)
	assert.Equal(t, "$30.00", report.Results[9].Detail)

	bal, err := l.CheckBalance(model.AccountID{Routing: 12345678, Number: 1234})
	require.NoError(t, err)
	assert.True(t, bal.Equal(decimal.RequireFromString("280.30")))
}

func TestRun_AuditEntries(t *testing.T) {
	s, err := Load("testdata/end_to_end.yaml")
	require.NoError(t, err)

	report, err := NewRunner(ledger.New(), "", nil).Run(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, report.Audit, 10)

	for i, e := range report.Audit {
		assert.Equal(t, report.RunID, e.RunID)
		assert.Equal(t, i+1, e.Step)
		assert.False(t, e.Timestamp.IsZero())
	}
	assert.Equal(t, runlog.OutcomeOK, report.Audit[0].Outcome)
	assert.Equal(t, runlog.OutcomeExpected, report.Audit[6].Outcome)
	assert.Contains(t, report.Audit[6].Details, "invalid argument")
}

func TestRun_StopsAtFirstFailure(t *testing.T) {
	s := &Script{Name: "bad balance", Steps: []Step{
		{Op: OpRegister, Account: "1-2", Owner: "Ann", Amount: "10"},
		{Op: OpBalance, Account: "1-2", ExpectBalance: "11"},
		{Op: OpDeposit, Account: "1-2", Amount: "5"},
	}}

	l := ledger.New()
	report, err := NewRunner(l, "", nil).Run(context.Background(), s)
	require.ErrorIs(t, err, ErrStepFailed)
	assert.Contains(t, err.Error(), "step 2 (balance 1-2)")
	assert.Contains(t, err.Error(), "expected balance 11, got 10")

	require.NotNil(t, report)
	assert.False(t, report.Passed())
	require.Len(t, report.Results, 2)
	assert.Equal(t, runlog.OutcomeFailed, report.Audit[1].Outcome)

	bal, err := l.CheckBalance(model.AccountID{Routing: 1, Number: 2})
	require.NoError(t, err)
	assert.True(t, bal.Equal(decimal.NewFromInt(10)), "step 3 must not run")
}

func TestRun_UnexpectedError(t *testing.T) {
	s := &Script{Steps: []Step{
		{Op: OpWithdraw, Account: "1-2", Amount: "5"},
	}}
	_, err := NewRunner(ledger.New(), "", nil).Run(context.Background(), s)
	require.ErrorIs(t, err, ErrStepFailed)
	assert.Contains(t, err.Error(), "unexpected error")
	assert.Contains(t, err.Error(), "account not found")
}

func TestRun_ExpectedErrorMissing(t *testing.T) {
	s := &Script{Steps: []Step{
		{Op: OpRegister, Account: "1-2", Owner: "Ann", Amount: "10"},
		{Op: OpWithdraw, Account: "1-2", Amount: "5", ExpectError: "insufficient_funds"},
	}}
	_, err := NewRunner(ledger.New(), "", nil).Run(context.Background(), s)
	require.ErrorIs(t, err, ErrStepFailed)
	assert.Contains(t, err.Error(), "expected insufficient_funds error, got success")
}

func TestRun_WrongErrorKind(t *testing.T) {
	s := &Script{Steps: []Step{
		{Op: OpDeposit, Account: "1-2", Amount: "5", ExpectError: "invalid_argument"},
	}}
	_, err := NewRunner(ledger.New(), "", nil).Run(context.Background(), s)
	require.ErrorIs(t, err, ErrStepFailed)
	assert.Contains(t, err.Error(), "expected invalid_argument error, got")
}

func TestRun_PrintAndAppend(t *testing.T) {
	dir := t.TempDir()
	s := &Script{Steps: []Step{
		{Op: OpRegister, Account: "12345678-1234", Owner: "Sam Sepiol", Amount: "300.30"},
		{Op: OpAppend, Account: "12345678-1234", Entry: "Withdrawal - Amount: $200.40, Updated Balance: $99.90"},
		{Op: OpDeposit, Account: "12345678-1234", Amount: "40000"},
		{Op: OpPrint, Account: "12345678-1234", Path: "prompt.txt"},
		{Op: OpPrint, Account: "9-9", Path: "ghost.txt", ExpectError: "not_found"},
	}}

	report, err := NewRunner(ledger.New(), dir, nil).Run(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, "wrote "+filepath.Join(dir, "prompt.txt"), report.Results[3].Detail)

	data, err := os.ReadFile(filepath.Join(dir, "prompt.txt"))
	require.NoError(t, err)
	assert.Equal(t,
		"Withdrawal - Amount: $200.40, Updated Balance: $99.90\n"+
			"Deposit - Amount: $40000.00, Updated Balance: $40300.30\n",
		string(data))

	_, err = os.Stat(filepath.Join(dir, "ghost.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_AbsolutePrintPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abs.txt")
	s := &Script{Steps: []Step{
		{Op: OpRegister, Account: "1-2", Owner: "Ann"},
		{Op: OpPrint, Account: "1-2", Path: path},
	}}
	_, err := NewRunner(ledger.New(), "/should/not/be/used", nil).Run(context.Background(), s)
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestRun_ExportError(t *testing.T) {
	s := &Script{Steps: []Step{
		{Op: OpRegister, Account: "1-2", Owner: "Ann"},
		{Op: OpPrint, Account: "1-2", Path: "no/such/dir/out.txt", ExpectError: "export"},
	}}
	_, err := NewRunner(ledger.New(), t.TempDir(), nil).Run(context.Background(), s)
	assert.NoError(t, err)
}

func TestRun_Rename(t *testing.T) {
	l := ledger.New()
	s := &Script{Steps: []Step{
		{Op: OpRegister, Account: "1-2", Owner: "Elliot"},
		{Op: OpRename, Account: "1-2", Owner: "Mr. Robot"},
	}}
	_, err := NewRunner(l, "", nil).Run(context.Background(), s)
	require.NoError(t, err)

	acct, err := l.Account(model.AccountID{Routing: 1, Number: 2})
	require.NoError(t, err)
	assert.Equal(t, "Mr. Robot", acct.OwnerName)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &Script{Steps: []Step{{Op: OpRegister, Account: "1-2", Owner: "Ann"}}}
	l := ledger.New()
	report, err := NewRunner(l, "", nil).Run(ctx, s)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Results)
	assert.Equal(t, 0, l.Len())
}

func TestRun_InvalidScript(t *testing.T) {
	report, err := NewRunner(ledger.New(), "", nil).Run(context.Background(), &Script{})
	require.Error(t, err)
	assert.Nil(t, report)
}

func TestRun_Logs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	s := &Script{Name: "logged", Steps: []Step{{Op: OpRegister, Account: "1-2", Owner: "Ann"}}}

	_, err := NewRunner(ledger.New(), "", logger).Run(context.Background(), s)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "run started")
	assert.Contains(t, buf.String(), "script=logged")
	assert.Contains(t, buf.String(), "run finished")
}
