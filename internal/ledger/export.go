package ledger

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/cleared-dev/atm/internal/id"
	"github.com/cleared-dev/atm/internal/model"
)

// WriteLedger writes entries to w, one per line.
func WriteLedger(w io.Writer, entries []string) error {
	bw := bufio.NewWriter(w)
	for i, e := range entries {
		if _, err := bw.WriteString(e + "\n"); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// PrintLedger writes an account's transaction log to path, replacing any existing file.
func (l *Ledger) PrintLedger(path string, acct model.AccountID) error {
	entries, err := l.Transactions(acct)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %w", ErrExport, path, err)
	}

	if err := WriteLedger(f, entries); err != nil {
		f.Close()
		return fmt.Errorf("%w: %w", ErrExport, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %w", ErrExport, path, err)
	}

	l.log.Debug("ledger printed",
		"account", id.FormatAccountID(acct),
		"path", path,
		"entries", len(entries))
	return nil
}
