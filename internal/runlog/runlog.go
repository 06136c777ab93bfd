package runlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Outcome values recorded for a step.
const (
	OutcomeOK       = "ok"
	OutcomeExpected = "expected-error"
	OutcomeFailed   = "failed"
)

// Entry is one row in the audit log.
type Entry struct {
	Timestamp time.Time
	RunID     string
	Step      int
	Op        string
	Account   string
	Outcome   string
	Details   string
}

// Header is the CSV header for the audit log.
const Header = "timestamp,run_id,step,op,account,outcome,details"

const (
	numFields    = 7
	colTimestamp = 0
	colRunID     = 1
	colStep      = 2
	colOp        = 3
	colAccount   = 4
	colOutcome   = 5
	colDetails   = 6
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colStep] = strconv.Itoa(e.Step)
	row[colOp] = e.Op
	row[colAccount] = e.Account
	row[colOutcome] = e.Outcome
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	step, err := strconv.Atoi(record[colStep])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing step %q: %w", record[colStep], err)
	}

	return Entry{
		Timestamp: ts,
		RunID:     record[colRunID],
		Step:      step,
		Op:        record[colOp],
		Account:   record[colAccount],
		Outcome:   record[colOutcome],
		Details:   record[colDetails],
	}, nil
}

// Append writes entries to the audit log at path, creating the file and header if needed.
func Append(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating audit log dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from the audit log at path.
// Returns nil if the file does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading audit log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
