// Package compare checks whether two text files carry the same
// whitespace-delimited token sequence.
package compare

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Files reports whether the files at p1 and p2 have identical token sequences.
func Files(p1, p2 string) (bool, error) {
	f1, err := os.Open(p1)
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", p1, err)
	}
	defer f1.Close()

	f2, err := os.Open(p2)
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", p2, err)
	}
	defer f2.Close()

	return Readers(f1, f2)
}

// Readers reports whether r1 and r2 have identical token sequences.
// Token count must match; spacing and line breaks between tokens do not matter.
func Readers(r1, r2 io.Reader) (bool, error) {
	s1 := bufio.NewScanner(r1)
	s1.Split(bufio.ScanWords)
	s2 := bufio.NewScanner(r2)
	s2.Split(bufio.ScanWords)

	for {
		ok1 := s1.Scan()
		ok2 := s2.Scan()
		if !ok1 || !ok2 {
			if err := s1.Err(); err != nil {
				return false, fmt.Errorf("reading first input: %w", err)
			}
			if err := s2.Err(); err != nil {
				return false, fmt.Errorf("reading second input: %w", err)
			}
			return ok1 == ok2, nil
		}
		if s1.Text() != s2.Text() {
			return false, nil
		}
	}
}
