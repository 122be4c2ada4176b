package rfc5424

import (
	"bufio"
	"fmt"
	"os"
)

// LineResult attributes a non-compliant line's violations to its position
// in the input file (1-based).
type LineResult struct {
	Line       int         `json:"line"`
	Message    string      `json:"message"`
	Violations []Violation `json:"violations"`
}

// BatchReport is the outcome of validating a newline-delimited file of
// candidate messages against an expected line count.
type BatchReport struct {
	Expected int          `json:"expected"`
	Observed int          `json:"observed"`
	Results  []LineResult `json:"results,omitempty"`
}

// Compliant reports whether every line passed and the observed line count
// matched the expectation.
func (r *BatchReport) Compliant() bool {
	return len(r.Results) == 0 && r.Expected == r.Observed
}

// CountMatches reports whether the observed line count equals the expected
// one, independent of per-line compliance.
func (r *BatchReport) CountMatches() bool {
	return r.Expected == r.Observed
}

// ValidateFile validates every line of the file at path independently and
// checks the total line count against expected. A violation in one line
// never stops validation of the following lines. The returned error covers
// I/O failures only; conformance failures live in the report.
func ValidateFile(path string, expected int) (*BatchReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open candidate file: %w", err)
	}
	defer f.Close()

	report := &BatchReport{Expected: expected}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		report.Observed++
		line := scanner.Text()
		if violations := ValidateMessage(line); len(violations) > 0 {
			report.Results = append(report.Results, LineResult{
				Line:       report.Observed,
				Message:    line,
				Violations: violations,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candidate file: %w", err)
	}

	return report, nil
}
