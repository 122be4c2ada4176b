package rfc5424

import "fmt"

// Severity tells how a violation affects the rest of the validation pass.
// A hard violation stops validation of the unit it was found in; a soft
// violation is recorded and validation continues.
type Severity string

const (
	SeverityHard Severity = "hard"
	SeveritySoft Severity = "soft"
)

// Rule identifiers for reported violations
const (
	RuleStructuralMismatch = "structural-mismatch"
	RuleFieldRange         = "field-range"
	RuleTimestampGrammar   = "timestamp-grammar"
	RuleTimestampRange     = "timestamp-range"
	RuleStructuredData     = "sd-state"
	RuleUTF8               = "utf8"
)

// Violation describes a single conformance failure with enough context to
// locate the defect without re-running the check under instrumentation.
type Violation struct {
	Rule     string   `json:"rule"`
	Field    string   `json:"field"`
	Severity Severity `json:"severity"`
	Position int      `json:"position,omitempty"`
	Detail   string   `json:"detail"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s/%s (%s) at %d: %s", v.Field, v.Rule, v.Severity, v.Position, v.Detail)
}

func hard(rule, field string, pos int, format string, args ...interface{}) Violation {
	return Violation{
		Rule:     rule,
		Field:    field,
		Severity: SeverityHard,
		Position: pos,
		Detail:   fmt.Sprintf(format, args...),
	}
}

func soft(rule, field string, pos int, format string, args ...interface{}) Violation {
	return Violation{
		Rule:     rule,
		Field:    field,
		Severity: SeveritySoft,
		Position: pos,
		Detail:   fmt.Sprintf(format, args...),
	}
}

// Compliant reports whether a validation pass found no violations.
func Compliant(violations []Violation) bool {
	return len(violations) == 0
}
