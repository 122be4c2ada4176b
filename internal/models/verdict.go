package models

import (
	"time"

	"github.com/your-username/rfc5424-conformance/internal/rfc5424"
)

// Verdict is the outcome of validating one candidate message.
type Verdict struct {
	ID         string              `json:"id"`
	Source     string              `json:"source"`
	Line       int                 `json:"line,omitempty"`
	Message    string              `json:"message"`
	Compliant  bool                `json:"compliant"`
	Violations []rfc5424.Violation `json:"violations,omitempty"`
	CheckedAt  time.Time           `json:"checked_at"`
}

// VerdictFilter narrows which verdicts a stream client receives.
type VerdictFilter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// WebSocketMessage is the envelope exchanged with verdict stream clients.
type WebSocketMessage struct {
	Type    string          `json:"type"`
	Action  string          `json:"action,omitempty"`
	Data    interface{}     `json:"data,omitempty"`
	Filters []VerdictFilter `json:"filters,omitempty"`
}
