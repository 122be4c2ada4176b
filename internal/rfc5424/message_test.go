package rfc5424

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validMessage = `<165>1 2003-10-11T22:14:15.003Z mymachine.example.com evntslog - ID47 [exampleSDID@32473 iut="3" eventSource="App" eventID="1011"] An application event log entry`
	nilFields    = `<34>1 - mymachine.example.com su - ID47 - 'su root' failed`
)

func TestValidateMessageCompliant(t *testing.T) {
	compliant := []string{
		validMessage,
		nilFields,
		`<0>1 2003-10-11T22:14:15.003Z host app - - -`,
		`<165>1 2003-08-24T05:14:15.000003-07:00 192.0.2.1 myproc 8710 - - %% It's time to make the do-nuts.`,
	}

	for _, msg := range compliant {
		assert.Empty(t, ValidateMessage(msg), "message %q", msg)
	}
}

func TestValidateMessageStructuralMismatch(t *testing.T) {
	malformed := []string{
		"",
		"not a syslog line",
		"<34>1",
		"34>1 2003-10-11T22:14:15.003Z host app - ID47 -",
		"<34>1 2003-10-11T22:14:15.003Z host app - ID47", // missing structured data
	}

	for _, msg := range malformed {
		violations := ValidateMessage(msg)
		require.Len(t, violations, 1, "message %q", msg)
		assert.Equal(t, RuleStructuralMismatch, violations[0].Rule)
		assert.Equal(t, SeverityHard, violations[0].Severity)
	}
}

func TestValidateMessagePrivalRange(t *testing.T) {
	for prival := 0; prival <= 191; prival++ {
		msg := fmt.Sprintf(`<%d>1 2003-10-11T22:14:15.003Z host app - ID47 -`, prival)
		assert.Empty(t, ValidateMessage(msg), "prival %d", prival)
	}

	for _, prival := range []int{192, 200, 500, 999} {
		msg := fmt.Sprintf(`<%d>1 2003-10-11T22:14:15.003Z host app - ID47 -`, prival)
		violations := ValidateMessage(msg)
		require.Len(t, violations, 1, "prival %d", prival)
		assert.Equal(t, RuleFieldRange, violations[0].Rule)
		assert.Equal(t, FieldPrival, violations[0].Field)
		assert.Equal(t, SeveritySoft, violations[0].Severity)
	}
}

func TestValidateMessageVersion(t *testing.T) {
	violations := ValidateMessage(`<34>2 2003-10-11T22:14:15.003Z host app - ID47 -`)
	require.Len(t, violations, 1)
	assert.Equal(t, RuleFieldRange, violations[0].Rule)
	assert.Equal(t, FieldVersion, violations[0].Field)
	assert.Equal(t, SeveritySoft, violations[0].Severity)
}

func TestValidateMessageTimestampDelegation(t *testing.T) {
	violations := ValidateMessage(`<34>1 2023-02-29T00:00:00Z host app - ID47 -`)
	require.Len(t, violations, 1)
	assert.Equal(t, RuleTimestampRange, violations[0].Rule)
}

func TestValidateMessageStructuredDataDelegation(t *testing.T) {
	violations := ValidateMessage(`<34>1 2003-10-11T22:14:15.003Z host app - ID47 [id key="va=lue"]`)
	require.Len(t, violations, 1)
	assert.Equal(t, RuleStructuredData, violations[0].Rule)
}

func TestValidateMessageSoftViolationsAccumulate(t *testing.T) {
	// Out-of-range PRIVAL, wrong VERSION and a calendar-invalid day are all
	// reported on one pass
	violations := ValidateMessage(`<200>2 2023-02-29T00:00:00Z host app - ID47 -`)
	require.Len(t, violations, 3)

	rules := make([]string, 0, len(violations))
	for _, v := range violations {
		assert.Equal(t, SeveritySoft, v.Severity)
		rules = append(rules, v.Rule)
	}
	assert.ElementsMatch(t, []string{RuleFieldRange, RuleFieldRange, RuleTimestampRange}, rules)
}

func TestValidateMessageBOMTriggersUTF8Check(t *testing.T) {
	head := `<34>1 2003-10-11T22:14:15.003Z host app - ID47 - `

	// BOM followed by valid UTF-8
	assert.Empty(t, ValidateMessage(head+"\xef\xbb\xbfvalid text"))

	// BOM followed by an invalid byte
	violations := ValidateMessage(head + "\xef\xbb\xbfbad \xff byte")
	require.Len(t, violations, 1)
	assert.Equal(t, RuleUTF8, violations[0].Rule)
	assert.Equal(t, FieldMsg, violations[0].Field)

	// Invalid bytes without the BOM prefix are not judged
	assert.Empty(t, ValidateMessage(head+"bad \xff byte"))
}

func TestValidateMessageShortMsgSkipsBOMCheck(t *testing.T) {
	head := `<34>1 2003-10-11T22:14:15.003Z host app - ID47 -`

	// No MSG at all, then MSG shorter than the BOM
	assert.Empty(t, ValidateMessage(head))
	assert.Empty(t, ValidateMessage(head+" \xef\xbb"))
}

func TestValidateMessageIdempotent(t *testing.T) {
	candidates := []string{
		validMessage,
		`<200>2 2023-02-29T00:00:00Z host app - ID47 [id key="va=lue"]`,
		"not a syslog line",
	}

	for _, msg := range candidates {
		first := ValidateMessage(msg)
		second := ValidateMessage(msg)
		assert.Equal(t, first, second, "message %q", msg)
	}
}
