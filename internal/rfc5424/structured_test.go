package rfc5424

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStructuredDataCompliant(t *testing.T) {
	compliant := []string{
		"-",
		`[exampleSDID@32473 iut="3" eventSource="App" eventID="1011"]`,
		`[sdid]`,
		`[sdid@32473]`,
		`[a b="c"][d e="f"]`,
		`[origin ip="192.0.2.1"]`,
		"",
	}

	for _, sd := range compliant {
		assert.Empty(t, ValidateStructuredData(sd), "structured data %q", sd)
	}
}

func TestValidateStructuredDataEmptyMarker(t *testing.T) {
	violations := ValidateStructuredData("-x")
	require.Len(t, violations, 1)
	assert.Equal(t, SeverityHard, violations[0].Severity)
	assert.Equal(t, RuleStructuredData, violations[0].Rule)
	assert.Equal(t, 1, violations[0].Position)
}

func TestValidateStructuredDataEscaping(t *testing.T) {
	// Escaped quote inside a value is fine
	assert.Empty(t, ValidateStructuredData(`[id key="va\"lue"]`))

	// Escaped closing bracket too
	assert.Empty(t, ValidateStructuredData(`[id key="va\]lue"]`))

	// Unescaped '=' inside a value is a soft violation
	violations := ValidateStructuredData(`[id key="va=lue"]`)
	require.Len(t, violations, 1)
	assert.Equal(t, SeveritySoft, violations[0].Severity)

	// Unescaped ']' inside a value likewise
	violations = ValidateStructuredData(`[id key="va]lue"]`)
	require.Len(t, violations, 1)
	assert.Equal(t, SeveritySoft, violations[0].Severity)
}

func TestValidateStructuredDataParamValueOpening(t *testing.T) {
	violations := ValidateStructuredData(`[id key=3]`)
	require.Len(t, violations, 1)
	assert.Equal(t, SeverityHard, violations[0].Severity)
}

func TestValidateStructuredDataParamValueEnding(t *testing.T) {
	violations := ValidateStructuredData(`[id key="v"x]`)
	require.Len(t, violations, 1)
	assert.Equal(t, SeverityHard, violations[0].Severity)
	assert.Contains(t, violations[0].Detail, "PARAM-VALUE")
}

func TestValidateStructuredDataIDCharacters(t *testing.T) {
	// '=' inside an SD-ID
	violations := ValidateStructuredData(`[i=d]`)
	require.Len(t, violations, 1)
	assert.Equal(t, SeveritySoft, violations[0].Severity)

	// Control byte inside an SD-ID is still soft
	violations = ValidateStructuredData("[i\x01d]")
	require.Len(t, violations, 1)
	assert.Equal(t, SeveritySoft, violations[0].Severity)
}

func TestValidateStructuredDataEnterpriseNumber(t *testing.T) {
	assert.Empty(t, ValidateStructuredData(`[sdid@32473 k="v"]`))

	violations := ValidateStructuredData(`[sdid@32a73]`)
	require.Len(t, violations, 1)
	assert.Equal(t, SeveritySoft, violations[0].Severity)
	assert.Contains(t, violations[0].Detail, "digit")
}

func TestValidateStructuredDataParamName(t *testing.T) {
	violations := ValidateStructuredData(`[id k"ey="v"]`)
	require.NotEmpty(t, violations)
	assert.Equal(t, SeveritySoft, violations[0].Severity)
}

func TestValidateStructuredDataValueUTF8(t *testing.T) {
	violations := ValidateStructuredData("[id key=\"a\xffb\"]")
	require.Len(t, violations, 1)
	assert.Equal(t, RuleUTF8, violations[0].Rule)
	assert.Equal(t, FieldParamValue, violations[0].Field)
}

func TestValidateStructuredDataElementChaining(t *testing.T) {
	// Garbage between elements breaks the chain hard
	violations := ValidateStructuredData(`[a b="c"]x[d]`)
	require.Len(t, violations, 1)
	assert.Equal(t, SeverityHard, violations[0].Severity)
}

func TestValidateStructuredDataTruncatedElement(t *testing.T) {
	// End of input mid-element carries no pending-obligation check
	assert.Empty(t, ValidateStructuredData(`[id key="unterminated`))
	assert.Empty(t, ValidateStructuredData(`[id`))
}
