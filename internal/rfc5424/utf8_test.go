package rfc5424

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUTF8Compliant(t *testing.T) {
	compliant := [][]byte{
		nil,
		[]byte(""),
		[]byte("plain ascii"),
		[]byte("héllo wörld"),
		[]byte("\xef\xbb\xbfwith BOM"),
		[]byte("日本語"),
	}

	for _, data := range compliant {
		assert.Empty(t, ValidateUTF8(FieldMsg, data), "data %q", data)
	}
}

func TestValidateUTF8InvalidByte(t *testing.T) {
	violations := ValidateUTF8(FieldMsg, []byte("\xff"))
	require.Len(t, violations, 1)
	assert.Equal(t, RuleUTF8, violations[0].Rule)
	assert.Equal(t, SeveritySoft, violations[0].Severity)
	assert.Equal(t, 0, violations[0].Position)
}

func TestValidateUTF8TruncatedSequence(t *testing.T) {
	// 0xE2 0x82 is the start of a three-byte sequence with its last byte
	// missing; both bytes are reported
	violations := ValidateUTF8(FieldParamValue, []byte("ok\xe2\x82"))
	require.Len(t, violations, 2)
	assert.Equal(t, 2, violations[0].Position)
	assert.Equal(t, 3, violations[1].Position)
}

func TestValidateUTF8OverlongAndStray(t *testing.T) {
	// Stray continuation byte in the middle of valid text
	violations := ValidateUTF8(FieldMsg, []byte("a\x80b"))
	require.Len(t, violations, 1)
	assert.Equal(t, 1, violations[0].Position)

	// Overlong encoding of '/' (0xC0 0xAF) is rejected byte by byte
	violations = ValidateUTF8(FieldMsg, []byte("\xc0\xaf"))
	assert.Len(t, violations, 2)
}
