package rfc5424

import "unicode/utf8"

// ValidateUTF8 checks that data is a well-formed UTF-8 byte sequence.
// Every invalid sequence yields one soft violation carrying the byte
// offset of the offending byte.
func ValidateUTF8(field string, data []byte) []Violation {
	var violations []Violation

	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			violations = append(violations, soft(RuleUTF8, field, i,
				"invalid UTF-8 byte 0x%02x", data[i]))
			i++
			continue
		}
		i += size
	}

	return violations
}
