package rfc5424

import "strconv"

// utf8BOM is the byte-order-mark prefix that marks MSG as UTF-8 per RFC 5424.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const nilValue = "-"

// ValidateMessage judges one candidate syslog line against RFC 5424.
// A line that does not match the top-level message grammar fails hard with
// a single structural violation; otherwise the extracted fields are checked
// independently and their violations accumulate.
func ValidateMessage(candidate string) []Violation {
	m := messageGrammar.FindStringSubmatch(candidate)
	if m == nil {
		return []Violation{hard(RuleStructuralMismatch, FieldMessage, 0,
			"message does not match the RFC 5424 grammar")}
	}

	var violations []Violation

	prival, err := strconv.Atoi(m[matchPrival])
	if err != nil || prival < privalMin || prival > privalMax {
		violations = append(violations, soft(RuleFieldRange, FieldPrival, 0,
			"PRIVAL %s is outside [%d, %d]", m[matchPrival], privalMin, privalMax))
	}

	if m[matchVersion] != "1" {
		violations = append(violations, soft(RuleFieldRange, FieldVersion, 0,
			"VERSION is %q, want \"1\"", m[matchVersion]))
	}

	if ts := m[matchTimestamp]; ts != nilValue {
		violations = append(violations, ValidateTimestamp(ts)...)
	}

	violations = append(violations, ValidateStructuredData(m[matchStructuredData])...)

	// MSG is only declared UTF-8 when it opens with the BOM; the length
	// guard keeps the prefix probe in bounds for short messages.
	msg := m[matchMsg]
	if len(msg) >= len(utf8BOM) &&
		msg[0] == utf8BOM[0] && msg[1] == utf8BOM[1] && msg[2] == utf8BOM[2] {
		violations = append(violations, ValidateUTF8(FieldMsg, []byte(msg))...)
	}

	return violations
}
