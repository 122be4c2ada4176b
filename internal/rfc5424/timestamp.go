package rfc5424

import "strconv"

// daysInMonth returns the last valid day of month in year, applying the
// Gregorian leap-year rule for February.
func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if (year%4 == 0 && year%100 != 0) || year%400 == 0 {
			return 29
		}
		return 28
	}
	return 0
}

// ValidateTimestamp validates the TIMESTAMP field: first the grammar
// (full-date "T" full-time with optional fraction and zone offset), then
// the calendar validity of the extracted date. A grammar mismatch is hard
// and ends the field's checks; a day beyond the month's length is soft.
func ValidateTimestamp(timestamp string) []Violation {
	m := timestampGrammar.FindStringSubmatch(timestamp)
	if m == nil {
		return []Violation{hard(RuleTimestampGrammar, FieldTimestamp, 0,
			"%q does not match the RFC 5424 timestamp grammar", timestamp)}
	}

	year, _ := strconv.Atoi(m[matchFullYear])
	month, _ := strconv.Atoi(m[matchMonth])
	day, _ := strconv.Atoi(m[matchMDay])

	// The grammar guarantees two digits; a month outside 1-12 still slips
	// through it, so reject it here before indexing month lengths.
	if month < 1 || month > 12 {
		return []Violation{hard(RuleTimestampGrammar, FieldTimestamp, 0,
			"DATE-MONTH %02d is not between 1 and 12", month)}
	}

	var violations []Violation
	if day < 1 || day > daysInMonth(year, month) {
		violations = append(violations, soft(RuleTimestampRange, FieldTimestamp, 0,
			"DATE-MDAY %02d is out of range for %04d-%02d", day, year, month))
	}

	return violations
}
