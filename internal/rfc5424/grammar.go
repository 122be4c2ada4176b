package rfc5424

import "regexp"

// Field names used in violation records.
const (
	FieldMessage        = "message"
	FieldPrival         = "prival"
	FieldVersion        = "version"
	FieldTimestamp      = "timestamp"
	FieldStructuredData = "structured-data"
	FieldMsg            = "msg"
	FieldParamValue     = "param-value"
)

// PRIVAL bounds per RFC 5424 (facility 0-23, severity 0-7).
const (
	privalMin = 0
	privalMax = 191
)

// messageGrammar splits a candidate line into its RFC 5424 top-level
// fields. HOSTNAME/APP-NAME/PROCID/MSGID are constrained to printable
// US-ASCII; TIMESTAMP and STRUCTURED-DATA are captured loosely so their
// dedicated validators judge them.
var messageGrammar = regexp.MustCompile(`^<(\d{1,3})>(\d{1,2}) (-|\d{4}-\d{2}-\d{2}T\S+) ([!-~]{1,255}) ([!-~]{1,48}) ([!-~]{1,128}) ([!-~]{1,32}) (-|(?:\[(?:[^\]\\]|\\.)*\])+)(?: (.*))?$`)

// Submatch indices for messageGrammar.
const (
	matchPrival = iota + 1
	matchVersion
	matchTimestamp
	matchHostname
	matchAppName
	matchProcID
	matchMsgID
	matchStructuredData
	matchMsg
)

// timestampGrammar matches full-date "T" full-time with optional
// fractional seconds and either "Z" or a numeric zone offset.
var timestampGrammar = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2})(\.\d{1,6})?(Z|[+-]\d{2}:\d{2})$`)

// Submatch indices for timestampGrammar.
const (
	matchFullYear = iota + 1
	matchMonth
	matchMDay
)
