package rfc5424

// sdState enumerates the parser states of the STRUCTURED-DATA machine.
type sdState int

const (
	sdInit sdState = iota
	sdElementEmpty
	sdElementBegin
	sdIDName
	sdIDEnterpriseNumber
	sdParamName
	sdParamValueBegin
	sdInValue
	sdValueEnd
)

var sdStateNames = map[sdState]string{
	sdInit:               "Init",
	sdElementEmpty:       "ElementEmpty",
	sdElementBegin:       "ElementBegin",
	sdIDName:             "IdName",
	sdIDEnterpriseNumber: "IdEnterpriseNumber",
	sdParamName:          "ParamName",
	sdParamValueBegin:    "ParamValueBegin",
	sdInValue:            "InValue",
	sdValueEnd:           "ValueEnd",
}

func (s sdState) String() string {
	if name, ok := sdStateNames[s]; ok {
		return name
	}
	return "Unknown"
}

// sdMachine drives one validation pass over a STRUCTURED-DATA field.
// paramValue accumulates the currently-open SD-PARAM value; escaped is the
// backslash-pending flag inside a value.
type sdMachine struct {
	state      sdState
	escaped    bool
	paramValue []byte
	violations []Violation
	halted     bool
}

// sdTransitions is the transition table, one step handler per state. Each
// handler consumes the byte at offset pos and either moves the machine or
// records a violation; hard violations halt the machine.
var sdTransitions = map[sdState]func(*sdMachine, byte, int){
	sdInit:               (*sdMachine).stepInit,
	sdElementEmpty:       (*sdMachine).stepElementEmpty,
	sdElementBegin:       (*sdMachine).stepElementBegin,
	sdIDName:             (*sdMachine).stepIDName,
	sdIDEnterpriseNumber: (*sdMachine).stepIDEnterpriseNumber,
	sdParamName:          (*sdMachine).stepParamName,
	sdParamValueBegin:    (*sdMachine).stepParamValueBegin,
	sdInValue:            (*sdMachine).stepInValue,
	sdValueEnd:           (*sdMachine).stepValueEnd,
}

// ValidateStructuredData validates the STRUCTURED-DATA field byte by byte.
// Soft violations accumulate; a hard violation stops the pass immediately.
// Reaching end of input mid-element is not itself a violation.
func ValidateStructuredData(structuredData string) []Violation {
	m := &sdMachine{state: sdInit}

	for i := 0; i < len(structuredData) && !m.halted; i++ {
		step, ok := sdTransitions[m.state]
		if !ok {
			m.fail(hard(RuleStructuredData, FieldStructuredData, i,
				"invalid state reached during SD-ELEMENT validation"))
			break
		}
		step(m, structuredData[i], i)
	}

	return m.violations
}

func (m *sdMachine) record(v Violation) {
	m.violations = append(m.violations, v)
}

func (m *sdMachine) fail(v Violation) {
	m.violations = append(m.violations, v)
	m.halted = true
}

func (m *sdMachine) stepInit(c byte, pos int) {
	// Anything other than the empty marker or an element opener is left
	// unvalidated here; the message grammar constrains the field's shape.
	switch c {
	case '-':
		m.state = sdElementEmpty
	case '[':
		m.state = sdIDName
	}
}

func (m *sdMachine) stepElementEmpty(c byte, pos int) {
	m.fail(hard(RuleStructuredData, FieldStructuredData, pos,
		"empty STRUCTURED-DATA had more than a '-' character"))
}

func (m *sdMachine) stepElementBegin(c byte, pos int) {
	if c != '[' {
		m.fail(hard(RuleStructuredData, FieldStructuredData, pos,
			"expected '[' to open an SD-ELEMENT, got %q", c))
		return
	}
	m.state = sdIDName
}

func (m *sdMachine) stepIDName(c byte, pos int) {
	switch c {
	case '@':
		m.state = sdIDEnterpriseNumber
	case ']':
		m.state = sdElementBegin
	case ' ':
		m.state = sdParamName
	default:
		if c <= 32 || c >= 127 {
			m.record(soft(RuleStructuredData, FieldStructuredData, pos,
				"SD-ID byte 0x%02x is not printable US-ASCII", c))
		}
		if c == '=' || c == '"' {
			m.record(soft(RuleStructuredData, FieldStructuredData, pos,
				"SD-ID must not contain %q", c))
		}
	}
}

func (m *sdMachine) stepIDEnterpriseNumber(c byte, pos int) {
	switch c {
	case ']':
		m.state = sdElementBegin
	case ' ':
		m.state = sdParamName
	default:
		if c < '0' || c > '9' {
			m.record(soft(RuleStructuredData, FieldStructuredData, pos,
				"enterprise number byte %q is not a digit", c))
		}
	}
}

func (m *sdMachine) stepParamName(c byte, pos int) {
	if c == '=' {
		m.state = sdParamValueBegin
		m.paramValue = m.paramValue[:0]
		m.escaped = false
		return
	}
	if c <= 32 || c >= 127 {
		m.record(soft(RuleStructuredData, FieldStructuredData, pos,
			"PARAM-NAME byte 0x%02x is not printable US-ASCII", c))
	}
	if c == ']' || c == '"' {
		m.record(soft(RuleStructuredData, FieldStructuredData, pos,
			"PARAM-NAME must not contain %q", c))
	}
}

func (m *sdMachine) stepParamValueBegin(c byte, pos int) {
	if c != '"' {
		m.fail(hard(RuleStructuredData, FieldStructuredData, pos,
			"PARAM-VALUE must open with '\"', got %q", c))
		return
	}
	m.state = sdInValue
}

func (m *sdMachine) stepInValue(c byte, pos int) {
	if m.escaped {
		m.paramValue = append(m.paramValue, c)
		m.escaped = false
		return
	}

	if c == '"' {
		m.state = sdValueEnd
		return
	}

	m.paramValue = append(m.paramValue, c)
	if c == '=' || c == ']' {
		m.record(soft(RuleStructuredData, FieldStructuredData, pos,
			"unescaped %q inside PARAM-VALUE", c))
	}
	if c == '\\' {
		m.escaped = true
	}
}

func (m *sdMachine) stepValueEnd(c byte, pos int) {
	for _, v := range ValidateUTF8(FieldParamValue, m.paramValue) {
		m.record(v)
	}

	switch c {
	case ' ':
		m.state = sdParamName
	case ']':
		m.state = sdElementBegin
	default:
		m.fail(hard(RuleStructuredData, FieldStructuredData, pos,
			"invalid ending of PARAM-VALUE: %q", c))
	}
}
