package golox

import "strconv"

// Value is the runtime representation of every value in the language.
// Exactly four cases exist: Nil, Boolean, Number and String. All four
// are comparable, so Go's == gives value equality across cases: two
// Values are equal only when they share a case and their payloads
// compare equal. Comparing across cases is false, never an error.
type Value interface {
	goloxValue()
}

type Nil struct{}

type Boolean bool

type Number float64

type String string

func (v Nil) goloxValue()     {}
func (v Boolean) goloxValue() {}
func (v Number) goloxValue()  {}
func (v String) goloxValue()  {}

// Nil and false are falsey, everything else is truthy. Zero and the
// empty string count as truthy.
func valueToBoolean(value Value) Boolean {
	if isNil(value) {
		return false
	}
	if b, isBool := value.(Boolean); isBool {
		return b
	}
	return true
}

// Numbers use the shortest round-trip decimal, so trailing zeros are
// trimmed: 7 prints as "7", not "7.000000".
func sprintValue(value Value) string {
	switch value := value.(type) {
	case Nil:
		return "nil"
	case Boolean:
		return strconv.FormatBool(bool(value))
	case Number:
		return strconv.FormatFloat(float64(value), 'g', -1, 64)
	case String:
		return string(value)
	default:
		return "<error>"
	}
}

func isNil(value Value) bool {
	_, is := value.(Nil)
	return is
}
