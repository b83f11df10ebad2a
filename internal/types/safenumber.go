package types

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxAmount is the largest magnitude a NUMERIC(20,2) column can hold. Values at or
// beyond it are treated the same as a non-finite number.
var MaxAmount = decimal.New(1, 18)

const (
	// maxNumberLength bounds the text of a numeric input
	maxNumberLength = 64
	// maxInputScale is the finest fraction accepted on input. Smaller exponents
	// would make every later rescale cost time proportional to the exponent.
	maxInputScale = 20
)

// SafeNumber is a lenient numeric input. Numbers, numeric strings, empty strings,
// null and arbitrary garbage all decode without error; the value records whether
// the key was supplied and whether it held a usable finite number.
type SafeNumber struct {
	value   decimal.Decimal
	present bool
	valid   bool
}

// NewSafeNumber returns a present and valid number
func NewSafeNumber(d decimal.Decimal) SafeNumber {
	return SafeNumber{value: d, present: true, valid: IsFiniteAmount(d)}
}

// NewSafeNumberFromFloat is a convenience for tests and internal callers
func NewSafeNumberFromFloat(f float64) SafeNumber {
	return NewSafeNumber(decimal.NewFromFloat(f))
}

// ParseSafeNumber applies the same coercion rules as JSON decoding to a raw string
func ParseSafeNumber(s string) SafeNumber {
	n := SafeNumber{present: true}
	n.value, n.valid = parseDecimal(s)
	return n
}

// Present reports whether the value was supplied. JSON null counts as absent.
func (n SafeNumber) Present() bool { return n.present }

// Valid reports whether the value is a usable finite number
func (n SafeNumber) Valid() bool { return n.present && n.valid }

// Decimal returns the parsed value and whether it is valid
func (n SafeNumber) Decimal() (decimal.Decimal, bool) {
	if !n.Valid() {
		return decimal.Zero, false
	}
	return n.value, true
}

// Or returns the value, or def when the value is missing or unusable
func (n SafeNumber) Or(def decimal.Decimal) decimal.Decimal {
	if v, ok := n.Decimal(); ok {
		return v
	}
	return def
}

// Ptr returns nil when the value is not usable
func (n SafeNumber) Ptr() *decimal.Decimal {
	if v, ok := n.Decimal(); ok {
		return &v
	}
	return nil
}

func (n *SafeNumber) UnmarshalJSON(data []byte) error {
	*n = SafeNumber{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	n.present = true
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		n.value, n.valid = parseDecimal(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		n.value, n.valid = parseDecimal(string(data))
	default:
		// booleans, objects and arrays are garbage, not errors
	}
	return nil
}

func (n SafeNumber) MarshalJSON() ([]byte, error) {
	if !n.Valid() {
		return []byte("null"), nil
	}
	return []byte(n.value.String()), nil
}

func parseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxNumberLength {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if d.Exponent() < -maxInputScale || !IsFiniteAmount(d) {
		return decimal.Zero, false
	}
	return d, true
}

// IsFiniteAmount reports whether d fits the persisted amount range. The digit
// count bounds the magnitude first so a huge exponent is never expanded.
func IsFiniteAmount(d decimal.Decimal) bool {
	if d.IsZero() {
		return true
	}
	magnitude := int64(d.NumDigits()) + int64(d.Exponent())
	switch {
	case magnitude <= 18:
		return true
	case magnitude > 19:
		return false
	}
	return d.Abs().LessThan(MaxAmount)
}

// Round2 rounds to two decimal places, half away from zero
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
