// Package money implements the fixed-point amount used for expense records.
//
// Amounts are held as an integer number of cents so that sums never pick
// up binary floating-point error. On the wire they are 2-decimal strings
// ("123.20"); decoding goes through shopspring/decimal so both JSON strings
// and numbers are accepted without rounding.
package money

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// Places is the number of digits after the decimal point.
	Places = 2
	// MaxDigits is the total number of significant digits an amount may have.
	MaxDigits = 6
	// MaxCents is the largest representable magnitude, 9999.99.
	MaxCents = 999999
)

var (
	ErrTooManyPlaces = errors.New("amount must have at most 2 decimal places")
	ErrOutOfRange    = errors.New("amount must be between -9999.99 and 9999.99")
)

var hundred = decimal.NewFromInt(100)

// Amount is a monetary value in cents.
type Amount int64

// Parse converts a decimal string such as "123.2" into an Amount.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return FromDecimal(d)
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// FromDecimal converts d into an Amount, enforcing the 6-digit, 2-place limits.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	if !d.Equal(d.Truncate(Places)) {
		return 0, ErrTooManyPlaces
	}
	cents := d.Mul(hundred)
	if cents.Abs().GreaterThan(decimal.NewFromInt(MaxCents)) {
		return 0, ErrOutOfRange
	}
	return Amount(cents.IntPart()), nil
}

// Cents returns the raw number of cents.
func (a Amount) Cents() int64 { return int64(a) }

// Decimal returns the amount as a decimal with two places.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -Places)
}

// String formats the amount with exactly two decimals.
func (a Amount) String() string {
	return a.Decimal().StringFixed(Places)
}

// MarshalJSON encodes the amount as a quoted 2-decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts a JSON string or number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return errors.New("amount must not be null")
	}

	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	} else {
		raw = string(data)
	}

	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
