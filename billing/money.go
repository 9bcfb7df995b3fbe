package billing

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor units (cents). It is stored as an integer column
// and rendered as a decimal number in JSON.
type Money int64

const minorUnitPlaces = 2

// ErrOutOfRange is returned for amounts and quantities that do not fit in an
// int64.
var ErrOutOfRange = errors.New("amount is out of range")

var maxInt64 = decimal.NewFromInt(math.MaxInt64)

// FromDecimal rounds d to cents.
func FromDecimal(d decimal.Decimal) (Money, error) {
	cents := d.Round(minorUnitPlaces).Shift(minorUnitPlaces)
	if cents.Abs().GreaterThan(maxInt64) {
		return 0, ErrOutOfRange
	}
	return Money(cents.IntPart()), nil
}

// ParseMoney parses a plain decimal string such as "12.50".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	m, err := FromDecimal(d)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", err, s)
	}
	return m, nil
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -minorUnitPlaces)
}

func (m Money) String() string {
	return m.Decimal().StringFixed(minorUnitPlaces)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	parsed, err := ParseMoney(strings.Trim(raw, `"`))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// CoerceMoney converts a loosely typed JSON value into Money. Anything that is
// not a finite non-negative number becomes zero; only a number too large to
// store is an error.
func CoerceMoney(v any) (Money, error) {
	d, ok := toDecimal(v)
	if !ok || d.IsNegative() {
		return 0, nil
	}
	return FromDecimal(d)
}

// CoerceQuantity converts a loosely typed JSON value into a whole quantity,
// truncating fractions. Non-numeric and negative values become zero.
func CoerceQuantity(v any) (int64, error) {
	d, ok := toDecimal(v)
	if !ok || d.IsNegative() {
		return 0, nil
	}
	whole := d.Truncate(0)
	if whole.GreaterThan(maxInt64) {
		return 0, ErrOutOfRange
	}
	return whole.IntPart(), nil
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case Money:
		return x.Decimal(), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(x), true
	case float32:
		return toDecimal(float64(x))
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case json.Number:
		return toDecimal(x.String())
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}
