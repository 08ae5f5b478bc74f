package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxDecimals is the maximum number of fractional digits an amount may carry.
const MaxDecimals = 8

// Amount errors.
var (
	ErrPrecision     = errors.New("amount precision should be at most 8 decimals")
	ErrInvalidAmount = errors.New("invalid amount")
)

// Amount is an exact decimal value with at most MaxDecimals fractional digits.
// The zero value is a valid amount of zero.
type Amount struct {
	d decimal.Decimal
}

// NewAmount wraps a decimal, rejecting values that need more than
// MaxDecimals fractional digits. Trailing zeros do not count.
func NewAmount(d decimal.Decimal) (Amount, error) {
	if !d.Equal(d.Truncate(MaxDecimals)) {
		return Amount{}, fmt.Errorf("%w: %s", ErrPrecision, d.String())
	}
	return Amount{d: d}, nil
}

// AmountFromString parses a plain decimal string. Exponent notation such as
// "1E-7" is accepted since servers report amounts that way.
func AmountFromString(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Amount{}, fmt.Errorf("%w %q", ErrInvalidAmount, s)
	}
	return NewAmount(d)
}

// AmountFromInt returns a whole-unit amount.
func AmountFromInt(n int64) Amount {
	return Amount{d: decimal.NewFromInt(n)}
}

// MustAmount is like AmountFromString but panics on error.
// Intended for constants and tests.
func MustAmount(s string) Amount {
	a, err := AmountFromString(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Decimal returns the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal {
	return a.d
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{d: a.d.Add(b.d)}
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	return Amount{d: a.d.Sub(b.d)}
}

// Cmp compares a and b and returns -1, 0 or +1.
func (a Amount) Cmp(b Amount) int {
	return a.d.Cmp(b.d)
}

// Equal reports whether a and b represent the same value.
func (a Amount) Equal(b Amount) bool {
	return a.d.Equal(b.d)
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool {
	return a.d.IsZero()
}

// IsPositive reports whether the amount is greater than zero.
func (a Amount) IsPositive() bool {
	return a.d.IsPositive()
}

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool {
	return a.d.IsNegative()
}

// String returns the canonical encoding: eight fixed decimals with trailing
// zeros and a dangling point removed ("1", "1.099", "0.0000001").
func (a Amount) String() string {
	s := a.d.StringFixed(MaxDecimals)
	if strings.IndexByte(s, '.') >= 0 {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}

// FormatAmount renders an optional amount, using "?" when it is unknown.
func FormatAmount(a *Amount) string {
	if a == nil {
		return "?"
	}
	return a.String()
}

// SumAmounts adds up a list of amounts.
func SumAmounts(amounts ...Amount) Amount {
	var total Amount
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// MarshalJSON encodes the amount as a canonical string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts either a JSON string or a JSON number. A JSON null
// leaves the amount untouched.
func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = s
	}
	parsed, err := AmountFromString(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
