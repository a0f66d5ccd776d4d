package model

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value. It encodes as a plain JSON number and decodes
// leniently: numbers and numeric strings are parsed, anything else (null,
// booleans, garbage) reads as zero so aggregation over stored records never
// fails on a single bad value.
type Amount struct {
	decimal.Decimal
}

// NewAmount returns an Amount for a float value.
func NewAmount(f float64) Amount {
	return Amount{decimal.NewFromFloat(f)}
}

// AmountFromDecimal wraps a decimal.
func AmountFromDecimal(d decimal.Decimal) Amount {
	return Amount{d}
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{a.Decimal.Add(b.Decimal)}
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	return Amount{a.Decimal.Sub(b.Decimal)}
}

// Negative reports whether the amount is below zero.
func (a Amount) Negative() bool {
	return a.Decimal.IsNegative()
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	a.Decimal = decimal.Zero
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		data = []byte(s)
	}
	if d, err := decimal.NewFromString(string(data)); err == nil {
		a.Decimal = d
	}
	return nil
}
