package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Supported currency codes. INR is the canonical base currency: every
// stored amount is denominated in paise regardless of the display
// currency requested by the client.
const (
	CurrencyINR = "INR"
	CurrencyUSD = "USD"
)

// minorUnitsPerMajor is the 10^2 scale shared by all supported currencies.
var minorUnitsPerMajor = decimal.NewFromInt(100)

// Money is an amount of currency in integer minor units (paise, cents).
// All arithmetic happens on the integer amount; decimal conversion is a
// display boundary concern.
type Money struct {
	Amount   int64
	Currency string
}

// NewMoney builds Money from an amount of minor units.
func NewMoney(amount int64, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.NewFromInt(m.Amount).Div(minorUnitsPerMajor)
}

// String formats the amount in major units, e.g. "1350.00 INR".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Decimal().StringFixed(2), m.Currency)
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.Amount == 0
}

// Add returns the sum of two amounts. Currencies must match.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

// Mul returns the amount multiplied by an integer quantity.
func (m Money) Mul(qty int64) Money {
	return Money{Amount: m.Amount * qty, Currency: m.Currency}
}

// MoneyFromDecimal converts an amount in major units to Money, rounding
// half-up to 2 decimal places before scaling to minor units.
func MoneyFromDecimal(d decimal.Decimal, currency string) Money {
	rounded := d.Round(2)
	return Money{Amount: rounded.Mul(minorUnitsPerMajor).IntPart(), Currency: currency}
}
