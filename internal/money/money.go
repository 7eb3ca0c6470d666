// Package money holds the price type used by cart lines, quotes and orders.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency is the unit every catalog price is expressed in.
var Currency = currency.MustParseISO("PKR")

// Symbol prefixes every displayed price.
const Symbol = "Rs."

var printer = message.NewPrinter(language.MustParse("en-PK"))

// Amount is a decimal price. It encodes to JSON as a bare number so it stays
// wire-compatible with the remote API.
type Amount struct {
	decimal.Decimal
}

// Zero is the zero amount.
var Zero = Amount{}

// New returns an amount of whole currency units.
func New(units int64) Amount {
	return Amount{decimal.NewFromInt(units)}
}

// Parse parses a decimal string such as "1499.50".
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, err
	}
	return Amount{d}, nil
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{a.Decimal.Add(b.Decimal)}
}

// Times returns a multiplied by an integer quantity.
func (a Amount) Times(quantity int) Amount {
	return Amount{a.Decimal.Mul(decimal.NewFromInt(int64(quantity)))}
}

// Equal reports whether a and b are the same amount.
func (a Amount) Equal(b Amount) bool {
	return a.Decimal.Equal(b.Decimal)
}

// AtLeast reports whether a >= b.
func (a Amount) AtLeast(b Amount) bool {
	return a.Decimal.GreaterThanOrEqual(b.Decimal)
}

// MarshalJSON encodes the amount without quotes.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// UnmarshalJSON accepts both bare and quoted numbers.
func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.Decimal.UnmarshalJSON(data)
}

// Format renders an amount the way the storefront displays prices,
// e.g. "Rs. 50,000". Fractions are rounded to the currency's standard scale.
func Format(a Amount) string {
	scale, _ := currency.Standard.Rounding(Currency)
	d := a.Decimal.Round(int32(scale))
	if d.IsInteger() {
		return Symbol + " " + printer.Sprint(number.Decimal(d.IntPart()))
	}
	return Symbol + " " + printer.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(scale)))
}
