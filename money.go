package holdings

import (
	"fmt"

	"github.com/Rhymond/go-money"
)

// DefaultCurrency applies to activities recorded without an explicit currency.
const DefaultCurrency = "USD"

// ValidateCurrency checks a currency code against the ISO-4217 table.
func ValidateCurrency(code string) error {
	if code == "" {
		return nil
	}
	if money.GetCurrency(code) == nil {
		return fmt.Errorf("unknown currency code %q", code)
	}
	return nil
}

// FormatCents renders an amount of minor units in its currency,
// e.g. FormatCents(150000, "USD") == "$1,500.00".
func FormatCents(cents int64, code string) string {
	if code == "" {
		code = DefaultCurrency
	}
	return money.New(cents, code).Display()
}

// SignedCents is like FormatCents with an explicit sign, and "-" for zero.
func SignedCents(cents int64, code string) string {
	if cents == 0 {
		return "-"
	}
	if cents > 0 {
		return "+" + FormatCents(cents, code)
	}
	return FormatCents(cents, code)
}
