package outfmt

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyScale is the number of minor-unit digits of a currency.
type CurrencyScale int32

const DefaultCurrencyScale CurrencyScale = 2

// Currencies without a minor unit.
var zeroDecimalCurrencies = map[string]struct{}{
	"JPY": {},
	"KRW": {},
}

// ScaleFor returns the minor-unit scale of an ISO 4217 currency code.
func ScaleFor(currency string) CurrencyScale {
	if _, ok := zeroDecimalCurrencies[strings.ToUpper(currency)]; ok {
		return 0
	}
	return DefaultCurrencyScale
}

// FormatMoney renders an amount in minor units ("1050", "USD") as
// "10.50 USD". Amounts that do not parse are shown verbatim.
func FormatMoney(amount, currency string) string {
	if amount == "" {
		return ""
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return strings.TrimSpace(amount + " " + currency)
	}
	scale := int32(ScaleFor(currency))
	return strings.TrimSpace(d.Shift(-scale).StringFixed(scale) + " " + strings.ToUpper(currency))
}

// ToMinorUnits converts a major-unit amount ("10.50") to the minor-unit
// string the API expects ("1050").
func ToMinorUnits(amount, currency string) (string, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if d.IsNegative() {
		return "", fmt.Errorf("amount must not be negative, got %s", amount)
	}
	scale := int32(ScaleFor(currency))
	minor := d.Shift(scale)
	if !minor.Equal(minor.Truncate(0)) {
		return "", fmt.Errorf("amount %s has more than %d decimal places for %s", amount, scale, strings.ToUpper(currency))
	}
	return minor.StringFixed(0), nil
}
