package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FormatPrice renders an amount with two decimals followed by the currency code.
// Example: 11.5, "JOD" -> "11.50 JOD"
func FormatPrice(amount float64, currency string) string {
	return FormatDecimal(decimal.NewFromFloat(amount), currency)
}

// FormatDecimal is FormatPrice for values already held as decimals.
func FormatDecimal(amount decimal.Decimal, currency string) string {
	if currency == "" {
		return amount.StringFixed(2)
	}
	return fmt.Sprintf("%s %s", amount.StringFixed(2), currency)
}
