package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a toll amount such as "5.00", "$1,234.50" or "-2.25".
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	clean = strings.ReplaceAll(clean, "$", "")
	clean = strings.ReplaceAll(clean, ",", "")
	if clean == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	dec, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount string '%s': %w", s, err)
	}
	return dec, nil
}

// FormatUSD renders an amount as "$5.00" (or "$-2.25" for refunds).
func FormatUSD(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// Sum adds every record amount.
func Sum(records []TransactionRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return total
}
