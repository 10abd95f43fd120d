package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseNumber parses an amount cell in the given style.
// European examples: "1.234,56" -> 1234.56, "-588,74" -> -588.74.
func parseNumber(s string, style numberStyle) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(s, " ", "")

	if style == numberEuropean {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, err
	}

	return d.Round(2), nil
}
