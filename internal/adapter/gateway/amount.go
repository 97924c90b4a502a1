package gateway

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// NormalizeAmount parses a gateway-reported major-unit amount string into
// integer minor units. Gateways disagree on formatting: the same value
// arrives as "100", "100.0", "100.00", "1,350.00" or "1350,00". All of
// those must normalize to the same number before any comparison, so a
// formatting difference can never masquerade as an amount mismatch.
func NormalizeAmount(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	if strings.Contains(s, ",") {
		switch {
		case strings.Contains(s, "."):
			// Comma is a thousands separator: "1,350.00".
			s = strings.ReplaceAll(s, ",", "")
		default:
			parts := strings.Split(s, ",")
			last := parts[len(parts)-1]
			if len(parts) == 2 && len(last) <= 2 {
				// Comma is a decimal separator: "1350,00".
				s = parts[0] + "." + last
			} else {
				s = strings.Join(parts, "")
			}
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative amount %q", raw)
	}

	return d.Round(2).Mul(decimal.NewFromInt(100)).IntPart(), nil
}

// FormatAmount renders minor units as the canonical major-unit string
// used inside signature messages: no trailing zeros, no separators, so
// 10000 -> "100" and 135050 -> "1350.5".
func FormatAmount(minor int64) string {
	return decimal.NewFromInt(minor).Div(decimal.NewFromInt(100)).String()
}
