// Package utils provides common formatting and rounding helpers for solarsim.
package utils

import (
	"fmt"
	"math"
	"strings"
)

// Round2 rounds to two decimal places, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatUSD formats a dollar amount with thousands separators ($12,345.67).
func FormatUSD(amount float64) string {
	negative := amount < 0
	amount = math.Abs(amount)

	s := fmt.Sprintf("%.2f", amount)
	intPart, decPart, _ := strings.Cut(s, ".")

	formatted := groupThousands(intPart) + "." + decPart
	if negative {
		return "-$" + formatted
	}
	return "$" + formatted
}

// FormatKWh formats an energy amount, switching to MWh at 1,000 kWh.
// e.g., 512.3 → "512.30 kWh", 4380.5 → "4.38 MWh"
func FormatKWh(kwh float64) string {
	if math.Abs(kwh) >= 1000 {
		return fmt.Sprintf("%s MWh", formatWithDecimals(kwh/1000))
	}
	return fmt.Sprintf("%.2f kWh", kwh)
}

// FormatPct formats a fraction as a percentage. e.g., 0.8208 → "82.08%"
func FormatPct(fraction float64) string {
	return fmt.Sprintf("%.2f%%", fraction*100)
}

// FormatYears formats a payback period. Only the sentinel itself is
// reported as "never"; long but real paybacks print their value.
func FormatYears(years, sentinel float64) string {
	if years == sentinel {
		return "never"
	}
	return fmt.Sprintf("%.1f years", years)
}

// groupThousands inserts commas every three digits from the right.
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// formatWithDecimals formats a number with up to 2 decimal places,
// removing trailing zeros.
func formatWithDecimals(n float64) string {
	s := fmt.Sprintf("%.2f", n)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
