package common

import (
	"fmt"
	"strings"
)

// FormatEquity formats a portfolio value to four decimals with comma separators
// on the whole part, e.g. 12345.6 -> "12,345.6000".
func FormatEquity(v float64) string {
	s := fmt.Sprintf("%.4f", v)

	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	if len(whole) > 3 {
		var parts []string
		for len(whole) > 3 {
			parts = append([]string{whole[len(whole)-3:]}, parts...)
			whole = whole[:len(whole)-3]
		}
		parts = append([]string{whole}, parts...)
		whole = strings.Join(parts, ",")
	}

	if negative {
		return "-" + whole + "." + frac
	}
	return whole + "." + frac
}

// FormatPct formats a percentage to two decimals, e.g. 10 -> "10.00%".
func FormatPct(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
