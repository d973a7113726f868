// Package symbol maps A-share stock codes to TradingView venue-qualified symbols.
package symbol

import "strings"

// Exchange is a listing venue prefix understood by TradingView.
type Exchange string

const (
	SSE  Exchange = "SSE"
	SZSE Exchange = "SZSE"
)

// Board prefixes, checked in order. First match wins.
var boards = []struct {
	prefixes []string
	exchange Exchange
}{
	{[]string{"600", "601", "603", "605", "688"}, SSE},
	{[]string{"000", "001", "002", "003", "300", "301"}, SZSE},
}

// ExchangeOf returns the venue for a stock code. Codes with an unknown
// prefix (including empty or non-numeric input) default to SSE.
func ExchangeOf(code string) Exchange {
	for _, b := range boards {
		for _, p := range b.prefixes {
			if strings.HasPrefix(code, p) {
				return b.exchange
			}
		}
	}
	return SSE
}

// Resolve returns the venue-qualified symbol, e.g. "600519" -> "SSE:600519".
func Resolve(code string) string {
	return string(ExchangeOf(code)) + ":" + code
}
