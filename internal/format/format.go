// Package format renders prices, percentages and volumes for table and
// log output.
package format

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency renders v as a dollar amount with thousands separators,
// e.g. 1234.5 becomes "$1,234.50".
func Currency(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

// SignedCurrency renders v like Currency but keeps an explicit sign,
// e.g. "+$120.00" or "-$45.10".
func SignedCurrency(v float64) string {
	if v < 0 {
		return printer.Sprintf("-$%.2f", -v)
	}
	return printer.Sprintf("+$%.2f", v)
}

// Percent renders a 0-100 scaled value with the given number of
// decimals, e.g. Percent(66.666, 2) is "66.67%".
func Percent(v float64, decimals int) string {
	return fmt.Sprintf("%.*f%%", decimals, v)
}

// Volume renders share counts the way chart axes do: millions as "M",
// thousands as "K", small counts verbatim.
func Volume(v int64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(v)/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.1fK", float64(v)/1_000)
	default:
		return fmt.Sprintf("%d", v)
	}
}
