package usecase

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usdPrinter = message.NewPrinter(language.English)

// FormatUSD renders a price for display. Sub-cent prices keep six fraction digits so
// small-cap tokens do not collapse to $0.00.
func FormatUSD(v float64) string {
	if v != 0 && math.Abs(v) < 0.01 {
		return usdPrinter.Sprintf("$%.6f", v)
	}
	return usdPrinter.Sprintf("$%.2f", v)
}
