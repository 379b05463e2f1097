package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Prices display in the es-AR convention: dot thousands separator,
// comma decimals.
var pricePrinter = message.NewPrinter(language.MustParse("es-AR"))

// FormatPrice renders a price as "$ 1.234.567,50". Whole amounts drop
// the decimals.
func FormatPrice(p float64) string {
	return pricePrinter.Sprintf("$ %v", number.Decimal(p,
		number.MinFractionDigits(0),
		number.MaxFractionDigits(2)))
}
