package quotation

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrencySymbol is used when a caller does not pick one.
const DefaultCurrencySymbol = "₦"

// Formatter renders amounts with a fixed symbol, two decimals and locale
// thousands grouping.
type Formatter struct {
	symbol  string
	printer *message.Printer
}

// NewFormatter builds a formatter. An unparseable locale falls back to English.
func NewFormatter(symbol, locale string) *Formatter {
	if symbol == "" {
		symbol = DefaultCurrencySymbol
	}
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.English
	}
	return &Formatter{
		symbol:  symbol,
		printer: message.NewPrinter(tag),
	}
}

// Symbol returns the currency symbol.
func (f *Formatter) Symbol() string {
	return f.symbol
}

// Format renders an amount, e.g. "₦1,150,000.00".
func (f *Formatter) Format(amount float64) string {
	cents := math.Round(amount * 100)
	return f.symbol + f.printer.Sprintf("%.2f", cents/100)
}
