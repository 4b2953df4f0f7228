// Package currency provides the supported-currency reference table and
// locale-aware amount formatting for the presentation boundary.
package currency

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Info describes one supported currency.
type Info struct {
	Code   string
	Name   string
	Symbol string
}

// Supported is the reference list of currencies the apps offer.
var Supported = []Info{
	{"USD", "US Dollar", "$"},
	{"EUR", "Euro", "€"},
	{"GBP", "British Pound", "£"},
	{"JPY", "Japanese Yen", "¥"},
	{"CHF", "Swiss Franc", "CHF"},
	{"CAD", "Canadian Dollar", "CA$"},
	{"AUD", "Australian Dollar", "A$"},
	{"NZD", "New Zealand Dollar", "NZ$"},
	{"CNY", "Chinese Yuan", "CN¥"},
	{"HKD", "Hong Kong Dollar", "HK$"},
	{"SGD", "Singapore Dollar", "S$"},
	{"KRW", "South Korean Won", "₩"},
	{"INR", "Indian Rupee", "₹"},
	{"BRL", "Brazilian Real", "R$"},
	{"MXN", "Mexican Peso", "MX$"},
	{"SEK", "Swedish Krona", "kr"},
	{"NOK", "Norwegian Krone", "kr"},
	{"DKK", "Danish Krone", "kr"},
	{"PLN", "Polish Zloty", "zł"},
	{"CZK", "Czech Koruna", "Kč"},
	{"TRY", "Turkish Lira", "₺"},
	{"ZAR", "South African Rand", "R"},
	{"AED", "UAE Dirham", "د.إ"},
	{"SAR", "Saudi Riyal", "﷼"},
	{"THB", "Thai Baht", "฿"},
}

var byCode = func() map[string]Info {
	m := make(map[string]Info, len(Supported))
	for _, c := range Supported {
		m[c.Code] = c
	}
	return m
}()

// Lookup returns the info for a 3-letter ISO code.
func Lookup(code string) (Info, bool) {
	c, ok := byCode[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// Symbol returns the display symbol for a code, falling back to the code
// itself for currencies outside the reference list.
func Symbol(code string) string {
	if c, ok := Lookup(code); ok {
		return c.Symbol
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// Formatter renders cent amounts as localized currency strings.
type Formatter struct {
	printer  *message.Printer
	fraction int
}

// NewFormatter builds a formatter for a BCP 47 locale tag. Unknown tags
// fall back to English digit grouping. fractionDigits below zero means the
// default of 2.
func NewFormatter(locale string, fractionDigits int) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	if fractionDigits < 0 {
		fractionDigits = 2
	}
	return &Formatter{
		printer:  message.NewPrinter(tag),
		fraction: fractionDigits,
	}
}

// Format renders an amount of cents in the given currency, e.g. "$1,234.50"
// for USD under an English locale.
func (f *Formatter) Format(code string, cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	units := float64(cents) / 100.0
	formatted := f.printer.Sprint(number.Decimal(units,
		number.MinFractionDigits(f.fraction),
		number.MaxFractionDigits(f.fraction),
	))
	out := Symbol(code) + formatted
	if neg {
		return "-" + out
	}
	return out
}
