package budget

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const NotAvailable = "N/A"

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CAD": "CA$",
	"AUD": "A$",
	"MXN": "MX$",
}

var printer = message.NewPrinter(language.English)

// FormatMoney renders a whole-unit amount with the currency symbol and
// thousands grouping, e.g. "$1,234". Unknown currencies are prefixed with
// their code.
func FormatMoney(amount float64, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	sym, ok := symbols[currency]
	if !ok {
		if currency == "" {
			sym = "$"
		} else {
			sym = currency + " "
		}
	}

	v := int64(math.Round(amount))
	if v < 0 {
		return printer.Sprintf("-%s%d", sym, -v)
	}
	return printer.Sprintf("%s%d", sym, v)
}
