package projection

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatDollars renders a whole-dollar label with digit grouping, e.g. "$12,345".
func FormatDollars(amount float64) string {
	return printer.Sprintf("$%d", int64(math.Round(amount)))
}
