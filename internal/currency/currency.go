// Package currency renders whole-baht amounts the way the bot displays
// them: Thai locale digit grouping, ฿ symbol, no decimal places.
package currency

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.Thai)

// Format renders an amount in whole baht. Negative amounts get a
// leading minus before the symbol, matching the sign convention of the
// rest of the bot's output.
func Format(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + printer.Sprintf("฿%v", number.Decimal(amount))
}
