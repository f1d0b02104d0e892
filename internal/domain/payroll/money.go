package payroll

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var moneyPrinter = message.NewPrinter(language.English)

// FormatMoney renders minor units as a grouped major amount, e.g. "NGN 1,250.50".
func FormatMoney(amount int64, currency string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s %s%s.%02d", currency, sign, moneyPrinter.Sprintf("%d", amount/100), amount%100)
}

// MajorUnits converts minor units to a float for spreadsheet cells.
func MajorUnits(amount int64) float64 {
	return float64(amount) / 100
}
