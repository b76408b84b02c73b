package ui

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatCount renders n with digit grouping (1,008).
func FormatCount(n int64) string {
	return printer.Sprintf("%d", n)
}
