package benchmark

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatOps renders a throughput with thousands separators and no decimals.
func FormatOps(v float64) string {
	return printer.Sprintf("%.0f", v)
}

// FormatCount renders an integer count with thousands separators.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatSeconds renders an elapsed duration as seconds with two decimals.
func FormatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.2f", d.Seconds())
}

func formatMicros(us float64) string {
	return fmt.Sprintf("%.1fµs", us)
}

func rule(ch string) string {
	return strings.Repeat(ch, ruleWidth)
}
