package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/holdings"
)

// ClosedMarkdown renders the completed holding cycles as a markdown table.
func ClosedMarkdown(closed []holdings.ClosedPosition) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Closed Positions\n\n")
	if len(closed) == 0 {
		fmt.Fprintln(&b, "No closed positions.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Symbol | Opened | Closed | Quantity | Cost | Proceeds | Dividends | Gain |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|---:|---:|")
	var total int64
	cur := closed[0].Currency
	for _, c := range closed {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			c.Symbol,
			c.Opened, c.Closed,
			c.QuantityClosed,
			holdings.FormatCents(c.TotalCostCents, c.Currency),
			holdings.FormatCents(c.TotalProceedsCents, c.Currency),
			holdings.FormatCents(c.DividendCents, c.Currency),
			holdings.SignedCents(c.GainCents, c.Currency),
		)
		total += c.GainCents
	}
	fmt.Fprintf(&b, "| **Total** | | | | | | | **%s** |\n", holdings.SignedCents(total, cur))
	return b.String()
}
