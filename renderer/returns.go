package renderer

import (
	"fmt"
	"strings"
)

// ReturnRow is one line of the annualized returns report, already formatted.
type ReturnRow struct {
	Symbol string
	Return string
}

// ReturnsMarkdown renders the annualized money-weighted returns per symbol
// with the portfolio-wide figure last.
func ReturnsMarkdown(date string, rows []ReturnRow, portfolio string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Annualized Returns on %s\n\n", date)
	fmt.Fprintln(&b, "| Symbol | Annualized |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s |\n", r.Symbol, r.Return)
	}
	fmt.Fprintf(&b, "| **Portfolio** | **%s** |\n", portfolio)
	return b.String()
}
