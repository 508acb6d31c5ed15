package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/holdings"
)

// ActivitiesMarkdown renders a chronological activity listing.
func ActivitiesMarkdown(acts []holdings.Activity) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Activities\n\n")
	if len(acts) == 0 {
		fmt.Fprintln(&b, "No activities.")
		return b.String()
	}

	fmt.Fprintln(&b, "| ID | Date | Type | Symbol | Quantity | Price | Amount | Notes |")
	fmt.Fprintln(&b, "|---:|:---|:---|:---|---:|---:|---:|:---|")
	for _, a := range acts {
		qty, price, amount := "", "", ""
		if !a.Quantity.IsZero() {
			qty = a.Quantity.String()
		}
		if a.UnitPriceCents != 0 {
			price = holdings.FormatCents(a.UnitPriceCents, a.Currency)
		}
		if a.AmountCents != 0 {
			amount = holdings.FormatCents(a.AmountCents, a.Currency)
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s | %s |\n",
			a.ID, a.Date, a.Type, a.Symbol, qty, price, amount, a.Notes)
	}
	return b.String()
}
