package holdings

// ClosedPosition is one completed holding cycle of a symbol: the quantity
// went from zero to positive and back to zero. A symbol fully sold and later
// bought again produces one ClosedPosition per cycle.
type ClosedPosition struct {
	Symbol string
	// QuantityClosed is the total quantity disposed of over the cycle.
	QuantityClosed Quantity
	// TotalCostCents is the acquisition cost of the cycle, buy-side fees
	// included.
	TotalCostCents int64
	// TotalProceedsCents is the gross disposal value of the cycle.
	TotalProceedsCents int64
	// FeeCents covers sell-side trade fees and standalone fees charged
	// during the cycle. Buy-side fees sit in TotalCostCents.
	FeeCents      int64
	TaxCents      int64
	DividendCents int64
	// GainCents = proceeds + dividends - cost - fees - taxes.
	GainCents int64
	Currency  string
	Opened    Date
	Closed    Date
}

// closedCycles walks the step series of one symbol and extracts every
// completed holding cycle. Cash events landing while nothing is held belong
// to no cycle and are ignored here; they still count in the Position totals.
func closedCycles(symbol string, steps []step) []ClosedPosition {
	var closed []ClosedPosition
	var cur *ClosedPosition

	for _, st := range steps {
		a := st.act
		switch {
		case a.Type.Acquires():
			if cur == nil {
				cur = &ClosedPosition{Symbol: symbol, Opened: a.Date, Currency: a.Currency}
			}
			cur.TotalCostCents += st.costAddedCents
			cur.TaxCents += a.TaxCents

		case a.Type.Disposes():
			if cur == nil {
				continue
			}
			cur.QuantityClosed = cur.QuantityClosed.Add(a.Quantity)
			cur.TotalProceedsCents += st.proceedsCents
			cur.FeeCents += a.FeeCents
			cur.TaxCents += a.TaxCents
			if st.quantityAfter.IsZero() {
				cur.Closed = a.Date
				cur.GainCents = cur.TotalProceedsCents + cur.DividendCents -
					cur.TotalCostCents - cur.FeeCents - cur.TaxCents
				closed = append(closed, *cur)
				cur = nil
			}

		case a.Type == ActDividend, a.Type == ActInterest:
			if cur != nil {
				cur.DividendCents += a.AmountCents
				cur.FeeCents += a.FeeCents
				cur.TaxCents += a.TaxCents
			}

		case a.Type == ActFee:
			if cur != nil {
				cur.FeeCents += a.AmountCents + a.FeeCents
			}

		case a.Type == ActTax:
			if cur != nil {
				cur.TaxCents += a.AmountCents + a.TaxCents
			}
		}
		if cur != nil && cur.Currency == "" {
			cur.Currency = a.Currency
		}
	}
	return closed
}
