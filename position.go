package holdings

// Position is the current state of one symbol, derived by folding its
// activities in (date, id) order with a weighted-average cost basis.
type Position struct {
	Symbol string
	// Quantity of shares currently held.
	Quantity Quantity
	// AvgCostCents is TotalCostCents spread over the held quantity,
	// rounded to the cent. Zero when nothing is held.
	AvgCostCents int64
	// TotalCostCents is the cost basis of the held shares, acquisition
	// fees included.
	TotalCostCents int64
	// RealizedGainCents is the lifetime net gain from disposals: proceeds
	// minus trade fees, taxes and the average-cost basis removed.
	RealizedGainCents int64
	DividendCents     int64
	FeeCents          int64
	TaxCents          int64
	Currency          string
	FirstActivity     Date
	LastActivity      Date
}

// Held reports whether any shares are currently held.
func (p Position) Held() bool { return p.Quantity.IsPositive() }

// step captures the running state right after one activity was folded in.
// Closed-cycle extraction and cash flow construction both consume it.
type step struct {
	act            Activity
	quantityAfter  Quantity
	costAfter      int64
	costAddedCents int64 // acquisitions: shares at trade price, plus the trade fee
	proceedsCents  int64 // disposals: gross shares at trade price
	basisRemoved   int64
	realizedCents  int64 // disposals: proceeds net of fee, tax and removed basis
}

// accumulate folds the symbol's activities into a Position and the step
// series that produced it. It rejects any disposal larger than the quantity
// held at that point with an OverSellError.
//
// Split rows are skipped: their effect is already materialized in the
// adjusted quantities and prices of the surrounding rows.
func accumulate(acts []Activity, symbol string) (Position, []step, error) {
	p := Position{Symbol: symbol}
	var steps []step

	for _, a := range acts {
		if a.Symbol != symbol || a.Type == ActSplit {
			continue
		}
		if p.FirstActivity.IsZero() {
			p.FirstActivity = a.Date
		}
		p.LastActivity = a.Date
		if p.Currency == "" {
			p.Currency = a.Currency
		}

		st := step{act: a}
		switch {
		case a.Type.Acquires():
			st.costAddedCents = a.Quantity.Cost(a.UnitPriceCents) + a.FeeCents
			p.Quantity = p.Quantity.Add(a.Quantity)
			p.TotalCostCents += st.costAddedCents
			p.FeeCents += a.FeeCents
			p.TaxCents += a.TaxCents

		case a.Type.Disposes():
			if a.Quantity.GreaterThan(p.Quantity) {
				return Position{}, nil, &OverSellError{
					Symbol: symbol, Date: a.Date, Held: p.Quantity, Sold: a.Quantity,
				}
			}
			if a.Quantity.Equal(p.Quantity) {
				st.basisRemoved = p.TotalCostCents
			} else {
				st.basisRemoved = prorateCents(p.TotalCostCents, a.Quantity, p.Quantity)
			}
			st.proceedsCents = a.Quantity.Cost(a.UnitPriceCents)
			st.realizedCents = st.proceedsCents - a.FeeCents - a.TaxCents - st.basisRemoved
			p.Quantity = p.Quantity.Sub(a.Quantity)
			p.TotalCostCents -= st.basisRemoved
			p.RealizedGainCents += st.realizedCents
			p.FeeCents += a.FeeCents
			p.TaxCents += a.TaxCents

		case a.Type == ActDividend, a.Type == ActInterest:
			p.DividendCents += a.AmountCents
			p.FeeCents += a.FeeCents
			p.TaxCents += a.TaxCents

		case a.Type == ActFee:
			p.FeeCents += a.AmountCents + a.FeeCents
			p.TaxCents += a.TaxCents

		case a.Type == ActTax:
			p.TaxCents += a.AmountCents + a.TaxCents
			p.FeeCents += a.FeeCents
		}

		st.quantityAfter = p.Quantity
		st.costAfter = p.TotalCostCents
		steps = append(steps, st)
	}

	if p.Quantity.IsPositive() {
		p.AvgCostCents = scaleCents(p.TotalCostCents, p.Quantity)
	}
	return p, steps, nil
}
