package holdings

import "fmt"

// Valuation is a position marked to market on a given date.
type Valuation struct {
	Symbol     string
	Date       Date
	PriceCents int64
	// PriceDate is the day the price was observed. When it is older than
	// Date the valuation is flagged as approximated.
	PriceDate        Date
	Approximated     bool
	MarketValueCents int64
	CostBasisCents   int64
	// UnrealizedGainCents is market value minus cost basis.
	UnrealizedGainCents int64
	Currency            string
}

// Value marks the position to market using the given price source.
// It returns ErrNoPrice when the source knows no price on or before the date.
func Value(p Position, src PriceSource, on Date) (Valuation, error) {
	cents, day, ok := src.PriceAsOf(p.Symbol, on)
	if !ok {
		return Valuation{}, fmt.Errorf("%s on %s: %w", p.Symbol, on, ErrNoPrice)
	}
	v := Valuation{
		Symbol:           p.Symbol,
		Date:             on,
		PriceCents:       cents,
		PriceDate:        day,
		Approximated:     day != on,
		MarketValueCents: p.Quantity.Cost(cents),
		CostBasisCents:   p.TotalCostCents,
		Currency:         p.Currency,
	}
	v.UnrealizedGainCents = v.MarketValueCents - v.CostBasisCents
	return v, nil
}
