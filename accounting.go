package holdings

import (
	"errors"
	"fmt"
)

// AccountingSystem ties the activity ledger to a market price database and
// answers the derived questions: positions, closed cycles, valuations and
// annualized returns. Nothing derived is cached, every answer is recomputed
// from the ledger.
type AccountingSystem struct {
	Ledger *Store
	Market *MarketData
}

// NewAccountingSystem creates an accounting system over the given ledger.
// A nil market is replaced by an empty one.
func NewAccountingSystem(ledger *Store, market *MarketData) *AccountingSystem {
	if market == nil {
		market = NewMarketData()
	}
	return &AccountingSystem{Ledger: ledger, Market: market}
}

// Position folds the symbol's full history into its current position.
func (as *AccountingSystem) Position(symbol string) (Position, error) {
	p, _, err := accumulate(as.activities(symbol, Date{}), symbol)
	return p, err
}

// Positions returns the currently held positions, sorted by symbol.
func (as *AccountingSystem) Positions() ([]Position, error) {
	var positions []Position
	for _, symbol := range as.Ledger.Symbols() {
		p, err := as.Position(symbol)
		if err != nil {
			return nil, err
		}
		if p.Held() {
			positions = append(positions, p)
		}
	}
	return positions, nil
}

// ClosedPositionsOf returns the completed holding cycles of one symbol in
// chronological order.
func (as *AccountingSystem) ClosedPositionsOf(symbol string) ([]ClosedPosition, error) {
	_, steps, err := accumulate(as.activities(symbol, Date{}), symbol)
	if err != nil {
		return nil, err
	}
	return closedCycles(symbol, steps), nil
}

// ClosedPositions returns all completed holding cycles, sorted by symbol then
// closing date.
func (as *AccountingSystem) ClosedPositions() ([]ClosedPosition, error) {
	var closed []ClosedPosition
	for _, symbol := range as.Ledger.Symbols() {
		cycles, err := as.ClosedPositionsOf(symbol)
		if err != nil {
			return nil, err
		}
		closed = append(closed, cycles...)
	}
	return closed, nil
}

// Valuation marks the symbol's position to market on the given date. When the
// market database has no price, the symbol's last trade price on or before
// that date serves as an approximation.
func (as *AccountingSystem) Valuation(symbol string, on Date) (Valuation, error) {
	p, err := as.Position(symbol)
	if err != nil {
		return Valuation{}, err
	}
	return Value(p, as.priceSource(), on)
}

// AnnualizedReturn computes the symbol's money-weighted annual return (XIRR)
// over its activity up to the given date. A still-open position contributes
// its market value on that date as a final inflow; when no price is known the
// flows usually cannot converge and ErrNoConvergence is returned.
func (as *AccountingSystem) AnnualizedReturn(symbol string, on Date) (float64, error) {
	flows, err := as.cashFlows(symbol, on)
	if err != nil {
		return 0, err
	}
	return AnnualizedReturn(flows)
}

// PortfolioReturn computes the money-weighted annual return of the whole
// portfolio: the flows of every symbol merged, open positions valued on the
// given date.
func (as *AccountingSystem) PortfolioReturn(on Date) (float64, error) {
	var flows []CashFlow
	for _, symbol := range as.Ledger.Symbols() {
		f, err := as.cashFlows(symbol, on)
		if err != nil {
			return 0, err
		}
		flows = append(flows, f...)
	}
	return AnnualizedReturn(flows)
}

// cashFlows derives the dated money movements of one symbol up to the given
// date, terminal valuation included for a position still open.
func (as *AccountingSystem) cashFlows(symbol string, on Date) ([]CashFlow, error) {
	p, steps, err := accumulate(as.activities(symbol, on), symbol)
	if err != nil {
		return nil, err
	}
	var flows []CashFlow
	for _, st := range steps {
		a := st.act
		var amount int64
		switch {
		case a.Type.Acquires():
			amount = -(st.costAddedCents + a.TaxCents)
		case a.Type.Disposes():
			amount = st.proceedsCents - a.FeeCents - a.TaxCents
		case a.Type == ActDividend, a.Type == ActInterest:
			amount = a.AmountCents - a.FeeCents - a.TaxCents
		case a.Type == ActFee, a.Type == ActTax:
			amount = -(a.AmountCents + a.FeeCents + a.TaxCents)
		}
		if amount != 0 {
			flows = append(flows, CashFlow{Date: a.Date, AmountCents: amount})
		}
	}
	if p.Held() {
		v, err := Value(p, as.priceSource(), on)
		if err == nil {
			flows = append(flows, CashFlow{Date: on, AmountCents: v.MarketValueCents})
		} else if !errors.Is(err, ErrNoPrice) {
			return nil, err
		}
	}
	return flows, nil
}

// activities collects the symbol's rows, optionally cut off at a date.
func (as *AccountingSystem) activities(symbol string, until Date) []Activity {
	var acts []Activity
	for a := range as.Ledger.ActivitiesOf(symbol) {
		if !until.IsZero() && a.Date.After(until) {
			continue
		}
		acts = append(acts, a)
	}
	return acts
}

func (as *AccountingSystem) priceSource() PriceSource {
	return &fallbackSource{as: as}
}

// fallbackSource answers from the market database first and falls back to the
// ledger's last trade price.
type fallbackSource struct{ as *AccountingSystem }

func (f *fallbackSource) PriceAsOf(symbol string, on Date) (int64, Date, bool) {
	if cents, day, ok := f.as.Market.PriceAsOf(symbol, on); ok {
		return cents, day, true
	}
	return f.as.Ledger.LastTradePrice(symbol, on)
}

// FormatReturn renders an annualized return as a percentage, or "N/A" when
// the computation could not converge.
func FormatReturn(rate float64, err error) string {
	if err != nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", rate*100)
}
