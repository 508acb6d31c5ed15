package renderer

import (
	"errors"

	"github.com/etnz/holdings"
)

// PositionsReport is the view model of the open positions report.
type PositionsReport struct {
	Date       string
	Rows       []PositionRow
	TotalValue string
	TotalGain  string
	// Approximated is set when at least one row was valued on a stale price.
	Approximated bool
}

// PositionRow is one open position, formatted for display.
type PositionRow struct {
	Symbol       string
	Quantity     string
	AvgCost      string
	Cost         string
	Value        string
	Gain         string
	Return       string
	Approximated bool
}

// NewPositionsReport values every open position of the accounting system on
// the given date. A position without any usable price keeps an empty value
// column instead of failing the whole report.
func NewPositionsReport(as *holdings.AccountingSystem, on holdings.Date) (*PositionsReport, error) {
	positions, err := as.Positions()
	if err != nil {
		return nil, err
	}

	report := &PositionsReport{Date: on.String()}
	var totalValue, totalGain int64
	for _, p := range positions {
		row := PositionRow{
			Symbol:   p.Symbol,
			Quantity: p.Quantity.String(),
			AvgCost:  holdings.FormatCents(p.AvgCostCents, p.Currency),
			Cost:     holdings.FormatCents(p.TotalCostCents, p.Currency),
			Return:   holdings.FormatReturn(as.AnnualizedReturn(p.Symbol, on)),
		}
		v, err := as.Valuation(p.Symbol, on)
		switch {
		case errors.Is(err, holdings.ErrNoPrice):
			row.Value, row.Gain = "n/a", "n/a"
		case err != nil:
			return nil, err
		default:
			row.Value = holdings.FormatCents(v.MarketValueCents, p.Currency)
			row.Gain = holdings.SignedCents(v.UnrealizedGainCents, p.Currency)
			row.Approximated = v.Approximated
			report.Approximated = report.Approximated || v.Approximated
			totalValue += v.MarketValueCents
			totalGain += v.UnrealizedGainCents
		}
		report.Rows = append(report.Rows, row)
	}
	report.TotalValue = holdings.FormatCents(totalValue, currencyOf(positions))
	report.TotalGain = holdings.SignedCents(totalGain, currencyOf(positions))
	return report, nil
}

// PositionsMarkdown renders the open positions report to markdown.
func PositionsMarkdown(r *PositionsReport) string {
	return renderTemplate("positions", "positions.md", nil, r)
}

func currencyOf(positions []holdings.Position) string {
	for _, p := range positions {
		if p.Currency != "" {
			return p.Currency
		}
	}
	return holdings.DefaultCurrency
}
