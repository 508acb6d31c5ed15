package holdings

import (
	"errors"
	"testing"
)

func TestPosition_WeightedAverageCost(t *testing.T) {
	s := newTestStore(t,
		tBuy("2024-01-10", "AAPL", 10, 10000),
		tBuy("2024-02-10", "AAPL", 10, 12000),
	)
	p, err := NewAccountingSystem(s, nil).Position("AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if !p.Quantity.Equal(Q(20)) || p.TotalCostCents != 220000 || p.AvgCostCents != 11000 {
		t.Errorf("position = %s @ avg %d (total %d), want 20 @ 11000 (220000)",
			p.Quantity, p.AvgCostCents, p.TotalCostCents)
	}
}

func TestPosition_BuyFeeEntersCostBasis(t *testing.T) {
	s := NewStore()
	buy := tBuy("2024-01-10", "AAPL", 10, 10000)
	buy.FeeCents = 500
	if _, err := s.Insert(buy); err != nil {
		t.Fatal(err)
	}
	p, err := NewAccountingSystem(s, nil).Position("AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if p.TotalCostCents != 100500 || p.AvgCostCents != 10050 {
		t.Errorf("cost with fee = %d avg %d, want 100500 avg 10050", p.TotalCostCents, p.AvgCostCents)
	}
}

func TestPosition_SellRemovesProportionalBasis(t *testing.T) {
	s := NewStore()
	buy := tBuy("2024-01-10", "AAPL", 10, 10000)
	buy.FeeCents = 500 // cost basis 100500
	sell := tSell("2024-02-10", "AAPL", 4, 12000)
	sell.FeeCents = 200
	for _, a := range []Activity{buy, sell} {
		if _, err := s.Insert(a); err != nil {
			t.Fatal(err)
		}
	}

	p, err := NewAccountingSystem(s, nil).Position("AAPL")
	if err != nil {
		t.Fatal(err)
	}
	// Basis removed: 100500 * 4/10 = 40200. Realized: 48000 - 200 - 40200 = 7600.
	if !p.Quantity.Equal(Q(6)) || p.TotalCostCents != 60300 || p.AvgCostCents != 10050 {
		t.Errorf("remaining position = %s @ avg %d (total %d), want 6 @ 10050 (60300)",
			p.Quantity, p.AvgCostCents, p.TotalCostCents)
	}
	if p.RealizedGainCents != 7600 {
		t.Errorf("realized gain = %d, want 7600", p.RealizedGainCents)
	}
}

func TestPosition_FullDisposalClearsBasis(t *testing.T) {
	s := newTestStore(t,
		tBuy("2024-01-10", "AAPL", 3, 3333), // cost 9999, not divisible by 3
		tSell("2024-02-10", "AAPL", 3, 4000),
	)
	p, err := NewAccountingSystem(s, nil).Position("AAPL")
	if err != nil {
		t.Fatal(err)
	}
	// Closing the position removes the whole basis, rounding never leaves
	// residual cents behind.
	if !p.Quantity.IsZero() || p.TotalCostCents != 0 || p.AvgCostCents != 0 {
		t.Errorf("closed position = %s cost %d avg %d, want all zero", p.Quantity, p.TotalCostCents, p.AvgCostCents)
	}
	if p.RealizedGainCents != 12000-9999 {
		t.Errorf("realized gain = %d, want %d", p.RealizedGainCents, 12000-9999)
	}
}

func TestPosition_FractionalQuantities(t *testing.T) {
	s := newTestStore(t,
		tBuy("2024-01-10", "VWCE", 2.5, 10000),
		tBuy("2024-02-10", "VWCE", 0.25, 10400),
	)
	p, err := NewAccountingSystem(s, nil).Position("VWCE")
	if err != nil {
		t.Fatal(err)
	}
	// 2.5*10000 + 0.25*10400 = 27600 over 2.75 shares.
	if !p.Quantity.Equal(Q(2.75)) || p.TotalCostCents != 27600 {
		t.Errorf("position = %s total %d, want 2.75 total 27600", p.Quantity, p.TotalCostCents)
	}
	if want := int64(10036); p.AvgCostCents != want { // 27600/2.75 = 10036.36...
		t.Errorf("avg cost = %d, want %d", p.AvgCostCents, want)
	}
}

func TestPosition_CashEventsAccumulate(t *testing.T) {
	div := tDividend("2024-03-01", "AAPL", 1000)
	div.TaxCents = 150 // withholding
	s := newTestStore(t,
		tBuy("2024-01-10", "AAPL", 10, 10000),
		div,
		tFee("2024-04-01", "AAPL", 300),
	)
	p, err := NewAccountingSystem(s, nil).Position("AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if p.DividendCents != 1000 || p.TaxCents != 150 || p.FeeCents != 300 {
		t.Errorf("dividends=%d tax=%d fees=%d, want 1000 150 300", p.DividendCents, p.TaxCents, p.FeeCents)
	}
	if p.FirstActivity != MustParse("2024-01-10") || p.LastActivity != MustParse("2024-04-01") {
		t.Errorf("activity range = %s..%s, want 2024-01-10..2024-04-01", p.FirstActivity, p.LastActivity)
	}
}

func TestPosition_TransfersAndHoldingsMoveShares(t *testing.T) {
	addh := Activity{Date: MustParse("2024-01-10"), Symbol: "AAPL", Type: ActAddHolding, Quantity: Q(10), UnitPriceCents: 9000}
	tout := Activity{Date: MustParse("2024-03-10"), Symbol: "AAPL", Type: ActTransferOut, Quantity: Q(4), UnitPriceCents: 9500}
	s := newTestStore(t, addh, tout)
	p, err := NewAccountingSystem(s, nil).Position("AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if !p.Quantity.Equal(Q(6)) || p.TotalCostCents != 54000 {
		t.Errorf("position = %s total %d, want 6 total 54000", p.Quantity, p.TotalCostCents)
	}
}

func TestAccumulate_OverSell(t *testing.T) {
	acts := []Activity{
		{ID: 1, Date: MustParse("2024-01-10"), Symbol: "AAPL", Type: ActBuy, Quantity: Q(5), UnitPriceCents: 10000},
		{ID: 2, Date: MustParse("2024-02-10"), Symbol: "AAPL", Type: ActSell, Quantity: Q(6), UnitPriceCents: 11000},
	}
	_, _, err := accumulate(acts, "AAPL")
	var oversell *OverSellError
	if !errors.As(err, &oversell) {
		t.Fatalf("accumulate = %v, want OverSellError", err)
	}
	if oversell.Date != MustParse("2024-02-10") {
		t.Errorf("oversell date = %s, want 2024-02-10", oversell.Date)
	}
}

func TestPosition_UnknownSymbolIsEmpty(t *testing.T) {
	s := newTestStore(t, tBuy("2024-01-10", "AAPL", 10, 10000))
	p, err := NewAccountingSystem(s, nil).Position("MSFT")
	if err != nil {
		t.Fatal(err)
	}
	if p.Held() || p.TotalCostCents != 0 {
		t.Errorf("unknown symbol position = %+v, want empty", p)
	}
}
