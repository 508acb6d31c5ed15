package holdings

import (
	"errors"
	"testing"
)

// checkRow asserts the adjusted quantity and unit price of one ledger row.
func checkRow(t *testing.T, s *Store, id int64, wantQty float64, wantPrice int64) {
	t.Helper()
	a := mustGet(t, s, id)
	if !a.Quantity.Equal(Q(wantQty)) || a.UnitPriceCents != wantPrice {
		t.Errorf("activity %d = %s @ %d, want %v @ %d", id, a.Quantity, a.UnitPriceCents, wantQty, wantPrice)
	}
}

func TestSplit_AdjustsEarlierTrades(t *testing.T) {
	s := newTestStore(t,
		tBuy("2024-01-10", "AAPL", 10, 10000), // 10 shares at $100
		tSplit("2024-06-01", "AAPL", 2),
	)
	checkRow(t, s, 1, 20, 5000)

	p, err := NewAccountingSystem(s, nil).Position("AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if !p.Quantity.Equal(Q(20)) || p.AvgCostCents != 5000 || p.TotalCostCents != 100000 {
		t.Errorf("position after 2:1 split = %s @ avg %d (total %d), want 20 @ 5000 (100000)",
			p.Quantity, p.AvgCostCents, p.TotalCostCents)
	}

	adjs := s.Adjustments()
	if len(adjs) != 1 {
		t.Fatalf("adjustment log length = %d, want 1", len(adjs))
	}
	adj := adjs[0]
	if adj.SplitID != 2 || adj.TargetID != 1 ||
		!adj.OriginalQuantity.Equal(Q(10)) || adj.OriginalUnitPriceCents != 10000 || !adj.Ratio.Equal(Q(2)) {
		t.Errorf("adjustment = %+v, want split 2 on target 1 storing 10 @ 10000 ratio 2", adj)
	}
}

func TestSplit_SameDayTradeNotAdjusted(t *testing.T) {
	s := newTestStore(t,
		tBuy("2024-06-01", "AAPL", 10, 5000), // trades at the post-split price already
		tSplit("2024-06-01", "AAPL", 2),
	)
	checkRow(t, s, 1, 10, 5000)
	if got := len(s.Adjustments()); got != 0 {
		t.Errorf("adjustment log length = %d, want 0", got)
	}
}

func TestSplit_LaterTradeNotAdjusted(t *testing.T) {
	s := newTestStore(t,
		tSplit("2024-06-01", "AAPL", 2),
		tBuy("2024-07-01", "AAPL", 10, 5000),
	)
	checkRow(t, s, 2, 10, 5000)
}

func TestSplit_OtherSymbolNotAdjusted(t *testing.T) {
	s := newTestStore(t,
		tBuy("2024-01-10", "AAPL", 10, 10000),
		tBuy("2024-01-10", "MSFT", 10, 30000),
		tSplit("2024-06-01", "AAPL", 2),
	)
	checkRow(t, s, 2, 10, 30000)
}

func TestSplit_ReverseSplit(t *testing.T) {
	s := newTestStore(t,
		tBuy("2024-01-10", "AAPL", 10, 1000),
		tSplit("2024-06-01", "AAPL", 0.5), // 1-for-2
	)
	checkRow(t, s, 1, 5, 2000)
}

func TestSplit_PriceRoundsHalfAwayFromZero(t *testing.T) {
	s := newTestStore(t,
		tBuy("2024-01-10", "AAPL", 3, 1001),
		tSplit("2024-06-01", "AAPL", 2), // 1001/2 = 500.5, rounds to 501
	)
	checkRow(t, s, 1, 6, 501)

	// Reversal restores the exact original values, not a re-division.
	if err := s.Delete(2); err != nil {
		t.Fatal(err)
	}
	checkRow(t, s, 1, 3, 1001)
}

func TestSplit_WithoutRatioIsNoOp(t *testing.T) {
	s := newTestStore(t,
		tBuy("2024-01-10", "AAPL", 10, 10000),
		tSplit("2024-06-01", "AAPL", 0),
	)
	checkRow(t, s, 1, 10, 10000)
	if got := len(s.Adjustments()); got != 0 {
		t.Errorf("adjustment log length = %d, want 0", got)
	}
}

func TestSplit_DeleteRestoresOriginals(t *testing.T) {
	s := newTestStore(t,
		tBuy("2024-01-10", "AAPL", 10, 10000),
		tSell("2024-02-10", "AAPL", 4, 12000),
		tSplit("2024-06-01", "AAPL", 2),
	)
	checkRow(t, s, 1, 20, 5000)
	checkRow(t, s, 2, 8, 6000)

	if err := s.Delete(3); err != nil {
		t.Fatal(err)
	}
	checkRow(t, s, 1, 10, 10000)
	checkRow(t, s, 2, 4, 12000)
	if got := len(s.Adjustments()); got != 0 {
		t.Errorf("adjustment log length = %d after delete, want 0", got)
	}
}

func TestSplit_UpdateRatioReappliesFromOriginals(t *testing.T) {
	s := newTestStore(t,
		tBuy("2024-01-10", "AAPL", 100, 300),
		tSplit("2024-06-01", "AAPL", 2),
	)
	checkRow(t, s, 1, 200, 150)

	if _, err := s.Update(2, tSplit("2024-06-01", "AAPL", 4)); err != nil {
		t.Fatal(err)
	}
	checkRow(t, s, 1, 400, 75)
}

func TestSplit_TwoSplitsCompound(t *testing.T) {
	s := newTestStore(t,
		tBuy("2024-01-10", "AAPL", 10, 600),
		tSplit("2024-06-01", "AAPL", 2),
		tSplit("2024-09-01", "AAPL", 3),
	)
	checkRow(t, s, 1, 60, 100)

	adjs := s.Adjustments()
	if len(adjs) != 2 {
		t.Fatalf("adjustment log length = %d, want 2", len(adjs))
	}
	// The second entry stores the state after the first split, so reversal
	// must walk the log backwards.
	if !adjs[1].OriginalQuantity.Equal(Q(20)) || adjs[1].OriginalUnitPriceCents != 300 {
		t.Errorf("second adjustment originals = %s @ %d, want 20 @ 300",
			adjs[1].OriginalQuantity, adjs[1].OriginalUnitPriceCents)
	}
}

func TestSplit_DeleteFirstOfTwoSplits(t *testing.T) {
	s := newTestStore(t,
		tBuy("2024-01-10", "AAPL", 10, 600),
		tSplit("2024-06-01", "AAPL", 2),
		tSplit("2024-09-01", "AAPL", 3),
	)
	if err := s.Delete(2); err != nil {
		t.Fatal(err)
	}
	// Only the 3:1 split remains.
	checkRow(t, s, 1, 30, 200)
}

func TestSplit_DeleteSecondOfTwoSplits(t *testing.T) {
	s := newTestStore(t,
		tBuy("2024-01-10", "AAPL", 10, 600),
		tSplit("2024-06-01", "AAPL", 2),
		tSplit("2024-09-01", "AAPL", 3),
	)
	if err := s.Delete(3); err != nil {
		t.Fatal(err)
	}
	checkRow(t, s, 1, 20, 300)
}

func TestSplit_BackDatedTradeGetsAdjustedOnInsert(t *testing.T) {
	s := newTestStore(t,
		tSplit("2024-06-01", "AAPL", 2),
	)
	a, err := s.Insert(tBuy("2024-01-10", "AAPL", 10, 10000))
	if err != nil {
		t.Fatal(err)
	}
	checkRow(t, s, a.ID, 20, 5000)
}

func TestSplit_BuyBetweenTwoSplits(t *testing.T) {
	s := newTestStore(t,
		tBuy("2024-01-10", "AAPL", 10, 1200),
		tSplit("2024-03-01", "AAPL", 2),
		tSplit("2024-09-01", "AAPL", 2),
	)
	// Back-dated to between the two splits: only the second one applies.
	b, err := s.Insert(tBuy("2024-06-01", "AAPL", 10, 620))
	if err != nil {
		t.Fatal(err)
	}
	checkRow(t, s, 1, 40, 300)
	checkRow(t, s, b.ID, 20, 310)
}

func TestSplit_BackDatedSplitAppliesInDateOrder(t *testing.T) {
	s := newTestStore(t,
		tBuy("2024-01-10", "AAPL", 10, 600),
		tSplit("2024-09-01", "AAPL", 3),
	)
	// A split recorded later but dated earlier lands between the buy and
	// the existing split: the ledger must end up as if both splits had
	// been applied in date order.
	if _, err := s.Insert(tSplit("2024-06-01", "AAPL", 2)); err != nil {
		t.Fatal(err)
	}
	checkRow(t, s, 1, 60, 100)
}

func TestSplit_MoveTradeAcrossSplitBoundary(t *testing.T) {
	s := newTestStore(t,
		tSplit("2024-03-01", "AAPL", 2),
		tBuy("2024-06-01", "AAPL", 10, 1000),
	)
	checkRow(t, s, 2, 10, 1000)

	// Re-dating the buy to before the split pulls it under the adjustment.
	if _, err := s.Update(2, tBuy("2024-01-10", "AAPL", 10, 1000)); err != nil {
		t.Fatal(err)
	}
	checkRow(t, s, 2, 20, 500)

	// And moving it back out reverses it.
	if _, err := s.Update(2, tBuy("2024-06-01", "AAPL", 10, 1000)); err != nil {
		t.Fatal(err)
	}
	checkRow(t, s, 2, 10, 1000)
	if got := len(s.Adjustments()); got != 0 {
		t.Errorf("adjustment log length = %d, want 0", got)
	}
}

func TestSplit_EditOtherFieldsKeepsAdjustedValues(t *testing.T) {
	s := newTestStore(t,
		tBuy("2024-01-10", "AAPL", 10, 10000),
		tSplit("2024-06-01", "AAPL", 2),
	)
	checkRow(t, s, 1, 20, 5000)

	// Edit the row as Get returns it, changing only the notes. The
	// adjusted share values must not be re-adjusted on the way back in.
	a := mustGet(t, s, 1)
	a.Notes = "initial position"
	updated, err := s.Update(1, a)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Notes != "initial position" {
		t.Errorf("Notes = %q, want %q", updated.Notes, "initial position")
	}
	checkRow(t, s, 1, 20, 5000)

	adjs := s.Adjustments()
	if len(adjs) != 1 || !adjs[0].OriginalQuantity.Equal(Q(10)) || adjs[0].OriginalUnitPriceCents != 10000 {
		t.Fatalf("adjustment log = %+v, want one entry storing 10 @ 10000", adjs)
	}

	// Deleting the split still restores the true originals.
	if err := s.Delete(2); err != nil {
		t.Fatal(err)
	}
	checkRow(t, s, 1, 10, 10000)
}

func TestSplit_EditChangedShareValuesTakenAsUnadjusted(t *testing.T) {
	s := newTestStore(t,
		tBuy("2024-01-10", "AAPL", 10, 10000),
		tSplit("2024-06-01", "AAPL", 2),
	)

	// An explicit new quantity and price are pre-split values and get the
	// split applied like any other earlier trade.
	if _, err := s.Update(1, tBuy("2024-01-10", "AAPL", 12, 9000)); err != nil {
		t.Fatal(err)
	}
	checkRow(t, s, 1, 24, 4500)

	if err := s.Delete(2); err != nil {
		t.Fatal(err)
	}
	checkRow(t, s, 1, 12, 9000)
}

func TestSplit_DeleteAdjustedTradeDropsItsLogEntries(t *testing.T) {
	s := newTestStore(t,
		tBuy("2024-01-10", "AAPL", 10, 600),
		tBuy("2024-02-10", "AAPL", 10, 660),
		tSplit("2024-06-01", "AAPL", 2),
	)
	if got := len(s.Adjustments()); got != 2 {
		t.Fatalf("adjustment log length = %d, want 2", got)
	}
	if err := s.Delete(1); err != nil {
		t.Fatal(err)
	}
	adjs := s.Adjustments()
	if len(adjs) != 1 || adjs[0].TargetID != 2 {
		t.Errorf("adjustment log after delete = %+v, want a single entry for target 2", adjs)
	}
	checkRow(t, s, 2, 20, 330)
}

func TestUnwindSplits_MissingTargetFails(t *testing.T) {
	acts := []Activity{
		{ID: 2, Date: MustParse("2024-06-01"), Symbol: "AAPL", Type: ActSplit, Quantity: Q(2)},
	}
	adjs := []SplitAdjustment{
		{SplitID: 2, TargetID: 1, Ratio: Q(2), OriginalQuantity: Q(10), OriginalUnitPriceCents: 600},
	}
	_, err := unwindSplits(acts, adjs, "AAPL")
	var rerr *SplitReversalError
	if !errors.As(err, &rerr) {
		t.Fatalf("unwindSplits = %v, want SplitReversalError", err)
	}
	if rerr.SplitID != 2 || rerr.TargetID != 1 {
		t.Errorf("SplitReversalError = %+v, want split 2 target 1", rerr)
	}
}

func TestUnwindSplits_BadRatioFails(t *testing.T) {
	acts := []Activity{
		{ID: 1, Date: MustParse("2024-01-10"), Symbol: "AAPL", Type: ActBuy, Quantity: Q(20), UnitPriceCents: 300},
	}
	adjs := []SplitAdjustment{
		{SplitID: 2, TargetID: 1, OriginalQuantity: Q(10), OriginalUnitPriceCents: 600}, // zero ratio
	}
	var rerr *SplitReversalError
	if _, err := unwindSplits(acts, adjs, "AAPL"); !errors.As(err, &rerr) {
		t.Fatalf("unwindSplits = %v, want SplitReversalError", err)
	}
}
