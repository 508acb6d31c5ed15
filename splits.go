package holdings

import "slices"

// SplitAdjustment records the rewrite of one ledger row by one split, keeping
// the pre-split values so the rewrite can be undone exactly. The log is
// append-only and ordered by application; reversal walks it last-in first-out
// so compounded splits on the same row restore cleanly.
type SplitAdjustment struct {
	SplitID                int64    `json:"split_id"`
	TargetID               int64    `json:"target_id"`
	Ratio                  Quantity `json:"ratio"`
	OriginalQuantity       Quantity `json:"original_quantity"`
	OriginalUnitPriceCents int64    `json:"original_price"`
}

// applySplit rewrites every share-moving row of the split's symbol dated
// strictly before the split: quantity is multiplied by the ratio and unit
// price divided by it. Same-day rows are left alone, they already trade at
// the post-split price. One adjustment is logged per rewritten row.
func applySplit(acts []Activity, adjs []SplitAdjustment, split Activity) []SplitAdjustment {
	ratio, ok := split.Ratio()
	if !ok {
		return adjs
	}
	for i := range acts {
		a := &acts[i]
		if a.Symbol != split.Symbol || !a.Type.MovesShares() || !a.Date.Before(split.Date) {
			continue
		}
		adjs = append(adjs, SplitAdjustment{
			SplitID:                split.ID,
			TargetID:               a.ID,
			Ratio:                  ratio,
			OriginalQuantity:       a.Quantity,
			OriginalUnitPriceCents: a.UnitPriceCents,
		})
		a.Quantity = a.Quantity.Mul(ratio)
		a.UnitPriceCents = scaleCents(a.UnitPriceCents, ratio)
	}
	return adjs
}

// unwindSplits reverses every adjustment recorded for the symbol, restoring
// the affected rows to their pre-split values, and drops those entries from
// the log. Entries for other symbols are untouched.
func unwindSplits(acts []Activity, adjs []SplitAdjustment, symbol string) ([]SplitAdjustment, error) {
	kept := make([]SplitAdjustment, 0, len(adjs))
	for i := len(adjs) - 1; i >= 0; i-- {
		adj := adjs[i]
		target := findActivity(acts, adj.TargetID)
		if target == nil {
			return nil, &SplitReversalError{SplitID: adj.SplitID, TargetID: adj.TargetID, Reason: "adjusted activity is missing"}
		}
		if target.Symbol != symbol {
			kept = append(kept, adj)
			continue
		}
		if !adj.Ratio.IsPositive() {
			return nil, &SplitReversalError{SplitID: adj.SplitID, TargetID: adj.TargetID, Reason: "recorded ratio is not positive"}
		}
		target.Quantity = adj.OriginalQuantity
		target.UnitPriceCents = adj.OriginalUnitPriceCents
	}
	slices.Reverse(kept)
	return kept, nil
}

// replaySplits applies every ratio-carrying split of the symbol in ascending
// (date, id) order. Rows must already be in their pre-split state.
func replaySplits(acts []Activity, adjs []SplitAdjustment, symbol string) []SplitAdjustment {
	// acts is kept sorted by (date, id), so a simple scan applies splits in order.
	for _, a := range acts {
		if a.Symbol == symbol && a.Type == ActSplit {
			adjs = applySplit(acts, adjs, a)
		}
	}
	return adjs
}

// rebuildSymbol restores every row of the symbol to its unadjusted state and
// reapplies all of its splits from scratch. Any mutation that can change
// split math (inserting, editing or deleting a split or a share-moving row)
// funnels through this one path, so adjusted values never depend on the order
// in which splits were recorded.
func rebuildSymbol(acts []Activity, adjs []SplitAdjustment, symbol string) ([]SplitAdjustment, error) {
	adjs, err := unwindSplits(acts, adjs, symbol)
	if err != nil {
		return nil, err
	}
	return replaySplits(acts, adjs, symbol), nil
}

func findActivity(acts []Activity, id int64) *Activity {
	for i := range acts {
		if acts[i].ID == id {
			return &acts[i]
		}
	}
	return nil
}
