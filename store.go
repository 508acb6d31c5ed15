package holdings

import (
	"fmt"
	"iter"
	"slices"
	"sort"
	"sync"
)

// Store holds the activity ledger and its split adjustment log.
//
// Rows are kept sorted by (date, id) so ascending insertion order breaks date
// ties. Cost basis folds over rows in exactly that order, which makes every
// derived number deterministic for a given ledger.
//
// Mutations are staged on a copy of the state and committed in one swap, so a
// failed insert, edit or delete leaves the store exactly as it was.
type Store struct {
	mu   sync.Mutex
	acts []Activity        // sorted by (date, id)
	adjs []SplitAdjustment // in application order
	next int64             // next activity id
}

// NewStore returns an empty store.
func NewStore() *Store { return &Store{next: 1} }

// RestoreStore rebuilds a store from previously persisted activities and
// split adjustments. Every activity is validated.
func RestoreStore(acts []Activity, adjs []SplitAdjustment) (*Store, error) {
	s := &Store{
		acts: slices.Clone(acts),
		adjs: slices.Clone(adjs),
		next: 1,
	}
	for _, a := range s.acts {
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("activity %d: %w", a.ID, err)
		}
		if a.ID >= s.next {
			s.next = a.ID + 1
		}
	}
	sortActivities(s.acts)
	return s, nil
}

// sortActivities sorts rows by (date, id) ascending. The sort is stable but
// the key is total: ids are unique.
func sortActivities(acts []Activity) {
	sort.SliceStable(acts, func(i, j int) bool {
		if c := acts[i].Date.Compare(acts[j].Date); c != 0 {
			return c < 0
		}
		return acts[i].ID < acts[j].ID
	})
}

// Len returns the number of activities in the ledger.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.acts)
}

// Activities iterates over all activities in (date, id) order. The iteration
// works on a snapshot, concurrent mutations do not affect it.
func (s *Store) Activities() iter.Seq[Activity] {
	s.mu.Lock()
	snapshot := slices.Clone(s.acts)
	s.mu.Unlock()
	return slices.Values(snapshot)
}

// ActivitiesOf iterates over the activities of one symbol in (date, id) order.
func (s *Store) ActivitiesOf(symbol string) iter.Seq[Activity] {
	return func(yield func(Activity) bool) {
		for a := range s.Activities() {
			if a.Symbol == symbol && !yield(a) {
				return
			}
		}
	}
}

// Adjustments returns a copy of the split adjustment log in application order.
func (s *Store) Adjustments() []SplitAdjustment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.adjs)
}

// Get returns the activity with the given id.
func (s *Store) Get(id int64) (Activity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a := findActivity(s.acts, id); a != nil {
		return *a, true
	}
	return Activity{}, false
}

// Symbols returns the sorted list of symbols present in the ledger.
func (s *Store) Symbols() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool)
	var symbols []string
	for _, a := range s.acts {
		if !seen[a.Symbol] {
			seen[a.Symbol] = true
			symbols = append(symbols, a.Symbol)
		}
	}
	sort.Strings(symbols)
	return symbols
}

// Insert validates the activity, assigns it an id and adds it to the ledger.
//
// A split with a ratio rewrites all earlier share-moving rows of its symbol.
// A share-moving row dated before existing splits is itself rewritten by
// them. Both cases go through a full unwind and replay of the symbol's
// splits, so the ledger ends up identical to one where all rows had been
// recorded in date order.
func (s *Store) Insert(a Activity) (Activity, error) {
	if err := a.Validate(); err != nil {
		return Activity{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = s.next
	acts := append(slices.Clone(s.acts), a)
	sortActivities(acts)
	adjs := slices.Clone(s.adjs)

	if touchesSplits(a) {
		var err error
		adjs, err = rebuildSymbol(acts, adjs, a.Symbol)
		if err != nil {
			return Activity{}, err
		}
	}
	if err := checkConsistent(acts, a.Symbol); err != nil {
		return Activity{}, err
	}

	s.next++
	s.acts, s.adjs = acts, adjs
	if stored := findActivity(s.acts, a.ID); stored != nil {
		return *stored, nil
	}
	return a, nil
}

// Update replaces the activity with the given id, keeping the id.
//
// Editing a split is a reversal followed by a fresh application: the symbol's
// rows are restored from the adjustment log, the new values take the row's
// place, and all remaining splits are reapplied in date order.
//
// Callers edit what Get returned, which for a row rewritten by later splits
// holds the adjusted values. Share fields left at those adjusted values are
// treated as unchanged and keep the row's pre-split originals through the
// unwind; a differing quantity or price is taken as a new unadjusted value.
func (s *Store) Update(id int64, a Activity) (Activity, error) {
	if err := a.Validate(); err != nil {
		return Activity{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	old := findActivity(s.acts, id)
	if old == nil {
		return Activity{}, fmt.Errorf("update activity %d: %w", id, ErrNotFound)
	}
	a.ID = id

	acts := slices.Clone(s.acts)
	adjs := slices.Clone(s.adjs)

	symbols := []string{old.Symbol}
	if a.Symbol != old.Symbol {
		symbols = append(symbols, a.Symbol)
	}
	if touchesSplits(*old) || touchesSplits(a) {
		var err error
		for _, sym := range symbols {
			if adjs, err = unwindSplits(acts, adjs, sym); err != nil {
				return Activity{}, err
			}
		}
	}
	if old.Type.MovesShares() && a.Quantity.Equal(old.Quantity) && a.UnitPriceCents == old.UnitPriceCents {
		// old still holds the adjusted values; the unwound clone holds
		// the originals.
		unwound := findActivity(acts, id)
		a.Quantity = unwound.Quantity
		a.UnitPriceCents = unwound.UnitPriceCents
	}
	*findActivity(acts, id) = a
	sortActivities(acts)
	if touchesSplits(*old) || touchesSplits(a) {
		for _, sym := range symbols {
			adjs = replaySplits(acts, adjs, sym)
		}
	}
	for _, sym := range symbols {
		if err := checkConsistent(acts, sym); err != nil {
			return Activity{}, err
		}
	}

	s.acts, s.adjs = acts, adjs
	return *findActivity(s.acts, id), nil
}

// Delete removes the activity with the given id.
//
// Deleting a split restores every row it rewrote before reapplying the
// symbol's remaining splits. Deleting a share-moving row also drops the
// adjustment entries that targeted it.
func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := findActivity(s.acts, id)
	if old == nil {
		return fmt.Errorf("delete activity %d: %w", id, ErrNotFound)
	}
	symbol := old.Symbol

	acts := slices.Clone(s.acts)
	adjs := slices.Clone(s.adjs)

	if touchesSplits(*old) {
		var err error
		if adjs, err = unwindSplits(acts, adjs, symbol); err != nil {
			return err
		}
	}
	acts = slices.DeleteFunc(acts, func(a Activity) bool { return a.ID == id })
	if touchesSplits(*old) {
		adjs = replaySplits(acts, adjs, symbol)
	}
	if err := checkConsistent(acts, symbol); err != nil {
		return err
	}

	s.acts, s.adjs = acts, adjs
	return nil
}

// LastTradePrice returns the unit price of the symbol's most recent buy or
// sell on or before the given date. Used as a valuation fallback when no
// market price is known.
func (s *Store) LastTradePrice(symbol string, on Date) (cents int64, day Date, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.acts) - 1; i >= 0; i-- {
		a := s.acts[i]
		if a.Symbol != symbol || a.Date.After(on) {
			continue
		}
		if (a.Type == ActBuy || a.Type == ActSell) && a.UnitPriceCents > 0 {
			return a.UnitPriceCents, a.Date, true
		}
	}
	return 0, Date{}, false
}

// touchesSplits reports whether a mutation of this activity can change split
// adjustments of its symbol.
func touchesSplits(a Activity) bool {
	return a.Type == ActSplit || a.Type.MovesShares()
}

// checkConsistent replays the symbol's history and rejects the staged state
// when a disposal would exceed the shares held. The store never commits a
// ledger that cannot be folded into positions.
func checkConsistent(acts []Activity, symbol string) error {
	_, _, err := accumulate(acts, symbol)
	return err
}
