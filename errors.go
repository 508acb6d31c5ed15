package holdings

import (
	"errors"
	"fmt"
)

// ErrNoConvergence is returned by AnnualizedReturn when the rate search
// cannot find a root. Callers usually degrade to "N/A" instead of failing.
var ErrNoConvergence = errors.New("annualized return did not converge")

// ErrNoPrice is returned when no market price is known for a symbol on or
// before a valuation date.
var ErrNoPrice = errors.New("no price available")

// ErrNotFound is returned when an activity id does not exist in the store.
var ErrNotFound = errors.New("activity not found")

// ValidationError reports an activity that fails its per-type field requirements.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "invalid activity: " + e.Reason }

// OverSellError reports a disposal of more shares than the position holds on
// that date. The mutation is rejected, never clamped.
type OverSellError struct {
	Symbol string
	Date   Date
	Held   Quantity
	Sold   Quantity
}

func (e *OverSellError) Error() string {
	return fmt.Sprintf("cannot dispose of %s shares of %s on %s: only %s held",
		e.Sold, e.Symbol, e.Date, e.Held)
}

// SplitReversalError reports a split adjustment that cannot be undone,
// typically a missing target row or an unusable recorded ratio. The whole
// operation that triggered the reversal is aborted.
type SplitReversalError struct {
	SplitID  int64
	TargetID int64
	Reason   string
}

func (e *SplitReversalError) Error() string {
	return fmt.Sprintf("cannot reverse split %d on activity %d: %s", e.SplitID, e.TargetID, e.Reason)
}
