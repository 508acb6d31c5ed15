package holdings

import "fmt"

// ActivityType identifies the kind of event recorded in the activity ledger.
type ActivityType string

const (
	ActBuy           ActivityType = "buy"
	ActSell          ActivityType = "sell"
	ActDividend      ActivityType = "dividend"
	ActInterest      ActivityType = "interest"
	ActFee           ActivityType = "fee"
	ActTax           ActivityType = "tax"
	ActSplit         ActivityType = "split"
	ActAddHolding    ActivityType = "add-holding"
	ActRemoveHolding ActivityType = "remove-holding"
	ActTransferIn    ActivityType = "transfer-in"
	ActTransferOut   ActivityType = "transfer-out"
)

// ActivityTypes lists all valid activity types in canonical order.
var ActivityTypes = []ActivityType{
	ActBuy, ActSell, ActDividend, ActInterest, ActFee, ActTax,
	ActSplit, ActAddHolding, ActRemoveHolding, ActTransferIn, ActTransferOut,
}

// ParseActivityType parses a string into a known ActivityType.
func ParseActivityType(s string) (ActivityType, error) {
	for _, t := range ActivityTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown activity type %q", s)
}

// MovesShares reports whether the activity changes the share count of a position.
func (t ActivityType) MovesShares() bool {
	switch t {
	case ActBuy, ActSell, ActAddHolding, ActRemoveHolding, ActTransferIn, ActTransferOut:
		return true
	}
	return false
}

// Acquires reports whether the activity adds shares to a position.
func (t ActivityType) Acquires() bool {
	switch t {
	case ActBuy, ActAddHolding, ActTransferIn:
		return true
	}
	return false
}

// Disposes reports whether the activity removes shares from a position.
func (t ActivityType) Disposes() bool {
	switch t {
	case ActSell, ActRemoveHolding, ActTransferOut:
		return true
	}
	return false
}

// IsCash reports whether the activity is a pure cash event with no share movement.
func (t ActivityType) IsCash() bool {
	switch t {
	case ActDividend, ActInterest, ActFee, ActTax:
		return true
	}
	return false
}

// Activity is a single row of the activity ledger. The ledger is the sole
// source of truth: positions and gains are always recomputed from it.
//
// Field usage depends on the type:
//   - share movers carry Quantity and UnitPriceCents,
//   - cash events carry AmountCents,
//   - splits carry the ratio in Quantity (2 for a 2-for-1 split, 0.5 for a
//     1-for-2 reverse split). A split without a ratio adjusts nothing.
type Activity struct {
	ID             int64        `json:"id"`
	Date           Date         `json:"date"`
	Symbol         string       `json:"symbol"`
	Type           ActivityType `json:"type"`
	Quantity       Quantity     `json:"quantity"`
	UnitPriceCents int64        `json:"price,omitempty"`
	AmountCents    int64        `json:"amount,omitempty"`
	Currency       string       `json:"currency,omitempty"`
	FeeCents       int64        `json:"fee,omitempty"`
	TaxCents       int64        `json:"tax,omitempty"`
	Account        string       `json:"account,omitempty"`
	Notes          string       `json:"notes,omitempty"`
}

// Ratio returns the split ratio and true when a carries one.
func (a Activity) Ratio() (Quantity, bool) {
	if a.Type != ActSplit || !a.Quantity.IsPositive() {
		return Quantity{}, false
	}
	return a.Quantity, true
}

// Validate checks the per-type field requirements of the activity.
func (a Activity) Validate() error {
	if a.Date.IsZero() {
		return &ValidationError{Reason: "date is required"}
	}
	if a.Symbol == "" {
		return &ValidationError{Reason: "symbol is required"}
	}
	if _, err := ParseActivityType(string(a.Type)); err != nil {
		return &ValidationError{Reason: err.Error()}
	}
	if err := ValidateCurrency(a.Currency); err != nil {
		return &ValidationError{Reason: err.Error()}
	}
	if a.FeeCents < 0 || a.TaxCents < 0 {
		return &ValidationError{Reason: "fee and tax must not be negative"}
	}

	switch {
	case a.Type.MovesShares():
		if !a.Quantity.IsPositive() {
			return &ValidationError{Reason: fmt.Sprintf("%s requires a positive quantity", a.Type)}
		}
		if a.UnitPriceCents < 0 {
			return &ValidationError{Reason: fmt.Sprintf("%s requires a non-negative unit price", a.Type)}
		}
		if (a.Type == ActBuy || a.Type == ActSell) && a.UnitPriceCents == 0 {
			return &ValidationError{Reason: fmt.Sprintf("%s requires a unit price", a.Type)}
		}
		if a.AmountCents != 0 {
			return &ValidationError{Reason: fmt.Sprintf("%s must not carry a cash amount", a.Type)}
		}
	case a.Type.IsCash():
		if a.AmountCents <= 0 {
			return &ValidationError{Reason: fmt.Sprintf("%s requires a positive amount", a.Type)}
		}
		if !a.Quantity.IsZero() || a.UnitPriceCents != 0 {
			return &ValidationError{Reason: fmt.Sprintf("%s must not carry a quantity or unit price", a.Type)}
		}
	case a.Type == ActSplit:
		if a.Quantity.IsNegative() {
			return &ValidationError{Reason: "split ratio must not be negative"}
		}
		if a.UnitPriceCents != 0 || a.AmountCents != 0 {
			return &ValidationError{Reason: "split must not carry a unit price or cash amount"}
		}
	}
	return nil
}
