package holdings

import "github.com/shopspring/decimal"

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// Quantity represents a number of shares. Fractional quantities are allowed.
type Quantity struct {
	value decimal.Decimal
}

// Q constructs a Quantity from any common numeric type.
func Q[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Quantity {
	return Quantity{value: newDecimal(value)}
}

func (t Quantity) Equal(p Quantity) bool       { return t.value.Equal(p.value) }
func (t Quantity) LessThan(p Quantity) bool    { return t.value.LessThan(p.value) }
func (t Quantity) GreaterThan(p Quantity) bool { return t.value.GreaterThan(p.value) }
func (t Quantity) Add(p Quantity) Quantity     { return Quantity{value: t.value.Add(p.value)} }
func (t Quantity) Sub(p Quantity) Quantity     { return Quantity{value: t.value.Sub(p.value)} }
func (t Quantity) Mul(p Quantity) Quantity     { return Quantity{value: t.value.Mul(p.value)} }
func (t Quantity) Div(p Quantity) Quantity     { return Quantity{value: t.value.Div(p.value)} }
func (t Quantity) IsNegative() bool            { return t.value.IsNegative() }
func (t Quantity) IsPositive() bool            { return t.value.IsPositive() }
func (t Quantity) IsZero() bool                { return t.value.IsZero() }
func (q Quantity) String() string              { return q.value.String() }

// InexactFloat64 returns the nearest float64 value. Display only.
func (t Quantity) InexactFloat64() float64 { return t.value.InexactFloat64() }

// Cost returns the quantity priced at the given unit price in cents,
// rounded half away from zero to the nearest cent.
func (t Quantity) Cost(unitPriceCents int64) int64 {
	return t.value.Mul(decimal.NewFromInt(unitPriceCents)).Round(0).IntPart()
}

// scaleCents divides cents by ratio and rounds half away from zero.
// Used when a split rewrites a unit price.
func scaleCents(cents int64, ratio Quantity) int64 {
	return decimal.NewFromInt(cents).Div(ratio.value).Round(0).IntPart()
}

// prorateCents returns cents*part/whole rounded half away from zero.
// Used to remove a proportional slice of a cost basis.
func prorateCents(cents int64, part, whole Quantity) int64 {
	return decimal.NewFromInt(cents).Mul(part.value).Div(whole.value).Round(0).IntPart()
}

// MarshalJSON implements the json.Marshaler interface.
func (t Quantity) MarshalJSON() ([]byte, error) {
	return t.value.MarshalJSON()
}

func (t *Quantity) UnmarshalJSON(decimalBytes []byte) error {
	return t.value.UnmarshalJSON(decimalBytes)
}
