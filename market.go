package holdings

import (
	"slices"
	"sort"
)

// PriceSource provides market prices for valuation. The returned day is the
// day the price was observed, which may be earlier than the requested date.
type PriceSource interface {
	PriceAsOf(symbol string, on Date) (cents int64, day Date, ok bool)
}

// MarketData is an in-memory price database: one chronological price series
// per symbol. It is the primary PriceSource of an accounting system.
type MarketData struct {
	prices map[string]*priceHistory
}

// PricePoint is one observed price, used to persist market data.
type PricePoint struct {
	Symbol string `json:"symbol"`
	Date   Date   `json:"date"`
	Cents  int64  `json:"price"`
}

// NewMarketData returns an empty price database.
func NewMarketData() *MarketData {
	return &MarketData{prices: make(map[string]*priceHistory)}
}

// Append records a price for the symbol on the given day. An existing price
// on that day is overwritten.
func (m *MarketData) Append(symbol string, on Date, cents int64) {
	h := m.prices[symbol]
	if h == nil {
		h = &priceHistory{}
		m.prices[symbol] = h
	}
	h.append(on, cents)
}

// PriceAsOf returns the price on the given day, or the most recent price
// before it. It implements PriceSource.
func (m *MarketData) PriceAsOf(symbol string, on Date) (cents int64, day Date, ok bool) {
	h := m.prices[symbol]
	if h == nil {
		return 0, Date{}, false
	}
	return h.valueAsOf(on)
}

// Latest returns the most recent price known for the symbol.
func (m *MarketData) Latest(symbol string) (cents int64, day Date, ok bool) {
	h := m.prices[symbol]
	if h == nil || len(h.days) == 0 {
		return 0, Date{}, false
	}
	last := len(h.days) - 1
	return h.cents[last], h.days[last], true
}

// Symbols returns the sorted list of symbols with at least one price.
func (m *MarketData) Symbols() []string {
	symbols := make([]string, 0, len(m.prices))
	for s := range m.prices {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// Points dumps all prices as a flat list, sorted by symbol then date.
// The order is canonical so persisted files diff cleanly.
func (m *MarketData) Points() []PricePoint {
	var points []PricePoint
	for _, symbol := range m.Symbols() {
		h := m.prices[symbol]
		for i, day := range h.days {
			points = append(points, PricePoint{Symbol: symbol, Date: day, Cents: h.cents[i]})
		}
	}
	return points
}

var _ PriceSource = (*MarketData)(nil)

// priceHistory is a chronological series of prices with unique days.
type priceHistory struct {
	days  []Date
	cents []int64
}

func (h *priceHistory) append(on Date, value int64) {
	if i := slices.Index(h.days, on); i >= 0 {
		// Same day twice: the last recorded price wins.
		h.cents[i] = value
		return
	}
	h.days = append(h.days, on)
	h.cents = append(h.cents, value)
	sort.Sort(chronological{h})
}

// valueAsOf returns the value on a given day, or the most recent value
// before it, using binary search over the sorted days.
func (h *priceHistory) valueAsOf(day Date) (int64, Date, bool) {
	i, found := slices.BinarySearchFunc(h.days, day, func(d, t Date) int {
		return d.Compare(t)
	})
	if found {
		return h.cents[i], h.days[i], true
	}
	// Not found. `i` is the insertion index, so the last entry before the
	// target date is at i-1.
	if i == 0 {
		return 0, Date{}, false
	}
	return h.cents[i-1], h.days[i-1], true
}

// chronological is a private implementation to keep a history sorted by day.
type chronological struct{ *priceHistory }

func (s chronological) Len() int           { return len(s.days) }
func (s chronological) Less(i, j int) bool { return s.days[i].Before(s.days[j]) }
func (s chronological) Swap(i, j int) {
	s.days[i], s.days[j] = s.days[j], s.days[i]
	s.cents[i], s.cents[j] = s.cents[j], s.cents[i]
}
