package holdings

import "testing"

// Test helpers building activities with the few fields that matter per type.

func tBuy(day, symbol string, qty float64, priceCents int64) Activity {
	return Activity{Date: MustParse(day), Symbol: symbol, Type: ActBuy, Quantity: Q(qty), UnitPriceCents: priceCents, Currency: "USD"}
}

func tSell(day, symbol string, qty float64, priceCents int64) Activity {
	return Activity{Date: MustParse(day), Symbol: symbol, Type: ActSell, Quantity: Q(qty), UnitPriceCents: priceCents, Currency: "USD"}
}

func tSplit(day, symbol string, ratio float64) Activity {
	a := Activity{Date: MustParse(day), Symbol: symbol, Type: ActSplit}
	if ratio != 0 {
		a.Quantity = Q(ratio)
	}
	return a
}

func tDividend(day, symbol string, amountCents int64) Activity {
	return Activity{Date: MustParse(day), Symbol: symbol, Type: ActDividend, AmountCents: amountCents, Currency: "USD"}
}

func tFee(day, symbol string, amountCents int64) Activity {
	return Activity{Date: MustParse(day), Symbol: symbol, Type: ActFee, AmountCents: amountCents, Currency: "USD"}
}

// newTestStore inserts all activities into a fresh store, failing the test on
// any rejection.
func newTestStore(t *testing.T, acts ...Activity) *Store {
	t.Helper()
	s := NewStore()
	for _, a := range acts {
		if _, err := s.Insert(a); err != nil {
			t.Fatalf("Insert(%+v): %v", a, err)
		}
	}
	return s
}

// mustGet fetches an activity by id, failing the test when absent.
func mustGet(t *testing.T, s *Store, id int64) Activity {
	t.Helper()
	a, ok := s.Get(id)
	if !ok {
		t.Fatalf("activity %d not found", id)
	}
	return a
}
