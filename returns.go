package holdings

import "math"

// CashFlow is one dated money movement, negative for money invested and
// positive for money received.
type CashFlow struct {
	Date        Date
	AmountCents int64
}

const (
	xirrGuess   = 0.10
	xirrTol     = 1e-7
	xirrMaxIter = 100
	bisectLow   = -0.99
	bisectHigh  = 10.0
)

// AnnualizedReturn computes the internal rate of return of irregularly dated
// cash flows, annualized on a 365-day year (XIRR). It tries Newton-Raphson
// first and falls back to bisection when the iteration diverges.
//
// It returns ErrNoConvergence when the flows admit no rate: fewer than two
// flows, all flows of the same sign, or no root found in the search.
func AnnualizedReturn(flows []CashFlow) (float64, error) {
	if len(flows) < 2 {
		return 0, ErrNoConvergence
	}
	var hasPositive, hasNegative bool
	for _, f := range flows {
		if f.AmountCents > 0 {
			hasPositive = true
		}
		if f.AmountCents < 0 {
			hasNegative = true
		}
	}
	if !hasPositive || !hasNegative {
		return 0, ErrNoConvergence
	}

	t0 := flows[0].Date
	sameDay := true
	for _, f := range flows {
		if f.Date.Before(t0) {
			t0 = f.Date
		}
		sameDay = sameDay && f.Date == flows[0].Date
	}
	// A zero-day timeline discounts nothing: every rate (or none) is a
	// root, so no annualized rate exists.
	if sameDay {
		return 0, ErrNoConvergence
	}

	if rate, ok := newton(flows, t0); ok {
		return rate, nil
	}
	return bisect(flows, t0)
}

// npv discounts the flows to t0 at the given annual rate.
func npv(rate float64, flows []CashFlow, t0 Date) float64 {
	var sum float64
	for _, f := range flows {
		years := float64(t0.DaysUntil(f.Date)) / 365.0
		sum += float64(f.AmountCents) / 100.0 / math.Pow(1+rate, years)
	}
	return sum
}

// dnpv is the derivative of npv with respect to the rate.
func dnpv(rate float64, flows []CashFlow, t0 Date) float64 {
	var sum float64
	for _, f := range flows {
		years := float64(t0.DaysUntil(f.Date)) / 365.0
		sum -= years * float64(f.AmountCents) / 100.0 / math.Pow(1+rate, years+1)
	}
	return sum
}

func newton(flows []CashFlow, t0 Date) (float64, bool) {
	rate := xirrGuess
	for range xirrMaxIter {
		f := npv(rate, flows, t0)
		d := dnpv(rate, flows, t0)
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return 0, false
		}
		next := rate - f/d
		if next <= -1 {
			// Left the domain of the discount function.
			return 0, false
		}
		if math.Abs(next-rate) < xirrTol {
			return next, true
		}
		rate = next
	}
	return 0, false
}

func bisect(flows []CashFlow, t0 Date) (float64, error) {
	lo, hi := bisectLow, bisectHigh
	flo, fhi := npv(lo, flows, t0), npv(hi, flows, t0)
	// A strict sign change is required: a flat or one-signed NPV curve has
	// no bracketed root and the midpoint would be a fabricated rate.
	if !(flo < 0 && fhi > 0) && !(flo > 0 && fhi < 0) {
		return 0, ErrNoConvergence
	}
	for range xirrMaxIter {
		mid := (lo + hi) / 2
		fmid := npv(mid, flows, t0)
		if math.Abs(fmid) < xirrTol || (hi-lo)/2 < xirrTol {
			return mid, nil
		}
		if flo*fmid < 0 {
			hi = mid
		} else {
			lo, flo = mid, fmid
		}
	}
	return 0, ErrNoConvergence
}
