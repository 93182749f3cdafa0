package pricing

import "marketpulse/internal/symbol"

// PlausibleAgainst reports whether a candidate price is credible relative to
// a known reference value: it must be positive and within half to double the
// reference, bounds inclusive. A non-positive reference accepts any positive
// candidate.
func PlausibleAgainst(ref, price float64) bool {
	if price <= 0 {
		return false
	}
	if ref <= 0 {
		return true
	}
	return price >= ref/2 && price <= ref*2
}

// PlausibleInRange checks a candidate against the symbol's static range.
// Anything inside the configured window, with a small tolerance at the
// edges, is credible outright; outside the window the half/double bounds
// around the range midpoint apply. Symbols without a configured range
// accept any positive candidate.
func PlausibleInRange(sym string, price float64) bool {
	rng, ok := symbol.Range(sym)
	if !ok {
		return price > 0
	}
	if price <= 0 {
		return false
	}
	if price >= rng.Min*0.99 && price <= rng.Max*1.01 {
		return true
	}
	return PlausibleAgainst(rng.Midpoint(), price)
}
