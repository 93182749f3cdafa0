// Package symbol holds the static tables for the tracked assets: canonical
// symbols, upstream ticker aliases, plausibility ranges, and terminal-fallback
// default prices.
package symbol

// Canonical symbols for the six tracked assets.
const (
	SP500  = "SP500"
	Gold   = "GOLD"
	Silver = "SILVER"
	BTC    = "BTC"
	ETH    = "ETH"
	USDKZT = "USDKZT"
)

// PriceRange is the static per-symbol plausibility window. It is
// configuration, never persisted.
type PriceRange struct {
	Min  float64
	Max  float64
	Unit string
}

// Midpoint returns the center of the range, used as the reference price for
// extraction scoring and as the last-resort substitute value.
func (r PriceRange) Midpoint() float64 {
	return (r.Min + r.Max) / 2
}

type asset struct {
	name         string
	rng          PriceRange
	defaultPrice float64
}

var assets = map[string]asset{
	SP500:  {name: "S&P 500", rng: PriceRange{Min: 3000, Max: 10000, Unit: "USD"}, defaultPrice: 5900},
	Gold:   {name: "Gold", rng: PriceRange{Min: 1500, Max: 4000, Unit: "USD"}, defaultPrice: 2650},
	Silver: {name: "Silver", rng: PriceRange{Min: 18, Max: 60, Unit: "USD"}, defaultPrice: 31},
	BTC:    {name: "Bitcoin", rng: PriceRange{Min: 50000, Max: 150000, Unit: "USD"}, defaultPrice: 95000},
	ETH:    {name: "Ethereum", rng: PriceRange{Min: 2000, Max: 6000, Unit: "USD"}, defaultPrice: 3300},
	USDKZT: {name: "USD/KZT", rng: PriceRange{Min: 400, Max: 700, Unit: "KZT"}, defaultPrice: 525},
}

// aliases maps every known upstream ticker spelling to its canonical symbol.
// Canonical symbols map to themselves so Normalize is idempotent.
var aliases = map[string]string{
	SP500: SP500, "^GSPC": SP500, "ES=F": SP500, "SPX": SP500, "SPX500": SP500, "GSPC": SP500,
	Gold: Gold, "GC=F": Gold, "XAUUSD": Gold, "XAU": Gold, "XAUUSD=X": Gold,
	Silver: Silver, "SI=F": Silver, "XAGUSD": Silver, "XAG": Silver, "XAGUSD=X": Silver,
	BTC: BTC, "BTC-USD": BTC, "BTCUSD": BTC, "XBTUSD": BTC,
	ETH: ETH, "ETH-USD": ETH, "ETHUSD": ETH,
	USDKZT: USDKZT, "KZT=X": USDKZT, "USDKZT=X": USDKZT, "USD/KZT": USDKZT,
}

// tracked is the fixed symbol set the dashboard resolves, in display order.
var tracked = []string{SP500, Gold, Silver, BTC, ETH, USDKZT}

// Normalize maps an upstream ticker spelling to its canonical symbol and
// display name. Unknown tickers pass through unchanged. Total function.
func Normalize(raw string) (canonical, displayName string) {
	if sym, ok := aliases[raw]; ok {
		return sym, assets[sym].name
	}
	return raw, raw
}

// Range returns the plausibility range for a canonical symbol.
func Range(sym string) (PriceRange, bool) {
	a, ok := assets[sym]
	return a.rng, ok
}

// DefaultPrice returns the hardcoded terminal-fallback price for a symbol.
func DefaultPrice(sym string) (float64, bool) {
	a, ok := assets[sym]
	return a.defaultPrice, ok
}

// Tracked returns the fixed tracked symbol set in stable order.
func Tracked() []string {
	out := make([]string, len(tracked))
	copy(out, tracked)
	return out
}
