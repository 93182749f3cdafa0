package symbol

import "testing"

func TestNormalize_KnownAliases(t *testing.T) {
	tests := []struct {
		raw  string
		sym  string
		name string
	}{
		{"^GSPC", SP500, "S&P 500"},
		{"ES=F", SP500, "S&P 500"},
		{"GC=F", Gold, "Gold"},
		{"SI=F", Silver, "Silver"},
		{"BTC-USD", BTC, "Bitcoin"},
		{"ETH-USD", ETH, "Ethereum"},
		{"KZT=X", USDKZT, "USD/KZT"},
	}
	for _, tt := range tests {
		sym, name := Normalize(tt.raw)
		if sym != tt.sym || name != tt.name {
			t.Errorf("Normalize(%q) = (%q, %q), want (%q, %q)", tt.raw, sym, name, tt.sym, tt.name)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, raw := range []string{"^GSPC", "BTC-USD", "XAUUSD", "USD/KZT", "UNKNOWN-TICKER"} {
		sym1, name1 := Normalize(raw)
		sym2, name2 := Normalize(sym1)
		if sym2 != sym1 || name2 != name1 {
			t.Errorf("Normalize not idempotent for %q: first (%q, %q), second (%q, %q)",
				raw, sym1, name1, sym2, name2)
		}
	}
}

func TestNormalize_UnknownPassesThrough(t *testing.T) {
	sym, name := Normalize("DOGE-USD")
	if sym != "DOGE-USD" || name != "DOGE-USD" {
		t.Errorf("expected passthrough, got (%q, %q)", sym, name)
	}
}

func TestTracked_AllHaveRangeAndDefault(t *testing.T) {
	syms := Tracked()
	if len(syms) != 6 {
		t.Fatalf("expected 6 tracked symbols, got %d", len(syms))
	}
	for _, s := range syms {
		if _, ok := Range(s); !ok {
			t.Errorf("no range configured for %s", s)
		}
		if p, ok := DefaultPrice(s); !ok || p <= 0 {
			t.Errorf("no positive default price for %s", s)
		}
	}
}

func TestRange_Midpoint(t *testing.T) {
	r, ok := Range(BTC)
	if !ok {
		t.Fatal("expected BTC range")
	}
	if got := r.Midpoint(); got != 100000 {
		t.Errorf("BTC midpoint = %v, want 100000", got)
	}
}
