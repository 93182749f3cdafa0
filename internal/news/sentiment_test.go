package news

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"clearly bullish", "BTC continues its rally toward a record high as analysts turn bullish", SentimentBullish},
		{"clearly bearish", "gold extends its decline as the sell-off deepens, bearish momentum", SentimentBearish},
		{"mixed balances to count", "a rally faded into a decline", SentimentNeutral},
		{"empty", "", SentimentNeutral},
		{"no lexicon hits", "prices moved sideways in quiet trading", SentimentNeutral},
		{"case insensitive", "SURGE! Markets SOAR on upbeat data", SentimentBullish},
	}
	for _, tt := range tests {
		if got := Classify(tt.text); got != tt.want {
			t.Errorf("%s: Classify(%q) = %q, want %q", tt.name, tt.text, got, tt.want)
		}
	}
}
