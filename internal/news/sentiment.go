package news

import "strings"

// Sentiment labels for analysis notes.
const (
	SentimentBullish = "bullish"
	SentimentBearish = "bearish"
	SentimentNeutral = "neutral"
)

var bullishTerms = []string{
	"bullish", "surge", "rally", "rallies", "soar", "record high", "breakout",
	"jump", "climb", "gain", "upside", "outperform", "all-time high",
}

var bearishTerms = []string{
	"bearish", "crash", "plunge", "drop", "slump", "sell-off", "selloff",
	"decline", "tumble", "downside", "correction", "capitulation",
}

// Classify tags free text as bullish, bearish, or neutral by counting
// lexicon hits. Ties and empty text come out neutral.
func Classify(text string) string {
	lower := strings.ToLower(text)
	var bull, bear int
	for _, term := range bullishTerms {
		bull += strings.Count(lower, term)
	}
	for _, term := range bearishTerms {
		bear += strings.Count(lower, term)
	}
	switch {
	case bull > bear:
		return SentimentBullish
	case bear > bull:
		return SentimentBearish
	default:
		return SentimentNeutral
	}
}
