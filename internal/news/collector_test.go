package news

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"marketpulse/internal/model"
	"marketpulse/internal/search"
	"marketpulse/internal/symbol"
)

type memSink struct {
	news     []model.NewsItem
	analyses []model.AnalysisNote
	seen     map[string]bool
}

func newMemSink() *memSink {
	return &memSink{seen: make(map[string]bool)}
}

func (m *memSink) InsertNews(n model.NewsItem) (bool, error) {
	if m.seen[n.URL] {
		return false, nil
	}
	m.seen[n.URL] = true
	m.news = append(m.news, n)
	return true, nil
}

func (m *memSink) InsertAnalysis(a model.AnalysisNote) error {
	m.analyses = append(m.analyses, a)
	return nil
}

func TestCollectNews_StoresDeduplicatedItems(t *testing.T) {
	sink := newMemSink()
	src := &search.MockSource{Default: []search.Result{
		{Title: "BTC rallies", Snippet: "up 3%", URL: "https://example.com/a", SourceHost: "example.com"},
		{Title: "Gold steady", Snippet: "flat", URL: "https://example.com/b"},
		{Title: "no url, skipped", Snippet: "x"},
	}}
	c := NewCollector(src, sink)

	c.CollectNews(context.Background())

	// Both queries return the same fixture; URLs dedupe to two items.
	require.Len(t, sink.news, 2)
	require.Equal(t, "BTC rallies", sink.news[0].Title)
	require.Equal(t, "example.com", sink.news[0].Source)
	require.False(t, sink.news[0].CreatedAt.IsZero())
}

func TestCollectAnalysis_TagsSentimentPerSymbol(t *testing.T) {
	sink := newMemSink()
	src := &search.MockSource{Results: map[string][]search.Result{
		"Bitcoin price prediction analysis": {
			{Title: "BTC to surge", Snippet: "analysts bullish on a breakout rally", URL: "https://example.com/btc"},
		},
		"Gold price prediction analysis": {
			{Title: "Gold correction ahead", Snippet: "bearish pressure, further decline expected", URL: "https://example.com/gold"},
		},
	}}
	c := NewCollector(src, sink)

	c.CollectAnalysis(context.Background())

	// Symbols with no search results are skipped.
	require.Len(t, sink.analyses, 2)

	bySym := map[string]model.AnalysisNote{}
	for _, a := range sink.analyses {
		bySym[a.Symbol] = a
	}
	require.Equal(t, SentimentBullish, bySym[symbol.BTC].Sentiment)
	require.Equal(t, "BTC to surge", bySym[symbol.BTC].Title)
	require.Equal(t, SentimentBearish, bySym[symbol.Gold].Sentiment)
}
