package model

import "time"

// NewsItem is one collected news entry, deduplicated by URL.
type NewsItem struct {
	ID          int64     `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	Snippet     string    `json:"snippet"`
	PublishedAt string    `json:"published_at,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AnalysisNote is a sentiment-tagged analysis entry for one symbol.
type AnalysisNote struct {
	ID        int64     `json:"id"`
	Symbol    string    `json:"symbol"`
	Sentiment string    `json:"sentiment"` // bullish | bearish | neutral
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	SourceURL string    `json:"source_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
