// Package news collects market news and sentiment-tagged analysis notes from
// the web-search collaborator. Collection is best-effort: every failure is
// logged and swallowed so a bad upstream never breaks a refresh run.
package news

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"marketpulse/internal/model"
	"marketpulse/internal/search"
	"marketpulse/internal/symbol"
)

// Sink is the slice of the persistence layer the collector writes to.
type Sink interface {
	InsertNews(n model.NewsItem) (bool, error)
	InsertAnalysis(a model.AnalysisNote) error
}

// Collector pulls news and per-symbol analysis from the search source.
type Collector struct {
	Search      search.Source
	Store       Sink
	ResultCount int
}

// NewCollector creates a collector with the default per-query result count.
func NewCollector(s search.Source, sink Sink) *Collector {
	return &Collector{Search: s, Store: sink, ResultCount: 5}
}

var newsQueries = []string{
	"cryptocurrency market news today",
	"stock market gold silver news today",
}

// CollectNews fetches the fixed news queries and stores the results,
// deduplicated by URL.
func (c *Collector) CollectNews(ctx context.Context) {
	now := time.Now().UTC()
	var stored int
	for _, query := range newsQueries {
		results, err := c.Search.Search(ctx, query, c.ResultCount)
		if err != nil {
			log.Printf("[WARN] news search %q: %v", query, err)
			continue
		}
		for _, r := range results {
			if r.URL == "" {
				continue
			}
			inserted, err := c.Store.InsertNews(model.NewsItem{
				URL:         r.URL,
				Title:       r.Title,
				Source:      r.SourceHost,
				Snippet:     r.Snippet,
				PublishedAt: r.PublishedAt,
				CreatedAt:   now,
			})
			if err != nil {
				log.Printf("[ERROR] store news %s: %v", r.URL, err)
				continue
			}
			if inserted {
				stored++
			}
		}
	}
	log.Printf("[INFO] news collection done, %d new items", stored)
}

// CollectAnalysis searches prediction/analysis coverage for every tracked
// symbol and stores one sentiment-tagged note per symbol.
func (c *Collector) CollectAnalysis(ctx context.Context) {
	now := time.Now().UTC()
	for _, sym := range symbol.Tracked() {
		_, name := symbol.Normalize(sym)
		query := fmt.Sprintf("%s price prediction analysis", name)
		results, err := c.Search.Search(ctx, query, c.ResultCount)
		if err != nil {
			log.Printf("[WARN] analysis search %s: %v", sym, err)
			continue
		}
		if len(results) == 0 {
			continue
		}

		var blob strings.Builder
		for _, r := range results {
			blob.WriteString(r.Title)
			blob.WriteString(" ")
			blob.WriteString(r.Snippet)
			blob.WriteString(" ")
		}

		note := model.AnalysisNote{
			Symbol:    sym,
			Sentiment: Classify(blob.String()),
			Title:     results[0].Title,
			Summary:   results[0].Snippet,
			SourceURL: results[0].URL,
			CreatedAt: now,
		}
		if err := c.Store.InsertAnalysis(note); err != nil {
			log.Printf("[ERROR] store analysis %s: %v", sym, err)
		}
	}
}
