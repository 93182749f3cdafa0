// Package refresh drives the periodic background refresh: resolve all
// tracked prices, then collect news and analysis, under one overall timeout.
package refresh

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"marketpulse/internal/model"
	"marketpulse/internal/news"
	"marketpulse/internal/pricing"
)

// Refresher manages the cron-driven refresh job.
type Refresher struct {
	Cron     *cron.Cron
	Resolver *pricing.Resolver
	News     *news.Collector // optional; nil when no search source is configured
	Symbols  []string
	Timeout  time.Duration
}

// NewRefresher creates a refresher for the given symbol set.
func NewRefresher(r *pricing.Resolver, nc *news.Collector, symbols []string, timeout time.Duration) *Refresher {
	return &Refresher{
		Cron:     cron.New(cron.WithSeconds()),
		Resolver: r,
		News:     nc,
		Symbols:  symbols,
		Timeout:  timeout,
	}
}

// Register adds the refresh job under the given cron expression.
func (f *Refresher) Register(spec string) error {
	if _, err := f.Cron.AddFunc(spec, f.RunNow); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (f *Refresher) Start() {
	f.Cron.Start()
	log.Println("[INFO] refresher started")
}

// Stop stops the cron scheduler gracefully.
func (f *Refresher) Stop() {
	f.Cron.Stop()
	log.Println("[INFO] refresher stopped")
}

// RunNow executes one refresh immediately. Safe to call while a scheduled
// run is in flight: overlapping runs do redundant, idempotent work.
func (f *Refresher) RunNow() {
	ctx, cancel := context.WithTimeout(context.Background(), f.Timeout)
	defer cancel()

	start := time.Now()
	quotes := f.Resolver.ResolveAll(ctx, f.Symbols)

	counts := map[model.SourceTag]int{}
	for _, q := range quotes {
		counts[q.Source]++
	}
	log.Printf("[INFO] refresh resolved %d/%d symbols in %s (live=%d extracted=%d cached=%d default=%d)",
		len(quotes), len(f.Symbols), time.Since(start).Round(time.Millisecond),
		counts[model.SourceLive], counts[model.SourceExtracted],
		counts[model.SourceCached], counts[model.SourceDefault])

	if f.News != nil {
		f.News.CollectNews(ctx)
		f.News.CollectAnalysis(ctx)
	}
}
