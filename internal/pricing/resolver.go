package pricing

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"marketpulse/internal/model"
	"marketpulse/internal/quote"
	"marketpulse/internal/search"
	"marketpulse/internal/symbol"
)

// PriceStore is the slice of the persistence layer the resolver needs.
type PriceStore interface {
	UpsertPrice(p model.MarketPrice) error
	ListPrices() ([]model.MarketPrice, error)
}

// Resolver runs the cascading price resolution pipeline: live quotes, then
// snippet extraction from web search, then the persisted cache, then static
// defaults. Every stage degrades to the next; resolution never returns an
// error to the caller.
type Resolver struct {
	Quotes quote.Source
	Search search.Source
	Store  PriceStore

	PrimaryTimeout time.Duration // ceiling for the primary batch call
	FreshWindow    time.Duration // cache-fallback freshness window
	SearchResults  int           // results requested per fallback query
	MaxConcurrent  int           // cap on concurrent fallback extractions
}

// NewResolver creates a resolver with the deployment defaults.
func NewResolver(q quote.Source, s search.Source, st PriceStore) *Resolver {
	return &Resolver{
		Quotes:         q,
		Search:         s,
		Store:          st,
		PrimaryTimeout: 15 * time.Second,
		FreshWindow:    time.Hour,
		SearchResults:  5,
		MaxConcurrent:  3,
	}
}

// ResolveAll resolves a batch of tickers. The result contains exactly one
// quote per requested symbol, except symbols that reached the terminal stage
// without a configured default, which are omitted (partial result).
func (r *Resolver) ResolveAll(ctx context.Context, tickers []string) []model.ResolvedQuote {
	requested := make([]string, 0, len(tickers))
	names := make(map[string]string, len(tickers))
	want := make(map[string]struct{}, len(tickers))
	for _, t := range tickers {
		sym, name := symbol.Normalize(t)
		if _, dup := want[sym]; dup {
			continue
		}
		want[sym] = struct{}{}
		requested = append(requested, sym)
		names[sym] = name
	}

	prior := r.priorPrices()
	resolved := make(map[string]model.ResolvedQuote, len(requested))

	r.attemptPrimary(ctx, requested, want, names, prior, resolved)

	var missing []string
	for _, sym := range requested {
		if _, ok := resolved[sym]; !ok {
			missing = append(missing, sym)
		}
	}
	r.fallbackExtract(ctx, missing, names, resolved)

	r.persist(resolved)

	if len(resolved) == 0 {
		r.cacheFallback(requested, resolved)
	}

	out := make([]model.ResolvedQuote, 0, len(requested))
	for _, sym := range requested {
		if q, ok := resolved[sym]; ok {
			out = append(out, q)
			continue
		}
		if def, ok := symbol.DefaultPrice(sym); ok {
			out = append(out, model.ResolvedQuote{
				Symbol:      sym,
				DisplayName: names[sym],
				Price:       def,
				Source:      model.SourceDefault,
			})
		}
	}
	return out
}

// ResolveOne resolves a single ticker. The second return is false when the
// symbol could not be resolved at any stage, defaults included.
func (r *Resolver) ResolveOne(ctx context.Context, ticker string) (model.ResolvedQuote, bool) {
	sym, _ := symbol.Normalize(ticker)
	for _, q := range r.ResolveAll(ctx, []string{ticker}) {
		if q.Symbol == sym {
			return q, true
		}
	}
	return model.ResolvedQuote{}, false
}

// attemptPrimary queries the quote gateway once for the whole batch and
// normalizes and sanity-checks each returned item. An implausible positive
// price is corrected to the prior stored value (else the range midpoint)
// rather than dropped; a non-positive price falls through to extraction.
func (r *Resolver) attemptPrimary(ctx context.Context, requested []string, want map[string]struct{}, names map[string]string, prior map[string]model.MarketPrice, resolved map[string]model.ResolvedQuote) {
	if r.Quotes == nil {
		return
	}
	pctx, cancel := context.WithTimeout(ctx, r.PrimaryTimeout)
	defer cancel()

	snaps, err := r.Quotes.FetchSnapshots(pctx, requested)
	if err != nil {
		log.Printf("[WARN] primary quote source %s failed: %v", r.Quotes.Name(), err)
		return
	}

	for _, snap := range snaps {
		sym, name := symbol.Normalize(snap.Ticker)
		if _, ok := want[sym]; !ok {
			continue
		}
		if snap.Price <= 0 {
			continue
		}
		price := snap.Price
		if !r.plausible(sym, prior, price) {
			ref := r.referencePrice(sym, prior)
			log.Printf("[WARN] %s: implausible live price %.2f, substituting %.2f", sym, price, ref)
			price = ref
		}
		q := model.ResolvedQuote{
			Symbol:      sym,
			DisplayName: name,
			Price:       price,
			ChangePct:   model.Float(snap.ChangePercent),
			Source:      model.SourceLive,
		}
		if snap.High > 0 {
			q.High24h = model.Float(snap.High)
		}
		if snap.Low > 0 {
			q.Low24h = model.Float(snap.Low)
		}
		if snap.Volume > 0 {
			q.Volume = model.Float(snap.Volume)
		}
		resolved[sym] = q
	}
}

// fallbackExtract recovers prices for unresolved symbols from web-search
// snippets, bounded by MaxConcurrent to respect upstream rate limits.
// Symbols without a configured range are skipped: there is nothing to score
// extracted candidates against.
func (r *Resolver) fallbackExtract(ctx context.Context, missing []string, names map[string]string, resolved map[string]model.ResolvedQuote) {
	if len(missing) == 0 || r.Search == nil {
		return
	}
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	limit := r.MaxConcurrent
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)
	for _, sym := range missing {
		sym := sym
		rng, ok := symbol.Range(sym)
		if !ok {
			continue
		}
		g.Go(func() error {
			if q := r.extractOne(gctx, sym, names[sym], rng); q != nil {
				mu.Lock()
				resolved[sym] = *q
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (r *Resolver) extractOne(ctx context.Context, sym, name string, rng symbol.PriceRange) *model.ResolvedQuote {
	query := fmt.Sprintf("%s current price USD today", name)
	results, err := r.Search.Search(ctx, query, r.SearchResults)
	if err != nil {
		log.Printf("[WARN] %s: fallback search failed: %v", sym, err)
		return nil
	}
	ext := Extract(results, rng)
	if ext.Price <= 0 {
		return nil
	}
	return &model.ResolvedQuote{
		Symbol:      sym,
		DisplayName: name,
		Price:       ext.Price,
		ChangePct:   model.Float(ext.ChangePct),
		High24h:     model.Float(ext.High),
		Low24h:      model.Float(ext.Low),
		Source:      model.SourceExtracted,
	}
}

// persist upserts every resolved quote with a positive price. A write
// failure is logged and never blocks the rest of the batch.
func (r *Resolver) persist(resolved map[string]model.ResolvedQuote) {
	if r.Store == nil {
		return
	}
	now := time.Now().UTC()
	for _, q := range resolved {
		if q.Price <= 0 {
			continue
		}
		if err := r.Store.UpsertPrice(q.Record(now)); err != nil {
			log.Printf("[ERROR] persist %s: %v", q.Symbol, err)
		}
	}
}

// cacheFallback serves the persisted snapshot set when nothing resolved
// live or via extraction. Freshness gates the whole cache: if any stored
// record was updated inside FreshWindow, every stored record for a requested
// symbol is returned, without per-record filtering. Requested symbols absent
// from the store still fall through to static defaults, so the caller keeps
// the one-entry-per-symbol guarantee.
func (r *Resolver) cacheFallback(requested []string, resolved map[string]model.ResolvedQuote) {
	if r.Store == nil {
		return
	}
	records, err := r.Store.ListPrices()
	if err != nil {
		log.Printf("[ERROR] cache fallback read: %v", err)
		return
	}
	cutoff := time.Now().Add(-r.FreshWindow)
	fresh := false
	for _, rec := range records {
		if rec.UpdatedAt.After(cutoff) {
			fresh = true
			break
		}
	}
	if !fresh {
		if len(records) > 0 {
			log.Printf("[WARN] cache fallback: all %d records stale, using defaults", len(records))
		}
		return
	}
	byStored := make(map[string]model.MarketPrice, len(records))
	for _, rec := range records {
		byStored[rec.Symbol] = rec
	}
	for _, sym := range requested {
		rec, ok := byStored[sym]
		if !ok {
			continue
		}
		resolved[sym] = model.ResolvedQuote{
			Symbol:      rec.Symbol,
			DisplayName: rec.DisplayName,
			Price:       rec.Price,
			ChangePct:   rec.ChangePct,
			High24h:     rec.High24h,
			Low24h:      rec.Low24h,
			Volume:      rec.Volume,
			Source:      model.SourceCached,
		}
	}
}

// plausible checks a live price against the prior stored value when one
// exists, else against the static range.
func (r *Resolver) plausible(sym string, prior map[string]model.MarketPrice, price float64) bool {
	if p, ok := prior[sym]; ok && p.Price > 0 {
		return PlausibleAgainst(p.Price, price)
	}
	return PlausibleInRange(sym, price)
}

// referencePrice is the substitute for an implausible live price: the prior
// stored value when available, else the range midpoint.
func (r *Resolver) referencePrice(sym string, prior map[string]model.MarketPrice) float64 {
	if p, ok := prior[sym]; ok && p.Price > 0 {
		return p.Price
	}
	if rng, ok := symbol.Range(sym); ok {
		return rng.Midpoint()
	}
	return 0
}

func (r *Resolver) priorPrices() map[string]model.MarketPrice {
	if r.Store == nil {
		return nil
	}
	records, err := r.Store.ListPrices()
	if err != nil {
		log.Printf("[WARN] read prior prices: %v", err)
		return nil
	}
	prior := make(map[string]model.MarketPrice, len(records))
	for _, rec := range records {
		prior[rec.Symbol] = rec
	}
	return prior
}
