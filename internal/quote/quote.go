package quote

import "context"

// Snapshot is one raw quote item as reported by the upstream gateway. The
// ticker carries the upstream spelling; the resolver normalizes it.
type Snapshot struct {
	Ticker        string
	Price         float64
	ChangePercent float64
	High          float64
	Low           float64
	Volume        float64
}

// Source defines the primary quote-snapshot collaborator. A failed or
// timed-out batch call is an error; the caller fails over, no retry contract
// is implied.
type Source interface {
	Name() string
	FetchSnapshots(ctx context.Context, tickers []string) ([]Snapshot, error)
}
