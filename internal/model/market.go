package model

import "time"

// SourceTag labels which resolution stage produced a quote.
type SourceTag string

const (
	SourceLive      SourceTag = "live"
	SourceExtracted SourceTag = "extracted"
	SourceCached    SourceTag = "cached"
	SourceDefault   SourceTag = "default"
)

// MarketPrice is the persisted snapshot for one canonical symbol.
// It is overwritten on every successful resolution, never appended.
type MarketPrice struct {
	Symbol      string    `json:"symbol"`
	DisplayName string    `json:"display_name"`
	Price       float64   `json:"price"`
	ChangePct   *float64  `json:"change_24h_pct,omitempty"`
	High24h     *float64  `json:"high_24h,omitempty"`
	Low24h      *float64  `json:"low_24h,omitempty"`
	Volume      *float64  `json:"volume,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ResolvedQuote is the transient result of one resolution pass.
type ResolvedQuote struct {
	Symbol      string    `json:"symbol"`
	DisplayName string    `json:"display_name"`
	Price       float64   `json:"price"`
	ChangePct   *float64  `json:"change_24h_pct,omitempty"`
	High24h     *float64  `json:"high_24h,omitempty"`
	Low24h      *float64  `json:"low_24h,omitempty"`
	Volume      *float64  `json:"volume,omitempty"`
	Source      SourceTag `json:"source"`
}

// Record converts a resolved quote into its persisted form.
func (q ResolvedQuote) Record(at time.Time) MarketPrice {
	return MarketPrice{
		Symbol:      q.Symbol,
		DisplayName: q.DisplayName,
		Price:       q.Price,
		ChangePct:   q.ChangePct,
		High24h:     q.High24h,
		Low24h:      q.Low24h,
		Volume:      q.Volume,
		UpdatedAt:   at,
	}
}

// Float returns a pointer to v, for the nullable quote fields.
func Float(v float64) *float64 { return &v }
