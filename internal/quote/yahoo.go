package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"marketpulse/internal/symbol"
)

// YahooSource implements Source using the Yahoo Finance public quote API.
type YahooSource struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps canonical symbol to Yahoo ticker
}

// NewYahooSource creates a new Yahoo Finance quote source with optional
// proxy support.
func NewYahooSource(baseURL, proxyURL string) *YahooSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}
	return &YahooSource{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		SymbolMap: map[string]string{
			symbol.SP500:  "^GSPC",
			symbol.Gold:   "GC=F",
			symbol.Silver: "SI=F",
			symbol.BTC:    "BTC-USD",
			symbol.ETH:    "ETH-USD",
			symbol.USDKZT: "KZT=X",
		},
	}
}

func (f *YahooSource) Name() string { return "yahoo" }

func (f *YahooSource) yahooTicker(sym string) string {
	if mapped, ok := f.SymbolMap[sym]; ok {
		return mapped
	}
	return sym
}

// yahooQuote is the response structure from the Yahoo Finance quote API.
type yahooQuote struct {
	QuoteResponse struct {
		Result []struct {
			Symbol                 string  `json:"symbol"`
			RegularMarketPrice     float64 `json:"regularMarketPrice"`
			RegularMarketChangePct float64 `json:"regularMarketChangePercent"`
			RegularMarketDayHigh   float64 `json:"regularMarketDayHigh"`
			RegularMarketDayLow    float64 `json:"regularMarketDayLow"`
			RegularMarketVolume    float64 `json:"regularMarketVolume"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteResponse"`
}

// FetchSnapshots requests the whole ticker batch in a single call.
func (f *YahooSource) FetchSnapshots(ctx context.Context, tickers []string) ([]Snapshot, error) {
	mapped := make([]string, 0, len(tickers))
	for _, t := range tickers {
		mapped = append(mapped, f.yahooTicker(t))
	}
	u := fmt.Sprintf("%s/v7/finance/quote?symbols=%s",
		f.BaseURL, url.QueryEscape(strings.Join(mapped, ",")))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var q yahooQuote
	if err := json.Unmarshal(body, &q); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if q.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", q.QuoteResponse.Error.Description)
	}
	if len(q.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	snaps := make([]Snapshot, 0, len(q.QuoteResponse.Result))
	for _, r := range q.QuoteResponse.Result {
		snaps = append(snaps, Snapshot{
			Ticker:        r.Symbol,
			Price:         r.RegularMarketPrice,
			ChangePercent: r.RegularMarketChangePct,
			High:          r.RegularMarketDayHigh,
			Low:           r.RegularMarketDayLow,
			Volume:        r.RegularMarketVolume,
		})
	}
	return snaps, nil
}
