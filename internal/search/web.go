package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"
)

// WebSource implements Source against a JSON web-search API.
type WebSource struct {
	Endpoint string
	APIKey   string
	Client   *http.Client

	// Overlapping refresh runs issue identical queries; coalesce them so the
	// upstream sees each query at most once at a time.
	sf singleflight.Group
}

// NewWebSource creates a search client with optional proxy support.
func NewWebSource(endpoint, apiKey, proxyURL string) *WebSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &WebSource{
		Endpoint: endpoint,
		APIKey:   apiKey,
		Client: &http.Client{
			Timeout:   20 * time.Second,
			Transport: transport,
		},
	}
}

func (s *WebSource) Name() string { return "websearch" }

// searchResponse is the expected JSON shape from the search API.
type searchResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
		Source  string `json:"source"`
		Date    string `json:"date"`
	} `json:"organic"`
}

// Search runs one query and returns up to count results.
func (s *WebSource) Search(ctx context.Context, query string, count int) ([]Result, error) {
	if s.Endpoint == "" {
		return nil, fmt.Errorf("search: missing endpoint")
	}
	if count <= 0 {
		count = 5
	}

	key := fmt.Sprintf("%s|%d", query, count)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		// The leader's request context would propagate its cancellation to
		// every coalesced waiter; run the upstream call detached, bounded by
		// the client timeout.
		return s.doSearch(context.WithoutCancel(ctx), query, count)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Result), nil
}

func (s *WebSource) doSearch(ctx context.Context, query string, count int) ([]Result, error) {
	payload, err := json.Marshal(map[string]interface{}{"q": query, "num": count})
	if err != nil {
		return nil, fmt.Errorf("search encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.APIKey != "" {
		req.Header.Set("X-API-KEY", s.APIKey)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("search read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search: status %d, body: %s", resp.StatusCode, string(body))
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("search decode: %w", err)
	}

	results := make([]Result, 0, len(sr.Organic))
	for _, item := range sr.Organic {
		if len(results) >= count {
			break
		}
		host := item.Source
		if host == "" {
			if u, err := url.Parse(item.Link); err == nil {
				host = u.Host
			}
		}
		results = append(results, Result{
			Title:       item.Title,
			Snippet:     item.Snippet,
			SourceHost:  host,
			URL:         item.Link,
			PublishedAt: item.Date,
		})
	}
	return results, nil
}
