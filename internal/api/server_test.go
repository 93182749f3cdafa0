package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"marketpulse/internal/model"
	"marketpulse/internal/symbol"
)

type stubResolver struct {
	quotes []model.ResolvedQuote
}

func (s *stubResolver) ResolveAll(_ context.Context, _ []string) []model.ResolvedQuote {
	return s.quotes
}

type stubReader struct {
	news     []model.NewsItem
	analyses []model.AnalysisNote
	err      error
}

func (s *stubReader) ListRecentNews(int) ([]model.NewsItem, error) {
	return s.news, s.err
}

func (s *stubReader) ListRecentAnalyses(int) ([]model.AnalysisNote, error) {
	return s.analyses, s.err
}

func TestHandlePrices_FullSet(t *testing.T) {
	var quotes []model.ResolvedQuote
	for _, sym := range symbol.Tracked() {
		quotes = append(quotes, model.ResolvedQuote{Symbol: sym, Price: 1, Source: model.SourceLive})
	}
	srv := &Server{
		Resolver: &stubResolver{quotes: quotes},
		Store:    &stubReader{},
		Symbols:  symbol.Tracked(),
	}

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/prices", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data      []model.ResolvedQuote `json:"data"`
		Degraded  bool                  `json:"degraded"`
		Timestamp time.Time             `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 6)
	require.False(t, body.Degraded)
	require.False(t, body.Timestamp.IsZero())
	require.Equal(t, model.SourceLive, body.Data[0].Source)
}

func TestHandlePrices_PartialResultFlaggedDegraded(t *testing.T) {
	srv := &Server{
		Resolver: &stubResolver{quotes: []model.ResolvedQuote{
			{Symbol: symbol.BTC, Price: 95000, Source: model.SourceDefault},
		}},
		Store:   &stubReader{},
		Symbols: symbol.Tracked(),
	}

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/prices", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Degraded bool `json:"degraded"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.True(t, body.Degraded)
}

func TestHandleNews(t *testing.T) {
	srv := &Server{
		Resolver: &stubResolver{},
		Store: &stubReader{news: []model.NewsItem{
			{URL: "https://example.com/a", Title: "BTC rallies"},
		}},
		Symbols: symbol.Tracked(),
	}

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/news?limit=5", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "BTC rallies")
}

func TestHandleNews_StoreError(t *testing.T) {
	srv := &Server{
		Resolver: &stubResolver{},
		Store:    &stubReader{err: errors.New("db closed")},
		Symbols:  symbol.Tracked(),
	}

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/news", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandleRefresh(t *testing.T) {
	triggered := make(chan struct{}, 1)
	srv := &Server{
		Resolver: &stubResolver{},
		Store:    &stubReader{},
		Symbols:  symbol.Tracked(),
		Trigger:  func() { triggered <- struct{}{} },
	}

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
	require.Equal(t, http.StatusAccepted, w.Code)

	select {
	case <-triggered:
	case <-time.After(time.Second):
		t.Fatal("refresh trigger not invoked")
	}
}

func TestHealthz(t *testing.T) {
	srv := &Server{Resolver: &stubResolver{}, Store: &stubReader{}}
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
}
