package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const organicPayload = `{"organic":[
	{"title":"BTC today","snippet":"trading at $97,200","link":"https://news.example.com/btc","source":"example.com","date":"2025-01-01"},
	{"title":"Markets","snippet":"mixed session","link":"https://other.example.com/markets"}
]}`

func TestWebSource_Search(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-KEY")
		w.Write([]byte(organicPayload))
	}))
	defer srv.Close()

	s := NewWebSource(srv.URL, "secret", "")
	results, err := s.Search(context.Background(), "bitcoin price", 5)
	require.NoError(t, err)
	require.Equal(t, "secret", gotKey)
	require.Len(t, results, 2)
	require.Equal(t, "BTC today", results[0].Title)
	require.Equal(t, "example.com", results[0].SourceHost)
	require.Equal(t, "other.example.com", results[1].SourceHost, "host falls back to the link")
}

func TestWebSource_RequestDetachedFromCallerContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(organicPayload))
	}))
	defer srv.Close()

	s := NewWebSource(srv.URL, "", "")

	// A coalesced waiter must never inherit the leader's cancellation, so
	// the upstream call runs on a detached context.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := s.Search(ctx, "bitcoin price", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
}

func TestWebSource_MissingEndpoint(t *testing.T) {
	s := &WebSource{}
	_, err := s.Search(context.Background(), "bitcoin price", 5)
	require.Error(t, err)
}
