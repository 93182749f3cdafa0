package search

import "context"

// Result is one web-search hit. Only loosely structured: titles and snippets
// are free text, PublishedAt is whatever the upstream reports.
type Result struct {
	Title       string `json:"title"`
	Snippet     string `json:"snippet"`
	SourceHost  string `json:"source_host,omitempty"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at,omitempty"`
}

// Source is the web-search collaborator. An empty result list is not an
// error; callers treat "no results" as a normal outcome.
type Source interface {
	Name() string
	Search(ctx context.Context, query string, count int) ([]Result, error)
}
