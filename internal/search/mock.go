package search

import "context"

// MockSource returns controllable fixed data for development and testing.
type MockSource struct {
	Results map[string][]Result // keyed by query; nil value falls back to Default
	Default []Result
	Err     error
	Queries []string // records every query issued
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Search(_ context.Context, query string, count int) ([]Result, error) {
	m.Queries = append(m.Queries, query)
	if m.Err != nil {
		return nil, m.Err
	}
	results := m.Default
	if r, ok := m.Results[query]; ok {
		results = r
	}
	if count > 0 && len(results) > count {
		results = results[:count]
	}
	return results, nil
}
