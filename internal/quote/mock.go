package quote

import "context"

// MockSource returns controllable fixed data for development and testing.
type MockSource struct {
	Snapshots []Snapshot
	Err       error
	Delay     func(ctx context.Context) error // optional; simulates a stalled upstream
	Calls     int
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) FetchSnapshots(ctx context.Context, _ []string) ([]Snapshot, error) {
	m.Calls++
	if m.Delay != nil {
		if err := m.Delay(ctx); err != nil {
			return nil, err
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Snapshots, nil
}
