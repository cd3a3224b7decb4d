package ranking

import (
	"context"
	"sync"
)

// mockLogger records warnings and discards everything else
type mockLogger struct {
	mu    sync.Mutex
	warns []string
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Info(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Error(msg string, fields map[string]interface{}) {}

func (m *mockLogger) Warn(msg string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warns = append(m.warns, msg)
}

func (m *mockLogger) warnCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.warns)
}

// mockRelevanceModel is a mock implementation of the RelevanceModel interface
type mockRelevanceModel struct {
	scoreFunc func(ctx context.Context, query string, texts []string) ([]float64, error)
	pingFunc  func(ctx context.Context) error
}

func (m *mockRelevanceModel) Ping(ctx context.Context) error {
	if m.pingFunc != nil {
		return m.pingFunc(ctx)
	}
	return nil
}

func (m *mockRelevanceModel) Score(ctx context.Context, query string, texts []string) ([]float64, error) {
	if m.scoreFunc != nil {
		return m.scoreFunc(ctx, query, texts)
	}
	return make([]float64, len(texts)), nil
}
