package search

import (
	"context"
	"sync"
	"time"

	"ai-search-api/core/domain"
	"ai-search-api/core/interfaces"
)

// mockStore is a mock implementation of the Store interface
type mockStore struct {
	getFunc       func(ctx context.Context, key string) ([]byte, error)
	setFunc       func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	deleteFunc    func(ctx context.Context, key string) error
	incrementFunc func(ctx context.Context, name string, amount float64) error
	countersFunc  func(ctx context.Context) (domain.CounterSnapshot, error)
	pingFunc      func(ctx context.Context) error

	mu         sync.Mutex
	sets       map[string][]byte
	increments map[string]float64
}

func newMockStore() *mockStore {
	return &mockStore{
		sets:       make(map[string][]byte),
		increments: make(map[string]float64),
	}
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	return nil, interfaces.ErrCacheMiss
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[key] = value
	return nil
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, key)
	}
	return nil
}

func (m *mockStore) IncrementCounter(ctx context.Context, name string, amount float64) error {
	if m.incrementFunc != nil {
		return m.incrementFunc(ctx, name, amount)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.increments[name] += amount
	return nil
}

func (m *mockStore) Counters(ctx context.Context) (domain.CounterSnapshot, error) {
	if m.countersFunc != nil {
		return m.countersFunc(ctx)
	}
	return domain.CounterSnapshot{}, nil
}

func (m *mockStore) Ping(ctx context.Context) error {
	if m.pingFunc != nil {
		return m.pingFunc(ctx)
	}
	return nil
}

func (m *mockStore) setCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sets)
}

func (m *mockStore) counter(name string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.increments[name]
}

// mockAnalyzer is a mock implementation of the QueryAnalyzer interface
type mockAnalyzer struct {
	analyzeFunc func(ctx context.Context, query string) domain.QueryIntelligence
}

func (m *mockAnalyzer) Analyze(ctx context.Context, query string) domain.QueryIntelligence {
	if m.analyzeFunc != nil {
		return m.analyzeFunc(ctx, query)
	}
	return domain.FallbackIntelligence(query)
}

// mockAggregator is a mock implementation of the SearchAggregator interface
type mockAggregator struct {
	searchFunc func(ctx context.Context, query string, engines, categories []string) ([]domain.RawResult, error)
	pingFunc   func(ctx context.Context) error
}

func (m *mockAggregator) Search(ctx context.Context, query string, engines, categories []string) ([]domain.RawResult, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, query, engines, categories)
	}
	return nil, nil
}

func (m *mockAggregator) Ping(ctx context.Context) error {
	if m.pingFunc != nil {
		return m.pingFunc(ctx)
	}
	return nil
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

// mockLogger discards log output
type mockLogger struct{}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Info(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Warn(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Error(msg string, fields map[string]interface{}) {}
