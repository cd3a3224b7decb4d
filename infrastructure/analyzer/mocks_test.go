package analyzer

import (
	"context"
	"sync"

	"github.com/tmc/langchaingo/llms"

	"ai-search-api/core/domain"
)

type mockLogger struct {
	mu    sync.Mutex
	warns int
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Info(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Warn(msg string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warns++
}
func (m *mockLogger) Error(msg string, fields map[string]interface{}) {}

func (m *mockLogger) warnCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.warns
}

// fakeModel implements llms.Model with a canned response function
type fakeModel struct {
	mu       sync.Mutex
	calls    int
	messages []llms.MessageContent
	options  llms.CallOptions

	generateFunc func(ctx context.Context) (*llms.ContentResponse, error)
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.mu.Lock()
	f.calls++
	f.messages = messages
	for _, opt := range options {
		opt(&f.options)
	}
	f.mu.Unlock()

	return f.generateFunc(ctx)
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func (f *fakeModel) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func textResponse(text string) func(context.Context) (*llms.ContentResponse, error) {
	return func(context.Context) (*llms.ContentResponse, error) {
		return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: text}}}, nil
	}
}

// mockAnalyzer implements interfaces.QueryAnalyzer
type mockAnalyzer struct {
	mu          sync.Mutex
	calls       int
	analyzeFunc func(ctx context.Context, query string) domain.QueryIntelligence
}

func (m *mockAnalyzer) Analyze(ctx context.Context, query string) domain.QueryIntelligence {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.analyzeFunc(ctx, query)
}

func (m *mockAnalyzer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
