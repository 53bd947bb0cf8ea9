package providers

import (
	"context"
	"sync"
)

// MockTextGenerator is a TextGenerator for tests. Safe for concurrent use.
type MockTextGenerator struct {
	Text string
	Err  error

	mu    sync.Mutex
	calls []string
}

func (m *MockTextGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, prompt)
	m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	return m.Text, nil
}

func (m *MockTextGenerator) Name() string { return "mock-text" }

// Calls returns a copy of every prompt received so far.
func (m *MockTextGenerator) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// MockImageGenerator is an ImageGenerator for tests. Safe for concurrent use.
type MockImageGenerator struct {
	Image []byte
	Err   error

	mu    sync.Mutex
	calls []string
}

func (m *MockImageGenerator) GenerateImage(_ context.Context, prompt string) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, prompt)
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Image, nil
}

func (m *MockImageGenerator) Name() string { return "mock-image" }

// Calls returns a copy of every prompt received so far.
func (m *MockImageGenerator) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

var _ TextGenerator = (*MockTextGenerator)(nil)
var _ ImageGenerator = (*MockImageGenerator)(nil)
