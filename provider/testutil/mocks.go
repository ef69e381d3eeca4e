// Package testutil provides a scriptable model.Provider for tests.
package testutil

import (
	"context"
	"sync"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"taskchat/model"
)

// MockProvider implements model.Provider. Each behaviour can be replaced
// through its func field; calls are recorded for assertions.
type MockProvider struct {
	ChatWithToolsFunc func(ctx context.Context, messages []model.Message, tools []mcptypes.Tool, callback model.StreamCallback) error
	PingFunc          func(ctx context.Context) error

	mu           sync.Mutex
	currentModel string
	requests     [][]model.Message
}

// NewMockProvider creates a mock that replies with plain text and no tool
// calls.
func NewMockProvider(modelName string) *MockProvider {
	m := &MockProvider{currentModel: modelName}
	m.ChatWithToolsFunc = func(ctx context.Context, messages []model.Message, tools []mcptypes.Tool, callback model.StreamCallback) error {
		return callback("Mock response", nil)
	}
	m.PingFunc = func(ctx context.Context) error { return nil }
	return m
}

// Replying returns a mock that streams text and then reports calls.
func Replying(text string, calls ...model.ToolCall) *MockProvider {
	m := NewMockProvider("mock")
	m.ChatWithToolsFunc = func(ctx context.Context, messages []model.Message, tools []mcptypes.Tool, callback model.StreamCallback) error {
		if text != "" {
			if err := callback(text, nil); err != nil {
				return err
			}
		}
		if len(calls) > 0 {
			return callback("", calls)
		}
		return nil
	}
	return m
}

// Failing returns a mock whose chat and ping both fail with err.
func Failing(err error) *MockProvider {
	m := NewMockProvider("mock")
	m.ChatWithToolsFunc = func(ctx context.Context, messages []model.Message, tools []mcptypes.Tool, callback model.StreamCallback) error {
		return err
	}
	m.PingFunc = func(ctx context.Context) error { return err }
	return m
}

func (m *MockProvider) ChatWithTools(ctx context.Context, messages []model.Message, tools []mcptypes.Tool, callback model.StreamCallback) error {
	m.mu.Lock()
	m.requests = append(m.requests, append([]model.Message(nil), messages...))
	m.mu.Unlock()
	return m.ChatWithToolsFunc(ctx, messages, tools, callback)
}

// Requests returns the message lists sent so far.
func (m *MockProvider) Requests() [][]model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]model.Message(nil), m.requests...)
}

func (m *MockProvider) GetModel() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentModel
}

func (m *MockProvider) SetModel(model string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentModel = model
}

func (m *MockProvider) Ping(ctx context.Context) error {
	return m.PingFunc(ctx)
}
