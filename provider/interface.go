// Package provider adapts LLM backends (Ollama, OpenAI, OpenRouter,
// Anthropic, Gemini) to model.Provider and turns a provider into the
// dispatcher's Suggester.
//
// The Provider interface lives in the model package so that consumers can
// depend on it without importing every SDK pulled in here.
package provider

import "go.uber.org/zap"

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeOllama     ProviderType = "ollama"
	ProviderTypeOpenRouter ProviderType = "openrouter"
	ProviderTypeOpenAI     ProviderType = "openai"
	ProviderTypeAnthropic  ProviderType = "anthropic"
	ProviderTypeGemini     ProviderType = "gemini"
)

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string
	Model   string
	APIKey  string // unused for Ollama
	Logger  *zap.Logger
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger.Named(string(c.Type))
}
