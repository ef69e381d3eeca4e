package provider

import (
	"fmt"

	"taskchat/model"
)

// NewProvider creates a provider of cfg.Type. Cloud providers fail without
// an API key; none of them contact the network until first use.
func NewProvider(cfg Config) (model.Provider, error) {
	var (
		p   model.Provider
		err error
	)

	// Each constructor is assigned through a concrete variable so a failed
	// construction never yields a non-nil interface holding a nil pointer.
	switch cfg.Type {
	case ProviderTypeOllama:
		var op *OllamaProvider
		if op, err = NewOllamaProvider(cfg); err == nil {
			p = op
		}
	case ProviderTypeOpenRouter:
		var op *OpenAIProvider
		if op, err = NewOpenRouterProvider(cfg); err == nil {
			p = op
		}
	case ProviderTypeOpenAI:
		var op *OpenAIProvider
		if op, err = NewOpenAIProvider(cfg); err == nil {
			p = op
		}
	case ProviderTypeAnthropic:
		var ap *AnthropicProvider
		if ap, err = NewAnthropicProvider(cfg); err == nil {
			p = ap
		}
	case ProviderTypeGemini:
		var gp *GeminiProvider
		if gp, err = NewGeminiProvider(cfg); err == nil {
			p = gp
		}
	default:
		err = fmt.Errorf("unknown provider type: %s", cfg.Type)
	}

	if err != nil {
		return nil, err
	}
	return p, nil
}

// MapProviderIDToType converts a config provider id to its ProviderType.
// Unknown ids pass through unchanged so NewProvider reports them.
func MapProviderIDToType(id string) ProviderType {
	switch id {
	case "ollama":
		return ProviderTypeOllama
	case "openrouter":
		return ProviderTypeOpenRouter
	case "openai":
		return ProviderTypeOpenAI
	case "anthropic":
		return ProviderTypeAnthropic
	case "gemini", "google":
		return ProviderTypeGemini
	default:
		return ProviderType(id)
	}
}
