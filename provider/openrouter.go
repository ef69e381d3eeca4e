package provider

import (
	"fmt"
	"strings"
)

// NewOpenRouterProvider returns an OpenAI-compatible provider pointed at
// OpenRouter.
func NewOpenRouterProvider(cfg Config) (*OpenAIProvider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenRouter API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "meta-llama/llama-3.2-90b-instruct"
	}

	p := newOpenAICompatible(cfg, "OpenRouter")
	p.encodeName = convertToolNameForOpenRouter
	p.decodeName = convertToolNameFromOpenRouter
	p.skipInstructions = shouldSkipToolInstructions
	return p, nil
}

// shouldSkipToolInstructions reports models that understand tools natively
// and start leaking XML when prompted explicitly.
func shouldSkipToolInstructions(modelName string) bool {
	return strings.Contains(strings.ToLower(modelName), "qwen")
}

// OpenRouter requires tool names matching ^[a-zA-Z0-9_-]{1,64}$.
func convertToolNameForOpenRouter(name string) string {
	return strings.ReplaceAll(name, ".", "__")
}

func convertToolNameFromOpenRouter(name string) string {
	return strings.ReplaceAll(name, "__", ".")
}
