package config

import "os"

// ProviderConfig describes one configured LLM provider.
type ProviderConfig struct {
	ID      string `toml:"id"`
	Name    string `toml:"name"`
	BaseURL string `toml:"base_url"`
	Enabled bool   `toml:"enabled"`
}

// DefaultProviders returns the provider list used when the user config has
// no [[providers]] entries.
func DefaultProviders() []ProviderConfig {
	ids := []string{"ollama", "openai", "openrouter", "anthropic", "gemini"}
	providers := make([]ProviderConfig, 0, len(ids))
	for _, id := range ids {
		providers = append(providers, ProviderConfig{
			ID:      id,
			Name:    ProviderDisplayName(id),
			BaseURL: ProviderDefaultBaseURL(id),
			Enabled: true,
		})
	}
	return providers
}

// Provider returns the configuration for a provider id.
func (c *Config) Provider(id string) (ProviderConfig, bool) {
	for _, p := range c.Providers {
		if p.ID == id {
			return p, true
		}
	}
	return ProviderConfig{}, false
}

// APIKey returns the API key for a cloud provider from the environment.
// Ollama needs none.
func APIKey(providerID string) string {
	switch providerID {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "openrouter":
		return os.Getenv("OPENROUTER_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "gemini":
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			return key
		}
		return os.Getenv("GOOGLE_API_KEY")
	default:
		return ""
	}
}

// ProviderDisplayName returns the display name for a provider
func ProviderDisplayName(providerID string) string {
	switch providerID {
	case "ollama":
		return "Ollama"
	case "openrouter":
		return "OpenRouter"
	case "anthropic":
		return "Anthropic"
	case "openai":
		return "OpenAI"
	case "gemini":
		return "Gemini"
	default:
		return providerID
	}
}

// ProviderDefaultBaseURL returns the default base URL for a provider
func ProviderDefaultBaseURL(providerID string) string {
	switch providerID {
	case "ollama":
		return "http://localhost:11434"
	case "openrouter":
		return "https://openrouter.ai/api/v1"
	case "anthropic":
		return "https://api.anthropic.com"
	case "openai":
		return "https://api.openai.com/v1"
	default:
		return ""
	}
}
