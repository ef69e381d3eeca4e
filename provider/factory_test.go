package provider

import (
	"testing"

	"taskchat/model"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
	}{
		{
			name:   "ollama provider with defaults",
			config: Config{Type: ProviderTypeOllama},
		},
		{
			name: "ollama provider with custom config",
			config: Config{
				Type:    ProviderTypeOllama,
				BaseURL: "http://localhost:11434",
				Model:   "llama3.1",
			},
		},
		{
			name: "openai provider",
			config: Config{
				Type:    ProviderTypeOpenAI,
				BaseURL: "https://api.openai.com/v1",
				Model:   "gpt-4o-mini",
				APIKey:  "test-key",
			},
		},
		{
			name:        "openai without key",
			config:      Config{Type: ProviderTypeOpenAI},
			expectError: true,
		},
		{
			name:   "openrouter provider",
			config: Config{Type: ProviderTypeOpenRouter, APIKey: "test-key"},
		},
		{
			name: "anthropic provider",
			config: Config{
				Type:   ProviderTypeAnthropic,
				Model:  "claude-sonnet-4-5-20250929",
				APIKey: "test-key",
			},
		},
		{
			name:        "anthropic without key",
			config:      Config{Type: ProviderTypeAnthropic},
			expectError: true,
		},
		{
			name:   "gemini provider",
			config: Config{Type: ProviderTypeGemini, APIKey: "test-key"},
		},
		{
			name:        "gemini without key",
			config:      Config{Type: ProviderTypeGemini},
			expectError: true,
		},
		{
			name:        "unknown provider type",
			config:      Config{Type: ProviderType("unknown")},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.config)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if provider != nil {
					t.Errorf("expected nil provider, got %T", provider)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if provider == nil {
				t.Fatal("expected non-nil provider")
			}
			var _ model.Provider = provider
		})
	}
}

func TestFactoryDefaults(t *testing.T) {
	p, err := NewProvider(Config{Type: ProviderTypeOllama, Model: "llama3.1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*OllamaProvider); !ok {
		t.Errorf("expected *OllamaProvider, got %T", p)
	}

	p, err = NewProvider(Config{Type: ProviderTypeOpenRouter, APIKey: "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.GetModel() != "meta-llama/llama-3.2-90b-instruct" {
		t.Errorf("openrouter default model = %q", p.GetModel())
	}

	p.SetModel("qwen/qwen3-coder")
	if p.GetModel() != "qwen/qwen3-coder" {
		t.Errorf("SetModel did not take effect: %q", p.GetModel())
	}
}

func TestMapProviderIDToType(t *testing.T) {
	tests := map[string]ProviderType{
		"ollama":     ProviderTypeOllama,
		"openai":     ProviderTypeOpenAI,
		"openrouter": ProviderTypeOpenRouter,
		"anthropic":  ProviderTypeAnthropic,
		"gemini":     ProviderTypeGemini,
		"google":     ProviderTypeGemini,
		"other":      ProviderType("other"),
	}
	for id, want := range tests {
		if got := MapProviderIDToType(id); got != want {
			t.Errorf("MapProviderIDToType(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestOpenRouterToolNames(t *testing.T) {
	if got := convertToolNameForOpenRouter("tasks.add_task"); got != "tasks__add_task" {
		t.Errorf("encode = %q", got)
	}
	if got := convertToolNameFromOpenRouter("tasks__add_task"); got != "tasks.add_task" {
		t.Errorf("decode = %q", got)
	}
	if !shouldSkipToolInstructions("qwen/qwen3-coder:free") {
		t.Error("qwen models skip tool instructions")
	}
	if shouldSkipToolInstructions("meta-llama/llama-3.2-90b-instruct") {
		t.Error("llama models get tool instructions")
	}
}
