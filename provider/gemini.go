package provider

import (
	"context"
	"fmt"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"taskchat/mcp"
	"taskchat/model"
)

// GeminiProvider implements model.Provider with the Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func NewGeminiProvider(cfg Config) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(context.Background(), cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		model:  cfg.Model,
		logger: cfg.logger(),
	}, nil
}

// ChatWithTools streams a response. Function calls are reported as they
// arrive in the stream.
func (p *GeminiProvider) ChatWithTools(ctx context.Context, messages []model.Message, tools []mcptypes.Tool, callback model.StreamCallback) error {
	if len(tools) > 0 {
		instruction := model.Message{Role: model.RoleSystem, Content: buildToolInstructions(tools)}
		messages = append([]model.Message{instruction}, messages...)
	}

	contents, system := ConvertToGeminiContents(messages)
	gc := &genai.GenerateContentConfig{SystemInstruction: system}
	if len(tools) > 0 {
		gc.Tools = mcp.ToGemini(tools)
	}

	p.logger.Debug("chat request", zap.String("model", p.model), zap.Int("contents", len(contents)), zap.Int("tools", len(tools)))

	for resp, err := range p.client.Models.GenerateContentStream(ctx, p.model, contents, gc) {
		if err != nil {
			return fmt.Errorf("Gemini streaming error: %w", err)
		}
		if callback == nil {
			continue
		}

		var calls []model.ToolCall
		for _, fc := range resp.FunctionCalls() {
			args := fc.Args
			if args == nil {
				args = map[string]any{}
			}
			calls = append(calls, model.ToolCall{Name: fc.Name, Arguments: args})
		}

		if text := resp.Text(); text != "" || len(calls) > 0 {
			if err := callback(text, calls); err != nil {
				return err
			}
		}
	}

	return nil
}

func (p *GeminiProvider) GetModel() string {
	return p.model
}

func (p *GeminiProvider) SetModel(model string) {
	p.model = model
}

// Ping fetches the configured model's metadata.
func (p *GeminiProvider) Ping(ctx context.Context) error {
	if _, err := p.client.Models.Get(ctx, p.model, nil); err != nil {
		return fmt.Errorf("Gemini ping failed: %w", err)
	}
	return nil
}
