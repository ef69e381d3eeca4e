package provider

import (
	"context"
	"fmt"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	"taskchat/mcp"
	"taskchat/model"
)

// OpenAIProvider talks to the OpenAI chat completions API. OpenRouter uses
// the same type with its own name mapping and instruction policy.
type OpenAIProvider struct {
	client  openai.Client
	model   string
	baseURL string
	label   string
	logger  *zap.Logger

	// encodeName and decodeName map tool names to and from the wire.
	encodeName func(string) string
	decodeName func(string) string
	// skipInstructions reports whether a model breaks with explicit tool
	// instructions.
	skipInstructions func(model string) bool
}

func NewOpenAIProvider(cfg Config) (*OpenAIProvider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	return newOpenAICompatible(cfg, "OpenAI"), nil
}

func newOpenAICompatible(cfg Config, label string) *OpenAIProvider {
	identity := func(s string) string { return s }
	return &OpenAIProvider{
		client: openai.NewClient(
			option.WithBaseURL(cfg.BaseURL),
			option.WithAPIKey(cfg.APIKey),
		),
		model:            cfg.Model,
		baseURL:          cfg.BaseURL,
		label:            label,
		logger:           cfg.logger(),
		encodeName:       identity,
		decodeName:       identity,
		skipInstructions: func(string) bool { return false },
	}
}

// ChatWithTools streams a completion. Tool calls are delivered once the
// accumulator reports each one finished.
func (p *OpenAIProvider) ChatWithTools(ctx context.Context, messages []model.Message, tools []mcptypes.Tool, callback model.StreamCallback) error {
	if len(tools) > 0 && !p.skipInstructions(p.model) {
		instruction := model.Message{Role: model.RoleSystem, Content: buildToolInstructions(tools)}
		messages = append([]model.Message{instruction}, messages...)
	}

	params := openai.ChatCompletionNewParams{
		Messages: ConvertToOpenAIMessages(messages),
		Model:    openai.ChatModel(p.model),
	}
	if len(tools) > 0 {
		wire := make([]mcptypes.Tool, len(tools))
		for i, tool := range tools {
			wire[i] = tool
			wire[i].Name = p.encodeName(tool.Name)
		}
		params.Tools = mcp.ToOpenAI(wire)
	}

	p.logger.Debug("chat request", zap.String("model", p.model), zap.Int("messages", len(messages)), zap.Int("tools", len(tools)))

	stream := p.client.Chat.Completions.NewStreaming(ctx, params)
	defer stream.Close()
	acc := openai.ChatCompletionAccumulator{}

	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)

		if tool, ok := acc.JustFinishedToolCall(); ok && callback != nil {
			call := model.ToolCall{
				Name:      p.decodeName(tool.Name),
				Arguments: ParseToolArguments(tool.Arguments),
			}
			if err := callback("", []model.ToolCall{call}); err != nil {
				return err
			}
		}

		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" && callback != nil {
			if err := callback(chunk.Choices[0].Delta.Content, nil); err != nil {
				return err
			}
		}
	}

	if err := stream.Err(); err != nil {
		return fmt.Errorf("%s streaming error: %w", p.label, err)
	}
	return nil
}

func (p *OpenAIProvider) GetModel() string {
	return p.model
}

func (p *OpenAIProvider) SetModel(model string) {
	p.model = model
}

// Ping lists models, which needs a valid key but no tokens.
func (p *OpenAIProvider) Ping(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx); err != nil {
		return fmt.Errorf("%s ping failed: %w", p.label, err)
	}
	return nil
}
