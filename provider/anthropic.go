package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"taskchat/mcp"
	"taskchat/model"
)

// AnthropicProvider implements model.Provider with the Anthropic Messages API.
type AnthropicProvider struct {
	client *anthropic.Client
	model  anthropic.Model
	logger *zap.Logger
}

func NewAnthropicProvider(cfg Config) (*AnthropicProvider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	m := anthropic.ModelClaudeSonnet4_5_20250929
	if cfg.Model != "" {
		m = anthropic.Model(cfg.Model)
	}

	client := anthropic.NewClient(
		option.WithBaseURL(cfg.BaseURL),
		option.WithAPIKey(cfg.APIKey),
	)

	return &AnthropicProvider{
		client: &client,
		model:  m,
		logger: cfg.logger(),
	}, nil
}

// ChatWithTools streams text deltas and reports tool_use blocks once the
// message is complete.
func (p *AnthropicProvider) ChatWithTools(ctx context.Context, messages []model.Message, tools []mcptypes.Tool, callback model.StreamCallback) error {
	msgs, system := ConvertToAnthropicMessages(messages)
	if len(tools) > 0 {
		system = append([]anthropic.TextBlockParam{{Text: buildToolInstructions(tools)}}, system...)
	}

	params := anthropic.MessageNewParams{
		Model:     p.model,
		Messages:  msgs,
		MaxTokens: 1024,
	}
	if len(system) > 0 {
		params.System = system
	}
	if len(tools) > 0 {
		params.Tools = mcp.ToAnthropic(tools)
	}

	p.logger.Debug("chat request", zap.String("model", string(p.model)), zap.Int("messages", len(msgs)), zap.Int("tools", len(tools)))

	stream := p.client.Messages.NewStreaming(ctx, params)
	defer stream.Close()
	msg := anthropic.Message{}

	for stream.Next() {
		event := stream.Current()
		if err := msg.Accumulate(event); err != nil {
			return fmt.Errorf("error accumulating message: %w", err)
		}

		if delta, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent); ok && callback != nil {
			if text, ok := delta.Delta.AsAny().(anthropic.TextDelta); ok {
				if err := callback(text.Text, nil); err != nil {
					return err
				}
			}
		}
	}

	if err := stream.Err(); err != nil {
		return fmt.Errorf("Anthropic streaming error: %w", err)
	}

	if calls := extractToolCalls(msg.Content); len(calls) > 0 && callback != nil {
		return callback("", calls)
	}
	return nil
}

func (p *AnthropicProvider) GetModel() string {
	return string(p.model)
}

func (p *AnthropicProvider) SetModel(model string) {
	p.model = anthropic.Model(model)
}

// Ping sends a one-token request; Anthropic has no health endpoint.
func (p *AnthropicProvider) Ping(ctx context.Context) error {
	_, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 1,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("ping")),
		},
	})
	if err != nil {
		return fmt.Errorf("Anthropic ping failed: %w", err)
	}
	return nil
}

// extractToolCalls collects tool_use blocks. Blocks whose input is not a
// JSON object are skipped.
func extractToolCalls(content []anthropic.ContentBlockUnion) []model.ToolCall {
	var calls []model.ToolCall
	for _, block := range content {
		toolUse, ok := block.AsAny().(anthropic.ToolUseBlock)
		if !ok {
			continue
		}
		var args map[string]any
		if err := json.Unmarshal(toolUse.Input, &args); err != nil {
			continue
		}
		calls = append(calls, model.ToolCall{Name: toolUse.Name, Arguments: args})
	}
	return calls
}
