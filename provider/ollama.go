package provider

import (
	"context"
	"fmt"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/ollama/ollama/api"
	"go.uber.org/zap"

	"taskchat/mcp"
	"taskchat/model"
	"taskchat/ollama"
)

// OllamaProvider wraps ollama.Client to implement model.Provider.
type OllamaProvider struct {
	client *ollama.Client
	logger *zap.Logger
}

func NewOllamaProvider(cfg Config) (*OllamaProvider, error) {
	client, err := ollama.NewClient(cfg.BaseURL, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}

	return &OllamaProvider{
		client: client,
		logger: cfg.logger(),
	}, nil
}

func (p *OllamaProvider) ChatWithTools(ctx context.Context, messages []model.Message, tools []mcptypes.Tool, callback model.StreamCallback) error {
	var ollamaTools []api.Tool
	if len(tools) > 0 {
		ollamaTools = mcp.ToOllama(tools)
	}

	p.logger.Debug("chat request",
		zap.String("model", p.client.GetModel()),
		zap.Int("messages", len(messages)),
		zap.Bool("tools", len(tools) > 0 && p.client.SupportsToolCalling()),
	)

	return p.client.ChatWithTools(ctx, ConvertToOllamaMessages(messages), ollamaTools, func(chunk string, calls []api.ToolCall) error {
		if callback == nil {
			return nil
		}
		return callback(chunk, ConvertToProviderToolCalls(calls))
	})
}

func (p *OllamaProvider) GetModel() string {
	return p.client.GetModel()
}

func (p *OllamaProvider) SetModel(model string) {
	p.client.SetModel(model)
}

func (p *OllamaProvider) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx); err != nil {
		return fmt.Errorf("Ollama ping failed: %w", err)
	}
	return nil
}
