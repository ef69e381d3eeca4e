package provider

import (
	"context"
	"fmt"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"taskchat/model"
	"taskchat/tasks"
)

// Suggester asks a provider what to do with one utterance. It satisfies
// the dispatcher's Suggester interface.
type Suggester struct {
	provider     model.Provider
	systemPrompt string
	logger       *zap.Logger
}

func NewSuggester(p model.Provider, systemPrompt string, logger *zap.Logger) *Suggester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Suggester{
		provider:     p,
		systemPrompt: systemPrompt,
		logger:       logger.Named("suggester"),
	}
}

// Suggest sends the recent history and the utterance with the task tools
// and collects the streamed reply. When the model returns no structured
// calls, calls leaked into the text are recovered if they name a task tool.
func (s *Suggester) Suggest(ctx context.Context, utterance string, history []model.Turn, tools []mcptypes.Tool) (model.Suggestion, error) {
	if s.provider == nil {
		return model.Suggestion{}, fmt.Errorf("no provider configured")
	}

	messages := make([]model.Message, 0, len(history)+2)
	if s.systemPrompt != "" {
		messages = append(messages, model.Message{Role: model.RoleSystem, Content: s.systemPrompt})
	}
	messages = append(messages, model.TurnsToMessages(history)...)
	messages = append(messages, model.Message{Role: model.RoleUser, Content: utterance})

	var (
		text  strings.Builder
		calls []model.ToolCall
	)
	err := s.provider.ChatWithTools(ctx, messages, tools, func(chunk string, toolCalls []model.ToolCall) error {
		text.WriteString(chunk)
		calls = append(calls, toolCalls...)
		return nil
	})
	if err != nil {
		return model.Suggestion{}, err
	}

	suggestion := model.Suggestion{Text: strings.TrimSpace(text.String()), Calls: calls}
	if len(calls) == 0 {
		if leaked, ok := recoverLeakedCalls(suggestion.Text); ok {
			s.logger.Debug("recovered leaked tool calls", zap.Int("count", len(leaked)))
			suggestion.Calls = leaked
			suggestion.Text = ""
		}
	}

	return suggestion, nil
}

func recoverLeakedCalls(text string) ([]model.ToolCall, bool) {
	calls, ok := ParseLeakedXMLToolCalls(text)
	if !ok {
		calls, ok = ParseLeakedJSONToolCalls(text)
	}
	if !ok {
		return nil, false
	}

	known := calls[:0]
	for _, c := range calls {
		if _, ok := tasks.ParseOperation(c.Name); ok {
			known = append(known, c)
		}
	}
	return known, len(known) > 0
}
