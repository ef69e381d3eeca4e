package dispatch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"taskchat/model"
	"taskchat/tasks"
)

// Kind is the shape of a resolution outcome.
type Kind int

const (
	KindNoAction Kind = iota
	KindClarify
	KindAction
)

func (k Kind) String() string {
	switch k {
	case KindAction:
		return "action"
	case KindClarify:
		return "clarify"
	default:
		return "no_action"
	}
}

// Source records which path produced an outcome.
type Source string

const (
	SourceModel    Source = "model"
	SourceKeywords Source = "keywords"
	SourceNone     Source = "none"
)

// Outcome is the resolver's decision. Action outcomes carry Calls; the
// others carry only Reply.
type Outcome struct {
	Kind   Kind
	Calls  []tasks.Call
	Reply  string
	Source Source
}

func action(src Source, calls ...tasks.Call) Outcome {
	return Outcome{Kind: KindAction, Calls: calls, Source: src}
}

func clarify(reply string) Outcome {
	return Outcome{Kind: KindClarify, Reply: reply, Source: SourceKeywords}
}

func noAction(reply string) Outcome {
	return Outcome{Kind: KindNoAction, Reply: reply, Source: SourceNone}
}

// Resolver maps an utterance to an Outcome: model suggestion first, then
// keyword rules, then a reply-only outcome.
type Resolver struct {
	suggester Suggester
	logger    *zap.Logger
}

// NewResolver builds a resolver. A nil suggester disables the model path.
func NewResolver(s Suggester, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{suggester: s, logger: logger.Named("resolver")}
}

func (r *Resolver) Resolve(ctx context.Context, utterance string, history []model.Turn) Outcome {
	var freeText string

	if r.suggester != nil {
		suggestion, err := r.suggester.Suggest(ctx, utterance, history, tasks.Tools())
		switch {
		case err != nil:
			r.logger.Debug("falling back to keywords", zap.Error(fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)))
		case len(suggestion.Calls) > 0:
			calls, err := decodeSuggestion(suggestion.Calls)
			if err == nil {
				return action(SourceModel, calls...)
			}
			r.logger.Warn("discarding model suggestion", zap.Error(err), zap.Int("calls", len(suggestion.Calls)))
		default:
			freeText = suggestion.Text
		}
	}

	if outcome, ok := matchKeywords(utterance); ok {
		return outcome
	}

	if freeText != "" {
		return noAction(freeText)
	}
	return noAction(helpReply)
}

// decodeSuggestion validates every suggested call; one bad call rejects the
// whole suggestion.
func decodeSuggestion(suggested []model.ToolCall) ([]tasks.Call, error) {
	calls := make([]tasks.Call, 0, len(suggested))
	for _, s := range suggested {
		op, ok := tasks.ParseOperation(s.Name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown operation %q", ErrContractViolation, s.Name)
		}
		call, err := tasks.DecodeCall(op, s.Arguments)
		if err != nil {
			return nil, fmt.Errorf("%w: %s arguments: %v", ErrContractViolation, op, err)
		}
		calls = append(calls, call)
	}
	return calls, nil
}
