// Package dispatch turns one chat utterance into at most one task
// operation and a reply, recording both in the conversation ledger.
package dispatch

import (
	"context"
	"errors"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"taskchat/model"
	"taskchat/storage"
)

// Request is one inbound utterance. An empty ConversationID continues the
// user's most recent conversation, or starts one.
type Request struct {
	UserID         string
	Text           string
	ConversationID string
}

// Result is what Handle returns for a request.
type Result struct {
	ConversationID string            `json:"conversation_id"`
	Reply          string            `json:"reply"`
	ToolCalls      []model.ToolCall  `json:"tool_calls"`
	TaskDeltas     []model.TaskDelta `json:"task_deltas"`
}

// Suggester proposes tool calls for an utterance using a language model.
type Suggester interface {
	Suggest(ctx context.Context, utterance string, history []model.Turn, tools []mcptypes.Tool) (model.Suggestion, error)
}

// Ledger is the conversation history the dispatcher reads and appends to.
type Ledger interface {
	EnsureConversation(ctx context.Context, userID, id, firstMessage string) (storage.Conversation, error)
	Recent(ctx context.Context, conversationID string, limit int) ([]model.Turn, error)
	Append(ctx context.Context, conversationID string, turn model.Turn) error
}

var (
	// ErrUpstreamUnavailable wraps model failures. Resolution falls back to
	// keyword matching when it occurs.
	ErrUpstreamUnavailable = errors.New("model unavailable")

	// ErrContractViolation marks model output that breaks the dispatcher's
	// rules, such as asking for more than one action.
	ErrContractViolation = errors.New("contract violation")
)
