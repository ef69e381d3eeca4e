package model

import (
	"time"

	"taskchat/tasks"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a chat message exchanged with a provider.
type Message struct {
	Role      string
	Content   string
	Timestamp time.Time
}

// ToolCall is a structured tool invocation. Providers fill Name and
// Arguments with what the model asked for; the dispatcher records executed
// calls with the canonical operation name and either Response or Error.
type ToolCall struct {
	Name      string         `json:"name" yaml:"name"`
	Arguments map[string]any `json:"arguments" yaml:"arguments"`
	Response  any            `json:"response,omitempty" yaml:"response,omitempty"`
	Error     string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the call recorded an error.
func (c ToolCall) Failed() bool {
	return c.Error != ""
}

// TaskDelta is the task-state change produced by one successful tool call.
type TaskDelta struct {
	Action string       `json:"action" yaml:"action"`
	Task   *tasks.Task  `json:"task,omitempty" yaml:"task,omitempty"`
	Tasks  []tasks.Task `json:"tasks,omitempty" yaml:"tasks,omitempty"`
}

// Turn is one entry of a conversation ledger.
type Turn struct {
	Role       string      `json:"role" yaml:"role"`
	Content    string      `json:"content" yaml:"content"`
	ToolCalls  []ToolCall  `json:"tool_calls,omitempty" yaml:"tool_calls,omitempty"`
	TaskDeltas []TaskDelta `json:"task_deltas,omitempty" yaml:"task_deltas,omitempty"`
	Timestamp  time.Time   `json:"timestamp" yaml:"timestamp"`
}

// TurnsToMessages converts ledger turns into provider messages.
func TurnsToMessages(turns []Turn) []Message {
	messages := make([]Message, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, Message{
			Role:      turn.Role,
			Content:   turn.Content,
			Timestamp: turn.Timestamp,
		})
	}
	return messages
}

// Suggestion is what a model proposes for one utterance: free text and any
// structured tool calls it asked for.
type Suggestion struct {
	Text  string
	Calls []ToolCall
}
