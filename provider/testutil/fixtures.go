package testutil

import (
	"time"

	"taskchat/model"
)

// Conversation returns a short ledger history ending with an assistant turn.
func Conversation() []model.Turn {
	now := time.Now()
	return []model.Turn{
		{Role: model.RoleUser, Content: "Add task to buy groceries", Timestamp: now.Add(-2 * time.Minute)},
		{Role: model.RoleAssistant, Content: "Added task: Buy Groceries", Timestamp: now.Add(-time.Minute)},
	}
}

// Call builds a tool call as a model would emit it.
func Call(name string, args map[string]any) model.ToolCall {
	if args == nil {
		args = map[string]any{}
	}
	return model.ToolCall{Name: name, Arguments: args}
}
