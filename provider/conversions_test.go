package provider

import (
	"testing"
	"time"

	"github.com/ollama/ollama/api"

	"taskchat/model"
)

func testMessages() []model.Message {
	return []model.Message{
		{Role: model.RoleSystem, Content: "Be brief", Timestamp: time.Now()},
		{Role: model.RoleUser, Content: "Add task to buy milk", Timestamp: time.Now()},
		{Role: model.RoleAssistant, Content: "Added task: Buy Milk", Timestamp: time.Now()},
		{Role: model.RoleUser, Content: "Show my tasks", Timestamp: time.Now()},
	}
}

func TestConvertToOllamaMessages(t *testing.T) {
	result := ConvertToOllamaMessages(testMessages())
	if len(result) != 4 {
		t.Fatalf("length mismatch: got %d, want 4", len(result))
	}
	for i, msg := range testMessages() {
		if result[i].Role != msg.Role || result[i].Content != msg.Content {
			t.Errorf("message %d = %+v, want role %q content %q", i, result[i], msg.Role, msg.Content)
		}
	}

	if got := ConvertToOllamaMessages(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %d messages", len(got))
	}
}

func TestConvertToOpenAIMessages(t *testing.T) {
	result := ConvertToOpenAIMessages(testMessages())
	if len(result) != 4 {
		t.Fatalf("length mismatch: got %d, want 4", len(result))
	}
	if result[0].OfSystem == nil {
		t.Error("message 0 should be a system message")
	}
	if result[1].OfUser == nil {
		t.Error("message 1 should be a user message")
	}
	if result[2].OfAssistant == nil {
		t.Error("message 2 should be an assistant message")
	}
}

func TestConvertToAnthropicMessages(t *testing.T) {
	msgs, system := ConvertToAnthropicMessages(testMessages())
	if len(system) != 1 || system[0].Text != "Be brief" {
		t.Errorf("system blocks = %+v, want one 'Be brief' block", system)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages without the system prompt, got %d", len(msgs))
	}
	if msgs[1].Role != "assistant" {
		t.Errorf("message 1 role = %q, want assistant", msgs[1].Role)
	}
}

func TestConvertToGeminiContents(t *testing.T) {
	contents, system := ConvertToGeminiContents(testMessages())
	if system == nil || len(system.Parts) != 1 || system.Parts[0].Text != "Be brief" {
		t.Errorf("unexpected system instruction: %+v", system)
	}
	if len(contents) != 3 {
		t.Fatalf("expected 3 contents, got %d", len(contents))
	}
	if contents[0].Role != "user" || contents[1].Role != "model" {
		t.Errorf("roles = %q, %q; want user, model", contents[0].Role, contents[1].Role)
	}

	_, system = ConvertToGeminiContents([]model.Message{{Role: model.RoleUser, Content: "hi"}})
	if system != nil {
		t.Error("expected no system instruction")
	}
}

func TestParseToolArguments(t *testing.T) {
	args := ParseToolArguments(`{"title": "Buy milk", "task_id": 3}`)
	if args["title"] != "Buy milk" || args["task_id"] != float64(3) {
		t.Errorf("unexpected args: %v", args)
	}

	for _, bad := range []string{"", "not json", "null", "[1,2]"} {
		if got := ParseToolArguments(bad); got == nil || len(got) != 0 {
			t.Errorf("ParseToolArguments(%q) = %v, want empty map", bad, got)
		}
	}
}

func TestConvertToProviderToolCalls(t *testing.T) {
	if got := ConvertToProviderToolCalls(nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}

	calls := ConvertToProviderToolCalls([]api.ToolCall{{
		Function: api.ToolCallFunction{
			Name:      "complete_task",
			Arguments: map[string]any{"task_id": float64(3)},
		},
	}})
	if len(calls) != 1 || calls[0].Name != "complete_task" || calls[0].Arguments["task_id"] != float64(3) {
		t.Errorf("unexpected calls: %+v", calls)
	}
}
