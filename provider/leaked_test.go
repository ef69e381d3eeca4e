package provider

import (
	"testing"
)

func TestParseLeakedJSONToolCalls(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantOK   bool
		wantName string
		wantArgs map[string]any
	}{
		{
			name:     "bare object",
			content:  `{"name": "add_task", "arguments": {"title": "Buy milk"}}`,
			wantOK:   true,
			wantName: "add_task",
			wantArgs: map[string]any{"title": "Buy milk"},
		},
		{
			name:     "fenced with prose",
			content:  "Sure, calling it now:\n```json\n{\"name\": \"complete_task\", \"parameters\": {\"task_id\": 3}}\n```",
			wantOK:   true,
			wantName: "complete_task",
			wantArgs: map[string]any{"task_id": float64(3)},
		},
		{
			name:     "openai function shape with string arguments",
			content:  `{"function": {"name": "delete_task", "arguments": "{\"task_id\": 7}"}}`,
			wantOK:   true,
			wantName: "delete_task",
			wantArgs: map[string]any{"task_id": float64(7)},
		},
		{
			name:     "tool_calls array",
			content:  `{"tool_calls": [{"name": "list_tasks", "arguments": {"status": "pending"}}]}`,
			wantOK:   true,
			wantName: "list_tasks",
			wantArgs: map[string]any{"status": "pending"},
		},
		{
			name:     "braces inside strings",
			content:  `{"name": "add_task", "arguments": {"title": "fix } bug"}}`,
			wantOK:   true,
			wantName: "add_task",
			wantArgs: map[string]any{"title": "fix } bug"},
		},
		{
			name:    "plain text",
			content: "You have 2 tasks. [X] Buy milk",
		},
		{
			name:    "object without name",
			content: `{"title": "Buy milk"}`,
		},
		{
			name:    "broken json",
			content: `{"name": "add_task", "arguments": {"title": }`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls, ok := ParseLeakedJSONToolCalls(tt.content)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v (calls %v)", ok, tt.wantOK, calls)
			}
			if !ok {
				return
			}
			if len(calls) != 1 {
				t.Fatalf("expected 1 call, got %d", len(calls))
			}
			if calls[0].Name != tt.wantName {
				t.Errorf("name = %q, want %q", calls[0].Name, tt.wantName)
			}
			for k, v := range tt.wantArgs {
				if calls[0].Arguments[k] != v {
					t.Errorf("arg %s = %v, want %v", k, calls[0].Arguments[k], v)
				}
			}
		})
	}
}

func TestParseLeakedXMLToolCalls(t *testing.T) {
	calls, ok := ParseLeakedXMLToolCalls(`<tool_call>{"name": "add_task", "arguments": {"title": "Walk dog"}}</tool_call>`)
	if !ok || len(calls) != 1 || calls[0].Name != "add_task" || calls[0].Arguments["title"] != "Walk dog" {
		t.Errorf("json body: got %v, %v", calls, ok)
	}

	calls, ok = ParseLeakedXMLToolCalls("<tool_call>\n<function=complete_task>\n<parameter=task_id>\n3\n</parameter>\n</function>\n</tool_call>")
	if !ok || len(calls) != 1 {
		t.Fatalf("function body: got %v, %v", calls, ok)
	}
	if calls[0].Name != "complete_task" || calls[0].Arguments["task_id"] != float64(3) {
		t.Errorf("unexpected call: %+v", calls[0])
	}

	calls, ok = ParseLeakedXMLToolCalls("<function=add_task><parameter=title>Buy bread</parameter></function>")
	if !ok || calls[0].Arguments["title"] != "Buy bread" {
		t.Errorf("unwrapped function block: got %v, %v", calls, ok)
	}

	if _, ok := ParseLeakedXMLToolCalls("no tags here"); ok {
		t.Error("expected no calls")
	}
	if _, ok := ParseLeakedXMLToolCalls("<tool_call>unterminated"); ok {
		t.Error("expected no calls for unterminated block")
	}
}
