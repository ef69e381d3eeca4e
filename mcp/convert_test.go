package mcp

import (
	"testing"

	"github.com/ollama/ollama/api"

	"taskchat/tasks"
)

func TestToOllamaTaskTools(t *testing.T) {
	tools := ToOllama(tasks.Tools())
	if len(tools) != len(tasks.Operations) {
		t.Fatalf("expected %d tools, got %d", len(tasks.Operations), len(tools))
	}

	byName := map[string]api.Tool{}
	for _, tool := range tools {
		if tool.Type != "function" {
			t.Errorf("tool %s type = %q, want function", tool.Function.Name, tool.Type)
		}
		byName[tool.Function.Name] = tool
	}

	add, ok := byName["add_task"]
	if !ok {
		t.Fatal("add_task missing")
	}
	if add.Function.Parameters.Type != "object" {
		t.Errorf("parameters type = %q, want object", add.Function.Parameters.Type)
	}
	if len(add.Function.Parameters.Required) != 1 || add.Function.Parameters.Required[0] != "title" {
		t.Errorf("required = %v, want [title]", add.Function.Parameters.Required)
	}
	title := add.Function.Parameters.Properties["title"]
	if len(title.Type) != 1 || title.Type[0] != "string" {
		t.Errorf("title type = %v, want [string]", title.Type)
	}

	status := byName["list_tasks"].Function.Parameters.Properties["status"]
	if len(status.Enum) != 3 {
		t.Errorf("status enum = %v, want 3 values", status.Enum)
	}

	id := byName["complete_task"].Function.Parameters.Properties["task_id"]
	if len(id.Type) != 1 || id.Type[0] != "integer" {
		t.Errorf("task_id type = %v, want [integer]", id.Type)
	}
}

func TestOllamaPropertyShapes(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		validate func(t *testing.T, p api.ToolProperty)
	}{
		{
			name:  "multi type",
			input: map[string]any{"type": []any{"string", "integer"}},
			validate: func(t *testing.T, p api.ToolProperty) {
				if len(p.Type) != 2 {
					t.Errorf("expected 2 types, got %v", p.Type)
				}
			},
		},
		{
			name:  "array items",
			input: map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			validate: func(t *testing.T, p api.ToolProperty) {
				if p.Items == nil {
					t.Error("expected items to be set")
				}
			},
		},
		{
			name:  "not a map",
			input: "string",
			validate: func(t *testing.T, p api.ToolProperty) {
				if len(p.Type) != 0 {
					t.Errorf("expected empty property, got %v", p.Type)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, ollamaProperty(tt.input))
		})
	}
}

func TestSchemaMap(t *testing.T) {
	schema := SchemaMap(tasks.Tool(tasks.OpList))
	if schema["type"] != "object" {
		t.Errorf("type = %v, want object", schema["type"])
	}
	if _, ok := schema["required"]; ok {
		t.Error("list_tasks has no required fields")
	}

	schema = SchemaMap(tasks.Tool(tasks.OpDelete))
	req, ok := schema["required"].([]string)
	if !ok || len(req) != 1 || req[0] != "task_id" {
		t.Errorf("required = %v, want [task_id]", schema["required"])
	}
}

func TestProviderFormatsCoverAllTools(t *testing.T) {
	tools := tasks.Tools()

	if got := ToOpenAI(tools); len(got) != len(tools) {
		t.Errorf("ToOpenAI returned %d tools", len(got))
	}
	if ToOpenAI(nil) != nil {
		t.Error("ToOpenAI(nil) should be nil")
	}

	anth := ToAnthropic(tools)
	if len(anth) != len(tools) {
		t.Fatalf("ToAnthropic returned %d tools", len(anth))
	}
	if anth[0].OfTool == nil || anth[0].OfTool.Name != "add_task" {
		t.Errorf("unexpected first anthropic tool: %+v", anth[0].OfTool)
	}

	gem := ToGemini(tools)
	if len(gem) != 1 || len(gem[0].FunctionDeclarations) != len(tools) {
		t.Fatalf("ToGemini should carry one declaration per tool")
	}
	if gem[0].FunctionDeclarations[4].Name != "update_task" {
		t.Errorf("last declaration = %q, want update_task", gem[0].FunctionDeclarations[4].Name)
	}
}
