package tasks

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// UserIDField is accepted in model and MCP arguments but always replaced by
// the caller's own user id.
const UserIDField = "user_id"

var toolDescriptions = map[Operation]string{
	OpCreate:   "Create a new task in the user's todo list",
	OpList:     "Retrieve the user's tasks, optionally filtered by status",
	OpComplete: "Mark a task as complete",
	OpDelete:   "Remove a task from the list",
	OpUpdate:   "Modify a task's title or description",
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func integerProp(description string) map[string]any {
	return map[string]any{"type": "integer", "description": description}
}

func properties(op Operation) map[string]any {
	switch op {
	case OpCreate:
		return map[string]any{
			"title":       stringProp("The title of the task (1-200 characters)"),
			"description": stringProp("Optional description of the task (up to 1000 characters)"),
		}
	case OpList:
		status := stringProp("Filter: 'all', 'pending', or 'completed'")
		status["enum"] = []any{string(StatusAll), string(StatusPending), string(StatusCompleted)}
		return map[string]any{"status": status}
	case OpComplete:
		return map[string]any{"task_id": integerProp("The ID of the task to mark as completed")}
	case OpDelete:
		return map[string]any{"task_id": integerProp("The ID of the task to delete")}
	case OpUpdate:
		return map[string]any{
			"task_id":     integerProp("The ID of the task to update"),
			"title":       stringProp("New title for the task"),
			"description": stringProp("New description for the task"),
		}
	default:
		return map[string]any{}
	}
}

func required(op Operation) []string {
	switch op {
	case OpCreate:
		return []string{"title"}
	case OpComplete, OpDelete, OpUpdate:
		return []string{"task_id"}
	default:
		return []string{}
	}
}

// Tool returns the declared schema of a single operation.
func Tool(op Operation) mcptypes.Tool {
	return mcptypes.Tool{
		Name:        op.ToolName(),
		Description: toolDescriptions[op],
		InputSchema: mcptypes.ToolInputSchema{
			Type:       "object",
			Properties: properties(op),
			Required:   required(op),
		},
	}
}

// Tools returns the schema of every operation, in declaration order.
func Tools() []mcptypes.Tool {
	tools := make([]mcptypes.Tool, 0, len(Operations))
	for _, op := range Operations {
		tools = append(tools, Tool(op))
	}
	return tools
}

// DecodeCall validates untrusted arguments against the operation's declared
// schema and builds the typed call. Unknown fields are rejected, types are
// checked, and any user_id is dropped.
func DecodeCall(op Operation, args map[string]any) (Call, error) {
	if !op.Valid() {
		return nil, fmt.Errorf("unknown operation %s", op)
	}

	props := properties(op)
	var unknown []string
	for key := range args {
		if key == UserIDField {
			continue
		}
		if _, ok := props[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &ValidationError{Reason: "unknown field(s): " + strings.Join(unknown, ", ")}
	}

	for _, field := range required(op) {
		if v, ok := args[field]; !ok || v == nil {
			return nil, &ValidationError{Field: field, Reason: "is required"}
		}
	}

	switch op {
	case OpCreate:
		title, _, err := stringArg(args, "title")
		if err != nil {
			return nil, err
		}
		desc, _, err := stringArg(args, "description")
		if err != nil {
			return nil, err
		}
		return CreateCall{Title: title, Description: desc}, nil

	case OpList:
		raw, _, err := stringArg(args, "status")
		if err != nil {
			return nil, err
		}
		status, err := ParseStatus(raw)
		if err != nil {
			return nil, err
		}
		return ListCall{Status: status}, nil

	case OpComplete:
		id, err := integerArg(args, "task_id")
		if err != nil {
			return nil, err
		}
		return CompleteCall{TaskID: id}, nil

	case OpDelete:
		id, err := integerArg(args, "task_id")
		if err != nil {
			return nil, err
		}
		return DeleteCall{TaskID: id}, nil

	case OpUpdate:
		id, err := integerArg(args, "task_id")
		if err != nil {
			return nil, err
		}
		call := UpdateCall{TaskID: id}
		if title, ok, err := stringArg(args, "title"); err != nil {
			return nil, err
		} else if ok {
			call.Title = &title
		}
		if desc, ok, err := stringArg(args, "description"); err != nil {
			return nil, err
		} else if ok {
			call.Description = &desc
		}
		return call, nil
	}

	return nil, fmt.Errorf("unknown operation %s", op)
}

// stringArg returns the string value of key. A missing or null value is
// reported as absent.
func stringArg(args map[string]any, key string) (string, bool, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, &ValidationError{Field: key, Reason: fmt.Sprintf("must be a string (got %T)", v)}
	}
	return s, true, nil
}

// integerArg accepts the shapes models actually emit for integer fields:
// JSON numbers with an integral value and strings of digits.
func integerArg(args map[string]any, key string) (int64, error) {
	invalid := func(v any) error {
		return &ValidationError{Field: key, Reason: fmt.Sprintf("must be an integer (got %v)", v)}
	}

	switch v := args[key].(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.Abs(v) > math.MaxInt64/2 {
			return 0, invalid(v)
		}
		return int64(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, invalid(v)
		}
		return n, nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, invalid(v)
		}
		return n, nil
	default:
		return 0, invalid(v)
	}
}
