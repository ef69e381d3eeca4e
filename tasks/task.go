// Package tasks defines the task tool interface: the fixed set of operations
// the dispatcher may run against a user's task list, their declared input
// schemas, and the validation rules shared by every caller (the chat
// dispatcher and the MCP server).
//
// Every operation is scoped by a user id supplied by the caller context. The
// id is never read from model output or utterance text.
package tasks

import (
	"fmt"
	"strings"
	"time"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
)

// Task is a snapshot of a stored task.
type Task struct {
	ID          int64     `json:"id" yaml:"id"`
	UserID      string    `json:"user_id" yaml:"user_id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Completed   bool      `json:"completed" yaml:"completed"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// StatusFilter selects tasks by completion state.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusPending   StatusFilter = "pending"
	StatusCompleted StatusFilter = "completed"
)

// ParseStatus maps a user or model supplied status to a StatusFilter.
// An empty string means all.
func ParseStatus(s string) (StatusFilter, error) {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusPending:
		return StatusPending, nil
	case StatusCompleted:
		return StatusCompleted, nil
	default:
		return "", &ValidationError{Field: "status", Reason: fmt.Sprintf("must be one of all, pending, completed (got %q)", s)}
	}
}

// Matches reports whether a task passes the filter.
func (f StatusFilter) Matches(t Task) bool {
	switch f {
	case StatusPending:
		return !t.Completed
	case StatusCompleted:
		return t.Completed
	default:
		return true
	}
}

// Operation is one member of the closed task operation set.
type Operation int

const (
	OpCreate Operation = iota + 1
	OpList
	OpComplete
	OpDelete
	OpUpdate
)

// Operations lists every operation in declaration order.
var Operations = []Operation{OpCreate, OpList, OpComplete, OpDelete, OpUpdate}

// String returns the canonical operation name recorded in tool call logs.
func (o Operation) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpList:
		return "list"
	case OpComplete:
		return "complete"
	case OpDelete:
		return "delete"
	case OpUpdate:
		return "update"
	default:
		return fmt.Sprintf("operation(%d)", int(o))
	}
}

// ToolName returns the name the operation is advertised under to language
// models and MCP clients.
func (o Operation) ToolName() string {
	switch o {
	case OpCreate:
		return "add_task"
	case OpList:
		return "list_tasks"
	case OpComplete:
		return "complete_task"
	case OpDelete:
		return "delete_task"
	case OpUpdate:
		return "update_task"
	default:
		return ""
	}
}

// Valid reports whether o is a member of the operation set.
func (o Operation) Valid() bool {
	return o >= OpCreate && o <= OpUpdate
}

// ParseOperation resolves a canonical name ("create") or tool name
// ("add_task"). Lookup is case-insensitive.
func ParseOperation(name string) (Operation, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, op := range Operations {
		if name == op.String() || name == op.ToolName() {
			return op, true
		}
	}
	return 0, false
}
