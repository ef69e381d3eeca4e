package dispatch

import (
	"errors"
	"fmt"
	"strings"

	"taskchat/tasks"
)

const (
	helpReply = `I'm your AI task assistant! I can help you:
- Add tasks: "Add task to buy groceries"
- List tasks: "Show my tasks" or "Show completed tasks"
- Complete tasks: "Complete task 3"
- Delete tasks: "Delete task 3"

What would you like to do?`

	genericFailureReply = "I couldn't do that."
	oneAtATimeReply     = "I couldn't do that. Please ask for one thing at a time."
)

func clarifyReply(verb string) string {
	return fmt.Sprintf("To %s a task, please provide the task ID or title. For example: '%s task 3' or '%s task Buy groceries'", verb, verb, verb)
}

// successReply renders the fixed template for a completed operation.
func successReply(call tasks.Call, res tasks.Result, listLimit int) string {
	switch c := call.(type) {
	case tasks.CreateCall:
		return "Added task: " + res.Task.Title
	case tasks.ListCall:
		return listReply(res.Tasks, c.Status, listLimit)
	case tasks.CompleteCall:
		return fmt.Sprintf("Marked task %d as complete: %s", res.Task.ID, res.Task.Title)
	case tasks.DeleteCall:
		return fmt.Sprintf("Deleted task %d: %s", res.Task.ID, res.Task.Title)
	case tasks.UpdateCall:
		return fmt.Sprintf("Updated task %d: %s", res.Task.ID, res.Task.Title)
	default:
		return genericFailureReply
	}
}

func listReply(list []tasks.Task, status tasks.StatusFilter, limit int) string {
	if len(list) == 0 {
		if status == "" || status == tasks.StatusAll {
			return "You have no tasks"
		}
		return fmt.Sprintf("You have no %s tasks", status)
	}

	label := string(status)
	if status == "" || status == tasks.StatusAll {
		label = "total"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here are your %d %s task(s):\n\n", len(list), label)
	for i, t := range list {
		if limit > 0 && i >= limit {
			break
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		mark := "[ ]"
		if t.Completed {
			mark = "[X]"
		}
		b.WriteString(mark + " " + t.Title)
	}
	return b.String()
}

// failureReply describes a failed operation by operation and reason class
// only.
func failureReply(call tasks.Call, err error) string {
	if errors.Is(err, tasks.ErrNotFound) {
		if id, ok := taskID(call); ok {
			return fmt.Sprintf("I couldn't find task %d.", id)
		}
		return genericFailureReply
	}

	var ve *tasks.ValidationError
	if errors.As(err, &ve) {
		reason := ve.Reason
		if ve.Field != "" {
			reason = ve.Field + " " + ve.Reason
		}
		return fmt.Sprintf("I couldn't %s that task: %s.", verb(call.Operation()), reason)
	}

	return genericFailureReply
}

// errorClass is the error recorded on a failed tool call.
func errorClass(err error) string {
	switch {
	case errors.Is(err, tasks.ErrNotFound):
		return tasks.ErrNotFound.Error()
	case tasks.IsValidation(err):
		return err.Error()
	default:
		return "internal error"
	}
}

func verb(op tasks.Operation) string {
	switch op {
	case tasks.OpCreate:
		return "add"
	case tasks.OpList:
		return "list"
	default:
		return op.String()
	}
}

func taskID(call tasks.Call) (int64, bool) {
	switch c := call.(type) {
	case tasks.CompleteCall:
		return c.TaskID, true
	case tasks.DeleteCall:
		return c.TaskID, true
	case tasks.UpdateCall:
		return c.TaskID, true
	default:
		return 0, false
	}
}
