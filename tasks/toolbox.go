package tasks

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Store persists tasks. Every method is scoped by userID; a task owned by a
// different user must behave exactly like a missing one (ErrNotFound).
type Store interface {
	CreateTask(ctx context.Context, userID, title, description string) (Task, error)
	// ListTasks returns tasks in insertion order.
	ListTasks(ctx context.Context, userID string, status StatusFilter) ([]Task, error)
	CompleteTask(ctx context.Context, userID string, id int64) (Task, error)
	// DeleteTask returns the snapshot the task had before deletion.
	DeleteTask(ctx context.Context, userID string, id int64) (Task, error)
	UpdateTask(ctx context.Context, userID string, id int64, title, description *string) (Task, error)
}

// Result is the output shape of a successful operation. Single-task
// operations set Task; list sets Tasks.
type Result struct {
	Task  *Task
	Tasks []Task
}

// Value returns the result as recorded in tool call logs.
func (r Result) Value() any {
	if r.Task != nil {
		return *r.Task
	}
	if r.Tasks == nil {
		return []Task{}
	}
	return r.Tasks
}

// Toolbox validates calls and executes them against a Store.
type Toolbox struct {
	store Store
}

func NewToolbox(store Store) *Toolbox {
	return &Toolbox{store: store}
}

// Invoke runs one call on behalf of userID.
func (tb *Toolbox) Invoke(ctx context.Context, userID string, call Call) (Result, error) {
	if strings.TrimSpace(userID) == "" {
		return Result{}, &ValidationError{Field: UserIDField, Reason: "is required"}
	}

	switch c := call.(type) {
	case CreateCall:
		task, err := tb.Create(ctx, userID, c.Title, c.Description)
		return single(task, err)
	case ListCall:
		list, err := tb.List(ctx, userID, c.Status)
		if err != nil {
			return Result{}, err
		}
		return Result{Tasks: list}, nil
	case CompleteCall:
		task, err := tb.Complete(ctx, userID, c.TaskID)
		return single(task, err)
	case DeleteCall:
		task, err := tb.Delete(ctx, userID, c.TaskID)
		return single(task, err)
	case UpdateCall:
		task, err := tb.Update(ctx, userID, c.TaskID, c.Title, c.Description)
		return single(task, err)
	case nil:
		return Result{}, fmt.Errorf("nil call")
	default:
		return Result{}, fmt.Errorf("unsupported call type %T", call)
	}
}

func single(task Task, err error) (Result, error) {
	if err != nil {
		return Result{}, err
	}
	return Result{Task: &task}, nil
}

func (tb *Toolbox) Create(ctx context.Context, userID, title, description string) (Task, error) {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return Task{}, err
	}
	if err := validateDescription(description); err != nil {
		return Task{}, err
	}
	return tb.store.CreateTask(ctx, userID, title, description)
}

func (tb *Toolbox) List(ctx context.Context, userID string, status StatusFilter) ([]Task, error) {
	if status == "" {
		status = StatusAll
	}
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, err
	}
	list, err := tb.store.ListTasks(ctx, userID, status)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []Task{}
	}
	return list, nil
}

// Complete marks a task done. Completing an already completed task succeeds
// and returns its unchanged state.
func (tb *Toolbox) Complete(ctx context.Context, userID string, id int64) (Task, error) {
	return tb.store.CompleteTask(ctx, userID, id)
}

func (tb *Toolbox) Delete(ctx context.Context, userID string, id int64) (Task, error) {
	return tb.store.DeleteTask(ctx, userID, id)
}

func (tb *Toolbox) Update(ctx context.Context, userID string, id int64, title, description *string) (Task, error) {
	if title == nil && description == nil {
		return Task{}, &ValidationError{Reason: "title or description is required"}
	}
	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if err := validateTitle(trimmed); err != nil {
			return Task{}, err
		}
		title = &trimmed
	}
	if description != nil {
		if err := validateDescription(*description); err != nil {
			return Task{}, err
		}
	}
	return tb.store.UpdateTask(ctx, userID, id, title, description)
}

func validateTitle(title string) error {
	switch n := utf8.RuneCountInString(title); {
	case n == 0:
		return &ValidationError{Field: "title", Reason: "is required"}
	case n > MaxTitleLength:
		return &ValidationError{Field: "title", Reason: fmt.Sprintf("must be at most %d characters", MaxTitleLength)}
	}
	return nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return &ValidationError{Field: "description", Reason: fmt.Sprintf("must be at most %d characters", MaxDescriptionLength)}
	}
	return nil
}
