package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// recordingStore captures what reaches the store so validation can be
// checked without a database.
type recordingStore struct {
	created []string
	updated int
}

func (s *recordingStore) CreateTask(ctx context.Context, userID, title, description string) (Task, error) {
	s.created = append(s.created, title)
	return Task{ID: int64(len(s.created)), UserID: userID, Title: title, Description: description}, nil
}

func (s *recordingStore) ListTasks(ctx context.Context, userID string, status StatusFilter) ([]Task, error) {
	return nil, nil
}

func (s *recordingStore) CompleteTask(ctx context.Context, userID string, id int64) (Task, error) {
	return Task{}, ErrNotFound
}

func (s *recordingStore) DeleteTask(ctx context.Context, userID string, id int64) (Task, error) {
	return Task{}, ErrNotFound
}

func (s *recordingStore) UpdateTask(ctx context.Context, userID string, id int64, title, description *string) (Task, error) {
	s.updated++
	return Task{ID: id, UserID: userID, Title: *title}, nil
}

func TestToolboxCreateValidation(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		wantErr     bool
	}{
		{"valid", "Buy groceries", "", false},
		{"trimmed", "  Buy groceries  ", "", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"max length", strings.Repeat("a", MaxTitleLength), "", false},
		{"too long", strings.Repeat("a", MaxTitleLength+1), "", true},
		{"multibyte at limit", strings.Repeat("é", MaxTitleLength), "", false},
		{"description too long", "ok", strings.Repeat("d", MaxDescriptionLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &recordingStore{}
			tb := NewToolbox(store)

			task, err := tb.Create(context.Background(), "user-1", tt.title, tt.description)
			if tt.wantErr {
				if !IsValidation(err) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if len(store.created) != 0 {
					t.Errorf("invalid task reached the store")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if task.Title != strings.TrimSpace(tt.title) {
				t.Errorf("title = %q, want %q", task.Title, strings.TrimSpace(tt.title))
			}
		})
	}
}

func TestToolboxUpdateRequiresAField(t *testing.T) {
	store := &recordingStore{}
	tb := NewToolbox(store)

	_, err := tb.Update(context.Background(), "user-1", 1, nil, nil)
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	empty := ""
	_, err = tb.Update(context.Background(), "user-1", 1, &empty, nil)
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError for empty title, got %v", err)
	}

	if store.updated != 0 {
		t.Errorf("store was called %d times, want 0", store.updated)
	}
}

func TestToolboxInvoke(t *testing.T) {
	tb := NewToolbox(&recordingStore{})
	ctx := context.Background()

	res, err := tb.Invoke(ctx, "user-1", CreateCall{Title: "Walk dog"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Task == nil || res.Task.Title != "Walk dog" {
		t.Errorf("unexpected create result: %+v", res)
	}

	res, err = tb.Invoke(ctx, "user-1", ListCall{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Tasks == nil {
		t.Error("list result must be an empty slice, not nil")
	}

	_, err = tb.Invoke(ctx, "user-1", CompleteCall{TaskID: 9})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err = tb.Invoke(ctx, "", CreateCall{Title: "x"})
	if !IsValidation(err) {
		t.Errorf("expected ValidationError for missing user, got %v", err)
	}

	if _, err := tb.Invoke(ctx, "user-1", nil); err == nil {
		t.Error("expected error for nil call")
	}
}

func TestStatusFilterMatches(t *testing.T) {
	done := Task{Completed: true}
	open := Task{}

	if !StatusAll.Matches(done) || !StatusAll.Matches(open) {
		t.Error("all must match every task")
	}
	if StatusPending.Matches(done) || !StatusPending.Matches(open) {
		t.Error("pending must match only open tasks")
	}
	if !StatusCompleted.Matches(done) || StatusCompleted.Matches(open) {
		t.Error("completed must match only done tasks")
	}
}
