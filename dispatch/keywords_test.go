package dispatch

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"taskchat/tasks"
)

func TestMatchKeywords(t *testing.T) {
	tests := []struct {
		text     string
		wantKind Kind
		wantCall tasks.Call
		matched  bool
	}{
		{text: "Add task to buy groceries", wantKind: KindAction, wantCall: tasks.CreateCall{Title: "Buy Groceries"}, matched: true},
		{text: "show completed tasks", wantKind: KindAction, wantCall: tasks.ListCall{Status: tasks.StatusCompleted}, matched: true},
		{text: "what tasks are incomplete? pending tasks please", wantKind: KindAction, wantCall: tasks.ListCall{Status: tasks.StatusPending}, matched: true},
		{text: "my tasks", wantKind: KindAction, wantCall: tasks.ListCall{Status: tasks.StatusAll}, matched: true},
		{text: "complete task 3", wantKind: KindClarify, matched: true},
		{text: "remove task groceries", wantKind: KindClarify, matched: true},
		{text: "rename task 2 to laundry", wantKind: KindClarify, matched: true},
		{text: "add x", wantKind: KindNoAction, matched: true},
		{text: "good morning", matched: false},
		{text: "\u212a\u212a add task to buy milk \u023a\u023a\u023a\u023a", wantKind: KindAction, wantCall: tasks.CreateCall{Title: "Buy Milk \u023a\u2c65\u2c65\u2c65"}, matched: true},
		{text: "ADD TASK TO water plants", wantKind: KindAction, wantCall: tasks.CreateCall{Title: "Water Plants"}, matched: true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := matchKeywords(tt.text)
			assert.Equal(t, tt.matched, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantKind, got.Kind)
			if tt.wantCall != nil {
				assert.Equal(t, []tasks.Call{tt.wantCall}, got.Calls)
			} else {
				assert.Empty(t, got.Calls)
			}
		})
	}
}

func TestClarifyReply(t *testing.T) {
	assert.Equal(t,
		"To delete a task, please provide the task ID or title. For example: 'delete task 3' or 'delete task Buy groceries'",
		clarifyReply("delete"))
}

func TestIndexFold(t *testing.T) {
	tests := []struct {
		s, substr  string
		start, end int
		ok         bool
	}{
		{"Add Task to buy", "add task to", 0, 11, true},
		{"\u212a\u212a add task to x", "add task to", 7, 18, true},
		{"\u023a\u023a add task", "add task", 5, 13, true},
		{"nothing here", "add task", 0, 0, false},
	}
	for _, tt := range tests {
		start, end, ok := indexFold(tt.s, tt.substr)
		assert.Equal(t, tt.ok, ok, tt.s)
		assert.Equal(t, tt.start, start, tt.s)
		assert.Equal(t, tt.end, end, tt.s)
		if ok {
			assert.True(t, utf8.ValidString(tt.s[end:]), tt.s)
		}
	}
}
