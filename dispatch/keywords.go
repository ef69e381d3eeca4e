package dispatch

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"taskchat/tasks"
)

// minTitleLength is the shortest title the keyword path will create.
const minTitleLength = 4

var (
	createTriggers = []string{
		"add a task to", "add task to", "add task", "create a task to",
		"create task", "new task", "remember to", "i need to", "add ",
	}
	listTriggers = []string{
		"list tasks", "show tasks", "my tasks", "get tasks", "what tasks",
		"all tasks", "completed tasks", "pending tasks", "incomplete tasks",
		"show completed", "show pending",
	}
	completeTriggers = []string{"complete task", "mark done", "mark as done", "mark completed", "finish task"}
	deleteTriggers   = []string{"delete task", "remove task"}
	updateTriggers   = []string{"update task", "rename task", "edit task"}
)

// matchKeywords applies the fallback rules. The bool reports whether any
// category matched; a matched create with too short a title still returns
// true with the help reply.
func matchKeywords(utterance string) (Outcome, bool) {
	lower := strings.ToLower(utterance)

	if title, ok := extractTitle(utterance); ok {
		if utf8.RuneCountInString(title) < minTitleLength {
			return noAction(helpReply), true
		}
		return action(SourceKeywords, tasks.CreateCall{Title: title}), true
	}

	if containsAny(lower, listTriggers) {
		return action(SourceKeywords, tasks.ListCall{Status: listStatus(lower)}), true
	}
	if containsAny(lower, completeTriggers) {
		return clarify(clarifyReply("complete")), true
	}
	if containsAny(lower, deleteTriggers) {
		return clarify(clarifyReply("delete")), true
	}
	if containsAny(lower, updateTriggers) {
		return clarify(clarifyReply("update")), true
	}

	return Outcome{}, false
}

// extractTitle finds the first create trigger, in trigger order, and
// returns the cleaned, title-cased remainder.
func extractTitle(utterance string) (string, bool) {
	for _, trigger := range createTriggers {
		if _, end, ok := indexFold(utterance, trigger); ok {
			return cleanTitle(utterance[end:]), true
		}
	}
	return "", false
}

// indexFold reports the byte span of the first case-insensitive match of
// substr in s. Windows are measured in runes of s itself, so the span is
// always on rune boundaries of s whatever the case mapping does to widths.
func indexFold(s, substr string) (start, end int, ok bool) {
	n := utf8.RuneCountInString(substr)
	for i := range s {
		j := i
		for k := 0; k < n && j < len(s); k++ {
			_, size := utf8.DecodeRuneInString(s[j:])
			j += size
		}
		if strings.EqualFold(s[i:j], substr) {
			return i, j, true
		}
	}
	return 0, 0, false
}

func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, ":-")
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ".")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return cases.Title(language.Und).String(s)
}

func listStatus(lower string) tasks.StatusFilter {
	switch {
	case strings.Contains(lower, "completed"):
		return tasks.StatusCompleted
	case strings.Contains(lower, "pending"), strings.Contains(lower, "incomplete"):
		return tasks.StatusPending
	default:
		return tasks.StatusAll
	}
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
