package provider

import (
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// buildToolInstructions is the system prompt prepended whenever task tools
// are offered. Models call at most one tool per request.
func buildToolInstructions(tools []mcptypes.Tool) string {
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name)
	}

	return strings.Join([]string{
		"You manage the user's todo list. TOOLS: " + strings.Join(names, ", "),
		"",
		"When the user asks to add, list, complete, delete or change a task:",
		"1. Pick the single tool that does it",
		"2. If every required parameter is known, call the tool immediately",
		"3. If a task id is missing, ask for it instead of guessing",
		"",
		"DO NOT:",
		"- Call more than one tool",
		"- Invent task ids",
		"- Pass a user_id; it is filled in for you",
		"",
		"Example:",
		"User: 'Add task to buy groceries'",
		"You: [call add_task(title='Buy groceries')]",
	}, "\n")
}
