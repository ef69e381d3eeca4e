package ui

import (
	"fmt"
	"regexp"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"taskchat/model"
)

var mdLinkRegex = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)

// entry is one line of the transcript as displayed.
type entry struct {
	turn     model.Turn
	rendered string
	failed   bool
}

// renderMarkdown renders content for a terminal of the given width. Replies
// are line oriented ("[X] Write report"), so single newlines are kept as
// hard breaks.
func renderMarkdown(content string, width int) string {
	if width < 20 {
		width = 20
	}
	content = mdLinkRegex.ReplaceAllString(content, "$2")

	ext := (markdown.Extensions() | parser.HardLineBreak) &^ parser.Autolink
	p := parser.NewWithExtensions(ext)
	doc := p.Parse([]byte(content))
	rendered := gomarkdown.Render(doc, markdown.NewRenderer(width-4, 0))
	return strings.TrimRight(string(rendered), "\n")
}

func renderCmd(index int, content string, width int) tea.Cmd {
	return func() tea.Msg {
		return renderedMsg{index: index, rendered: renderMarkdown(content, width)}
	}
}

func formatEntry(e entry) string {
	timestamp := DimStyle.Render(e.turn.Timestamp.Local().Format("[15:04]"))

	body := e.rendered
	if body == "" {
		body = e.turn.Content
	}

	switch {
	case e.failed:
		return fmt.Sprintf("%s %s\n%s\n\n", timestamp, ErrorStyle.Render("Error"), ErrorStyle.Render(e.turn.Content))
	case e.turn.Role == model.RoleUser:
		var b strings.Builder
		fmt.Fprintf(&b, "%s %s\n", timestamp, UserStyle.Render("You"))
		for _, line := range strings.Split(body, "\n") {
			b.WriteString(UserStyle.Render("│ ") + line + "\n")
		}
		b.WriteString("\n")
		return b.String()
	default:
		return fmt.Sprintf("%s %s%s\n%s\n\n", timestamp, AssistantStyle.Render("Assistant"), toolSummary(e.turn), body)
	}
}

// toolSummary names the operation an assistant turn ran, if any.
func toolSummary(t model.Turn) string {
	if len(t.ToolCalls) == 0 {
		return ""
	}
	call := t.ToolCalls[0]
	if call.Failed() {
		return DimStyle.Render(" · ") + ErrorStyle.Render(call.Name+" failed")
	}
	return DimStyle.Render(" · " + call.Name)
}
