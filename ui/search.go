package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"taskchat/storage"
)

const searchLimit = 20

// Searcher finds past turns for a user.
type Searcher interface {
	Search(ctx context.Context, userID, query string, limit int) ([]storage.TurnMatch, error)
}

type searchState struct {
	active   bool
	query    string
	results  []storage.TurnMatch
	selected int
	err      error
}

func (c ChatView) searchCmd(query string) tea.Cmd {
	searcher, userID := c.searcher, c.userID
	return func() tea.Msg {
		matches, err := searcher.Search(context.Background(), userID, query, searchLimit)
		return searchResultsMsg{query: query, matches: matches, err: err}
	}
}

func (s *searchState) move(delta int) {
	if len(s.results) == 0 {
		return
	}
	s.selected = (s.selected + delta + len(s.results)) % len(s.results)
}

func (c ChatView) renderSearch() string {
	width := c.width - 8
	if width > 96 {
		width = 96
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Search: ") + HighlightStyle.Render(c.search.query) + "\n\n")

	switch {
	case c.search.err != nil:
		b.WriteString(ErrorStyle.Render("Search failed: " + c.search.err.Error()))
	case c.search.results == nil:
		b.WriteString(DimStyle.Render("Searching..."))
	case len(c.search.results) == 0:
		b.WriteString(DimStyle.Render("No matches found"))
	default:
		fmt.Fprintf(&b, "Found %d matches:\n\n", len(c.search.results))
		for i, m := range c.search.results {
			roleStyle := UserStyle
			if m.Role == "assistant" {
				roleStyle = AssistantStyle
			}
			header := fmt.Sprintf("%s %s %s",
				roleStyle.Render(m.Role),
				DimStyle.Render(m.Timestamp.Local().Format("Jan 2, 3:04 PM")),
				DimStyle.Render(truncate(m.ConversationTitle, 30)),
			)
			line := "  " + truncate(m.Preview, width-4)
			if i == c.search.selected {
				line = SelectedStyle.Render("▶ " + truncate(m.Preview, width-4))
			}
			b.WriteString(header + "\n" + line + "\n\n")
		}
	}

	b.WriteString("\n" + FormatFooter("↑/↓", "Navigate", "Esc", "Close"))
	return ModalStyle.Width(width).Render(b.String())
}
