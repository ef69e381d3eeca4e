package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

func helpLine(b key.Binding) string {
	h := b.Help()
	return fmt.Sprintf("• %-9s %s", h.Key, h.Desc)
}

func (c ChatView) renderHelp() string {
	green := lipgloss.NewStyle().Bold(true).Foreground(successColor)
	blue := lipgloss.NewStyle().Foreground(accentColor)

	keys := lipgloss.JoinVertical(lipgloss.Left,
		blue.Render("## Keys"),
		helpLine(c.keys.Send),
		helpLine(c.keys.YankLast),
		helpLine(c.keys.YankAll),
		helpLine(c.keys.PageUp),
		helpLine(c.keys.PageDown),
		helpLine(c.keys.Help),
		helpLine(c.keys.Quit),
	)

	commands := lipgloss.JoinVertical(lipgloss.Left,
		blue.Render("## Commands"),
		"• /find <text>  Search past conversations",
		"• /help         Toggle this help",
	)

	examples := lipgloss.JoinVertical(lipgloss.Left,
		blue.Render("## Try"),
		`• "Add task to buy groceries"`,
		`• "Show completed tasks"`,
	)

	body := lipgloss.JoinVertical(lipgloss.Left,
		green.Render("taskchat - Keyboard Shortcuts"), "",
		keys, "",
		commands, "",
		examples, "",
		FormatFooter("Esc", "Close"),
	)
	return ModalStyle.Render(body)
}
