// Package ui is the interactive terminal chat over the dispatcher.
package ui

import (
	"context"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"taskchat/dispatch"
	"taskchat/model"
	"taskchat/storage"
)

// Handler runs one utterance. *dispatch.Dispatcher satisfies it.
type Handler interface {
	Handle(ctx context.Context, req dispatch.Request) (dispatch.Result, error)
}

type (
	replyMsg    struct{ result dispatch.Result }
	replyErrMsg struct{ err error }
	renderedMsg struct {
		index    int
		rendered string
	}
	searchResultsMsg struct {
		query   string
		matches []storage.TurnMatch
		err     error
	}
)

type Options struct {
	Handler        Handler
	Searcher       Searcher
	UserID         string
	ConversationID string
	History        []model.Turn
	Logger         *zap.Logger
}

type ChatView struct {
	handler        Handler
	searcher       Searcher
	userID         string
	conversationID string
	logger         *zap.Logger

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	keys     keyMap

	entries []entry
	width   int
	height  int
	ready   bool

	waiting  bool
	showHelp bool
	search   searchState
	status   string
}

func NewChatView(opts Options) ChatView {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ta := textarea.New()
	ta.Placeholder = "Tell me what to do with your tasks..."
	ta.Prompt = "┃ "
	ta.CharLimit = 2000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = AssistantStyle

	entries := make([]entry, 0, len(opts.History))
	for _, t := range opts.History {
		entries = append(entries, entry{turn: t})
	}

	return ChatView{
		handler:        opts.Handler,
		searcher:       opts.Searcher,
		userID:         opts.UserID,
		conversationID: opts.ConversationID,
		logger:         logger.Named("ui"),
		textarea:       ta,
		spinner:        sp,
		keys:           defaultKeyMap(),
		entries:        entries,
	}
}

// Run starts the chat in the alternate screen and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(NewChatView(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (c ChatView) Init() tea.Cmd {
	return textarea.Blink
}

func (c ChatView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width, c.height = msg.Width, msg.Height
		vh := msg.Height - c.textarea.Height() - 2
		if vh < 3 {
			vh = 3
		}
		if !c.ready {
			c.viewport = viewport.New(msg.Width, vh)
			c.ready = true
		} else {
			c.viewport.Width = msg.Width
			c.viewport.Height = vh
		}
		c.textarea.SetWidth(msg.Width)
		c.refresh(true)
		return c, c.renderAll()

	case tea.KeyMsg:
		return c.handleKey(msg)

	case replyMsg:
		c.waiting = false
		c.conversationID = msg.result.ConversationID
		return c, c.appendEntry(entry{turn: model.Turn{
			Role:       model.RoleAssistant,
			Content:    msg.result.Reply,
			ToolCalls:  msg.result.ToolCalls,
			TaskDeltas: msg.result.TaskDeltas,
			Timestamp:  time.Now(),
		}})

	case replyErrMsg:
		c.waiting = false
		c.logger.Error("dispatch failed", zap.Error(msg.err))
		c.entries = append(c.entries, entry{
			turn:   model.Turn{Role: model.RoleAssistant, Content: msg.err.Error(), Timestamp: time.Now()},
			failed: true,
		})
		c.refresh(true)
		return c, nil

	case renderedMsg:
		if msg.index >= 0 && msg.index < len(c.entries) {
			c.entries[msg.index].rendered = msg.rendered
			c.refresh(c.viewport.AtBottom())
		}
		return c, nil

	case searchResultsMsg:
		if c.search.active && msg.query == c.search.query {
			c.search.err = msg.err
			c.search.results = msg.matches
			if c.search.results == nil {
				c.search.results = []storage.TurnMatch{}
			}
		}
		return c, nil

	case spinner.TickMsg:
		if !c.waiting {
			return c, nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd
	}

	var cmd tea.Cmd
	c.textarea, cmd = c.textarea.Update(msg)
	return c, cmd
}

func (c ChatView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, c.keys.Quit) {
		return c, tea.Quit
	}

	if c.showHelp {
		if key.Matches(msg, c.keys.Close, c.keys.Help) {
			c.showHelp = false
		}
		return c, nil
	}

	if c.search.active {
		switch {
		case key.Matches(msg, c.keys.Close):
			c.search = searchState{}
		case key.Matches(msg, c.keys.Up):
			c.search.move(-1)
		case key.Matches(msg, c.keys.Down):
			c.search.move(1)
		}
		return c, nil
	}

	switch {
	case key.Matches(msg, c.keys.Help):
		c.showHelp = true
		return c, nil
	case key.Matches(msg, c.keys.YankLast):
		c.yank(c.lastReply(), "Copied last reply")
		return c, nil
	case key.Matches(msg, c.keys.YankAll):
		c.yank(c.transcript(), "Copied conversation")
		return c, nil
	case key.Matches(msg, c.keys.PageUp, c.keys.PageDown):
		var cmd tea.Cmd
		c.viewport, cmd = c.viewport.Update(msg)
		return c, cmd
	case key.Matches(msg, c.keys.Send):
		return c.submit()
	}

	var cmd tea.Cmd
	c.textarea, cmd = c.textarea.Update(msg)
	return c, cmd
}

func (c ChatView) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(c.textarea.Value())
	if text == "" || c.waiting {
		return c, nil
	}
	c.textarea.Reset()
	c.status = ""

	switch {
	case text == "/help":
		c.showHelp = true
		return c, nil
	case text == "/find" || strings.HasPrefix(text, "/find "):
		query := strings.TrimSpace(strings.TrimPrefix(text, "/find"))
		if query == "" {
			c.status = "Usage: /find <text>"
			return c, nil
		}
		if c.searcher == nil {
			c.status = "Search is unavailable"
			return c, nil
		}
		c.search = searchState{active: true, query: query}
		return c, c.searchCmd(query)
	}

	c.waiting = true
	render := c.appendEntry(entry{turn: model.Turn{Role: model.RoleUser, Content: text, Timestamp: time.Now()}})
	return c, tea.Batch(render, c.dispatchCmd(text), c.spinner.Tick)
}

func (c ChatView) dispatchCmd(text string) tea.Cmd {
	handler := c.handler
	req := dispatch.Request{UserID: c.userID, Text: text, ConversationID: c.conversationID}
	return func() tea.Msg {
		res, err := handler.Handle(context.Background(), req)
		if err != nil {
			return replyErrMsg{err: err}
		}
		return replyMsg{result: res}
	}
}

func (c *ChatView) appendEntry(e entry) tea.Cmd {
	c.entries = append(c.entries, e)
	c.refresh(true)
	if !c.ready {
		return nil
	}
	return renderCmd(len(c.entries)-1, e.turn.Content, c.width)
}

func (c ChatView) renderAll() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(c.entries))
	for i, e := range c.entries {
		if !e.failed {
			cmds = append(cmds, renderCmd(i, e.turn.Content, c.width))
		}
	}
	return tea.Batch(cmds...)
}

func (c *ChatView) refresh(gotoBottom bool) {
	if !c.ready {
		return
	}
	if len(c.entries) == 0 {
		c.viewport.SetContent(DimStyle.Render(`No messages yet. Try "Add task to buy groceries".`))
		return
	}

	var b strings.Builder
	for _, e := range c.entries {
		b.WriteString(formatEntry(e))
	}
	c.viewport.SetContent(b.String())
	if gotoBottom {
		c.viewport.GotoBottom()
	}
}

func (c ChatView) lastReply() string {
	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i].turn.Role == model.RoleAssistant && !c.entries[i].failed {
			return c.entries[i].turn.Content
		}
	}
	return ""
}

func (c ChatView) transcript() string {
	var b strings.Builder
	for _, e := range c.entries {
		if e.failed {
			continue
		}
		role := "You"
		if e.turn.Role == model.RoleAssistant {
			role = "Assistant"
		}
		b.WriteString(role + ": " + e.turn.Content + "\n\n")
	}
	return strings.TrimSpace(b.String())
}

func (c *ChatView) yank(text, done string) {
	if text == "" {
		c.status = "Nothing to copy"
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		c.logger.Warn("clipboard write failed", zap.Error(err))
		c.status = "Clipboard unavailable"
		return
	}
	c.status = done
}

func (c ChatView) View() string {
	if !c.ready {
		return "Loading..."
	}
	if c.showHelp {
		return lipgloss.Place(c.width, c.height, lipgloss.Center, lipgloss.Center, c.renderHelp())
	}
	if c.search.active {
		return lipgloss.Place(c.width, c.height, lipgloss.Center, lipgloss.Center, c.renderSearch())
	}
	return lipgloss.JoinVertical(lipgloss.Left, c.viewport.View(), c.statusLine(), c.textarea.View())
}

func (c ChatView) statusLine() string {
	switch {
	case c.waiting:
		return c.spinner.View() + StatusStyle.Render(" Working...")
	case c.status != "":
		return StatusStyle.Render(c.status)
	default:
		return FormatFooter("Enter", "Send", "Ctrl+Y", "Copy", "F1", "Help", "Ctrl+C", "Quit")
	}
}
