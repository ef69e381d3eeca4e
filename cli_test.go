package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskchat/config"
	"taskchat/dispatch"
	"taskchat/ui"
)

func testCLI(t *testing.T) (*cli, *config.Config) {
	t.Helper()
	cfg := &config.Config{
		DataDirectory: t.TempDir(),
		UserID:        "alice",
		Dispatch:      config.DispatchConfig{HistoryLimit: 10, ListLimit: 10},
	}
	c := newCLI()
	c.loadConfig = func() (*config.Config, error) { return cfg, nil }
	c.runChat = func(ui.Options) error { return nil }
	return c, cfg
}

func execute(t *testing.T, c *cli, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(c)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSendCommand(t *testing.T) {
	c, _ := testCLI(t)

	out, err := execute(t, c, "send", "add", "task", "to", "buy", "groceries")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if out != "Added task: Buy Groceries\n" {
		t.Errorf("unexpected output %q", out)
	}

	out, err = execute(t, c, "send", "--json", "show my tasks")
	if err != nil {
		t.Fatalf("send --json failed: %v", err)
	}
	var res dispatch.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(res.ToolCalls) != 1 || res.ToolCalls[0].Name != "list" {
		t.Errorf("unexpected tool calls: %+v", res.ToolCalls)
	}
	if !strings.Contains(res.Reply, "[ ] Buy Groceries") {
		t.Errorf("unexpected reply %q", res.Reply)
	}
}

func TestUserFlagIsolatesTasks(t *testing.T) {
	c, _ := testCLI(t)

	if _, err := execute(t, c, "send", "add task to buy groceries"); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, c, "--user", "bob", "send", "list tasks")
	if err != nil {
		t.Fatal(err)
	}
	if out != "You have no tasks\n" {
		t.Errorf("bob saw alice's tasks: %q", out)
	}
}

func TestHistoryAndConversations(t *testing.T) {
	c, _ := testCLI(t)

	if _, err := execute(t, c, "history"); !errors.Is(err, errNoConversations) {
		t.Errorf("expected errNoConversations, got %v", err)
	}

	if _, err := execute(t, c, "send", "add task to buy groceries"); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, c, "history")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"You: add task to buy groceries", "Assistant: Added task: Buy Groceries", "-> create (ok)"} {
		if !strings.Contains(out, want) {
			t.Errorf("history missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, c, "conversations")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "add task to buy groceries") || !strings.Contains(out, "TURNS") {
		t.Errorf("unexpected conversations output:\n%s", out)
	}
}

func TestExportCommand(t *testing.T) {
	c, _ := testCLI(t)
	if _, err := execute(t, c, "send", "add task to buy groceries"); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "export.yaml")
	out, err := execute(t, c, "export", "--format", "yaml", "-o", path)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(out, "Exported 2 turns") {
		t.Errorf("unexpected output %q", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "role: user") {
		t.Errorf("export is not YAML:\n%s", data)
	}

	if _, err := execute(t, c, "export", "--format", "xml"); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}

func TestChatLoadsLatestConversation(t *testing.T) {
	c, _ := testCLI(t)
	var got ui.Options
	c.runChat = func(opts ui.Options) error {
		got = opts
		return nil
	}

	if _, err := execute(t, c); err != nil {
		t.Fatal(err)
	}
	if got.ConversationID != "" || len(got.History) != 0 {
		t.Errorf("fresh chat should be empty: %+v", got)
	}

	if _, err := execute(t, c, "send", "add task to buy groceries"); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, c, "chat"); err != nil {
		t.Fatal(err)
	}
	if got.ConversationID == "" || len(got.History) != 2 {
		t.Errorf("chat did not resume the conversation: id=%q turns=%d", got.ConversationID, len(got.History))
	}
	if got.UserID != "alice" || got.Handler == nil || got.Searcher == nil {
		t.Errorf("chat options not wired: %+v", got)
	}
}

func TestMissingUserID(t *testing.T) {
	c, cfg := testCLI(t)
	cfg.UserID = ""

	if _, err := execute(t, c, "send", "list tasks"); err == nil {
		t.Error("expected an error without a user id")
	}
}
