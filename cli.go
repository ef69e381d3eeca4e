package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"taskchat/config"
	"taskchat/dispatch"
	"taskchat/mcp"
	"taskchat/model"
	"taskchat/provider"
	"taskchat/storage"
	"taskchat/ui"
)

const historyDisplayLimit = 50

// cli carries the global flags and the seams tests replace.
type cli struct {
	user  string
	debug bool

	loadConfig func() (*config.Config, error)
	runChat    func(opts ui.Options) error
}

func newCLI() *cli {
	return &cli{loadConfig: config.Load, runChat: ui.Run}
}

// setup loads configuration and builds the app. Interactive commands log to
// <data_dir>/debug.log since stdout belongs to the UI or the MCP protocol.
func (c *cli) setup(interactive bool) (*app, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if c.debug {
		cfg.Debug = true
	}

	logger, err := config.NewLogger(cfg.DataDir(), cfg.Debug, interactive)
	if err != nil {
		return nil, err
	}

	userID := cfg.UserID
	if c.user != "" {
		userID = c.user
	}
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("no user id configured; pass --user or set %s", config.EnvUserID)
	}

	return newApp(cfg, logger, userID)
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskchat",
		Short: "Manage your tasks by chatting",
		Long: `taskchat turns plain-language messages into task operations.

Run without arguments to start the interactive chat.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.runChatCmd,
	}
	root.SetVersionTemplate(fmt.Sprintf("taskchat {{.Version}} (%s)\n", License))
	root.PersistentFlags().StringVar(&c.user, "user", "", "user id to act as (defaults to the configured id)")
	root.PersistentFlags().BoolVar(&c.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		&cobra.Command{
			Use:   "chat",
			Short: "Start the interactive chat",
			Args:  cobra.NoArgs,
			RunE:  c.runChatCmd,
		},
		c.sendCmd(),
		c.historyCmd(),
		c.conversationsCmd(),
		c.exportCmd(),
		&cobra.Command{
			Use:   "serve-mcp",
			Short: "Serve the task tools over MCP on stdio",
			Args:  cobra.NoArgs,
			RunE:  c.runServeMCP,
		},
		c.pingCmd(),
	)
	return root
}

func (c *cli) runChatCmd(cmd *cobra.Command, args []string) error {
	a, err := c.setup(true)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := ui.Options{
		Handler:  a.dispatcher,
		Searcher: a.db.Ledger(),
		UserID:   a.userID,
		Logger:   a.logger,
	}

	conv, ok, err := a.conversation(cmd.Context(), "")
	if err != nil {
		return err
	}
	if ok {
		history, err := a.db.Ledger().Recent(cmd.Context(), conv.ID, historyDisplayLimit)
		if err != nil {
			return err
		}
		opts.ConversationID = conv.ID
		opts.History = history
	}

	return c.runChat(opts)
}

func (c *cli) sendCmd() *cobra.Command {
	var (
		asJSON         bool
		conversationID string
	)
	cmd := &cobra.Command{
		Use:   "send <message>",
		Short: "Send one message and print the reply",
		Example: `  taskchat send "add task to buy groceries"
  taskchat send --json "show completed tasks"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.setup(false)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.dispatcher.Handle(cmd.Context(), dispatch.Request{
				UserID:         a.userID,
				Text:           strings.Join(args, " "),
				ConversationID: conversationID,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := json.MarshalIndent(res, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode result: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}
			fmt.Fprintln(out, res.Reply)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	cmd.Flags().StringVarP(&conversationID, "conversation", "c", "", "conversation id (defaults to the most recent)")
	return cmd
}

func (c *cli) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [conversation-id]",
		Short: "Print the turns of a conversation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.setup(false)
			if err != nil {
				return err
			}
			defer a.Close()

			conv, err := a.mustConversation(cmd.Context(), firstArg(args))
			if err != nil {
				return err
			}
			turns, err := a.db.Ledger().Recent(cmd.Context(), conv.ID, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n\n", conv.Title, conv.ID)
			for _, t := range turns {
				fmt.Fprintln(out, formatTurn(t))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", historyDisplayLimit, "number of recent turns to show (0 for all)")
	return cmd
}

func formatTurn(t model.Turn) string {
	role := "You"
	if t.Role == model.RoleAssistant {
		role = "Assistant"
	}
	line := fmt.Sprintf("[%s] %s: %s", t.Timestamp.Local().Format("2006-01-02 15:04"), role, t.Content)
	for _, call := range t.ToolCalls {
		status := "ok"
		if call.Failed() {
			status = call.Error
		}
		line += fmt.Sprintf("\n    -> %s (%s)", call.Name, status)
	}
	return line
}

func (c *cli) conversationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "conversations",
		Short: "List your conversations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.setup(false)
			if err != nil {
				return err
			}
			defer a.Close()

			list, err := a.db.Ledger().Conversations(cmd.Context(), a.userID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No conversations yet.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tTURNS\tUPDATED")
			for _, conv := range list {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", conv.ID, conv.Title, conv.TurnCount, conv.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}

func (c *cli) exportCmd() *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export [conversation-id]",
		Short: "Export a conversation to JSON or YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != storage.FormatJSON && format != storage.FormatYAML {
				return fmt.Errorf("unsupported format %q (use %s or %s)", format, storage.FormatJSON, storage.FormatYAML)
			}

			a, err := c.setup(false)
			if err != nil {
				return err
			}
			defer a.Close()

			conv, err := a.mustConversation(cmd.Context(), firstArg(args))
			if err != nil {
				return err
			}
			exp, err := a.db.Ledger().Export(cmd.Context(), a.userID, conv.ID)
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = storage.GenerateExportPath(conv.Title, format)
			}
			if err := storage.WriteExport(exp, config.ExpandPath(path), format); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d turns to %s\n", len(exp.Turns), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", storage.FormatJSON, "output format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (defaults to ~/Downloads)")
	return cmd
}

func (c *cli) runServeMCP(cmd *cobra.Command, args []string) error {
	a, err := c.setup(true)
	if err != nil {
		return err
	}
	defer a.Close()

	a.logger.Info("serving task tools over stdio")
	return mcp.NewServer(a.toolbox, a.userID, Version, a.logger).ServeStdio()
}

func (c *cli) pingCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that every enabled model provider is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.setup(false)
			if err != nil {
				return err
			}
			defer a.Close()

			providers := provider.InitializeProviders(a.cfg, a.logger)
			out := cmd.OutOrStdout()
			if len(providers) == 0 {
				fmt.Fprintln(out, "No providers configured.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tMODEL\tSTATUS")
			failed := 0
			for _, r := range provider.PingAll(cmd.Context(), providers, timeout) {
				status := fmt.Sprintf("ok (%s)", r.Latency.Round(time.Millisecond))
				if r.Err != nil {
					status = "error: " + r.Err.Error()
					failed++
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", config.ProviderDisplayName(r.ProviderID), r.Model, status)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d providers unreachable", failed, len(providers))
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "per-provider timeout")
	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
