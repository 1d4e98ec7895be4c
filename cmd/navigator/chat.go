package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/unemployment-navigator/internal/conversation"
	"github.com/jonathan/unemployment-navigator/internal/observability"
	"github.com/jonathan/unemployment-navigator/internal/tui"
)

var (
	chatStore   string
	chatPath    string
	chatID      string
	chatLogFile string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run the interview in the terminal",
	Long:  "Runs the interview as a terminal chat. With a persistent store the most recent session (or --id) is resumed.",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatStore, "store", "", "Session store: memory, file, sqlite, postgres or redis (overrides config)")
	chatCmd.Flags().StringVar(&chatPath, "path", "", "Directory (file store) or database file (sqlite store)")
	chatCmd.Flags().StringVar(&chatID, "id", "", "Session ID to resume")
	chatCmd.Flags().StringVar(&chatLogFile, "log-file", "", "Write logs to this file instead of discarding them")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if err := applyStoreFlags(cfg, chatStore, chatPath); err != nil {
		return err
	}

	// The terminal belongs to the UI while it runs.
	var logOut io.Writer = io.Discard
	if chatLogFile != "" {
		f, err := os.OpenFile(chatLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer func() { _ = f.Close() }()
		logOut = f
	}
	observability.Init(logOut, cfg.LogLevel)

	ctx := cmd.Context()
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	svc, shutdown, err := newService(cfg, cat, b, conversation.Pacer{Delay: cfg.TypingDelay()})
	if err != nil {
		return err
	}
	defer shutdown()

	id := chatID
	if id == "" && b.latest != nil {
		if id, err = b.latest(ctx); err != nil {
			return err
		}
	}
	if id == "" {
		id = uuid.NewString()
	}

	view, err := svc.Open(ctx, id)
	if err != nil {
		return err
	}

	model := tui.NewChat(ctx, svc, view)
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Session: %s\n", model.SessionID())
	return nil
}
