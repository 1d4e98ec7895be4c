package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jonathan/unemployment-navigator/internal/config"
	"github.com/jonathan/unemployment-navigator/internal/conversation"
	"github.com/jonathan/unemployment-navigator/internal/db"
	"github.com/jonathan/unemployment-navigator/internal/observability"
	"github.com/jonathan/unemployment-navigator/internal/rendering"
	"github.com/jonathan/unemployment-navigator/internal/types"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect, export, reset or delete stored sessions",
}

var (
	sessionStore  string
	sessionPath   string
	sessionID     string
	sessionJSON   bool
	exportFormat  string
	exportOutFile string
	listLimit     int
)

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a session's profile, progress and action plan",
	RunE:  runSessionShow,
}

var sessionExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a session's action plan as Markdown or plain text",
	RunE:  runSessionExport,
}

var sessionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restart a session's interview, keeping its ID",
	RunE:  runSessionReset,
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a stored session",
	RunE:  runSessionDelete,
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sessions and plan categories (postgres store)",
	RunE:  runSessionList,
}

func init() {
	sessionCmd.PersistentFlags().StringVar(&sessionStore, "store", "", "Session store: file, sqlite, postgres or redis (overrides config)")
	sessionCmd.PersistentFlags().StringVar(&sessionPath, "path", "", "Directory (file store) or database file (sqlite store)")
	for _, c := range []*cobra.Command{sessionShowCmd, sessionExportCmd, sessionResetCmd, sessionDeleteCmd} {
		c.Flags().StringVar(&sessionID, "id", "", "Session ID (required)")
		if err := c.MarkFlagRequired("id"); err != nil {
			panic(fmt.Sprintf("failed to mark id flag as required: %v", err))
		}
	}

	sessionShowCmd.Flags().BoolVar(&sessionJSON, "json", false, "Print the raw session snapshot as JSON")
	sessionExportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(rendering.FormatMarkdown), "Export format: markdown or text")
	sessionExportCmd.Flags().StringVarP(&exportOutFile, "out", "o", "", "Write to this file instead of stdout")
	sessionListCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum number of sessions to list")

	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionExportCmd)
	sessionCmd.AddCommand(sessionResetCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
	sessionCmd.AddCommand(sessionListCmd)
	rootCmd.AddCommand(sessionCmd)
}

// withStoredSession opens the configured store and service, runs fn and
// flushes any changes before returning.
func withStoredSession(ctx context.Context, fn func(*conversation.Service) error) error {
	if err := applyStoreFlags(cfg, sessionStore, sessionPath); err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	svc, shutdown, err := newService(cfg, cat, b, conversation.Pacer{})
	if err != nil {
		return err
	}
	defer shutdown()
	return fn(svc)
}

func runSessionShow(cmd *cobra.Command, _ []string) error {
	return withStoredSession(cmd.Context(), func(svc *conversation.Service) error {
		view, err := svc.Get(cmd.Context(), sessionID)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if sessionJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(view)
		}

		s := view.Session
		state := "in progress"
		switch {
		case s.Failed:
			state = "failed"
		case s.ConversationComplete:
			state = "complete"
		}
		lines := []string{
			fmt.Sprintf("ID:        %s", s.ID),
			fmt.Sprintf("State:     %s", state),
			fmt.Sprintf("Step:      %s", s.CurrentStep),
			fmt.Sprintf("Messages:  %d", len(s.Messages)),
			fmt.Sprintf("Updated:   %s", s.UpdatedAt.Format("2006-01-02 15:04:05 MST")),
		}
		if view.Question != nil {
			lines = append(lines, fmt.Sprintf("Waiting:   %s", view.Question.ID))
		}
		if s.ActionPlan != nil {
			done, total := s.ActionPlan.Progress()
			lines = append(lines, fmt.Sprintf("Progress:  %d/%d", done, total))
		}

		printer := observability.NewPrinter(out)
		printer.PrintSummary("SESSION", lines...)
		printer.PrintProfile(s.Profile)
		printer.PrintActionPlan(s.ActionPlan)
		return nil
	})
}

func runSessionExport(cmd *cobra.Command, _ []string) error {
	format := rendering.Format(exportFormat)
	if format != rendering.FormatMarkdown && format != rendering.FormatText {
		return fmt.Errorf("unsupported format %q (use markdown or text)", exportFormat)
	}
	return withStoredSession(cmd.Context(), func(svc *conversation.Service) error {
		rendered, err := svc.Export(cmd.Context(), sessionID, format)
		if err != nil {
			return err
		}
		if exportOutFile == "" {
			_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
			return err
		}
		if err := os.WriteFile(exportOutFile, []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOutFile, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", exportOutFile)
		return nil
	})
}

func runSessionReset(cmd *cobra.Command, _ []string) error {
	return withStoredSession(cmd.Context(), func(svc *conversation.Service) error {
		view, err := svc.Reset(cmd.Context(), sessionID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session %s restarted at %s\n", view.Session.ID, view.Session.CurrentStep)
		return nil
	})
}

func runSessionDelete(cmd *cobra.Command, _ []string) error {
	return withStoredSession(cmd.Context(), func(svc *conversation.Service) error {
		if _, err := svc.Get(cmd.Context(), sessionID); err != nil {
			return err
		}
		if err := svc.Forget(cmd.Context(), sessionID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session %s deleted\n", sessionID)
		return nil
	})
}

func runSessionList(cmd *cobra.Command, _ []string) error {
	if err := applyStoreFlags(cfg, sessionStore, sessionPath); err != nil {
		return err
	}
	if cfg.Store != config.StorePostgres {
		return fmt.Errorf("session list needs the postgres store, have %q", cfg.Store)
	}
	if listLimit < 1 {
		return fmt.Errorf("--limit must be at least 1, got %d", listLimit)
	}

	ctx := cmd.Context()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	sessions, err := database.ListSessions(ctx, listLimit)
	if err != nil {
		return err
	}
	counts, err := database.CountByCategory(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, s := range sessions {
		state := "in progress"
		switch {
		case s.Failed:
			state = "failed"
		case s.ConversationComplete:
			state = "complete"
		}
		fmt.Fprintf(out, "%s  %-12s %-18s %-28s %s\n",
			s.ID, state, s.CurrentStep, s.EligibilityCategory, s.UpdatedAt.Format("2006-01-02 15:04"))
	}

	categories := make([]types.Category, 0, len(counts))
	for c := range counts {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	lines := make([]string, 0, len(categories))
	for _, c := range categories {
		lines = append(lines, fmt.Sprintf("%-28s %d", c, counts[c]))
	}
	observability.NewPrinter(out).PrintSummary("COMPLETED PLANS BY CATEGORY", lines...)
	return nil
}
