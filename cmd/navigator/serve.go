package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/unemployment-navigator/internal/conversation"
	"github.com/jonathan/unemployment-navigator/internal/server"
	"github.com/jonathan/unemployment-navigator/internal/server/ratelimit"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the interview, action plan and catalog endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if servePort != 0 {
		cfg.Port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, cleanup, err := buildServer(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	return srv.Run(ctx)
}

// buildServer wires the configured store, event publisher and rate limits
// into an HTTP server.
func buildServer(ctx context.Context) (*server.Server, func(), error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, nil, err
	}
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	svc, shutdown, err := newService(cfg, cat, b, conversation.Pacer{Delay: cfg.TypingDelay()})
	if err != nil {
		b.Close()
		return nil, nil, err
	}

	srv := server.New(svc, server.Config{
		Port:           cfg.Port,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      ratelimit.LoadConfig(cfg.RateLimit, cfg.RateBurst),
		HealthChecks:   b.checks,
	})
	cleanup := func() {
		shutdown()
		b.Close()
	}
	return srv, cleanup, nil
}
