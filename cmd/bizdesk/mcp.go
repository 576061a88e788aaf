package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/bizdesk/internal/invoices"
	"github.com/mark3labs/bizdesk/internal/logger"
	"github.com/mark3labs/bizdesk/internal/mcpserver"
	"github.com/spf13/cobra"
)

var mcpFlags struct {
	port int
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve bizdesk tools to AI agents over MCP",
	Long: `Serve bizdesk tools to AI agents over MCP (streamable HTTP on 127.0.0.1).

Tools: recommend-package, monthly-total, campaign-message, invoice-summary and
profile-strength. Invoice and profile tools use the configured API credentials.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, client, err := loadClient()
		if err != nil {
			return err
		}

		srv := mcpserver.New(mcpserver.Deps{
			Invoices: invoices.NewLoader(client),
			Profile:  client,
			Request:  cfg.RequestContext(),
			Now:      time.Now,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if _, err := srv.Start(ctx, mcpFlags.port); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on %s\nPress Ctrl+C to stop.\n", srv.URL())

		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			logger.Warn("stopping MCP server: %v", err)
		}
		return nil
	},
}

func init() {
	mcpCmd.Flags().IntVarP(&mcpFlags.port, "port", "p", 0, "Port to listen on (0 picks a free port)")
}
