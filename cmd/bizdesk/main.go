package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/mark3labs/bizdesk/internal/api"
	"github.com/mark3labs/bizdesk/internal/config"
	"github.com/mark3labs/bizdesk/internal/logger"
	"github.com/mark3labs/bizdesk/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█▀▄ █ ▀█ █▀▄ █▀▀ █▀ █▄▀"
	logoText2 = "█▄█ █ █▄ █▄▀ ██▄ ▄█ █ █"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootFlags struct {
	apiURL   string
	token    string
	tenantID string
	dataDir  string
}

var rootCmd = &cobra.Command{
	Use:   "bizdesk",
	Short: "Terminal desk for your small-business CRM",
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.Current()
	gradient := func(text string) string {
		runes := []rune(text)
		var b strings.Builder
		for i, r := range runes {
			pos := float64(i) / float64(max(1, len(runes)-1))
			color := theme.InterpolateColor(t.Primary, t.Secondary, pos)
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(r)))
		}
		return b.String()
	}
	return gradient(logoText1) + "\n" + gradient(logoText2)
}

func init() {
	rootCmd.Long = renderLogo() + `

bizdesk brings the marketing, content, invoicing and AI-team tools of your
CRM to the terminal. It talks to the CRM's REST API with your token and
tenant, keeps generated drafts in a local database and can journal wizard
progress so an interrupted wizard picks up where it stopped.

Configuration is loaded from multiple sources with the following precedence:
  CLI flags > Environment variables (and ./.env) > Project config > Global config > Defaults

Project config: ./bizdesk.yml
Global config: ~/.config/bizdesk/bizdesk.yml`

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.apiURL, "api-url", "", "CRM API base URL (default: from config or BIZDESK_API_URL)")
	pf.StringVar(&rootFlags.token, "token", "", "API bearer token")
	pf.StringVar(&rootFlags.tenantID, "tenant", "", "Tenant id sent as X-Tenant-ID")
	pf.StringVar(&rootFlags.dataDir, "data-dir", "", "Data directory for drafts and the wizard journal")

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(campaignCmd)
	rootCmd.AddCommand(diagnosticCmd)
	rootCmd.AddCommand(contentCmd)
	rootCmd.AddCommand(draftsCmd)
	rootCmd.AddCommand(invoicesCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(personalitiesCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(sessionsCmd)
}

// loadConfig reads the layered config, applies CLI flag overrides and sets
// up logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if rootFlags.apiURL != "" {
		cfg.APIURL = rootFlags.apiURL
	}
	if rootFlags.token != "" {
		cfg.Token = rootFlags.token
	}
	if rootFlags.tenantID != "" {
		cfg.TenantID = rootFlags.tenantID
	}
	if rootFlags.dataDir != "" {
		cfg.DataDir = rootFlags.dataDir
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}
	return cfg, nil
}

// loadClient is loadConfig plus a validated API client.
func loadClient() (*config.Config, *api.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, api.NewClient(cfg.APIURL, api.WithTimeout(cfg.Timeout())), nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
