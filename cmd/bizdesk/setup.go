package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/bizdesk/internal/config"
	tuiwizard "github.com/mark3labs/bizdesk/internal/tui/wizard"
	"github.com/mark3labs/bizdesk/internal/wizard"
	"github.com/spf13/cobra"
)

var setupFlags struct {
	project  bool
	force    bool
	headless bool
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create bizdesk configuration file",
	Long: `Create a bizdesk configuration file.

By default, runs a short wizard and creates a global config at
~/.config/bizdesk/bizdesk.yml. Use --project to create a project-local
config in the current directory. With --headless the values come from
--api-url, --token, --tenant and --data-dir.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Create config in current directory instead of global location")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Overwrite existing config file")
	setupCmd.Flags().BoolVar(&setupFlags.headless, "headless", false, "Write the config from flags without the wizard")
}

const (
	setupAPIURL   = "api_url"
	setupToken    = "token"
	setupTenant   = "tenant_id"
	setupDataDir  = "data_dir"
	setupLocation = "location"
)

// newSetupFlow collects connection settings and hands them to save.
func newSetupFlow(defaults *config.Config, save func(cfg *config.Config, project bool) error) *wizard.Flow {
	to := func(id string) func(*wizard.State) string {
		return func(*wizard.State) string { return id }
	}
	f := wizard.MustFlow("setup", "connection",
		&wizard.Node{ID: "connection", Step: 1,
			Build: func(*wizard.State) wizard.Screen {
				return wizard.Screen{
					Title:    "Connect to your CRM",
					Subtitle: "Find these under Settings > API in the web app.",
					Blocks: []wizard.Block{
						wizard.Input{ID: setupAPIURL, Label: "API URL", Placeholder: "https://api.example.com", Required: true},
						wizard.Input{ID: setupToken, Label: "API token", Required: true},
						wizard.Input{ID: setupTenant, Label: "Tenant id"},
					},
				}
			},
			Next: to("storage"),
		},
		&wizard.Node{ID: "storage", Step: 2,
			Build: func(*wizard.State) wizard.Screen {
				return wizard.Screen{
					Title: "Where should bizdesk keep things?",
					Blocks: []wizard.Block{
						wizard.Input{ID: setupDataDir, Label: "Data directory", Placeholder: ".bizdesk"},
						wizard.Question{ID: setupLocation, Prompt: "Save the config", Required: true, Options: []wizard.Option{
							{Value: "global", Label: "For every project", Description: config.GlobalPath()},
							{Value: "project", Label: "For this directory only", Description: config.ProjectPath()},
						}},
					},
				}
			},
			Next: to("review"),
		},
		&wizard.Node{ID: "review", Step: 3, Action: "save",
			Build: func(s *wizard.State) wizard.Screen {
				token := s.Answers.String(setupToken)
				if len(token) > 4 {
					token = strings.Repeat("•", len(token)-4) + token[len(token)-4:]
				}
				return wizard.Screen{
					Title: "Review",
					Blocks: []wizard.Block{
						wizard.Summary{Rows: []wizard.SummaryRow{
							{Label: "API URL", Value: s.Answers.String(setupAPIURL)},
							{Label: "Token", Value: token},
							{Label: "Tenant", Value: s.Answers.String(setupTenant)},
							{Label: "Data directory", Value: s.Answers.String(setupDataDir)},
							{Label: "Saved to", Value: s.Answers.String(setupLocation)},
						}},
					},
					Nav: wizard.Navigation{NextLabel: "Save"},
				}
			},
		},
	)
	f.Handle("save", func(_ context.Context, s *wizard.State) error {
		cfg := *defaults
		cfg.APIURL = strings.TrimSpace(s.Answers.String(setupAPIURL))
		cfg.Token = strings.TrimSpace(s.Answers.String(setupToken))
		cfg.TenantID = strings.TrimSpace(s.Answers.String(setupTenant))
		if dir := strings.TrimSpace(s.Answers.String(setupDataDir)); dir != "" {
			cfg.DataDir = dir
		}
		return save(&cfg, s.Answers.String(setupLocation) == "project")
	})
	return f
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	save := func(c *config.Config, project bool) error {
		targetPath := config.GlobalPath()
		if project {
			targetPath = config.ProjectPath()
		}
		if !setupFlags.force && fileExists(targetPath) {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", targetPath)
		}
		write := config.WriteGlobal
		if project {
			write = config.WriteProject
		}
		if err := write(c); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Config written to: %s\n", targetPath)
		return nil
	}

	if setupFlags.headless || cfg.Headless {
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := save(cfg, setupFlags.project); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Run 'bizdesk campaign' to get started.")
		return nil
	}

	nav := wizard.NewNavigator(newSetupFlow(cfg, save))
	nav.Answer(setupAPIURL, cfg.APIURL)
	nav.Answer(setupToken, cfg.Token)
	nav.Answer(setupTenant, cfg.TenantID)
	nav.Answer(setupDataDir, cfg.DataDir)
	if setupFlags.project {
		nav.Answer(setupLocation, "project")
	} else {
		nav.Answer(setupLocation, "global")
	}

	m, err := tuiwizard.Run(cmd.Context(), nav, tuiwizard.Options{
		Title:       "bizdesk setup",
		WorkingText: "Saving...",
		SuccessText: func(*wizard.Navigator) string { return "Config saved. Run 'bizdesk campaign' to get started." },
	})
	if err != nil {
		return err
	}
	if m.Cancelled() && !m.Succeeded() {
		fmt.Fprintln(cmd.OutOrStdout(), "Setup cancelled.")
	}
	return nil
}

// fileExists checks if a file exists (helper for setup command).
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
