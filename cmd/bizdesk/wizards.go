package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/bizdesk/internal/campaign"
	"github.com/mark3labs/bizdesk/internal/config"
	"github.com/mark3labs/bizdesk/internal/content"
	"github.com/mark3labs/bizdesk/internal/diagnostic"
	"github.com/mark3labs/bizdesk/internal/logger"
	"github.com/mark3labs/bizdesk/internal/session"
	"github.com/mark3labs/bizdesk/internal/tui"
	tuiwizard "github.com/mark3labs/bizdesk/internal/tui/wizard"
	"github.com/mark3labs/bizdesk/internal/wizard"
	"github.com/spf13/cobra"
)

var wizardFlags struct {
	session string
	reset   bool
}

func addWizardFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&wizardFlags.session, "session", "s", "", "Journal progress under this name so the wizard can be resumed")
	cmd.Flags().BoolVar(&wizardFlags.reset, "reset", false, "Start the named session over")
}

var campaignCmd = &cobra.Command{
	Use:   "campaign",
	Short: "Plan and launch a marketing campaign",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, client, err := loadClient()
		if err != nil {
			return err
		}
		launcher := campaign.NewLauncher(client, cfg.RequestContext())
		nav := wizard.NewNavigator(campaign.NewFlow(launcher))

		m, err := runWizard(cmd.Context(), cfg, nav, tuiwizard.Options{
			Title:       "Marketing campaign",
			WorkingText: "Launching your campaign...",
			SuccessText: func(n *wizard.Navigator) string {
				return fmt.Sprintf("Campaign %s is scheduled.", n.Derived(campaign.DerivedCampaignID))
			},
		})
		if err != nil || m == nil {
			return err
		}
		if m.Succeeded() {
			fmt.Fprintf(cmd.OutOrStdout(), "Campaign created: %s\n", nav.Derived(campaign.DerivedCampaignID))
		}
		return nil
	},
}

var diagnosticCmd = &cobra.Command{
	Use:   "diagnostic",
	Short: "Score your marketing and get next steps",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		nav := wizard.NewNavigator(diagnostic.NewFlow())

		m, err := runWizard(cmd.Context(), cfg, nav, tuiwizard.Options{
			Title:       "Marketing diagnostic",
			WorkingText: "Scoring...",
			SuccessText: func(n *wizard.Navigator) string {
				return fmt.Sprintf("Your marketing score is %s/100.", n.Derived(diagnostic.DerivedOverall))
			},
		})
		if err != nil || m == nil {
			return err
		}
		report, ok := diagnostic.ReportFrom(nav.State().Derived)
		if !ok {
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Overall score: %d/100\n\n", report.Overall)
		for _, a := range report.Areas {
			fmt.Fprintf(out, "  %-12s %3d  %s\n", a.Area.Title(), a.Score, a.Advice)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, tui.RenderMarkdown("## Next steps\n\n"+report.Markdown(), 80))
		return nil
	},
}

var contentCmd = &cobra.Command{
	Use:       "content {ad|announcement|article}",
	Short:     "Write an ad, announcement or article",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(content.KindAd), string(content.KindAnnouncement), string(content.KindArticle)},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := content.ParseKind(args[0])
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := content.OpenStore(cfg.DraftsPath())
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		flow, err := content.NewFlow(kind, content.NewGenerator(cfg.AnthropicModel), store)
		if err != nil {
			return err
		}
		nav := wizard.NewNavigator(flow)

		m, err := runWizard(cmd.Context(), cfg, nav, tuiwizard.Options{
			Title:       "New " + string(kind),
			WorkingText: "Writing your " + string(kind) + "...",
			SuccessText: func(n *wizard.Navigator) string {
				return "Saved draft " + n.Derived(content.DerivedDraftID) + "."
			},
		})
		if err != nil || m == nil || !m.Succeeded() {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, tui.RenderMarkdown(nav.Derived(content.DerivedDraftBody), 80))
		fmt.Fprintf(out, "\nDraft %s saved. Export it with 'bizdesk drafts export %s'.\n",
			nav.Derived(content.DerivedDraftID), nav.Derived(content.DerivedDraftID))
		return nil
	},
}

func init() {
	addWizardFlags(campaignCmd)
	addWizardFlags(diagnosticCmd)
	addWizardFlags(contentCmd)
}

// runWizard shows nav in the terminal. With --session the navigator is
// journaled and resumed from the embedded NATS store. A nil model means the
// wizard never started.
func runWizard(ctx context.Context, cfg *config.Config, nav *wizard.Navigator, opts tuiwizard.Options) (*tuiwizard.Model, error) {
	if cfg.Headless {
		return nil, fmt.Errorf("wizards need an interactive terminal (headless is set)")
	}

	if wizardFlags.session != "" {
		name, err := session.Name(wizardFlags.session)
		if err != nil {
			return nil, err
		}
		store, err := session.Open(ctx, cfg.JournalDir())
		if err != nil {
			return nil, fmt.Errorf("opening journal: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Warn("closing journal: %v", err)
			}
		}()

		if wizardFlags.reset {
			if err := store.Purge(ctx, name); err != nil {
				return nil, err
			}
		}
		resumed, err := store.Attach(ctx, name, nav)
		if err != nil {
			return nil, err
		}
		if resumed {
			opts.Title = strings.TrimSpace(opts.Title + " (resumed " + name + ")")
		}
	}

	m, err := tuiwizard.Run(ctx, nav, opts)
	if err != nil {
		return nil, err
	}
	return m, nil
}
