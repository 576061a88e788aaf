package main

import (
	"fmt"
	"strings"

	"github.com/mark3labs/bizdesk/internal/profile"
	"github.com/mark3labs/bizdesk/internal/tui/theme"
	"github.com/spf13/cobra"
)

var profileFlags struct {
	json bool
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show how complete your business profile is",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, client, err := loadClient()
		if err != nil {
			return err
		}
		snap := profile.Load(cmd.Context(), client, cfg.RequestContext())
		if profileFlags.json {
			return printJSON(cmd, map[string]any{
				"percent": snap.Strength.Percent,
				"label":   snap.Strength.Label(),
				"missing": snap.Strength.Missing,
			})
		}

		s := theme.Current().S()
		out := cmd.OutOrStdout()
		name := "Your business"
		if snap.SMB != nil && snap.SMB.BusinessName != "" {
			name = snap.SMB.BusinessName
		}
		filled := snap.Strength.Percent / 5
		bar := s.Success.Render(strings.Repeat("█", filled)) + s.Muted.Render(strings.Repeat("░", 20-filled))
		fmt.Fprintln(out, s.Title.Render(name))
		fmt.Fprintf(out, "%s %d%% %s\n", bar, snap.Strength.Percent, s.Muted.Render(snap.Strength.Label()))
		if len(snap.Strength.Missing) > 0 {
			fmt.Fprintln(out, "\nAdd these to strengthen your profile:")
			for _, m := range snap.Strength.Missing {
				fmt.Fprintf(out, "  • %s\n", m)
			}
		}
		return nil
	},
}

func init() {
	profileCmd.Flags().BoolVar(&profileFlags.json, "json", false, "Print JSON")
}
