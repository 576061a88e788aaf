package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/mark3labs/bizdesk/internal/content"
	"github.com/mark3labs/bizdesk/internal/tui"
	"github.com/spf13/cobra"
)

var draftsFlags struct {
	kind string
	dir  string
	json bool
}

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "Manage generated content drafts",
}

// withStore opens the drafts database for the duration of fn.
func withStore(fn func(*content.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := content.OpenStore(cfg.DraftsPath())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	return fn(store)
}

var draftsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List drafts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		var kind content.Kind
		if draftsFlags.kind != "" {
			k, err := content.ParseKind(draftsFlags.kind)
			if err != nil {
				return err
			}
			kind = k
		}
		return withStore(func(s *content.Store) error {
			drafts, err := s.List(cmd.Context(), kind)
			if err != nil {
				return err
			}
			if draftsFlags.json {
				return printJSON(cmd, drafts)
			}
			if len(drafts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No drafts yet. Create one with 'bizdesk content ad'.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tKIND\tTITLE\tUPDATED")
			for _, d := range drafts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.ID, d.Kind, d.Title, d.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
			return w.Flush()
		})
	},
}

var draftsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *content.Store) error {
			d, err := s.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if draftsFlags.json {
				return printJSON(cmd, d)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderMarkdown("# "+d.Title+"\n\n"+d.Body, 80))
			return nil
		})
	},
}

var draftsExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Write a draft as a standalone HTML page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *content.Store) error {
			d, err := s.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			path, err := content.ExportFile(draftsFlags.dir, d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
			return nil
		})
	},
}

var draftsEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a draft in $EDITOR",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *content.Store) error {
			_, changed, err := content.Edit(cmd.Context(), s, args[0], content.RunInTerminal)
			if err != nil {
				return err
			}
			if changed {
				fmt.Fprintln(cmd.OutOrStdout(), "Draft updated.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "No changes.")
			}
			return nil
		})
	},
}

var draftsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *content.Store) error {
			if err := s.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		})
	},
}

func init() {
	draftsListCmd.Flags().StringVarP(&draftsFlags.kind, "kind", "k", "", "Only list ad, announcement or article drafts")
	draftsListCmd.Flags().BoolVar(&draftsFlags.json, "json", false, "Print JSON")
	draftsShowCmd.Flags().BoolVar(&draftsFlags.json, "json", false, "Print JSON")
	draftsExportCmd.Flags().StringVarP(&draftsFlags.dir, "dir", "d", ".", "Directory to write the HTML file to")

	draftsCmd.AddCommand(draftsListCmd)
	draftsCmd.AddCommand(draftsShowCmd)
	draftsCmd.AddCommand(draftsExportCmd)
	draftsCmd.AddCommand(draftsEditCmd)
	draftsCmd.AddCommand(draftsDeleteCmd)
}
