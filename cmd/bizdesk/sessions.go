package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/mark3labs/bizdesk/internal/session"
	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List and reset journaled wizard sessions",
}

// withJournal opens the wizard journal for the duration of fn.
func withJournal(cmd *cobra.Command, fn func(*session.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := session.Open(cmd.Context(), cfg.JournalDir())
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer func() { _ = store.Close() }()
	return fn(store)
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions with their event counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withJournal(cmd, func(s *session.Store) error {
			infos, err := s.Sessions(cmd.Context())
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions. Start one with 'bizdesk campaign --session <name>'.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SESSION\tFLOW\tSCREEN\tEVENTS")
			for _, info := range infos {
				flow, screen := "-", "-"
				if st, err := s.LoadState(cmd.Context(), info.Name); err == nil {
					flow, screen = st.Flow, st.Current
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", info.Name, flow, screen, info.Events)
			}
			return w.Flush()
		})
	},
}

var sessionsResetCmd = &cobra.Command{
	Use:   "reset <name>",
	Short: "Delete a session's journal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := session.Name(args[0])
		if err != nil {
			return err
		}
		return withJournal(cmd, func(s *session.Store) error {
			if err := s.Purge(cmd.Context(), name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session %s reset.\n", name)
			return nil
		})
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsResetCmd)
}
