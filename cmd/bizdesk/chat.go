package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/mark3labs/bizdesk/internal/personality"
	"github.com/mark3labs/bizdesk/internal/tui/chat"
	"github.com/spf13/cobra"
)

var personalitiesFlags struct {
	json bool
}

var personalitiesCmd = &cobra.Command{
	Use:   "personalities",
	Short: "List your AI employees",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, client, err := loadClient()
		if err != nil {
			return err
		}
		roster, err := personality.NewRoster(client, personality.CacheSize)
		if err != nil {
			return err
		}
		list, source := roster.Load(cmd.Context(), cfg.RequestContext())
		if personalitiesFlags.json {
			return printJSON(cmd, list)
		}

		out := cmd.OutOrStdout()
		if source == personality.SourceDefault {
			fmt.Fprintln(out, "No AI employees are configured yet. These are the defaults:")
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tROLE")
		for _, p := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Name, p.Role)
		}
		return w.Flush()
	},
}

var chatFlags struct {
	message  string
	customer string
}

var chatCmd = &cobra.Command{
	Use:   "chat <personality-id>",
	Short: "Talk to one of your AI employees",
	Long: `Talk to one of your AI employees.

Without --message a full-screen chat opens. With --message one message is
sent and the reply printed, which suits scripts.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, client, err := loadClient()
		if err != nil {
			return err
		}
		rc := cfg.RequestContext()
		roster, err := personality.NewRoster(client, personality.CacheSize)
		if err != nil {
			return err
		}
		list, _ := roster.Load(cmd.Context(), rc)
		p, ok := personality.Find(list, args[0])
		if !ok {
			return fmt.Errorf("no AI employee with id %q (see 'bizdesk personalities')", args[0])
		}

		conv := personality.NewConversation(client, &p)
		conv.CustomerID = chatFlags.customer

		if chatFlags.message != "" || cfg.Headless {
			if chatFlags.message == "" {
				return fmt.Errorf("--message is required when headless")
			}
			reply, err := conv.Send(cmd.Context(), rc, chatFlags.message)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		}
		return chat.Run(cmd.Context(), conv, rc)
	},
}

func init() {
	personalitiesCmd.Flags().BoolVar(&personalitiesFlags.json, "json", false, "Print JSON")
	chatCmd.Flags().StringVarP(&chatFlags.message, "message", "m", "", "Send one message and print the reply")
	chatCmd.Flags().StringVar(&chatFlags.customer, "customer", "", "CRM customer id the conversation is about")
}
