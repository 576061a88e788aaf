package main

import (
	"fmt"
	"io"
	"time"

	"github.com/mark3labs/bizdesk/internal/api"
	"github.com/mark3labs/bizdesk/internal/invoices"
	"github.com/mark3labs/bizdesk/internal/tui/theme"
	"github.com/spf13/cobra"
)

var invoicesFlags struct {
	json bool
}

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Show invoices grouped by what needs attention",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, client, err := loadClient()
		if err != nil {
			return err
		}
		all, err := invoices.NewLoader(client).LoadAll(cmd.Context(), cfg.RequestContext())
		if err != nil && len(all) == 0 {
			return err
		}

		now := time.Now()
		buckets := invoices.Bucketize(all, now)
		summary := invoices.Summarize(all, now)
		if invoicesFlags.json {
			return printJSON(cmd, map[string]any{"summary": summary, "buckets": buckets})
		}

		out := cmd.OutOrStdout()
		s := theme.Current().S()
		fmt.Fprintln(out, s.Title.Render("Invoices"))
		fmt.Fprintf(out, "Outstanding %s · Overdue %s (%d) · Collected %s\n",
			money(summary.Outstanding), money(summary.OverdueValue), summary.OverdueCount, money(summary.Collected))
		if err != nil {
			fmt.Fprintln(out, s.Warning.Render("Some pages could not be loaded: "+api.Message(err)))
		}

		printBucket(out, "Overdue", buckets.Overdue, now)
		printBucket(out, "Due this week", buckets.DueThisWeek, now)
		printBucket(out, "Upcoming", buckets.Upcoming, now)
		printBucket(out, "No due date", buckets.Unscheduled, now)
		printBucket(out, "Paid", buckets.Paid, now)
		return nil
	},
}

func init() {
	invoicesCmd.Flags().BoolVar(&invoicesFlags.json, "json", false, "Print JSON")
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func printBucket(out io.Writer, title string, list []api.Invoice, now time.Time) {
	if len(list) == 0 {
		return
	}
	s := theme.Current().S()
	fmt.Fprintf(out, "\n%s\n", s.Label.Render(fmt.Sprintf("%s (%d)", title, len(list))))
	for _, inv := range list {
		due := "-"
		if d, ok := invoices.DueDate(inv); ok {
			due = d.Format("Jan 2")
		}
		fmt.Fprintf(out, "  %-10s %-28s %10s  due %-6s  %s\n",
			inv.Number, inv.Customer.BusinessName, money(float64(inv.BalanceDue)), due, invoices.DeriveStatus(inv, now))
	}
}
