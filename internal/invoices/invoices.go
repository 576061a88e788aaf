// Package invoices derives display status, due-date buckets and totals from
// the invoice listing, and walks the paged API.
package invoices

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/mark3labs/bizdesk/internal/api"
)

// Status is the derived display status.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
	StatusOpen    Status = "open"
	StatusDraft   Status = "draft"
	StatusVoid    Status = "void"
)

const dateLayout = "2006-01-02"

// DueDate parses the invoice due date. Timestamps are accepted and
// truncated to the day.
func DueDate(inv api.Invoice) (time.Time, bool) {
	s := strings.TrimSpace(inv.DueDate)
	if len(s) < len(dateLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s[:len(dateLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// day truncates now to midnight UTC of its calendar day in its own zone.
func day(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DeriveStatus maps an invoice to its display status at now. Bucketize and
// Summarize both go through it, so bucket membership and counts agree.
func DeriveStatus(inv api.Invoice, now time.Time) Status {
	raw := strings.ToLower(strings.TrimSpace(inv.Status))
	switch raw {
	case "paid":
		return StatusPaid
	case "draft":
		return StatusDraft
	case "void", "cancelled", "canceled":
		return StatusVoid
	}
	due, dated := DueDate(inv)
	past := dated && due.Before(day(now))
	if inv.BalanceDue <= 0 {
		// Nothing owed: settled once paid_at is set or the due date has gone by.
		if inv.PaidAt != "" || past {
			return StatusPaid
		}
		return StatusOpen
	}
	if past {
		return StatusOverdue
	}
	return StatusOpen
}

// Buckets groups invoices for display.
type Buckets struct {
	Overdue      []api.Invoice
	DueThisWeek  []api.Invoice
	Upcoming     []api.Invoice
	Paid         []api.Invoice
	Unscheduled  []api.Invoice
	DraftsOrVoid []api.Invoice
}

// Bucketize sorts invoices into buckets at now. Due this week means due
// today through seven days out. Each bucket is ordered by due date.
func Bucketize(invs []api.Invoice, now time.Time) Buckets {
	var b Buckets
	today := day(now)
	weekEnd := today.AddDate(0, 0, 7)

	for _, inv := range invs {
		switch DeriveStatus(inv, now) {
		case StatusPaid:
			b.Paid = append(b.Paid, inv)
			continue
		case StatusOverdue:
			b.Overdue = append(b.Overdue, inv)
			continue
		case StatusDraft, StatusVoid:
			b.DraftsOrVoid = append(b.DraftsOrVoid, inv)
			continue
		}

		due, ok := DueDate(inv)
		switch {
		case !ok:
			b.Unscheduled = append(b.Unscheduled, inv)
		case !due.After(weekEnd):
			b.DueThisWeek = append(b.DueThisWeek, inv)
		default:
			b.Upcoming = append(b.Upcoming, inv)
		}
	}

	for _, list := range [][]api.Invoice{b.Overdue, b.DueThisWeek, b.Upcoming, b.Paid} {
		slices.SortStableFunc(list, byDueDate)
	}
	return b
}

func byDueDate(x, y api.Invoice) int {
	return cmp.Compare(x.DueDate, y.DueDate)
}

// Summary holds the headline numbers.
type Summary struct {
	Count        int
	OpenCount    int
	OverdueCount int
	PaidCount    int
	Outstanding  float64
	OverdueValue float64
	Collected    float64
}

// Summarize computes totals at now. Drafts and void invoices are excluded.
func Summarize(invs []api.Invoice, now time.Time) Summary {
	var s Summary
	for _, inv := range invs {
		status := DeriveStatus(inv, now)
		if status == StatusDraft || status == StatusVoid {
			continue
		}
		s.Count++
		total := float64(inv.Total)
		balance := max(float64(inv.BalanceDue), 0)
		if status == StatusPaid {
			balance = 0
		}
		s.Collected += total - balance

		switch status {
		case StatusPaid:
			s.PaidCount++
		case StatusOverdue:
			s.OverdueCount++
			s.OverdueValue += balance
			s.Outstanding += balance
		default:
			s.OpenCount++
			s.Outstanding += balance
		}
	}
	return s
}
