package campaign

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gosimple/slug"
	"github.com/mark3labs/bizdesk/internal/api"
	"github.com/mark3labs/bizdesk/internal/logger"
	"github.com/mark3labs/bizdesk/internal/wizard"
)

// BuildMessage writes the announcement text. The business name, event name
// and event date always appear in that order.
func BuildMessage(a wizard.Answers) string {
	business := a.String(KeyBusinessName)
	if business == "" {
		business = "us"
	}
	event := a.String(KeyEventName)
	if event == "" {
		event = "our next event"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Join %s for %s", business, event)
	if date := a.String(KeyEventDate); date != "" {
		fmt.Fprintf(&b, " on %s", date)
	}
	if t := a.String(KeyEventTime); t != "" {
		fmt.Fprintf(&b, " at %s", t)
	}
	b.WriteString("!")
	if desc := strings.TrimSpace(a.String(KeyEventDescription)); desc != "" {
		b.WriteString(" ")
		b.WriteString(desc)
	}
	return b.String()
}

// BuildRequest turns the wizard answers into a create-campaign body.
func BuildRequest(a wizard.Answers) api.CampaignRequest {
	business := a.String(KeyBusinessName)
	event := a.String(KeyEventName)

	req := api.CampaignRequest{
		Name:              slug.Make(strings.TrimSpace(business + " " + event)),
		Type:              "email",
		Message:           BuildMessage(a),
		RecipientSegments: a.Strings(KeyAudience),
	}
	if event != "" {
		req.Subject = event
		if business != "" {
			req.Subject = fmt.Sprintf("%s at %s", event, business)
		}
	}
	if send := a.String(KeySendDate); send != "" {
		req.ScheduledAt = send + "T09:00:00"
	}
	return req
}

// CampaignCreator is the slice of the API client the launcher needs.
type CampaignCreator interface {
	CreateCampaign(ctx context.Context, rc api.RequestContext, req api.CampaignRequest) (*api.Campaign, error)
}

// LaunchStatus is the transient state of a launch.
type LaunchStatus struct {
	Launching bool
	Err       error
	Campaign  *api.Campaign
}

// Succeeded reports whether the last launch created a campaign.
func (s LaunchStatus) Succeeded() bool {
	return !s.Launching && s.Err == nil && s.Campaign != nil
}

// Launcher submits a finished campaign wizard.
type Launcher struct {
	client CampaignCreator
	rc     api.RequestContext

	mu     sync.Mutex
	status LaunchStatus
}

// NewLauncher returns a launcher posting through client with rc.
func NewLauncher(client CampaignCreator, rc api.RequestContext) *Launcher {
	return &Launcher{client: client, rc: rc}
}

// Status returns the current launch status.
func (l *Launcher) Status() LaunchStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

func (l *Launcher) set(s LaunchStatus) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.status = s
}

// Launch posts the campaign described by s. There are no retries; a failure
// is kept in Status for display.
func (l *Launcher) Launch(ctx context.Context, s *wizard.State) (*api.Campaign, error) {
	l.set(LaunchStatus{Launching: true})

	req := BuildRequest(s.Answers)
	logger.Info("launching campaign %s", req.Name)
	c, err := l.client.CreateCampaign(ctx, l.rc, req)
	if err != nil {
		logger.Warn("campaign launch failed: %v", err)
		err = fmt.Errorf("launching campaign: %w", err)
		l.set(LaunchStatus{Err: err})
		return nil, err
	}

	l.set(LaunchStatus{Campaign: c})
	return c, nil
}

// Action adapts Launch to the wizard's terminal action.
func (l *Launcher) Action() wizard.ActionFunc {
	return func(ctx context.Context, s *wizard.State) error {
		c, err := l.Launch(ctx, s)
		if err != nil {
			return err
		}
		s.SetDerived(DerivedCampaignID, string(c.ID))
		return nil
	}
}
