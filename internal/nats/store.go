package nats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	// StreamName holds every wizard journal.
	StreamName = "bizdesk_events"
	// Prefix is the first token of every journal subject.
	Prefix = "bizdesk"
)

// SubjectForSession matches all events of a session, e.g. "bizdesk.spring-promo.>".
func SubjectForSession(session string) string {
	return fmt.Sprintf("%s.%s.>", Prefix, session)
}

// SubjectForEvent is the subject one event type is published on,
// e.g. "bizdesk.spring-promo.wizard.answer".
func SubjectForEvent(session, eventType string) string {
	return fmt.Sprintf("%s.%s.%s", Prefix, session, eventType)
}

// SessionFromSubject returns the session token of a journal subject.
func SessionFromSubject(subject string) (string, bool) {
	parts := strings.SplitN(subject, ".", 3)
	if len(parts) < 3 || parts[0] != Prefix || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// SetupStream creates or updates the journal stream with 30-day retention.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{Prefix + ".>"},
		Storage:  jetstream.FileStorage,
		MaxAge:   30 * 24 * time.Hour,
	})
}
