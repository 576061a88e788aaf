// Package session journals wizard runs to an embedded JetStream stream so an
// interrupted wizard can pick up where it left off.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/gosimple/slug"
	"github.com/mark3labs/bizdesk/internal/logger"
	"github.com/mark3labs/bizdesk/internal/nats"
	"github.com/mark3labs/bizdesk/internal/wizard"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/xid"
)

var (
	// ErrNoSession is returned by LoadState when a session has no start event.
	ErrNoSession = errors.New("session not found")
	// ErrInvalidName is returned for names that slug to nothing.
	ErrInvalidName = errors.New("invalid session name")
)

// Event is one journal entry. Its Type is a wizard.ChangeType.
type Event struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Session   string            `json:"session"`
	Type      string            `json:"type"`
	Flow      string            `json:"flow,omitempty"`
	Answer    string            `json:"answer,omitempty"`
	Value     json.RawMessage   `json:"value,omitempty"`
	From      string            `json:"from,omitempty"`
	To        string            `json:"to,omitempty"`
	Action    string            `json:"action,omitempty"`
	Derived   map[string]string `json:"derived,omitempty"`
}

// EventFromChange converts a navigator change into a journal event.
func EventFromChange(session string, c wizard.Change) (Event, error) {
	e := Event{
		Session: session,
		Type:    string(c.Type),
		Flow:    c.Flow,
		Answer:  c.ID,
		From:    c.From,
		To:      c.To,
		Action:  c.Action,
		Derived: c.Derived,
	}
	if c.Value != nil {
		raw, err := json.Marshal(c.Value)
		if err != nil {
			return Event{}, fmt.Errorf("encoding answer %s: %w", c.ID, err)
		}
		e.Value = raw
	}
	return e, nil
}

// Name normalizes a user supplied session name into a subject-safe token.
func Name(raw string) (string, error) {
	name := slug.Make(raw)
	if name == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, raw)
	}
	return name, nil
}

// Store reads and writes wizard journals.
type Store struct {
	js     jetstream.JetStream
	stream jetstream.Stream

	embedded *nats.Embedded
}

// NewStore wraps an existing JetStream handle and journal stream.
func NewStore(js jetstream.JetStream, stream jetstream.Stream) *Store {
	return &Store{js: js, stream: stream}
}

// Open starts an embedded NATS server persisting to dir and returns a store
// over it. Close shuts the server down.
func Open(ctx context.Context, dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating journal dir: %w", err)
	}

	e, err := nats.Start(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("starting journal: %w", err)
	}
	s := NewStore(e.JS, e.Stream)
	s.embedded = e
	return s, nil
}

// Close stops the embedded server started by Open. It is a no-op for stores
// made with NewStore.
func (s *Store) Close() error {
	if s.embedded == nil {
		return nil
	}
	err := s.embedded.Close()
	s.embedded = nil
	return err
}

// PublishEvent appends e to the journal of e.Session.
func (s *Store) PublishEvent(ctx context.Context, e Event) (*jetstream.PubAck, error) {
	if e.ID == "" {
		e.ID = xid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := nats.SubjectForEvent(e.Session, e.Type)
	logger.Debug("publishing %s to %s", e.Type, subject)
	ack, err := s.js.Publish(ctx, subject, data)
	if err != nil {
		return nil, fmt.Errorf("failed to publish event: %w", err)
	}
	return ack, nil
}

// Record journals a navigator change.
func (s *Store) Record(ctx context.Context, session string, c wizard.Change) error {
	e, err := EventFromChange(session, c)
	if err != nil {
		return err
	}
	_, err = s.PublishEvent(ctx, e)
	return err
}

// Events returns the journal of session in publish order. Malformed entries
// are skipped.
func (s *Store) Events(ctx context.Context, session string) ([]Event, error) {
	consumer, err := s.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject:     nats.SubjectForSession(session),
		DeliverPolicy:     jetstream.DeliverAllPolicy,
		AckPolicy:         jetstream.AckExplicitPolicy,
		InactiveThreshold: time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}
	defer func() {
		if err := s.stream.DeleteConsumer(context.WithoutCancel(ctx), consumer.CachedInfo().Name); err != nil {
			logger.Debug("deleting journal consumer: %v", err)
		}
	}()

	const batchSize = 1000
	var events []Event
	remaining := int(consumer.CachedInfo().NumPending)
	for remaining > 0 {
		batch, err := consumer.Fetch(min(remaining, batchSize), jetstream.FetchMaxWait(2*time.Second))
		if err != nil {
			return nil, fmt.Errorf("fetching events: %w", err)
		}

		got := 0
		for msg := range batch.Messages() {
			got++
			var e Event
			if err := json.Unmarshal(msg.Data(), &e); err != nil {
				if meta, merr := msg.Metadata(); merr == nil {
					logger.Warn("skipping malformed event (seq=%d): %v", meta.Sequence.Stream, err)
				}
			} else {
				events = append(events, e)
			}
			_ = msg.Ack()
		}
		if err := batch.Error(); err != nil {
			return nil, fmt.Errorf("fetching events: %w", err)
		}
		if got == 0 {
			break
		}
		remaining -= got
	}
	return events, nil
}

// LoadState replays the journal of session into the wizard state it
// describes.
func (s *Store) LoadState(ctx context.Context, session string) (*wizard.State, error) {
	events, err := s.Events(ctx, session)
	if err != nil {
		return nil, err
	}
	st := Reduce(events)
	if st == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSession, session)
	}
	logger.Debug("session %s: %d events replayed, at %s", session, len(events), st.Current)
	return st, nil
}

// Reduce folds events into a wizard state. Events before the latest start
// are discarded; nil means there was no start.
func Reduce(events []Event) *wizard.State {
	var st *wizard.State
	for _, e := range events {
		st = apply(st, e)
	}
	return st
}

func apply(st *wizard.State, e Event) *wizard.State {
	if wizard.ChangeType(e.Type) == wizard.ChangeStart {
		return &wizard.State{
			Flow:    e.Flow,
			Current: e.To,
			Answers: wizard.Answers{},
			Derived: map[string]string{},
		}
	}
	if st == nil {
		return nil
	}

	switch wizard.ChangeType(e.Type) {
	case wizard.ChangeAnswer:
		var v any
		if len(e.Value) > 0 {
			if err := json.Unmarshal(e.Value, &v); err != nil {
				logger.Warn("skipping answer %s: %v", e.Answer, err)
				return st
			}
		}
		st.Answers.Set(e.Answer, v)
	case wizard.ChangeNext:
		st.History = append(st.History, e.From)
		st.Current = e.To
	case wizard.ChangeBack:
		if n := len(st.History); n > 0 {
			st.History = st.History[:n-1]
		}
		st.Current = e.To
	case wizard.ChangeComplete:
		maps.Copy(st.Derived, e.Derived)
	}
	return st
}

// Info summarizes one journal.
type Info struct {
	Name   string
	Events uint64
}

// Sessions lists every journal in the stream, sorted by name.
func (s *Store) Sessions(ctx context.Context) ([]Info, error) {
	info, err := s.stream.Info(ctx, jetstream.WithSubjectFilter(nats.Prefix+".>"))
	if err != nil {
		return nil, fmt.Errorf("reading stream info: %w", err)
	}

	counts := map[string]uint64{}
	for subject, n := range info.State.Subjects {
		if name, ok := nats.SessionFromSubject(subject); ok {
			counts[name] += n
		}
	}

	out := make([]Info, 0, len(counts))
	for _, name := range slices.Sorted(maps.Keys(counts)) {
		out = append(out, Info{Name: name, Events: counts[name]})
	}
	return out, nil
}

// Purge deletes the journal of session.
func (s *Store) Purge(ctx context.Context, session string) error {
	if err := s.stream.Purge(ctx, jetstream.WithPurgeSubject(nats.SubjectForSession(session))); err != nil {
		return fmt.Errorf("purging %s: %w", session, err)
	}
	return nil
}
