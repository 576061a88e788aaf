package personality

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/bizdesk/internal/api"
)

// AbsenceMessage is the reply when the chosen AI employee is not set up.
const AbsenceMessage = "I'm not set up yet. Ask your account admin to configure me under Settings > AI Team, then try again."

// DefaultWindow is how many previous turns are sent as context.
const DefaultWindow = 10

// ErrEmptyMessage is returned by Send for blank input.
var ErrEmptyMessage = errors.New("message is empty")

// Responder is the slice of the API client a conversation needs.
type Responder interface {
	GenerateResponse(ctx context.Context, rc api.RequestContext, id api.ID, req api.GenerateRequest) (string, error)
}

// Conversation is a chat with one personality.
type Conversation struct {
	client      Responder
	personality *api.Personality

	// Window is the number of prior turns sent with each message.
	Window int
	// CustomerID scopes the reply to a CRM customer when set.
	CustomerID string

	mu    sync.Mutex
	turns []api.Turn
}

// NewConversation starts a chat with p. A nil p means no personality is
// configured.
func NewConversation(client Responder, p *api.Personality) *Conversation {
	return &Conversation{client: client, personality: p, Window: DefaultWindow}
}

// Personality returns who the conversation is with, or nil.
func (c *Conversation) Personality() *api.Personality {
	return c.personality
}

// Turns returns a copy of the transcript.
func (c *Conversation) Turns() []api.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]api.Turn(nil), c.turns...)
}

// Send posts text and returns the reply. Placeholders and missing
// personalities answer with AbsenceMessage without calling the API. On error
// the user's turn is dropped so it can be resent.
func (c *Conversation) Send(ctx context.Context, rc api.RequestContext, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyMessage
	}

	c.mu.Lock()
	history := c.context()
	c.turns = append(c.turns, api.Turn{Role: "user", Content: text})
	n := len(c.turns)
	c.mu.Unlock()

	if c.personality == nil || IsPlaceholder(*c.personality) {
		c.reply(AbsenceMessage)
		return AbsenceMessage, nil
	}

	reply, err := c.client.GenerateResponse(ctx, rc, c.personality.ID, api.GenerateRequest{
		Message:             text,
		ConversationContext: history,
		CustomerID:          c.CustomerID,
	})
	if err != nil {
		c.mu.Lock()
		if len(c.turns) == n {
			c.turns = c.turns[:n-1]
		}
		c.mu.Unlock()
		return "", fmt.Errorf("%s: %w", c.personality.Name, err)
	}

	c.reply(reply)
	return reply, nil
}

func (c *Conversation) reply(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, api.Turn{Role: "assistant", Content: text})
}

// context returns the last Window turns. Callers hold mu.
func (c *Conversation) context() []api.Turn {
	w := c.Window
	if w <= 0 {
		w = DefaultWindow
	}
	start := max(0, len(c.turns)-w)
	return append([]api.Turn{}, c.turns[start:]...)
}
