package chat

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/bizdesk/internal/api"
	"github.com/mark3labs/bizdesk/internal/personality"
	"github.com/mark3labs/bizdesk/internal/tui/testfixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResponder struct {
	replies []string
	errs    []error
	got     []api.GenerateRequest
}

func (f *fakeResponder) GenerateResponse(_ context.Context, _ api.RequestContext, _ api.ID, req api.GenerateRequest) (string, error) {
	f.got = append(f.got, req)
	i := len(f.got) - 1
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return "ok", nil
}

func newChat(t *testing.T, r *fakeResponder, p *api.Personality) *Model {
	t.Helper()
	conv := personality.NewConversation(r, p)
	m := New(context.Background(), conv, testfixtures.RequestContext())
	m.Init()
	m.Update(tea.WindowSizeMsg{Width: testfixtures.TestTermWidth, Height: testfixtures.TestTermHeight})
	return m
}

func typeText(m *Model, s string) {
	for _, k := range testfixtures.Type(s) {
		m.Update(k)
	}
}

// runSend presses enter and delivers the reply. The send func is the second
// command in the batch, after the spinner tick.
func runSend(t *testing.T, m *Model) {
	t.Helper()
	_, cmd := m.Update(testfixtures.Key(tea.KeyEnter))
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	require.Len(t, batch, 2)
	m.Update(batch[1]())
}

func TestChat_SendAndReply(t *testing.T) {
	ava := testfixtures.Personalities()[0]
	r := &fakeResponder{replies: []string{"Happy to **help**."}}
	m := newChat(t, r, &ava)

	typeText(m, "hello there")
	runSend(t, m)

	require.Len(t, r.got, 1)
	assert.Equal(t, "hello there", r.got[0].Message)
	assert.False(t, m.Waiting())
	assert.Equal(t, []api.Turn{
		{Role: "user", Content: "hello there"},
		{Role: "assistant", Content: "Happy to **help**."},
	}, m.Turns())

	out := testfixtures.Plain(m.Render())
	assert.Contains(t, out, "Ava")
	assert.Contains(t, out, "Marketing lead")
	assert.Contains(t, out, "hello there")
	assert.Contains(t, out, "help")
	assert.Empty(t, m.input.Value())
}

func TestChat_BlankInputIsIgnored(t *testing.T) {
	r := &fakeResponder{}
	ava := testfixtures.Personalities()[0]
	m := newChat(t, r, &ava)

	typeText(m, "   ")
	_, cmd := m.Update(testfixtures.Key(tea.KeyEnter))

	assert.Nil(t, cmd)
	assert.Empty(t, m.Turns())
}

func TestChat_OneMessageInFlight(t *testing.T) {
	r := &fakeResponder{}
	ava := testfixtures.Personalities()[0]
	m := newChat(t, r, &ava)

	typeText(m, "first")
	_, cmd := m.Update(testfixtures.Key(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.True(t, m.Waiting())
	assert.Contains(t, testfixtures.Plain(m.Render()), "Ava is typing...")

	typeText(m, "second")
	_, again := m.Update(testfixtures.Key(tea.KeyEnter))
	assert.Nil(t, again)
	assert.Len(t, m.Turns(), 1)
}

func TestChat_FailureRestoresInput(t *testing.T) {
	r := &fakeResponder{errs: []error{&api.Error{Status: 503, Message: "Service unavailable"}}}
	ava := testfixtures.Personalities()[0]
	m := newChat(t, r, &ava)

	typeText(m, "are you there")
	runSend(t, m)

	require.Error(t, m.Err())
	assert.Empty(t, m.Turns())
	assert.Equal(t, "are you there", m.input.Value())
	assert.Contains(t, testfixtures.Plain(m.Render()), "Service unavailable")

	runSend(t, m)
	assert.NoError(t, m.Err())
	assert.Len(t, m.Turns(), 2)
}

func TestChat_Unconfigured(t *testing.T) {
	r := &fakeResponder{}
	placeholder := personality.DefaultRoster()[0]
	m := newChat(t, r, &placeholder)

	assert.Contains(t, testfixtures.Plain(m.Render()), "not set up yet")

	typeText(m, "hi")
	runSend(t, m)

	assert.Empty(t, r.got)
	turns := m.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, personality.AbsenceMessage, turns[1].Content)
}

func TestChat_EscQuits(t *testing.T) {
	m := newChat(t, &fakeResponder{}, nil)
	_, cmd := m.Update(testfixtures.Key(tea.KeyEscape))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestChat_DeadlineMessage(t *testing.T) {
	r := &fakeResponder{errs: []error{context.DeadlineExceeded}}
	ava := testfixtures.Personalities()[0]
	m := newChat(t, r, &ava)

	typeText(m, "slow")
	runSend(t, m)

	assert.True(t, errors.Is(m.Err(), context.DeadlineExceeded))
	assert.Contains(t, testfixtures.Plain(m.Render()), "took too long")
}
