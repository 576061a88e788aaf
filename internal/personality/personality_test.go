package personality

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mark3labs/bizdesk/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeLister struct {
	mu    sync.Mutex
	calls int
	list  []api.Personality
	err   error
	block bool
}

func (f *fakeLister) ListPersonalities(ctx context.Context, _ api.RequestContext) ([]api.Personality, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.list, f.err
}

func (f *fakeLister) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var team = []api.Personality{
	{ID: "7", Name: "Ava", Role: "Receptionist", IsActive: true},
	{ID: "9", Name: "Max", Role: "Marketer", IsActive: true},
}

func newRoster(t *testing.T, l Lister) *Roster {
	t.Helper()
	r, err := NewRoster(l, CacheSize)
	require.NoError(t, err)
	return r
}

func TestNewRoster_RejectsBadSize(t *testing.T) {
	r, err := NewRoster(&fakeLister{}, 0)
	require.Error(t, err)
	assert.Nil(t, r)
	assert.Contains(t, err.Error(), "roster cache")
}

func TestRoster_CachesPerTenant(t *testing.T) {
	f := &fakeLister{list: team}
	r := newRoster(t, f)

	list, src := r.Load(context.Background(), api.RequestContext{TenantID: "t1"})
	assert.Equal(t, SourceAPI, src)
	assert.Equal(t, team, list)

	list, src = r.Load(context.Background(), api.RequestContext{TenantID: "t1"})
	assert.Equal(t, SourceCache, src)
	assert.Equal(t, team, list)
	assert.Equal(t, 1, f.Calls())

	_, src = r.Load(context.Background(), api.RequestContext{TenantID: "t2"})
	assert.Equal(t, SourceAPI, src)
	assert.Equal(t, 2, f.Calls())

	r.Invalidate("t1")
	_, src = r.Load(context.Background(), api.RequestContext{TenantID: "t1"})
	assert.Equal(t, SourceAPI, src)
}

func TestRoster_FallsBackToDefault(t *testing.T) {
	t.Run("error is not cached", func(t *testing.T) {
		f := &fakeLister{err: errors.New("down")}
		r := newRoster(t, f)
		list, src := r.Load(context.Background(), api.RequestContext{})
		assert.Equal(t, SourceDefault, src)
		assert.Equal(t, DefaultRoster(), list)

		r.Load(context.Background(), api.RequestContext{})
		assert.Equal(t, 2, f.Calls())
	})

	t.Run("empty roster", func(t *testing.T) {
		r := newRoster(t, &fakeLister{})
		list, src := r.Load(context.Background(), api.RequestContext{})
		assert.Equal(t, SourceDefault, src)
		for _, p := range list {
			assert.True(t, IsPlaceholder(p))
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		f := &fakeLister{block: true}
		r := newRoster(t, f)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, src := r.Load(ctx, api.RequestContext{})
		assert.Equal(t, SourceDefault, src)
	})
}

func TestFind(t *testing.T) {
	p, ok := Find(team, "9")
	require.True(t, ok)
	assert.Equal(t, "Max", p.Name)

	_, ok = Find(team, "missing")
	assert.False(t, ok)
}

type fakeResponder struct {
	reqs  []api.GenerateRequest
	ids   []api.ID
	reply string
	err   error
}

func (f *fakeResponder) GenerateResponse(_ context.Context, _ api.RequestContext, id api.ID, req api.GenerateRequest) (string, error) {
	f.ids = append(f.ids, id)
	f.reqs = append(f.reqs, req)
	return f.reply, f.err
}

func TestConversation_Send(t *testing.T) {
	f := &fakeResponder{reply: "Happy to help!"}
	c := NewConversation(f, &team[0])
	c.Window = 2
	c.CustomerID = "c-1"
	ctx := context.Background()

	for _, msg := range []string{"hi", "  are you open?  ", "thanks"} {
		got, err := c.Send(ctx, api.RequestContext{}, msg)
		require.NoError(t, err)
		assert.Equal(t, "Happy to help!", got)
	}

	require.Len(t, f.reqs, 3)
	assert.Empty(t, f.reqs[0].ConversationContext)
	assert.Equal(t, "are you open?", f.reqs[1].Message)
	assert.Equal(t, []api.Turn{
		{Role: "user", Content: "are you open?"},
		{Role: "assistant", Content: "Happy to help!"},
	}, f.reqs[2].ConversationContext)
	assert.Equal(t, "c-1", f.reqs[2].CustomerID)
	assert.Equal(t, api.ID("7"), f.ids[0])
	assert.Len(t, c.Turns(), 6)
}

func TestConversation_ErrorDropsUserTurn(t *testing.T) {
	f := &fakeResponder{err: &api.Error{Status: 500, Message: "model offline"}}
	c := NewConversation(f, &team[1])

	_, err := c.Send(context.Background(), api.RequestContext{}, "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Max")
	assert.Equal(t, "model offline", api.Message(err))
	assert.Empty(t, c.Turns())
}

func TestConversation_Absence(t *testing.T) {
	f := &fakeResponder{}
	placeholder := DefaultRoster()[0]

	for name, p := range map[string]*api.Personality{"nil": nil, "placeholder": &placeholder} {
		t.Run(name, func(t *testing.T) {
			c := NewConversation(f, p)
			got, err := c.Send(context.Background(), api.RequestContext{}, "anyone there?")
			require.NoError(t, err)
			assert.Equal(t, AbsenceMessage, got)
			assert.Len(t, c.Turns(), 2)
		})
	}
	assert.Empty(t, f.reqs)

	_, err := NewConversation(f, nil).Send(context.Background(), api.RequestContext{}, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}
