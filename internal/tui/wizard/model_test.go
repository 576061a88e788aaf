package wizard

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/bizdesk/internal/api"
	"github.com/mark3labs/bizdesk/internal/tui/testfixtures"
	core "github.com/mark3labs/bizdesk/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShowcase(t *testing.T, action core.ActionFunc) (*Model, *core.Navigator) {
	t.Helper()
	nav := core.NewNavigator(testfixtures.ShowcaseFlow(action))
	m := New(context.Background(), nav, Options{Title: "Showcase"})
	m.Init()
	m.Update(tea.WindowSizeMsg{Width: testfixtures.TestTermWidth, Height: testfixtures.TestTermHeight})
	return m, nav
}

func press(m *Model, msgs ...tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func typeText(m *Model, s string) {
	press(m, testfixtures.Type(s)...)
}

func plain(m *Model) string {
	return testfixtures.Plain(m.Render())
}

// fillBasics answers the first screen and moves on.
func fillBasics(t *testing.T, m *Model) {
	t.Helper()
	typeText(m, "acme")
	press(m,
		testfixtures.Key(tea.KeyEnter), // commit name, focus goal
		testfixtures.Key(tea.KeyDown),
		testfixtures.Space(), // sales
		testfixtures.Key(tea.KeyTab),
		testfixtures.Key(tea.KeyEnter),
	)
	require.Equal(t, "choices", m.Screen().NodeID)
}

func TestModel_TextCommitsOnBlur(t *testing.T) {
	m, nav := newShowcase(t, nil)

	typeText(m, "acme")
	assert.Equal(t, "acme", m.fields["name"].Value())
	assert.False(t, nav.Answers().Has("name"), "typing stays local until the field is left")

	press(m, testfixtures.Key(tea.KeyTab))
	assert.Equal(t, "acme", nav.Answers().String("name"))
	assert.Equal(t, 1, m.focus)
}

func TestModel_EnterAdvancesSingleLineField(t *testing.T) {
	m, nav := newShowcase(t, nil)

	typeText(m, "bob's")
	press(m, testfixtures.Key(tea.KeyEnter))

	assert.Equal(t, "bob's", nav.Answers().String("name"))
	assert.Equal(t, 1, m.focus)
}

func TestModel_ShiftTabWrapsToButtons(t *testing.T) {
	m, _ := newShowcase(t, nil)

	press(m, testfixtures.ShiftKey(tea.KeyTab))
	cur := m.current()
	assert.Equal(t, -1, cur.block)
	assert.Equal(t, 1, cur.button, "back is disabled on the first screen")
}

func TestModel_RequiredBlocksNext(t *testing.T) {
	m, nav := newShowcase(t, nil)

	press(m,
		testfixtures.Key(tea.KeyTab),
		testfixtures.Key(tea.KeyTab),
		testfixtures.Key(tea.KeyEnter),
	)

	require.Error(t, m.Err())
	assert.True(t, errors.Is(m.Err(), core.ErrRequired))
	assert.Equal(t, "basics", nav.CurrentNode())
	assert.Contains(t, plain(m), "Please answer the required questions")
}

func TestModel_ChoicesScreen(t *testing.T) {
	m, nav := newShowcase(t, nil)
	fillBasics(t, m)
	assert.Equal(t, "sales", nav.Answers().String("goal"))

	// grid: move right to retail
	press(m, testfixtures.Key(tea.KeyRight), testfixtures.Space())
	assert.Equal(t, "retail", nav.Answers().String("category"))

	// checklist capped at two
	press(m,
		testfixtures.Key(tea.KeyTab),
		testfixtures.Space(),
		testfixtures.Key(tea.KeyDown),
		testfixtures.Space(),
		testfixtures.Key(tea.KeyDown),
		testfixtures.Space(),
	)
	assert.Equal(t, []string{"sms", "email"}, nav.Answers().Strings("extras"))
	assert.Contains(t, plain(m), "Pick up to 2 (2 chosen)")

	// ranking in click order, then unrank the first
	press(m,
		testfixtures.Key(tea.KeyTab),
		testfixtures.Key(tea.KeyDown),
		testfixtures.Space(),
		testfixtures.Key(tea.KeyUp),
		testfixtures.Space(),
	)
	assert.Equal(t, []string{"speed", "price"}, nav.Answers().Strings("priorities"))
	assert.Contains(t, plain(m), "2 of 2 ranked")

	press(m, testfixtures.Key(tea.KeyDown), testfixtures.Space())
	assert.Equal(t, []string{"price"}, nav.Answers().Strings("priorities"))
}

func TestModel_CursorClamps(t *testing.T) {
	m, _ := newShowcase(t, nil)
	fillBasics(t, m)

	press(m, testfixtures.Key(tea.KeyUp), testfixtures.Key(tea.KeyLeft))
	assert.Equal(t, 0, m.cursors["category"])

	// two columns: down moves a row
	press(m, testfixtures.Key(tea.KeyDown))
	assert.Equal(t, 2, m.cursors["category"])
	press(m, testfixtures.Key(tea.KeyDown), testfixtures.Key(tea.KeyRight), testfixtures.Key(tea.KeyRight))
	assert.Equal(t, 3, m.cursors["category"])
}

func TestModel_BackKeepsAnswers(t *testing.T) {
	m, nav := newShowcase(t, nil)
	fillBasics(t, m)

	press(m, testfixtures.Key(tea.KeyEscape))

	assert.Equal(t, "basics", m.Screen().NodeID)
	assert.Equal(t, "acme", m.fields["name"].Value())
	assert.Equal(t, "sales", nav.Answers().String("goal"))
	assert.Equal(t, 0, m.focus)
}

func TestModel_EscOnFirstScreenCancels(t *testing.T) {
	m, _ := newShowcase(t, nil)

	cmd := press(m, testfixtures.Key(tea.KeyEscape))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.Cancelled())
}

func TestModel_CtrlCCommitsAndCancels(t *testing.T) {
	m, nav := newShowcase(t, nil)
	typeText(m, "half")

	cmd := press(m, testfixtures.Ctrl('c'))

	require.NotNil(t, cmd)
	assert.True(t, m.Cancelled())
	assert.Equal(t, "half", nav.Answers().String("name"))
}

// finish runs the action half of the batch returned when Submit is pressed.
func finish(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	require.Len(t, batch, 2)
	m.Update(batch[1]())
}

// toReview fills every screen up to the review and focuses Submit.
func toReview(t *testing.T, m *Model) {
	t.Helper()
	fillBasics(t, m)
	// back=3, next=4
	press(m,
		testfixtures.Key(tea.KeyTab),
		testfixtures.Key(tea.KeyTab),
		testfixtures.Key(tea.KeyTab),
		testfixtures.Key(tea.KeyTab),
		testfixtures.Key(tea.KeyEnter),
	)
	require.Equal(t, "review", m.Screen().NodeID)

	press(m, testfixtures.Key(tea.KeyRight), testfixtures.Space())
	press(m, testfixtures.Key(tea.KeyTab), testfixtures.Key(tea.KeyTab))
	require.Equal(t, target{block: -1, button: 1}, m.current())
}

func TestModel_ActionSucceeds(t *testing.T) {
	var got *core.State
	m, nav := newShowcase(t, func(_ context.Context, s *core.State) error {
		got = s
		s.SetDerived("campaignId", "c-42")
		return nil
	})
	m.opts.SuccessText = func(n *core.Navigator) string {
		return "Created " + n.Derived("campaignId")
	}
	toReview(t, m)

	cmd := press(m, testfixtures.Key(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.Contains(t, plain(m), "Working...")

	// keys are ignored while the action runs
	assert.Nil(t, press(m, testfixtures.Key(tea.KeyEscape)))

	finish(t, m, cmd)

	require.NotNil(t, got)
	assert.Equal(t, "growth", got.Answers.String("package"))
	assert.Equal(t, "acme", got.Answers.String("name"))
	assert.True(t, m.Succeeded())
	assert.Equal(t, "c-42", nav.Derived("campaignId"))
	assert.Contains(t, plain(m), "Created c-42")

	quit := press(m, testfixtures.Key(tea.KeyEnter))
	require.NotNil(t, quit)
	assert.IsType(t, tea.QuitMsg{}, quit())
	assert.False(t, m.Cancelled())
}

func TestModel_ActionFailureShowsBannerAndRetries(t *testing.T) {
	calls := 0
	m, _ := newShowcase(t, func(context.Context, *core.State) error {
		calls++
		if calls == 1 {
			return &api.Error{Status: 422, Message: "Event date is in the past"}
		}
		return nil
	})
	toReview(t, m)

	finish(t, m, press(m, testfixtures.Key(tea.KeyEnter)))

	assert.False(t, m.Succeeded())
	out := plain(m)
	assert.Contains(t, out, "Event date is in the past")
	assert.Contains(t, out, "Try again")

	finish(t, m, press(m, testfixtures.Key(tea.KeyEnter)))
	assert.True(t, m.Succeeded())
	assert.Nil(t, m.Err())
	assert.Equal(t, 2, calls)
}

func TestModel_RendersEveryBlockKind(t *testing.T) {
	m, _ := newShowcase(t, nil)

	out := plain(m)
	for _, want := range []string{"Showcase", "Basics", "Tell us about the business", "Business name", "Primary goal", "Awareness", "1/3", "Continue →"} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, out, "← Back", "disabled back is still drawn")

	fillBasics(t, m)
	out = plain(m)
	for _, want := range []string{"Category", "Food", "Services", "Extras", "Pick up to 2 (0 chosen)", "Rank priorities", "0 of 2 ranked", "2/3", "← Back"} {
		assert.Contains(t, out, want)
	}

	toReviewFrom(t, m)
	out = plain(m)
	for _, want := range []string{"Almost done", "Starter", "Growth", "$250/mo", "Recommended", "Your answers", "acme", "Submit →", "3/3"} {
		assert.Contains(t, out, want)
	}
}

// toReviewFrom moves from the choices screen to the review.
func toReviewFrom(t *testing.T, m *Model) {
	t.Helper()
	press(m,
		testfixtures.Key(tea.KeyTab),
		testfixtures.Key(tea.KeyTab),
		testfixtures.Key(tea.KeyTab),
		testfixtures.Key(tea.KeyTab),
		testfixtures.Key(tea.KeyEnter),
	)
	require.Equal(t, "review", m.Screen().NodeID)
}

func TestCreateBackNextButtons(t *testing.T) {
	buttons := CreateBackNextButtons("Back", "Next", false, true, 0)
	assert.Equal(t, ButtonDisabled, buttons[0].State)
	assert.Equal(t, ButtonNormal, buttons[1].State)

	buttons = CreateBackNextButtons("Back", "Next", true, true, 1)
	assert.Equal(t, ButtonNormal, buttons[0].State)
	assert.Equal(t, ButtonFocused, buttons[1].State)
	assert.Equal(t, "Next →", buttons[1].Label)
}

func TestRenderHintBar(t *testing.T) {
	assert.Equal(t, "", renderHintBar("odd"))
	out := testfixtures.Plain(renderHintBar("tab", "next", "enter", "select"))
	assert.Equal(t, "tab next • enter select", out)
}
