package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testFlow: intro -> kind -> (details unless kind=quick) -> extras -> done(action)
func testFlow(t *testing.T, allowIncomplete bool) (*Flow, *[]*State) {
	t.Helper()

	screen := func(title string, blocks ...Block) func(*State) Screen {
		return func(*State) Screen { return Screen{Title: title, Blocks: blocks} }
	}
	to := func(id string) func(*State) string {
		return func(*State) string { return id }
	}

	f, err := NewFlow("test", "intro",
		&Node{ID: "intro", Step: 1, Build: screen("Intro", Info{Title: "hello"}), Next: to("kind")},
		&Node{ID: "kind", Step: 1,
			Build: screen("Kind", Question{ID: "kind", Options: []Option{{Value: "quick"}, {Value: "full"}}, Required: true}),
			Next: func(s *State) string {
				if s.Answers.String("kind") == "quick" {
					return "extras"
				}
				return "details"
			},
		},
		&Node{ID: "details", Step: 2,
			Build: screen("Details", Ranking{ID: "rank", Items: []Option{{Value: "a"}, {Value: "b"}, {Value: "c"}, {Value: "d"}}, Slots: 3, Required: true}),
			Next:  to("extras"),
		},
		&Node{ID: "extras", Step: 3,
			Build: screen("Extras", Checklist{ID: "extras", Items: []Option{{Value: "x"}, {Value: "y"}}}),
			Next:  to("done"),
		},
		&Node{ID: "done", Step: 4, Build: screen("Done", Summary{Title: "Review"}), Action: "finish"},
	)
	require.NoError(t, err)
	f.AllowIncomplete = allowIncomplete
	f.Derive = func(s *State) bool {
		return s.SetDerived("extraCount", string(rune('0'+len(s.Answers.Strings("extras")))))
	}

	var ran []*State
	f.Handle("finish", func(ctx context.Context, s *State) error {
		ran = append(ran, s)
		s.SetDerived("finished", "yes")
		return nil
	})
	return f, &ran
}

func TestNewFlow_Errors(t *testing.T) {
	build := func(*State) Screen { return Screen{} }

	_, err := NewFlow("f", "missing", &Node{ID: "a", Build: build})
	assert.ErrorIs(t, err, ErrUnknownNode)

	_, err = NewFlow("f", "a", &Node{ID: "a", Build: build}, &Node{ID: "a", Build: build})
	assert.ErrorContains(t, err, "duplicate")

	_, err = NewFlow("f", "a", &Node{ID: "a"})
	assert.ErrorContains(t, err, "no Build")

	assert.Panics(t, func() { MustFlow("f", "nope") })
}

func TestNavigator_RequiredGate(t *testing.T) {
	f, _ := testFlow(t, false)
	nav := NewNavigator(f)
	ctx := context.Background()

	require.NoError(t, nav.Next(ctx))
	assert.Equal(t, "kind", nav.CurrentNode())
	assert.False(t, nav.CanProceed())
	assert.False(t, nav.Screen().Nav.NextEnabled)

	err := nav.Next(ctx)
	require.ErrorIs(t, err, ErrRequired)
	assert.Equal(t, "kind", nav.CurrentNode(), "blocked Next does not move")

	nav.Answer("kind", "full")
	assert.True(t, nav.CanProceed())
	require.NoError(t, nav.Next(ctx))
	assert.Equal(t, "details", nav.CurrentNode())

	nav.Answer("rank", []string{"a", "b"})
	assert.False(t, nav.CanProceed(), "ranking needs all three slots")
	nav.Answer("rank", []string{"a", "b", "c"})
	assert.True(t, nav.CanProceed())
}

func TestNavigator_AllowIncomplete(t *testing.T) {
	f, _ := testFlow(t, true)
	nav := NewNavigator(f)
	ctx := context.Background()

	require.NoError(t, nav.Next(ctx))
	assert.True(t, nav.Screen().Nav.NextEnabled)
	require.NoError(t, nav.Next(ctx))
	assert.Equal(t, "details", nav.CurrentNode())
}

func TestNavigator_BranchAndBack(t *testing.T) {
	f, _ := testFlow(t, false)
	nav := NewNavigator(f)
	ctx := context.Background()

	require.NoError(t, nav.Next(ctx))
	nav.Answer("kind", "quick")
	require.NoError(t, nav.Next(ctx))
	assert.Equal(t, "extras", nav.CurrentNode(), "quick skips details")

	require.NoError(t, nav.Back())
	assert.Equal(t, "kind", nav.CurrentNode(), "back returns to the screen actually visited")
	require.NoError(t, nav.Back())
	assert.Equal(t, "intro", nav.CurrentNode())
	assert.ErrorIs(t, nav.Back(), ErrAtStart)
}

func TestNavigator_Position(t *testing.T) {
	f, _ := testFlow(t, false)
	nav := NewNavigator(f)
	ctx := context.Background()

	idx, total := nav.Position()
	assert.Equal(t, 0, idx)
	assert.Equal(t, 5, total, "unanswered kind predicts the long path")

	require.NoError(t, nav.Next(ctx))
	nav.Answer("kind", "quick")
	idx, total = nav.Position()
	assert.Equal(t, 1, idx)
	assert.Equal(t, 4, total)
	assert.Equal(t, []string{"intro", "kind", "extras", "done"}, nav.Path())

	nav.Answer("kind", "full")
	_, total = nav.Position()
	assert.Equal(t, 5, total)
}

func TestNavigator_PositionStaysInRange(t *testing.T) {
	f, _ := testFlow(t, true)
	nav := NewNavigator(f)
	ctx := context.Background()

	moves := []string{"n", "n", "b", "n", "n", "n", "n", "n", "b", "b", "b", "b", "b", "n"}
	for i, m := range moves {
		if i == 3 {
			nav.Answer("kind", "quick")
		}
		if m == "n" {
			_ = nav.Next(ctx)
		} else {
			_ = nav.Back()
		}
		idx, total := nav.Position()
		require.GreaterOrEqual(t, idx, 0)
		require.LessOrEqual(t, idx, total-1, "move %d", i)
	}
}

func TestNavigator_Action(t *testing.T) {
	f, ran := testFlow(t, false)
	nav := NewNavigator(f)
	ctx := context.Background()

	var changes []ChangeType
	nav.OnChange(func(c Change) { changes = append(changes, c.Type) })

	require.NoError(t, nav.Next(ctx))
	nav.Answer("kind", "quick")
	require.NoError(t, nav.Next(ctx))
	nav.Answer("extras", []string{"x", "y"})
	require.NoError(t, nav.Next(ctx))

	s := nav.Screen()
	assert.Equal(t, "finish", s.Nav.Action)
	assert.Equal(t, 4, nav.CurrentStep())

	require.NoError(t, nav.Next(ctx))
	assert.Equal(t, "done", nav.CurrentNode(), "action does not advance")
	require.Len(t, *ran, 1)
	assert.Equal(t, "yes", nav.Derived("finished"), "derived writes from the action are merged")
	assert.Equal(t, "2", nav.Derived("extraCount"))

	assert.Equal(t, []ChangeType{
		ChangeNext, ChangeAnswer, ChangeNext, ChangeAnswer, ChangeNext, ChangeComplete,
	}, changes)
}

func TestNavigator_ActionErrors(t *testing.T) {
	build := func(*State) Screen { return Screen{} }
	f := MustFlow("f", "a", &Node{ID: "a", Build: build, Action: "launch"})
	nav := NewNavigator(f)
	assert.ErrorIs(t, nav.Next(context.Background()), ErrUnknownAction)

	boom := errors.New("boom")
	f.Handle("launch", func(context.Context, *State) error { return boom })
	assert.ErrorIs(t, nav.Next(context.Background()), boom)
}

func TestNavigator_EndAndUnknown(t *testing.T) {
	build := func(*State) Screen { return Screen{} }
	f := MustFlow("f", "a",
		&Node{ID: "a", Build: build, Next: func(*State) string { return "ghost" }},
		&Node{ID: "b", Build: build},
	)
	nav := NewNavigator(f)
	assert.ErrorIs(t, nav.Next(context.Background()), ErrUnknownNode)

	nav2 := NewNavigator(MustFlow("g", "b", &Node{ID: "b", Build: build}))
	assert.ErrorIs(t, nav2.Next(context.Background()), ErrEndOfFlow)
}

func TestNavigator_Validate(t *testing.T) {
	tooLong := errors.New("too long")
	f := MustFlow("f", "a",
		&Node{
			ID:    "a",
			Build: func(*State) Screen { return Screen{Blocks: []Block{Input{ID: "name"}}} },
			Next:  func(*State) string { return "b" },
			Validate: func(s *State) error {
				if len(s.Answers.String("name")) > 5 {
					return tooLong
				}
				return nil
			},
		},
		&Node{ID: "b", Build: func(*State) Screen { return Screen{} }},
	)
	nav := NewNavigator(f)
	nav.Answer("name", "much too long")
	assert.ErrorIs(t, nav.Next(context.Background()), tooLong)
	nav.Answer("name", "short")
	assert.NoError(t, nav.Next(context.Background()))
}

func TestNavigator_ScreenReflectsAnswers(t *testing.T) {
	f := MustFlow("f", "a", &Node{
		ID: "a",
		Build: func(s *State) Screen {
			return Screen{Title: "Hi " + s.Answers.String("name")}
		},
	})
	nav := NewNavigator(f)
	nav.Answer("name", "Murphy's")
	assert.Equal(t, "Hi Murphy's", nav.Screen().Title)
	assert.Equal(t, "Back", nav.Screen().Nav.BackLabel)
	assert.False(t, nav.Screen().Nav.BackEnabled)
}

func TestNavigator_Restore(t *testing.T) {
	f, _ := testFlow(t, false)
	nav := NewNavigator(f)

	err := nav.Restore(&State{Flow: "test", Current: "nowhere"})
	assert.ErrorIs(t, err, ErrUnknownNode)

	err = nav.Restore(&State{Flow: "test", Current: "extras", History: []string{"intro", "ghost"}})
	assert.ErrorIs(t, err, ErrUnknownNode)

	err = nav.Restore(&State{Flow: "other", Current: "intro"})
	assert.Error(t, err)

	want := &State{
		Flow:    "test",
		Current: "extras",
		History: []string{"intro", "kind"},
		Answers: Answers{"kind": "quick", "extras": []string{"x"}},
	}
	require.NoError(t, nav.Restore(want))
	got := nav.State()
	assert.Equal(t, "extras", got.Current)
	assert.Equal(t, "1", got.Derived["extraCount"], "derive runs on restore")
	if diff := cmp.Diff(want.Answers, got.Answers); diff != "" {
		t.Errorf("answers mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, nav.Back())
	assert.Equal(t, "kind", nav.CurrentNode())
}
