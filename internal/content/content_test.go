package content

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/mark3labs/bizdesk/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "nested", "drafts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	s.Clock = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return s
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("article")
	require.NoError(t, err)
	assert.Equal(t, KindArticle, k)

	_, err = ParseKind("poem")
	assert.Error(t, err)
}

func TestBriefFrom(t *testing.T) {
	a := wizard.Answers{}
	a.Set(KeyProduct, "Sunday roast")
	a.Set(KeyOffer, "Kids eat free")
	a.Set(KeyTone, "friendly")
	a.Set(KeyAudience, "local families")

	b := BriefFrom(KindAd, a)
	assert.Equal(t, "Kids eat free", b.Title)
	assert.Equal(t, []Point{{Label: "Product", Value: "Sunday roast"}, {Label: "Offer", Value: "Kids eat free"}}, b.Points)

	prompt := b.Prompt()
	assert.Contains(t, prompt, `Write a ad titled "Kids eat free"`)
	assert.Contains(t, prompt, "Tone: friendly.")
	assert.Contains(t, prompt, "- Product: Sunday roast")

	empty := BriefFrom(KindArticle, wizard.Answers{})
	assert.Equal(t, "Untitled article", empty.Title)
}

func TestTemplateGenerator(t *testing.T) {
	tests := []struct {
		name  string
		brief Brief
		want  []string
	}{
		{
			name:  "ad",
			brief: Brief{Kind: KindAd, Title: "Kids eat free", Points: []Point{{"Product", "Sunday roast"}, {"Offer", "Kids eat free"}, {"Call to action", "Book now"}}},
			want:  []string{"# Kids eat free", "**Sunday roast**: Kids eat free.", "Book now"},
		},
		{
			name:  "announcement",
			brief: Brief{Kind: KindAnnouncement, Title: "Ten years!", Points: []Point{{"Occasion", "a milestone"}, {"Date", "2025-06-01"}}},
			want:  []string{"# Ten years!", "We have news: a milestone on 2025-06-01."},
		},
		{
			name:  "article",
			brief: Brief{Kind: KindArticle, Title: "Winter bikes", Sections: []string{"FAQ"}, Audience: "commuters", Tone: "playful"},
			want:  []string{"## FAQ", "_Written for commuters in a playful tone._"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := TemplateGenerator{}.Generate(context.Background(), tt.brief)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

type fakeMessager struct {
	params anthropic.MessageNewParams
	reply  string
	err    error
}

func (f *fakeMessager) New(_ context.Context, params anthropic.MessageNewParams, _ ...option.RequestOption) (*anthropic.Message, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return &anthropic.Message{Content: []anthropic.ContentBlockUnion{
		{Type: "text", Text: f.reply},
	}}, nil
}

func TestAnthropicGenerator(t *testing.T) {
	fake := &fakeMessager{reply: "  # Fresh copy\n"}
	g := NewAnthropicGenerator(fake, "claude-test")

	out, err := g.Generate(context.Background(), Brief{Kind: KindAd, Title: "Offer"})
	require.NoError(t, err)
	assert.Equal(t, "# Fresh copy", out)
	assert.Equal(t, anthropic.Model("claude-test"), fake.params.Model)
	assert.Equal(t, "anthropic:claude-test", g.Name())

	fake.reply = "   "
	_, err = g.Generate(context.Background(), Brief{Kind: KindAd})
	assert.Error(t, err)

	fake.err = errors.New("overloaded")
	_, err = g.Generate(context.Background(), Brief{Kind: KindAd})
	assert.ErrorContains(t, err, "overloaded")
}

func TestNewGenerator_FallsBackWithoutKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	assert.Equal(t, "template", NewGenerator("m").Name())
}

func TestStore(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.Save(ctx, Draft{Kind: KindAd, Title: "First", Body: "# One"})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	second, err := s.Save(ctx, Draft{Kind: KindArticle, Title: "Second", Body: "# Two"})
	require.NoError(t, err)

	got, err := s.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "# One", got.Body)
	assert.Equal(t, first.CreatedAt, got.CreatedAt)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	ads, err := s.List(ctx, KindAd)
	require.NoError(t, err)
	require.Len(t, ads, 1)

	updated, err := s.UpdateBody(ctx, first.ID, "# One, revised")
	require.NoError(t, err)
	assert.Equal(t, "# One, revised", updated.Body)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	require.NoError(t, s.Delete(ctx, first.ID))
	_, err = s.Get(ctx, first.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
	assert.ErrorIs(t, s.Delete(ctx, first.ID), ErrDraftNotFound)
	_, err = s.UpdateBody(ctx, "missing", "x")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestExport(t *testing.T) {
	d := Draft{
		ID:        "abc",
		Kind:      KindArticle,
		Title:     "Winter <Bikes>",
		Body:      "# Winter bikes\n\n| a | b |\n|---|---|\n| 1 | 2 |\n",
		UpdatedAt: time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC),
	}

	page, err := ExportHTML(d)
	require.NoError(t, err)
	assert.Contains(t, page, "<title>Winter &lt;Bikes&gt;</title>")
	assert.Contains(t, page, "<h1>Winter bikes</h1>")
	assert.Contains(t, page, "<table>", "GFM tables are enabled")
	assert.Contains(t, page, "7 Mar 2025")

	dir := t.TempDir()
	path, err := ExportFile(filepath.Join(dir, "out"), d)
	require.NoError(t, err)
	assert.Equal(t, "winter-bikes.html", filepath.Base(path))
	blob, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, page, string(blob))

	assert.Equal(t, "abc.html", FileName(Draft{ID: "abc"}))
}

func TestEdit(t *testing.T) {
	t.Setenv("EDITOR", "vi")
	s := openTestStore(t)
	ctx := context.Background()
	d, err := s.Save(ctx, Draft{Kind: KindAd, Title: "Edit me", Body: "before"})
	require.NoError(t, err)

	write := func(body string) func(*exec.Cmd) error {
		return func(cmd *exec.Cmd) error {
			path := cmd.Args[len(cmd.Args)-1]
			return os.WriteFile(path, []byte(body), 0644)
		}
	}

	got, changed, err := Edit(ctx, s, d.ID, write("before"))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, "before", got.Body)

	got, changed, err = Edit(ctx, s, d.ID, write("after"))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "after", got.Body)

	_, _, err = Edit(ctx, s, d.ID, func(*exec.Cmd) error { return errors.New("editor crashed") })
	assert.ErrorContains(t, err, "editor crashed")
}

func TestFlows(t *testing.T) {
	ctx := context.Background()

	_, err := NewFlow("poem", nil, nil)
	require.Error(t, err)

	t.Run("article caps sections and saves a draft", func(t *testing.T) {
		s := openTestStore(t)
		f, err := NewFlow(KindArticle, TemplateGenerator{}, s)
		require.NoError(t, err)
		nav := wizard.NewNavigator(f)

		assert.ErrorIs(t, nav.Next(ctx), wizard.ErrRequired)
		nav.Answer(KeyArticleTitle, "Winter bikes")
		require.NoError(t, nav.Next(ctx))

		sections := []string{}
		for _, item := range []string{"FAQ", "How-to steps", "Local angle", "Customer story"} {
			sections = wizard.ToggleChecklist(sections, item, MaxSections)
		}
		assert.Len(t, sections, MaxSections)
		nav.Answer(KeySections, sections)
		nav.Answer(KeyLength, "short (300 words)")
		require.NoError(t, nav.Next(ctx))

		nav.Answer(KeyTone, "playful")
		require.NoError(t, nav.Next(ctx))
		require.Equal(t, "review", nav.CurrentNode())
		require.NoError(t, nav.Next(ctx))

		id := nav.Derived(DerivedDraftID)
		require.NotEmpty(t, id)
		d, err := s.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, KindArticle, d.Kind)
		assert.Equal(t, "Winter bikes", d.Title)
		assert.Equal(t, "template", d.Generator)
		assert.True(t, strings.HasPrefix(d.Body, "# Winter bikes"))
		assert.Equal(t, "Your draft", nav.Screen().Title)
	})

	t.Run("announcement and ad share the voice screen", func(t *testing.T) {
		for _, kind := range []Kind{KindAd, KindAnnouncement} {
			f, err := NewFlow(kind, nil, nil)
			require.NoError(t, err)
			_, ok := f.Node("voice")
			assert.True(t, ok, string(kind))
			_, ok = f.Node("review")
			assert.True(t, ok, string(kind))
		}
	})
}
