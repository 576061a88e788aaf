package campaign

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/bizdesk/internal/api"
	"github.com/mark3labs/bizdesk/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendPackage(t *testing.T) {
	tests := []struct {
		name string
		in   Profile
		want Package
	}{
		{name: "service authority", in: Profile{BusinessCategory: "service", PrimaryGoal: "authority"}, want: PackageExpert},
		{name: "service trust challenge", in: Profile{BusinessCategory: "service", PrimaryGoal: "loyalty", BiggestChallenge: "trust"}, want: PackageExpert},
		{name: "service authority beats awareness rule", in: Profile{BusinessCategory: "service", PrimaryGoal: "authority", BiggestChallenge: "differentiation"}, want: PackageExpert},
		{name: "awareness differentiation", in: Profile{PrimaryGoal: "awareness", BiggestChallenge: "differentiation"}, want: PackageSponsor},
		{name: "awareness no challenge", in: Profile{PrimaryGoal: "awareness"}, want: PackageSponsor},
		{name: "service awareness", in: Profile{BusinessCategory: "service", PrimaryGoal: "awareness", BiggestChallenge: "budget"}, want: PackageSponsor},
		{name: "awareness but no time", in: Profile{PrimaryGoal: "awareness", BiggestChallenge: "time"}, want: PackageInfluencer},
		{name: "retail authority", in: Profile{BusinessCategory: "retail", PrimaryGoal: "authority"}, want: PackageInfluencer},
		{name: "empty", in: Profile{}, want: PackageInfluencer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RecommendPackage(tt.in))
		})
	}
}

func TestMonthlyTotal(t *testing.T) {
	assert.Equal(t, 300, MonthlyTotal(nil))
	assert.Equal(t, 300, MonthlyTotal([]string{}))
	assert.Equal(t, 300, MonthlyTotal([]string{"unknown"}))
	assert.Equal(t, 375, MonthlyTotal([]string{"social-boost"}))
	assert.Equal(t, 450, MonthlyTotal([]string{"social-boost", "social-boost"}), "each entry is charged")

	t.Run("non-decreasing as enhancements are added", func(t *testing.T) {
		var active []string
		prev := MonthlyTotal(active)
		for _, e := range Enhancements {
			active = append(active, e.ID)
			got := MonthlyTotal(active)
			assert.GreaterOrEqual(t, got, prev)
			prev = got
		}
		assert.Equal(t, 300+75+50+150+60+125, prev)
	})
}

func walk(t *testing.T, nav *wizard.Navigator, answers map[string]any, stops ...string) {
	t.Helper()
	for _, id := range stops {
		require.Equal(t, id, nav.CurrentNode())
		for k, v := range answers {
			if screenHas(nav.Screen(), k) {
				nav.Answer(k, v)
			}
		}
		if nav.Screen().Nav.Action == "" {
			require.NoError(t, nav.Next(context.Background()))
		}
	}
}

func screenHas(s wizard.Screen, id string) bool {
	for _, b := range s.Blocks {
		if a, ok := b.(wizard.Answerable); ok && a.AnswerID() == id {
			return true
		}
	}
	return false
}

func TestFlow_Branching(t *testing.T) {
	t.Run("service business with event priority", func(t *testing.T) {
		nav := wizard.NewNavigator(NewFlow(nil))
		walk(t, nav, map[string]any{
			KeyBusinessName:     "Able Accounting",
			KeyBusinessCategory: "service",
			KeyPriorities:       []string{"event", "authority", "leads"},
			KeyEventName:        "Tax Night",
			KeyEventDate:        "2025-04-01",
		}, "welcome", "business", "service-details", "priorities", "event", "package", "enhancements", "review")

		assert.Equal(t, "event", nav.Derived(DerivedPrimaryGoal))
		assert.Equal(t, string(PackageInfluencer), nav.Derived(DerivedRecommendedPackage))
	})

	t.Run("retail business without event priority", func(t *testing.T) {
		nav := wizard.NewNavigator(NewFlow(nil))
		walk(t, nav, map[string]any{
			KeyBusinessCategory: "retail",
			KeyPriorities:       []string{"awareness", "event", "leads"},
			KeyBiggestChallenge: "differentiation",
		}, "welcome", "business", "priorities", "challenge", "event", "package", "enhancements", "review")

		assert.Equal(t, string(PackageSponsor), nav.Derived(DerivedRecommendedPackage))

		require.NoError(t, nav.Back())
		require.NoError(t, nav.Back())
		require.NoError(t, nav.Back())
		require.NoError(t, nav.Back())
		assert.Equal(t, "challenge", nav.CurrentNode())
		require.NoError(t, nav.Back())
		require.NoError(t, nav.Back())
		assert.Equal(t, "business", nav.CurrentNode(), "skipped service-details is not revisited")
	})

	t.Run("re-ranking event first drops the skipped challenge", func(t *testing.T) {
		nav := wizard.NewNavigator(NewFlow(nil))
		walk(t, nav, map[string]any{
			KeyBusinessName:     "Able Accounting",
			KeyBusinessCategory: "service",
			KeyPriorities:       []string{"awareness", "event", "loyalty"},
			KeyBiggestChallenge: "trust",
		}, "welcome", "business", "service-details", "priorities", "challenge")
		require.Equal(t, "event", nav.CurrentNode())
		assert.Equal(t, string(PackageExpert), nav.Derived(DerivedRecommendedPackage))

		require.NoError(t, nav.Back())
		require.NoError(t, nav.Back())
		require.Equal(t, "priorities", nav.CurrentNode())
		nav.Answer(KeyPriorities, []string{"event", "awareness", "loyalty"})

		assert.NotContains(t, nav.Path(), "challenge")
		assert.Equal(t, string(PackageInfluencer), nav.Derived(DerivedRecommendedPackage))
		assert.Equal(t, "trust", nav.Answers().String(KeyBiggestChallenge), "answer is kept for a later re-rank")

		nav.Answer(KeyPriorities, []string{"awareness", "event", "loyalty"})
		assert.Contains(t, nav.Path(), "challenge")
		assert.Equal(t, string(PackageExpert), nav.Derived(DerivedRecommendedPackage))
	})

	t.Run("always allows continue", func(t *testing.T) {
		nav := wizard.NewNavigator(NewFlow(nil))
		require.NoError(t, nav.Next(context.Background()))
		assert.True(t, nav.Screen().Nav.NextEnabled)
		require.NoError(t, nav.Next(context.Background()))
		assert.Equal(t, "priorities", nav.CurrentNode())
	})
}

func TestDerive(t *testing.T) {
	nav := wizard.NewNavigator(NewFlow(nil))
	assert.Equal(t, "300", nav.Derived(DerivedMonthlyTotal))
	assert.Equal(t, string(PackageInfluencer), nav.Derived(DerivedSelectedPackage))

	assert.True(t, nav.Answer(KeyEnhancements, []string{"video-spotlight"}))
	assert.Equal(t, "450", nav.Derived(DerivedMonthlyTotal))
	assert.False(t, nav.Answer(KeyBusinessName, "Murphy's"), "unrelated answer leaves derived state alone")

	nav.Answer(KeyPriorities, []string{"awareness"})
	assert.Equal(t, string(PackageSponsor), nav.Derived(DerivedSelectedPackage), "selection follows the recommendation")

	nav.Answer(KeySelectedPackage, string(PackageExpert))
	assert.Equal(t, string(PackageExpert), nav.Derived(DerivedSelectedPackage))
	assert.Equal(t, string(PackageSponsor), nav.Derived(DerivedRecommendedPackage))
}

func TestBuildRequest(t *testing.T) {
	a := wizard.Answers{}
	a.Set(KeyBusinessName, "Murphy's")
	a.Set(KeyEventName, "First Friday")
	a.Set(KeyEventDate, "2025-03-07")
	a.Set(KeySendDate, "2025-03-01")
	a.Set(KeyAudience, []string{"vip"})

	req := BuildRequest(a)
	assert.Equal(t, "murphys-first-friday", req.Name)
	assert.Equal(t, "email", req.Type)
	assert.Equal(t, "First Friday at Murphy's", req.Subject)
	assert.Equal(t, []string{"vip"}, req.RecipientSegments)
	assert.Equal(t, "2025-03-01T09:00:00", req.ScheduledAt)
	assert.Equal(t, "Join Murphy's for First Friday on 2025-03-07!", req.Message)
}

type fakeCreator struct {
	err error
	got api.CampaignRequest
}

func (f *fakeCreator) CreateCampaign(_ context.Context, _ api.RequestContext, req api.CampaignRequest) (*api.Campaign, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &api.Campaign{ID: "c-1", Name: req.Name}, nil
}

func TestLauncher_Failure(t *testing.T) {
	fake := &fakeCreator{err: &api.Error{Status: 422, Message: "Message is too long"}}
	l := NewLauncher(fake, api.RequestContext{})
	nav := wizard.NewNavigator(NewFlow(l))
	require.NoError(t, nav.Restore(&wizard.State{Current: "review", History: []string{"welcome"}}))

	err := nav.Next(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Message is too long", api.Message(err))

	st := l.Status()
	assert.False(t, st.Launching)
	assert.Error(t, st.Err)
	assert.False(t, st.Succeeded())
	assert.Equal(t, "review", nav.CurrentNode())
}

func TestLaunch_EndToEnd(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/outbound/campaigns", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "t1", r.Header.Get("X-Tenant-ID"))
		blob, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(blob, &body))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id": 501, "name": "murphys-first-friday", "status": "scheduled"}`)
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL)
	l := NewLauncher(client, api.RequestContext{Token: "tok", TenantID: "t1"})
	nav := wizard.NewNavigator(NewFlow(l))

	walk(t, nav, map[string]any{
		KeyBusinessName:     "Murphy's",
		KeyBusinessCategory: "restaurant",
		KeyPriorities:       []string{"event", "awareness", "loyalty"},
		KeyEventName:        "First Friday",
		KeyEventDate:        "2025-03-07",
		KeyEnhancements:     []string{"social-boost"},
	}, "welcome", "business", "priorities", "event", "package", "enhancements", "review")

	require.NoError(t, nav.Next(context.Background()))

	msg, _ := body["message"].(string)
	i := strings.Index(msg, "Murphy's")
	j := strings.Index(msg, "First Friday")
	k := strings.Index(msg, "2025-03-07")
	require.True(t, i >= 0 && j >= 0 && k >= 0, "message %q is missing a field", msg)
	assert.True(t, i < j && j < k, "fields out of order in %q", msg)

	assert.True(t, l.Status().Succeeded())
	assert.Equal(t, "501", nav.Derived(DerivedCampaignID))
	assert.Equal(t, "375", nav.Derived(DerivedMonthlyTotal))
}

func TestLauncher_NetworkError(t *testing.T) {
	fake := &fakeCreator{err: errors.New("connection refused")}
	l := NewLauncher(fake, api.RequestContext{})
	_, err := l.Launch(context.Background(), wizard.NewState(NewFlow(nil)))
	require.Error(t, err)
	assert.Contains(t, api.Message(err), "connection refused")
}
