package tui

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"agentdeck/internal/api"
	"agentdeck/internal/fetch"
	"agentdeck/internal/model"
	"agentdeck/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(t *testing.T) appModel {
	t.Helper()
	t.Setenv("AGENTDECK_CONFIG_DIR", t.TempDir())
	return newAppModel(Deps{User: model.User{ID: "u1", Name: "Ada", Email: "ada@example.com"}})
}

func TestAgentsLoadCommitsCurrentToken(t *testing.T) {
	m := newTestModel(t)
	tok := m.agentsGuard.Issue()

	next, _ := m.Update(agentsLoadedMsg{token: tok, res: fetch.Ok([]model.Agent{
		{ID: "a1", Name: "Summarizer"},
		{ID: "a2", Name: "Translator"},
	})})
	m = next.(appModel)

	if m.agentsRes.Failed() {
		t.Fatalf("unexpected error: %v", m.agentsRes.Err)
	}
	if got := len(m.agentsList.Items()); got != 2 {
		t.Fatalf("items = %d, want 2", got)
	}
	// Loading the marketplace seeds bookmark entries for new ids.
	if on, ok := m.bookmarked["a1"]; !ok || on {
		t.Fatalf("bookmarked[a1] = %v, %v; want false entry", on, ok)
	}
}

func TestStaleAgentsResponseIsDropped(t *testing.T) {
	m := newTestModel(t)
	stale := m.agentsGuard.Issue()
	m.agentsGuard.Issue() // newer request supersedes the one in flight

	next, _ := m.Update(agentsLoadedMsg{token: stale, res: fetch.Ok([]model.Agent{{ID: "a1"}})})
	m = next.(appModel)

	if m.agentsRes.Data != nil {
		t.Fatalf("stale response was committed: %v", m.agentsRes.Data)
	}
	if got := len(m.agentsList.Items()); got != 0 {
		t.Fatalf("items = %d, want 0", got)
	}
}

func TestViewSwitchInvalidatesInFlightFetch(t *testing.T) {
	m := newTestModel(t)
	tok := m.agentsGuard.Issue()

	next, _ := m.switchView(viewTasks)
	m = next.(appModel)
	if m.view != viewTasks {
		t.Fatalf("view = %v, want viewTasks", m.view)
	}

	next, _ = m.Update(agentsLoadedMsg{token: tok, res: fetch.Ok([]model.Agent{{ID: "a1"}})})
	m = next.(appModel)
	if m.agentsRes.Data != nil {
		t.Fatal("response from before the view switch was committed")
	}
}

func TestFailedFetchRendersErrorNotEmptyList(t *testing.T) {
	m := newTestModel(t)
	m.width, m.height = 80, 24

	m.agentsRes = fetch.Fail[[]model.Agent](errors.New("dial tcp: connection refused"))
	body := m.viewBody()
	if !strings.Contains(body, "fetch failed") {
		t.Fatalf("error state not rendered: %q", body)
	}
	if !strings.Contains(body, "retry") {
		t.Fatalf("retry hint missing: %q", body)
	}

	m.agentsRes = fetch.Ok([]model.Agent{})
	m.refreshAgents()
	body = m.viewBody()
	if !strings.Contains(body, "No agents") {
		t.Fatalf("empty state not rendered: %q", body)
	}
	if strings.Contains(body, "fetch failed") {
		t.Fatalf("empty list rendered as error: %q", body)
	}
}

func TestFilterNarrowsVisibleAgents(t *testing.T) {
	m := newTestModel(t)
	m.agentsRes = fetch.Ok([]model.Agent{
		{ID: "a1", Name: "Summarizer", OwnerName: "ada"},
		{ID: "a2", Name: "Translator", OwnerName: "bob"},
	})
	m.filterInput.SetValue("summ")
	m.refreshAgents()

	if got := len(m.agentsList.Items()); got != 1 {
		t.Fatalf("filtered items = %d, want 1", got)
	}
	it := m.agentsList.Items()[0].(agentItem)
	if it.agent.ID != "a1" {
		t.Fatalf("wrong agent visible: %s", it.agent.ID)
	}

	// Clearing the query restores the full collection.
	m.filterInput.SetValue("")
	m.refreshAgents()
	if got := len(m.agentsList.Items()); got != 2 {
		t.Fatalf("unfiltered items = %d, want 2", got)
	}
}

func TestBookmarkToggleFromAgentsView(t *testing.T) {
	m := newTestModel(t)
	tok := m.agentsGuard.Issue()
	next, _ := m.Update(agentsLoadedMsg{token: tok, res: fetch.Ok([]model.Agent{{ID: "a1", Name: "Summarizer"}})})
	m = next.(appModel)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	m = next.(appModel)
	if !m.bookmarked["a1"] {
		t.Fatal("bookmark not set after toggle")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	m = next.(appModel)
	if m.bookmarked["a1"] {
		t.Fatal("bookmark not cleared after second toggle")
	}
}

func TestRepeatShareIsNoOp(t *testing.T) {
	m := newTestModel(t)
	m.view = viewKeys
	m.keyRecipients.Add("key-1", "u2")

	(&m).openShareModal("key-1", "prod key")
	m.shareInput.SetValue("u2")

	next, cmd := m.updateModalKey(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(appModel)

	if cmd != nil {
		t.Fatal("repeat share issued a backend request")
	}
	if !strings.Contains(m.status, "already shared") {
		t.Fatalf("status = %q, want already-shared notice", m.status)
	}
	if m.modal != modalNone {
		t.Fatal("share modal still open")
	}
}

func TestFailedShareAllowsRetry(t *testing.T) {
	m := newTestModel(t)
	m.view = viewKeys

	(&m).openShareModal("key-1", "prod key")
	m.shareInput.SetValue("u2")
	next, cmd := m.updateModalKey(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(appModel)
	if cmd == nil {
		t.Fatal("first share issued no backend request")
	}

	// The request fails: no grant exists, so nothing may be recorded.
	next, _ = m.Update(shareDoneMsg{resourceID: "key-1", recipientID: "u2", err: errors.New("http 500")})
	m = next.(appModel)
	if m.keyRecipients.Has("key-1", "u2") {
		t.Fatal("failed share was recorded as a grant")
	}
	if !strings.Contains(m.status, "share failed") {
		t.Fatalf("status = %q, want failure notice", m.status)
	}

	// The retry must reach the backend, not get swallowed as a repeat.
	(&m).openShareModal("key-1", "prod key")
	m.shareInput.SetValue("u2")
	next, cmd = m.updateModalKey(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(appModel)
	if cmd == nil {
		t.Fatal("retry after a failed share was treated as already shared")
	}

	next, _ = m.Update(shareDoneMsg{resourceID: "key-1", recipientID: "u2"})
	m = next.(appModel)
	if !m.keyRecipients.Has("key-1", "u2") {
		t.Fatal("successful share not recorded")
	}
}

func TestStaleSnapshotIsLabeled(t *testing.T) {
	m := newTestModel(t)
	m.width, m.height = 80, 24
	m.resizeLists()

	tok := m.agentsGuard.Issue()
	next, _ := m.Update(agentsLoadedMsg{
		token: tok,
		res:   fetch.Ok([]model.Agent{{ID: "a1", Name: "Summarizer"}}),
		stale: true,
	})
	m = next.(appModel)

	if !strings.Contains(m.viewBody(), "cached snapshot") {
		t.Fatalf("stale label missing: %q", m.viewBody())
	}

	// A fresh load clears the label.
	tok = m.agentsGuard.Issue()
	next, _ = m.Update(agentsLoadedMsg{token: tok, res: fetch.Ok([]model.Agent{{ID: "a1", Name: "Summarizer"}})})
	m = next.(appModel)
	if strings.Contains(m.viewBody(), "cached snapshot") {
		t.Fatalf("fresh data still labeled stale: %q", m.viewBody())
	}
}

func TestProviderCycleFiltersKeys(t *testing.T) {
	m := newTestModel(t)
	m.view = viewKeys
	m.keysRes = fetch.Ok([]model.APIKey{
		{ID: "k1", Name: "prod", Provider: "openai"},
		{ID: "k2", Name: "dev", Provider: "anthropic"},
		{ID: "k3", Name: "old", Provider: "openai"},
	})
	m.refreshKeys()
	if got := len(m.keysList.Items()); got != 3 {
		t.Fatalf("unfiltered items = %d, want 3", got)
	}

	press := func() {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
		m = next.(appModel)
	}

	press()
	if m.providerFilter != "anthropic" {
		t.Fatalf("providerFilter = %q, want anthropic", m.providerFilter)
	}
	if got := len(m.keysList.Items()); got != 1 {
		t.Fatalf("anthropic items = %d, want 1", got)
	}

	press()
	if m.providerFilter != "openai" {
		t.Fatalf("providerFilter = %q, want openai", m.providerFilter)
	}
	if got := len(m.keysList.Items()); got != 2 {
		t.Fatalf("openai items = %d, want 2", got)
	}

	// Past the last provider the cycle returns to "all".
	press()
	if m.providerFilter != "" {
		t.Fatalf("providerFilter = %q, want empty", m.providerFilter)
	}
	if got := len(m.keysList.Items()); got != 3 {
		t.Fatalf("items after full cycle = %d, want 3", got)
	}
}

func TestBugStatusCycle(t *testing.T) {
	m := newTestModel(t)
	m.view = viewBugs
	m.bugsRes = fetch.Ok([]model.Bug{
		{ID: "b1", Name: "crash", Status: model.BugOpen},
		{ID: "b2", Name: "typo", Status: model.BugClosed},
	})
	m.refreshBugs()

	press := func() {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
		m = next.(appModel)
	}

	press()
	if m.statusFilter != "open" {
		t.Fatalf("statusFilter = %q, want open", m.statusFilter)
	}
	if got := len(m.bugsList.Items()); got != 1 {
		t.Fatalf("open items = %d, want 1", got)
	}

	press()
	if m.statusFilter != "closed" {
		t.Fatalf("statusFilter = %q, want closed", m.statusFilter)
	}

	press()
	if m.statusFilter != "" {
		t.Fatalf("statusFilter = %q, want empty", m.statusFilter)
	}
	if got := len(m.bugsList.Items()); got != 2 {
		t.Fatalf("items after full cycle = %d, want 2", got)
	}
}

func TestSessionChangeRefreshesOrgView(t *testing.T) {
	m := newTestModel(t)
	m.view = viewOrg

	next, cmd := m.Update(sessionChangedMsg{user: model.User{ID: "u1", Email: "ada@example.com", Organization: "org-2"}})
	m = next.(appModel)

	if m.user.Organization != "org-2" {
		t.Fatalf("organization = %q, want org-2", m.user.Organization)
	}
	if cmd == nil {
		t.Fatal("expected a refetch command for the org view")
	}
}

func TestOrgSwitchNotifiesMountedViews(t *testing.T) {
	t.Setenv("AGENTDECK_CONFIG_DIR", t.TempDir())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/get_your_organizations" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"id":"org-1","name":"First"},{"id":"org-2","name":"Second"}]`)
	}))
	defer srv.Close()

	user := model.User{ID: "u1", Email: "ada@example.com", Organization: "org-1"}
	sess := session.NewStore()
	if err := sess.Save(user); err != nil {
		t.Fatalf("Save: %v", err)
	}

	m := newAppModel(Deps{
		Client:  api.New(srv.URL, time.Second),
		Session: sess,
		User:    user,
		Timeout: time.Second,
	})
	m.view = viewOrg

	msg := m.switchOrganization()()
	switched, ok := msg.(orgSwitchedMsg)
	if !ok {
		t.Fatalf("unexpected msg type %T", msg)
	}
	if switched.err != nil {
		t.Fatalf("switch: %v", switched.err)
	}
	if switched.orgID != "org-2" {
		t.Fatalf("orgID = %q, want org-2", switched.orgID)
	}

	// Saving the session notified the subscription, so the update loop hears
	// about the switch the same way it hears about `org use` elsewhere.
	sessionMsg := waitForSession(m.sessionCh)()
	changed, ok := sessionMsg.(sessionChangedMsg)
	if !ok {
		t.Fatalf("unexpected msg type %T", sessionMsg)
	}
	if changed.user.Organization != "org-2" {
		t.Fatalf("organization = %q, want org-2", changed.user.Organization)
	}
}

func TestPartialSavedFailureIsSurfaced(t *testing.T) {
	m := newTestModel(t)
	m.view = viewSaved
	m.width, m.height = 80, 24
	m.resizeLists()
	tok := m.savedGuard.Issue()

	next, _ := m.Update(savedLoadedMsg{
		token:  tok,
		agents: []model.Agent{{ID: "a1", Name: "Summarizer"}},
		failed: []string{"a2"},
	})
	m = next.(appModel)

	if got := len(m.savedList.Items()); got != 1 {
		t.Fatalf("items = %d, want 1", got)
	}
	body := m.viewBody()
	if !strings.Contains(body, "could not be loaded") {
		t.Fatalf("partial failure not surfaced: %q", body)
	}
}
