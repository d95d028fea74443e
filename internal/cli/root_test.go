package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"agentdeck/internal/model"
	"agentdeck/internal/session"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandsRequireLogin(t *testing.T) {
	t.Setenv("AGENTDECK_CONFIG_DIR", t.TempDir())
	t.Setenv("AGENTDECK_BASE_URL", "http://127.0.0.1:0")

	_, err := runCommand(t, "tasks", "list")
	if err == nil {
		t.Fatal("expected error without a session")
	}
	if !strings.Contains(err.Error(), "not logged in") {
		t.Fatalf("err = %v, want not-logged-in guidance", err)
	}
}

func TestAgentsListFiltersAndFallsBackToSnapshot(t *testing.T) {
	t.Setenv("AGENTDECK_CONFIG_DIR", t.TempDir())

	var fail atomic.Bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/agents/get-all-agents" {
			http.NotFound(w, r)
			return
		}
		if fail.Load() {
			http.Error(w, `{"error":"backend down"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"a1","name":"Summarizer","owner_name":"ada"},
			{"id":"a2","name":"Translator","owner_name":"bob"}
		]`))
	}))
	defer ts.Close()
	t.Setenv("AGENTDECK_BASE_URL", ts.URL)

	if err := session.NewStore().Save(model.User{ID: "u1", Name: "Ada", Email: "ada@example.com"}); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "agents", "list", "--search", "summ")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Summarizer") {
		t.Fatalf("filtered list missing match: %s", out)
	}
	if strings.Contains(out, "Translator") {
		t.Fatalf("filter leaked non-matching agent: %s", out)
	}

	// Seed the snapshot with an unfiltered fetch, then kill the backend: the
	// next list serves the snapshot and marks it stale.
	if _, err := runCommand(t, "agents", "list"); err != nil {
		t.Fatal(err)
	}
	fail.Store(true)

	out, err = runCommand(t, "agents", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"stale":true`) {
		t.Fatalf("stale marker missing: %s", out)
	}
	if !strings.Contains(out, "Translator") {
		t.Fatalf("snapshot content missing: %s", out)
	}
}

func TestBookmarkToggleRoundTrip(t *testing.T) {
	t.Setenv("AGENTDECK_CONFIG_DIR", t.TempDir())
	t.Setenv("AGENTDECK_BASE_URL", "http://127.0.0.1:0")

	if err := session.NewStore().Save(model.User{ID: "u1", Name: "Ada", Email: "ada@example.com"}); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "agents", "save", "a1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"bookmarked":true`) {
		t.Fatalf("first toggle: %s", out)
	}

	out, err = runCommand(t, "agents", "save", "a1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"bookmarked":false`) {
		t.Fatalf("second toggle: %s", out)
	}
}
