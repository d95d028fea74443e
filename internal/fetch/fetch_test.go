package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

type bug struct {
	ID      string
	AgentID string
}

func TestDetails_FailureIsolation(t *testing.T) {
	// Property: fetching bugs for two agents where the second sub-fetch
	// throws must still surface the first agent's bugs.
	lookup := func(ctx context.Context, agentID string) ([]bug, error) {
		if agentID == "agent-b" {
			return nil, errors.New("boom")
		}
		return []bug{{ID: "bug-1", AgentID: agentID}}, nil
	}

	out, errs := Details(context.Background(), []string{"agent-a", "agent-b"}, 4,
		lookup,
		func(bs []bug) string {
			if len(bs) == 0 {
				return ""
			}
			return bs[0].AgentID
		})

	if len(out) != 1 {
		t.Fatalf("expected one success, got %v", out)
	}
	if bs, ok := out["agent-a"]; !ok || len(bs) != 1 || bs[0].ID != "bug-1" {
		t.Fatalf("agent-a bugs missing: %v", out)
	}
	if err, ok := errs["agent-b"]; !ok || err == nil {
		t.Fatalf("expected agent-b error, got %v", errs)
	}
}

func TestDetails_KeyedByOwnID(t *testing.T) {
	type agent struct{ ID string }

	// The lookup returns an item whose id differs in case from the request;
	// the map must key on the item's own id.
	lookup := func(ctx context.Context, id string) (agent, error) {
		return agent{ID: "canonical-" + id}, nil
	}

	out, errs := Details(context.Background(), []string{"x", "y"}, 0, lookup, func(a agent) string { return a.ID })
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if _, ok := out["canonical-x"]; !ok {
		t.Fatalf("expected key canonical-x, got %v", out)
	}
	if _, ok := out["canonical-y"]; !ok {
		t.Fatalf("expected key canonical-y, got %v", out)
	}
}

func TestDetails_AwaitsWholeBatch(t *testing.T) {
	const n = 20
	var mu sync.Mutex
	started := 0

	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, fmt.Sprintf("id-%02d", i))
	}

	lookup := func(ctx context.Context, id string) (string, error) {
		mu.Lock()
		started++
		mu.Unlock()
		return id, nil
	}

	out, errs := Details(context.Background(), ids, 3, lookup, func(s string) string { return s })
	if started != n {
		t.Fatalf("expected all %d lookups to run, got %d", n, started)
	}
	if len(out) != n || len(errs) != 0 {
		t.Fatalf("expected %d successes, got %d successes %d errors", n, len(out), len(errs))
	}
}

func TestGuard_StaleTokenRejected(t *testing.T) {
	var g Guard

	first := g.Issue()
	if !g.Current(first) {
		t.Fatalf("fresh token should be current")
	}

	second := g.Issue()
	if g.Current(first) {
		t.Fatalf("older token must be stale once a newer request is issued")
	}
	if !g.Current(second) {
		t.Fatalf("latest token should be current")
	}
}

func TestGuard_Invalidate(t *testing.T) {
	var g Guard
	tok := g.Issue()
	g.Invalidate()
	if g.Current(tok) {
		t.Fatalf("invalidated guard must reject outstanding tokens")
	}
}

func TestResult_FailedKeepsZeroData(t *testing.T) {
	r := Fail[[]string](errors.New("nope"))
	if !r.Failed() {
		t.Fatalf("expected failed result")
	}
	if r.Data != nil {
		t.Fatalf("failed result must not carry data")
	}

	ok := Ok([]string{"a"})
	if ok.Failed() || len(ok.Data) != 1 {
		t.Fatalf("unexpected ok result: %+v", ok)
	}
}
