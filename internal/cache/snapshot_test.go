package cache

import (
	"context"
	"errors"
	"testing"

	"agentdeck/internal/model"
)

func TestWithSnapshot_FallsBackToStale(t *testing.T) {
	t.Setenv("AGENTDECK_CONFIG_DIR", t.TempDir())
	ctx := context.Background()

	got, stale, err := WithSnapshot(ctx, "a@b.com", "tasks", func() ([]model.Task, error) {
		return []model.Task{{ID: "t1", Name: "demo"}}, nil
	})
	if err != nil {
		t.Fatalf("WithSnapshot: %v", err)
	}
	if stale {
		t.Fatal("fresh fetch reported stale")
	}
	if len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("unexpected items: %v", got)
	}

	// The backend goes away; the previous snapshot is served and labeled.
	got, stale, err = WithSnapshot(ctx, "a@b.com", "tasks", func() ([]model.Task, error) {
		return nil, errors.New("dial tcp: connection refused")
	})
	if err != nil {
		t.Fatalf("expected snapshot fallback, got: %v", err)
	}
	if !stale {
		t.Fatal("snapshot fallback not reported stale")
	}
	if len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("unexpected snapshot: %v", got)
	}
}

func TestWithSnapshot_NoSnapshotPropagatesError(t *testing.T) {
	t.Setenv("AGENTDECK_CONFIG_DIR", t.TempDir())

	boom := errors.New("backend down")
	_, stale, err := WithSnapshot(context.Background(), "a@b.com", "agents", func() ([]model.Agent, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the fetch error", err)
	}
	if stale {
		t.Fatal("missing snapshot reported stale")
	}
}
