package cache

import (
	"context"
	"testing"

	"agentdeck/internal/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	t.Setenv("AGENTDECK_CONFIG_DIR", t.TempDir())
	c, err := Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestPutGetRoundTrip(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	in := []model.Task{{ID: "t1", Name: "demo", UserID: "u1"}}
	if err := c.Put(ctx, "a@b.com", "tasks", in); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var out []model.Task
	savedAt, ok, err := c.Get(ctx, "a@b.com", "tasks", &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected snapshot")
	}
	if savedAt.IsZero() {
		t.Fatalf("expected saved-at timestamp")
	}
	if len(out) != 1 || out[0].ID != "t1" {
		t.Fatalf("unexpected snapshot: %v", out)
	}
}

func TestGet_MissingSnapshot(t *testing.T) {
	c := openTestCache(t)

	var out []model.Task
	_, ok, err := c.Get(context.Background(), "a@b.com", "tasks", &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatalf("expected no snapshot")
	}
}

func TestPut_LastWriteWins(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, "a@b.com", "agents", []model.Agent{{ID: "a1"}}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Put(ctx, "a@b.com", "agents", []model.Agent{{ID: "a2"}, {ID: "a3"}}); err != nil {
		t.Fatalf("second Put: %v", err)
	}

	var out []model.Agent
	_, ok, err := c.Get(ctx, "a@b.com", "agents", &out)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if len(out) != 2 || out[0].ID != "a2" {
		t.Fatalf("expected replacement snapshot, got %v", out)
	}
}

func TestSnapshots_ScopedPerUser(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, "a@b.com", "tasks", []model.Task{{ID: "t1"}}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var out []model.Task
	_, ok, err := c.Get(ctx, "other@b.com", "tasks", &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatalf("snapshot must not leak across users")
	}
}

func TestPut_RequiresScope(t *testing.T) {
	c := openTestCache(t)
	if err := c.Put(context.Background(), "", "tasks", nil); err == nil {
		t.Fatalf("expected error for empty email")
	}
	if err := c.Put(context.Background(), "a@b.com", " ", nil); err == nil {
		t.Fatalf("expected error for empty resource")
	}
}
