package bookmarks

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestNewStore_RequiresEmail(t *testing.T) {
	if _, err := NewStore("  "); err == nil {
		t.Fatalf("expected error for empty email")
	}
}

func TestSeedAndToggle_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AGENTDECK_CONFIG_DIR", dir)

	// Fresh user with no bookmarks file and two agents on the page.
	s, err := NewStore("a@b.com")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	m, err := s.Seed([]string{"agent-a", "agent-b"})
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if want := map[string]bool{"agent-a": false, "agent-b": false}; !reflect.DeepEqual(m, want) {
		t.Fatalf("seeded map: %v", m)
	}

	m, err = s.Toggle("agent-a")
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if want := map[string]bool{"agent-a": true, "agent-b": false}; !reflect.DeepEqual(m, want) {
		t.Fatalf("toggled map: %v", m)
	}

	// Exactly this object must be serialized under bookmarks-<email>.
	b, err := os.ReadFile(filepath.Join(dir, "bookmarks-a@b.com.json"))
	if err != nil {
		t.Fatalf("read bookmarks file: %v", err)
	}
	var onDisk map[string]bool
	if err := json.Unmarshal(b, &onDisk); err != nil {
		t.Fatalf("unmarshal bookmarks file: %v", err)
	}
	if !reflect.DeepEqual(onDisk, m) {
		t.Fatalf("persisted map %v differs from returned map %v", onDisk, m)
	}
}

func TestToggle_DoubleToggleRestores(t *testing.T) {
	t.Setenv("AGENTDECK_CONFIG_DIR", t.TempDir())

	s, err := NewStore("a@b.com")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := s.Seed([]string{"agent-a"}); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	if _, err := s.Toggle("agent-a"); err != nil {
		t.Fatalf("first Toggle: %v", err)
	}
	m, err := s.Toggle("agent-a")
	if err != nil {
		t.Fatalf("second Toggle: %v", err)
	}
	if m["agent-a"] {
		t.Fatalf("double toggle should restore false, got %v", m)
	}

	// The persisted map reflects only the final state.
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got["agent-a"] {
		t.Fatalf("persisted flag should be false, got %v", got)
	}
}

func TestSeed_KeepsExistingFlags(t *testing.T) {
	t.Setenv("AGENTDECK_CONFIG_DIR", t.TempDir())

	s, err := NewStore("a@b.com")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := s.Toggle("agent-a"); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	m, err := s.Seed([]string{"agent-a", "agent-b"})
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if !m["agent-a"] {
		t.Fatalf("seed must not reset an existing bookmark: %v", m)
	}
	if m["agent-b"] {
		t.Fatalf("new id must default to false: %v", m)
	}
}

func TestLoad_CorruptedFileIsEmptyMap(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AGENTDECK_CONFIG_DIR", dir)
	if err := os.WriteFile(filepath.Join(dir, "bookmarks-a@b.com.json"), []byte("nope"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := NewStore("a@b.com")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	m, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(m) != 0 {
		t.Fatalf("expected empty map, got %v", m)
	}
}

func TestBookmarked_SortedIDs(t *testing.T) {
	t.Setenv("AGENTDECK_CONFIG_DIR", t.TempDir())

	s, err := NewStore("a@b.com")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	for _, id := range []string{"zeta", "alpha", "mid"} {
		if _, err := s.Toggle(id); err != nil {
			t.Fatalf("Toggle(%s): %v", id, err)
		}
	}

	ids, err := s.Bookmarked()
	if err != nil {
		t.Fatalf("Bookmarked: %v", err)
	}
	if want := []string{"alpha", "mid", "zeta"}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("ids: %v", ids)
	}
}
