package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"agentdeck/internal/model"
)

func TestLoad_NoSession(t *testing.T) {
	t.Setenv("AGENTDECK_CONFIG_DIR", t.TempDir())

	s := NewStore()
	if _, err := s.Load(); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestLoad_CorruptedSessionForcesLogin(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AGENTDECK_CONFIG_DIR", dir)
	if err := os.WriteFile(filepath.Join(dir, "session.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewStore()
	if _, err := s.Load(); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("AGENTDECK_CONFIG_DIR", t.TempDir())

	s := NewStore()
	u := model.User{ID: "u1", Name: "Ada", Email: "a@b.com", Organization: "org1"}
	if err := s.Save(u); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != u {
		t.Fatalf("round trip mismatch: %+v != %+v", got, u)
	}
}

func TestSetActiveOrganization_PersistsAndNotifies(t *testing.T) {
	t.Setenv("AGENTDECK_CONFIG_DIR", t.TempDir())

	s := NewStore()
	if err := s.Save(model.User{ID: "u1", Email: "a@b.com"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var notified []string
	s.Subscribe(func(u model.User) { notified = append(notified, u.Organization) })

	u, err := s.SetActiveOrganization("org9")
	if err != nil {
		t.Fatalf("SetActiveOrganization: %v", err)
	}
	if u.Organization != "org9" {
		t.Fatalf("unexpected org: %q", u.Organization)
	}

	// Subsequent reads see the new organization immediately.
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Organization != "org9" {
		t.Fatalf("persisted org: %q", got.Organization)
	}
	if len(notified) != 1 || notified[0] != "org9" {
		t.Fatalf("unexpected notifications: %v", notified)
	}
}

func TestSetActiveOrganization_WithoutSession(t *testing.T) {
	t.Setenv("AGENTDECK_CONFIG_DIR", t.TempDir())

	s := NewStore()
	if _, err := s.SetActiveOrganization("org1"); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestClear(t *testing.T) {
	t.Setenv("AGENTDECK_CONFIG_DIR", t.TempDir())

	s := NewStore()
	if err := s.Save(model.User{ID: "u1", Email: "a@b.com"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := s.Load(); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn after Clear, got %v", err)
	}
	// Clearing twice is fine.
	if err := s.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}
