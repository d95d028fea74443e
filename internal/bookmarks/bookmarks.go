// Package bookmarks is the client-only "saved for later" flag per agent.
//
// Bookmarks never reach the backend; the map lives in one JSON file per user
// under the config dir. Keys are agent ids. (The web client keyed one page by
// agent name and others by id; id is the stable identifier and the name-keyed
// variant was a defect, not behavior to keep.)
package bookmarks

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"agentdeck/internal/session"
)

type Store struct {
	email string
}

// NewStore scopes bookmark state to one user. The email namespaces the file,
// matching the `bookmarks-<email>` storage key of the web client.
func NewStore(email string) (*Store, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("bookmarks: user email is required")
	}
	return &Store{email: email}, nil
}

func (s *Store) path() (string, error) {
	dir, err := session.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bookmarks-"+s.email+".json"), nil
}

// Load returns the persisted map. A missing or unreadable file is an empty map.
func (s *Store) Load() (map[string]bool, error) {
	path, err := s.path()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]bool{}, nil
		}
		return nil, err
	}
	var m map[string]bool
	if err := json.Unmarshal(b, &m); err != nil {
		return map[string]bool{}, nil
	}
	if m == nil {
		m = map[string]bool{}
	}
	return m, nil
}

// Seed ensures every id has an entry, defaulting new ones to false, and
// persists the result. Existing flags are kept.
func (s *Store) Seed(agentIDs []string) (map[string]bool, error) {
	m, err := s.Load()
	if err != nil {
		return nil, err
	}
	changed := false
	for _, id := range agentIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := m[id]; !ok {
			m[id] = false
			changed = true
		}
	}
	if changed {
		if err := s.save(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Toggle flips the flag for agentID, persists the full map and returns it.
// Toggling twice restores the original value.
func (s *Store) Toggle(agentID string) (map[string]bool, error) {
	agentID = strings.TrimSpace(agentID)
	if agentID == "" {
		return nil, errors.New("bookmarks: agent id is required")
	}
	m, err := s.Load()
	if err != nil {
		return nil, err
	}
	m[agentID] = !m[agentID]
	if err := s.save(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Bookmarked returns the bookmarked ids, sorted for stable output.
func (s *Store) Bookmarked() ([]string, error) {
	m, err := s.Load()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(m))
	for id, on := range m {
		if on {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) save(m map[string]bool) error {
	path, err := s.path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
