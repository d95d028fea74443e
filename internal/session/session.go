// Package session holds the logged-in user and active organization.
//
// The session is a single JSON file under the config dir. Mutations go through
// the Store so every already-mounted view can be notified via Subscribe; the
// web client this replaces forced a full page reload after each organization
// change instead.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"agentdeck/internal/model"
)

const sessionFileName = "session.json"

// ErrNotLoggedIn means no stored session exists. Callers must treat this as
// "must authenticate" and issue zero resource fetches.
var ErrNotLoggedIn = errors.New("not logged in")

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.agentdeck).
	if v := strings.TrimSpace(os.Getenv("AGENTDECK_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".agentdeck"), nil
}

type Store struct {
	mu   sync.Mutex
	subs []func(model.User)
}

func NewStore() *Store { return &Store{} }

func sessionPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionFileName), nil
}

// Load returns the cached user. The cached copy may be stale or partial;
// callers that need the full record re-fetch it by email.
func (s *Store) Load() (model.User, error) {
	path, err := sessionPath()
	if err != nil {
		return model.User{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.User{}, ErrNotLoggedIn
		}
		return model.User{}, err
	}
	var u model.User
	if err := json.Unmarshal(b, &u); err != nil {
		// A corrupted session is indistinguishable from no session; force a
		// fresh login rather than propagating partial identity.
		return model.User{}, ErrNotLoggedIn
	}
	if strings.TrimSpace(u.Email) == "" {
		return model.User{}, ErrNotLoggedIn
	}
	return u, nil
}

func (s *Store) Save(u model.User) error {
	if strings.TrimSpace(u.Email) == "" {
		return errors.New("session: user email is required")
	}
	path, err := sessionPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(u, "", "  ")
	if err != nil {
		return err
	}
	if err := atomicWriteFile(dir, sessionFileName+".*.tmp", path, b, 0o600); err != nil {
		return err
	}
	s.notify(u)
	return nil
}

// SetActiveOrganization merges the organization into the cached user and
// persists it. Subsequent Loads see the new organization immediately.
func (s *Store) SetActiveOrganization(orgID string) (model.User, error) {
	u, err := s.Load()
	if err != nil {
		return model.User{}, err
	}
	u.Organization = strings.TrimSpace(orgID)
	if err := s.Save(u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (s *Store) Clear() error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Subscribe registers fn to run after every successful Save. Subscribers are
// called synchronously on the mutating goroutine.
func (s *Store) Subscribe(fn func(model.User)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Store) notify(u model.User) {
	s.mu.Lock()
	subs := make([]func(model.User), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(u)
	}
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
