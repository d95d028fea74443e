// Package share tracks which recipients a resource has already been shared
// with, so the UI can disable repeat shares. Grants live on the backend; this
// set is the in-memory view merged from the fetched baseline plus shares made
// in this session.
package share

import (
	"sort"
	"sync"

	"agentdeck/internal/model"
)

type RecipientSet struct {
	mu sync.Mutex
	// byResource maps resource id -> recipient user ids.
	byResource map[string]map[string]struct{}
}

func NewRecipientSet() *RecipientSet {
	return &RecipientSet{byResource: map[string]map[string]struct{}{}}
}

// SeedFromGrants loads the fetched baseline of existing grants.
func (s *RecipientSet) SeedFromGrants(grants []model.ShareGrant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range grants {
		if g.ResourceID == "" || g.ReceiverID == "" {
			continue
		}
		s.addLocked(g.ResourceID, g.ReceiverID)
	}
}

// Add records a grant and reports whether it was new. A repeat share with the
// same recipient is a no-op once the first grant is recorded.
func (s *RecipientSet) Add(resourceID, recipientID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasLocked(resourceID, recipientID) {
		return false
	}
	s.addLocked(resourceID, recipientID)
	return true
}

func (s *RecipientSet) Has(resourceID, recipientID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasLocked(resourceID, recipientID)
}

// Recipients returns the sorted recipient ids for a resource.
func (s *RecipientSet) Recipients(resourceID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.byResource[resourceID]
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s *RecipientSet) addLocked(resourceID, recipientID string) {
	set, ok := s.byResource[resourceID]
	if !ok {
		set = map[string]struct{}{}
		s.byResource[resourceID] = set
	}
	set[recipientID] = struct{}{}
}

func (s *RecipientSet) hasLocked(resourceID, recipientID string) bool {
	set, ok := s.byResource[resourceID]
	if !ok {
		return false
	}
	_, ok = set[recipientID]
	return ok
}
