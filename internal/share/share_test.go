package share

import (
	"reflect"
	"testing"

	"agentdeck/internal/model"
)

func TestAdd_RepeatShareIsNoOp(t *testing.T) {
	s := NewRecipientSet()

	if !s.Add("key-1", "u2") {
		t.Fatalf("first share should be new")
	}
	if s.Add("key-1", "u2") {
		t.Fatalf("repeat share with the same recipient must be a no-op")
	}
	if got := s.Recipients("key-1"); !reflect.DeepEqual(got, []string{"u2"}) {
		t.Fatalf("expected one entry, got %v", got)
	}
}

func TestSeedFromGrants_ThenAdd(t *testing.T) {
	s := NewRecipientSet()
	s.SeedFromGrants([]model.ShareGrant{
		{SenderID: "u1", ReceiverID: "u2", ResourceID: "task-1"},
		{SenderID: "u1", ReceiverID: "u3", ResourceID: "task-1"},
		{SenderID: "u1", ReceiverID: "u2", ResourceID: "task-2"},
	})

	if !s.Has("task-1", "u2") || !s.Has("task-1", "u3") || !s.Has("task-2", "u2") {
		t.Fatalf("baseline grants missing")
	}
	// Re-sharing a seeded grant is also a no-op.
	if s.Add("task-1", "u2") {
		t.Fatalf("seeded grant must block a repeat share")
	}
	if got := s.Recipients("task-1"); !reflect.DeepEqual(got, []string{"u2", "u3"}) {
		t.Fatalf("unexpected recipients: %v", got)
	}
}

func TestSeedFromGrants_SkipsIncomplete(t *testing.T) {
	s := NewRecipientSet()
	s.SeedFromGrants([]model.ShareGrant{
		{SenderID: "u1", ReceiverID: "", ResourceID: "task-1"},
		{SenderID: "u1", ReceiverID: "u2", ResourceID: ""},
	})
	if len(s.Recipients("task-1")) != 0 {
		t.Fatalf("incomplete grants must be ignored")
	}
}

func TestRecipients_UnknownResource(t *testing.T) {
	s := NewRecipientSet()
	if got := s.Recipients("nope"); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}
