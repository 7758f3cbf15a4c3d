package absence

import (
	"errors"
	"testing"

	"attendance-bot/internal/models"
)

func TestSubmitAndDecide(t *testing.T) {
	e, store, _ := newTestEngine()
	store.admins[testGroup] = []int64{42}
	store.names[1] = "Иванов Иван"
	store.states[1] = models.StateAwaitingCustomReason

	pendingID, err := e.SubmitReason(1, "dentist", testGroup)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, ok := store.pending[pendingID]; !ok {
		t.Fatal("pending entry not created")
	}
	if _, ok := store.states[1]; ok {
		t.Error("conversational state must be cleared on submit")
	}

	decision, err := e.Decide(42, pendingID, models.CategoryUnexcused)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if decision.UserID != 1 || decision.Reason != "dentist" || decision.Category != models.CategoryUnexcused {
		t.Errorf("unexpected decision: %+v", decision)
	}
	if decision.FullName != "Иванов Иван" {
		t.Errorf("decision must carry the reporter name, got %q", decision.FullName)
	}

	if len(store.absences) != 1 {
		t.Fatalf("expected one finalized record, got %d", len(store.absences))
	}
	got := store.absences[0]
	if got.Category != models.CategoryUnexcused || got.Reason != "dentist" || got.GroupChatID != testGroup {
		t.Errorf("unexpected record: %+v", got)
	}
	if _, ok := store.pending[pendingID]; ok {
		t.Error("pending entry must be deleted once decided")
	}

	// The second decider lost the race.
	if _, err := e.Decide(42, pendingID, models.CategoryExcused); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for the second decision, got %v", err)
	}
}

func TestDecideForbidden(t *testing.T) {
	e, store, _ := newTestEngine()
	store.admins[testGroup] = []int64{42}

	pendingID, err := e.SubmitReason(1, "dentist", testGroup)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := e.Decide(99, pendingID, models.CategoryExcused); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if _, ok := store.pending[pendingID]; !ok {
		t.Error("pending entry must remain after a forbidden attempt")
	}
	if len(store.absences) != 0 {
		t.Error("no record may be finalized by a foreign admin")
	}
}

func TestDecideUnknownPending(t *testing.T) {
	e, _, _ := newTestEngine()

	if _, err := e.Decide(42, 12345, models.CategoryExcused); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitWithoutAdminsStillPersists(t *testing.T) {
	e, store, _ := newTestEngine()

	pendingID, err := e.SubmitReason(1, "lost keys", testGroup)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, ok := store.pending[pendingID]; !ok {
		t.Error("entry must persist even when the group has no admins")
	}
}
