package absence

import (
	"errors"
	"testing"

	"attendance-bot/internal/models"
)

const testGroup = int64(-100500)

func TestRecordInstantLastWriteWins(t *testing.T) {
	e, store, _ := newTestEngine()

	if err := e.RecordInstant(1, models.ReasonOrder, testGroup); err != nil {
		t.Fatalf("first record: %v", err)
	}
	if err := e.RecordInstant(1, models.ReasonDormDuty, testGroup); err != nil {
		t.Fatalf("second record: %v", err)
	}

	if len(store.absences) != 1 {
		t.Fatalf("expected exactly one row, got %d", len(store.absences))
	}
	got := store.absences[0]
	if got.Reason != models.ReasonDormDuty.Label() {
		t.Errorf("expected second write to win, got reason %q", got.Reason)
	}
	if got.Category != models.CategoryExcused {
		t.Errorf("instant absence must be excused, got %q", got.Category)
	}
}

func TestRecordInstantKeepsOtherScopes(t *testing.T) {
	e, store, _ := newTestEngine()

	if err := e.RecordInstant(1, models.ReasonOrder, testGroup); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := e.RecordInstant(1, models.ReasonOrder, testGroup-1); err != nil {
		t.Fatalf("record other group: %v", err)
	}

	if len(store.absences) != 2 {
		t.Fatalf("records for distinct groups must coexist, got %d rows", len(store.absences))
	}
}

func TestRecordInstantConflict(t *testing.T) {
	e, store, _ := newTestEngine()
	store.standing[1] = models.StandingAbsence{UserID: 1, Label: models.ReasonSick, GroupChatID: testGroup}
	store.states[1] = models.StateAwaitingReason

	err := e.RecordInstant(1, models.ReasonOrder, testGroup)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	var conflict *ConflictError
	if !errors.As(err, &conflict) || conflict.Existing != models.ReasonSick {
		t.Errorf("conflict must carry the existing label, got %v", err)
	}
	if len(store.absences) != 0 {
		t.Error("conflict must not record anything")
	}
	if _, ok := store.standing[1]; !ok {
		t.Error("existing standing absence must stay untouched")
	}
	if _, ok := store.states[1]; ok {
		t.Error("conversational state must be cleared on conflict")
	}
}

func TestBeginStandingCreatesAndSupersedes(t *testing.T) {
	e, store, notifier := newTestEngine()

	// A same-day record is superseded by the standing absence.
	if err := e.RecordInstant(1, models.ReasonOrder, testGroup); err != nil {
		t.Fatalf("seed record: %v", err)
	}
	store.states[1] = models.StateAwaitingReason

	res, err := e.BeginStanding(1, models.ReasonSick, testGroup)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if !res.Delivered {
		t.Error("expected exit prompt delivery")
	}

	if len(store.absences) != 0 {
		t.Errorf("day record must be removed, %d rows left", len(store.absences))
	}
	sa, ok := store.standing[1]
	if !ok {
		t.Fatal("standing absence not created")
	}
	if sa.Label != models.ReasonSick || sa.GroupChatID != testGroup {
		t.Errorf("unexpected standing absence: %+v", sa)
	}
	if sa.MessageID == 0 {
		t.Error("exit prompt handle not recorded")
	}
	if len(notifier.sent) != 1 || notifier.sent[0] != 1 {
		t.Errorf("unexpected prompts: %v", notifier.sent)
	}
	if _, ok := store.states[1]; ok {
		t.Error("conversational state must be cleared")
	}
}

func TestBeginStandingReplacesStanding(t *testing.T) {
	e, store, _ := newTestEngine()

	if _, err := e.BeginStanding(1, models.ReasonSick, testGroup); err != nil {
		t.Fatalf("first begin: %v", err)
	}
	if _, err := e.BeginStanding(1, models.ReasonVacation, testGroup); err != nil {
		t.Fatalf("replacing begin: %v", err)
	}

	if len(store.standing) != 1 {
		t.Fatalf("expected one standing absence, got %d", len(store.standing))
	}
	if got := store.standing[1].Label; got != models.ReasonVacation {
		t.Errorf("expected replacement label vacation, got %q", got)
	}
}

func TestBeginStandingRejectsInstantLabel(t *testing.T) {
	e, _, _ := newTestEngine()

	if _, err := e.BeginStanding(1, models.ReasonOrder, testGroup); err == nil {
		t.Fatal("expected error for non-standing label")
	}
}

func TestBeginStandingDeliveryFailure(t *testing.T) {
	e, store, notifier := newTestEngine()
	notifier.broken = true

	res, err := e.BeginStanding(1, models.ReasonVacation, testGroup)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if res.Delivered {
		t.Error("delivery should have failed")
	}

	// The absence is active regardless of delivery.
	sa, ok := store.standing[1]
	if !ok {
		t.Fatal("standing absence must survive delivery failure")
	}
	if sa.MessageID != 0 {
		t.Errorf("no prompt handle expected, got %d", sa.MessageID)
	}
}

func TestEndStandingNotFound(t *testing.T) {
	e, store, _ := newTestEngine()

	if _, err := e.EndStanding(1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(store.absences) != 0 || len(store.standing) != 0 {
		t.Error("nothing may be written on not-found")
	}
}

func TestEndStanding(t *testing.T) {
	e, store, _ := newTestEngine()

	if _, err := e.BeginStanding(1, models.ReasonSick, testGroup); err != nil {
		t.Fatalf("begin: %v", err)
	}

	sa, err := e.EndStanding(1)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if sa.Label != models.ReasonSick || sa.GroupChatID != testGroup {
		t.Errorf("unexpected returned absence: %+v", sa)
	}
	if len(store.standing) != 0 {
		t.Error("standing absence must be deleted")
	}
	if len(store.absences) != 0 {
		t.Error("day record for the scope must be deleted")
	}
}
