package absence

import (
	"fmt"

	"attendance-bot/internal/models"
)

// Decision is the outcome of a decided pending reason, returned so the
// caller can notify the reporting user.
type Decision struct {
	UserID      int64
	FullName    string
	Reason      string
	Category    models.Category
	GroupChatID int64
}

// SubmitReason queues a freeform reason for the group's admins to decide
// and clears the reporter's conversational state. Notifying the admins is
// the caller's job; a group with no admins leaves the entry parked until
// someone is activated for it.
func (e *Engine) SubmitReason(userID int64, reason string, groupChatID int64) (int64, error) {
	id, err := e.store.AddPendingAbsence(userID, reason, e.Today(), groupChatID)
	if err != nil {
		return 0, fmt.Errorf("failed to queue pending reason: %w", err)
	}

	e.clearState(userID)
	return id, nil
}

// Decide finalizes a pending reason with the chosen category. The first
// decision wins: it deletes the row, so a second decider gets ErrNotFound.
// Admins of other groups get ErrForbidden and the entry stays untouched.
func (e *Engine) Decide(adminID, pendingID int64, category models.Category) (*Decision, error) {
	pa, err := e.store.GetPendingAbsence(pendingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending reason: %w", err)
	}
	if pa == nil {
		return nil, ErrNotFound
	}

	adminIDs, err := e.store.GetGroupAdminIDs(pa.GroupChatID)
	if err != nil {
		return nil, fmt.Errorf("failed to load group admins: %w", err)
	}
	if !contains(adminIDs, adminID) {
		return nil, ErrForbidden
	}

	err = e.store.ReplaceAbsence(models.Absence{
		UserID:      pa.UserID,
		Category:    category,
		Reason:      pa.Reason,
		Day:         pa.Day,
		GroupChatID: pa.GroupChatID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to finalize absence: %w", err)
	}

	if err := e.store.DeletePendingAbsence(pendingID); err != nil {
		return nil, fmt.Errorf("failed to delete pending reason: %w", err)
	}

	return &Decision{
		UserID:      pa.UserID,
		FullName:    pa.FullName,
		Reason:      pa.Reason,
		Category:    category,
		GroupChatID: pa.GroupChatID,
	}, nil
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
