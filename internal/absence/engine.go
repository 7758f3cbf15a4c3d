// Package absence holds the recording engine and the approval workflow.
// It talks to persistence through the Store interface and to the transport
// through the Notifier interface so both can be faked in tests.
package absence

import (
	"errors"
	"fmt"
	"time"

	"attendance-bot/internal/models"
	"attendance-bot/pkg/logger"

	"go.uber.org/zap"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("already absent")
)

// ConflictError reports an attempt to record a new absence while a standing
// absence is active. Matches ErrConflict under errors.Is.
type ConflictError struct {
	Existing models.ReasonCode
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("already absent: %s", e.Existing)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// Store is the slice of the persistence gateway the engine needs.
type Store interface {
	ReplaceAbsence(a models.Absence) error
	DeleteDayAbsence(userID int64, day string, groupChatID int64) error

	GetStandingAbsence(userID int64) (*models.StandingAbsence, error)
	SaveStandingAbsence(sa models.StandingAbsence) error
	DeleteStandingAbsence(userID int64) error

	AddPendingAbsence(userID int64, reason, day string, groupChatID int64) (int64, error)
	GetPendingAbsence(id int64) (*models.PendingAbsence, error)
	DeletePendingAbsence(id int64) error

	GetGroupAdminIDs(chatID int64) ([]int64, error)
	ClearUserState(userID int64) error
}

// Notifier delivers the private exit-prompt for a standing absence and
// returns the handle of the sent message.
type Notifier interface {
	SendExitPrompt(userID int64, label models.ReasonCode) (messageID int, err error)
}

type Engine struct {
	store    Store
	notifier Notifier
	now      func() time.Time
}

func NewEngine(store Store, notifier Notifier) *Engine {
	return &Engine{
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

func (e *Engine) Today() string {
	return e.now().Format("2006-01-02")
}

// RecordInstant finalizes a single-day auto-approved absence. Repeated calls
// for the same day and group collapse to the latest value. Returns a
// ConflictError when the user is currently sick or on vacation; the
// conversational state is cleared either way.
func (e *Engine) RecordInstant(userID int64, code models.ReasonCode, groupChatID int64) error {
	sa, err := e.store.GetStandingAbsence(userID)
	if err != nil {
		return fmt.Errorf("failed to check standing absence: %w", err)
	}
	if sa != nil {
		e.clearState(userID)
		return &ConflictError{Existing: sa.Label}
	}

	err = e.store.ReplaceAbsence(models.Absence{
		UserID:      userID,
		Category:    models.CategoryExcused,
		Reason:      code.Label(),
		Day:         e.Today(),
		GroupChatID: groupChatID,
	})
	if err != nil {
		return fmt.Errorf("failed to record absence: %w", err)
	}

	e.clearState(userID)
	return nil
}

// BeginResult reports how BeginStanding went. The absence is active in
// either case; Delivered is false when the exit prompt could not reach the
// user's private chat and the caller should fall back to a group notice.
type BeginResult struct {
	Delivered bool
	MessageID int
}

// BeginStanding opens a multi-day absence. An existing standing absence is
// replaced, never rejected, since the new label is itself standing. The
// day's finalized record for the scope is superseded and removed.
func (e *Engine) BeginStanding(userID int64, code models.ReasonCode, groupChatID int64) (*BeginResult, error) {
	if !code.Standing() {
		return nil, fmt.Errorf("reason %q is not a standing label", code)
	}

	prev, err := e.store.GetStandingAbsence(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check standing absence: %w", err)
	}
	if prev != nil {
		if err := e.store.DeleteStandingAbsence(userID); err != nil {
			return nil, fmt.Errorf("failed to replace standing absence: %w", err)
		}
	}

	if err := e.store.DeleteDayAbsence(userID, e.Today(), groupChatID); err != nil {
		zap.L().Warn("Failed to drop superseded absence record",
			zap.Int64(logger.FieldUserID, userID), zap.Error(err))
	}

	sa := models.StandingAbsence{
		UserID:      userID,
		Label:       code,
		ChatID:      userID,
		GroupChatID: groupChatID,
	}
	if err := e.store.SaveStandingAbsence(sa); err != nil {
		return nil, fmt.Errorf("failed to save standing absence: %w", err)
	}

	e.clearState(userID)

	messageID, err := e.notifier.SendExitPrompt(userID, code)
	if err != nil {
		// The absence stays active; the caller surfaces a degraded notice.
		zap.L().Warn("Exit prompt delivery failed",
			zap.Int64(logger.FieldUserID, userID), zap.Error(err))
		return &BeginResult{Delivered: false}, nil
	}

	sa.MessageID = messageID
	if err := e.store.SaveStandingAbsence(sa); err != nil {
		zap.L().Warn("Failed to record exit prompt handle",
			zap.Int64(logger.FieldUserID, userID), zap.Error(err))
	}

	return &BeginResult{Delivered: true, MessageID: messageID}, nil
}

// EndStanding closes the user's standing absence and removes the day's
// record for its scope. The removed row is returned so the caller can
// notify supervisors and edit the exit-prompt message.
func (e *Engine) EndStanding(userID int64) (*models.StandingAbsence, error) {
	sa, err := e.store.GetStandingAbsence(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up standing absence: %w", err)
	}
	if sa == nil {
		return nil, ErrNotFound
	}

	if err := e.store.DeleteStandingAbsence(userID); err != nil {
		return nil, fmt.Errorf("failed to delete standing absence: %w", err)
	}
	if err := e.store.DeleteDayAbsence(userID, e.Today(), sa.GroupChatID); err != nil {
		zap.L().Warn("Failed to drop day absence on return",
			zap.Int64(logger.FieldUserID, userID), zap.Error(err))
	}

	return sa, nil
}

func (e *Engine) clearState(userID int64) {
	if err := e.store.ClearUserState(userID); err != nil {
		zap.L().Warn("Failed to clear user state",
			zap.Int64(logger.FieldUserID, userID), zap.Error(err))
	}
}
