package models

import "time"

// Category is the supervisor-facing classification of an absence.
type Category string

const (
	CategoryExcused   Category = "уважительно"
	CategoryUnexcused Category = "неуважительно"
)

// ReasonCode identifies one of the predefined absence reasons. Standing
// reasons stay in effect until the user presses the exit button; the rest
// cover a single day.
type ReasonCode string

const (
	ReasonSick        ReasonCode = "sick"
	ReasonOrder       ReasonCode = "order"
	ReasonDormDuty    ReasonCode = "dorm_duty"
	ReasonCollegeDuty ReasonCode = "college_duty"
	ReasonEnlistment  ReasonCode = "enlistment"
	ReasonVacation    ReasonCode = "vacation"
	ReasonOther       ReasonCode = "other"
	ReasonCancel      ReasonCode = "cancel"
)

var reasonLabels = map[ReasonCode]string{
	ReasonSick:        "🤒 Болею",
	ReasonOrder:       "📋 Приказ на весь день",
	ReasonDormDuty:    "🏠 Деж. по общаге",
	ReasonCollegeDuty: "🏫 Деж. по колледжу",
	ReasonEnlistment:  "🎖️ Военкомат",
	ReasonVacation:    "😎 Отпуск",
}

// Label returns the button text recorded for the reason, or "" when the
// code carries no predefined label (other/cancel).
func (r ReasonCode) Label() string {
	return reasonLabels[r]
}

// Standing reports whether the reason opens a multi-day absence.
func (r ReasonCode) Standing() bool {
	return r == ReasonSick || r == ReasonVacation
}

// Instant reports whether the reason is auto-approved for a single day.
func (r ReasonCode) Instant() bool {
	_, ok := reasonLabels[r]
	return ok && !r.Standing()
}

// Conversation states stored per user. No row means no interaction is in
// progress.
const (
	StateAwaitingReason             = "awaiting_reason"
	StateAwaitingCustomReason       = "awaiting_custom_reason"
	StateAwaitingAdminRemovalChoice = "awaiting_admin_removal_choice"
)

type User struct {
	UserID       int64     `db:"user_id"`
	FullName     string    `db:"full_name"`
	Username     string    `db:"username"`
	RegisteredAt time.Time `db:"registered_at"`
}

type Group struct {
	ChatID    int64     `db:"chat_id"`
	Name      string    `db:"name"`
	Verified  bool      `db:"verified"`
	CreatedAt time.Time `db:"created_at"`
}

type GroupAdmin struct {
	ChatID      int64     `db:"chat_id"`
	AdminID     int64     `db:"admin_id"`
	GroupName   string    `db:"group_name"`
	ActivatedAt time.Time `db:"activated_at"`
}

// Absence is a finalized attendance exception for one user on one day,
// scoped to the group it was reported in.
type Absence struct {
	ID          int64    `db:"id"`
	UserID      int64    `db:"user_id"`
	Category    Category `db:"category"`
	Reason      string   `db:"reason"`
	Day         string   `db:"day"`
	GroupChatID int64    `db:"group_chat_id"`
}

// StandingAbsence is an open-ended absence in effect until the user signals
// return. MessageID/ChatID point at the private exit-prompt message so it
// can be edited when the user comes back; zero when delivery failed.
type StandingAbsence struct {
	UserID      int64      `db:"user_id"`
	Label       ReasonCode `db:"label"`
	MessageID   int        `db:"message_id"`
	ChatID      int64      `db:"chat_id"`
	GroupChatID int64      `db:"group_chat_id"`
	StartedAt   time.Time  `db:"started_at"`
}

// PendingAbsence is a freeform reason awaiting a supervisor's decision.
// FullName is populated by the read query joining users.
type PendingAbsence struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Reason      string    `db:"reason"`
	Day         string    `db:"day"`
	GroupChatID int64     `db:"group_chat_id"`
	CreatedAt   time.Time `db:"created_at"`
	FullName    string    `db:"full_name"`
}

// ActivationKey is a one-time credential elevating its target user to
// admin of one group.
type ActivationKey struct {
	Key           string     `db:"key"`
	ChatID        int64      `db:"chat_id"`
	TargetAdminID int64      `db:"target_admin_id"`
	Used          bool       `db:"used"`
	CreatedAt     time.Time  `db:"created_at"`
	UsedAt        *time.Time `db:"used_at"`
}

// UserState is the in-progress multi-step interaction for one user.
// Data holds a JSON payload specific to the state.
type UserState struct {
	UserID int64  `db:"user_id"`
	State  string `db:"state"`
	Data   []byte `db:"data"`
}

// AbsenceReportRow is one line of the daily report, sourced either from a
// finalized absence or from a standing absence. For standing rows Reason
// holds the ReasonCode, not display text.
type AbsenceReportRow struct {
	FullName string
	Category Category
	Reason   string
	UserID   int64
	Standing bool
}
