package database

import (
	"database/sql"
	"fmt"
	"strings"

	"attendance-bot/internal/models"
)

// User operations
func (db *DB) TouchUser(userID int64, username string) error {
	_, err := db.Exec(`
		INSERT INTO users (user_id, username)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET username = EXCLUDED.username
	`, userID, username)
	if err != nil {
		return fmt.Errorf("failed to touch user: %w", err)
	}
	return nil
}

func (db *DB) RegisterUser(userID int64, fullName string) error {
	_, err := db.Exec(`
		INSERT INTO users (user_id, full_name)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET full_name = EXCLUDED.full_name
	`, userID, fullName)
	if err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// GetUserFullName returns "" when the user has never been registered.
func (db *DB) GetUserFullName(userID int64) (string, error) {
	var name string
	err := db.QueryRow(`
		SELECT full_name FROM users WHERE user_id = $1
	`, userID).Scan(&name)

	if err == sql.ErrNoRows {
		return "", nil
	}
	return name, err
}

func (db *DB) UpdateUsername(username string, userID int64) error {
	if username == "" {
		return nil
	}
	_, err := db.Exec(`
		INSERT INTO usernames (username, user_id)
		VALUES ($1, $2)
		ON CONFLICT (username) DO UPDATE
		SET user_id = EXCLUDED.user_id
	`, strings.ToLower(username), userID)

	return err
}

// GetUserIDByUsername returns 0 when the username was never seen.
func (db *DB) GetUserIDByUsername(username string) (int64, error) {
	var userID int64
	err := db.QueryRow(`
		SELECT user_id FROM usernames WHERE username = $1
	`, strings.ToLower(username)).Scan(&userID)

	if err == sql.ErrNoRows {
		return 0, nil
	}
	return userID, err
}

// Group operations
func (db *DB) UpsertGroup(chatID int64, name string, verified bool) error {
	_, err := db.Exec(`
		INSERT INTO groups (chat_id, name, verified)
		VALUES ($1, $2, $3)
		ON CONFLICT (chat_id) DO UPDATE
		SET name = EXCLUDED.name,
		    verified = EXCLUDED.verified
	`, chatID, name, verified)
	if err != nil {
		return fmt.Errorf("failed to upsert group: %w", err)
	}
	return nil
}

func (db *DB) GetGroup(chatID int64) (*models.Group, error) {
	var g models.Group

	err := db.QueryRow(`
		SELECT chat_id, name, verified, created_at
		FROM groups
		WHERE chat_id = $1
	`, chatID).Scan(&g.ChatID, &g.Name, &g.Verified, &g.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &g, nil
}

func (db *DB) UpdateGroupName(chatID int64, name string) error {
	_, err := db.Exec(`
		UPDATE groups SET name = $1 WHERE chat_id = $2
	`, name, chatID)

	return err
}

// GroupAdmin operations
func (db *DB) AddGroupAdmin(chatID, adminID int64) error {
	_, err := db.Exec(`
		INSERT INTO group_admins (chat_id, admin_id)
		VALUES ($1, $2)
		ON CONFLICT (chat_id, admin_id) DO NOTHING
	`, chatID, adminID)
	if err != nil {
		return fmt.Errorf("failed to add group admin: %w", err)
	}
	return nil
}

func (db *DB) RemoveGroupAdmin(chatID, adminID int64) error {
	_, err := db.Exec(`
		DELETE FROM group_admins WHERE chat_id = $1 AND admin_id = $2
	`, chatID, adminID)

	return err
}

func (db *DB) GetGroupAdminIDs(chatID int64) ([]int64, error) {
	rows, err := db.Query(`
		SELECT admin_id FROM group_admins WHERE chat_id = $1
	`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var adminIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		adminIDs = append(adminIDs, id)
	}

	return adminIDs, rows.Err()
}

// GetAdminGroups returns every group the user administers.
func (db *DB) GetAdminGroups(adminID int64) ([]models.Group, error) {
	rows, err := db.Query(`
		SELECT g.chat_id, g.name, g.verified, g.created_at
		FROM group_admins ga
		JOIN groups g ON ga.chat_id = g.chat_id
		WHERE ga.admin_id = $1
		ORDER BY g.name
	`, adminID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ChatID, &g.Name, &g.Verified, &g.CreatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}

	return groups, rows.Err()
}

func (db *DB) GetAllGroupAdmins() ([]models.GroupAdmin, error) {
	rows, err := db.Query(`
		SELECT ga.chat_id, ga.admin_id, COALESCE(g.name, ''), ga.activated_at
		FROM group_admins ga
		LEFT JOIN groups g ON ga.chat_id = g.chat_id
		ORDER BY g.name, ga.admin_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []models.GroupAdmin
	for rows.Next() {
		var ga models.GroupAdmin
		if err := rows.Scan(&ga.ChatID, &ga.AdminID, &ga.GroupName, &ga.ActivatedAt); err != nil {
			return nil, err
		}
		admins = append(admins, ga)
	}

	return admins, rows.Err()
}

// Absence operations

// ReplaceAbsence drops any record for the same (user, day, group) and
// inserts the new one. Last write wins.
func (db *DB) ReplaceAbsence(a models.Absence) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		DELETE FROM absences
		WHERE user_id = $1 AND day = $2 AND COALESCE(group_chat_id, 0) = $3
	`, a.UserID, a.Day, a.GroupChatID)
	if err != nil {
		return fmt.Errorf("failed to delete prior absence: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO absences (user_id, category, reason, day, group_chat_id)
		VALUES ($1, $2, $3, $4, NULLIF($5, 0))
	`, a.UserID, a.Category, a.Reason, a.Day, a.GroupChatID)
	if err != nil {
		return fmt.Errorf("failed to insert absence: %w", err)
	}

	return tx.Commit()
}

func (db *DB) DeleteDayAbsence(userID int64, day string, groupChatID int64) error {
	_, err := db.Exec(`
		DELETE FROM absences
		WHERE user_id = $1 AND day = $2 AND COALESCE(group_chat_id, 0) = $3
	`, userID, day, groupChatID)

	return err
}

// DeleteDayAbsences removes the user's records for the day in every group.
func (db *DB) DeleteDayAbsences(userID int64, day string) error {
	_, err := db.Exec(`
		DELETE FROM absences WHERE user_id = $1 AND day = $2
	`, userID, day)

	return err
}

// StandingAbsence operations
func (db *DB) SaveStandingAbsence(sa models.StandingAbsence) error {
	_, err := db.Exec(`
		INSERT INTO standing_absences (user_id, label, message_id, chat_id, group_chat_id)
		VALUES ($1, $2, $3, $4, NULLIF($5, 0))
		ON CONFLICT (user_id) DO UPDATE
		SET label = EXCLUDED.label,
		    message_id = EXCLUDED.message_id,
		    chat_id = EXCLUDED.chat_id,
		    group_chat_id = EXCLUDED.group_chat_id,
		    started_at = CURRENT_TIMESTAMP
	`, sa.UserID, sa.Label, sa.MessageID, sa.ChatID, sa.GroupChatID)
	if err != nil {
		return fmt.Errorf("failed to save standing absence: %w", err)
	}
	return nil
}

func (db *DB) GetStandingAbsence(userID int64) (*models.StandingAbsence, error) {
	var sa models.StandingAbsence
	var groupChatID sql.NullInt64

	err := db.QueryRow(`
		SELECT user_id, label, message_id, chat_id, group_chat_id, started_at
		FROM standing_absences
		WHERE user_id = $1
	`, userID).Scan(&sa.UserID, &sa.Label, &sa.MessageID, &sa.ChatID, &groupChatID, &sa.StartedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sa.GroupChatID = groupChatID.Int64
	return &sa, nil
}

func (db *DB) DeleteStandingAbsence(userID int64) error {
	_, err := db.Exec(`
		DELETE FROM standing_absences WHERE user_id = $1
	`, userID)

	return err
}

// PendingAbsence operations
func (db *DB) AddPendingAbsence(userID int64, reason, day string, groupChatID int64) (int64, error) {
	var id int64
	err := db.QueryRow(`
		INSERT INTO pending_absences (user_id, reason, day, group_chat_id)
		VALUES ($1, $2, $3, NULLIF($4, 0))
		RETURNING id
	`, userID, reason, day, groupChatID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to add pending absence: %w", err)
	}

	return id, nil
}

func (db *DB) GetPendingAbsence(id int64) (*models.PendingAbsence, error) {
	var pa models.PendingAbsence
	var groupChatID sql.NullInt64
	var fullName sql.NullString

	err := db.QueryRow(`
		SELECT pa.id, pa.user_id, pa.reason, pa.day, pa.group_chat_id, pa.created_at, u.full_name
		FROM pending_absences pa
		LEFT JOIN users u ON pa.user_id = u.user_id
		WHERE pa.id = $1
	`, id).Scan(&pa.ID, &pa.UserID, &pa.Reason, &pa.Day, &groupChatID, &pa.CreatedAt, &fullName)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	pa.GroupChatID = groupChatID.Int64
	pa.FullName = fullName.String
	return &pa, nil
}

func (db *DB) DeletePendingAbsence(id int64) error {
	_, err := db.Exec(`
		DELETE FROM pending_absences WHERE id = $1
	`, id)

	return err
}

// ActivationKey operations
func (db *DB) CreateActivationKey(key string, chatID, targetAdminID int64) error {
	_, err := db.Exec(`
		INSERT INTO activation_keys (key, chat_id, target_admin_id)
		VALUES ($1, $2, $3)
	`, key, chatID, targetAdminID)
	if err != nil {
		return fmt.Errorf("failed to create activation key: %w", err)
	}
	return nil
}

func (db *DB) GetActivationKey(key string) (*models.ActivationKey, error) {
	var k models.ActivationKey

	err := db.QueryRow(`
		SELECT key, chat_id, target_admin_id, used, created_at, used_at
		FROM activation_keys
		WHERE key = $1
	`, key).Scan(&k.Key, &k.ChatID, &k.TargetAdminID, &k.Used, &k.CreatedAt, &k.UsedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &k, nil
}

// RedeemActivationKey marks the key used. Returns false when the key was
// already redeemed; the row update is the single-use guard.
func (db *DB) RedeemActivationKey(key string) (bool, error) {
	res, err := db.Exec(`
		UPDATE activation_keys
		SET used = TRUE, used_at = CURRENT_TIMESTAMP
		WHERE key = $1 AND NOT used
	`, key)
	if err != nil {
		return false, fmt.Errorf("failed to redeem key: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

// PendingBind operations
func (db *DB) AddPendingBind(chatID, requesterID int64, groupName string) error {
	_, err := db.Exec(`
		INSERT INTO pending_binds (chat_id, requester_id, group_name)
		VALUES ($1, $2, $3)
	`, chatID, requesterID, groupName)
	if err != nil {
		return fmt.Errorf("failed to add pending bind: %w", err)
	}
	return nil
}

// GetLatestBindName returns the group name from the most recent bind
// request for the chat, "" when none was ever made.
func (db *DB) GetLatestBindName(chatID int64) (string, error) {
	var name string
	err := db.QueryRow(`
		SELECT group_name FROM pending_binds
		WHERE chat_id = $1
		ORDER BY requested_at DESC
		LIMIT 1
	`, chatID).Scan(&name)

	if err == sql.ErrNoRows {
		return "", nil
	}
	return name, err
}

// UserState operations
func (db *DB) SetUserState(userID int64, state string, data []byte) error {
	_, err := db.Exec(`
		INSERT INTO user_states (user_id, state, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET state = EXCLUDED.state,
		    data = EXCLUDED.data,
		    updated_at = CURRENT_TIMESTAMP
	`, userID, state, data)

	return err
}

// GetUserState returns nil when no interaction is in progress.
func (db *DB) GetUserState(userID int64) (*models.UserState, error) {
	var st models.UserState

	err := db.QueryRow(`
		SELECT user_id, state, data FROM user_states WHERE user_id = $1
	`, userID).Scan(&st.UserID, &st.State, &st.Data)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &st, nil
}

func (db *DB) ClearUserState(userID int64) error {
	_, err := db.Exec(`
		DELETE FROM user_states WHERE user_id = $1
	`, userID)

	return err
}

// Report queries

// GetTodayAbsences returns the day's finalized absences joined with the
// standing absences for the scope. groupChatID == 0 means the global scope:
// every record regardless of group, plus every standing absence that has an
// originating group.
func (db *DB) GetTodayAbsences(day string, groupChatID int64) ([]models.AbsenceReportRow, error) {
	var (
		rows *sql.Rows
		err  error
	)

	if groupChatID != 0 {
		rows, err = db.Query(`
			SELECT COALESCE(u.full_name, ''), a.category, a.reason, a.user_id, FALSE
			FROM absences a
			LEFT JOIN users u ON a.user_id = u.user_id
			WHERE a.day = $1 AND a.group_chat_id = $2
			UNION ALL
			SELECT COALESCE(u.full_name, ''), $3, sa.label, sa.user_id, TRUE
			FROM standing_absences sa
			LEFT JOIN users u ON sa.user_id = u.user_id
			WHERE sa.group_chat_id = $2
		`, day, groupChatID, models.CategoryExcused)
	} else {
		rows, err = db.Query(`
			SELECT COALESCE(u.full_name, ''), a.category, a.reason, a.user_id, FALSE
			FROM absences a
			LEFT JOIN users u ON a.user_id = u.user_id
			WHERE a.day = $1
			UNION ALL
			SELECT COALESCE(u.full_name, ''), $2, sa.label, sa.user_id, TRUE
			FROM standing_absences sa
			LEFT JOIN users u ON sa.user_id = u.user_id
			WHERE sa.group_chat_id IS NOT NULL
		`, day, models.CategoryExcused)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query today absences: %w", err)
	}
	defer rows.Close()

	var result []models.AbsenceReportRow
	for rows.Next() {
		var r models.AbsenceReportRow
		if err := rows.Scan(&r.FullName, &r.Category, &r.Reason, &r.UserID, &r.Standing); err != nil {
			return nil, err
		}
		result = append(result, r)
	}

	return result, rows.Err()
}

// GetAllStandingAbsences lists everyone currently sick or on vacation.
func (db *DB) GetAllStandingAbsences() ([]models.AbsenceReportRow, error) {
	rows, err := db.Query(`
		SELECT COALESCE(u.full_name, ''), $1, sa.label, sa.user_id, TRUE
		FROM standing_absences sa
		LEFT JOIN users u ON sa.user_id = u.user_id
	`, models.CategoryExcused)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.AbsenceReportRow
	for rows.Next() {
		var r models.AbsenceReportRow
		if err := rows.Scan(&r.FullName, &r.Category, &r.Reason, &r.UserID, &r.Standing); err != nil {
			return nil, err
		}
		result = append(result, r)
	}

	return result, rows.Err()
}
