package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"attendance-bot/internal/absence"
	"attendance-bot/internal/bot"
	"attendance-bot/internal/models"
	"attendance-bot/internal/report"
	"attendance-bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func isGroupChat(chat *tgbotapi.Chat) bool {
	return chat.IsGroup() || chat.IsSuperGroup()
}

func displayName(b *bot.Bot, userID int64) string {
	name, err := b.DB.GetUserFullName(userID)
	if err != nil {
		zap.L().Warn("Failed to look up user name",
			zap.Int64(logger.FieldUserID, userID), zap.Error(err))
	}
	return report.DisplayName(name, userID)
}

// HandleStart handles /start in both chat kinds. It always resets the
// user's conversational state.
func HandleStart(b *bot.Bot, message *tgbotapi.Message) {
	userID := message.From.ID

	if err := b.DB.TouchUser(userID, message.From.UserName); err != nil {
		zap.L().Warn("Failed to touch user", zap.Int64(logger.FieldUserID, userID), zap.Error(err))
	}
	if err := b.DB.UpdateUsername(message.From.UserName, userID); err != nil {
		zap.L().Warn("Failed to update username", zap.Int64(logger.FieldUserID, userID), zap.Error(err))
	}
	if err := b.DB.ClearUserState(userID); err != nil {
		zap.L().Warn("Failed to clear state", zap.Int64(logger.FieldUserID, userID), zap.Error(err))
	}

	if !message.Chat.IsPrivate() {
		err := b.SendMessageWithMarkdown(message.Chat.ID,
			"🎯 **Панель управления отсутствующими**\n\n"+
				"Используйте кнопки ниже для отметки:\n"+
				"• ❌ Отсутствую - отметить отсутствие\n"+
				"• 📊 Получить отчёт - посмотреть список\n\n"+
				"📋 *Команды:* /keyboard /help /list /report",
			b.AttendanceKeyboard())
		if err != nil {
			zap.L().Error("Failed to send group panel", zap.Int64(logger.FieldChatID, message.Chat.ID), zap.Error(err))
		}
		return
	}

	adminGroups, err := b.DB.GetAdminGroups(userID)
	if err != nil {
		zap.L().Warn("Failed to load admin groups", zap.Int64(logger.FieldUserID, userID), zap.Error(err))
	}

	if b.Access.IsAllowed(userID) || len(adminGroups) > 0 {
		err = b.SendMessage(message.Chat.ID,
			"👋 Бот для учёта отсутствующих\n\n"+
				"Нажмите кнопку 'ℹ️ Информация' для инструкции по использованию.",
			b.AdminKeyboard(userID))
	} else {
		err = b.SendMessage(message.Chat.ID,
			"👋 Бот для учёта отсутствующих\n\n"+
				"Нажмите кнопку ниже для взаимодействия с ботом.",
			b.PrivateKeyboard())
	}
	if err != nil {
		zap.L().Error("Failed to send start reply", zap.Int64(logger.FieldUserID, userID), zap.Error(err))
	}
}

// HandlePrivateMessage routes non-command private text. The user's
// conversational state is read once; text that matches neither the state
// nor a known button is ignored.
func HandlePrivateMessage(b *bot.Bot, message *tgbotapi.Message) {
	userID := message.From.ID

	state, err := b.DB.GetUserState(userID)
	if err != nil {
		zap.L().Warn("Failed to read user state", zap.Int64(logger.FieldUserID, userID), zap.Error(err))
	}
	if state != nil && state.State == models.StateAwaitingAdminRemovalChoice {
		handleAdminRemovalChoice(b, message, state)
		return
	}

	switch message.Text {
	case bot.BtnReport:
		sendReportsForAdmin(b, message.Chat.ID, userID)
	case bot.BtnRegister:
		handleRegisterButton(b, message)
	case bot.BtnInfo:
		handleInfoButton(b, message)
	case bot.BtnStandingList:
		handleStandingListButton(b, message)
	case bot.BtnRemoveAdmin:
		handleRemoveAdminButton(b, message)
	}
}

// groupAction is the routing decision for non-command group text.
type groupAction int

const (
	groupActionNone groupAction = iota
	groupActionAbsentButton
	groupActionReport
	groupActionCustomReason
	groupActionCaptureUsername
)

// routeGroupText decides what a group message means. The panel buttons
// outrank the custom-reason state: pressing the absent button mid-flow
// restarts the reason selection instead of being swallowed as the reason
// text.
func routeGroupText(state *models.UserState, text string) groupAction {
	switch text {
	case bot.BtnAbsent:
		return groupActionAbsentButton
	case bot.BtnReport:
		return groupActionReport
	}
	if state != nil {
		if state.State == models.StateAwaitingCustomReason {
			return groupActionCustomReason
		}
		return groupActionNone
	}
	return groupActionCaptureUsername
}

// HandleGroupMessage routes non-command group text: the custom-reason
// input when that flow is active, the two panel buttons, and otherwise the
// passive username capture that makes /gen_key and /set_fio by @username
// possible.
func HandleGroupMessage(b *bot.Bot, message *tgbotapi.Message) {
	if message.Text == "" {
		return
	}
	userID := message.From.ID

	state, err := b.DB.GetUserState(userID)
	if err != nil {
		zap.L().Warn("Failed to read user state", zap.Int64(logger.FieldUserID, userID), zap.Error(err))
	}

	switch routeGroupText(state, message.Text) {
	case groupActionAbsentButton:
		handleAbsentButton(b, message)
	case groupActionReport:
		SendGroupReport(b, message.Chat.ID, message.Chat.ID)
	case groupActionCustomReason:
		handleCustomReason(b, message)
	case groupActionCaptureUsername:
		if message.From.UserName != "" {
			if err := b.DB.UpdateUsername(message.From.UserName, userID); err != nil {
				zap.L().Warn("Failed to capture username",
					zap.Int64(logger.FieldUserID, userID), zap.Error(err))
			}
		}
	}
}

func handleAbsentButton(b *bot.Bot, message *tgbotapi.Message) {
	userID := message.From.ID

	if err := b.DB.SetUserState(userID, models.StateAwaitingReason, nil); err != nil {
		zap.L().Error("Failed to set state", zap.Int64(logger.FieldUserID, userID), zap.Error(err))
		return
	}

	err := b.SendMessage(message.Chat.ID, "📋 Выберите причину отсутствия:", b.ReasonKeyboard())
	if err != nil {
		zap.L().Error("Failed to send reason keyboard",
			zap.Int64(logger.FieldChatID, message.Chat.ID), zap.Error(err))
	}
}

func handleCustomReason(b *bot.Bot, message *tgbotapi.Message) {
	userID := message.From.ID
	reason := strings.TrimSpace(message.Text)
	groupChatID := message.Chat.ID

	pendingID, err := b.Engine.SubmitReason(userID, reason, groupChatID)
	if err != nil {
		zap.L().Error("Failed to submit reason", zap.Int64(logger.FieldUserID, userID), zap.Error(err))
		b.SendMessage(message.Chat.ID, "❌ Ошибка при отправке причины. Попробуйте ещё раз.", nil)
		return
	}

	zap.L().Info("Reason queued for approval",
		zap.Int64(logger.FieldUserID, userID),
		zap.Int64(logger.FieldGroupID, groupChatID),
		zap.Int64("pending_id", pendingID))

	adminIDs, err := b.DB.GetGroupAdminIDs(groupChatID)
	if err != nil {
		zap.L().Warn("Failed to load group admins", zap.Int64(logger.FieldGroupID, groupChatID), zap.Error(err))
	}
	if len(adminIDs) == 0 {
		// Nobody to decide; the entry stays parked until an admin is
		// activated for the group.
		zap.L().Warn("No admins for group, approval request not delivered",
			zap.Int64(logger.FieldGroupID, groupChatID))
	} else {
		keyboard := b.DecisionKeyboard(pendingID)
		text := fmt.Sprintf(
			"📢 Запрос на подтверждение причины:\n\n👤 %s\n📝 Причина: %s\n\nВыберите тип отсутствия:",
			displayName(b, userID), reason)

		if err := notifyAdmins(b, adminIDs, text, keyboard); err != nil {
			zap.L().Warn("Approval request fan-out incomplete",
				zap.Int64(logger.FieldGroupID, groupChatID), zap.Error(err))
		}
	}

	b.SendMessage(message.Chat.ID, fmt.Sprintf(
		"📨 Ваша причина отправлена на подтверждение администратору.\nПричина: %s", reason), nil)
}

// notifyAdmins fans a message out to every admin; per-recipient failures
// are aggregated, not fatal.
func notifyAdmins(b *bot.Bot, adminIDs []int64, text string, keyboard interface{}) error {
	var errs error
	for _, adminID := range adminIDs {
		if err := b.SendMessage(adminID, text, keyboard); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("admin %d: %w", adminID, err))
		}
	}
	return errs
}

// HandleCallbackQuery is the single dispatch point for inline-button
// presses.
func HandleCallbackQuery(b *bot.Bot, query *tgbotapi.CallbackQuery) {
	switch {
	case strings.HasPrefix(query.Data, bot.CallbackReasonPrefix):
		handleReasonCallback(b, query)
	case strings.HasPrefix(query.Data, bot.CallbackApprovePrefix):
		handleDecisionCallback(b, query)
	case query.Data == bot.CallbackExitAbsence:
		handleExitAbsence(b, query)
	}
}

func handleReasonCallback(b *bot.Bot, query *tgbotapi.CallbackQuery) {
	userID := query.From.ID
	code := models.ReasonCode(strings.TrimPrefix(query.Data, bot.CallbackReasonPrefix))
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	state, err := b.DB.GetUserState(userID)
	if err != nil {
		zap.L().Warn("Failed to read user state", zap.Int64(logger.FieldUserID, userID), zap.Error(err))
	}
	if state == nil ||
		(state.State != models.StateAwaitingReason && state.State != models.StateAwaitingCustomReason) {
		b.AnswerCallbackQuery(query.ID, "❌ Сначала нажмите '❌ Отсутствую'")
		return
	}

	switch {
	case code == models.ReasonCancel:
		b.DB.ClearUserState(userID)
		b.EditMessage(chatID, messageID, "❌ Действие отменено", nil)
		b.AnswerCallbackQuery(query.ID, "")

	case code == models.ReasonOther:
		if err := b.DB.SetUserState(userID, models.StateAwaitingCustomReason, nil); err != nil {
			zap.L().Error("Failed to set state", zap.Int64(logger.FieldUserID, userID), zap.Error(err))
			b.AnswerCallbackQuery(query.ID, "Ошибка обработки")
			return
		}
		keyboard := b.CancelKeyboard()
		b.EditMessage(chatID, messageID, "📝 Опишите причину отсутствия:", &keyboard)
		b.AnswerCallbackQuery(query.ID, "")

	case code.Standing():
		beginStanding(b, query, code)

	case code.Instant():
		recordInstant(b, query, code)

	default:
		b.AnswerCallbackQuery(query.ID, "Ошибка обработки")
	}
}

func recordInstant(b *bot.Bot, query *tgbotapi.CallbackQuery, code models.ReasonCode) {
	userID := query.From.ID
	chatID := query.Message.Chat.ID
	groupChatID := int64(0)
	if isGroupChat(query.Message.Chat) {
		groupChatID = chatID
	}

	err := b.Engine.RecordInstant(userID, code, groupChatID)

	var conflict *absence.ConflictError
	if errors.As(err, &conflict) {
		b.EditMessage(chatID, query.Message.MessageID, fmt.Sprintf(
			"❌ Вы уже в списке отсутствующих: %s\n\n"+
				"Нажмите 'Выхожу' в личном сообщении, чтобы вернуться.",
			conflict.Existing.Label()), nil)
		b.AnswerCallbackQuery(query.ID, "❌ Вы уже отмечены как отсутствующий")
		return
	}
	if err != nil {
		zap.L().Error("Failed to record absence", zap.Int64(logger.FieldUserID, userID), zap.Error(err))
		b.AnswerCallbackQuery(query.ID, "❌ Ошибка при записи отсутствия")
		return
	}

	zap.L().Info("Instant absence recorded",
		zap.Int64(logger.FieldUserID, userID),
		zap.Int64(logger.FieldGroupID, groupChatID),
		zap.String("reason", string(code)))

	b.EditMessage(chatID, query.Message.MessageID,
		fmt.Sprintf("✅ Записал: %s\nСтатус: уважительно", code.Label()), nil)
	b.AnswerCallbackQuery(query.ID, "")
}

func beginStanding(b *bot.Bot, query *tgbotapi.CallbackQuery, code models.ReasonCode) {
	userID := query.From.ID
	chatID := query.Message.Chat.ID
	groupChatID := int64(0)
	if isGroupChat(query.Message.Chat) {
		groupChatID = chatID
	}

	res, err := b.Engine.BeginStanding(userID, code, groupChatID)
	if err != nil {
		zap.L().Error("Failed to begin standing absence",
			zap.Int64(logger.FieldUserID, userID), zap.Error(err))
		b.AnswerCallbackQuery(query.ID, "❌ Ошибка при записи отсутствия")
		return
	}

	zap.L().Info("Standing absence started",
		zap.Int64(logger.FieldUserID, userID),
		zap.Int64(logger.FieldGroupID, groupChatID),
		zap.String("reason", string(code)),
		zap.Bool("prompt_delivered", res.Delivered))

	confirmation := fmt.Sprintf("✅ Записал: %s\nСтатус: уважительно", code.Label())
	if code == models.ReasonSick {
		confirmation += "\n❗ Когда выздоровеешь, нажми кнопку \"Выхожу\" в личных сообщениях с ботом"
	}
	b.EditMessage(chatID, query.Message.MessageID, confirmation, nil)

	name := displayName(b, userID)

	if !res.Delivered && groupChatID != 0 {
		// The exit prompt could not reach the user; leave instructions in
		// the group instead.
		err := b.SendMessageWithMarkdown(groupChatID, fmt.Sprintf(
			"👤 %s\n📋 Отметил: %s\n\n"+
				"⚠️ *Внимание:*\n"+
				"Если вы не получили уведомление в личке, напишите /start боту.\n"+
				"Это нужно сделать один раз, чтобы получить кнопку выхода.",
			name, code.Label()), nil)
		if err != nil {
			zap.L().Warn("Failed to send fallback instruction",
				zap.Int64(logger.FieldGroupID, groupChatID), zap.Error(err))
		}
	}

	notifyGroupAdminsAboutStanding(b, groupChatID, name, code, true)
	b.AnswerCallbackQuery(query.ID, "")
}

func handleExitAbsence(b *bot.Bot, query *tgbotapi.CallbackQuery) {
	userID := query.From.ID

	sa, err := b.Engine.EndStanding(userID)
	if errors.Is(err, absence.ErrNotFound) {
		b.AnswerCallbackQuery(query.ID, "❌ Вы не в списке отсутствующих")
		return
	}
	if err != nil {
		zap.L().Error("Failed to end standing absence",
			zap.Int64(logger.FieldUserID, userID), zap.Error(err))
		b.AnswerCallbackQuery(query.ID, "❌ Ошибка обработки")
		return
	}

	b.EditMessage(query.Message.Chat.ID, query.Message.MessageID, fmt.Sprintf(
		"✅ Вернулся грызть гранит науки!\n\n"+
			"Вы удалены из списка отсутствующих.\n%s окончена.",
		sa.Label.Label()), nil)

	notifyGroupAdminsAboutStanding(b, sa.GroupChatID, displayName(b, userID), sa.Label, false)
	b.AnswerCallbackQuery(query.ID, "✅ Вы удалены из списка отсутствующих")
}

func notifyGroupAdminsAboutStanding(b *bot.Bot, groupChatID int64, name string, code models.ReasonCode, added bool) {
	if groupChatID == 0 {
		return
	}

	adminIDs, err := b.DB.GetGroupAdminIDs(groupChatID)
	if err != nil {
		zap.L().Warn("Failed to load group admins",
			zap.Int64(logger.FieldGroupID, groupChatID), zap.Error(err))
		return
	}
	if len(adminIDs) == 0 {
		return
	}

	var text string
	if added {
		text = fmt.Sprintf(
			"🔔 НОВОЕ ОТСУТСТВИЕ\n\n👤 %s\n📋 добавлен в список отсутствующих\n📌 Тип: %s",
			name, code.Label())
	} else {
		text = fmt.Sprintf(
			"📢 Уведомление о возвращении:\n\n👤 %s\n📋 Причина: %s\n✅ Вышел из списка отсутствующих",
			name, code.Label())
	}

	if err := notifyAdmins(b, adminIDs, text, nil); err != nil {
		zap.L().Warn("Standing absence fan-out incomplete",
			zap.Int64(logger.FieldGroupID, groupChatID), zap.Error(err))
	}
}

func handleDecisionCallback(b *bot.Bot, query *tgbotapi.CallbackQuery) {
	adminID := query.From.ID

	parts := strings.Split(strings.TrimPrefix(query.Data, bot.CallbackApprovePrefix), ":")
	if len(parts) != 2 {
		b.AnswerCallbackQuery(query.ID, "Ошибка обработки")
		return
	}

	var category models.Category
	switch parts[0] {
	case "excused":
		category = models.CategoryExcused
	case "unexcused":
		category = models.CategoryUnexcused
	default:
		b.AnswerCallbackQuery(query.ID, "Ошибка обработки")
		return
	}

	var pendingID int64
	if _, err := fmt.Sscan(parts[1], &pendingID); err != nil {
		b.AnswerCallbackQuery(query.ID, "Ошибка обработки")
		return
	}

	decision, err := b.Engine.Decide(adminID, pendingID, category)
	switch {
	case errors.Is(err, absence.ErrNotFound):
		b.AnswerCallbackQuery(query.ID, "Запрос уже обработан")
		return
	case errors.Is(err, absence.ErrForbidden):
		b.AnswerCallbackQuery(query.ID, "❌ У вас нет прав на подтверждение причин для этой группы")
		return
	case err != nil:
		zap.L().Error("Failed to decide pending reason",
			zap.Int64(logger.FieldUserID, adminID),
			zap.Int64("pending_id", pendingID), zap.Error(err))
		b.AnswerCallbackQuery(query.ID, "Ошибка обработки")
		return
	}

	zap.L().Info("Pending reason decided",
		zap.Int64("pending_id", pendingID),
		zap.Int64(logger.FieldUserID, decision.UserID),
		zap.String("category", string(decision.Category)))

	name := report.DisplayName(decision.FullName, decision.UserID)
	b.EditMessage(query.Message.Chat.ID, query.Message.MessageID, fmt.Sprintf(
		"✅ Причина подтверждена:\n\n👤 %s\n📝 Причина: %s\n📋 Статус: %s",
		name, decision.Reason, decision.Category), nil)

	// Best effort: the decision stands even when the reporter is
	// unreachable.
	err = b.SendMessage(decision.UserID, fmt.Sprintf(
		"✅ Ваша причина подтверждена администратором:\nПричина: %s\nСтатус: %s",
		decision.Reason, decision.Category), nil)
	if err != nil {
		zap.L().Warn("Failed to notify reporter",
			zap.Int64(logger.FieldUserID, decision.UserID), zap.Error(err))
	}

	b.AnswerCallbackQuery(query.ID, fmt.Sprintf("Статус установлен: %s", decision.Category))
}

// SendGroupReport delivers the day's report for one group scope to chatID.
func SendGroupReport(b *bot.Bot, chatID, groupChatID int64) {
	rows, err := b.DB.GetTodayAbsences(b.Engine.Today(), groupChatID)
	if err != nil {
		zap.L().Error("Failed to query absences", zap.Int64(logger.FieldGroupID, groupChatID), zap.Error(err))
		b.SendMessage(chatID, "❌ Ошибка при получении списка отсутствующих", nil)
		return
	}

	groupName := ""
	if groupChatID != 0 {
		if g, err := b.DB.GetGroup(groupChatID); err == nil && g != nil {
			groupName = g.Name
		}
	}

	text := report.Build(time.Now(), groupName, rows)
	if text == "" {
		b.SendMessage(chatID, "✅ На сегодня отсутствующих нет", nil)
		return
	}

	if err := b.SendMessageWithMarkdown(chatID, text, nil); err != nil {
		zap.L().Error("Failed to send report", zap.Int64(logger.FieldChatID, chatID), zap.Error(err))
	}
}

// sendReportsForAdmin sends one report per administered group, or the
// global listing when the user administers none.
func sendReportsForAdmin(b *bot.Bot, chatID, adminID int64) {
	groups, err := b.DB.GetAdminGroups(adminID)
	if err != nil {
		zap.L().Error("Failed to load admin groups", zap.Int64(logger.FieldUserID, adminID), zap.Error(err))
		b.SendMessage(chatID, "❌ Ошибка при получении отчёта.", nil)
		return
	}

	if len(groups) == 0 {
		SendGroupReport(b, chatID, 0)
		return
	}

	for _, g := range groups {
		SendGroupReport(b, chatID, g.ChatID)
	}
}

// SendDailyReports pushes the morning report to every group admin.
func SendDailyReports(b *bot.Bot) {
	admins, err := b.DB.GetAllGroupAdmins()
	if err != nil {
		zap.L().Error("Failed to load group admins for daily reports", zap.Error(err))
		return
	}

	for _, ga := range admins {
		SendGroupReport(b, ga.AdminID, ga.ChatID)
	}
}
