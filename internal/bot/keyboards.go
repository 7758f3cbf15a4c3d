package bot

import (
	"fmt"

	"attendance-bot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Reply-keyboard button texts. Handlers match inbound messages against
// these exact strings.
const (
	BtnAbsent       = "❌ Отсутствую"
	BtnReport       = "📊 Получить отчёт"
	BtnRegister     = "📝 Регистрация"
	BtnInfo         = "ℹ️ Информация"
	BtnStandingList = "📋 Текущие болеющие/в отпуске"
	BtnRemoveAdmin  = "🗑️ Удалить админа из группы"
)

// Callback-data prefixes.
const (
	CallbackReasonPrefix  = "reason:"
	CallbackApprovePrefix = "approve:"
	CallbackExitAbsence   = "exit_absence"
)

func ReasonCallback(code models.ReasonCode) string {
	return CallbackReasonPrefix + string(code)
}

func ApproveCallback(decision string, pendingID int64) string {
	return fmt.Sprintf("%s%s:%d", CallbackApprovePrefix, decision, pendingID)
}

// AttendanceKeyboard is the persistent group keyboard.
func (b *Bot) AttendanceKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnAbsent)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnReport)),
	)
	kb.ResizeKeyboard = true
	return kb
}

// PrivateKeyboard is shown to plain users in a private chat.
func (b *Bot) PrivateKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnReport),
			tgbotapi.NewKeyboardButton(BtnRegister),
		),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnInfo)),
	)
	kb.ResizeKeyboard = true
	return kb
}

// AdminKeyboard extends the private keyboard; super-admins additionally get
// the group-admin removal button.
func (b *Bot) AdminKeyboard(userID int64) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnReport),
			tgbotapi.NewKeyboardButton(BtnRegister),
		),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnInfo)),
	}

	if b.Access.IsSuperAdmin(userID) {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnRemoveAdmin)))
	}

	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

// ReasonKeyboard offers the predefined absence reasons plus "other" and
// cancel.
func (b *Bot) ReasonKeyboard() tgbotapi.InlineKeyboardMarkup {
	btn := func(code models.ReasonCode) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(code.Label(), ReasonCallback(code))
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn(models.ReasonSick), btn(models.ReasonOrder)),
		tgbotapi.NewInlineKeyboardRow(btn(models.ReasonDormDuty), btn(models.ReasonCollegeDuty)),
		tgbotapi.NewInlineKeyboardRow(btn(models.ReasonEnlistment), btn(models.ReasonVacation)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Другое", ReasonCallback(models.ReasonOther)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", ReasonCallback(models.ReasonCancel)),
		),
	)
}

func (b *Bot) CancelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", ReasonCallback(models.ReasonCancel)),
		),
	)
}

func (b *Bot) ExitAbsenceKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚪 Выхожу", CallbackExitAbsence),
		),
	)
}

// DecisionKeyboard is attached to the approval request sent to group
// admins.
func (b *Bot) DecisionKeyboard(pendingID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Уважительно", ApproveCallback("excused", pendingID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Неуважительно", ApproveCallback("unexcused", pendingID)),
		),
	)
}
