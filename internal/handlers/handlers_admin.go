package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"attendance-bot/internal/bot"
	"attendance-bot/internal/models"
	"attendance-bot/internal/report"
	"attendance-bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleCommand dispatches slash commands for both chat kinds.
func HandleCommand(b *bot.Bot, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		HandleStart(b, message)
	case "help":
		handleHelp(b, message)
	case "keyboard":
		if isGroupChat(message.Chat) {
			b.SendMessage(message.Chat.ID, "🎯 Панель кнопок:", b.AttendanceKeyboard())
		}
	case "list":
		if isGroupChat(message.Chat) {
			SendGroupReport(b, message.Chat.ID, message.Chat.ID)
		}
	case "report":
		handleReportCommand(b, message)
	case "start_bind", "bind_group":
		handleBindGroup(b, message)
	case "gen_key":
		handleGenKey(b, message)
	case "activate_key":
		handleActivateKey(b, message)
	case "set_fio":
		handleSetFIO(b, message)
	case "delete":
		handleDeleteAbsence(b, message)
	case "update_group_name":
		handleUpdateGroupName(b, message)
	default:
		if message.Chat.IsPrivate() {
			b.SendMessage(message.Chat.ID, "Неизвестная команда. Используйте /start", nil)
		}
	}
}

// privateHelpAllowed gates /help in private chats to the allowed list.
func privateHelpAllowed(b *bot.Bot, userID int64) bool {
	return b.Access.IsAllowed(userID)
}

func handleHelp(b *bot.Bot, message *tgbotapi.Message) {
	if message.Chat.IsPrivate() {
		if !privateHelpAllowed(b, message.From.ID) {
			b.ReplyTo(message, "⛔ Доступ запрещен")
			return
		}
		HandleStart(b, message)
		return
	}

	b.SendMessageWithMarkdown(message.Chat.ID,
		"ℹ️ **Помощь по боту:**\n\n"+
			"📝 *Как отметить отсутствие:*\n"+
			"1. Нажмите кнопку '❌ Отсутствую'\n"+
			"2. Выберите причину из списка\n"+
			"3. Готово! Вы в списке\n\n"+
			"📊 *Команды:*\n"+
			"/keyboard - показать кнопки\n"+
			"/list - список отсутствующих\n"+
			"/help - эта справка", nil)
}

func handleReportCommand(b *bot.Bot, message *tgbotapi.Message) {
	if !message.Chat.IsPrivate() {
		SendGroupReport(b, message.Chat.ID, message.Chat.ID)
		return
	}

	adminID := message.From.ID
	groups, err := b.DB.GetAdminGroups(adminID)
	if err != nil {
		zap.L().Error("Failed to load admin groups", zap.Int64(logger.FieldUserID, adminID), zap.Error(err))
		b.SendMessage(message.Chat.ID, "❌ Ошибка при получении отчёта.", nil)
		return
	}

	if len(groups) == 0 {
		b.SendMessage(message.Chat.ID, "ℹ️ Вы не привязаны ни к одной группе как администратор", nil)
		return
	}

	for _, g := range groups {
		SendGroupReport(b, message.Chat.ID, g.ChatID)
	}
}

// HandleNewChatMembers greets the chat when the bot itself is added.
func HandleNewChatMembers(b *bot.Bot, message *tgbotapi.Message) {
	for _, member := range message.NewChatMembers {
		if member.ID != b.API.Self.ID {
			continue
		}
		b.SendMessage(message.Chat.ID,
			"👋 Привет! Я бот для учёта посещаемости.\n\n"+
				"Перед началом работы каждому участнику (особенно будущему администратору группы) "+
				"нужно один раз нажать /start в личных сообщениях с ботом и написать любое сообщение в чат.\n\n"+
				"Чтобы привязать бота, выполните команду:\n"+
				"/start_bind [название группы]\n\n"+
				"Пример: /start_bind Группа 101", nil)
		return
	}
}

func handleBindGroup(b *bot.Bot, message *tgbotapi.Message) {
	if !isGroupChat(message.Chat) {
		b.ReplyTo(message, "⛔ Эта команда доступна только в группах")
		return
	}

	userID := message.From.ID
	chatID := message.Chat.ID

	groupName := strings.TrimSpace(message.CommandArguments())
	if groupName == "" {
		b.ReplyTo(message,
			"❌ Неверный формат команды\n\n✅ Правильно:\n/start_bind [название группы]\n\nПример:\n/start_bind Группа 101")
		return
	}

	member, err := b.API.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: chatID, UserID: userID},
	})
	if err != nil {
		zap.L().Error("Failed to check chat member", zap.Int64(logger.FieldChatID, chatID), zap.Error(err))
		b.ReplyTo(message, "❌ Ошибка проверки прав администратора")
		return
	}
	if !member.IsAdministrator() && !member.IsCreator() {
		b.ReplyTo(message, "⛔ Только администраторы группы могут использовать эту команду")
		return
	}

	if err := b.DB.AddPendingBind(chatID, userID, groupName); err != nil {
		zap.L().Error("Failed to save bind request", zap.Int64(logger.FieldChatID, chatID), zap.Error(err))
		b.ReplyTo(message, "❌ Ошибка обработки запроса")
		return
	}

	zap.L().Info("Group bind requested",
		zap.Int64(logger.FieldChatID, chatID),
		zap.Int64(logger.FieldUserID, userID),
		zap.String("group_name", groupName))

	username := message.From.UserName
	if username == "" {
		username = fmt.Sprintf("ID: %d", userID)
	}
	text := fmt.Sprintf(
		"📢 Новый запрос на привязку группы:\n\n"+
			"👤 Запросил: @%s (ID: %d)\n💬 Группа: %s\n🆔 ID группы: %d\n\n"+
			"Для подтверждения используйте команду /gen_key %d @%s",
		username, userID, groupName, chatID, chatID, username)
	if err := notifyAdmins(b, b.Access.SuperAdminIDs, text, nil); err != nil {
		zap.L().Warn("Bind request fan-out incomplete", zap.Error(err))
	}

	b.ReplyTo(message, fmt.Sprintf(
		"✅ Запрос на привязку группы '%s' отправлен администраторам бота.\nОжидайте подтверждения в личных сообщениях.",
		groupName))
}

func handleGenKey(b *bot.Bot, message *tgbotapi.Message) {
	if !message.Chat.IsPrivate() {
		b.ReplyTo(message, "⛔ Эта команда доступна только в личных сообщениях")
		return
	}
	if !b.Access.IsSuperAdmin(message.From.ID) {
		b.ReplyTo(message, "⛔ Только супер-администраторы могут генерировать ключи")
		return
	}

	parts := strings.Fields(message.CommandArguments())
	if len(parts) < 2 {
		b.ReplyTo(message,
			"❌ Неверный формат команды\n\n✅ Правильно:\n/gen_key <ID_группы> <@username_админа>\n\nПример:\n/gen_key -123456789 @admin_user")
		return
	}

	chatID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		b.ReplyTo(message, "❌ ID группы должен быть числом")
		return
	}

	targetUsername := strings.TrimPrefix(parts[1], "@")
	targetUserID, err := b.DB.GetUserIDByUsername(targetUsername)
	if err != nil {
		zap.L().Error("Failed to resolve username", zap.String("username", targetUsername), zap.Error(err))
		b.ReplyTo(message, "❌ Ошибка генерации ключа")
		return
	}
	if targetUserID == 0 {
		b.ReplyTo(message, fmt.Sprintf("❌ Пользователь @%s не найден в базе", targetUsername))
		return
	}

	key := uuid.NewString()
	if err := b.DB.CreateActivationKey(key, chatID, targetUserID); err != nil {
		zap.L().Error("Failed to create activation key", zap.Int64(logger.FieldChatID, chatID), zap.Error(err))
		b.ReplyTo(message, "❌ Ошибка генерации ключа")
		return
	}

	zap.L().Info("Activation key issued",
		zap.Int64(logger.FieldChatID, chatID),
		zap.Int64(logger.FieldUserID, targetUserID))

	err = b.SendMessage(targetUserID, fmt.Sprintf(
		"🔑 Ключ активации для группы %d:\n\n%s\n\nДля активации введите команду:\n/activate_key %s",
		chatID, key, key), nil)
	if err != nil {
		zap.L().Warn("Failed to deliver activation key",
			zap.Int64(logger.FieldUserID, targetUserID), zap.Error(err))
		b.ReplyTo(message, fmt.Sprintf("❌ Не удалось отправить ключ пользователю @%s", targetUsername))
		return
	}

	b.ReplyTo(message, fmt.Sprintf("✅ Ключ активации для @%s успешно сгенерирован и отправлен", targetUsername))
}

var (
	errKeyInvalid   = errors.New("activation key invalid")
	errKeyWrongUser = errors.New("activation key for another user")
	errKeyUsed      = errors.New("activation key already used")
)

// activationStore is the slice of the gateway the key-redemption flow
// needs.
type activationStore interface {
	GetActivationKey(key string) (*models.ActivationKey, error)
	RedeemActivationKey(key string) (bool, error)
	GetLatestBindName(chatID int64) (string, error)
	UpsertGroup(chatID int64, name string, verified bool) error
	AddGroupAdmin(chatID, adminID int64) error
}

// activateKey redeems a single-use key for userID and elevates them to
// admin of the bound group. Returns the group name and chat ID on
// success.
func activateKey(store activationStore, userID int64, key string) (string, int64, error) {
	info, err := store.GetActivationKey(key)
	if err != nil {
		return "", 0, fmt.Errorf("failed to look up activation key: %w", err)
	}
	if info == nil {
		return "", 0, errKeyInvalid
	}
	if info.TargetAdminID != userID {
		return "", 0, errKeyWrongUser
	}

	redeemed, err := store.RedeemActivationKey(key)
	if err != nil {
		return "", 0, fmt.Errorf("failed to redeem activation key: %w", err)
	}
	if !redeemed {
		return "", 0, errKeyUsed
	}

	// The name supplied with /start_bind wins over whatever Telegram
	// reports for the chat.
	groupName, err := store.GetLatestBindName(info.ChatID)
	if err != nil {
		zap.L().Warn("Failed to look up bind name", zap.Int64(logger.FieldChatID, info.ChatID), zap.Error(err))
	}
	if groupName == "" {
		groupName = "название группы не указано"
	}

	if err := store.UpsertGroup(info.ChatID, groupName, true); err != nil {
		return "", 0, fmt.Errorf("failed to verify group: %w", err)
	}
	if err := store.AddGroupAdmin(info.ChatID, userID); err != nil {
		return "", 0, fmt.Errorf("failed to add group admin: %w", err)
	}

	return groupName, info.ChatID, nil
}

func handleActivateKey(b *bot.Bot, message *tgbotapi.Message) {
	if !message.Chat.IsPrivate() {
		b.ReplyTo(message, "⛔ Эта команда доступна только в личных сообщениях")
		return
	}

	userID := message.From.ID
	key := strings.TrimSpace(message.CommandArguments())
	if key == "" {
		b.ReplyTo(message,
			"❌ Неверный формат команды\n\n✅ Правильно:\n/activate_key <ключ_активации>")
		return
	}

	groupName, chatID, err := activateKey(b.DB, userID, key)
	switch {
	case errors.Is(err, errKeyInvalid):
		b.ReplyTo(message, "❌ Неверный ключ активации")
		return
	case errors.Is(err, errKeyWrongUser):
		b.ReplyTo(message, "⛔ Этот ключ не предназначен для вас")
		return
	case errors.Is(err, errKeyUsed):
		b.ReplyTo(message, "❌ Этот ключ уже был использован")
		return
	case err != nil:
		zap.L().Error("Failed to activate key", zap.Int64(logger.FieldUserID, userID), zap.Error(err))
		b.ReplyTo(message, "❌ Ошибка активации ключа")
		return
	}

	zap.L().Info("Activation key redeemed",
		zap.Int64(logger.FieldChatID, chatID),
		zap.Int64(logger.FieldUserID, userID))

	b.ReplyTo(message, fmt.Sprintf(
		"✅ Вы успешно активированы как администратор!\n\n💬 Группа: %s\n🆔 ID группы: %d\n\n"+
			"Теперь вы можете управлять отметками в этой группе.",
		groupName, chatID))

	username := message.From.UserName
	if username == "" {
		username = fmt.Sprintf("%d", userID)
	}
	text := fmt.Sprintf(
		"📢 Ключ активации использован:\n\n👤 Активировал: @%s\n💬 Группа: %s\n🆔 ID группы: %d",
		username, groupName, chatID)
	if err := notifyAdmins(b, b.Access.SuperAdminIDs, text, nil); err != nil {
		zap.L().Warn("Activation fan-out incomplete", zap.Error(err))
	}
}

func handleSetFIO(b *bot.Bot, message *tgbotapi.Message) {
	if !message.Chat.IsPrivate() {
		return
	}

	userID := message.From.ID
	adminGroups, _ := b.DB.GetAdminGroups(userID)
	if !b.Access.IsAllowed(userID) && len(adminGroups) == 0 {
		b.ReplyTo(message, "⛔ У вас нет прав для регистрации пользователей")
		return
	}

	parts := strings.SplitN(strings.TrimSpace(message.CommandArguments()), " ", 2)
	if len(parts) < 2 {
		b.ReplyTo(message,
			"❌ Неверный формат!\n\n✅ Правильно:\n"+
				"• /set_fio @username Фамилия Имя\n"+
				"• /set_fio 123456789 Фамилия Имя\n\n"+
				"Для username пользователь должен сначала написать в группе.")
		return
	}

	target := strings.TrimPrefix(parts[0], "@")
	fullName := strings.TrimSpace(parts[1])

	var targetUserID int64
	if id, err := strconv.ParseInt(target, 10, 64); err == nil {
		targetUserID = id
	} else {
		targetUserID, err = b.DB.GetUserIDByUsername(target)
		if err != nil {
			zap.L().Error("Failed to resolve username", zap.String("username", target), zap.Error(err))
			b.ReplyTo(message, "❌ Ошибка регистрации")
			return
		}
		if targetUserID == 0 {
			b.ReplyTo(message, fmt.Sprintf(
				"❌ Пользователь @%s не найден.\n\nПользователь должен сначала написать любое сообщение в группе с ботом.",
				target))
			return
		}
	}

	if err := b.DB.RegisterUser(targetUserID, fullName); err != nil {
		zap.L().Error("Failed to register user", zap.Int64(logger.FieldUserID, targetUserID), zap.Error(err))
		b.ReplyTo(message, "❌ Ошибка регистрации")
		return
	}

	b.ReplyTo(message, fmt.Sprintf("✅ Зарегистрирован: %s (ID: %d)", fullName, targetUserID))
}

func handleDeleteAbsence(b *bot.Bot, message *tgbotapi.Message) {
	userID := message.From.ID
	if !b.Access.IsAllowed(userID) {
		b.ReplyTo(message, "⛔ Доступ запрещен. Эта команда доступна только администраторам.")
		return
	}

	target := strings.TrimPrefix(strings.TrimSpace(message.CommandArguments()), "@")
	if target == "" {
		b.ReplyTo(message,
			"❌ Неверный формат!\n\n✅ Правильно:\n• /delete @username\n\n"+
				"Удалит отсутствие пользователя из списка отсутствующих на сегодня.")
		return
	}

	targetUserID, err := b.DB.GetUserIDByUsername(target)
	if err != nil {
		zap.L().Error("Failed to resolve username", zap.String("username", target), zap.Error(err))
		b.ReplyTo(message, "❌ Ошибка удаления")
		return
	}
	if targetUserID == 0 {
		b.ReplyTo(message, fmt.Sprintf(
			"❌ Пользователь @%s не найден.\n\nПользователь должен сначала написать любое сообщение в группе с ботом.",
			target))
		return
	}

	if err := b.DB.DeleteDayAbsences(targetUserID, b.Engine.Today()); err != nil {
		zap.L().Error("Failed to delete absences", zap.Int64(logger.FieldUserID, targetUserID), zap.Error(err))
		b.ReplyTo(message, "❌ Ошибка удаления")
		return
	}
	if err := b.DB.DeleteStandingAbsence(targetUserID); err != nil {
		zap.L().Warn("Failed to delete standing absence",
			zap.Int64(logger.FieldUserID, targetUserID), zap.Error(err))
	}

	b.ReplyTo(message, fmt.Sprintf(
		"✅ Отсутствие удалено!\n\n👤 %s (@%s)\nудален из списка отсутствующих на сегодня.",
		displayName(b, targetUserID), target))
}

func handleUpdateGroupName(b *bot.Bot, message *tgbotapi.Message) {
	if !b.Access.IsSuperAdmin(message.From.ID) {
		b.ReplyTo(message, "⛔ Доступ запрещен. Эта команда доступна только супер-администраторам.")
		return
	}

	parts := strings.SplitN(strings.TrimSpace(message.CommandArguments()), " ", 2)
	if len(parts) < 2 {
		b.ReplyTo(message,
			"❌ Неверный формат!\n\n✅ Правильно:\n• /update_group_name <ID_группы> <новое_название>")
		return
	}

	chatID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		b.ReplyTo(message, "❌ ID группы должен быть числом")
		return
	}
	newName := strings.TrimSpace(parts[1])

	if err := b.DB.UpdateGroupName(chatID, newName); err != nil {
		zap.L().Error("Failed to update group name", zap.Int64(logger.FieldChatID, chatID), zap.Error(err))
		b.ReplyTo(message, "❌ Ошибка обновления названия группы")
		return
	}

	b.ReplyTo(message, fmt.Sprintf(
		"✅ Название группы обновлено!\n\n📋 ID группы: %d\n📝 Новое название: %s", chatID, newName))
}

// Private-chat buttons

func handleRegisterButton(b *bot.Bot, message *tgbotapi.Message) {
	userID := message.From.ID
	adminGroups, _ := b.DB.GetAdminGroups(userID)
	if !b.Access.IsAllowed(userID) && len(adminGroups) == 0 {
		b.ReplyTo(message, "⛔ У вас нет прав для регистрации пользователей")
		return
	}

	b.SendMessageWithMarkdown(message.Chat.ID,
		"📝 **Регистрация участников**\n\n"+
			"Используйте команду для регистрации:\n"+
			"`/set_fio @username ФИО`\n\n"+
			"Примеры:\n"+
			"`/set_fio @ivanov Иванов Иван`\n"+
			"`/set_fio 1424283030 Иванов Иван`", nil)
}

func handleInfoButton(b *bot.Bot, message *tgbotapi.Message) {
	userID := message.From.ID
	adminGroups, err := b.DB.GetAdminGroups(userID)
	if err != nil {
		zap.L().Warn("Failed to load admin groups", zap.Int64(logger.FieldUserID, userID), zap.Error(err))
	}

	if !b.Access.IsAllowed(userID) && len(adminGroups) == 0 {
		b.ReplyTo(message, "⛔ Доступ запрещен")
		return
	}

	if len(adminGroups) == 0 {
		b.SendMessageWithMarkdown(message.Chat.ID,
			"ℹ️ **Справка для супер-администратора**\n\n"+
				"Вам доступны все функции управления ботом.", nil)
		return
	}

	var names []string
	for _, g := range adminGroups {
		names = append(names, "• "+g.Name)
	}

	b.SendMessageWithMarkdown(message.Chat.ID,
		"ℹ️ **Инструкция для администратора группы**\n\n"+
			"1️⃣ **Регистрация участников**\n"+
			"`/set_fio @username ФИО`\n\n"+
			"2️⃣ **Отчёт по отсутствиям**\n"+
			"Кнопка 'Получить отчёт' или /report\n\n"+
			"3️⃣ **Подтверждение причин**\n"+
			"Когда участник указывает причину 'Другое', вы получите запрос: уважительная или неуважительная\n\n"+
			"4️⃣ **Типы отсутствий**\n"+
			"Все причины из списка — уважительные; 'Другое' решаете вы\n\n"+
			"📋 **Ваши группы:**\n"+strings.Join(names, "\n"), nil)
}

func handleStandingListButton(b *bot.Bot, message *tgbotapi.Message) {
	if !b.Access.IsAllowed(message.From.ID) {
		b.ReplyTo(message, "⛔ Доступ запрещен")
		return
	}

	rows, err := b.DB.GetAllStandingAbsences()
	if err != nil {
		zap.L().Error("Failed to list standing absences", zap.Error(err))
		b.ReplyTo(message, "❌ Ошибка при получении списка")
		return
	}
	if len(rows) == 0 {
		b.SendMessage(message.Chat.ID, "✅ Нет активных отсутствий (Болею/Отпуск)", nil)
		return
	}

	var sb strings.Builder
	sb.WriteString("📋 **Текущие отсутствующие (Болею/Отпуск):**\n\n")
	for _, r := range rows {
		label := models.ReasonCode(r.Reason).Label()
		if label == "" {
			label = r.Reason
		}
		fmt.Fprintf(&sb, "• %s - %s\n", report.DisplayName(r.FullName, r.UserID), label)
	}

	b.SendMessageWithMarkdown(message.Chat.ID, sb.String(), nil)
}

// Group-admin removal flow (super-admins only).

type adminRemovalData struct {
	Admins []models.GroupAdmin `json:"admins"`
}

func handleRemoveAdminButton(b *bot.Bot, message *tgbotapi.Message) {
	userID := message.From.ID
	if !b.Access.IsSuperAdmin(userID) {
		b.ReplyTo(message, "⛔ Эта функция доступна только супер-администраторам")
		return
	}

	admins, err := b.DB.GetAllGroupAdmins()
	if err != nil {
		zap.L().Error("Failed to list group admins", zap.Error(err))
		b.ReplyTo(message, "❌ Ошибка при получении списка администраторов")
		return
	}
	if len(admins) == 0 {
		b.SendMessage(message.Chat.ID, "ℹ️ Нет администраторов групп для удаления", nil)
		return
	}

	var sb strings.Builder
	sb.WriteString("🗑️ Администраторы групп:\n\n")
	for i, ga := range admins {
		fmt.Fprintf(&sb, "%d. %s - %s (ID: %d)\n",
			i+1, ga.GroupName, displayName(b, ga.AdminID), ga.AdminID)
	}
	fmt.Fprintf(&sb, "\n📝 Введите номер администратора для удаления (1-%d):", len(admins))

	data, err := json.Marshal(adminRemovalData{Admins: admins})
	if err != nil {
		zap.L().Error("Failed to marshal removal list", zap.Error(err))
		return
	}
	if err := b.DB.SetUserState(userID, models.StateAwaitingAdminRemovalChoice, data); err != nil {
		zap.L().Error("Failed to set state", zap.Int64(logger.FieldUserID, userID), zap.Error(err))
		return
	}

	b.SendMessage(message.Chat.ID, sb.String(), nil)
}

// handleAdminRemovalChoice consumes the numeric selection. An invalid
// selection reports the error and keeps the state so the user can retry.
func handleAdminRemovalChoice(b *bot.Bot, message *tgbotapi.Message, state *models.UserState) {
	userID := message.From.ID

	var data adminRemovalData
	if err := json.Unmarshal(state.Data, &data); err != nil || len(data.Admins) == 0 {
		b.DB.ClearUserState(userID)
		b.ReplyTo(message, "❌ Сессия истекла. Используйте кнопку заново.")
		return
	}

	choice, err := strconv.Atoi(strings.TrimSpace(message.Text))
	if err != nil {
		b.ReplyTo(message, "❌ Введите номер (цифру)")
		return
	}
	if choice < 1 || choice > len(data.Admins) {
		b.ReplyTo(message, fmt.Sprintf("❌ Выберите номер от 1 до %d", len(data.Admins)))
		return
	}

	ga := data.Admins[choice-1]
	if err := b.DB.RemoveGroupAdmin(ga.ChatID, ga.AdminID); err != nil {
		zap.L().Error("Failed to remove group admin",
			zap.Int64(logger.FieldGroupID, ga.ChatID),
			zap.Int64(logger.FieldUserID, ga.AdminID), zap.Error(err))
		b.ReplyTo(message, "❌ Ошибка при удалении администратора")
		return
	}
	b.DB.ClearUserState(userID)

	zap.L().Info("Group admin removed",
		zap.Int64(logger.FieldGroupID, ga.ChatID),
		zap.Int64(logger.FieldUserID, ga.AdminID))

	b.SendMessage(message.Chat.ID, fmt.Sprintf(
		"✅ Администратор удален!\n\n📋 Группа: %s\n👤 Администратор: %s",
		ga.GroupName, displayName(b, ga.AdminID)), nil)
}
