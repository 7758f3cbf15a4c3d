package bot

import (
	"fmt"
	"strconv"
	"strings"

	"attendance-bot/internal/absence"
	"attendance-bot/internal/database"
	"attendance-bot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// AccessConfig carries the privileged identity lists supplied at process
// start. Super-admins can issue activation keys and prune group admins;
// the allowed list gates a handful of private-chat commands.
type AccessConfig struct {
	SuperAdminIDs  []int64
	AllowedUserIDs []int64
}

func (c AccessConfig) IsSuperAdmin(userID int64) bool {
	for _, id := range c.SuperAdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (c AccessConfig) IsAllowed(userID int64) bool {
	for _, id := range c.AllowedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// ParseIDList parses a comma-separated list of numeric user IDs.
func ParseIDList(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

type Bot struct {
	API    *tgbotapi.BotAPI
	DB     *database.DB
	Access AccessConfig
	Engine *absence.Engine
}

func New(token string, db *database.DB, access AccessConfig) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	zap.L().Info("Authorized on account", zap.String("username", api.Self.UserName))

	b := &Bot{
		API:    api,
		DB:     db,
		Access: access,
	}
	b.Engine = absence.NewEngine(db, b)

	return b, nil
}

func (b *Bot) SendMessage(chatID int64, text string, replyMarkup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if replyMarkup != nil {
		msg.ReplyMarkup = replyMarkup
	}

	_, err := b.API.Send(msg)
	return err
}

func (b *Bot) SendMessageWithMarkdown(chatID int64, text string, replyMarkup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if replyMarkup != nil {
		msg.ReplyMarkup = replyMarkup
	}

	_, err := b.API.Send(msg)
	return err
}

func (b *Bot) ReplyTo(message *tgbotapi.Message, text string) error {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyToMessageID = message.MessageID

	_, err := b.API.Send(msg)
	return err
}

func (b *Bot) EditMessage(chatID int64, messageID int, text string, replyMarkup interface{}) error {
	msg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if replyMarkup != nil {
		if markup, ok := replyMarkup.(*tgbotapi.InlineKeyboardMarkup); ok {
			msg.ReplyMarkup = markup
		}
	}

	_, err := b.API.Send(msg)
	return err
}

func (b *Bot) AnswerCallbackQuery(callbackID string, text string) error {
	callback := tgbotapi.NewCallback(callbackID, text)
	_, err := b.API.Request(callback)
	return err
}

// SendExitPrompt delivers the private "press when you are back" message for
// a standing absence and returns its message handle. Implements
// absence.Notifier.
func (b *Bot) SendExitPrompt(userID int64, label models.ReasonCode) (int, error) {
	msg := tgbotapi.NewMessage(userID, fmt.Sprintf(
		"📢 Вы отмечены как отсутствующий:\n\n%s\n\n"+
			"Нажмите кнопку ниже, когда вернётесь/выздоровеете.",
		label.Label()))
	msg.ReplyMarkup = b.ExitAbsenceKeyboard()

	sent, err := b.API.Send(msg)
	if err != nil {
		return 0, err
	}

	return sent.MessageID, nil
}
