package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	from := update.Message.From
	name := strings.TrimSpace(from.FirstName + " " + from.LastName)
	if name == "" {
		name = from.Username
	}

	h.send(ctx, b, update.Message.Chat.ID, h.startReply(ctx, from.ID, name))
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.send(ctx, b, update.Message.Chat.ID, reply{text: helpText})
}

// HandleSubjects показывает предметы студента кнопками
func (h *Handlers) HandleSubjects(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	h.send(ctx, b, update.Message.Chat.ID, h.subjectsReply(ctx, update.Message.From.ID))
}

// HandleHistory показывает последние вопросы по выбранному предмету
func (h *Handlers) HandleHistory(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	h.send(ctx, b, update.Message.Chat.ID, h.historyReply(ctx, update.Message.From.ID))
}

// HandleStop выход из режима чата
func (h *Handlers) HandleStop(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	h.send(ctx, b, update.Message.Chat.ID, h.stopReply(update.Message.From.ID))
}

// HandleTextMessage в режиме чата любой текст считается вопросом
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	// Команды обрабатываются другими handlers
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	chatID := update.Message.Chat.ID
	if _, err := b.SendChatAction(ctx, &bot.SendChatActionParams{
		ChatID: chatID,
		Action: models.ChatActionTyping,
	}); err != nil {
		h.logger.Debug("Failed to send typing action", zap.Error(err))
	}

	h.send(ctx, b, chatID, h.questionReply(ctx, update.Message.From.ID, update.Message.Text))
}

// HandleCallbackQuery обрабатывает нажатия на inline кнопки
func (h *Handlers) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callback.ID,
	}); err != nil {
		h.logger.Debug("Failed to answer callback", zap.Error(err))
	}

	if !strings.HasPrefix(callback.Data, ChatSubjectPrefix) {
		h.logger.Warn("Unknown callback", zap.String("data", callback.Data))
		return
	}

	msg := callback.Message.Message
	if msg == nil {
		return
	}

	h.send(ctx, b, msg.Chat.ID, h.selectSubjectReply(ctx, callback.From.ID, callback.Data))
}

// send отправляет ответ, длинный текст уходит несколькими сообщениями
func (h *Handlers) send(ctx context.Context, b *bot.Bot, chatID int64, r reply) {
	parts := splitMessage(r.text, maxMessageRunes)
	for i, part := range parts {
		params := &bot.SendMessageParams{
			ChatID: chatID,
			Text:   part,
		}
		if i == len(parts)-1 && r.markup != nil {
			params.ReplyMarkup = r.markup
		}

		if _, err := b.SendMessage(ctx, params); err != nil {
			h.logger.Error("Failed to send message",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
			return
		}
	}
}
