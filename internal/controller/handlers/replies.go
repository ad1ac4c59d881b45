package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Freeeeeet/edu_platform/internal/controller/state"
	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/Freeeeeet/edu_platform/internal/service"
	"go.uber.org/zap"
)

const (
	historyLimit        = 5
	historyAnswerRunes  = 300
	maxMessageRunes     = 4096
	msgInternalError    = "❌ Произошла ошибка. Попробуйте позже."
	msgNotRegistered    = "❌ Пользователь не найден. Используйте /start для регистрации."
	msgChooseSubject    = "📚 Сначала выберите предмет: /subjects"
	msgNoSubjects       = "📭 У вас пока нет доступа ни к одному предмету."
	msgSubjectForbidden = "🔒 Нет доступа к этому предмету."
	msgUnsaved          = "⚠️ Ответ не сохранён в истории."
)

const helpText = "📚 Справка по командам:\n\n" +
	"/start - Начать работу с ботом\n" +
	"/subjects - Мои предметы, выбор предмета для чата\n" +
	"/history - Последние вопросы по выбранному предмету\n" +
	"/stop - Выйти из чата\n" +
	"/help - Показать эту справку\n\n" +
	"Выберите предмет в /subjects и просто пишите вопросы, ассистент ответит с учётом уроков."

// currentUser ищет пользователя по telegram ID. При неудаче отдаёт готовый ответ
func (h *Handlers) currentUser(ctx context.Context, telegramID int64) (*model.User, *reply) {
	user, err := h.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		h.logger.Error("Failed to get user", zap.Int64("telegram_id", telegramID), zap.Error(err))
		return nil, &reply{text: msgInternalError}
	}
	if user == nil {
		return nil, &reply{text: msgNotRegistered}
	}
	return user, nil
}

func (h *Handlers) startReply(ctx context.Context, telegramID int64, name string) reply {
	user, err := h.users.RegisterTelegramUser(ctx, telegramID, name)
	if err != nil {
		h.logger.Error("Failed to register user", zap.Int64("telegram_id", telegramID), zap.Error(err))
		return reply{text: "❌ Произошла ошибка при регистрации. Попробуйте позже."}
	}

	return reply{text: fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Это учебный ассистент. Выберите предмет и задавайте вопросы по урокам.\n\n"+
			"/subjects - Мои предметы\n"+
			"/help - Справка",
		user.DisplayName(),
	)}
}

func (h *Handlers) subjectsReply(ctx context.Context, telegramID int64) reply {
	user, fail := h.currentUser(ctx, telegramID)
	if fail != nil {
		return *fail
	}

	subjects, err := h.chat.GetStudentSubjects(ctx, user.ID)
	if err != nil {
		h.logger.Error("Failed to list student subjects", zap.Int64("user_id", user.ID), zap.Error(err))
		return reply{text: msgInternalError}
	}
	if len(subjects) == 0 {
		return reply{text: msgNoSubjects}
	}

	return reply{
		text:   "📚 Ваши предметы. Выберите, по какому задать вопрос:",
		markup: subjectsKeyboard(subjects),
	}
}

// selectSubjectReply входит в режим чата, если предмет сейчас доступен студенту
func (h *Handlers) selectSubjectReply(ctx context.Context, telegramID int64, data string) reply {
	subjectID, err := parseSubjectCallback(data)
	if err != nil {
		h.logger.Warn("Bad subject callback", zap.String("data", data), zap.Error(err))
		return reply{text: msgInternalError}
	}

	user, fail := h.currentUser(ctx, telegramID)
	if fail != nil {
		return *fail
	}

	subjects, err := h.chat.GetStudentSubjects(ctx, user.ID)
	if err != nil {
		h.logger.Error("Failed to list student subjects", zap.Int64("user_id", user.ID), zap.Error(err))
		return reply{text: msgInternalError}
	}

	for _, s := range subjects {
		if s.ID == subjectID {
			h.stateManager.StartChat(telegramID, s.ID, s.Name)
			return reply{text: fmt.Sprintf(
				"💬 Чат по предмету «%s».\n\nНапишите вопрос. /history - последние ответы, /stop - выйти.",
				s.Name,
			)}
		}
	}

	return reply{text: msgSubjectForbidden}
}

// questionReply отправляет вопрос ассистенту по выбранному предмету
func (h *Handlers) questionReply(ctx context.Context, telegramID int64, question string) reply {
	subjectID, _, ok := h.stateManager.ChatSubject(telegramID)
	if !ok {
		return reply{text: msgChooseSubject}
	}

	user, fail := h.currentUser(ctx, telegramID)
	if fail != nil {
		return *fail
	}

	result, err := h.chat.SendMessage(ctx, service.SendMessageInput{
		StudentID: user.ID,
		SubjectID: subjectID,
		Question:  question,
	})
	if err != nil {
		if errors.Is(err, service.ErrDenied) || errors.Is(err, service.ErrNotFound) {
			h.stateManager.ClearState(telegramID)
		}
		h.logger.Warn("Chat message failed",
			zap.Int64("user_id", user.ID),
			zap.Int64("subject_id", subjectID),
			zap.Error(err))
		return reply{text: chatErrorText(err)}
	}

	text := result.Answer
	if !result.Saved {
		text += "\n\n" + msgUnsaved
	}
	return reply{text: text}
}

func (h *Handlers) historyReply(ctx context.Context, telegramID int64) reply {
	subjectID, subjectName, ok := h.stateManager.ChatSubject(telegramID)
	if !ok {
		return reply{text: msgChooseSubject}
	}

	user, fail := h.currentUser(ctx, telegramID)
	if fail != nil {
		return *fail
	}

	turns, err := h.chat.RecentHistory(ctx, user.ID, subjectID, historyLimit)
	if err != nil {
		h.logger.Warn("Failed to load history", zap.Int64("user_id", user.ID), zap.Error(err))
		return reply{text: chatErrorText(err)}
	}

	return reply{text: formatHistory(subjectName, turns)}
}

func (h *Handlers) stopReply(telegramID int64) reply {
	if h.stateManager.GetState(telegramID) == state.StateNone {
		return reply{text: "❌ Нет активного чата."}
	}
	h.stateManager.ClearState(telegramID)
	return reply{text: "✅ Чат завершён.\n\nИспользуйте /subjects, чтобы выбрать предмет."}
}

func chatErrorText(err error) string {
	switch {
	case errors.Is(err, service.ErrValidation):
		return fmt.Sprintf("❌ Вопрос пустой или длиннее %d символов.", service.MaxQuestionRunes)
	case errors.Is(err, service.ErrDenied):
		return "🔒 Доступ к предмету закончился или отключён. /subjects"
	case errors.Is(err, service.ErrNotFound):
		return "❌ Предмет не найден. /subjects"
	case errors.Is(err, service.ErrUpstreamFailed):
		return "⏳ Ассистент сейчас недоступен. Попробуйте ещё раз чуть позже."
	default:
		return msgInternalError
	}
}

func formatHistory(subjectName string, turns []*model.ChatTurn) string {
	if len(turns) == 0 {
		return fmt.Sprintf("📭 По предмету «%s» ещё нет вопросов.", subjectName)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🕘 Последние вопросы по предмету «%s»:\n", subjectName)
	for _, t := range turns {
		answer := service.Excerpt(t.Answer, historyAnswerRunes)
		if answer != t.Answer {
			answer += "…"
		}
		fmt.Fprintf(&sb, "\n📅 %s\n❓ %s\n💬 %s\n", t.CreatedAt.Format("02.01.2006 15:04"), t.Question, answer)
	}
	return sb.String()
}

// splitMessage режет текст на куски не длиннее limit рун, по возможности по переводу строки
func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var parts []string
	runes := []rune(text)
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
