package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/Freeeeeet/edu_platform/internal/controller/state"
	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/Freeeeeet/edu_platform/internal/service"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAccounts struct {
	byTelegram map[int64]*model.User
	err        error
}

func (f *fakeAccounts) RegisterTelegramUser(_ context.Context, telegramID int64, name string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u := &model.User{ID: telegramID * 10, Name: &name, Role: model.RoleUser}
	f.byTelegram[telegramID] = u
	return u, nil
}

func (f *fakeAccounts) GetByTelegramID(_ context.Context, telegramID int64) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byTelegram[telegramID], nil
}

type fakeChat struct {
	subjects []*model.Subject
	result   *service.ChatResult
	sendErr  error
	turns    []*model.ChatTurn
	sent     []service.SendMessageInput
	limit    int
}

func (f *fakeChat) SendMessage(_ context.Context, in service.SendMessageInput) (*service.ChatResult, error) {
	f.sent = append(f.sent, in)
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return f.result, nil
}

func (f *fakeChat) RecentHistory(_ context.Context, _, _ int64, limit int) ([]*model.ChatTurn, error) {
	f.limit = limit
	return f.turns, nil
}

func (f *fakeChat) GetStudentSubjects(context.Context, int64) ([]*model.Subject, error) {
	return f.subjects, nil
}

type botFixture struct {
	chat  *fakeChat
	users *fakeAccounts
	sm    *state.Manager
	h     *Handlers
}

func newBotFixture() *botFixture {
	name := "Мария"
	f := &botFixture{
		chat: &fakeChat{
			subjects: []*model.Subject{{ID: 10, Name: "Арабский"}, {ID: 11, Name: "Таджвид"}},
			result:   &service.ChatResult{Question: "q", Answer: "ответ", Saved: true},
		},
		users: &fakeAccounts{byTelegram: map[int64]*model.User{500: {ID: 5, Name: &name}}},
		sm:    state.NewManager(),
	}
	f.h = NewHandlers(f.chat, f.users, f.sm, zap.NewNop())
	return f
}

func TestStartReply_RegistersUser(t *testing.T) {
	f := newBotFixture()

	r := f.h.startReply(context.Background(), 700, "Али")
	assert.Contains(t, r.text, "Привет, Али")
	assert.Contains(t, f.users.byTelegram, int64(700))

	f.users.err = errors.New("db down")
	r = f.h.startReply(context.Background(), 701, "x")
	assert.Contains(t, r.text, "ошибка при регистрации")
}

func TestSubjectsReply_ButtonsPerSubject(t *testing.T) {
	f := newBotFixture()

	r := f.h.subjectsReply(context.Background(), 500)
	kb, ok := r.markup.(*models.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, "chat_subject:10", kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "chat_subject:11", kb.InlineKeyboard[1][0].CallbackData)

	f.chat.subjects = nil
	r = f.h.subjectsReply(context.Background(), 500)
	assert.Equal(t, msgNoSubjects, r.text)
	assert.Nil(t, r.markup)
}

func TestSubjectsReply_UnknownUser(t *testing.T) {
	f := newBotFixture()

	r := f.h.subjectsReply(context.Background(), 999)
	assert.Equal(t, msgNotRegistered, r.text)
}

func TestSelectSubject_EntersChatMode(t *testing.T) {
	f := newBotFixture()

	r := f.h.selectSubjectReply(context.Background(), 500, "chat_subject:11")
	assert.Contains(t, r.text, "Таджвид")

	id, name, ok := f.sm.ChatSubject(500)
	require.True(t, ok)
	assert.Equal(t, int64(11), id)
	assert.Equal(t, "Таджвид", name)
}

func TestSelectSubject_NotGranted(t *testing.T) {
	f := newBotFixture()

	r := f.h.selectSubjectReply(context.Background(), 500, "chat_subject:99")
	assert.Equal(t, msgSubjectForbidden, r.text)
	assert.Equal(t, state.StateNone, f.sm.GetState(500))
}

func TestQuestionReply(t *testing.T) {
	t.Run("without subject", func(t *testing.T) {
		f := newBotFixture()
		r := f.h.questionReply(context.Background(), 500, "что такое харакат?")
		assert.Equal(t, msgChooseSubject, r.text)
		assert.Empty(t, f.chat.sent)
	})

	t.Run("answered", func(t *testing.T) {
		f := newBotFixture()
		f.sm.StartChat(500, 10, "Арабский")

		r := f.h.questionReply(context.Background(), 500, "что такое харакат?")
		assert.Equal(t, "ответ", r.text)
		require.Len(t, f.chat.sent, 1)
		assert.Equal(t, service.SendMessageInput{StudentID: 5, SubjectID: 10, Question: "что такое харакат?"}, f.chat.sent[0])
	})

	t.Run("unsaved answer is flagged", func(t *testing.T) {
		f := newBotFixture()
		f.sm.StartChat(500, 10, "Арабский")
		f.chat.result = &service.ChatResult{Answer: "ответ", Saved: false}

		r := f.h.questionReply(context.Background(), 500, "q")
		assert.True(t, strings.HasPrefix(r.text, "ответ"))
		assert.Contains(t, r.text, msgUnsaved)
	})

	t.Run("denied leaves chat mode", func(t *testing.T) {
		f := newBotFixture()
		f.sm.StartChat(500, 10, "Арабский")
		f.chat.sendErr = fmt.Errorf("student 5, subject 10: %w", service.ErrDenied)

		r := f.h.questionReply(context.Background(), 500, "q")
		assert.Contains(t, r.text, "Доступ")
		assert.Equal(t, state.StateNone, f.sm.GetState(500))
	})

	t.Run("upstream failure keeps chat mode", func(t *testing.T) {
		f := newBotFixture()
		f.sm.StartChat(500, 10, "Арабский")
		f.chat.sendErr = fmt.Errorf("%w: timeout", service.ErrUpstreamFailed)

		r := f.h.questionReply(context.Background(), 500, "q")
		assert.Contains(t, r.text, "недоступен")
		assert.Equal(t, state.StateChatting, f.sm.GetState(500))
	})
}

func TestChatErrorText(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&service.ValidationError{Fields: map[string]string{"question": "required"}}, "Вопрос пустой"},
		{service.ErrNotFound, "не найден"},
		{fmt.Errorf("%w: boom", service.ErrStorage), msgInternalError},
	}
	for _, tc := range cases {
		assert.Contains(t, chatErrorText(tc.err), tc.want)
	}
}

func TestHistoryReply(t *testing.T) {
	f := newBotFixture()

	assert.Equal(t, msgChooseSubject, f.h.historyReply(context.Background(), 500).text)

	f.sm.StartChat(500, 10, "Арабский")
	assert.Contains(t, f.h.historyReply(context.Background(), 500).text, "ещё нет вопросов")

	f.chat.turns = []*model.ChatTurn{
		{Question: "первый", Answer: strings.Repeat("а", 400), CreatedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)},
		{Question: "второй", Answer: "коротко", CreatedAt: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)},
	}
	text := f.h.historyReply(context.Background(), 500).text
	assert.Equal(t, historyLimit, f.chat.limit)
	assert.Contains(t, text, "01.03.2026 09:30")
	assert.Contains(t, text, strings.Repeat("а", historyAnswerRunes)+"…")
	assert.NotContains(t, text, strings.Repeat("а", historyAnswerRunes+1))
	assert.Less(t, strings.Index(text, "первый"), strings.Index(text, "второй"))
}

func TestStopReply(t *testing.T) {
	f := newBotFixture()

	assert.Contains(t, f.h.stopReply(500).text, "Нет активного чата")

	f.sm.StartChat(500, 10, "Арабский")
	assert.Contains(t, f.h.stopReply(500).text, "Чат завершён")
	assert.Equal(t, state.StateNone, f.sm.GetState(500))
}

func TestParseSubjectCallback(t *testing.T) {
	id, err := parseSubjectCallback("chat_subject:42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"view_subject:1", "chat_subject:", "chat_subject:-3", "chat_subject:x"} {
		_, err := parseSubjectCallback(bad)
		assert.Error(t, err, bad)
	}
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short", 10))

	parts := splitMessage(strings.Repeat("ب", 25), 10)
	require.Len(t, parts, 3)
	assert.Equal(t, 5, utf8.RuneCountInString(parts[2]))

	text := "aaaaaaa\nbbbbbbbbb"
	parts = splitMessage(text, 10)
	assert.Equal(t, []string{"aaaaaaa\n", "bbbbbbbbb"}, parts)
	assert.Equal(t, text, strings.Join(parts, ""))
}
