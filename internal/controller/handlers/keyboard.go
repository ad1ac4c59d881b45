package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/go-telegram/bot/models"
)

// ChatSubjectPrefix callback выбора предмета: chat_subject:123
const ChatSubjectPrefix = "chat_subject:"

// keyboardBuilder упрощает создание inline клавиатур
type keyboardBuilder struct {
	rows [][]models.InlineKeyboardButton
}

func newKeyboard() *keyboardBuilder {
	return &keyboardBuilder{
		rows: make([][]models.InlineKeyboardButton, 0),
	}
}

// Row добавляет новый ряд кнопок
func (b *keyboardBuilder) Row(buttons ...models.InlineKeyboardButton) *keyboardBuilder {
	if len(buttons) > 0 {
		b.rows = append(b.rows, buttons)
	}
	return b
}

// Build создаёт финальную клавиатуру
func (b *keyboardBuilder) Build() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: b.rows,
	}
}

func button(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// subjectsKeyboard одна кнопка на предмет
func subjectsKeyboard(subjects []*model.Subject) *models.InlineKeyboardMarkup {
	kb := newKeyboard()
	for _, s := range subjects {
		kb.Row(button("📘 "+s.Name, ChatSubjectPrefix+strconv.FormatInt(s.ID, 10)))
	}
	return kb.Build()
}

// parseSubjectCallback извлекает ID предмета: "chat_subject:123" -> 123
func parseSubjectCallback(data string) (int64, error) {
	raw, ok := strings.CutPrefix(data, ChatSubjectPrefix)
	if !ok {
		return 0, fmt.Errorf("unexpected callback data %q", data)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid subject id in callback %q", data)
	}
	return id, nil
}
