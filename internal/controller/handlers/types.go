package handlers

import (
	"context"

	"github.com/Freeeeeet/edu_platform/internal/controller/state"
	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/Freeeeeet/edu_platform/internal/service"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ChatFront операции чата, нужные боту
type ChatFront interface {
	SendMessage(ctx context.Context, in service.SendMessageInput) (*service.ChatResult, error)
	RecentHistory(ctx context.Context, studentID, subjectID int64, limit int) ([]*model.ChatTurn, error)
	GetStudentSubjects(ctx context.Context, studentID int64) ([]*model.Subject, error)
}

// Accounts связывает telegram аккаунт с пользователем
type Accounts interface {
	RegisterTelegramUser(ctx context.Context, telegramID int64, name string) (*model.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
}

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	chat         ChatFront
	users        Accounts
	stateManager *state.Manager
	logger       *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(chat ChatFront, users Accounts, stateManager *state.Manager, logger *zap.Logger) *Handlers {
	return &Handlers{
		chat:         chat,
		users:        users,
		stateManager: stateManager,
		logger:       logger,
	}
}

// reply текст ответа и необязательная клавиатура
type reply struct {
	text   string
	markup models.ReplyMarkup
}
