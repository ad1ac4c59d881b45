package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/Freeeeeet/edu_platform/internal/repository/base"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	loginMethodTelegram = "telegram"
	loginMethodEmail    = "email"
)

type UserRepo interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	TouchLastSignedIn(ctx context.Context, id int64) error
}

// TokenIssuer подписывает токен сессии для пользователя
type TokenIssuer interface {
	Issue(user *model.User) (string, error)
}

type RegisterInput struct {
	Name     string `json:"name" validate:"notblank,max=255"`
	Email    string `json:"email" validate:"required,email,max=320"`
	Password string `json:"password" validate:"min=6,max=72"` // bcrypt читает не больше 72 байт
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session токен и пользователь, которому он выдан
type Session struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type UserService struct {
	users  UserRepo
	tokens TokenIssuer
	logger *zap.Logger
}

func NewUserService(users UserRepo, tokens TokenIssuer, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Register создаёт студента с паролем и сразу открывает сессию.
// Email уникален без учёта регистра.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(in.Email)
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, storageErr("check existing user", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("user %s: %w", email, ErrConflict)
	}

	name := strings.TrimSpace(in.Name)
	method := loginMethodEmail
	user := &model.User{
		OpenID:      "custom_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Name:        &name,
		Email:       &email,
		LoginMethod: &method,
		Role:        model.RoleUser,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, base.ErrDuplicate) {
			return nil, fmt.Errorf("user %s: %w", email, ErrConflict)
		}
		return nil, storageErr("create user", err)
	}

	s.logger.Info("New user registered",
		zap.Int64("user_id", user.ID),
		zap.String("login_method", method))

	return s.session(user)
}

// Login проверяет пароль. Неизвестный email и неверный пароль неразличимы для клиента.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, storageErr("get user by email", err)
	}
	if user == nil || user.CheckPassword(in.Password) != nil {
		return nil, ErrBadCredentials
	}

	if err := s.users.TouchLastSignedIn(ctx, user.ID); err != nil {
		return nil, repoErr("touch last signed in", err)
	}

	s.logger.Info("User signed in", zap.Int64("user_id", user.ID))

	return s.session(user)
}

func (s *UserService) session(user *model.User) (*Session, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}
	return &Session{Token: token, User: user}, nil
}

// RegisterTelegramUser находит пользователя по Telegram ID или создаёт нового студента
func (s *UserService) RegisterTelegramUser(ctx context.Context, telegramID int64, name string) (*model.User, error) {
	existing, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, storageErr("check existing user", err)
	}

	if existing != nil {
		if err := s.users.TouchLastSignedIn(ctx, existing.ID); err != nil {
			return nil, repoErr("touch last signed in", err)
		}
		return existing, nil
	}

	tgID := telegramID
	method := loginMethodTelegram
	user := &model.User{
		OpenID:      "telegram:" + strconv.FormatInt(telegramID, 10),
		TelegramID:  &tgID,
		LoginMethod: &method,
		Role:        model.RoleUser,
	}
	if name != "" {
		user.Name = &name
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, storageErr("create user", err)
	}

	s.logger.Info("New user registered",
		zap.Int64("user_id", user.ID),
		zap.Int64("telegram_id", telegramID))

	return user, nil
}

// GetByTelegramID returns nil without error when the account is not linked yet
func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, storageErr("get user by telegram id", err)
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("get user", err)
	}
	if user == nil {
		return nil, notFound("user", id)
	}
	return user, nil
}
