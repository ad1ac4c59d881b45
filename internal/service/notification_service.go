package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"go.uber.org/zap"
)

type NotificationRepo interface {
	Create(ctx context.Context, n *model.Notification) error
	GetByUser(ctx context.Context, userID int64) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
	ExistsForDay(ctx context.Context, userID int64, notificationType string, relatedID int64) (bool, error)
}

type CreateNotificationInput struct {
	UserID    int64  `json:"user_id" validate:"gt=0"`
	Title     string `json:"title" validate:"notblank,max=255"`
	Message   string `json:"message" validate:"notblank"`
	Type      string `json:"type" validate:"oneof=lesson quiz discount grade general"`
	RelatedID *int64 `json:"related_id"`
}

// NotificationService сохраняет in-app уведомления. Push-доставка пока только логируется.
type NotificationService struct {
	notifications NotificationRepo
	logger        *zap.Logger
}

func NewNotificationService(notifications NotificationRepo, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		logger:        logger,
	}
}

func (s *NotificationService) Send(ctx context.Context, in CreateNotificationInput) (*model.Notification, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	n := &model.Notification{
		UserID:    in.UserID,
		Title:     in.Title,
		Message:   in.Message,
		Type:      in.Type,
		RelatedID: in.RelatedID,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, storageErr("create notification", err)
	}

	// TODO: deliver through a push provider (FCM) once device tokens are stored
	s.logger.Info("Notification sent",
		zap.Int64("notification_id", n.ID),
		zap.Int64("user_id", n.UserID),
		zap.String("type", n.Type),
		zap.String("title", n.Title))

	return n, nil
}

// SendDailyLessonReminder напоминает об уроке не чаще раза в сутки.
// Возвращает false, если напоминание уже было.
func (s *NotificationService) SendDailyLessonReminder(ctx context.Context, userID int64, lesson *model.Lesson) (bool, error) {
	exists, err := s.notifications.ExistsForDay(ctx, userID, model.NotificationTypeLesson, lesson.ID)
	if err != nil {
		return false, storageErr("check lesson reminder", err)
	}
	if exists {
		return false, nil
	}

	lessonID := lesson.ID
	_, err = s.Send(ctx, CreateNotificationInput{
		UserID:    userID,
		Title:     "Daily Lesson Reminder",
		Message:   fmt.Sprintf("Don't forget to study: %s", lesson.Title),
		Type:      model.NotificationTypeLesson,
		RelatedID: &lessonID,
	})
	if err != nil {
		return false, err
	}

	return true, nil
}

func (s *NotificationService) ListForUser(ctx context.Context, userID int64) ([]*model.Notification, error) {
	items, err := s.notifications.GetByUser(ctx, userID)
	if err != nil {
		return nil, storageErr("get notifications", err)
	}
	return items, nil
}

// MarkRead помечает прочитанным только уведомление самого пользователя
func (s *NotificationService) MarkRead(ctx context.Context, id, userID int64) error {
	if err := s.notifications.MarkRead(ctx, id, userID); err != nil {
		return repoErr("mark notification read", err)
	}
	return nil
}
