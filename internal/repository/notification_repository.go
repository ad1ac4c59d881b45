package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/Freeeeeet/edu_platform/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository struct {
	*base.Repository
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{Repository: base.NewRepository(pool)}
}

func scanNotification(row base.Scanner) (*model.Notification, error) {
	var n model.Notification
	err := row.Scan(
		&n.ID,
		&n.UserID,
		&n.Title,
		&n.Message,
		&n.Type,
		&n.RelatedID,
		&n.IsRead,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Create сохраняет уведомление
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (user_id, title, message, type, related_id, is_read)
		VALUES ($1, $2, $3, $4, $5, false)
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, n.UserID, n.Title, n.Message, n.Type, n.RelatedID).
		Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

// GetByUser получает уведомления пользователя, новые первыми
func (r *NotificationRepository) GetByUser(ctx context.Context, userID int64) ([]*model.Notification, error) {
	query := `
		SELECT id, user_id, title, message, type, related_id, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get notifications: %w", err)
	}

	items, err := base.CollectRows(rows, scanNotification)
	if err != nil {
		return nil, fmt.Errorf("scan notification: %w", err)
	}

	return items, nil
}

// MarkRead помечает уведомление прочитанным (только своё)
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	query := `UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`

	if err := r.ExecOne(ctx, query, id, userID); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// ExistsForDay проверяет, было ли уже напоминание по объекту за текущие сутки
func (r *NotificationRepository) ExistsForDay(ctx context.Context, userID int64, notificationType string, relatedID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM notifications
			WHERE user_id = $1 AND type = $2 AND related_id = $3
			  AND created_at >= date_trunc('day', now())
		)
	`

	var exists bool
	if err := r.QueryRow(ctx, query, userID, notificationType, relatedID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check notification exists: %w", err)
	}

	return exists, nil
}
