package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/Freeeeeet/edu_platform/internal/repository/base"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeNotifications struct {
	items []*model.Notification
}

func (f *fakeNotifications) Create(_ context.Context, n *model.Notification) error {
	n.ID = int64(len(f.items) + 1)
	f.items = append(f.items, n)
	return nil
}

func (f *fakeNotifications) GetByUser(_ context.Context, userID int64) ([]*model.Notification, error) {
	var out []*model.Notification
	for _, n := range f.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotifications) MarkRead(_ context.Context, id, userID int64) error {
	for _, n := range f.items {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return base.ErrNotFound
}

func (f *fakeNotifications) ExistsForDay(_ context.Context, userID int64, notificationType string, relatedID int64) (bool, error) {
	for _, n := range f.items {
		if n.UserID == userID && n.Type == notificationType && n.RelatedID != nil && *n.RelatedID == relatedID {
			return true, nil
		}
	}
	return false, nil
}

func TestNotificationService_DailyLessonReminderOncePerDay(t *testing.T) {
	repo := &fakeNotifications{}
	svc := NewNotificationService(repo, zap.NewNop())
	lesson := &model.Lesson{ID: 5, Title: "الجمع"}

	sent, err := svc.SendDailyLessonReminder(context.Background(), 1, lesson)
	require.NoError(t, err)
	assert.True(t, sent)

	sent, err = svc.SendDailyLessonReminder(context.Background(), 1, lesson)
	require.NoError(t, err)
	assert.False(t, sent)

	require.Len(t, repo.items, 1)
	n := repo.items[0]
	assert.Equal(t, "Daily Lesson Reminder", n.Title)
	assert.Equal(t, "Don't forget to study: الجمع", n.Message)
	assert.Equal(t, model.NotificationTypeLesson, n.Type)
	require.NotNil(t, n.RelatedID)
	assert.Equal(t, int64(5), *n.RelatedID)
}

func TestNotificationService_SendValidatesType(t *testing.T) {
	svc := NewNotificationService(&fakeNotifications{}, zap.NewNop())

	_, err := svc.Send(context.Background(), CreateNotificationInput{UserID: 1, Title: "t", Message: "m", Type: "sms"})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestNotificationService_MarkReadOwnOnly(t *testing.T) {
	repo := &fakeNotifications{}
	svc := NewNotificationService(repo, zap.NewNop())
	ctx := context.Background()

	n, err := svc.Send(ctx, CreateNotificationInput{UserID: 1, Title: "t", Message: "m", Type: model.NotificationTypeGeneral})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.MarkRead(ctx, n.ID, 2), ErrNotFound)
	require.NoError(t, svc.MarkRead(ctx, n.ID, 1))

	items, err := svc.ListForUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].IsRead)
}
