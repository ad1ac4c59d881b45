package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProgress struct {
	rows map[pair]*model.StudentProgress
}

func (f *fakeProgress) MarkComplete(_ context.Context, studentID, subjectID, lessonID int64) (*model.StudentProgress, error) {
	key := pair{studentID, lessonID}
	if p, ok := f.rows[key]; ok {
		return p, nil
	}
	now := time.Now()
	p := &model.StudentProgress{ID: int64(len(f.rows) + 1), StudentID: studentID, SubjectID: subjectID, LessonID: lessonID, IsCompleted: true, CompletedAt: &now}
	f.rows[key] = p
	return p, nil
}

func (f *fakeProgress) GetProgress(_ context.Context, studentID, subjectID int64) ([]*model.StudentProgress, error) {
	var out []*model.StudentProgress
	for _, p := range f.rows {
		if p.StudentID == studentID && p.SubjectID == subjectID {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestProgressService_MarkComplete(t *testing.T) {
	grants := newFakeGrants()
	grants.add(&model.AccessGrant{StudentID: 1, SubjectID: 10, HasAccess: true})
	lessons := newFakeLessons(&model.Lesson{ID: 3, SubjectID: 10, Title: "t", DayNumber: 1, Order: 1})
	progress := &fakeProgress{rows: map[pair]*model.StudentProgress{}}
	svc := NewProgressService(progress, lessons, NewAccessChecker(grants), zap.NewNop())
	ctx := context.Background()

	first, err := svc.MarkComplete(ctx, MarkCompleteInput{StudentID: 1, LessonID: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(10), first.SubjectID)
	assert.True(t, first.IsCompleted)

	second, err := svc.MarkComplete(ctx, MarkCompleteInput{StudentID: 1, LessonID: 3})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "repeat completion is idempotent")

	_, err = svc.MarkComplete(ctx, MarkCompleteInput{StudentID: 2, LessonID: 3})
	assert.ErrorIs(t, err, ErrDenied)

	_, err = svc.MarkComplete(ctx, MarkCompleteInput{StudentID: 1, LessonID: 4})
	assert.ErrorIs(t, err, ErrNotFound)

	rows, err := svc.Get(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
