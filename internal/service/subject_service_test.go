package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSubjectService_Create(t *testing.T) {
	repo := newFakeSubjects()
	svc := NewSubjectService(repo, zap.NewNop())

	subject, err := svc.Create(context.Background(), 7, CreateSubjectInput{Name: "  الرياضيات "})
	require.NoError(t, err)

	assert.NotZero(t, subject.ID)
	assert.Equal(t, "الرياضيات", subject.Name)
	assert.Equal(t, model.DefaultNumberOfDays, subject.NumberOfDays)
	assert.Equal(t, int64(7), subject.CreatedBy)

	_, err = svc.Create(context.Background(), 7, CreateSubjectInput{Name: " "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(context.Background(), 7, CreateSubjectInput{Name: "x", NumberOfDays: 400})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubjectService_UpdatePatch(t *testing.T) {
	desc := "old"
	repo := newFakeSubjects(&model.Subject{ID: 1, Name: "Math", Description: &desc, NumberOfDays: 30})
	svc := NewSubjectService(repo, zap.NewNop())
	ctx := context.Background()

	updated, err := svc.Update(ctx, 1, &model.SubjectPatch{Description: model.Optional[*string]{Set: true, Null: true}})
	require.NoError(t, err)
	assert.Nil(t, updated.Description)
	assert.Equal(t, "Math", updated.Name, "unset fields stay unchanged")
	assert.Equal(t, 30, updated.NumberOfDays)

	updated, err = svc.Update(ctx, 1, &model.SubjectPatch{NumberOfDays: model.Some(45)})
	require.NoError(t, err)
	assert.Equal(t, 45, updated.NumberOfDays)

	_, err = svc.Update(ctx, 1, &model.SubjectPatch{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(ctx, 1, &model.SubjectPatch{Name: model.Optional[string]{Set: true, Null: true}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(ctx, 404, &model.SubjectPatch{Name: model.Some("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubjectService_GetAndDelete(t *testing.T) {
	repo := newFakeSubjects(&model.Subject{ID: 1, Name: "Math"})
	svc := NewSubjectService(repo, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Get(ctx, 2)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, 1))
	assert.ErrorIs(t, svc.Delete(ctx, 1), ErrNotFound)

	subjects, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, subjects)
}
