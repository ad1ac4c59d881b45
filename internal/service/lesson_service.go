package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"go.uber.org/zap"
)

type LessonRepo interface {
	Create(ctx context.Context, lesson *model.Lesson) error
	GetByID(ctx context.Context, id int64) (*model.Lesson, error)
	GetBySubject(ctx context.Context, subjectID int64) ([]*model.Lesson, error)
	Update(ctx context.Context, id int64, patch *model.LessonPatch) error
	Delete(ctx context.Context, id int64) error
}

type CreateLessonInput struct {
	SubjectID int64  `json:"subject_id" validate:"gt=0"`
	Title     string `json:"title" validate:"notblank,max=255"`
	Content   string `json:"content" validate:"notblank"`
	DayNumber int    `json:"day_number" validate:"min=1"`
	Order     int    `json:"order" validate:"omitempty,min=1"`
}

type LessonService struct {
	lessons  LessonRepo
	subjects SubjectStore
	logger   *zap.Logger
}

func NewLessonService(lessons LessonRepo, subjects SubjectStore, logger *zap.Logger) *LessonService {
	return &LessonService{
		lessons:  lessons,
		subjects: subjects,
		logger:   logger,
	}
}

// Create добавляет урок; day_number не может выходить за длительность предмета
func (s *LessonService) Create(ctx context.Context, createdBy int64, in CreateLessonInput) (*model.Lesson, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	subject, err := s.subject(ctx, in.SubjectID)
	if err != nil {
		return nil, err
	}
	if in.DayNumber > subject.NumberOfDays {
		return nil, invalidField("day_number",
			fmt.Sprintf("day_number must be between 1 and %d", subject.NumberOfDays))
	}

	lesson := &model.Lesson{
		SubjectID: in.SubjectID,
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		DayNumber: in.DayNumber,
		Order:     in.Order,
		CreatedBy: createdBy,
	}
	if lesson.Order == 0 {
		lesson.Order = 1
	}

	if err := s.lessons.Create(ctx, lesson); err != nil {
		return nil, storageErr("create lesson", err)
	}

	s.logger.Info("Lesson created",
		zap.Int64("lesson_id", lesson.ID),
		zap.Int64("subject_id", lesson.SubjectID),
		zap.Int("day_number", lesson.DayNumber))

	return lesson, nil
}

func (s *LessonService) Get(ctx context.Context, id int64) (*model.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("get lesson", err)
	}
	if lesson == nil {
		return nil, notFound("lesson", id)
	}
	return lesson, nil
}

// ListBySubject уроки предмета в порядке (day_number, order)
func (s *LessonService) ListBySubject(ctx context.Context, subjectID int64) ([]*model.Lesson, error) {
	if _, err := s.subject(ctx, subjectID); err != nil {
		return nil, err
	}

	lessons, err := s.lessons.GetBySubject(ctx, subjectID)
	if err != nil {
		return nil, storageErr("get lessons", err)
	}
	return lessons, nil
}

func (s *LessonService) Update(ctx context.Context, id int64, patch *model.LessonPatch) (*model.Lesson, error) {
	if patch.IsEmpty() {
		return nil, invalidField("patch", "at least one field must be set")
	}
	if patch.Title.Set && (patch.Title.Null || strings.TrimSpace(patch.Title.Value) == "") {
		return nil, invalidField("title", "this field cannot be blank")
	}
	if patch.Content.Set && (patch.Content.Null || strings.TrimSpace(patch.Content.Value) == "") {
		return nil, invalidField("content", "this field cannot be blank")
	}
	if patch.Order.Set && (patch.Order.Null || patch.Order.Value < 1) {
		return nil, invalidField("order", "order must be 1 or greater")
	}

	if patch.DayNumber.Set {
		if patch.DayNumber.Null {
			return nil, invalidField("day_number", "this field cannot be null")
		}
		lesson, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		subject, err := s.subject(ctx, lesson.SubjectID)
		if err != nil {
			return nil, err
		}
		if patch.DayNumber.Value < 1 || patch.DayNumber.Value > subject.NumberOfDays {
			return nil, invalidField("day_number",
				fmt.Sprintf("day_number must be between 1 and %d", subject.NumberOfDays))
		}
	}

	if err := s.lessons.Update(ctx, id, patch); err != nil {
		return nil, repoErr("update lesson", err)
	}

	s.logger.Info("Lesson updated", zap.Int64("lesson_id", id))

	return s.Get(ctx, id)
}

func (s *LessonService) Delete(ctx context.Context, id int64) error {
	if err := s.lessons.Delete(ctx, id); err != nil {
		return repoErr("delete lesson", err)
	}

	s.logger.Info("Lesson deleted", zap.Int64("lesson_id", id))
	return nil
}

func (s *LessonService) subject(ctx context.Context, id int64) (*model.Subject, error) {
	subject, err := s.subjects.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("get subject", err)
	}
	if subject == nil {
		return nil, notFound("subject", id)
	}
	return subject, nil
}
