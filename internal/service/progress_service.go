package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"go.uber.org/zap"
)

type ProgressRepo interface {
	MarkComplete(ctx context.Context, studentID, subjectID, lessonID int64) (*model.StudentProgress, error)
	GetProgress(ctx context.Context, studentID, subjectID int64) ([]*model.StudentProgress, error)
}

type LessonGetter interface {
	GetByID(ctx context.Context, id int64) (*model.Lesson, error)
}

type MarkCompleteInput struct {
	StudentID int64 `json:"student_id" validate:"gt=0"`
	LessonID  int64 `json:"lesson_id" validate:"gt=0"`
}

type ProgressService struct {
	progress ProgressRepo
	lessons  LessonGetter
	checker  *AccessChecker
	logger   *zap.Logger
}

func NewProgressService(progress ProgressRepo, lessons LessonGetter, checker *AccessChecker, logger *zap.Logger) *ProgressService {
	return &ProgressService{
		progress: progress,
		lessons:  lessons,
		checker:  checker,
		logger:   logger,
	}
}

// MarkComplete отмечает урок пройденным. Нужен действующий доступ к предмету урока.
func (s *ProgressService) MarkComplete(ctx context.Context, in MarkCompleteInput) (*model.StudentProgress, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	lesson, err := s.lessons.GetByID(ctx, in.LessonID)
	if err != nil {
		return nil, storageErr("get lesson", err)
	}
	if lesson == nil {
		return nil, notFound("lesson", in.LessonID)
	}

	decision, err := s.checker.CheckAccess(ctx, in.StudentID, lesson.SubjectID)
	if err != nil {
		return nil, err
	}
	if decision != Allowed {
		return nil, fmt.Errorf("student %d, subject %d: %w", in.StudentID, lesson.SubjectID, ErrDenied)
	}

	progress, err := s.progress.MarkComplete(ctx, in.StudentID, lesson.SubjectID, lesson.ID)
	if err != nil {
		return nil, storageErr("mark lesson complete", err)
	}

	s.logger.Info("Lesson completed",
		zap.Int64("student_id", in.StudentID),
		zap.Int64("lesson_id", lesson.ID))

	return progress, nil
}

func (s *ProgressService) Get(ctx context.Context, studentID, subjectID int64) ([]*model.StudentProgress, error) {
	if studentID <= 0 {
		return nil, invalidField("student_id", "student_id must be greater than 0")
	}
	if subjectID <= 0 {
		return nil, invalidField("subject_id", "subject_id must be greater than 0")
	}

	items, err := s.progress.GetProgress(ctx, studentID, subjectID)
	if err != nil {
		return nil, storageErr("get progress", err)
	}
	return items, nil
}
