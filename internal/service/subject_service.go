package service

import (
	"context"
	"strings"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"go.uber.org/zap"
)

const maxSubjectDays = 365

type SubjectRepo interface {
	Create(ctx context.Context, subject *model.Subject) error
	GetByID(ctx context.Context, id int64) (*model.Subject, error)
	List(ctx context.Context) ([]*model.Subject, error)
	Update(ctx context.Context, id int64, patch *model.SubjectPatch) error
	Delete(ctx context.Context, id int64) error
}

type CreateSubjectInput struct {
	Name         string  `json:"name" validate:"notblank,max=255"`
	Description  *string `json:"description"`
	NumberOfDays int     `json:"number_of_days" validate:"omitempty,min=1,max=365"`
}

type SubjectService struct {
	subjects SubjectRepo
	logger   *zap.Logger
}

func NewSubjectService(subjects SubjectRepo, logger *zap.Logger) *SubjectService {
	return &SubjectService{
		subjects: subjects,
		logger:   logger,
	}
}

// Create создаёт предмет; длительность по умолчанию 30 дней
func (s *SubjectService) Create(ctx context.Context, createdBy int64, in CreateSubjectInput) (*model.Subject, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	subject := &model.Subject{
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		NumberOfDays: in.NumberOfDays,
		CreatedBy:    createdBy,
	}
	if subject.NumberOfDays == 0 {
		subject.NumberOfDays = model.DefaultNumberOfDays
	}

	if err := s.subjects.Create(ctx, subject); err != nil {
		return nil, storageErr("create subject", err)
	}

	s.logger.Info("Subject created",
		zap.Int64("subject_id", subject.ID),
		zap.Int64("created_by", createdBy))

	return subject, nil
}

func (s *SubjectService) Get(ctx context.Context, id int64) (*model.Subject, error) {
	subject, err := s.subjects.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("get subject", err)
	}
	if subject == nil {
		return nil, notFound("subject", id)
	}
	return subject, nil
}

func (s *SubjectService) List(ctx context.Context) ([]*model.Subject, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, storageErr("list subjects", err)
	}
	return subjects, nil
}

// Update применяет sparse patch и возвращает обновлённый предмет
func (s *SubjectService) Update(ctx context.Context, id int64, patch *model.SubjectPatch) (*model.Subject, error) {
	if patch.IsEmpty() {
		return nil, invalidField("patch", "at least one field must be set")
	}
	if patch.Name.Set && (patch.Name.Null || strings.TrimSpace(patch.Name.Value) == "") {
		return nil, invalidField("name", "this field cannot be blank")
	}
	if patch.NumberOfDays.Set &&
		(patch.NumberOfDays.Null || patch.NumberOfDays.Value < 1 || patch.NumberOfDays.Value > maxSubjectDays) {
		return nil, invalidField("number_of_days", "number_of_days must be between 1 and 365")
	}

	if err := s.subjects.Update(ctx, id, patch); err != nil {
		return nil, repoErr("update subject", err)
	}

	s.logger.Info("Subject updated", zap.Int64("subject_id", id))

	return s.Get(ctx, id)
}

func (s *SubjectService) Delete(ctx context.Context, id int64) error {
	if err := s.subjects.Delete(ctx, id); err != nil {
		return repoErr("delete subject", err)
	}

	s.logger.Info("Subject deleted", zap.Int64("subject_id", id))
	return nil
}
