package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"go.uber.org/zap"
)

type AccessRepo interface {
	GrantStore
	GetGrant(ctx context.Context, studentID, subjectID int64) (*model.AccessGrant, error)
	Create(ctx context.Context, grant *model.AccessGrant) error
	GetByID(ctx context.Context, id int64) (*model.AccessGrant, error)
	Update(ctx context.Context, id int64, patch *model.AccessGrantPatch) error
}

type GrantAccessInput struct {
	StudentID int64      `json:"student_id" validate:"gt=0"`
	SubjectID int64      `json:"subject_id" validate:"gt=0"`
	HasAccess *bool      `json:"has_access"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// AccessService управляет записями доступа (администратор)
type AccessService struct {
	grants   AccessRepo
	subjects SubjectStore
	logger   *zap.Logger
}

func NewAccessService(grants AccessRepo, subjects SubjectStore, logger *zap.Logger) *AccessService {
	return &AccessService{
		grants:   grants,
		subjects: subjects,
		logger:   logger,
	}
}

// Grant создаёт запись доступа; has_access по умолчанию true
func (s *AccessService) Grant(ctx context.Context, createdBy int64, in GrantAccessInput) (*model.AccessGrant, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := checkWindow(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	subject, err := s.subjects.GetByID(ctx, in.SubjectID)
	if err != nil {
		return nil, storageErr("get subject", err)
	}
	if subject == nil {
		return nil, notFound("subject", in.SubjectID)
	}

	grant := &model.AccessGrant{
		StudentID: in.StudentID,
		SubjectID: in.SubjectID,
		HasAccess: true,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		CreatedBy: createdBy,
	}
	if in.HasAccess != nil {
		grant.HasAccess = *in.HasAccess
	}

	if err := s.grants.Create(ctx, grant); err != nil {
		return nil, storageErr("create access grant", err)
	}

	s.logger.Info("Access granted",
		zap.Int64("grant_id", grant.ID),
		zap.Int64("student_id", grant.StudentID),
		zap.Int64("subject_id", grant.SubjectID),
		zap.Bool("has_access", grant.HasAccess))

	return grant, nil
}

// Get возвращает наиболее актуальную запись доступа пары
func (s *AccessService) Get(ctx context.Context, studentID, subjectID int64) (*model.AccessGrant, error) {
	grant, err := s.grants.GetGrant(ctx, studentID, subjectID)
	if err != nil {
		return nil, storageErr("get access grant", err)
	}
	if grant == nil {
		return nil, notFound("access grant for subject", subjectID)
	}
	return grant, nil
}

// Update применяет sparse patch; итоговое окно проверяется целиком
func (s *AccessService) Update(ctx context.Context, id int64, patch *model.AccessGrantPatch) (*model.AccessGrant, error) {
	if patch.IsEmpty() {
		return nil, invalidField("patch", "at least one field must be set")
	}
	if patch.HasAccess.Set && patch.HasAccess.Null {
		return nil, invalidField("has_access", "this field cannot be null")
	}

	current, err := s.grants.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("get access grant", err)
	}
	if current == nil {
		return nil, notFound("access grant", id)
	}

	start, end := current.StartDate, current.EndDate
	if patch.StartDate.Set {
		start = patch.StartDate.Value
	}
	if patch.EndDate.Set {
		end = patch.EndDate.Value
	}
	if err := checkWindow(start, end); err != nil {
		return nil, err
	}

	if err := s.grants.Update(ctx, id, patch); err != nil {
		return nil, repoErr("update access grant", err)
	}

	s.logger.Info("Access grant updated", zap.Int64("grant_id", id))

	updated, err := s.grants.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("get access grant", err)
	}
	if updated == nil {
		return nil, notFound("access grant", id)
	}
	return updated, nil
}

func checkWindow(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return invalidField("end_date", "end_date must not be before start_date")
	}
	return nil
}
