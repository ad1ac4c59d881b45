package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/Freeeeeet/edu_platform/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const subjectColumns = `id, name, description, number_of_days, created_by, created_at, updated_at`

type SubjectRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewSubjectRepository(pool *pgxpool.Pool, logger *zap.Logger) *SubjectRepository {
	return &SubjectRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

func scanSubject(row base.Scanner) (*model.Subject, error) {
	var subject model.Subject
	err := row.Scan(
		&subject.ID,
		&subject.Name,
		&subject.Description,
		&subject.NumberOfDays,
		&subject.CreatedBy,
		&subject.CreatedAt,
		&subject.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

// Create создаёт новый предмет
func (r *SubjectRepository) Create(ctx context.Context, subject *model.Subject) error {
	query := `
		INSERT INTO subjects (name, description, number_of_days, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		subject.Name,
		subject.Description,
		subject.NumberOfDays,
		subject.CreatedBy,
	).Scan(&subject.ID, &subject.CreatedAt, &subject.UpdatedAt)

	if err != nil {
		r.logger.Error("Failed to insert subject into DB",
			zap.Int64("created_by", subject.CreatedBy),
			zap.String("name", subject.Name),
			zap.Error(err))
		return fmt.Errorf("create subject: %w", err)
	}

	r.logger.Info("Subject inserted successfully",
		zap.Int64("subject_id", subject.ID),
		zap.String("name", subject.Name))

	return nil
}

// GetByID получает предмет по ID
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*model.Subject, error) {
	query := `SELECT ` + subjectColumns + ` FROM subjects WHERE id = $1`

	subject, err := scanSubject(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subject by id: %w", err)
	}

	return subject, nil
}

// List получает все предметы
func (r *SubjectRepository) List(ctx context.Context) ([]*model.Subject, error) {
	query := `SELECT ` + subjectColumns + ` FROM subjects ORDER BY name, id`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}

	subjects, err := base.CollectRows(rows, scanSubject)
	if err != nil {
		return nil, fmt.Errorf("scan subject: %w", err)
	}

	return subjects, nil
}

// GetByStudent получает предметы, к которым у студента есть доступ
func (r *SubjectRepository) GetByStudent(ctx context.Context, studentID int64) ([]*model.Subject, error) {
	query := `
		SELECT DISTINCT s.id, s.name, s.description, s.number_of_days, s.created_by, s.created_at, s.updated_at
		FROM subjects s
		INNER JOIN access_permissions ap ON ap.subject_id = s.id
		WHERE ap.student_id = $1
		  AND ap.has_access = true
		  AND (ap.start_date IS NULL OR ap.start_date <= now())
		  AND (ap.end_date IS NULL OR ap.end_date >= now())
		ORDER BY s.name, s.id
	`

	rows, err := r.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("get subjects by student: %w", err)
	}

	subjects, err := base.CollectRows(rows, scanSubject)
	if err != nil {
		return nil, fmt.Errorf("scan subject: %w", err)
	}

	return subjects, nil
}

// Update применяет частичное обновление предмета
func (r *SubjectRepository) Update(ctx context.Context, id int64, patch *model.SubjectPatch) error {
	u := base.NewUpdate("subjects")
	base.SetOptional(u, "name", patch.Name)
	base.SetOptional(u, "description", patch.Description)
	base.SetOptional(u, "number_of_days", patch.NumberOfDays)

	query, args := u.Build(id)
	if err := r.ExecOne(ctx, query, args...); err != nil {
		return fmt.Errorf("update subject %d: %w", id, err)
	}

	return nil
}

// Delete удаляет предмет
func (r *SubjectRepository) Delete(ctx context.Context, id int64) error {
	if err := r.ExecOne(ctx, `DELETE FROM subjects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete subject %d: %w", id, err)
	}
	return nil
}
