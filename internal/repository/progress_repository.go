package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/Freeeeeet/edu_platform/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProgressRepository struct {
	*base.Repository
}

func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{Repository: base.NewRepository(pool)}
}

func scanProgress(row base.Scanner) (*model.StudentProgress, error) {
	var p model.StudentProgress
	err := row.Scan(
		&p.ID,
		&p.StudentID,
		&p.SubjectID,
		&p.LessonID,
		&p.IsCompleted,
		&p.CompletedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkComplete отмечает урок пройденным; повторный вызов не создаёт дубликат
func (r *ProgressRepository) MarkComplete(ctx context.Context, studentID, subjectID, lessonID int64) (*model.StudentProgress, error) {
	query := `
		INSERT INTO student_progress (student_id, subject_id, lesson_id, is_completed, completed_at)
		VALUES ($1, $2, $3, true, now())
		ON CONFLICT (student_id, lesson_id)
		DO UPDATE SET is_completed = true,
		              completed_at = COALESCE(student_progress.completed_at, EXCLUDED.completed_at),
		              updated_at = now()
		RETURNING id, student_id, subject_id, lesson_id, is_completed, completed_at, created_at, updated_at
	`

	progress, err := scanProgress(r.QueryRow(ctx, query, studentID, subjectID, lessonID))
	if err != nil {
		return nil, fmt.Errorf("mark lesson complete: %w", err)
	}

	return progress, nil
}

// GetProgress получает прогресс студента по предмету
func (r *ProgressRepository) GetProgress(ctx context.Context, studentID, subjectID int64) ([]*model.StudentProgress, error) {
	query := `
		SELECT id, student_id, subject_id, lesson_id, is_completed, completed_at, created_at, updated_at
		FROM student_progress
		WHERE student_id = $1 AND subject_id = $2
		ORDER BY id
	`

	rows, err := r.Query(ctx, query, studentID, subjectID)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	items, err := base.CollectRows(rows, scanProgress)
	if err != nil {
		return nil, fmt.Errorf("scan progress: %w", err)
	}

	return items, nil
}
