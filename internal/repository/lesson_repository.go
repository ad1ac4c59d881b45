package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/Freeeeeet/edu_platform/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

const lessonColumns = `id, subject_id, title, content, day_number, sort_order, created_by, created_at, updated_at`

type LessonRepository struct {
	*base.Repository
}

func NewLessonRepository(pool *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{Repository: base.NewRepository(pool)}
}

func scanLesson(row base.Scanner) (*model.Lesson, error) {
	var lesson model.Lesson
	err := row.Scan(
		&lesson.ID,
		&lesson.SubjectID,
		&lesson.Title,
		&lesson.Content,
		&lesson.DayNumber,
		&lesson.Order,
		&lesson.CreatedBy,
		&lesson.CreatedAt,
		&lesson.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// Create создаёт урок
func (r *LessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	query := `
		INSERT INTO lessons (subject_id, title, content, day_number, sort_order, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		lesson.SubjectID,
		lesson.Title,
		lesson.Content,
		lesson.DayNumber,
		lesson.Order,
		lesson.CreatedBy,
	).Scan(&lesson.ID, &lesson.CreatedAt, &lesson.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}

	return nil
}

// GetByID получает урок по ID
func (r *LessonRepository) GetByID(ctx context.Context, id int64) (*model.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1`

	lesson, err := scanLesson(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lesson by id: %w", err)
	}

	return lesson, nil
}

// GetBySubject получает уроки предмета в порядке (день, порядок)
func (r *LessonRepository) GetBySubject(ctx context.Context, subjectID int64) ([]*model.Lesson, error) {
	query := `
		SELECT ` + lessonColumns + `
		FROM lessons
		WHERE subject_id = $1
		ORDER BY day_number, sort_order, id
	`

	rows, err := r.Query(ctx, query, subjectID)
	if err != nil {
		return nil, fmt.Errorf("get lessons by subject: %w", err)
	}

	lessons, err := base.CollectRows(rows, scanLesson)
	if err != nil {
		return nil, fmt.Errorf("scan lesson: %w", err)
	}

	return lessons, nil
}

// GetBySubjectAndDay получает уроки конкретного учебного дня
func (r *LessonRepository) GetBySubjectAndDay(ctx context.Context, subjectID int64, dayNumber int) ([]*model.Lesson, error) {
	query := `
		SELECT ` + lessonColumns + `
		FROM lessons
		WHERE subject_id = $1 AND day_number = $2
		ORDER BY sort_order, id
	`

	rows, err := r.Query(ctx, query, subjectID, dayNumber)
	if err != nil {
		return nil, fmt.Errorf("get lessons by day: %w", err)
	}

	lessons, err := base.CollectRows(rows, scanLesson)
	if err != nil {
		return nil, fmt.Errorf("scan lesson: %w", err)
	}

	return lessons, nil
}

// Update применяет частичное обновление урока
func (r *LessonRepository) Update(ctx context.Context, id int64, patch *model.LessonPatch) error {
	u := base.NewUpdate("lessons")
	base.SetOptional(u, "title", patch.Title)
	base.SetOptional(u, "content", patch.Content)
	base.SetOptional(u, "day_number", patch.DayNumber)
	base.SetOptional(u, "sort_order", patch.Order)

	query, args := u.Build(id)
	if err := r.ExecOne(ctx, query, args...); err != nil {
		return fmt.Errorf("update lesson %d: %w", id, err)
	}

	return nil
}

// Delete удаляет урок
func (r *LessonRepository) Delete(ctx context.Context, id int64) error {
	if err := r.ExecOne(ctx, `DELETE FROM lessons WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete lesson %d: %w", id, err)
	}
	return nil
}
