package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/Freeeeeet/edu_platform/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

const answerColumns = `id, quiz_id, student_id, question_id, selected_option_id, text_answer, image_url,
	score, feedback, submitted_at, graded_at, graded_by, created_at`

type StudentAnswerRepository struct {
	*base.Repository
}

func NewStudentAnswerRepository(pool *pgxpool.Pool) *StudentAnswerRepository {
	return &StudentAnswerRepository{Repository: base.NewRepository(pool)}
}

func scanAnswer(row base.Scanner) (*model.StudentAnswer, error) {
	var a model.StudentAnswer
	err := row.Scan(
		&a.ID,
		&a.QuizID,
		&a.StudentID,
		&a.QuestionID,
		&a.SelectedOptionID,
		&a.TextAnswer,
		&a.ImageURL,
		&a.Score,
		&a.Feedback,
		&a.SubmittedAt,
		&a.GradedAt,
		&a.GradedBy,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create сохраняет ответ студента
func (r *StudentAnswerRepository) Create(ctx context.Context, a *model.StudentAnswer) error {
	query := `
		INSERT INTO student_answers (quiz_id, student_id, question_id, selected_option_id, text_answer, image_url, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		a.QuizID,
		a.StudentID,
		a.QuestionID,
		a.SelectedOptionID,
		a.TextAnswer,
		a.ImageURL,
		a.SubmittedAt,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create student answer: %w", err)
	}

	return nil
}

// GetByID получает ответ по ID
func (r *StudentAnswerRepository) GetByID(ctx context.Context, id int64) (*model.StudentAnswer, error) {
	query := `SELECT ` + answerColumns + ` FROM student_answers WHERE id = $1`

	a, err := scanAnswer(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get student answer by id: %w", err)
	}

	return a, nil
}

// GetByStudentAndQuiz получает ответы студента на тест в порядке отправки
func (r *StudentAnswerRepository) GetByStudentAndQuiz(ctx context.Context, studentID, quizID int64) ([]*model.StudentAnswer, error) {
	query := `
		SELECT ` + answerColumns + `
		FROM student_answers
		WHERE student_id = $1 AND quiz_id = $2
		ORDER BY submitted_at, id
	`

	rows, err := r.Query(ctx, query, studentID, quizID)
	if err != nil {
		return nil, fmt.Errorf("get student answers: %w", err)
	}

	answers, err := base.CollectRows(rows, scanAnswer)
	if err != nil {
		return nil, fmt.Errorf("scan student answer: %w", err)
	}

	return answers, nil
}

// Grade записывает оценку; в таблице нет updated_at, поэтому без UpdateBuilder
func (r *StudentAnswerRepository) Grade(ctx context.Context, id int64, g model.Grade) error {
	query := `
		UPDATE student_answers
		SET score = $1, feedback = $2, graded_by = $3, graded_at = $4
		WHERE id = $5
	`

	if err := r.ExecOne(ctx, query, g.Score, g.Feedback, g.GradedBy, g.GradedAt, id); err != nil {
		return fmt.Errorf("grade student answer %d: %w", id, err)
	}
	return nil
}
