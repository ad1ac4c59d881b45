package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/Freeeeeet/edu_platform/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

const quizColumns = `id, subject_id, title, description, quiz_type, day_number, scheduled_date, created_by, created_at, updated_at`

type QuizRepository struct {
	*base.Repository
}

func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{Repository: base.NewRepository(pool)}
}

func scanQuiz(row base.Scanner) (*model.Quiz, error) {
	var quiz model.Quiz
	err := row.Scan(
		&quiz.ID,
		&quiz.SubjectID,
		&quiz.Title,
		&quiz.Description,
		&quiz.Type,
		&quiz.DayNumber,
		&quiz.ScheduledDate,
		&quiz.CreatedBy,
		&quiz.CreatedAt,
		&quiz.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func scanQuestion(row base.Scanner) (*model.QuizQuestion, error) {
	var q model.QuizQuestion
	if err := row.Scan(&q.ID, &q.QuizID, &q.Question, &q.QuestionType, &q.Order, &q.CreatedAt); err != nil {
		return nil, err
	}
	return &q, nil
}

func scanOption(row base.Scanner) (*model.QuizOption, error) {
	var o model.QuizOption
	var correct bool
	if err := row.Scan(&o.ID, &o.QuestionID, &o.Text, &correct, &o.Order, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.IsCorrect = &correct
	return &o, nil
}

// Create создаёт тест вместе с вопросами и вариантами в одной транзакции
func (r *QuizRepository) Create(ctx context.Context, quiz *model.Quiz) error {
	tx, err := r.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO quizzes (subject_id, title, description, quiz_type, day_number, scheduled_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(
		ctx, query,
		quiz.SubjectID,
		quiz.Title,
		quiz.Description,
		quiz.Type,
		quiz.DayNumber,
		quiz.ScheduledDate,
		quiz.CreatedBy,
	).Scan(&quiz.ID, &quiz.CreatedAt, &quiz.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create quiz: %w", err)
	}

	for _, q := range quiz.Questions {
		q.QuizID = quiz.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO quiz_questions (quiz_id, question, question_type, sort_order)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at
		`, q.QuizID, q.Question, q.QuestionType, q.Order).Scan(&q.ID, &q.CreatedAt)
		if err != nil {
			return fmt.Errorf("create quiz question: %w", err)
		}

		for _, o := range q.Options {
			o.QuestionID = q.ID
			correct := o.IsCorrect != nil && *o.IsCorrect
			err := tx.QueryRow(ctx, `
				INSERT INTO quiz_options (question_id, text, is_correct, sort_order)
				VALUES ($1, $2, $3, $4)
				RETURNING id, created_at
			`, o.QuestionID, o.Text, correct, o.Order).Scan(&o.ID, &o.CreatedAt)
			if err != nil {
				return fmt.Errorf("create quiz option: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit quiz: %w", err)
	}
	return nil
}

// GetByID получает тест без вопросов
func (r *QuizRepository) GetByID(ctx context.Context, id int64) (*model.Quiz, error) {
	query := `SELECT ` + quizColumns + ` FROM quizzes WHERE id = $1`

	quiz, err := scanQuiz(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quiz by id: %w", err)
	}

	return quiz, nil
}

// GetBySubject получает тесты предмета, новые последними
func (r *QuizRepository) GetBySubject(ctx context.Context, subjectID int64) ([]*model.Quiz, error) {
	query := `
		SELECT ` + quizColumns + `
		FROM quizzes
		WHERE subject_id = $1
		ORDER BY id
	`

	rows, err := r.Query(ctx, query, subjectID)
	if err != nil {
		return nil, fmt.Errorf("get quizzes by subject: %w", err)
	}

	quizzes, err := base.CollectRows(rows, scanQuiz)
	if err != nil {
		return nil, fmt.Errorf("scan quiz: %w", err)
	}

	return quizzes, nil
}

// GetQuestions получает вопросы теста с вариантами ответа
func (r *QuizRepository) GetQuestions(ctx context.Context, quizID int64) ([]*model.QuizQuestion, error) {
	rows, err := r.Query(ctx, `
		SELECT id, quiz_id, question, question_type, sort_order, created_at
		FROM quiz_questions
		WHERE quiz_id = $1
		ORDER BY sort_order, id
	`, quizID)
	if err != nil {
		return nil, fmt.Errorf("get quiz questions: %w", err)
	}

	questions, err := base.CollectRows(rows, scanQuestion)
	if err != nil {
		return nil, fmt.Errorf("scan quiz question: %w", err)
	}
	if len(questions) == 0 {
		return questions, nil
	}

	rows, err = r.Query(ctx, `
		SELECT o.id, o.question_id, o.text, o.is_correct, o.sort_order, o.created_at
		FROM quiz_options o
		JOIN quiz_questions q ON q.id = o.question_id
		WHERE q.quiz_id = $1
		ORDER BY o.sort_order, o.id
	`, quizID)
	if err != nil {
		return nil, fmt.Errorf("get quiz options: %w", err)
	}

	options, err := base.CollectRows(rows, scanOption)
	if err != nil {
		return nil, fmt.Errorf("scan quiz option: %w", err)
	}

	byQuestion := make(map[int64]*model.QuizQuestion, len(questions))
	for _, q := range questions {
		byQuestion[q.ID] = q
	}
	for _, o := range options {
		if q, ok := byQuestion[o.QuestionID]; ok {
			q.Options = append(q.Options, o)
		}
	}

	return questions, nil
}

// Update применяет частичное обновление теста
func (r *QuizRepository) Update(ctx context.Context, id int64, patch *model.QuizPatch) error {
	u := base.NewUpdate("quizzes")
	base.SetOptional(u, "title", patch.Title)
	base.SetOptional(u, "description", patch.Description)
	base.SetOptional(u, "quiz_type", patch.Type)
	base.SetOptional(u, "day_number", patch.DayNumber)
	base.SetOptional(u, "scheduled_date", patch.ScheduledDate)

	query, args := u.Build(id)
	if err := r.ExecOne(ctx, query, args...); err != nil {
		return fmt.Errorf("update quiz %d: %w", id, err)
	}

	return nil
}

// Delete удаляет тест; вопросы, варианты и ответы удаляются каскадом
func (r *QuizRepository) Delete(ctx context.Context, id int64) error {
	if err := r.ExecOne(ctx, `DELETE FROM quizzes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete quiz %d: %w", id, err)
	}
	return nil
}
