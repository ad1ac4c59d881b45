package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/Freeeeeet/edu_platform/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

const chatColumns = `id, request_id, student_id, subject_id, question, answer, created_at`

// ChatRepository append-only журнал вопросов и ответов
type ChatRepository struct {
	*base.Repository
}

func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{Repository: base.NewRepository(pool)}
}

func scanTurn(row base.Scanner) (*model.ChatTurn, error) {
	var turn model.ChatTurn
	err := row.Scan(
		&turn.ID,
		&turn.RequestID,
		&turn.StudentID,
		&turn.SubjectID,
		&turn.Question,
		&turn.Answer,
		&turn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &turn, nil
}

// Append сохраняет ход диалога. Повторная запись с тем же request_id ничего не меняет,
// а turn заполняется уже сохранённой строкой.
func (r *ChatRepository) Append(ctx context.Context, turn *model.ChatTurn) error {
	query := `
		INSERT INTO chat_history (request_id, student_id, subject_id, question, answer)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (request_id) DO NOTHING
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		turn.RequestID,
		turn.StudentID,
		turn.SubjectID,
		turn.Question,
		turn.Answer,
	).Scan(&turn.ID, &turn.CreatedAt)

	if err == nil {
		return nil
	}
	if !base.IsNotFound(err) {
		return fmt.Errorf("append chat turn: %w", err)
	}

	existing := `SELECT id, created_at FROM chat_history WHERE request_id = $1`
	if err := r.QueryRow(ctx, existing, turn.RequestID).Scan(&turn.ID, &turn.CreatedAt); err != nil {
		return fmt.Errorf("load existing chat turn: %w", err)
	}

	return nil
}

// List получает всю историю пары в хронологическом порядке
func (r *ChatRepository) List(ctx context.Context, studentID, subjectID int64) ([]*model.ChatTurn, error) {
	query := `
		SELECT ` + chatColumns + `
		FROM chat_history
		WHERE student_id = $1 AND subject_id = $2
		ORDER BY id
	`

	rows, err := r.Query(ctx, query, studentID, subjectID)
	if err != nil {
		return nil, fmt.Errorf("list chat history: %w", err)
	}

	turns, err := base.CollectRows(rows, scanTurn)
	if err != nil {
		return nil, fmt.Errorf("scan chat turn: %w", err)
	}

	return turns, nil
}

// ListRecent получает последние limit ходов, тоже от старых к новым
func (r *ChatRepository) ListRecent(ctx context.Context, studentID, subjectID int64, limit int) ([]*model.ChatTurn, error) {
	query := `
		SELECT ` + chatColumns + ` FROM (
			SELECT ` + chatColumns + `
			FROM chat_history
			WHERE student_id = $1 AND subject_id = $2
			ORDER BY id DESC
			LIMIT $3
		) recent
		ORDER BY id
	`

	rows, err := r.Query(ctx, query, studentID, subjectID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent chat history: %w", err)
	}

	turns, err := base.CollectRows(rows, scanTurn)
	if err != nil {
		return nil, fmt.Errorf("scan chat turn: %w", err)
	}

	return turns, nil
}
