package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/Freeeeeet/edu_platform/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

const grantColumns = `id, student_id, subject_id, has_access, start_date, end_date, created_by, created_at, updated_at`

type AccessRepository struct {
	*base.Repository
}

func NewAccessRepository(pool *pgxpool.Pool) *AccessRepository {
	return &AccessRepository{Repository: base.NewRepository(pool)}
}

func scanGrant(row base.Scanner) (*model.AccessGrant, error) {
	var grant model.AccessGrant
	err := row.Scan(
		&grant.ID,
		&grant.StudentID,
		&grant.SubjectID,
		&grant.HasAccess,
		&grant.StartDate,
		&grant.EndDate,
		&grant.CreatedBy,
		&grant.CreatedAt,
		&grant.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

// Create предоставляет доступ студенту к предмету
func (r *AccessRepository) Create(ctx context.Context, grant *model.AccessGrant) error {
	query := `
		INSERT INTO access_permissions (student_id, subject_id, has_access, start_date, end_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		grant.StudentID,
		grant.SubjectID,
		grant.HasAccess,
		grant.StartDate,
		grant.EndDate,
		grant.CreatedBy,
	).Scan(&grant.ID, &grant.CreatedAt, &grant.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create access grant: %w", err)
	}

	return nil
}

// grantRelevance сначала действующие сейчас записи, затем включённые, затем самые свежие
const grantRelevance = `
	ORDER BY (has_access
	          AND (start_date IS NULL OR start_date <= now())
	          AND (end_date IS NULL OR end_date >= now())) DESC,
	         has_access DESC, updated_at DESC, id DESC
`

// GetGrant получает наиболее актуальную запись доступа для пары студент/предмет
func (r *AccessRepository) GetGrant(ctx context.Context, studentID, subjectID int64) (*model.AccessGrant, error) {
	query := `
		SELECT ` + grantColumns + `
		FROM access_permissions
		WHERE student_id = $1 AND subject_id = $2
	` + grantRelevance + `
		LIMIT 1
	`

	grant, err := scanGrant(r.QueryRow(ctx, query, studentID, subjectID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get access grant: %w", err)
	}

	return grant, nil
}

// ListGrants получает все записи доступа пары, самые актуальные первыми
func (r *AccessRepository) ListGrants(ctx context.Context, studentID, subjectID int64) ([]*model.AccessGrant, error) {
	query := `
		SELECT ` + grantColumns + `
		FROM access_permissions
		WHERE student_id = $1 AND subject_id = $2
	` + grantRelevance

	rows, err := r.Query(ctx, query, studentID, subjectID)
	if err != nil {
		return nil, fmt.Errorf("list access grants: %w", err)
	}

	grants, err := base.CollectRows(rows, scanGrant)
	if err != nil {
		return nil, fmt.Errorf("scan access grant: %w", err)
	}

	return grants, nil
}

// GetByID получает запись доступа по ID
func (r *AccessRepository) GetByID(ctx context.Context, id int64) (*model.AccessGrant, error) {
	query := `SELECT ` + grantColumns + ` FROM access_permissions WHERE id = $1`

	grant, err := scanGrant(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get access grant by id: %w", err)
	}

	return grant, nil
}

// Update применяет частичное обновление записи доступа
func (r *AccessRepository) Update(ctx context.Context, id int64, patch *model.AccessGrantPatch) error {
	u := base.NewUpdate("access_permissions")
	base.SetOptional(u, "has_access", patch.HasAccess)
	base.SetOptional(u, "start_date", patch.StartDate)
	base.SetOptional(u, "end_date", patch.EndDate)

	query, args := u.Build(id)
	if err := r.ExecOne(ctx, query, args...); err != nil {
		return fmt.Errorf("update access grant %d: %w", id, err)
	}

	return nil
}

// ListActiveWithStart получает действующие доступы с датой начала (для напоминаний)
func (r *AccessRepository) ListActiveWithStart(ctx context.Context) ([]*model.AccessGrant, error) {
	query := `
		SELECT ` + grantColumns + `
		FROM access_permissions
		WHERE has_access = true
		  AND start_date IS NOT NULL
		  AND start_date <= now()
		  AND (end_date IS NULL OR end_date >= now())
		ORDER BY id
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active grants: %w", err)
	}

	grants, err := base.CollectRows(rows, scanGrant)
	if err != nil {
		return nil, fmt.Errorf("scan access grant: %w", err)
	}

	return grants, nil
}
