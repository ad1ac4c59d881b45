package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/Freeeeeet/edu_platform/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, open_id, name, email, telegram_id, login_method, role, created_at, updated_at, last_signed_in, password_hash`

type UserRepository struct {
	*base.Repository
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{Repository: base.NewRepository(pool)}
}

func scanUser(row base.Scanner) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.OpenID,
		&user.Name,
		&user.Email,
		&user.TelegramID,
		&user.LoginMethod,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.LastSignedIn,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create создаёт нового пользователя
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (open_id, name, email, telegram_id, login_method, role, password_hash, last_signed_in)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING id, created_at, updated_at, last_signed_in
	`

	err := r.QueryRow(
		ctx, query,
		user.OpenID,
		user.Name,
		user.Email,
		user.TelegramID,
		user.LoginMethod,
		user.Role,
		user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt, &user.LastSignedIn)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return fmt.Errorf("create user: %w", base.ErrDuplicate)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

// GetByTelegramID получает пользователя по Telegram ID
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`

	user, err := scanUser(r.QueryRow(ctx, query, telegramID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by telegram id: %w", err)
	}

	return user, nil
}

// GetByEmail получает пользователя по email без учёта регистра
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`

	user, err := scanUser(r.QueryRow(ctx, query, email))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return user, nil
}

// TouchLastSignedIn обновляет время последнего входа
func (r *UserRepository) TouchLastSignedIn(ctx context.Context, id int64) error {
	query := `UPDATE users SET last_signed_in = now(), updated_at = now() WHERE id = $1`

	if err := r.ExecOne(ctx, query, id); err != nil {
		return fmt.Errorf("touch last signed in: %w", err)
	}
	return nil
}
