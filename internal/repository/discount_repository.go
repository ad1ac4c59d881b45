package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/Freeeeeet/edu_platform/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

const discountColumns = `id, title, description, discount_type, discount_value, company, image_url, is_active, created_by, created_at, updated_at`

type DiscountRepository struct {
	*base.Repository
}

func NewDiscountRepository(pool *pgxpool.Pool) *DiscountRepository {
	return &DiscountRepository{Repository: base.NewRepository(pool)}
}

func scanDiscount(row base.Scanner) (*model.Discount, error) {
	var d model.Discount
	err := row.Scan(
		&d.ID,
		&d.Title,
		&d.Description,
		&d.DiscountType,
		&d.DiscountValue,
		&d.Company,
		&d.ImageURL,
		&d.IsActive,
		&d.CreatedBy,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create создаёт скидку
func (r *DiscountRepository) Create(ctx context.Context, d *model.Discount) error {
	query := `
		INSERT INTO discounts (title, description, discount_type, discount_value, company, image_url, is_active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		d.Title,
		d.Description,
		d.DiscountType,
		d.DiscountValue,
		d.Company,
		d.ImageURL,
		d.IsActive,
		d.CreatedBy,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create discount: %w", err)
	}

	return nil
}

// GetActive получает активные скидки
func (r *DiscountRepository) GetActive(ctx context.Context) ([]*model.Discount, error) {
	query := `SELECT ` + discountColumns + ` FROM discounts WHERE is_active = true ORDER BY created_at DESC, id DESC`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get active discounts: %w", err)
	}

	items, err := base.CollectRows(rows, scanDiscount)
	if err != nil {
		return nil, fmt.Errorf("scan discount: %w", err)
	}

	return items, nil
}

// Update применяет частичное обновление скидки
func (r *DiscountRepository) Update(ctx context.Context, id int64, patch *model.DiscountPatch) error {
	u := base.NewUpdate("discounts")
	base.SetOptional(u, "title", patch.Title)
	base.SetOptional(u, "description", patch.Description)
	base.SetOptional(u, "discount_type", patch.DiscountType)
	base.SetOptional(u, "discount_value", patch.DiscountValue)
	base.SetOptional(u, "company", patch.Company)
	base.SetOptional(u, "image_url", patch.ImageURL)
	base.SetOptional(u, "is_active", patch.IsActive)

	query, args := u.Build(id)
	if err := r.ExecOne(ctx, query, args...); err != nil {
		return fmt.Errorf("update discount %d: %w", id, err)
	}

	return nil
}

// Delete удаляет скидку
func (r *DiscountRepository) Delete(ctx context.Context, id int64) error {
	if err := r.ExecOne(ctx, `DELETE FROM discounts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete discount %d: %w", id, err)
	}
	return nil
}
