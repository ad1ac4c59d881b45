package model

import "time"

// Discount types
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

type Discount struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description"`
	DiscountType  string    `json:"discount_type"`
	DiscountValue int       `json:"discount_value"` // процент или сумма
	Company       string    `json:"company"`
	ImageURL      *string   `json:"image_url"`
	IsActive      bool      `json:"is_active"`
	CreatedBy     int64     `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type DiscountPatch struct {
	Title         Optional[string]  `json:"title"`
	Description   Optional[*string] `json:"description"`
	DiscountType  Optional[string]  `json:"discount_type"`
	DiscountValue Optional[int]     `json:"discount_value"`
	Company       Optional[string]  `json:"company"`
	ImageURL      Optional[*string] `json:"image_url"`
	IsActive      Optional[bool]    `json:"is_active"`
}

func (p *DiscountPatch) IsEmpty() bool {
	return !p.Title.Set && !p.Description.Set && !p.DiscountType.Set && !p.DiscountValue.Set &&
		!p.Company.Set && !p.ImageURL.Set && !p.IsActive.Set
}
