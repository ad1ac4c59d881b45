package service

import (
	"context"
	"strings"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"go.uber.org/zap"
)

type DiscountRepo interface {
	Create(ctx context.Context, d *model.Discount) error
	GetActive(ctx context.Context) ([]*model.Discount, error)
	Update(ctx context.Context, id int64, patch *model.DiscountPatch) error
	Delete(ctx context.Context, id int64) error
}

type CreateDiscountInput struct {
	Title         string  `json:"title" validate:"notblank,max=255"`
	Description   *string `json:"description"`
	DiscountType  string  `json:"discount_type" validate:"oneof=percentage fixed"`
	DiscountValue int     `json:"discount_value" validate:"gt=0"`
	Company       string  `json:"company" validate:"notblank,max=255"`
	ImageURL      *string `json:"image_url" validate:"omitempty,url"`
	IsActive      *bool   `json:"is_active"`
}

type DiscountService struct {
	discounts DiscountRepo
	logger    *zap.Logger
}

func NewDiscountService(discounts DiscountRepo, logger *zap.Logger) *DiscountService {
	return &DiscountService{
		discounts: discounts,
		logger:    logger,
	}
}

func (s *DiscountService) ListActive(ctx context.Context) ([]*model.Discount, error) {
	items, err := s.discounts.GetActive(ctx)
	if err != nil {
		return nil, storageErr("get active discounts", err)
	}
	return items, nil
}

func (s *DiscountService) Create(ctx context.Context, createdBy int64, in CreateDiscountInput) (*model.Discount, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if in.DiscountType == model.DiscountTypePercentage && in.DiscountValue > 100 {
		return nil, invalidField("discount_value", "percentage discount must be between 1 and 100")
	}

	d := &model.Discount{
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		DiscountType:  in.DiscountType,
		DiscountValue: in.DiscountValue,
		Company:       strings.TrimSpace(in.Company),
		ImageURL:      in.ImageURL,
		IsActive:      true,
		CreatedBy:     createdBy,
	}
	if in.IsActive != nil {
		d.IsActive = *in.IsActive
	}

	if err := s.discounts.Create(ctx, d); err != nil {
		return nil, storageErr("create discount", err)
	}

	s.logger.Info("Discount created",
		zap.Int64("discount_id", d.ID),
		zap.String("company", d.Company))

	return d, nil
}

func (s *DiscountService) Update(ctx context.Context, id int64, patch *model.DiscountPatch) error {
	if patch.IsEmpty() {
		return invalidField("patch", "at least one field must be set")
	}
	if patch.Title.Set && (patch.Title.Null || strings.TrimSpace(patch.Title.Value) == "") {
		return invalidField("title", "this field cannot be blank")
	}
	if patch.Company.Set && (patch.Company.Null || strings.TrimSpace(patch.Company.Value) == "") {
		return invalidField("company", "this field cannot be blank")
	}
	if patch.DiscountType.Set && patch.DiscountType.Value != model.DiscountTypePercentage &&
		patch.DiscountType.Value != model.DiscountTypeFixed {
		return invalidField("discount_type", "discount_type must be one of [percentage fixed]")
	}
	if patch.DiscountValue.Set && (patch.DiscountValue.Null || patch.DiscountValue.Value <= 0) {
		return invalidField("discount_value", "discount_value must be greater than 0")
	}
	if patch.IsActive.Set && patch.IsActive.Null {
		return invalidField("is_active", "this field cannot be null")
	}

	if err := s.discounts.Update(ctx, id, patch); err != nil {
		return repoErr("update discount", err)
	}

	s.logger.Info("Discount updated", zap.Int64("discount_id", id))
	return nil
}

func (s *DiscountService) Delete(ctx context.Context, id int64) error {
	if err := s.discounts.Delete(ctx, id); err != nil {
		return repoErr("delete discount", err)
	}

	s.logger.Info("Discount deleted", zap.Int64("discount_id", id))
	return nil
}
