package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/siteflow/siteflow/internal/application/port"
	"github.com/siteflow/siteflow/internal/application/workflow"
	"github.com/siteflow/siteflow/internal/domain/entity"
)

// MaterialInput carries the material fields for create and update.
type MaterialInput struct {
	Code          string
	Name          string
	Unit          string
	UnitCost      *decimal.Decimal
	StockQuantity *decimal.Decimal
}

// MaterialService manages stock items.
type MaterialService interface {
	Create(ctx context.Context, in MaterialInput) (*entity.Material, error)
	Get(ctx context.Context, id string) (*entity.Material, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Material, error)
	Update(ctx context.Context, id string, in MaterialInput) (*entity.Material, error)
	Delete(ctx context.Context, id string) error
}

type materialServiceImpl struct {
	materials port.MaterialRepository
	logger    Logger
}

// NewMaterialService creates a new MaterialService
func NewMaterialService(materials port.MaterialRepository, logger Logger) MaterialService {
	return &materialServiceImpl{
		materials: materials,
		logger:    logger,
	}
}

func (s *materialServiceImpl) Create(ctx context.Context, in MaterialInput) (*entity.Material, error) {
	if strings.TrimSpace(in.Code) == "" {
		return nil, workflow.Validation("code", "is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, workflow.Validation("name", "is required")
	}
	if strings.TrimSpace(in.Unit) == "" {
		return nil, workflow.Validation("unit", "is required")
	}

	unitCost := decimal.Zero
	if in.UnitCost != nil {
		if in.UnitCost.IsNegative() {
			return nil, workflow.Validation("unit_cost", "cannot be negative")
		}
		unitCost = *in.UnitCost
	}
	stock := decimal.Zero
	if in.StockQuantity != nil {
		if in.StockQuantity.IsNegative() {
			return nil, workflow.Validation("stock_quantity", "cannot be negative")
		}
		stock = *in.StockQuantity
	}

	now := time.Now().UTC()
	material := &entity.Material{
		ID:            uuid.New().String(),
		Code:          strings.TrimSpace(in.Code),
		Name:          strings.TrimSpace(in.Name),
		Unit:          strings.TrimSpace(in.Unit),
		UnitCost:      unitCost,
		StockQuantity: stock,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.materials.Create(ctx, material); err != nil {
		s.logger.Error("Failed to create material", "code", material.Code, "error", err)
		return nil, workflow.Internal(err)
	}
	return material, nil
}

func (s *materialServiceImpl) Get(ctx context.Context, id string) (*entity.Material, error) {
	material, err := s.materials.GetByID(ctx, id)
	if err != nil {
		return nil, workflow.Internal(err)
	}
	if material == nil {
		return nil, notFound("material", id)
	}
	return material, nil
}

func (s *materialServiceImpl) List(ctx context.Context, limit, offset int) ([]*entity.Material, error) {
	materials, err := s.materials.List(ctx, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, workflow.Internal(err)
	}
	return materials, nil
}

func (s *materialServiceImpl) Update(ctx context.Context, id string, in MaterialInput) (*entity.Material, error) {
	material, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if code := strings.TrimSpace(in.Code); code != "" {
		material.Code = code
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		material.Name = name
	}
	if unit := strings.TrimSpace(in.Unit); unit != "" {
		material.Unit = unit
	}
	if in.UnitCost != nil {
		if in.UnitCost.IsNegative() {
			return nil, workflow.Validation("unit_cost", "cannot be negative")
		}
		material.UnitCost = *in.UnitCost
	}
	if in.StockQuantity != nil {
		if in.StockQuantity.IsNegative() {
			return nil, workflow.Validation("stock_quantity", "cannot be negative")
		}
		material.StockQuantity = *in.StockQuantity
	}
	material.UpdatedAt = time.Now().UTC()

	if err := s.materials.Update(ctx, material); err != nil {
		return nil, workflow.Internal(err)
	}
	return material, nil
}

func (s *materialServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.materials.Delete(ctx, id); err != nil {
		return workflow.Internal(err)
	}
	return nil
}
