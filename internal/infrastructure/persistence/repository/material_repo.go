package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/siteflow/siteflow/internal/application/port"
	"github.com/siteflow/siteflow/internal/domain/entity"
	"github.com/siteflow/siteflow/pkg/database"
)

// MaterialRepository implements port.MaterialRepository over SQLite.
type MaterialRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMaterialRepository creates a material repository.
func NewMaterialRepository(db *sql.DB, logger *zap.Logger) port.MaterialRepository {
	return &MaterialRepository{
		db:     db,
		logger: logger,
	}
}

const materialColumns = "id, code, name, unit, unit_cost, stock_quantity, created_at, updated_at"

// Create inserts a new material.
func (r *MaterialRepository) Create(ctx context.Context, material *entity.Material) error {
	query := `
		INSERT INTO materials (id, code, name, unit, unit_cost, stock_quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		material.ID, material.Code, material.Name, material.Unit,
		material.UnitCost.String(), material.StockQuantity.String(),
		material.CreatedAt, material.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create material", zap.String("code", material.Code), zap.Error(err))
		return fmt.Errorf("failed to create material: %w", err)
	}
	return nil
}

// GetByID retrieves a material by id, returning nil when absent.
func (r *MaterialRepository) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	query := fmt.Sprintf("SELECT %s FROM materials WHERE id = ?", materialColumns)

	material, err := scanMaterial(database.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get material", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get material: %w", err)
	}
	return material, nil
}

// List returns materials ordered by creation time.
func (r *MaterialRepository) List(ctx context.Context, limit, offset int) ([]*entity.Material, error) {
	query := fmt.Sprintf("SELECT %s FROM materials ORDER BY created_at DESC LIMIT ? OFFSET ?", materialColumns)

	rows, err := database.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list materials", zap.Error(err))
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	defer rows.Close()

	var materials []*entity.Material
	for rows.Next() {
		material, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, material)
	}
	return materials, rows.Err()
}

// Update overwrites mutable material fields.
func (r *MaterialRepository) Update(ctx context.Context, material *entity.Material) error {
	query := `
		UPDATE materials SET code = ?, name = ?, unit = ?, unit_cost = ?, stock_quantity = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		material.Code, material.Name, material.Unit, material.UnitCost.String(),
		material.StockQuantity.String(), time.Now().UTC(), material.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update material", zap.String("id", material.ID), zap.Error(err))
		return fmt.Errorf("failed to update material: %w", err)
	}
	return nil
}

// Delete removes a material.
func (r *MaterialRepository) Delete(ctx context.Context, id string) error {
	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, "DELETE FROM materials WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete material", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete material: %w", err)
	}
	return nil
}

func scanMaterial(s scanner) (*entity.Material, error) {
	var (
		material entity.Material
		unitCost string
		stock    string
	)
	if err := s.Scan(
		&material.ID, &material.Code, &material.Name, &material.Unit,
		&unitCost, &stock, &material.CreatedAt, &material.UpdatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if material.UnitCost, err = decimal.NewFromString(unitCost); err != nil {
		return nil, fmt.Errorf("invalid unit cost %q: %w", unitCost, err)
	}
	if material.StockQuantity, err = decimal.NewFromString(stock); err != nil {
		return nil, fmt.Errorf("invalid stock quantity %q: %w", stock, err)
	}
	return &material, nil
}

// Verify interface compliance
var _ port.MaterialRepository = (*MaterialRepository)(nil)
