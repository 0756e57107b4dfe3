package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/siteflow/siteflow/internal/application/port"
	"github.com/siteflow/siteflow/internal/domain/entity"
	"github.com/siteflow/siteflow/pkg/database"
)

// EquipmentRepository implements port.EquipmentRepository over SQLite.
type EquipmentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewEquipmentRepository creates an equipment repository.
func NewEquipmentRepository(db *sql.DB, logger *zap.Logger) port.EquipmentRepository {
	return &EquipmentRepository{
		db:     db,
		logger: logger,
	}
}

const equipmentColumns = "id, code, name, type, fuel_type, status, project_id, created_at, updated_at"

// Create inserts a new equipment item.
func (r *EquipmentRepository) Create(ctx context.Context, equipment *entity.Equipment) error {
	query := `
		INSERT INTO equipment (id, code, name, type, fuel_type, status, project_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		equipment.ID, equipment.Code, equipment.Name, nullString(equipment.Type),
		nullString(equipment.FuelType), equipment.Status, equipment.ProjectID,
		equipment.CreatedAt, equipment.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create equipment", zap.String("code", equipment.Code), zap.Error(err))
		return fmt.Errorf("failed to create equipment: %w", err)
	}
	return nil
}

// GetByID retrieves an equipment item by id, returning nil when absent.
func (r *EquipmentRepository) GetByID(ctx context.Context, id string) (*entity.Equipment, error) {
	query := fmt.Sprintf("SELECT %s FROM equipment WHERE id = ?", equipmentColumns)

	equipment, err := scanEquipment(database.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get equipment", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get equipment: %w", err)
	}
	return equipment, nil
}

// List returns equipment ordered by creation time.
func (r *EquipmentRepository) List(ctx context.Context, limit, offset int) ([]*entity.Equipment, error) {
	query := fmt.Sprintf("SELECT %s FROM equipment ORDER BY created_at DESC LIMIT ? OFFSET ?", equipmentColumns)

	rows, err := database.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list equipment", zap.Error(err))
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	defer rows.Close()

	var items []*entity.Equipment
	for rows.Next() {
		item, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Update overwrites mutable equipment fields.
func (r *EquipmentRepository) Update(ctx context.Context, equipment *entity.Equipment) error {
	query := `
		UPDATE equipment SET code = ?, name = ?, type = ?, fuel_type = ?, status = ?, project_id = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		equipment.Code, equipment.Name, nullString(equipment.Type), nullString(equipment.FuelType),
		equipment.Status, equipment.ProjectID, time.Now().UTC(), equipment.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update equipment", zap.String("id", equipment.ID), zap.Error(err))
		return fmt.Errorf("failed to update equipment: %w", err)
	}
	return nil
}

// Delete removes an equipment item.
func (r *EquipmentRepository) Delete(ctx context.Context, id string) error {
	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, "DELETE FROM equipment WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete equipment", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete equipment: %w", err)
	}
	return nil
}

func scanEquipment(s scanner) (*entity.Equipment, error) {
	var (
		equipment entity.Equipment
		eqType    sql.NullString
		fuelType  sql.NullString
		projectID sql.NullString
	)
	if err := s.Scan(
		&equipment.ID, &equipment.Code, &equipment.Name, &eqType, &fuelType,
		&equipment.Status, &projectID, &equipment.CreatedAt, &equipment.UpdatedAt,
	); err != nil {
		return nil, err
	}
	equipment.Type = eqType.String
	equipment.FuelType = fuelType.String
	equipment.ProjectID = strPtr(projectID)
	return &equipment, nil
}

// Verify interface compliance
var _ port.EquipmentRepository = (*EquipmentRepository)(nil)
