package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/siteflow/siteflow/internal/application/port"
	"github.com/siteflow/siteflow/internal/application/workflow"
	"github.com/siteflow/siteflow/internal/domain/entity"
)

// EquipmentInput carries the equipment fields for create and update.
type EquipmentInput struct {
	Code      string
	Name      string
	Type      string
	FuelType  string
	Status    string
	ProjectID *string
}

// EquipmentService manages machines and vehicles.
type EquipmentService interface {
	Create(ctx context.Context, in EquipmentInput) (*entity.Equipment, error)
	Get(ctx context.Context, id string) (*entity.Equipment, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Equipment, error)
	Update(ctx context.Context, id string, in EquipmentInput) (*entity.Equipment, error)
	Delete(ctx context.Context, id string) error
}

type equipmentServiceImpl struct {
	equipment port.EquipmentRepository
	logger    Logger
}

// NewEquipmentService creates a new EquipmentService
func NewEquipmentService(equipment port.EquipmentRepository, logger Logger) EquipmentService {
	return &equipmentServiceImpl{
		equipment: equipment,
		logger:    logger,
	}
}

var validEquipmentStatuses = map[string]bool{
	entity.EquipmentAvailable:   true,
	entity.EquipmentInUse:       true,
	entity.EquipmentMaintenance: true,
}

func (s *equipmentServiceImpl) Create(ctx context.Context, in EquipmentInput) (*entity.Equipment, error) {
	if strings.TrimSpace(in.Code) == "" {
		return nil, workflow.Validation("code", "is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, workflow.Validation("name", "is required")
	}

	status := in.Status
	if status == "" {
		status = entity.EquipmentAvailable
	}
	if !validEquipmentStatuses[status] {
		return nil, workflow.Validation("status", "unknown equipment status")
	}

	now := time.Now().UTC()
	equipment := &entity.Equipment{
		ID:        uuid.New().String(),
		Code:      strings.TrimSpace(in.Code),
		Name:      strings.TrimSpace(in.Name),
		Type:      strings.TrimSpace(in.Type),
		FuelType:  strings.TrimSpace(in.FuelType),
		Status:    status,
		ProjectID: in.ProjectID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.equipment.Create(ctx, equipment); err != nil {
		s.logger.Error("Failed to create equipment", "code", equipment.Code, "error", err)
		return nil, workflow.Internal(err)
	}
	return equipment, nil
}

func (s *equipmentServiceImpl) Get(ctx context.Context, id string) (*entity.Equipment, error) {
	equipment, err := s.equipment.GetByID(ctx, id)
	if err != nil {
		return nil, workflow.Internal(err)
	}
	if equipment == nil {
		return nil, notFound("equipment", id)
	}
	return equipment, nil
}

func (s *equipmentServiceImpl) List(ctx context.Context, limit, offset int) ([]*entity.Equipment, error) {
	items, err := s.equipment.List(ctx, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, workflow.Internal(err)
	}
	return items, nil
}

func (s *equipmentServiceImpl) Update(ctx context.Context, id string, in EquipmentInput) (*entity.Equipment, error) {
	equipment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if code := strings.TrimSpace(in.Code); code != "" {
		equipment.Code = code
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		equipment.Name = name
	}
	if in.Type != "" {
		equipment.Type = strings.TrimSpace(in.Type)
	}
	if in.FuelType != "" {
		equipment.FuelType = strings.TrimSpace(in.FuelType)
	}
	if in.Status != "" {
		if !validEquipmentStatuses[in.Status] {
			return nil, workflow.Validation("status", "unknown equipment status")
		}
		equipment.Status = in.Status
	}
	if in.ProjectID != nil {
		equipment.ProjectID = in.ProjectID
	}
	equipment.UpdatedAt = time.Now().UTC()

	if err := s.equipment.Update(ctx, equipment); err != nil {
		return nil, workflow.Internal(err)
	}
	return equipment, nil
}

func (s *equipmentServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.equipment.Delete(ctx, id); err != nil {
		return workflow.Internal(err)
	}
	return nil
}
