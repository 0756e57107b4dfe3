package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/siteflow/siteflow/internal/application/port"
	"github.com/siteflow/siteflow/internal/application/workflow"
	"github.com/siteflow/siteflow/internal/domain/entity"
	"github.com/siteflow/siteflow/internal/domain/quantity"
	domainwf "github.com/siteflow/siteflow/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// CreateRequestInput carries the fields a requester submits.
type CreateRequestInput struct {
	Kind              entity.Kind
	ProjectID         string
	ResourceID        string
	Purpose           string
	Unit              string
	RequestedQuantity decimal.Decimal
}

// RequestService creates and reads fuel and material requests. Lifecycle
// transitions go through the workflow engine, not here.
type RequestService interface {
	Create(ctx context.Context, in CreateRequestInput, caller entity.Caller) (*entity.Request, error)
	Get(ctx context.Context, id string) (*entity.Request, error)
	List(ctx context.Context, filter port.RequestFilter) ([]*entity.Request, error)
}

type requestServiceImpl struct {
	requests  port.RequestRepository
	projects  port.ProjectRepository
	equipment port.EquipmentRepository
	materials port.MaterialRepository
	logger    Logger
}

// NewRequestService creates a new RequestService
func NewRequestService(
	requests port.RequestRepository,
	projects port.ProjectRepository,
	equipment port.EquipmentRepository,
	materials port.MaterialRepository,
	logger Logger,
) RequestService {
	return &requestServiceImpl{
		requests:  requests,
		projects:  projects,
		equipment: equipment,
		materials: materials,
		logger:    logger,
	}
}

// Create validates the submission and stores a new PENDING request.
func (s *requestServiceImpl) Create(ctx context.Context, in CreateRequestInput, caller entity.Caller) (*entity.Request, error) {
	if !in.Kind.IsValid() {
		return nil, workflow.Validation("kind", "must be FUEL or MATERIAL")
	}
	if in.ProjectID == "" {
		return nil, workflow.Validation("project_id", "is required")
	}
	if in.ResourceID == "" {
		return nil, workflow.Validation("resource_id", "is required")
	}
	if err := quantity.Validate(in.RequestedQuantity, nil); err != nil {
		return nil, workflow.Validation("requested_quantity", err.Error())
	}

	project, err := s.projects.GetByID(ctx, in.ProjectID)
	if err != nil {
		return nil, workflow.Internal(err)
	}
	if project == nil {
		return nil, workflow.Validation("project_id", "unknown project")
	}
	if project.Status != entity.ProjectActive {
		return nil, workflow.Validation("project_id", "project is not active")
	}

	if err := s.checkResource(ctx, in.Kind, in.ResourceID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	req := &entity.Request{
		ID:                uuid.New().String(),
		RequestNumber:     newRequestNumber(in.Kind),
		Kind:              in.Kind,
		Status:            domainwf.StatePending,
		ProjectID:         in.ProjectID,
		ResourceID:        in.ResourceID,
		Purpose:           strings.TrimSpace(in.Purpose),
		Unit:              strings.TrimSpace(in.Unit),
		RequestedQuantity: in.RequestedQuantity,
		RequestedByID:     caller.ID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.requests.Create(ctx, req); err != nil {
		s.logger.Error("Failed to create request", "request_number", req.RequestNumber, "error", err)
		return nil, workflow.Internal(err)
	}

	s.logger.Info("Request created",
		"request_number", req.RequestNumber,
		"kind", string(req.Kind),
		"requested_by", caller.ID,
	)
	return req, nil
}

// checkResource verifies the request draws against a known resource of the
// right kind: equipment for fuel, materials for material.
func (s *requestServiceImpl) checkResource(ctx context.Context, kind entity.Kind, resourceID string) error {
	switch kind {
	case entity.KindFuel:
		eq, err := s.equipment.GetByID(ctx, resourceID)
		if err != nil {
			return workflow.Internal(err)
		}
		if eq == nil {
			return workflow.Validation("resource_id", "unknown equipment")
		}
	case entity.KindMaterial:
		mat, err := s.materials.GetByID(ctx, resourceID)
		if err != nil {
			return workflow.Internal(err)
		}
		if mat == nil {
			return workflow.Validation("resource_id", "unknown material")
		}
	}
	return nil
}

// Get returns a request by id.
func (s *requestServiceImpl) Get(ctx context.Context, id string) (*entity.Request, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, workflow.Internal(err)
	}
	if req == nil {
		return nil, workflow.NotFound(id)
	}
	return req, nil
}

// List returns requests matching the filter.
func (s *requestServiceImpl) List(ctx context.Context, filter port.RequestFilter) ([]*entity.Request, error) {
	requests, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, workflow.Internal(err)
	}
	return requests, nil
}

// newRequestNumber builds a human-readable number like FR-3F2A9C01.
func newRequestNumber(kind entity.Kind) string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:8]
	return fmt.Sprintf("%s-%s", kind.NumberPrefix(), fragment)
}
