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

// CreateProjectInput carries the fields for a new project.
type CreateProjectInput struct {
	Name      string
	ClientID  string
	Location  string
	Budget    decimal.Decimal
	StartDate time.Time
	EndDate   *time.Time
}

// UpdateProjectInput carries the mutable project fields.
type UpdateProjectInput struct {
	Name     string
	Location string
	Status   string
	Budget   *decimal.Decimal
	EndDate  *time.Time
}

// ProjectService manages construction projects.
type ProjectService interface {
	Create(ctx context.Context, in CreateProjectInput) (*entity.Project, error)
	Get(ctx context.Context, id string) (*entity.Project, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Project, error)
	Update(ctx context.Context, id string, in UpdateProjectInput) (*entity.Project, error)
	Delete(ctx context.Context, id string) error
}

type projectServiceImpl struct {
	projects port.ProjectRepository
	clients  port.ClientRepository
	logger   Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(projects port.ProjectRepository, clients port.ClientRepository, logger Logger) ProjectService {
	return &projectServiceImpl{
		projects: projects,
		clients:  clients,
		logger:   logger,
	}
}

var validProjectStatuses = map[string]bool{
	entity.ProjectActive:    true,
	entity.ProjectOnHold:    true,
	entity.ProjectCompleted: true,
}

func (s *projectServiceImpl) Create(ctx context.Context, in CreateProjectInput) (*entity.Project, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, workflow.Validation("name", "is required")
	}
	if in.ClientID == "" {
		return nil, workflow.Validation("client_id", "is required")
	}
	if in.StartDate.IsZero() {
		return nil, workflow.Validation("start_date", "is required")
	}
	if in.Budget.IsNegative() {
		return nil, workflow.Validation("budget", "cannot be negative")
	}

	client, err := s.clients.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, workflow.Internal(err)
	}
	if client == nil {
		return nil, workflow.Validation("client_id", "unknown client")
	}

	now := time.Now().UTC()
	project := &entity.Project{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		ClientID:  in.ClientID,
		Location:  strings.TrimSpace(in.Location),
		Status:    entity.ProjectActive,
		Budget:    in.Budget,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.projects.Create(ctx, project); err != nil {
		s.logger.Error("Failed to create project", "name", project.Name, "error", err)
		return nil, workflow.Internal(err)
	}

	s.logger.Info("Project created", "project_id", project.ID, "name", project.Name)
	return project, nil
}

func (s *projectServiceImpl) Get(ctx context.Context, id string) (*entity.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, workflow.Internal(err)
	}
	if project == nil {
		return nil, notFound("project", id)
	}
	return project, nil
}

func (s *projectServiceImpl) List(ctx context.Context, limit, offset int) ([]*entity.Project, error) {
	projects, err := s.projects.List(ctx, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, workflow.Internal(err)
	}
	return projects, nil
}

func (s *projectServiceImpl) Update(ctx context.Context, id string, in UpdateProjectInput) (*entity.Project, error) {
	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		project.Name = name
	}
	if location := strings.TrimSpace(in.Location); location != "" {
		project.Location = location
	}
	if in.Status != "" {
		if !validProjectStatuses[in.Status] {
			return nil, workflow.Validation("status", "unknown project status")
		}
		project.Status = in.Status
	}
	if in.Budget != nil {
		if in.Budget.IsNegative() {
			return nil, workflow.Validation("budget", "cannot be negative")
		}
		project.Budget = *in.Budget
	}
	if in.EndDate != nil {
		project.EndDate = in.EndDate
	}
	project.UpdatedAt = time.Now().UTC()

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, workflow.Internal(err)
	}
	return project, nil
}

func (s *projectServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return workflow.Internal(err)
	}
	s.logger.Info("Project deleted", "project_id", id)
	return nil
}
