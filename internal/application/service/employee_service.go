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

// EmployeeInput carries the employee fields for create and update.
type EmployeeInput struct {
	Name      string
	Email     string
	Phone     string
	Position  string
	ProjectID *string
}

// EmployeeService manages staff records and their project assignment.
type EmployeeService interface {
	Create(ctx context.Context, in EmployeeInput) (*entity.Employee, error)
	Get(ctx context.Context, id string) (*entity.Employee, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Employee, error)
	Update(ctx context.Context, id string, in EmployeeInput) (*entity.Employee, error)
	Delete(ctx context.Context, id string) error
}

type employeeServiceImpl struct {
	employees port.EmployeeRepository
	projects  port.ProjectRepository
	logger    Logger
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(employees port.EmployeeRepository, projects port.ProjectRepository, logger Logger) EmployeeService {
	return &employeeServiceImpl{
		employees: employees,
		projects:  projects,
		logger:    logger,
	}
}

func (s *employeeServiceImpl) Create(ctx context.Context, in EmployeeInput) (*entity.Employee, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, workflow.Validation("name", "is required")
	}
	if err := s.checkProject(ctx, in.ProjectID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	employee := &entity.Employee{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Position:  strings.TrimSpace(in.Position),
		ProjectID: in.ProjectID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.employees.Create(ctx, employee); err != nil {
		s.logger.Error("Failed to create employee", "name", employee.Name, "error", err)
		return nil, workflow.Internal(err)
	}
	return employee, nil
}

func (s *employeeServiceImpl) Get(ctx context.Context, id string) (*entity.Employee, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, workflow.Internal(err)
	}
	if employee == nil {
		return nil, notFound("employee", id)
	}
	return employee, nil
}

func (s *employeeServiceImpl) List(ctx context.Context, limit, offset int) ([]*entity.Employee, error) {
	employees, err := s.employees.List(ctx, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, workflow.Internal(err)
	}
	return employees, nil
}

func (s *employeeServiceImpl) Update(ctx context.Context, id string, in EmployeeInput) (*entity.Employee, error) {
	employee, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		employee.Name = name
	}
	if in.Email != "" {
		employee.Email = strings.TrimSpace(in.Email)
	}
	if in.Phone != "" {
		employee.Phone = strings.TrimSpace(in.Phone)
	}
	if in.Position != "" {
		employee.Position = strings.TrimSpace(in.Position)
	}
	if in.ProjectID != nil {
		if err := s.checkProject(ctx, in.ProjectID); err != nil {
			return nil, err
		}
		employee.ProjectID = in.ProjectID
	}
	employee.UpdatedAt = time.Now().UTC()

	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, workflow.Internal(err)
	}
	return employee, nil
}

func (s *employeeServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.employees.Delete(ctx, id); err != nil {
		return workflow.Internal(err)
	}
	return nil
}

func (s *employeeServiceImpl) checkProject(ctx context.Context, projectID *string) error {
	if projectID == nil || *projectID == "" {
		return nil
	}
	project, err := s.projects.GetByID(ctx, *projectID)
	if err != nil {
		return workflow.Internal(err)
	}
	if project == nil {
		return workflow.Validation("project_id", "unknown project")
	}
	return nil
}
