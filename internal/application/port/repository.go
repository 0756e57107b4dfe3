package port

import (
	"context"
	"errors"

	"github.com/siteflow/siteflow/internal/domain/entity"
	"github.com/siteflow/siteflow/internal/domain/workflow"
)

// ErrStatusConflict is returned by a conditional stage update when the stored
// status no longer matches the expected prior status. A concurrent transition
// won the race; the caller reports it as an invalid-state failure.
var ErrStatusConflict = errors.New("request status changed concurrently")

// RequestFilter narrows request listings.
type RequestFilter struct {
	Kind          entity.Kind
	Status        workflow.State
	ProjectID     string
	RequestedByID string
	Limit         int
	Offset        int
}

// RequestRepository defines persistence operations for fuel and material
// requests. The repository exclusively owns the stored row; the workflow
// engine re-reads before every transition and never caches across calls.
type RequestRepository interface {
	Create(ctx context.Context, req *entity.Request) error

	// GetByID returns nil without error when the id is unknown.
	GetByID(ctx context.Context, id string) (*entity.Request, error)
	GetByRequestNumber(ctx context.Context, number string) (*entity.Request, error)
	List(ctx context.Context, filter RequestFilter) ([]*entity.Request, error)

	// UpdateStage applies a transition patch atomically, guarded by
	// `WHERE id=? AND status=?` on the expected prior status. It returns
	// ErrStatusConflict when the guard misses an existing row.
	UpdateStage(ctx context.Context, id string, expected workflow.State, patch entity.StagePatch) error
}

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Deactivate(ctx context.Context, id string) error
}

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Project, error)
	Update(ctx context.Context, project *entity.Project) error
	Delete(ctx context.Context, id string) error
}

// ClientRepository defines persistence operations for clients.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, id string) error
}

// EmployeeRepository defines persistence operations for employees.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *entity.Employee) error
	GetByID(ctx context.Context, id string) (*entity.Employee, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Employee, error)
	Update(ctx context.Context, employee *entity.Employee) error
	Delete(ctx context.Context, id string) error
}

// EquipmentRepository defines persistence operations for equipment.
type EquipmentRepository interface {
	Create(ctx context.Context, equipment *entity.Equipment) error
	GetByID(ctx context.Context, id string) (*entity.Equipment, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Equipment, error)
	Update(ctx context.Context, equipment *entity.Equipment) error
	Delete(ctx context.Context, id string) error
}

// MaterialRepository defines persistence operations for materials.
type MaterialRepository interface {
	Create(ctx context.Context, material *entity.Material) error
	GetByID(ctx context.Context, id string) (*entity.Material, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Material, error)
	Update(ctx context.Context, material *entity.Material) error
	Delete(ctx context.Context, id string) error
}

// InvoiceRepository defines persistence operations for invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error)
	ListByProject(ctx context.Context, projectID string) ([]*entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	Delete(ctx context.Context, id string) error
}

// TransactionManager runs a function within a database transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
