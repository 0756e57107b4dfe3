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
)

// CreateInvoiceInput carries the fields for a new invoice.
type CreateInvoiceInput struct {
	ProjectID string
	Amount    decimal.Decimal
	IssueDate time.Time
	DueDate   time.Time
	Notes     string
}

// UpdateInvoiceInput carries the mutable invoice fields.
type UpdateInvoiceInput struct {
	Amount  *decimal.Decimal
	Status  string
	DueDate *time.Time
	Notes   string
}

// InvoiceService manages project billing.
type InvoiceService interface {
	Create(ctx context.Context, in CreateInvoiceInput) (*entity.Invoice, error)
	Get(ctx context.Context, id string) (*entity.Invoice, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error)
	ListByProject(ctx context.Context, projectID string) ([]*entity.Invoice, error)
	Update(ctx context.Context, id string, in UpdateInvoiceInput) (*entity.Invoice, error)
	Delete(ctx context.Context, id string) error
}

type invoiceServiceImpl struct {
	invoices port.InvoiceRepository
	projects port.ProjectRepository
	logger   Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoices port.InvoiceRepository, projects port.ProjectRepository, logger Logger) InvoiceService {
	return &invoiceServiceImpl{
		invoices: invoices,
		projects: projects,
		logger:   logger,
	}
}

var validInvoiceStatuses = map[string]bool{
	entity.InvoiceDraft:   true,
	entity.InvoiceSent:    true,
	entity.InvoicePaid:    true,
	entity.InvoiceOverdue: true,
}

func (s *invoiceServiceImpl) Create(ctx context.Context, in CreateInvoiceInput) (*entity.Invoice, error) {
	if in.ProjectID == "" {
		return nil, workflow.Validation("project_id", "is required")
	}
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, workflow.Validation("amount", "must be greater than 0")
	}
	if in.IssueDate.IsZero() {
		return nil, workflow.Validation("issue_date", "is required")
	}
	if in.DueDate.IsZero() || in.DueDate.Before(in.IssueDate) {
		return nil, workflow.Validation("due_date", "must be on or after the issue date")
	}

	project, err := s.projects.GetByID(ctx, in.ProjectID)
	if err != nil {
		return nil, workflow.Internal(err)
	}
	if project == nil {
		return nil, workflow.Validation("project_id", "unknown project")
	}

	now := time.Now().UTC()
	invoice := &entity.Invoice{
		ID:            uuid.New().String(),
		InvoiceNumber: newInvoiceNumber(),
		ProjectID:     in.ProjectID,
		ClientID:      project.ClientID,
		Amount:        in.Amount,
		Status:        entity.InvoiceDraft,
		IssueDate:     in.IssueDate,
		DueDate:       in.DueDate,
		Notes:         strings.TrimSpace(in.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.invoices.Create(ctx, invoice); err != nil {
		s.logger.Error("Failed to create invoice", "invoice_number", invoice.InvoiceNumber, "error", err)
		return nil, workflow.Internal(err)
	}

	s.logger.Info("Invoice created", "invoice_number", invoice.InvoiceNumber, "project_id", in.ProjectID)
	return invoice, nil
}

func (s *invoiceServiceImpl) Get(ctx context.Context, id string) (*entity.Invoice, error) {
	invoice, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, workflow.Internal(err)
	}
	if invoice == nil {
		return nil, notFound("invoice", id)
	}
	return invoice, nil
}

func (s *invoiceServiceImpl) List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error) {
	invoices, err := s.invoices.List(ctx, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, workflow.Internal(err)
	}
	return invoices, nil
}

func (s *invoiceServiceImpl) ListByProject(ctx context.Context, projectID string) ([]*entity.Invoice, error) {
	invoices, err := s.invoices.ListByProject(ctx, projectID)
	if err != nil {
		return nil, workflow.Internal(err)
	}
	return invoices, nil
}

func (s *invoiceServiceImpl) Update(ctx context.Context, id string, in UpdateInvoiceInput) (*entity.Invoice, error) {
	invoice, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Amount != nil {
		if in.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, workflow.Validation("amount", "must be greater than 0")
		}
		invoice.Amount = *in.Amount
	}
	if in.Status != "" {
		if !validInvoiceStatuses[in.Status] {
			return nil, workflow.Validation("status", "unknown invoice status")
		}
		invoice.Status = in.Status
		if in.Status == entity.InvoicePaid && invoice.PaidAt == nil {
			paidAt := time.Now().UTC()
			invoice.PaidAt = &paidAt
		}
	}
	if in.DueDate != nil {
		invoice.DueDate = *in.DueDate
	}
	if in.Notes != "" {
		invoice.Notes = strings.TrimSpace(in.Notes)
	}
	invoice.UpdatedAt = time.Now().UTC()

	if err := s.invoices.Update(ctx, invoice); err != nil {
		return nil, workflow.Internal(err)
	}
	return invoice, nil
}

func (s *invoiceServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.invoices.Delete(ctx, id); err != nil {
		return workflow.Internal(err)
	}
	return nil
}

// newInvoiceNumber builds a number like INV-9C01D2E4.
func newInvoiceNumber() string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:8]
	return fmt.Sprintf("INV-%s", fragment)
}
