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

// InvoiceRepository implements port.InvoiceRepository over SQLite.
type InvoiceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates an invoice repository.
func NewInvoiceRepository(db *sql.DB, logger *zap.Logger) port.InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

const invoiceColumns = "id, invoice_number, project_id, client_id, amount, status, issue_date, due_date, paid_at, notes, created_at, updated_at"

// Create inserts a new invoice.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, invoice_number, project_id, client_id, amount, status, issue_date, due_date, paid_at, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		invoice.ID, invoice.InvoiceNumber, invoice.ProjectID, invoice.ClientID,
		invoice.Amount.String(), invoice.Status, invoice.IssueDate, invoice.DueDate,
		invoice.PaidAt, nullString(invoice.Notes),
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create invoice", zap.String("invoice_number", invoice.InvoiceNumber), zap.Error(err))
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

// GetByID retrieves an invoice by id, returning nil when absent.
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := fmt.Sprintf("SELECT %s FROM invoices WHERE id = ?", invoiceColumns)

	invoice, err := scanInvoice(database.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get invoice", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return invoice, nil
}

// List returns invoices ordered by creation time.
func (r *InvoiceRepository) List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error) {
	query := fmt.Sprintf("SELECT %s FROM invoices ORDER BY created_at DESC LIMIT ? OFFSET ?", invoiceColumns)

	rows, err := database.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list invoices", zap.Error(err))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	return collectInvoices(rows)
}

// ListByProject returns all invoices attached to a project.
func (r *InvoiceRepository) ListByProject(ctx context.Context, projectID string) ([]*entity.Invoice, error) {
	query := fmt.Sprintf("SELECT %s FROM invoices WHERE project_id = ? ORDER BY created_at DESC", invoiceColumns)

	rows, err := database.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to list project invoices", zap.String("project_id", projectID), zap.Error(err))
		return nil, fmt.Errorf("failed to list project invoices: %w", err)
	}
	defer rows.Close()

	return collectInvoices(rows)
}

// Update overwrites mutable invoice fields.
func (r *InvoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		UPDATE invoices SET amount = ?, status = ?, issue_date = ?, due_date = ?, paid_at = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		invoice.Amount.String(), invoice.Status, invoice.IssueDate, invoice.DueDate,
		invoice.PaidAt, nullString(invoice.Notes),
		time.Now().UTC(), invoice.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update invoice", zap.String("id", invoice.ID), zap.Error(err))
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	return nil
}

// Delete removes an invoice.
func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, "DELETE FROM invoices WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete invoice", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	return nil
}

func collectInvoices(rows *sql.Rows) ([]*entity.Invoice, error) {
	var invoices []*entity.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}

func scanInvoice(s scanner) (*entity.Invoice, error) {
	var (
		invoice entity.Invoice
		amount  string
		paidAt  sql.NullTime
		notes   sql.NullString
	)
	if err := s.Scan(
		&invoice.ID, &invoice.InvoiceNumber, &invoice.ProjectID, &invoice.ClientID,
		&amount, &invoice.Status, &invoice.IssueDate, &invoice.DueDate, &paidAt, &notes,
		&invoice.CreatedAt, &invoice.UpdatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if invoice.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("invalid invoice amount %q: %w", amount, err)
	}
	invoice.PaidAt = timePtr(paidAt)
	invoice.Notes = notes.String
	return &invoice, nil
}

// Verify interface compliance
var _ port.InvoiceRepository = (*InvoiceRepository)(nil)
