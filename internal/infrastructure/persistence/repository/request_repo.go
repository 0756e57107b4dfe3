package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/siteflow/siteflow/internal/application/port"
	"github.com/siteflow/siteflow/internal/domain/entity"
	"github.com/siteflow/siteflow/internal/domain/workflow"
	"github.com/siteflow/siteflow/pkg/database"
)

// RequestRepository implements port.RequestRepository over SQLite.
type RequestRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRequestRepository creates a request repository.
func NewRequestRepository(db *sql.DB, logger *zap.Logger) port.RequestRepository {
	return &RequestRepository{
		db:     db,
		logger: logger,
	}
}

const requestColumns = `
	id, request_number, kind, status, project_id, resource_id, purpose, unit,
	requested_quantity, requested_by_id,
	approved_by_id, approval_date, approved_quantity, approval_comments, rejection_reason,
	issued_by_id, issuance_date, issued_quantity, issuance_comments,
	acknowledged_by_id, acknowledgment_date, acknowledged_quantity, acknowledgment_comments,
	completed_by_id, completion_date, completion_comments,
	cancellation_reason, cancelled_at,
	created_at, updated_at
`

// Create inserts a new request in PENDING status.
func (r *RequestRepository) Create(ctx context.Context, req *entity.Request) error {
	query := `
		INSERT INTO requests (
			id, request_number, kind, status, project_id, resource_id, purpose, unit,
			requested_quantity, requested_by_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		req.ID,
		req.RequestNumber,
		string(req.Kind),
		req.Status.String(),
		req.ProjectID,
		req.ResourceID,
		nullString(req.Purpose),
		nullString(req.Unit),
		req.RequestedQuantity.String(),
		req.RequestedByID,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create request", zap.String("request_number", req.RequestNumber), zap.Error(err))
		return fmt.Errorf("failed to create request: %w", err)
	}

	return nil
}

// GetByID retrieves a request by id, returning nil when absent.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*entity.Request, error) {
	query := fmt.Sprintf("SELECT %s FROM requests WHERE id = ?", requestColumns)
	row := database.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, id)

	req, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get request by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return req, nil
}

// GetByRequestNumber retrieves a request by its human-readable number.
func (r *RequestRepository) GetByRequestNumber(ctx context.Context, number string) (*entity.Request, error) {
	query := fmt.Sprintf("SELECT %s FROM requests WHERE request_number = ?", requestColumns)
	row := database.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, number)

	req, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get request by number", zap.String("request_number", number), zap.Error(err))
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return req, nil
}

// List returns requests matching the filter, newest first.
func (r *RequestRepository) List(ctx context.Context, filter port.RequestFilter) ([]*entity.Request, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status.String())
	}
	if filter.ProjectID != "" {
		conditions = append(conditions, "project_id = ?")
		args = append(args, filter.ProjectID)
	}
	if filter.RequestedByID != "" {
		conditions = append(conditions, "requested_by_id = ?")
		args = append(args, filter.RequestedByID)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(
		"SELECT %s FROM requests WHERE %s ORDER BY created_at DESC LIMIT ? OFFSET ?",
		requestColumns, strings.Join(conditions, " AND "),
	)
	args = append(args, limit, offset)

	rows, err := database.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list requests", zap.Error(err))
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var requests []*entity.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// UpdateStage applies a transition patch guarded by the expected prior status.
// The status predicate makes a losing concurrent writer miss the row, which
// surfaces as ErrStatusConflict rather than a silent overwrite.
func (r *RequestRepository) UpdateStage(ctx context.Context, id string, expected workflow.State, patch entity.StagePatch) error {
	sets := []string{"status = ?", "updated_at = ?"}
	args := []interface{}{patch.Status.String(), time.Now().UTC()}

	set := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if patch.ApprovedByID != nil {
		set("approved_by_id", *patch.ApprovedByID)
	}
	if patch.ApprovalDate != nil {
		set("approval_date", *patch.ApprovalDate)
	}
	if patch.ApprovedQuantity != nil {
		set("approved_quantity", patch.ApprovedQuantity.String())
	}
	if patch.ApprovalComments != nil {
		set("approval_comments", *patch.ApprovalComments)
	}
	if patch.RejectionReason != nil {
		set("rejection_reason", *patch.RejectionReason)
	}
	if patch.IssuedByID != nil {
		set("issued_by_id", *patch.IssuedByID)
	}
	if patch.IssuanceDate != nil {
		set("issuance_date", *patch.IssuanceDate)
	}
	if patch.IssuedQuantity != nil {
		set("issued_quantity", patch.IssuedQuantity.String())
	}
	if patch.IssuanceComments != nil {
		set("issuance_comments", *patch.IssuanceComments)
	}
	if patch.AcknowledgedByID != nil {
		set("acknowledged_by_id", *patch.AcknowledgedByID)
	}
	if patch.AcknowledgmentDate != nil {
		set("acknowledgment_date", *patch.AcknowledgmentDate)
	}
	if patch.AcknowledgedQuantity != nil {
		set("acknowledged_quantity", patch.AcknowledgedQuantity.String())
	}
	if patch.AcknowledgmentComments != nil {
		set("acknowledgment_comments", *patch.AcknowledgmentComments)
	}
	if patch.CompletedByID != nil {
		set("completed_by_id", *patch.CompletedByID)
	}
	if patch.CompletionDate != nil {
		set("completion_date", *patch.CompletionDate)
	}
	if patch.CompletionComments != nil {
		set("completion_comments", *patch.CompletionComments)
	}
	if patch.CancellationReason != nil {
		set("cancellation_reason", *patch.CancellationReason)
	}
	if patch.CancelledAt != nil {
		set("cancelled_at", *patch.CancelledAt)
	}

	query := fmt.Sprintf("UPDATE requests SET %s WHERE id = ? AND status = ?", strings.Join(sets, ", "))
	args = append(args, id, expected.String())

	result, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update request stage", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update request stage: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return port.ErrStatusConflict
	}
	return nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(s scanner) (*entity.Request, error) {
	var (
		req       entity.Request
		kind      string
		status    string
		purpose   sql.NullString
		unit      sql.NullString
		requested string

		approvedBy  sql.NullString
		approvalAt  sql.NullTime
		approvedQty decimal.NullDecimal
		approvalCmt sql.NullString
		rejection   sql.NullString

		issuedBy  sql.NullString
		issuedAt  sql.NullTime
		issuedQty decimal.NullDecimal
		issueCmt  sql.NullString

		ackBy  sql.NullString
		ackAt  sql.NullTime
		ackQty decimal.NullDecimal
		ackCmt sql.NullString

		completedBy sql.NullString
		completedAt sql.NullTime
		completeCmt sql.NullString

		cancelReason sql.NullString
		cancelledAt  sql.NullTime
	)

	err := s.Scan(
		&req.ID, &req.RequestNumber, &kind, &status, &req.ProjectID, &req.ResourceID, &purpose, &unit,
		&requested, &req.RequestedByID,
		&approvedBy, &approvalAt, &approvedQty, &approvalCmt, &rejection,
		&issuedBy, &issuedAt, &issuedQty, &issueCmt,
		&ackBy, &ackAt, &ackQty, &ackCmt,
		&completedBy, &completedAt, &completeCmt,
		&cancelReason, &cancelledAt,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	req.Kind = entity.Kind(kind)
	req.Status = workflow.State(status)
	req.Purpose = purpose.String
	req.Unit = unit.String

	req.RequestedQuantity, err = decimal.NewFromString(requested)
	if err != nil {
		return nil, fmt.Errorf("invalid requested quantity %q: %w", requested, err)
	}

	req.ApprovedByID = strPtr(approvedBy)
	req.ApprovalDate = timePtr(approvalAt)
	req.ApprovedQuantity = decPtr(approvedQty)
	req.ApprovalComments = strPtr(approvalCmt)
	req.RejectionReason = strPtr(rejection)

	req.IssuedByID = strPtr(issuedBy)
	req.IssuanceDate = timePtr(issuedAt)
	req.IssuedQuantity = decPtr(issuedQty)
	req.IssuanceComments = strPtr(issueCmt)

	req.AcknowledgedByID = strPtr(ackBy)
	req.AcknowledgmentDate = timePtr(ackAt)
	req.AcknowledgedQuantity = decPtr(ackQty)
	req.AcknowledgmentComments = strPtr(ackCmt)

	req.CompletedByID = strPtr(completedBy)
	req.CompletionDate = timePtr(completedAt)
	req.CompletionComments = strPtr(completeCmt)

	req.CancellationReason = strPtr(cancelReason)
	req.CancelledAt = timePtr(cancelledAt)

	return &req, nil
}

func strPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func decPtr(v decimal.NullDecimal) *decimal.Decimal {
	if !v.Valid {
		return nil
	}
	d := v.Decimal
	return &d
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// Verify interface compliance
var _ port.RequestRepository = (*RequestRepository)(nil)
