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

// EmployeeRepository implements port.EmployeeRepository over SQLite.
type EmployeeRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewEmployeeRepository creates an employee repository.
func NewEmployeeRepository(db *sql.DB, logger *zap.Logger) port.EmployeeRepository {
	return &EmployeeRepository{
		db:     db,
		logger: logger,
	}
}

const employeeColumns = "id, name, email, phone, position, project_id, created_at, updated_at"

// Create inserts a new employee.
func (r *EmployeeRepository) Create(ctx context.Context, employee *entity.Employee) error {
	query := `
		INSERT INTO employees (id, name, email, phone, position, project_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		employee.ID, employee.Name, nullString(employee.Email), nullString(employee.Phone),
		nullString(employee.Position), employee.ProjectID, employee.CreatedAt, employee.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create employee", zap.String("name", employee.Name), zap.Error(err))
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

// GetByID retrieves an employee by id, returning nil when absent.
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*entity.Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM employees WHERE id = ?", employeeColumns)

	employee, err := scanEmployee(database.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get employee", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee, nil
}

// List returns employees ordered by creation time.
func (r *EmployeeRepository) List(ctx context.Context, limit, offset int) ([]*entity.Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM employees ORDER BY created_at DESC LIMIT ? OFFSET ?", employeeColumns)

	rows, err := database.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list employees", zap.Error(err))
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []*entity.Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}

// Update overwrites mutable employee fields.
func (r *EmployeeRepository) Update(ctx context.Context, employee *entity.Employee) error {
	query := `
		UPDATE employees SET name = ?, email = ?, phone = ?, position = ?, project_id = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		employee.Name, nullString(employee.Email), nullString(employee.Phone),
		nullString(employee.Position), employee.ProjectID, time.Now().UTC(), employee.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update employee", zap.String("id", employee.ID), zap.Error(err))
		return fmt.Errorf("failed to update employee: %w", err)
	}
	return nil
}

// Delete removes an employee.
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete employee", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}

func scanEmployee(s scanner) (*entity.Employee, error) {
	var (
		employee  entity.Employee
		email     sql.NullString
		phone     sql.NullString
		position  sql.NullString
		projectID sql.NullString
	)
	if err := s.Scan(
		&employee.ID, &employee.Name, &email, &phone, &position, &projectID,
		&employee.CreatedAt, &employee.UpdatedAt,
	); err != nil {
		return nil, err
	}
	employee.Email = email.String
	employee.Phone = phone.String
	employee.Position = position.String
	employee.ProjectID = strPtr(projectID)
	return &employee, nil
}

// Verify interface compliance
var _ port.EmployeeRepository = (*EmployeeRepository)(nil)
