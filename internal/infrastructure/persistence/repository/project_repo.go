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

// ProjectRepository implements port.ProjectRepository over SQLite.
type ProjectRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProjectRepository creates a project repository.
func NewProjectRepository(db *sql.DB, logger *zap.Logger) port.ProjectRepository {
	return &ProjectRepository{
		db:     db,
		logger: logger,
	}
}

const projectColumns = "id, name, client_id, location, status, budget, start_date, end_date, created_at, updated_at"

// Create inserts a new project.
func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	query := `
		INSERT INTO projects (id, name, client_id, location, status, budget, start_date, end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		project.ID, project.Name, project.ClientID, nullString(project.Location),
		project.Status, project.Budget.String(), project.StartDate, project.EndDate,
		project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create project", zap.String("name", project.Name), zap.Error(err))
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// GetByID retrieves a project by id, returning nil when absent.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	query := fmt.Sprintf("SELECT %s FROM projects WHERE id = ?", projectColumns)

	project, err := scanProject(database.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get project", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// List returns projects ordered by creation time.
func (r *ProjectRepository) List(ctx context.Context, limit, offset int) ([]*entity.Project, error) {
	query := fmt.Sprintf("SELECT %s FROM projects ORDER BY created_at DESC LIMIT ? OFFSET ?", projectColumns)

	rows, err := database.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list projects", zap.Error(err))
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*entity.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// Update overwrites mutable project fields.
func (r *ProjectRepository) Update(ctx context.Context, project *entity.Project) error {
	query := `
		UPDATE projects SET name = ?, client_id = ?, location = ?, status = ?, budget = ?,
			start_date = ?, end_date = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		project.Name, project.ClientID, nullString(project.Location), project.Status,
		project.Budget.String(), project.StartDate, project.EndDate, time.Now().UTC(), project.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update project", zap.String("id", project.ID), zap.Error(err))
		return fmt.Errorf("failed to update project: %w", err)
	}
	return nil
}

// Delete removes a project.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete project", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

func scanProject(s scanner) (*entity.Project, error) {
	var (
		project  entity.Project
		location sql.NullString
		budget   string
		endDate  sql.NullTime
	)
	if err := s.Scan(
		&project.ID, &project.Name, &project.ClientID, &location, &project.Status,
		&budget, &project.StartDate, &endDate, &project.CreatedAt, &project.UpdatedAt,
	); err != nil {
		return nil, err
	}

	project.Location = location.String
	project.EndDate = timePtr(endDate)

	var err error
	project.Budget, err = decimal.NewFromString(budget)
	if err != nil {
		return nil, fmt.Errorf("invalid project budget %q: %w", budget, err)
	}
	return &project, nil
}

// Verify interface compliance
var _ port.ProjectRepository = (*ProjectRepository)(nil)
