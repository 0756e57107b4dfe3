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

// UserRepository implements port.UserRepository over SQLite.
type UserRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a user repository.
func NewUserRepository(db *sql.DB, logger *zap.Logger) port.UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = "id, email, name, password_hash, role, active, created_at, updated_at"

// Create inserts a new account.
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, email, name, password_hash, role, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.PasswordHash,
		user.Role.String(), user.Active, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create user", zap.String("email", user.Email), zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves an account by id, returning nil when absent.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = ?", userColumns)
	return r.scanOne(database.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves an account by email, returning nil when absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = ?", userColumns)
	return r.scanOne(database.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, email))
}

// List returns accounts ordered by creation time.
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users ORDER BY created_at DESC LIMIT ? OFFSET ?", userColumns)

	rows, err := database.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Update overwrites mutable account fields.
func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users SET email = ?, name = ?, password_hash = ?, role = ?, active = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		user.Email, user.Name, user.PasswordHash, user.Role.String(),
		user.Active, time.Now().UTC(), user.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update user", zap.String("id", user.ID), zap.Error(err))
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// Deactivate disables an account without deleting its history.
func (r *UserRepository) Deactivate(ctx context.Context, id string) error {
	query := "UPDATE users SET active = 0, updated_at = ? WHERE id = ?"

	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		r.logger.Error("Failed to deactivate user", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	return nil
}

func (r *UserRepository) scanOne(row *sql.Row) (*entity.User, error) {
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func scanUser(s scanner) (*entity.User, error) {
	var (
		user entity.User
		role string
	)
	if err := s.Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash,
		&role, &user.Active, &user.CreatedAt, &user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	user.Role = entity.Role(role)
	return &user, nil
}

// Verify interface compliance
var _ port.UserRepository = (*UserRepository)(nil)
