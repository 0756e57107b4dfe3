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

// ClientRepository implements port.ClientRepository over SQLite.
type ClientRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewClientRepository creates a client repository.
func NewClientRepository(db *sql.DB, logger *zap.Logger) port.ClientRepository {
	return &ClientRepository{
		db:     db,
		logger: logger,
	}
}

const clientColumns = "id, name, contact_name, email, phone, address, created_at, updated_at"

// Create inserts a new client.
func (r *ClientRepository) Create(ctx context.Context, client *entity.Client) error {
	query := `
		INSERT INTO clients (id, name, contact_name, email, phone, address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		client.ID, client.Name, nullString(client.ContactName), nullString(client.Email),
		nullString(client.Phone), nullString(client.Address), client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create client", zap.String("name", client.Name), zap.Error(err))
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// GetByID retrieves a client by id, returning nil when absent.
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	query := fmt.Sprintf("SELECT %s FROM clients WHERE id = ?", clientColumns)

	client, err := scanClient(database.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get client", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

// List returns clients ordered by creation time.
func (r *ClientRepository) List(ctx context.Context, limit, offset int) ([]*entity.Client, error) {
	query := fmt.Sprintf("SELECT %s FROM clients ORDER BY created_at DESC LIMIT ? OFFSET ?", clientColumns)

	rows, err := database.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list clients", zap.Error(err))
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []*entity.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

// Update overwrites mutable client fields.
func (r *ClientRepository) Update(ctx context.Context, client *entity.Client) error {
	query := `
		UPDATE clients SET name = ?, contact_name = ?, email = ?, phone = ?, address = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		client.Name, nullString(client.ContactName), nullString(client.Email),
		nullString(client.Phone), nullString(client.Address), time.Now().UTC(), client.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update client", zap.String("id", client.ID), zap.Error(err))
		return fmt.Errorf("failed to update client: %w", err)
	}
	return nil
}

// Delete removes a client.
func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, "DELETE FROM clients WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete client", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

func scanClient(s scanner) (*entity.Client, error) {
	var (
		client  entity.Client
		contact sql.NullString
		email   sql.NullString
		phone   sql.NullString
		address sql.NullString
	)
	if err := s.Scan(
		&client.ID, &client.Name, &contact, &email, &phone, &address,
		&client.CreatedAt, &client.UpdatedAt,
	); err != nil {
		return nil, err
	}
	client.ContactName = contact.String
	client.Email = email.String
	client.Phone = phone.String
	client.Address = address.String
	return &client, nil
}

// Verify interface compliance
var _ port.ClientRepository = (*ClientRepository)(nil)
