package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/siteflow/siteflow/internal/application/port"
	"github.com/siteflow/siteflow/internal/application/workflow"
	"github.com/siteflow/siteflow/internal/domain/entity"
	"github.com/siteflow/siteflow/pkg/utils"
)

// ClientInput carries the client fields for create and update.
type ClientInput struct {
	Name        string
	ContactName string
	Email       string
	Phone       string
	Address     string
}

// ClientService manages customers.
type ClientService interface {
	Create(ctx context.Context, in ClientInput) (*entity.Client, error)
	Get(ctx context.Context, id string) (*entity.Client, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Client, error)
	Update(ctx context.Context, id string, in ClientInput) (*entity.Client, error)
	Delete(ctx context.Context, id string) error
}

type clientServiceImpl struct {
	clients port.ClientRepository
	logger  Logger
}

// NewClientService creates a new ClientService
func NewClientService(clients port.ClientRepository, logger Logger) ClientService {
	return &clientServiceImpl{
		clients: clients,
		logger:  logger,
	}
}

func (s *clientServiceImpl) Create(ctx context.Context, in ClientInput) (*entity.Client, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, workflow.Validation("name", "is required")
	}
	if in.Email != "" {
		if err := utils.ValidateEmail(in.Email); err != nil {
			return nil, workflow.Validation("email", err.Error())
		}
	}

	now := time.Now().UTC()
	client := &entity.Client{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		ContactName: strings.TrimSpace(in.ContactName),
		Email:       strings.TrimSpace(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		Address:     strings.TrimSpace(in.Address),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.clients.Create(ctx, client); err != nil {
		s.logger.Error("Failed to create client", "name", client.Name, "error", err)
		return nil, workflow.Internal(err)
	}
	return client, nil
}

func (s *clientServiceImpl) Get(ctx context.Context, id string) (*entity.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, workflow.Internal(err)
	}
	if client == nil {
		return nil, notFound("client", id)
	}
	return client, nil
}

func (s *clientServiceImpl) List(ctx context.Context, limit, offset int) ([]*entity.Client, error) {
	clients, err := s.clients.List(ctx, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, workflow.Internal(err)
	}
	return clients, nil
}

func (s *clientServiceImpl) Update(ctx context.Context, id string, in ClientInput) (*entity.Client, error) {
	client, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		client.Name = name
	}
	if in.ContactName != "" {
		client.ContactName = strings.TrimSpace(in.ContactName)
	}
	if in.Email != "" {
		if err := utils.ValidateEmail(in.Email); err != nil {
			return nil, workflow.Validation("email", err.Error())
		}
		client.Email = strings.TrimSpace(in.Email)
	}
	if in.Phone != "" {
		client.Phone = strings.TrimSpace(in.Phone)
	}
	if in.Address != "" {
		client.Address = strings.TrimSpace(in.Address)
	}
	client.UpdatedAt = time.Now().UTC()

	if err := s.clients.Update(ctx, client); err != nil {
		return nil, workflow.Internal(err)
	}
	return client, nil
}

func (s *clientServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.clients.Delete(ctx, id); err != nil {
		return workflow.Internal(err)
	}
	return nil
}
