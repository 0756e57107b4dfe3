package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/siteflow/siteflow/internal/application/port"
	"github.com/siteflow/siteflow/internal/application/workflow"
	"github.com/siteflow/siteflow/internal/auth"
	"github.com/siteflow/siteflow/internal/domain/entity"
	"github.com/siteflow/siteflow/pkg/utils"
)

// CreateUserInput carries the fields an admin submits for a new account.
type CreateUserInput struct {
	Email    string
	Name     string
	Password string
	Role     entity.Role
}

// UpdateUserInput carries the mutable account fields.
type UpdateUserInput struct {
	Name string
	Role entity.Role
}

// UserService manages accounts. All operations are admin-only; the HTTP
// layer enforces that.
type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*entity.User, error)
	Get(ctx context.Context, id string) (*entity.User, error)
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*entity.User, error)
	Deactivate(ctx context.Context, id string) error
}

type userServiceImpl struct {
	users  port.UserRepository
	logger Logger
}

// NewUserService creates a new UserService
func NewUserService(users port.UserRepository, logger Logger) UserService {
	return &userServiceImpl{
		users:  users,
		logger: logger,
	}
}

// Create validates and stores a new active account.
func (s *userServiceImpl) Create(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := utils.ValidateEmail(email); err != nil {
		return nil, workflow.Validation("email", err.Error())
	}
	if err := utils.ValidatePassword(in.Password); err != nil {
		return nil, workflow.Validation("password", err.Error())
	}
	if !in.Role.IsValid() {
		return nil, workflow.Validation("role", "unknown role")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, workflow.Validation("name", "is required")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, workflow.Internal(err)
	}
	if existing != nil {
		return nil, workflow.Validation("email", "already registered")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, workflow.Internal(err)
	}

	now := time.Now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Role:         in.Role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", "email", email, "error", err)
		return nil, workflow.Internal(err)
	}

	s.logger.Info("User created", "user_id", user.ID, "role", user.Role.String())
	return user, nil
}

// Get returns an account by id.
func (s *userServiceImpl) Get(ctx context.Context, id string) (*entity.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, workflow.Internal(err)
	}
	if user == nil {
		return nil, notFound("user", id)
	}
	return user, nil
}

// List returns accounts.
func (s *userServiceImpl) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	users, err := s.users.List(ctx, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, workflow.Internal(err)
	}
	return users, nil
}

// Update applies mutable fields to an existing account.
func (s *userServiceImpl) Update(ctx context.Context, id string, in UpdateUserInput) (*entity.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = name
	}
	if in.Role != "" {
		if !in.Role.IsValid() {
			return nil, workflow.Validation("role", "unknown role")
		}
		user.Role = in.Role
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, workflow.Internal(err)
	}
	return user, nil
}

// Deactivate disables an account without deleting its history.
func (s *userServiceImpl) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.users.Deactivate(ctx, id); err != nil {
		return workflow.Internal(err)
	}
	s.logger.Info("User deactivated", "user_id", id)
	return nil
}

// notFound tags a missing record for the transport layer.
func notFound(resource, id string) *workflow.Error {
	return &workflow.Error{
		Code:    workflow.CodeNotFound,
		Message: resource + " " + id + " not found",
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return 50
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
