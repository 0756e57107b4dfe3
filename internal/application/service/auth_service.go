package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/siteflow/siteflow/internal/application/port"
	"github.com/siteflow/siteflow/internal/application/workflow"
	"github.com/siteflow/siteflow/internal/auth"
	"github.com/siteflow/siteflow/internal/domain/entity"
)

// ErrInvalidCredentials is returned for a bad email/password pair or a
// deactivated account. The message never says which part failed.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService authenticates users and issues session tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *entity.User, error)

	// EnsureAdmin creates the bootstrap admin account when no user holds
	// the configured email. Called once at startup.
	EnsureAdmin(ctx context.Context, email, password string) error
}

type authServiceImpl struct {
	users  port.UserRepository
	tokens *auth.TokenManager
	logger Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users port.UserRepository, tokens *auth.TokenManager, logger Logger) AuthService {
	return &authServiceImpl{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Login verifies credentials and returns a signed token with the user.
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, workflow.Internal(err)
	}
	if user == nil || !user.Active || !auth.CheckPasswordHash(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return "", nil, workflow.Internal(err)
	}

	s.logger.Info("User logged in", "user_id", user.ID, "role", user.Role.String())
	return token, user, nil
}

// EnsureAdmin creates the admin account on first startup.
func (s *authServiceImpl) EnsureAdmin(ctx context.Context, email, password string) error {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return workflow.Internal(err)
	}
	if existing != nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return workflow.Internal(err)
	}

	now := time.Now().UTC()
	admin := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         "Administrator",
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, admin); err != nil {
		return workflow.Internal(err)
	}

	s.logger.Info("Bootstrap admin created", "email", email)
	return nil
}
