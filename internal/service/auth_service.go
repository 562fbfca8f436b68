package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/auth"
	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/repository"
	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

// AuthService handles agent login and bootstrap provisioning.
type AuthService struct {
	agents repository.AgentRepository
	tokens *auth.TokenManager
	cfg    config.AuthConfig
	logger *zap.Logger
}

// LoginResult is issued on successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Agent     *domain.Agent
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, agents repository.AgentRepository, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{agents: agents, tokens: tokens, cfg: cfg, logger: logger}
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password are required", nil)
	}

	agent, err := s.agents.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if !auth.VerifyPassword(agent.PasswordHash, password) {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if agent.Status != domain.AgentStatusActive {
		return nil, apperrors.NewForbidden("agent account is not active")
	}

	token, expiresAt, err := s.tokens.GenerateToken(agent.ID, agent.Role)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("agent logged in",
		zap.String("agent_id", agent.ID),
		zap.String("role", string(agent.Role)),
	)
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Agent: agent}, nil
}

// EnsureBootstrapAdmin creates the configured admin account on first start.
// A missing bootstrap config or an existing account is not an error.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context) error {
	if s.cfg.BootstrapAdminEmail == "" || s.cfg.BootstrapAdminPass == "" {
		return nil
	}

	if _, err := s.agents.GetByEmail(ctx, s.cfg.BootstrapAdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(s.cfg.BootstrapAdminPass, s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	admin := &domain.Agent{
		Name:         s.cfg.BootstrapAdminName,
		Email:        s.cfg.BootstrapAdminEmail,
		PasswordHash: hash,
		Role:         domain.AgentRoleAdmin,
		Status:       domain.AgentStatusActive,
	}
	if err := s.agents.Create(ctx, admin); err != nil {
		return err
	}
	s.logger.Info("bootstrap admin created", zap.String("email", admin.Email))
	return nil
}
