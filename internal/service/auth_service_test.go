package service

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/auth"
	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/domain"
)

type fakeAgentRepo struct {
	agents  map[string]*domain.Agent
	created []domain.Agent
}

func (r *fakeAgentRepo) Create(_ context.Context, agent *domain.Agent) error {
	agent.ID = "agent-" + agent.Email
	r.created = append(r.created, *agent)
	if r.agents == nil {
		r.agents = map[string]*domain.Agent{}
	}
	r.agents[agent.Email] = agent
	return nil
}

func (r *fakeAgentRepo) GetByID(_ context.Context, id string) (*domain.Agent, error) {
	for _, agent := range r.agents {
		if agent.ID == id {
			return agent, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAgentRepo) GetByEmail(_ context.Context, email string) (*domain.Agent, error) {
	if agent, ok := r.agents[strings.ToLower(email)]; ok {
		return agent, nil
	}
	return nil, pgx.ErrNoRows
}

func seedAgent(t *testing.T, repo *fakeAgentRepo, email, password string, status domain.AgentStatus) {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if repo.agents == nil {
		repo.agents = map[string]*domain.Agent{}
	}
	repo.agents[email] = &domain.Agent{
		ID:           "agent-" + email,
		Name:         "Test Agent",
		Email:        email,
		PasswordHash: hash,
		Role:         domain.AgentRoleAgent,
		Status:       status,
	}
}

func newAuthService(repo *fakeAgentRepo, cfg config.AuthConfig) *AuthService {
	tokens := auth.NewTokenManager("test-secret", 60)
	return NewAuthService(cfg, repo, tokens, zap.NewNop())
}

func TestLoginIssuesToken(t *testing.T) {
	repo := &fakeAgentRepo{}
	seedAgent(t, repo, "dana@example.com", "correct-horse", domain.AgentStatusActive)
	svc := newAuthService(repo, config.AuthConfig{})

	result, err := svc.Login(context.Background(), "Dana@Example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" {
		t.Error("empty token")
	}
	if result.Agent.Email != "dana@example.com" {
		t.Errorf("agent email = %s", result.Agent.Email)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := &fakeAgentRepo{}
	seedAgent(t, repo, "dana@example.com", "correct-horse", domain.AgentStatusActive)
	svc := newAuthService(repo, config.AuthConfig{})

	if _, err := svc.Login(context.Background(), "dana@example.com", "battery-staple"); err == nil {
		t.Fatal("expected unauthorized for wrong password")
	}
}

func TestLoginUnknownAgent(t *testing.T) {
	svc := newAuthService(&fakeAgentRepo{}, config.AuthConfig{})
	if _, err := svc.Login(context.Background(), "nobody@example.com", "pw"); err == nil {
		t.Fatal("expected unauthorized for unknown agent")
	}
}

func TestLoginSuspendedAgent(t *testing.T) {
	repo := &fakeAgentRepo{}
	seedAgent(t, repo, "dana@example.com", "correct-horse", domain.AgentStatusSuspended)
	svc := newAuthService(repo, config.AuthConfig{})

	if _, err := svc.Login(context.Background(), "dana@example.com", "correct-horse"); err == nil {
		t.Fatal("expected forbidden for suspended agent")
	}
}

func TestEnsureBootstrapAdminCreatesOnce(t *testing.T) {
	repo := &fakeAgentRepo{}
	cfg := config.AuthConfig{
		BootstrapAdminEmail: "admin@example.com",
		BootstrapAdminName:  "Admin",
		BootstrapAdminPass:  "bootstrap-pw",
		BcryptCost:          4,
	}
	svc := newAuthService(repo, cfg)

	if err := svc.EnsureBootstrapAdmin(context.Background()); err != nil {
		t.Fatalf("EnsureBootstrapAdmin: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("created %d agents, want 1", len(repo.created))
	}
	if repo.created[0].Role != domain.AgentRoleAdmin {
		t.Errorf("role = %s, want ADMIN", repo.created[0].Role)
	}

	if err := svc.EnsureBootstrapAdmin(context.Background()); err != nil {
		t.Fatalf("second EnsureBootstrapAdmin: %v", err)
	}
	if len(repo.created) != 1 {
		t.Errorf("bootstrap admin created twice")
	}
}

func TestEnsureBootstrapAdminSkippedWithoutConfig(t *testing.T) {
	repo := &fakeAgentRepo{}
	svc := newAuthService(repo, config.AuthConfig{})
	if err := svc.EnsureBootstrapAdmin(context.Background()); err != nil {
		t.Fatalf("EnsureBootstrapAdmin: %v", err)
	}
	if len(repo.created) != 0 {
		t.Error("admin created without bootstrap config")
	}
}
