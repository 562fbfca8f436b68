package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/events"
	"github.com/spec-kit/triage-service/internal/llm"
	"github.com/spec-kit/triage-service/internal/repository"
)

type fakeProvider struct {
	mu           sync.Mutex
	analyzeCalls int
	respondCalls int
	analyzeErr   error
	respondErr   error
	approval     bool
	failTicket   string
}

func (p *fakeProvider) Analyze(_ context.Context, ticket domain.SupportTicket) (*domain.TicketAnalysis, error) {
	p.mu.Lock()
	p.analyzeCalls++
	p.mu.Unlock()
	if p.analyzeErr != nil {
		return nil, p.analyzeErr
	}
	if p.failTicket != "" && ticket.ID == p.failTicket {
		return nil, errors.New("model returned malformed analysis")
	}
	return &domain.TicketAnalysis{
		Category:              domain.CategoryTechnical,
		Priority:              domain.PriorityMedium,
		KeyPoints:             []string{"app crashes on login"},
		RequiredExpertise:     []string{"backend"},
		BusinessImpact:        "single customer affected",
		SuggestedResponseType: "technical_issue",
	}, nil
}

func (p *fakeProvider) Respond(_ context.Context, in llm.ResponseInput) (*domain.ResponseSuggestion, error) {
	p.mu.Lock()
	p.respondCalls++
	p.mu.Unlock()
	if p.respondErr != nil {
		return nil, p.respondErr
	}
	return &domain.ResponseSuggestion{
		ResponseText:     "Hi, we are on it for " + in.TicketID,
		ConfidenceScore:  0.9,
		RequiresApproval: p.approval,
		SuggestedActions: []string{"check logs"},
	}, nil
}

func (p *fakeProvider) Name() string { return "fake" }

type fakeScorer struct {
	score float64
	err   error
	calls int
}

func (s *fakeScorer) Score(context.Context, string) (float64, error) {
	s.calls++
	return s.score, s.err
}

type fakeResolutionRepo struct {
	mu      sync.Mutex
	created []domain.TicketResolution
	err     error
}

func (r *fakeResolutionRepo) Create(_ context.Context, resolution *domain.TicketResolution) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	resolution.ID = fmt.Sprintf("res-%d", len(r.created)+1)
	r.created = append(r.created, *resolution)
	return nil
}

func (r *fakeResolutionRepo) GetLatestByTicketKey(_ context.Context, key string) (*domain.TicketResolution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.created) - 1; i >= 0; i-- {
		if r.created[i].TicketKey == key {
			found := r.created[i]
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeResolutionRepo) GetByID(context.Context, string) (*domain.TicketResolution, error) {
	return nil, pgx.ErrNoRows
}

func (r *fakeResolutionRepo) List(context.Context, repository.ResolutionFilter) ([]domain.TicketResolution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.TicketResolution{}, r.created...), nil
}

func (r *fakeResolutionRepo) UpdateReview(context.Context, string, domain.ReviewState, string, string) error {
	return errors.New("not implemented")
}

type fakeCache struct {
	mu     sync.Mutex
	stored map[string]*domain.TicketAnalysis
	hits   int
}

func cacheKey(ticket domain.SupportTicket) string {
	return ticket.Subject + "\n" + ticket.Content
}

func (c *fakeCache) Lookup(_ context.Context, ticket domain.SupportTicket) (*domain.TicketAnalysis, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if analysis, ok := c.stored[cacheKey(ticket)]; ok {
		c.hits++
		return analysis, nil
	}
	return nil, nil
}

func (c *fakeCache) Store(_ context.Context, ticket domain.SupportTicket, analysis *domain.TicketAnalysis) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stored == nil {
		c.stored = map[string]*domain.TicketAnalysis{}
	}
	c.stored[cacheKey(ticket)] = analysis
	return nil
}

func newTestService(provider *fakeProvider, scorer *fakeScorer, repo *fakeResolutionRepo, cache *fakeCache) *TriageService {
	deps := TriageDependencies{
		Provider:   provider,
		Logger:     zap.NewNop(),
		Dispatcher: events.NewInMemoryDispatcher(),
	}
	if scorer != nil {
		deps.Scorer = scorer
	}
	if repo != nil {
		deps.ResolutionRepo = repo
	}
	if cache != nil {
		deps.Cache = cache
	}
	return NewTriageService(config.TriageConfig{BatchConcurrency: 3, MaxBatchSize: 10}, deps)
}

func sampleTicket(id string) domain.SupportTicket {
	return domain.SupportTicket{
		ID:      id,
		Subject: "App crashes on login " + id,
		Content: "The mobile app crashes every time I try to log in.",
		CustomerInfo: map[string]string{
			"name": "Dana",
			"tier": "premium",
		},
	}
}

func TestTriageCompleted(t *testing.T) {
	provider := &fakeProvider{}
	scorer := &fakeScorer{score: -0.42}
	repo := &fakeResolutionRepo{}

	svc := newTestService(provider, scorer, repo, nil)
	resolution, err := svc.Triage(context.Background(), sampleTicket("TKT-1"))
	if err != nil {
		t.Fatalf("Triage: %v", err)
	}

	if resolution.Status != domain.ResolutionCompleted {
		t.Fatalf("status = %s, want COMPLETED", resolution.Status)
	}
	if resolution.Analysis == nil || resolution.Response == nil {
		t.Fatal("completed resolution must carry analysis and response")
	}
	if resolution.Error != nil {
		t.Errorf("completed resolution carries error %q", *resolution.Error)
	}
	if resolution.Analysis.Sentiment != -0.42 {
		t.Errorf("sentiment = %v, want -0.42", resolution.Analysis.Sentiment)
	}
	if resolution.ProcessingSecs < 0 {
		t.Errorf("processing seconds = %v, want >= 0", resolution.ProcessingSecs)
	}
	if resolution.Review != domain.ReviewNone {
		t.Errorf("review = %s, want NONE", resolution.Review)
	}
	if len(repo.created) != 1 {
		t.Errorf("persisted %d resolutions, want 1", len(repo.created))
	}
}

func TestTriageSentimentFallback(t *testing.T) {
	provider := &fakeProvider{}
	scorer := &fakeScorer{err: errors.New("model endpoint unreachable")}

	svc := newTestService(provider, scorer, nil, nil)
	resolution, err := svc.Triage(context.Background(), sampleTicket("TKT-2"))
	if err != nil {
		t.Fatalf("Triage: %v", err)
	}

	if resolution.Status != domain.ResolutionCompleted {
		t.Fatalf("sentiment failure must not fail triage, got %s", resolution.Status)
	}
	if resolution.Analysis.Sentiment != 0 {
		t.Errorf("sentiment = %v, want neutral 0", resolution.Analysis.Sentiment)
	}
}

func TestTriageFailedOnAnalysisError(t *testing.T) {
	provider := &fakeProvider{analyzeErr: errors.New("upstream timeout")}
	repo := &fakeResolutionRepo{}

	svc := newTestService(provider, &fakeScorer{}, repo, nil)
	resolution, err := svc.Triage(context.Background(), sampleTicket("TKT-3"))
	if err != nil {
		t.Fatalf("Triage: %v", err)
	}

	if resolution.Status != domain.ResolutionFailed {
		t.Fatalf("status = %s, want FAILED", resolution.Status)
	}
	if resolution.Error == nil || *resolution.Error == "" {
		t.Fatal("failed resolution must carry the error message")
	}
	if resolution.Analysis != nil || resolution.Response != nil {
		t.Error("failed resolution must not carry analysis or response")
	}
	if provider.respondCalls != 0 {
		t.Errorf("respond called %d times after analysis failure", provider.respondCalls)
	}
	if len(repo.created) != 1 {
		t.Errorf("failed resolution not persisted")
	}
}

func TestTriageFailedOnResponseError(t *testing.T) {
	provider := &fakeProvider{respondErr: errors.New("bad response payload")}

	svc := newTestService(provider, &fakeScorer{}, nil, nil)
	resolution, err := svc.Triage(context.Background(), sampleTicket("TKT-4"))
	if err != nil {
		t.Fatalf("Triage: %v", err)
	}
	if resolution.Status != domain.ResolutionFailed {
		t.Fatalf("status = %s, want FAILED", resolution.Status)
	}
}

func TestTriageRejectsEmptyTicket(t *testing.T) {
	svc := newTestService(&fakeProvider{}, nil, nil, nil)
	if _, err := svc.Triage(context.Background(), domain.SupportTicket{ID: "TKT-5"}); err == nil {
		t.Fatal("expected validation error for empty ticket")
	}
}

func TestTriageGeneratesKeyWhenMissing(t *testing.T) {
	svc := newTestService(&fakeProvider{}, nil, nil, nil)
	resolution, err := svc.Triage(context.Background(), domain.SupportTicket{
		Subject: "no key here",
		Content: "still needs triage",
	})
	if err != nil {
		t.Fatalf("Triage: %v", err)
	}
	if resolution.TicketKey == "" {
		t.Fatal("resolution missing generated ticket key")
	}
}

func TestTriageRequiresApprovalSetsPendingReview(t *testing.T) {
	provider := &fakeProvider{approval: true}

	svc := newTestService(provider, nil, nil, nil)
	resolution, err := svc.Triage(context.Background(), sampleTicket("TKT-6"))
	if err != nil {
		t.Fatalf("Triage: %v", err)
	}
	if resolution.Review != domain.ReviewPendingApproval {
		t.Errorf("review = %s, want PENDING_APPROVAL", resolution.Review)
	}
}

func TestTriageUsesCachedAnalysis(t *testing.T) {
	provider := &fakeProvider{}
	scorer := &fakeScorer{score: 0.3}
	cache := &fakeCache{}

	svc := newTestService(provider, scorer, nil, cache)
	ticket := sampleTicket("TKT-7")

	if _, err := svc.Triage(context.Background(), ticket); err != nil {
		t.Fatalf("first Triage: %v", err)
	}
	if _, err := svc.Triage(context.Background(), ticket); err != nil {
		t.Fatalf("second Triage: %v", err)
	}

	if provider.analyzeCalls != 1 {
		t.Errorf("analyze called %d times, want 1 (second hit cached)", provider.analyzeCalls)
	}
	if scorer.calls != 1 {
		t.Errorf("scorer called %d times, want 1", scorer.calls)
	}
	if provider.respondCalls != 2 {
		t.Errorf("respond called %d times, want 2 (response is never cached)", provider.respondCalls)
	}
	if cache.hits != 1 {
		t.Errorf("cache hits = %d, want 1", cache.hits)
	}
}

func TestProcessBatchKeepsInputOrderAndIsolation(t *testing.T) {
	provider := &fakeProvider{failTicket: "TKT-B2"}
	repo := &fakeResolutionRepo{}

	svc := newTestService(provider, &fakeScorer{}, repo, nil)
	tickets := []domain.SupportTicket{
		sampleTicket("TKT-B1"),
		sampleTicket("TKT-B2"),
		sampleTicket("TKT-B3"),
		sampleTicket("TKT-B4"),
	}

	results, err := svc.ProcessBatch(context.Background(), tickets)
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if len(results) != len(tickets) {
		t.Fatalf("got %d results, want %d", len(results), len(tickets))
	}
	for i, ticket := range tickets {
		if results[i].TicketKey != ticket.ID {
			t.Errorf("results[%d].TicketKey = %s, want %s", i, results[i].TicketKey, ticket.ID)
		}
	}
	if results[1].Status != domain.ResolutionFailed {
		t.Errorf("results[1].Status = %s, want FAILED", results[1].Status)
	}
	for _, i := range []int{0, 2, 3} {
		if results[i].Status != domain.ResolutionCompleted {
			t.Errorf("results[%d].Status = %s, want COMPLETED", i, results[i].Status)
		}
	}
	if len(repo.created) != len(tickets) {
		t.Errorf("persisted %d resolutions, want %d", len(repo.created), len(tickets))
	}
}

func TestProcessBatchEnforcesMaxSize(t *testing.T) {
	svc := newTestService(&fakeProvider{}, nil, nil, nil)
	tickets := make([]domain.SupportTicket, 11)
	for i := range tickets {
		tickets[i] = sampleTicket(fmt.Sprintf("TKT-%d", i))
	}
	if _, err := svc.ProcessBatch(context.Background(), tickets); err == nil {
		t.Fatal("expected validation error for oversized batch")
	}
}

func TestProcessBatchEmpty(t *testing.T) {
	svc := newTestService(&fakeProvider{}, nil, nil, nil)
	results, err := svc.ProcessBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("got %d results for empty batch", len(results))
	}
}

func TestStatsTrackOutcomes(t *testing.T) {
	provider := &fakeProvider{failTicket: "TKT-S2"}

	svc := newTestService(provider, &fakeScorer{}, nil, nil)
	if _, err := svc.Triage(context.Background(), sampleTicket("TKT-S1")); err != nil {
		t.Fatalf("Triage: %v", err)
	}
	if _, err := svc.Triage(context.Background(), sampleTicket("TKT-S2")); err != nil {
		t.Fatalf("Triage: %v", err)
	}

	stats := svc.Stats()
	if stats.TotalProcessed != 2 {
		t.Errorf("TotalProcessed = %d, want 2", stats.TotalProcessed)
	}
	if stats.Completed != 1 || stats.Failed != 1 {
		t.Errorf("Completed/Failed = %d/%d, want 1/1", stats.Completed, stats.Failed)
	}
	if stats.LastProcessedAt == nil {
		t.Error("LastProcessedAt not set")
	}
}
