package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/events"
	"github.com/spec-kit/triage-service/internal/llm"
	"github.com/spec-kit/triage-service/internal/repository"
	"github.com/spec-kit/triage-service/internal/sentiment"
	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

// AnalysisCache caches completed analyses keyed by ticket text.
type AnalysisCache interface {
	Lookup(ctx context.Context, ticket domain.SupportTicket) (*domain.TicketAnalysis, error)
	Store(ctx context.Context, ticket domain.SupportTicket, analysis *domain.TicketAnalysis) error
}

// TriageService orchestrates the triage pipeline: classification call,
// sentiment call, response-generation call, resolution assembly.
type TriageService struct {
	provider    llm.Provider
	scorer      sentiment.Scorer
	tickets     repository.TicketRepository
	resolutions repository.ResolutionRepository
	cache       AnalysisCache
	dispatcher  events.Dispatcher
	templates   *ResponseTemplates
	logger      *zap.Logger
	metrics     triageMetrics
	cfg         config.TriageConfig

	mu    sync.Mutex
	stats TriageStats
}

type triageMetrics interface {
	RecordTriage(failed bool, duration time.Duration)
	RecordCacheHit()
}

// TriageDependencies bundles collaborators for the triage service.
type TriageDependencies struct {
	Provider       llm.Provider
	Scorer         sentiment.Scorer
	TicketRepo     repository.TicketRepository
	ResolutionRepo repository.ResolutionRepository
	Cache          AnalysisCache
	Dispatcher     events.Dispatcher
	Templates      *ResponseTemplates
	Logger         *zap.Logger
	Metrics        triageMetrics
}

// TriageStats aggregates counters over processed tickets.
type TriageStats struct {
	TotalProcessed  int64      `json:"total_processed"`
	Completed       int64      `json:"completed"`
	Failed          int64      `json:"failed"`
	CacheHits       int64      `json:"cache_hits"`
	TotalProcessing float64    `json:"total_processing_seconds"`
	LastProcessedAt *time.Time `json:"last_processed_at,omitempty"`
}

// NewTriageService constructs the service.
func NewTriageService(cfg config.TriageConfig, deps TriageDependencies) *TriageService {
	templates := deps.Templates
	if templates == nil {
		templates = NewResponseTemplates()
	}
	return &TriageService{
		provider:    deps.Provider,
		scorer:      deps.Scorer,
		tickets:     deps.TicketRepo,
		resolutions: deps.ResolutionRepo,
		cache:       deps.Cache,
		dispatcher:  deps.Dispatcher,
		templates:   templates,
		logger:      deps.Logger,
		metrics:     deps.Metrics,
		cfg:         cfg,
	}
}

// Triage runs the full pipeline for one ticket and persists the outcome.
// Pipeline failures produce a FAILED resolution, not an error; the returned
// error covers invalid input and storage problems only.
func (s *TriageService) Triage(ctx context.Context, ticket domain.SupportTicket) (*domain.TicketResolution, error) {
	if strings.TrimSpace(ticket.Subject) == "" && strings.TrimSpace(ticket.Content) == "" {
		return nil, apperrors.NewValidationError("ticket subject or content required", nil)
	}
	if ticket.ID == "" {
		ticket.ID = generateTicketKey()
	}

	if s.tickets != nil {
		if err := s.tickets.Upsert(ctx, &ticket); err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketReceived,
		TicketKey: ticket.ID,
		Payload: events.TicketReceivedPayload{
			Subject: ticket.Subject,
		},
	})

	resolution := s.process(ctx, ticket)

	if s.resolutions != nil {
		if err := s.resolutions.Create(ctx, resolution); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	duration := time.Duration(resolution.ProcessingSecs * float64(time.Second))
	failed := resolution.Status == domain.ResolutionFailed
	s.recordStats(resolution)
	if s.metrics != nil {
		s.metrics.RecordTriage(failed, duration)
	}

	if failed {
		s.publishEvent(ctx, events.Event{
			Type:      events.EventTriageFailed,
			TicketKey: ticket.ID,
			Payload: events.TriageFailedPayload{
				Error:          *resolution.Error,
				ProcessingSecs: resolution.ProcessingSecs,
			},
		})
	} else {
		s.publishEvent(ctx, events.Event{
			Type:      events.EventTicketTriaged,
			TicketKey: ticket.ID,
			Payload: events.TicketTriagedPayload{
				Category:         resolution.Analysis.Category,
				Priority:         resolution.Analysis.Priority,
				Sentiment:        resolution.Analysis.Sentiment,
				RequiresApproval: resolution.Response.RequiresApproval,
				ProcessingSecs:   resolution.ProcessingSecs,
			},
		})
	}

	return resolution, nil
}

// process runs the two-step pipeline without touching storage. Tickets are
// independent: no state is shared across calls.
func (s *TriageService) process(ctx context.Context, ticket domain.SupportTicket) *domain.TicketResolution {
	start := time.Now()

	analysis, cached, err := s.analyze(ctx, ticket)
	if err != nil {
		return s.failedResolution(ticket, start, err)
	}
	if cached {
		s.mu.Lock()
		s.stats.CacheHits++
		s.mu.Unlock()
		if s.metrics != nil {
			s.metrics.RecordCacheHit()
		}
	}

	response, err := s.provider.Respond(ctx, llm.ResponseInput{
		TicketID:  ticket.ID,
		Analysis:  *analysis,
		Templates: s.templates.All(),
		Context:   s.responseContext(ticket, analysis),
	})
	if err != nil {
		return s.failedResolution(ticket, start, err)
	}

	review := domain.ReviewNone
	if response.RequiresApproval {
		review = domain.ReviewPendingApproval
	}

	now := time.Now()
	s.logger.Info("ticket triaged",
		zap.String("ticket_key", ticket.ID),
		zap.String("category", string(analysis.Category)),
		zap.Int("priority", int(analysis.Priority)),
		zap.Float64("sentiment", analysis.Sentiment),
		zap.Duration("duration", now.Sub(start)),
	)

	return &domain.TicketResolution{
		TicketKey:      ticket.ID,
		Status:         domain.ResolutionCompleted,
		Analysis:       analysis,
		Response:       response,
		Review:         review,
		ProcessedAt:    now,
		ProcessingSecs: now.Sub(start).Seconds(),
	}
}

// analyze returns the merged classification+sentiment analysis, consulting
// the cache first. The bool reports whether the cache served it.
func (s *TriageService) analyze(ctx context.Context, ticket domain.SupportTicket) (*domain.TicketAnalysis, bool, error) {
	if s.cache != nil {
		cached, err := s.cache.Lookup(ctx, ticket)
		if err != nil {
			s.logger.Debug("analysis cache lookup failed", zap.Error(err))
		} else if cached != nil {
			return cached, true, nil
		}
	}

	analysis, err := s.provider.Analyze(ctx, ticket)
	if err != nil {
		return nil, false, err
	}

	analysis.Sentiment = s.score(ctx, ticket)

	if s.cache != nil {
		if err := s.cache.Store(ctx, ticket, analysis); err != nil {
			s.logger.Debug("analysis cache store failed", zap.Error(err))
		}
	}
	return analysis, false, nil
}

// score calls the sentiment model. Sentiment is advisory: any failure falls
// back to neutral and triage continues.
func (s *TriageService) score(ctx context.Context, ticket domain.SupportTicket) float64 {
	if s.scorer == nil {
		return 0
	}
	score, err := s.scorer.Score(ctx, ticket.Subject+"\n\n"+ticket.Content)
	if err != nil {
		s.logger.Warn("sentiment analysis failed; using neutral score",
			zap.String("ticket_key", ticket.ID),
			zap.Error(err),
		)
		return 0
	}
	return score
}

func (s *TriageService) failedResolution(ticket domain.SupportTicket, start time.Time, err error) *domain.TicketResolution {
	now := time.Now()
	message := err.Error()
	s.logger.Error("triage failed",
		zap.String("ticket_key", ticket.ID),
		zap.Error(err),
	)
	return &domain.TicketResolution{
		TicketKey:      ticket.ID,
		Status:         domain.ResolutionFailed,
		Review:         domain.ReviewNone,
		Error:          &message,
		ProcessedAt:    now,
		ProcessingSecs: now.Sub(start).Seconds(),
	}
}

func (s *TriageService) responseContext(ticket domain.SupportTicket, analysis *domain.TicketAnalysis) map[string]string {
	context := map[string]string{
		"ticket_id":          ticket.ID,
		"analysis_timestamp": time.Now().Format(time.RFC3339),
		"category":           string(analysis.Category),
		"priority":           analysis.Priority.String(),
	}
	for k, v := range ticket.CustomerInfo {
		context["customer_"+k] = v
	}
	return context
}

// ProcessBatch triages tickets concurrently with bounded parallelism.
// Resolutions are returned in input order; a failing ticket never affects
// its neighbours.
func (s *TriageService) ProcessBatch(ctx context.Context, tickets []domain.SupportTicket) ([]domain.TicketResolution, error) {
	if len(tickets) == 0 {
		return []domain.TicketResolution{}, nil
	}
	if s.cfg.MaxBatchSize > 0 && len(tickets) > s.cfg.MaxBatchSize {
		return nil, apperrors.NewValidationError("batch too large", map[string]any{
			"max_batch_size": s.cfg.MaxBatchSize,
		})
	}

	concurrency := s.cfg.BatchConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	s.logger.Info("starting batch triage",
		zap.Int("tickets", len(tickets)),
		zap.Int("concurrency", concurrency),
	)

	results := make([]domain.TicketResolution, len(tickets))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i := range tickets {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			resolution, err := s.Triage(ctx, tickets[i])
			if err != nil {
				// storage-level failure still yields a failed record so the
				// batch keeps its one-resolution-per-ticket shape
				resolution = s.failedResolution(tickets[i], time.Now(), err)
			}
			results[i] = *resolution
		}(i)
	}
	wg.Wait()

	completed := 0
	for i := range results {
		if results[i].Status == domain.ResolutionCompleted {
			completed++
		}
	}
	s.logger.Info("batch triage finished",
		zap.Int("completed", completed),
		zap.Int("total", len(tickets)),
	)

	return results, nil
}

// Stats returns a snapshot of processing counters.
func (s *TriageService) Stats() TriageStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *TriageService) recordStats(resolution *domain.TicketResolution) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.TotalProcessed++
	if resolution.Status == domain.ResolutionCompleted {
		s.stats.Completed++
	} else {
		s.stats.Failed++
	}
	s.stats.TotalProcessing += resolution.ProcessingSecs
	processedAt := resolution.ProcessedAt
	s.stats.LastProcessedAt = &processedAt
}

func (s *TriageService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func generateTicketKey() string {
	return "TKT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
