package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/events"
	"github.com/spec-kit/triage-service/internal/repository"
	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

// ReviewService lets agents approve or reject drafted responses that were
// flagged for human approval.
type ReviewService struct {
	resolutions repository.ResolutionRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// NewReviewService constructs the service.
func NewReviewService(resolutions repository.ResolutionRepository, dispatcher events.Dispatcher, logger *zap.Logger) *ReviewService {
	return &ReviewService{resolutions: resolutions, dispatcher: dispatcher, logger: logger}
}

// Review moves a pending resolution to APPROVED or REJECTED.
func (s *ReviewService) Review(ctx context.Context, ticketKey string, decision domain.ReviewState, reviewedBy, note string) (*domain.TicketResolution, error) {
	if decision != domain.ReviewApproved && decision != domain.ReviewRejected {
		return nil, apperrors.NewValidationError("decision must be APPROVED or REJECTED", nil)
	}

	resolution, err := s.resolutions.GetLatestByTicketKey(ctx, ticketKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("resolution", map[string]any{"ticket_key": ticketKey})
		}
		return nil, apperrors.MapError(err)
	}
	if resolution.Review != domain.ReviewPendingApproval {
		return nil, apperrors.NewConflict("resolution is not pending approval", map[string]any{
			"review": resolution.Review,
		})
	}

	if err := s.resolutions.UpdateReview(ctx, resolution.ID, decision, reviewedBy, note); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewConflict("resolution was reviewed concurrently", nil)
		}
		return nil, apperrors.MapError(err)
	}

	resolution.Review = decision
	resolution.ReviewedBy = &reviewedBy
	if note != "" {
		resolution.ReviewNote = &note
	}

	s.logger.Info("resolution reviewed",
		zap.String("ticket_key", ticketKey),
		zap.String("decision", string(decision)),
		zap.String("reviewed_by", reviewedBy),
	)

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventResolutionReviewed,
			TicketKey: ticketKey,
			Timestamp: time.Now(),
			Payload: events.ResolutionReviewedPayload{
				Review:     decision,
				ReviewedBy: reviewedBy,
				Note:       note,
			},
		})
	}

	return resolution, nil
}
