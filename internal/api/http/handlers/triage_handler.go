package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/triage-service/internal/api/dto"
	"github.com/spec-kit/triage-service/internal/auth"
	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/repository"
	"github.com/spec-kit/triage-service/internal/service"
	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

// TriageHandler manages triage endpoints.
type TriageHandler struct {
	triage      *service.TriageService
	reviews     *service.ReviewService
	resolutions repository.ResolutionRepository
}

// NewTriageHandler constructs handler.
func NewTriageHandler(triage *service.TriageService, reviews *service.ReviewService, resolutions repository.ResolutionRepository) *TriageHandler {
	return &TriageHandler{triage: triage, reviews: reviews, resolutions: resolutions}
}

// Submit POST /triage/tickets.
func (h *TriageHandler) Submit(c *fiber.Ctx) error {
	var req dto.TicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	resolution, err := h.triage.Triage(c.UserContext(), ticketFromRequest(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": resolutionResponse(resolution)})
}

// Batch POST /triage/batch.
func (h *TriageHandler) Batch(c *fiber.Ctx) error {
	var req dto.BatchTriageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.Tickets) == 0 {
		return apperrors.NewValidationError("tickets required", nil)
	}

	tickets := make([]domain.SupportTicket, 0, len(req.Tickets))
	for _, t := range req.Tickets {
		tickets = append(tickets, ticketFromRequest(t))
	}

	results, err := h.triage.ProcessBatch(c.UserContext(), tickets)
	if err != nil {
		return err
	}

	resp := dto.BatchTriageResponse{Results: make([]dto.ResolutionResponse, 0, len(results))}
	for i := range results {
		resp.Results = append(resp.Results, resolutionResponse(&results[i]))
		if results[i].Status == domain.ResolutionCompleted {
			resp.Completed++
		} else {
			resp.Failed++
		}
	}
	return c.JSON(fiber.Map{"data": resp})
}

// GetResolution GET /triage/resolutions/:ticketID.
func (h *TriageHandler) GetResolution(c *fiber.Ctx) error {
	resolution, err := h.resolutions.GetLatestByTicketKey(c.UserContext(), c.Params("ticketID"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": resolutionResponse(resolution)})
}

// ListResolutions GET /triage/resolutions.
func (h *TriageHandler) ListResolutions(c *fiber.Ctx) error {
	filter := repository.ResolutionFilter{
		Limit:  parseInt(c.Query("page_size"), 20),
		Offset: (parseInt(c.Query("page"), 1) - 1) * parseInt(c.Query("page_size"), 20),
	}
	if statusStr := strings.TrimSpace(c.Query("status")); statusStr != "" {
		status := domain.ResolutionStatus(strings.ToUpper(statusStr))
		if status != domain.ResolutionCompleted && status != domain.ResolutionFailed {
			return apperrors.NewValidationError("invalid status filter", nil)
		}
		filter.Status = &status
	}
	if reviewStr := strings.TrimSpace(c.Query("review")); reviewStr != "" {
		review := domain.ReviewState(strings.ToUpper(reviewStr))
		filter.Review = &review
	}

	resolutions, err := h.resolutions.List(c.UserContext(), filter)
	if err != nil {
		return apperrors.MapError(err)
	}
	items := make([]dto.ResolutionResponse, 0, len(resolutions))
	for i := range resolutions {
		items = append(items, resolutionResponse(&resolutions[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Review POST /triage/resolutions/:ticketID/review.
func (h *TriageHandler) Review(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Agent == nil {
		return apperrors.NewUnauthorized("agent required")
	}
	var req dto.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	decision := domain.ReviewState(strings.ToUpper(strings.TrimSpace(req.Decision)))
	resolution, err := h.reviews.Review(c.UserContext(), c.Params("ticketID"), decision, principal.Agent.ID, req.Note)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": resolutionResponse(resolution)})
}

func ticketFromRequest(req dto.TicketRequest) domain.SupportTicket {
	return domain.SupportTicket{
		ID:           strings.TrimSpace(req.ID),
		Subject:      req.Subject,
		Content:      req.Content,
		CustomerInfo: req.CustomerInfo,
	}
}

func resolutionResponse(resolution *domain.TicketResolution) dto.ResolutionResponse {
	resp := dto.ResolutionResponse{
		ID:             resolution.ID,
		TicketID:       resolution.TicketKey,
		Status:         resolution.Status,
		Review:         resolution.Review,
		ReviewedBy:     resolution.ReviewedBy,
		ReviewNote:     resolution.ReviewNote,
		Error:          resolution.Error,
		ProcessedAt:    resolution.ProcessedAt,
		ProcessingTime: resolution.ProcessingSecs,
	}
	if resolution.Analysis != nil {
		resp.Analysis = &dto.AnalysisResponse{
			Category:              resolution.Analysis.Category,
			Priority:              resolution.Analysis.Priority,
			KeyPoints:             resolution.Analysis.KeyPoints,
			RequiredExpertise:     resolution.Analysis.RequiredExpertise,
			Sentiment:             resolution.Analysis.Sentiment,
			UrgencyIndicators:     resolution.Analysis.UrgencyIndicators,
			BusinessImpact:        resolution.Analysis.BusinessImpact,
			SuggestedResponseType: resolution.Analysis.SuggestedResponseType,
		}
	}
	if resolution.Response != nil {
		resp.Response = &dto.SuggestionResponse{
			ResponseText:     resolution.Response.ResponseText,
			ConfidenceScore:  resolution.Response.ConfidenceScore,
			RequiresApproval: resolution.Response.RequiresApproval,
			SuggestedActions: resolution.Response.SuggestedActions,
		}
	}
	return resp
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
