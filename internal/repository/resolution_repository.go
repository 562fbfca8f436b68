package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/triage-service/internal/domain"
)

// ResolutionFilter captures listing parameters.
type ResolutionFilter struct {
	Status *domain.ResolutionStatus
	Review *domain.ReviewState
	Limit  int
	Offset int
}

// ResolutionRepository encapsulates resolution persistence.
type ResolutionRepository interface {
	Create(ctx context.Context, resolution *domain.TicketResolution) error
	GetLatestByTicketKey(ctx context.Context, key string) (*domain.TicketResolution, error)
	GetByID(ctx context.Context, id string) (*domain.TicketResolution, error)
	List(ctx context.Context, filter ResolutionFilter) ([]domain.TicketResolution, error)
	UpdateReview(ctx context.Context, id string, review domain.ReviewState, reviewedBy, note string) error
}

type resolutionRepository struct {
	pool *pgxpool.Pool
}

// NewResolutionRepository instantiates repository.
func NewResolutionRepository(pool *pgxpool.Pool) ResolutionRepository {
	return &resolutionRepository{pool: pool}
}

func (r *resolutionRepository) Create(ctx context.Context, resolution *domain.TicketResolution) error {
	analysisJSON, err := marshalNullable(resolution.Analysis)
	if err != nil {
		return err
	}
	responseJSON, err := marshalNullable(resolution.Response)
	if err != nil {
		return err
	}

	const query = `
        INSERT INTO resolutions (ticket_key, status, analysis, response, review, error, processed_at, processing_seconds)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		resolution.TicketKey,
		resolution.Status,
		analysisJSON,
		responseJSON,
		resolution.Review,
		resolution.Error,
		resolution.ProcessedAt,
		resolution.ProcessingSecs,
	).Scan(&resolution.ID, &resolution.CreatedAt)
}

const resolutionColumns = `id, ticket_key, status, analysis, response, review, reviewed_by, review_note, error, processed_at, processing_seconds, created_at`

func (r *resolutionRepository) GetLatestByTicketKey(ctx context.Context, key string) (*domain.TicketResolution, error) {
	query := fmt.Sprintf(`SELECT %s FROM resolutions WHERE ticket_key=$1 ORDER BY created_at DESC LIMIT 1`, resolutionColumns)
	row := r.pool.QueryRow(ctx, query, key)
	return scanResolution(row)
}

func (r *resolutionRepository) GetByID(ctx context.Context, id string) (*domain.TicketResolution, error) {
	query := fmt.Sprintf(`SELECT %s FROM resolutions WHERE id=$1`, resolutionColumns)
	row := r.pool.QueryRow(ctx, query, id)
	return scanResolution(row)
}

func (r *resolutionRepository) List(ctx context.Context, filter ResolutionFilter) ([]domain.TicketResolution, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Review != nil {
		args = append(args, *filter.Review)
		clauses = append(clauses, fmt.Sprintf("review=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM resolutions WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		resolutionColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketResolution
	for rows.Next() {
		resolution, err := scanResolution(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *resolution)
	}
	return result, rows.Err()
}

func (r *resolutionRepository) UpdateReview(ctx context.Context, id string, review domain.ReviewState, reviewedBy, note string) error {
	const query = `
        UPDATE resolutions SET review=$1, reviewed_by=$2, review_note=$3
        WHERE id=$4 AND review='PENDING_APPROVAL'`
	cmd, err := r.pool.Exec(ctx, query, review, reviewedBy, note, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanResolution(row pgx.Row) (*domain.TicketResolution, error) {
	var resolution domain.TicketResolution
	var analysisJSON, responseJSON []byte
	if err := row.Scan(
		&resolution.ID,
		&resolution.TicketKey,
		&resolution.Status,
		&analysisJSON,
		&responseJSON,
		&resolution.Review,
		&resolution.ReviewedBy,
		&resolution.ReviewNote,
		&resolution.Error,
		&resolution.ProcessedAt,
		&resolution.ProcessingSecs,
		&resolution.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(analysisJSON) > 0 {
		var analysis domain.TicketAnalysis
		if err := json.Unmarshal(analysisJSON, &analysis); err != nil {
			return nil, err
		}
		resolution.Analysis = &analysis
	}
	if len(responseJSON) > 0 {
		var response domain.ResponseSuggestion
		if err := json.Unmarshal(responseJSON, &response); err != nil {
			return nil, err
		}
		resolution.Response = &response
	}
	return &resolution, nil
}

func marshalNullable(v any) ([]byte, error) {
	switch value := v.(type) {
	case *domain.TicketAnalysis:
		if value == nil {
			return nil, nil
		}
	case *domain.ResponseSuggestion:
		if value == nil {
			return nil, nil
		}
	}
	return json.Marshal(v)
}
