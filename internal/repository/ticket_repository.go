package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/triage-service/internal/domain"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Upsert(ctx context.Context, ticket *domain.SupportTicket) error
	GetByKey(ctx context.Context, key string) (*domain.SupportTicket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Upsert(ctx context.Context, ticket *domain.SupportTicket) error {
	const query = `
        INSERT INTO tickets (external_key, subject, content, customer_info)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (external_key)
        DO UPDATE SET subject=EXCLUDED.subject, content=EXCLUDED.content, customer_info=EXCLUDED.customer_info`
	info := ticket.CustomerInfo
	if info == nil {
		info = map[string]string{}
	}
	_, err := r.pool.Exec(ctx, query, ticket.ID, ticket.Subject, ticket.Content, info)
	return err
}

func (r *ticketRepository) GetByKey(ctx context.Context, key string) (*domain.SupportTicket, error) {
	const query = `
        SELECT external_key, subject, content, customer_info
        FROM tickets WHERE external_key=$1`
	var ticket domain.SupportTicket
	if err := r.pool.QueryRow(ctx, query, key).Scan(
		&ticket.ID,
		&ticket.Subject,
		&ticket.Content,
		&ticket.CustomerInfo,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}
