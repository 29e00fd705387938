package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RandyMyers/mbzserver12-sub001/internal/domain"
)

const ticketColumns = `id, organization_id, subject, description, category, priority, status,
               customer, has_unread_messages, is_sentinel, created_at, updated_at`

type postgresTicketRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketRepository instantiates the pgx-backed repository.
func NewPostgresTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &postgresTicketRepository{pool: pool}
}

func (r *postgresTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, organization_id, subject, description, category, priority, status,
                             customer, has_unread_messages, is_sentinel, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`
	_, err := r.pool.Exec(ctx, query,
		ticket.ID,
		ticket.OrganizationID,
		ticket.Subject,
		ticket.Description,
		ticket.Category,
		ticket.Priority,
		ticket.Status,
		ticket.Customer,
		ticket.HasUnreadMessages,
		ticket.IsSentinel,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	return err
}

func (r *postgresTicketRepository) Get(ctx context.Context, id, organizationID string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1 AND organization_id=$2`, ticketColumns)
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id, organizationID))
	if err != nil {
		return nil, translateErr(err)
	}
	if err := r.loadCollections(ctx, r.pool, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *postgresTicketRepository) ListByOrganization(ctx context.Context, organizationID string) ([]domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE organization_id=$1 ORDER BY updated_at DESC`, ticketColumns)
	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		if err := r.loadCollections(ctx, r.pool, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Mutate loads the aggregate under a row lock, applies fn to it and persists
// the result in the same transaction. The row lock serializes concurrent
// read-modify-write sequences per ticket; a failed fn rolls back with the
// stored ticket untouched. Messages are append-only, so persisting writes
// only the new tail; the integration list is replaced wholesale.
func (r *postgresTicketRepository) Mutate(ctx context.Context, id, organizationID string, fn func(*domain.Ticket) error) (*domain.Ticket, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1 AND organization_id=$2 FOR UPDATE`, ticketColumns)
	ticket, err := scanTicket(tx.QueryRow(ctx, query, id, organizationID))
	if err != nil {
		return nil, translateErr(err)
	}
	if err := r.loadCollections(ctx, tx, ticket); err != nil {
		return nil, err
	}

	priorMessages := len(ticket.Messages)
	if err := fn(ticket); err != nil {
		return nil, err
	}

	const update = `
        UPDATE tickets SET subject=$1, description=$2, category=$3, priority=$4, status=$5,
            customer=$6, has_unread_messages=$7, updated_at=NOW()
        WHERE id=$8
        RETURNING updated_at`
	if err := tx.QueryRow(ctx, update,
		ticket.Subject,
		ticket.Description,
		ticket.Category,
		ticket.Priority,
		ticket.Status,
		ticket.Customer,
		ticket.HasUnreadMessages,
		ticket.ID,
	).Scan(&ticket.UpdatedAt); err != nil {
		return nil, err
	}

	for i := priorMessages; i < len(ticket.Messages); i++ {
		msg := ticket.Messages[i]
		const insert = `
            INSERT INTO ticket_messages (id, ticket_id, position, sender, content, read_status, created_at)
            VALUES ($1,$2,$3,$4,$5,$6,$7)`
		if _, err := tx.Exec(ctx, insert, msg.ID, ticket.ID, i, msg.Sender, msg.Content, msg.ReadStatus, msg.Timestamp); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM chat_integrations WHERE ticket_id=$1`, ticket.ID); err != nil {
		return nil, err
	}
	for i, integ := range ticket.ChatIntegrations {
		const insert = `
            INSERT INTO chat_integrations (id, ticket_id, position, provider, api_key, widget_id, property_id, config, is_active, status)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
		if _, err := tx.Exec(ctx, insert,
			integ.ID, ticket.ID, i, integ.Provider, integ.APIKey, integ.WidgetID, integ.PropertyID,
			integ.Config, integ.IsActive, integ.Status,
		); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *postgresTicketRepository) Delete(ctx context.Context, id, organizationID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1 AND organization_id=$2`, id, organizationID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresTicketRepository) EnsureSentinel(ctx context.Context, organizationID string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE organization_id=$1 AND is_sentinel`, ticketColumns)
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, organizationID))
	if err == nil {
		if err := r.loadCollections(ctx, r.pool, ticket); err != nil {
			return nil, err
		}
		return ticket, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	sentinel := NewSentinelTicket(organizationID)
	const insert = `
        INSERT INTO tickets (id, organization_id, subject, description, category, priority, status,
                             customer, has_unread_messages, is_sentinel, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,TRUE,$10,$11)
        ON CONFLICT (organization_id) WHERE is_sentinel DO NOTHING`
	if _, err := r.pool.Exec(ctx, insert,
		sentinel.ID, sentinel.OrganizationID, sentinel.Subject, sentinel.Description,
		sentinel.Category, sentinel.Priority, sentinel.Status, sentinel.Customer,
		sentinel.HasUnreadMessages, sentinel.CreatedAt, sentinel.UpdatedAt,
	); err != nil {
		return nil, err
	}

	// Re-read: a concurrent caller may have won the insert race.
	ticket, err = scanTicket(r.pool.QueryRow(ctx, query, organizationID))
	if err != nil {
		return nil, translateErr(err)
	}
	if err := r.loadCollections(ctx, r.pool, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *postgresTicketRepository) loadCollections(ctx context.Context, q querier, ticket *domain.Ticket) error {
	const msgQuery = `
        SELECT id, sender, content, read_status, created_at
        FROM ticket_messages WHERE ticket_id=$1 ORDER BY position ASC`
	rows, err := q.Query(ctx, msgQuery, ticket.ID)
	if err != nil {
		return err
	}
	ticket.Messages = []domain.Message{}
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.ID, &msg.Sender, &msg.Content, &msg.ReadStatus, &msg.Timestamp); err != nil {
			rows.Close()
			return err
		}
		ticket.Messages = append(ticket.Messages, msg)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	const integQuery = `
        SELECT id, provider, api_key, widget_id, property_id, config, is_active, status
        FROM chat_integrations WHERE ticket_id=$1 ORDER BY position ASC`
	rows, err = q.Query(ctx, integQuery, ticket.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	ticket.ChatIntegrations = nil
	for rows.Next() {
		var integ domain.ChatIntegration
		if err := rows.Scan(&integ.ID, &integ.Provider, &integ.APIKey, &integ.WidgetID,
			&integ.PropertyID, &integ.Config, &integ.IsActive, &integ.Status); err != nil {
			return err
		}
		ticket.ChatIntegrations = append(ticket.ChatIntegrations, integ)
	}
	return rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.OrganizationID,
		&ticket.Subject,
		&ticket.Description,
		&ticket.Category,
		&ticket.Priority,
		&ticket.Status,
		&ticket.Customer,
		&ticket.HasUnreadMessages,
		&ticket.IsSentinel,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func translateErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
