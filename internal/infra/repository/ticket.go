package repository

import (
	"context"
	"errors"
	"time"

	"tradeblox-mm/internal/domain/ticket"
	"tradeblox-mm/internal/infra"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TicketRepository persists tickets in Postgres. Ticket numbers come from
// tickets_number_seq, so allocation is atomic across concurrent creates and
// monotonic across restarts (see schema.sql).
type TicketRepository struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

const ticketColumns = `id, ticket_number, creator_id, creator_name, deal, amount,
	other_user_id, category, status, claimed_by, claimed_by_name, created_at, claimed_at`

func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) (*ticket.Ticket, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tickets (creator_id, creator_name, deal, amount, other_user_id, category, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+ticketColumns,
		t.CreatorID(), t.CreatorName(), t.Deal(), t.Amount(), t.OtherUserID(),
		t.Category(), t.Status().String(), t.CreatedAt(),
	)

	created, err := scanTicket(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, infra.WrapRepoErr("duplicate ticket number", err, infra.KindDuplicateKey)
		}
		return nil, infra.WrapRepoErr("failed to create ticket", err)
	}
	return created, nil
}

func (r *TicketRepository) FindByID(ctx context.Context, id int64) (*ticket.Ticket, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id)
	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("ticket not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find ticket by id", err)
	}
	return t, nil
}

func (r *TicketRepository) FindByNumber(ctx context.Context, number int64) (*ticket.Ticket, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE ticket_number = $1`, number)
	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("ticket not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find ticket by number", err)
	}
	return t, nil
}

func (r *TicketRepository) List(ctx context.Context, limit int) ([]*ticket.Ticket, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+ticketColumns+` FROM tickets
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list tickets", err)
	}
	defer rows.Close()

	var tickets []*ticket.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan ticket row", err)
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate ticket rows", err)
	}
	return tickets, nil
}

// Save writes the full mutable state of a ticket in one statement; there is
// no partial write a failure could leave behind.
func (r *TicketRepository) Save(ctx context.Context, t *ticket.Ticket) (*ticket.Ticket, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE tickets
		SET status = $2, claimed_by = $3, claimed_by_name = $4, other_user_id = $5, claimed_at = $6
		WHERE id = $1
		RETURNING `+ticketColumns,
		t.ID(), t.Status().String(), t.ClaimedBy(), t.ClaimedByName(), t.OtherUserID(), t.ClaimedAt(),
	)

	saved, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("ticket not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to save ticket", err)
	}
	return saved, nil
}

func (r *TicketRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		return false, infra.WrapRepoErr("failed to delete ticket", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanTicket(row pgx.Row) (*ticket.Ticket, error) {
	var (
		id, number               int64
		creatorID, creatorName   string
		deal, amount             string
		otherUserID, category    string
		status                   string
		claimedBy, claimedByName *string
		createdAt                time.Time
		claimedAt                *time.Time
	)

	err := row.Scan(
		&id, &number, &creatorID, &creatorName, &deal, &amount,
		&otherUserID, &category, &status, &claimedBy, &claimedByName,
		&createdAt, &claimedAt,
	)
	if err != nil {
		return nil, err
	}

	return ticket.Reconstruct(
		id, number, creatorID, creatorName, deal, amount, otherUserID, category,
		ticket.Status(status), claimedBy, claimedByName,
		createdAt, claimedAt,
	), nil
}
