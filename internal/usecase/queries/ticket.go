package queries

import (
	"context"
	"time"

	"tradeblox-mm/internal/domain/ticket"
	"tradeblox-mm/internal/infra"
	"tradeblox-mm/internal/pkg/errs"
)

// Read model (DTO for the read side)
type TicketView struct {
	ID            int64      `json:"id"`
	TicketNumber  int64      `json:"ticketNumber"`
	CreatorID     string     `json:"creatorId"`
	CreatorName   string     `json:"creatorName"`
	Deal          string     `json:"deal"`
	Amount        string     `json:"amount"`
	OtherUserID   string     `json:"otherUserId"`
	Category      string     `json:"category"`
	Status        string     `json:"status"`
	ClaimedBy     *string    `json:"claimedBy"`
	ClaimedByName *string    `json:"claimedByName"`
	CreatedAt     time.Time  `json:"createdAt"`
	ClaimedAt     *time.Time `json:"claimedAt"`
}

func ViewFromEntity(t *ticket.Ticket) *TicketView {
	return &TicketView{
		ID:            t.ID(),
		TicketNumber:  t.Number(),
		CreatorID:     t.CreatorID(),
		CreatorName:   t.CreatorName(),
		Deal:          t.Deal(),
		Amount:        t.Amount(),
		OtherUserID:   t.OtherUserID(),
		Category:      t.Category(),
		Status:        t.Status().String(),
		ClaimedBy:     t.ClaimedBy(),
		ClaimedByName: t.ClaimedByName(),
		CreatedAt:     t.CreatedAt(),
		ClaimedAt:     t.ClaimedAt(),
	}
}

// TicketReadStore is the read-side slice of the repository contract.
type TicketReadStore interface {
	FindByID(ctx context.Context, id int64) (*ticket.Ticket, error)
	FindByNumber(ctx context.Context, number int64) (*ticket.Ticket, error)
	List(ctx context.Context, limit int) ([]*ticket.Ticket, error)
}

type TicketQueries interface {
	GetByID(ctx context.Context, id int64) (*TicketView, error)
	GetByNumber(ctx context.Context, number int64) (*TicketView, error)
	List(ctx context.Context) ([]*TicketView, error)
}

type ticketQueriesImpl struct {
	store     TicketReadStore
	listLimit int
}

func NewTicketQueries(store TicketReadStore, listLimit int) TicketQueries {
	return &ticketQueriesImpl{store: store, listLimit: listLimit}
}

func (q *ticketQueriesImpl) GetByID(ctx context.Context, id int64) (*TicketView, error) {
	t, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrTicketNotFound)
		}
		return nil, errs.Mark(err, errs.ErrRepository)
	}
	return ViewFromEntity(t), nil
}

func (q *ticketQueriesImpl) GetByNumber(ctx context.Context, number int64) (*TicketView, error) {
	t, err := q.store.FindByNumber(ctx, number)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrTicketNotFound)
		}
		return nil, errs.Mark(err, errs.ErrRepository)
	}
	return ViewFromEntity(t), nil
}

func (q *ticketQueriesImpl) List(ctx context.Context) ([]*TicketView, error) {
	tickets, err := q.store.List(ctx, q.listLimit)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrRepository)
	}

	views := make([]*TicketView, len(tickets))
	for i, t := range tickets {
		views[i] = ViewFromEntity(t)
	}
	return views, nil
}
