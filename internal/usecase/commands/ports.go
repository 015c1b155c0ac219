package commands

import (
	"context"

	"tradeblox-mm/internal/domain/ticket"
)

// TicketRepository is the write-side storage contract. Implementations must
// be linearizable per ticket id: Save replaces the whole mutable state in
// one step, so a failed write never leaves a partial update behind.
type TicketRepository interface {
	Create(ctx context.Context, t *ticket.Ticket) (*ticket.Ticket, error)
	FindByID(ctx context.Context, id int64) (*ticket.Ticket, error)
	FindByNumber(ctx context.Context, number int64) (*ticket.Ticket, error)
	List(ctx context.Context, limit int) ([]*ticket.Ticket, error)
	Save(ctx context.Context, t *ticket.Ticket) (*ticket.Ticket, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// Authorizer answers whether an actor may run staff transitions
// (claim, close, add-counterparty, delete). Role membership lives with the
// identity provider, not the state machine.
type Authorizer interface {
	CanModerate(ctx context.Context, actorID string) (bool, error)
}

// StaffNotifier is called exactly once when both parties have confirmed and
// the ticket is ready for a middleman.
type StaffNotifier interface {
	TicketEscalated(ctx context.Context, t *ticket.Ticket) error
}

// ChannelService tears down any chat resources provisioned for a ticket
// after a decline or a confirmation timeout.
type ChannelService interface {
	TeardownTicketChannel(ctx context.Context, t *ticket.Ticket) error
}
