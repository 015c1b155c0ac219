package commands

import (
	"context"
	"log/slog"

	"tradeblox-mm/internal/domain/ticket"
	"tradeblox-mm/internal/infra"
	"tradeblox-mm/internal/pkg/clock"
	"tradeblox-mm/internal/pkg/errs"
	"tradeblox-mm/internal/pkg/lock"
	"tradeblox-mm/internal/usecase/queries"
)

type CreateTicketInput struct {
	CreatorID   string
	CreatorName string
	Deal        string
	Amount      string
	OtherUserID string
	Category    string
}

type TicketCommands interface {
	Create(ctx context.Context, in CreateTicketInput) (*queries.TicketView, error)
	Claim(ctx context.Context, id int64, actorID, actorName string) (*queries.TicketView, error)
	Unclaim(ctx context.Context, id int64, actorID string) (*queries.TicketView, error)
	Close(ctx context.Context, id int64, actorID string) (*queries.TicketView, error)
	Delete(ctx context.Context, id int64, actorID string) error
	AddCounterparty(ctx context.Context, id int64, actorID, otherUserID string) (*queries.TicketView, error)
	Confirm(ctx context.Context, id int64, actorID string) (*ConfirmationStatus, error)
	Decline(ctx context.Context, id int64, actorID string) error
}

type ticketCommandsImpl struct {
	repo        TicketRepository
	authz       Authorizer
	notifier    StaffNotifier
	channels    ChannelService
	coordinator *ConfirmationCoordinator
	locks       *lock.Keyed
	clock       clock.Clock
	logger      *slog.Logger

	defaultCategory string
}

// NewTicketCommands builds the facade. The keyed lock must be the same
// instance the coordinator expires against, so lifecycle transitions and
// window timeouts serialize on one mutex per ticket.
func NewTicketCommands(
	repo TicketRepository,
	authz Authorizer,
	notifier StaffNotifier,
	channels ChannelService,
	coordinator *ConfirmationCoordinator,
	locks *lock.Keyed,
	clk clock.Clock,
	logger *slog.Logger,
	defaultCategory string,
) TicketCommands {
	return &ticketCommandsImpl{
		repo:            repo,
		authz:           authz,
		notifier:        notifier,
		channels:        channels,
		coordinator:     coordinator,
		locks:           locks,
		clock:           clk,
		logger:          logger,
		defaultCategory: defaultCategory,
	}
}

func (c *ticketCommandsImpl) Create(ctx context.Context, in CreateTicketInput) (*queries.TicketView, error) {
	category := in.Category
	if category == "" {
		category = c.defaultCategory
	}

	draft, err := ticket.NewTicket(
		in.CreatorID, in.CreatorName, in.Deal, in.Amount, in.OtherUserID,
		category, c.clock.Now(),
	)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	created, err := c.repo.Create(ctx, draft)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrRepository)
	}
	return queries.ViewFromEntity(created), nil
}

func (c *ticketCommandsImpl) Claim(ctx context.Context, id int64, actorID, actorName string) (*queries.TicketView, error) {
	if err := c.requireModerator(ctx, actorID); err != nil {
		return nil, err
	}

	unlock := c.locks.Lock(id)
	defer unlock()

	t, err := c.findTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := t.Claim(actorID, actorName, c.clock.Now()); err != nil {
		return nil, translateDomainErr(err)
	}

	saved, err := c.repo.Save(ctx, t)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrRepository)
	}
	return queries.ViewFromEntity(saved), nil
}

// Unclaim needs no role check: the entity only lets the current claimer
// release, and only staff can have claimed in the first place.
func (c *ticketCommandsImpl) Unclaim(ctx context.Context, id int64, actorID string) (*queries.TicketView, error) {
	unlock := c.locks.Lock(id)
	defer unlock()

	t, err := c.findTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := t.Unclaim(actorID); err != nil {
		return nil, translateDomainErr(err)
	}

	saved, err := c.repo.Save(ctx, t)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrRepository)
	}
	return queries.ViewFromEntity(saved), nil
}

func (c *ticketCommandsImpl) Close(ctx context.Context, id int64, actorID string) (*queries.TicketView, error) {
	if err := c.requireModerator(ctx, actorID); err != nil {
		return nil, err
	}

	unlock := c.locks.Lock(id)
	defer unlock()

	t, err := c.findTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := t.Close(); err != nil {
		return nil, translateDomainErr(err)
	}

	saved, err := c.repo.Save(ctx, t)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrRepository)
	}

	c.coordinator.Cancel(id)
	return queries.ViewFromEntity(saved), nil
}

func (c *ticketCommandsImpl) Delete(ctx context.Context, id int64, actorID string) error {
	if err := c.requireModerator(ctx, actorID); err != nil {
		return err
	}

	unlock := c.locks.Lock(id)
	defer unlock()

	t, err := c.findTicket(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := c.repo.Delete(ctx, id)
	if err != nil {
		return errs.Mark(err, errs.ErrRepository)
	}
	if !deleted {
		return errs.ErrTicketNotFound
	}

	c.coordinator.Cancel(id)
	if err := c.channels.TeardownTicketChannel(ctx, t); err != nil {
		c.logger.Warn("channel teardown failed after delete",
			"ticket_id", id, "error", err)
	}
	return nil
}

func (c *ticketCommandsImpl) AddCounterparty(ctx context.Context, id int64, actorID, otherUserID string) (*queries.TicketView, error) {
	if err := c.requireModerator(ctx, actorID); err != nil {
		return nil, err
	}

	unlock := c.locks.Lock(id)
	defer unlock()

	t, err := c.findTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.coordinator.HasConfirmations(id) {
		return nil, errs.Mark(errs.New("confirmation cycle already has responses"), errs.ErrValidation)
	}
	if err := t.ReassignCounterparty(otherUserID); err != nil {
		return nil, translateDomainErr(err)
	}

	saved, err := c.repo.Save(ctx, t)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrRepository)
	}

	c.coordinator.StartCycle(id)
	return queries.ViewFromEntity(saved), nil
}

func (c *ticketCommandsImpl) Confirm(ctx context.Context, id int64, actorID string) (*ConfirmationStatus, error) {
	unlock := c.locks.Lock(id)
	defer unlock()

	t, err := c.findTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.IsClosed() {
		return nil, errs.ErrAlreadyClosed
	}
	if !t.IsParty(actorID) {
		return nil, errs.ErrNotParty
	}

	status := c.coordinator.Confirm(t, actorID)
	if status.Outcome == OutcomeBothConfirmed {
		if err := c.notifier.TicketEscalated(ctx, t); err != nil {
			c.logger.Warn("staff notification failed after dual confirmation",
				"ticket_id", id, "error", err)
		}
	}
	return status, nil
}

func (c *ticketCommandsImpl) Decline(ctx context.Context, id int64, actorID string) error {
	unlock := c.locks.Lock(id)
	defer unlock()

	t, err := c.findTicket(ctx, id)
	if err != nil {
		return err
	}
	if t.IsClosed() {
		return errs.ErrAlreadyClosed
	}
	if !t.IsParty(actorID) {
		return errs.ErrNotParty
	}

	if !c.coordinator.Decline(t) {
		// Cycle already completed; a late decline changes nothing.
		return nil
	}

	deleted, err := c.repo.Delete(ctx, id)
	if err != nil {
		return errs.Mark(err, errs.ErrRepository)
	}
	if deleted {
		if err := c.channels.TeardownTicketChannel(ctx, t); err != nil {
			c.logger.Warn("channel teardown failed after decline",
				"ticket_id", id, "error", err)
		}
	}
	return nil
}

func (c *ticketCommandsImpl) requireModerator(ctx context.Context, actorID string) error {
	ok, err := c.authz.CanModerate(ctx, actorID)
	if err != nil {
		return errs.Mark(err, errs.ErrRepository)
	}
	if !ok {
		return errs.ErrNotAuthorized
	}
	return nil
}

func (c *ticketCommandsImpl) findTicket(ctx context.Context, id int64) (*ticket.Ticket, error) {
	t, err := c.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrTicketNotFound)
		}
		return nil, errs.Mark(err, errs.ErrRepository)
	}
	return t, nil
}

func translateDomainErr(err error) error {
	switch err {
	case ticket.ErrMissingField:
		return errs.Mark(err, errs.ErrValidation)
	case ticket.ErrNotClaimable:
		return errs.Mark(err, errs.ErrNotClaimable)
	case ticket.ErrNotClaimed:
		return errs.Mark(err, errs.ErrNotClaimed)
	case ticket.ErrNotClaimer:
		return errs.Mark(err, errs.ErrNotClaimer)
	case ticket.ErrClosed:
		return errs.Mark(err, errs.ErrAlreadyClosed)
	default:
		return err
	}
}
