package commands

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"tradeblox-mm/internal/domain/ticket"
	"tradeblox-mm/internal/pkg/lock"
)

type ConfirmationOutcome string

const (
	// OutcomeWaiting: one party has confirmed, the other is still pending.
	OutcomeWaiting ConfirmationOutcome = "waiting"
	// OutcomeBothConfirmed: this call completed the pairing; staff were notified.
	OutcomeBothConfirmed ConfirmationOutcome = "both_confirmed"
	// OutcomeResolved: the cycle had already completed; the call was a no-op.
	OutcomeResolved ConfirmationOutcome = "resolved"
)

type ConfirmationStatus struct {
	Outcome ConfirmationOutcome `json:"outcome"`
	// AwaitingID is the party whose confirmation is still missing, if any.
	AwaitingID string `json:"awaitingId,omitempty"`
}

// ConfirmationCoordinator owns the per-ticket confirmation sets. A cycle is
// opened (and any previous one discarded) by a counterparty reassignment,
// or lazily by the first confirm. The window timer is canceled on
// resolution; a timer that loses the race against resolution finds its
// cycle gone and does nothing.
//
// Callers serialize per ticket (the facade holds the keyed lock), and the
// timer goroutines take the same keyed lock before touching storage, so a
// firing timer never interleaves with a claim/close/delete in flight. The
// coordinator mutex guards only the cycle map.
type ConfirmationCoordinator struct {
	mu     sync.Mutex
	cycles map[int64]*confirmCycle

	repo     TicketRepository
	channels ChannelService
	locks    *lock.Keyed
	window   time.Duration
	logger   *slog.Logger
}

type confirmCycle struct {
	confirmed map[string]bool
	timer     *time.Timer
	// resolved marks a completed cycle. The entry lingers for one grace
	// window so late confirm/decline deliveries are recognized as no-ops
	// instead of opening a fresh cycle.
	resolved bool
}

// NewConfirmationCoordinator wires the coordinator to the same keyed lock
// the command facade serializes on.
func NewConfirmationCoordinator(
	repo TicketRepository,
	channels ChannelService,
	locks *lock.Keyed,
	window time.Duration,
	logger *slog.Logger,
) *ConfirmationCoordinator {
	return &ConfirmationCoordinator{
		cycles:   make(map[int64]*confirmCycle),
		repo:     repo,
		channels: channels,
		locks:    locks,
		window:   window,
		logger:   logger,
	}
}

// StartCycle discards any previous confirmation state for the ticket and
// arms the timeout window.
func (c *ConfirmationCoordinator) StartCycle(ticketID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.cycles[ticketID]; ok && prev.timer != nil {
		prev.timer.Stop()
	}

	cycle := &confirmCycle{confirmed: make(map[string]bool)}
	cycle.timer = time.AfterFunc(c.window, func() {
		c.expire(ticketID, cycle)
	})
	c.cycles[ticketID] = cycle
}

// HasConfirmations reports whether the active cycle has already collected a
// confirmation; the counterparty becomes immutable at that point.
func (c *ConfirmationCoordinator) HasConfirmations(ticketID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	cycle, ok := c.cycles[ticketID]
	return ok && !cycle.resolved && len(cycle.confirmed) > 0
}

// Confirm records one party's agreement. The second confirmation completes
// the cycle: the set is cleared, the expiry timer canceled, and exactly one
// completion is reported to the caller (which notifies staff).
func (c *ConfirmationCoordinator) Confirm(t *ticket.Ticket, actorID string) *ConfirmationStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	cycle, ok := c.cycles[t.ID()]
	if !ok {
		cycle = &confirmCycle{confirmed: make(map[string]bool)}
		c.cycles[t.ID()] = cycle
	}
	if cycle.resolved {
		return &ConfirmationStatus{Outcome: OutcomeResolved}
	}

	cycle.confirmed[actorID] = true

	if cycle.confirmed[t.CreatorID()] && cycle.confirmed[t.OtherUserID()] {
		cycle.resolved = true
		cycle.confirmed = make(map[string]bool)
		if cycle.timer != nil {
			cycle.timer.Stop()
		}
		// Keep the resolved entry around for one more window so late
		// button deliveries are absorbed, then evict it; otherwise tickets
		// that escalate but are never closed pin their entry forever.
		ticketID := t.ID()
		cycle.timer = time.AfterFunc(c.window, func() {
			c.evict(ticketID, cycle)
		})
		return &ConfirmationStatus{Outcome: OutcomeBothConfirmed}
	}

	awaiting := t.OtherUserID()
	if !cycle.confirmed[t.CreatorID()] {
		awaiting = t.CreatorID()
	}
	return &ConfirmationStatus{Outcome: OutcomeWaiting, AwaitingID: awaiting}
}

// Decline aborts the cycle. It reports whether the ticket should be torn
// down; a decline arriving after completion is a no-op.
func (c *ConfirmationCoordinator) Decline(t *ticket.Ticket) (aborted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cycle, ok := c.cycles[t.ID()]
	if ok && cycle.resolved {
		return false
	}
	if ok {
		if cycle.timer != nil {
			cycle.timer.Stop()
		}
		delete(c.cycles, t.ID())
	}
	return true
}

// Cancel drops all confirmation state for a ticket. Called when the ticket
// is closed or deleted through another path.
func (c *ConfirmationCoordinator) Cancel(ticketID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cycle, ok := c.cycles[ticketID]; ok {
		if cycle.timer != nil {
			cycle.timer.Stop()
		}
		delete(c.cycles, ticketID)
	}
}

// evict drops a resolved entry once its late-delivery grace has lapsed.
func (c *ConfirmationCoordinator) evict(ticketID int64, cycle *confirmCycle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cycles[ticketID] == cycle {
		delete(c.cycles, ticketID)
	}
}

// expire runs on the timer goroutine when a cycle was never resolved. It
// waits for the per-ticket lock so it cannot cut into a facade operation
// mid-write, and the cycle pointer check rejects timers belonging to a
// superseded or canceled cycle.
func (c *ConfirmationCoordinator) expire(ticketID int64, cycle *confirmCycle) {
	unlock := c.locks.Lock(ticketID)
	defer unlock()

	c.mu.Lock()
	current, ok := c.cycles[ticketID]
	if !ok || current != cycle || cycle.resolved {
		c.mu.Unlock()
		return
	}
	delete(c.cycles, ticketID)
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t, err := c.repo.FindByID(ctx, ticketID)
	if err != nil {
		// Already gone through another path; nothing to clean up.
		return
	}
	if t.IsClosed() {
		// Closed while the timer was in flight; closed tickets stay closed.
		return
	}

	if _, err := c.repo.Delete(ctx, ticketID); err != nil {
		c.logger.Error("failed to delete ticket after confirmation timeout",
			"ticket_id", ticketID, "error", err)
		return
	}
	if err := c.channels.TeardownTicketChannel(ctx, t); err != nil {
		c.logger.Warn("failed to tear down channel after confirmation timeout",
			"ticket_id", ticketID, "error", err)
	}

	c.logger.Info("confirmation window expired, ticket abandoned",
		"ticket_id", ticketID, "ticket_number", t.Number())
}
