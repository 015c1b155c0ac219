package ticket

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrMissingField = errors.New("missing required field")
	ErrNotClaimable = errors.New("ticket is not available for claiming")
	ErrNotClaimed   = errors.New("ticket is not currently claimed")
	ErrNotClaimer   = errors.New("only the claimer can release a ticket")
	ErrClosed       = errors.New("ticket is closed")
)

// Ticket is the record of one trade-mediation request. All lifecycle
// transitions go through the methods below; they keep the invariant that
// status == claimed exactly when claimedBy is set, and that a closed ticket
// never transitions again.
type Ticket struct {
	id            int64
	number        int64
	creatorID     string
	creatorName   string
	deal          string
	amount        string
	otherUserID   string
	category      string
	status        Status
	claimedBy     *string
	claimedByName *string
	createdAt     time.Time
	claimedAt     *time.Time
}

// NewTicket validates a trade request and returns a pending draft. The id
// and ticket number are zero until the repository assigns them on create.
func NewTicket(creatorID, creatorName, deal, amount, otherUserID, category string, now time.Time) (*Ticket, error) {
	for _, f := range []string{creatorID, creatorName, deal, amount, otherUserID} {
		if strings.TrimSpace(f) == "" {
			return nil, ErrMissingField
		}
	}
	if category == "" {
		category = CategoryMiddleman
	}

	return &Ticket{
		creatorID:   creatorID,
		creatorName: creatorName,
		deal:        deal,
		amount:      amount,
		otherUserID: otherUserID,
		category:    category,
		status:      StatusPending,
		createdAt:   now,
	}, nil
}

func Reconstruct(
	id, number int64,
	creatorID, creatorName, deal, amount, otherUserID, category string,
	status Status,
	claimedBy, claimedByName *string,
	createdAt time.Time,
	claimedAt *time.Time,
) *Ticket {
	return &Ticket{
		id:            id,
		number:        number,
		creatorID:     creatorID,
		creatorName:   creatorName,
		deal:          deal,
		amount:        amount,
		otherUserID:   otherUserID,
		category:      category,
		status:        status,
		claimedBy:     claimedBy,
		claimedByName: claimedByName,
		createdAt:     createdAt,
		claimedAt:     claimedAt,
	}
}

// Claim moves a pending ticket to claimed. claimedAt records the first
// claim only; it survives unclaim/reclaim cycles for reporting.
func (t *Ticket) Claim(actorID, actorName string, now time.Time) error {
	if t.status != StatusPending {
		return ErrNotClaimable
	}
	t.status = StatusClaimed
	t.claimedBy = &actorID
	t.claimedByName = &actorName
	if t.claimedAt == nil {
		firstClaim := now
		t.claimedAt = &firstClaim
	}
	return nil
}

// Unclaim releases a claimed ticket back to pending. Only the current
// claimer may release; claimedAt is intentionally left untouched.
func (t *Ticket) Unclaim(actorID string) error {
	if t.status == StatusClosed {
		return ErrClosed
	}
	if t.status != StatusClaimed || t.claimedBy == nil {
		return ErrNotClaimed
	}
	if *t.claimedBy != actorID {
		return ErrNotClaimer
	}
	t.status = StatusPending
	t.claimedBy = nil
	t.claimedByName = nil
	return nil
}

// Close is terminal. claimedBy/claimedByName stay as-is as a historical
// record of who was handling the ticket.
func (t *Ticket) Close() error {
	if t.status == StatusClosed {
		return ErrClosed
	}
	t.status = StatusClosed
	return nil
}

// ReassignCounterparty swaps in a new second trading party. The coordinator
// guards against reassignment mid-confirmation; here only closed tickets and
// empty IDs are rejected.
func (t *Ticket) ReassignCounterparty(newOtherUserID string) error {
	if t.status == StatusClosed {
		return ErrClosed
	}
	if strings.TrimSpace(newOtherUserID) == "" {
		return ErrMissingField
	}
	t.otherUserID = newOtherUserID
	return nil
}

// IsParty reports whether the actor is the creator or the counterparty.
func (t *Ticket) IsParty(actorID string) bool {
	return actorID == t.creatorID || actorID == t.otherUserID
}

// Assign sets storage identity on a draft. Repository use only.
func (t *Ticket) Assign(id, number int64) {
	t.id = id
	t.number = number
}

func (t *Ticket) Clone() *Ticket {
	c := *t
	if t.claimedBy != nil {
		v := *t.claimedBy
		c.claimedBy = &v
	}
	if t.claimedByName != nil {
		v := *t.claimedByName
		c.claimedByName = &v
	}
	if t.claimedAt != nil {
		v := *t.claimedAt
		c.claimedAt = &v
	}
	return &c
}

func (t *Ticket) ID() int64               { return t.id }
func (t *Ticket) Number() int64           { return t.number }
func (t *Ticket) CreatorID() string       { return t.creatorID }
func (t *Ticket) CreatorName() string     { return t.creatorName }
func (t *Ticket) Deal() string            { return t.deal }
func (t *Ticket) Amount() string          { return t.amount }
func (t *Ticket) OtherUserID() string     { return t.otherUserID }
func (t *Ticket) Category() string        { return t.category }
func (t *Ticket) Status() Status          { return t.status }
func (t *Ticket) ClaimedBy() *string      { return t.claimedBy }
func (t *Ticket) ClaimedByName() *string  { return t.claimedByName }
func (t *Ticket) CreatedAt() time.Time    { return t.createdAt }
func (t *Ticket) ClaimedAt() *time.Time   { return t.claimedAt }
func (t *Ticket) IsClosed() bool          { return t.status == StatusClosed }
