package errs

import "errors"

// Sentinel errors for the ticket lifecycle. Handlers translate these into
// HTTP statuses; the Discord front end translates them into user replies.
var (
	// Creation / input errors
	ErrValidation = errors.New("invalid ticket data")

	// Lookup errors
	ErrTicketNotFound = errors.New("ticket not found")

	// Lifecycle transition errors
	ErrNotClaimable  = errors.New("ticket is not available for claiming")
	ErrNotClaimed    = errors.New("ticket is not currently claimed")
	ErrNotClaimer    = errors.New("ticket is claimed by someone else")
	ErrAlreadyClosed = errors.New("ticket is already closed")

	// Authorization errors
	ErrNotAuthorized = errors.New("actor lacks the required role")
	ErrNotParty      = errors.New("actor is not a party to this trade")

	// Storage errors
	ErrRepository = errors.New("storage operation failed")
)
