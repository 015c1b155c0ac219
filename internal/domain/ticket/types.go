package ticket

// Status is the lifecycle state of a ticket. Closed is terminal.
type Status string

const (
	StatusPending Status = "pending"
	StatusClaimed Status = "claimed"
	StatusClosed  Status = "closed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusClaimed, StatusClosed:
		return true
	}
	return false
}

// Category classifies what kind of mediation a ticket asks for.
const (
	CategoryMiddleman = "middleman"
	CategoryTrading   = "trading"
	CategoryOther     = "other"
)
