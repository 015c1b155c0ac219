package actor

// Role classifies an authenticated actor. Traders open tickets and confirm
// trades; middlemen additionally run the claim/close lifecycle; admins can
// also delete tickets outright.
type Role string

const (
	RoleTrader    Role = "trader"
	RoleMiddleman Role = "middleman"
	RoleAdmin     Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) Valid() bool {
	switch r {
	case RoleTrader, RoleMiddleman, RoleAdmin:
		return true
	}
	return false
}

// Actor is the identity attached to a request by the presentation layer.
// IDs are platform-issued (Discord snowflakes on the bot side); the core
// never resolves them.
type Actor struct {
	ID   string
	Name string
	Role Role
}
