package memstore

import (
	"context"
	"sort"
	"sync"

	"tradeblox-mm/internal/domain/ticket"
	"tradeblox-mm/internal/infra"
	"tradeblox-mm/internal/pkg/clock"
)

// TicketStore is the in-process repository used when no database is
// configured and by the unit suite. All operations take the store mutex, so
// reads and writes on the same id are linearizable; number allocation
// happens under the same mutex and can never hand out a duplicate.
type TicketStore struct {
	mu         sync.RWMutex
	tickets    map[int64]*ticket.Ticket
	nextID     int64
	nextNumber int64
	clock      clock.Clock
}

func NewTicketStore(numberBase int64, clk clock.Clock) *TicketStore {
	return &TicketStore{
		tickets:    make(map[int64]*ticket.Ticket),
		nextID:     1,
		nextNumber: numberBase,
		clock:      clk,
	}
}

func (s *TicketStore) Create(_ context.Context, t *ticket.Ticket) (*ticket.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := t.Clone()
	stored.Assign(s.nextID, s.nextNumber)
	s.nextID++
	s.nextNumber++

	s.tickets[stored.ID()] = stored
	return stored.Clone(), nil
}

func (s *TicketStore) FindByID(_ context.Context, id int64) (*ticket.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tickets[id]
	if !ok {
		return nil, infra.WrapRepoErr("ticket not found", nil, infra.KindNotFound)
	}
	return t.Clone(), nil
}

func (s *TicketStore) FindByNumber(_ context.Context, number int64) (*ticket.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tickets {
		if t.Number() == number {
			return t.Clone(), nil
		}
	}
	return nil, infra.WrapRepoErr("ticket not found", nil, infra.KindNotFound)
}

// List returns tickets newest first.
func (s *TicketStore) List(_ context.Context, limit int) ([]*ticket.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tickets := make([]*ticket.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		tickets = append(tickets, t.Clone())
	}
	sort.Slice(tickets, func(i, j int) bool {
		if !tickets[i].CreatedAt().Equal(tickets[j].CreatedAt()) {
			return tickets[i].CreatedAt().After(tickets[j].CreatedAt())
		}
		return tickets[i].ID() > tickets[j].ID()
	})

	if limit > 0 && len(tickets) > limit {
		tickets = tickets[:limit]
	}
	return tickets, nil
}

func (s *TicketStore) Save(_ context.Context, t *ticket.Ticket) (*ticket.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tickets[t.ID()]; !ok {
		return nil, infra.WrapRepoErr("ticket not found", nil, infra.KindNotFound)
	}
	stored := t.Clone()
	s.tickets[t.ID()] = stored
	return stored.Clone(), nil
}

func (s *TicketStore) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tickets[id]; !ok {
		return false, nil
	}
	delete(s.tickets, id)
	return true, nil
}
