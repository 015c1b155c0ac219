//go:build unit || e2e

package builder

import (
	"time"

	domticket "tradeblox-mm/internal/domain/ticket"
	reqdto "tradeblox-mm/internal/handler/dto/request"
	"tradeblox-mm/internal/usecase/queries"
)

type TicketBuilder struct {
	ID            int64
	TicketNumber  int64
	CreatorID     string
	CreatorName   string
	Deal          string
	Amount        string
	OtherUserID   string
	Category      string
	Status        string
	ClaimedBy     *string
	ClaimedByName *string
	CreatedAt     time.Time
	ClaimedAt     *time.Time
}

func NewTicketBuilder() *TicketBuilder {
	return &TicketBuilder{
		ID:           1,
		TicketNumber: 40000,
		CreatorID:    "100000000000000001",
		CreatorName:  "alice",
		Deal:         "korblox for headless",
		Amount:       "25k robux",
		OtherUserID:  "100000000000000002",
		Category:     domticket.CategoryMiddleman,
		Status:       domticket.StatusPending.String(),
		CreatedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (b *TicketBuilder) With(mutate func(*TicketBuilder)) *TicketBuilder {
	mutate(b)
	return b
}

func (b *TicketBuilder) Claimed(actorID, actorName string) *TicketBuilder {
	b.Status = domticket.StatusClaimed.String()
	b.ClaimedBy = &actorID
	b.ClaimedByName = &actorName
	at := b.CreatedAt.Add(5 * time.Minute)
	b.ClaimedAt = &at
	return b
}

func (b *TicketBuilder) BuildDomain() (*domticket.Ticket, error) {
	return domticket.NewTicket(b.CreatorID, b.CreatorName, b.Deal, b.Amount, b.OtherUserID, b.Category, b.CreatedAt)
}

func (b *TicketBuilder) BuildView() *queries.TicketView {
	return &queries.TicketView{
		ID:            b.ID,
		TicketNumber:  b.TicketNumber,
		CreatorID:     b.CreatorID,
		CreatorName:   b.CreatorName,
		Deal:          b.Deal,
		Amount:        b.Amount,
		OtherUserID:   b.OtherUserID,
		Category:      b.Category,
		Status:        b.Status,
		ClaimedBy:     b.ClaimedBy,
		ClaimedByName: b.ClaimedByName,
		CreatedAt:     b.CreatedAt,
		ClaimedAt:     b.ClaimedAt,
	}
}

func (b *TicketBuilder) BuildCreateRequestDTO() reqdto.CreateTicketRequest {
	var category *string
	if b.Category != "" {
		c := b.Category
		category = &c
	}
	return reqdto.CreateTicketRequest{
		Deal:        b.Deal,
		Amount:      b.Amount,
		OtherUserID: b.OtherUserID,
		Category:    category,
	}
}
