package response

import (
	"time"

	"tradeblox-mm/internal/usecase/commands"
	"tradeblox-mm/internal/usecase/queries"
)

type TicketResponse struct {
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

type ConfirmationResponse struct {
	Outcome    string `json:"outcome"`
	AwaitingID string `json:"awaitingId,omitempty"`
}

func FromTicketView(v *queries.TicketView) *TicketResponse {
	return &TicketResponse{
		ID:            v.ID,
		TicketNumber:  v.TicketNumber,
		CreatorID:     v.CreatorID,
		CreatorName:   v.CreatorName,
		Deal:          v.Deal,
		Amount:        v.Amount,
		OtherUserID:   v.OtherUserID,
		Category:      v.Category,
		Status:        v.Status,
		ClaimedBy:     v.ClaimedBy,
		ClaimedByName: v.ClaimedByName,
		CreatedAt:     v.CreatedAt,
		ClaimedAt:     v.ClaimedAt,
	}
}

func FromTicketList(views []*queries.TicketView) []*TicketResponse {
	out := make([]*TicketResponse, len(views))
	for i, v := range views {
		out[i] = FromTicketView(v)
	}
	return out
}

func FromConfirmationStatus(s *commands.ConfirmationStatus) *ConfirmationResponse {
	return &ConfirmationResponse{
		Outcome:    string(s.Outcome),
		AwaitingID: s.AwaitingID,
	}
}
