package request

type CreateTicketRequest struct {
	Deal        string  `json:"deal" binding:"required"`
	Amount      string  `json:"amount" binding:"required"`
	OtherUserID string  `json:"otherUserId" binding:"required"`
	Category    *string `json:"category,omitempty" binding:"omitempty,oneof=middleman trading other"`
}

// UpdateTicketRequest drives the lifecycle through PATCH: a status value
// requests the matching transition (claimed ⇒ claim, pending ⇒ release,
// closed ⇒ close) and otherUserId requests a counterparty reassignment.
type UpdateTicketRequest struct {
	Status      *string `json:"status,omitempty" binding:"omitempty,oneof=pending claimed closed"`
	OtherUserID *string `json:"otherUserId,omitempty"`
}

type AddCounterpartyRequest struct {
	OtherUserID string `json:"otherUserId" binding:"required"`
}
