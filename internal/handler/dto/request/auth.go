package request

type MintTokenRequest struct {
	ActorID   string `json:"actorId" binding:"required"`
	ActorName string `json:"actorName" binding:"required"`
	Role      string `json:"role" binding:"required,oneof=trader middleman admin"`
}
