package api

import (
	"net/http"

	"tradeblox-mm/internal/domain/actor"
	reqdto "tradeblox-mm/internal/handler/dto/request"
	resdto "tradeblox-mm/internal/handler/dto/response"
	"tradeblox-mm/internal/handler/httperr"
	"tradeblox-mm/internal/pkg/config"
	"tradeblox-mm/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// TokenHandler mints development tokens so the REST surface can be driven
// without the Discord front end. The route is only registered when
// JWT_DEV_TOKEN_ENDPOINT is set.
type TokenHandler struct {
	tokens *jwt.Service
	cfg    config.JWTConfig
}

func NewTokenHandler(tokens *jwt.Service, cfg config.JWTConfig) *TokenHandler {
	return &TokenHandler{tokens: tokens, cfg: cfg}
}

// @Summary Mint development token
// @Description Issue a bearer token for the given actor (development only)
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.MintTokenRequest true "Token request"
// @Success 200 {object} resdto.TokenResponse
// @Failure 400 {object} map[string]string
// @Router /auth/token [post]
func (h *TokenHandler) Mint(c *gin.Context) {
	var req reqdto.MintTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	token, err := h.tokens.GenerateToken(actor.Actor{
		ID:   req.ActorID,
		Name: req.ActorName,
		Role: actor.Role(req.Role),
	})
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Token generation failed", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.TokenResponse{
		Token:     token,
		ExpiresIn: int64(h.cfg.Duration.Seconds()),
	})
}
