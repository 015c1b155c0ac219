package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "tradeblox-mm/internal/handler/dto/request"
	resdto "tradeblox-mm/internal/handler/dto/response"
	"tradeblox-mm/internal/handler/httperr"
	"tradeblox-mm/internal/handler/middleware"
	"tradeblox-mm/internal/pkg/errs"
	"tradeblox-mm/internal/pkg/patch"
	"tradeblox-mm/internal/usecase/commands"
	"tradeblox-mm/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	cmds commands.TicketCommands
	q    queries.TicketQueries
}

func NewTicketHandler(cmds commands.TicketCommands, q queries.TicketQueries) *TicketHandler {
	return &TicketHandler{cmds: cmds, q: q}
}

// @Summary List tickets
// @Description List the most recent tickets, newest first
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.TicketResponse
// @Failure 401 {object} map[string]string
// @Router /tickets [get]
func (h *TicketHandler) List(c *gin.Context) {
	views, err := h.q.List(c.Request.Context())
	if err != nil {
		abortTicketError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": resdto.FromTicketList(views)})
}

// @Summary Get ticket
// @Description Get a ticket by internal id
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Ticket ID"
// @Success 200 {object} resdto.TicketResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tickets/{id} [get]
func (h *TicketHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		abortTicketError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromTicketView(view))
}

// @Summary Get ticket by number
// @Description Get a ticket by its public ticket number
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param number path int true "Ticket number"
// @Success 200 {object} resdto.TicketResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tickets/number/{number} [get]
func (h *TicketHandler) GetByNumber(c *gin.Context) {
	number, err := parseID(c, "number")
	if err != nil {
		return
	}
	view, err := h.q.GetByNumber(c.Request.Context(), number)
	if err != nil {
		abortTicketError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromTicketView(view))
}

// @Summary Create ticket
// @Description Open a new middleman trade ticket for the authenticated actor
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateTicketRequest true "Create ticket request"
// @Success 201 {object} resdto.TicketResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /tickets [post]
func (h *TicketHandler) Create(c *gin.Context) {
	a, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.ErrNotAuthorized, "Unauthorized", nil)
		return
	}
	var req reqdto.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	view, err := h.cmds.Create(c.Request.Context(), commands.CreateTicketInput{
		CreatorID:   a.ID,
		CreatorName: a.Name,
		Deal:        req.Deal,
		Amount:      req.Amount,
		OtherUserID: req.OtherUserID,
		Category:    patch.Coalesce(req.Category, ""),
	})
	if err != nil {
		abortTicketError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromTicketView(view))
}

// @Summary Update ticket
// @Description Run a lifecycle transition (via status) or reassign the counterparty, one per request
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Ticket ID"
// @Param request body reqdto.UpdateTicketRequest true "Update ticket request"
// @Success 200 {object} resdto.TicketResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /tickets/{id} [patch]
func (h *TicketHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	a, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.ErrNotAuthorized, "Unauthorized", nil)
		return
	}
	var req reqdto.UpdateTicketRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}
	if req.Status == nil && req.OtherUserID == nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.New("empty patch"), "Nothing to update", nil)
		return
	}
	// One command per patch keeps the operation all-or-nothing: a combined
	// body could persist the counterparty and then fail the transition.
	if req.Status != nil && req.OtherUserID != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.New("combined patch"),
			"Provide either status or otherUserId, not both", nil)
		return
	}

	ctx := c.Request.Context()
	var view *queries.TicketView

	if req.OtherUserID != nil {
		view, err = h.cmds.AddCounterparty(ctx, id, a.ID, *req.OtherUserID)
	} else {
		switch *req.Status {
		case "claimed":
			view, err = h.cmds.Claim(ctx, id, a.ID, a.Name)
		case "pending":
			view, err = h.cmds.Unclaim(ctx, id, a.ID)
		case "closed":
			view, err = h.cmds.Close(ctx, id, a.ID)
		}
	}
	if err != nil {
		abortTicketError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromTicketView(view))
}

// @Summary Delete ticket
// @Description Remove a ticket and tear down its channel (staff only)
// @Tags tickets
// @Security BearerAuth
// @Param id path int true "Ticket ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tickets/{id} [delete]
func (h *TicketHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	a, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.ErrNotAuthorized, "Unauthorized", nil)
		return
	}
	if err := h.cmds.Delete(c.Request.Context(), id, a.ID); err != nil {
		abortTicketError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Add counterparty
// @Description Reassign the second trading party and open a fresh confirmation window (staff only)
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Ticket ID"
// @Param request body reqdto.AddCounterpartyRequest true "Counterparty request"
// @Success 200 {object} resdto.TicketResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /tickets/{id}/counterparty [post]
func (h *TicketHandler) AddCounterparty(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	a, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.ErrNotAuthorized, "Unauthorized", nil)
		return
	}
	var req reqdto.AddCounterpartyRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}
	view, err := h.cmds.AddCounterparty(c.Request.Context(), id, a.ID, req.OtherUserID)
	if err != nil {
		abortTicketError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromTicketView(view))
}

// @Summary Confirm trade
// @Description Record the calling party's confirmation for the active cycle
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Ticket ID"
// @Success 200 {object} resdto.ConfirmationResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /tickets/{id}/confirm [post]
func (h *TicketHandler) Confirm(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	a, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.ErrNotAuthorized, "Unauthorized", nil)
		return
	}
	status, err := h.cmds.Confirm(c.Request.Context(), id, a.ID)
	if err != nil {
		abortTicketError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromConfirmationStatus(status))
}

// @Summary Decline trade
// @Description Abort the active confirmation cycle and discard the ticket
// @Tags tickets
// @Security BearerAuth
// @Param id path int true "Ticket ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /tickets/{id}/decline [post]
func (h *TicketHandler) Decline(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	a, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.ErrNotAuthorized, "Unauthorized", nil)
		return
	}
	if err := h.cmds.Decline(c.Request.Context(), id, a.ID); err != nil {
		abortTicketError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		if err == nil {
			err = errs.New("id must be positive")
		}
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return 0, err
	}
	return id, nil
}

func abortTicketError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrValidation):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid ticket data", nil)
	case errors.Is(err, errs.ErrTicketNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Ticket not found", nil)
	case errors.Is(err, errs.ErrNotAuthorized):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Staff role required", nil)
	case errors.Is(err, errs.ErrNotParty):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Only trade parties may respond", nil)
	case errors.Is(err, errs.ErrNotClaimer):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Ticket is claimed by someone else", nil)
	case errors.Is(err, errs.ErrNotClaimable):
		httperr.AbortWithError(c, http.StatusConflict, err, "Ticket is not available for claiming", nil)
	case errors.Is(err, errs.ErrNotClaimed):
		httperr.AbortWithError(c, http.StatusConflict, err, "Ticket is not currently claimed", nil)
	case errors.Is(err, errs.ErrAlreadyClosed):
		httperr.AbortWithError(c, http.StatusConflict, err, "Ticket is already closed", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
