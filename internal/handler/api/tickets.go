package api

import (
	"errors"
	"net/http"

	reqdto "stagepass/internal/handler/dto/request"
	"stagepass/internal/handler/httperr"
	"stagepass/internal/pkg/errs"
	"stagepass/internal/usecase/commands"
	"stagepass/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TicketHandler struct {
	purchaseCommands commands.PurchaseCommands
	ticketQueries    queries.TicketQueries
}

func NewTicketHandler(purchaseCommands commands.PurchaseCommands, ticketQueries queries.TicketQueries) *TicketHandler {
	return &TicketHandler{
		purchaseCommands: purchaseCommands,
		ticketQueries:    ticketQueries,
	}
}

// @Summary List wallet tickets
// @Description List all tickets owned by a wallet
// @Tags tickets
// @Produce json
// @Param wallet query string true "Owner wallet address"
// @Success 200 {array} queries.TicketView
// @Failure 400 {object} map[string]string
// @Router /tickets [get]
func (h *TicketHandler) ListTickets(c *gin.Context) {
	wallet := c.Query("wallet")
	if wallet == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wallet query parameter is required"})
		return
	}

	views, err := h.ticketQueries.TicketsByOwner(c.Request.Context(), wallet)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, views)
}

// @Summary Get ticket
// @Description Get a ticket by ID
// @Tags tickets
// @Produce json
// @Param id path string true "Ticket ID"
// @Success 200 {object} queries.TicketView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tickets/{id} [get]
func (h *TicketHandler) GetTicket(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket ID format"})
		return
	}

	view, err := h.ticketQueries.GetTicket(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrTicketNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Transfer ticket
// @Description Transfer a ticket to another wallet
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Param request body reqdto.TransferTicketRequest true "Transfer request"
// @Success 200 {object} queries.TicketView
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /tickets/{id}/transfer [post]
func (h *TicketHandler) TransferTicket(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket ID format"})
		return
	}

	var req reqdto.TransferTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.purchaseCommands.Transfer(c.Request.Context(), id, req.FromWallet, req.ToWallet)
	if err != nil {
		h.respondTicketError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Refund ticket
// @Description Refund a ticket, returning its unit of inventory
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Param request body reqdto.RefundTicketRequest true "Refund request"
// @Success 200 {object} queries.TicketView
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /tickets/{id}/refund [post]
func (h *TicketHandler) RefundTicket(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket ID format"})
		return
	}

	var req reqdto.RefundTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.purchaseCommands.Refund(c.Request.Context(), id, req.OwnerWallet)
	if err != nil {
		h.respondTicketError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Redeem ticket
// @Description Mark a ticket used at entry
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Param request body reqdto.RedeemTicketRequest true "Redeem request"
// @Success 200 {object} queries.TicketView
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /tickets/{id}/redeem [post]
func (h *TicketHandler) RedeemTicket(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket ID format"})
		return
	}

	var req reqdto.RedeemTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.purchaseCommands.Redeem(c.Request.Context(), id, req.OwnerWallet)
	if err != nil {
		h.respondTicketError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *TicketHandler) respondTicketError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrTicketNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
	case errors.Is(err, errs.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "Wallet does not own this ticket"})
	case errors.Is(err, errs.ErrNotTransferable):
		c.JSON(http.StatusConflict, gin.H{"error": "Ticket is not transferable"})
	case errors.Is(err, errs.ErrAlreadyListed):
		c.JSON(http.StatusConflict, gin.H{"error": "Ticket is not in an active state"})
	case errors.Is(err, errs.ErrDomainValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Domain validation failed"})
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
