package api

import (
	"errors"
	"net/http"

	reqdto "stagepass/internal/handler/dto/request"
	resdto "stagepass/internal/handler/dto/response"
	"stagepass/internal/handler/httperr"
	"stagepass/internal/pkg/errs"
	"stagepass/internal/usecase/commands"
	"stagepass/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PurchaseHandler struct {
	purchaseCommands commands.PurchaseCommands
	ticketQueries    queries.TicketQueries
}

func NewPurchaseHandler(purchaseCommands commands.PurchaseCommands, ticketQueries queries.TicketQueries) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseCommands: purchaseCommands,
		ticketQueries:    ticketQueries,
	}
}

// @Summary Purchase tickets
// @Description Buy tickets from primary inventory; collectible mints run asynchronously
// @Tags tickets
// @Accept json
// @Produce json
// @Param request body reqdto.PurchaseTicketsRequest true "Purchase request"
// @Success 201 {object} resdto.PurchaseResponse
// @Failure 400 {object} map[string]string
// @Failure 402 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /tickets/purchase [post]
func (h *PurchaseHandler) PurchaseTickets(c *gin.Context) {
	var req reqdto.PurchaseTicketsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.purchaseCommands.Purchase(c.Request.Context(), commands.PurchaseParams{
		BuyerWallet:     req.BuyerWallet,
		EventID:         req.EventID,
		TicketTypeID:    req.TicketTypeID,
		Quantity:        req.Quantity,
		PaymentCurrency: req.Currency,
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity"})
		case errors.Is(err, errs.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		case errors.Is(err, errs.ErrTicketTypeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Ticket type not found"})
		case errors.Is(err, errs.ErrSalesWindowClosed):
			c.JSON(http.StatusConflict, gin.H{"error": "Sales window is closed"})
		case errors.Is(err, errs.ErrSoldOut):
			c.JSON(http.StatusConflict, gin.H{"error": "Sold out"})
		case errors.Is(err, errs.ErrContended):
			c.JSON(http.StatusConflict, gin.H{"error": "Inventory contended, retry"})
		case errors.Is(err, errs.ErrInsufficientFunds):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Payment declined"})
		case errors.Is(err, errs.ErrGatewayFailure):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway unavailable"})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromPurchaseResult(result))
}

// @Summary Get purchase
// @Description Get a purchase record; clients reconcile uncertain outcomes through its state
// @Tags tickets
// @Produce json
// @Param id path string true "Purchase ID"
// @Success 200 {object} queries.PurchaseView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /purchases/{id} [get]
func (h *PurchaseHandler) GetPurchase(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid purchase ID format"})
		return
	}

	view, err := h.ticketQueries.GetPurchase(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrPurchaseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Purchase not found"})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.JSON(http.StatusOK, view)
}
