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

type ResaleHandler struct {
	resaleCommands commands.ResaleCommands
	ticketQueries  queries.TicketQueries
}

func NewResaleHandler(resaleCommands commands.ResaleCommands, ticketQueries queries.TicketQueries) *ResaleHandler {
	return &ResaleHandler{
		resaleCommands: resaleCommands,
		ticketQueries:  ticketQueries,
	}
}

// @Summary List ticket for resale
// @Description Open a secondary-market listing for an owned ticket
// @Tags resale
// @Accept json
// @Produce json
// @Param request body reqdto.CreateListingRequest true "Listing request"
// @Success 201 {object} queries.ListingView
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /resale [post]
func (h *ResaleHandler) CreateListing(c *gin.Context) {
	var req reqdto.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.resaleCommands.ListTicket(c.Request.Context(), commands.ListTicketParams{
		TicketID:         req.TicketID,
		SellerWallet:     req.SellerWallet,
		AskingPriceCents: req.AskingPriceCents,
		Currency:         req.Currency,
		ExpiresAt:        req.ExpiresAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrTicketNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		case errors.Is(err, errs.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "Wallet does not own this ticket"})
		case errors.Is(err, errs.ErrNotTransferable):
			c.JSON(http.StatusConflict, gin.H{"error": "Ticket cannot be resold"})
		case errors.Is(err, errs.ErrAlreadyListed):
			c.JSON(http.StatusConflict, gin.H{"error": "Ticket already has a live listing"})
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Domain validation failed"})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.JSON(http.StatusCreated, view)
}

// @Summary List open listings
// @Description List all open resale listings
// @Tags resale
// @Produce json
// @Success 200 {array} queries.ListingView
// @Router /resale [get]
func (h *ResaleHandler) OpenListings(c *gin.Context) {
	views, err := h.ticketQueries.OpenListings(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, views)
}

// @Summary Get listing
// @Description Get a single resale listing by ID
// @Tags resale
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} queries.ListingView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /resale/{id} [get]
func (h *ResaleHandler) GetListing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID format"})
		return
	}

	view, err := h.ticketQueries.GetListing(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNotListed):
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Purchase listed ticket
// @Description Buy a ticket from the secondary market
// @Tags resale
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param request body reqdto.PurchaseListingRequest true "Purchase request"
// @Success 200 {object} queries.TicketView
// @Failure 400 {object} map[string]string
// @Failure 402 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /resale/{id}/purchase [post]
func (h *ResaleHandler) PurchaseListing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID format"})
		return
	}

	var req reqdto.PurchaseListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.resaleCommands.PurchaseListing(c.Request.Context(), id, req.BuyerWallet, req.Currency)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNotListed):
			c.JSON(http.StatusConflict, gin.H{"error": "Listing is not open"})
		case errors.Is(err, errs.ErrListingExpired):
			c.JSON(http.StatusConflict, gin.H{"error": "Listing has expired"})
		case errors.Is(err, errs.ErrInsufficientFunds):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Payment declined"})
		case errors.Is(err, errs.ErrGatewayFailure):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway unavailable"})
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Domain validation failed"})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Cancel listing
// @Description Withdraw an open listing, returning its ticket to the seller
// @Tags resale
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param request body reqdto.CancelListingRequest true "Cancel request"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /resale/{id}/cancel [post]
func (h *ResaleHandler) CancelListing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID format"})
		return
	}

	var req reqdto.CancelListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.resaleCommands.CancelListing(c.Request.Context(), id, req.SellerWallet); err != nil {
		switch {
		case errors.Is(err, errs.ErrNotListed):
			c.JSON(http.StatusConflict, gin.H{"error": "Listing is not open"})
		case errors.Is(err, errs.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "Wallet did not create this listing"})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.Status(http.StatusNoContent)
}
