package api

import (
	"errors"
	"net/http"

	"stagepass/internal/domain/event"
	reqdto "stagepass/internal/handler/dto/request"
	"stagepass/internal/handler/httperr"
	"stagepass/internal/pkg/clock"
	"stagepass/internal/pkg/errs"
	"stagepass/internal/usecase/commands"
	"stagepass/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EventHandler struct {
	catalogCommands commands.CatalogCommands
	catalogQueries  queries.CatalogQueries
	clock           clock.Clock
}

func NewEventHandler(catalogCommands commands.CatalogCommands, catalogQueries queries.CatalogQueries, clk clock.Clock) *EventHandler {
	return &EventHandler{
		catalogCommands: catalogCommands,
		catalogQueries:  catalogQueries,
		clock:           clk,
	}
}

// @Summary Create event
// @Description Publish an event with its ticket types
// @Tags events
// @Accept json
// @Produce json
// @Param request body reqdto.CreateEventRequest true "Event definition"
// @Success 201 {object} queries.EventView
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /events [post]
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req reqdto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if !event.Category(req.Category).IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown event category"})
		return
	}

	view, err := h.catalogCommands.CreateEvent(c.Request.Context(), req.ToParams())
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Domain validation failed"})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.JSON(http.StatusCreated, view)
}

// @Summary List events
// @Description List events matching the optional filter fields
// @Tags events
// @Produce json
// @Param category query string false "Event category"
// @Param city query string false "Venue city"
// @Param min_price_cents query int false "Minimum ticket price in cents"
// @Param max_price_cents query int false "Maximum ticket price in cents"
// @Param from query string false "Earliest event date (RFC3339)"
// @Param to query string false "Latest event date (RFC3339)"
// @Param nft_only query bool false "Only events with collectible ticket types"
// @Param on_sale query bool false "Only events currently on sale"
// @Success 200 {array} queries.EventView
// @Failure 400 {object} map[string]string
// @Router /events [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	var q reqdto.ListEventsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter format"})
		return
	}
	if q.Category != nil && !event.Category(*q.Category).IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown event category"})
		return
	}

	views, err := h.catalogQueries.ListEvents(c.Request.Context(), q.ToFilter(h.clock.Now()))
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, views)
}

// @Summary Get event
// @Description Get an event and its ticket types by ID
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} queries.EventView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id} [get]
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID format"})
		return
	}

	view, err := h.catalogQueries.GetEvent(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.JSON(http.StatusOK, view)
}
