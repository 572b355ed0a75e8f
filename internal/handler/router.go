package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"stagepass/internal/handler/api"
	"stagepass/internal/handler/middleware"
	"stagepass/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	eventHandler *api.EventHandler,
	purchaseHandler *api.PurchaseHandler,
	ticketHandler *api.TicketHandler,
	resaleHandler *api.ResaleHandler,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, eventHandler, purchaseHandler, ticketHandler, resaleHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	eventHandler *api.EventHandler,
	purchaseHandler *api.PurchaseHandler,
	ticketHandler *api.TicketHandler,
	resaleHandler *api.ResaleHandler,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		events := apiGroup.Group("/events")
		{
			addRoutes(events, []route{
				{Method: http.MethodPost, Path: "", Handler: eventHandler.CreateEvent},
				{Method: http.MethodGet, Path: "", Handler: eventHandler.ListEvents},
				{Method: http.MethodGet, Path: "/:id", Handler: eventHandler.GetEvent},
			})
		}

		tickets := apiGroup.Group("/tickets")
		{
			addRoutes(tickets, []route{
				{Method: http.MethodPost, Path: "/purchase", Handler: purchaseHandler.PurchaseTickets},
				{Method: http.MethodGet, Path: "", Handler: ticketHandler.ListTickets},
				{Method: http.MethodGet, Path: "/:id", Handler: ticketHandler.GetTicket},
				{Method: http.MethodPost, Path: "/:id/transfer", Handler: ticketHandler.TransferTicket},
				{Method: http.MethodPost, Path: "/:id/refund", Handler: ticketHandler.RefundTicket},
				{Method: http.MethodPost, Path: "/:id/redeem", Handler: ticketHandler.RedeemTicket},
			})
		}

		purchases := apiGroup.Group("/purchases")
		{
			addRoutes(purchases, []route{
				{Method: http.MethodGet, Path: "/:id", Handler: purchaseHandler.GetPurchase},
			})
		}

		resale := apiGroup.Group("/resale")
		{
			addRoutes(resale, []route{
				{Method: http.MethodPost, Path: "", Handler: resaleHandler.CreateListing},
				{Method: http.MethodGet, Path: "", Handler: resaleHandler.OpenListings},
				{Method: http.MethodGet, Path: "/:id", Handler: resaleHandler.GetListing},
				{Method: http.MethodPost, Path: "/:id/purchase", Handler: resaleHandler.PurchaseListing},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: resaleHandler.CancelListing},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
