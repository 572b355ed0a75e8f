//go:build unit

package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"stagepass/internal/handler/api"
	reqdto "stagepass/internal/handler/dto/request"
	"stagepass/internal/pkg/errs"
	"stagepass/internal/usecase/commands"
	"stagepass/internal/usecase/queries"
	"stagepass/tests/common/httptest"
	"stagepass/tests/common/testutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type ResaleHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	commands *stubResaleCommands
	queries  *stubTicketQueries
	handler  *api.ResaleHandler
}

func (s *ResaleHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.commands = &stubResaleCommands{}
	s.queries = &stubTicketQueries{}
	s.handler = api.NewResaleHandler(s.commands, s.queries)

	s.router.POST("/api/resale", s.handler.CreateListing)
	s.router.GET("/api/resale", s.handler.OpenListings)
	s.router.GET("/api/resale/:id", s.handler.GetListing)
	s.router.POST("/api/resale/:id/purchase", s.handler.PurchaseListing)
	s.router.POST("/api/resale/:id/cancel", s.handler.CancelListing)
}

func TestResaleHandlerSuite(t *testing.T) {
	suite.Run(t, new(ResaleHandlerTestSuite))
}

func (s *ResaleHandlerTestSuite) validCreateRequest() reqdto.CreateListingRequest {
	return reqdto.CreateListingRequest{
		TicketID:         uuid.New(),
		SellerWallet:     "0xSELLER",
		AskingPriceCents: 7500,
		Currency:         "USDC",
	}
}

func (s *ResaleHandlerTestSuite) TestCreateListing() {
	url := "/api/resale"

	s.Run("success: returns 201 with the open listing", func() {
		listingID := uuid.New()
		s.commands.ListTicketFn = func(_ context.Context, params commands.ListTicketParams) (*queries.ListingView, error) {
			s.Equal("0xSELLER", params.SellerWallet)
			s.Equal(int64(7500), params.AskingPriceCents)
			return &queries.ListingView{
				ID:           listingID,
				TicketID:     params.TicketID,
				SellerWallet: params.SellerWallet,
				AskingCents:  params.AskingPriceCents,
				Currency:     "USDC",
				Status:       "listed",
				ListedAt:     time.Now(),
			}, nil
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, s.validCreateRequest())

		var body queries.ListingView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(listingID, body.ID)
		s.Equal("listed", body.Status)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(map[string]any)
		}{
			{name: "missing ticket_id", mutate: testutil.Field("ticket_id", nil)},
			{name: "missing seller_wallet", mutate: testutil.Field("seller_wallet", nil)},
			{name: "missing asking_price_cents", mutate: testutil.Field("asking_price_cents", nil)},
			{name: "missing currency", mutate: testutil.Field("currency", nil)},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), s.validCreateRequest(), tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap)
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		cases := []struct {
			name           string
			commandsError  error
			expectedStatus int
		}{
			{name: "ticket not found", commandsError: errs.ErrTicketNotFound, expectedStatus: http.StatusNotFound},
			{name: "not the owner", commandsError: errs.ErrNotOwner, expectedStatus: http.StatusForbidden},
			{name: "resale forbidden", commandsError: errs.ErrNotTransferable, expectedStatus: http.StatusConflict},
			{name: "already listed", commandsError: errs.ErrAlreadyListed, expectedStatus: http.StatusConflict},
			{name: "below floor", commandsError: errs.ErrDomainValidation, expectedStatus: http.StatusUnprocessableEntity},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.commands.ListTicketFn = func(context.Context, commands.ListTicketParams) (*queries.ListingView, error) {
					return nil, tc.commandsError
				}
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, s.validCreateRequest())
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, "")
			})
		}
	})
}

func (s *ResaleHandlerTestSuite) TestOpenListings() {
	s.Run("success: returns every open listing", func() {
		s.queries.OpenListingsFn = func(context.Context) ([]*queries.ListingView, error) {
			return []*queries.ListingView{
				{ID: uuid.New(), Status: "listed"},
				{ID: uuid.New(), Status: "listed"},
			}, nil
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/resale", nil)

		var body []queries.ListingView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body, 2)
	})
}

func (s *ResaleHandlerTestSuite) TestGetListing() {
	listingID := uuid.New()
	url := "/api/resale/" + listingID.String()

	s.Run("success: returns the listing", func() {
		s.queries.GetListingFn = func(_ context.Context, id uuid.UUID) (*queries.ListingView, error) {
			s.Equal(listingID, id)
			return &queries.ListingView{ID: id, Status: "listed"}, nil
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil)

		var body queries.ListingView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(listingID, body.ID)
	})

	s.Run("error: 400 on malformed listing ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/resale/not-a-uuid", nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: 404 when the listing does not exist", func() {
		s.queries.GetListingFn = func(context.Context, uuid.UUID) (*queries.ListingView, error) {
			return nil, errs.ErrNotListed
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "")
	})
}

func (s *ResaleHandlerTestSuite) TestPurchaseListing() {
	listingID := uuid.New()
	url := "/api/resale/" + listingID.String() + "/purchase"
	reqBody := reqdto.PurchaseListingRequest{BuyerWallet: "0xBUYER", Currency: "USDC"}

	s.Run("success: returns the transferred ticket", func() {
		s.commands.PurchaseListingFn = func(_ context.Context, id uuid.UUID, buyer, currency string) (*queries.TicketView, error) {
			s.Equal(listingID, id)
			s.Equal("0xBUYER", buyer)
			return &queries.TicketView{ID: uuid.New(), OwnerWallet: buyer, Status: "active"}, nil
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody)

		var body queries.TicketView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("0xBUYER", body.OwnerWallet)
	})

	s.Run("error: 400 on malformed listing ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/resale/not-a-uuid/purchase", reqBody)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		cases := []struct {
			name           string
			commandsError  error
			expectedStatus int
		}{
			{name: "listing closed", commandsError: errs.ErrNotListed, expectedStatus: http.StatusConflict},
			{name: "listing expired", commandsError: errs.ErrListingExpired, expectedStatus: http.StatusConflict},
			{name: "payment declined", commandsError: errs.ErrInsufficientFunds, expectedStatus: http.StatusPaymentRequired},
			{name: "gateway failure", commandsError: errs.ErrGatewayFailure, expectedStatus: http.StatusBadGateway},
			{name: "seller buying own listing", commandsError: errs.ErrDomainValidation, expectedStatus: http.StatusUnprocessableEntity},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.commands.PurchaseListingFn = func(context.Context, uuid.UUID, string, string) (*queries.TicketView, error) {
					return nil, tc.commandsError
				}
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, "")
			})
		}
	})
}

func (s *ResaleHandlerTestSuite) TestCancelListing() {
	listingID := uuid.New()
	url := "/api/resale/" + listingID.String() + "/cancel"
	reqBody := reqdto.CancelListingRequest{SellerWallet: "0xSELLER"}

	s.Run("success: returns 204", func() {
		s.commands.CancelListingFn = func(_ context.Context, id uuid.UUID, seller string) error {
			s.Equal(listingID, id)
			s.Equal("0xSELLER", seller)
			return nil
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 403 when another wallet cancels", func() {
		s.commands.CancelListingFn = func(context.Context, uuid.UUID, string) error {
			return errs.ErrNotOwner
		}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "")
	})

	s.Run("error: 409 when the listing is closed", func() {
		s.commands.CancelListingFn = func(context.Context, uuid.UUID, string) error {
			return errs.ErrNotListed
		}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "")
	})
}
