//go:build unit

package api_test

import (
	"context"
	"errors"

	"stagepass/internal/usecase/commands"
	"stagepass/internal/usecase/queries"

	"github.com/google/uuid"
)

var errStubNotConfigured = errors.New("stub not configured")

// Hand-written stubs: each method delegates to a settable function so
// individual tests script exactly the responses they need.

type stubPurchaseCommands struct {
	PurchaseFn func(context.Context, commands.PurchaseParams) (*commands.PurchaseResult, error)
	TransferFn func(context.Context, uuid.UUID, string, string) (*queries.TicketView, error)
	RefundFn   func(context.Context, uuid.UUID, string) (*queries.TicketView, error)
	RedeemFn   func(context.Context, uuid.UUID, string) (*queries.TicketView, error)
}

func (s *stubPurchaseCommands) Purchase(ctx context.Context, params commands.PurchaseParams) (*commands.PurchaseResult, error) {
	if s.PurchaseFn == nil {
		return nil, errStubNotConfigured
	}
	return s.PurchaseFn(ctx, params)
}

func (s *stubPurchaseCommands) Transfer(ctx context.Context, id uuid.UUID, from, to string) (*queries.TicketView, error) {
	if s.TransferFn == nil {
		return nil, errStubNotConfigured
	}
	return s.TransferFn(ctx, id, from, to)
}

func (s *stubPurchaseCommands) Refund(ctx context.Context, id uuid.UUID, owner string) (*queries.TicketView, error) {
	if s.RefundFn == nil {
		return nil, errStubNotConfigured
	}
	return s.RefundFn(ctx, id, owner)
}

func (s *stubPurchaseCommands) Redeem(ctx context.Context, id uuid.UUID, owner string) (*queries.TicketView, error) {
	if s.RedeemFn == nil {
		return nil, errStubNotConfigured
	}
	return s.RedeemFn(ctx, id, owner)
}

type stubResaleCommands struct {
	ListTicketFn      func(context.Context, commands.ListTicketParams) (*queries.ListingView, error)
	PurchaseListingFn func(context.Context, uuid.UUID, string, string) (*queries.TicketView, error)
	CancelListingFn   func(context.Context, uuid.UUID, string) error
}

func (s *stubResaleCommands) ListTicket(ctx context.Context, params commands.ListTicketParams) (*queries.ListingView, error) {
	if s.ListTicketFn == nil {
		return nil, errStubNotConfigured
	}
	return s.ListTicketFn(ctx, params)
}

func (s *stubResaleCommands) PurchaseListing(ctx context.Context, id uuid.UUID, buyer, currency string) (*queries.TicketView, error) {
	if s.PurchaseListingFn == nil {
		return nil, errStubNotConfigured
	}
	return s.PurchaseListingFn(ctx, id, buyer, currency)
}

func (s *stubResaleCommands) CancelListing(ctx context.Context, id uuid.UUID, seller string) error {
	if s.CancelListingFn == nil {
		return errStubNotConfigured
	}
	return s.CancelListingFn(ctx, id, seller)
}

type stubTicketQueries struct {
	GetTicketFn      func(context.Context, uuid.UUID) (*queries.TicketView, error)
	TicketsByOwnerFn func(context.Context, string) ([]queries.TicketView, error)
	GetPurchaseFn    func(context.Context, uuid.UUID) (*queries.PurchaseView, error)
	GetListingFn     func(context.Context, uuid.UUID) (*queries.ListingView, error)
	OpenListingsFn   func(context.Context) ([]*queries.ListingView, error)
}

func (s *stubTicketQueries) GetTicket(ctx context.Context, id uuid.UUID) (*queries.TicketView, error) {
	if s.GetTicketFn == nil {
		return nil, errStubNotConfigured
	}
	return s.GetTicketFn(ctx, id)
}

func (s *stubTicketQueries) TicketsByOwner(ctx context.Context, owner string) ([]queries.TicketView, error) {
	if s.TicketsByOwnerFn == nil {
		return nil, errStubNotConfigured
	}
	return s.TicketsByOwnerFn(ctx, owner)
}

func (s *stubTicketQueries) GetPurchase(ctx context.Context, id uuid.UUID) (*queries.PurchaseView, error) {
	if s.GetPurchaseFn == nil {
		return nil, errStubNotConfigured
	}
	return s.GetPurchaseFn(ctx, id)
}

func (s *stubTicketQueries) GetListing(ctx context.Context, id uuid.UUID) (*queries.ListingView, error) {
	if s.GetListingFn == nil {
		return nil, errStubNotConfigured
	}
	return s.GetListingFn(ctx, id)
}

func (s *stubTicketQueries) OpenListings(ctx context.Context) ([]*queries.ListingView, error) {
	if s.OpenListingsFn == nil {
		return nil, errStubNotConfigured
	}
	return s.OpenListingsFn(ctx)
}
