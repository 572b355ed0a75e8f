package queries

import (
	"context"

	"stagepass/internal/infra"
	"stagepass/internal/ledger"
	"stagepass/internal/pkg/errs"

	"github.com/google/uuid"
)

type TicketQueries interface {
	GetTicket(ctx context.Context, id uuid.UUID) (*TicketView, error)
	TicketsByOwner(ctx context.Context, ownerWallet string) ([]TicketView, error)
	GetPurchase(ctx context.Context, id uuid.UUID) (*PurchaseView, error)
	GetListing(ctx context.Context, id uuid.UUID) (*ListingView, error)
	OpenListings(ctx context.Context) ([]*ListingView, error)
}

type ticketQueriesImpl struct {
	store ledger.Store
}

func NewTicketQueries(store ledger.Store) TicketQueries {
	return &ticketQueriesImpl{store: store}
}

func (q *ticketQueriesImpl) GetTicket(ctx context.Context, id uuid.UUID) (*TicketView, error) {
	t, err := q.store.TicketByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}
	view := ToTicketView(t)
	return &view, nil
}

func (q *ticketQueriesImpl) TicketsByOwner(ctx context.Context, ownerWallet string) ([]TicketView, error) {
	tickets, err := q.store.TicketsByOwner(ctx, ownerWallet)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}
	views := make([]TicketView, 0, len(tickets))
	for _, t := range tickets {
		views = append(views, ToTicketView(t))
	}
	return views, nil
}

// GetPurchase is the reconciliation path for clients holding an
// uncertain outcome: the record's state says how far the saga got.
func (q *ticketQueriesImpl) GetPurchase(ctx context.Context, id uuid.UUID) (*PurchaseView, error) {
	rec, err := q.store.PurchaseByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrPurchaseNotFound
		}
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}

	tickets := make([]TicketView, 0, len(rec.TicketIDs()))
	for _, ticketID := range rec.TicketIDs() {
		t, err := q.store.TicketByID(ctx, ticketID)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
		}
		tickets = append(tickets, ToTicketView(t))
	}
	return ToPurchaseView(rec, tickets), nil
}

func (q *ticketQueriesImpl) GetListing(ctx context.Context, id uuid.UUID) (*ListingView, error) {
	l, err := q.store.ListingByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrNotListed
		}
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}
	return ToListingView(l), nil
}

func (q *ticketQueriesImpl) OpenListings(ctx context.Context) ([]*ListingView, error) {
	listings, err := q.store.OpenListings(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}
	views := make([]*ListingView, 0, len(listings))
	for _, l := range listings {
		views = append(views, ToListingView(l))
	}
	return views, nil
}
