package commands

import (
	"context"
	"log/slog"
	"time"

	"stagepass/internal/domain/event"
	"stagepass/internal/domain/resale"
	"stagepass/internal/ledger"
	"stagepass/internal/pkg/clock"
	"stagepass/internal/pkg/errs"
	"stagepass/internal/usecase/queries"

	"github.com/google/uuid"
)

type ListTicketParams struct {
	TicketID         uuid.UUID
	SellerWallet     string
	AskingPriceCents int64
	Currency         string
	ExpiresAt        *time.Time
}

type ResaleCommands interface {
	ListTicket(ctx context.Context, params ListTicketParams) (*queries.ListingView, error)
	PurchaseListing(ctx context.Context, listingID uuid.UUID, buyerWallet, currency string) (*queries.TicketView, error)
	CancelListing(ctx context.Context, listingID uuid.UUID, sellerWallet string) error
}

type resaleUseCaseImpl struct {
	store     ledger.Store
	payments  PaymentGateway
	clock     clock.Clock
	logger    *slog.Logger
	publisher AvailabilityPublisher
}

func NewResaleUseCase(
	store ledger.Store,
	payments PaymentGateway,
	clk clock.Clock,
	logger *slog.Logger,
	publisher AvailabilityPublisher,
) ResaleCommands {
	return &resaleUseCaseImpl{
		store:     store,
		payments:  payments,
		clock:     clk,
		logger:    logger,
		publisher: publisher,
	}
}

// ListTicket opens a secondary-market listing. The listing claims the
// ticket exclusively; the atomic CreateListing rejects a second claim
// on the same ticket.
func (u *resaleUseCaseImpl) ListTicket(ctx context.Context, params ListTicketParams) (*queries.ListingView, error) {
	t, err := u.store.TicketByID(ctx, params.TicketID)
	if err != nil {
		if infraNotFound(err) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}

	if !t.IsOwnedBy(params.SellerWallet) {
		return nil, errs.ErrNotOwner
	}
	if !t.ResaleAllowed() {
		return nil, errs.ErrNotTransferable
	}
	if params.AskingPriceCents < 0 {
		return nil, errs.ErrDomainValidation
	}
	if floor := t.ResaleFloorCents(); floor != nil && params.AskingPriceCents < *floor {
		return nil, errs.Mark(resale.ErrBelowFloor, errs.ErrDomainValidation)
	}

	now := u.clock.Now()
	price, err := event.NewMoney(params.AskingPriceCents, params.Currency)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	listing, err := resale.NewListing(params.TicketID, params.SellerWallet, price, params.ExpiresAt, now)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	if err := u.store.CreateListing(ctx, listing); err != nil {
		if infraConflict(err) {
			return nil, errs.ErrAlreadyListed
		}
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}

	return queries.ToListingView(listing), nil
}

// PurchaseListing settles a resale: capture funds from the buyer, then
// atomically flip the listing to Sold and hand the ticket over. A
// conflict after capture means another buyer won between our open
// check and settlement; that is reported as the listing having closed.
func (u *resaleUseCaseImpl) PurchaseListing(ctx context.Context, listingID uuid.UUID, buyerWallet, currency string) (*queries.TicketView, error) {
	listing, err := u.store.ListingByID(ctx, listingID)
	if err != nil {
		if infraNotFound(err) {
			return nil, errs.ErrNotListed
		}
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}

	now := u.clock.Now()
	if !listing.IsOpen() {
		return nil, errs.ErrNotListed
	}
	if listing.HasExpired(now) {
		return nil, errs.ErrListingExpired
	}
	if listing.SellerWallet() == buyerWallet {
		return nil, errs.Mark(resale.ErrSellerCannotBuy, errs.ErrDomainValidation)
	}

	capture, err := u.payments.Capture(ctx, buyerWallet, listing.AskingPrice().AmountCents(), currency)
	if err != nil {
		return nil, err
	}

	t, err := u.store.SettleListing(ctx, listingID, buyerWallet)
	if err != nil {
		if infraConflict(err) {
			// Funds captured but the listing closed underneath us; the
			// captured charge needs manual reconciliation.
			u.logger.Error("resale settlement lost race after capture",
				"listing_id", listingID,
				"buyer_wallet", buyerWallet,
				"payment_ref", capture.TransactionRef)
			return nil, errs.ErrNotListed
		}
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}

	view := queries.ToTicketView(t)
	return &view, nil
}

// CancelListing withdraws a listing and returns its ticket to Active.
func (u *resaleUseCaseImpl) CancelListing(ctx context.Context, listingID uuid.UUID, sellerWallet string) error {
	listing, err := u.store.ListingByID(ctx, listingID)
	if err != nil {
		if infraNotFound(err) {
			return errs.ErrNotListed
		}
		return errs.Mark(err, errs.ErrStoreOperationFailed)
	}
	if listing.SellerWallet() != sellerWallet {
		return errs.ErrNotOwner
	}
	if !listing.IsOpen() {
		return errs.ErrNotListed
	}

	if err := u.store.CloseListing(ctx, listingID, resale.StatusCancelled); err != nil {
		if infraConflict(err) {
			return errs.ErrNotListed
		}
		return errs.Mark(err, errs.ErrStoreOperationFailed)
	}
	return nil
}
