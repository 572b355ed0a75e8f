package commands

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"stagepass/internal/domain/purchase"
	"stagepass/internal/domain/ticket"
	"stagepass/internal/ledger"
	"stagepass/internal/mint"
	"stagepass/internal/pkg/clock"
	"stagepass/internal/pkg/errs"
	"stagepass/internal/reservation"
	"stagepass/internal/usecase/queries"

	"github.com/google/uuid"
)

type PurchaseParams struct {
	BuyerWallet     string
	EventID         uuid.UUID
	TicketTypeID    uuid.UUID
	Quantity        int
	PaymentCurrency string
}

type PurchaseResult struct {
	Purchase *queries.PurchaseView
	// MintRequestIDs are pending references; the response never waits
	// for mint completion.
	MintRequestIDs []uuid.UUID
}

type PurchaseCommands interface {
	Purchase(ctx context.Context, params PurchaseParams) (*PurchaseResult, error)
	Transfer(ctx context.Context, ticketID uuid.UUID, fromWallet, toWallet string) (*queries.TicketView, error)
	Refund(ctx context.Context, ticketID uuid.UUID, ownerWallet string) (*queries.TicketView, error)
	Redeem(ctx context.Context, ticketID uuid.UUID, ownerWallet string) (*queries.TicketView, error)
}

type purchaseUseCaseImpl struct {
	store        ledger.Store
	reservations *reservation.Manager
	payments     PaymentGateway
	mints        *mint.Coordinator
	publisher    AvailabilityPublisher
	clock        clock.Clock
	logger       *slog.Logger
	maxPerBuyer  int

	// Mint bookkeeping: which purchase each pending ticket belongs to,
	// so resolved outcomes can settle the record's final state.
	mu          sync.Mutex
	mintOwner   map[uuid.UUID]uuid.UUID
	mintPending map[uuid.UUID]int
	mintFailed  map[uuid.UUID]bool
}

func NewPurchaseUseCase(
	store ledger.Store,
	reservations *reservation.Manager,
	payments PaymentGateway,
	mints *mint.Coordinator,
	publisher AvailabilityPublisher,
	clk clock.Clock,
	logger *slog.Logger,
	maxPerBuyer int,
) PurchaseCommands {
	if maxPerBuyer <= 0 {
		maxPerBuyer = 10
	}
	u := &purchaseUseCaseImpl{
		store:        store,
		reservations: reservations,
		payments:     payments,
		mints:        mints,
		publisher:    publisher,
		clock:        clk,
		logger:       logger,
		maxPerBuyer:  maxPerBuyer,
		mintOwner:    make(map[uuid.UUID]uuid.UUID),
		mintPending:  make(map[uuid.UUID]int),
		mintFailed:   make(map[uuid.UUID]bool),
	}
	mints.SetResolver(u.ResolveMint)
	return u
}

// Purchase drives the saga: reserve, charge, commit + create tickets,
// then hand NFT delivery to the mint coordinator. The batch insert of
// Active tickets is the durability boundary; whatever happens to
// minting afterwards, the purchase stands.
func (u *purchaseUseCaseImpl) Purchase(ctx context.Context, params PurchaseParams) (*PurchaseResult, error) {
	if params.Quantity < 1 || params.Quantity > u.maxPerBuyer {
		return nil, errs.ErrInvalidQuantity
	}

	ev, err := u.store.EventByID(ctx, params.EventID)
	if err != nil {
		if infraNotFound(err) {
			return nil, errs.ErrEventNotFound
		}
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}

	tt, err := u.store.TicketTypeByID(ctx, params.TicketTypeID)
	if err != nil {
		if infraNotFound(err) {
			return nil, errs.ErrTicketTypeNotFound
		}
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}
	if tt.EventID() != ev.ID() {
		return nil, errs.ErrTicketTypeNotFound
	}

	now := u.clock.Now()
	total := tt.Price().MultiplyQty(params.Quantity)
	rec := purchase.NewRecord(params.BuyerWallet, ev.ID(), tt.ID(), params.Quantity, total, now)
	if err := u.store.CreatePurchase(ctx, rec); err != nil {
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}

	// Step 1: hold inventory. A denial has no side effects to undo.
	reservationID, err := u.reservations.Hold(ctx, tt.ID(), params.Quantity, params.BuyerWallet, 0)
	if err != nil {
		u.recordTransition(ctx, rec, func() error {
			return rec.MarkReservationDenied(err.Error(), u.clock.Now())
		})
		return nil, err
	}
	u.recordTransition(ctx, rec, func() error {
		return rec.MarkReserved(u.clock.Now())
	})

	// Step 2: capture funds. Any failure, timeouts included, releases
	// the hold; Release is idempotent so the compensation is safe to
	// repeat.
	capture, err := u.payments.Capture(ctx, params.BuyerWallet, total.AmountCents(), params.PaymentCurrency)
	if err != nil {
		if releaseErr := u.reservations.Release(ctx, reservationID); releaseErr != nil {
			u.logger.Error("failed to release hold after payment failure",
				"reservation_id", reservationID, "error", releaseErr.Error())
		}
		u.recordTransition(ctx, rec, func() error {
			return rec.MarkPaymentFailed(err.Error(), u.clock.Now())
		})
		return nil, err
	}

	// Step 3: the point of no return. Commit the hold and create the
	// tickets; once they exist with status Active the purchase is
	// successful regardless of mint outcome.
	if err := u.reservations.Commit(ctx, reservationID); err != nil {
		// Payment is captured but the sale could not be recorded;
		// a system fault, not a user error.
		u.logger.Error("hold commit failed after payment capture",
			"reservation_id", reservationID,
			"purchase_id", rec.ID(),
			"payment_ref", capture.TransactionRef,
			"error", err.Error())
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}

	now = u.clock.Now()
	tickets := make([]*ticket.Ticket, 0, params.Quantity)
	for i := 0; i < params.Quantity; i++ {
		t, err := ticket.NewTicket(ev.ID(), tt.ID(), params.BuyerWallet, tt.Price(), tt.HasNFT(), now)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDomainValidation)
		}
		tickets = append(tickets, t)
	}
	if err := u.store.CreateTickets(ctx, tickets); err != nil {
		u.logger.Error("ticket batch insert failed after commit",
			"purchase_id", rec.ID(), "error", err.Error())
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}

	ticketIDs := make([]uuid.UUID, 0, len(tickets))
	for _, t := range tickets {
		ticketIDs = append(ticketIDs, t.ID())
	}
	u.recordTransition(ctx, rec, func() error {
		return rec.MarkPaid(capture.TransactionRef, u.clock.Now())
	})

	// Step 4: request mints asynchronously when the type carries NFT
	// metadata.
	var mintRequestIDs []uuid.UUID
	if tt.HasNFT() {
		u.recordTransition(ctx, rec, func() error {
			return rec.MarkMinting(ticketIDs, u.clock.Now())
		})
		u.trackMints(rec.ID(), ticketIDs)
		for _, t := range tickets {
			reqID := u.mints.RequestMint(ctx, t.ID(), t.OwnerWallet(), *tt.NFTMetadata())
			mintRequestIDs = append(mintRequestIDs, reqID)
		}
	} else {
		u.recordTransition(ctx, rec, func() error {
			return rec.MarkCompleted(ticketIDs, u.clock.Now())
		})
	}

	u.publishAvailability(ctx, tt.ID())

	ticketViews := make([]queries.TicketView, 0, len(tickets))
	for _, t := range tickets {
		ticketViews = append(ticketViews, queries.ToTicketView(t))
	}
	return &PurchaseResult{
		Purchase:       queries.ToPurchaseView(rec, ticketViews),
		MintRequestIDs: mintRequestIDs,
	}, nil
}

// Transfer moves a ticket directly between wallets, bypassing resale
// payment but subject to the same ownership and transferability
// checks.
func (u *purchaseUseCaseImpl) Transfer(ctx context.Context, ticketID uuid.UUID, fromWallet, toWallet string) (*queries.TicketView, error) {
	t, err := u.store.TicketByID(ctx, ticketID)
	if err != nil {
		if infraNotFound(err) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}
	if !t.IsOwnedBy(fromWallet) {
		return nil, errs.ErrNotOwner
	}

	if err := t.TransferTo(toWallet, u.clock.Now()); err != nil {
		switch {
		case errors.Is(err, ticket.ErrNotTransferable):
			return nil, errs.ErrNotTransferable
		case errors.Is(err, ticket.ErrNotActive):
			return nil, errs.ErrAlreadyListed
		default:
			return nil, errs.Mark(err, errs.ErrDomainValidation)
		}
	}
	if err := u.store.UpdateTicket(ctx, t); err != nil {
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}

	view := queries.ToTicketView(t)
	return &view, nil
}

// Refund flips the ticket to Refunded and frees its unit of type-level
// inventory; the record survives for audit.
func (u *purchaseUseCaseImpl) Refund(ctx context.Context, ticketID uuid.UUID, ownerWallet string) (*queries.TicketView, error) {
	t, err := u.store.TicketByID(ctx, ticketID)
	if err != nil {
		if infraNotFound(err) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}
	if !t.IsOwnedBy(ownerWallet) {
		return nil, errs.ErrNotOwner
	}

	if err := t.Refund(u.clock.Now()); err != nil {
		if errors.Is(err, ticket.ErrNotActive) {
			return nil, errs.ErrAlreadyListed
		}
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	if err := u.store.UpdateTicket(ctx, t); err != nil {
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}
	if err := u.reservations.ReturnSold(ctx, t.TicketTypeID(), 1); err != nil {
		u.logger.Error("failed to return sold unit on refund",
			"ticket_id", ticketID, "error", err.Error())
	}
	u.publishAvailability(ctx, t.TicketTypeID())

	view := queries.ToTicketView(t)
	return &view, nil
}

// Redeem marks a ticket as used at the door. Terminal; a used ticket
// can no longer be transferred, listed, or refunded.
func (u *purchaseUseCaseImpl) Redeem(ctx context.Context, ticketID uuid.UUID, ownerWallet string) (*queries.TicketView, error) {
	t, err := u.store.TicketByID(ctx, ticketID)
	if err != nil {
		if infraNotFound(err) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}
	if !t.IsOwnedBy(ownerWallet) {
		return nil, errs.ErrNotOwner
	}

	if err := t.Redeem(u.clock.Now()); err != nil {
		if errors.Is(err, ticket.ErrNotActive) {
			return nil, errs.ErrAlreadyListed
		}
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	if err := u.store.UpdateTicket(ctx, t); err != nil {
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}

	view := queries.ToTicketView(t)
	return &view, nil
}

// ResolveMint consumes terminal mint outcomes from the coordinator.
// Success attaches the token; exhaustion leaves the ticket valid with
// a durable mint-failed flag the owner can see.
func (u *purchaseUseCaseImpl) ResolveMint(ctx context.Context, ticketID uuid.UUID, tokenID *string) {
	t, err := u.store.TicketByID(ctx, ticketID)
	if err != nil {
		u.logger.Error("mint resolved for unknown ticket",
			"ticket_id", ticketID, "error", err.Error())
		return
	}

	now := u.clock.Now()
	if tokenID != nil {
		err = t.AttachToken(*tokenID, now)
	} else {
		err = t.FlagMintFailed(now)
	}
	if err != nil {
		u.logger.Error("mint outcome rejected by ticket state",
			"ticket_id", ticketID, "error", err.Error())
		return
	}
	if err := u.store.UpdateTicket(ctx, t); err != nil {
		u.logger.Error("failed to persist mint outcome",
			"ticket_id", ticketID, "error", err.Error())
		return
	}

	u.settlePurchaseMint(ctx, ticketID, tokenID == nil)
}

func (u *purchaseUseCaseImpl) trackMints(purchaseID uuid.UUID, ticketIDs []uuid.UUID) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, id := range ticketIDs {
		u.mintOwner[id] = purchaseID
	}
	u.mintPending[purchaseID] = len(ticketIDs)
}

func (u *purchaseUseCaseImpl) settlePurchaseMint(ctx context.Context, ticketID uuid.UUID, failed bool) {
	u.mu.Lock()
	purchaseID, ok := u.mintOwner[ticketID]
	if !ok {
		u.mu.Unlock()
		return
	}
	delete(u.mintOwner, ticketID)
	if failed {
		u.mintFailed[purchaseID] = true
	}
	u.mintPending[purchaseID]--
	done := u.mintPending[purchaseID] <= 0
	anyFailed := u.mintFailed[purchaseID]
	if done {
		delete(u.mintPending, purchaseID)
		delete(u.mintFailed, purchaseID)
	}
	u.mu.Unlock()

	if !done {
		return
	}

	rec, err := u.store.PurchaseByID(ctx, purchaseID)
	if err != nil {
		u.logger.Error("failed to load purchase for mint settlement",
			"purchase_id", purchaseID, "error", err.Error())
		return
	}
	u.recordTransition(ctx, rec, func() error {
		now := u.clock.Now()
		if anyFailed {
			return rec.MarkPartiallyCompleted("mint retries exhausted", now)
		}
		return rec.MarkCompleted(nil, now)
	})
}

func (u *purchaseUseCaseImpl) recordTransition(ctx context.Context, rec *purchase.Record, fn func() error) {
	if err := fn(); err != nil {
		u.logger.Error("purchase state transition rejected",
			"purchase_id", rec.ID(), "state", rec.State().String(), "error", err.Error())
		return
	}
	if err := u.store.UpdatePurchase(ctx, rec); err != nil {
		u.logger.Error("failed to persist purchase state",
			"purchase_id", rec.ID(), "state", rec.State().String(), "error", err.Error())
	}
}

func (u *purchaseUseCaseImpl) publishAvailability(ctx context.Context, ticketTypeID uuid.UUID) {
	tt, err := u.store.TicketTypeByID(ctx, ticketTypeID)
	if err != nil {
		return
	}
	if err := u.publisher.PublishAvailability(ctx, ticketTypeID, tt.Available()); err != nil {
		u.logger.Warn("failed to publish availability change",
			"ticket_type_id", ticketTypeID, "error", err.Error())
	}
}
