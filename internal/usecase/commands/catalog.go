package commands

import (
	"context"
	"time"

	"stagepass/internal/domain/event"
	"stagepass/internal/ledger"
	"stagepass/internal/pkg/clock"
	"stagepass/internal/pkg/errs"
	"stagepass/internal/usecase/queries"
)

type TicketTypeParams struct {
	Name          string
	PriceCents    int64
	Currency      string
	TotalQuantity int
	SalesStart    time.Time
	SalesEnd      time.Time
	HoldTTL       *time.Duration
	Perks         []event.Perk
	NFTMetadata   *event.NFTMetadata
}

type CreateEventParams struct {
	Title           string
	Description     string
	OrganizerWallet string
	Venue           event.Venue
	Category        event.Category
	EventDate       time.Time
	DoorTime        time.Time
	TicketTypes     []TicketTypeParams
}

type CatalogCommands interface {
	CreateEvent(ctx context.Context, params CreateEventParams) (*queries.EventView, error)
}

type catalogUseCaseImpl struct {
	store ledger.EventStore
	clock clock.Clock
}

func NewCatalogUseCase(store ledger.EventStore, clk clock.Clock) CatalogCommands {
	return &catalogUseCaseImpl{store: store, clock: clk}
}

// CreateEvent publishes an event together with its ticket types in one
// atomic write; a half-created event never becomes purchasable.
func (u *catalogUseCaseImpl) CreateEvent(ctx context.Context, params CreateEventParams) (*queries.EventView, error) {
	if len(params.TicketTypes) == 0 {
		return nil, errs.Mark(errs.New("event needs at least one ticket type"), errs.ErrDomainValidation)
	}

	now := u.clock.Now()
	ev, err := event.NewEvent(
		params.Title, params.Description, params.OrganizerWallet,
		params.Venue, params.Category,
		params.EventDate, params.DoorTime,
		now,
	)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	types := make([]*event.TicketType, 0, len(params.TicketTypes))
	for _, tp := range params.TicketTypes {
		price, err := event.NewMoney(tp.PriceCents, tp.Currency)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDomainValidation)
		}
		window, err := event.NewSalesWindow(tp.SalesStart, tp.SalesEnd)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDomainValidation)
		}
		tt, err := event.NewTicketType(ev.ID(), tp.Name, price, tp.TotalQuantity, window, tp.HoldTTL, tp.Perks, tp.NFTMetadata)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDomainValidation)
		}
		types = append(types, tt)
	}

	if err := u.store.CreateEvent(ctx, ev, types); err != nil {
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}
	return queries.ToEventView(ev, types), nil
}
