package queries

import (
	"context"

	"stagepass/internal/infra"
	"stagepass/internal/ledger"
	"stagepass/internal/pkg/errs"

	"github.com/google/uuid"
)

type CatalogQueries interface {
	ListEvents(ctx context.Context, filter ledger.EventFilter) ([]*EventView, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*EventView, error)
	GetTicketType(ctx context.Context, id uuid.UUID) (*TicketTypeView, error)
}

type catalogQueriesImpl struct {
	store ledger.EventStore
}

func NewCatalogQueries(store ledger.EventStore) CatalogQueries {
	return &catalogQueriesImpl{store: store}
}

func (q *catalogQueriesImpl) ListEvents(ctx context.Context, filter ledger.EventFilter) ([]*EventView, error) {
	events, err := q.store.ListEvents(ctx, filter)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}

	views := make([]*EventView, 0, len(events))
	for _, ev := range events {
		types, err := q.store.TicketTypesByEvent(ctx, ev.ID())
		if err != nil {
			return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
		}
		views = append(views, ToEventView(ev, types))
	}
	return views, nil
}

func (q *catalogQueriesImpl) GetEvent(ctx context.Context, id uuid.UUID) (*EventView, error) {
	ev, err := q.store.EventByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrEventNotFound
		}
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}

	types, err := q.store.TicketTypesByEvent(ctx, id)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}
	return ToEventView(ev, types), nil
}

func (q *catalogQueriesImpl) GetTicketType(ctx context.Context, id uuid.UUID) (*TicketTypeView, error) {
	tt, err := q.store.TicketTypeByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrTicketTypeNotFound
		}
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}
	view := ToTicketTypeView(tt)
	return &view, nil
}
