// Package ledger defines the durable store contract the engine runs
// against. Implementations must make every conditional operation a
// single atomic step at the storage layer; optimistic concurrency on
// the inventory counters is the engine's only synchronization
// mechanism.
package ledger

import (
	"context"
	"time"

	"stagepass/internal/domain/event"
	"stagepass/internal/domain/purchase"
	"stagepass/internal/domain/resale"
	"stagepass/internal/domain/ticket"

	"github.com/google/uuid"
)

// EventFilter is the strongly-typed query descriptor the read surface
// accepts; no untyped dictionaries cross into the core.
type EventFilter struct {
	Category      *event.Category
	City          *string
	MinPriceCents *int64
	MaxPriceCents *int64
	From          *time.Time
	To            *time.Time
	NFTOnly       bool
	OnSaleAt      *time.Time
}

type Store interface {
	EventStore
	TicketStore
	ListingStore
	PurchaseStore
}

type EventStore interface {
	// CreateEvent persists an event together with its ticket types.
	CreateEvent(ctx context.Context, ev *event.Event, types []*event.TicketType) error
	EventByID(ctx context.Context, id uuid.UUID) (*event.Event, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]*event.Event, error)
	TicketTypeByID(ctx context.Context, id uuid.UUID) (*event.TicketType, error)
	TicketTypesByEvent(ctx context.Context, eventID uuid.UUID) ([]*event.TicketType, error)

	// CompareAndSwapCounters applies the deltas to the type's counters
	// only when the current sold/reserved values match the
	// expectations. The swap result reports a concurrent modification;
	// callers must re-read and retry, never assume success. The check
	// that reserved+sold stays within totalQuantity is enforced
	// unconditionally.
	CompareAndSwapCounters(ctx context.Context, ticketTypeID uuid.UUID, expectedSold, expectedReserved, soldDelta, reservedDelta int) (bool, error)
}

type TicketStore interface {
	// CreateTickets inserts the batch atomically; this is the purchase
	// saga's durability boundary.
	CreateTickets(ctx context.Context, tickets []*ticket.Ticket) error
	TicketByID(ctx context.Context, id uuid.UUID) (*ticket.Ticket, error)
	TicketsByOwner(ctx context.Context, ownerWallet string) ([]*ticket.Ticket, error)
	// UpdateTicket writes back an entity previously read from the
	// store. Racy transitions (listing claims, resale settlement) go
	// through the conditional ListingStore operations instead.
	UpdateTicket(ctx context.Context, t *ticket.Ticket) error
}

type ListingStore interface {
	// CreateListing persists the listing and flips its ticket to the
	// Listed status in one atomic step. Fails with KindConflict when
	// the ticket is not Active or already carries a live listing.
	CreateListing(ctx context.Context, l *resale.Listing) error
	ListingByID(ctx context.Context, id uuid.UUID) (*resale.Listing, error)
	OpenListings(ctx context.Context) ([]*resale.Listing, error)
	OpenListingByTicket(ctx context.Context, ticketID uuid.UUID) (*resale.Listing, error)
	// SettleListing atomically moves Listed -> Sold and transfers the
	// ticket to the buyer. Fails with KindConflict when the listing is
	// no longer open.
	SettleListing(ctx context.Context, listingID uuid.UUID, buyerWallet string) (*ticket.Ticket, error)
	// CloseListing atomically moves Listed -> Cancelled/Expired and
	// returns the ticket to Active.
	CloseListing(ctx context.Context, listingID uuid.UUID, to resale.Status) error
	// ExpireListingsDue sweeps listings whose expiry has passed.
	ExpireListingsDue(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}

type PurchaseStore interface {
	CreatePurchase(ctx context.Context, rec *purchase.Record) error
	UpdatePurchase(ctx context.Context, rec *purchase.Record) error
	PurchaseByID(ctx context.Context, id uuid.UUID) (*purchase.Record, error)
}
