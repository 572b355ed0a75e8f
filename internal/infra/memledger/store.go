// Package memledger is a process-local ledger store. A single mutex
// makes every conditional operation atomic; entities are deep-copied
// at the boundary so nothing escapes the lock.
package memledger

import (
	"context"
	"sort"
	"time"

	"stagepass/internal/domain/event"
	"stagepass/internal/domain/purchase"
	"stagepass/internal/domain/resale"
	"stagepass/internal/domain/ticket"
	"stagepass/internal/infra"
	"stagepass/internal/ledger"
	"stagepass/internal/pkg/clock"

	"github.com/google/uuid"
	"sync"
)

type Store struct {
	mu    sync.Mutex
	clock clock.Clock

	events    map[uuid.UUID]*event.Event
	types     map[uuid.UUID]*event.TicketType
	tickets   map[uuid.UUID]*ticket.Ticket
	listings  map[uuid.UUID]*resale.Listing
	purchases map[uuid.UUID]*purchase.Record

	// openByTicket tracks the live listing per ticket; the exclusivity
	// check for CreateListing reads it under the same lock.
	openByTicket map[uuid.UUID]uuid.UUID
}

func New(clk clock.Clock) *Store {
	return &Store{
		clock:        clk,
		events:       make(map[uuid.UUID]*event.Event),
		types:        make(map[uuid.UUID]*event.TicketType),
		tickets:      make(map[uuid.UUID]*ticket.Ticket),
		listings:     make(map[uuid.UUID]*resale.Listing),
		purchases:    make(map[uuid.UUID]*purchase.Record),
		openByTicket: make(map[uuid.UUID]uuid.UUID),
	}
}

var _ ledger.Store = (*Store)(nil)

func (s *Store) CreateEvent(_ context.Context, ev *event.Event, types []*event.TicketType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[ev.ID()]; ok {
		return infra.NewRepoErr(infra.KindConflict, "event already exists")
	}
	s.events[ev.ID()] = cloneEvent(ev)
	for _, tt := range types {
		s.types[tt.ID()] = cloneTicketType(tt)
	}
	return nil
}

func (s *Store) EventByID(_ context.Context, id uuid.UUID) (*event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, ok := s.events[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "event not found")
	}
	return cloneEvent(ev), nil
}

func (s *Store) ListEvents(_ context.Context, filter ledger.EventFilter) ([]*event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*event.Event
	for _, ev := range s.events {
		if s.matchesFilter(ev, filter) {
			out = append(out, cloneEvent(ev))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].EventDate().Before(out[j].EventDate())
	})
	return out, nil
}

func (s *Store) TicketTypeByID(_ context.Context, id uuid.UUID) (*event.TicketType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tt, ok := s.types[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "ticket type not found")
	}
	return cloneTicketType(tt), nil
}

func (s *Store) TicketTypesByEvent(_ context.Context, eventID uuid.UUID) ([]*event.TicketType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*event.TicketType
	for _, tt := range s.types {
		if tt.EventID() == eventID {
			out = append(out, cloneTicketType(tt))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Price().AmountCents() < out[j].Price().AmountCents()
	})
	return out, nil
}

func (s *Store) CompareAndSwapCounters(_ context.Context, ticketTypeID uuid.UUID, expectedSold, expectedReserved, soldDelta, reservedDelta int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tt, ok := s.types[ticketTypeID]
	if !ok {
		return false, infra.NewRepoErr(infra.KindNotFound, "ticket type not found")
	}
	if tt.SoldCount() != expectedSold || tt.ReservedCount() != expectedReserved {
		return false, nil
	}
	if err := tt.ApplyCounterDelta(soldDelta, reservedDelta); err != nil {
		return false, infra.WrapRepoErr(infra.KindConflict, "counter delta rejected", err)
	}
	return true, nil
}

func (s *Store) CreateTickets(_ context.Context, tickets []*ticket.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range tickets {
		if _, ok := s.tickets[t.ID()]; ok {
			return infra.NewRepoErr(infra.KindConflict, "ticket already exists")
		}
	}
	for _, t := range tickets {
		s.tickets[t.ID()] = cloneTicket(t)
	}
	return nil
}

func (s *Store) TicketByID(_ context.Context, id uuid.UUID) (*ticket.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "ticket not found")
	}
	return cloneTicket(t), nil
}

func (s *Store) TicketsByOwner(_ context.Context, ownerWallet string) ([]*ticket.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*ticket.Ticket
	for _, t := range s.tickets {
		if t.OwnerWallet() == ownerWallet {
			out = append(out, cloneTicket(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PurchasedAt().Before(out[j].PurchasedAt())
	})
	return out, nil
}

func (s *Store) UpdateTicket(_ context.Context, t *ticket.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tickets[t.ID()]; !ok {
		return infra.NewRepoErr(infra.KindNotFound, "ticket not found")
	}
	s.tickets[t.ID()] = cloneTicket(t)
	return nil
}

func (s *Store) CreateListing(_ context.Context, l *resale.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[l.TicketID()]
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "ticket not found")
	}
	if _, live := s.openByTicket[l.TicketID()]; live {
		return infra.NewRepoErr(infra.KindConflict, "ticket already has a live listing")
	}
	if err := t.MarkListed(s.clock.Now()); err != nil {
		return infra.WrapRepoErr(infra.KindConflict, "ticket cannot be listed", err)
	}

	s.listings[l.ID()] = cloneListing(l)
	s.openByTicket[l.TicketID()] = l.ID()
	return nil
}

func (s *Store) ListingByID(_ context.Context, id uuid.UUID) (*resale.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "listing not found")
	}
	return cloneListing(l), nil
}

func (s *Store) OpenListings(_ context.Context) ([]*resale.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*resale.Listing
	for _, l := range s.listings {
		if l.IsOpen() {
			out = append(out, cloneListing(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ListedAt().Before(out[j].ListedAt())
	})
	return out, nil
}

func (s *Store) OpenListingByTicket(_ context.Context, ticketID uuid.UUID) (*resale.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.openByTicket[ticketID]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "no open listing for ticket")
	}
	return cloneListing(s.listings[id]), nil
}

func (s *Store) SettleListing(_ context.Context, listingID uuid.UUID, buyerWallet string) (*ticket.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[listingID]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "listing not found")
	}
	t := s.tickets[l.TicketID()]
	now := s.clock.Now()

	if err := l.MarkSold(buyerWallet, now); err != nil {
		return nil, infra.WrapRepoErr(infra.KindConflict, "listing not open", err)
	}
	if err := t.CompleteResale(buyerWallet, now); err != nil {
		return nil, infra.WrapRepoErr(infra.KindConflict, "ticket not claimed by listing", err)
	}
	delete(s.openByTicket, l.TicketID())
	return cloneTicket(t), nil
}

func (s *Store) CloseListing(_ context.Context, listingID uuid.UUID, to resale.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeListingLocked(listingID, to)
}

func (s *Store) closeListingLocked(listingID uuid.UUID, to resale.Status) error {
	l, ok := s.listings[listingID]
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "listing not found")
	}
	now := s.clock.Now()

	var err error
	switch to {
	case resale.StatusCancelled:
		err = l.Cancel(now)
	case resale.StatusExpired:
		err = l.Expire(now)
	default:
		return infra.NewRepoErr(infra.KindConflict, "unsupported close status")
	}
	if err != nil {
		return infra.WrapRepoErr(infra.KindConflict, "listing not open", err)
	}

	if t, ok := s.tickets[l.TicketID()]; ok {
		if unlistErr := t.Unlist(now); unlistErr != nil {
			return infra.WrapRepoErr(infra.KindConflict, "ticket not claimed by listing", unlistErr)
		}
	}
	delete(s.openByTicket, l.TicketID())
	return nil
}

func (s *Store) ExpireListingsDue(_ context.Context, now time.Time) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []uuid.UUID
	for id, l := range s.listings {
		if l.IsOpen() && l.HasExpired(now) {
			if err := s.closeListingLocked(id, resale.StatusExpired); err != nil {
				return expired, err
			}
			expired = append(expired, id)
		}
	}
	return expired, nil
}

func (s *Store) CreatePurchase(_ context.Context, rec *purchase.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.purchases[rec.ID()]; ok {
		return infra.NewRepoErr(infra.KindConflict, "purchase already exists")
	}
	s.purchases[rec.ID()] = cloneRecord(rec)
	return nil
}

func (s *Store) UpdatePurchase(_ context.Context, rec *purchase.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.purchases[rec.ID()]; !ok {
		return infra.NewRepoErr(infra.KindNotFound, "purchase not found")
	}
	s.purchases[rec.ID()] = cloneRecord(rec)
	return nil
}

func (s *Store) PurchaseByID(_ context.Context, id uuid.UUID) (*purchase.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.purchases[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "purchase not found")
	}
	return cloneRecord(rec), nil
}

func (s *Store) matchesFilter(ev *event.Event, f ledger.EventFilter) bool {
	if f.Category != nil && ev.Category() != *f.Category {
		return false
	}
	if f.City != nil && ev.Venue().City != *f.City {
		return false
	}
	if f.From != nil && ev.EventDate().Before(*f.From) {
		return false
	}
	if f.To != nil && ev.EventDate().After(*f.To) {
		return false
	}

	if f.MinPriceCents == nil && f.MaxPriceCents == nil && !f.NFTOnly && f.OnSaleAt == nil {
		return true
	}

	// Price, NFT and sales-window filters match when any of the
	// event's ticket types qualifies.
	for _, tt := range s.types {
		if tt.EventID() != ev.ID() {
			continue
		}
		if f.MinPriceCents != nil && tt.Price().AmountCents() < *f.MinPriceCents {
			continue
		}
		if f.MaxPriceCents != nil && tt.Price().AmountCents() > *f.MaxPriceCents {
			continue
		}
		if f.NFTOnly && !tt.HasNFT() {
			continue
		}
		if f.OnSaleAt != nil && !tt.SalesOpenAt(*f.OnSaleAt) {
			continue
		}
		return true
	}
	return false
}
