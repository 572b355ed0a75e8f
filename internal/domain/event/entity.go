package event

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyTitle          = errors.New("event title cannot be empty")
	ErrEmptyOrganizer      = errors.New("organizer wallet cannot be empty")
	ErrEmptyTicketTypeName = errors.New("ticket type name cannot be empty")
	ErrNonPositiveQuantity = errors.New("total quantity must be positive")
	ErrCounterConservation = errors.New("reserved + sold would exceed total quantity")
	ErrCounterUnderflow    = errors.New("counter cannot go negative")
)

type Event struct {
	id              uuid.UUID
	title           string
	description     string
	organizerWallet string
	venue           Venue
	category        Category
	status          Status
	eventDate       time.Time
	doorTime        time.Time
	createdAt       time.Time
	updatedAt       time.Time
}

func NewEvent(
	title, description, organizerWallet string,
	venue Venue,
	category Category,
	eventDate, doorTime time.Time,
	now time.Time,
) (*Event, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}
	if strings.TrimSpace(organizerWallet) == "" {
		return nil, ErrEmptyOrganizer
	}

	return &Event{
		id:              uuid.New(),
		title:           strings.TrimSpace(title),
		description:     description,
		organizerWallet: organizerWallet,
		venue:           venue,
		category:        category,
		status:          StatusPublished,
		eventDate:       eventDate,
		doorTime:        doorTime,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

func ReconstructEvent(
	id uuid.UUID,
	title, description, organizerWallet string,
	venue Venue,
	category Category,
	status Status,
	eventDate, doorTime time.Time,
	createdAt, updatedAt time.Time,
) *Event {
	return &Event{
		id:              id,
		title:           title,
		description:     description,
		organizerWallet: organizerWallet,
		venue:           venue,
		category:        category,
		status:          status,
		eventDate:       eventDate,
		doorTime:        doorTime,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (e *Event) ID() uuid.UUID           { return e.id }
func (e *Event) Title() string           { return e.title }
func (e *Event) Description() string     { return e.description }
func (e *Event) OrganizerWallet() string { return e.organizerWallet }
func (e *Event) Venue() Venue            { return e.venue }
func (e *Event) Category() Category      { return e.category }
func (e *Event) Status() Status          { return e.status }
func (e *Event) EventDate() time.Time    { return e.eventDate }
func (e *Event) DoorTime() time.Time     { return e.doorTime }
func (e *Event) CreatedAt() time.Time    { return e.createdAt }
func (e *Event) UpdatedAt() time.Time    { return e.updatedAt }

// TicketType carries the inventory counters. reservedCount is written
// only by the reservation manager through the ledger's conditional
// update; soldCount only increases except for the explicit refund
// transition.
type TicketType struct {
	id            uuid.UUID
	eventID       uuid.UUID
	name          string
	price         Money
	totalQuantity int
	reservedCount int
	soldCount     int
	salesWindow   SalesWindow
	holdTTL       *time.Duration
	perks         []Perk
	nftMetadata   *NFTMetadata
}

func NewTicketType(
	eventID uuid.UUID,
	name string,
	price Money,
	totalQuantity int,
	salesWindow SalesWindow,
	holdTTL *time.Duration,
	perks []Perk,
	nftMetadata *NFTMetadata,
) (*TicketType, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyTicketTypeName
	}
	if totalQuantity <= 0 {
		return nil, ErrNonPositiveQuantity
	}

	return &TicketType{
		id:            uuid.New(),
		eventID:       eventID,
		name:          strings.TrimSpace(name),
		price:         price,
		totalQuantity: totalQuantity,
		salesWindow:   salesWindow,
		holdTTL:       holdTTL,
		perks:         perks,
		nftMetadata:   nftMetadata,
	}, nil
}

func ReconstructTicketType(
	id, eventID uuid.UUID,
	name string,
	price Money,
	totalQuantity, reservedCount, soldCount int,
	salesWindow SalesWindow,
	holdTTL *time.Duration,
	perks []Perk,
	nftMetadata *NFTMetadata,
) *TicketType {
	return &TicketType{
		id:            id,
		eventID:       eventID,
		name:          name,
		price:         price,
		totalQuantity: totalQuantity,
		reservedCount: reservedCount,
		soldCount:     soldCount,
		salesWindow:   salesWindow,
		holdTTL:       holdTTL,
		perks:         perks,
		nftMetadata:   nftMetadata,
	}
}

func (t *TicketType) ID() uuid.UUID            { return t.id }
func (t *TicketType) EventID() uuid.UUID       { return t.eventID }
func (t *TicketType) Name() string             { return t.name }
func (t *TicketType) Price() Money             { return t.price }
func (t *TicketType) TotalQuantity() int       { return t.totalQuantity }
func (t *TicketType) ReservedCount() int       { return t.reservedCount }
func (t *TicketType) SoldCount() int           { return t.soldCount }
func (t *TicketType) SalesWindow() SalesWindow { return t.salesWindow }
func (t *TicketType) HoldTTL() *time.Duration  { return t.holdTTL }
func (t *TicketType) Perks() []Perk            { return t.perks }

func (t *TicketType) NFTMetadata() *NFTMetadata { return t.nftMetadata }
func (t *TicketType) HasNFT() bool              { return t.nftMetadata != nil }

// Available is the quantity a new hold may still claim.
func (t *TicketType) Available() int {
	return t.totalQuantity - t.reservedCount - t.soldCount
}

func (t *TicketType) SalesOpenAt(now time.Time) bool {
	return t.salesWindow.Contains(now)
}

// ApplyCounterDelta mutates the counters, rejecting any state that
// would break reserved + sold <= total or drive a counter negative.
// Only ledger store implementations call this, under their own
// serialization.
func (t *TicketType) ApplyCounterDelta(soldDelta, reservedDelta int) error {
	newSold := t.soldCount + soldDelta
	newReserved := t.reservedCount + reservedDelta
	if newSold < 0 || newReserved < 0 {
		return ErrCounterUnderflow
	}
	if newSold+newReserved > t.totalQuantity {
		return ErrCounterConservation
	}
	t.soldCount = newSold
	t.reservedCount = newReserved
	return nil
}
