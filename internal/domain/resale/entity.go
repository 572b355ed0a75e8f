package resale

import (
	"errors"
	"time"

	"stagepass/internal/domain/event"

	"github.com/google/uuid"
)

var (
	ErrEmptySellerWallet = errors.New("seller wallet cannot be empty")
	ErrNotListed         = errors.New("listing is not open")
	ErrSellerCannotBuy   = errors.New("seller cannot buy own listing")
	ErrBelowFloor        = errors.New("asking price below ticket resale floor")
)

// Listing holds an exclusive claim on its ticket for as long as it is
// in the Listed state.
type Listing struct {
	id           uuid.UUID
	ticketID     uuid.UUID
	sellerWallet string
	askingPrice  event.Money
	status       Status
	listedAt     time.Time
	expiresAt    *time.Time
	buyerWallet  *string
	updatedAt    time.Time
}

func NewListing(
	ticketID uuid.UUID,
	sellerWallet string,
	askingPrice event.Money,
	expiresAt *time.Time,
	now time.Time,
) (*Listing, error) {
	if sellerWallet == "" {
		return nil, ErrEmptySellerWallet
	}

	return &Listing{
		id:           uuid.New(),
		ticketID:     ticketID,
		sellerWallet: sellerWallet,
		askingPrice:  askingPrice,
		status:       StatusListed,
		listedAt:     now,
		expiresAt:    expiresAt,
		updatedAt:    now,
	}, nil
}

func ReconstructListing(
	id, ticketID uuid.UUID,
	sellerWallet string,
	askingPrice event.Money,
	status Status,
	listedAt time.Time,
	expiresAt *time.Time,
	buyerWallet *string,
	updatedAt time.Time,
) *Listing {
	return &Listing{
		id:           id,
		ticketID:     ticketID,
		sellerWallet: sellerWallet,
		askingPrice:  askingPrice,
		status:       status,
		listedAt:     listedAt,
		expiresAt:    expiresAt,
		buyerWallet:  buyerWallet,
		updatedAt:    updatedAt,
	}
}

func (l *Listing) ID() uuid.UUID            { return l.id }
func (l *Listing) TicketID() uuid.UUID      { return l.ticketID }
func (l *Listing) SellerWallet() string     { return l.sellerWallet }
func (l *Listing) AskingPrice() event.Money { return l.askingPrice }
func (l *Listing) Status() Status           { return l.status }
func (l *Listing) ListedAt() time.Time      { return l.listedAt }
func (l *Listing) ExpiresAt() *time.Time    { return l.expiresAt }
func (l *Listing) BuyerWallet() *string     { return l.buyerWallet }
func (l *Listing) UpdatedAt() time.Time     { return l.updatedAt }

func (l *Listing) IsOpen() bool {
	return l.status == StatusListed
}

func (l *Listing) HasExpired(now time.Time) bool {
	return l.expiresAt != nil && now.After(*l.expiresAt)
}

func (l *Listing) MarkSold(buyerWallet string, now time.Time) error {
	if l.status != StatusListed {
		return ErrNotListed
	}
	if buyerWallet == l.sellerWallet {
		return ErrSellerCannotBuy
	}
	l.status = StatusSold
	l.buyerWallet = &buyerWallet
	l.updatedAt = now
	return nil
}

func (l *Listing) Cancel(now time.Time) error {
	if l.status != StatusListed {
		return ErrNotListed
	}
	l.status = StatusCancelled
	l.updatedAt = now
	return nil
}

func (l *Listing) Expire(now time.Time) error {
	if l.status != StatusListed {
		return ErrNotListed
	}
	l.status = StatusExpired
	l.updatedAt = now
	return nil
}
