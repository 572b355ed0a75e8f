package ticket

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"stagepass/internal/domain/event"

	"github.com/google/uuid"
)

var (
	ErrEmptyOwnerWallet   = errors.New("owner wallet cannot be empty")
	ErrNotActive          = errors.New("ticket is not active")
	ErrNotListed          = errors.New("ticket is not listed")
	ErrNotTransferable    = errors.New("ticket is not transferable")
	ErrResaleNotAllowed   = errors.New("ticket resale is not allowed")
	ErrTransferToSelf     = errors.New("cannot transfer ticket to current owner")
	ErrMintNotPending     = errors.New("no mint outstanding for ticket")
	ErrAlreadyMinted      = errors.New("ticket already carries an NFT token")
	ErrTerminalStatus     = errors.New("ticket is in a terminal status")
	ErrNegativeResaleFloor = errors.New("resale floor price cannot be negative")
)

// Ticket is created only by a committed purchase and never deleted;
// refund and cancellation are status transitions so the audit history
// survives.
type Ticket struct {
	id            uuid.UUID
	eventID       uuid.UUID
	ticketTypeID  uuid.UUID
	ownerWallet   string
	purchasePrice event.Money
	purchasedAt   time.Time
	status        Status
	mintState     MintState
	nftTokenID    *string
	qrCode        string
	transferable  bool
	resaleAllowed bool
	// resaleFloorCents is the owner's advisory minimum; the listing's
	// asking price is authoritative.
	resaleFloorCents *int64
	updatedAt        time.Time
}

func NewTicket(
	eventID, ticketTypeID uuid.UUID,
	ownerWallet string,
	purchasePrice event.Money,
	wantsNFT bool,
	now time.Time,
) (*Ticket, error) {
	if strings.TrimSpace(ownerWallet) == "" {
		return nil, ErrEmptyOwnerWallet
	}

	id := uuid.New()
	mintState := MintStateNone
	if wantsNFT {
		mintState = MintStatePending
	}

	return &Ticket{
		id:            id,
		eventID:       eventID,
		ticketTypeID:  ticketTypeID,
		ownerWallet:   ownerWallet,
		purchasePrice: purchasePrice,
		purchasedAt:   now,
		status:        StatusActive,
		mintState:     mintState,
		qrCode:        fmt.Sprintf("TICKET_%s_%s", eventID, id),
		transferable:  true,
		resaleAllowed: true,
		updatedAt:     now,
	}, nil
}

func ReconstructTicket(
	id, eventID, ticketTypeID uuid.UUID,
	ownerWallet string,
	purchasePrice event.Money,
	purchasedAt time.Time,
	status Status,
	mintState MintState,
	nftTokenID *string,
	qrCode string,
	transferable, resaleAllowed bool,
	resaleFloorCents *int64,
	updatedAt time.Time,
) *Ticket {
	return &Ticket{
		id:               id,
		eventID:          eventID,
		ticketTypeID:     ticketTypeID,
		ownerWallet:      ownerWallet,
		purchasePrice:    purchasePrice,
		purchasedAt:      purchasedAt,
		status:           status,
		mintState:        mintState,
		nftTokenID:       nftTokenID,
		qrCode:           qrCode,
		transferable:     transferable,
		resaleAllowed:    resaleAllowed,
		resaleFloorCents: resaleFloorCents,
		updatedAt:        updatedAt,
	}
}

func (t *Ticket) ID() uuid.UUID             { return t.id }
func (t *Ticket) EventID() uuid.UUID        { return t.eventID }
func (t *Ticket) TicketTypeID() uuid.UUID   { return t.ticketTypeID }
func (t *Ticket) OwnerWallet() string       { return t.ownerWallet }
func (t *Ticket) PurchasePrice() event.Money { return t.purchasePrice }
func (t *Ticket) PurchasedAt() time.Time    { return t.purchasedAt }
func (t *Ticket) Status() Status            { return t.status }
func (t *Ticket) MintState() MintState      { return t.mintState }
func (t *Ticket) NFTTokenID() *string       { return t.nftTokenID }
func (t *Ticket) QRCode() string            { return t.qrCode }
func (t *Ticket) Transferable() bool        { return t.transferable }
func (t *Ticket) ResaleAllowed() bool       { return t.resaleAllowed }
func (t *Ticket) ResaleFloorCents() *int64  { return t.resaleFloorCents }
func (t *Ticket) UpdatedAt() time.Time      { return t.updatedAt }

func (t *Ticket) IsOwnedBy(wallet string) bool {
	return t.ownerWallet == wallet
}

// MarkListed claims the ticket for a resale listing. While listed the
// ticket cannot be transferred, re-listed, or redeemed.
func (t *Ticket) MarkListed(now time.Time) error {
	if t.status != StatusActive {
		if t.status == StatusListed {
			return ErrNotActive
		}
		return ErrTerminalStatus
	}
	if !t.resaleAllowed {
		return ErrResaleNotAllowed
	}
	t.status = StatusListed
	t.updatedAt = now
	return nil
}

// Unlist returns the ticket to Active when its listing reaches a
// terminal state without a sale.
func (t *Ticket) Unlist(now time.Time) error {
	if t.status != StatusListed {
		return ErrNotListed
	}
	t.status = StatusActive
	t.updatedAt = now
	return nil
}

// CompleteResale moves ownership to the buyer; the ticket stays Active
// because a resale moves an existing unit and consumes no type-level
// capacity.
func (t *Ticket) CompleteResale(buyerWallet string, now time.Time) error {
	if t.status != StatusListed {
		return ErrNotListed
	}
	t.status = StatusActive
	t.ownerWallet = buyerWallet
	t.resaleFloorCents = nil
	t.updatedAt = now
	return nil
}

func (t *Ticket) TransferTo(wallet string, now time.Time) error {
	if t.status != StatusActive {
		return ErrNotActive
	}
	if !t.transferable {
		return ErrNotTransferable
	}
	if t.ownerWallet == wallet {
		return ErrTransferToSelf
	}
	t.ownerWallet = wallet
	t.updatedAt = now
	return nil
}

func (t *Ticket) Redeem(now time.Time) error {
	if t.status != StatusActive {
		return ErrNotActive
	}
	t.status = StatusUsed
	t.updatedAt = now
	return nil
}

func (t *Ticket) Refund(now time.Time) error {
	if t.status != StatusActive {
		return ErrNotActive
	}
	t.status = StatusRefunded
	t.updatedAt = now
	return nil
}

func (t *Ticket) SetResaleFloor(cents int64, now time.Time) error {
	if cents < 0 {
		return ErrNegativeResaleFloor
	}
	t.resaleFloorCents = &cents
	t.updatedAt = now
	return nil
}

// AttachToken records a successful mint.
func (t *Ticket) AttachToken(tokenID string, now time.Time) error {
	if t.nftTokenID != nil {
		return ErrAlreadyMinted
	}
	if t.mintState != MintStatePending {
		return ErrMintNotPending
	}
	t.nftTokenID = &tokenID
	t.mintState = MintStateMinted
	t.updatedAt = now
	return nil
}

// FlagMintFailed records mint-retry exhaustion as a durable, owner
// visible warning. The ticket stays valid for entry.
func (t *Ticket) FlagMintFailed(now time.Time) error {
	if t.mintState != MintStatePending {
		return ErrMintNotPending
	}
	t.mintState = MintStateFailed
	t.updatedAt = now
	return nil
}
