//go:build unit

package builder

import (
	"fmt"
	"time"

	domevent "stagepass/internal/domain/event"
	domticket "stagepass/internal/domain/ticket"

	"github.com/google/uuid"
)

type TicketBuilder struct {
	ID               uuid.UUID
	EventID          uuid.UUID
	TicketTypeID     uuid.UUID
	OwnerWallet      string
	PriceCents       int64
	Currency         string
	PurchasedAt      time.Time
	Status           domticket.Status
	MintState        domticket.MintState
	NFTTokenID       *string
	Transferable     bool
	ResaleAllowed    bool
	ResaleFloorCents *int64
	WantsNFT         bool
}

func NewTicketBuilder() *TicketBuilder {
	return &TicketBuilder{
		ID:            uuid.New(),
		EventID:       uuid.New(),
		TicketTypeID:  uuid.New(),
		OwnerWallet:   "0xALICE",
		PriceCents:    5000,
		Currency:      "USDC",
		PurchasedAt:   time.Now(),
		Status:        domticket.StatusActive,
		MintState:     domticket.MintStateNone,
		Transferable:  true,
		ResaleAllowed: true,
	}
}

func (b *TicketBuilder) With(mutate func(*TicketBuilder)) *TicketBuilder {
	mutate(b)
	return b
}

// BuildDomain reconstructs a ticket in an arbitrary state, bypassing
// the purchase path.
func (b *TicketBuilder) BuildDomain() *domticket.Ticket {
	price, _ := domevent.NewMoney(b.PriceCents, b.Currency)
	return domticket.ReconstructTicket(
		b.ID, b.EventID, b.TicketTypeID,
		b.OwnerWallet,
		price,
		b.PurchasedAt,
		b.Status,
		b.MintState,
		b.NFTTokenID,
		fmt.Sprintf("TICKET_%s_%s", b.EventID, b.ID),
		b.Transferable, b.ResaleAllowed,
		b.ResaleFloorCents,
		b.PurchasedAt,
	)
}

// BuildNew goes through the real constructor, exercising its
// validation and defaults.
func (b *TicketBuilder) BuildNew() (*domticket.Ticket, error) {
	price, _ := domevent.NewMoney(b.PriceCents, b.Currency)
	return domticket.NewTicket(b.EventID, b.TicketTypeID, b.OwnerWallet, price, b.WantsNFT, b.PurchasedAt)
}

// Fluent builder methods
func (b *TicketBuilder) WithOwnerWallet(wallet string) *TicketBuilder {
	b.OwnerWallet = wallet
	return b
}

func (b *TicketBuilder) WithStatus(status domticket.Status) *TicketBuilder {
	b.Status = status
	return b
}

func (b *TicketBuilder) WithMintState(state domticket.MintState) *TicketBuilder {
	b.MintState = state
	return b
}

func (b *TicketBuilder) WithNFTToken(tokenID string) *TicketBuilder {
	b.NFTTokenID = &tokenID
	return b
}

func (b *TicketBuilder) WithResaleFloor(cents int64) *TicketBuilder {
	b.ResaleFloorCents = &cents
	return b
}

func (b *TicketBuilder) AsNonTransferable() *TicketBuilder {
	b.Transferable = false
	return b
}

func (b *TicketBuilder) AsResaleForbidden() *TicketBuilder {
	b.ResaleAllowed = false
	return b
}
