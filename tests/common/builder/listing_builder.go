//go:build unit

package builder

import (
	"time"

	domevent "stagepass/internal/domain/event"
	domresale "stagepass/internal/domain/resale"

	"github.com/google/uuid"
)

type ListingBuilder struct {
	TicketID     uuid.UUID
	SellerWallet string
	AskingCents  int64
	Currency     string
	ExpiresAt    *time.Time
	Now          time.Time
}

func NewListingBuilder() *ListingBuilder {
	return &ListingBuilder{
		TicketID:     uuid.New(),
		SellerWallet: "0xALICE",
		AskingCents:  7500,
		Currency:     "USDC",
		Now:          time.Now(),
	}
}

func (b *ListingBuilder) With(mutate func(*ListingBuilder)) *ListingBuilder {
	mutate(b)
	return b
}

func (b *ListingBuilder) BuildDomain() (*domresale.Listing, error) {
	price, err := domevent.NewMoney(b.AskingCents, b.Currency)
	if err != nil {
		return nil, err
	}
	return domresale.NewListing(b.TicketID, b.SellerWallet, price, b.ExpiresAt, b.Now)
}

// Fluent builder methods
func (b *ListingBuilder) WithTicketID(ticketID uuid.UUID) *ListingBuilder {
	b.TicketID = ticketID
	return b
}

func (b *ListingBuilder) WithSellerWallet(wallet string) *ListingBuilder {
	b.SellerWallet = wallet
	return b
}

func (b *ListingBuilder) WithAskingPrice(cents int64) *ListingBuilder {
	b.AskingCents = cents
	return b
}

func (b *ListingBuilder) WithExpiresAt(expiresAt time.Time) *ListingBuilder {
	b.ExpiresAt = &expiresAt
	return b
}
