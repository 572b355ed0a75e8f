//go:build unit

package builder

import (
	"time"

	domevent "stagepass/internal/domain/event"

	"github.com/google/uuid"
)

type EventBuilder struct {
	Title           string
	Description     string
	OrganizerWallet string
	Venue           domevent.Venue
	Category        domevent.Category
	EventDate       time.Time
	DoorTime        time.Time
	Now             time.Time

	TypeName      string
	PriceCents    int64
	Currency      string
	TotalQuantity int
	SalesStart    time.Time
	SalesEnd      time.Time
	HoldTTL       *time.Duration
	Perks         []domevent.Perk
	NFTMetadata   *domevent.NFTMetadata
}

func NewEventBuilder() *EventBuilder {
	now := time.Now()
	return &EventBuilder{
		Title:           "Midnight Frequencies",
		Description:     "All-night electronic showcase at the harbor",
		OrganizerWallet: "0xORGANIZER",
		Venue: domevent.Venue{
			Name:     "Harbor Hall",
			Address:  "12 Quay Street",
			City:     "Rotterdam",
			Country:  "NL",
			Capacity: 1500,
		},
		Category:      domevent.CategoryConcert,
		EventDate:     now.Add(30 * 24 * time.Hour),
		DoorTime:      now.Add(30*24*time.Hour - 2*time.Hour),
		Now:           now,
		TypeName:      "General Admission",
		PriceCents:    5000,
		Currency:      "USDC",
		TotalQuantity: 100,
		SalesStart:    now.Add(-time.Hour),
		SalesEnd:      now.Add(14 * 24 * time.Hour),
	}
}

func (b *EventBuilder) With(mutate func(*EventBuilder)) *EventBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *EventBuilder) BuildDomain() (*domevent.Event, error) {
	return domevent.NewEvent(
		b.Title, b.Description, b.OrganizerWallet,
		b.Venue, b.Category,
		b.EventDate, b.DoorTime,
		b.Now,
	)
}

func (b *EventBuilder) BuildTicketType(eventID uuid.UUID) (*domevent.TicketType, error) {
	price, err := domevent.NewMoney(b.PriceCents, b.Currency)
	if err != nil {
		return nil, err
	}
	window, err := domevent.NewSalesWindow(b.SalesStart, b.SalesEnd)
	if err != nil {
		return nil, err
	}
	return domevent.NewTicketType(eventID, b.TypeName, price, b.TotalQuantity, window, b.HoldTTL, b.Perks, b.NFTMetadata)
}

// Fluent builder methods
func (b *EventBuilder) WithTitle(title string) *EventBuilder {
	b.Title = title
	return b
}

func (b *EventBuilder) WithOrganizerWallet(wallet string) *EventBuilder {
	b.OrganizerWallet = wallet
	return b
}

func (b *EventBuilder) WithCity(city string) *EventBuilder {
	b.Venue.City = city
	return b
}

func (b *EventBuilder) WithCategory(category domevent.Category) *EventBuilder {
	b.Category = category
	return b
}

func (b *EventBuilder) WithEventDate(date time.Time) *EventBuilder {
	b.EventDate = date
	b.DoorTime = date.Add(-2 * time.Hour)
	return b
}

func (b *EventBuilder) WithTypeName(name string) *EventBuilder {
	b.TypeName = name
	return b
}

func (b *EventBuilder) WithPrice(cents int64, currency string) *EventBuilder {
	b.PriceCents = cents
	b.Currency = currency
	return b
}

func (b *EventBuilder) WithTotalQuantity(quantity int) *EventBuilder {
	b.TotalQuantity = quantity
	return b
}

func (b *EventBuilder) WithSalesWindow(start, end time.Time) *EventBuilder {
	b.SalesStart = start
	b.SalesEnd = end
	return b
}

func (b *EventBuilder) WithHoldTTL(ttl time.Duration) *EventBuilder {
	b.HoldTTL = &ttl
	return b
}

func (b *EventBuilder) WithPerk(name, description string, category domevent.PerkCategory) *EventBuilder {
	b.Perks = append(b.Perks, domevent.Perk{
		Name:        name,
		Description: description,
		Category:    category,
	})
	return b
}

// AsNFT opts the ticket type into collectible minting.
func (b *EventBuilder) AsNFT() *EventBuilder {
	b.NFTMetadata = &domevent.NFTMetadata{
		Name:        "Midnight Frequencies Pass",
		Description: "Commemorative entry collectible",
		Image:       "ipfs://QmMidnightPass/cover.png",
		Attributes: []domevent.NFTAttribute{
			{TraitType: "Tier", Value: "General"},
		},
	}
	return b
}
