package queries

import (
	"time"

	"stagepass/internal/domain/event"
	"stagepass/internal/domain/purchase"
	"stagepass/internal/domain/resale"
	"stagepass/internal/domain/ticket"

	"github.com/google/uuid"
)

// EventView represents read-optimized event data with its ticket types
type EventView struct {
	ID              uuid.UUID        `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	OrganizerWallet string           `json:"organizer_wallet"`
	Venue           VenueView        `json:"venue"`
	Category        string           `json:"category"`
	Status          string           `json:"status"`
	EventDate       time.Time        `json:"event_date"`
	DoorTime        time.Time        `json:"door_time"`
	TicketTypes     []TicketTypeView `json:"ticket_types"`
}

type VenueView struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Capacity int    `json:"capacity"`
}

type TicketTypeView struct {
	ID            uuid.UUID  `json:"id"`
	EventID       uuid.UUID  `json:"event_id"`
	Name          string     `json:"name"`
	PriceCents    int64      `json:"price_cents"`
	Currency      string     `json:"currency"`
	TotalQuantity int        `json:"total_quantity"`
	Available     int        `json:"available"`
	SoldCount     int        `json:"sold_count"`
	SalesStart    time.Time  `json:"sales_start"`
	SalesEnd      time.Time  `json:"sales_end"`
	HasNFT        bool       `json:"has_nft"`
	Perks         []PerkView `json:"perks,omitempty"`
}

type PerkView struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type TicketView struct {
	ID               uuid.UUID `json:"id"`
	EventID          uuid.UUID `json:"event_id"`
	TicketTypeID     uuid.UUID `json:"ticket_type_id"`
	OwnerWallet      string    `json:"owner_wallet"`
	PriceCents       int64     `json:"price_cents"`
	Currency         string    `json:"currency"`
	PurchasedAt      time.Time `json:"purchased_at"`
	Status           string    `json:"status"`
	MintState        string    `json:"mint_state"`
	NFTTokenID       *string   `json:"nft_token_id,omitempty"`
	QRCode           string    `json:"qr_code"`
	Transferable     bool      `json:"transferable"`
	ResaleAllowed    bool      `json:"resale_allowed"`
	ResaleFloorCents *int64    `json:"resale_floor_cents,omitempty"`
}

type ListingView struct {
	ID           uuid.UUID  `json:"id"`
	TicketID     uuid.UUID  `json:"ticket_id"`
	SellerWallet string     `json:"seller_wallet"`
	AskingCents  int64      `json:"asking_cents"`
	Currency     string     `json:"currency"`
	Status       string     `json:"status"`
	ListedAt     time.Time  `json:"listed_at"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	BuyerWallet  *string    `json:"buyer_wallet,omitempty"`
}

type PurchaseView struct {
	ID           uuid.UUID    `json:"id"`
	BuyerWallet  string       `json:"buyer_wallet"`
	EventID      uuid.UUID    `json:"event_id"`
	TicketTypeID uuid.UUID    `json:"ticket_type_id"`
	Quantity     int          `json:"quantity"`
	TotalCents   int64        `json:"total_cents"`
	Currency     string       `json:"currency"`
	State        string       `json:"state"`
	Tickets      []TicketView `json:"tickets"`
	PaymentRef   *string      `json:"payment_ref,omitempty"`
	DenialReason *string      `json:"denial_reason,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

func ToTicketView(t *ticket.Ticket) TicketView {
	return TicketView{
		ID:               t.ID(),
		EventID:          t.EventID(),
		TicketTypeID:     t.TicketTypeID(),
		OwnerWallet:      t.OwnerWallet(),
		PriceCents:       t.PurchasePrice().AmountCents(),
		Currency:         t.PurchasePrice().Currency(),
		PurchasedAt:      t.PurchasedAt(),
		Status:           t.Status().String(),
		MintState:        string(t.MintState()),
		NFTTokenID:       t.NFTTokenID(),
		QRCode:           t.QRCode(),
		Transferable:     t.Transferable(),
		ResaleAllowed:    t.ResaleAllowed(),
		ResaleFloorCents: t.ResaleFloorCents(),
	}
}

func ToTicketTypeView(tt *event.TicketType) TicketTypeView {
	perks := make([]PerkView, 0, len(tt.Perks()))
	for _, p := range tt.Perks() {
		perks = append(perks, PerkView{
			Name:        p.Name,
			Description: p.Description,
			Category:    string(p.Category),
		})
	}
	return TicketTypeView{
		ID:            tt.ID(),
		EventID:       tt.EventID(),
		Name:          tt.Name(),
		PriceCents:    tt.Price().AmountCents(),
		Currency:      tt.Price().Currency(),
		TotalQuantity: tt.TotalQuantity(),
		Available:     tt.Available(),
		SoldCount:     tt.SoldCount(),
		SalesStart:    tt.SalesWindow().Start(),
		SalesEnd:      tt.SalesWindow().End(),
		HasNFT:        tt.HasNFT(),
		Perks:         perks,
	}
}

func ToEventView(ev *event.Event, types []*event.TicketType) *EventView {
	typeViews := make([]TicketTypeView, 0, len(types))
	for _, tt := range types {
		typeViews = append(typeViews, ToTicketTypeView(tt))
	}
	return &EventView{
		ID:              ev.ID(),
		Title:           ev.Title(),
		Description:     ev.Description(),
		OrganizerWallet: ev.OrganizerWallet(),
		Venue: VenueView{
			Name:     ev.Venue().Name,
			Address:  ev.Venue().Address,
			City:     ev.Venue().City,
			Country:  ev.Venue().Country,
			Capacity: ev.Venue().Capacity,
		},
		Category:    string(ev.Category()),
		Status:      ev.Status().String(),
		EventDate:   ev.EventDate(),
		DoorTime:    ev.DoorTime(),
		TicketTypes: typeViews,
	}
}

func ToListingView(l *resale.Listing) *ListingView {
	return &ListingView{
		ID:           l.ID(),
		TicketID:     l.TicketID(),
		SellerWallet: l.SellerWallet(),
		AskingCents:  l.AskingPrice().AmountCents(),
		Currency:     l.AskingPrice().Currency(),
		Status:       l.Status().String(),
		ListedAt:     l.ListedAt(),
		ExpiresAt:    l.ExpiresAt(),
		BuyerWallet:  l.BuyerWallet(),
	}
}

func ToPurchaseView(rec *purchase.Record, tickets []TicketView) *PurchaseView {
	return &PurchaseView{
		ID:           rec.ID(),
		BuyerWallet:  rec.BuyerWallet(),
		EventID:      rec.EventID(),
		TicketTypeID: rec.TicketTypeID(),
		Quantity:     rec.Quantity(),
		TotalCents:   rec.TotalPrice().AmountCents(),
		Currency:     rec.TotalPrice().Currency(),
		State:        rec.State().String(),
		Tickets:      tickets,
		PaymentRef:   rec.PaymentRef(),
		DenialReason: rec.DenialReason(),
		CreatedAt:    rec.CreatedAt(),
	}
}
