package request

import (
	"time"

	"stagepass/internal/domain/event"
	"stagepass/internal/ledger"
	"stagepass/internal/usecase/commands"
)

type VenueRequest struct {
	Name     string `json:"name" binding:"required"`
	Address  string `json:"address"`
	City     string `json:"city" binding:"required"`
	Country  string `json:"country"`
	Capacity int    `json:"capacity"`
}

type PerkRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required"`
}

type NFTAttributeRequest struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

type NFTMetadataRequest struct {
	Name         string                `json:"name" binding:"required"`
	Description  string                `json:"description"`
	Image        string                `json:"image"`
	AnimationURL *string               `json:"animation_url,omitempty"`
	ExternalURL  *string               `json:"external_url,omitempty"`
	Attributes   []NFTAttributeRequest `json:"attributes,omitempty"`
}

type TicketTypeRequest struct {
	Name              string              `json:"name" binding:"required"`
	PriceCents        int64               `json:"price_cents"`
	Currency          string              `json:"currency" binding:"required"`
	TotalQuantity     int                 `json:"total_quantity" binding:"required"`
	SalesStart        time.Time           `json:"sales_start" binding:"required"`
	SalesEnd          time.Time           `json:"sales_end" binding:"required"`
	HoldTTLSeconds    *int64              `json:"hold_ttl_seconds,omitempty"`
	Perks             []PerkRequest       `json:"perks,omitempty"`
	NFTMetadata       *NFTMetadataRequest `json:"nft_metadata,omitempty"`
}

type CreateEventRequest struct {
	Title           string              `json:"title" binding:"required"`
	Description     string              `json:"description"`
	OrganizerWallet string              `json:"organizer_wallet" binding:"required"`
	Venue           VenueRequest        `json:"venue" binding:"required"`
	Category        string              `json:"category" binding:"required"`
	EventDate       time.Time           `json:"event_date" binding:"required"`
	DoorTime        time.Time           `json:"door_time" binding:"required"`
	TicketTypes     []TicketTypeRequest `json:"ticket_types" binding:"required"`
}

func (r CreateEventRequest) ToParams() commands.CreateEventParams {
	types := make([]commands.TicketTypeParams, 0, len(r.TicketTypes))
	for _, tt := range r.TicketTypes {
		var holdTTL *time.Duration
		if tt.HoldTTLSeconds != nil {
			d := time.Duration(*tt.HoldTTLSeconds) * time.Second
			holdTTL = &d
		}
		perks := make([]event.Perk, 0, len(tt.Perks))
		for _, p := range tt.Perks {
			perks = append(perks, event.Perk{
				Name:        p.Name,
				Description: p.Description,
				Category:    event.PerkCategory(p.Category),
			})
		}
		var nftMetadata *event.NFTMetadata
		if tt.NFTMetadata != nil {
			attrs := make([]event.NFTAttribute, 0, len(tt.NFTMetadata.Attributes))
			for _, a := range tt.NFTMetadata.Attributes {
				attrs = append(attrs, event.NFTAttribute{TraitType: a.TraitType, Value: a.Value})
			}
			nftMetadata = &event.NFTMetadata{
				Name:         tt.NFTMetadata.Name,
				Description:  tt.NFTMetadata.Description,
				Image:        tt.NFTMetadata.Image,
				AnimationURL: tt.NFTMetadata.AnimationURL,
				ExternalURL:  tt.NFTMetadata.ExternalURL,
				Attributes:   attrs,
			}
		}
		types = append(types, commands.TicketTypeParams{
			Name:          tt.Name,
			PriceCents:    tt.PriceCents,
			Currency:      tt.Currency,
			TotalQuantity: tt.TotalQuantity,
			SalesStart:    tt.SalesStart,
			SalesEnd:      tt.SalesEnd,
			HoldTTL:       holdTTL,
			Perks:         perks,
			NFTMetadata:   nftMetadata,
		})
	}

	return commands.CreateEventParams{
		Title:           r.Title,
		Description:     r.Description,
		OrganizerWallet: r.OrganizerWallet,
		Venue: event.Venue{
			Name:     r.Venue.Name,
			Address:  r.Venue.Address,
			City:     r.Venue.City,
			Country:  r.Venue.Country,
			Capacity: r.Venue.Capacity,
		},
		Category:    event.Category(r.Category),
		EventDate:   r.EventDate,
		DoorTime:    r.DoorTime,
		TicketTypes: types,
	}
}

// ListEventsQuery binds the catalog filter's optional fields from the
// query string.
type ListEventsQuery struct {
	Category      *string    `form:"category"`
	City          *string    `form:"city"`
	MinPriceCents *int64     `form:"min_price_cents"`
	MaxPriceCents *int64     `form:"max_price_cents"`
	From          *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To            *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	NFTOnly       bool       `form:"nft_only"`
	OnSaleNow     bool       `form:"on_sale"`
}

func (q ListEventsQuery) ToFilter(now time.Time) ledger.EventFilter {
	filter := ledger.EventFilter{
		City:          q.City,
		MinPriceCents: q.MinPriceCents,
		MaxPriceCents: q.MaxPriceCents,
		From:          q.From,
		To:            q.To,
		NFTOnly:       q.NFTOnly,
	}
	if q.Category != nil {
		cat := event.Category(*q.Category)
		filter.Category = &cat
	}
	if q.OnSaleNow {
		filter.OnSaleAt = &now
	}
	return filter
}
