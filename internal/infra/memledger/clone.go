package memledger

import (
	"stagepass/internal/domain/event"
	"stagepass/internal/domain/purchase"
	"stagepass/internal/domain/resale"
	"stagepass/internal/domain/ticket"

	"github.com/google/uuid"
)

// Deep copies keep stored state private to the mutex.

func cloneEvent(ev *event.Event) *event.Event {
	return event.ReconstructEvent(
		ev.ID(),
		ev.Title(), ev.Description(), ev.OrganizerWallet(),
		ev.Venue(),
		ev.Category(),
		ev.Status(),
		ev.EventDate(), ev.DoorTime(),
		ev.CreatedAt(), ev.UpdatedAt(),
	)
}

func cloneTicketType(tt *event.TicketType) *event.TicketType {
	perks := make([]event.Perk, len(tt.Perks()))
	copy(perks, tt.Perks())

	var nft *event.NFTMetadata
	if meta := tt.NFTMetadata(); meta != nil {
		cp := *meta
		cp.Attributes = make([]event.NFTAttribute, len(meta.Attributes))
		copy(cp.Attributes, meta.Attributes)
		nft = &cp
	}

	return event.ReconstructTicketType(
		tt.ID(), tt.EventID(),
		tt.Name(),
		tt.Price(),
		tt.TotalQuantity(), tt.ReservedCount(), tt.SoldCount(),
		tt.SalesWindow(),
		clonePtr(tt.HoldTTL()),
		perks,
		nft,
	)
}

func cloneTicket(t *ticket.Ticket) *ticket.Ticket {
	return ticket.ReconstructTicket(
		t.ID(), t.EventID(), t.TicketTypeID(),
		t.OwnerWallet(),
		t.PurchasePrice(),
		t.PurchasedAt(),
		t.Status(),
		t.MintState(),
		clonePtr(t.NFTTokenID()),
		t.QRCode(),
		t.Transferable(), t.ResaleAllowed(),
		clonePtr(t.ResaleFloorCents()),
		t.UpdatedAt(),
	)
}

func cloneListing(l *resale.Listing) *resale.Listing {
	return resale.ReconstructListing(
		l.ID(), l.TicketID(),
		l.SellerWallet(),
		l.AskingPrice(),
		l.Status(),
		l.ListedAt(),
		clonePtr(l.ExpiresAt()),
		clonePtr(l.BuyerWallet()),
		l.UpdatedAt(),
	)
}

func cloneRecord(rec *purchase.Record) *purchase.Record {
	ticketIDs := make([]uuid.UUID, len(rec.TicketIDs()))
	copy(ticketIDs, rec.TicketIDs())

	return purchase.ReconstructRecord(
		rec.ID(),
		rec.BuyerWallet(),
		rec.EventID(), rec.TicketTypeID(),
		rec.Quantity(),
		rec.TotalPrice(),
		rec.State(),
		ticketIDs,
		clonePtr(rec.PaymentRef()), clonePtr(rec.DenialReason()),
		rec.CreatedAt(), rec.UpdatedAt(),
	)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
