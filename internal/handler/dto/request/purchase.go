package request

import (
	"github.com/google/uuid"
)

type PurchaseTicketsRequest struct {
	BuyerWallet  string    `json:"buyer_wallet" binding:"required"`
	EventID      uuid.UUID `json:"event_id" binding:"required"`
	TicketTypeID uuid.UUID `json:"ticket_type_id" binding:"required"`
	Quantity     int       `json:"quantity" binding:"required"`
	Currency     string    `json:"currency" binding:"required"`
}

type TransferTicketRequest struct {
	FromWallet string `json:"from_wallet" binding:"required"`
	ToWallet   string `json:"to_wallet" binding:"required"`
}

type RefundTicketRequest struct {
	OwnerWallet string `json:"owner_wallet" binding:"required"`
}

type RedeemTicketRequest struct {
	OwnerWallet string `json:"owner_wallet" binding:"required"`
}
