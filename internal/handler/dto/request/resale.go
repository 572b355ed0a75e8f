package request

import (
	"time"

	"github.com/google/uuid"
)

type CreateListingRequest struct {
	TicketID         uuid.UUID  `json:"ticket_id" binding:"required"`
	SellerWallet     string     `json:"seller_wallet" binding:"required"`
	AskingPriceCents int64      `json:"asking_price_cents" binding:"required"`
	Currency         string     `json:"currency" binding:"required"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
}

type PurchaseListingRequest struct {
	BuyerWallet string `json:"buyer_wallet" binding:"required"`
	Currency    string `json:"currency" binding:"required"`
}

type CancelListingRequest struct {
	SellerWallet string `json:"seller_wallet" binding:"required"`
}
