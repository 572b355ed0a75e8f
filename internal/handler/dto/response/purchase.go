package response

import (
	"stagepass/internal/usecase/commands"
	"stagepass/internal/usecase/queries"

	"github.com/google/uuid"
)

type PurchaseResponse struct {
	Purchase *queries.PurchaseView `json:"purchase"`
	// MintRequestIDs identify in-flight collectible mints; delivery is
	// asynchronous and never blocks the purchase response.
	MintRequestIDs []uuid.UUID `json:"mint_request_ids,omitempty"`
}

func FromPurchaseResult(res *commands.PurchaseResult) *PurchaseResponse {
	return &PurchaseResponse{
		Purchase:       res.Purchase,
		MintRequestIDs: res.MintRequestIDs,
	}
}
