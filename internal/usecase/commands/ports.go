package commands

import (
	"context"

	"stagepass/internal/infra"

	"github.com/google/uuid"
)

// CaptureResult is the gateway's acknowledgement of a captured charge.
type CaptureResult struct {
	TransactionRef string
}

// PaymentGateway is the external settlement collaborator. Capture
// either succeeds with a transaction reference or fails with
// errs.ErrInsufficientFunds / errs.ErrGatewayFailure; timeouts follow
// the failure path so the caller's compensation always runs.
type PaymentGateway interface {
	Capture(ctx context.Context, wallet string, amountCents int64, currency string) (CaptureResult, error)
}

// AvailabilityPublisher pushes inventory changes for interested
// consumers (the excluded UI layer subscribes to these).
type AvailabilityPublisher interface {
	PublishAvailability(ctx context.Context, ticketTypeID uuid.UUID, available int) error
}

func infraNotFound(err error) bool {
	return infra.IsKind(err, infra.KindNotFound)
}

func infraConflict(err error) bool {
	return infra.IsKind(err, infra.KindConflict)
}
