package pgledger

import (
	"context"
	"time"

	"stagepass/internal/domain/event"
	"stagepass/internal/domain/purchase"
	"stagepass/internal/infra"

	"github.com/google/uuid"
)

const purchaseColumns = `id, buyer_wallet, event_id, ticket_type_id, quantity, total_price_cents, currency, state, ticket_ids, payment_ref, denial_reason, created_at, updated_at`

func (s *Store) CreatePurchase(ctx context.Context, rec *purchase.Record) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO purchases (id, buyer_wallet, event_id, ticket_type_id, quantity, total_price_cents, currency, state, ticket_ids, payment_ref, denial_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		rec.ID(), rec.BuyerWallet(), rec.EventID(), rec.TicketTypeID(),
		rec.Quantity(), rec.TotalPrice().AmountCents(), rec.TotalPrice().Currency(),
		rec.State().String(), rec.TicketIDs(), rec.PaymentRef(), rec.DenialReason(),
		rec.CreatedAt(), rec.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr(infra.KindConflict, "purchase already exists", err)
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to create purchase", err)
	}
	return nil
}

func (s *Store) UpdatePurchase(ctx context.Context, rec *purchase.Record) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE purchases
		SET state = $2, ticket_ids = $3, payment_ref = $4, denial_reason = $5, updated_at = $6
		WHERE id = $1`,
		rec.ID(), rec.State().String(), rec.TicketIDs(),
		rec.PaymentRef(), rec.DenialReason(), rec.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to update purchase", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "purchase not found")
	}
	return nil
}

func (s *Store) PurchaseByID(ctx context.Context, id uuid.UUID) (*purchase.Record, error) {
	var (
		buyerWallet, currency   string
		eventID, ticketTypeID   uuid.UUID
		quantity                int
		totalPriceCents         int64
		state                   string
		ticketIDs               []uuid.UUID
		paymentRef, denial      *string
		createdAt, updatedAt    time.Time
	)
	err := s.pool.QueryRow(ctx,
		`SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id,
	).Scan(&id, &buyerWallet, &eventID, &ticketTypeID, &quantity,
		&totalPriceCents, &currency, &state, &ticketIDs,
		&paymentRef, &denial, &createdAt, &updatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "purchase not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find purchase by ID", err)
	}

	total, err := event.NewMoney(totalPriceCents, currency)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to decode purchase price", err)
	}
	return purchase.ReconstructRecord(
		id, buyerWallet, eventID, ticketTypeID, quantity, total,
		purchase.State(state), ticketIDs, paymentRef, denial,
		createdAt, updatedAt,
	), nil
}
