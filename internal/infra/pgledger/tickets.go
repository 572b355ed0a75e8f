package pgledger

import (
	"context"
	"time"

	"stagepass/internal/domain/event"
	"stagepass/internal/domain/ticket"
	"stagepass/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const ticketColumns = `id, event_id, ticket_type_id, owner_wallet, price_cents, currency, purchased_at, status, mint_state, nft_token_id, qr_code, transferable, resale_allowed, resale_floor_cents, updated_at`

func (s *Store) CreateTickets(ctx context.Context, tickets []*ticket.Ticket) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		for _, t := range tickets {
			_, err := tx.Exec(ctx, `
				INSERT INTO tickets (id, event_id, ticket_type_id, owner_wallet, price_cents, currency, purchased_at, status, mint_state, nft_token_id, qr_code, transferable, resale_allowed, resale_floor_cents, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
				t.ID(), t.EventID(), t.TicketTypeID(), t.OwnerWallet(),
				t.PurchasePrice().AmountCents(), t.PurchasePrice().Currency(),
				t.PurchasedAt(), string(t.Status()), string(t.MintState()),
				t.NFTTokenID(), t.QRCode(), t.Transferable(), t.ResaleAllowed(),
				t.ResaleFloorCents(), t.UpdatedAt(),
			)
			if err != nil {
				if isUniqueViolation(err) {
					return infra.WrapRepoErr(infra.KindConflict, "ticket already exists", err)
				}
				return infra.WrapRepoErr(infra.KindDBFailure, "failed to create ticket", err)
			}
		}
		return nil
	})
}

func (s *Store) TicketByID(ctx context.Context, id uuid.UUID) (*ticket.Ticket, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id)
	t, err := scanTicket(row)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "ticket not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find ticket by ID", err)
	}
	return t, nil
}

func (s *Store) TicketsByOwner(ctx context.Context, ownerWallet string) ([]*ticket.Ticket, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE owner_wallet = $1 ORDER BY purchased_at`, ownerWallet)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list tickets by owner", err)
	}
	defer rows.Close()

	var out []*ticket.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan ticket", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list tickets by owner", err)
	}
	return out, nil
}

func (s *Store) UpdateTicket(ctx context.Context, t *ticket.Ticket) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE tickets
		SET owner_wallet = $2, status = $3, mint_state = $4, nft_token_id = $5,
		    transferable = $6, resale_allowed = $7, resale_floor_cents = $8, updated_at = $9
		WHERE id = $1`,
		t.ID(), t.OwnerWallet(), string(t.Status()), string(t.MintState()),
		t.NFTTokenID(), t.Transferable(), t.ResaleAllowed(),
		t.ResaleFloorCents(), t.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to update ticket", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "ticket not found")
	}
	return nil
}

func scanTicket(row rowScanner) (*ticket.Ticket, error) {
	var (
		id, eventID, ticketTypeID uuid.UUID
		ownerWallet, currency     string
		priceCents                int64
		purchasedAt, updatedAt    time.Time
		status, mintState         string
		nftTokenID                *string
		qrCode                    string
		transferable              bool
		resaleAllowed             bool
		resaleFloorCents          *int64
	)
	if err := row.Scan(&id, &eventID, &ticketTypeID, &ownerWallet,
		&priceCents, &currency, &purchasedAt, &status, &mintState,
		&nftTokenID, &qrCode, &transferable, &resaleAllowed,
		&resaleFloorCents, &updatedAt); err != nil {
		return nil, err
	}

	price, err := event.NewMoney(priceCents, currency)
	if err != nil {
		return nil, err
	}
	return ticket.ReconstructTicket(
		id, eventID, ticketTypeID, ownerWallet, price, purchasedAt,
		ticket.Status(status), ticket.MintState(mintState),
		nftTokenID, qrCode, transferable, resaleAllowed,
		resaleFloorCents, updatedAt,
	), nil
}
