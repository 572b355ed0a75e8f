package pgledger

import (
	"context"
	"time"

	"stagepass/internal/domain/event"
	"stagepass/internal/domain/resale"
	"stagepass/internal/domain/ticket"
	"stagepass/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const listingColumns = `id, ticket_id, seller_wallet, asking_price_cents, currency, status, listed_at, expires_at, buyer_wallet, updated_at`

// CreateListing claims the ticket and inserts the listing in one
// transaction. The guarded ticket UPDATE takes the claim; a partial
// unique index on (ticket_id) WHERE status = 'listed' backstops the
// one-live-listing rule.
func (s *Store) CreateListing(ctx context.Context, l *resale.Listing) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE tickets SET status = $2, updated_at = $3
			WHERE id = $1 AND status = $4 AND resale_allowed`,
			l.TicketID(), string(ticket.StatusListed), s.clock.Now(), string(ticket.StatusActive),
		)
		if err != nil {
			return infra.WrapRepoErr(infra.KindDBFailure, "failed to claim ticket for listing", err)
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM tickets WHERE id = $1)`, l.TicketID(),
			).Scan(&exists); err != nil {
				return infra.WrapRepoErr(infra.KindDBFailure, "failed to check ticket", err)
			}
			if !exists {
				return infra.NewRepoErr(infra.KindNotFound, "ticket not found")
			}
			return infra.NewRepoErr(infra.KindConflict, "ticket cannot be listed")
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO resale_listings (id, ticket_id, seller_wallet, asking_price_cents, currency, status, listed_at, expires_at, buyer_wallet, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			l.ID(), l.TicketID(), l.SellerWallet(),
			l.AskingPrice().AmountCents(), l.AskingPrice().Currency(),
			string(l.Status()), l.ListedAt(), l.ExpiresAt(), l.BuyerWallet(), l.UpdatedAt(),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return infra.WrapRepoErr(infra.KindConflict, "ticket already has a live listing", err)
			}
			return infra.WrapRepoErr(infra.KindDBFailure, "failed to create listing", err)
		}
		return nil
	})
}

func (s *Store) ListingByID(ctx context.Context, id uuid.UUID) (*resale.Listing, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+listingColumns+` FROM resale_listings WHERE id = $1`, id)
	l, err := scanListing(row)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "listing not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find listing by ID", err)
	}
	return l, nil
}

func (s *Store) OpenListings(ctx context.Context) ([]*resale.Listing, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+listingColumns+` FROM resale_listings WHERE status = $1 ORDER BY listed_at`,
		string(resale.StatusListed))
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list open listings", err)
	}
	defer rows.Close()

	var out []*resale.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan listing", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list open listings", err)
	}
	return out, nil
}

func (s *Store) OpenListingByTicket(ctx context.Context, ticketID uuid.UUID) (*resale.Listing, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+listingColumns+` FROM resale_listings WHERE ticket_id = $1 AND status = $2`,
		ticketID, string(resale.StatusListed))
	l, err := scanListing(row)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "no open listing for ticket", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find open listing", err)
	}
	return l, nil
}

// SettleListing flips the listing to Sold and transfers the ticket in
// one transaction; the guarded UPDATE on the listing decides the race.
func (s *Store) SettleListing(ctx context.Context, listingID uuid.UUID, buyerWallet string) (*ticket.Ticket, error) {
	var settled *ticket.Ticket
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		now := s.clock.Now()

		var ticketID uuid.UUID
		err := tx.QueryRow(ctx, `
			UPDATE resale_listings SET status = $2, buyer_wallet = $3, updated_at = $4
			WHERE id = $1 AND status = $5
			RETURNING ticket_id`,
			listingID, string(resale.StatusSold), buyerWallet, now, string(resale.StatusListed),
		).Scan(&ticketID)
		if err != nil {
			if isNoRows(err) {
				var exists bool
				if checkErr := tx.QueryRow(ctx,
					`SELECT EXISTS (SELECT 1 FROM resale_listings WHERE id = $1)`, listingID,
				).Scan(&exists); checkErr != nil {
					return infra.WrapRepoErr(infra.KindDBFailure, "failed to check listing", checkErr)
				}
				if !exists {
					return infra.NewRepoErr(infra.KindNotFound, "listing not found")
				}
				return infra.NewRepoErr(infra.KindConflict, "listing not open")
			}
			return infra.WrapRepoErr(infra.KindDBFailure, "failed to settle listing", err)
		}

		row := tx.QueryRow(ctx, `
			UPDATE tickets
			SET owner_wallet = $2, status = $3, resale_floor_cents = NULL, updated_at = $4
			WHERE id = $1 AND status = $5
			RETURNING `+ticketColumns,
			ticketID, buyerWallet, string(ticket.StatusActive), now, string(ticket.StatusListed),
		)
		settled, err = scanTicket(row)
		if err != nil {
			if isNoRows(err) {
				return infra.NewRepoErr(infra.KindConflict, "ticket not claimed by listing")
			}
			return infra.WrapRepoErr(infra.KindDBFailure, "failed to transfer ticket", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return settled, nil
}

func (s *Store) CloseListing(ctx context.Context, listingID uuid.UUID, to resale.Status) error {
	if to != resale.StatusCancelled && to != resale.StatusExpired {
		return infra.NewRepoErr(infra.KindConflict, "unsupported close status")
	}
	return s.inTx(ctx, func(tx pgx.Tx) error {
		return s.closeListingInTx(ctx, tx, listingID, to)
	})
}

func (s *Store) closeListingInTx(ctx context.Context, tx pgx.Tx, listingID uuid.UUID, to resale.Status) error {
	now := s.clock.Now()

	var ticketID uuid.UUID
	err := tx.QueryRow(ctx, `
		UPDATE resale_listings SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4
		RETURNING ticket_id`,
		listingID, string(to), now, string(resale.StatusListed),
	).Scan(&ticketID)
	if err != nil {
		if isNoRows(err) {
			var exists bool
			if checkErr := tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM resale_listings WHERE id = $1)`, listingID,
			).Scan(&exists); checkErr != nil {
				return infra.WrapRepoErr(infra.KindDBFailure, "failed to check listing", checkErr)
			}
			if !exists {
				return infra.NewRepoErr(infra.KindNotFound, "listing not found")
			}
			return infra.NewRepoErr(infra.KindConflict, "listing not open")
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to close listing", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE tickets SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4`,
		ticketID, string(ticket.StatusActive), now, string(ticket.StatusListed),
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to unlist ticket", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindConflict, "ticket not claimed by listing")
	}
	return nil
}

func (s *Store) ExpireListingsDue(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	var expired []uuid.UUID
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT id FROM resale_listings
			WHERE status = $1 AND expires_at IS NOT NULL AND expires_at < $2
			FOR UPDATE SKIP LOCKED`,
			string(resale.StatusListed), now)
		if err != nil {
			return infra.WrapRepoErr(infra.KindDBFailure, "failed to find due listings", err)
		}
		var due []uuid.UUID
		for rows.Next() {
			var id uuid.UUID
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return infra.WrapRepoErr(infra.KindDBFailure, "failed to scan listing ID", err)
			}
			due = append(due, id)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return infra.WrapRepoErr(infra.KindDBFailure, "failed to find due listings", err)
		}

		for _, id := range due {
			if err := s.closeListingInTx(ctx, tx, id, resale.StatusExpired); err != nil {
				return err
			}
			expired = append(expired, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return expired, nil
}

func scanListing(row rowScanner) (*resale.Listing, error) {
	var (
		id, ticketID          uuid.UUID
		sellerWallet          string
		askingPriceCents      int64
		currency, status      string
		listedAt, updatedAt   time.Time
		expiresAt             *time.Time
		buyerWallet           *string
	)
	if err := row.Scan(&id, &ticketID, &sellerWallet, &askingPriceCents, &currency,
		&status, &listedAt, &expiresAt, &buyerWallet, &updatedAt); err != nil {
		return nil, err
	}

	price, err := event.NewMoney(askingPriceCents, currency)
	if err != nil {
		return nil, err
	}
	return resale.ReconstructListing(
		id, ticketID, sellerWallet, price,
		resale.Status(status), listedAt, expiresAt, buyerWallet, updatedAt,
	), nil
}
