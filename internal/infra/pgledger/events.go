package pgledger

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"stagepass/internal/domain/event"
	"stagepass/internal/infra"
	"stagepass/internal/ledger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const eventColumns = `id, title, description, organizer_wallet, venue, category, status, event_date, door_time, created_at, updated_at`

const ticketTypeColumns = `id, event_id, name, price_cents, currency, total_quantity, reserved_count, sold_count, sales_start, sales_end, hold_ttl_seconds, perks, nft_metadata`

func (s *Store) CreateEvent(ctx context.Context, ev *event.Event, types []*event.TicketType) error {
	venueJSON, err := json.Marshal(ev.Venue())
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to encode venue", err)
	}

	return s.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO events (id, title, description, organizer_wallet, venue, category, status, event_date, door_time, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			ev.ID(), ev.Title(), ev.Description(), ev.OrganizerWallet(), venueJSON,
			string(ev.Category()), string(ev.Status()), ev.EventDate(), ev.DoorTime(),
			ev.CreatedAt(), ev.UpdatedAt(),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return infra.WrapRepoErr(infra.KindConflict, "event already exists", err)
			}
			return infra.WrapRepoErr(infra.KindDBFailure, "failed to create event", err)
		}

		for _, tt := range types {
			perksJSON, err := json.Marshal(tt.Perks())
			if err != nil {
				return infra.WrapRepoErr(infra.KindDBFailure, "failed to encode perks", err)
			}
			var nftJSON []byte
			if tt.NFTMetadata() != nil {
				nftJSON, err = json.Marshal(tt.NFTMetadata())
				if err != nil {
					return infra.WrapRepoErr(infra.KindDBFailure, "failed to encode nft metadata", err)
				}
			}
			var ttlSeconds *int64
			if ttl := tt.HoldTTL(); ttl != nil {
				v := int64(ttl.Seconds())
				ttlSeconds = &v
			}

			_, err = tx.Exec(ctx, `
				INSERT INTO ticket_types (id, event_id, name, price_cents, currency, total_quantity, reserved_count, sold_count, sales_start, sales_end, hold_ttl_seconds, perks, nft_metadata)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
				tt.ID(), tt.EventID(), tt.Name(),
				tt.Price().AmountCents(), tt.Price().Currency(),
				tt.TotalQuantity(), tt.ReservedCount(), tt.SoldCount(),
				tt.SalesWindow().Start(), tt.SalesWindow().End(),
				ttlSeconds, perksJSON, nftJSON,
			)
			if err != nil {
				return infra.WrapRepoErr(infra.KindDBFailure, "failed to create ticket type", err)
			}
		}
		return nil
	})
}

func (s *Store) EventByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	ev, err := scanEvent(row)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "event not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find event by ID", err)
	}
	return ev, nil
}

// ListEvents builds the WHERE clause from the filter's present fields.
// Ticket-type level criteria (price bounds, NFT, sales window) match
// an event when any of its types qualifies.
func (s *Store) ListEvents(ctx context.Context, filter ledger.EventFilter) ([]*event.Event, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Category != nil {
		conds = append(conds, "e.category = "+arg(string(*filter.Category)))
	}
	if filter.City != nil {
		conds = append(conds, "e.venue->>'City' = "+arg(*filter.City))
	}
	if filter.From != nil {
		conds = append(conds, "e.event_date >= "+arg(*filter.From))
	}
	if filter.To != nil {
		conds = append(conds, "e.event_date <= "+arg(*filter.To))
	}

	var typeConds []string
	if filter.MinPriceCents != nil {
		typeConds = append(typeConds, "tt.price_cents >= "+arg(*filter.MinPriceCents))
	}
	if filter.MaxPriceCents != nil {
		typeConds = append(typeConds, "tt.price_cents <= "+arg(*filter.MaxPriceCents))
	}
	if filter.NFTOnly {
		typeConds = append(typeConds, "tt.nft_metadata IS NOT NULL")
	}
	if filter.OnSaleAt != nil {
		p := arg(*filter.OnSaleAt)
		typeConds = append(typeConds, "tt.sales_start <= "+p+" AND tt.sales_end > "+p)
	}
	if len(typeConds) > 0 {
		conds = append(conds, "EXISTS (SELECT 1 FROM ticket_types tt WHERE tt.event_id = e.id AND "+strings.Join(typeConds, " AND ")+")")
	}

	query := `SELECT e.id, e.title, e.description, e.organizer_wallet, e.venue, e.category, e.status, e.event_date, e.door_time, e.created_at, e.updated_at FROM events e`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY e.event_date"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list events", err)
	}
	defer rows.Close()

	var out []*event.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan event", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list events", err)
	}
	return out, nil
}

func (s *Store) TicketTypeByID(ctx context.Context, id uuid.UUID) (*event.TicketType, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+ticketTypeColumns+` FROM ticket_types WHERE id = $1`, id)
	tt, err := scanTicketType(row)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "ticket type not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find ticket type by ID", err)
	}
	return tt, nil
}

func (s *Store) TicketTypesByEvent(ctx context.Context, eventID uuid.UUID) ([]*event.TicketType, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+ticketTypeColumns+` FROM ticket_types WHERE event_id = $1 ORDER BY price_cents`, eventID)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list ticket types", err)
	}
	defer rows.Close()

	var out []*event.TicketType
	for rows.Next() {
		tt, err := scanTicketType(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan ticket type", err)
		}
		out = append(out, tt)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list ticket types", err)
	}
	return out, nil
}

// CompareAndSwapCounters is a single guarded UPDATE; the row either
// matches the expected counters and satisfies conservation, or nothing
// happens. A zero-row result is disambiguated with a follow-up read.
func (s *Store) CompareAndSwapCounters(ctx context.Context, ticketTypeID uuid.UUID, expectedSold, expectedReserved, soldDelta, reservedDelta int) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE ticket_types
		SET sold_count = sold_count + $4, reserved_count = reserved_count + $5
		WHERE id = $1
		  AND sold_count = $2 AND reserved_count = $3
		  AND sold_count + $4 >= 0 AND reserved_count + $5 >= 0
		  AND sold_count + $4 + reserved_count + $5 <= total_quantity`,
		ticketTypeID, expectedSold, expectedReserved, soldDelta, reservedDelta,
	)
	if err != nil {
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to swap counters", err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	var sold, reserved int
	err = s.pool.QueryRow(ctx,
		`SELECT sold_count, reserved_count FROM ticket_types WHERE id = $1`, ticketTypeID,
	).Scan(&sold, &reserved)
	if err != nil {
		if isNoRows(err) {
			return false, infra.WrapRepoErr(infra.KindNotFound, "ticket type not found", err)
		}
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to read counters", err)
	}
	if sold == expectedSold && reserved == expectedReserved {
		// Counters matched, so the conservation guard blocked the delta.
		return false, infra.NewRepoErr(infra.KindConflict, "counter delta rejected")
	}
	return false, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*event.Event, error) {
	var (
		id                                  uuid.UUID
		title, description, organizerWallet string
		venueJSON                           []byte
		category, status                    string
		eventDate, doorTime                 time.Time
		createdAt, updatedAt                time.Time
	)
	if err := row.Scan(&id, &title, &description, &organizerWallet, &venueJSON,
		&category, &status, &eventDate, &doorTime, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var venue event.Venue
	if err := json.Unmarshal(venueJSON, &venue); err != nil {
		return nil, err
	}
	return event.ReconstructEvent(
		id, title, description, organizerWallet, venue,
		event.Category(category), event.Status(status),
		eventDate, doorTime, createdAt, updatedAt,
	), nil
}

func scanTicketType(row rowScanner) (*event.TicketType, error) {
	var (
		id, eventID                              uuid.UUID
		name, currency                           string
		priceCents                               int64
		totalQuantity, reservedCount, soldCount  int
		salesStart, salesEnd                     time.Time
		ttlSeconds                               *int64
		perksJSON, nftJSON                       []byte
	)
	if err := row.Scan(&id, &eventID, &name, &priceCents, &currency,
		&totalQuantity, &reservedCount, &soldCount,
		&salesStart, &salesEnd, &ttlSeconds, &perksJSON, &nftJSON); err != nil {
		return nil, err
	}

	price, err := event.NewMoney(priceCents, currency)
	if err != nil {
		return nil, err
	}
	window, err := event.NewSalesWindow(salesStart, salesEnd)
	if err != nil {
		return nil, err
	}

	var perks []event.Perk
	if len(perksJSON) > 0 {
		if err := json.Unmarshal(perksJSON, &perks); err != nil {
			return nil, err
		}
	}
	var nftMetadata *event.NFTMetadata
	if len(nftJSON) > 0 {
		nftMetadata = &event.NFTMetadata{}
		if err := json.Unmarshal(nftJSON, nftMetadata); err != nil {
			return nil, err
		}
	}
	var holdTTL *time.Duration
	if ttlSeconds != nil {
		d := time.Duration(*ttlSeconds) * time.Second
		holdTTL = &d
	}

	return event.ReconstructTicketType(
		id, eventID, name, price,
		totalQuantity, reservedCount, soldCount,
		window, holdTTL, perks, nftMetadata,
	), nil
}
