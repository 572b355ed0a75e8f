package purchase

import (
	"errors"
	"time"

	"stagepass/internal/domain/event"

	"github.com/google/uuid"
)

var ErrInvalidTransition = errors.New("invalid purchase state transition")

// Record is the durable trail of one purchase attempt. Clients resolve
// uncertain outcomes (timeouts, dropped connections) by re-reading it.
type Record struct {
	id           uuid.UUID
	buyerWallet  string
	eventID      uuid.UUID
	ticketTypeID uuid.UUID
	quantity     int
	totalPrice   event.Money
	state        State
	ticketIDs    []uuid.UUID
	paymentRef   *string
	denialReason *string
	createdAt    time.Time
	updatedAt    time.Time
}

func NewRecord(
	buyerWallet string,
	eventID, ticketTypeID uuid.UUID,
	quantity int,
	totalPrice event.Money,
	now time.Time,
) *Record {
	return &Record{
		id:           uuid.New(),
		buyerWallet:  buyerWallet,
		eventID:      eventID,
		ticketTypeID: ticketTypeID,
		quantity:     quantity,
		totalPrice:   totalPrice,
		state:        StateInitiated,
		createdAt:    now,
		updatedAt:    now,
	}
}

func ReconstructRecord(
	id uuid.UUID,
	buyerWallet string,
	eventID, ticketTypeID uuid.UUID,
	quantity int,
	totalPrice event.Money,
	state State,
	ticketIDs []uuid.UUID,
	paymentRef, denialReason *string,
	createdAt, updatedAt time.Time,
) *Record {
	return &Record{
		id:           id,
		buyerWallet:  buyerWallet,
		eventID:      eventID,
		ticketTypeID: ticketTypeID,
		quantity:     quantity,
		totalPrice:   totalPrice,
		state:        state,
		ticketIDs:    ticketIDs,
		paymentRef:   paymentRef,
		denialReason: denialReason,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (r *Record) ID() uuid.UUID           { return r.id }
func (r *Record) BuyerWallet() string     { return r.buyerWallet }
func (r *Record) EventID() uuid.UUID      { return r.eventID }
func (r *Record) TicketTypeID() uuid.UUID { return r.ticketTypeID }
func (r *Record) Quantity() int           { return r.quantity }
func (r *Record) TotalPrice() event.Money { return r.totalPrice }
func (r *Record) State() State            { return r.state }
func (r *Record) TicketIDs() []uuid.UUID  { return r.ticketIDs }
func (r *Record) PaymentRef() *string     { return r.paymentRef }
func (r *Record) DenialReason() *string   { return r.denialReason }
func (r *Record) CreatedAt() time.Time    { return r.createdAt }
func (r *Record) UpdatedAt() time.Time    { return r.updatedAt }

func (r *Record) transition(from, to State, now time.Time) error {
	if r.state != from {
		return ErrInvalidTransition
	}
	r.state = to
	r.updatedAt = now
	return nil
}

func (r *Record) MarkReserved(now time.Time) error {
	return r.transition(StateInitiated, StateReserved, now)
}

func (r *Record) MarkPaid(paymentRef string, now time.Time) error {
	if err := r.transition(StateReserved, StatePaid, now); err != nil {
		return err
	}
	r.paymentRef = &paymentRef
	return nil
}

func (r *Record) MarkMinting(ticketIDs []uuid.UUID, now time.Time) error {
	if err := r.transition(StatePaid, StateMinting, now); err != nil {
		return err
	}
	r.ticketIDs = ticketIDs
	return nil
}

func (r *Record) MarkCompleted(ticketIDs []uuid.UUID, now time.Time) error {
	switch r.state {
	case StatePaid, StateMinting:
	default:
		return ErrInvalidTransition
	}
	r.state = StateCompleted
	if ticketIDs != nil {
		r.ticketIDs = ticketIDs
	}
	r.updatedAt = now
	return nil
}

func (r *Record) MarkReservationDenied(reason string, now time.Time) error {
	if err := r.transition(StateInitiated, StateReservationDenied, now); err != nil {
		return err
	}
	r.denialReason = &reason
	return nil
}

func (r *Record) MarkPaymentFailed(reason string, now time.Time) error {
	if err := r.transition(StateReserved, StatePaymentFailed, now); err != nil {
		return err
	}
	r.denialReason = &reason
	return nil
}

// MarkPartiallyCompleted records mint-retry exhaustion after a
// completed purchase.
func (r *Record) MarkPartiallyCompleted(reason string, now time.Time) error {
	switch r.state {
	case StateMinting, StateCompleted:
	default:
		return ErrInvalidTransition
	}
	r.state = StatePartiallyCompleted
	r.denialReason = &reason
	r.updatedAt = now
	return nil
}
