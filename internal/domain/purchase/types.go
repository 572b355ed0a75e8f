package purchase

// State tags each step of the purchase saga so every transition and
// its preconditions stay auditable.
type State string

const (
	StateInitiated State = "initiated"
	StateReserved  State = "reserved"
	StatePaid      State = "paid"
	StateMinting   State = "minting"
	StateCompleted State = "completed"

	// Failure branches.
	StateReservationDenied State = "reservation_denied"
	StatePaymentFailed     State = "payment_failed"
	// Tickets valid, NFT delivery degraded; never rolled back since
	// payment was already captured.
	StatePartiallyCompleted State = "partially_completed"
)

func (s State) String() string {
	return string(s)
}

func (s State) IsTerminal() bool {
	switch s {
	case StateCompleted, StateReservationDenied, StatePaymentFailed, StatePartiallyCompleted:
		return true
	default:
		return false
	}
}
