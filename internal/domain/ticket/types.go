package ticket

type Status string

const (
	// StatusActive is a valid, usable ticket.
	StatusActive Status = "active"
	// StatusListed marks the ticket claimed by a live resale listing.
	StatusListed Status = "listed"
	// StatusUsed means the ticket was redeemed for entry.
	StatusUsed Status = "used"
	// StatusRefunded frees the ticket's unit of type-level inventory.
	StatusRefunded Status = "refunded"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusListed, StatusUsed, StatusRefunded, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusUsed, StatusRefunded, StatusCancelled:
		return true
	default:
		return false
	}
}

// MintState tracks collectible delivery separately from ticket
// validity; a failed mint never invalidates the ticket.
type MintState string

const (
	MintStateNone    MintState = "none"
	MintStatePending MintState = "pending"
	MintStateMinted  MintState = "minted"
	MintStateFailed  MintState = "failed"
)
