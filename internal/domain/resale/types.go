package resale

type Status string

const (
	StatusListed    Status = "listed"
	StatusSold      Status = "sold"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusListed, StatusSold, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

// Terminal states never reopen; further resale needs a new listing.
func (s Status) IsTerminal() bool {
	return s != StatusListed
}
