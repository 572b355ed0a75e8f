package errs

import "errors"

// Domain-specific sentinel errors shared across usecase layers
var (
	// Catalog errors
	ErrEventNotFound      = errors.New("event not found")
	ErrTicketTypeNotFound = errors.New("ticket type not found")

	// Inventory errors
	ErrSoldOut           = errors.New("sold out")
	ErrSalesWindowClosed = errors.New("sales window closed")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrContended         = errors.New("inventory contended")

	// Reservation errors
	ErrReservationNotFound = errors.New("reservation not found")
	ErrReservationExpired  = errors.New("reservation expired")

	// Ticket errors
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrNotOwner        = errors.New("not ticket owner")
	ErrNotTransferable = errors.New("ticket not transferable")

	// Resale errors
	ErrAlreadyListed  = errors.New("ticket already listed")
	ErrNotListed      = errors.New("listing not available")
	ErrListingExpired = errors.New("listing expired")

	// Payment errors
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrGatewayFailure    = errors.New("payment gateway failure")

	// Purchase errors
	ErrPurchaseNotFound = errors.New("purchase not found")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrStoreOperationFailed = errors.New("ledger store operation failed")
)
