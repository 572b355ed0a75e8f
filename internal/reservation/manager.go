// Package reservation arbitrates inventory. The manager is the sole
// writer of reservedCount and the only component that decides whether
// enough inventory exists right now.
package reservation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"stagepass/internal/ledger"
	"stagepass/internal/pkg/clock"
	"stagepass/internal/pkg/errs"

	"github.com/google/uuid"
)

type holdState int

const (
	stateHeld holdState = iota
	stateCommitting
	stateCommitted
	stateReleasing
	stateReleased
)

// hold is ephemeral; it lives only inside the manager until committed
// or released.
type hold struct {
	id           uuid.UUID
	ticketTypeID uuid.UUID
	quantity     int
	requester    string
	expiresAt    time.Time
	state        holdState
}

type Config struct {
	// DefaultTTL bounds a hold's lifetime when the ticket type has no
	// override.
	DefaultTTL time.Duration
	// RetryBudget bounds the optimistic CAS loop before an operation
	// surfaces Contended.
	RetryBudget int
}

type Manager struct {
	store  ledger.EventStore
	clock  clock.Clock
	logger *slog.Logger
	cfg    Config

	mu    sync.Mutex
	holds map[uuid.UUID]*hold
}

func NewManager(store ledger.EventStore, clk clock.Clock, logger *slog.Logger, cfg Config) *Manager {
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = 5 * time.Minute
	}
	if cfg.RetryBudget <= 0 {
		cfg.RetryBudget = 8
	}
	return &Manager{
		store:  store,
		clock:  clk,
		logger: logger,
		cfg:    cfg,
		holds:  make(map[uuid.UUID]*hold),
	}
}

// Hold claims quantity units of the ticket type for requester until the
// TTL elapses. The availability check and the counter increment form a
// check-then-conditional-update pair: the increment lands only if no
// concurrent writer moved the counters in between, otherwise the loop
// re-reads and re-checks against fresh state.
func (m *Manager) Hold(ctx context.Context, ticketTypeID uuid.UUID, quantity int, requester string, ttl time.Duration) (uuid.UUID, error) {
	if quantity < 1 {
		return uuid.Nil, errs.ErrInvalidQuantity
	}

	for attempt := 0; attempt < m.cfg.RetryBudget; attempt++ {
		tt, err := m.store.TicketTypeByID(ctx, ticketTypeID)
		if err != nil {
			return uuid.Nil, errs.Mark(err, errs.ErrTicketTypeNotFound)
		}

		now := m.clock.Now()
		if !tt.SalesOpenAt(now) {
			return uuid.Nil, errs.ErrSalesWindowClosed
		}
		if tt.Available() < quantity {
			// True exhaustion, not contention: the fresh read shows
			// the inventory cannot cover this hold.
			return uuid.Nil, errs.ErrSoldOut
		}

		swapped, err := m.store.CompareAndSwapCounters(ctx, ticketTypeID, tt.SoldCount(), tt.ReservedCount(), 0, quantity)
		if err != nil {
			return uuid.Nil, errs.Mark(err, errs.ErrStoreOperationFailed)
		}
		if !swapped {
			continue
		}

		h := &hold{
			id:           uuid.New(),
			ticketTypeID: ticketTypeID,
			quantity:     quantity,
			requester:    requester,
			expiresAt:    now.Add(m.holdTTL(tt.HoldTTL(), ttl)),
			state:        stateHeld,
		}
		m.mu.Lock()
		m.holds[h.id] = h
		m.mu.Unlock()
		return h.id, nil
	}

	m.logger.Warn("hold retry budget exhausted",
		"ticket_type_id", ticketTypeID, "quantity", quantity)
	return uuid.Nil, errs.ErrContended
}

// Commit converts the hold into a permanent sale: one conditional
// update moves the held quantity from reserved to sold. Committing an
// already-committed reservation is a no-op.
func (m *Manager) Commit(ctx context.Context, reservationID uuid.UUID) error {
	m.mu.Lock()
	h, ok := m.holds[reservationID]
	if !ok {
		m.mu.Unlock()
		return errs.ErrReservationNotFound
	}
	switch h.state {
	case stateCommitted, stateCommitting:
		m.mu.Unlock()
		return nil
	case stateReleased, stateReleasing:
		m.mu.Unlock()
		return errs.ErrReservationExpired
	}
	h.state = stateCommitting
	m.mu.Unlock()

	if err := m.swapCounters(ctx, h.ticketTypeID, h.quantity, -h.quantity); err != nil {
		m.setState(h, stateHeld)
		return err
	}
	m.setState(h, stateCommitted)
	return nil
}

// Release cancels or expires a hold, returning its quantity to the
// available pool. Safe to repeat; releasing an unknown or already
// settled reservation is a no-op so compensating actions can always
// run again.
func (m *Manager) Release(ctx context.Context, reservationID uuid.UUID) error {
	m.mu.Lock()
	h, ok := m.holds[reservationID]
	if !ok {
		m.mu.Unlock()
		return nil
	}
	switch h.state {
	case stateReleased, stateReleasing, stateCommitted, stateCommitting:
		m.mu.Unlock()
		return nil
	}
	h.state = stateReleasing
	m.mu.Unlock()

	if err := m.swapCounters(ctx, h.ticketTypeID, 0, -h.quantity); err != nil {
		m.setState(h, stateHeld)
		return err
	}
	m.setState(h, stateReleased)
	return nil
}

// ReleaseExpired reclaims inventory from holds whose TTL elapsed
// without a commit. The sweeper calls this periodically.
func (m *Manager) ReleaseExpired(ctx context.Context, now time.Time) int {
	m.mu.Lock()
	var due []uuid.UUID
	for id, h := range m.holds {
		if h.state == stateHeld && now.After(h.expiresAt) {
			due = append(due, id)
		}
	}
	m.mu.Unlock()

	released := 0
	for _, id := range due {
		if err := m.Release(ctx, id); err != nil {
			m.logger.Error("failed to release expired hold",
				"reservation_id", id, "error", err.Error())
			continue
		}
		released++
	}
	return released
}

// ReturnSold hands a sold unit back to the pool; the refund transition
// is the only caller. soldCount never decreases any other way.
func (m *Manager) ReturnSold(ctx context.Context, ticketTypeID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return errs.ErrInvalidQuantity
	}
	return m.swapCounters(ctx, ticketTypeID, -quantity, 0)
}

// Quantity reports the held quantity of a reservation; the purchase
// orchestrator uses it to size the ticket batch.
func (m *Manager) Quantity(reservationID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.holds[reservationID]
	if !ok {
		return 0, errs.ErrReservationNotFound
	}
	return h.quantity, nil
}

func (m *Manager) holdTTL(typeOverride *time.Duration, requested time.Duration) time.Duration {
	if requested > 0 {
		return requested
	}
	if typeOverride != nil && *typeOverride > 0 {
		return *typeOverride
	}
	return m.cfg.DefaultTTL
}

func (m *Manager) setState(h *hold, s holdState) {
	m.mu.Lock()
	h.state = s
	m.mu.Unlock()
}

// swapCounters retries the conditional update against fresh reads
// until it lands or the budget runs out.
func (m *Manager) swapCounters(ctx context.Context, ticketTypeID uuid.UUID, soldDelta, reservedDelta int) error {
	for attempt := 0; attempt < m.cfg.RetryBudget; attempt++ {
		tt, err := m.store.TicketTypeByID(ctx, ticketTypeID)
		if err != nil {
			return errs.Mark(err, errs.ErrStoreOperationFailed)
		}
		swapped, err := m.store.CompareAndSwapCounters(ctx, ticketTypeID, tt.SoldCount(), tt.ReservedCount(), soldDelta, reservedDelta)
		if err != nil {
			return errs.Mark(err, errs.ErrStoreOperationFailed)
		}
		if swapped {
			return nil
		}
	}
	m.logger.Warn("counter swap retry budget exhausted",
		"ticket_type_id", ticketTypeID,
		"sold_delta", soldDelta, "reserved_delta", reservedDelta)
	return errs.ErrContended
}
