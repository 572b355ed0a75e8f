//go:build unit

package reservation_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"stagepass/internal/domain/event"
	"stagepass/internal/infra/memledger"
	"stagepass/internal/pkg/clock"
	"stagepass/internal/pkg/errs"
	"stagepass/internal/reservation"
	"stagepass/tests/common/builder"
	"stagepass/tests/common/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store   *memledger.Store
	clock   *clock.MockClock
	manager *reservation.Manager
	event   *event.Event
	tt      *event.TicketType
}

func newFixture(t *testing.T, mutate func(*builder.EventBuilder)) *fixture {
	t.Helper()

	clk := clock.NewMockClock(time.Now())
	store := memledger.New(clk)

	b := builder.NewEventBuilder()
	if mutate != nil {
		mutate(b)
	}
	ev, err := b.BuildDomain()
	require.NoError(t, err)
	tt, err := b.BuildTicketType(ev.ID())
	require.NoError(t, err)
	require.NoError(t, store.CreateEvent(context.Background(), ev, []*event.TicketType{tt}))

	manager := reservation.NewManager(store, clk, testutil.NewSilentLogger(), reservation.Config{
		DefaultTTL:  5 * time.Minute,
		RetryBudget: 8,
	})
	return &fixture{store: store, clock: clk, manager: manager, event: ev, tt: tt}
}

func (f *fixture) counters(t *testing.T) (reserved, sold, available int) {
	t.Helper()
	tt, err := f.store.TicketTypeByID(context.Background(), f.tt.ID())
	require.NoError(t, err)
	return tt.ReservedCount(), tt.SoldCount(), tt.Available()
}

func TestHold(t *testing.T) {
	ctx := context.Background()

	t.Run("claims inventory", func(t *testing.T) {
		f := newFixture(t, func(b *builder.EventBuilder) { b.WithTotalQuantity(10) })

		id, err := f.manager.Hold(ctx, f.tt.ID(), 3, "0xALICE", 0)
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, id)

		reserved, sold, available := f.counters(t)
		assert.Equal(t, 3, reserved)
		assert.Equal(t, 0, sold)
		assert.Equal(t, 7, available)

		qty, err := f.manager.Quantity(id)
		require.NoError(t, err)
		assert.Equal(t, 3, qty)
	})

	t.Run("sold out when inventory cannot cover", func(t *testing.T) {
		f := newFixture(t, func(b *builder.EventBuilder) { b.WithTotalQuantity(2) })

		_, err := f.manager.Hold(ctx, f.tt.ID(), 3, "0xALICE", 0)
		require.ErrorIs(t, err, errs.ErrSoldOut)

		reserved, _, _ := f.counters(t)
		assert.Equal(t, 0, reserved)
	})

	t.Run("closed sales window", func(t *testing.T) {
		f := newFixture(t, nil)
		f.clock.Advance(15 * 24 * time.Hour)

		_, err := f.manager.Hold(ctx, f.tt.ID(), 1, "0xALICE", 0)
		require.ErrorIs(t, err, errs.ErrSalesWindowClosed)
	})

	t.Run("window not yet open", func(t *testing.T) {
		now := time.Now()
		f := newFixture(t, func(b *builder.EventBuilder) {
			b.WithSalesWindow(now.Add(time.Hour), now.Add(2*time.Hour))
		})

		_, err := f.manager.Hold(ctx, f.tt.ID(), 1, "0xALICE", 0)
		require.ErrorIs(t, err, errs.ErrSalesWindowClosed)
	})

	t.Run("invalid quantity", func(t *testing.T) {
		f := newFixture(t, nil)

		_, err := f.manager.Hold(ctx, f.tt.ID(), 0, "0xALICE", 0)
		require.ErrorIs(t, err, errs.ErrInvalidQuantity)
	})

	t.Run("unknown ticket type", func(t *testing.T) {
		f := newFixture(t, nil)

		_, err := f.manager.Hold(ctx, uuid.New(), 1, "0xALICE", 0)
		require.ErrorIs(t, err, errs.ErrTicketTypeNotFound)
	})
}

func TestCommit(t *testing.T) {
	ctx := context.Background()

	t.Run("moves reserved to sold", func(t *testing.T) {
		f := newFixture(t, func(b *builder.EventBuilder) { b.WithTotalQuantity(10) })

		id, err := f.manager.Hold(ctx, f.tt.ID(), 4, "0xALICE", 0)
		require.NoError(t, err)
		require.NoError(t, f.manager.Commit(ctx, id))

		reserved, sold, available := f.counters(t)
		assert.Equal(t, 0, reserved)
		assert.Equal(t, 4, sold)
		assert.Equal(t, 6, available)
	})

	t.Run("idempotent", func(t *testing.T) {
		f := newFixture(t, func(b *builder.EventBuilder) { b.WithTotalQuantity(10) })

		id, err := f.manager.Hold(ctx, f.tt.ID(), 2, "0xALICE", 0)
		require.NoError(t, err)
		require.NoError(t, f.manager.Commit(ctx, id))
		require.NoError(t, f.manager.Commit(ctx, id))

		_, sold, _ := f.counters(t)
		assert.Equal(t, 2, sold)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		f := newFixture(t, nil)
		require.ErrorIs(t, f.manager.Commit(ctx, uuid.New()), errs.ErrReservationNotFound)
	})

	t.Run("released reservation cannot commit", func(t *testing.T) {
		f := newFixture(t, nil)

		id, err := f.manager.Hold(ctx, f.tt.ID(), 1, "0xALICE", 0)
		require.NoError(t, err)
		require.NoError(t, f.manager.Release(ctx, id))

		require.ErrorIs(t, f.manager.Commit(ctx, id), errs.ErrReservationExpired)
	})
}

func TestRelease(t *testing.T) {
	ctx := context.Background()

	t.Run("returns inventory to the pool", func(t *testing.T) {
		f := newFixture(t, func(b *builder.EventBuilder) { b.WithTotalQuantity(10) })

		id, err := f.manager.Hold(ctx, f.tt.ID(), 5, "0xALICE", 0)
		require.NoError(t, err)
		require.NoError(t, f.manager.Release(ctx, id))

		reserved, sold, available := f.counters(t)
		assert.Equal(t, 0, reserved)
		assert.Equal(t, 0, sold)
		assert.Equal(t, 10, available)
	})

	t.Run("repeatable", func(t *testing.T) {
		f := newFixture(t, nil)

		id, err := f.manager.Hold(ctx, f.tt.ID(), 1, "0xALICE", 0)
		require.NoError(t, err)
		require.NoError(t, f.manager.Release(ctx, id))
		require.NoError(t, f.manager.Release(ctx, id))

		reserved, _, _ := f.counters(t)
		assert.Equal(t, 0, reserved)
	})

	t.Run("unknown reservation is a no-op", func(t *testing.T) {
		f := newFixture(t, nil)
		require.NoError(t, f.manager.Release(ctx, uuid.New()))
	})

	t.Run("committed reservation is untouched", func(t *testing.T) {
		f := newFixture(t, nil)

		id, err := f.manager.Hold(ctx, f.tt.ID(), 2, "0xALICE", 0)
		require.NoError(t, err)
		require.NoError(t, f.manager.Commit(ctx, id))
		require.NoError(t, f.manager.Release(ctx, id))

		_, sold, _ := f.counters(t)
		assert.Equal(t, 2, sold)
	})
}

func TestReleaseExpired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, func(b *builder.EventBuilder) { b.WithTotalQuantity(10) })

	expiring, err := f.manager.Hold(ctx, f.tt.ID(), 3, "0xALICE", time.Minute)
	require.NoError(t, err)

	committed, err := f.manager.Hold(ctx, f.tt.ID(), 2, "0xBOB", time.Minute)
	require.NoError(t, err)
	require.NoError(t, f.manager.Commit(ctx, committed))

	longLived, err := f.manager.Hold(ctx, f.tt.ID(), 1, "0xCAROL", time.Hour)
	require.NoError(t, err)

	f.clock.Advance(2 * time.Minute)
	released := f.manager.ReleaseExpired(ctx, f.clock.Now())
	assert.Equal(t, 1, released)

	reserved, sold, available := f.counters(t)
	assert.Equal(t, 1, reserved) // the long-lived hold survives
	assert.Equal(t, 2, sold)
	assert.Equal(t, 7, available)

	require.ErrorIs(t, f.manager.Commit(ctx, expiring), errs.ErrReservationExpired)
	require.NoError(t, f.manager.Commit(ctx, longLived))
}

func TestHoldTTLOverride(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, func(b *builder.EventBuilder) { b.WithHoldTTL(time.Minute) })

	// no explicit TTL: the type-level override applies
	id, err := f.manager.Hold(ctx, f.tt.ID(), 1, "0xALICE", 0)
	require.NoError(t, err)

	f.clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, f.manager.ReleaseExpired(ctx, f.clock.Now()))
	require.ErrorIs(t, f.manager.Commit(ctx, id), errs.ErrReservationExpired)
}

func TestReturnSold(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, func(b *builder.EventBuilder) { b.WithTotalQuantity(10) })

	id, err := f.manager.Hold(ctx, f.tt.ID(), 3, "0xALICE", 0)
	require.NoError(t, err)
	require.NoError(t, f.manager.Commit(ctx, id))

	require.NoError(t, f.manager.ReturnSold(ctx, f.tt.ID(), 1))

	_, sold, available := f.counters(t)
	assert.Equal(t, 2, sold)
	assert.Equal(t, 8, available)

	require.ErrorIs(t, f.manager.ReturnSold(ctx, f.tt.ID(), 0), errs.ErrInvalidQuantity)
}

// Concurrent holds against scarce inventory must never oversell:
// winners plus remaining availability always equals the total.
func TestHoldConservationUnderContention(t *testing.T) {
	ctx := context.Background()
	const total = 5
	const contenders = 20

	f := newFixture(t, func(b *builder.EventBuilder) { b.WithTotalQuantity(total) })

	var wg sync.WaitGroup
	var mu sync.Mutex
	var won []uuid.UUID
	soldOut := 0

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := f.manager.Hold(ctx, f.tt.ID(), 1, "0xBUYER", 0)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				won = append(won, id)
				return
			}
			if assert.ErrorIs(t, err, errs.ErrSoldOut) {
				soldOut++
			}
		}()
	}
	wg.Wait()

	require.Len(t, won, total)
	assert.Equal(t, contenders-total, soldOut)

	for _, id := range won {
		require.NoError(t, f.manager.Commit(ctx, id))
	}

	reserved, sold, available := f.counters(t)
	assert.Equal(t, 0, reserved)
	assert.Equal(t, total, sold)
	assert.Equal(t, 0, available)
}
