//go:build unit

package reservation_test

import (
	"context"
	"testing"
	"time"

	"stagepass/internal/domain/resale"
	"stagepass/internal/domain/ticket"
	"stagepass/internal/pkg/errs"
	"stagepass/internal/reservation"
	"stagepass/tests/common/builder"
	"stagepass/tests/common/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, func(b *builder.EventBuilder) { b.WithTotalQuantity(10) })
	sweeper := reservation.NewSweeper(f.manager, f.store, f.clock, testutil.NewSilentLogger(), time.Second)

	// an expiring hold
	holdID, err := f.manager.Hold(ctx, f.tt.ID(), 2, "0xALICE", time.Minute)
	require.NoError(t, err)

	// a listing with a deadline
	tk := builder.NewTicketBuilder().BuildDomain()
	require.NoError(t, f.store.CreateTickets(ctx, []*ticket.Ticket{tk}))
	listing, err := builder.NewListingBuilder().
		WithTicketID(tk.ID()).
		WithExpiresAt(f.clock.Now().Add(time.Minute)).
		BuildDomain()
	require.NoError(t, err)
	require.NoError(t, f.store.CreateListing(ctx, listing))

	// nothing is due yet
	sweeper.SweepOnce(ctx)
	reserved, _, _ := f.counters(t)
	assert.Equal(t, 2, reserved)

	f.clock.Advance(2 * time.Minute)
	sweeper.SweepOnce(ctx)

	reserved, _, available := f.counters(t)
	assert.Equal(t, 0, reserved)
	assert.Equal(t, 10, available)
	require.ErrorIs(t, f.manager.Commit(ctx, holdID), errs.ErrReservationExpired)

	closed, err := f.store.ListingByID(ctx, listing.ID())
	require.NoError(t, err)
	assert.Equal(t, resale.StatusExpired, closed.Status())

	released, err := f.store.TicketByID(ctx, tk.ID())
	require.NoError(t, err)
	assert.Equal(t, ticket.StatusActive, released.Status())
}
