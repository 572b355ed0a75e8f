//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"stagepass/internal/domain/event"
	"stagepass/internal/infra/memledger"
	"stagepass/internal/pkg/clock"
	"stagepass/internal/pkg/errs"
	"stagepass/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogFixture(t *testing.T) (commands.CatalogCommands, *memledger.Store, *clock.MockClock) {
	t.Helper()
	clk := clock.NewMockClock(time.Now())
	store := memledger.New(clk)
	return commands.NewCatalogUseCase(store, clk), store, clk
}

func createEventParams(now time.Time) commands.CreateEventParams {
	return commands.CreateEventParams{
		Title:           "Midnight Frequencies",
		Description:     "All-night electronic showcase",
		OrganizerWallet: "0xORGANIZER",
		Venue: event.Venue{
			Name:     "Harbor Hall",
			City:     "Rotterdam",
			Country:  "NL",
			Capacity: 1500,
		},
		Category:  event.CategoryConcert,
		EventDate: now.Add(30 * 24 * time.Hour),
		DoorTime:  now.Add(30*24*time.Hour - 2*time.Hour),
		TicketTypes: []commands.TicketTypeParams{
			{
				Name:          "General Admission",
				PriceCents:    5000,
				Currency:      "USDC",
				TotalQuantity: 100,
				SalesStart:    now,
				SalesEnd:      now.Add(14 * 24 * time.Hour),
			},
			{
				Name:          "VIP",
				PriceCents:    15000,
				Currency:      "USDC",
				TotalQuantity: 20,
				SalesStart:    now,
				SalesEnd:      now.Add(14 * 24 * time.Hour),
				NFTMetadata: &event.NFTMetadata{
					Name:  "VIP Pass",
					Image: "ipfs://QmVIPPass/cover.png",
				},
			},
		},
	}
}

func TestCreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes event with all ticket types", func(t *testing.T) {
		uc, store, clk := newCatalogFixture(t)

		view, err := uc.CreateEvent(ctx, createEventParams(clk.Now()))
		require.NoError(t, err)
		require.NotNil(t, view)

		assert.Equal(t, event.StatusPublished.String(), view.Status)
		require.Len(t, view.TicketTypes, 2)
		// types come back priced and fully available
		assert.Equal(t, 100, view.TicketTypes[0].Available)
		assert.True(t, view.TicketTypes[1].HasNFT)

		stored, err := store.EventByID(ctx, view.ID)
		require.NoError(t, err)
		assert.Equal(t, "Midnight Frequencies", stored.Title())

		types, err := store.TicketTypesByEvent(ctx, view.ID)
		require.NoError(t, err)
		assert.Len(t, types, 2)
	})

	t.Run("requires at least one ticket type", func(t *testing.T) {
		uc, _, clk := newCatalogFixture(t)

		params := createEventParams(clk.Now())
		params.TicketTypes = nil
		_, err := uc.CreateEvent(ctx, params)
		require.ErrorIs(t, err, errs.ErrDomainValidation)
	})

	t.Run("rejects an inverted sales window", func(t *testing.T) {
		uc, _, clk := newCatalogFixture(t)

		params := createEventParams(clk.Now())
		params.TicketTypes[0].SalesStart = params.TicketTypes[0].SalesEnd.Add(time.Hour)
		_, err := uc.CreateEvent(ctx, params)
		require.ErrorIs(t, err, errs.ErrDomainValidation)
	})

	t.Run("rejects an empty title", func(t *testing.T) {
		uc, _, clk := newCatalogFixture(t)

		params := createEventParams(clk.Now())
		params.Title = "  "
		_, err := uc.CreateEvent(ctx, params)
		require.ErrorIs(t, err, errs.ErrDomainValidation)
	})

	t.Run("rejects a negative price", func(t *testing.T) {
		uc, _, clk := newCatalogFixture(t)

		params := createEventParams(clk.Now())
		params.TicketTypes[0].PriceCents = -100
		_, err := uc.CreateEvent(ctx, params)
		require.ErrorIs(t, err, errs.ErrDomainValidation)
	})
}
