//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"stagepass/internal/domain/event"
	"stagepass/internal/domain/purchase"
	"stagepass/internal/domain/ticket"
	"stagepass/internal/infra/memledger"
	"stagepass/internal/infra/nft"
	"stagepass/internal/infra/notify"
	"stagepass/internal/mint"
	"stagepass/internal/pkg/clock"
	"stagepass/internal/pkg/errs"
	"stagepass/internal/reservation"
	"stagepass/internal/usecase/commands"
	"stagepass/tests/common/builder"
	"stagepass/tests/common/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const maxPerBuyer = 4

type purchaseFixture struct {
	store   *memledger.Store
	clock   *clock.MockClock
	manager *reservation.Manager
	minter  *nft.MockMinter
	gateway *fakeGateway
	uc      commands.PurchaseCommands
	event   *event.Event
	tt      *event.TicketType
}

func newPurchaseFixture(t *testing.T, mutate func(*builder.EventBuilder)) *purchaseFixture {
	t.Helper()

	logger := testutil.NewSilentLogger()
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

	manager := reservation.NewManager(store, clk, logger, reservation.Config{
		DefaultTTL:  5 * time.Minute,
		RetryBudget: 8,
	})
	minter := nft.NewMockMinter(logger)
	// one worker keeps mint outcome ordering deterministic
	coordinator := mint.NewCoordinator(minter, logger, mint.Config{
		MaxRetries:  2,
		BaseBackoff: time.Millisecond,
		Workers:     1,
		QueueSize:   64,
	})
	gateway := &fakeGateway{}

	uc := commands.NewPurchaseUseCase(store, manager, gateway, coordinator, notify.NoopPublisher{}, clk, logger, maxPerBuyer)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	coordinator.Start(ctx)

	return &purchaseFixture{
		store:   store,
		clock:   clk,
		manager: manager,
		minter:  minter,
		gateway: gateway,
		uc:      uc,
		event:   ev,
		tt:      tt,
	}
}

func (f *purchaseFixture) params(quantity int) commands.PurchaseParams {
	return commands.PurchaseParams{
		BuyerWallet:     "0xBUYER",
		EventID:         f.event.ID(),
		TicketTypeID:    f.tt.ID(),
		Quantity:        quantity,
		PaymentCurrency: "USDC",
	}
}

func (f *purchaseFixture) counters(t *testing.T) (reserved, sold, available int) {
	t.Helper()
	tt, err := f.store.TicketTypeByID(context.Background(), f.tt.ID())
	require.NoError(t, err)
	return tt.ReservedCount(), tt.SoldCount(), tt.Available()
}

func (f *purchaseFixture) recordState(t *testing.T, id uuid.UUID) purchase.State {
	t.Helper()
	rec, err := f.store.PurchaseByID(context.Background(), id)
	require.NoError(t, err)
	return rec.State()
}

// stateOf is the polling variant for Eventually conditions, which run
// off the test goroutine.
func stateOf(f *purchaseFixture, id uuid.UUID) purchase.State {
	rec, err := f.store.PurchaseByID(context.Background(), id)
	if err != nil {
		return ""
	}
	return rec.State()
}

func TestPurchase(t *testing.T) {
	ctx := context.Background()

	t.Run("success without collectible", func(t *testing.T) {
		f := newPurchaseFixture(t, func(b *builder.EventBuilder) { b.WithTotalQuantity(10) })

		result, err := f.uc.Purchase(ctx, f.params(2))
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.Equal(t, purchase.StateCompleted.String(), result.Purchase.State)
		assert.Equal(t, int64(10000), result.Purchase.TotalCents)
		require.NotNil(t, result.Purchase.PaymentRef)
		assert.Equal(t, "ch_001", *result.Purchase.PaymentRef)
		assert.Empty(t, result.MintRequestIDs)
		require.Len(t, result.Purchase.Tickets, 2)

		for _, tk := range result.Purchase.Tickets {
			assert.Equal(t, "0xBUYER", tk.OwnerWallet)
			assert.Equal(t, ticket.StatusActive.String(), tk.Status)
			assert.Equal(t, string(ticket.MintStateNone), tk.MintState)
		}

		reserved, sold, available := f.counters(t)
		assert.Equal(t, 0, reserved)
		assert.Equal(t, 2, sold)
		assert.Equal(t, 8, available)

		assert.Equal(t, purchase.StateCompleted, f.recordState(t, result.Purchase.ID))
	})

	t.Run("quantity bounds", func(t *testing.T) {
		f := newPurchaseFixture(t, nil)

		_, err := f.uc.Purchase(ctx, f.params(0))
		require.ErrorIs(t, err, errs.ErrInvalidQuantity)

		_, err = f.uc.Purchase(ctx, f.params(maxPerBuyer+1))
		require.ErrorIs(t, err, errs.ErrInvalidQuantity)
	})

	t.Run("unknown event", func(t *testing.T) {
		f := newPurchaseFixture(t, nil)

		params := f.params(1)
		params.EventID = uuid.New()
		_, err := f.uc.Purchase(ctx, params)
		require.ErrorIs(t, err, errs.ErrEventNotFound)
	})

	t.Run("ticket type of another event", func(t *testing.T) {
		f := newPurchaseFixture(t, nil)

		other, err := builder.NewEventBuilder().WithTitle("Other Night").BuildDomain()
		require.NoError(t, err)
		otherType, err := builder.NewEventBuilder().BuildTicketType(other.ID())
		require.NoError(t, err)
		require.NoError(t, f.store.CreateEvent(ctx, other, []*event.TicketType{otherType}))

		params := f.params(1)
		params.TicketTypeID = otherType.ID()
		_, err = f.uc.Purchase(ctx, params)
		require.ErrorIs(t, err, errs.ErrTicketTypeNotFound)
	})

	t.Run("sold out", func(t *testing.T) {
		f := newPurchaseFixture(t, func(b *builder.EventBuilder) { b.WithTotalQuantity(2) })

		_, err := f.uc.Purchase(ctx, f.params(3))
		require.ErrorIs(t, err, errs.ErrSoldOut)

		assert.Equal(t, 0, f.gateway.Captured())
	})

	t.Run("sales window closed", func(t *testing.T) {
		f := newPurchaseFixture(t, nil)
		f.clock.Advance(15 * 24 * time.Hour)

		_, err := f.uc.Purchase(ctx, f.params(1))
		require.ErrorIs(t, err, errs.ErrSalesWindowClosed)
	})

	t.Run("payment declined releases the hold", func(t *testing.T) {
		f := newPurchaseFixture(t, func(b *builder.EventBuilder) { b.WithTotalQuantity(10) })
		f.gateway.FailWith(errs.ErrInsufficientFunds)

		_, err := f.uc.Purchase(ctx, f.params(3))
		require.ErrorIs(t, err, errs.ErrInsufficientFunds)

		reserved, sold, available := f.counters(t)
		assert.Equal(t, 0, reserved)
		assert.Equal(t, 0, sold)
		assert.Equal(t, 10, available)
	})

	t.Run("gateway outage releases the hold", func(t *testing.T) {
		f := newPurchaseFixture(t, func(b *builder.EventBuilder) { b.WithTotalQuantity(10) })
		f.gateway.FailWith(errs.ErrGatewayFailure)

		_, err := f.uc.Purchase(ctx, f.params(1))
		require.ErrorIs(t, err, errs.ErrGatewayFailure)

		reserved, _, available := f.counters(t)
		assert.Equal(t, 0, reserved)
		assert.Equal(t, 10, available)
	})
}

func TestPurchaseWithMinting(t *testing.T) {
	ctx := context.Background()

	t.Run("mints settle the purchase", func(t *testing.T) {
		f := newPurchaseFixture(t, func(b *builder.EventBuilder) { b.AsNFT() })

		result, err := f.uc.Purchase(ctx, f.params(2))
		require.NoError(t, err)

		// the response never waits for minting
		assert.Equal(t, purchase.StateMinting.String(), result.Purchase.State)
		assert.Len(t, result.MintRequestIDs, 2)
		for _, tk := range result.Purchase.Tickets {
			assert.Equal(t, string(ticket.MintStatePending), tk.MintState)
		}

		require.Eventually(t, func() bool {
			return stateOf(f, result.Purchase.ID) == purchase.StateCompleted
		}, 5*time.Second, 10*time.Millisecond)

		for _, tk := range result.Purchase.Tickets {
			minted, err := f.store.TicketByID(ctx, tk.ID)
			require.NoError(t, err)
			assert.Equal(t, ticket.MintStateMinted, minted.MintState())
			require.NotNil(t, minted.NFTTokenID())
		}
		assert.Equal(t, 2, f.minter.MintedCount())
	})

	t.Run("mint exhaustion degrades but never voids the purchase", func(t *testing.T) {
		f := newPurchaseFixture(t, func(b *builder.EventBuilder) { b.AsNFT() })
		f.minter.FailNext(100)

		result, err := f.uc.Purchase(ctx, f.params(1))
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			return stateOf(f, result.Purchase.ID) == purchase.StatePartiallyCompleted
		}, 5*time.Second, 10*time.Millisecond)

		tk, err := f.store.TicketByID(ctx, result.Purchase.Tickets[0].ID)
		require.NoError(t, err)
		assert.Equal(t, ticket.MintStateFailed, tk.MintState())
		assert.Nil(t, tk.NFTTokenID())
		// the ticket itself stays valid for entry
		assert.Equal(t, ticket.StatusActive, tk.Status())

		// the sale itself stands
		_, sold, _ := f.counters(t)
		assert.Equal(t, 1, sold)
	})

	t.Run("one failed mint degrades the whole batch", func(t *testing.T) {
		f := newPurchaseFixture(t, func(b *builder.EventBuilder) { b.AsNFT() })
		// exactly one request's worth of attempts fails; the single
		// worker drains requests in order
		f.minter.FailNext(3)

		result, err := f.uc.Purchase(ctx, f.params(2))
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			return stateOf(f, result.Purchase.ID) == purchase.StatePartiallyCompleted
		}, 5*time.Second, 10*time.Millisecond)

		states := map[ticket.MintState]int{}
		for _, view := range result.Purchase.Tickets {
			tk, err := f.store.TicketByID(ctx, view.ID)
			require.NoError(t, err)
			states[tk.MintState()]++
		}
		assert.Equal(t, 1, states[ticket.MintStateFailed])
		assert.Equal(t, 1, states[ticket.MintStateMinted])
	})
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()

	buy := func(t *testing.T, f *purchaseFixture) uuid.UUID {
		t.Helper()
		result, err := f.uc.Purchase(ctx, f.params(1))
		require.NoError(t, err)
		return result.Purchase.Tickets[0].ID
	}

	t.Run("moves ownership", func(t *testing.T) {
		f := newPurchaseFixture(t, nil)
		ticketID := buy(t, f)

		view, err := f.uc.Transfer(ctx, ticketID, "0xBUYER", "0xBOB")
		require.NoError(t, err)
		assert.Equal(t, "0xBOB", view.OwnerWallet)

		stored, err := f.store.TicketByID(ctx, ticketID)
		require.NoError(t, err)
		assert.Equal(t, "0xBOB", stored.OwnerWallet())
	})

	t.Run("only the owner can transfer", func(t *testing.T) {
		f := newPurchaseFixture(t, nil)
		ticketID := buy(t, f)

		_, err := f.uc.Transfer(ctx, ticketID, "0xMALLORY", "0xBOB")
		require.ErrorIs(t, err, errs.ErrNotOwner)
	})

	t.Run("transfer to self", func(t *testing.T) {
		f := newPurchaseFixture(t, nil)
		ticketID := buy(t, f)

		_, err := f.uc.Transfer(ctx, ticketID, "0xBUYER", "0xBUYER")
		require.ErrorIs(t, err, errs.ErrDomainValidation)
	})

	t.Run("unknown ticket", func(t *testing.T) {
		f := newPurchaseFixture(t, nil)

		_, err := f.uc.Transfer(ctx, uuid.New(), "0xBUYER", "0xBOB")
		require.ErrorIs(t, err, errs.ErrTicketNotFound)
	})
}

func TestRefund(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the unit to inventory", func(t *testing.T) {
		f := newPurchaseFixture(t, func(b *builder.EventBuilder) { b.WithTotalQuantity(10) })

		result, err := f.uc.Purchase(ctx, f.params(1))
		require.NoError(t, err)
		ticketID := result.Purchase.Tickets[0].ID

		_, sold, available := f.counters(t)
		require.Equal(t, 1, sold)
		require.Equal(t, 9, available)

		view, err := f.uc.Refund(ctx, ticketID, "0xBUYER")
		require.NoError(t, err)
		assert.Equal(t, ticket.StatusRefunded.String(), view.Status)

		_, sold, available = f.counters(t)
		assert.Equal(t, 0, sold)
		assert.Equal(t, 10, available)
	})

	t.Run("cannot refund twice", func(t *testing.T) {
		f := newPurchaseFixture(t, nil)

		result, err := f.uc.Purchase(ctx, f.params(1))
		require.NoError(t, err)
		ticketID := result.Purchase.Tickets[0].ID

		_, err = f.uc.Refund(ctx, ticketID, "0xBUYER")
		require.NoError(t, err)
		_, err = f.uc.Refund(ctx, ticketID, "0xBUYER")
		require.Error(t, err)

		// inventory is returned exactly once
		_, sold, _ := f.counters(t)
		assert.Equal(t, 0, sold)
	})

	t.Run("only the owner can refund", func(t *testing.T) {
		f := newPurchaseFixture(t, nil)

		result, err := f.uc.Purchase(ctx, f.params(1))
		require.NoError(t, err)

		_, err = f.uc.Refund(ctx, result.Purchase.Tickets[0].ID, "0xMALLORY")
		require.ErrorIs(t, err, errs.ErrNotOwner)
	})
}

func TestRedeem(t *testing.T) {
	ctx := context.Background()

	t.Run("marks the ticket used", func(t *testing.T) {
		f := newPurchaseFixture(t, nil)

		result, err := f.uc.Purchase(ctx, f.params(1))
		require.NoError(t, err)
		ticketID := result.Purchase.Tickets[0].ID

		view, err := f.uc.Redeem(ctx, ticketID, "0xBUYER")
		require.NoError(t, err)
		assert.Equal(t, ticket.StatusUsed.String(), view.Status)

		// a used ticket cannot enter twice
		_, err = f.uc.Redeem(ctx, ticketID, "0xBUYER")
		require.Error(t, err)
	})

	t.Run("only the owner can redeem", func(t *testing.T) {
		f := newPurchaseFixture(t, nil)

		result, err := f.uc.Purchase(ctx, f.params(1))
		require.NoError(t, err)

		_, err = f.uc.Redeem(ctx, result.Purchase.Tickets[0].ID, "0xMALLORY")
		require.ErrorIs(t, err, errs.ErrNotOwner)
	})
}
