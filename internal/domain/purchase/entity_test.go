//go:build unit

package purchase_test

import (
	"testing"
	"time"

	"stagepass/internal/domain/event"
	"stagepass/internal/domain/purchase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(t *testing.T) *purchase.Record {
	t.Helper()
	total, err := event.NewMoney(10000, "USDC")
	require.NoError(t, err)
	return purchase.NewRecord("0xALICE", uuid.New(), uuid.New(), 2, total, time.Now())
}

func TestRecordHappyPath(t *testing.T) {
	now := time.Now()

	t.Run("direct completion without minting", func(t *testing.T) {
		rec := newRecord(t)
		assert.Equal(t, purchase.StateInitiated, rec.State())

		require.NoError(t, rec.MarkReserved(now))
		require.NoError(t, rec.MarkPaid("ch_001", now))
		require.NotNil(t, rec.PaymentRef())
		assert.Equal(t, "ch_001", *rec.PaymentRef())

		ids := []uuid.UUID{uuid.New(), uuid.New()}
		require.NoError(t, rec.MarkCompleted(ids, now))
		assert.Equal(t, purchase.StateCompleted, rec.State())
		assert.Equal(t, ids, rec.TicketIDs())
		assert.True(t, rec.State().IsTerminal())
	})

	t.Run("completion through minting", func(t *testing.T) {
		rec := newRecord(t)
		ids := []uuid.UUID{uuid.New(), uuid.New()}

		require.NoError(t, rec.MarkReserved(now))
		require.NoError(t, rec.MarkPaid("ch_002", now))
		require.NoError(t, rec.MarkMinting(ids, now))
		assert.Equal(t, purchase.StateMinting, rec.State())
		assert.False(t, rec.State().IsTerminal())

		// nil keeps the ticket IDs recorded at the minting step
		require.NoError(t, rec.MarkCompleted(nil, now))
		assert.Equal(t, purchase.StateCompleted, rec.State())
		assert.Equal(t, ids, rec.TicketIDs())
	})
}

func TestRecordFailureBranches(t *testing.T) {
	now := time.Now()

	t.Run("reservation denied", func(t *testing.T) {
		rec := newRecord(t)

		require.NoError(t, rec.MarkReservationDenied("sold out", now))
		assert.Equal(t, purchase.StateReservationDenied, rec.State())
		require.NotNil(t, rec.DenialReason())
		assert.Equal(t, "sold out", *rec.DenialReason())
		assert.True(t, rec.State().IsTerminal())
	})

	t.Run("payment failed", func(t *testing.T) {
		rec := newRecord(t)
		require.NoError(t, rec.MarkReserved(now))

		require.NoError(t, rec.MarkPaymentFailed("card declined", now))
		assert.Equal(t, purchase.StatePaymentFailed, rec.State())
		assert.Nil(t, rec.PaymentRef())
	})

	t.Run("partial completion from minting", func(t *testing.T) {
		rec := newRecord(t)
		require.NoError(t, rec.MarkReserved(now))
		require.NoError(t, rec.MarkPaid("ch_003", now))
		require.NoError(t, rec.MarkMinting([]uuid.UUID{uuid.New()}, now))

		require.NoError(t, rec.MarkPartiallyCompleted("mint retries exhausted", now))
		assert.Equal(t, purchase.StatePartiallyCompleted, rec.State())
		// the captured payment survives the degraded mint
		require.NotNil(t, rec.PaymentRef())
	})

	t.Run("partial completion after completion", func(t *testing.T) {
		rec := newRecord(t)
		require.NoError(t, rec.MarkReserved(now))
		require.NoError(t, rec.MarkPaid("ch_004", now))
		require.NoError(t, rec.MarkCompleted([]uuid.UUID{uuid.New()}, now))

		require.NoError(t, rec.MarkPartiallyCompleted("late mint failure", now))
		assert.Equal(t, purchase.StatePartiallyCompleted, rec.State())
	})
}

func TestRecordInvalidTransitions(t *testing.T) {
	now := time.Now()

	t.Run("cannot pay before reserving", func(t *testing.T) {
		rec := newRecord(t)
		require.ErrorIs(t, rec.MarkPaid("ch_005", now), purchase.ErrInvalidTransition)
	})

	t.Run("cannot mint before paying", func(t *testing.T) {
		rec := newRecord(t)
		require.NoError(t, rec.MarkReserved(now))
		require.ErrorIs(t, rec.MarkMinting(nil, now), purchase.ErrInvalidTransition)
	})

	t.Run("cannot complete from initiated", func(t *testing.T) {
		rec := newRecord(t)
		require.ErrorIs(t, rec.MarkCompleted(nil, now), purchase.ErrInvalidTransition)
	})

	t.Run("terminal states reject further transitions", func(t *testing.T) {
		rec := newRecord(t)
		require.NoError(t, rec.MarkReservationDenied("sold out", now))

		require.ErrorIs(t, rec.MarkReserved(now), purchase.ErrInvalidTransition)
		require.ErrorIs(t, rec.MarkPaid("ch_006", now), purchase.ErrInvalidTransition)
		require.ErrorIs(t, rec.MarkPartiallyCompleted("late", now), purchase.ErrInvalidTransition)
	})

	t.Run("cannot deny after reserving", func(t *testing.T) {
		rec := newRecord(t)
		require.NoError(t, rec.MarkReserved(now))
		require.ErrorIs(t, rec.MarkReservationDenied("late denial", now), purchase.ErrInvalidTransition)
	})
}
