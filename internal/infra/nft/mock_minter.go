// Package nft provides Minter implementations. Real chain submission
// is out of scope; the mock minter stands in for the external minting
// service and is also what local environments run against.
package nft

import (
	"context"
	"log/slog"
	"sync"

	"stagepass/internal/domain/event"

	"github.com/google/uuid"
)

// MockMinter issues synthetic token identifiers. FailNext can be armed
// to exercise the coordinator's retry path.
type MockMinter struct {
	logger *slog.Logger

	mu       sync.Mutex
	failNext int
	minted   int
}

func NewMockMinter(logger *slog.Logger) *MockMinter {
	return &MockMinter{logger: logger}
}

func (m *MockMinter) MintTicketNFT(ctx context.Context, ticketID uuid.UUID, ownerWallet string, metadata event.NFTMetadata) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	if m.failNext > 0 {
		m.failNext--
		m.mu.Unlock()
		return "", ErrMintUnavailable
	}
	m.minted++
	m.mu.Unlock()

	tokenID := "NFT_" + uuid.NewString()
	m.logger.Info("minted ticket collectible",
		"ticket_id", ticketID,
		"owner_wallet", ownerWallet,
		"token_id", tokenID,
		"collection", metadata.Name)
	return tokenID, nil
}

// FailNext makes the next n mint attempts fail.
func (m *MockMinter) FailNext(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = n
}

// MintedCount reports successful mints.
func (m *MockMinter) MintedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.minted
}
