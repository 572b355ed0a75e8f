// Package mint is the asynchronous bridge to the external minting
// capability. Purchases never block on it; outcomes flow back through
// a resolver callback.
package mint

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"stagepass/internal/domain/event"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	StatusPending RequestStatus = "pending"
	StatusMinted  RequestStatus = "minted"
	StatusFailed  RequestStatus = "failed"
)

// Request tracks one outstanding mint until it resolves.
type Request struct {
	ID          uuid.UUID
	TicketID    uuid.UUID
	OwnerWallet string
	Metadata    event.NFTMetadata
	Status      RequestStatus
	Attempts    int
	TokenID     *string
}

// Minter is the external capability. The real implementation submits
// to a chain service; tests and local runs use the mock in infra/nft.
type Minter interface {
	MintTicketNFT(ctx context.Context, ticketID uuid.UUID, ownerWallet string, metadata event.NFTMetadata) (string, error)
}

// Resolver receives terminal outcomes. tokenID is nil when minting
// failed for good; a failed mint never invalidates the ticket.
type Resolver func(ctx context.Context, ticketID uuid.UUID, tokenID *string)

type Config struct {
	MaxRetries  int
	BaseBackoff time.Duration
	Workers     int
	QueueSize   int
}

type Coordinator struct {
	minter  Minter
	logger  *slog.Logger
	cfg     Config
	queue   chan uuid.UUID
	resolve Resolver

	mu       sync.Mutex
	requests map[uuid.UUID]*Request
}

func NewCoordinator(minter Minter, logger *slog.Logger, cfg Config) *Coordinator {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 2 * time.Second
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1024
	}
	return &Coordinator{
		minter:   minter,
		logger:   logger,
		cfg:      cfg,
		queue:    make(chan uuid.UUID, cfg.QueueSize),
		requests: make(map[uuid.UUID]*Request),
	}
}

// SetResolver wires the completion callback; must be called before
// Start.
func (c *Coordinator) SetResolver(r Resolver) {
	c.resolve = r
}

func (c *Coordinator) Start(ctx context.Context) {
	for i := 0; i < c.cfg.Workers; i++ {
		go c.worker(ctx)
	}
	c.logger.Info("mint coordinator started", "workers", c.cfg.Workers)
}

// RequestMint enqueues one mint per ticket, fire-and-forget. A full
// queue resolves as an immediate failure rather than blocking the
// purchase response.
func (c *Coordinator) RequestMint(ctx context.Context, ticketID uuid.UUID, ownerWallet string, metadata event.NFTMetadata) uuid.UUID {
	req := &Request{
		ID:          uuid.New(),
		TicketID:    ticketID,
		OwnerWallet: ownerWallet,
		Metadata:    metadata,
		Status:      StatusPending,
	}

	c.mu.Lock()
	c.requests[req.ID] = req
	c.mu.Unlock()

	select {
	case c.queue <- req.ID:
	default:
		c.logger.Error("mint queue full, failing request",
			"ticket_id", ticketID, "request_id", req.ID)
		c.finish(ctx, req, nil)
	}
	return req.ID
}

// Status reports a tracked request; terminal requests stay readable
// until the process exits.
func (c *Coordinator) Status(requestID uuid.UUID) (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	req, ok := c.requests[requestID]
	if !ok {
		return Request{}, false
	}
	return *req, true
}

func (c *Coordinator) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, req := range c.requests {
		if req.Status == StatusPending {
			n++
		}
	}
	return n
}

func (c *Coordinator) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-c.queue:
			c.process(ctx, id)
		}
	}
}

func (c *Coordinator) process(ctx context.Context, requestID uuid.UUID) {
	c.mu.Lock()
	req, ok := c.requests[requestID]
	c.mu.Unlock()
	if !ok {
		return
	}

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		c.mu.Lock()
		req.Attempts = attempt + 1
		c.mu.Unlock()

		tokenID, err := c.minter.MintTicketNFT(ctx, req.TicketID, req.OwnerWallet, req.Metadata)
		if err == nil {
			c.finish(ctx, req, &tokenID)
			return
		}
		if ctx.Err() != nil {
			return
		}

		c.logger.Warn("mint attempt failed",
			"ticket_id", req.TicketID,
			"attempt", attempt+1,
			"error", err.Error())

		if attempt == c.cfg.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.backoff(attempt)):
		}
	}

	c.logger.Error("mint retries exhausted", "ticket_id", req.TicketID)
	c.finish(ctx, req, nil)
}

func (c *Coordinator) finish(ctx context.Context, req *Request, tokenID *string) {
	c.mu.Lock()
	if tokenID != nil {
		req.Status = StatusMinted
		req.TokenID = tokenID
	} else {
		req.Status = StatusFailed
	}
	c.mu.Unlock()

	if c.resolve != nil {
		c.resolve(ctx, req.TicketID, tokenID)
	}
}

// backoff is exponential with ±25% jitter, capped at 16x base.
func (c *Coordinator) backoff(attempt int) time.Duration {
	d := c.cfg.BaseBackoff * time.Duration(1<<attempt)
	maxDelay := c.cfg.BaseBackoff * 16
	if d > maxDelay {
		d = maxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(d/2) + 1))
	return d - d/4 + jitter
}
