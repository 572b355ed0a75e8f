// Package notify pushes inventory availability changes to interested
// consumers over redis pub/sub.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"stagepass/internal/pkg/config"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

type availabilityMessage struct {
	TicketTypeID string `json:"ticket_type_id"`
	Available    int    `json:"available"`
}

type RedisPublisher struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

func NewRedisPublisher(client *redis.Client, cfg config.RedisConfig, logger *slog.Logger) *RedisPublisher {
	return &RedisPublisher{
		client:  client,
		channel: cfg.AvailabilityChannel,
		logger:  logger,
	}
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func (p *RedisPublisher) PublishAvailability(ctx context.Context, ticketTypeID uuid.UUID, available int) error {
	payload, err := json.Marshal(availabilityMessage{
		TicketTypeID: ticketTypeID.String(),
		Available:    available,
	})
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return err
	}
	p.logger.Debug("published availability change",
		"ticket_type_id", ticketTypeID, "available", available)
	return nil
}

// NoopPublisher is used when redis is not configured and in tests.
type NoopPublisher struct{}

func (NoopPublisher) PublishAvailability(context.Context, uuid.UUID, int) error { return nil }
