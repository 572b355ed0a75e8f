package components

import (
	"stagepass/internal/infra/notify"
	"stagepass/internal/infra/nft"
	"stagepass/internal/infra/payment"
	"stagepass/internal/infra/pgledger"
	"stagepass/internal/ledger"
	"stagepass/internal/mint"
	"stagepass/internal/pkg/config"
	"stagepass/internal/usecase/commands"

	"github.com/go-redis/redis/v8"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		fx.Annotate(
			pgledger.New,
			fx.As(new(ledger.Store)),
		),
		// Narrowed views of the same store for components that only
		// touch one aisle of it.
		func(s ledger.Store) ledger.EventStore { return s },
		func(s ledger.Store) ledger.ListingStore { return s },

		func(cfg config.Config) config.RedisConfig { return cfg.Redis },
		func(cfg config.Config) config.PaymentConfig { return cfg.Payment },

		NewRedisClient,
		fx.Annotate(
			notify.NewRedisPublisher,
			fx.As(new(commands.AvailabilityPublisher)),
		),
		fx.Annotate(
			payment.NewGatewayClient,
			fx.As(new(commands.PaymentGateway)),
		),
		fx.Annotate(
			nft.NewMockMinter,
			fx.As(new(mint.Minter)),
		),
	),
)

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return notify.NewRedisClient(cfg)
}
