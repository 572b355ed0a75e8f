package components

import (
	"log/slog"

	"stagepass/internal/ledger"
	"stagepass/internal/mint"
	"stagepass/internal/pkg/clock"
	"stagepass/internal/pkg/config"
	"stagepass/internal/reservation"
	"stagepass/internal/usecase/commands"
	"stagepass/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewReservationManager,
	NewMintCoordinator,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		NewPurchaseCommands,
		commands.NewResaleUseCase,
		commands.NewCatalogUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewCatalogQueries,
		queries.NewTicketQueries,
	),
)

func NewReservationManager(store ledger.EventStore, clk clock.Clock, logger *slog.Logger, cfg config.Config) *reservation.Manager {
	return reservation.NewManager(store, clk, logger, reservation.Config{
		DefaultTTL:  cfg.Sales.HoldTTL,
		RetryBudget: cfg.Sales.CounterRetryBudget,
	})
}

func NewMintCoordinator(minter mint.Minter, logger *slog.Logger, cfg config.Config) *mint.Coordinator {
	return mint.NewCoordinator(minter, logger, mint.Config{
		MaxRetries:  cfg.Mint.MaxRetries,
		BaseBackoff: cfg.Mint.BaseBackoff,
		Workers:     cfg.Mint.Workers,
		QueueSize:   cfg.Mint.QueueSize,
	})
}

func NewPurchaseCommands(
	store ledger.Store,
	reservations *reservation.Manager,
	payments commands.PaymentGateway,
	mints *mint.Coordinator,
	publisher commands.AvailabilityPublisher,
	clk clock.Clock,
	logger *slog.Logger,
	cfg config.Config,
) commands.PurchaseCommands {
	return commands.NewPurchaseUseCase(store, reservations, payments, mints, publisher, clk, logger, cfg.Sales.MaxPerBuyer)
}
