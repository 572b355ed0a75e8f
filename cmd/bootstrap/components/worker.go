package components

import (
	"context"
	"log/slog"

	"stagepass/internal/ledger"
	"stagepass/internal/mint"
	"stagepass/internal/pkg/clock"
	"stagepass/internal/pkg/config"
	"stagepass/internal/reservation"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewSweeper,
	),
	fx.Invoke(
		startWorkers,
	),
)

func NewSweeper(manager *reservation.Manager, listings ledger.ListingStore, clk clock.Clock, logger *slog.Logger, cfg config.Config) *reservation.Sweeper {
	return reservation.NewSweeper(manager, listings, clk, logger, cfg.Sales.SweepInterval)
}

// startWorkers ties the background loops to the fx lifecycle; OnStop
// cancels their shared context and they drain on their own.
func startWorkers(lc fx.Lifecycle, sweeper *reservation.Sweeper, mints *mint.Coordinator) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			mints.Start(ctx)
			go sweeper.Start(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}
