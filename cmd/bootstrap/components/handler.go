package components

import (
	"stagepass/internal/handler"
	"stagepass/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewEventHandler,
		api.NewPurchaseHandler,
		api.NewTicketHandler,
		api.NewResaleHandler,
	),
	fx.Invoke(handler.NewRouter),
)
