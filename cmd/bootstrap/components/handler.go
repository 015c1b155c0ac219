package components

import (
	"tradeblox-mm/internal/handler"
	"tradeblox-mm/internal/handler/api"
	"tradeblox-mm/internal/handler/middleware"
	"tradeblox-mm/internal/pkg/config"
	"tradeblox-mm/internal/pkg/jwt"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewTicketHandler,
		NewTokenHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

func NewTokenHandler(tokens *jwt.Service, cfg config.Config) *api.TokenHandler {
	return api.NewTokenHandler(tokens, cfg.JWT)
}
