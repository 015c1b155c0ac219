package components

import (
	"log/slog"

	"tradeblox-mm/internal/pkg/clock"
	"tradeblox-mm/internal/pkg/config"
	"tradeblox-mm/internal/pkg/lock"
	"tradeblox-mm/internal/usecase/commands"
	"tradeblox-mm/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

// The keyed lock is shared between the command facade and the confirmation
// coordinator so window timeouts serialize with lifecycle transitions.
var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	lock.NewKeyed,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		NewConfirmationCoordinator,
		NewTicketCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		NewTicketQueries,
	),
)

func NewConfirmationCoordinator(
	repo commands.TicketRepository,
	channels commands.ChannelService,
	locks *lock.Keyed,
	cfg config.Config,
	logger *slog.Logger,
) *commands.ConfirmationCoordinator {
	return commands.NewConfirmationCoordinator(repo, channels, locks, cfg.Ticket.ConfirmWindow, logger)
}

func NewTicketCommands(
	repo commands.TicketRepository,
	authorizer commands.Authorizer,
	notifier commands.StaffNotifier,
	channels commands.ChannelService,
	coordinator *commands.ConfirmationCoordinator,
	locks *lock.Keyed,
	clk clock.Clock,
	logger *slog.Logger,
	cfg config.Config,
) commands.TicketCommands {
	return commands.NewTicketCommands(
		repo, authorizer, notifier, channels, coordinator, locks, clk, logger,
		cfg.Ticket.DefaultCategory,
	)
}

func NewTicketQueries(store queries.TicketReadStore, cfg config.Config) queries.TicketQueries {
	return queries.NewTicketQueries(store, cfg.Ticket.ListLimit)
}
