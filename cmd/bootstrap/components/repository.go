package components

import (
	"log/slog"

	"tradeblox-mm/internal/infra/authz"
	"tradeblox-mm/internal/infra/memstore"
	"tradeblox-mm/internal/infra/notify"
	"tradeblox-mm/internal/infra/repository"
	"tradeblox-mm/internal/pkg/clock"
	"tradeblox-mm/internal/pkg/config"
	"tradeblox-mm/internal/usecase/commands"
	"tradeblox-mm/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewTicketRepository,
		NewTicketReadStore,
		NewAuthorizer,
		NewLogNotifier,
	),
)

// NewTicketRepository picks Postgres when a pool was connected and the
// in-memory store otherwise. Both satisfy the same write-side contract.
func NewTicketRepository(cfg config.Config, pool *pgxpool.Pool, clk clock.Clock) commands.TicketRepository {
	if cfg.DB.Enabled && pool != nil {
		return repository.NewTicketRepository(pool)
	}
	return memstore.NewTicketStore(cfg.Ticket.NumberBase, clk)
}

// The read side is served by the same store; queries only see the narrower
// interface.
func NewTicketReadStore(repo commands.TicketRepository) queries.TicketReadStore {
	return repo
}

func NewAuthorizer(cfg config.Config) commands.Authorizer {
	return authz.NewStaticAuthorizer(cfg.Ticket.StaffIDs)
}

type notifierOut struct {
	fx.Out

	Notifier commands.StaffNotifier
	Channels commands.ChannelService
}

func NewLogNotifier(logger *slog.Logger) notifierOut {
	n := notify.NewLogNotifier(logger)
	return notifierOut{Notifier: n, Channels: n}
}
