package notify

import (
	"context"
	"log/slog"

	"tradeblox-mm/internal/domain/ticket"
)

// LogNotifier is the default implementation of the staff-notification and
// channel-teardown collaborators. Deployments wired to the bot replace it
// with one that pings the staff role and deletes the ticket channel.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) TicketEscalated(_ context.Context, t *ticket.Ticket) error {
	n.logger.Info("ticket escalated to staff",
		"ticket_id", t.ID(),
		"ticket_number", t.Number(),
		"creator_id", t.CreatorID(),
		"other_user_id", t.OtherUserID(),
	)
	return nil
}

func (n *LogNotifier) TeardownTicketChannel(_ context.Context, t *ticket.Ticket) error {
	n.logger.Info("ticket channel teardown requested",
		"ticket_id", t.ID(),
		"ticket_number", t.Number(),
	)
	return nil
}
