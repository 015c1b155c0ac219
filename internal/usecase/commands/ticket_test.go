//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"tradeblox-mm/internal/domain/ticket"
	"tradeblox-mm/internal/infra/authz"
	"tradeblox-mm/internal/infra/memstore"
	"tradeblox-mm/internal/pkg/clock"
	"tradeblox-mm/internal/pkg/errs"
	"tradeblox-mm/internal/pkg/lock"
	"tradeblox-mm/internal/usecase/commands"

	cr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	escalations atomic.Int32
}

func (f *fakeNotifier) TicketEscalated(_ context.Context, _ *ticket.Ticket) error {
	f.escalations.Add(1)
	return nil
}

type fakeChannels struct {
	teardowns atomic.Int32
}

func (f *fakeChannels) TeardownTicketChannel(_ context.Context, _ *ticket.Ticket) error {
	f.teardowns.Add(1)
	return nil
}

type commandsEnv struct {
	cmds     commands.TicketCommands
	store    *memstore.TicketStore
	notifier *fakeNotifier
	channels *fakeChannels
	coord    *commands.ConfirmationCoordinator
	clk      *clock.MockClock
}

func newCommandsEnv(t *testing.T, staffIDs []string, window time.Duration) *commandsEnv {
	t.Helper()

	clk := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store := memstore.NewTicketStore(40000, clk)
	env := buildCommandsEnv(t, store, store, staffIDs, window, clk)
	return env
}

// buildCommandsEnv wires the facade and coordinator around an arbitrary
// repository (tests wrap the memstore to inject latency) while keeping the
// underlying store reachable for assertions.
func buildCommandsEnv(
	t *testing.T,
	repo commands.TicketRepository,
	store *memstore.TicketStore,
	staffIDs []string,
	window time.Duration,
	clk *clock.MockClock,
) *commandsEnv {
	t.Helper()

	notifier := &fakeNotifier{}
	channels := &fakeChannels{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	locks := lock.NewKeyed()
	coord := commands.NewConfirmationCoordinator(repo, channels, locks, window, logger)

	cmds := commands.NewTicketCommands(
		repo,
		authz.NewStaticAuthorizer(staffIDs),
		notifier,
		channels,
		coord,
		locks,
		clk,
		logger,
		"middleman",
	)
	return &commandsEnv{cmds: cmds, store: store, notifier: notifier, channels: channels, coord: coord, clk: clk}
}

func validInput() commands.CreateTicketInput {
	return commands.CreateTicketInput{
		CreatorID:   "user-1",
		CreatorName: "alice",
		Deal:        "limited item for robux",
		Amount:      "15k robux",
		OtherUserID: "user-2",
	}
}

func TestTicketCommands_Create(t *testing.T) {
	t.Parallel()
	env := newCommandsEnv(t, nil, 5*time.Minute)
	ctx := context.Background()

	t.Run("assigns sequential numbers from the base", func(t *testing.T) {
		first, err := env.cmds.Create(ctx, validInput())
		require.NoError(t, err)
		assert.Equal(t, int64(40000), first.TicketNumber)
		assert.Equal(t, "pending", first.Status)
		assert.Equal(t, "middleman", first.Category)
		assert.Nil(t, first.ClaimedBy)

		second, err := env.cmds.Create(ctx, validInput())
		require.NoError(t, err)
		assert.Equal(t, int64(40001), second.TicketNumber)
		assert.Greater(t, second.ID, first.ID)
	})

	t.Run("keeps an explicit category", func(t *testing.T) {
		in := validInput()
		in.Category = ticket.CategoryTrading
		v, err := env.cmds.Create(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, ticket.CategoryTrading, v.Category)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		in := validInput()
		in.Deal = "   "
		_, err := env.cmds.Create(ctx, in)
		assert.True(t, cr.Is(err, errs.ErrValidation))
	})
}

func TestTicketCommands_Lifecycle(t *testing.T) {
	t.Parallel()
	env := newCommandsEnv(t, nil, 5*time.Minute)
	ctx := context.Background()

	created, err := env.cmds.Create(ctx, validInput())
	require.NoError(t, err)
	id := created.ID

	claimed, err := env.cmds.Claim(ctx, id, "mm-1", "bob")
	require.NoError(t, err)
	assert.Equal(t, "claimed", claimed.Status)
	require.NotNil(t, claimed.ClaimedBy)
	assert.Equal(t, "mm-1", *claimed.ClaimedBy)
	require.NotNil(t, claimed.ClaimedAt)
	firstClaimAt := *claimed.ClaimedAt

	_, err = env.cmds.Claim(ctx, id, "mm-2", "carol")
	assert.True(t, cr.Is(err, errs.ErrNotClaimable))

	_, err = env.cmds.Unclaim(ctx, id, "mm-2")
	assert.True(t, cr.Is(err, errs.ErrNotClaimer))

	env.clk.Add(10 * time.Minute)
	released, err := env.cmds.Unclaim(ctx, id, "mm-1")
	require.NoError(t, err)
	assert.Equal(t, "pending", released.Status)
	assert.Nil(t, released.ClaimedBy)
	require.NotNil(t, released.ClaimedAt)
	assert.True(t, released.ClaimedAt.Equal(firstClaimAt), "first-claim timestamp survives release")

	reclaimed, err := env.cmds.Claim(ctx, id, "mm-2", "carol")
	require.NoError(t, err)
	require.NotNil(t, reclaimed.ClaimedAt)
	assert.True(t, reclaimed.ClaimedAt.Equal(firstClaimAt), "reclaim does not move claimedAt")

	closed, err := env.cmds.Close(ctx, id, "mm-2")
	require.NoError(t, err)
	assert.Equal(t, "closed", closed.Status)
	require.NotNil(t, closed.ClaimedBy, "claimer stays on record after close")

	_, err = env.cmds.Close(ctx, id, "mm-2")
	assert.True(t, cr.Is(err, errs.ErrAlreadyClosed))

	_, err = env.cmds.Claim(ctx, id, "mm-1", "bob")
	assert.True(t, cr.Is(err, errs.ErrNotClaimable))

	_, err = env.cmds.Unclaim(ctx, id, "mm-2")
	assert.True(t, cr.Is(err, errs.ErrAlreadyClosed))
}

func TestTicketCommands_UnclaimUnclaimed(t *testing.T) {
	t.Parallel()
	env := newCommandsEnv(t, nil, 5*time.Minute)
	ctx := context.Background()

	created, err := env.cmds.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = env.cmds.Unclaim(ctx, created.ID, "mm-1")
	assert.True(t, cr.Is(err, errs.ErrNotClaimed))
}

func TestTicketCommands_StaffGate(t *testing.T) {
	t.Parallel()
	env := newCommandsEnv(t, []string{"staff-1"}, 5*time.Minute)
	ctx := context.Background()

	created, err := env.cmds.Create(ctx, validInput())
	require.NoError(t, err)
	id := created.ID

	_, err = env.cmds.Claim(ctx, id, "user-1", "alice")
	assert.True(t, cr.Is(err, errs.ErrNotAuthorized))
	_, err = env.cmds.Close(ctx, id, "user-1")
	assert.True(t, cr.Is(err, errs.ErrNotAuthorized))
	_, err = env.cmds.AddCounterparty(ctx, id, "user-1", "user-3")
	assert.True(t, cr.Is(err, errs.ErrNotAuthorized))
	err = env.cmds.Delete(ctx, id, "user-1")
	assert.True(t, cr.Is(err, errs.ErrNotAuthorized))

	_, err = env.cmds.Claim(ctx, id, "staff-1", "bob")
	assert.NoError(t, err)
}

func TestTicketCommands_NotFound(t *testing.T) {
	t.Parallel()
	env := newCommandsEnv(t, nil, 5*time.Minute)
	ctx := context.Background()

	_, err := env.cmds.Claim(ctx, 999, "mm-1", "bob")
	assert.True(t, cr.Is(err, errs.ErrTicketNotFound))
	_, err = env.cmds.Close(ctx, 999, "mm-1")
	assert.True(t, cr.Is(err, errs.ErrTicketNotFound))
	err = env.cmds.Delete(ctx, 999, "mm-1")
	assert.True(t, cr.Is(err, errs.ErrTicketNotFound))
}

func TestTicketCommands_Delete(t *testing.T) {
	t.Parallel()
	env := newCommandsEnv(t, nil, 5*time.Minute)
	ctx := context.Background()

	created, err := env.cmds.Create(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, env.cmds.Delete(ctx, created.ID, "mm-1"))
	assert.Equal(t, int32(1), env.channels.teardowns.Load())

	_, err = env.store.FindByID(ctx, created.ID)
	assert.Error(t, err)
}

func TestTicketCommands_AddCounterparty(t *testing.T) {
	t.Parallel()
	env := newCommandsEnv(t, nil, 5*time.Minute)
	ctx := context.Background()

	created, err := env.cmds.Create(ctx, validInput())
	require.NoError(t, err)
	id := created.ID

	updated, err := env.cmds.AddCounterparty(ctx, id, "mm-1", "user-9")
	require.NoError(t, err)
	assert.Equal(t, "user-9", updated.OtherUserID)

	// Once a party has responded, the counterparty is locked in.
	_, err = env.cmds.Confirm(ctx, id, "user-1")
	require.NoError(t, err)
	_, err = env.cmds.AddCounterparty(ctx, id, "mm-1", "user-10")
	assert.True(t, cr.Is(err, errs.ErrValidation))

	t.Run("rejects empty id", func(t *testing.T) {
		_, err := env.cmds.AddCounterparty(ctx, id, "mm-1", "  ")
		assert.True(t, cr.Is(err, errs.ErrValidation))
	})

	t.Run("rejects closed ticket", func(t *testing.T) {
		other, err := env.cmds.Create(ctx, validInput())
		require.NoError(t, err)
		_, err = env.cmds.Close(ctx, other.ID, "mm-1")
		require.NoError(t, err)
		_, err = env.cmds.AddCounterparty(ctx, other.ID, "mm-1", "user-9")
		assert.True(t, cr.Is(err, errs.ErrAlreadyClosed))
	})
}
