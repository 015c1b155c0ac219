//go:build unit

package memstore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"tradeblox-mm/internal/domain/ticket"
	"tradeblox-mm/internal/infra"
	"tradeblox-mm/internal/infra/memstore"
	"tradeblox-mm/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore() (*memstore.TicketStore, *clock.MockClock) {
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return memstore.NewTicketStore(40000, clk), clk
}

func draft(t *testing.T, clk clock.Clock) *ticket.Ticket {
	t.Helper()
	tk, err := ticket.NewTicket("user-1", "Creator", "NFR Crow ↔ Robux", "8000 Robux", "user-2", "", clk.Now())
	require.NoError(t, err)
	return tk
}

func TestCreateAssignsIdentity(t *testing.T) {
	store, clk := newStore()
	ctx := context.Background()

	first, err := store.Create(ctx, draft(t, clk))
	require.NoError(t, err)
	assert.EqualValues(t, 1, first.ID())
	assert.EqualValues(t, 40000, first.Number())
	assert.Equal(t, ticket.StatusPending, first.Status())

	second, err := store.Create(ctx, draft(t, clk))
	require.NoError(t, err)
	assert.EqualValues(t, 2, second.ID())
	assert.EqualValues(t, 40001, second.Number())
}

// Numbers issued by racing creates are pairwise distinct and monotonic.
func TestConcurrentCreateNumbersAreDistinct(t *testing.T) {
	store, clk := newStore()
	ctx := context.Background()

	const n = 100
	var wg sync.WaitGroup
	numbers := make(chan int64, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := store.Create(ctx, draft(t, clk))
			assert.NoError(t, err)
			numbers <- created.Number()
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[int64]bool, n)
	for num := range numbers {
		assert.False(t, seen[num], "ticket number %d issued twice", num)
		seen[num] = true
		assert.GreaterOrEqual(t, num, int64(40000))
		assert.Less(t, num, int64(40000+n))
	}
	assert.Len(t, seen, n)
}

// Deleted tickets never free their number for reuse.
func TestNumbersNotReusedAfterDelete(t *testing.T) {
	store, clk := newStore()
	ctx := context.Background()

	first, err := store.Create(ctx, draft(t, clk))
	require.NoError(t, err)

	ok, err := store.Delete(ctx, first.ID())
	require.NoError(t, err)
	require.True(t, ok)

	second, err := store.Create(ctx, draft(t, clk))
	require.NoError(t, err)
	assert.Greater(t, second.Number(), first.Number())
}

func TestFindByIDAndNumber(t *testing.T) {
	store, clk := newStore()
	ctx := context.Background()

	created, err := store.Create(ctx, draft(t, clk))
	require.NoError(t, err)

	byID, err := store.FindByID(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, created.Number(), byID.Number())

	byNumber, err := store.FindByNumber(ctx, created.Number())
	require.NoError(t, err)
	assert.Equal(t, created.ID(), byNumber.ID())

	_, err = store.FindByID(ctx, 999)
	assert.True(t, infra.IsKind(err, infra.KindNotFound))

	_, err = store.FindByNumber(ctx, 999)
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
}

func TestListNewestFirst(t *testing.T) {
	store, clk := newStore()
	ctx := context.Background()

	old, err := store.Create(ctx, draft(t, clk))
	require.NoError(t, err)

	clk.Add(time.Minute)
	recent, err := store.Create(ctx, draft(t, clk))
	require.NoError(t, err)

	tickets, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, recent.ID(), tickets[0].ID())
	assert.Equal(t, old.ID(), tickets[1].ID())

	limited, err := store.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, recent.ID(), limited[0].ID())
}

func TestSaveReplacesState(t *testing.T) {
	store, clk := newStore()
	ctx := context.Background()

	created, err := store.Create(ctx, draft(t, clk))
	require.NoError(t, err)

	require.NoError(t, created.Claim("mm-1", "Middleman", clk.Now()))
	saved, err := store.Save(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, ticket.StatusClaimed, saved.Status())

	reloaded, err := store.FindByID(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, ticket.StatusClaimed, reloaded.Status())
	require.NotNil(t, reloaded.ClaimedBy())
	assert.Equal(t, "mm-1", *reloaded.ClaimedBy())

	missing := draft(t, clk)
	missing.Assign(999, 49999)
	_, err = store.Save(ctx, missing)
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
}

// Callers get clones; mutating a returned ticket must not leak into the store.
func TestReturnedTicketsAreIsolated(t *testing.T) {
	store, clk := newStore()
	ctx := context.Background()

	created, err := store.Create(ctx, draft(t, clk))
	require.NoError(t, err)

	require.NoError(t, created.Claim("mm-1", "Middleman", clk.Now()))

	reloaded, err := store.FindByID(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, ticket.StatusPending, reloaded.Status())
	assert.Nil(t, reloaded.ClaimedBy())
}

func TestDelete(t *testing.T) {
	store, clk := newStore()
	ctx := context.Background()

	created, err := store.Create(ctx, draft(t, clk))
	require.NoError(t, err)

	ok, err := store.Delete(ctx, created.ID())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Delete(ctx, created.ID())
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.FindByID(ctx, created.ID())
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
}
