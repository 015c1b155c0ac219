//go:build unit

package queries_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"tradeblox-mm/internal/domain/ticket"
	"tradeblox-mm/internal/infra/memstore"
	"tradeblox-mm/internal/pkg/clock"
	"tradeblox-mm/internal/pkg/errs"
	"tradeblox-mm/internal/usecase/queries"

	cr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T, clk *clock.MockClock, n int) *memstore.TicketStore {
	t.Helper()
	store := memstore.NewTicketStore(40000, clk)
	for i := range n {
		draft, err := ticket.NewTicket(
			fmt.Sprintf("creator-%d", i), "alice", "deal", "10k", "other", "", clk.Now(),
		)
		require.NoError(t, err)
		_, err = store.Create(context.Background(), draft)
		require.NoError(t, err)
		clk.Add(time.Minute)
	}
	return store
}

func TestTicketQueries_GetByIDAndNumber(t *testing.T) {
	t.Parallel()
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	q := queries.NewTicketQueries(seedStore(t, clk, 2), 50)
	ctx := context.Background()

	byID, err := q.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(40000), byID.TicketNumber)

	byNumber, err := q.GetByNumber(ctx, 40001)
	require.NoError(t, err)
	assert.Equal(t, int64(2), byNumber.ID)

	_, err = q.GetByID(ctx, 99)
	assert.True(t, cr.Is(err, errs.ErrTicketNotFound))
	_, err = q.GetByNumber(ctx, 12345)
	assert.True(t, cr.Is(err, errs.ErrTicketNotFound))
}

func TestTicketQueries_ListNewestFirstWithLimit(t *testing.T) {
	t.Parallel()
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	q := queries.NewTicketQueries(seedStore(t, clk, 5), 3)

	views, err := q.List(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, int64(40004), views[0].TicketNumber)
	assert.Equal(t, int64(40002), views[2].TicketNumber)
}
