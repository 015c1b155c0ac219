//go:build unit

package ticket_test

import (
	"testing"
	"time"

	"tradeblox-mm/internal/domain/ticket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPending(t *testing.T) *ticket.Ticket {
	t.Helper()
	tk, err := ticket.NewTicket("user-1", "Creator", "FR Frost Dragon ↔ $20 USD LTC", "$20", "user-2", "", time.Now())
	require.NoError(t, err)
	return tk
}

func TestNewTicket(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		tk := newPending(t)

		assert.Equal(t, ticket.StatusPending, tk.Status())
		assert.Nil(t, tk.ClaimedBy())
		assert.Nil(t, tk.ClaimedByName())
		assert.Nil(t, tk.ClaimedAt())
		assert.Equal(t, ticket.CategoryMiddleman, tk.Category())
		assert.False(t, tk.CreatedAt().IsZero())
	})

	t.Run("missing fields", func(t *testing.T) {
		cases := []struct {
			name   string
			fields [5]string
		}{
			{"empty creator id", [5]string{"", "Creator", "deal", "amount", "user-2"}},
			{"empty creator name", [5]string{"user-1", "", "deal", "amount", "user-2"}},
			{"empty deal", [5]string{"user-1", "Creator", "", "amount", "user-2"}},
			{"empty amount", [5]string{"user-1", "Creator", "deal", "", "user-2"}},
			{"empty other user", [5]string{"user-1", "Creator", "deal", "amount", ""}},
			{"whitespace only deal", [5]string{"user-1", "Creator", "   ", "amount", "user-2"}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				f := tc.fields
				_, err := ticket.NewTicket(f[0], f[1], f[2], f[3], f[4], "", time.Now())
				assert.ErrorIs(t, err, ticket.ErrMissingField)
			})
		}
	})

	t.Run("explicit category kept", func(t *testing.T) {
		tk, err := ticket.NewTicket("user-1", "Creator", "deal", "amount", "user-2", ticket.CategoryTrading, time.Now())
		require.NoError(t, err)
		assert.Equal(t, ticket.CategoryTrading, tk.Category())
	})
}

func TestClaim(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("pending ticket is claimable", func(t *testing.T) {
		tk := newPending(t)
		require.NoError(t, tk.Claim("mm-1", "Middleman", now))

		assert.Equal(t, ticket.StatusClaimed, tk.Status())
		require.NotNil(t, tk.ClaimedBy())
		assert.Equal(t, "mm-1", *tk.ClaimedBy())
		require.NotNil(t, tk.ClaimedByName())
		assert.Equal(t, "Middleman", *tk.ClaimedByName())
		require.NotNil(t, tk.ClaimedAt())
		assert.Equal(t, now, *tk.ClaimedAt())
	})

	t.Run("claimed ticket is not claimable", func(t *testing.T) {
		tk := newPending(t)
		require.NoError(t, tk.Claim("mm-1", "Middleman", now))

		err := tk.Claim("mm-2", "Other MM", now)
		assert.ErrorIs(t, err, ticket.ErrNotClaimable)
		assert.Equal(t, "mm-1", *tk.ClaimedBy())
	})

	t.Run("closed ticket is not claimable", func(t *testing.T) {
		tk := newPending(t)
		require.NoError(t, tk.Close())

		assert.ErrorIs(t, tk.Claim("mm-1", "Middleman", now), ticket.ErrNotClaimable)
		assert.Equal(t, ticket.StatusClosed, tk.Status())
	})

	t.Run("claimedAt records first claim only", func(t *testing.T) {
		tk := newPending(t)
		first := now
		require.NoError(t, tk.Claim("mm-1", "Middleman", first))
		require.NoError(t, tk.Unclaim("mm-1"))

		require.Nil(t, tk.ClaimedBy())
		require.NotNil(t, tk.ClaimedAt(), "claimedAt must survive unclaim")

		later := now.Add(time.Hour)
		require.NoError(t, tk.Claim("mm-2", "Other MM", later))
		assert.Equal(t, first, *tk.ClaimedAt(), "claimedAt reflects first claim, not last")
	})
}

func TestUnclaim(t *testing.T) {
	now := time.Now()

	t.Run("claimer releases", func(t *testing.T) {
		tk := newPending(t)
		require.NoError(t, tk.Claim("mm-1", "Middleman", now))
		require.NoError(t, tk.Unclaim("mm-1"))

		assert.Equal(t, ticket.StatusPending, tk.Status())
		assert.Nil(t, tk.ClaimedBy())
		assert.Nil(t, tk.ClaimedByName())
	})

	t.Run("non-claimer cannot release", func(t *testing.T) {
		tk := newPending(t)
		require.NoError(t, tk.Claim("mm-1", "Middleman", now))

		assert.ErrorIs(t, tk.Unclaim("mm-2"), ticket.ErrNotClaimer)
		assert.Equal(t, ticket.StatusClaimed, tk.Status())
		assert.Equal(t, "mm-1", *tk.ClaimedBy())
	})

	t.Run("pending ticket is not claimed", func(t *testing.T) {
		tk := newPending(t)
		assert.ErrorIs(t, tk.Unclaim("mm-1"), ticket.ErrNotClaimed)
	})

	t.Run("closed ticket rejects unclaim", func(t *testing.T) {
		tk := newPending(t)
		require.NoError(t, tk.Claim("mm-1", "Middleman", now))
		require.NoError(t, tk.Close())

		assert.ErrorIs(t, tk.Unclaim("mm-1"), ticket.ErrClosed)
	})
}

func TestClose(t *testing.T) {
	now := time.Now()

	t.Run("pending ticket closes", func(t *testing.T) {
		tk := newPending(t)
		require.NoError(t, tk.Close())
		assert.Equal(t, ticket.StatusClosed, tk.Status())
	})

	t.Run("claimed ticket closes and keeps claimer record", func(t *testing.T) {
		tk := newPending(t)
		require.NoError(t, tk.Claim("mm-1", "Middleman", now))
		require.NoError(t, tk.Close())

		assert.Equal(t, ticket.StatusClosed, tk.Status())
		require.NotNil(t, tk.ClaimedBy())
		assert.Equal(t, "mm-1", *tk.ClaimedBy())
	})

	t.Run("double close fails", func(t *testing.T) {
		tk := newPending(t)
		require.NoError(t, tk.Close())
		assert.ErrorIs(t, tk.Close(), ticket.ErrClosed)
	})
}

func TestReassignCounterparty(t *testing.T) {
	t.Run("reassigns open ticket", func(t *testing.T) {
		tk := newPending(t)
		require.NoError(t, tk.ReassignCounterparty("user-3"))
		assert.Equal(t, "user-3", tk.OtherUserID())
	})

	t.Run("rejects empty id", func(t *testing.T) {
		tk := newPending(t)
		assert.ErrorIs(t, tk.ReassignCounterparty("  "), ticket.ErrMissingField)
	})

	t.Run("rejects closed ticket", func(t *testing.T) {
		tk := newPending(t)
		require.NoError(t, tk.Close())
		assert.ErrorIs(t, tk.ReassignCounterparty("user-3"), ticket.ErrClosed)
	})
}

// status == claimed iff claimedBy != nil, checked after every transition.
func TestClaimedByInvariant(t *testing.T) {
	now := time.Now()
	tk := newPending(t)

	check := func() {
		t.Helper()
		if tk.Status() == ticket.StatusClaimed {
			assert.NotNil(t, tk.ClaimedBy())
		}
		if tk.Status() == ticket.StatusPending {
			assert.Nil(t, tk.ClaimedBy())
		}
	}

	check()
	require.NoError(t, tk.Claim("mm-1", "Middleman", now))
	check()
	require.NoError(t, tk.Unclaim("mm-1"))
	check()
	require.NoError(t, tk.Claim("mm-2", "Other", now))
	check()
	require.NoError(t, tk.Close())
	check()
}

func TestIsParty(t *testing.T) {
	tk := newPending(t)
	assert.True(t, tk.IsParty("user-1"))
	assert.True(t, tk.IsParty("user-2"))
	assert.False(t, tk.IsParty("mm-1"))
}
