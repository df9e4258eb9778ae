package swaps_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildops/raid-roster-discord/internal/entities"
	rosterr "github.com/guildops/raid-roster-discord/internal/errors"
	"github.com/guildops/raid-roster-discord/internal/repositories/swaps"
)

func setup(t *testing.T) (swaps.Repository, context.Context) {
	t.Helper()
	return swaps.NewInMemoryRepository(), context.Background()
}

func pendingRequest(raidID, playerID string) *entities.SwapRequest {
	return &entities.SwapRequest{
		RaidID:             raidID,
		RequestingPlayerID: playerID,
		Reason:             "conflict that night",
		Status:             entities.SwapStatusPending,
		CreatedAt:          time.Now(),
	}
}

func TestInMemoryRepository_Create(t *testing.T) {
	t.Run("assigns sequential IDs", func(t *testing.T) {
		repo, ctx := setup(t)

		first := pendingRequest("raid-1", "player-1")
		require.NoError(t, repo.Create(ctx, first))
		assert.EqualValues(t, 1, first.ID)

		second := pendingRequest("raid-1", "player-2")
		require.NoError(t, repo.Create(ctx, second))
		assert.EqualValues(t, 2, second.ID)
	})

	t.Run("rejects a second open request by the same player on one raid", func(t *testing.T) {
		repo, ctx := setup(t)

		require.NoError(t, repo.Create(ctx, pendingRequest("raid-1", "player-1")))

		err := repo.Create(ctx, pendingRequest("raid-1", "player-1"))
		assert.Error(t, err)
		assert.True(t, rosterr.IsAlreadyExists(err))
		assert.Equal(t, "1", rosterr.GetMeta(err)["request_id"])
	})

	t.Run("allows open requests on different raids", func(t *testing.T) {
		repo, ctx := setup(t)

		require.NoError(t, repo.Create(ctx, pendingRequest("raid-1", "player-1")))
		require.NoError(t, repo.Create(ctx, pendingRequest("raid-2", "player-1")))
	})

	t.Run("allows a new request once the previous one resolved", func(t *testing.T) {
		repo, ctx := setup(t)

		first := pendingRequest("raid-1", "player-1")
		require.NoError(t, repo.Create(ctx, first))

		require.True(t, first.Cancel(time.Now()))
		require.NoError(t, repo.Update(ctx, first))

		err := repo.Create(ctx, pendingRequest("raid-1", "player-1"))
		assert.NoError(t, err)
	})

	t.Run("rejects terminal statuses at create", func(t *testing.T) {
		repo, ctx := setup(t)

		request := pendingRequest("raid-1", "player-1")
		request.Status = entities.SwapStatusDenied

		err := repo.Create(ctx, request)
		assert.Error(t, err)
		assert.True(t, rosterr.IsInvalidArgument(err))
	})
}

func TestInMemoryRepository_Update(t *testing.T) {
	t.Run("persists lifecycle changes", func(t *testing.T) {
		repo, ctx := setup(t)

		request := pendingRequest("raid-1", "player-1")
		require.NoError(t, repo.Create(ctx, request))

		require.True(t, request.Accept("player-2"))
		require.NoError(t, repo.Update(ctx, request))

		got, err := repo.Get(ctx, request.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.SwapStatusAccepted, got.Status)
		assert.Equal(t, "player-2", got.AcceptingPlayerID)
	})

	t.Run("returns not found for unknown request", func(t *testing.T) {
		repo, ctx := setup(t)

		request := pendingRequest("raid-1", "player-1")
		request.ID = 99

		err := repo.Update(ctx, request)
		assert.Error(t, err)
		assert.True(t, rosterr.IsNotFound(err))
	})
}

func TestInMemoryRepository_Lists(t *testing.T) {
	t.Run("list open returns oldest first and drops resolved requests", func(t *testing.T) {
		repo, ctx := setup(t)

		first := pendingRequest("raid-1", "player-1")
		second := pendingRequest("raid-1", "player-2")
		third := pendingRequest("raid-2", "player-3")
		require.NoError(t, repo.Create(ctx, first))
		require.NoError(t, repo.Create(ctx, second))
		require.NoError(t, repo.Create(ctx, third))

		require.True(t, second.Deny("covered elsewhere", time.Now()))
		require.NoError(t, repo.Update(ctx, second))

		open, err := repo.ListOpen(ctx)
		require.NoError(t, err)
		require.Len(t, open, 2)
		assert.Equal(t, first.ID, open[0].ID)
		assert.Equal(t, third.ID, open[1].ID)

		count, err := repo.CountOpen(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
	})

	t.Run("list by player covers both sides of a request", func(t *testing.T) {
		repo, ctx := setup(t)

		request := pendingRequest("raid-1", "player-1")
		require.NoError(t, repo.Create(ctx, request))
		require.True(t, request.Accept("player-2"))
		require.NoError(t, repo.Update(ctx, request))

		asRequester, err := repo.ListByPlayer(ctx, "player-1")
		require.NoError(t, err)
		assert.Len(t, asRequester, 1)

		asAcceptor, err := repo.ListByPlayer(ctx, "player-2")
		require.NoError(t, err)
		assert.Len(t, asAcceptor, 1)

		uninvolved, err := repo.ListByPlayer(ctx, "player-3")
		require.NoError(t, err)
		assert.Empty(t, uninvolved)
	})

	t.Run("list by raid", func(t *testing.T) {
		repo, ctx := setup(t)

		require.NoError(t, repo.Create(ctx, pendingRequest("raid-1", "player-1")))
		require.NoError(t, repo.Create(ctx, pendingRequest("raid-2", "player-2")))

		requests, err := repo.ListByRaid(ctx, "raid-1")
		require.NoError(t, err)
		assert.Len(t, requests, 1)
		assert.Equal(t, "player-1", requests[0].RequestingPlayerID)
	})
}

func TestInMemoryRepository_Cascades(t *testing.T) {
	t.Run("delete by raid clears requests and markers", func(t *testing.T) {
		repo, ctx := setup(t)

		require.NoError(t, repo.Create(ctx, pendingRequest("raid-1", "player-1")))
		require.NoError(t, repo.Create(ctx, pendingRequest("raid-2", "player-1")))

		require.NoError(t, repo.DeleteByRaid(ctx, "raid-1"))

		requests, err := repo.ListByRaid(ctx, "raid-1")
		require.NoError(t, err)
		assert.Empty(t, requests)

		// The marker is gone, so a fresh request goes through
		assert.NoError(t, repo.Create(ctx, pendingRequest("raid-1", "player-1")))

		// The other raid is untouched
		remaining, err := repo.ListByRaid(ctx, "raid-2")
		require.NoError(t, err)
		assert.Len(t, remaining, 1)
	})

	t.Run("delete by player removes requests they accepted", func(t *testing.T) {
		repo, ctx := setup(t)

		request := pendingRequest("raid-1", "player-1")
		require.NoError(t, repo.Create(ctx, request))
		require.True(t, request.Accept("player-2"))
		require.NoError(t, repo.Update(ctx, request))

		require.NoError(t, repo.DeleteByPlayer(ctx, "player-2"))

		_, err := repo.Get(ctx, request.ID)
		assert.True(t, rosterr.IsNotFound(err))
	})
}
