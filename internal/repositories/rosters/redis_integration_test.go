//go:build integration
// +build integration

package rosters_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/guildops/raid-roster-discord/internal/entities"
	rosterr "github.com/guildops/raid-roster-discord/internal/errors"
	"github.com/guildops/raid-roster-discord/internal/repositories/rosters"
	"github.com/guildops/raid-roster-discord/internal/testutils"
)

func TestRedisRepository_Integration(t *testing.T) {
	// This test requires Redis to be running
	client := testutils.CreateTestRedisClientOrSkip(t)

	repo := rosters.NewRedisRepository(&rosters.RedisRepoConfig{
		Client: client,
	})

	ctx := context.Background()

	t.Run("counters follow an assignment through its life", func(t *testing.T) {
		a := testutils.CreateTestAssignment("a-1", "raid-life", "player-life", "char-1", "Thunderbrew", entities.AssignmentStatusMain)
		require.NoError(t, repo.Create(ctx, a))
		requireStats(t, ctx, repo, "player-life", 1, 0)

		_, err := repo.UpdateStatus(ctx, "raid-life", "player-life", entities.AssignmentStatusBench)
		require.NoError(t, err)
		requireStats(t, ctx, repo, "player-life", 0, 1)

		_, err = repo.UpdateStatus(ctx, "raid-life", "player-life", entities.AssignmentStatusAbsent)
		require.NoError(t, err)
		requireStats(t, ctx, repo, "player-life", 0, 0)

		_, err = repo.UpdateStatus(ctx, "raid-life", "player-life", entities.AssignmentStatusMain)
		require.NoError(t, err)
		requireStats(t, ctx, repo, "player-life", 1, 0)

		require.NoError(t, repo.Remove(ctx, "raid-life", "player-life"))
		requireStats(t, ctx, repo, "player-life", 0, 0)

		_, err = repo.Get(ctx, "raid-life", "player-life")
		assert.True(t, rosterr.IsNotFound(err))
	})

	t.Run("concurrent creates on one raid all land", func(t *testing.T) {
		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < 10; i++ {
			playerID := fmt.Sprintf("conc-player-%d", i)
			g.Go(func() error {
				a := testutils.CreateTestAssignment("a-"+playerID, "raid-conc", playerID, "char-"+playerID, playerID, entities.AssignmentStatusMain)
				return repo.Create(gctx, a)
			})
		}
		require.NoError(t, g.Wait())

		assignments, err := repo.ListByRaid(ctx, "raid-conc")
		require.NoError(t, err)
		assert.Len(t, assignments, 10)

		for i := 0; i < 10; i++ {
			requireStats(t, ctx, repo, fmt.Sprintf("conc-player-%d", i), 1, 0)
		}
	})

	t.Run("concurrent creates for one player across raids", func(t *testing.T) {
		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < 10; i++ {
			raidID := fmt.Sprintf("raid-multi-%d", i)
			status := entities.AssignmentStatusMain
			if i%2 == 1 {
				status = entities.AssignmentStatusBench
			}
			g.Go(func() error {
				a := testutils.CreateTestAssignment("a-multi-"+raidID, raidID, "player-multi", "char-multi", "Multi", status)
				return repo.Create(gctx, a)
			})
		}
		require.NoError(t, g.Wait())

		requireStats(t, ctx, repo, "player-multi", 5, 5)
	})

	t.Run("racing duplicate creates leave exactly one assignment", func(t *testing.T) {
		results := make(chan error, 2)
		for i := 0; i < 2; i++ {
			go func(n int) {
				a := testutils.CreateTestAssignment(fmt.Sprintf("a-race-%d", n), "raid-race", "player-race", "char-race", "Racer", entities.AssignmentStatusMain)
				results <- repo.Create(ctx, a)
			}(i)
		}

		var failures int
		for i := 0; i < 2; i++ {
			if err := <-results; err != nil {
				assert.True(t, rosterr.IsAlreadyAssigned(err))
				failures++
			}
		}
		assert.Equal(t, 1, failures)

		requireStats(t, ctx, repo, "player-race", 1, 0)
	})

	t.Run("apply swap moves both sides atomically", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, testutils.CreateTestAssignment("a-req", "raid-swap", "player-req", "char-req", "Req", entities.AssignmentStatusMain)))
		require.NoError(t, repo.Create(ctx, testutils.CreateTestAssignment("a-acc", "raid-swap", "player-acc", "char-acc", "Acc", entities.AssignmentStatusBench)))

		require.NoError(t, repo.ApplySwap(ctx, "raid-swap", "player-req", "player-acc"))

		req, err := repo.Get(ctx, "raid-swap", "player-req")
		require.NoError(t, err)
		acc, err := repo.Get(ctx, "raid-swap", "player-acc")
		require.NoError(t, err)
		assert.Equal(t, entities.AssignmentStatusBench, req.Status)
		assert.Equal(t, entities.AssignmentStatusMain, acc.Status)

		requireStats(t, ctx, repo, "player-req", 0, 1)
		requireStats(t, ctx, repo, "player-acc", 1, 0)

		// A second apply finds the requester benched and refuses
		err = repo.ApplySwap(ctx, "raid-swap", "player-req", "player-acc")
		assert.True(t, rosterr.IsNotEligible(err))
	})

	t.Run("delete by raid reverses contributions", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, testutils.CreateTestAssignment("a-d1", "raid-del", "player-d1", "char-d1", "D1", entities.AssignmentStatusMain)))
		require.NoError(t, repo.Create(ctx, testutils.CreateTestAssignment("a-d2", "raid-del", "player-d2", "char-d2", "D2", entities.AssignmentStatusBench)))

		before, err := repo.CountAssignments(ctx)
		require.NoError(t, err)

		require.NoError(t, repo.DeleteByRaid(ctx, "raid-del"))

		requireStats(t, ctx, repo, "player-d1", 0, 0)
		requireStats(t, ctx, repo, "player-d2", 0, 0)

		after, err := repo.CountAssignments(ctx)
		require.NoError(t, err)
		assert.Equal(t, before-2, after)

		assignments, err := repo.ListByRaid(ctx, "raid-del")
		require.NoError(t, err)
		assert.Empty(t, assignments)
	})
}
