package player_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	clockmock "github.com/guildops/raid-roster-discord/internal/clock/mocks"
	"github.com/guildops/raid-roster-discord/internal/entities"
	rosterr "github.com/guildops/raid-roster-discord/internal/errors"
	"github.com/guildops/raid-roster-discord/internal/repositories/characters"
	"github.com/guildops/raid-roster-discord/internal/repositories/players"
	"github.com/guildops/raid-roster-discord/internal/repositories/rosters"
	"github.com/guildops/raid-roster-discord/internal/repositories/swaps"
	"github.com/guildops/raid-roster-discord/internal/services/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// MockUUIDGenerator hands out predictable sequential IDs
type MockUUIDGenerator struct {
	prefix  string
	counter int
}

func NewMockUUIDGenerator(prefix string) *MockUUIDGenerator {
	return &MockUUIDGenerator{prefix: prefix}
}

func (m *MockUUIDGenerator) New() string {
	m.counter++
	return fmt.Sprintf("%s-%d", m.prefix, m.counter)
}

type fixture struct {
	svc        player.Service
	players    players.Repository
	characters characters.Repository
	rosters    rosters.Repository
	swaps      swaps.Repository
	now        time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	now := time.Date(2024, 2, 19, 18, 30, 0, 0, time.UTC)
	timeProvider := clockmock.NewMockTimeProvider(ctrl)
	timeProvider.EXPECT().Now().Return(now).AnyTimes()

	f := &fixture{
		players:    players.NewInMemoryRepository(),
		characters: characters.NewInMemoryRepository(),
		rosters:    rosters.NewInMemoryRepository(),
		swaps:      swaps.NewInMemoryRepository(),
		now:        now,
	}
	f.svc = player.NewService(&player.ServiceConfig{
		PlayerRepository:    f.players,
		CharacterRepository: f.characters,
		RosterRepository:    f.rosters,
		SwapRepository:      f.swaps,
		UUIDGenerator:       NewMockUUIDGenerator("uuid"),
		TimeProvider:        timeProvider,
	})

	return f
}

func TestRegisterPlayer(t *testing.T) {
	ctx := context.Background()

	t.Run("registers a new player", func(t *testing.T) {
		f := newFixture(t)

		registered, err := f.svc.RegisterPlayer(ctx, "discord-1", "  Thrall  ")
		require.NoError(t, err)
		assert.Equal(t, "uuid-1", registered.ID)
		assert.Equal(t, "discord-1", registered.DiscordID)
		assert.Equal(t, "Thrall", registered.Name)
		assert.Equal(t, f.now, registered.CreatedAt)
	})

	t.Run("rejects a second registration for the same account", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.RegisterPlayer(ctx, "discord-1", "Thrall")
		require.NoError(t, err)

		_, err = f.svc.RegisterPlayer(ctx, "discord-1", "Thrall Again")
		require.Error(t, err)
		assert.True(t, rosterr.IsAlreadyExists(err))
	})

	t.Run("requires discord ID and name", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.RegisterPlayer(ctx, "", "Thrall")
		assert.True(t, rosterr.IsInvalidArgument(err))

		_, err = f.svc.RegisterPlayer(ctx, "discord-1", "   ")
		assert.True(t, rosterr.IsInvalidArgument(err))
	})
}

func TestAddCharacter(t *testing.T) {
	ctx := context.Background()

	register := func(t *testing.T, f *fixture, discordID, name string) {
		t.Helper()
		_, err := f.svc.RegisterPlayer(ctx, discordID, name)
		require.NoError(t, err)
	}

	t.Run("adds a character with case-insensitive class and role", func(t *testing.T) {
		f := newFixture(t)
		register(t, f, "discord-1", "Thrall")

		created, err := f.svc.AddCharacter(ctx, &player.AddCharacterInput{
			DiscordID: "discord-1",
			Name:      "ThrallMain",
			Class:     "warlock",
			Role:      "dps",
		})
		require.NoError(t, err)
		assert.Equal(t, entities.ClassWarlock, created.Class)
		assert.Equal(t, entities.RoleDPS, created.Role)
		assert.Equal(t, "uuid-1", created.PlayerID)
	})

	t.Run("role is optional", func(t *testing.T) {
		f := newFixture(t)
		register(t, f, "discord-1", "Thrall")

		created, err := f.svc.AddCharacter(ctx, &player.AddCharacterInput{
			DiscordID: "discord-1",
			Name:      "ThrallAlt",
			Class:     "Shaman",
		})
		require.NoError(t, err)
		assert.Equal(t, entities.RoleNone, created.Role)
	})

	t.Run("rejects an unknown class", func(t *testing.T) {
		f := newFixture(t)
		register(t, f, "discord-1", "Thrall")

		_, err := f.svc.AddCharacter(ctx, &player.AddCharacterInput{
			DiscordID: "discord-1",
			Name:      "ThrallMain",
			Class:     "Necromancer",
		})
		require.Error(t, err)
		assert.True(t, rosterr.IsInvalidClass(err))
	})

	t.Run("rejects an unknown role", func(t *testing.T) {
		f := newFixture(t)
		register(t, f, "discord-1", "Thrall")

		_, err := f.svc.AddCharacter(ctx, &player.AddCharacterInput{
			DiscordID: "discord-1",
			Name:      "ThrallMain",
			Class:     "Shaman",
			Role:      "Support",
		})
		require.Error(t, err)
		assert.True(t, rosterr.IsInvalidRole(err))
	})

	t.Run("fails for an unregistered player", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.AddCharacter(ctx, &player.AddCharacterInput{
			DiscordID: "discord-9",
			Name:      "Ghost",
			Class:     "Rogue",
		})
		require.Error(t, err)
		assert.True(t, rosterr.IsNotFound(err))
	})

	t.Run("rejects a duplicate name for the same player only", func(t *testing.T) {
		f := newFixture(t)
		register(t, f, "discord-1", "Thrall")
		register(t, f, "discord-2", "Jaina")

		_, err := f.svc.AddCharacter(ctx, &player.AddCharacterInput{
			DiscordID: "discord-1",
			Name:      "Frosty",
			Class:     "Mage",
		})
		require.NoError(t, err)

		_, err = f.svc.AddCharacter(ctx, &player.AddCharacterInput{
			DiscordID: "discord-1",
			Name:      "frosty",
			Class:     "Mage",
		})
		require.Error(t, err)
		assert.True(t, rosterr.IsAlreadyExists(err))

		_, err = f.svc.AddCharacter(ctx, &player.AddCharacterInput{
			DiscordID: "discord-2",
			Name:      "Frosty",
			Class:     "Mage",
		})
		require.NoError(t, err)
	})
}

func TestGetPlayerStats(t *testing.T) {
	ctx := context.Background()

	t.Run("hydrates counters from the roster ledger", func(t *testing.T) {
		f := newFixture(t)

		registered, err := f.svc.RegisterPlayer(ctx, "discord-1", "Thrall")
		require.NoError(t, err)

		main, err := f.svc.AddCharacter(ctx, &player.AddCharacterInput{
			DiscordID: "discord-1",
			Name:      "ThrallMain",
			Class:     "Shaman",
			Role:      "Healer",
		})
		require.NoError(t, err)

		require.NoError(t, f.rosters.Create(ctx, &entities.RosterAssignment{
			ID: "a-1", RaidID: "raid-1", PlayerID: registered.ID,
			CharacterID: main.ID, CharacterName: main.Name,
			Status: entities.AssignmentStatusMain, CreatedAt: f.now,
		}))
		require.NoError(t, f.rosters.Create(ctx, &entities.RosterAssignment{
			ID: "a-2", RaidID: "raid-2", PlayerID: registered.ID,
			CharacterID: main.ID, CharacterName: main.Name,
			Status: entities.AssignmentStatusBench, CreatedAt: f.now,
		}))

		stats, err := f.svc.GetPlayerStats(ctx, "discord-1")
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Player.TotalRostered)
		assert.Equal(t, 1, stats.Player.TotalBenched)
		require.Len(t, stats.Characters, 1)
		assert.Equal(t, "ThrallMain", stats.Characters[0].Name)
	})

	t.Run("fresh player has zero counters", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.RegisterPlayer(ctx, "discord-1", "Thrall")
		require.NoError(t, err)

		stats, err := f.svc.GetPlayerStats(ctx, "discord-1")
		require.NoError(t, err)
		assert.Zero(t, stats.Player.TotalRostered)
		assert.Zero(t, stats.Player.TotalBenched)
		assert.Empty(t, stats.Characters)
	})
}

func TestListPlayers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.svc.RegisterPlayer(ctx, "discord-1", "Thrall")
	require.NoError(t, err)
	_, err = f.svc.RegisterPlayer(ctx, "discord-2", "Jaina")
	require.NoError(t, err)

	require.NoError(t, f.rosters.Create(ctx, &entities.RosterAssignment{
		ID: "a-1", RaidID: "raid-1", PlayerID: first.ID,
		CharacterID: "c-1", CharacterName: "ThrallMain",
		Status: entities.AssignmentStatusMain, CreatedAt: f.now,
	}))

	listed, err := f.svc.ListPlayers(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "Thrall", listed[0].Name)
	assert.Equal(t, 1, listed[0].TotalRostered)
	assert.Equal(t, "Jaina", listed[1].Name)
	assert.Zero(t, listed[1].TotalRostered)
}

func TestRemovePlayer(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the player and everything referencing them", func(t *testing.T) {
		f := newFixture(t)

		registered, err := f.svc.RegisterPlayer(ctx, "discord-1", "Thrall")
		require.NoError(t, err)
		_, err = f.svc.AddCharacter(ctx, &player.AddCharacterInput{
			DiscordID: "discord-1",
			Name:      "ThrallMain",
			Class:     "Shaman",
		})
		require.NoError(t, err)

		require.NoError(t, f.rosters.Create(ctx, &entities.RosterAssignment{
			ID: "a-1", RaidID: "raid-1", PlayerID: registered.ID,
			CharacterID: "uuid-2", CharacterName: "ThrallMain",
			Status: entities.AssignmentStatusMain, CreatedAt: f.now,
		}))
		require.NoError(t, f.swaps.Create(ctx, &entities.SwapRequest{
			RaidID:             "raid-1",
			RequestingPlayerID: registered.ID,
			Status:             entities.SwapStatusPending,
			CreatedAt:          f.now,
		}))

		require.NoError(t, f.svc.RemovePlayer(ctx, "discord-1"))

		_, err = f.svc.GetByDiscordID(ctx, "discord-1")
		assert.True(t, rosterr.IsNotFound(err))

		remaining, err := f.characters.ListByPlayer(ctx, registered.ID)
		require.NoError(t, err)
		assert.Empty(t, remaining)

		total, err := f.rosters.CountAssignments(ctx)
		require.NoError(t, err)
		assert.Zero(t, total)

		_, err = f.swaps.Get(ctx, 1)
		assert.True(t, rosterr.IsNotFound(err))
	})

	t.Run("fails for an unknown player", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.RemovePlayer(ctx, "discord-9")
		require.Error(t, err)
		assert.True(t, rosterr.IsNotFound(err))
	})
}
