package player

//go:generate mockgen -destination=mock/mock_service.go -package=mockplayer -source=service.go

import (
	"context"
	"strings"

	"github.com/guildops/raid-roster-discord/internal/clock"
	"github.com/guildops/raid-roster-discord/internal/entities"
	rosterr "github.com/guildops/raid-roster-discord/internal/errors"
	"github.com/guildops/raid-roster-discord/internal/repositories/characters"
	"github.com/guildops/raid-roster-discord/internal/repositories/players"
	"github.com/guildops/raid-roster-discord/internal/repositories/rosters"
	"github.com/guildops/raid-roster-discord/internal/repositories/swaps"
	"github.com/guildops/raid-roster-discord/internal/uuid"
)

// Service defines the player identity and character registry operations
type Service interface {
	// RegisterPlayer creates a player for a Discord account
	RegisterPlayer(ctx context.Context, discordID, name string) (*entities.Player, error)

	// AddCharacter registers a character under the caller's player
	AddCharacter(ctx context.Context, input *AddCharacterInput) (*entities.Character, error)

	// GetPlayerStats returns a player with hydrated counters and their characters
	GetPlayerStats(ctx context.Context, discordID string) (*PlayerStats, error)

	// GetByDiscordID returns the player for a Discord account, counters hydrated
	GetByDiscordID(ctx context.Context, discordID string) (*entities.Player, error)

	// ListPlayers returns all players in registration order, counters hydrated
	ListPlayers(ctx context.Context) ([]*entities.Player, error)

	// ListCharacters returns a player's characters
	ListCharacters(ctx context.Context, discordID string) ([]*entities.Character, error)

	// RemovePlayer deletes a player and everything that references them
	RemovePlayer(ctx context.Context, discordID string) error
}

// AddCharacterInput contains data for registering a character
type AddCharacterInput struct {
	DiscordID string
	Name      string
	Class     string
	Role      string // Optional
}

// PlayerStats bundles a player with their characters for the stats view
type PlayerStats struct {
	Player     *entities.Player
	Characters []*entities.Character
}

// service implements the Service interface
type service struct {
	playerRepo    players.Repository
	characterRepo characters.Repository
	rosterRepo    rosters.Repository
	swapRepo      swaps.Repository
	uuidGenerator uuid.Generator
	timeProvider  clock.TimeProvider
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	PlayerRepository    players.Repository    // Required
	CharacterRepository characters.Repository // Required
	RosterRepository    rosters.Repository    // Required
	SwapRepository      swaps.Repository      // Required
	UUIDGenerator       uuid.Generator        // Optional, will use default if nil
	TimeProvider        clock.TimeProvider    // Optional, will use default if nil
}

// NewService creates a new player service
func NewService(cfg *ServiceConfig) Service {
	if cfg.PlayerRepository == nil {
		panic("player repository is required")
	}
	if cfg.CharacterRepository == nil {
		panic("character repository is required")
	}
	if cfg.RosterRepository == nil {
		panic("roster repository is required")
	}
	if cfg.SwapRepository == nil {
		panic("swap repository is required")
	}

	svc := &service{
		playerRepo:    cfg.PlayerRepository,
		characterRepo: cfg.CharacterRepository,
		rosterRepo:    cfg.RosterRepository,
		swapRepo:      cfg.SwapRepository,
		uuidGenerator: cfg.UUIDGenerator,
		timeProvider:  cfg.TimeProvider,
	}

	if svc.uuidGenerator == nil {
		svc.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}
	if svc.timeProvider == nil {
		svc.timeProvider = clock.NewRealTimeProvider()
	}

	return svc
}

// RegisterPlayer creates a player for a Discord account
func (s *service) RegisterPlayer(ctx context.Context, discordID, name string) (*entities.Player, error) {
	if strings.TrimSpace(discordID) == "" {
		return nil, rosterr.InvalidArgument("discord ID is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, rosterr.InvalidArgument("player name is required")
	}

	player := &entities.Player{
		ID:        s.uuidGenerator.New(),
		DiscordID: discordID,
		Name:      strings.TrimSpace(name),
		CreatedAt: s.timeProvider.Now(),
	}

	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, rosterr.Wrapf(err, "failed to register player '%s'", player.Name).
			WithMeta("discord_id", discordID)
	}

	return player, nil
}

// AddCharacter registers a character under the caller's player
func (s *service) AddCharacter(ctx context.Context, input *AddCharacterInput) (*entities.Character, error) {
	if input == nil {
		return nil, rosterr.InvalidArgument("input cannot be nil")
	}
	if strings.TrimSpace(input.DiscordID) == "" {
		return nil, rosterr.InvalidArgument("discord ID is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, rosterr.InvalidArgument("character name is required")
	}

	class, ok := entities.ParseClass(input.Class)
	if !ok {
		return nil, rosterr.InvalidClassf("unknown class '%s'", input.Class).
			WithMeta("class", input.Class)
	}

	role, ok := entities.ParseRole(input.Role)
	if !ok {
		return nil, rosterr.InvalidRolef("unknown role '%s'", input.Role).
			WithMeta("role", input.Role)
	}

	player, err := s.playerRepo.GetByDiscordID(ctx, input.DiscordID)
	if err != nil {
		return nil, rosterr.Wrap(err, "failed to resolve player").
			WithMeta("discord_id", input.DiscordID)
	}

	character := &entities.Character{
		ID:        s.uuidGenerator.New(),
		PlayerID:  player.ID,
		Name:      strings.TrimSpace(input.Name),
		Class:     class,
		Role:      role,
		CreatedAt: s.timeProvider.Now(),
	}

	if err := s.characterRepo.Create(ctx, character); err != nil {
		return nil, rosterr.Wrapf(err, "failed to add character '%s'", character.Name).
			WithMeta("player_id", player.ID)
	}

	return character, nil
}

// GetPlayerStats returns a player with hydrated counters and their characters
func (s *service) GetPlayerStats(ctx context.Context, discordID string) (*PlayerStats, error) {
	player, err := s.GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, err
	}

	characterList, err := s.characterRepo.ListByPlayer(ctx, player.ID)
	if err != nil {
		return nil, rosterr.Wrap(err, "failed to list characters").
			WithMeta("player_id", player.ID)
	}

	return &PlayerStats{
		Player:     player,
		Characters: characterList,
	}, nil
}

// GetByDiscordID returns the player for a Discord account, counters hydrated
func (s *service) GetByDiscordID(ctx context.Context, discordID string) (*entities.Player, error) {
	if strings.TrimSpace(discordID) == "" {
		return nil, rosterr.InvalidArgument("discord ID is required")
	}

	player, err := s.playerRepo.GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, rosterr.Wrap(err, "failed to resolve player").
			WithMeta("discord_id", discordID)
	}

	if err := s.hydrateCounters(ctx, player); err != nil {
		return nil, err
	}

	return player, nil
}

// ListPlayers returns all players in registration order, counters hydrated
func (s *service) ListPlayers(ctx context.Context) ([]*entities.Player, error) {
	playerList, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, rosterr.Wrap(err, "failed to list players")
	}

	for _, player := range playerList {
		if err := s.hydrateCounters(ctx, player); err != nil {
			return nil, err
		}
	}

	return playerList, nil
}

// ListCharacters returns a player's characters
func (s *service) ListCharacters(ctx context.Context, discordID string) ([]*entities.Character, error) {
	if strings.TrimSpace(discordID) == "" {
		return nil, rosterr.InvalidArgument("discord ID is required")
	}

	player, err := s.playerRepo.GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, rosterr.Wrap(err, "failed to resolve player").
			WithMeta("discord_id", discordID)
	}

	characterList, err := s.characterRepo.ListByPlayer(ctx, player.ID)
	if err != nil {
		return nil, rosterr.Wrap(err, "failed to list characters").
			WithMeta("player_id", player.ID)
	}

	return characterList, nil
}

// RemovePlayer deletes a player and everything that references them:
// roster assignments with their counter rows, swap requests on either
// side, characters, then the player record itself.
func (s *service) RemovePlayer(ctx context.Context, discordID string) error {
	if strings.TrimSpace(discordID) == "" {
		return rosterr.InvalidArgument("discord ID is required")
	}

	player, err := s.playerRepo.GetByDiscordID(ctx, discordID)
	if err != nil {
		return rosterr.Wrap(err, "failed to resolve player").
			WithMeta("discord_id", discordID)
	}

	if err := s.rosterRepo.DeleteByPlayer(ctx, player.ID); err != nil {
		return rosterr.Wrap(err, "failed to delete roster assignments").
			WithMeta("player_id", player.ID)
	}
	if err := s.swapRepo.DeleteByPlayer(ctx, player.ID); err != nil {
		return rosterr.Wrap(err, "failed to delete swap requests").
			WithMeta("player_id", player.ID)
	}
	if err := s.characterRepo.DeleteByPlayer(ctx, player.ID); err != nil {
		return rosterr.Wrap(err, "failed to delete characters").
			WithMeta("player_id", player.ID)
	}
	if err := s.playerRepo.Delete(ctx, player.ID); err != nil {
		return rosterr.Wrap(err, "failed to delete player").
			WithMeta("player_id", player.ID)
	}

	return nil
}

// hydrateCounters fills the eager stat counters from the roster ledger
func (s *service) hydrateCounters(ctx context.Context, player *entities.Player) error {
	rostered, benched, err := s.rosterRepo.GetStats(ctx, player.ID)
	if err != nil {
		return rosterr.Wrap(err, "failed to load player stats").
			WithMeta("player_id", player.ID)
	}

	player.TotalRostered = rostered
	player.TotalBenched = benched
	return nil
}
