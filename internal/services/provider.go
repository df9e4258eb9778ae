package services

import (
	"github.com/guildops/raid-roster-discord/internal/clock"
	"github.com/guildops/raid-roster-discord/internal/repositories/characters"
	"github.com/guildops/raid-roster-discord/internal/repositories/players"
	"github.com/guildops/raid-roster-discord/internal/repositories/raids"
	"github.com/guildops/raid-roster-discord/internal/repositories/rosters"
	"github.com/guildops/raid-roster-discord/internal/repositories/swaps"
	playerService "github.com/guildops/raid-roster-discord/internal/services/player"
	rosterService "github.com/guildops/raid-roster-discord/internal/services/roster"
	swapService "github.com/guildops/raid-roster-discord/internal/services/swap"
	"github.com/guildops/raid-roster-discord/internal/uuid"
)

// Provider holds all service instances
type Provider struct {
	PlayerService playerService.Service
	RosterService rosterService.Service
	SwapService   swapService.Service
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	PlayerRepository    players.Repository
	CharacterRepository characters.Repository
	RaidRepository      raids.Repository
	RosterRepository    rosters.Repository
	SwapRepository      swaps.Repository
	UUIDGenerator       uuid.Generator
	TimeProvider        clock.TimeProvider
	DefaultTimezone     string
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) *Provider {
	// Use in-memory repositories if none provided
	playerRepo := cfg.PlayerRepository
	if playerRepo == nil {
		playerRepo = players.NewInMemoryRepository()
	}

	characterRepo := cfg.CharacterRepository
	if characterRepo == nil {
		characterRepo = characters.NewInMemoryRepository()
	}

	raidRepo := cfg.RaidRepository
	if raidRepo == nil {
		raidRepo = raids.NewInMemoryRepository()
	}

	rosterRepo := cfg.RosterRepository
	if rosterRepo == nil {
		rosterRepo = rosters.NewInMemoryRepository()
	}

	swapRepo := cfg.SwapRepository
	if swapRepo == nil {
		swapRepo = swaps.NewInMemoryRepository()
	}

	plyService := playerService.NewService(&playerService.ServiceConfig{
		PlayerRepository:    playerRepo,
		CharacterRepository: characterRepo,
		RosterRepository:    rosterRepo,
		SwapRepository:      swapRepo,
		UUIDGenerator:       cfg.UUIDGenerator,
		TimeProvider:        cfg.TimeProvider,
	})

	rstService := rosterService.NewService(&rosterService.ServiceConfig{
		RaidRepository:      raidRepo,
		PlayerRepository:    playerRepo,
		CharacterRepository: characterRepo,
		RosterRepository:    rosterRepo,
		SwapRepository:      swapRepo,
		UUIDGenerator:       cfg.UUIDGenerator,
		TimeProvider:        cfg.TimeProvider,
		DefaultTimezone:     cfg.DefaultTimezone,
	})

	swpService := swapService.NewService(&swapService.ServiceConfig{
		RaidRepository:   raidRepo,
		PlayerRepository: playerRepo,
		RosterRepository: rosterRepo,
		SwapRepository:   swapRepo,
		TimeProvider:     cfg.TimeProvider,
	})

	return &Provider{
		PlayerService: plyService,
		RosterService: rstService,
		SwapService:   swpService,
	}
}
