package players

import (
	"context"
	"sort"
	"sync"

	"github.com/guildops/raid-roster-discord/internal/entities"
	rosterr "github.com/guildops/raid-roster-discord/internal/errors"
)

// InMemoryRepository is an in-memory implementation of the player repository.
// Useful for testing and development.
type InMemoryRepository struct {
	mu        sync.RWMutex
	players   map[string]*entities.Player
	byDiscord map[string]string
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() Repository {
	return &InMemoryRepository{
		players:   make(map[string]*entities.Player),
		byDiscord: make(map[string]string),
	}
}

// Create stores a new player, enforcing Discord ID uniqueness
func (r *InMemoryRepository) Create(ctx context.Context, player *entities.Player) error {
	if player == nil {
		return rosterr.InvalidArgument("player cannot be nil")
	}
	if player.ID == "" {
		return rosterr.InvalidArgument("player ID is required")
	}
	if player.DiscordID == "" {
		return rosterr.InvalidArgument("player discord ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byDiscord[player.DiscordID]; exists {
		return rosterr.AlreadyExistsf("player with discord ID '%s' is already registered", player.DiscordID).
			WithMeta("discord_id", player.DiscordID)
	}

	// Create a copy to avoid external modifications
	playerCopy := *player
	r.players[player.ID] = &playerCopy
	r.byDiscord[player.DiscordID] = player.ID

	return nil
}

// Get retrieves a player by ID
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*entities.Player, error) {
	if id == "" {
		return nil, rosterr.InvalidArgument("player ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	player, exists := r.players[id]
	if !exists {
		return nil, rosterr.NotFoundf("player with ID '%s' not found", id).
			WithMeta("player_id", id)
	}

	playerCopy := *player
	return &playerCopy, nil
}

// GetByDiscordID retrieves a player by their Discord account ID
func (r *InMemoryRepository) GetByDiscordID(ctx context.Context, discordID string) (*entities.Player, error) {
	if discordID == "" {
		return nil, rosterr.InvalidArgument("discord ID is required")
	}

	r.mu.RLock()
	id, exists := r.byDiscord[discordID]
	r.mu.RUnlock()

	if !exists {
		return nil, rosterr.NotFoundf("no player registered for discord ID '%s'", discordID).
			WithMeta("discord_id", discordID)
	}

	return r.Get(ctx, id)
}

// List returns all players in registration order
func (r *InMemoryRepository) List(ctx context.Context) ([]*entities.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.Player, 0, len(r.players))
	for _, player := range r.players {
		playerCopy := *player
		result = append(result, &playerCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

// Update updates an existing player, preserving identity fields
func (r *InMemoryRepository) Update(ctx context.Context, player *entities.Player) error {
	if player == nil {
		return rosterr.InvalidArgument("player cannot be nil")
	}
	if player.ID == "" {
		return rosterr.InvalidArgument("player ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.players[player.ID]
	if !exists {
		return rosterr.NotFoundf("player with ID '%s' not found", player.ID).
			WithMeta("player_id", player.ID)
	}

	playerCopy := *player
	playerCopy.DiscordID = existing.DiscordID
	playerCopy.CreatedAt = existing.CreatedAt
	r.players[player.ID] = &playerCopy

	return nil
}

// Delete removes a player
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return rosterr.InvalidArgument("player ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	player, exists := r.players[id]
	if !exists {
		return rosterr.NotFoundf("player with ID '%s' not found", id).
			WithMeta("player_id", id)
	}

	delete(r.byDiscord, player.DiscordID)
	delete(r.players, id)
	return nil
}
