package characters

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/guildops/raid-roster-discord/internal/entities"
	rosterr "github.com/guildops/raid-roster-discord/internal/errors"
)

// InMemoryRepository is an in-memory implementation of the character
// repository. Useful for testing and development.
type InMemoryRepository struct {
	mu         sync.RWMutex
	characters map[string]*entities.Character
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() Repository {
	return &InMemoryRepository{
		characters: make(map[string]*entities.Character),
	}
}

// Create stores a new character, enforcing per-player name uniqueness
func (r *InMemoryRepository) Create(ctx context.Context, character *entities.Character) error {
	if character == nil {
		return rosterr.InvalidArgument("character cannot be nil")
	}
	if character.ID == "" {
		return rosterr.InvalidArgument("character ID is required")
	}
	if character.PlayerID == "" {
		return rosterr.InvalidArgument("character player ID is required")
	}
	if character.Name == "" {
		return rosterr.InvalidArgument("character name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.characters {
		if existing.PlayerID == character.PlayerID && strings.EqualFold(existing.Name, character.Name) {
			return rosterr.AlreadyExistsf("character '%s' is already registered for this player", character.Name).
				WithMeta("player_id", character.PlayerID).
				WithMeta("character_name", character.Name)
		}
	}

	characterCopy := *character
	r.characters[character.ID] = &characterCopy

	return nil
}

// Get retrieves a character by ID
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*entities.Character, error) {
	if id == "" {
		return nil, rosterr.InvalidArgument("character ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	character, exists := r.characters[id]
	if !exists {
		return nil, rosterr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}

	characterCopy := *character
	return &characterCopy, nil
}

// GetByName retrieves a player's character by name, ignoring case
func (r *InMemoryRepository) GetByName(ctx context.Context, playerID, name string) (*entities.Character, error) {
	if playerID == "" {
		return nil, rosterr.InvalidArgument("player ID is required")
	}
	if name == "" {
		return nil, rosterr.InvalidArgument("character name is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, character := range r.characters {
		if character.PlayerID == playerID && strings.EqualFold(character.Name, name) {
			characterCopy := *character
			return &characterCopy, nil
		}
	}

	return nil, rosterr.NotFoundf("character '%s' not found for this player", name).
		WithMeta("player_id", playerID).
		WithMeta("character_name", name)
}

// ListByPlayer retrieves all characters owned by a player, oldest first
func (r *InMemoryRepository) ListByPlayer(ctx context.Context, playerID string) ([]*entities.Character, error) {
	if playerID == "" {
		return nil, rosterr.InvalidArgument("player ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*entities.Character
	for _, character := range r.characters {
		if character.PlayerID == playerID {
			characterCopy := *character
			result = append(result, &characterCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].Name < result[j].Name
	})

	return result, nil
}

// Delete removes a character
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return rosterr.InvalidArgument("character ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.characters[id]; !exists {
		return rosterr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}

	delete(r.characters, id)
	return nil
}

// DeleteByPlayer removes every character owned by a player
func (r *InMemoryRepository) DeleteByPlayer(ctx context.Context, playerID string) error {
	if playerID == "" {
		return rosterr.InvalidArgument("player ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, character := range r.characters {
		if character.PlayerID == playerID {
			delete(r.characters, id)
		}
	}

	return nil
}
