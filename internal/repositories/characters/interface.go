package characters

//go:generate mockgen -destination=mock/mock.go -package=mockcharacters -source=interface.go

import (
	"context"

	"github.com/guildops/raid-roster-discord/internal/entities"
)

// Repository defines the interface for character persistence. Character
// names are unique within their owning player, case-insensitively.
type Repository interface {
	// Create stores a new character; the name must be unused by the player
	Create(ctx context.Context, character *entities.Character) error

	// Get retrieves a character by ID
	Get(ctx context.Context, id string) (*entities.Character, error)

	// GetByName retrieves a player's character by name, ignoring case
	GetByName(ctx context.Context, playerID, name string) (*entities.Character, error)

	// ListByPlayer retrieves all characters owned by a player
	ListByPlayer(ctx context.Context, playerID string) ([]*entities.Character, error)

	// Delete removes a character
	Delete(ctx context.Context, id string) error

	// DeleteByPlayer removes every character owned by a player
	DeleteByPlayer(ctx context.Context, playerID string) error
}
