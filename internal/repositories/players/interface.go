package players

//go:generate mockgen -destination=mock/mock.go -package=mockplayers -source=interface.go

import (
	"context"

	"github.com/guildops/raid-roster-discord/internal/entities"
)

// Repository defines the interface for player persistence. Stat counters
// are not stored here; they belong to the roster ledger and are hydrated
// onto the entity by the player service.
type Repository interface {
	// Create stores a new player; the discord ID must be unused
	Create(ctx context.Context, player *entities.Player) error

	// Get retrieves a player by ID
	Get(ctx context.Context, id string) (*entities.Player, error)

	// GetByDiscordID retrieves a player by their Discord account ID
	GetByDiscordID(ctx context.Context, discordID string) (*entities.Player, error)

	// List returns all players in registration order
	List(ctx context.Context) ([]*entities.Player, error)

	// Update updates an existing player
	Update(ctx context.Context, player *entities.Player) error

	// Delete removes a player
	Delete(ctx context.Context, id string) error
}
