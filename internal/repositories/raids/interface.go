package raids

//go:generate mockgen -destination=mock/mock.go -package=mockraids -source=interface.go

import (
	"context"

	"github.com/guildops/raid-roster-discord/internal/entities"
)

// Repository defines the interface for raid persistence. Raids are unique
// by canonical date and list in date order.
type Repository interface {
	// Create stores a new raid; the canonical date must be unused
	Create(ctx context.Context, raid *entities.Raid) error

	// Get retrieves a raid by ID
	Get(ctx context.Context, id string) (*entities.Raid, error)

	// GetByDate retrieves a raid by its canonical date
	GetByDate(ctx context.Context, date string) (*entities.Raid, error)

	// List returns all raids ordered by date ascending
	List(ctx context.Context) ([]*entities.Raid, error)

	// ListBetween returns raids with from <= date < until, date ascending
	ListBetween(ctx context.Context, from, until string) ([]*entities.Raid, error)

	// Delete removes a raid
	Delete(ctx context.Context, id string) error
}
