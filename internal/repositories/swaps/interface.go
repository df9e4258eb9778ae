package swaps

//go:generate mockgen -destination=mock/mock.go -package=mockswaps -source=interface.go

import (
	"context"

	"github.com/guildops/raid-roster-discord/internal/entities"
)

// Repository provides persistence for swap requests. Requests carry
// numeric sequence IDs assigned at create time, and the store maintains
// an open-request marker per (raid, requesting player) so duplicates are
// rejected where the race would happen.
type Repository interface {
	// Create assigns the next sequence ID to the request and stores it.
	// Returns an already-exists error when the requesting player still
	// has an open request on the same raid.
	Create(ctx context.Context, request *entities.SwapRequest) error

	// Get retrieves a swap request by its numeric ID
	Get(ctx context.Context, id int64) (*entities.SwapRequest, error)

	// Update persists a request after a lifecycle change, keeping the
	// open-request bookkeeping in line with the new status
	Update(ctx context.Context, request *entities.SwapRequest) error

	// ListByRaid returns all requests on a raid, oldest first
	ListByRaid(ctx context.Context, raidID string) ([]*entities.SwapRequest, error)

	// ListByPlayer returns all requests a player is party to, as
	// requester or acceptor, oldest first
	ListByPlayer(ctx context.Context, playerID string) ([]*entities.SwapRequest, error)

	// ListOpen returns all pending and accepted requests, oldest first
	ListOpen(ctx context.Context) ([]*entities.SwapRequest, error)

	// CountOpen returns the number of open requests
	CountOpen(ctx context.Context) (int64, error)

	// DeleteByRaid removes every request on a raid
	DeleteByRaid(ctx context.Context, raidID string) error

	// DeleteByPlayer removes every request a player is party to
	DeleteByPlayer(ctx context.Context, playerID string) error
}
