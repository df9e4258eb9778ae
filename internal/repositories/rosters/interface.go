package rosters

//go:generate mockgen -destination=mock/mock.go -package=mockrosters -source=interface.go

import (
	"context"

	"github.com/guildops/raid-roster-discord/internal/entities"
)

// Repository is the roster ledger: it owns assignments AND the eager
// per-player stat counters, so every mutation adjusts both inside one
// transactional unit. A torn write here would desynchronize counters
// from the ledger, which is the one thing this package must never allow.
type Repository interface {
	// Create stores a new assignment and applies its counter contribution.
	// Fails if the (raid, player) pair already has an assignment.
	Create(ctx context.Context, assignment *entities.RosterAssignment) error

	// Get retrieves the assignment for a (raid, player) pair
	Get(ctx context.Context, raidID, playerID string) (*entities.RosterAssignment, error)

	// ListByRaid retrieves all assignments on a raid, unordered
	ListByRaid(ctx context.Context, raidID string) ([]*entities.RosterAssignment, error)

	// ListRaidIDsByPlayer returns the raids a player is assigned to
	ListRaidIDsByPlayer(ctx context.Context, playerID string) ([]string, error)

	// UpdateStatus moves an assignment along the transition table and
	// applies the counter delta. Same-status calls are no-ops; edges
	// outside the table fail InvalidTransition.
	UpdateStatus(ctx context.Context, raidID, playerID string, status entities.AssignmentStatus) (*entities.RosterAssignment, error)

	// Remove deletes an assignment and reverses its counter contribution
	Remove(ctx context.Context, raidID, playerID string) error

	// SwapPair exchanges the character/position/status tuples of two
	// assignments on the same raid, moving counter contributions between
	// the players; both succeed or neither does
	SwapPair(ctx context.Context, raidID, playerIDA, playerIDB string) error

	// ApplySwap commits an approved swap: the requester goes main to
	// bench and the acceptor bench to main as one unit. Fails NotEligible
	// if either no longer holds the required status.
	ApplySwap(ctx context.Context, raidID, requesterID, acceptorID string) error

	// GetStats returns a player's eager counters
	GetStats(ctx context.Context, playerID string) (rostered, benched int, err error)

	// CountAssignments returns the total number of assignments
	CountAssignments(ctx context.Context) (int64, error)

	// DeleteByRaid removes all of a raid's assignments, reversing their
	// counter contributions
	DeleteByRaid(ctx context.Context, raidID string) error

	// DeleteByPlayer removes a player's assignments everywhere along with
	// their stats
	DeleteByPlayer(ctx context.Context, playerID string) error
}
