package rosters

import (
	"context"
	"sync"

	"github.com/guildops/raid-roster-discord/internal/entities"
	rosterr "github.com/guildops/raid-roster-discord/internal/errors"
)

type playerStats struct {
	rostered int
	benched  int
}

// InMemoryRepository is an in-memory implementation of the roster ledger.
// Useful for testing and development.
type InMemoryRepository struct {
	mu          sync.RWMutex
	assignments map[string]*entities.RosterAssignment
	stats       map[string]*playerStats
	total       int64
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() Repository {
	return &InMemoryRepository{
		assignments: make(map[string]*entities.RosterAssignment),
		stats:       make(map[string]*playerStats),
	}
}

func (r *InMemoryRepository) key(raidID, playerID string) string {
	return raidID + "/" + playerID
}

// addStats adjusts a player's counters while holding the write lock
func (r *InMemoryRepository) addStats(playerID string, rostered, benched int) {
	s, ok := r.stats[playerID]
	if !ok {
		s = &playerStats{}
		r.stats[playerID] = s
	}
	s.rostered += rostered
	s.benched += benched
}

// Create stores a new assignment and applies its counter contribution
func (r *InMemoryRepository) Create(ctx context.Context, assignment *entities.RosterAssignment) error {
	if assignment == nil {
		return rosterr.InvalidArgument("assignment cannot be nil")
	}
	if assignment.ID == "" {
		return rosterr.InvalidArgument("assignment ID is required")
	}
	if assignment.RaidID == "" || assignment.PlayerID == "" {
		return rosterr.InvalidArgument("assignment raid and player IDs are required")
	}
	if !assignment.Status.IsValid() {
		return rosterr.InvalidArgumentf("invalid assignment status '%s'", assignment.Status)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.key(assignment.RaidID, assignment.PlayerID)
	if _, exists := r.assignments[key]; exists {
		return rosterr.AlreadyAssignedf("player already has a roster assignment on this raid").
			WithMeta("raid_id", assignment.RaidID).
			WithMeta("player_id", assignment.PlayerID)
	}

	assignmentCopy := *assignment
	if assignment.Position != nil {
		position := *assignment.Position
		assignmentCopy.Position = &position
	}
	r.assignments[key] = &assignmentCopy

	rostered, benched := assignment.Status.StatContribution()
	r.addStats(assignment.PlayerID, rostered, benched)
	r.total++

	return nil
}

// Get retrieves the assignment for a (raid, player) pair
func (r *InMemoryRepository) Get(ctx context.Context, raidID, playerID string) (*entities.RosterAssignment, error) {
	if raidID == "" || playerID == "" {
		return nil, rosterr.InvalidArgument("raid and player IDs are required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.getLocked(raidID, playerID)
}

// getLocked fetches a copy of an assignment; callers must hold a lock
func (r *InMemoryRepository) getLocked(raidID, playerID string) (*entities.RosterAssignment, error) {
	assignment, exists := r.assignments[r.key(raidID, playerID)]
	if !exists {
		return nil, rosterr.NotFoundf("no roster assignment for this player on this raid").
			WithMeta("raid_id", raidID).
			WithMeta("player_id", playerID)
	}

	assignmentCopy := *assignment
	if assignment.Position != nil {
		position := *assignment.Position
		assignmentCopy.Position = &position
	}
	return &assignmentCopy, nil
}

// ListByRaid retrieves all assignments on a raid, unordered
func (r *InMemoryRepository) ListByRaid(ctx context.Context, raidID string) ([]*entities.RosterAssignment, error) {
	if raidID == "" {
		return nil, rosterr.InvalidArgument("raid ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*entities.RosterAssignment
	for _, assignment := range r.assignments {
		if assignment.RaidID != raidID {
			continue
		}
		assignmentCopy := *assignment
		if assignment.Position != nil {
			position := *assignment.Position
			assignmentCopy.Position = &position
		}
		result = append(result, &assignmentCopy)
	}

	return result, nil
}

// ListRaidIDsByPlayer returns the raids a player is assigned to
func (r *InMemoryRepository) ListRaidIDsByPlayer(ctx context.Context, playerID string) ([]string, error) {
	if playerID == "" {
		return nil, rosterr.InvalidArgument("player ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var raidIDs []string
	for _, assignment := range r.assignments {
		if assignment.PlayerID == playerID {
			raidIDs = append(raidIDs, assignment.RaidID)
		}
	}

	return raidIDs, nil
}

// UpdateStatus moves an assignment along the transition table and applies
// the counter delta. Same-status calls are accepted no-ops.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, raidID, playerID string, status entities.AssignmentStatus) (*entities.RosterAssignment, error) {
	if raidID == "" || playerID == "" {
		return nil, rosterr.InvalidArgument("raid and player IDs are required")
	}
	if !status.IsValid() {
		return nil, rosterr.InvalidArgumentf("invalid assignment status '%s'", status)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	assignment, exists := r.assignments[r.key(raidID, playerID)]
	if !exists {
		return nil, rosterr.NotFoundf("no roster assignment for this player on this raid").
			WithMeta("raid_id", raidID).
			WithMeta("player_id", playerID)
	}

	if assignment.Status != status {
		if !assignment.Status.CanTransitionTo(status) {
			return nil, rosterr.InvalidTransitionf("cannot move from %s to %s", assignment.Status, status).
				WithMeta("raid_id", raidID).
				WithMeta("player_id", playerID)
		}

		oldRostered, oldBenched := assignment.Status.StatContribution()
		newRostered, newBenched := status.StatContribution()
		assignment.Status = status
		r.addStats(playerID, newRostered-oldRostered, newBenched-oldBenched)
	}

	assignmentCopy := *assignment
	if assignment.Position != nil {
		position := *assignment.Position
		assignmentCopy.Position = &position
	}
	return &assignmentCopy, nil
}

// Remove deletes an assignment and reverses its counter contribution
func (r *InMemoryRepository) Remove(ctx context.Context, raidID, playerID string) error {
	if raidID == "" || playerID == "" {
		return rosterr.InvalidArgument("raid and player IDs are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.key(raidID, playerID)
	assignment, exists := r.assignments[key]
	if !exists {
		return rosterr.NotFoundf("no roster assignment for this player on this raid").
			WithMeta("raid_id", raidID).
			WithMeta("player_id", playerID)
	}

	rostered, benched := assignment.Status.StatContribution()
	r.addStats(playerID, -rostered, -benched)
	delete(r.assignments, key)
	r.total--

	return nil
}

// SwapPair exchanges the character/position/status tuples of two
// assignments on the same raid
func (r *InMemoryRepository) SwapPair(ctx context.Context, raidID, playerIDA, playerIDB string) error {
	if raidID == "" || playerIDA == "" || playerIDB == "" {
		return rosterr.InvalidArgument("raid and both player IDs are required")
	}
	if playerIDA == playerIDB {
		return rosterr.InvalidArgument("cannot swap a player with themselves")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, exists := r.assignments[r.key(raidID, playerIDA)]
	if !exists {
		return rosterr.NotFoundf("no roster assignment for this player on this raid").
			WithMeta("raid_id", raidID).
			WithMeta("player_id", playerIDA)
	}
	b, exists := r.assignments[r.key(raidID, playerIDB)]
	if !exists {
		return rosterr.NotFoundf("no roster assignment for this player on this raid").
			WithMeta("raid_id", raidID).
			WithMeta("player_id", playerIDB)
	}

	aRostered, aBenched := a.Status.StatContribution()
	bRostered, bBenched := b.Status.StatContribution()

	a.CharacterID, b.CharacterID = b.CharacterID, a.CharacterID
	a.CharacterName, b.CharacterName = b.CharacterName, a.CharacterName
	a.Position, b.Position = b.Position, a.Position
	a.Status, b.Status = b.Status, a.Status

	r.addStats(playerIDA, bRostered-aRostered, bBenched-aBenched)
	r.addStats(playerIDB, aRostered-bRostered, aBenched-bBenched)

	return nil
}

// ApplySwap commits an approved swap: requester main to bench, acceptor
// bench to main
func (r *InMemoryRepository) ApplySwap(ctx context.Context, raidID, requesterID, acceptorID string) error {
	if raidID == "" || requesterID == "" || acceptorID == "" {
		return rosterr.InvalidArgument("raid, requester and acceptor IDs are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	requester, exists := r.assignments[r.key(raidID, requesterID)]
	if !exists {
		return rosterr.NotFoundf("no roster assignment for this player on this raid").
			WithMeta("raid_id", raidID).
			WithMeta("player_id", requesterID)
	}
	acceptor, exists := r.assignments[r.key(raidID, acceptorID)]
	if !exists {
		return rosterr.NotFoundf("no roster assignment for this player on this raid").
			WithMeta("raid_id", raidID).
			WithMeta("player_id", acceptorID)
	}

	if requester.Status != entities.AssignmentStatusMain {
		return rosterr.NotEligiblef("requesting player no longer holds a main roster spot").
			WithMeta("raid_id", raidID).
			WithMeta("player_id", requesterID)
	}
	if acceptor.Status != entities.AssignmentStatusBench {
		return rosterr.NotEligiblef("accepting player no longer holds a bench spot").
			WithMeta("raid_id", raidID).
			WithMeta("player_id", acceptorID)
	}

	requester.Status = entities.AssignmentStatusBench
	acceptor.Status = entities.AssignmentStatusMain
	r.addStats(requesterID, -1, 1)
	r.addStats(acceptorID, 1, -1)

	return nil
}

// GetStats returns a player's eager counters
func (r *InMemoryRepository) GetStats(ctx context.Context, playerID string) (int, int, error) {
	if playerID == "" {
		return 0, 0, rosterr.InvalidArgument("player ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stats[playerID]
	if !ok {
		return 0, 0, nil
	}
	return s.rostered, s.benched, nil
}

// CountAssignments returns the total number of assignments
func (r *InMemoryRepository) CountAssignments(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.total, nil
}

// DeleteByRaid removes all of a raid's assignments, reversing their
// counter contributions
func (r *InMemoryRepository) DeleteByRaid(ctx context.Context, raidID string) error {
	if raidID == "" {
		return rosterr.InvalidArgument("raid ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for key, assignment := range r.assignments {
		if assignment.RaidID != raidID {
			continue
		}
		rostered, benched := assignment.Status.StatContribution()
		r.addStats(assignment.PlayerID, -rostered, -benched)
		delete(r.assignments, key)
		r.total--
	}

	return nil
}

// DeleteByPlayer removes a player's assignments everywhere along with
// their counters
func (r *InMemoryRepository) DeleteByPlayer(ctx context.Context, playerID string) error {
	if playerID == "" {
		return rosterr.InvalidArgument("player ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for key, assignment := range r.assignments {
		if assignment.PlayerID != playerID {
			continue
		}
		delete(r.assignments, key)
		r.total--
	}
	delete(r.stats, playerID)

	return nil
}
