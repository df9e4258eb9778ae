package swaps

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/guildops/raid-roster-discord/internal/entities"
	rosterr "github.com/guildops/raid-roster-discord/internal/errors"
)

// InMemoryRepository is an in-memory implementation of the swap request
// repository. Useful for testing and development.
type InMemoryRepository struct {
	mu       sync.RWMutex
	nextID   int64
	requests map[int64]*entities.SwapRequest
	open     map[string]int64
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() Repository {
	return &InMemoryRepository{
		requests: make(map[int64]*entities.SwapRequest),
		open:     make(map[string]int64),
	}
}

func (r *InMemoryRepository) openKey(raidID, playerID string) string {
	return raidID + "/" + playerID
}

// Create assigns the next sequence ID and stores the request
func (r *InMemoryRepository) Create(ctx context.Context, request *entities.SwapRequest) error {
	if request == nil {
		return rosterr.InvalidArgument("swap request cannot be nil")
	}
	if request.RaidID == "" || request.RequestingPlayerID == "" {
		return rosterr.InvalidArgument("swap request raid and requesting player IDs are required")
	}
	if !request.Status.IsOpen() {
		return rosterr.InvalidArgumentf("cannot create a swap request in status '%s'", request.Status)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	openKey := r.openKey(request.RaidID, request.RequestingPlayerID)
	if existing, exists := r.open[openKey]; exists {
		return rosterr.AlreadyExistsf("player already has an open swap request on this raid").
			WithMeta("raid_id", request.RaidID).
			WithMeta("player_id", request.RequestingPlayerID).
			WithMeta("request_id", strconv.FormatInt(existing, 10))
	}

	r.nextID++
	request.ID = r.nextID

	requestCopy := *request
	if request.ResolvedAt != nil {
		resolvedAt := *request.ResolvedAt
		requestCopy.ResolvedAt = &resolvedAt
	}
	r.requests[request.ID] = &requestCopy
	r.open[openKey] = request.ID

	return nil
}

// Get retrieves a swap request by its numeric ID
func (r *InMemoryRepository) Get(ctx context.Context, id int64) (*entities.SwapRequest, error) {
	if id <= 0 {
		return nil, rosterr.InvalidArgument("swap request ID must be positive")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	request, exists := r.requests[id]
	if !exists {
		return nil, rosterr.NotFoundf("swap request #%d not found", id).
			WithMeta("request_id", strconv.FormatInt(id, 10))
	}

	requestCopy := *request
	if request.ResolvedAt != nil {
		resolvedAt := *request.ResolvedAt
		requestCopy.ResolvedAt = &resolvedAt
	}
	return &requestCopy, nil
}

// Update persists a request after a lifecycle change
func (r *InMemoryRepository) Update(ctx context.Context, request *entities.SwapRequest) error {
	if request == nil {
		return rosterr.InvalidArgument("swap request cannot be nil")
	}
	if request.ID <= 0 {
		return rosterr.InvalidArgument("swap request ID must be positive")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.requests[request.ID]; !exists {
		return rosterr.NotFoundf("swap request #%d not found", request.ID).
			WithMeta("request_id", strconv.FormatInt(request.ID, 10))
	}

	requestCopy := *request
	if request.ResolvedAt != nil {
		resolvedAt := *request.ResolvedAt
		requestCopy.ResolvedAt = &resolvedAt
	}
	r.requests[request.ID] = &requestCopy

	if request.Status.IsTerminal() {
		openKey := r.openKey(request.RaidID, request.RequestingPlayerID)
		if r.open[openKey] == request.ID {
			delete(r.open, openKey)
		}
	}

	return nil
}

// collect returns copies of requests matching the filter, oldest first
func (r *InMemoryRepository) collect(match func(*entities.SwapRequest) bool) []*entities.SwapRequest {
	var result []*entities.SwapRequest
	for _, request := range r.requests {
		if !match(request) {
			continue
		}
		requestCopy := *request
		if request.ResolvedAt != nil {
			resolvedAt := *request.ResolvedAt
			requestCopy.ResolvedAt = &resolvedAt
		}
		result = append(result, &requestCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// ListByRaid returns all requests on a raid, oldest first
func (r *InMemoryRepository) ListByRaid(ctx context.Context, raidID string) ([]*entities.SwapRequest, error) {
	if raidID == "" {
		return nil, rosterr.InvalidArgument("raid ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(request *entities.SwapRequest) bool {
		return request.RaidID == raidID
	}), nil
}

// ListByPlayer returns all requests a player is party to, oldest first
func (r *InMemoryRepository) ListByPlayer(ctx context.Context, playerID string) ([]*entities.SwapRequest, error) {
	if playerID == "" {
		return nil, rosterr.InvalidArgument("player ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(request *entities.SwapRequest) bool {
		return request.RequestingPlayerID == playerID || request.AcceptingPlayerID == playerID
	}), nil
}

// ListOpen returns all pending and accepted requests, oldest first
func (r *InMemoryRepository) ListOpen(ctx context.Context) ([]*entities.SwapRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(request *entities.SwapRequest) bool {
		return request.Status.IsOpen()
	}), nil
}

// CountOpen returns the number of open requests
func (r *InMemoryRepository) CountOpen(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, request := range r.requests {
		if request.Status.IsOpen() {
			count++
		}
	}
	return count, nil
}

// DeleteByRaid removes every request on a raid
func (r *InMemoryRepository) DeleteByRaid(ctx context.Context, raidID string) error {
	if raidID == "" {
		return rosterr.InvalidArgument("raid ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, request := range r.requests {
		if request.RaidID != raidID {
			continue
		}
		delete(r.open, r.openKey(request.RaidID, request.RequestingPlayerID))
		delete(r.requests, id)
	}

	return nil
}

// DeleteByPlayer removes every request a player is party to
func (r *InMemoryRepository) DeleteByPlayer(ctx context.Context, playerID string) error {
	if playerID == "" {
		return rosterr.InvalidArgument("player ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, request := range r.requests {
		if request.RequestingPlayerID != playerID && request.AcceptingPlayerID != playerID {
			continue
		}
		delete(r.open, r.openKey(request.RaidID, request.RequestingPlayerID))
		delete(r.requests, id)
	}

	return nil
}
