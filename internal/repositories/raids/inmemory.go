package raids

import (
	"context"
	"sort"
	"sync"

	"github.com/guildops/raid-roster-discord/internal/entities"
	rosterr "github.com/guildops/raid-roster-discord/internal/errors"
)

// InMemoryRepository is an in-memory implementation of the raid repository.
// Useful for testing and development.
type InMemoryRepository struct {
	mu     sync.RWMutex
	raids  map[string]*entities.Raid
	byDate map[string]string
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() Repository {
	return &InMemoryRepository{
		raids:  make(map[string]*entities.Raid),
		byDate: make(map[string]string),
	}
}

// Create stores a new raid, enforcing canonical date uniqueness
func (r *InMemoryRepository) Create(ctx context.Context, raid *entities.Raid) error {
	if raid == nil {
		return rosterr.InvalidArgument("raid cannot be nil")
	}
	if raid.ID == "" {
		return rosterr.InvalidArgument("raid ID is required")
	}
	if raid.Date == "" {
		return rosterr.InvalidArgument("raid date is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byDate[raid.Date]; exists {
		return rosterr.AlreadyExistsf("a raid already exists on %s", raid.Date).
			WithMeta("date", raid.Date)
	}

	raidCopy := *raid
	r.raids[raid.ID] = &raidCopy
	r.byDate[raid.Date] = raid.ID

	return nil
}

// Get retrieves a raid by ID
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*entities.Raid, error) {
	if id == "" {
		return nil, rosterr.InvalidArgument("raid ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	raid, exists := r.raids[id]
	if !exists {
		return nil, rosterr.NotFoundf("raid with ID '%s' not found", id).
			WithMeta("raid_id", id)
	}

	raidCopy := *raid
	return &raidCopy, nil
}

// GetByDate retrieves a raid by its canonical date
func (r *InMemoryRepository) GetByDate(ctx context.Context, date string) (*entities.Raid, error) {
	if date == "" {
		return nil, rosterr.InvalidArgument("raid date is required")
	}

	r.mu.RLock()
	id, exists := r.byDate[date]
	r.mu.RUnlock()

	if !exists {
		return nil, rosterr.NotFoundf("no raid scheduled on %s", date).
			WithMeta("date", date)
	}

	return r.Get(ctx, id)
}

// List returns all raids ordered by date ascending
func (r *InMemoryRepository) List(ctx context.Context) ([]*entities.Raid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.Raid, 0, len(r.raids))
	for _, raid := range r.raids {
		raidCopy := *raid
		result = append(result, &raidCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})

	return result, nil
}

// ListBetween returns raids with from <= date < until, date ascending
func (r *InMemoryRepository) ListBetween(ctx context.Context, from, until string) ([]*entities.Raid, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	// canonical dates compare lexicographically
	result := make([]*entities.Raid, 0, len(all))
	for _, raid := range all {
		if raid.Date >= from && raid.Date < until {
			result = append(result, raid)
		}
	}

	return result, nil
}

// Delete removes a raid
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return rosterr.InvalidArgument("raid ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	raid, exists := r.raids[id]
	if !exists {
		return rosterr.NotFoundf("raid with ID '%s' not found", id).
			WithMeta("raid_id", id)
	}

	delete(r.byDate, raid.Date)
	delete(r.raids, id)
	return nil
}
