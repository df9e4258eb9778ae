package swaps

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/guildops/raid-roster-discord/internal/entities"
	rosterr "github.com/guildops/raid-roster-discord/internal/errors"
)

// watchRetries bounds optimistic transaction retries on contention
const watchRetries = 3

const (
	nextIDKey  = "swap_request:next_id"
	openSetKey = "swaps_open"
)

// Data represents the serialized form of a swap request in Redis
type Data struct {
	ID                 int64      `json:"id"`
	RaidID             string     `json:"raid_id"`
	RequestingPlayerID string     `json:"requesting_player_id"`
	AcceptingPlayerID  string     `json:"accepting_player_id,omitempty"`
	Reason             string     `json:"reason,omitempty"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	ResolvedAt         *time.Time `json:"resolved_at,omitempty"`
	ResolutionNote     string     `json:"resolution_note,omitempty"`
}

// redisRepo implements the Repository interface using Redis
type redisRepo struct {
	client redis.UniversalClient
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

// NewRedisRepository creates a new Redis-backed swap request repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil {
		panic("RedisRepoConfig cannot be nil")
	}
	if cfg.Client == nil {
		panic("Redis client cannot be nil")
	}

	return &redisRepo{
		client: cfg.Client,
	}
}

// key generates the Redis key for a swap request
func (r *redisRepo) key(id int64) string {
	return fmt.Sprintf("swap_request:%d", id)
}

// openKey generates the open-request marker key for a (raid, requester) pair
func (r *redisRepo) openKey(raidID, playerID string) string {
	return fmt.Sprintf("swap_open:%s:%s", raidID, playerID)
}

// raidSwapsKey generates the Redis key for a raid's request index
func (r *redisRepo) raidSwapsKey(raidID string) string {
	return fmt.Sprintf("raid:%s:swaps", raidID)
}

// playerSwapsKey generates the Redis key for a player's involvement index
func (r *redisRepo) playerSwapsKey(playerID string) string {
	return fmt.Sprintf("player:%s:swaps", playerID)
}

// watch runs txn under WATCH with bounded retries on transaction conflicts
func (r *redisRepo) watch(ctx context.Context, txn func(tx *redis.Tx) error, keys ...string) error {
	var err error
	for i := 0; i < watchRetries; i++ {
		err = r.client.Watch(ctx, txn, keys...)
		if err != redis.TxFailedErr {
			break
		}
	}
	return err
}

// Create assigns the next sequence ID and stores the request. The open
// marker is claimed in the same transaction that writes the request, so
// two simultaneous requests by one player can't both land.
func (r *redisRepo) Create(ctx context.Context, request *entities.SwapRequest) error {
	if request == nil {
		return rosterr.InvalidArgument("swap request cannot be nil")
	}
	if request.RaidID == "" || request.RequestingPlayerID == "" {
		return rosterr.InvalidArgument("swap request raid and requesting player IDs are required")
	}
	if !request.Status.IsOpen() {
		return rosterr.InvalidArgumentf("cannot create a swap request in status '%s'", request.Status)
	}

	// Sequence gaps from failed creates are harmless
	id, err := r.client.Incr(ctx, nextIDKey).Result()
	if err != nil {
		return fmt.Errorf("failed to allocate swap request ID: %w", err)
	}
	request.ID = id

	jsonData, err := json.Marshal(toData(request))
	if err != nil {
		return fmt.Errorf("failed to marshal swap request: %w", err)
	}

	openKey := r.openKey(request.RaidID, request.RequestingPlayerID)
	txn := func(tx *redis.Tx) error {
		existing, getErr := tx.Get(ctx, openKey).Result()
		if getErr != nil && getErr != redis.Nil {
			return fmt.Errorf("failed to check open swap request: %w", getErr)
		}
		if getErr == nil {
			return rosterr.AlreadyExistsf("player already has an open swap request on this raid").
				WithMeta("raid_id", request.RaidID).
				WithMeta("player_id", request.RequestingPlayerID).
				WithMeta("request_id", existing)
		}

		_, pipeErr := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key(id), jsonData, 0)
			pipe.Set(ctx, openKey, strconv.FormatInt(id, 10), 0)
			pipe.SAdd(ctx, r.raidSwapsKey(request.RaidID), id)
			pipe.SAdd(ctx, r.playerSwapsKey(request.RequestingPlayerID), id)
			pipe.SAdd(ctx, openSetKey, id)
			return nil
		})
		return pipeErr
	}

	err = r.watch(ctx, txn, openKey)
	if err != nil {
		if rosterr.IsAlreadyExists(err) {
			return err
		}
		return fmt.Errorf("failed to create swap request: %w", err)
	}

	return nil
}

// Get retrieves a swap request by its numeric ID
func (r *redisRepo) Get(ctx context.Context, id int64) (*entities.SwapRequest, error) {
	if id <= 0 {
		return nil, rosterr.InvalidArgument("swap request ID must be positive")
	}

	jsonData, err := r.client.Get(ctx, r.key(id)).Result()
	if err == redis.Nil {
		return nil, rosterr.NotFoundf("swap request #%d not found", id).
			WithMeta("request_id", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get swap request: %w", err)
	}

	var data Data
	if unmarshalErr := json.Unmarshal([]byte(jsonData), &data); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal swap request: %w", unmarshalErr)
	}

	return fromData(&data), nil
}

// Update persists a request after a lifecycle change. An acceptor gains an
// involvement index entry; a terminal status releases the open marker and
// leaves the open set.
func (r *redisRepo) Update(ctx context.Context, request *entities.SwapRequest) error {
	if request == nil {
		return rosterr.InvalidArgument("swap request cannot be nil")
	}
	if request.ID <= 0 {
		return rosterr.InvalidArgument("swap request ID must be positive")
	}

	jsonData, err := json.Marshal(toData(request))
	if err != nil {
		return fmt.Errorf("failed to marshal swap request: %w", err)
	}

	key := r.key(request.ID)
	openKey := r.openKey(request.RaidID, request.RequestingPlayerID)
	idValue := strconv.FormatInt(request.ID, 10)

	txn := func(tx *redis.Tx) error {
		exists, existsErr := tx.Exists(ctx, key).Result()
		if existsErr != nil {
			return fmt.Errorf("failed to check swap request existence: %w", existsErr)
		}
		if exists == 0 {
			return rosterr.NotFoundf("swap request #%d not found", request.ID).
				WithMeta("request_id", idValue)
		}

		// Release the marker only if it still points at this request;
		// a newer request may have claimed it since this one resolved
		releaseMarker := false
		if request.Status.IsTerminal() {
			marker, markerErr := tx.Get(ctx, openKey).Result()
			if markerErr != nil && markerErr != redis.Nil {
				return fmt.Errorf("failed to read open swap marker: %w", markerErr)
			}
			releaseMarker = markerErr == nil && marker == idValue
		}

		_, pipeErr := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, jsonData, 0)
			if request.AcceptingPlayerID != "" {
				pipe.SAdd(ctx, r.playerSwapsKey(request.AcceptingPlayerID), request.ID)
			}
			if request.Status.IsTerminal() {
				pipe.SRem(ctx, openSetKey, request.ID)
				if releaseMarker {
					pipe.Del(ctx, openKey)
				}
			}
			return nil
		})
		return pipeErr
	}

	err = r.watch(ctx, txn, key, openKey)
	if err != nil {
		if rosterr.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("failed to update swap request: %w", err)
	}

	return nil
}

// getMany fetches multiple requests in parallel, sorted oldest first
func (r *redisRepo) getMany(ctx context.Context, members []string) ([]*entities.SwapRequest, error) {
	requests := make([]*entities.SwapRequest, len(members))

	g, ctx := errgroup.WithContext(ctx)
	for i, member := range members {
		g.Go(func() error {
			id, parseErr := strconv.ParseInt(member, 10, 64)
			if parseErr != nil {
				return fmt.Errorf("failed to parse swap request ID '%s': %w", member, parseErr)
			}
			request, getErr := r.Get(ctx, id)
			if getErr != nil {
				return getErr
			}
			requests[i] = request
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Sequence IDs are assigned in creation order
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].ID < requests[j].ID
	})

	return requests, nil
}

// ListByRaid returns all requests on a raid, oldest first
func (r *redisRepo) ListByRaid(ctx context.Context, raidID string) ([]*entities.SwapRequest, error) {
	if raidID == "" {
		return nil, rosterr.InvalidArgument("raid ID is required")
	}

	members, err := r.client.SMembers(ctx, r.raidSwapsKey(raidID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list raid swap requests: %w", err)
	}

	return r.getMany(ctx, members)
}

// ListByPlayer returns all requests a player is party to, oldest first
func (r *redisRepo) ListByPlayer(ctx context.Context, playerID string) ([]*entities.SwapRequest, error) {
	if playerID == "" {
		return nil, rosterr.InvalidArgument("player ID is required")
	}

	members, err := r.client.SMembers(ctx, r.playerSwapsKey(playerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list player swap requests: %w", err)
	}

	return r.getMany(ctx, members)
}

// ListOpen returns all pending and accepted requests, oldest first
func (r *redisRepo) ListOpen(ctx context.Context) ([]*entities.SwapRequest, error) {
	members, err := r.client.SMembers(ctx, openSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list open swap requests: %w", err)
	}

	return r.getMany(ctx, members)
}

// CountOpen returns the number of open requests
func (r *redisRepo) CountOpen(ctx context.Context) (int64, error) {
	count, err := r.client.SCard(ctx, openSetKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count open swap requests: %w", err)
	}
	return count, nil
}

// DeleteByRaid removes every request on a raid along with its index entries
func (r *redisRepo) DeleteByRaid(ctx context.Context, raidID string) error {
	if raidID == "" {
		return rosterr.InvalidArgument("raid ID is required")
	}

	requests, err := r.ListByRaid(ctx, raidID)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	for _, request := range requests {
		pipe.Del(ctx, r.key(request.ID))
		pipe.SRem(ctx, openSetKey, request.ID)
		pipe.SRem(ctx, r.playerSwapsKey(request.RequestingPlayerID), request.ID)
		if request.AcceptingPlayerID != "" {
			pipe.SRem(ctx, r.playerSwapsKey(request.AcceptingPlayerID), request.ID)
		}
		pipe.Del(ctx, r.openKey(raidID, request.RequestingPlayerID))
	}
	pipe.Del(ctx, r.raidSwapsKey(raidID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete raid swap requests: %w", err)
	}

	return nil
}

// DeleteByPlayer removes every request a player is party to along with
// its index entries
func (r *redisRepo) DeleteByPlayer(ctx context.Context, playerID string) error {
	if playerID == "" {
		return rosterr.InvalidArgument("player ID is required")
	}

	requests, err := r.ListByPlayer(ctx, playerID)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	for _, request := range requests {
		pipe.Del(ctx, r.key(request.ID))
		pipe.SRem(ctx, openSetKey, request.ID)
		pipe.SRem(ctx, r.raidSwapsKey(request.RaidID), request.ID)
		pipe.Del(ctx, r.openKey(request.RaidID, request.RequestingPlayerID))
		pipe.SRem(ctx, r.playerSwapsKey(request.RequestingPlayerID), request.ID)
		if request.AcceptingPlayerID != "" {
			pipe.SRem(ctx, r.playerSwapsKey(request.AcceptingPlayerID), request.ID)
		}
	}
	pipe.Del(ctx, r.playerSwapsKey(playerID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete player swap requests: %w", err)
	}

	return nil
}

// toData converts an entity to the data struct for storage
func toData(request *entities.SwapRequest) *Data {
	return &Data{
		ID:                 request.ID,
		RaidID:             request.RaidID,
		RequestingPlayerID: request.RequestingPlayerID,
		AcceptingPlayerID:  request.AcceptingPlayerID,
		Reason:             request.Reason,
		Status:             request.Status.String(),
		CreatedAt:          request.CreatedAt,
		ResolvedAt:         request.ResolvedAt,
		ResolutionNote:     request.ResolutionNote,
	}
}

// fromData converts a data struct to an entity
func fromData(data *Data) *entities.SwapRequest {
	return &entities.SwapRequest{
		ID:                 data.ID,
		RaidID:             data.RaidID,
		RequestingPlayerID: data.RequestingPlayerID,
		AcceptingPlayerID:  data.AcceptingPlayerID,
		Reason:             data.Reason,
		Status:             entities.SwapStatus(data.Status),
		CreatedAt:          data.CreatedAt,
		ResolvedAt:         data.ResolvedAt,
		ResolutionNote:     data.ResolutionNote,
	}
}
