package players

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/guildops/raid-roster-discord/internal/entities"
	rosterr "github.com/guildops/raid-roster-discord/internal/errors"
)

// watchRetries bounds optimistic transaction retries on contention
const watchRetries = 3

// Data represents the serialized form of a player in Redis
type Data struct {
	ID        string    `json:"id"`
	DiscordID string    `json:"discord_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// redisRepo implements the Repository interface using Redis
type redisRepo struct {
	client redis.UniversalClient
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

// NewRedisRepository creates a new Redis-backed player repository
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

// key generates the Redis key for a player
func (r *redisRepo) key(id string) string {
	return fmt.Sprintf("player:%s", id)
}

// discordKey generates the Redis key indexing a Discord account to a player ID
func (r *redisRepo) discordKey(discordID string) string {
	return fmt.Sprintf("player_discord:%s", discordID)
}

// byCreatedKey is the sorted set holding players in registration order
const byCreatedKey = "players_by_created"

// Create stores a new player, enforcing Discord ID uniqueness
func (r *redisRepo) Create(ctx context.Context, player *entities.Player) error {
	if player == nil {
		return rosterr.InvalidArgument("player cannot be nil")
	}
	if player.ID == "" {
		return rosterr.InvalidArgument("player ID is required")
	}
	if player.DiscordID == "" {
		return rosterr.InvalidArgument("player discord ID is required")
	}

	jsonData, err := json.Marshal(toData(player))
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	txn := func(tx *redis.Tx) error {
		exists, existsErr := tx.Exists(ctx, r.discordKey(player.DiscordID)).Result()
		if existsErr != nil {
			return fmt.Errorf("failed to check player existence: %w", existsErr)
		}
		if exists > 0 {
			return rosterr.AlreadyExistsf("player with discord ID '%s' is already registered", player.DiscordID).
				WithMeta("discord_id", player.DiscordID)
		}

		_, pipeErr := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key(player.ID), jsonData, 0)
			pipe.Set(ctx, r.discordKey(player.DiscordID), player.ID, 0)
			pipe.ZAdd(ctx, byCreatedKey, redis.Z{
				Score:  float64(player.CreatedAt.UnixNano()),
				Member: player.ID,
			})
			return nil
		})
		return pipeErr
	}

	for i := 0; i < watchRetries; i++ {
		err = r.client.Watch(ctx, txn, r.discordKey(player.DiscordID))
		if err != redis.TxFailedErr {
			break
		}
	}
	if err != nil {
		if rosterr.IsAlreadyExists(err) {
			return err
		}
		return fmt.Errorf("failed to create player: %w", err)
	}

	return nil
}

// Get retrieves a player by ID
func (r *redisRepo) Get(ctx context.Context, id string) (*entities.Player, error) {
	if id == "" {
		return nil, rosterr.InvalidArgument("player ID is required")
	}

	jsonData, err := r.client.Get(ctx, r.key(id)).Result()
	if err == redis.Nil {
		return nil, rosterr.NotFoundf("player with ID '%s' not found", id).
			WithMeta("player_id", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	var data Data
	if unmarshalErr := json.Unmarshal([]byte(jsonData), &data); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal player: %w", unmarshalErr)
	}

	return fromData(&data), nil
}

// GetByDiscordID retrieves a player by their Discord account ID
func (r *redisRepo) GetByDiscordID(ctx context.Context, discordID string) (*entities.Player, error) {
	if discordID == "" {
		return nil, rosterr.InvalidArgument("discord ID is required")
	}

	id, err := r.client.Get(ctx, r.discordKey(discordID)).Result()
	if err == redis.Nil {
		return nil, rosterr.NotFoundf("no player registered for discord ID '%s'", discordID).
			WithMeta("discord_id", discordID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve discord ID: %w", err)
	}

	return r.Get(ctx, id)
}

// List returns all players in registration order
func (r *redisRepo) List(ctx context.Context) ([]*entities.Player, error) {
	ids, err := r.client.ZRange(ctx, byCreatedKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list player IDs: %w", err)
	}

	playerList := make([]*entities.Player, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			player, getErr := r.Get(ctx, id)
			if getErr != nil {
				return getErr
			}
			playerList[i] = player
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return playerList, nil
}

// Update updates an existing player, preserving the registration time
func (r *redisRepo) Update(ctx context.Context, player *entities.Player) error {
	if player == nil {
		return rosterr.InvalidArgument("player cannot be nil")
	}
	if player.ID == "" {
		return rosterr.InvalidArgument("player ID is required")
	}

	existing, err := r.Get(ctx, player.ID)
	if err != nil {
		return err
	}

	data := toData(player)
	data.CreatedAt = existing.CreatedAt
	data.DiscordID = existing.DiscordID

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	if err := r.client.Set(ctx, r.key(player.ID), jsonData, 0).Err(); err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	return nil
}

// Delete removes a player and their indexes
func (r *redisRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return rosterr.InvalidArgument("player ID is required")
	}

	player, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.key(id))
	pipe.Del(ctx, r.discordKey(player.DiscordID))
	pipe.ZRem(ctx, byCreatedKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}

	return nil
}

// toData converts an entity to the data struct for storage
func toData(player *entities.Player) *Data {
	return &Data{
		ID:        player.ID,
		DiscordID: player.DiscordID,
		Name:      player.Name,
		CreatedAt: player.CreatedAt,
	}
}

// fromData converts a data struct to an entity. Counters stay zero here;
// the player service hydrates them from the roster ledger.
func fromData(data *Data) *entities.Player {
	return &entities.Player{
		ID:        data.ID,
		DiscordID: data.DiscordID,
		Name:      data.Name,
		CreatedAt: data.CreatedAt,
	}
}
