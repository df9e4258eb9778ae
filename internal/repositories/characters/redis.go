package characters

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/guildops/raid-roster-discord/internal/entities"
	rosterr "github.com/guildops/raid-roster-discord/internal/errors"
)

// watchRetries bounds optimistic transaction retries on contention
const watchRetries = 3

// Data represents the serialized form of a character in Redis
type Data struct {
	ID        string    `json:"id"`
	PlayerID  string    `json:"player_id"`
	Name      string    `json:"name"`
	Class     string    `json:"class"`
	Role      string    `json:"role,omitempty"`
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

// NewRedisRepository creates a new Redis-backed character repository
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

// key generates the Redis key for a character
func (r *redisRepo) key(id string) string {
	return fmt.Sprintf("character:%s", id)
}

// playerCharactersKey generates the Redis key for a player's character set
func (r *redisRepo) playerCharactersKey(playerID string) string {
	return fmt.Sprintf("player:%s:characters", playerID)
}

// nameKey generates the Redis key enforcing per-player name uniqueness
func (r *redisRepo) nameKey(playerID, name string) string {
	return fmt.Sprintf("character_name:%s:%s", playerID, strings.ToLower(name))
}

// Create stores a new character, enforcing per-player name uniqueness
func (r *redisRepo) Create(ctx context.Context, character *entities.Character) error {
	if character == nil {
		return rosterr.InvalidArgument("character cannot be nil")
	}
	if character.ID == "" {
		return rosterr.InvalidArgument("character ID is required")
	}
	if character.PlayerID == "" {
		return rosterr.InvalidArgument("character player ID is required")
	}
	if character.Name == "" {
		return rosterr.InvalidArgument("character name is required")
	}

	jsonData, err := json.Marshal(toData(character))
	if err != nil {
		return fmt.Errorf("failed to marshal character: %w", err)
	}

	nameKey := r.nameKey(character.PlayerID, character.Name)
	txn := func(tx *redis.Tx) error {
		exists, existsErr := tx.Exists(ctx, nameKey).Result()
		if existsErr != nil {
			return fmt.Errorf("failed to check character name: %w", existsErr)
		}
		if exists > 0 {
			return rosterr.AlreadyExistsf("character '%s' is already registered for this player", character.Name).
				WithMeta("player_id", character.PlayerID).
				WithMeta("character_name", character.Name)
		}

		_, pipeErr := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key(character.ID), jsonData, 0)
			pipe.Set(ctx, nameKey, character.ID, 0)
			pipe.SAdd(ctx, r.playerCharactersKey(character.PlayerID), character.ID)
			return nil
		})
		return pipeErr
	}

	for i := 0; i < watchRetries; i++ {
		err = r.client.Watch(ctx, txn, nameKey)
		if err != redis.TxFailedErr {
			break
		}
	}
	if err != nil {
		if rosterr.IsAlreadyExists(err) {
			return err
		}
		return fmt.Errorf("failed to create character: %w", err)
	}

	return nil
}

// Get retrieves a character by ID
func (r *redisRepo) Get(ctx context.Context, id string) (*entities.Character, error) {
	if id == "" {
		return nil, rosterr.InvalidArgument("character ID is required")
	}

	jsonData, err := r.client.Get(ctx, r.key(id)).Result()
	if err == redis.Nil {
		return nil, rosterr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get character: %w", err)
	}

	var data Data
	if unmarshalErr := json.Unmarshal([]byte(jsonData), &data); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal character: %w", unmarshalErr)
	}

	return fromData(&data), nil
}

// GetByName retrieves a player's character by name, ignoring case
func (r *redisRepo) GetByName(ctx context.Context, playerID, name string) (*entities.Character, error) {
	if playerID == "" {
		return nil, rosterr.InvalidArgument("player ID is required")
	}
	if name == "" {
		return nil, rosterr.InvalidArgument("character name is required")
	}

	id, err := r.client.Get(ctx, r.nameKey(playerID, name)).Result()
	if err == redis.Nil {
		return nil, rosterr.NotFoundf("character '%s' not found for this player", name).
			WithMeta("player_id", playerID).
			WithMeta("character_name", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve character name: %w", err)
	}

	return r.Get(ctx, id)
}

// ListByPlayer retrieves all characters owned by a player, oldest first
func (r *redisRepo) ListByPlayer(ctx context.Context, playerID string) ([]*entities.Character, error) {
	if playerID == "" {
		return nil, rosterr.InvalidArgument("player ID is required")
	}

	ids, err := r.client.SMembers(ctx, r.playerCharactersKey(playerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list character IDs: %w", err)
	}

	result := make([]*entities.Character, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			character, getErr := r.Get(ctx, id)
			if getErr != nil {
				return getErr
			}
			result[i] = character
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].Name < result[j].Name
	})

	return result, nil
}

// Delete removes a character and its indexes
func (r *redisRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return rosterr.InvalidArgument("character ID is required")
	}

	character, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.key(id))
	pipe.Del(ctx, r.nameKey(character.PlayerID, character.Name))
	pipe.SRem(ctx, r.playerCharactersKey(character.PlayerID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}

	return nil
}

// DeleteByPlayer removes every character owned by a player
func (r *redisRepo) DeleteByPlayer(ctx context.Context, playerID string) error {
	if playerID == "" {
		return rosterr.InvalidArgument("player ID is required")
	}

	characterList, err := r.ListByPlayer(ctx, playerID)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	for _, character := range characterList {
		pipe.Del(ctx, r.key(character.ID))
		pipe.Del(ctx, r.nameKey(playerID, character.Name))
	}
	pipe.Del(ctx, r.playerCharactersKey(playerID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete player characters: %w", err)
	}

	return nil
}

// toData converts an entity to the data struct for storage
func toData(character *entities.Character) *Data {
	return &Data{
		ID:        character.ID,
		PlayerID:  character.PlayerID,
		Name:      character.Name,
		Class:     character.Class.String(),
		Role:      character.Role.String(),
		CreatedAt: character.CreatedAt,
	}
}

// fromData converts a data struct to an entity
func fromData(data *Data) *entities.Character {
	return &entities.Character{
		ID:        data.ID,
		PlayerID:  data.PlayerID,
		Name:      data.Name,
		Class:     entities.Class(data.Class),
		Role:      entities.Role(data.Role),
		CreatedAt: data.CreatedAt,
	}
}
