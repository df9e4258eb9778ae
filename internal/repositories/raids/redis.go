package raids

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/guildops/raid-roster-discord/internal/dates"
	"github.com/guildops/raid-roster-discord/internal/entities"
	rosterr "github.com/guildops/raid-roster-discord/internal/errors"
)

// watchRetries bounds optimistic transaction retries on contention
const watchRetries = 3

// byDateKey is the sorted set holding raids in date order
const byDateKey = "raids_by_date"

// Data represents the serialized form of a raid in Redis
type Data struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Time      string    `json:"time,omitempty"`
	Timezone  string    `json:"timezone,omitempty"`
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

// NewRedisRepository creates a new Redis-backed raid repository
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

// key generates the Redis key for a raid
func (r *redisRepo) key(id string) string {
	return fmt.Sprintf("raid:%s", id)
}

// dateKey generates the Redis key enforcing date uniqueness
func (r *redisRepo) dateKey(date string) string {
	return fmt.Sprintf("raid_date:%s", date)
}

// Create stores a new raid, enforcing canonical date uniqueness
func (r *redisRepo) Create(ctx context.Context, raid *entities.Raid) error {
	if raid == nil {
		return rosterr.InvalidArgument("raid cannot be nil")
	}
	if raid.ID == "" {
		return rosterr.InvalidArgument("raid ID is required")
	}
	if raid.Date == "" {
		return rosterr.InvalidArgument("raid date is required")
	}

	day, err := dates.Parse(raid.Date)
	if err != nil {
		return err
	}

	jsonData, err := json.Marshal(toData(raid))
	if err != nil {
		return fmt.Errorf("failed to marshal raid: %w", err)
	}

	dateKey := r.dateKey(raid.Date)
	txn := func(tx *redis.Tx) error {
		exists, existsErr := tx.Exists(ctx, dateKey).Result()
		if existsErr != nil {
			return fmt.Errorf("failed to check raid date: %w", existsErr)
		}
		if exists > 0 {
			return rosterr.AlreadyExistsf("a raid already exists on %s", raid.Date).
				WithMeta("date", raid.Date)
		}

		_, pipeErr := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key(raid.ID), jsonData, 0)
			pipe.Set(ctx, dateKey, raid.ID, 0)
			pipe.ZAdd(ctx, byDateKey, redis.Z{
				Score:  float64(day.Unix()),
				Member: raid.ID,
			})
			return nil
		})
		return pipeErr
	}

	for i := 0; i < watchRetries; i++ {
		err = r.client.Watch(ctx, txn, dateKey)
		if err != redis.TxFailedErr {
			break
		}
	}
	if err != nil {
		if rosterr.IsAlreadyExists(err) || rosterr.IsInvalidArgument(err) {
			return err
		}
		return fmt.Errorf("failed to create raid: %w", err)
	}

	return nil
}

// Get retrieves a raid by ID
func (r *redisRepo) Get(ctx context.Context, id string) (*entities.Raid, error) {
	if id == "" {
		return nil, rosterr.InvalidArgument("raid ID is required")
	}

	jsonData, err := r.client.Get(ctx, r.key(id)).Result()
	if err == redis.Nil {
		return nil, rosterr.NotFoundf("raid with ID '%s' not found", id).
			WithMeta("raid_id", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get raid: %w", err)
	}

	var data Data
	if unmarshalErr := json.Unmarshal([]byte(jsonData), &data); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal raid: %w", unmarshalErr)
	}

	return fromData(&data), nil
}

// GetByDate retrieves a raid by its canonical date
func (r *redisRepo) GetByDate(ctx context.Context, date string) (*entities.Raid, error) {
	if date == "" {
		return nil, rosterr.InvalidArgument("raid date is required")
	}

	id, err := r.client.Get(ctx, r.dateKey(date)).Result()
	if err == redis.Nil {
		return nil, rosterr.NotFoundf("no raid scheduled on %s", date).
			WithMeta("date", date)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve raid date: %w", err)
	}

	return r.Get(ctx, id)
}

// List returns all raids ordered by date ascending
func (r *redisRepo) List(ctx context.Context) ([]*entities.Raid, error) {
	ids, err := r.client.ZRange(ctx, byDateKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list raid IDs: %w", err)
	}

	return r.getMany(ctx, ids)
}

// ListBetween returns raids with from <= date < until, date ascending
func (r *redisRepo) ListBetween(ctx context.Context, from, until string) ([]*entities.Raid, error) {
	fromDay, err := dates.Parse(from)
	if err != nil {
		return nil, err
	}
	untilDay, err := dates.Parse(until)
	if err != nil {
		return nil, err
	}

	ids, err := r.client.ZRangeByScore(ctx, byDateKey, &redis.ZRangeBy{
		Min: fmt.Sprintf("%d", fromDay.Unix()),
		Max: fmt.Sprintf("(%d", untilDay.Unix()),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list raid IDs by date: %w", err)
	}

	return r.getMany(ctx, ids)
}

// Delete removes a raid and its indexes
func (r *redisRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return rosterr.InvalidArgument("raid ID is required")
	}

	raid, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.key(id))
	pipe.Del(ctx, r.dateKey(raid.Date))
	pipe.ZRem(ctx, byDateKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete raid: %w", err)
	}

	return nil
}

// getMany fetches raids preserving the given ID order
func (r *redisRepo) getMany(ctx context.Context, ids []string) ([]*entities.Raid, error) {
	raids := make([]*entities.Raid, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			raid, getErr := r.Get(ctx, id)
			if getErr != nil {
				return getErr
			}
			raids[i] = raid
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return raids, nil
}

// toData converts an entity to the data struct for storage
func toData(raid *entities.Raid) *Data {
	return &Data{
		ID:        raid.ID,
		Date:      raid.Date,
		Time:      raid.Time,
		Timezone:  raid.Timezone,
		CreatedAt: raid.CreatedAt,
	}
}

// fromData converts a data struct to an entity
func fromData(data *Data) *entities.Raid {
	return &entities.Raid{
		ID:        data.ID,
		Date:      data.Date,
		Time:      data.Time,
		Timezone:  data.Timezone,
		CreatedAt: data.CreatedAt,
	}
}
