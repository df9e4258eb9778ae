package rosters

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

// totalKey counts all assignments for the stats overview
const totalKey = "roster_total"

// Data represents the serialized form of an assignment in Redis
type Data struct {
	ID            string    `json:"id"`
	RaidID        string    `json:"raid_id"`
	PlayerID      string    `json:"player_id"`
	CharacterID   string    `json:"character_id"`
	CharacterName string    `json:"character_name"`
	Position      *int      `json:"position,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// redisRepo implements the Repository interface using Redis
type redisRepo struct {
	client redis.UniversalClient
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

// NewRedisRepository creates a new Redis-backed roster ledger
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

// key generates the Redis key for a (raid, player) assignment
func (r *redisRepo) key(raidID, playerID string) string {
	return fmt.Sprintf("roster:%s:%s", raidID, playerID)
}

// raidRosterKey generates the Redis key for a raid's assignment set
func (r *redisRepo) raidRosterKey(raidID string) string {
	return fmt.Sprintf("raid:%s:roster", raidID)
}

// playerRaidsKey generates the Redis key for the raids a player is assigned to
func (r *redisRepo) playerRaidsKey(playerID string) string {
	return fmt.Sprintf("player:%s:raids", playerID)
}

// statsKey generates the Redis key for a player's counter hash
func (r *redisRepo) statsKey(playerID string) string {
	return fmt.Sprintf("player_stats:%s", playerID)
}

// incrStats queues counter adjustments on the pipeline, skipping zero deltas
func (r *redisRepo) incrStats(ctx context.Context, pipe redis.Pipeliner, playerID string, rostered, benched int) {
	if rostered != 0 {
		pipe.HIncrBy(ctx, r.statsKey(playerID), "rostered", int64(rostered))
	}
	if benched != 0 {
		pipe.HIncrBy(ctx, r.statsKey(playerID), "benched", int64(benched))
	}
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

// getForUpdate reads an assignment inside a transaction
func (r *redisRepo) getForUpdate(ctx context.Context, tx *redis.Tx, raidID, playerID string) (*Data, error) {
	jsonData, err := tx.Get(ctx, r.key(raidID, playerID)).Result()
	if err == redis.Nil {
		return nil, rosterr.NotFoundf("no roster assignment for this player on this raid").
			WithMeta("raid_id", raidID).
			WithMeta("player_id", playerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	var data Data
	if unmarshalErr := json.Unmarshal([]byte(jsonData), &data); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal assignment: %w", unmarshalErr)
	}
	return &data, nil
}

// Create stores a new assignment and applies its counter contribution
func (r *redisRepo) Create(ctx context.Context, assignment *entities.RosterAssignment) error {
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

	jsonData, err := json.Marshal(toData(assignment))
	if err != nil {
		return fmt.Errorf("failed to marshal assignment: %w", err)
	}

	key := r.key(assignment.RaidID, assignment.PlayerID)
	txn := func(tx *redis.Tx) error {
		exists, existsErr := tx.Exists(ctx, key).Result()
		if existsErr != nil {
			return fmt.Errorf("failed to check assignment existence: %w", existsErr)
		}
		if exists > 0 {
			return rosterr.AlreadyAssignedf("player already has a roster assignment on this raid").
				WithMeta("raid_id", assignment.RaidID).
				WithMeta("player_id", assignment.PlayerID)
		}

		rostered, benched := assignment.Status.StatContribution()
		_, pipeErr := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, jsonData, 0)
			pipe.SAdd(ctx, r.raidRosterKey(assignment.RaidID), assignment.PlayerID)
			pipe.SAdd(ctx, r.playerRaidsKey(assignment.PlayerID), assignment.RaidID)
			r.incrStats(ctx, pipe, assignment.PlayerID, rostered, benched)
			pipe.IncrBy(ctx, totalKey, 1)
			return nil
		})
		return pipeErr
	}

	err = r.watch(ctx, txn, key)
	if err != nil {
		if rosterr.IsAlreadyAssigned(err) {
			return err
		}
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	return nil
}

// Get retrieves the assignment for a (raid, player) pair
func (r *redisRepo) Get(ctx context.Context, raidID, playerID string) (*entities.RosterAssignment, error) {
	if raidID == "" || playerID == "" {
		return nil, rosterr.InvalidArgument("raid and player IDs are required")
	}

	jsonData, err := r.client.Get(ctx, r.key(raidID, playerID)).Result()
	if err == redis.Nil {
		return nil, rosterr.NotFoundf("no roster assignment for this player on this raid").
			WithMeta("raid_id", raidID).
			WithMeta("player_id", playerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	var data Data
	if unmarshalErr := json.Unmarshal([]byte(jsonData), &data); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal assignment: %w", unmarshalErr)
	}

	return fromData(&data), nil
}

// ListByRaid retrieves all assignments on a raid, unordered
func (r *redisRepo) ListByRaid(ctx context.Context, raidID string) ([]*entities.RosterAssignment, error) {
	if raidID == "" {
		return nil, rosterr.InvalidArgument("raid ID is required")
	}

	playerIDs, err := r.client.SMembers(ctx, r.raidRosterKey(raidID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list raid roster: %w", err)
	}

	assignments := make([]*entities.RosterAssignment, len(playerIDs))

	g, ctx := errgroup.WithContext(ctx)
	for i, playerID := range playerIDs {
		g.Go(func() error {
			assignment, getErr := r.Get(ctx, raidID, playerID)
			if getErr != nil {
				return getErr
			}
			assignments[i] = assignment
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return assignments, nil
}

// ListRaidIDsByPlayer returns the raids a player is assigned to
func (r *redisRepo) ListRaidIDsByPlayer(ctx context.Context, playerID string) ([]string, error) {
	if playerID == "" {
		return nil, rosterr.InvalidArgument("player ID is required")
	}

	raidIDs, err := r.client.SMembers(ctx, r.playerRaidsKey(playerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list player raids: %w", err)
	}

	return raidIDs, nil
}

// UpdateStatus moves an assignment along the transition table and applies
// the counter delta atomically. Same-status calls are accepted no-ops so
// repeated commands never double-count.
func (r *redisRepo) UpdateStatus(ctx context.Context, raidID, playerID string, status entities.AssignmentStatus) (*entities.RosterAssignment, error) {
	if raidID == "" || playerID == "" {
		return nil, rosterr.InvalidArgument("raid and player IDs are required")
	}
	if !status.IsValid() {
		return nil, rosterr.InvalidArgumentf("invalid assignment status '%s'", status)
	}

	key := r.key(raidID, playerID)
	var updated *entities.RosterAssignment

	txn := func(tx *redis.Tx) error {
		data, getErr := r.getForUpdate(ctx, tx, raidID, playerID)
		if getErr != nil {
			return getErr
		}

		current := entities.AssignmentStatus(data.Status)
		if current == status {
			updated = fromData(data)
			return nil
		}
		if !current.CanTransitionTo(status) {
			return rosterr.InvalidTransitionf("cannot move from %s to %s", current, status).
				WithMeta("raid_id", raidID).
				WithMeta("player_id", playerID)
		}

		oldRostered, oldBenched := current.StatContribution()
		newRostered, newBenched := status.StatContribution()

		data.Status = status.String()
		jsonData, marshalErr := json.Marshal(data)
		if marshalErr != nil {
			return fmt.Errorf("failed to marshal assignment: %w", marshalErr)
		}

		_, pipeErr := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, jsonData, 0)
			r.incrStats(ctx, pipe, playerID, newRostered-oldRostered, newBenched-oldBenched)
			return nil
		})
		if pipeErr != nil {
			return pipeErr
		}

		updated = fromData(data)
		return nil
	}

	err := r.watch(ctx, txn, key)
	if err != nil {
		if rosterr.IsNotFound(err) || rosterr.IsInvalidTransition(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update assignment status: %w", err)
	}

	return updated, nil
}

// Remove deletes an assignment and reverses its counter contribution
func (r *redisRepo) Remove(ctx context.Context, raidID, playerID string) error {
	if raidID == "" || playerID == "" {
		return rosterr.InvalidArgument("raid and player IDs are required")
	}

	key := r.key(raidID, playerID)
	txn := func(tx *redis.Tx) error {
		data, getErr := r.getForUpdate(ctx, tx, raidID, playerID)
		if getErr != nil {
			return getErr
		}

		rostered, benched := entities.AssignmentStatus(data.Status).StatContribution()
		_, pipeErr := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.SRem(ctx, r.raidRosterKey(raidID), playerID)
			pipe.SRem(ctx, r.playerRaidsKey(playerID), raidID)
			r.incrStats(ctx, pipe, playerID, -rostered, -benched)
			pipe.DecrBy(ctx, totalKey, 1)
			return nil
		})
		return pipeErr
	}

	err := r.watch(ctx, txn, key)
	if err != nil {
		if rosterr.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("failed to remove assignment: %w", err)
	}

	return nil
}

// SwapPair exchanges the character/position/status tuples of two
// assignments on the same raid; both writes and all counter moves land in
// one transaction
func (r *redisRepo) SwapPair(ctx context.Context, raidID, playerIDA, playerIDB string) error {
	if raidID == "" || playerIDA == "" || playerIDB == "" {
		return rosterr.InvalidArgument("raid and both player IDs are required")
	}
	if playerIDA == playerIDB {
		return rosterr.InvalidArgument("cannot swap a player with themselves")
	}

	keyA := r.key(raidID, playerIDA)
	keyB := r.key(raidID, playerIDB)

	txn := func(tx *redis.Tx) error {
		dataA, errA := r.getForUpdate(ctx, tx, raidID, playerIDA)
		if errA != nil {
			return errA
		}
		dataB, errB := r.getForUpdate(ctx, tx, raidID, playerIDB)
		if errB != nil {
			return errB
		}

		statusA := entities.AssignmentStatus(dataA.Status)
		statusB := entities.AssignmentStatus(dataB.Status)

		// exchange the slot tuples between the two rows
		dataA.CharacterID, dataB.CharacterID = dataB.CharacterID, dataA.CharacterID
		dataA.CharacterName, dataB.CharacterName = dataB.CharacterName, dataA.CharacterName
		dataA.Position, dataB.Position = dataB.Position, dataA.Position
		dataA.Status, dataB.Status = dataB.Status, dataA.Status

		jsonA, marshalErr := json.Marshal(dataA)
		if marshalErr != nil {
			return fmt.Errorf("failed to marshal assignment: %w", marshalErr)
		}
		jsonB, marshalErr := json.Marshal(dataB)
		if marshalErr != nil {
			return fmt.Errorf("failed to marshal assignment: %w", marshalErr)
		}

		aRostered, aBenched := statusA.StatContribution()
		bRostered, bBenched := statusB.StatContribution()

		_, pipeErr := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, keyA, jsonA, 0)
			pipe.Set(ctx, keyB, jsonB, 0)
			// each player picks up the other's contribution
			r.incrStats(ctx, pipe, playerIDA, bRostered-aRostered, bBenched-aBenched)
			r.incrStats(ctx, pipe, playerIDB, aRostered-bRostered, aBenched-bBenched)
			return nil
		})
		return pipeErr
	}

	err := r.watch(ctx, txn, keyA, keyB)
	if err != nil {
		if rosterr.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("failed to swap assignments: %w", err)
	}

	return nil
}

// ApplySwap commits an approved swap: requester main to bench, acceptor
// bench to main, counters adjusted, all in one transaction
func (r *redisRepo) ApplySwap(ctx context.Context, raidID, requesterID, acceptorID string) error {
	if raidID == "" || requesterID == "" || acceptorID == "" {
		return rosterr.InvalidArgument("raid, requester and acceptor IDs are required")
	}

	requesterKey := r.key(raidID, requesterID)
	acceptorKey := r.key(raidID, acceptorID)

	txn := func(tx *redis.Tx) error {
		requester, errA := r.getForUpdate(ctx, tx, raidID, requesterID)
		if errA != nil {
			return errA
		}
		acceptor, errB := r.getForUpdate(ctx, tx, raidID, acceptorID)
		if errB != nil {
			return errB
		}

		if entities.AssignmentStatus(requester.Status) != entities.AssignmentStatusMain {
			return rosterr.NotEligiblef("requesting player no longer holds a main roster spot").
				WithMeta("raid_id", raidID).
				WithMeta("player_id", requesterID)
		}
		if entities.AssignmentStatus(acceptor.Status) != entities.AssignmentStatusBench {
			return rosterr.NotEligiblef("accepting player no longer holds a bench spot").
				WithMeta("raid_id", raidID).
				WithMeta("player_id", acceptorID)
		}

		requester.Status = entities.AssignmentStatusBench.String()
		acceptor.Status = entities.AssignmentStatusMain.String()

		requesterJSON, marshalErr := json.Marshal(requester)
		if marshalErr != nil {
			return fmt.Errorf("failed to marshal assignment: %w", marshalErr)
		}
		acceptorJSON, marshalErr := json.Marshal(acceptor)
		if marshalErr != nil {
			return fmt.Errorf("failed to marshal assignment: %w", marshalErr)
		}

		_, pipeErr := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, requesterKey, requesterJSON, 0)
			pipe.Set(ctx, acceptorKey, acceptorJSON, 0)
			r.incrStats(ctx, pipe, requesterID, -1, 1)
			r.incrStats(ctx, pipe, acceptorID, 1, -1)
			return nil
		})
		return pipeErr
	}

	err := r.watch(ctx, txn, requesterKey, acceptorKey)
	if err != nil {
		if rosterr.IsNotFound(err) || rosterr.IsNotEligible(err) {
			return err
		}
		return fmt.Errorf("failed to apply swap: %w", err)
	}

	return nil
}

// GetStats returns a player's eager counters
func (r *redisRepo) GetStats(ctx context.Context, playerID string) (int, int, error) {
	if playerID == "" {
		return 0, 0, rosterr.InvalidArgument("player ID is required")
	}

	fields, err := r.client.HGetAll(ctx, r.statsKey(playerID)).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get player stats: %w", err)
	}

	rostered := parseCounter(fields["rostered"])
	benched := parseCounter(fields["benched"])
	return rostered, benched, nil
}

// CountAssignments returns the total number of assignments
func (r *redisRepo) CountAssignments(ctx context.Context) (int64, error) {
	total, err := r.client.Get(ctx, totalKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count assignments: %w", err)
	}
	return total, nil
}

// DeleteByRaid removes all of a raid's assignments, reversing their
// counter contributions
func (r *redisRepo) DeleteByRaid(ctx context.Context, raidID string) error {
	if raidID == "" {
		return rosterr.InvalidArgument("raid ID is required")
	}

	assignments, err := r.ListByRaid(ctx, raidID)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	for _, assignment := range assignments {
		rostered, benched := assignment.Status.StatContribution()
		pipe.Del(ctx, r.key(raidID, assignment.PlayerID))
		pipe.SRem(ctx, r.playerRaidsKey(assignment.PlayerID), raidID)
		r.incrStats(ctx, pipe, assignment.PlayerID, -rostered, -benched)
	}
	if len(assignments) > 0 {
		pipe.DecrBy(ctx, totalKey, int64(len(assignments)))
	}
	pipe.Del(ctx, r.raidRosterKey(raidID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete raid roster: %w", err)
	}

	return nil
}

// DeleteByPlayer removes a player's assignments everywhere along with
// their stats hash
func (r *redisRepo) DeleteByPlayer(ctx context.Context, playerID string) error {
	if playerID == "" {
		return rosterr.InvalidArgument("player ID is required")
	}

	raidIDs, err := r.ListRaidIDsByPlayer(ctx, playerID)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	for _, raidID := range raidIDs {
		pipe.Del(ctx, r.key(raidID, playerID))
		pipe.SRem(ctx, r.raidRosterKey(raidID), playerID)
	}
	if len(raidIDs) > 0 {
		pipe.DecrBy(ctx, totalKey, int64(len(raidIDs)))
	}
	pipe.Del(ctx, r.playerRaidsKey(playerID))
	pipe.Del(ctx, r.statsKey(playerID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete player assignments: %w", err)
	}

	return nil
}

// parseCounter reads a counter hash field, treating absence as zero
func parseCounter(value string) int {
	if value == "" {
		return 0
	}
	var n int
	if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
		return 0
	}
	return n
}

// toData converts an entity to the data struct for storage
func toData(assignment *entities.RosterAssignment) *Data {
	return &Data{
		ID:            assignment.ID,
		RaidID:        assignment.RaidID,
		PlayerID:      assignment.PlayerID,
		CharacterID:   assignment.CharacterID,
		CharacterName: assignment.CharacterName,
		Position:      assignment.Position,
		Status:        assignment.Status.String(),
		CreatedAt:     assignment.CreatedAt,
	}
}

// fromData converts a data struct to an entity
func fromData(data *Data) *entities.RosterAssignment {
	return &entities.RosterAssignment{
		ID:            data.ID,
		RaidID:        data.RaidID,
		PlayerID:      data.PlayerID,
		CharacterID:   data.CharacterID,
		CharacterName: data.CharacterName,
		Position:      data.Position,
		Status:        entities.AssignmentStatus(data.Status),
		CreatedAt:     data.CreatedAt,
	}
}
