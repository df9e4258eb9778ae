package rosters

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/guildops/raid-roster-discord/internal/entities"
	rosterr "github.com/guildops/raid-roster-discord/internal/errors"
)

type RedisRepoTestSuite struct {
	suite.Suite
	mockClient *redis.Client
	mock       redismock.ClientMock
	repo       Repository
}

func (s *RedisRepoTestSuite) SetupTest() {
	s.mockClient, s.mock = redismock.NewClientMock()
	s.repo = NewRedisRepository(&RedisRepoConfig{Client: s.mockClient})
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func (s *RedisRepoTestSuite) marshal(data Data) string {
	jsonData, err := json.Marshal(data)
	s.Require().NoError(err)
	return string(jsonData)
}

func (s *RedisRepoTestSuite) testData(playerID string, status entities.AssignmentStatus, now time.Time) Data {
	return Data{
		ID:            "assignment-" + playerID,
		RaidID:        "raid-1",
		PlayerID:      playerID,
		CharacterID:   "char-" + playerID,
		CharacterName: "Char" + playerID,
		Status:        status.String(),
		CreatedAt:     now,
	}
}

func (s *RedisRepoTestSuite) TestCreate() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	data := s.testData("player-1", entities.AssignmentStatusMain, now)

	s.mock.ExpectWatch("roster:raid-1:player-1")
	s.mock.ExpectExists("roster:raid-1:player-1").SetVal(0)
	s.mock.ExpectTxPipeline()
	s.mock.ExpectSet("roster:raid-1:player-1", []byte(s.marshal(data)), 0).SetVal("OK")
	s.mock.ExpectSAdd("raid:raid-1:roster", "player-1").SetVal(1)
	s.mock.ExpectSAdd("player:player-1:raids", "raid-1").SetVal(1)
	s.mock.ExpectHIncrBy("player_stats:player-1", "rostered", 1).SetVal(1)
	s.mock.ExpectIncrBy("roster_total", 1).SetVal(1)
	s.mock.ExpectTxPipelineExec()

	err := s.repo.Create(ctx, &entities.RosterAssignment{
		ID:            data.ID,
		RaidID:        data.RaidID,
		PlayerID:      data.PlayerID,
		CharacterID:   data.CharacterID,
		CharacterName: data.CharacterName,
		Status:        entities.AssignmentStatusMain,
		CreatedAt:     now,
	})
	s.NoError(err)
}

func (s *RedisRepoTestSuite) TestCreateAlreadyAssigned() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	s.mock.ExpectWatch("roster:raid-1:player-1")
	s.mock.ExpectExists("roster:raid-1:player-1").SetVal(1)

	err := s.repo.Create(ctx, &entities.RosterAssignment{
		ID:        "assignment-player-1",
		RaidID:    "raid-1",
		PlayerID:  "player-1",
		Status:    entities.AssignmentStatusMain,
		CreatedAt: now,
	})
	s.Error(err)
	s.True(rosterr.IsAlreadyAssigned(err))
}

func (s *RedisRepoTestSuite) TestUpdateStatusMainToBench() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	current := s.testData("player-1", entities.AssignmentStatusMain, now)
	next := current
	next.Status = entities.AssignmentStatusBench.String()

	s.mock.ExpectWatch("roster:raid-1:player-1")
	s.mock.ExpectGet("roster:raid-1:player-1").SetVal(s.marshal(current))
	s.mock.ExpectTxPipeline()
	s.mock.ExpectSet("roster:raid-1:player-1", []byte(s.marshal(next)), 0).SetVal("OK")
	s.mock.ExpectHIncrBy("player_stats:player-1", "rostered", -1).SetVal(0)
	s.mock.ExpectHIncrBy("player_stats:player-1", "benched", 1).SetVal(1)
	s.mock.ExpectTxPipelineExec()

	updated, err := s.repo.UpdateStatus(ctx, "raid-1", "player-1", entities.AssignmentStatusBench)
	s.NoError(err)
	s.Equal(entities.AssignmentStatusBench, updated.Status)
}

func (s *RedisRepoTestSuite) TestUpdateStatusSameStatusNoOp() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	current := s.testData("player-1", entities.AssignmentStatusBench, now)

	// No pipeline: nothing is written and no counter moves
	s.mock.ExpectWatch("roster:raid-1:player-1")
	s.mock.ExpectGet("roster:raid-1:player-1").SetVal(s.marshal(current))

	updated, err := s.repo.UpdateStatus(ctx, "raid-1", "player-1", entities.AssignmentStatusBench)
	s.NoError(err)
	s.Equal(entities.AssignmentStatusBench, updated.Status)
}

func (s *RedisRepoTestSuite) TestUpdateStatusInvalidTransition() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	current := s.testData("player-1", entities.AssignmentStatusMain, now)

	s.mock.ExpectWatch("roster:raid-1:player-1")
	s.mock.ExpectGet("roster:raid-1:player-1").SetVal(s.marshal(current))

	_, err := s.repo.UpdateStatus(ctx, "raid-1", "player-1", entities.AssignmentStatusSwap)
	s.Error(err)
	s.True(rosterr.IsInvalidTransition(err))
}

func (s *RedisRepoTestSuite) TestUpdateStatusNotFound() {
	ctx := context.Background()

	s.mock.ExpectWatch("roster:raid-1:ghost")
	s.mock.ExpectGet("roster:raid-1:ghost").RedisNil()

	_, err := s.repo.UpdateStatus(ctx, "raid-1", "ghost", entities.AssignmentStatusBench)
	s.Error(err)
	s.True(rosterr.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestRemove() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	current := s.testData("player-1", entities.AssignmentStatusBench, now)

	s.mock.ExpectWatch("roster:raid-1:player-1")
	s.mock.ExpectGet("roster:raid-1:player-1").SetVal(s.marshal(current))
	s.mock.ExpectTxPipeline()
	s.mock.ExpectDel("roster:raid-1:player-1").SetVal(1)
	s.mock.ExpectSRem("raid:raid-1:roster", "player-1").SetVal(1)
	s.mock.ExpectSRem("player:player-1:raids", "raid-1").SetVal(1)
	s.mock.ExpectHIncrBy("player_stats:player-1", "benched", -1).SetVal(0)
	s.mock.ExpectDecrBy("roster_total", 1).SetVal(0)
	s.mock.ExpectTxPipelineExec()

	err := s.repo.Remove(ctx, "raid-1", "player-1")
	s.NoError(err)
}

func (s *RedisRepoTestSuite) TestApplySwap() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	requester := s.testData("requester", entities.AssignmentStatusMain, now)
	acceptor := s.testData("acceptor", entities.AssignmentStatusBench, now)

	benchedRequester := requester
	benchedRequester.Status = entities.AssignmentStatusBench.String()
	promotedAcceptor := acceptor
	promotedAcceptor.Status = entities.AssignmentStatusMain.String()

	s.mock.ExpectWatch("roster:raid-1:requester", "roster:raid-1:acceptor")
	s.mock.ExpectGet("roster:raid-1:requester").SetVal(s.marshal(requester))
	s.mock.ExpectGet("roster:raid-1:acceptor").SetVal(s.marshal(acceptor))
	s.mock.ExpectTxPipeline()
	s.mock.ExpectSet("roster:raid-1:requester", []byte(s.marshal(benchedRequester)), 0).SetVal("OK")
	s.mock.ExpectSet("roster:raid-1:acceptor", []byte(s.marshal(promotedAcceptor)), 0).SetVal("OK")
	s.mock.ExpectHIncrBy("player_stats:requester", "rostered", -1).SetVal(0)
	s.mock.ExpectHIncrBy("player_stats:requester", "benched", 1).SetVal(1)
	s.mock.ExpectHIncrBy("player_stats:acceptor", "rostered", 1).SetVal(1)
	s.mock.ExpectHIncrBy("player_stats:acceptor", "benched", -1).SetVal(0)
	s.mock.ExpectTxPipelineExec()

	err := s.repo.ApplySwap(ctx, "raid-1", "requester", "acceptor")
	s.NoError(err)
}

func (s *RedisRepoTestSuite) TestApplySwapNotEligible() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	requester := s.testData("requester", entities.AssignmentStatusAbsent, now)
	acceptor := s.testData("acceptor", entities.AssignmentStatusBench, now)

	s.mock.ExpectWatch("roster:raid-1:requester", "roster:raid-1:acceptor")
	s.mock.ExpectGet("roster:raid-1:requester").SetVal(s.marshal(requester))
	s.mock.ExpectGet("roster:raid-1:acceptor").SetVal(s.marshal(acceptor))

	err := s.repo.ApplySwap(ctx, "raid-1", "requester", "acceptor")
	s.Error(err)
	s.True(rosterr.IsNotEligible(err))
}

func (s *RedisRepoTestSuite) TestGetStats() {
	ctx := context.Background()

	// Counters present
	s.mock.ExpectHGetAll("player_stats:player-1").SetVal(map[string]string{
		"rostered": "5",
		"benched":  "2",
	})

	rostered, benched, err := s.repo.GetStats(ctx, "player-1")
	s.NoError(err)
	s.Equal(5, rostered)
	s.Equal(2, benched)

	// Player never rostered
	s.mock.ExpectHGetAll("player_stats:fresh").SetVal(map[string]string{})

	rostered, benched, err = s.repo.GetStats(ctx, "fresh")
	s.NoError(err)
	s.Equal(0, rostered)
	s.Equal(0, benched)

	// Input validation
	_, _, err = s.repo.GetStats(ctx, "")
	s.Error(err)
}

func (s *RedisRepoTestSuite) TestCountAssignments() {
	ctx := context.Background()

	s.mock.ExpectGet("roster_total").SetVal("42")

	total, err := s.repo.CountAssignments(ctx)
	s.NoError(err)
	s.EqualValues(42, total)

	// Fresh store
	s.mock.ExpectGet("roster_total").RedisNil()

	total, err = s.repo.CountAssignments(ctx)
	s.NoError(err)
	s.EqualValues(0, total)
}
