package raids

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
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

func (s *RedisRepoTestSuite) testRaid(now time.Time) *entities.Raid {
	return &entities.Raid{
		ID:        "raid-1",
		Date:      "2024-02-19",
		Time:      "20:00",
		Timezone:  "ST",
		CreatedAt: now,
	}
}

func (s *RedisRepoTestSuite) marshal(raid *entities.Raid) string {
	jsonData, err := json.Marshal(Data{
		ID:        raid.ID,
		Date:      raid.Date,
		Time:      raid.Time,
		Timezone:  raid.Timezone,
		CreatedAt: raid.CreatedAt,
	})
	s.Require().NoError(err)
	return string(jsonData)
}

func dayScore(date string) float64 {
	day, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		panic(err)
	}
	return float64(day.Unix())
}

func (s *RedisRepoTestSuite) TestCreate() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	raid := s.testRaid(now)
	jsonData := s.marshal(raid)

	s.mock.ExpectWatch("raid_date:2024-02-19")
	s.mock.ExpectExists("raid_date:2024-02-19").SetVal(0)
	s.mock.ExpectTxPipeline()
	s.mock.ExpectSet("raid:raid-1", []byte(jsonData), 0).SetVal("OK")
	s.mock.ExpectSet("raid_date:2024-02-19", "raid-1", 0).SetVal("OK")
	s.mock.ExpectZAdd("raids_by_date", redis.Z{
		Score:  dayScore("2024-02-19"),
		Member: "raid-1",
	}).SetVal(1)
	s.mock.ExpectTxPipelineExec()

	err := s.repo.Create(ctx, raid)
	s.NoError(err)
}

func (s *RedisRepoTestSuite) TestCreateDuplicateDate() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	raid := s.testRaid(now)

	s.mock.ExpectWatch("raid_date:2024-02-19")
	s.mock.ExpectExists("raid_date:2024-02-19").SetVal(1)

	err := s.repo.Create(ctx, raid)
	s.Error(err)
	s.True(rosterr.IsAlreadyExists(err))
}

func (s *RedisRepoTestSuite) TestCreateValidation() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	err := s.repo.Create(ctx, nil)
	s.Error(err)
	s.True(rosterr.IsInvalidArgument(err))

	err = s.repo.Create(ctx, &entities.Raid{Date: "2024-02-19"})
	s.Error(err)
	s.True(rosterr.IsInvalidArgument(err))

	err = s.repo.Create(ctx, &entities.Raid{ID: "raid-1"})
	s.Error(err)
	s.True(rosterr.IsInvalidArgument(err))

	// Dates must already be canonical; nothing reaches Redis otherwise
	raid := s.testRaid(now)
	raid.Date = "19/02/2024"

	err = s.repo.Create(ctx, raid)
	s.Error(err)
	s.True(rosterr.IsInvalidArgument(err))
}

func (s *RedisRepoTestSuite) TestGet() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	raid := s.testRaid(now)
	jsonData := s.marshal(raid)

	// Happy path
	s.mock.ExpectGet("raid:raid-1").SetVal(jsonData)

	got, err := s.repo.Get(ctx, "raid-1")
	s.NoError(err)
	s.Equal("raid-1", got.ID)
	s.Equal("2024-02-19", got.Date)
	s.Equal("20:00", got.Time)
	s.Equal("ST", got.Timezone)

	// Missing key
	s.mock.ExpectGet("raid:missing").RedisNil()

	_, err = s.repo.Get(ctx, "missing")
	s.Error(err)
	s.True(rosterr.IsNotFound(err))

	// Dependency error
	s.mock.ExpectGet("raid:raid-1").SetErr(errors.New("redis error"))

	_, err = s.repo.Get(ctx, "raid-1")
	s.Error(err)

	// Input validation
	_, err = s.repo.Get(ctx, "")
	s.Error(err)
}

func (s *RedisRepoTestSuite) TestGetByDate() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	raid := s.testRaid(now)
	jsonData := s.marshal(raid)

	// Happy path
	s.mock.ExpectGet("raid_date:2024-02-19").SetVal("raid-1")
	s.mock.ExpectGet("raid:raid-1").SetVal(jsonData)

	got, err := s.repo.GetByDate(ctx, "2024-02-19")
	s.NoError(err)
	s.Equal("raid-1", got.ID)

	// No raid on that day
	s.mock.ExpectGet("raid_date:2024-02-20").RedisNil()

	_, err = s.repo.GetByDate(ctx, "2024-02-20")
	s.Error(err)
	s.True(rosterr.IsNotFound(err))

	// Input validation
	_, err = s.repo.GetByDate(ctx, "")
	s.Error(err)
}

func (s *RedisRepoTestSuite) TestList() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	first := &entities.Raid{ID: "raid-1", Date: "2024-02-19", CreatedAt: now}
	second := &entities.Raid{ID: "raid-2", Date: "2024-02-26", CreatedAt: now}

	// Members fetch in parallel, so expectation order can't be pinned
	s.mock.MatchExpectationsInOrder(false)
	s.mock.ExpectZRange("raids_by_date", 0, -1).SetVal([]string{"raid-1", "raid-2"})
	s.mock.ExpectGet("raid:raid-1").SetVal(s.marshal(first))
	s.mock.ExpectGet("raid:raid-2").SetVal(s.marshal(second))

	raidList, err := s.repo.List(ctx)
	s.NoError(err)
	s.Len(raidList, 2)
	s.Equal("raid-1", raidList[0].ID)
	s.Equal("raid-2", raidList[1].ID)
}

func (s *RedisRepoTestSuite) TestListBetween() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	inWindow := &entities.Raid{ID: "raid-1", Date: "2024-02-19", CreatedAt: now}

	// Window is inclusive on from, exclusive on until
	s.mock.MatchExpectationsInOrder(false)
	s.mock.ExpectZRangeByScore("raids_by_date", &redis.ZRangeBy{
		Min: fmt.Sprintf("%d", int64(dayScore("2024-02-19"))),
		Max: fmt.Sprintf("(%d", int64(dayScore("2024-02-26"))),
	}).SetVal([]string{"raid-1"})
	s.mock.ExpectGet("raid:raid-1").SetVal(s.marshal(inWindow))

	raidList, err := s.repo.ListBetween(ctx, "2024-02-19", "2024-02-26")
	s.NoError(err)
	s.Len(raidList, 1)
	s.Equal("raid-1", raidList[0].ID)

	// Bounds must be canonical dates
	_, err = s.repo.ListBetween(ctx, "19th Feb", "2024-02-26")
	s.Error(err)
	s.True(rosterr.IsInvalidArgument(err))
}

func (s *RedisRepoTestSuite) TestDelete() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	raid := s.testRaid(now)

	// Happy path cleans up the date index and the ordering set
	s.mock.ExpectGet("raid:raid-1").SetVal(s.marshal(raid))
	s.mock.ExpectDel("raid:raid-1").SetVal(1)
	s.mock.ExpectDel("raid_date:2024-02-19").SetVal(1)
	s.mock.ExpectZRem("raids_by_date", "raid-1").SetVal(1)

	err := s.repo.Delete(ctx, "raid-1")
	s.NoError(err)

	// Missing raid
	s.mock.ExpectGet("raid:missing").RedisNil()

	err = s.repo.Delete(ctx, "missing")
	s.Error(err)
	s.True(rosterr.IsNotFound(err))

	// Input validation
	err = s.repo.Delete(ctx, "")
	s.Error(err)
}
